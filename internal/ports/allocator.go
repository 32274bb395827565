// Package ports decides whether candidate ports are usable and
// suggests free ones from a bounded range.
//
// A port counts as in use when a live socket binds it on the host or
// when any existing override config declares it. The suggestion range
// is deliberately narrow so exhaustion is an explicit operator-visible
// failure instead of silent unbounded growth.
package ports

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/registry"
)

// ErrRangeExhausted signals that every port in the configured
// suggestion range is taken.
var ErrRangeExhausted = errors.New("no free port in the configured range")

// ValidationError rejects a malformed candidate port.
type ValidationError struct {
	Port   int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid port %d: %s", e.Port, e.Reason)
}

// ConflictError rejects a port that is already taken. It is
// retryable: interactive callers re-prompt, the provisioner re-runs
// allocation.
type ConflictError struct {
	Port  int
	Owner string // site owning the port, or "" for a live socket
}

func (e *ConflictError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("port %d is already declared by site %s", e.Port, e.Owner)
	}
	return fmt.Sprintf("port %d has a live listener", e.Port)
}

// Allocator checks port availability against the registry and the
// host socket table.
type Allocator struct {
	reg        *registry.Registry
	rangeStart int
	rangeEnd   int

	// bindProbe is swapped in tests to avoid touching real sockets.
	bindProbe func(port int) bool
}

// New returns an allocator suggesting from [rangeStart, rangeEnd].
func New(reg *registry.Registry, rangeStart, rangeEnd int) *Allocator {
	return &Allocator{
		reg:        reg,
		rangeStart: rangeStart,
		rangeEnd:   rangeEnd,
		bindProbe:  liveListener,
	}
}

// liveListener reports whether something already binds the port. A
// successful bind means free; the probe listener is closed at once.
func liveListener(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return true
	}
	_ = ln.Close()
	return false
}

// InUse reports whether a port is taken by a live socket or a
// declared override.
func (a *Allocator) InUse(ctx context.Context, port int) (bool, error) {
	declared, err := a.reg.DeclaredPorts(ctx)
	if err != nil {
		return false, err
	}
	if _, ok := declared[port]; ok {
		return true, nil
	}
	return a.bindProbe(port), nil
}

// Validate checks a user-supplied port: numeric range first, then the
// same in-use predicate suggestion uses. Rejections carry typed
// errors so interactive callers re-prompt and programmatic callers
// can branch.
func (a *Allocator) Validate(ctx context.Context, port int) error {
	if err := instance.ValidatePort(port); err != nil {
		return &ValidationError{Port: port, Reason: "must be within 1024-65535"}
	}
	declared, err := a.reg.DeclaredPorts(ctx)
	if err != nil {
		return err
	}
	if owner, ok := declared[port]; ok {
		return &ConflictError{Port: port, Owner: owner}
	}
	if a.bindProbe(port) {
		return &ConflictError{Port: port}
	}
	return nil
}

// ValidateFor behaves like Validate but tolerates the port being
// declared by the given site itself. Used when an existing instance
// keeps or re-chooses its own port.
func (a *Allocator) ValidateFor(ctx context.Context, site string, port int) error {
	err := a.Validate(ctx, port)
	var conflict *ConflictError
	if errors.As(err, &conflict) && conflict.Owner == site {
		return nil
	}
	return err
}

// Suggest returns the lowest free port in the configured range, or
// ErrRangeExhausted when everything is taken.
func (a *Allocator) Suggest(ctx context.Context) (int, error) {
	for port := a.rangeStart; port <= a.rangeEnd; port++ {
		inUse, err := a.InUse(ctx, port)
		if err != nil {
			return 0, err
		}
		if !inUse {
			return port, nil
		}
	}
	return 0, fmt.Errorf("%w (%d-%d)", ErrRangeExhausted, a.rangeStart, a.rangeEnd)
}
