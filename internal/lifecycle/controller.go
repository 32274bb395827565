// Package lifecycle transitions a provisioned instance into service
// and verifies it is alive.
//
// The controller always reloads the service manager first (unit files
// just changed), enables and starts on a fresh install, restarts
// otherwise, waits a bounded settle delay, and then distinguishes two
// failure shapes: the unit never became active, or it is active but
// fails the authenticated liveness probe. The first points at the
// unit logs; the second means the daemon is up but misconfigured or
// unreachable. An inactive unit is not retried; a crash-looping
// daemon should surface immediately.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/logger"
	"github.com/okessler/sitecache/internal/mode"
	"github.com/okessler/sitecache/internal/probe"
	"github.com/okessler/sitecache/internal/systemd"
)

// UnitInactiveError is fatal: the unit failed to reach the active
// state after the transition.
type UnitInactiveError struct {
	Unit    string
	LogHint string
}

func (e *UnitInactiveError) Error() string {
	return fmt.Sprintf("unit %s did not become active; inspect it with: %s", e.Unit, e.LogHint)
}

// ProbeFailedError is fatal and distinct from UnitInactiveError: the
// unit is active but the authenticated liveness probe failed.
type ProbeFailedError struct {
	Unit string
	Err  error
}

func (e *ProbeFailedError) Error() string {
	return fmt.Sprintf("unit %s is active but failed the liveness probe: %v", e.Unit, e.Err)
}

func (e *ProbeFailedError) Unwrap() error { return e.Err }

// Controller drives the service manager and the liveness probe.
type Controller struct {
	mgr    systemd.Manager
	prober probe.Prober
	log    logger.Logger

	// SettleDelay is how long the daemon gets to come up before the
	// active-state query.
	SettleDelay time.Duration
}

// NewController returns a controller with the default settle delay.
func NewController(mgr systemd.Manager, prober probe.Prober, log logger.Logger) *Controller {
	return &Controller{
		mgr:         mgr,
		prober:      prober,
		log:         log,
		SettleDelay: 2 * time.Second,
	}
}

// Apply transitions the instance's unit for the given mode and
// verifies liveness.
func (c *Controller) Apply(ctx context.Context, inst instance.Instance, md mode.Mode) error {
	unitName := inst.Paths.UnitName()

	if err := c.mgr.DaemonReload(ctx); err != nil {
		return fmt.Errorf("service manager reload failed: %w", err)
	}

	switch md {
	case mode.Fresh:
		if err := c.mgr.Enable(ctx, unitName); err != nil {
			return fmt.Errorf("failed to enable %s: %w", unitName, err)
		}
		if err := c.mgr.Start(ctx, unitName); err != nil {
			return fmt.Errorf("failed to start %s: %w", unitName, err)
		}
	case mode.Reconfigure, mode.Reinstall:
		if err := c.mgr.Restart(ctx, unitName); err != nil {
			return fmt.Errorf("failed to restart %s: %w", unitName, err)
		}
	default:
		return fmt.Errorf("mode %s has no lifecycle transition", md)
	}

	c.log.Info("unit transitioned, waiting for settle",
		logger.String("unit", unitName),
		logger.Duration("settle", c.SettleDelay))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.SettleDelay):
	}

	active, err := c.mgr.IsActive(ctx, unitName)
	if err != nil {
		return fmt.Errorf("failed to query state of %s: %w", unitName, err)
	}
	if !active {
		return &UnitInactiveError{Unit: unitName, LogHint: systemd.LogHint(unitName)}
	}

	if err := c.prober.Ping(ctx, inst); err != nil {
		return &ProbeFailedError{Unit: unitName, Err: err}
	}

	c.log.Info("instance verified alive",
		logger.String("site", inst.SiteName),
		logger.Int("port", inst.Port))
	return nil
}
