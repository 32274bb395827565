// Package systemd drives the host service manager for per-site units.
//
// Operations shell out to systemctl with context-aware commands. The
// Manager interface exists so provisioning logic can be tested with
// fakes; Client is the real implementation.
package systemd

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Manager is the service-manager contract the provisioner depends on.
type Manager interface {
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, unit string) error
	Start(ctx context.Context, unit string) error
	Restart(ctx context.Context, unit string) error
	// IsActive reports whether the unit is in the active state.
	// Query failures are returned so callers can decide whether they
	// are fatal; discovery treats them as "stopped".
	IsActive(ctx context.Context, unit string) (bool, error)
}

// Client runs systemctl. The zero value is usable.
type Client struct{}

// runSystemctl is swapped in tests.
var runSystemctl = func(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "systemctl", args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

func (Client) run(ctx context.Context, args ...string) error {
	out, err := runSystemctl(ctx, args...)
	if err != nil {
		if out != "" {
			return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, out)
		}
		return fmt.Errorf("systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (c Client) DaemonReload(ctx context.Context) error {
	return c.run(ctx, "daemon-reload")
}

func (c Client) Enable(ctx context.Context, unit string) error {
	return c.run(ctx, "enable", unit)
}

func (c Client) Start(ctx context.Context, unit string) error {
	return c.run(ctx, "start", unit)
}

func (c Client) Restart(ctx context.Context, unit string) error {
	return c.run(ctx, "restart", unit)
}

func (c Client) IsActive(ctx context.Context, unit string) (bool, error) {
	out, err := runSystemctl(ctx, "is-active", unit)
	if err != nil {
		// systemctl exits nonzero for any non-active state; only treat
		// the recognized states as a clean "no".
		switch out {
		case "inactive", "failed", "activating", "deactivating":
			return false, nil
		}
		return false, fmt.Errorf("systemctl is-active %s: %w", unit, err)
	}
	return out == "active", nil
}

// LogHint returns the command an operator should run to inspect a
// failed unit. Surfaced in lifecycle errors.
func LogHint(unit string) string {
	return fmt.Sprintf("journalctl -u %s -n 50", unit)
}
