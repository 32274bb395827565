// Package handlers implements command execution for the sitecache CLI.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/okessler/sitecache/internal/config"
	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/systemd"
	"github.com/okessler/sitecache/internal/ui"
)

// newManager is swapped in tests.
var newManager = func() systemd.Manager { return systemd.Client{} }

// isInteractiveTTY reports whether stdout is an interactive terminal.
func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func loadSettings(path string) (*config.Settings, error) {
	s, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// printInstanceReport renders the tabular instance listing with live
// status, shown before and after a provisioning run.
func printInstanceReport(ctx context.Context, reg *registry.Registry, mgr systemd.Manager, servicePrefix string, styled bool) error {
	sums, err := reg.List(ctx)
	if err != nil {
		return err
	}
	sums = registry.WithStatus(ctx, mgr, servicePrefix, sums)
	fmt.Print(ui.RenderInstanceTable(sums, styled))
	return nil
}
