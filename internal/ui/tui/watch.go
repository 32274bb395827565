package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/systemd"
)

// RunWatch polls discovery and live unit state until the operator
// quits.
func RunWatch(ctx context.Context, reg *registry.Registry, mgr systemd.Manager, servicePrefix string) error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())

	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()

		p.Send(fetchStatus(ctx, reg, mgr, servicePrefix))
		for {
			select {
			case <-ctx.Done():
				p.Send(ErrMsg{Err: ctx.Err()})
				return
			case <-ticker.C:
				p.Send(fetchStatus(ctx, reg, mgr, servicePrefix))
			}
		}
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if fm, ok := finalModel.(Model); ok && fm.Err != nil && fm.Err != context.Canceled {
		return fm.Err
	}
	return nil
}

func fetchStatus(ctx context.Context, reg *registry.Registry, mgr systemd.Manager, servicePrefix string) tea.Msg {
	sums, err := reg.List(ctx)
	if err != nil {
		return ErrMsg{Err: err}
	}
	return StatusMsg{Instances: registry.WithStatus(ctx, mgr, servicePrefix, sums)}
}
