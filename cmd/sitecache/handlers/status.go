package handlers

import (
	"context"
	"fmt"

	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/ui/tui"
)

// runWatch is swapped in tests.
var runWatch = tui.RunWatch

// Status handles the status command.
//
// Watch mode requires an interactive terminal; piped output falls
// back to a single snapshot so scripts never hang on a dashboard.
func Status(ctx context.Context, settingsPath string, watch, jsonOutput bool) error {
	if watch && jsonOutput {
		return fmt.Errorf("--watch and --json are mutually exclusive")
	}

	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	mgr := newManager()
	reg := registry.New(settings.OverrideDir)

	if watch && isInteractiveTTY() {
		return runWatch(ctx, reg, mgr, settings.ServicePrefix)
	}
	return List(ctx, settingsPath, jsonOutput)
}
