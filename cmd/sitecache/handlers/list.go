package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/ui"
)

// List handles the list command.
func List(ctx context.Context, settingsPath string, jsonOutput bool) error {
	settings, err := loadSettings(settingsPath)
	if err != nil {
		return err
	}

	mgr := newManager()
	reg := registry.New(settings.OverrideDir)

	sums, err := reg.List(ctx)
	if err != nil {
		return err
	}
	sums = registry.WithStatus(ctx, mgr, settings.ServicePrefix, sums)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sums)
	}

	fmt.Print(ui.RenderInstanceTable(sums, isInteractiveTTY()))
	if len(sums) == 0 {
		fmt.Println("No instances provisioned yet. Run `sitecache provision` to create one.")
	}
	return nil
}
