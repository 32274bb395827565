package commands

import (
	"github.com/spf13/cobra"

	"github.com/okessler/sitecache/cmd/sitecache/handlers"
)

// List returns the command that reports all known instances.
func List() *cobra.Command {
	var settingsPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all known cache instances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.List(cmd.Context(), settingsPath, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "Path to settings file (default: /etc/sitecache.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
