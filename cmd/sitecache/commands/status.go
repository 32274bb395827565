package commands

import (
	"github.com/spf13/cobra"

	"github.com/okessler/sitecache/cmd/sitecache/handlers"
)

// Status returns the command that shows live instance status.
func Status() *cobra.Command {
	var settingsPath string
	var watch, jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show live status of all instances",
		Long: `Show the live service state of every provisioned instance.

With --watch an interactive dashboard refreshes the listing until
quit. With --json a single snapshot is printed for scripting.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), settingsPath, watch, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "Path to settings file (default: /etc/sitecache.yaml)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Continuously refresh the listing")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
