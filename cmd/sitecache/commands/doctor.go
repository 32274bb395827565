package commands

import (
	"github.com/spf13/cobra"

	"github.com/okessler/sitecache/cmd/sitecache/handlers"
)

// Doctor returns the command that checks host prerequisites.
func Doctor() *cobra.Command {
	var settingsPath string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host prerequisites for provisioning",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), settingsPath, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "Path to settings file (default: /etc/sitecache.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
