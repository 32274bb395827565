package commands

import (
	"github.com/spf13/cobra"

	"github.com/okessler/sitecache/cmd/sitecache/handlers"
)

// Provision returns the command that provisions one site's instance.
//
// Missing parameters are collected interactively. For scripted runs,
// supply --site plus --mode (when the instance exists) and --port /
// --memory (for fresh installs and reinstalls) together with --yes.
func Provision() *cobra.Command {
	var opts handlers.ProvisionOptions

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision a cache instance for one site",
		Long: `Provision an isolated cache instance for one site.

The run discovers existing instances, resolves the provisioning mode
(fresh install for a new site; reconfigure, reinstall or cancel for an
existing one), writes the per-site config and service unit, and
transitions the service with an authenticated liveness check.

Examples:
  # Interactive
  sitecache provision

  # Scripted fresh install
  sitecache provision --site shop.example.com --port 6381 --memory 256M --yes

  # Scripted credential rotation
  sitecache provision --site shop.example.com --mode reconfigure --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.SettingsPath, "settings", "", "Path to settings file (default: /etc/sitecache.yaml)")
	cmd.Flags().StringVar(&opts.Site, "site", "", "Site name (prompted when omitted)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "Action for an existing instance: reconfigure, reinstall or cancel")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Listening port (suggested when omitted)")
	cmd.Flags().StringVar(&opts.Memory, "memory", "", "Memory ceiling, e.g. 128M or 2G")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
