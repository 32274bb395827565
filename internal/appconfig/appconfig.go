// Package appconfig points a site's application at its cache
// instance.
//
// This step is best effort by contract: every failure is collected as
// a warning and the provisioning run still succeeds. The Configurer
// interface keeps the core independent of the external tool's
// invocation details.
package appconfig

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/okessler/sitecache/internal/instance"
)

// Configurer sets cache constants in a site's application and toggles
// its cache-aware plugin.
type Configurer interface {
	// Apply returns accumulated warnings; it never fails the run.
	Apply(ctx context.Context, inst instance.Instance) []error
}

// WPConfigurer integrates with a WordPress site via wp-cli.
type WPConfigurer struct {
	// WebRoot is scanned for <webroot>/<site> application roots.
	WebRoot string

	// runWP is swapped in tests.
	runWP func(ctx context.Context, appRoot string, args ...string) error
}

// NewWPConfigurer returns a configurer scanning the given web root.
func NewWPConfigurer(webRoot string) *WPConfigurer {
	return &WPConfigurer{WebRoot: webRoot, runWP: runWPCLI}
}

func runWPCLI(ctx context.Context, appRoot string, args ...string) error {
	args = append(args, "--path="+appRoot)
	out, err := exec.CommandContext(ctx, "wp", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("wp %v: %w: %s", args[:len(args)-1], err, string(out))
	}
	return nil
}

// DetectRoot locates the site's application root, or "" when the site
// has no integrable application.
func (c *WPConfigurer) DetectRoot(site string) string {
	root := filepath.Join(c.WebRoot, site)
	if _, err := os.Stat(filepath.Join(root, "wp-config.php")); err != nil {
		return ""
	}
	return root
}

// Apply exposes the resolved port and credential to the application
// and activates its cache plugin. Skipped entirely when no
// application root is found.
func (c *WPConfigurer) Apply(ctx context.Context, inst instance.Instance) []error {
	appRoot := c.DetectRoot(inst.SiteName)
	if appRoot == "" {
		return nil
	}

	var warnings []error
	set := func(name, value string) {
		err := c.runWP(ctx, appRoot, "config", "set", name, value, "--type=constant")
		if err != nil {
			warnings = append(warnings, fmt.Errorf("failed to set %s: %w", name, err))
		}
	}

	set("WP_REDIS_HOST", "127.0.0.1")
	set("WP_REDIS_PORT", fmt.Sprintf("%d", inst.Port))
	set("WP_REDIS_PASSWORD", inst.Credential)

	if err := c.runWP(ctx, appRoot, "plugin", "activate", "redis-cache"); err != nil {
		warnings = append(warnings, fmt.Errorf("failed to activate cache plugin: %w", err))
	} else if err := c.runWP(ctx, appRoot, "redis", "enable"); err != nil {
		warnings = append(warnings, fmt.Errorf("failed to enable object cache: %w", err))
	}

	return warnings
}
