// Package instance defines the per-site cache instance model.
//
// An Instance is one site's isolated daemon: its own port, memory
// ceiling, credential, and file-system artifacts. All artifact paths
// are derived through the Paths resolver so the naming convention
// exists in exactly one place.
package instance

import (
	"fmt"
	"regexp"
)

// siteNameRegex validates site names: 1-64 lowercase alphanumeric
// characters, dots or hyphens, starting and ending alphanumeric.
var siteNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9.-]{0,62}[a-z0-9])?$`)

// Instance is the fully resolved parameter set for one site.
type Instance struct {
	SiteName       string
	Port           int
	MaxMemory      MemorySize
	Credential     string
	EvictionPolicy string
	Paths          Paths
}

// Addr returns the loopback address the daemon listens on.
func (i Instance) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", i.Port)
}

// ValidateSiteName checks a site name against the naming rules.
func ValidateSiteName(name string) error {
	if !siteNameRegex.MatchString(name) {
		return fmt.Errorf("invalid site name %q: must be 1-64 lowercase alphanumeric characters, dots or hyphens", name)
	}
	return nil
}

// ValidatePort checks a port against the allowed numeric range.
// Allocation-level conflict checks live in the ports package.
func ValidatePort(port int) error {
	if port < 1024 || port > 65535 {
		return fmt.Errorf("port %d out of range 1024-65535", port)
	}
	return nil
}
