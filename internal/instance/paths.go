package instance

import (
	"fmt"
	"path/filepath"

	"github.com/okessler/sitecache/internal/config"
)

// Paths resolves every artifact location for one site. It is built
// once per run and handed to each component; no other package derives
// paths by string convention.
type Paths struct {
	site          string
	confPrefix    string
	servicePrefix string
	configRoot    string
	overrideDir   string
	unitRoot      string
}

// OverrideFileName is the override config filename for a site. It is
// the one naming rule discovery shares with the resolver.
func OverrideFileName(site string) string {
	return fmt.Sprintf("overrides.%s.conf", site)
}

// UnitFileName is the systemd unit name for a site under a service
// prefix, usable with systemctl.
func UnitFileName(servicePrefix, site string) string {
	return fmt.Sprintf("%s-%s.service", servicePrefix, site)
}

// NewPaths builds the path resolver for a site from host settings.
func NewPaths(s *config.Settings, site string) Paths {
	return Paths{
		site:          site,
		confPrefix:    s.ConfPrefix,
		servicePrefix: s.ServicePrefix,
		configRoot:    s.ConfigRoot,
		overrideDir:   s.OverrideDir,
		unitRoot:      s.UnitRoot,
	}
}

// BaseConfig is the per-site configuration entry point.
func (p Paths) BaseConfig() string {
	return filepath.Join(p.configRoot, fmt.Sprintf("%s.%s.conf", p.confPrefix, p.site))
}

// OverrideConfig holds the authoritative mutable settings.
func (p Paths) OverrideConfig() string {
	return filepath.Join(p.overrideDir, OverrideFileName(p.site))
}

// OverrideDir is the directory holding all override configs.
func (p Paths) OverrideDir() string {
	return p.overrideDir
}

// Unit is the per-site systemd unit file.
func (p Paths) Unit() string {
	return filepath.Join(p.unitRoot, p.UnitName())
}

// UnitName is the systemd unit name, usable with systemctl.
func (p Paths) UnitName() string {
	return UnitFileName(p.servicePrefix, p.site)
}

// ServiceAlias is the Install-section alias written into the unit.
func (p Paths) ServiceAlias() string {
	return fmt.Sprintf("%s-%s.service", p.confPrefix, p.site)
}

// LogFile is the daemon log path embedded in the override config.
func (p Paths) LogFile() string {
	return fmt.Sprintf("/var/log/redis/%s-%s.log", p.confPrefix, p.site)
}

// PIDFile is the daemon pid path embedded in the override config.
func (p Paths) PIDFile() string {
	return fmt.Sprintf("/run/redis/%s-%s.pid", p.confPrefix, p.site)
}

// DataFile is the dump file name, relative to the daemon's data dir.
func (p Paths) DataFile() string {
	return fmt.Sprintf("dump-%s.rdb", p.site)
}
