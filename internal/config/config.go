// Package config holds host-level settings for the sitecache CLI.
//
// Settings describe where artifacts live on the host and the fixed
// policy values applied to every instance. They are loaded from an
// optional YAML file and validated before any provisioning starts.
package config

import (
	"fmt"
	"path/filepath"
)

// Default paths match a stock Debian-style Redis installation.
const (
	DefaultConfigRoot   = "/etc/redis"
	DefaultUnitRoot     = "/etc/systemd/system"
	DefaultWebRoot      = "/var/www"
	DefaultBaseTemplate = "/etc/redis/redis.conf"
	DefaultUnitTemplate = "/lib/systemd/system/redis-server.service"

	DefaultServicePrefix  = "redis-server"
	DefaultConfPrefix     = "redis"
	DefaultEvictionPolicy = "allkeys-lru"
	DefaultRuntimeUser    = "redis"

	DefaultPortRangeStart = 6380
	DefaultPortRangeEnd   = 6400
)

// Settings is the host configuration for all provisioning runs.
type Settings struct {
	// ConfigRoot is the directory holding per-site base configs.
	ConfigRoot string `yaml:"config_root"`
	// OverrideDir holds the per-site override configs. Defaults to
	// <config_root>/sites.
	OverrideDir string `yaml:"override_dir"`
	// UnitRoot is where per-site systemd units are written.
	UnitRoot string `yaml:"unit_root"`
	// WebRoot is scanned for site document roots.
	WebRoot string `yaml:"web_root"`

	// BaseTemplate is the stock daemon config cloned per site.
	BaseTemplate string `yaml:"base_template"`
	// UnitTemplate is the stock systemd unit cloned per site.
	UnitTemplate string `yaml:"unit_template"`

	// ServicePrefix names units <service_prefix>-<site>.service.
	ServicePrefix string `yaml:"service_prefix"`
	// ConfPrefix names base configs <conf_prefix>.<site>.conf.
	ConfPrefix string `yaml:"conf_prefix"`

	// EvictionPolicy is applied to every instance.
	EvictionPolicy string `yaml:"eviction_policy"`
	// RuntimeUser owns override configs; empty skips ownership changes.
	RuntimeUser string `yaml:"runtime_user"`

	// PortRangeStart/End bound automatic port suggestion (inclusive).
	PortRangeStart int `yaml:"port_range_start"`
	PortRangeEnd   int `yaml:"port_range_end"`
}

// Defaults returns settings for a stock host layout.
func Defaults() *Settings {
	s := &Settings{
		ConfigRoot:     DefaultConfigRoot,
		UnitRoot:       DefaultUnitRoot,
		WebRoot:        DefaultWebRoot,
		BaseTemplate:   DefaultBaseTemplate,
		UnitTemplate:   DefaultUnitTemplate,
		ServicePrefix:  DefaultServicePrefix,
		ConfPrefix:     DefaultConfPrefix,
		EvictionPolicy: DefaultEvictionPolicy,
		RuntimeUser:    DefaultRuntimeUser,
		PortRangeStart: DefaultPortRangeStart,
		PortRangeEnd:   DefaultPortRangeEnd,
	}
	s.OverrideDir = filepath.Join(s.ConfigRoot, "sites")
	return s
}

// Validate checks the settings for common errors.
func (s *Settings) Validate() error {
	if s.ConfigRoot == "" {
		return fmt.Errorf("config_root is required")
	}
	if s.OverrideDir == "" {
		return fmt.Errorf("override_dir is required")
	}
	if s.UnitRoot == "" {
		return fmt.Errorf("unit_root is required")
	}
	if s.ServicePrefix == "" {
		return fmt.Errorf("service_prefix is required")
	}
	if s.ConfPrefix == "" {
		return fmt.Errorf("conf_prefix is required")
	}
	if s.EvictionPolicy == "" {
		return fmt.Errorf("eviction_policy is required")
	}
	if s.PortRangeStart < 1024 || s.PortRangeStart > 65535 {
		return fmt.Errorf("port_range_start must be within 1024-65535, got %d", s.PortRangeStart)
	}
	if s.PortRangeEnd < 1024 || s.PortRangeEnd > 65535 {
		return fmt.Errorf("port_range_end must be within 1024-65535, got %d", s.PortRangeEnd)
	}
	if s.PortRangeEnd < s.PortRangeStart {
		return fmt.Errorf("port_range_end %d is below port_range_start %d", s.PortRangeEnd, s.PortRangeStart)
	}
	return nil
}
