package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsPath is consulted when no --settings flag is given.
const DefaultSettingsPath = "/etc/sitecache.yaml"

// Load reads settings from path, filling unset fields with defaults.
// An empty path falls back to DefaultSettingsPath; if that file does
// not exist, pure defaults are returned.
func Load(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath
	}

	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := Defaults()
	s.OverrideDir = "" // re-derived below unless the file sets it
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if s.OverrideDir == "" {
		s.OverrideDir = filepath.Join(s.ConfigRoot, "sites")
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed: %w", err)
	}
	return s, nil
}
