package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	assert.Equal(t, "/etc/redis", s.ConfigRoot)
	assert.Equal(t, "/etc/redis/sites", s.OverrideDir)
	assert.Equal(t, "redis-server", s.ServicePrefix)
	assert.Equal(t, 6380, s.PortRangeStart)
	assert.Equal(t, 6400, s.PortRangeEnd)
	require.NoError(t, s.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(_ *Settings) {},
		},
		{
			name:    "missing config root",
			mutate:  func(s *Settings) { s.ConfigRoot = "" },
			wantErr: "config_root is required",
		},
		{
			name:    "missing eviction policy",
			mutate:  func(s *Settings) { s.EvictionPolicy = "" },
			wantErr: "eviction_policy is required",
		},
		{
			name:    "port range start below 1024",
			mutate:  func(s *Settings) { s.PortRangeStart = 80 },
			wantErr: "port_range_start must be within 1024-65535",
		},
		{
			name: "inverted range",
			mutate: func(s *Settings) {
				s.PortRangeStart = 6400
				s.PortRangeEnd = 6380
			},
			wantErr: "below port_range_start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing default file returns defaults", func(t *testing.T) {
		s, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Defaults(), s)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read settings file")
	})

	t.Run("file overrides defaults and re-derives override dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sitecache.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"config_root: /srv/redis\nport_range_start: 7000\nport_range_end: 7010\n"), 0o600))

		s, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/srv/redis", s.ConfigRoot)
		assert.Equal(t, "/srv/redis/sites", s.OverrideDir)
		assert.Equal(t, 7000, s.PortRangeStart)
		assert.Equal(t, "redis-server", s.ServicePrefix)
	})

	t.Run("invalid file fails validation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sitecache.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port_range_end: 99\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings validation failed")
	})
}
