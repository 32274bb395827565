package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverride(t *testing.T, dir, site, content string) {
	t.Helper()
	path := filepath.Join(dir, "overrides."+site+".conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
}

func TestListEmpty(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		r := New(filepath.Join(t.TempDir(), "sites"))
		sums, err := r.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sums)
	})

	t.Run("no matching files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
		sums, err := New(dir).List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, sums)
	})
}

func TestListParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "zeta", "port 6381\nmaxmemory 256M\nrequirepass s3cret\n")
	writeOverride(t, dir, "acme", "# comment\nport 6380\nmaxmemory 128M\n")
	writeOverride(t, dir, "bare", "requirepass s3cret\n")

	sums, err := New(dir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 3)

	// Sorted by site name.
	assert.Equal(t, "acme", sums[0].SiteName)
	assert.Equal(t, 6380, sums[0].Port)
	assert.Equal(t, "128M", sums[0].MaxMemory)

	assert.Equal(t, "bare", sums[1].SiteName)
	assert.Equal(t, PortUnknown, sums[1].Port)
	assert.Equal(t, "unknown", sums[1].MaxMemory)

	assert.Equal(t, "zeta", sums[2].SiteName)
	assert.Equal(t, 6381, sums[2].Port)
}

func TestListFirstKeywordWins(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "acme", "port 6380\nport 9999\nmaxmemory 128M\nmaxmemory 1G\n")

	sums, err := New(dir).List(context.Background())
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, 6380, sums[0].Port)
	assert.Equal(t, "128M", sums[0].MaxMemory)
}

func TestLookup(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "acme", "port 6380\nmaxmemory 128M\n")
	r := New(dir)

	t.Run("present", func(t *testing.T) {
		sum, err := r.Lookup(context.Background(), "acme")
		require.NoError(t, err)
		require.NotNil(t, sum)
		assert.Equal(t, 6380, sum.Port)
	})

	t.Run("absent", func(t *testing.T) {
		sum, err := r.Lookup(context.Background(), "ghost")
		require.NoError(t, err)
		assert.Nil(t, sum)
	})

	t.Run("invalid site name", func(t *testing.T) {
		_, err := r.Lookup(context.Background(), "../etc/passwd")
		assert.Error(t, err)
	})
}

func TestDeclaredPorts(t *testing.T) {
	dir := t.TempDir()
	writeOverride(t, dir, "acme", "port 6380\nmaxmemory 128M\n")
	writeOverride(t, dir, "beta", "port 6381\n")
	writeOverride(t, dir, "bare", "maxmemory 64M\n")

	ports, err := New(dir).DeclaredPorts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]string{6380: "acme", 6381: "beta"}, ports)
}

type fakeManager struct {
	active map[string]bool
	err    error
}

func (f *fakeManager) DaemonReload(context.Context) error          { return nil }
func (f *fakeManager) Enable(context.Context, string) error       { return nil }
func (f *fakeManager) Start(context.Context, string) error        { return nil }
func (f *fakeManager) Restart(context.Context, string) error      { return nil }
func (f *fakeManager) IsActive(_ context.Context, unit string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[unit], nil
}

func TestWithStatus(t *testing.T) {
	sums := []Summary{{SiteName: "acme"}, {SiteName: "beta"}}

	t.Run("live state", func(t *testing.T) {
		mgr := &fakeManager{active: map[string]bool{"redis-server-acme.service": true}}
		got := WithStatus(context.Background(), mgr, "redis-server", sums)
		assert.True(t, got[0].Running)
		assert.False(t, got[1].Running)
	})

	t.Run("query error reads as stopped", func(t *testing.T) {
		mgr := &fakeManager{err: errors.New("dbus down")}
		got := WithStatus(context.Background(), mgr, "redis-server", sums)
		assert.False(t, got[0].Running)
		assert.False(t, got[1].Running)
	})
}
