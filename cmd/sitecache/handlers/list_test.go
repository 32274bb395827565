package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okessler/sitecache/internal/registry"
	"github.com/okessler/sitecache/internal/systemd"
)

func TestList_Empty(t *testing.T) {
	settingsPath := testSettings(t)

	output := captureOutput(func() {
		require.NoError(t, List(context.Background(), settingsPath, false))
	})
	assert.Contains(t, output, "No instances provisioned yet")
}

func TestList_RendersInstances(t *testing.T) {
	settingsPath := testSettings(t)
	dir := filepath.Dir(settingsPath)
	writeOverride(t, filepath.Join(dir, "sites"), "shop.example.com", 26385, "256M")
	writeOverride(t, filepath.Join(dir, "sites"), "blog.example.com", 26386, "128M")

	mgr := &fakeManager{active: true}
	origManager := newManager
	defer func() { newManager = origManager }()
	newManager = func() systemd.Manager { return mgr }

	output := captureOutput(func() {
		require.NoError(t, List(context.Background(), settingsPath, false))
	})

	assert.Contains(t, output, "shop.example.com")
	assert.Contains(t, output, "26385")
	assert.Contains(t, output, "blog.example.com")
	assert.Contains(t, output, "[OK] running")
	assert.Contains(t, mgr.calls, "is-active redis-server-shop.example.com.service")
}

func TestList_JSON(t *testing.T) {
	settingsPath := testSettings(t)
	dir := filepath.Dir(settingsPath)
	writeOverride(t, filepath.Join(dir, "sites"), "shop.example.com", 26385, "256M")

	origManager := newManager
	defer func() { newManager = origManager }()
	newManager = func() systemd.Manager { return &fakeManager{} }

	output := captureOutput(func() {
		require.NoError(t, List(context.Background(), settingsPath, true))
	})

	var sums []registry.Summary
	require.NoError(t, json.Unmarshal([]byte(output), &sums))
	require.Len(t, sums, 1)
	assert.Equal(t, "shop.example.com", sums[0].SiteName)
	assert.Equal(t, 26385, sums[0].Port)
	assert.False(t, sums[0].Running)
}

func TestStatus_WatchAndJSONConflict(t *testing.T) {
	err := Status(context.Background(), "", true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestStatus_SnapshotWithoutTTY(t *testing.T) {
	settingsPath := testSettings(t)
	dir := filepath.Dir(settingsPath)
	writeOverride(t, filepath.Join(dir, "sites"), "shop.example.com", 26385, "128M")

	origManager := newManager
	defer func() { newManager = origManager }()
	newManager = func() systemd.Manager { return &fakeManager{} }

	// captureOutput redirects stdout to a pipe, so the watch flag
	// falls back to a plain snapshot.
	output := captureOutput(func() {
		require.NoError(t, Status(context.Background(), settingsPath, true, false))
	})
	assert.Contains(t, output, "shop.example.com")
	assert.Contains(t, output, "[--] stopped")
}

func TestIsInteractiveTTY_Pipe(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		os.Stdout = old
		w.Close()
		r.Close()
	}()

	assert.False(t, isInteractiveTTY())
}
