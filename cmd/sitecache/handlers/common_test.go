package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/systemd"
)

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// testSettings writes a settings file rooted in a temp dir, with the
// stock templates the materializers clone from. Ownership changes are
// disabled so the tests run unprivileged.
func testSettings(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	baseTemplate := filepath.Join(dir, "redis.conf")
	require.NoError(t, os.WriteFile(baseTemplate, []byte("bind 127.0.0.1\nprotected-mode yes\n"), 0o644))

	unitTemplate := filepath.Join(dir, "redis-server.service")
	unitContent := `[Unit]
Description=Advanced key-value store
After=network.target

[Service]
ExecStart=/usr/bin/redis-server /etc/redis/redis.conf
PIDFile=/run/redis/redis-server.pid
Type=notify

[Install]
WantedBy=multi-user.target
Alias=redis.service
`
	require.NoError(t, os.WriteFile(unitTemplate, []byte(unitContent), 0o644))

	for _, sub := range []string{"sites", "units", "www"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}

	settings := fmt.Sprintf(`config_root: %s
override_dir: %s
unit_root: %s
web_root: %s
base_template: %s
unit_template: %s
runtime_user: ""
port_range_start: 26380
port_range_end: 26400
`, dir, filepath.Join(dir, "sites"), filepath.Join(dir, "units"), filepath.Join(dir, "www"), baseTemplate, unitTemplate)

	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o600))
	return path
}

type fakeManager struct {
	calls      []string
	active     bool
	startErr   error
	restartErr error
}

func (m *fakeManager) DaemonReload(context.Context) error {
	m.calls = append(m.calls, "daemon-reload")
	return nil
}

func (m *fakeManager) Enable(_ context.Context, unit string) error {
	m.calls = append(m.calls, "enable "+unit)
	return nil
}

func (m *fakeManager) Start(_ context.Context, unit string) error {
	m.calls = append(m.calls, "start "+unit)
	return m.startErr
}

func (m *fakeManager) Restart(_ context.Context, unit string) error {
	m.calls = append(m.calls, "restart "+unit)
	return m.restartErr
}

func (m *fakeManager) IsActive(_ context.Context, unit string) (bool, error) {
	m.calls = append(m.calls, "is-active "+unit)
	return m.active, nil
}

type fakeProber struct {
	err    error
	pinged []instance.Instance
}

func (p *fakeProber) Ping(_ context.Context, inst instance.Instance) error {
	p.pinged = append(p.pinged, inst)
	return p.err
}

var _ systemd.Manager = (*fakeManager)(nil)
