package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okessler/sitecache/internal/instance"
)

// freePort reserves and releases a loopback port so the probe dials
// something guaranteed closed.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestPingUnreachableInstance(t *testing.T) {
	p := &RedisProber{
		Attempts: 1,
		Delay:    5 * time.Millisecond,
		Timeout:  200 * time.Millisecond,
	}

	inst := instance.Instance{SiteName: "acme", Port: freePort(t), Credential: "s3cret"}

	start := time.Now()
	err := p.Ping(context.Background(), inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "liveness probe against "+inst.Addr())
	// Bounded attempts, not indefinite blocking.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPingRespectsContext(t *testing.T) {
	p := NewRedisProber()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inst := instance.Instance{SiteName: "acme", Port: freePort(t), Credential: "s3cret"}
	err := p.Ping(ctx, inst)
	require.Error(t, err)
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, isAuthError(errors.New("WRONGPASS invalid username-password pair")))
	assert.True(t, isAuthError(errors.New("NOAUTH Authentication required")))
	assert.True(t, isAuthError(errors.New("ERR invalid password")))
	assert.False(t, isAuthError(errors.New("connection refused")))
}
