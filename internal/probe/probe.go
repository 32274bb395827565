// Package probe performs the authenticated liveness check against a
// freshly provisioned instance.
//
// The probe is an authenticated PING on the instance's own port with
// its own credential, expecting the exact PONG reply. It is a bounded
// number of short attempts, not an indefinite wait: a unit that is
// active but unreachable should surface quickly.
package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okessler/sitecache/internal/instance"
	"github.com/okessler/sitecache/internal/util/retry"
)

// Prober is the liveness contract the lifecycle controller depends on.
type Prober interface {
	// Ping performs one bounded-retry authenticated liveness check.
	Ping(ctx context.Context, inst instance.Instance) error
}

// RedisProber probes over the Redis protocol.
type RedisProber struct {
	// Attempts is the number of additional tries after the first.
	Attempts int
	// Delay is the initial wait between tries.
	Delay time.Duration
	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

// NewRedisProber returns a prober with bounded, fast-failing defaults.
func NewRedisProber() *RedisProber {
	return &RedisProber{
		Attempts: 4,
		Delay:    500 * time.Millisecond,
		Timeout:  2 * time.Second,
	}
}

// Ping dials the instance and authenticates with its credential. An
// authentication rejection is not retried; the credential will not
// become right by waiting.
func (p *RedisProber) Ping(ctx context.Context, inst instance.Instance) error {
	client := redis.NewClient(&redis.Options{
		Addr:        inst.Addr(),
		Password:    inst.Credential,
		DialTimeout: p.Timeout,
		ReadTimeout: p.Timeout,
		// The probe manages its own attempts.
		MaxRetries: -1,
	})
	defer client.Close()

	err := retry.WithExponentialBackoff(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		reply, err := client.Ping(pingCtx).Result()
		if err != nil {
			if isAuthError(err) {
				return retry.Fatal(fmt.Errorf("authentication rejected: %w", err))
			}
			return err
		}
		if reply != "PONG" {
			return retry.Fatal(fmt.Errorf("unexpected ping reply %q", reply))
		}
		return nil
	},
		retry.WithMaxRetries(p.Attempts),
		retry.WithInitialDelay(p.Delay),
		retry.WithMaxDelay(4*p.Delay),
	)
	if err != nil {
		return fmt.Errorf("liveness probe against %s failed: %w", inst.Addr(), err)
	}
	return nil
}

func isAuthError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "WRONGPASS") ||
		strings.Contains(msg, "NOAUTH") ||
		strings.Contains(msg, "invalid password")
}
