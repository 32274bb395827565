// Package lock serializes provisioning runs on one host.
//
// Two concurrent runs could both see a port as free before either
// commits its override config. A host-wide advisory flock held for
// the whole run closes that window; the provisioner additionally
// re-validates the port right before committing.
package lock

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DefaultPath is the lock file shared by all sitecache runs.
const DefaultPath = "/run/lock/sitecache.lock"

// Lock is a held advisory file lock.
type Lock struct {
	f *os.File
}

// Acquire takes the advisory lock without blocking. A second run on
// the same host gets an immediate error naming the holder file.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("another provisioning run holds %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. Safe to call once.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return l.f.Close()
}
