// Package tui provides a Bubble Tea terminal UI for watching
// per-site instance status.
package tui

import "github.com/okessler/sitecache/internal/registry"

// StatusMsg carries a fresh instance listing with live state.
type StatusMsg struct {
	Instances []registry.Summary
}

// ErrMsg carries a discovery or status-query error.
type ErrMsg struct{ Err error }
