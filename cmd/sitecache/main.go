// Package main is the entry point for the sitecache CLI.
//
// sitecache provisions isolated per-site cache instances on a single
// host: each site gets its own daemon process, listening port,
// credential, memory ceiling, and service unit.
//
// Commands: provision, list, status, doctor, version.
//
// For detailed usage information, run:
//
//	sitecache --help
package main

import (
	"fmt"
	"os"

	"github.com/okessler/sitecache/cmd/sitecache/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
