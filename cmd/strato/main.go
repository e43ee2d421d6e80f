// Package main is the entry point for the strato CLI.
//
// strato manages the configuration used by the provider clients: it can
// generate a strato.toml interactively, validate an existing one against the
// per-provider schemas, and show the configuration a provider would resolve.
//
// For detailed usage information, run:
//
//	strato --help
package main

import (
	"fmt"
	"os"

	"github.com/stratoforge/strato/cmd/strato/commands"
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
