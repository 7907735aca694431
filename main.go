package main

import (
	"os"

	"github.com/createkit/createkit/internal/cli"
	"github.com/createkit/createkit/internal/ui"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		ui.Error(os.Stderr, err)
		os.Exit(1)
	}
}
