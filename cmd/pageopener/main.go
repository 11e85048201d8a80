package main

import (
	"os"

	"github.com/runnerr0/pageopener/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		// go-flags already printed the error.
		os.Exit(1)
	}
}
