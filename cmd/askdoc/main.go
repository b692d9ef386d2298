package main

import (
	"os"

	"github.com/askdoc-labs/askdoc-cli/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)

	err := cli.Execute()
	cli.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}
