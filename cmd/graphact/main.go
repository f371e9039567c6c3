package main

import (
	"os"

	"github.com/custodia-labs/graph-actions/internal/adapters/driving/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
