// Package main is the entry point for the crewboard CLI.
package main

import (
	"os"

	"github.com/crewboard/crewboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
