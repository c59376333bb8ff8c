// Package cli implements the crewboard command line interface.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/crewboard/crewboard/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		" ┌─┐┬─┐┌─┐┬ ┬┌┐ ┌─┐┌─┐┬─┐┌┬┐\n" +
		" │  ├┬┘├┤ │││├┴┐│ │├─┤├┬┘ ││\n" +
		" └─┘┴└─└─┘└┴┘└─┘└─┘┴ ┴┴└──┴┘\n"
)

var rootCmd = &cobra.Command{
	Use:   "crewboard",
	Short: "Crewboard - AI agent task runner",
	Long:  color.CyanString(logo) + "\nRuns AI agents against kanban tasks: prompt assembly, tool use, and board transitions.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
