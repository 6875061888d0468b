package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sessiond",
	Short: "sessiond - Session-cycle scheduler for an autonomous assistant",
	Long: `sessiond wakes on a fixed interval and drives an external assistant
process through a fixed session cycle: a fresh planning session, several
continuation sessions, and a final reflection session, after which the
cycle starts over.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runCmd)
}
