package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "perfume",
	Short:   "Replay and inspect recorded web performance traces",
	Version: version,
	Long: `Perfume measures page performance: paint timing, first input delay,
data consumption, navigation timing and custom user timings.

The CLI replays recorded page sessions (traces) through the same
measurement core a page would run, on a simulated clock, and prints
what would have been logged and reported to analytics.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(replayCmd)
	RootCmd.AddCommand(validateCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(versionCmd)
}
