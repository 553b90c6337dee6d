// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "guildgate",
	Short: "GuildGate is the access-control engine for a community platform",
	Long: `GuildGate is the access-control engine for a community platform.
It answers permission questions for group actions, runs the join-request
workflow, and enforces platform-wide time-bounded user bans.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
