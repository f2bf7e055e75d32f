// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kajilog",
	Short: "kajilog is a shared household-activity tracker",
	Long: `kajilog is a web application for tracking recurring household
activities together. Members sign in with Google, join groups, and always
operate inside the currently selected group.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
