package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feira",
	Short: "Marketplace backend for local produce",
	Long: `feira serves the marketplace API: registration, profiles with
avatars and per-user product listings with images.`,
}

// Execute adds all child commands to the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
