package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shibl",
	Short: "Arabic reading lessons for kids",
	Long: "Shibl: step-by-step Arabic reading lessons with a companion that reacts to every answer.\n\n" +
		"Settings come from SHIBL_* environment variables; the persistent flags override them.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SHIBL_DB env var)")
	rootCmd.PersistentFlags().String("storage", "", "Progress storage: sqlite, memory, redis or none (overrides SHIBL_STORAGE)")
	rootCmd.PersistentFlags().String("log", "", "Log mode: off, dev or prod (overrides SHIBL_LOG_MODE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(versionCmd)
}
