// Package main implements the moodtrack CLI: the device service, the login
// re-arm hook, and maintenance commands.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional YAML config file
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "moodtrack",
	Short: "Activity and mood tracking with scheduled reminders",
	Long: `moodtrack logs exercise activities with mood and intensity, schedules daily
hydration and medication reminders, and periodically ingests location fixes.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "moodtrack.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(rearmCmd)
	rootCmd.AddCommand(ingestOnceCmd)
	rootCmd.AddCommand(autostartCmd)
}
