package cmd

import (
	"github.com/spf13/cobra"
)

var (
	dataDir string
	source  string
	dbPath  string
	rootCmd = &cobra.Command{
		Use:   "vahan",
		Short: "Vahan Dashboard - Explore vehicle registration statistics",
		Long: `Vahan Dashboard is a CLI/TUI application for collecting and exploring
vehicle registration statistics published on the Vahan dashboard.

When run without commands, it launches an interactive TUI.
Use subcommands for CLI mode with JSON output.`,
		Run: func(cmd *cobra.Command, args []string) {
			// No subcommand specified - launch TUI
			LaunchTUI(dataDir)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "vahan_data/", "Directory containing CSV data files")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Data source: sqlite or csv (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database (default: <data-dir>/vahan_data.db)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
