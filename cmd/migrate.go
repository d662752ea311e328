package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Load scraped CSV files into the SQLite database",
	Long: `Load all scraped CSV files from the data directory into the SQLite
database. Existing tables are dropped and recreated, so re-running over the
same files always produces the same result.

Prints migration statistics as JSON.

Examples:
  vahan migrate
  vahan migrate --data-dir vahan_data/ --db vahan_data/vahan_data.db`,
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := RunMigration(dataDir, dbPath)
		if err != nil {
			HandleError(err, "Migration failed")
		}

		output, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
