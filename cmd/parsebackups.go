package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var parseBackupDir string

var parseBackupsCmd = &cobra.Command{
	Use:   "parse-backups",
	Short: "Rebuild CSV files from saved HTML backups",
	Long: `Re-parse the raw HTML backups saved during scraping and rebuild the CSV
data files without touching the Vahan site. Useful after a parser fix, or to
recover data files that were deleted.

Examples:
  vahan parse-backups
  vahan parse-backups --backup-dir html_backups/`,
	Run: func(cmd *cobra.Command, args []string) {
		parsed, err := RunParseBackups(parseBackupDir, dataDir)
		if err != nil {
			HandleError(err, "Failed to parse backups")
		}

		fmt.Printf("✅ Rebuilt %d CSV file(s) from backups in %s\n", parsed, parseBackupDir)
	},
}

func init() {
	parseBackupsCmd.Flags().StringVarP(&parseBackupDir, "backup-dir", "b", "html_backups/", "Directory containing raw HTML backups")
	rootCmd.AddCommand(parseBackupsCmd)
}
