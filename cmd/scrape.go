package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeBackupDir string
	scrapeYears     []string
	scrapeYAxes     []string
	scrapeXAxes     []string
	scrapeHeadless  bool
	scrapeToDB      bool
	scrapeTimeout   time.Duration
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape registration data from the Vahan dashboard",
	Long: `Scrape vehicle registration data from the public Vahan dashboard using a
headless browser. Each y-axis/x-axis/year combination is saved as a CSV file
in the data directory, with raw HTML backups kept alongside.

With --to-db the parsed rows are also inserted into the SQLite database.

Examples:
  vahan scrape
  vahan scrape --years 2024,2023 --y-axes Maker
  vahan scrape --headless=false --to-db`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := ScrapeOptions{
			DataDir:   dataDir,
			BackupDir: scrapeBackupDir,
			Years:     scrapeYears,
			YAxes:     scrapeYAxes,
			XAxes:     scrapeXAxes,
			Headless:  scrapeHeadless,
			ToDB:      scrapeToDB,
			DBPath:    dbPath,
			Timeout:   scrapeTimeout,
		}

		if err := RunScrape(opts); err != nil {
			HandleError(err, "Scrape failed")
		}
	},
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeBackupDir, "backup-dir", "b", "html_backups/", "Directory for raw HTML backups")
	scrapeCmd.Flags().StringSliceVar(&scrapeYears, "years", nil, "Years to scrape (default: 2025 back to 2016)")
	scrapeCmd.Flags().StringSliceVar(&scrapeYAxes, "y-axes", nil, "Y-axis values to scrape (default: Maker, Vehicle Category)")
	scrapeCmd.Flags().StringSliceVar(&scrapeXAxes, "x-axes", nil, "X-axis values to scrape (default: Calendar Year, Month Wise)")
	scrapeCmd.Flags().BoolVar(&scrapeHeadless, "headless", true, "Run the browser headless")
	scrapeCmd.Flags().BoolVar(&scrapeToDB, "to-db", false, "Also insert parsed rows into the SQLite database")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 30*time.Second, "Navigation timeout per page action")
	rootCmd.AddCommand(scrapeCmd)
}
