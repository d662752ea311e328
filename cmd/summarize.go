package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	summarizeFile  string
	summarizeQuery string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize the contents of a scraped CSV file or query",
	Long: `The SUMMARIZE command can be used to easily compute a number of aggregates
over a scraped CSV file or a query. It runs DuckDB's SUMMARIZE, which computes
min, max, approx_unique, avg, std, q25, q50, q75 and count for every column,
along with the column name, column type, and the percentage of NULL values.
Note that the quantiles and percentiles are approximate values.

To summarize a scraped data file, pass its name relative to the data directory:
  vahan summarize --file Y_Maker_X_Calendar_Year.csv

To summarize a query, pass a query:
  vahan summarize --query "SELECT * FROM read_csv('vahan_data/Y_Maker_X_Calendar_Year.csv')"`,
	Run: func(cmd *cobra.Command, args []string) {
		if summarizeFile == "" && summarizeQuery == "" {
			HandleError(fmt.Errorf("file or query is required"), "Missing parameter")
		}

		// SUMMARIZE is DuckDB syntax, so always go through the CSV source
		store, cleanup, err := InitStore(dataDir, "csv", dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		storeExt, ok := store.(StoreInterfaceExtended)
		if !ok {
			HandleError(fmt.Errorf("data source does not support ExecuteQuery"), "Unsupported operation")
		}

		target := summarizeQuery
		if target == "" {
			path := filepath.Join(dataDir, summarizeFile)
			escaped := strings.ReplaceAll(path, "'", "''")
			target = fmt.Sprintf("SELECT * FROM read_csv('%s', all_varchar=true)", escaped)
		}

		rows, err := storeExt.ExecuteQuery(fmt.Sprintf("SUMMARIZE %s", target))
		if err != nil {
			HandleError(err, "Failed to execute summarize query")
		}

		output, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeFile, "file", "f", "", "Scraped CSV file to summarize, relative to the data directory")
	summarizeCmd.Flags().StringVarP(&summarizeQuery, "query", "q", "", "Query to summarize")
	rootCmd.AddCommand(summarizeCmd)
}
