package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var queryString string

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the active data source with SQL",
	Long: `Execute the requested QUERY against the active data source. With the
SQLite source the query runs over the annual_registrations and
monthly_registrations tables; with the CSV source it runs in DuckDB, where
scraped files can be read with read_csv.

Examples:
  vahan query --sql "SELECT * FROM annual_registrations LIMIT 5"
  vahan query --sql "SELECT COUNT(*) AS total FROM monthly_registrations"
  vahan query --source csv --sql "SELECT * FROM read_csv('vahan_data/Y_Maker_X_Calendar_Year.csv') LIMIT 5"`,
	Run: func(cmd *cobra.Command, args []string) {
		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		// Cast to the extended interface to access ExecuteQuery
		storeExt, ok := store.(StoreInterfaceExtended)
		if !ok {
			HandleError(fmt.Errorf("data source does not support ExecuteQuery"), "Unsupported operation")
		}

		rows, err := storeExt.ExecuteQuery(queryString)
		if err != nil {
			HandleError(err, "Failed to execute query")
		}

		output, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	queryCmd.Flags().StringVarP(&queryString, "sql", "q", "", "SQL query to execute (required)")
	_ = queryCmd.MarkFlagRequired("sql")
	rootCmd.AddCommand(queryCmd)
}
