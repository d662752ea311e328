package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	seriesType  string
	seriesTable string
)

var seriesCmd = &cobra.Command{
	Use:   "series [name]",
	Short: "Show the raw registration series for an entity",
	Long: `Show the raw annual or monthly registration rows for a manufacturer or
vehicle category, ordered by period. Results are returned as JSON.

Examples:
  vahan series "HERO MOTOCORP LTD" --type Manufacturer
  vahan series 2W --table monthly`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		var output []byte
		switch seriesTable {
		case "annual":
			records, err := store.AnnualSeries(seriesType, name)
			if err != nil {
				HandleError(err, "Failed to load annual series")
			}
			output, err = json.MarshalIndent(records, "", "  ")
			if err != nil {
				HandleError(err, "Failed to encode JSON")
			}
		case "monthly":
			records, err := store.MonthlySeries(seriesType, name)
			if err != nil {
				HandleError(err, "Failed to load monthly series")
			}
			output, err = json.MarshalIndent(records, "", "  ")
			if err != nil {
				HandleError(err, "Failed to encode JSON")
			}
		default:
			HandleError(fmt.Errorf("unknown table %q", seriesTable), "Table must be annual or monthly")
		}

		fmt.Println(string(output))
	},
}

func init() {
	seriesCmd.Flags().StringVarP(&seriesType, "type", "t", "Vehicle Category", "Data type: Vehicle Category or Manufacturer")
	seriesCmd.Flags().StringVar(&seriesTable, "table", "annual", "Table to read: annual or monthly")
	rootCmd.AddCommand(seriesCmd)
}
