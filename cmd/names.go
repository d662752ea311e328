package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var namesType string

// NamesOutput is the JSON envelope for the names command
type NamesOutput struct {
	DataType string   `json:"data_type"`
	Count    int      `json:"count"`
	Names    []string `json:"names"`
}

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List known manufacturers or vehicle categories",
	Long: `List the distinct manufacturer or vehicle category names present in the
loaded data. Vehicle categories are reported as their mapped groups
(2W, 3W, 4W, Other). Results are returned as JSON.

Examples:
  vahan names
  vahan names --type Manufacturer`,
	Run: func(cmd *cobra.Command, args []string) {
		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		names, err := store.Names(namesType)
		if err != nil {
			HandleError(err, "Failed to list names")
		}

		output, err := json.MarshalIndent(NamesOutput{
			DataType: namesType,
			Count:    len(names),
			Names:    names,
		}, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	namesCmd.Flags().StringVarP(&namesType, "type", "t", "Vehicle Category", "Data type: Vehicle Category or Manufacturer")
	rootCmd.AddCommand(namesCmd)
}
