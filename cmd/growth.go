package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	growthType   string
	growthMetric string
	growthFrom   int
	growthTo     int
)

// GrowthOutput is the JSON envelope for the growth command
type GrowthOutput struct {
	Name     string            `json:"name"`
	DataType string            `json:"data_type"`
	Metric   string            `json:"metric"`
	Points   []GrowthPointData `json:"points"`
}

var growthCmd = &cobra.Command{
	Use:   "growth [name]",
	Short: "Compute growth for a manufacturer or vehicle category",
	Long: `Compute year-over-year or quarter-over-quarter registration growth for a
manufacturer or vehicle category. Results are returned as JSON, one point per
period, with growth as a percentage against the previous period (null when no
previous period exists).

Examples:
  vahan growth "HERO MOTOCORP LTD"
  vahan growth --type "Vehicle Category" 2W
  vahan growth --metric qoq --from 2022 --to 2024 "TATA MOTORS LTD"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		points, err := store.Growth(growthType, growthMetric, name, growthFrom, growthTo)
		if err != nil {
			HandleError(err, "Failed to compute growth")
		}

		output, err := json.MarshalIndent(GrowthOutput{
			Name:     name,
			DataType: growthType,
			Metric:   growthMetric,
			Points:   points,
		}, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

func init() {
	growthCmd.Flags().StringVarP(&growthType, "type", "t", "Vehicle Category", "Data type: Vehicle Category or Manufacturer")
	growthCmd.Flags().StringVarP(&growthMetric, "metric", "m", "yoy", "Growth metric: yoy or qoq")
	growthCmd.Flags().IntVar(&growthFrom, "from", 0, "First year to include (0 = no lower bound)")
	growthCmd.Flags().IntVar(&growthTo, "to", 0, "Last year to include (0 = no upper bound)")
	rootCmd.AddCommand(growthCmd)
}
