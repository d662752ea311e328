package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var (
	insightsType   string
	insightsMetric string
)

var insightsCmd = &cobra.Command{
	Use:   "insights [name]",
	Short: "Generate a plain-language growth summary",
	Long: `Generate a short plain-language summary of the selected entity's growth
trend, rendered as markdown in the terminal.

Examples:
  vahan insights 2W
  vahan insights --type Manufacturer --metric qoq "TATA MOTORS LTD"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		text, err := store.Insights(insightsType, insightsMetric, name)
		if err != nil {
			HandleError(err, "Failed to generate insights")
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			HandleError(err, "Failed to create renderer")
		}

		rendered, err := renderer.Render(text)
		if err != nil {
			// Fall back to the raw markdown
			fmt.Println(text)
			return
		}

		fmt.Print(rendered)
	},
}

func init() {
	insightsCmd.Flags().StringVarP(&insightsType, "type", "t", "Vehicle Category", "Data type: Vehicle Category or Manufacturer")
	insightsCmd.Flags().StringVarP(&insightsMetric, "metric", "m", "yoy", "Growth metric: yoy or qoq")
	rootCmd.AddCommand(insightsCmd)
}
