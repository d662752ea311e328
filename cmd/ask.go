package cmd

import (
	"context"
	"fmt"

	"charm.land/fantasy"
	"github.com/Programmer-govind/Vehicle-Registration-Dashboard/internal/agent"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question using Claude AI via Fantasy",
	Long: `Ask a natural language question about the registration data and get an
AI-powered answer using Claude Haiku 4.5. This command uses the Fantasy
library to interact with Claude, giving the model tools that wrap the growth,
names, series, insights and query commands.

Requires ANTHROPIC_API_KEY environment variable to be set.

Example:
  vahan ask "Which vehicle category grew fastest in 2024?"
  vahan ask "Compare Hero and Honda registrations over the last three years"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// Get the question from arguments
		question := args[0]

		// Wrap the initialization function to match the agent package's interface
		initStoreWrapper := func(agentDataDir string) (agent.StoreInterface, func(), error) {
			store, cleanup, err := InitStore(agentDataDir, source, dbPath)
			if err != nil {
				return nil, nil, err
			}
			// Wrap the StoreInterface to match agent.StoreInterface
			return &storeInterfaceAdapter{store: store}, cleanup, nil
		}

		// Create the agent using the factory with options
		fantasyAgent, err := agent.NewAskAgent(
			rootCmd,
			agent.WithAPIKeyFromEnv(),
			agent.WithDataDir(dataDir),
			agent.WithStoreInitializer(initStoreWrapper),
		)
		if err != nil {
			HandleError(err, "Failed to create agent")
		}

		ctx := context.Background()

		// Generate the response
		result, err := fantasyAgent.Generate(ctx, fantasy.AgentCall{Prompt: question})
		if err != nil {
			HandleError(err, "Failed to generate response")
		}

		// Print the response
		fmt.Println(result.Response.Content.Text())
	},
}

// storeInterfaceAdapter adapts cmd.StoreInterface to agent.StoreInterface
type storeInterfaceAdapter struct {
	store StoreInterface
}

func (a *storeInterfaceAdapter) Names(dataType string) ([]string, error) {
	return a.store.Names(dataType)
}

func (a *storeInterfaceAdapter) Growth(dataType, metric, name string, fromYear, toYear int) (interface{}, error) {
	points, err := a.store.Growth(dataType, metric, name, fromYear, toYear)
	if err != nil {
		return nil, err
	}
	// Convert []GrowthPointData to []interface{}
	result := make([]interface{}, len(points))
	for i, point := range points {
		result[i] = point
	}
	return result, nil
}

func (a *storeInterfaceAdapter) Series(dataType, name, table string) (interface{}, error) {
	if table == "monthly" {
		return a.store.MonthlySeries(dataType, name)
	}
	return a.store.AnnualSeries(dataType, name)
}

func (a *storeInterfaceAdapter) Insights(dataType, metric, name string) (string, error) {
	return a.store.Insights(dataType, metric, name)
}

func (a *storeInterfaceAdapter) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	// Cast to StoreInterfaceExtended to access ExecuteQuery
	storeExt, ok := a.store.(StoreInterfaceExtended)
	if !ok {
		return nil, fmt.Errorf("data source does not support ExecuteQuery")
	}
	return storeExt.ExecuteQuery(query)
}

func (a *storeInterfaceAdapter) Close() error {
	return a.store.Close()
}

func init() {
	rootCmd.AddCommand(askCmd)
}
