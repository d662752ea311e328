package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"github.com/spf13/cobra"
)

// CreateToolsFromCommands creates Fantasy tools from all registered Cobra commands
// except for the specified exclusions (e.g., "serve", "ask")
func CreateToolsFromCommands(rootCmd *cobra.Command, dataDir string, exclusions []string, initStore InitStoreFunc) []fantasy.AgentTool {
	var tools []fantasy.AgentTool

	// Iterate through all registered commands
	for _, cobraCmd := range rootCmd.Commands() {
		// Check if command should be excluded
		skip := false
		for _, excl := range exclusions {
			if cobraCmd.Use == excl || strings.HasPrefix(cobraCmd.Use, excl) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		// Create a tool for this command
		tool := createToolForCommand(cobraCmd, dataDir, initStore)
		if tool != nil {
			tools = append(tools, tool)
		}
	}

	return tools
}

// createToolForCommand creates a Fantasy tool from a Cobra command.
// Commands without a tool mapping return nil.
func createToolForCommand(cobraCmd *cobra.Command, dataDir string, initStore InitStoreFunc) *commandTool {
	// Extract the command name (first word in Use)
	cmdName := strings.Split(cobraCmd.Use, " ")[0]

	// Create tool description from command's Short description
	description := cobraCmd.Short
	if description == "" {
		description = fmt.Sprintf("Execute the %s command", cmdName)
	}

	// Create the tool function that calls the underlying functionality directly
	toolFunc := func(ctx context.Context, params map[string]interface{}) (string, error) {
		store, cleanup, err := initStore(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize data store: %v", err)
		}
		defer cleanup()

		var result interface{}

		switch cmdName {
		case "growth":
			name, ok := params["name"].(string)
			if !ok || name == "" {
				return "", fmt.Errorf("name parameter is required")
			}

			dataType := stringParam(params, "data_type", "Vehicle Category")
			metric := stringParam(params, "metric", "yoy")
			fromYear := intParam(params, "from_year", 0)
			toYear := intParam(params, "to_year", 0)

			points, err := store.Growth(dataType, metric, name, fromYear, toYear)
			if err != nil {
				return "", fmt.Errorf("failed to compute growth: %v", err)
			}

			result = points

		case "names":
			dataType := stringParam(params, "data_type", "Vehicle Category")

			names, err := store.Names(dataType)
			if err != nil {
				return "", fmt.Errorf("failed to list names: %v", err)
			}

			result = names

		case "series":
			name, ok := params["name"].(string)
			if !ok || name == "" {
				return "", fmt.Errorf("name parameter is required")
			}

			dataType := stringParam(params, "data_type", "Vehicle Category")
			table := stringParam(params, "table", "annual")

			series, err := store.Series(dataType, name, table)
			if err != nil {
				return "", fmt.Errorf("failed to load series: %v", err)
			}

			result = series

		case "insights":
			name, ok := params["name"].(string)
			if !ok || name == "" {
				return "", fmt.Errorf("name parameter is required")
			}

			dataType := stringParam(params, "data_type", "Vehicle Category")
			metric := stringParam(params, "metric", "yoy")

			text, err := store.Insights(dataType, metric, name)
			if err != nil {
				return "", fmt.Errorf("failed to generate insights: %v", err)
			}

			result = text

		case "query":
			sql, ok := params["sql"].(string)
			if !ok || sql == "" {
				return "", fmt.Errorf("sql parameter is required")
			}

			rows, err := store.ExecuteQuery(sql)
			if err != nil {
				return "", fmt.Errorf("failed to execute query: %v", err)
			}

			result = rows

		default:
			return "", fmt.Errorf("unsupported command: %s", cmdName)
		}

		// Convert result to JSON
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode result as JSON: %v", err)
		}

		return string(jsonBytes), nil
	}

	// Create parameter schema based on command
	var paramSchema map[string]interface{}

	dataTypeProp := map[string]interface{}{
		"type":        "string",
		"description": "Data type to query: 'Vehicle Category' or 'Manufacturer' (default: Vehicle Category)",
	}
	metricProp := map[string]interface{}{
		"type":        "string",
		"description": "Growth metric: 'yoy' for year-over-year or 'qoq' for quarter-over-quarter (default: yoy)",
	}

	switch cmdName {
	case "growth":
		paramSchema = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Manufacturer name or vehicle category group (e.g. '2W', 'HERO MOTOCORP LTD')",
				},
				"data_type": dataTypeProp,
				"metric":    metricProp,
				"from_year": map[string]interface{}{
					"type":        "integer",
					"description": "First year to include (omit for no lower bound)",
				},
				"to_year": map[string]interface{}{
					"type":        "integer",
					"description": "Last year to include (omit for no upper bound)",
				},
			},
			"required": []string{"name"},
		}
	case "names":
		paramSchema = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"data_type": dataTypeProp,
			},
		}
	case "series":
		paramSchema = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Manufacturer name or vehicle category group",
				},
				"data_type": dataTypeProp,
				"table": map[string]interface{}{
					"type":        "string",
					"description": "Which series to read: 'annual' or 'monthly' (default: annual)",
				},
			},
			"required": []string{"name"},
		}
	case "insights":
		paramSchema = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Manufacturer name or vehicle category group",
				},
				"data_type": dataTypeProp,
				"metric":    metricProp,
			},
			"required": []string{"name"},
		}
	case "query":
		paramSchema = map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "SQL query to run against the annual_registrations and monthly_registrations tables",
				},
			},
			"required": []string{"sql"},
		}
	default:
		// No tool mapping for this command
		return nil
	}

	return &commandTool{
		name:        cmdName,
		description: description,
		fn:          toolFunc,
		schema:      paramSchema,
	}
}

// commandTool implements fantasy.AgentTool for a command tool function with a
// hand-written JSON schema. fantasy.NewAgentTool generates its schema by
// reflection over a typed input struct, so it cannot carry the prebuilt
// schema maps these tools are defined with; implementing the interface
// directly keeps the schemas exactly as written.
type commandTool struct {
	name            string
	description     string
	fn              func(ctx context.Context, params map[string]interface{}) (string, error)
	schema          map[string]interface{}
	providerOptions fantasy.ProviderOptions
}

// Function exposes the underlying tool function.
func (t *commandTool) Function() func(ctx context.Context, params map[string]interface{}) (string, error) {
	return t.fn
}

func (t *commandTool) Info() fantasy.ToolInfo {
	parameters, _ := t.schema["properties"].(map[string]interface{})
	if parameters == nil {
		parameters = map[string]interface{}{}
	}
	required, _ := t.schema["required"].([]string)
	if required == nil {
		required = []string{}
	}
	return fantasy.ToolInfo{
		Name:        t.name,
		Description: t.description,
		Parameters:  parameters,
		Required:    required,
	}
}

func (t *commandTool) Run(ctx context.Context, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
	var params map[string]interface{}
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return fantasy.NewTextErrorResponse(fmt.Sprintf("invalid parameters: %s", err)), nil
	}

	result, err := t.fn(ctx, params)
	if err != nil {
		return fantasy.ToolResponse{}, err
	}

	return fantasy.NewTextResponse(result), nil
}

func (t *commandTool) ProviderOptions() fantasy.ProviderOptions {
	return t.providerOptions
}

func (t *commandTool) SetProviderOptions(opts fantasy.ProviderOptions) {
	t.providerOptions = opts
}

func stringParam(params map[string]interface{}, key, fallback string) string {
	if s, ok := params[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func intParam(params map[string]interface{}, key string, fallback int) int {
	if f, ok := params[key].(float64); ok {
		return int(f)
	}
	return fallback
}
