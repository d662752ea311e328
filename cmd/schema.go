package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SchemaOutput represents the schema information for a table
type SchemaOutput struct {
	TableName   string       `json:"table_name"`
	ColumnCount int          `json:"column_count"`
	Columns     []ColumnInfo `json:"columns"`
}

// ColumnInfo represents information about a single column
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Retrieve a summary of the database schema",
	Long: `Retrieve a summary of the SQLite database schema.
This command returns information about the registration tables and their
columns.

Examples:
  vahan schema`,
	Run: func(cmd *cobra.Command, args []string) {
		store, cleanup, err := InitStore(dataDir, source, dbPath)
		if err != nil {
			HandleError(err, "Failed to initialize data store")
		}
		defer cleanup()

		// Get schema information for all tables
		tables := []string{"annual_registrations", "monthly_registrations"}
		schemas := make([]SchemaOutput, 0, len(tables))

		for _, tableName := range tables {
			schema, err := getTableSchema(store, tableName)
			if err != nil {
				// Skip tables that don't exist
				continue
			}
			schemas = append(schemas, schema)
		}

		output, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			HandleError(err, "Failed to encode JSON")
		}

		fmt.Println(string(output))
	},
}

// getTableSchema retrieves schema information for a specific table
func getTableSchema(store StoreInterface, tableName string) (SchemaOutput, error) {
	// Cast to the extended interface to access ExecuteQuery
	storeExt, ok := store.(StoreInterfaceExtended)
	if !ok {
		return SchemaOutput{}, fmt.Errorf("data source does not support ExecuteQuery")
	}

	query := fmt.Sprintf("PRAGMA table_info('%s')", tableName)
	rows, err := storeExt.ExecuteQuery(query)
	if err != nil {
		return SchemaOutput{}, fmt.Errorf("failed to get schema for table %s: %w", tableName, err)
	}
	if len(rows) == 0 {
		return SchemaOutput{}, fmt.Errorf("table %s not found", tableName)
	}

	schema := SchemaOutput{
		TableName: tableName,
		Columns:   []ColumnInfo{},
	}

	for _, row := range rows {
		// PRAGMA table_info returns: cid, name, type, notnull, dflt_value, pk
		name, _ := row["name"].(string)
		colType, _ := row["type"].(string)

		nullable := "YES"
		if fmt.Sprint(row["notnull"]) == "1" {
			nullable = "NO"
		}

		schema.Columns = append(schema.Columns, ColumnInfo{
			Name:     name,
			Type:     colType,
			Nullable: nullable,
		})
	}

	schema.ColumnCount = len(schema.Columns)

	return schema, nil
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
