package main

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// CSVSource serves the scraped CSVs straight from the data directory
// through an in-memory DuckDB, so the dashboards can run without a
// migration step. Files are unpivoted into the same records the SQLite
// store returns.
type CSVSource struct {
	conn    *sql.DB
	dataDir string
}

func OpenCSVSource(dataDir string) (*CSVSource, error) {
	conn, err := sql.Open("duckdb", "")
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open DuckDB", "error", err)
		}
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return &CSVSource{conn: conn, dataDir: dataDir}, nil
}

// ReadDataFile loads one CSV through read_csv with every column as text,
// returning the header and rows.
func (s *CSVSource) ReadDataFile(path string) ([]string, [][]string, error) {
	escaped := strings.ReplaceAll(path, "'", "''")
	rows, err := s.conn.Query(fmt.Sprintf(`SELECT * FROM read_csv('%s', all_varchar=true)`, escaped))
	if err != nil {
		if logger != nil {
			logger.Error("Failed to read data file", "error", err, "path", path)
		}
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}

	var data [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row of %s: %w", path, err)
		}

		record := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				record[i] = v.String
			}
		}
		data = append(data, record)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return columns, data, nil
}

// LoadAnnual unpivots every annual file in the data directory. Files
// that fail to read are logged and skipped so one bad capture does not
// take the dashboards down.
func (s *CSVSource) LoadAnnual(ctx context.Context) ([]AnnualRecord, error) {
	files, err := ListAnnualFiles(s.dataDir)
	if err != nil {
		return nil, err
	}

	var records []AnnualRecord
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		columns, rows, err := s.ReadDataFile(filepath.Join(s.dataDir, f.Name))
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unreadable annual file", "error", err, "file", f.Name)
			}
			continue
		}
		records = append(records, meltAnnualTable(columns, rows, f.DataType)...)
	}
	return records, nil
}

// LoadMonthly unpivots every monthly file in the data directory.
func (s *CSVSource) LoadMonthly(ctx context.Context) ([]MonthlyRecord, error) {
	files, err := ListMonthlyFiles(s.dataDir)
	if err != nil {
		return nil, err
	}

	var records []MonthlyRecord
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		columns, rows, err := s.ReadDataFile(filepath.Join(s.dataDir, f.Name))
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unreadable monthly file", "error", err, "file", f.Name)
			}
			continue
		}
		records = append(records, meltMonthlyTable(columns, rows, f.DataType, f.Year)...)
	}
	return records, nil
}

// ExecuteQuery runs an ad hoc DuckDB statement, which can read_csv the
// raw files directly.
func (s *CSVSource) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	rows, err := s.conn.Query(query)
	if err != nil {
		if logger != nil {
			logger.Error("Ad hoc query failed", "error", err, "query", query)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

func (s *CSVSource) Close() error {
	return s.conn.Close()
}

var annualYearPattern = regexp.MustCompile(`Calendar Year_(\d{4})`)

const monthColumnTag = "Month Wise_"

// findNameColumn locates the flattened maker or vehicle category column.
func findNameColumn(columns []string) int {
	for i, col := range columns {
		if strings.Contains(col, "Maker_Maker") || strings.Contains(col, "Vehicle Category_Vehicle Category") {
			return i
		}
	}
	return -1
}

// meltAnnualTable unpivots an annual report into one record per name and
// Calendar Year_<yyyy> column. Serial and total columns carry no year
// suffix and fall away, and rows whose count coerces to zero or below
// are dropped.
func meltAnnualTable(columns []string, rows [][]string, dataType string) []AnnualRecord {
	nameIdx := findNameColumn(columns)
	if nameIdx < 0 {
		return nil
	}

	type yearColumn struct {
		idx  int
		year int
	}
	var yearColumns []yearColumn
	for i, col := range columns {
		if m := annualYearPattern.FindStringSubmatch(col); m != nil {
			y, _ := strconv.Atoi(m[1])
			yearColumns = append(yearColumns, yearColumn{i, y})
		}
	}
	if len(yearColumns) == 0 {
		return nil
	}

	var records []AnnualRecord
	for _, row := range rows {
		if nameIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			continue
		}
		for _, yc := range yearColumns {
			if yc.idx >= len(row) {
				continue
			}
			count := parseCount(row[yc.idx])
			if count <= 0 {
				continue
			}
			records = append(records, AnnualRecord{
				Name:          name,
				DataType:      dataType,
				Year:          yc.year,
				Registrations: count,
			})
		}
	}
	return records
}

// meltMonthlyTable unpivots a monthly report into one record per name
// and Month Wise_<MMM> column, with the year taken from the file name.
func meltMonthlyTable(columns []string, rows [][]string, dataType string, year int) []MonthlyRecord {
	if year <= 0 {
		return nil
	}
	nameIdx := findNameColumn(columns)
	if nameIdx < 0 {
		return nil
	}

	type monthColumn struct {
		idx   int
		month string
	}
	var monthColumns []monthColumn
	for i, col := range columns {
		if !strings.Contains(col, monthColumnTag) {
			continue
		}
		month := strings.TrimSpace(strings.ReplaceAll(col, monthColumnTag, ""))
		if month == "" {
			continue
		}
		monthColumns = append(monthColumns, monthColumn{i, month})
	}
	if len(monthColumns) == 0 {
		return nil
	}

	var records []MonthlyRecord
	for _, row := range rows {
		if nameIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameIdx])
		if name == "" {
			continue
		}
		for _, mc := range monthColumns {
			if mc.idx >= len(row) {
				continue
			}
			count := parseCount(row[mc.idx])
			if count <= 0 {
				continue
			}
			records = append(records, MonthlyRecord{
				Name:          name,
				DataType:      dataType,
				Year:          year,
				Month:         mc.month,
				Registrations: count,
			})
		}
	}
	return records
}

// parseCount coerces a portal cell to a count. Blank cells, separators
// and placeholders all land on zero.
func parseCount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
