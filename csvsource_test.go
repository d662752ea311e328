package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

// TestMeltAnnualTable tests unpivoting a flattened annual report
func TestMeltAnnualTable(t *testing.T) {
	columns, rows := MockAnnualReportTable(DataTypeManufacturer)

	records := meltAnnualTable(columns, rows, DataTypeManufacturer)
	if len(records) != 7 {
		t.Fatalf("Expected 7 records, got %d", len(records))
	}

	first := records[0]
	if first.Name != "HERO MOTOCORP LTD" || first.Year != 2022 || first.Registrations != 500 {
		t.Errorf("Expected HERO MOTOCORP LTD 2022 500 first, got %s %d %d", first.Name, first.Year, first.Registrations)
	}
	if first.DataType != DataTypeManufacturer {
		t.Errorf("Expected data type %s, got %s", DataTypeManufacturer, first.DataType)
	}

	// Zero and blank cells fall away, so BAJAJ and TVS have no 2022 row
	for _, rec := range records {
		if rec.Name == "BAJAJ AUTO LTD" && rec.Year == 2022 {
			t.Error("Expected zero-count cell to be dropped")
		}
		if rec.Name == "TVS MOTOR COMPANY LTD" && rec.Year == 2022 {
			t.Error("Expected blank cell to be dropped")
		}
		if rec.Year < 2022 || rec.Year > 2024 {
			t.Errorf("Expected only year columns to melt, got year %d", rec.Year)
		}
	}
}

// TestMeltAnnualTableCategory tests unpivoting a category report
func TestMeltAnnualTableCategory(t *testing.T) {
	columns, rows := MockAnnualReportTable(DataTypeCategory)

	records := meltAnnualTable(columns, rows, DataTypeCategory)
	if len(records) != 8 {
		t.Fatalf("Expected 8 records, got %d", len(records))
	}
	for _, rec := range records {
		if rec.DataType != DataTypeCategory {
			t.Errorf("Expected data type %s, got %s", DataTypeCategory, rec.DataType)
		}
	}
}

// TestMeltAnnualTableUnusable tests that unusable headers melt to nothing
func TestMeltAnnualTableUnusable(t *testing.T) {
	rows := [][]string{{"1", "HERO MOTOCORP LTD", "500"}}

	noName := meltAnnualTable([]string{"S No_S No", "State_State", "Calendar Year_2023"}, rows, DataTypeManufacturer)
	if noName != nil {
		t.Errorf("Expected nil without a name column, got %d records", len(noName))
	}

	noYears := meltAnnualTable([]string{"S No_S No", "Maker_Maker", "TOTAL_TOTAL"}, rows, DataTypeManufacturer)
	if noYears != nil {
		t.Errorf("Expected nil without year columns, got %d records", len(noYears))
	}
}

// TestMeltMonthlyTable tests unpivoting a flattened monthly report
func TestMeltMonthlyTable(t *testing.T) {
	columns, rows := MockMonthlyReportTable(DataTypeManufacturer)

	records := meltMonthlyTable(columns, rows, DataTypeManufacturer, 2024)
	if len(records) != 5 {
		t.Fatalf("Expected 5 records, got %d", len(records))
	}

	first := records[0]
	if first.Name != "HERO MOTOCORP LTD" || first.Month != "JAN" || first.Registrations != 100 {
		t.Errorf("Expected HERO MOTOCORP LTD JAN 100 first, got %s %s %d", first.Name, first.Month, first.Registrations)
	}
	if first.Year != 2024 {
		t.Errorf("Expected year 2024 from the file name, got %d", first.Year)
	}

	for _, rec := range records {
		if rec.Name == "BAJAJ AUTO LTD" && rec.Month == "FEB" {
			t.Error("Expected zero-count cell to be dropped")
		}
	}
}

// TestMeltMonthlyTableNoYear tests that a missing file year melts to nothing
func TestMeltMonthlyTableNoYear(t *testing.T) {
	columns, rows := MockMonthlyReportTable(DataTypeManufacturer)

	if records := meltMonthlyTable(columns, rows, DataTypeManufacturer, 0); records != nil {
		t.Errorf("Expected nil without a year, got %d records", len(records))
	}
}

// TestParseCount tests coercing portal cells to counts
func TestParseCount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected int64
	}{
		{name: "plain", input: "1234", expected: 1234},
		{name: "western grouping", input: "1,234", expected: 1234},
		{name: "indian grouping", input: "12,34,567", expected: 1234567},
		{name: "padded", input: " 42 ", expected: 42},
		{name: "empty", input: "", expected: 0},
		{name: "float", input: "3.7", expected: 3},
		{name: "negative", input: "-5", expected: -5},
		{name: "placeholder", input: "N/A", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseCount(tc.input); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

// TestFindNameColumn tests locating the entity column in flattened headers
func TestFindNameColumn(t *testing.T) {
	testCases := []struct {
		name     string
		columns  []string
		expected int
	}{
		{name: "maker", columns: []string{"S No_S No", "Maker_Maker", "Calendar Year_2023"}, expected: 1},
		{name: "category", columns: []string{"Vehicle Category_Vehicle Category", "Calendar Year_2023"}, expected: 0},
		{name: "absent", columns: []string{"S No_S No", "State_State"}, expected: -1},
		{name: "empty", columns: nil, expected: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := findNameColumn(tc.columns); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

// TestReadDataFile tests the CSV round trip through DuckDB
func TestReadDataFile(t *testing.T) {
	dataDir, cleanup := SetupTestDataDir(t)
	defer cleanup()

	src, err := OpenCSVSource(dataDir)
	if err != nil {
		t.Fatalf("OpenCSVSource failed: %v", err)
	}
	defer src.Close()

	wantColumns, wantRows := MockAnnualReportTable(DataTypeManufacturer)
	columns, rows, err := src.ReadDataFile(filepath.Join(dataDir, "Y_Maker_X_Calendar_Year_Year_2024.csv"))
	if err != nil {
		t.Fatalf("ReadDataFile failed: %v", err)
	}

	if len(columns) != len(wantColumns) {
		t.Fatalf("Expected %d columns, got %d", len(wantColumns), len(columns))
	}
	for i, col := range wantColumns {
		if columns[i] != col {
			t.Errorf("Expected column %s at %d, got %s", col, i, columns[i])
		}
	}
	if len(rows) != len(wantRows) {
		t.Fatalf("Expected %d rows, got %d", len(wantRows), len(rows))
	}
	if rows[0][1] != "HERO MOTOCORP LTD" {
		t.Errorf("Expected HERO MOTOCORP LTD in first row, got %s", rows[0][1])
	}
}

// TestReadDataFileMissing tests that a missing file surfaces an error
func TestReadDataFileMissing(t *testing.T) {
	dataDir, cleanup := SetupTestDataDir(t)
	defer cleanup()

	src, err := OpenCSVSource(dataDir)
	if err != nil {
		t.Fatalf("OpenCSVSource failed: %v", err)
	}
	defer src.Close()

	if _, _, err := src.ReadDataFile(filepath.Join(dataDir, "no_such_file.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestCSVSourceLoad tests loading both tables straight from the data directory
func TestCSVSourceLoad(t *testing.T) {
	dataDir, cleanup := SetupTestDataDir(t)
	defer cleanup()

	src, err := OpenCSVSource(dataDir)
	if err != nil {
		t.Fatalf("OpenCSVSource failed: %v", err)
	}
	defer src.Close()

	ctx := context.Background()
	annual, err := src.LoadAnnual(ctx)
	if err != nil {
		t.Fatalf("LoadAnnual failed: %v", err)
	}
	if len(annual) != 15 {
		t.Errorf("Expected 15 annual records, got %d", len(annual))
	}

	monthly, err := src.LoadMonthly(ctx)
	if err != nil {
		t.Fatalf("LoadMonthly failed: %v", err)
	}
	if len(monthly) != 9 {
		t.Errorf("Expected 9 monthly records, got %d", len(monthly))
	}

	// The loaded records drive the same analytics as the SQLite store
	data := &Dataset{Annual: annual, Monthly: monthly}
	makers := data.Names(DataTypeManufacturer)
	if len(makers) != 3 {
		t.Errorf("Expected 3 manufacturers, got %v", makers)
	}
}

// TestCSVSourceExecuteQuery tests ad hoc queries against the in-memory engine
func TestCSVSourceExecuteQuery(t *testing.T) {
	dataDir, cleanup := SetupTestDataDir(t)
	defer cleanup()

	src, err := OpenCSVSource(dataDir)
	if err != nil {
		t.Fatalf("OpenCSVSource failed: %v", err)
	}
	defer src.Close()

	results, err := src.ExecuteQuery("SELECT 42 AS answer")
	if err != nil {
		t.Fatalf("ExecuteQuery failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result row, got %d", len(results))
	}
	if fmt.Sprintf("%v", results[0]["answer"]) != "42" {
		t.Errorf("Expected 42, got %v", results[0]["answer"])
	}

	if _, err := src.ExecuteQuery("SELECT * FROM no_such_table"); err == nil {
		t.Error("Expected error for invalid query")
	}
}
