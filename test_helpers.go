package main

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestDB creates an empty registration store in a temp directory
func SetupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	// Create temporary directory for test database
	tmpDir, err := os.MkdirTemp("", "vahan-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "vahan_data.db"))
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to initialize test database: %v", err)
	}

	// Return cleanup function
	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

// SetupTestDataDir creates a data directory populated with scraped CSV
// fixtures: one annual and one monthly file per data type, plus a decoy
// file that listing must ignore.
func SetupTestDataDir(t *testing.T) (string, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "vahan-data-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	cleanup := func() {
		os.RemoveAll(tmpDir)
	}

	fixtures := []struct {
		name    string
		columns []string
		rows    [][]string
	}{
		{name: "Y_Maker_X_Calendar_Year_Year_2024.csv"},
		{name: "Y_Vehicle_Category_X_Calendar_Year_Year_2024.csv"},
		{name: "Y_Maker_X_Month_Wise_Year_2024.csv"},
		{name: "Y_Vehicle_Category_X_Month_Wise_Year_2024.csv"},
	}
	for i := range fixtures {
		info, ok := ParseDataFileName(fixtures[i].name)
		if !ok {
			cleanup()
			t.Fatalf("fixture name %s does not parse", fixtures[i].name)
		}
		if info.Monthly {
			fixtures[i].columns, fixtures[i].rows = MockMonthlyReportTable(info.DataType)
		} else {
			fixtures[i].columns, fixtures[i].rows = MockAnnualReportTable(info.DataType)
		}
	}

	for _, f := range fixtures {
		if err := WriteCSV(filepath.Join(tmpDir, f.name), f.columns, f.rows); err != nil {
			cleanup()
			t.Fatalf("failed to write fixture %s: %v", f.name, err)
		}
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("scratch"), 0644); err != nil {
		cleanup()
		t.Fatalf("failed to write decoy file: %v", err)
	}

	return tmpDir, cleanup
}
