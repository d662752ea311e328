package main

import (
	"context"
	"fmt"
	"path/filepath"
)

// MigrationStats summarizes one CSV-to-SQLite migration run.
type MigrationStats struct {
	AnnualFiles  int      `json:"annual_files"`
	MonthlyFiles int      `json:"monthly_files"`
	AnnualRows   int      `json:"annual_rows"`
	MonthlyRows  int      `json:"monthly_rows"`
	Skipped      []string `json:"skipped,omitempty"`
}

// dataFileReader is the slice of CSVSource the migrator needs.
type dataFileReader interface {
	ReadDataFile(path string) ([]string, [][]string, error)
}

// MigrateCSVDir resets the registration tables and reloads them from
// every recognized CSV in the data directory, so repeated runs land on
// identical row counts. Files that fail to read are recorded in Skipped
// instead of aborting the run.
func MigrateCSVDir(ctx context.Context, reader dataFileReader, dataDir string, db *DB) (*MigrationStats, error) {
	files, err := ListDataFiles(dataDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found in %s (run the scraper first)", dataDir)
	}

	if err := db.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset registration tables: %w", err)
	}

	stats := &MigrationStats{}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		columns, rows, err := reader.ReadDataFile(filepath.Join(dataDir, f.Name))
		if err != nil {
			if logger != nil {
				logger.Warn("Skipping unreadable data file", "error", err, "file", f.Name)
			}
			stats.Skipped = append(stats.Skipped, f.Name)
			continue
		}

		if f.Monthly {
			records := meltMonthlyTable(columns, rows, f.DataType, f.Year)
			written, err := db.InsertMonthly(ctx, records)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f.Name, err)
			}
			stats.MonthlyFiles++
			stats.MonthlyRows += written
		} else {
			records := meltAnnualTable(columns, rows, f.DataType)
			written, err := db.InsertAnnual(ctx, records)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f.Name, err)
			}
			stats.AnnualFiles++
			stats.AnnualRows += written
		}
	}

	if logger != nil {
		logger.Info("Migration complete",
			"annual_files", stats.AnnualFiles,
			"monthly_files", stats.MonthlyFiles,
			"annual_rows", stats.AnnualRows,
			"monthly_rows", stats.MonthlyRows,
			"skipped", len(stats.Skipped))
	}
	return stats, nil
}
