package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const (
	DataTypeCategory     = "Vehicle Category"
	DataTypeManufacturer = "Manufacturer"
)

// AnnualRecord is one calendar-year registration count for a maker or
// vehicle category, as published on the Vahan dashboard.
type AnnualRecord struct {
	ID            int64
	Name          string
	DataType      string
	Year          int
	Registrations int64
}

// MonthlyRecord is one month of registrations within a calendar year.
type MonthlyRecord struct {
	ID            int64
	Name          string
	DataType      string
	Year          int
	Month         string
	Registrations int64
}

type DB struct {
	conn *sql.DB
	path string
}

func OpenDB(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open SQLite database", "error", err, "db_path", path)
		}
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		if logger != nil {
			logger.Error("Failed to connect to SQLite database", "error", err, "db_path", path)
		}
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	d := &DB{conn: conn, path: path}
	if err := d.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return d, nil
}

const annualSchema = `
	CREATE TABLE IF NOT EXISTS annual_registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Name TEXT NOT NULL,
		DataType TEXT NOT NULL,
		Year INTEGER NOT NULL,
		Registrations INTEGER NOT NULL,
		UNIQUE(Name, DataType, Year)
	)
`

const monthlySchema = `
	CREATE TABLE IF NOT EXISTS monthly_registrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		Name TEXT NOT NULL,
		DataType TEXT NOT NULL,
		Year INTEGER NOT NULL,
		Month TEXT NOT NULL,
		MonthlyRegistrations INTEGER NOT NULL,
		UNIQUE(Name, DataType, Year, Month)
	)
`

func (d *DB) ensureSchema() error {
	if _, err := d.conn.Exec(annualSchema); err != nil {
		if logger != nil {
			logger.Error("Failed to create annual_registrations table", "error", err)
		}
		return fmt.Errorf("failed to create annual_registrations table: %w", err)
	}
	if _, err := d.conn.Exec(monthlySchema); err != nil {
		if logger != nil {
			logger.Error("Failed to create monthly_registrations table", "error", err)
		}
		return fmt.Errorf("failed to create monthly_registrations table: %w", err)
	}
	return nil
}

// Reset drops and recreates both registration tables. Migration runs it
// before reloading so repeated runs land on the same row counts.
func (d *DB) Reset() error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Ignore error - will fail if transaction was committed
	}()

	for _, table := range []string{"annual_registrations", "monthly_registrations"} {
		if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}
	if _, err := tx.Exec(annualSchema); err != nil {
		return fmt.Errorf("failed to create annual_registrations table: %w", err)
	}
	if _, err := tx.Exec(monthlySchema); err != nil {
		return fmt.Errorf("failed to create monthly_registrations table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if logger != nil {
		logger.Info("Registration tables reset", "db_path", d.path)
	}
	return nil
}

// InsertAnnual upserts annual rows in one transaction and returns the
// number of rows written. A repeated (Name, DataType, Year) key replaces
// the stored count instead of failing the batch.
func (d *DB) InsertAnnual(ctx context.Context, records []AnnualRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO annual_registrations (Name, DataType, Year, Registrations)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(Name, DataType, Year) DO UPDATE SET
			Registrations = excluded.Registrations
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare annual insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Name, r.DataType, r.Year, r.Registrations); err != nil {
			if logger != nil {
				logger.Error("Failed to insert annual record", "error", err, "name", r.Name, "year", r.Year)
			}
			return written, fmt.Errorf("failed to insert annual record for %s/%d: %w", r.Name, r.Year, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

// InsertMonthly upserts monthly rows in one transaction.
func (d *DB) InsertMonthly(ctx context.Context, records []MonthlyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO monthly_registrations (Name, DataType, Year, Month, MonthlyRegistrations)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(Name, DataType, Year, Month) DO UPDATE SET
			MonthlyRegistrations = excluded.MonthlyRegistrations
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare monthly insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Name, r.DataType, r.Year, r.Month, r.Registrations); err != nil {
			if logger != nil {
				logger.Error("Failed to insert monthly record", "error", err, "name", r.Name, "year", r.Year, "month", r.Month)
			}
			return written, fmt.Errorf("failed to insert monthly record for %s/%d/%s: %w", r.Name, r.Year, r.Month, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return written, nil
}

func (d *DB) LoadAnnual(ctx context.Context) ([]AnnualRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, Name, DataType, Year, Registrations
		FROM annual_registrations
		ORDER BY DataType, Name, Year
	`)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to query annual registrations", "error", err)
		}
		return nil, fmt.Errorf("failed to query annual registrations: %w", err)
	}
	defer rows.Close()

	var records []AnnualRecord
	for rows.Next() {
		var r AnnualRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.DataType, &r.Year, &r.Registrations); err != nil {
			return nil, fmt.Errorf("failed to scan annual row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Error("Row iteration error in LoadAnnual", "error", err, "rows_count", len(records))
		}
		return nil, err
	}

	return records, nil
}

func (d *DB) LoadMonthly(ctx context.Context) ([]MonthlyRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
		SELECT id, Name, DataType, Year, Month, MonthlyRegistrations
		FROM monthly_registrations
		ORDER BY DataType, Name, Year
	`)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to query monthly registrations", "error", err)
		}
		return nil, fmt.Errorf("failed to query monthly registrations: %w", err)
	}
	defer rows.Close()

	var records []MonthlyRecord
	for rows.Next() {
		var r MonthlyRecord
		if err := rows.Scan(&r.ID, &r.Name, &r.DataType, &r.Year, &r.Month, &r.Registrations); err != nil {
			return nil, fmt.Errorf("failed to scan monthly row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		if logger != nil {
			logger.Error("Row iteration error in LoadMonthly", "error", err, "rows_count", len(records))
		}
		return nil, err
	}

	return records, nil
}

func (d *DB) CountAnnual(ctx context.Context) (int64, error) {
	var n int64
	err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM annual_registrations").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count annual registrations: %w", err)
	}
	return n, nil
}

func (d *DB) CountMonthly(ctx context.Context) (int64, error) {
	var n int64
	err := d.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM monthly_registrations").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count monthly registrations: %w", err)
	}
	return n, nil
}

// ExecuteQuery runs an ad hoc SQL statement and returns generic rows for
// the query command and the ask agent.
func (d *DB) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	rows, err := d.conn.Query(query)
	if err != nil {
		if logger != nil {
			logger.Error("Ad hoc query failed", "error", err, "query", query)
		}
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

// collectRows drains a result set into generic maps, with []byte values
// rendered as strings for JSON output.
func collectRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		scanArgs := make([]interface{}, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (r AnnualRecord) RegistrationsString() string {
	return groupDigits(r.Registrations)
}

func (r MonthlyRecord) RegistrationsString() string {
	return groupDigits(r.Registrations)
}
