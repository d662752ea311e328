package cmd

import (
	"fmt"
	"os"
	"time"
)

// GrowthPointData represents one period of a growth series (matches main.GrowthPoint)
type GrowthPointData struct {
	Period        string   `json:"period"`
	Year          int      `json:"year"`
	Quarter       int      `json:"quarter,omitempty"`
	Registrations int64    `json:"registrations"`
	Previous      *int64   `json:"previous,omitempty"`
	Growth        *float64 `json:"growth"`
}

// AnnualRecordData represents one row of the annual registrations table
type AnnualRecordData struct {
	Name          string `json:"name"`
	DataType      string `json:"data_type"`
	Year          int    `json:"year"`
	Registrations int64  `json:"registrations"`
}

// MonthlyRecordData represents one row of the monthly registrations table
type MonthlyRecordData struct {
	Name          string `json:"name"`
	DataType      string `json:"data_type"`
	Year          int    `json:"year"`
	Month         string `json:"month"`
	Registrations int64  `json:"registrations"`
}

// MigrationStatsData summarizes a CSV to SQLite migration run
type MigrationStatsData struct {
	AnnualFiles  int      `json:"annual_files"`
	MonthlyFiles int      `json:"monthly_files"`
	AnnualRows   int      `json:"annual_rows"`
	MonthlyRows  int      `json:"monthly_rows"`
	Skipped      []string `json:"skipped,omitempty"`
}

// ScrapeOptions carries the scrape command flags into the main package
type ScrapeOptions struct {
	DataDir   string
	BackupDir string
	Years     []string
	YAxes     []string
	XAxes     []string
	Headless  bool
	ToDB      bool
	DBPath    string
	Timeout   time.Duration
}

// StoreInterface wraps registration data operations for CLI commands
type StoreInterface interface {
	Names(dataType string) ([]string, error)
	Growth(dataType, metric, name string, fromYear, toYear int) ([]GrowthPointData, error)
	Insights(dataType, metric, name string) (string, error)
	AnnualSeries(dataType, name string) ([]AnnualRecordData, error)
	MonthlySeries(dataType, name string) ([]MonthlyRecordData, error)
	YearBounds() (int, int, error)
	Close() error
}

// StoreInterfaceExtended adds raw SQL access for the query and schema commands
type StoreInterfaceExtended interface {
	StoreInterface
	ExecuteQuery(query string) ([]map[string]interface{}, error)
}

// These variables will be set by main package
var (
	LaunchTUI       func(dataDir string)
	InitStore       func(dataDir, source, dbPath string) (StoreInterface, func(), error)
	RunScrape       func(opts ScrapeOptions) error
	RunMigration    func(dataDir, dbPath string) (*MigrationStatsData, error)
	RunParseBackups func(backupDir, dataDir string) (int, error)
)

// HandleError prints error and exits
func HandleError(err error, message string) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}
