package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DataFileInfo describes one scraped CSV in the data directory.
type DataFileInfo struct {
	Name     string
	DataType string
	Year     int
	Monthly  bool
}

const (
	annualFileTag   = "X_Calendar_Year_Year_"
	monthlyFileTag  = "X_Month_Wise_Year_"
	categoryFileTag = "Y_Vehicle_Category_"
)

var fileYearPattern = regexp.MustCompile(`Year_(\d{4})\.csv$`)

// ParseDataFileName classifies a scraped file by the combination name it
// was saved under, e.g. Y_Maker_X_Calendar_Year_Year_2023.csv for an
// annual report or Y_Vehicle_Category_X_Month_Wise_Year_2023.csv for a
// monthly one. Files that do not follow the naming scheme are rejected.
func ParseDataFileName(name string) (DataFileInfo, bool) {
	if !strings.HasPrefix(name, "Y_") || !strings.HasSuffix(name, ".csv") {
		return DataFileInfo{}, false
	}

	info := DataFileInfo{Name: name, DataType: DataTypeManufacturer}
	if strings.Contains(name, categoryFileTag) {
		info.DataType = DataTypeCategory
	}

	switch {
	case strings.Contains(name, annualFileTag):
		// The year suffix records which portal year was selected; annual
		// counts carry their own Calendar Year_<yyyy> columns.
		if m := fileYearPattern.FindStringSubmatch(name); m != nil {
			info.Year, _ = strconv.Atoi(m[1])
		}
		return info, true
	case strings.Contains(name, monthlyFileTag):
		m := fileYearPattern.FindStringSubmatch(name)
		if m == nil {
			return DataFileInfo{}, false
		}
		info.Year, _ = strconv.Atoi(m[1])
		info.Monthly = true
		return info, true
	}

	return DataFileInfo{}, false
}

// ListDataFiles returns every recognized data file in the directory,
// sorted by name. A missing directory is treated as empty.
func ListDataFiles(dataDir string) ([]DataFileInfo, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory %s: %w", dataDir, err)
	}

	var files []DataFileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, ok := ParseDataFileName(entry.Name()); ok {
			files = append(files, info)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func ListAnnualFiles(dataDir string) ([]DataFileInfo, error) {
	files, err := ListDataFiles(dataDir)
	if err != nil {
		return nil, err
	}
	var annual []DataFileInfo
	for _, f := range files {
		if !f.Monthly {
			annual = append(annual, f)
		}
	}
	return annual, nil
}

func ListMonthlyFiles(dataDir string) ([]DataFileInfo, error) {
	files, err := ListDataFiles(dataDir)
	if err != nil {
		return nil, err
	}
	var monthly []DataFileInfo
	for _, f := range files {
		if f.Monthly {
			monthly = append(monthly, f)
		}
	}
	return monthly, nil
}

// DataFileSummary condenses what a data directory holds.
type DataFileSummary struct {
	AnnualFiles  int
	MonthlyFiles int
	Years        []int
}

func (s DataFileSummary) Empty() bool {
	return s.AnnualFiles == 0 && s.MonthlyFiles == 0
}

// CheckDataFiles inventories the scraped CSVs in a data directory.
func CheckDataFiles(dataDir string) (DataFileSummary, error) {
	files, err := ListDataFiles(dataDir)
	if err != nil {
		return DataFileSummary{}, err
	}

	summary := DataFileSummary{}
	years := make(map[int]bool)
	for _, f := range files {
		if f.Monthly {
			summary.MonthlyFiles++
		} else {
			summary.AnnualFiles++
		}
		if f.Year > 0 {
			years[f.Year] = true
		}
	}
	for y := range years {
		summary.Years = append(summary.Years, y)
	}
	sort.Ints(summary.Years)
	return summary, nil
}

// WriteCSV writes one scraped table to path, creating the parent
// directory as needed.
func WriteCSV(path string, columns []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return f.Close()
}

func backupStamp() string {
	return time.Now().Format("20060102_150405")
}

// SaveHTMLBackup writes a timestamped copy of a report page and returns
// the path it was written to.
func SaveHTMLBackup(dir, name, html string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.html", name, backupStamp()))
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		if logger != nil {
			logger.Error("Failed to write HTML backup", "error", err, "path", path)
		}
		return "", fmt.Errorf("failed to write backup %s: %w", path, err)
	}

	if logger != nil {
		logger.Info("Saved HTML backup", "path", path, "bytes", len(html))
	}
	return path, nil
}

// ListHTMLBackups returns the backup file names in a directory, sorted,
// which puts multiple captures of the same combination in time order.
func ListHTMLBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

var backupStampPattern = regexp.MustCompile(`_\d{8}_\d{6}\.html$`)

// CombinationFromBackup strips the timestamp suffix from a backup file
// name, recovering the combination it captured.
func CombinationFromBackup(name string) (string, bool) {
	if !backupStampPattern.MatchString(name) {
		return "", false
	}
	return backupStampPattern.ReplaceAllString(name, ""), true
}
