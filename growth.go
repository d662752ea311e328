package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DataSource is a backing store the dashboards can load registration
// data from. Both the SQLite store and the raw CSV reader implement it.
type DataSource interface {
	LoadAnnual(ctx context.Context) ([]AnnualRecord, error)
	LoadMonthly(ctx context.Context) ([]MonthlyRecord, error)
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	Close() error
}

const (
	MetricYoY = "yoy"
	MetricQoQ = "qoq"
)

// NormalizeMetric maps the metric spellings accepted on flags and query
// strings onto the two canonical metric keys.
func NormalizeMetric(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yoy", "yoy growth", "year over year", "year-over-year":
		return MetricYoY, nil
	case "qoq", "qoq growth", "quarter over quarter", "quarter-over-quarter":
		return MetricQoQ, nil
	}
	return "", fmt.Errorf("unknown growth metric %q (expected yoy or qoq)", s)
}

var fourWheelerMarkers = []string{
	"FOUR WHEELER", "LIGHT MOTOR VEHICLE", "MEDIUM MOTOR VEHICLE",
	"HEAVY MOTOR VEHICLE", "GOODS VEHICLE", "PASSENGER VEHICLE",
	"BUS", "TRAC", "EARTH MOVING", "DUMPER", "CRANE",
}

// MapVehicleCategory collapses the portal's raw category labels onto the
// 2W/3W/4W buckets used everywhere in the dashboards. Labels that match
// none of the markers land in Other.
func MapVehicleCategory(category string) string {
	c := strings.ToUpper(category)
	if strings.Contains(c, "TWO WHEELER") {
		return "2W"
	}
	if strings.Contains(c, "THREE WHEELER") {
		return "3W"
	}
	for _, marker := range fourWheelerMarkers {
		if strings.Contains(c, marker) {
			return "4W"
		}
	}
	return "Other"
}

// DisplayName returns the dashboard-facing name for a stored record.
// Vehicle category rows collapse onto wheeler buckets, manufacturer rows
// keep their published names.
func DisplayName(name, dataType string) string {
	if dataType == DataTypeCategory {
		return MapVehicleCategory(name)
	}
	return name
}

var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// MonthNumber returns 1-12 for the portal's month abbreviations, or 0
// for anything unrecognized.
func MonthNumber(month string) int {
	return monthNumbers[strings.ToUpper(strings.TrimSpace(month))]
}

func QuarterOf(monthNumber int) int {
	if monthNumber < 1 || monthNumber > 12 {
		return 0
	}
	return (monthNumber-1)/3 + 1
}

// GrowthPoint is one period of a growth series. Growth is nil on the
// first point of a series and whenever the previous period total is
// zero, and marshals as JSON null in both cases.
type GrowthPoint struct {
	Period        string   `json:"period"`
	Year          int      `json:"year"`
	Quarter       int      `json:"quarter,omitempty"`
	Registrations int64    `json:"registrations"`
	Previous      *int64   `json:"previous,omitempty"`
	Growth        *float64 `json:"growth"`
}

func (p GrowthPoint) GrowthString() string {
	if p.Growth == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *p.Growth)
}

func (p GrowthPoint) RegistrationsString() string {
	return groupDigits(p.Registrations)
}

func (p GrowthPoint) PreviousString() string {
	if p.Previous == nil {
		return "N/A"
	}
	return groupDigits(*p.Previous)
}

// GrowthClass names the css class for a growth cell.
func (p GrowthPoint) GrowthClass() string {
	switch {
	case p.Growth == nil:
		return "na"
	case *p.Growth > 0:
		return "positive"
	case *p.Growth < 0:
		return "negative"
	}
	return "stable"
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeYoY sums annual registrations per year for one display name and
// derives year-over-year growth against the previous point in the
// series. With gap years the previous point is the nearest earlier year
// that has data.
func ComputeYoY(annual []AnnualRecord, dataType, name string) []GrowthPoint {
	totals := make(map[int]int64)
	for _, r := range annual {
		if r.DataType != dataType || DisplayName(r.Name, r.DataType) != name {
			continue
		}
		totals[r.Year] += r.Registrations
	}

	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)

	points := make([]GrowthPoint, 0, len(years))
	havePrev := false
	var prev int64
	for _, y := range years {
		total := totals[y]
		p := GrowthPoint{Period: strconv.Itoa(y), Year: y, Registrations: total}
		if havePrev {
			prevVal := prev
			p.Previous = &prevVal
			if prevVal != 0 {
				g := roundTo2(float64(total-prevVal) / float64(prevVal) * 100)
				p.Growth = &g
			}
		}
		prev = total
		havePrev = true
		points = append(points, p)
	}
	return points
}

// ComputeQoQ aggregates monthly registrations into calendar quarters for
// one display name and derives quarter-over-quarter growth. Months that
// do not parse are left out of the aggregation.
func ComputeQoQ(monthly []MonthlyRecord, dataType, name string) []GrowthPoint {
	type quarterKey struct {
		year    int
		quarter int
	}
	totals := make(map[quarterKey]int64)
	for _, r := range monthly {
		if r.DataType != dataType || DisplayName(r.Name, r.DataType) != name {
			continue
		}
		q := QuarterOf(MonthNumber(r.Month))
		if q == 0 {
			continue
		}
		totals[quarterKey{r.Year, q}] += r.Registrations
	}

	keys := make([]quarterKey, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].quarter < keys[j].quarter
	})

	points := make([]GrowthPoint, 0, len(keys))
	havePrev := false
	var prev int64
	for _, k := range keys {
		total := totals[k]
		p := GrowthPoint{
			Period:        fmt.Sprintf("%d-Q%d", k.year, k.quarter),
			Year:          k.year,
			Quarter:       k.quarter,
			Registrations: total,
		}
		if havePrev {
			prevVal := prev
			p.Previous = &prevVal
			if prevVal != 0 {
				g := roundTo2(float64(total-prevVal) / float64(prevVal) * 100)
				p.Growth = &g
			}
		}
		prev = total
		havePrev = true
		points = append(points, p)
	}
	return points
}

// FilterYears keeps points whose year falls in the inclusive range.
// A bound of zero or less leaves that side open.
func FilterYears(points []GrowthPoint, fromYear, toYear int) []GrowthPoint {
	filtered := make([]GrowthPoint, 0, len(points))
	for _, p := range points {
		if fromYear > 0 && p.Year < fromYear {
			continue
		}
		if toYear > 0 && p.Year > toYear {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Dataset is a loaded snapshot of both registration tables. The
// dashboards, TUI and CLI all compute from one of these rather than
// querying the store per request.
type Dataset struct {
	Annual  []AnnualRecord
	Monthly []MonthlyRecord
}

func LoadDataset(ctx context.Context, src DataSource) (*Dataset, error) {
	annual, err := src.LoadAnnual(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load annual registrations: %w", err)
	}
	monthly, err := src.LoadMonthly(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly registrations: %w", err)
	}

	if logger != nil {
		logger.Info("Dataset loaded", "annual_rows", len(annual), "monthly_rows", len(monthly))
	}

	return &Dataset{Annual: annual, Monthly: monthly}, nil
}

// Names returns the sorted distinct display names available for a data
// type across both tables.
func (d *Dataset) Names(dataType string) []string {
	seen := make(map[string]bool)
	for _, r := range d.Annual {
		if r.DataType == dataType {
			seen[DisplayName(r.Name, r.DataType)] = true
		}
	}
	for _, r := range d.Monthly {
		if r.DataType == dataType {
			seen[DisplayName(r.Name, r.DataType)] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Dataset) HasName(dataType, name string) bool {
	for _, candidate := range d.Names(dataType) {
		if candidate == name {
			return true
		}
	}
	return false
}

// YearBounds returns the smallest and largest year present in either
// table, or zeros when the dataset is empty.
func (d *Dataset) YearBounds() (int, int) {
	minYear, maxYear := 0, 0
	seen := false
	observe := func(year int) {
		if !seen {
			minYear, maxYear = year, year
			seen = true
			return
		}
		if year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	for _, r := range d.Annual {
		observe(r.Year)
	}
	for _, r := range d.Monthly {
		observe(r.Year)
	}
	return minYear, maxYear
}

// Growth computes the full growth series for one display name. Callers
// apply FilterYears afterwards when a year range is selected.
func (d *Dataset) Growth(dataType, metric, name string) ([]GrowthPoint, error) {
	m, err := NormalizeMetric(metric)
	if err != nil {
		return nil, err
	}
	if m == MetricYoY {
		return ComputeYoY(d.Annual, dataType, name), nil
	}
	return ComputeQoQ(d.Monthly, dataType, name), nil
}

// AnnualSeries returns the aggregated yearly totals for one display
// name, the same totals ComputeYoY works from.
func (d *Dataset) AnnualSeries(dataType, name string) []AnnualRecord {
	totals := make(map[int]int64)
	for _, r := range d.Annual {
		if r.DataType != dataType || DisplayName(r.Name, r.DataType) != name {
			continue
		}
		totals[r.Year] += r.Registrations
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	records := make([]AnnualRecord, 0, len(years))
	for _, year := range years {
		records = append(records, AnnualRecord{
			Name:          name,
			DataType:      dataType,
			Year:          year,
			Registrations: totals[year],
		})
	}
	return records
}

// MonthlySeries returns the aggregated monthly totals for one display
// name, ordered by year and calendar month.
func (d *Dataset) MonthlySeries(dataType, name string) []MonthlyRecord {
	type monthKey struct {
		year  int
		month int
	}
	totals := make(map[monthKey]int64)
	labels := make(map[monthKey]string)
	for _, r := range d.Monthly {
		if r.DataType != dataType || DisplayName(r.Name, r.DataType) != name {
			continue
		}
		n := MonthNumber(r.Month)
		if n == 0 {
			continue
		}
		key := monthKey{year: r.Year, month: n}
		totals[key] += r.Registrations
		labels[key] = r.Month
	}

	keys := make([]monthKey, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	records := make([]MonthlyRecord, 0, len(keys))
	for _, key := range keys {
		records = append(records, MonthlyRecord{
			Name:          name,
			DataType:      dataType,
			Year:          key.year,
			Month:         labels[key],
			Registrations: totals[key],
		})
	}
	return records
}

func (d *Dataset) AnnualPreview(limit int) []AnnualRecord {
	if limit < 0 || limit > len(d.Annual) {
		limit = len(d.Annual)
	}
	return d.Annual[:limit]
}

func (d *Dataset) MonthlyPreview(limit int) []MonthlyRecord {
	if limit < 0 || limit > len(d.Monthly) {
		limit = len(d.Monthly)
	}
	return d.Monthly[:limit]
}

const noInsightsMessage = "Select a data type, entity, and growth metric to generate insights. Ensure sufficient data is available for the selected period."

// Insights renders a short markdown summary of a growth series: the
// latest defined growth value, how to read it, and the best period in
// the series.
func Insights(metric, name string, points []GrowthPoint) string {
	m, err := NormalizeMetric(metric)
	if err != nil {
		return noInsightsMessage
	}

	var latest *GrowthPoint
	for i := range points {
		if points[i].Growth != nil {
			latest = &points[i]
		}
	}
	if latest == nil {
		return noInsightsMessage
	}

	label, periodNoun := "YoY", "year"
	if m == MetricQoQ {
		label, periodNoun = "QoQ", "quarter"
	}

	growth := *latest.Growth
	trend := "stable"
	if growth > 0 {
		trend = "positive"
	} else if growth < 0 {
		trend = "negative"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The **%s** shows a **%s %s growth of %.2f%%** in the latest available %s within the selected range.",
		name, trend, label, growth, periodNoun)

	switch {
	case trend == "positive" && m == MetricYoY:
		b.WriteString(" This indicates a strong expansion compared to the previous year.")
	case trend == "negative" && m == MetricYoY:
		b.WriteString(" This suggests a contraction in registrations compared to the previous year.")
	case m == MetricYoY:
		b.WriteString(" This indicates a relatively stable registration count compared to the previous year.")
	case trend == "positive":
		b.WriteString(" This indicates healthy sequential growth.")
	case trend == "negative":
		b.WriteString(" This suggests a slowdown in registrations compared to the previous quarter.")
	default:
		b.WriteString(" This indicates a relatively stable registration count compared to the previous quarter.")
	}

	var best *GrowthPoint
	for i := range points {
		if points[i].Growth == nil {
			continue
		}
		if best == nil || *points[i].Growth > *best.Growth {
			best = &points[i]
		}
	}
	if best != nil && *best.Growth > 0 {
		fmt.Fprintf(&b, "\n\nIts highest %s growth was **%.2f%%** in **%s**.", label, *best.Growth, best.Period)
	}

	return b.String()
}
