package main

import (
	"strings"
	"testing"
)

// TestMapVehicleCategory tests raw category names mapping to wheeler buckets
func TestMapVehicleCategory(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "two wheeler NT", raw: "TWO WHEELER(NT)", expected: "2W"},
		{name: "two wheeler T", raw: "TWO WHEELER(T)", expected: "2W"},
		{name: "three wheeler", raw: "THREE WHEELER(T)", expected: "3W"},
		{name: "e-rickshaw", raw: "E-RICKSHAW(P)", expected: "3W"},
		{name: "light motor vehicle", raw: "LIGHT MOTOR VEHICLE", expected: "4W"},
		{name: "heavy goods", raw: "HEAVY GOODS VEHICLE", expected: "4W"},
		{name: "four wheeler invalid carriage", raw: "FOUR WHEELER (INVALID CARRIAGE)", expected: "4W"},
		{name: "unmapped", raw: "OTHER THAN MENTIONED ABOVE", expected: "Other"},
		{name: "lowercase input", raw: "two wheeler(nt)", expected: "2W"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapVehicleCategory(tc.raw); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

// TestDisplayName tests that only category names collapse to buckets
func TestDisplayName(t *testing.T) {
	if got := DisplayName("TWO WHEELER(NT)", DataTypeCategory); got != "2W" {
		t.Errorf("Expected 2W, got %s", got)
	}
	if got := DisplayName("HERO MOTOCORP LTD", DataTypeManufacturer); got != "HERO MOTOCORP LTD" {
		t.Errorf("Expected manufacturer name unchanged, got %s", got)
	}
}

// TestMonthNumber tests month abbreviation lookup
func TestMonthNumber(t *testing.T) {
	testCases := []struct {
		name     string
		month    string
		expected int
	}{
		{name: "january", month: "JAN", expected: 1},
		{name: "december", month: "DEC", expected: 12},
		{name: "lowercase", month: "jun", expected: 6},
		{name: "padded", month: " SEP ", expected: 9},
		{name: "unrecognized", month: "FOO", expected: 0},
		{name: "empty", month: "", expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MonthNumber(tc.month); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

// TestQuarterOf tests month-to-quarter bucketing
func TestQuarterOf(t *testing.T) {
	testCases := []struct {
		month    int
		expected int
	}{
		{month: 1, expected: 1},
		{month: 3, expected: 1},
		{month: 4, expected: 2},
		{month: 6, expected: 2},
		{month: 7, expected: 3},
		{month: 10, expected: 4},
		{month: 12, expected: 4},
	}

	for _, tc := range testCases {
		if got := QuarterOf(tc.month); got != tc.expected {
			t.Errorf("Expected month %d in Q%d, got Q%d", tc.month, tc.expected, got)
		}
	}
}

// TestNormalizeMetric tests metric keyword normalization
func TestNormalizeMetric(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "yoy", input: "yoy", expected: MetricYoY},
		{name: "uppercase yoy", input: "YoY", expected: MetricYoY},
		{name: "qoq", input: "qoq", expected: MetricQoQ},
		{name: "padded qoq", input: " QOQ ", expected: MetricQoQ},
		{name: "unknown", input: "weekly", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeMetric(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

// TestComputeYoY tests year-over-year growth across aggregated categories
func TestComputeYoY(t *testing.T) {
	data := MockDataset()

	points := ComputeYoY(data.Annual, DataTypeCategory, "2W")
	if len(points) != 3 {
		t.Fatalf("Expected 3 yearly points, got %d", len(points))
	}

	// 2022 sums TWO WHEELER(NT) 60 and TWO WHEELER(T) 40
	if points[0].Period != "2022" || points[0].Registrations != 100 {
		t.Errorf("Expected 2022 with 100 registrations, got %s with %d", points[0].Period, points[0].Registrations)
	}
	if points[0].Growth != nil {
		t.Error("Expected nil growth on first point")
	}
	if points[0].Previous != nil {
		t.Error("Expected nil previous on first point")
	}

	if points[1].Growth == nil || *points[1].Growth != 20.0 {
		t.Errorf("Expected 20.00 growth for 2023, got %v", points[1].Growth)
	}
	if points[1].Previous == nil || *points[1].Previous != 100 {
		t.Errorf("Expected previous 100 for 2023, got %v", points[1].Previous)
	}

	if points[2].Growth == nil || *points[2].Growth != -8.33 {
		t.Errorf("Expected -8.33 growth for 2024, got %v", points[2].Growth)
	}
}

// TestComputeYoYManufacturer tests growth for an ungrouped manufacturer series
func TestComputeYoYManufacturer(t *testing.T) {
	data := MockDataset()

	points := ComputeYoY(data.Annual, DataTypeManufacturer, "HERO MOTOCORP LTD")
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	if points[1].Growth == nil || *points[1].Growth != 10.0 {
		t.Errorf("Expected 10.00 growth for 2023, got %v", points[1].Growth)
	}
	if points[2].Growth == nil || *points[2].Growth != 10.0 {
		t.Errorf("Expected 10.00 growth for 2024, got %v", points[2].Growth)
	}

	points = ComputeYoY(data.Annual, DataTypeManufacturer, "BAJAJ AUTO LTD")
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[1].Growth == nil || *points[1].Growth != -5.0 {
		t.Errorf("Expected -5.00 growth for 2024, got %v", points[1].Growth)
	}
}

// TestComputeYoYGapYear tests that growth spans a missing year
func TestComputeYoYGapYear(t *testing.T) {
	data := MockDataset()

	// LIGHT MOTOR VEHICLE has 2022 and 2024 but no 2023
	points := ComputeYoY(data.Annual, DataTypeCategory, "4W")
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[1].Period != "2024" {
		t.Errorf("Expected 2024 second, got %s", points[1].Period)
	}
	if points[1].Previous == nil || *points[1].Previous != 200 {
		t.Errorf("Expected previous 200 from 2022, got %v", points[1].Previous)
	}
	if points[1].Growth == nil || *points[1].Growth != 10.0 {
		t.Errorf("Expected 10.00 growth across gap year, got %v", points[1].Growth)
	}
}

// TestComputeYoYZeroPrevious tests that a zero base year yields no growth figure
func TestComputeYoYZeroPrevious(t *testing.T) {
	annual := []AnnualRecord{
		MockAnnualRecord("EV MAKER", DataTypeManufacturer, 2022, 0),
		MockAnnualRecord("EV MAKER", DataTypeManufacturer, 2023, 50),
	}

	points := ComputeYoY(annual, DataTypeManufacturer, "EV MAKER")
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	if points[0].Growth != nil {
		t.Error("Expected nil growth on first point")
	}
	if points[1].Growth != nil {
		t.Error("Expected nil growth when the previous year is zero")
	}
	if points[1].Previous == nil || *points[1].Previous != 0 {
		t.Errorf("Expected previous of 0 to still be recorded, got %v", points[1].Previous)
	}
}

// TestComputeYoYUnknownName tests that an unknown entity yields no points
func TestComputeYoYUnknownName(t *testing.T) {
	data := MockDataset()

	points := ComputeYoY(data.Annual, DataTypeManufacturer, "NO SUCH MAKER")
	if len(points) != 0 {
		t.Errorf("Expected 0 points for unknown name, got %d", len(points))
	}
}

// TestComputeQoQ tests quarter-over-quarter growth across year boundaries
func TestComputeQoQ(t *testing.T) {
	data := MockDataset()

	points := ComputeQoQ(data.Monthly, DataTypeCategory, "2W")
	if len(points) != 3 {
		t.Fatalf("Expected 3 quarterly points, got %d", len(points))
	}

	if points[0].Period != "2023-Q4" || points[0].Registrations != 24 {
		t.Errorf("Expected 2023-Q4 with 24 registrations, got %s with %d", points[0].Period, points[0].Registrations)
	}
	if points[0].Growth != nil {
		t.Error("Expected nil growth on first quarter")
	}

	if points[1].Period != "2024-Q1" || points[1].Registrations != 30 {
		t.Errorf("Expected 2024-Q1 with 30 registrations, got %s with %d", points[1].Period, points[1].Registrations)
	}
	if points[1].Growth == nil || *points[1].Growth != 25.0 {
		t.Errorf("Expected 25.00 growth crossing the year boundary, got %v", points[1].Growth)
	}

	if points[2].Period != "2024-Q2" || points[2].Registrations != 36 {
		t.Errorf("Expected 2024-Q2 with 36 registrations, got %s with %d", points[2].Period, points[2].Registrations)
	}
	if points[2].Growth == nil || *points[2].Growth != 20.0 {
		t.Errorf("Expected 20.00 growth, got %v", points[2].Growth)
	}
}

// TestComputeQoQManufacturer tests quarterly aggregation of monthly counts
func TestComputeQoQManufacturer(t *testing.T) {
	data := MockDataset()

	points := ComputeQoQ(data.Monthly, DataTypeManufacturer, "HERO MOTOCORP LTD")
	if len(points) != 2 {
		t.Fatalf("Expected 2 quarterly points, got %d", len(points))
	}
	if points[0].Registrations != 300 {
		t.Errorf("Expected Q1 total 300, got %d", points[0].Registrations)
	}
	if points[1].Registrations != 310 {
		t.Errorf("Expected Q2 total 310, got %d", points[1].Registrations)
	}
	if points[1].Growth == nil || *points[1].Growth != 3.33 {
		t.Errorf("Expected 3.33 growth, got %v", points[1].Growth)
	}
}

// TestFilterYears tests year range filtering with open bounds
func TestFilterYears(t *testing.T) {
	data := MockDataset()
	points := ComputeYoY(data.Annual, DataTypeCategory, "2W")

	testCases := []struct {
		name     string
		from     int
		to       int
		expected int
	}{
		{name: "open range keeps all", from: 0, to: 0, expected: 3},
		{name: "from only", from: 2023, to: 0, expected: 2},
		{name: "to only", from: 0, to: 2022, expected: 1},
		{name: "closed range", from: 2023, to: 2024, expected: 2},
		{name: "single year", from: 2023, to: 2023, expected: 1},
		{name: "outside range", from: 2030, to: 2040, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterYears(points, tc.from, tc.to)
			if len(got) != tc.expected {
				t.Errorf("Expected %d points, got %d", tc.expected, len(got))
			}
		})
	}
}

// TestDatasetNames tests sorted display names per data type
func TestDatasetNames(t *testing.T) {
	data := MockDataset()

	categories := data.Names(DataTypeCategory)
	if len(categories) != 3 {
		t.Fatalf("Expected 3 category buckets, got %d", len(categories))
	}
	expected := []string{"2W", "3W", "4W"}
	for i, name := range expected {
		if categories[i] != name {
			t.Errorf("Expected %s at position %d, got %s", name, i, categories[i])
		}
	}

	makers := data.Names(DataTypeManufacturer)
	if len(makers) != 2 {
		t.Fatalf("Expected 2 manufacturers, got %d", len(makers))
	}
	if makers[0] != "BAJAJ AUTO LTD" || makers[1] != "HERO MOTOCORP LTD" {
		t.Errorf("Expected sorted manufacturer names, got %v", makers)
	}
}

// TestHasName tests membership checks against display names
func TestHasName(t *testing.T) {
	data := MockDataset()

	if !data.HasName(DataTypeCategory, "2W") {
		t.Error("Expected 2W to be a known category")
	}
	if data.HasName(DataTypeCategory, "TWO WHEELER(NT)") {
		t.Error("Expected raw category name to be hidden behind its bucket")
	}
	if !data.HasName(DataTypeManufacturer, "HERO MOTOCORP LTD") {
		t.Error("Expected HERO MOTOCORP LTD to be a known manufacturer")
	}
	if data.HasName(DataTypeManufacturer, "2W") {
		t.Error("Expected 2W to be unknown among manufacturers")
	}
}

// TestYearBounds tests min and max year detection
func TestYearBounds(t *testing.T) {
	data := MockDataset()

	min, max := data.YearBounds()
	if min != 2022 || max != 2024 {
		t.Errorf("Expected bounds 2022-2024, got %d-%d", min, max)
	}

	empty := &Dataset{}
	min, max = empty.YearBounds()
	if min != 0 || max != 0 {
		t.Errorf("Expected 0-0 bounds for empty dataset, got %d-%d", min, max)
	}
}

// TestDatasetGrowth tests metric dispatch on the dataset
func TestDatasetGrowth(t *testing.T) {
	data := MockDataset()

	yoy, err := data.Growth(DataTypeCategory, MetricYoY, "2W")
	if err != nil {
		t.Fatalf("Growth yoy failed: %v", err)
	}
	if len(yoy) != 3 {
		t.Errorf("Expected 3 yearly points, got %d", len(yoy))
	}

	qoq, err := data.Growth(DataTypeCategory, MetricQoQ, "2W")
	if err != nil {
		t.Fatalf("Growth qoq failed: %v", err)
	}
	if len(qoq) != 3 {
		t.Errorf("Expected 3 quarterly points, got %d", len(qoq))
	}

	// Metric spellings are normalized before dispatch
	alias, err := data.Growth(DataTypeCategory, "Year-Over-Year", "2W")
	if err != nil {
		t.Fatalf("aliased Growth failed: %v", err)
	}
	if len(alias) != len(yoy) {
		t.Errorf("Expected aliased metric to match yoy, got %d points", len(alias))
	}

	if _, err := data.Growth(DataTypeCategory, "weekly", "2W"); err == nil {
		t.Error("Expected error for unknown metric")
	}
}

// TestAnnualSeries tests the raw yearly series for an entity
func TestAnnualSeries(t *testing.T) {
	data := MockDataset()

	series := data.AnnualSeries(DataTypeCategory, "2W")
	if len(series) != 3 {
		t.Fatalf("Expected 3 yearly rows, got %d", len(series))
	}
	if series[0].Year != 2022 || series[0].Registrations != 100 {
		t.Errorf("Expected 2022 with 100, got %d with %d", series[0].Year, series[0].Registrations)
	}
	if series[2].Year != 2024 || series[2].Registrations != 110 {
		t.Errorf("Expected 2024 with 110, got %d with %d", series[2].Year, series[2].Registrations)
	}
}

// TestMonthlySeries tests the raw monthly series for an entity
func TestMonthlySeries(t *testing.T) {
	data := MockDataset()

	series := data.MonthlySeries(DataTypeManufacturer, "HERO MOTOCORP LTD")
	if len(series) != 6 {
		t.Fatalf("Expected 6 monthly rows, got %d", len(series))
	}
	if series[0].Month != "JAN" || series[0].Registrations != 100 {
		t.Errorf("Expected JAN with 100 first, got %s with %d", series[0].Month, series[0].Registrations)
	}
	if series[5].Month != "JUN" {
		t.Errorf("Expected JUN last, got %s", series[5].Month)
	}
}

// TestPreviews tests row-limited previews of the loaded tables
func TestPreviews(t *testing.T) {
	data := MockDataset()

	preview := data.AnnualPreview(5)
	if len(preview) != 5 {
		t.Errorf("Expected 5 preview rows, got %d", len(preview))
	}

	all := data.AnnualPreview(-1)
	if len(all) != len(data.Annual) {
		t.Errorf("Expected all %d rows for negative limit, got %d", len(data.Annual), len(all))
	}

	over := data.MonthlyPreview(1000)
	if len(over) != len(data.Monthly) {
		t.Errorf("Expected all %d rows when limit exceeds size, got %d", len(data.Monthly), len(over))
	}
}

// TestGrowthPointStrings tests display formatting on growth points
func TestGrowthPointStrings(t *testing.T) {
	growth := 12.5
	prev := int64(1200)
	point := GrowthPoint{Period: "2024", Registrations: 1350, Previous: &prev, Growth: &growth}

	if got := point.GrowthString(); got != "12.50%" {
		t.Errorf("Expected 12.50%%, got %s", got)
	}
	if got := point.PreviousString(); got != "1,200" {
		t.Errorf("Expected 1,200, got %s", got)
	}
	if got := point.GrowthClass(); got != "positive" {
		t.Errorf("Expected positive, got %s", got)
	}

	first := GrowthPoint{Period: "2022", Registrations: 100}
	if got := first.GrowthString(); got != "N/A" {
		t.Errorf("Expected N/A, got %s", got)
	}
	if got := first.PreviousString(); got != "N/A" {
		t.Errorf("Expected N/A, got %s", got)
	}
	if got := first.GrowthClass(); got != "na" {
		t.Errorf("Expected na, got %s", got)
	}

	negative := -8.33
	down := GrowthPoint{Period: "2024", Registrations: 110, Growth: &negative}
	if got := down.GrowthString(); got != "-8.33%" {
		t.Errorf("Expected -8.33%%, got %s", got)
	}
	if got := down.GrowthClass(); got != "negative" {
		t.Errorf("Expected negative, got %s", got)
	}

	flat := 0.0
	stable := GrowthPoint{Period: "2024", Registrations: 110, Growth: &flat}
	if got := stable.GrowthClass(); got != "stable" {
		t.Errorf("Expected stable, got %s", got)
	}
}

// TestInsights tests narrative summaries for growth series
func TestInsights(t *testing.T) {
	data := MockDataset()

	yoy := ComputeYoY(data.Annual, DataTypeCategory, "2W")
	text := Insights(MetricYoY, "2W", yoy)
	if !strings.Contains(text, "**2W**") {
		t.Errorf("Expected insights to name the entity, got %s", text)
	}
	if !strings.Contains(text, "negative YoY growth of -8.33%") {
		t.Errorf("Expected latest decline figure in insights, got %s", text)
	}
	if !strings.Contains(text, "contraction") {
		t.Errorf("Expected contraction wording, got %s", text)
	}
	if !strings.Contains(text, "highest YoY growth was **20.00%** in **2023**") {
		t.Errorf("Expected best period callout for 2023, got %s", text)
	}

	hero := ComputeYoY(data.Annual, DataTypeManufacturer, "HERO MOTOCORP LTD")
	text = Insights(MetricYoY, "HERO MOTOCORP LTD", hero)
	if !strings.Contains(text, "positive YoY growth of 10.00%") {
		t.Errorf("Expected positive wording, got %s", text)
	}
	if !strings.Contains(text, "expansion") {
		t.Errorf("Expected expansion wording, got %s", text)
	}

	qoq := ComputeQoQ(data.Monthly, DataTypeCategory, "2W")
	text = Insights(MetricQoQ, "2W", qoq)
	if !strings.Contains(text, "QoQ growth of 20.00%") {
		t.Errorf("Expected quarterly metric label, got %s", text)
	}
	if !strings.Contains(text, "quarter") {
		t.Errorf("Expected quarter period noun, got %s", text)
	}
}

// TestInsightsStable tests the flat-series wording
func TestInsightsStable(t *testing.T) {
	annual := []AnnualRecord{
		MockAnnualRecord("STEADY MAKER", DataTypeManufacturer, 2022, 100),
		MockAnnualRecord("STEADY MAKER", DataTypeManufacturer, 2023, 100),
	}
	points := ComputeYoY(annual, DataTypeManufacturer, "STEADY MAKER")

	text := Insights(MetricYoY, "STEADY MAKER", points)
	if !strings.Contains(text, "stable") {
		t.Errorf("Expected stable wording, got %s", text)
	}
}

// TestInsightsEmpty tests the guidance message for unusable inputs
func TestInsightsEmpty(t *testing.T) {
	if got := Insights(MetricYoY, "2W", nil); got != noInsightsMessage {
		t.Errorf("Expected guidance message for empty points, got %s", got)
	}

	data := MockDataset()
	points := ComputeYoY(data.Annual, DataTypeCategory, "2W")
	if got := Insights("weekly", "2W", points); got != noInsightsMessage {
		t.Errorf("Expected guidance message for unknown metric, got %s", got)
	}
}
