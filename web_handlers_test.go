package main

import (
	"encoding/json"
	"html/template"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestDefaultFilters tests the initial dashboard filter state
func TestDefaultFilters(t *testing.T) {
	handler := &WebHandler{Data: MockDataset()}

	filters := handler.defaultFilters()

	if filters.DataType != DataTypeCategory {
		t.Errorf("Expected data type %s, got %s", DataTypeCategory, filters.DataType)
	}

	if filters.Metric != MetricYoY {
		t.Errorf("Expected metric %s, got %s", MetricYoY, filters.Metric)
	}

	if filters.Name != "2W" {
		t.Errorf("Expected first category 2W, got %s", filters.Name)
	}

	if filters.FromYear != 2022 || filters.ToYear != 2024 {
		t.Errorf("Expected year bounds 2022-2024, got %d-%d", filters.FromYear, filters.ToYear)
	}
}

// TestReadFilters tests pulling filter state out of requests
func TestReadFilters(t *testing.T) {
	handler := &WebHandler{Data: MockDataset()}

	testCases := []struct {
		name     string
		url      string
		expected dashboardFilters
	}{
		{
			name: "valid manufacturer selection",
			url:  "/growth?data_type=Manufacturer&metric=qoq&name=HERO+MOTOCORP+LTD&from_year=2023&to_year=2024",
			expected: dashboardFilters{
				DataType: DataTypeManufacturer,
				Metric:   MetricQoQ,
				Name:     "HERO MOTOCORP LTD",
				FromYear: 2023,
				ToYear:   2024,
			},
		},
		{
			name: "unknown data type falls back",
			url:  "/growth?data_type=Bicycle&name=2W",
			expected: dashboardFilters{
				DataType: DataTypeCategory,
				Metric:   MetricYoY,
				Name:     "2W",
				FromYear: 2022,
				ToYear:   2024,
			},
		},
		{
			name: "unknown metric falls back",
			url:  "/growth?metric=weekly&name=3W",
			expected: dashboardFilters{
				DataType: DataTypeCategory,
				Metric:   MetricYoY,
				Name:     "3W",
				FromYear: 2022,
				ToYear:   2024,
			},
		},
		{
			name: "stale name snaps to data type",
			url:  "/growth?data_type=Vehicle+Category&name=HERO+MOTOCORP+LTD",
			expected: dashboardFilters{
				DataType: DataTypeCategory,
				Metric:   MetricYoY,
				Name:     "2W",
				FromYear: 2022,
				ToYear:   2024,
			},
		},
		{
			name: "junk years fall back to bounds",
			url:  "/growth?name=2W&from_year=abc&to_year=",
			expected: dashboardFilters{
				DataType: DataTypeCategory,
				Metric:   MetricYoY,
				Name:     "2W",
				FromYear: 2022,
				ToYear:   2024,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			got := handler.readFilters(r)

			if got != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

// TestGrowthView tests assembling the growth panel data
func TestGrowthView(t *testing.T) {
	handler := &WebHandler{Data: MockDataset()}

	filters := dashboardFilters{
		DataType: DataTypeCategory,
		Metric:   MetricYoY,
		Name:     "2W",
		FromYear: 2022,
		ToYear:   2024,
	}

	view := handler.growthView(filters)

	points, ok := view["Points"].([]GrowthPoint)
	if !ok {
		t.Fatal("Expected growth points in view")
	}
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}

	if view["MetricLabel"] != "YoY Growth" {
		t.Errorf("Expected YoY Growth label, got %v", view["MetricLabel"])
	}

	if string(view["ChartLabels"].(template.JS)) != `["2022","2023","2024"]` {
		t.Errorf("Expected chart labels, got %s", view["ChartLabels"])
	}

	if string(view["ChartGrowth"].(template.JS)) != `[null,20,-8.33]` {
		t.Errorf("Expected chart growth values, got %s", view["ChartGrowth"])
	}

	if string(view["ChartCounts"].(template.JS)) != `[100,120,110]` {
		t.Errorf("Expected chart counts, got %s", view["ChartCounts"])
	}

	insights := string(view["Insights"].(template.HTML))
	if !strings.Contains(insights, "<strong>") {
		t.Errorf("Expected emphasized insights, got %s", insights)
	}
}

// TestGrowthViewNoName tests the growth panel without a selectable entity
func TestGrowthViewNoName(t *testing.T) {
	handler := &WebHandler{Data: &Dataset{}}

	view := handler.growthView(dashboardFilters{DataType: DataTypeCategory, Metric: MetricYoY})

	points := view["Points"].([]GrowthPoint)
	if len(points) != 0 {
		t.Errorf("Expected no points, got %d", len(points))
	}

	insights := string(view["Insights"].(template.HTML))
	if !strings.Contains(insights, "Select a data type") {
		t.Errorf("Expected guidance message, got %s", insights)
	}
}

// TestMetricLabel tests mapping metric keys to display labels
func TestMetricLabel(t *testing.T) {
	if got := metricLabel(MetricYoY); got != "YoY Growth" {
		t.Errorf("Expected YoY Growth, got %s", got)
	}
	if got := metricLabel(MetricQoQ); got != "QoQ Growth" {
		t.Errorf("Expected QoQ Growth, got %s", got)
	}
	if got := metricLabel(""); got != "YoY Growth" {
		t.Errorf("Expected YoY Growth fallback, got %s", got)
	}
}

// TestInsightsHTML tests converting insight markdown to inline HTML
func TestInsightsHTML(t *testing.T) {
	got := string(insightsHTML("The **2W** grew.\nNext <b>line</b>."))

	if !strings.Contains(got, "<strong>2W</strong>") {
		t.Errorf("Expected bold emphasis, got %s", got)
	}
	if !strings.Contains(got, "<br>") {
		t.Errorf("Expected line break, got %s", got)
	}
	if !strings.Contains(got, "&lt;b&gt;line&lt;/b&gt;") {
		t.Errorf("Expected markup to be escaped, got %s", got)
	}
}

// TestJsJSON tests marshaling values for inline scripts
func TestJsJSON(t *testing.T) {
	if got := jsJSON([]string{"a", "b"}); got != template.JS(`["a","b"]`) {
		t.Errorf("Expected JSON array, got %s", got)
	}

	// Unmarshalable values degrade to null
	if got := jsJSON(make(chan int)); got != template.JS("null") {
		t.Errorf("Expected null, got %s", got)
	}
}

// TestAtoiOr tests integer parsing with fallback
func TestAtoiOr(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		fallback int
		expected int
	}{
		{name: "number", input: "2024", fallback: 0, expected: 2024},
		{name: "padded", input: " 7 ", fallback: 0, expected: 7},
		{name: "empty", input: "", fallback: 42, expected: 42},
		{name: "junk", input: "abc", fallback: 42, expected: 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := atoiOr(tc.input, tc.fallback); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

// TestAPINames tests the names endpoint
func TestAPINames(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	rec := httptest.NewRecorder()
	handler.Names(rec, httptest.NewRequest("GET", "/api/names", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["count"].(float64) != 3 {
		t.Errorf("Expected 3 names, got %v", resp["count"])
	}
	names := resp["names"].([]interface{})
	if names[0].(string) != "2W" {
		t.Errorf("Expected 2W first, got %v", names[0])
	}

	// Unknown data type is rejected
	rec = httptest.NewRecorder()
	handler.Names(rec, httptest.NewRequest("GET", "/api/names?type=Bogus", nil))
	if rec.Code != 400 {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

// TestAPIGrowth tests the growth endpoint
func TestAPIGrowth(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	rec := httptest.NewRecorder()
	handler.Growth(rec, httptest.NewRequest("GET", "/api/growth?name=2W", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["name"] != "2W" || resp["metric"] != MetricYoY {
		t.Errorf("Expected 2W yoy response, got %v %v", resp["name"], resp["metric"])
	}

	points := resp["points"].([]interface{})
	if len(points) != 3 {
		t.Fatalf("Expected 3 points, got %d", len(points))
	}
	first := points[0].(map[string]interface{})
	if first["growth"] != nil {
		t.Errorf("Expected null growth on first point, got %v", first["growth"])
	}
	if resp["insights"].(string) == "" {
		t.Error("Expected insights text")
	}
}

// TestAPIGrowthFiltering tests year filtering on the growth endpoint
func TestAPIGrowthFiltering(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	rec := httptest.NewRecorder()
	handler.Growth(rec, httptest.NewRequest("GET", "/api/growth?name=2W&from=2023", nil))

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	points := resp["points"].([]interface{})
	if len(points) != 2 {
		t.Errorf("Expected 2 filtered points, got %d", len(points))
	}
}

// TestAPIGrowthErrors tests growth endpoint validation
func TestAPIGrowthErrors(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	testCases := []struct {
		name     string
		url      string
		expected int
	}{
		{name: "unknown name", url: "/api/growth?name=NO+SUCH+MAKER", expected: 404},
		{name: "missing name", url: "/api/growth", expected: 404},
		{name: "unknown metric", url: "/api/growth?name=2W&metric=weekly", expected: 400},
		{name: "unknown type", url: "/api/growth?name=2W&type=Bogus", expected: 400},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.Growth(rec, httptest.NewRequest("GET", tc.url, nil))
			if rec.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

// TestAPIYears tests the year bounds endpoint
func TestAPIYears(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	rec := httptest.NewRecorder()
	handler.Years(rec, httptest.NewRequest("GET", "/api/years", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["min_year"].(float64) != 2022 || resp["max_year"].(float64) != 2024 {
		t.Errorf("Expected 2022-2024, got %v-%v", resp["min_year"], resp["max_year"])
	}
}

// TestAPIPreview tests the table preview endpoint
func TestAPIPreview(t *testing.T) {
	handler := &APIHandler{Data: MockDataset()}

	rec := httptest.NewRecorder()
	handler.Preview(rec, httptest.NewRequest("GET", "/api/preview", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["table"] != "annual" {
		t.Errorf("Expected annual table by default, got %v", resp["table"])
	}
	if resp["count"].(float64) != 5 {
		t.Errorf("Expected default limit of 5 rows, got %v", resp["count"])
	}

	rec = httptest.NewRecorder()
	handler.Preview(rec, httptest.NewRequest("GET", "/api/preview?table=monthly&limit=3", nil))
	resp = map[string]interface{}{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["count"].(float64) != 3 {
		t.Errorf("Expected 3 monthly rows, got %v", resp["count"])
	}

	rec = httptest.NewRecorder()
	handler.Preview(rec, httptest.NewRequest("GET", "/api/preview?table=bogus", nil))
	if rec.Code != 400 {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
