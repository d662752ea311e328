package main

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
)

// WebHandler handles HTMX HTML requests
type WebHandler struct {
	Data      *Dataset
	templates *template.Template
}

// NewWebHandler creates a new WebHandler with parsed templates
func NewWebHandler(data *Dataset) *WebHandler {
	tmpl := template.Must(template.ParseGlob("templates/*.html"))
	template.Must(tmpl.ParseGlob("templates/partials/*.html"))
	return &WebHandler{
		Data:      data,
		templates: tmpl,
	}
}

// dashboardFilters is the filter state carried by the dashboard form.
type dashboardFilters struct {
	DataType string
	Metric   string
	Name     string
	FromYear int
	ToYear   int
}

func (h *WebHandler) defaultFilters() dashboardFilters {
	minYear, maxYear := h.Data.YearBounds()
	filters := dashboardFilters{
		DataType: DataTypeCategory,
		Metric:   MetricYoY,
		FromYear: minYear,
		ToYear:   maxYear,
	}
	if names := h.Data.Names(filters.DataType); len(names) > 0 {
		filters.Name = names[0]
	}
	return filters
}

// readFilters pulls the filter state out of a request, falling back to
// defaults for anything missing or stale. A name left over from the
// previously selected data type snaps to the first name of the new one.
func (h *WebHandler) readFilters(r *http.Request) dashboardFilters {
	minYear, maxYear := h.Data.YearBounds()
	filters := dashboardFilters{
		DataType: r.FormValue("data_type"),
		Metric:   r.FormValue("metric"),
		Name:     r.FormValue("name"),
		FromYear: atoiOr(r.FormValue("from_year"), minYear),
		ToYear:   atoiOr(r.FormValue("to_year"), maxYear),
	}

	if filters.DataType != DataTypeManufacturer {
		filters.DataType = DataTypeCategory
	}
	if m, err := NormalizeMetric(filters.Metric); err == nil {
		filters.Metric = m
	} else {
		filters.Metric = MetricYoY
	}
	if !h.Data.HasName(filters.DataType, filters.Name) {
		filters.Name = ""
		if names := h.Data.Names(filters.DataType); len(names) > 0 {
			filters.Name = names[0]
		}
	}
	return filters
}

// DashboardPage renders the full dashboard
func (h *WebHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	filters := h.defaultFilters()
	minYear, maxYear := h.Data.YearBounds()

	data := map[string]interface{}{
		"Title":          "Vahan Registration Dashboard",
		"Filters":        filters,
		"Names":          h.Data.Names(filters.DataType),
		"MinYear":        minYear,
		"MaxYear":        maxYear,
		"Growth":         h.growthView(filters),
		"AnnualPreview":  h.Data.AnnualPreview(previewLimit),
		"MonthlyPreview": h.Data.MonthlyPreview(previewLimit),
		"AnnualCount":    len(h.Data.Annual),
		"MonthlyCount":   len(h.Data.Monthly),
	}

	if err := h.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// FilterForm re-renders the filter form when the data type switches, so
// the name list matches the new type. The response also swaps the growth
// panel out of band to keep both sides in step.
func (h *WebHandler) FilterForm(w http.ResponseWriter, r *http.Request) {
	filters := h.readFilters(r)
	minYear, maxYear := h.Data.YearBounds()

	data := map[string]interface{}{
		"Filters": filters,
		"Names":   h.Data.Names(filters.DataType),
		"MinYear": minYear,
		"MaxYear": maxYear,
		"Growth":  h.growthView(filters),
	}

	if err := h.templates.ExecuteTemplate(w, "filter_update.html", data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// GrowthPanel handles filter submissions and returns the growth partial
func (h *WebHandler) GrowthPanel(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	filters := h.readFilters(r)
	if err := h.templates.ExecuteTemplate(w, "growth_panel.html", h.growthView(filters)); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// growthView assembles everything the growth panel shows: the filtered
// series, the insight text and the arrays handed to Chart.js.
func (h *WebHandler) growthView(filters dashboardFilters) map[string]interface{} {
	view := map[string]interface{}{
		"Filters":     filters,
		"MetricLabel": metricLabel(filters.Metric),
	}

	if filters.Name == "" {
		view["Points"] = []GrowthPoint(nil)
		view["Insights"] = insightsHTML(noInsightsMessage)
		view["ChartLabels"] = jsJSON([]string{})
		view["ChartGrowth"] = jsJSON([]interface{}{})
		view["ChartCounts"] = jsJSON([]int64{})
		return view
	}

	points, err := h.Data.Growth(filters.DataType, filters.Metric, filters.Name)
	if err != nil {
		log.Printf("Growth computation error: %v", err)
		points = nil
	}
	points = FilterYears(points, filters.FromYear, filters.ToYear)

	labels := make([]string, len(points))
	growth := make([]interface{}, len(points))
	counts := make([]int64, len(points))
	for i, p := range points {
		labels[i] = p.Period
		counts[i] = p.Registrations
		if p.Growth != nil {
			growth[i] = *p.Growth
		}
	}

	view["Points"] = points
	view["Insights"] = insightsHTML(Insights(filters.Metric, filters.Name, points))
	view["ChartLabels"] = jsJSON(labels)
	view["ChartGrowth"] = jsJSON(growth)
	view["ChartCounts"] = jsJSON(counts)
	return view
}

func metricLabel(metric string) string {
	if metric == MetricQoQ {
		return "QoQ Growth"
	}
	return "YoY Growth"
}

// insightsHTML converts the markdown emphasis in an insight to inline
// HTML for the dashboard.
func insightsHTML(md string) template.HTML {
	escaped := template.HTMLEscapeString(md)

	parts := strings.Split(escaped, "**")
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString("<strong>")
			b.WriteString(part)
			b.WriteString("</strong>")
		} else {
			b.WriteString(part)
		}
	}

	return template.HTML(strings.ReplaceAll(b.String(), "\n", "<br>"))
}

// jsJSON marshals a value for embedding in an inline script block.
func jsJSON(v interface{}) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

func atoiOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
