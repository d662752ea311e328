package main

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIHandler handles JSON API requests
type APIHandler struct {
	Data *Dataset
}

func validDataType(s string) bool {
	return s == DataTypeCategory || s == DataTypeManufacturer
}

// Names lists the display names available for a data type
func (h *APIHandler) Names(w http.ResponseWriter, r *http.Request) {
	dataType := r.URL.Query().Get("type")
	if dataType == "" {
		dataType = DataTypeCategory
	}
	if !validDataType(dataType) {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown data type: " + dataType,
		})
		return
	}

	names := h.Data.Names(dataType)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"names": names,
		"count": len(names),
		"type":  dataType,
	})
}

// Growth returns the growth series and insight text for one name
func (h *APIHandler) Growth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	dataType := q.Get("type")
	if dataType == "" {
		dataType = DataTypeCategory
	}
	if !validDataType(dataType) {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown data type: " + dataType,
		})
		return
	}

	metric := q.Get("metric")
	if metric == "" {
		metric = MetricYoY
	}
	metric, err := NormalizeMetric(metric)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
		return
	}

	name := q.Get("name")
	if name == "" || !h.Data.HasName(dataType, name) {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": "name not found: " + name,
		})
		return
	}

	points, err := h.Data.Growth(dataType, metric, name)
	if err != nil {
		log.Printf("Growth computation error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "growth computation failed",
		})
		return
	}
	points = FilterYears(points, atoiOr(q.Get("from"), 0), atoiOr(q.Get("to"), 0))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":     name,
		"type":     dataType,
		"metric":   metric,
		"points":   points,
		"insights": Insights(metric, name, points),
	})
}

// Years reports the year bounds of the loaded dataset
func (h *APIHandler) Years(w http.ResponseWriter, r *http.Request) {
	minYear, maxYear := h.Data.YearBounds()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"min_year": minYear,
		"max_year": maxYear,
	})
}

// Preview returns the first rows of either registration table
func (h *APIHandler) Preview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	table := q.Get("table")
	if table == "" {
		table = "annual"
	}
	limit := atoiOr(q.Get("limit"), previewLimit)

	var rows interface{}
	var count int
	switch table {
	case "annual":
		preview := h.Data.AnnualPreview(limit)
		rows, count = preview, len(preview)
	case "monthly":
		preview := h.Data.MonthlyPreview(limit)
		rows, count = preview, len(preview)
	default:
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown table: " + table + " (expected annual or monthly)",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"table": table,
		"rows":  rows,
		"count": count,
	})
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}
