package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/Programmer-govind/Vehicle-Registration-Dashboard/cmd"
)

const (
	previewLimit = 5
)

var logger *slog.Logger

// setupLogger creates and configures the application logger
func setupLogger(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	logPath := filepath.Join(dataDir, "err.log")

	// Create log file
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Create JSON handler for structured logging
	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true, // Include file:line information
	})

	logger = slog.New(handler)
	logger.Info("Application started", "version", "1.0", "data_dir", dataDir)

	return nil
}

// renderMarkdown renders markdown content with glamour for beautiful display
func renderMarkdown(content string, width int) (string, error) {
	// Account for borders, padding, and glamour's internal gutter
	const glamourGutter = 2
	const borderWidth = 4 // 2 for border characters, 2 for padding

	renderWidth := width - borderWidth - glamourGutter
	if renderWidth < 40 {
		renderWidth = 40 // Minimum width for readable content
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(renderWidth),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return "", err
	}

	return rendered, nil
}

type view int

const (
	filterView view = iota
	detailView
	savePromptView
	yearPromptView
)

type model struct {
	data          *Dataset
	currentView   view
	dataType      string
	metric        string
	fromYear      int
	toYear        int
	saveInput     textinput.Model
	yearInput     textinput.Model
	viewport      viewport.Model
	list          list.Model
	spinner       spinner.Model
	selected      string
	points        []GrowthPoint
	insights      string
	width         int
	height        int
	err           error
	loading       bool
	saveSuccess   string
	viewportReady bool
}

type nameItem struct {
	name    string
	summary string
}

func (i nameItem) Title() string {
	return i.name
}

func (i nameItem) Description() string {
	return i.summary
}

func (i nameItem) FilterValue() string {
	return i.name
}

// buildNameItems lists the selectable entities for a data type with a
// one-line summary of their annual series.
func buildNameItems(data *Dataset, dataType string) []list.Item {
	names := data.Names(dataType)
	items := make([]list.Item, len(names))
	for i, name := range names {
		series := data.AnnualSeries(dataType, name)
		summary := "No annual data"
		if len(series) > 0 {
			latest := series[len(series)-1]
			summary = fmt.Sprintf("%d-%d | Latest: %s registrations (%d)",
				series[0].Year, latest.Year, latest.RegistrationsString(), latest.Year)
		}
		items[i] = nameItem{name: name, summary: summary}
	}
	return items
}

type growthMsg struct {
	points   []GrowthPoint
	insights string
	err      error
}

type saveMsg struct {
	filename string
	err      error
}

func computeGrowth(data *Dataset, dataType, metric, name string, fromYear, toYear int) tea.Cmd {
	return func() tea.Msg {
		points, err := data.Growth(dataType, metric, name)
		if err != nil {
			return growthMsg{err: err}
		}
		points = FilterYears(points, fromYear, toYear)
		return growthMsg{points: points, insights: Insights(metric, name, points)}
	}
}

func saveGrowthData(dataType, metric, name string, points []GrowthPoint, filename string) tea.Cmd {
	return func() tea.Msg {
		data := map[string]interface{}{
			"name":      name,
			"data_type": dataType,
			"metric":    metric,
			"points":    points,
		}

		jsonData, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return saveMsg{err: fmt.Errorf("failed to marshal data: %w", err)}
		}

		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return saveMsg{err: fmt.Errorf("failed to write file: %w", err)}
		}

		return saveMsg{filename: filename, err: nil}
	}
}

// growthTableCSV renders the current growth series as CSV text for the
// clipboard.
func growthTableCSV(points []GrowthPoint) string {
	var b strings.Builder
	b.WriteString("period,registrations,previous,growth\n")
	for _, p := range points {
		prev := ""
		if p.Previous != nil {
			prev = fmt.Sprintf("%d", *p.Previous)
		}
		growth := ""
		if p.Growth != nil {
			growth = fmt.Sprintf("%.2f", *p.Growth)
		}
		b.WriteString(fmt.Sprintf("%s,%d,%s,%s\n", p.Period, p.Registrations, prev, growth))
	}
	return b.String()
}

func initialModel(data *Dataset) model {
	si := textinput.New()
	si.Placeholder = "Enter filename (e.g., growth_data.json)"
	si.CharLimit = 200
	si.Width = 60

	yi := textinput.New()
	yi.Placeholder = "e.g., 2019-2024"
	yi.CharLimit = 20
	yi.Width = 30

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)

	l := list.New(buildNameItems(data, DataTypeCategory), delegate, 0, 0)
	l.Title = "Vahan Dashboard"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		Padding(0, 1)

	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	return model{
		data:        data,
		currentView: filterView,
		dataType:    DataTypeCategory,
		metric:      MetricYoY,
		saveInput:   si,
		yearInput:   yi,
		viewport:    vp,
		list:        l,
		spinner:     sp,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)

		// Update viewport dimensions
		// Reserve 6 lines: 1 for newline, 1 for scroll indicator, up to 3 for status messages, 1 for help text
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6
		m.viewportReady = true

		// Refresh viewport content if in detail view
		if m.currentView == detailView {
			m.updateDetailViewport()
		}

		return m, nil

	case tea.KeyMsg:
		if m.currentView == detailView {
			return m.handleDetailViewKeys(msg)
		} else if m.currentView == savePromptView {
			return m.handleSavePromptKeys(msg)
		} else if m.currentView == yearPromptView {
			return m.handleYearPromptKeys(msg)
		}
		return m.handleFilterViewKeys(msg)

	case tea.MouseMsg:
		if m.currentView == detailView {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case spinner.TickMsg:
		// Keep ticking only while a computation is in flight
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case growthMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			if logger != nil {
				logger.Error("Growth computation failed", "error", msg.err, "name", m.selected, "data_type", m.dataType, "metric", m.metric)
			}
			return m, nil
		}
		m.points = msg.points
		m.insights = msg.insights
		m.err = nil
		if m.currentView == detailView {
			m.updateDetailViewport()
		}
		if logger != nil {
			logger.Info("Growth computed", "name", m.selected, "metric", m.metric, "points", len(msg.points))
		}
		return m, nil

	case saveMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("save failed: %w", msg.err)
			m.currentView = detailView
			if logger != nil {
				logger.Error("Failed to save growth data", "error", msg.err, "name", m.selected, "filename", m.saveInput.Value())
			}
			return m, nil
		}
		m.saveSuccess = fmt.Sprintf("Saved to: %s", msg.filename)
		m.saveInput.SetValue("")
		m.currentView = detailView
		if logger != nil {
			logger.Info("Growth data saved", "name", m.selected, "filename", msg.filename)
		}
		return m, nil
	}

	if m.currentView == filterView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) handleFilterViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the user types a filter query the list owns the keyboard
	if m.list.FilterState() == list.Filtering {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		// Esc clears an applied filter before it quits
		if m.list.FilterState() == list.FilterApplied {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if item, ok := m.list.SelectedItem().(nameItem); ok {
			m.selected = item.name
			m.currentView = detailView
			m.loading = true
			m.points = nil
			m.insights = ""
			m.err = nil
			m.saveSuccess = ""
			m.viewport.GotoTop()
			m.updateDetailViewport()
			return m, tea.Batch(m.spinner.Tick, computeGrowth(m.data, m.dataType, m.metric, m.selected, m.fromYear, m.toYear))
		}
		return m, nil

	case tea.KeyTab:
		// Toggle between vehicle categories and manufacturers
		if m.dataType == DataTypeCategory {
			m.dataType = DataTypeManufacturer
		} else {
			m.dataType = DataTypeCategory
		}
		m.list.ResetFilter()
		m.list.SetItems(buildNameItems(m.data, m.dataType))
		m.list.ResetSelected()
		return m, nil
	}

	switch msg.String() {
	case "m":
		// Toggle growth metric
		if m.metric == MetricYoY {
			m.metric = MetricQoQ
		} else {
			m.metric = MetricYoY
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) handleDetailViewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEsc:
		m.currentView = filterView
		m.selected = ""
		m.points = nil
		m.insights = ""
		m.err = nil
		m.saveSuccess = ""
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlY:
		if len(m.points) > 0 {
			_ = clipboard.WriteAll(growthTableCSV(m.points))
		}
		return m, nil

	case tea.KeyCtrlW:
		// Save growth series to file
		if m.selected != "" {
			m.currentView = savePromptView
			m.saveInput.Focus()
			m.err = nil
			m.saveSuccess = ""
			// Pre-fill with entity name and metric
			defaultName := strings.ReplaceAll(strings.ToLower(m.selected), " ", "_") + "_" + m.metric + ".json"
			m.saveInput.SetValue(defaultName)
			return m, textinput.Blink
		}
		return m, nil

	// Scrolling keys
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "m":
		// Toggle growth metric and recompute
		if m.metric == MetricYoY {
			m.metric = MetricQoQ
		} else {
			m.metric = MetricYoY
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, computeGrowth(m.data, m.dataType, m.metric, m.selected, m.fromYear, m.toYear))

	case "y":
		// Edit the year range
		m.currentView = yearPromptView
		m.yearInput.Focus()
		m.err = nil
		m.saveSuccess = ""
		if m.fromYear != 0 || m.toYear != 0 {
			m.yearInput.SetValue(fmt.Sprintf("%d-%d", m.fromYear, m.toYear))
		}
		return m, textinput.Blink
	}

	return m, nil
}

func (m model) handleSavePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.currentView = detailView
		m.saveInput.SetValue("")
		return m, nil

	case tea.KeyEnter:
		filename := m.saveInput.Value()
		if filename == "" {
			m.err = fmt.Errorf("filename cannot be empty")
			return m, nil
		}
		return m, saveGrowthData(m.dataType, m.metric, m.selected, m.points, filename)
	}

	var cmd tea.Cmd
	m.saveInput, cmd = m.saveInput.Update(msg)
	return m, cmd
}

func (m model) handleYearPromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.currentView = detailView
		m.yearInput.SetValue("")
		m.err = nil
		return m, nil

	case tea.KeyEnter:
		from, to, err := parseYearRange(m.yearInput.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.fromYear = from
		m.toYear = to
		m.yearInput.SetValue("")
		m.currentView = detailView
		m.err = nil
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, computeGrowth(m.data, m.dataType, m.metric, m.selected, m.fromYear, m.toYear))
	}

	var cmd tea.Cmd
	m.yearInput, cmd = m.yearInput.Update(msg)
	return m, cmd
}

// parseYearRange parses "2019-2024" or a single year. An empty string
// clears the range.
func parseYearRange(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	parts := strings.SplitN(s, "-", 2)
	from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year range %q", s)
	}

	to := from
	if len(parts) == 2 {
		to, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year range %q", s)
		}
	}

	if from > to {
		return 0, 0, fmt.Errorf("invalid year range %q: start after end", s)
	}

	return from, to, nil
}

func (m model) View() string {
	if m.currentView == detailView {
		return m.detailViewRender()
	} else if m.currentView == savePromptView {
		return m.savePromptView()
	} else if m.currentView == yearPromptView {
		return m.yearPromptView()
	}
	return m.filterViewRender()
}

func (m model) filterViewRender() string {
	var b strings.Builder

	// Header
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	b.WriteString(headerStyle.Render("🚗 Vahan Registration Dashboard"))
	b.WriteString("\n\n")

	// Active filters
	minYear, maxYear := m.data.YearBounds()
	filterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(filterStyle.Render(fmt.Sprintf("Data Type: %s | Metric: %s | Years: %d-%d",
		m.dataType, metricLabel(m.metric), minYear, maxYear)))
	b.WriteString("\n\n")

	// Loading indicator
	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...\n")
	}

	// Error display
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	b.WriteString(m.list.View())

	// Help text
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	help := "\nEnter: Select | Tab: Toggle data type | m: Toggle metric | /: Filter | Esc/Ctrl+C: Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m model) detailViewContent() string {
	if m.selected == "" {
		return "No entity selected"
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		MarginBottom(1)

	// Header
	b.WriteString(titleStyle.Render("📊 Registration Growth"))
	b.WriteString("\n\n")

	// Selection summary
	b.WriteString(InfoBox("Entity", m.selected, lipgloss.Color("33")))
	b.WriteString(" ")
	b.WriteString(InfoBox("Data Type", m.dataType, lipgloss.Color("62")))
	b.WriteString(" ")
	b.WriteString(InfoBox("Metric", metricLabel(m.metric), lipgloss.Color("226")))
	if m.fromYear != 0 || m.toYear != 0 {
		b.WriteString(" ")
		b.WriteString(InfoBox("Years", fmt.Sprintf("%d-%d", m.fromYear, m.toYear), lipgloss.Color("201")))
	}
	b.WriteString("\n\n")

	if len(m.points) == 0 {
		b.WriteString("No data available for the selected filters.\n")
		return b.String()
	}

	// Latest period card
	latest := m.points[len(m.points)-1]
	b.WriteString(MetricCard(
		fmt.Sprintf("Latest Period (%s)", latest.Period),
		latest.RegistrationsString(),
		fmt.Sprintf("%s vs previous: %s", metricLabel(m.metric), latest.GrowthString()),
		latest.Growth,
	))
	b.WriteString("\n\n")

	// Registrations per period
	var maxRegistrations int64
	for _, p := range m.points {
		if p.Registrations > maxRegistrations {
			maxRegistrations = p.Registrations
		}
	}

	var regInfo strings.Builder
	for _, p := range m.points {
		regInfo.WriteString(RegistrationsBar(p.Period, p.Registrations, maxRegistrations, 36, lipgloss.Color("33")))
		regInfo.WriteString("\n")
	}

	var values []float64
	for _, p := range m.points {
		values = append(values, float64(p.Registrations))
	}
	regInfo.WriteString("\nTrend: " + TrendSparkline(values))

	b.WriteString(sectionStyle.Render("Registrations\n\n" + regInfo.String()))
	b.WriteString("\n")

	// Growth per period
	maxGrowth := 0.0
	for _, p := range m.points {
		if p.Growth != nil && math.Abs(*p.Growth) > maxGrowth {
			maxGrowth = math.Abs(*p.Growth)
		}
	}
	if maxGrowth > 0 {
		var growthInfo strings.Builder
		for _, p := range m.points {
			if p.Growth == nil {
				continue
			}
			growthInfo.WriteString(GrowthBar(p.Period, *p.Growth, maxGrowth, 30))
			growthInfo.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(metricLabel(m.metric) + "\n\n" + growthInfo.String()))
		b.WriteString("\n")
	}

	// Insights
	if m.insights != "" {
		insightsTitle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("201")).
			Render("💡 Insights")

		b.WriteString(insightsTitle)
		b.WriteString("\n\n")

		rendered, err := renderMarkdown(m.insights, m.width)
		if err != nil {
			// Fallback to plain markdown if rendering fails
			b.WriteString(m.insights)
		} else {
			b.WriteString(rendered)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *model) updateDetailViewport() {
	if !m.viewportReady || m.selected == "" {
		return
	}
	content := m.detailViewContent()
	m.viewport.SetContent(content)
}

func (m model) detailViewRender() string {
	if !m.viewportReady || m.selected == "" {
		return "Loading..."
	}

	var b strings.Builder

	// Render viewport
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Add scroll indicator if content is scrollable
	if m.viewport.TotalLineCount() > m.viewport.Height {
		scrollPercent := int(m.viewport.ScrollPercent() * 100)
		scrollInfo := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render(fmt.Sprintf("─── %d%% ───", scrollPercent))
		b.WriteString(scrollInfo)
		b.WriteString("\n")
	}

	// Status indicators (always visible)
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("226")).
		Bold(true)

	if m.loading {
		b.WriteString(m.spinner.View() + statusStyle.Render("Computing growth..."))
		b.WriteString("\n")
	}

	// Save success message
	if m.saveSuccess != "" {
		successStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)
		b.WriteString(successStyle.Render("✓ " + m.saveSuccess))
		b.WriteString("\n")
	}

	// Error display
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Error: %v", m.err)))
		b.WriteString("\n")
	}

	// Help text (always visible at bottom)
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	help := "↑/↓/PgUp/PgDn: Scroll | m: Toggle metric | y: Years | Ctrl+W: Save | Ctrl+Y: Copy CSV | Esc: Back | Ctrl+C: Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m model) savePromptView() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("💾 Save Growth Data"))
	b.WriteString("\n\n")

	if m.selected != "" {
		infoStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
		b.WriteString(infoStyle.Render(fmt.Sprintf("Saving %s data for: %s", metricLabel(m.metric), m.selected)))
		b.WriteString("\n\n")
	}

	// Input prompt
	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString("Filename: ")
	b.WriteString(inputStyle.Render(m.saveInput.View()))
	b.WriteString("\n\n")

	// Info text
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	info := "The file will contain:\n"
	info += "  • The selected entity, data type and metric\n"
	info += "  • One point per period (registrations, previous, growth %)\n"
	info += "\nFormat: JSON"
	b.WriteString(infoStyle.Render(info))
	b.WriteString("\n\n")

	// Error display
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	// Help text
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	help := "Enter: Save | Esc: Cancel | Ctrl+C: Quit"
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m model) yearPromptView() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("📅 Filter Years"))
	b.WriteString("\n\n")

	minYear, maxYear := m.data.YearBounds()
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(infoStyle.Render(fmt.Sprintf("Available: %d-%d. Leave empty to show all years.", minYear, maxYear)))
	b.WriteString("\n\n")

	inputStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	b.WriteString("Range: ")
	b.WriteString(inputStyle.Render(m.yearInput.View()))
	b.WriteString("\n\n")

	// Error display
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v\n", m.err)))
	}

	// Help text
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)

	b.WriteString(helpStyle.Render("Enter: Apply | Esc: Cancel"))

	return b.String()
}

// launchTUI starts the interactive TUI application
func launchTUI(dataDir string) {
	// Setup logger first
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
	}

	// Check for scraped data files
	summary, err := CheckDataFiles(dataDir)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to check data files", "error", err, "data_dir", dataDir)
		}
		fmt.Fprintf(os.Stderr, "Error checking data files: %v\n", err)
		os.Exit(1)
	}

	dbPath := resolveDBPath(dataDir, "")
	dbExists := false
	if _, err := os.Stat(dbPath); err == nil {
		dbExists = true
	}

	if summary.Empty() && !dbExists {
		if logger != nil {
			logger.Warn("No data available", "data_dir", dataDir)
		}
		fmt.Println("\n❌ No scraped data found in " + dataDir)
		fmt.Println("Run 'vahan scrape' first, or point --data-dir at an existing data directory.")
		os.Exit(1)
	}

	src, err := openDataSource(dataDir, "", "")
	if err != nil {
		if logger != nil {
			logger.Error("Failed to open data source", "error", err, "data_dir", dataDir)
		}
		fmt.Fprintf(os.Stderr, "Error opening data source: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	data, err := LoadDataset(context.Background(), src)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to load dataset", "error", err, "data_dir", dataDir)
		}
		fmt.Fprintf(os.Stderr, "Error loading dataset: %v\n", err)
		os.Exit(1)
	}

	// Print configuration info
	fmt.Println("\n📊 Vahan Dashboard Configuration:")
	fmt.Printf("   • Annual files: %d | Monthly files: %d\n", summary.AnnualFiles, summary.MonthlyFiles)
	if len(summary.Years) > 0 {
		fmt.Printf("   • Years: %d-%d\n", summary.Years[0], summary.Years[len(summary.Years)-1])
	}
	if dbExists {
		fmt.Println("   • Source: ✓ SQLite database")
	} else {
		fmt.Println("   • Source: CSV files (run 'vahan migrate' to build the database)")
	}
	fmt.Println()

	p := tea.NewProgram(
		initialModel(data),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// resolveDBPath returns the SQLite database path, defaulting to
// vahan_data.db inside the data directory.
func resolveDBPath(dataDir, dbPath string) string {
	if dbPath == "" {
		return filepath.Join(dataDir, "vahan_data.db")
	}
	return dbPath
}

// openDataSource opens the requested data source. An empty source
// auto-detects: the SQLite database when it exists, CSV files otherwise.
func openDataSource(dataDir, source, dbPath string) (DataSource, error) {
	path := resolveDBPath(dataDir, dbPath)

	switch source {
	case "sqlite":
		return OpenDB(path)
	case "csv":
		return OpenCSVSource(dataDir)
	case "":
		if _, err := os.Stat(path); err == nil {
			return OpenDB(path)
		}
		return OpenCSVSource(dataDir)
	default:
		return nil, fmt.Errorf("unknown source %q (expected sqlite or csv)", source)
	}
}

// initStore initializes the data store for CLI commands
func initStore(dataDir, source, dbPath string) (cmd.StoreInterface, func(), error) {
	// Setup logger
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	src, err := openDataSource(dataDir, source, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data source: %w", err)
	}

	data, err := LoadDataset(context.Background(), src)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	cleanup := func() {
		_ = src.Close()
	}

	return &storeAdapter{data: data, src: src}, cleanup, nil
}

// storeAdapter adapts the loaded Dataset and its DataSource to
// cmd.StoreInterface
type storeAdapter struct {
	data *Dataset
	src  DataSource
}

func (a *storeAdapter) Names(dataType string) ([]string, error) {
	return a.data.Names(dataType), nil
}

func (a *storeAdapter) Growth(dataType, metric, name string, fromYear, toYear int) ([]cmd.GrowthPointData, error) {
	if !a.data.HasName(dataType, name) {
		return nil, fmt.Errorf("name not found: %s", name)
	}

	points, err := a.data.Growth(dataType, metric, name)
	if err != nil {
		return nil, err
	}
	points = FilterYears(points, fromYear, toYear)

	return convertGrowthPoints(points), nil
}

func (a *storeAdapter) Insights(dataType, metric, name string) (string, error) {
	points, err := a.data.Growth(dataType, metric, name)
	if err != nil {
		return "", err
	}
	return Insights(metric, name, points), nil
}

func (a *storeAdapter) AnnualSeries(dataType, name string) ([]cmd.AnnualRecordData, error) {
	records := a.data.AnnualSeries(dataType, name)
	result := make([]cmd.AnnualRecordData, len(records))
	for i, r := range records {
		result[i] = cmd.AnnualRecordData{
			Name:          r.Name,
			DataType:      r.DataType,
			Year:          r.Year,
			Registrations: r.Registrations,
		}
	}
	return result, nil
}

func (a *storeAdapter) MonthlySeries(dataType, name string) ([]cmd.MonthlyRecordData, error) {
	records := a.data.MonthlySeries(dataType, name)
	result := make([]cmd.MonthlyRecordData, len(records))
	for i, r := range records {
		result[i] = cmd.MonthlyRecordData{
			Name:          r.Name,
			DataType:      r.DataType,
			Year:          r.Year,
			Month:         r.Month,
			Registrations: r.Registrations,
		}
	}
	return result, nil
}

func (a *storeAdapter) YearBounds() (int, int, error) {
	minYear, maxYear := a.data.YearBounds()
	return minYear, maxYear, nil
}

func (a *storeAdapter) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	return a.src.ExecuteQuery(query)
}

func (a *storeAdapter) Close() error {
	return a.src.Close()
}

// convertGrowthPoints converts GrowthPoint to cmd.GrowthPointData
func convertGrowthPoints(points []GrowthPoint) []cmd.GrowthPointData {
	result := make([]cmd.GrowthPointData, len(points))
	for i, p := range points {
		result[i] = cmd.GrowthPointData{
			Period:        p.Period,
			Year:          p.Year,
			Quarter:       p.Quarter,
			Registrations: p.Registrations,
			Previous:      p.Previous,
			Growth:        p.Growth,
		}
	}
	return result
}

// startServer wires a loaded store into the HTTP server
func startServer(store cmd.StoreInterface, port int, dataDir string) error {
	adapter, ok := store.(*storeAdapter)
	if !ok {
		return fmt.Errorf("unsupported store type")
	}

	config := ServerConfig{
		Port:     port,
		Data:     adapter.data,
		DataPath: dataDir,
	}

	return StartServer(config)
}

// runScrape runs a full scraping pass with the given options
func runScrape(opts cmd.ScrapeOptions) error {
	if err := setupLogger(opts.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	cfg := ScraperConfig{
		DataDir:    opts.DataDir,
		BackupDir:  opts.BackupDir,
		Headless:   opts.Headless,
		YAxes:      opts.YAxes,
		XAxes:      opts.XAxes,
		Years:      opts.Years,
		NavTimeout: opts.Timeout,
	}

	if opts.ToDB {
		db, err := OpenDB(resolveDBPath(opts.DataDir, opts.DBPath))
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		cfg.Store = db
	}

	scraper, err := NewVahanScraper(cfg)
	if err != nil {
		return err
	}
	defer scraper.Close()

	fmt.Println("🌐 Starting Vahan dashboard scrape...")
	fmt.Printf("   • Data directory: %s\n", cfg.DataDir)
	fmt.Printf("   • Backup directory: %s\n", cfg.BackupDir)
	fmt.Println()

	stats, err := scraper.Run(context.Background())
	if stats != nil {
		fmt.Printf("\n📊 Scrape finished: %d combination(s), %d saved, %d skipped\n",
			stats.Combinations, stats.Saved, len(stats.Skipped))
		for _, skipped := range stats.Skipped {
			fmt.Printf("   ⚠ %s\n", skipped)
		}
	}
	return err
}

// runMigration loads the scraped CSV files into the SQLite database
func runMigration(dataDir, dbPath string) (*cmd.MigrationStatsData, error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	src, err := OpenCSVSource(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV reader: %w", err)
	}
	defer src.Close()

	db, err := OpenDB(resolveDBPath(dataDir, dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	stats, err := MigrateCSVDir(context.Background(), src, dataDir, db)
	if err != nil {
		return nil, err
	}

	return &cmd.MigrationStatsData{
		AnnualFiles:  stats.AnnualFiles,
		MonthlyFiles: stats.MonthlyFiles,
		AnnualRows:   stats.AnnualRows,
		MonthlyRows:  stats.MonthlyRows,
		Skipped:      stats.Skipped,
	}, nil
}

// runParseBackups rebuilds CSV data files from saved HTML backups
func runParseBackups(backupDir, dataDir string) (int, error) {
	if err := setupLogger(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to setup logger: %v\n", err)
	}

	backups, err := ListHTMLBackups(backupDir)
	if err != nil {
		return 0, err
	}
	if len(backups) == 0 {
		return 0, fmt.Errorf("no HTML backups found in %s", backupDir)
	}

	// Backups are sorted by name, so for each combination the last entry
	// carries the newest timestamp
	newest := make(map[string]string)
	for _, backup := range backups {
		combination, ok := CombinationFromBackup(backup)
		if !ok {
			continue
		}
		if _, ok := ParseDataFileName(combination + ".csv"); !ok {
			continue
		}
		newest[combination] = backup
	}

	parsed := 0
	for combination, backup := range newest {
		html, err := os.ReadFile(filepath.Join(backupDir, backup))
		if err != nil {
			if logger != nil {
				logger.Warn("Failed to read backup", "file", backup, "error", err)
			}
			continue
		}

		table, err := ExtractReportTable(string(html))
		if err != nil || table == nil {
			if logger != nil {
				logger.Warn("No report table in backup", "file", backup, "error", err)
			}
			continue
		}

		path := filepath.Join(dataDir, combination+".csv")
		if err := WriteCSV(path, table.Columns, table.Rows); err != nil {
			return parsed, fmt.Errorf("failed to write %s: %w", path, err)
		}
		parsed++

		if logger != nil {
			logger.Info("Rebuilt data file from backup", "file", backup, "csv", path)
		}
	}

	return parsed, nil
}

func main() {
	// Set up cmd package callbacks
	cmd.LaunchTUI = launchTUI
	cmd.InitStore = initStore
	cmd.StartServer = startServer
	cmd.RunScrape = runScrape
	cmd.RunMigration = runMigration
	cmd.RunParseBackups = runParseBackups

	// Execute the CLI
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
