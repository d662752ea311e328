package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	vahanReportURL   = "https://vahan.parivahan.gov.in/vahan4dashboard/vahan/view/reportview.xhtml"
	scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	yAxisWidgetID    = "yaxisVar"
	xAxisWidgetID    = "xaxisVar"
	yearWidgetID     = "selectedYear"
	yearListWidgetID = "yearList"
	loadingOverlayID = "j_idt132_blocker"

	calendarYearAxis = "Calendar Year"
	monthWiseAxis    = "Month Wise"
)

var (
	defaultYAxes       = []string{"Maker", "Vehicle Category"}
	defaultXAxes       = []string{calendarYearAxis, monthWiseAxis}
	defaultTargetYears = []string{"2025", "2024", "2023", "2022", "2021", "2020", "2019", "2018", "2017", "2016"}
)

// ScraperConfig controls one scraping run. Zero values fall back to the
// portal defaults.
type ScraperConfig struct {
	DataDir     string
	BackupDir   string
	Headless    bool
	YAxes       []string
	XAxes       []string
	Years       []string
	NavTimeout  time.Duration
	SettleDelay time.Duration
	Store       *DB
}

// ScrapeStats summarizes one scraping run.
type ScrapeStats struct {
	Combinations int      `json:"combinations"`
	Saved        int      `json:"saved"`
	Skipped      []string `json:"skipped,omitempty"`
}

// VahanScraper drives a Chromium instance through the Vahan report page,
// walking every configured y-axis, x-axis and year combination and
// saving each rendered table as CSV plus an HTML backup.
type VahanScraper struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	cfg      ScraperConfig
}

func NewVahanScraper(cfg ScraperConfig) (*VahanScraper, error) {
	if cfg.DataDir == "" {
		cfg.DataDir = "vahan_data"
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = "html_backups"
	}
	if len(cfg.YAxes) == 0 {
		cfg.YAxes = defaultYAxes
	}
	if len(cfg.XAxes) == 0 {
		cfg.XAxes = defaultXAxes
	}
	if len(cfg.Years) == 0 {
		cfg.Years = defaultTargetYears
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 30 * time.Second
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 3 * time.Second
	}

	l := launcher.New().Headless(cfg.Headless).Set("no-sandbox")
	controlURL, err := l.Launch()
	if err != nil {
		if logger != nil {
			logger.Error("Failed to launch browser", "error", err)
		}
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &VahanScraper{browser: browser, launcher: l, cfg: cfg}, nil
}

func (s *VahanScraper) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

// Run walks every configured combination. A combination that fails is
// skipped and recorded rather than aborting the run, so a flaky portal
// still yields whatever it was willing to render.
func (s *VahanScraper) Run(ctx context.Context) (*ScrapeStats, error) {
	if err := s.open(ctx); err != nil {
		return nil, err
	}

	if options, err := s.dropdownOptions(yAxisWidgetID); err == nil {
		if logger != nil {
			logger.Info("Y axis options discovered", "options", options)
		}
	}

	stats := &ScrapeStats{}
	for _, yAxis := range s.cfg.YAxes {
		for _, xAxis := range s.cfg.XAxes {
			for _, year := range s.cfg.Years {
				if err := ctx.Err(); err != nil {
					return stats, err
				}

				name := CombinationName(yAxis, xAxis, year)
				stats.Combinations++
				fmt.Printf("📥 Scraping %s...\n", name)

				if err := s.scrapeCombination(ctx, yAxis, xAxis, year, name); err != nil {
					if ctx.Err() != nil {
						return stats, ctx.Err()
					}
					fmt.Printf("   ⚠ Skipped: %v\n", err)
					if logger != nil {
						logger.Warn("Combination failed", "combination", name, "error", err)
					}
					stats.Skipped = append(stats.Skipped, name)
					continue
				}
				stats.Saved++
			}
		}
	}

	if logger != nil {
		logger.Info("Scrape run complete", "combinations", stats.Combinations, "saved", stats.Saved, "skipped", len(stats.Skipped))
	}
	return stats, nil
}

func (s *VahanScraper) open(ctx context.Context) error {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page.Context(ctx)

	if err := s.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: scraperUserAgent}); err != nil {
		return fmt.Errorf("failed to set user agent: %w", err)
	}

	fmt.Println("🌐 Opening Vahan dashboard...")
	if err := s.page.Timeout(s.cfg.NavTimeout).Navigate(vahanReportURL); err != nil {
		if logger != nil {
			logger.Error("Failed to open report page", "error", err, "url", vahanReportURL)
		}
		return fmt.Errorf("failed to open %s: %w", vahanReportURL, err)
	}
	if err := s.page.Timeout(s.cfg.NavTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("report page did not finish loading: %w", err)
	}
	s.settle(ctx)

	if html, err := s.page.HTML(); err == nil {
		if _, err := SaveHTMLBackup(s.cfg.BackupDir, "initial_page", html); err != nil && logger != nil {
			logger.Warn("Failed to back up initial page", "error", err)
		}
	}
	return nil
}

// scrapeCombination makes one portal selection, refreshes the report and
// persists whatever table comes back. Month Wise years go through the
// single-select widget, Calendar Year years through the checkbox menu,
// which is unticked again afterwards so the next pass starts clean.
func (s *VahanScraper) scrapeCombination(ctx context.Context, yAxis, xAxis, year, name string) error {
	if err := s.selectOption(yAxisWidgetID, yAxis); err != nil {
		return err
	}
	if err := s.waitOverlayGone(); err != nil {
		return err
	}
	s.settle(ctx)

	if err := s.selectOption(xAxisWidgetID, xAxis); err != nil {
		return err
	}
	if err := s.waitOverlayGone(); err != nil {
		return err
	}
	s.settle(ctx)

	monthly := xAxis == monthWiseAxis
	if monthly {
		if err := s.selectOption(yearWidgetID, year); err != nil {
			return err
		}
	} else {
		if err := s.toggleYear(year); err != nil {
			return err
		}
	}
	if err := s.waitOverlayGone(); err != nil {
		return err
	}
	s.settle(ctx)

	if err := s.clickRefresh(); err != nil {
		return err
	}
	if err := s.waitOverlayGone(); err != nil {
		return err
	}
	s.settle(ctx)

	pageHTML, err := s.page.HTML()
	if err != nil {
		return fmt.Errorf("failed to capture page: %w", err)
	}
	if _, err := SaveHTMLBackup(s.cfg.BackupDir, name, pageHTML); err != nil && logger != nil {
		logger.Warn("Failed to save HTML backup", "combination", name, "error", err)
	}

	reportHTML, err := s.reportHTML(pageHTML)
	if err != nil {
		return err
	}
	table, err := ExtractReportTable(reportHTML)
	if err != nil {
		return err
	}
	if table == nil {
		return fmt.Errorf("no report table rendered for %s", name)
	}

	if err := s.emit(ctx, name, table, yAxis, year, monthly); err != nil {
		return err
	}

	if !monthly {
		if err := s.toggleYear(year); err != nil && logger != nil {
			logger.Warn("Failed to untick year after capture", "year", year, "error", err)
		}
	}
	return nil
}

// reportHTML narrows parsing to the report container when one is
// present, falling back to the full page.
func (s *VahanScraper) reportHTML(pageHTML string) (string, error) {
	for _, selector := range []string{"#groupingTable", "#vchgroupTable"} {
		el, err := s.page.Timeout(5 * time.Second).Element(selector)
		if err != nil {
			continue
		}
		html, err := el.HTML()
		if err == nil && html != "" {
			return html, nil
		}
	}
	return pageHTML, nil
}

func (s *VahanScraper) emit(ctx context.Context, name string, table *ReportTable, yAxis, year string, monthly bool) error {
	csvPath := filepath.Join(s.cfg.DataDir, name+".csv")
	if err := WriteCSV(csvPath, table.Columns, table.Rows); err != nil {
		return err
	}
	fmt.Printf("   ✓ Saved %s (%d rows)\n", csvPath, len(table.Rows))

	if s.cfg.Store == nil {
		return nil
	}

	dataType := DataTypeManufacturer
	if yAxis == DataTypeCategory {
		dataType = DataTypeCategory
	}
	yearNumber, _ := strconv.Atoi(year)

	if monthly {
		records := meltMonthlyTable(table.Columns, table.Rows, dataType, yearNumber)
		if _, err := s.cfg.Store.InsertMonthly(ctx, records); err != nil {
			return err
		}
		return nil
	}
	records := meltAnnualTable(table.Columns, table.Rows, dataType)
	if _, err := s.cfg.Store.InsertAnnual(ctx, records); err != nil {
		return err
	}
	return nil
}

// openDropdown clicks a widget's trigger and waits for its popup panel.
// Both the single-select and checkbox-menu widgets hang their panel off
// the widget id with a _panel suffix.
func (s *VahanScraper) openDropdown(id string) (*rod.Element, error) {
	trigger, err := s.page.Timeout(s.cfg.NavTimeout).ElementX(fmt.Sprintf(
		"//div[@id='%s']/div[contains(@class,'ui-selectonemenu-trigger') or contains(@class,'ui-selectcheckboxmenu-trigger')]", id))
	if err != nil {
		return nil, fmt.Errorf("trigger for %s not found: %w", id, err)
	}
	if err := trigger.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("failed to scroll to %s: %w", id, err)
	}
	if err := trigger.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", id, err)
	}

	panel, err := s.page.Timeout(s.cfg.NavTimeout).Element("#" + id + "_panel")
	if err != nil {
		return nil, fmt.Errorf("panel for %s not found: %w", id, err)
	}
	if err := panel.Timeout(s.cfg.NavTimeout).WaitVisible(); err != nil {
		return nil, fmt.Errorf("panel for %s did not appear: %w", id, err)
	}
	return panel, nil
}

// selectOption picks one entry of a single-select widget by its visible
// text. The panel closes itself after the click.
func (s *VahanScraper) selectOption(id, value string) error {
	panel, err := s.openDropdown(id)
	if err != nil {
		return err
	}

	option, err := panel.Timeout(s.cfg.NavTimeout).ElementX(fmt.Sprintf(".//li[text()='%s']", value))
	if err != nil {
		return fmt.Errorf("option %q not present in %s: %w", value, id, err)
	}
	if err := option.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll to option %q: %w", value, err)
	}
	if err := option.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to select %q in %s: %w", value, id, err)
	}
	return nil
}

// toggleYear ticks or unticks one year in the Calendar Year checkbox
// menu, then closes the menu through its Filter button.
func (s *VahanScraper) toggleYear(year string) error {
	panel, err := s.openDropdown(yearListWidgetID)
	if err != nil {
		return err
	}

	label, err := panel.Timeout(s.cfg.NavTimeout).ElementX(fmt.Sprintf(".//li/label[text()='%s']", year))
	if err != nil {
		return fmt.Errorf("year %s not present in %s: %w", year, yearListWidgetID, err)
	}
	if err := label.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll to year %s: %w", year, err)
	}
	if err := label.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to toggle year %s: %w", year, err)
	}

	if filter, err := panel.Timeout(2 * time.Second).ElementX(".//button[contains(., 'Filter')]"); err == nil {
		if err := filter.Click(proto.InputMouseButtonLeft, 1); err == nil {
			return nil
		}
	}
	s.dismissPanel()
	return nil
}

// dismissPanel clicks the page body to close whatever popup is open.
func (s *VahanScraper) dismissPanel() {
	body, err := s.page.Timeout(2 * time.Second).Element("body")
	if err != nil {
		return
	}
	_ = body.Click(proto.InputMouseButtonLeft, 1)
}

// dropdownOptions reads the visible entries of a single-select widget,
// used to log what the portal currently offers.
func (s *VahanScraper) dropdownOptions(id string) ([]string, error) {
	panel, err := s.openDropdown(id)
	if err != nil {
		return nil, err
	}

	items, err := panel.Timeout(s.cfg.NavTimeout).ElementsX(".//li")
	if err != nil {
		return nil, fmt.Errorf("failed to list options of %s: %w", id, err)
	}

	var options []string
	for _, item := range items {
		text, err := item.Text()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			options = append(options, text)
		}
	}
	s.dismissPanel()
	return options, nil
}

func (s *VahanScraper) clickRefresh() error {
	button, err := s.page.Timeout(s.cfg.NavTimeout).ElementX(
		"//button[contains(@class,'ui-button')][.//span[contains(@class,'ui-icon-refresh')]]")
	if err != nil {
		return fmt.Errorf("refresh button not found: %w", err)
	}
	if err := button.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll to refresh button: %w", err)
	}
	if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click refresh: %w", err)
	}
	return nil
}

// waitOverlayGone waits for the ajax loading blocker to clear. The
// blocker is absent entirely before the first refresh, which counts as
// clear.
func (s *VahanScraper) waitOverlayGone() error {
	blocker, err := s.page.Timeout(2 * time.Second).Element("#" + loadingOverlayID)
	if err != nil {
		return nil
	}
	if err := blocker.Timeout(s.cfg.NavTimeout).WaitInvisible(); err != nil {
		return fmt.Errorf("loading overlay did not clear: %w", err)
	}
	return nil
}

// settle gives the portal's ajax handlers a moment after each action.
func (s *VahanScraper) settle(ctx context.Context) {
	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
	}
}

// CombinationName builds the sanitized file stem for one selection,
// e.g. Y_Vehicle_Category_X_Month_Wise_Year_2024.
func CombinationName(yAxis, xAxis, year string) string {
	return sanitizeToken(fmt.Sprintf("Y_%s_X_%s_Year_%s", yAxis, xAxis, year))
}

func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
