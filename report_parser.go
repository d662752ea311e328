package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReportTable is one HTML table lifted out of a report page, with the
// grouped two-row header flattened into single column names.
type ReportTable struct {
	Columns []string
	Rows    [][]string
}

type headerCell struct {
	text    string
	colspan int
	rowspan int
}

// ParseReportTables extracts every table in a report page. The portal
// renders grouped headers as two thead rows with rowspan and colspan;
// those flatten to "Top_Bottom" column names, so a spanning "Maker"
// header becomes Maker_Maker and a "Calendar Year" group over 2024
// becomes Calendar Year_2024.
func ParseReportTables(html string) ([]ReportTable, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report html: %w", err)
	}

	var tables []ReportTable
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		t := parseTable(table)
		if t != nil {
			tables = append(tables, *t)
		}
	})
	return tables, nil
}

// ExtractReportTable parses a report page and returns the most plausible
// data table, or nil when the page has none.
func ExtractReportTable(html string) (*ReportTable, error) {
	tables, err := ParseReportTables(html)
	if err != nil {
		return nil, err
	}
	return SelectReportTable(tables), nil
}

func parseTable(table *goquery.Selection) *ReportTable {
	var headerRows [][]headerCell
	table.ChildrenFiltered("thead").ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []headerCell
		tr.ChildrenFiltered("th").Each(func(_ int, th *goquery.Selection) {
			cells = append(cells, headerCell{
				text:    headerText(th),
				colspan: spanAttr(th, "colspan"),
				rowspan: spanAttr(th, "rowspan"),
			})
		})
		if len(cells) > 0 {
			headerRows = append(headerRows, cells)
		}
	})

	columns := flattenHeader(headerRows)
	if len(columns) == 0 {
		return nil
	}

	var rows [][]string
	table.ChildrenFiltered("tbody").ChildrenFiltered("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() == 0 {
			cells = tr.ChildrenFiltered("th")
		}
		if cells.Length() == 0 {
			return
		}

		row := make([]string, 0, cells.Length())
		cells.Each(func(_ int, td *goquery.Selection) {
			row = append(row, cleanCell(td.Text()))
		})
		if len(row) > len(columns) {
			row = row[:len(columns)]
		}
		for len(row) < len(columns) {
			row = append(row, "")
		}
		rows = append(rows, row)
	})

	return &ReportTable{Columns: columns, Rows: rows}
}

// flattenHeader expands header cells into a grid where spanning cells
// repeat their text across every slot they cover, then joins the levels
// of each column with underscores.
func flattenHeader(headerRows [][]headerCell) []string {
	if len(headerRows) == 0 {
		return nil
	}

	width := 0
	for _, cell := range headerRows[0] {
		width += cell.colspan
	}
	if width == 0 {
		return nil
	}

	depth := len(headerRows)
	grid := make([][]string, depth)
	occupied := make([][]bool, depth)
	for r := range grid {
		grid[r] = make([]string, width)
		occupied[r] = make([]bool, width)
	}

	for r, cells := range headerRows {
		c := 0
		for _, cell := range cells {
			for c < width && occupied[r][c] {
				c++
			}
			for dr := 0; dr < cell.rowspan; dr++ {
				for dc := 0; dc < cell.colspan; dc++ {
					if r+dr < depth && c+dc < width {
						grid[r+dr][c+dc] = cell.text
						occupied[r+dr][c+dc] = true
					}
				}
			}
			c += cell.colspan
		}
	}

	columns := make([]string, width)
	for c := 0; c < width; c++ {
		var parts []string
		for r := 0; r < depth; r++ {
			if grid[r][c] != "" {
				parts = append(parts, grid[r][c])
			}
		}
		columns[c] = strings.Join(parts, "_")
	}
	return columns
}

// SelectReportTable picks the registration data table out of everything
// on the page: first a table carrying an S No column with more than one
// row, otherwise the largest table with more than one row and more than
// two columns.
func SelectReportTable(tables []ReportTable) *ReportTable {
	for i := range tables {
		t := &tables[i]
		if len(t.Rows) <= 1 {
			continue
		}
		for _, col := range t.Columns {
			if strings.Contains(col, "S No") {
				return t
			}
		}
	}

	var best *ReportTable
	bestSize := 0
	for i := range tables {
		t := &tables[i]
		if len(t.Rows) <= 1 || len(t.Columns) <= 2 {
			continue
		}
		size := len(t.Rows) * len(t.Columns)
		if size > bestSize {
			best = t
			bestSize = size
		}
	}
	return best
}

func headerText(th *goquery.Selection) string {
	title := th.Find("span.ui-column-title")
	if title.Length() > 0 {
		return collapseSpace(title.First().Text())
	}
	return collapseSpace(th.Text())
}

func spanAttr(cell *goquery.Selection, name string) int {
	v, ok := cell.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// cleanCell trims a cell and strips the thousands separators the portal
// renders inside counts.
func cleanCell(s string) string {
	return strings.ReplaceAll(collapseSpace(s), ",", "")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
