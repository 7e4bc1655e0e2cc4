package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
)

const (
	minColWidth = 8
	maxColWidth = 40
	headerFill  = "DDEBF7"
)

// formatSheet styles a written grade sheet: bold shaded header, frozen first row,
// filter over the header and column widths fitted to the layout's content.
func formatSheet(f *excelize.File, sheet string, l SheetLayout) error {
	cols := len(l.Header)
	for _, r := range l.Rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}
	if len(l.Rows) > 0 {
		if err := f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", last, len(l.Rows)+1), nil); err != nil {
			return err
		}
	}

	for c, w := range columnWidths(l, cols) {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

// columnWidths sizes each column by its widest cell; translations are often CJK.
func columnWidths(l SheetLayout, cols int) []float64 {
	widths := make([]float64, cols)
	fit := func(c int, v string, extra float64) {
		w := float64(visualLen(v))*1.1 + extra
		widths[c] = min(max(widths[c], w, minColWidth), maxColWidth)
	}
	for c, h := range l.Header {
		fit(c, h, 2)
	}
	for _, row := range l.Rows {
		for c, v := range row {
			fit(c, v, 0)
		}
	}
	return widths
}

// BuildClassReportFilename names the statistics workbook of one class.
func BuildClassReportFilename(className string, now time.Time) string {
	class := strings.TrimSpace(className)
	if class == "" {
		class = "all"
	}
	base := fmt.Sprintf("class statistics - %s - %s.xlsx", class, now.Format("2006-01-02"))
	return sanitizeFileName(base)
}

// visualLen counts runes, with wide (CJK) runes as 2.
func visualLen(s string) int {
	n := 0
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hangul, unicode.Hiragana, unicode.Katakana) {
			n += 2
			continue
		}
		n++
	}
	return n
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}
