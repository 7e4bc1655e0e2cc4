package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/vocab-scale/internal/models"
)

type SheetLayout struct {
	Title  string
	Header []string
	Rows   [][]string
}

type Workbook struct {
	File *excelize.File
}

// NewWorkbook lays out one sheet per layout; the first layout takes over the default Sheet1.
func NewWorkbook(sheets []SheetLayout) (*Workbook, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook: no sheets")
	}
	f := excelize.NewFile()
	for i, s := range sheets {
		name := sheetName(s.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %q: %w", name, err)
		}
		if err := f.SetSheetRow(name, "A1", &s.Header); err != nil {
			return nil, fmt.Errorf("header %q: %w", name, err)
		}
		for r, row := range s.Rows {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = cellValue(v)
			}
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return nil, fmt.Errorf("set row %s: %w", cell, err)
			}
		}
		if err := formatSheet(f, name, s); err != nil {
			return nil, fmt.Errorf("format %q: %w", name, err)
		}
	}
	return &Workbook{File: f}, nil
}

// numbers stay numeric so the report can be sorted in Excel
func cellValue(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}

// Excel limits sheet names to 31 characters and forbids []:*?/\ in them.
func sheetName(title string) string {
	r := []rune(invalidSheetRe.ReplaceAllString(title, "_"))
	if len(r) > 31 {
		r = r[:31]
	}
	if len(r) == 0 {
		return "Sheet"
	}
	return string(r)
}

var invalidSheetRe = regexp.MustCompile(`[\[\]:*?/\\]`)

var gradeHeader = []string{"Name", "Class", "Number", "Score", "Attempts", "Accuracy %"}

func gradeRows(rows []models.GradeSummary) [][]string {
	out := make([][]string, 0, len(rows))
	for _, g := range rows {
		out = append(out, []string{
			g.Name,
			g.ClassName,
			strconv.Itoa(g.StudentNum),
			strconv.Itoa(g.TotalScore),
			strconv.Itoa(g.TotalAttempts),
			strconv.FormatFloat(g.Accuracy*100, 'f', 1, 64),
		})
	}
	return out
}

// ClassStatisticsWorkbook has one sheet per class in ByClass order and a final
// "Bands" sheet with the histogram of every class.
func ClassStatisticsWorkbook(stats ...models.ClassStatistics) (*Workbook, error) {
	layouts := make([]SheetLayout, 0, len(stats)+1)
	bands := SheetLayout{Title: "Bands", Header: []string{"Class", "Band", "Students"}}
	for _, st := range stats {
		layouts = append(layouts, SheetLayout{
			Title:  "Class " + classLabel(st.ClassName),
			Header: gradeHeader,
			Rows:   gradeRows(st.Students),
		})
		for _, b := range st.Bands {
			bands.Rows = append(bands.Rows, []string{classLabel(st.ClassName), b.Label, strconv.Itoa(b.Count)})
		}
		bands.Rows = append(bands.Rows, []string{classLabel(st.ClassName), "total", strconv.Itoa(st.Total)})
	}
	layouts = append(layouts, bands)
	return NewWorkbook(layouts)
}

func (w *Workbook) WriteToBuffer() (*bytes.Buffer, error) {
	return w.File.WriteToBuffer()
}

// Save writes the workbook under dir with a dated file name and returns the path.
func (w *Workbook) Save(dir, className string, now time.Time) (string, error) {
	path := filepath.Join(dir, BuildClassReportFilename(className, now))
	if err := w.File.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (w *Workbook) Close() error { return w.File.Close() }
