package report

import (
	"fmt"
	"io"

	"github.com/ppiankov/tripparse/internal/model"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSummary   = "Summary"
	SheetInquiries = "Inquiry Data"
	SheetFailures  = "Failures"
)

const defaultSheet = "Sheet1"

// XLSXWriter writes the report as an Excel workbook
type XLSXWriter struct{}

// Format returns "xlsx"
func (XLSXWriter) Format() string { return FormatXLSX }

// Write builds the Summary, Inquiry Data and Failures sheets
func (XLSXWriter) Write(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SheetSummary); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetInquiries, SheetFailures} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := writeSheet(f, SheetSummary, bold, summaryRows(rep.Summary)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetInquiries, bold, inquiryRows(rep)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetFailures, bold, failureRows(rep.Results)); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex(SheetInquiries); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// writeSheet writes rows starting at A1 and bolds the header row
func writeSheet(f *excelize.File, sheet string, headerStyle int, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 22)
}

func summaryRows(s Summary) [][]any {
	rows := [][]any{{"Metric", "Value"}}
	for _, m := range s.Metrics() {
		rows = append(rows, []any{m.Label, m.Value})
	}
	return rows
}

func inquiryRows(rep *Report) [][]any {
	header := Header(rep.Fields)
	rows := make([][]any, 0, len(rep.Results)+1)
	rows = append(rows, toAny(header))

	for _, res := range rep.Results {
		text := Row(rep.Fields, res)
		row := toAny(text)
		// Counts stay numeric so the sheet can be summed and filtered
		if res.Record != nil {
			for i, spec := range rep.Fields {
				if v := res.Record.Get(spec.ID); v.Kind == model.KindInteger && !v.Null {
					row[i+1] = v.Int
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func failureRows(results []model.Result) [][]any {
	rows := [][]any{{ColumnFileName, "Path", "Reason"}}
	for _, res := range results {
		if res.Failure == nil {
			continue
		}
		rows = append(rows, []any{fileName(res), res.Failure.SourceFile, res.Failure.Reason})
	}
	return rows
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
