package report

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/ppiankov/tripparse/internal/model"
)

// RecordTable renders one result as a two-column Field/Value terminal table
func RecordTable(specs []model.FieldSpec, res model.Result) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Field", "Value"})

	header := Header(specs)
	row := Row(specs, res)
	for i := range header {
		w.AppendRow(table.Row{header[i], row[i]})
	}
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 60},
	})
	return w.Render()
}

// CoverageTable renders per-field coverage with a totals footer
func CoverageTable(s Summary) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"Column", "Found", "Coverage"})

	for _, c := range s.Coverage {
		w.AppendRow(table.Row{c.Column, c.Found, percent(c.Found, s.Succeeded)})
	}
	w.AppendFooter(table.Row{"Records", s.Succeeded, ""})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	return w.Render()
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}
