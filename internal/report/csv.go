package report

import (
	"encoding/csv"
	"io"
)

// CSVWriter writes the inquiry table as CSV
type CSVWriter struct{}

// Format returns "csv"
func (CSVWriter) Format() string { return FormatCSV }

// Write emits the header and one row per result
func (CSVWriter) Write(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(rep.Fields)); err != nil {
		return err
	}
	for _, res := range rep.Results {
		if err := cw.Write(Row(rep.Fields, res)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
