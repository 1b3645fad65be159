package report

import (
	"encoding/json"
	"io"
)

// JSONWriter writes the full report, including warnings and typed values
type JSONWriter struct {
	Indent bool
}

// Format returns "json"
func (JSONWriter) Format() string { return FormatJSON }

// Write encodes the report
func (j JSONWriter) Write(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep)
}
