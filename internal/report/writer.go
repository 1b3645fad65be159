package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// Supported output formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Report is everything a writer needs for one run
type Report struct {
	Summary Summary           `json:"summary"`
	Fields  []model.FieldSpec `json:"fields"`
	Results []model.Result    `json:"results"`
}

// Writer serialises a report in one format
type Writer interface {
	Format() string
	Write(w io.Writer, rep *Report) error
}

// NewWriter returns the writer for a format
func NewWriter(format string) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatXLSX:
		return XLSXWriter{}, nil
	case FormatCSV:
		return CSVWriter{}, nil
	case FormatJSON:
		return JSONWriter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s (supported: xlsx, csv, json)", format)
	}
}

// ResolveFormat returns format, or infers it from the path extension when empty
func ResolveFormat(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case FormatCSV:
		return FormatCSV
	case FormatJSON:
		return FormatJSON
	default:
		return FormatXLSX
	}
}

// WriteFile renders the report to path, creating parent directories
func WriteFile(path string, w Writer, rep *Report) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report: %w", cerr)
		}
	}()

	if err := w.Write(f, rep); err != nil {
		return fmt.Errorf("write %s report: %w", w.Format(), err)
	}
	return nil
}
