package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ppiankov/tripparse/internal/model"
	"github.com/ppiankov/tripparse/internal/report"
	"github.com/ppiankov/tripparse/internal/source"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	extractTable bool
	extractModel string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <inquiry-file>",
	Short: "Extract a single inquiry and print the record",
	Long: `Extract processes one inquiry file and prints the resulting record as
JSON on stdout, including typed values and warnings. Use --table for the
display values shown in the report.

Example:
  tripparse extract inquiries/english_001.txt
  tripparse extract inquiries/hinglish_004.txt --table --reference-date 2025-10-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("model") {
			cfg.Model.Backend = extractModel
		}
		if ref, _ := cmd.Flags().GetString("reference-date"); ref != "" {
			cfg.ReferenceDate = ref
		}
		return extractFile(cmd.Context(), cfg, args[0], extractTable, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractTable, "table", false, "print display values instead of JSON")
	extractCmd.Flags().StringVar(&extractModel, "model", "prose", "entity model backend (prose, none)")
	extractCmd.Flags().String("reference-date", "", "reference date for relative dates, YYYY-MM-DD (default: today)")
}

// extractFile processes one file and prints its record. A failed inquiry is an error.
func extractFile(ctx context.Context, cfg *model.Config, path string, table bool, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	proc, _, err := newProcessor(cfg, time.Now())
	if err != nil {
		return err
	}

	raw, readErr := source.ReadFile(path, source.DefaultMaxBytes)
	res := proc.ProcessInquiry(ctx, model.Inquiry{
		ID:   filepath.Base(path),
		Path: path,
		Raw:  raw,
		Err:  readErr,
	})
	if res.Failure != nil {
		return res.Failure
	}

	if table {
		return printTable(w, proc.Specs(), res)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Record)
}

func printTable(w io.Writer, specs []model.FieldSpec, res model.Result) error {
	if _, err := fmt.Fprintln(w, report.RecordTable(specs, res)); err != nil {
		return err
	}
	for _, warn := range res.Record.Warnings {
		if warn.Kind == model.WarnDefault {
			continue
		}
		if _, err := fmt.Fprintf(w, "⚠ %s\n", warn); err != nil {
			return err
		}
	}
	return nil
}
