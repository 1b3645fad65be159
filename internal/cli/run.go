package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/ppiankov/tripparse/internal/cache"
	"github.com/ppiankov/tripparse/internal/model"
	"github.com/ppiankov/tripparse/internal/ner"
	"github.com/ppiankov/tripparse/internal/pipeline"
	"github.com/ppiankov/tripparse/internal/report"
	"github.com/ppiankov/tripparse/internal/source"
	"github.com/ppiankov/tripparse/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	batchTimeout time.Duration
	noCache      bool
	maxBytes     int64
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <inquiries-dir>",
	Short: "Extract every inquiry in a directory into a report",
	Long: `Run processes every *.txt inquiry in a directory:
- Decode and normalize each file (UTF-8, UTF-16, Windows-1252)
- Propose candidates with rule-based matchers and the entity model
- Fuse candidates into 19 typed fields with per-field precedence
- Write an XLSX, CSV or JSON report listing successes and failures

Example:
  tripparse run ./inquiries
  tripparse run ./inquiries -o report.csv --reference-date 2025-10-01
  tripparse run ./inquiries --workers 4 --model none`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("output") && !cmd.Flags().Changed("format") {
			cfg.Output.Format = report.ResolveFormat(cfg.Output.Path, "")
		}
		if noCache {
			cfg.Cache.Enabled = false
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if batchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, batchTimeout)
			defer cancel()
		}

		_, err = runBatch(ctx, cfg, args[0], maxBytes, os.Stderr)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	def := model.DefaultConfig()

	// Output flags
	runCmd.Flags().StringP("output", "o", def.Output.Path, "report path")
	runCmd.Flags().String("format", def.Output.Format, "report format (xlsx, csv, json); inferred from --output when omitted")

	// Processing flags
	runCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of concurrent workers")
	runCmd.Flags().String("reference-date", "", "reference date for relative dates, YYYY-MM-DD (default: today)")
	runCmd.Flags().String("model", def.Model.Backend, "entity model backend (prose, none)")
	runCmd.Flags().Duration("inquiry-timeout", 0, "per-inquiry watchdog (0 disables)")
	runCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "total timeout for the batch (0 disables)")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-memory record cache")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", source.DefaultMaxBytes, "max bytes read per inquiry file")

	// Bind flags to viper
	_ = viper.BindPFlag("output.path", runCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.format", runCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("workers", runCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("reference_date", runCmd.Flags().Lookup("reference-date"))
	_ = viper.BindPFlag("model.backend", runCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("inquiry_timeout", runCmd.Flags().Lookup("inquiry-timeout"))
}

// newProcessor wires the processing chain for one run
func newProcessor(cfg *model.Config, now time.Time) (*pipeline.Processor, time.Time, error) {
	ref, err := cfg.ParseReferenceDate(now)
	if err != nil {
		return nil, time.Time{}, err
	}

	recognizer, err := ner.NewRecognizer(cfg.Model.Backend)
	if err != nil {
		return nil, time.Time{}, err
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}

	proc, err := pipeline.NewProcessor(pipeline.Options{
		Config:     cfg,
		Reference:  ref,
		Recognizer: recognizer,
		Cache:      c,
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build processor: %w", err)
	}
	return proc, ref, nil
}

// runBatch processes a directory and writes the report. The report is written
// even when the batch is cancelled; aborted inquiries appear as failures.
func runBatch(ctx context.Context, cfg *model.Config, dir string, maxBytes int64, stderr io.Writer) (*report.Report, error) {
	writer, err := report.NewWriter(report.ResolveFormat(cfg.Output.Path, cfg.Output.Format))
	if err != nil {
		return nil, err
	}

	proc, ref, err := newProcessor(cfg, time.Now())
	if err != nil {
		return nil, err
	}

	inquiries, err := source.Load(dir, maxBytes)
	if err != nil {
		return nil, fmt.Errorf("load inquiries: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  tripparse Batch Extraction\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Input dir:      %s\n", dir)
	fmt.Fprintf(stderr, "  Inquiries:      %d\n", len(inquiries))
	fmt.Fprintf(stderr, "  Workers:        %d\n", workers)
	fmt.Fprintf(stderr, "  Reference date: %s\n", ref.Format(model.DateLayout))
	fmt.Fprintf(stderr, "  Model:          %s\n", modelStatus(cfg.Model.Backend, proc))
	fmt.Fprintf(stderr, "  Output:         %s (%s)\n", cfg.Output.Path, writer.Format())
	fmt.Fprintf(stderr, "\n")

	batch := worker.NewRunner(proc, workers, cfg.InquiryTimeout).RunAll(ctx, inquiries)

	rep := &report.Report{
		Summary: report.NewSummarizer(proc.Specs(), ref).Summarize(batch.Results, batch.Elapsed, proc.ModelAvailable()),
		Fields:  proc.Specs(),
		Results: batch.Results,
	}

	for _, res := range batch.Results {
		if res.Failure != nil {
			fmt.Fprintf(stderr, "✗ %s: %s\n", res.InquiryID, res.Failure.Reason)
		}
	}

	if err := report.WriteFile(cfg.Output.Path, writer, rep); err != nil {
		return rep, err
	}

	s := rep.Summary
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "  Batch Complete\n")
	fmt.Fprintf(stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(stderr, "\n")
	fmt.Fprintf(stderr, "  Total:          %d inquiries\n", s.Total)
	fmt.Fprintf(stderr, "  Success:        %d\n", s.Succeeded)
	fmt.Fprintf(stderr, "  Failures:       %d\n", s.Failed)
	fmt.Fprintf(stderr, "  With children:  %d\n", s.WithChildren)
	fmt.Fprintf(stderr, "  With dates:     %d\n", s.WithStartDate)
	fmt.Fprintf(stderr, "  With budget:    %d\n", s.WithBudget)
	for _, m := range s.Methods {
		fmt.Fprintf(stderr, "  Method %-8s %d\n", string(m.Method)+":", m.Files)
	}
	fmt.Fprintf(stderr, "  Success rate:   %s\n", s.SuccessRate())
	fmt.Fprintf(stderr, "  Elapsed:        %v (%s files/sec)\n", s.Elapsed.Round(time.Millisecond), s.Throughput())
	fmt.Fprintf(stderr, "  Report:         %s\n", cfg.Output.Path)
	fmt.Fprintf(stderr, "\n")
	if verbose {
		fmt.Fprintf(stderr, "%s\n\n", report.CoverageTable(s))
	}

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return rep, fmt.Errorf("batch timed out: %w", err)
		}
		return rep, fmt.Errorf("batch interrupted: %w", err)
	}
	return rep, nil
}

func modelStatus(backend string, proc *pipeline.Processor) string {
	switch backend {
	case "", "none":
		return "disabled (pattern-only)"
	}
	if proc.ModelAvailable() {
		return backend
	}
	return backend + " (unavailable, pattern-only)"
}
