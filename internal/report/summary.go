// Package report renders extraction results into the batch report.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/tripparse/internal/model"
)

// FieldCoverage counts the records where a field was found in the text
// rather than filled with its default
type FieldCoverage struct {
	Field  model.FieldID `json:"field"`
	Column string        `json:"column"`
	Found  int           `json:"found"`
}

// LangCount is one row of the language-mix breakdown
type LangCount struct {
	Lang  model.LangMix `json:"lang"`
	Count int           `json:"count"`
}

// MethodCount is the number of records whose primary extraction method is Method
type MethodCount struct {
	Method model.Method `json:"method"`
	Files  int          `json:"files"`
}

// Summary aggregates a batch of results
type Summary struct {
	RunID          string          `json:"run_id"`
	GeneratedAt    time.Time       `json:"generated_at"`
	ReferenceDate  string          `json:"reference_date"`
	Total          int             `json:"total"`
	Succeeded      int             `json:"succeeded"`
	Failed         int             `json:"failed"`
	Elapsed        time.Duration   `json:"elapsed_ns"`
	WithChildren   int             `json:"with_children"`
	WithStartDate  int             `json:"with_start_date"`
	WithActivities int             `json:"with_activities"`
	WithBudget     int             `json:"with_budget"`
	Warnings       int             `json:"warnings"`
	Languages      []LangCount     `json:"languages"`
	Methods        []MethodCount   `json:"methods"`
	Coverage       []FieldCoverage `json:"coverage"`
	ModelAvailable bool            `json:"model_available"`
}

// Metric is one label/value line of the summary
type Metric struct {
	Label string
	Value string
}

// Summarizer builds batch summaries against a fixed field set
type Summarizer struct {
	specs     []model.FieldSpec
	reference time.Time
	now       func() time.Time
}

// NewSummarizer creates a summarizer for the given fields
func NewSummarizer(specs []model.FieldSpec, reference time.Time) *Summarizer {
	return &Summarizer{
		specs:     specs,
		reference: reference,
		now:       time.Now,
	}
}

// Summarize aggregates the results of one run that took elapsed wall time
func (s *Summarizer) Summarize(results []model.Result, elapsed time.Duration, modelAvailable bool) Summary {
	sum := Summary{
		RunID:          uuid.NewString(),
		GeneratedAt:    s.now().UTC(),
		ReferenceDate:  s.reference.Format(model.DateLayout),
		Total:          len(results),
		Elapsed:        elapsed,
		ModelAvailable: modelAvailable,
	}

	langs := make(map[model.LangMix]int)
	methods := make(map[model.Method]int)
	found := make(map[model.FieldID]int, len(s.specs))

	for _, res := range results {
		if res.Record == nil {
			sum.Failed++
			continue
		}
		sum.Succeeded++
		rec := res.Record
		langs[rec.Lang]++
		methods[PrimaryMethod(rec)]++
		sum.Warnings += len(rec.Warnings)

		if v := rec.Get(model.FieldChildren); !v.Null && v.Int > 0 {
			sum.WithChildren++
		}
		if !rec.Get(model.FieldStartDate).IsZero() {
			sum.WithStartDate++
		}
		if !rec.Get(model.FieldActivities).IsZero() {
			sum.WithActivities++
		}
		if !rec.Get(model.FieldBudget).IsZero() {
			sum.WithBudget++
		}

		defaulted := make(map[model.FieldID]bool)
		for _, w := range rec.Warnings {
			if w.Kind == model.WarnDefault {
				defaulted[w.Field] = true
			}
		}
		for _, spec := range s.specs {
			if !defaulted[spec.ID] {
				found[spec.ID]++
			}
		}
	}

	for lang, n := range langs {
		sum.Languages = append(sum.Languages, LangCount{Lang: lang, Count: n})
	}
	sort.Slice(sum.Languages, func(i, j int) bool {
		if sum.Languages[i].Count != sum.Languages[j].Count {
			return sum.Languages[i].Count > sum.Languages[j].Count
		}
		return sum.Languages[i].Lang < sum.Languages[j].Lang
	})

	for _, m := range model.Methods {
		if n := methods[m]; n > 0 {
			sum.Methods = append(sum.Methods, MethodCount{Method: m, Files: n})
		}
	}

	for _, spec := range s.specs {
		sum.Coverage = append(sum.Coverage, FieldCoverage{
			Field:  spec.ID,
			Column: spec.Column,
			Found:  found[spec.ID],
		})
	}

	return sum
}

// PrimaryMethod names the method behind most of a record's found fields.
// Any hybrid field makes the record hybrid; ties between rule and model go to rule.
// A record with nothing found reports the default method.
func PrimaryMethod(rec *model.ExtractedRecord) model.Method {
	counts := make(map[model.Method]int, len(model.Methods))
	for _, m := range rec.Methods {
		counts[m]++
	}
	switch {
	case counts[model.MethodHybrid] > 0:
		return model.MethodHybrid
	case counts[model.MethodRule] == 0 && counts[model.MethodModel] == 0:
		return model.MethodDefault
	case counts[model.MethodModel] > counts[model.MethodRule]:
		return model.MethodModel
	default:
		return model.MethodRule
	}
}

// SuccessRate is the share of inquiries that produced a record, e.g. "66.7%"
func (s Summary) SuccessRate() string {
	if s.Total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.Succeeded)/float64(s.Total)*100)
}

// Throughput is inquiries per second of wall time, or "N/A" for an untimed run
func (s Summary) Throughput() string {
	if s.Elapsed <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", float64(s.Total)/s.Elapsed.Seconds())
}

// Metrics flattens the summary into label/value lines for display
func (s Summary) Metrics() []Metric {
	avg := 0.0
	if s.Total > 0 {
		avg = s.Elapsed.Seconds() / float64(s.Total)
	}

	metrics := []Metric{
		{"Run ID", s.RunID},
		{"Reference Date", s.ReferenceDate},
		{"Total Files Processed", fmt.Sprint(s.Total)},
		{"Successfully Processed", fmt.Sprint(s.Succeeded)},
		{"Failed", fmt.Sprint(s.Failed)},
		{"Success Rate", s.SuccessRate()},
		{"Total Processing Time", fmt.Sprintf("%.2f seconds", s.Elapsed.Seconds())},
		{"Average Time per File", fmt.Sprintf("%.3f seconds", avg)},
		{"Files per Second", s.Throughput()},
		{"Files with Children Data", fmt.Sprint(s.WithChildren)},
		{"Files with Actual Start Dates", fmt.Sprint(s.WithStartDate)},
		{"Files with Activities", fmt.Sprint(s.WithActivities)},
		{"Files with Budget Info", fmt.Sprint(s.WithBudget)},
		{"Warnings", fmt.Sprint(s.Warnings)},
		{"Model Available", fmt.Sprint(s.ModelAvailable)},
	}
	for _, m := range s.Methods {
		metrics = append(metrics, Metric{
			"Method: " + string(m.Method),
			fmt.Sprintf("%d files (%.1f%%)", m.Files, float64(m.Files)/float64(s.Succeeded)*100),
		})
	}
	for _, l := range s.Languages {
		metrics = append(metrics, Metric{"Language: " + string(l.Lang), fmt.Sprint(l.Count)})
	}
	for _, c := range s.Coverage {
		metrics = append(metrics, Metric{"Coverage: " + c.Column, fmt.Sprintf("%d/%d", c.Found, s.Succeeded)})
	}
	return metrics
}
