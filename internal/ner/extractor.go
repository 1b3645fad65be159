package ner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ppiankov/tripparse/internal/dates"
	"github.com/ppiankov/tripparse/internal/logging"
	"github.com/ppiankov/tripparse/internal/model"
)

var (
	reFromCue   = regexp.MustCompile(`(?i)(?:\bfrom|\bex|\bdeparting(?:\s+from)?|\bflying\s+from|\bstarting\s+from)\s*$`)
	reSeAfter   = regexp.MustCompile(`(?i)^\s*(?:se|से)(?:[\s,.।]|$)`)
	rePerPerson = regexp.MustCompile(`(?i)^\s*(?:/-\s*)?(?:per\s+person|per\s+head|per\s+pax|pp\b|/\s*person|each\b|per\s+bande|प्रति\s+व्यक्ति)`)
	rePeopleAft = regexp.MustCompile(`(?i)^\s*(?:people|persons?|pax|travell?ers?|guests?|members?|adults?|log|logon|व्यक्ति|लोग|यात्री)\b`)
	reMoney     = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(k|lakhs?|lacs?|thousand|million)?\b`)
	reUSD       = regexp.MustCompile(`(?i)\$|\busd\b|\bdollars?\b`)
)

var moneyMultipliers = map[string]float64{
	"k": 1e3, "thousand": 1e3, "lakh": 1e5, "lakhs": 1e5, "lac": 1e5, "lacs": 1e5, "million": 1e6,
}

var quantityWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

// Extractor turns recognised entity spans into candidates.
// The recognizer is loaded lazily, once.
type Extractor struct {
	rec       Recognizer
	reference time.Time
	log       *slog.Logger

	once      sync.Once
	available bool
	loadErr   error
}

// NewExtractor creates a model extractor. A nil recognizer yields an extractor
// that is permanently unavailable.
func NewExtractor(rec Recognizer, reference time.Time) *Extractor {
	return &Extractor{
		rec:       rec,
		reference: reference,
		log:       logging.New("ner"),
	}
}

// Disabled reports whether no backend was configured
func (e *Extractor) Disabled() bool {
	return e.rec == nil
}

// Warm loads the backend now instead of on first use
func (e *Extractor) Warm() bool {
	return e.Available()
}

// Available reports whether the backend loaded. Triggers the load on first call.
func (e *Extractor) Available() bool {
	e.once.Do(e.load)
	return e.available
}

// LoadError returns the reason the backend is unavailable
func (e *Extractor) LoadError() error {
	e.once.Do(e.load)
	return e.loadErr
}

func (e *Extractor) load() {
	if e.rec == nil {
		e.loadErr = fmt.Errorf("no model backend configured: %w", model.ErrModelUnavailable)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.available = false
			e.loadErr = fmt.Errorf("load %s: panic: %v: %w", e.rec.Name(), r, model.ErrModelUnavailable)
			e.log.Warn("model backend failed to load, continuing pattern-only", "backend", e.rec.Name(), "error", e.loadErr)
		}
	}()

	start := time.Now()
	if err := e.rec.Load(); err != nil {
		e.loadErr = fmt.Errorf("load %s: %v: %w", e.rec.Name(), err, model.ErrModelUnavailable)
		e.log.Warn("model backend failed to load, continuing pattern-only", "backend", e.rec.Name(), "error", err)
		return
	}
	e.available = true
	e.log.Debug("model backend loaded", "backend", e.rec.Name(), "duration", time.Since(start))
}

// Extract runs the recognizer and maps its spans to candidates.
// Returns model.ErrModelUnavailable when the backend could not be loaded.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.Candidate, error) {
	if !e.Available() {
		return nil, e.loadErr
	}
	if text == "" {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		spans []Span
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("recognize: panic: %v", r)}
			}
		}()
		spans, err := e.rec.Recognize(text)
		done <- outcome{spans: spans, err: err}
	}()

	var res outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("model extraction: %w", res.err)
	}

	out := make([]model.Candidate, 0, len(res.spans))
	for _, s := range res.spans {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			continue
		}
		c, ok := e.mapSpan(text, s)
		if !ok {
			continue
		}
		c.Source = model.SourceModel
		c.Seq = len(out)
		c.Matcher = "ner." + strings.ToLower(s.Label)
		out = append(out, c)
	}
	return out, nil
}

// Rank maps backend confidence onto the candidate rank scale
func Rank(confidence float64) int {
	confidence = math.Max(0, math.Min(1, confidence))
	return 10 + int(math.Round(confidence*10))
}

func (e *Extractor) mapSpan(text string, s Span) (model.Candidate, bool) {
	rank := Rank(s.Confidence)
	value := strings.TrimSpace(s.Text)
	if value == "" {
		return model.Candidate{}, false
	}

	switch s.Kind {
	case KindPerson:
		return candidate(model.FieldCustomerName, model.String(value), rank, s), true

	case KindPlace:
		if reFromCue.MatchString(text[:s.Start]) || reSeAfter.MatchString(text[s.End:]) {
			return candidate(model.FieldDepartureCity, model.String(value), rank, s), true
		}
		return candidate(model.FieldDestinations, model.List(value), rank, s), true

	case KindDate:
		r, err := dates.Parse(value, e.reference)
		if err != nil {
			return model.Candidate{}, false
		}
		return candidate(model.FieldStartDate, model.Date(r.Time), rank, s), true

	case KindMoney:
		amount, currency, ok := parseMoney(value)
		if !ok {
			return model.Candidate{}, false
		}
		unit := model.UnitTotal
		if rePerPerson.MatchString(text[s.End:]) {
			unit = model.UnitPerPerson
		}
		return candidate(model.FieldBudget, model.Amount(amount, unit, currency), rank, s), true

	case KindQuantity:
		if !rePeopleAft.MatchString(text[s.End:]) {
			return model.Candidate{}, false
		}
		n, ok := parseQuantity(value)
		if !ok {
			return model.Candidate{}, false
		}
		return candidate(model.FieldTravelers, model.Integer(n), rank, s), true
	}

	return model.Candidate{}, false
}

func candidate(field model.FieldID, v model.Value, rank int, s Span) model.Candidate {
	return model.Candidate{
		Field: field,
		Value: v,
		Rank:  rank,
		Span:  &model.Span{Start: s.Start, End: s.End},
	}
}

func parseMoney(s string) (int64, string, bool) {
	m := reMoney.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || f <= 0 {
		return 0, "", false
	}
	if mul := strings.ToLower(m[2]); mul != "" {
		f *= moneyMultipliers[mul]
	}
	currency := "INR"
	if reUSD.MatchString(s) {
		currency = "USD"
	}
	return int64(math.Round(f)), currency, true
}

func parseQuantity(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, n > 0
	}
	n, ok := quantityWords[s]
	return n, ok
}
