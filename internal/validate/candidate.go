// Package validate discards candidates whose values are implausible for
// their field before fusion sees them.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/tripparse/internal/model"
)

// intRange bounds an integer field, inclusive
type intRange struct {
	min, max int
}

var intRanges = map[model.FieldID]intRange{
	model.FieldTravelers:      {1, 50},
	model.FieldAdults:         {0, 50},
	model.FieldChildren:       {0, 30},
	model.FieldDurationNights: {1, 90},
}

const (
	maxBudget     = 100_000_000
	minNameRunes  = 2
	maxNameRunes  = 50
	maxTextRunes  = 100
	maxDateBefore = 1 // years before the reference date
	maxDateAfter  = 3 // years after the reference date
)

// Validator checks candidates against their field spec
type Validator struct {
	specs     map[model.FieldID]model.FieldSpec
	reference time.Time
}

// NewValidator creates a validator for the given specs and reference date
func NewValidator(specs []model.FieldSpec, reference time.Time) *Validator {
	index := make(map[model.FieldID]model.FieldSpec, len(specs))
	for _, s := range specs {
		index[s.ID] = s
	}
	return &Validator{specs: index, reference: reference}
}

// Validate keeps plausible candidates and returns one warning per discarded candidate
func (v *Validator) Validate(cands []model.Candidate) ([]model.Candidate, []model.Warning) {
	kept := make([]model.Candidate, 0, len(cands))
	var warnings []model.Warning

	for _, c := range cands {
		if err := v.Check(c); err != nil {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnInvalidCandidate,
				Field:   c.Field,
				Message: fmt.Sprintf("%s candidate %s discarded: %v", c.Source, c.Value, err),
			})
			continue
		}
		kept = append(kept, c)
	}

	return kept, warnings
}

// Check returns why a candidate is implausible, or nil
func (v *Validator) Check(c model.Candidate) error {
	spec, ok := v.specs[c.Field]
	if !ok {
		return fmt.Errorf("unknown field %q", c.Field)
	}
	if c.Value.Kind != spec.Type {
		return fmt.Errorf("type %s, want %s", c.Value.Kind, spec.Type)
	}
	if c.Value.Null {
		return fmt.Errorf("null value")
	}

	switch spec.Type {
	case model.KindInteger:
		if r, ok := intRanges[c.Field]; ok && (c.Value.Int < r.min || c.Value.Int > r.max) {
			return fmt.Errorf("%d outside %d-%d", c.Value.Int, r.min, r.max)
		}

	case model.KindString:
		return checkString(spec, c.Value.Str)

	case model.KindDate:
		lo := v.reference.AddDate(-maxDateBefore, 0, 0)
		hi := v.reference.AddDate(maxDateAfter, 0, 0)
		if c.Value.Date.Before(lo) || c.Value.Date.After(hi) {
			return fmt.Errorf("date %s outside %s..%s", c.Value.Date.Format(model.DateLayout), lo.Format(model.DateLayout), hi.Format(model.DateLayout))
		}

	case model.KindMoney:
		if c.Value.Money.Amount <= 0 || c.Value.Money.Amount > maxBudget {
			return fmt.Errorf("amount %d outside 1-%d", c.Value.Money.Amount, maxBudget)
		}

	case model.KindList:
		if len(c.Value.List) == 0 {
			return fmt.Errorf("empty list")
		}
		for _, item := range c.Value.List {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("blank list item")
			}
		}
	}

	return nil
}

func checkString(spec model.FieldSpec, s string) error {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return fmt.Errorf("empty string")
	}

	if spec.Normalize != model.NormName {
		if n > maxTextRunes {
			return fmt.Errorf("%d characters, max %d", n, maxTextRunes)
		}
		return nil
	}

	if n < minNameRunes || n > maxNameRunes {
		return fmt.Errorf("name length %d outside %d-%d", n, minNameRunes, maxNameRunes)
	}
	for _, r := range s {
		if unicode.IsDigit(r) || r == '@' {
			return fmt.Errorf("name contains %q", r)
		}
	}
	return nil
}
