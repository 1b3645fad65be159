package extract

import (
	"fmt"

	"github.com/ppiankov/tripparse/internal/model"
)

// Extractor runs the pattern matchers selected by an inquiry's language mix
type Extractor struct {
	bank *Bank
}

// NewExtractor creates a new pattern extractor
func NewExtractor(bank *Bank) *Extractor {
	return &Extractor{bank: bank}
}

// Extract runs every matcher of the variant independently. A matcher that
// fails or panics contributes a *model.MatcherError and no candidates; the
// others continue. Seq increases in group, matcher, match-position order.
func (e *Extractor) Extract(text model.InquiryText) ([]model.Candidate, []error) {
	if text.Text == "" {
		return nil, nil
	}

	var (
		candidates []model.Candidate
		errs       []error
		seq        int
	)

	for _, g := range e.bank.Variant(text.Lang) {
		for _, m := range g.Matchers {
			found, err := runMatcher(m, text.Text)
			if err != nil {
				errs = append(errs, &model.MatcherError{Group: g.Name, Matcher: m.Name(), Err: err})
				continue
			}

			sortByPosition(found)
			for _, c := range found {
				c.Source = model.SourcePattern
				c.Seq = seq
				if c.Matcher == "" {
					c.Matcher = m.Name()
				}
				seq++
				candidates = append(candidates, c)
			}
		}
	}

	return candidates, errs
}

// runMatcher converts a matcher panic into an error
func runMatcher(m Matcher, text string) (found []model.Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			found = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.Match(text)
}
