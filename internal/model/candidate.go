package model

import "fmt"

// Source identifies the extractor that proposed a candidate
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
)

// Structural cues. A pattern candidate carrying one outranks the model even
// under model_precedence.
const (
	CueSignature    = "signature"    // Name taken from an email signature block
	CueIntroduction = "introduction" // Name from "my name is X" / "mera naam X"
)

// Span is a byte offset range in the normalized text
type Span struct {
	Start int `json:"start"` // inclusive
	End   int `json:"end"`   // exclusive
}

// Len returns the width of the span in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Candidate is one proposed value for one field
type Candidate struct {
	Field   FieldID `json:"field"`
	Value   Value   `json:"value"`
	Source  Source  `json:"source"`
	Rank    int     `json:"rank"`              // Higher is more confident
	Span    *Span   `json:"span,omitempty"`    // Nil when the value has no textual anchor
	Cue     string  `json:"cue,omitempty"`     // Structural cue, e.g. "signature"
	Seq     int     `json:"seq"`               // Extraction order within its extractor
	Matcher string  `json:"matcher,omitempty"` // Rule or entity label that produced it
}

// String returns a debug representation, e.g. pattern:travelers=3[12:40]
func (c Candidate) String() string {
	span := ""
	if c.Span != nil {
		span = fmt.Sprintf("[%d:%d]", c.Span.Start, c.Span.End)
	}
	return fmt.Sprintf("%s:%s=%s%s", c.Source, c.Field, c.Value, span)
}
