package ner

import (
	"fmt"
	"strings"

	"github.com/tsawler/prose/v3"
)

const warmupText = "Rahul Sharma wants to visit Goa from Mumbai in December for 3 people."

// ProseRecognizer runs the prose averaged-perceptron NER model
type ProseRecognizer struct{}

// NewProseRecognizer creates a prose-backed recognizer
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

func (p *ProseRecognizer) Name() string { return "prose" }

// Load forces the embedded model to be decoded by tagging a short sentence
func (p *ProseRecognizer) Load() error {
	if _, err := prose.NewDocument(warmupText); err != nil {
		return fmt.Errorf("load prose model: %w", err)
	}
	return nil
}

// Recognize tags the text and keeps the entity labels tripparse understands
func (p *ProseRecognizer) Recognize(text string) ([]Span, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("prose document: %w", err)
	}

	var spans []Span
	cursor := 0
	for _, ent := range doc.Entities() {
		kind, ok := proseKind(ent.Label)
		if !ok {
			continue
		}
		start, end, found := locate(text, ent.Text, int(ent.Start), int(ent.End), cursor)
		if !found {
			continue
		}
		cursor = end
		spans = append(spans, Span{
			Text:       ent.Text,
			Kind:       kind,
			Label:      ent.Label,
			Start:      start,
			End:        end,
			Confidence: float64(ent.Confidence),
		})
	}

	return spans, nil
}

// proseKind maps prose labels to entity kinds
func proseKind(label string) (Kind, bool) {
	switch strings.ToUpper(label) {
	case "PERSON":
		return KindPerson, true
	case "GPE", "LOC", "FAC":
		return KindPlace, true
	case "DATE":
		return KindDate, true
	case "MONEY":
		return KindMoney, true
	case "CARDINAL", "QUANTITY":
		return KindQuantity, true
	default:
		return "", false
	}
}

// locate returns byte offsets for an entity. Reported offsets are trusted only
// when they slice back to the entity text; otherwise the text is searched for
// from the cursor.
func locate(text, entity string, start, end, cursor int) (int, int, bool) {
	if entity == "" {
		return 0, 0, false
	}
	if start >= 0 && end <= len(text) && start < end && text[start:end] == entity {
		return start, end, true
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	i := strings.Index(text[cursor:], entity)
	if i < 0 {
		i = strings.Index(text, entity)
		if i < 0 {
			return 0, 0, false
		}
		return i, i + len(entity), true
	}
	return cursor + i, cursor + i + len(entity), true
}
