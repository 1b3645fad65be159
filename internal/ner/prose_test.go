package ner

import (
	"context"
	"testing"

	"github.com/ppiankov/tripparse/internal/model"
)

const proseInquiry = "Lebron James plays basketball in Los Angeles. He wants a 5 night trip to Goa for 4 people."

func newLoadedProse(t *testing.T) *ProseRecognizer {
	t.Helper()
	if testing.Short() {
		t.Skip("prose model load is slow")
	}
	p := NewProseRecognizer()
	if err := p.Load(); err != nil {
		t.Fatalf("load prose model: %v", err)
	}
	return p
}

func TestProseRecognizer_LabelsAndSpans(t *testing.T) {
	p := newLoadedProse(t)

	spans, err := p.Recognize(proseInquiry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byText := make(map[string]Span)
	prevEnd := 0
	for _, s := range spans {
		if got := proseInquiry[s.Start:s.End]; got != s.Text {
			t.Errorf("span [%d,%d) slices to %q, expected %q", s.Start, s.End, got, s.Text)
		}
		if s.Start < prevEnd {
			t.Errorf("span %q at %d starts before previous end %d", s.Text, s.Start, prevEnd)
		}
		prevEnd = s.End

		kind, ok := proseKind(s.Label)
		if !ok {
			t.Errorf("unmapped label %q leaked for %q", s.Label, s.Text)
		}
		if s.Kind != kind {
			t.Errorf("%q: expected kind %s for label %s, got %s", s.Text, kind, s.Label, s.Kind)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("%q: confidence %v out of range", s.Text, s.Confidence)
		}
		byText[s.Text] = s
	}

	person, ok := byText["Lebron James"]
	if !ok {
		t.Fatalf("expected a span for Lebron James, got %+v", spans)
	}
	if person.Kind != KindPerson || person.Label != "PERSON" {
		t.Errorf("expected PERSON/person, got %s/%s", person.Label, person.Kind)
	}
	if person.Start != 0 || person.End != len("Lebron James") {
		t.Errorf("expected span [0,%d), got [%d,%d)", len("Lebron James"), person.Start, person.End)
	}

	place, ok := byText["Los Angeles"]
	if !ok {
		t.Fatalf("expected a span for Los Angeles, got %+v", spans)
	}
	if place.Kind != KindPlace || place.Label != "GPE" {
		t.Errorf("expected GPE/place, got %s/%s", place.Label, place.Kind)
	}
}

func TestProseRecognizer_FeedsExtractor(t *testing.T) {
	p := newLoadedProse(t)

	cands, err := NewExtractor(p, testRef).Extract(context.Background(), proseInquiry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, c := range cands {
		if c.Source != model.SourceModel {
			t.Errorf("expected model source, got %s", c.Source)
		}
		if c.Field == model.FieldCustomerName && c.Value.Str == "Lebron James" {
			found = true
			if c.Span == nil || proseInquiry[c.Span.Start:c.Span.End] != "Lebron James" {
				t.Errorf("expected span over the name, got %+v", c.Span)
			}
		}
	}
	if !found {
		t.Errorf("expected customer_name Lebron James among %v", cands)
	}
}

func TestProseKind(t *testing.T) {
	tests := []struct {
		label string
		want  Kind
		ok    bool
	}{
		{"PERSON", KindPerson, true},
		{"person", KindPerson, true},
		{"GPE", KindPlace, true},
		{"LOC", KindPlace, true},
		{"FAC", KindPlace, true},
		{"DATE", KindDate, true},
		{"MONEY", KindMoney, true},
		{"CARDINAL", KindQuantity, true},
		{"QUANTITY", KindQuantity, true},
		{"ORG", "", false},
		{"NORP", "", false},
	}

	for _, tt := range tests {
		got, ok := proseKind(tt.label)
		if got != tt.want || ok != tt.ok {
			t.Errorf("proseKind(%q) = %s, %v; expected %s, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}
