package ner

import (
	"fmt"
	"strings"
)

// Kind is the coarse entity type a recognizer reports
type Kind string

const (
	KindPerson   Kind = "person"
	KindPlace    Kind = "place"
	KindDate     Kind = "date"
	KindMoney    Kind = "money"
	KindQuantity Kind = "quantity"
)

// Span is one recognised entity with byte offsets into the input text
type Span struct {
	Text       string
	Kind       Kind
	Label      string // backend label, e.g. GPE
	Start      int
	End        int
	Confidence float64 // 0..1
}

// Recognizer defines the interface for entity recognition backends
type Recognizer interface {
	// Name returns the backend name
	Name() string

	// Load prepares the backend. Called at most once.
	Load() error

	// Recognize returns typed spans. Must be safe for concurrent use after Load.
	Recognize(text string) ([]Span, error)
}

// NewRecognizer creates a recognizer for the configured backend.
// "none" and "" return nil: the model extractor is disabled.
func NewRecognizer(backend string) (Recognizer, error) {
	switch strings.ToLower(backend) {
	case "prose":
		return NewProseRecognizer(), nil

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown model backend: %s (supported: prose, none)", backend)
	}
}
