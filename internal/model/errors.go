package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode means no encoding candidate produced valid text
	ErrDecode = errors.New("decode failed")

	// ErrModelUnavailable means the model extractor could not be loaded
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrAborted marks inquiries the runner never started because the batch was cancelled
	ErrAborted = errors.New("batch aborted before inquiry started")

	// ErrTimeout marks inquiries that exceeded the per-inquiry watchdog
	ErrTimeout = errors.New("inquiry timed out")
)

// DecodeError reports why raw bytes could not be turned into text
type DecodeError struct {
	Encoding string
	Reason   string
}

func (e *DecodeError) Error() string {
	if e.Encoding == "" {
		return fmt.Sprintf("decode: %s", e.Reason)
	}
	return fmt.Sprintf("decode (%s): %s", e.Encoding, e.Reason)
}

// Unwrap lets errors.Is(err, ErrDecode) match
func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// MatcherError is a recovered failure inside one pattern matcher
type MatcherError struct {
	Group   string
	Matcher string
	Err     error
}

func (e *MatcherError) Error() string {
	return fmt.Sprintf("matcher %s/%s: %v", e.Group, e.Matcher, e.Err)
}

func (e *MatcherError) Unwrap() error {
	return e.Err
}
