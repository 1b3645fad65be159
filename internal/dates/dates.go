// Package dates resolves English, Hinglish and Hindi travel date expressions
// against a reference date.
//
// Extract scans running text and returns every date expression with its byte
// offsets. Expressions without a year take the reference year, and roll to the
// following year when the period they name has already ended. "Nth week of a
// month" resolves to the Nth Monday of that month; "last week" to the last
// Monday. A bare month ("in December") resolves to its first day.
//
// All functions are pure and safe for concurrent use.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Precision is how specific a resolved date is
type Precision int

const (
	PrecisionDay   Precision = iota // An explicit calendar day
	PrecisionWeek                   // "second week of November"
	PrecisionMonth                  // "in December"
)

var precisionNames = [...]string{
	PrecisionDay:   "day",
	PrecisionWeek:  "week",
	PrecisionMonth: "month",
}

func (p Precision) String() string {
	if int(p) >= 0 && int(p) < len(precisionNames) {
		return precisionNames[p]
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// ErrNoDate is returned by Parse when the input holds no recognizable date
var ErrNoDate = errors.New("dates: no date expression found")

// Result is one resolved date expression
type Result struct {
	Text      string    `json:"text"`           // Matched substring
	Start     int       `json:"start"`          // Byte offset (inclusive)
	End       int       `json:"end"`            // Byte offset (exclusive)
	Time      time.Time `json:"time"`           // Resolved day, UTC midnight
	Until     time.Time `json:"until,omitzero"` // Set for compact day ranges ("10-15 Nov")
	Precision Precision `json:"precision"`      // Day, week or month
	HasYear   bool      `json:"has_year"`       // Year given explicitly
}

// String returns a debug representation, e.g. day("10 Nov 2025")[4:15]=2025-11-10
func (r Result) String() string {
	return fmt.Sprintf("%s(%q)[%d:%d]=%s", r.Precision, r.Text, r.Start, r.End, r.Time.Format("2006-01-02"))
}

// Range is a "from X to Y" pair found in the text
type Range struct {
	From Result
	To   Result
}

// Extract finds all date expressions in s, resolved against ref.
// Results are ordered by position and never overlap.
func Extract(s string, ref time.Time) []Result {
	if s == "" {
		return nil
	}
	return extract(s, civil(ref))
}

// Parse resolves a single date expression
func Parse(s string, ref time.Time) (Result, error) {
	results := Extract(s, ref)
	if len(results) == 0 {
		return Result{}, ErrNoDate
	}
	return results[0], nil
}

// NthMonday returns the nth Monday of a month. n < 0 selects the last Monday.
func NthMonday(year int, month time.Month, n int) (time.Time, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Monday) - int(first.Weekday()) + 7) % 7
	monday := first.AddDate(0, 0, offset)

	if n < 0 {
		for monday.AddDate(0, 0, 7).Month() == month {
			monday = monday.AddDate(0, 0, 7)
		}
		return monday, true
	}
	if n == 0 {
		return time.Time{}, false
	}

	d := monday.AddDate(0, 0, 7*(n-1))
	if d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func civil(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
