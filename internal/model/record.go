package model

import "fmt"

// WarningKind classifies a non-fatal extraction note
type WarningKind string

const (
	WarnDefault          WarningKind = "default"           // No candidates, default used
	WarnAmbiguous        WarningKind = "ambiguous"         // Equal-precedence candidates disagreed
	WarnDerivedSkipped   WarningKind = "derived_skipped"   // Dependency unresolved, derived field kept its default
	WarnMatcherError     WarningKind = "matcher_error"     // A pattern matcher failed and was skipped
	WarnModelUnavailable WarningKind = "model_unavailable" // Pattern-only extraction
	WarnInvalidCandidate WarningKind = "invalid_candidate" // Candidate discarded by validation
	WarnTextTooShort     WarningKind = "text_too_short"    // Input below the minimum length
	WarnTruncated        WarningKind = "truncated"         // Input above the maximum length was cut
)

// Warning is attached to a record; it never turns a success into a failure
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Field   FieldID     `json:"field,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Field == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s[%s]: %s", w.Kind, w.Field, w.Message)
}

// Method records how a field's value was obtained
type Method string

const (
	MethodRule    Method = "rule"    // Pattern candidates only
	MethodModel   Method = "model"   // Model candidates only
	MethodHybrid  Method = "hybrid"  // Pattern and model candidates both backed the value
	MethodDerived Method = "derived" // Computed from other fields
	MethodDefault Method = "default" // No candidates
)

// Methods lists every method in report order
var Methods = []Method{MethodRule, MethodModel, MethodHybrid, MethodDerived, MethodDefault}

// ExtractedRecord is the resolved output for one inquiry
type ExtractedRecord struct {
	InquiryID  string             `json:"inquiry_id"`
	SourceFile string             `json:"source_file,omitempty"`
	Lang       LangMix            `json:"lang"`
	Encoding   string             `json:"encoding"`
	Fields     map[FieldID]Value  `json:"fields"`
	Methods    map[FieldID]Method `json:"methods,omitempty"`
	Warnings   []Warning          `json:"warnings,omitempty"`
	ModelUsed  bool               `json:"model_used"`
}

// Get returns the value of a field
func (r *ExtractedRecord) Get(id FieldID) Value {
	return r.Fields[id]
}

// ExtractionFailure is the outcome for an inquiry that produced no record
type ExtractionFailure struct {
	InquiryID  string `json:"inquiry_id"`
	SourceFile string `json:"source_file,omitempty"`
	Reason     string `json:"reason"`
	Err        error  `json:"-"`
}

func (f *ExtractionFailure) Error() string {
	return fmt.Sprintf("%s: %s", f.InquiryID, f.Reason)
}

func (f *ExtractionFailure) Unwrap() error {
	return f.Err
}

// NewFailure builds a failure from an error
func NewFailure(inquiryID, sourceFile string, err error) *ExtractionFailure {
	return &ExtractionFailure{
		InquiryID:  inquiryID,
		SourceFile: sourceFile,
		Reason:     err.Error(),
		Err:        err,
	}
}

// Result is exactly one of Record or Failure, tagged with its submission index
type Result struct {
	Index     int                `json:"index"`
	InquiryID string             `json:"inquiry_id"`
	Record    *ExtractedRecord   `json:"record,omitempty"`
	Failure   *ExtractionFailure `json:"failure,omitempty"`
}

// GetError returns the failure as an error, or nil on success
func (r Result) GetError() error {
	if r.Failure != nil {
		return r.Failure
	}
	return nil
}
