// Package errors provides structured error encoding for rewritetree's
// matcher-tree generation pipeline.
package errors

import (
	"fmt"

	"github.com/sunholo/rewritetree/internal/schema"
)

// Fix represents a suggested fix with confidence score
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Encoded represents a structured error in JSON format
type Encoded struct {
	Schema     string      `json:"schema"`
	SID        string      `json:"sid"`
	Phase      string      `json:"phase"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Fix        Fix         `json:"fix"`
	Context    interface{} `json:"context,omitempty"`
	SourceSpan string      `json:"source_span,omitempty"`
	Meta       interface{} `json:"meta,omitempty"`
}

// NewPatternAuthoring creates an error surfaced to the pattern author: the
// predicate-extraction or constraint-collection walk found a malformed
// pattern. sid identifies the pattern (see internal/sid).
func NewPatternAuthoring(sid, code, msg string, ctx interface{}) Encoded {
	if sid == "" {
		sid = "unknown"
	}
	phase, _ := GetErrorInfo(code)
	return Encoded{
		Schema:  schema.ErrorV1,
		SID:     sid,
		Phase:   phase.Phase,
		Code:    code,
		Message: msg,
		Fix:     Fix{Suggestion: "", Confidence: 0.0},
		Context: ctx,
	}
}

// NewInternal creates an error for an invariant violation encountered while
// ordering, propagating, or folding the matcher tree. These are bugs, never
// pattern-authoring mistakes.
func NewInternal(sid, code, msg string, ctx interface{}) Encoded {
	if sid == "" {
		sid = "unknown"
	}
	phase, _ := GetErrorInfo(code)
	return Encoded{
		Schema:  schema.ErrorV1,
		SID:     sid,
		Phase:   phase.Phase,
		Code:    code,
		Message: msg,
		Fix:     Fix{Suggestion: "", Confidence: 0.0},
		Context: ctx,
	}
}

// WithFix adds a fix suggestion to the error
func (e Encoded) WithFix(suggestion string, confidence float64) Encoded {
	e.Fix = Fix{
		Suggestion: suggestion,
		Confidence: confidence,
	}
	return e
}

// WithSourceSpan adds source location to the error
func (e Encoded) WithSourceSpan(span string) Encoded {
	e.SourceSpan = span
	return e
}

// WithMeta adds metadata to the error
func (e Encoded) WithMeta(meta interface{}) Encoded {
	e.Meta = meta
	return e
}

// ToJSON converts the error to deterministic JSON
func (e Encoded) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(e)
	if err != nil {
		// Fallback if encoding fails
		fallback := Encoded{
			Schema:  schema.ErrorV1,
			Message: "encoding failed",
			Meta:    map[string]string{"original_error": err.Error()},
		}
		return schema.MarshalDeterministic(fallback)
	}
	return schema.FormatJSON(data)
}

// ErrorContext provides structured context for errors
type ErrorContext struct {
	Pattern     string            `json:"pattern,omitempty"`
	Position    string            `json:"position,omitempty"`
	Question    string            `json:"question,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// SafeEncodeError safely encodes any error, never panics
func SafeEncodeError(err error, phase string) []byte {
	if err == nil {
		return nil
	}

	encoded := Encoded{
		Schema:  schema.ErrorV1,
		SID:     "unknown",
		Phase:   phase,
		Code:    "INT000",
		Message: err.Error(),
		Fix:     Fix{Suggestion: "", Confidence: 0.0},
	}

	data, _ := encoded.ToJSON()
	return data
}

// FormatSourceSpan formats file position as "file:line:col"
func FormatSourceSpan(file string, line, col int) string {
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}
