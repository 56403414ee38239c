package diag

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Span is a source location: a module-relative file path plus a 1-based
// line/column derived from the owning module's unit offset.
type Span struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Excerpt string `json:"excerpt,omitempty"`
}

// Report is the canonical structured diagnostic. All error builders across
// the pipeline return *Report, wrapped as a ReportError so it survives
// normal Go error propagation.
type Report struct {
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *Span          `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	r := e.Rep
	if r.Span != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %s", r.Span.File, r.Span.Line, r.Span.Col, r.Code, r.Message)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Wrap turns a Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// As extracts a *Report from an error chain, if present.
func As(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// New builds a Report with no span, for errors detected outside a token
// stream (I/O, lockfile syntax, cache).
func New(phase, code, message string) *Report {
	return &Report{Phase: phase, Code: code, Message: message}
}

// At builds a Report anchored to a source span.
func At(phase, code, message string, span Span) *Report {
	return &Report{Phase: phase, Code: code, Message: message, Span: &span}
}

// JSON renders the report deterministically for tooling.
func (r *Report) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TruncateExcerpt clips a token excerpt to 40 bytes, per spec.
func TruncateExcerpt(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:40]
}
