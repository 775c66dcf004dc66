package errors

import (
	"fmt"

	"github.com/vertere-lang/vertere/compiler/lexer"
)

// Severity ranks a diagnostic's urgency.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Location identifies where a diagnostic applies.
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

// FromPosition converts a lexer position (no file context) into a Location.
func FromPosition(p lexer.Position, file string) Location {
	return Location{File: file, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// ErrorContext carries the surrounding source lines plus a highlight span,
// so terminal and editor renderers can show the diagnostic in place.
type ErrorContext struct {
	Lines        []string `json:"lines"`
	HighlightLine int     `json:"highlightLine"`
	HighlightFrom int     `json:"highlightFrom"`
	HighlightTo   int     `json:"highlightTo"`
}

// FixSuggestion is a best-effort recoverable-mistake hint.
type FixSuggestion struct {
	Message     string `json:"message"`
	Replacement string `json:"replacement,omitempty"`
}

// CompilerError is the unified diagnostic record used across all phases.
type CompilerError struct {
	Phase         Phase          `json:"phase"`
	Code          Code           `json:"code"`
	Message       string         `json:"message"`
	Location      Location       `json:"location"`
	Severity      Severity       `json:"severity"`
	Context       *ErrorContext  `json:"context,omitempty"`
	Suggestion    *FixSuggestion `json:"suggestion,omitempty"`
	RelatedErrors []CompilerError `json:"relatedErrors,omitempty"`
}

func (e CompilerError) Error() string {
	return fmt.Sprintf("[%s %s] %d:%d: %s", e.Phase, e.Code, e.Location.Line, e.Location.Column, e.Message)
}

// New constructs a CompilerError at Error severity.
func New(phase Phase, code Code, message string, loc Location) CompilerError {
	return CompilerError{Phase: phase, Code: code, Message: message, Location: loc, Severity: Error}
}

// WithContext attaches source context built from a buffer and location.
func (e CompilerError) WithContext(ctx *ErrorContext) CompilerError {
	e.Context = ctx
	return e
}

// WithSuggestion attaches a fix suggestion.
func (e CompilerError) WithSuggestion(s FixSuggestion) CompilerError {
	e.Suggestion = &s
	return e
}
