package errors

import "sort"

// ErrorRecovery accumulates diagnostics from one or more pipeline phases and
// exposes them sorted by source position, capped at a maximum count so a
// pathological input cannot flood a host with noise.
type ErrorRecovery struct {
	MaxErrors int
	errors    []CompilerError
}

// NewRecovery constructs an accumulator. maxErrors <= 0 means unbounded.
func NewRecovery(maxErrors int) *ErrorRecovery {
	return &ErrorRecovery{MaxErrors: maxErrors}
}

// Add appends a diagnostic unless the cap has already been reached.
func (r *ErrorRecovery) Add(err CompilerError) {
	if r.MaxErrors > 0 && len(r.errors) >= r.MaxErrors {
		return
	}
	r.errors = append(r.errors, err)
}

// AddAll appends a whole phase's diagnostics, e.g. lexer or parser errors
// already adapted to CompilerError.
func (r *ErrorRecovery) AddAll(errs []CompilerError) {
	for _, e := range errs {
		r.Add(e)
	}
}

// HasErrors reports whether any diagnostic at severity >= Error was recorded.
func (r *ErrorRecovery) HasErrors() bool {
	for _, e := range r.errors {
		if e.Severity >= Error {
			return true
		}
	}
	return false
}

// Sorted returns all diagnostics ordered by source position (file, then
// offset), stable for equal positions.
func (r *ErrorRecovery) Sorted() []CompilerError {
	out := append([]CompilerError{}, r.errors...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Location.File != out[j].Location.File {
			return out[i].Location.File < out[j].Location.File
		}
		return out[i].Location.Offset < out[j].Location.Offset
	})
	return out
}

// Len reports how many diagnostics have been recorded so far.
func (r *ErrorRecovery) Len() int { return len(r.errors) }
