package errors

import "strings"

// BuildContext slices the source buffer around loc, returning up to two
// lines of context on either side plus a highlight span for the offending
// token's lexeme length.
func BuildContext(source string, loc Location, tokenLen int) *ErrorContext {
	lines := strings.Split(source, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return nil
	}
	const radius = 2
	from := loc.Line - radius
	if from < 1 {
		from = 1
	}
	to := loc.Line + radius
	if to > len(lines) {
		to = len(lines)
	}

	ctx := &ErrorContext{
		Lines:         append([]string{}, lines[from-1:to]...),
		HighlightLine: loc.Line - from,
		HighlightFrom: loc.Column,
		HighlightTo:   loc.Column + tokenLen,
	}
	return ctx
}
