package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	severityColor = map[Severity]*color.Color{
		Info:    color.New(color.FgCyan),
		Warning: color.New(color.FgYellow, color.Bold),
		Error:   color.New(color.FgRed, color.Bold),
		Fatal:   color.New(color.FgHiRed, color.Bold),
	}
	locationColor = color.New(color.FgHiBlack)
	gutterColor   = color.New(color.FgHiBlack)
	caretColor    = color.New(color.FgRed, color.Bold)
	codeColor     = color.New(color.FgHiBlack)
)

// FormatTerminal renders a CompilerError as a colorized, multi-line report
// suitable for a terminal, including source context and caret when present.
func FormatTerminal(e CompilerError) string {
	var sb strings.Builder

	sevLabel := severityColor[e.Severity].Sprint(strings.ToUpper(e.Severity.String()))
	codeLabel := codeColor.Sprintf("[%s]", e.Code)
	loc := locationColor.Sprintf("%s:%d:%d", displayFile(e.Location.File), e.Location.Line, e.Location.Column)

	fmt.Fprintf(&sb, "%s %s %s: %s\n", sevLabel, codeLabel, loc, e.Message)

	if e.Context != nil {
		for i, line := range e.Context.Lines {
			lineNo := e.Context.HighlightLine - (len(e.Context.Lines)/2) + i
			_ = lineNo
			gutter := gutterColor.Sprintf("%4d | ", i+1)
			fmt.Fprintf(&sb, "%s%s\n", gutter, line)
			if i == e.Context.HighlightLine {
				pad := strings.Repeat(" ", e.Context.HighlightFrom)
				width := e.Context.HighlightTo - e.Context.HighlightFrom
				if width < 1 {
					width = 1
				}
				caret := caretColor.Sprint(strings.Repeat("^", width))
				fmt.Fprintf(&sb, "     | %s%s\n", pad, caret)
			}
		}
	}

	if e.Suggestion != nil {
		fmt.Fprintf(&sb, "  %s %s\n", color.New(color.FgGreen).Sprint("help:"), e.Suggestion.Message)
	}

	return sb.String()
}

func displayFile(f string) string {
	if f == "" {
		return "<source>"
	}
	return f
}
