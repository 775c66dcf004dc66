// Package diag is the collaborator-side adaptation layer between the pure
// compiler core's lexer/parser diagnostics and a single ordered
// errors.CompilerError list, shared by the CLI, the LSP server, and the
// dev-server HTTP API so none of them re-implements lex+parse merging.
package diag

import (
	"sort"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
	"github.com/vertere-lang/vertere/compiler/parser"
)

// Compile tokenizes and parses source, returning the partial Program (never
// nil, even on error — spec.md's IDE-assist requirement) plus every
// diagnostic in source order.
func Compile(source, file string) (*ast.Program, []errors.CompilerError) {
	tokens, lexErrs := lexer.Tokenize(source)

	var diags []errors.CompilerError
	for _, le := range lexErrs {
		diags = append(diags, errors.New(errors.PhaseLexer, errors.ErrStrayCharacter, le.Message, errors.FromPosition(le.Position, file)))
	}

	program, parseErrs := parser.Parse(tokens, parser.WithFile(file))
	diags = append(diags, parseErrs...)
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Location, diags[j].Location
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return program, diags
}

// HasErrors reports whether any diagnostic is at error severity or above.
func HasErrors(diags []errors.CompilerError) bool {
	for _, d := range diags {
		if d.Severity == errors.Error || d.Severity == errors.Fatal {
			return true
		}
	}
	return false
}
