// Package compiler is the public facade over the tokenizer, parser, and
// codegen framework: tokenize → parse → generate, each stage pure and
// independently callable.
package compiler

import (
	"sort"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/codegen"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
	"github.com/vertere-lang/vertere/compiler/parser"
)

// Target re-exports the set of reference codegen targets.
type Target = codegen.TargetName

const (
	Fidelis = codegen.Fidelis
	Simplex = codegen.Simplex
	Firmus  = codegen.Firmus
)

// Tokenize turns source text into a token stream plus any lexical
// diagnostics, in source order.
func Tokenize(source string) ([]lexer.Token, []lexer.LexError) {
	return lexer.Tokenize(source)
}

// Parse turns a token stream into a Program and ordered parse diagnostics.
// The returned Program is never nil, even when diagnostics are present.
func Parse(tokens []lexer.Token, opts ...parser.Option) (*ast.Program, []errors.CompilerError) {
	return parser.Parse(tokens, opts...)
}

// Generate emits source text for one target from a parsed Program.
func Generate(program *ast.Program, target Target, opts ...codegen.Option) (codegen.Result, error) {
	return codegen.Generate(program, target, opts...)
}

// Diagnostic is the flattened, source-agnostic view of one compile-time
// problem, used by CompileString's combined result. Code is empty for
// lexical diagnostics, which carry no stable error code of their own.
type Diagnostic struct {
	Code     errors.Code
	Message  string
	Position lexer.Position
}

// Result is everything CompileString produces for one file.
type Result struct {
	Program     *ast.Program
	Diagnostics []Diagnostic
	Code        string
	Features    map[string]bool
}

// CompileString runs the full tokenize → parse → generate pipeline over one
// in-memory source file. Diagnostics from tokenizing and parsing are
// merged in source order; generation only runs if parsing produced no
// errors, since codegen has no recovery model of its own.
func CompileString(source string, target Target, opts ...codegen.Option) (Result, error) {
	tokens, lexErrs := lexer.Tokenize(source)

	var diags []Diagnostic
	for _, le := range lexErrs {
		diags = append(diags, Diagnostic{Message: le.Message, Position: le.Position})
	}

	program, parseErrs := parser.Parse(tokens)
	for _, pe := range parseErrs {
		diags = append(diags, Diagnostic{
			Code:    pe.Code,
			Message: pe.Message,
			Position: lexer.Position{Line: pe.Location.Line, Column: pe.Location.Column, Offset: pe.Location.Offset},
		})
	}
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i].Position, diags[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	result := Result{Program: program, Diagnostics: diags}
	if len(diags) > 0 {
		return result, nil
	}

	gen, err := codegen.Generate(program, target, opts...)
	if err != nil {
		return result, err
	}
	result.Code = gen.Code
	result.Features = gen.Features
	return result, nil
}
