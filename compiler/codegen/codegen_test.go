package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/lexer"
	"github.com/vertere-lang/vertere/compiler/parser"
)

const fibSource = `functio fib(numerus n) fit numerus {
	si n < 2 ergo redde n
	redde fib(n-1) + fib(n-2)
}`

func parseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	require.Empty(t, lexErrs)
	prog, diags := parser.Parse(tokens)
	require.Empty(t, diags)
	return prog
}

func TestGenerateFidelisRendersFunctionAndCall(t *testing.T) {
	prog := parseProgram(t, fibSource)
	result, err := Generate(prog, Fidelis)
	require.NoError(t, err)
	require.Contains(t, result.Code, "function fib")
	require.Contains(t, result.Code, "fib((n - 1))")
}

func TestGenerateSimplexRendersDefAndReturn(t *testing.T) {
	prog := parseProgram(t, fibSource)
	result, err := Generate(prog, Simplex)
	require.NoError(t, err)
	require.Contains(t, result.Code, "def fib(")
	require.Contains(t, result.Code, "return ")
}

func TestGenerateFirmusRendersFn(t *testing.T) {
	prog := parseProgram(t, fibSource)
	result, err := Generate(prog, Firmus)
	require.NoError(t, err)
	require.Contains(t, result.Code, "fn fib")
}

func TestGenerateUnknownTargetFails(t *testing.T) {
	prog := parseProgram(t, fibSource)
	_, err := Generate(prog, TargetName("cobol"))
	require.Error(t, err)
}

func TestSourceMapOptOutProducesNoMappings(t *testing.T) {
	prog := parseProgram(t, fibSource)
	result, err := Generate(prog, Fidelis)
	require.NoError(t, err)
	require.Empty(t, result.SourceMap)
}

func TestSourceMapOptInProducesMappings(t *testing.T) {
	prog := parseProgram(t, fibSource)
	result, err := Generate(prog, Fidelis, WithSourceMap())
	require.NoError(t, err)
	require.NotEmpty(t, result.SourceMap)
}

const adSource = `ad "http.client" (url) fit Resp pro r {
	scribe r
}`

func TestGenerateAdStmtTargetHasNoEmbeddedQuotes(t *testing.T) {
	prog := parseProgram(t, adSource)

	fidelisResult, err := Generate(prog, Fidelis)
	require.NoError(t, err)
	require.Contains(t, fidelisResult.Code, "client.http.client(")
	require.NotContains(t, fidelisResult.Code, `"http.client"`)

	simplexResult, err := Generate(prog, Simplex)
	require.NoError(t, err)
	require.NotContains(t, simplexResult.Code, `"http.client"`)

	firmusResult, err := Generate(prog, Firmus)
	require.NoError(t, err)
	require.NotContains(t, firmusResult.Code, `"http.client"`)
}
