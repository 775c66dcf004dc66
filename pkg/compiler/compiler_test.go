package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fibSource = `functio fib(numerus n) fit numerus {
	si n < 2 ergo redde n
	redde fib(n-1) + fib(n-2)
}`

func TestCompileStringFidelis(t *testing.T) {
	result, err := CompileString(fibSource, Fidelis)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Contains(t, result.Code, "function fib")
	require.Contains(t, result.Code, "fib((n - 1))")
}

func TestCompileStringSimplex(t *testing.T) {
	result, err := CompileString(fibSource, Simplex)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Contains(t, result.Code, "def fib(")
	require.Contains(t, result.Code, "return n")
}

func TestCompileStringFirmus(t *testing.T) {
	result, err := CompileString(fibSource, Firmus)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Contains(t, result.Code, "fn fib(")
}

func TestCompileStringDestructure(t *testing.T) {
	source := `ex user fixum nomen ut n, ceteri rest`
	result, err := CompileString(source, Fidelis)
	require.NoError(t, err)
	require.Empty(t, result.Diagnostics)
	require.Len(t, result.Program.Body, 1)
}

func TestCompileStringRecoversFromMissingIdentifier(t *testing.T) {
	source := "fixum = 1\nscribe \"ok\"\n"
	result, err := CompileString(source, Fidelis)
	require.NoError(t, err)
	require.NotEmpty(t, result.Diagnostics, "a missing identifier after fixum must be reported")
	require.NotNil(t, result.Program, "a partial AST must still be available for IDE assists")
}

func TestCompileStringStopsAtParseErrorsBeforeCodegen(t *testing.T) {
	source := "fixum = 1\n"
	result, err := CompileString(source, Fidelis)
	require.NoError(t, err)
	require.Empty(t, result.Code, "codegen must not run when parsing produced diagnostics")
}

func TestTokenizeSurfacesLexErrors(t *testing.T) {
	_, lexErrs := Tokenize("varia x = `")
	require.NotEmpty(t, lexErrs)
}

func TestGenerateUnknownTargetFails(t *testing.T) {
	tokens, lexErrs := Tokenize("functio f() {}")
	require.Empty(t, lexErrs)
	program, parseErrs := Parse(tokens)
	require.Empty(t, parseErrs)

	_, err := Generate(program, Target("nonexistent"))
	require.Error(t, err)
}

func TestAllTargetsAgreeOnFunctionCount(t *testing.T) {
	for _, target := range []Target{Fidelis, Simplex, Firmus} {
		result, err := CompileString(fibSource, target)
		require.NoError(t, err, target)
		require.True(t, strings.Contains(result.Code, "fib"), "target %s must name the function", target)
	}
}
