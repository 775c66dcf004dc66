package debug

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/codegen"
)

func sampleResult() codegen.Result {
	return codegen.Result{
		Code: "function fib(n) {\n  return n;\n}\n",
		SourceMap: []codegen.SourceMapping{
			{SourcePos: ast.Position{Line: 1, Column: 1}, GeneratedLine: 0, GeneratedColumn: 0},
			{SourcePos: ast.Position{Line: 2, Column: 5}, GeneratedLine: 1, GeneratedColumn: 2},
		},
	}
}

func TestRegistryTranslateBreakpointExactMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(FromCompileResult("fib.vtr", "fib.js", sampleResult()))

	bp, err := r.TranslateBreakpoint("fib.vtr", 2)
	require.NoError(t, err)
	require.Equal(t, "fib.js", bp.GeneratedFile)
	require.Equal(t, 1, bp.GeneratedLine)
}

func TestRegistryTranslateBreakpointNearestMatch(t *testing.T) {
	r := NewRegistry()
	r.Register(FromCompileResult("fib.vtr", "fib.js", sampleResult()))

	bp, err := r.TranslateBreakpoint("fib.vtr", 3)
	require.NoError(t, err)
	require.Equal(t, 1, bp.GeneratedLine)
}

func TestRegistryTranslateBreakpointUnknownFile(t *testing.T) {
	r := NewRegistry()
	_, err := r.TranslateBreakpoint("missing.vtr", 1)
	require.Error(t, err)
}

func TestRegistryTranslateLocation(t *testing.T) {
	r := NewRegistry()
	r.Register(FromCompileResult("fib.vtr", "fib.js", sampleResult()))

	sourceFile, line, col, err := r.TranslateLocation("fib.js", 1)
	require.NoError(t, err)
	require.Equal(t, "fib.vtr", sourceFile)
	require.Equal(t, 2, line)
	require.Equal(t, 5, col)
}

func TestManagerAddGetRemove(t *testing.T) {
	m := NewManager()
	id := m.Add(&Breakpoint{SourceFile: "fib.vtr", SourceLine: 2})

	bp, err := m.Get(id)
	require.NoError(t, err)
	require.Equal(t, "fib.vtr", bp.SourceFile)

	found := m.BySourceLocation("fib.vtr", 2)
	require.Len(t, found, 1)

	require.NoError(t, m.Remove(id))
	_, err = m.Get(id)
	require.Error(t, err)
}

func TestBreakpointVerifiedRoundTrip(t *testing.T) {
	bp := &Breakpoint{SourceFile: "fib.vtr", SourceLine: 1}
	require.False(t, bp.IsVerified())
	bp.SetVerified(true)
	require.True(t, bp.IsVerified())
}
