package tooling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertere-lang/vertere/compiler/ast"
)

func TestFromAST(t *testing.T) {
	got := FromAST(ast.Position{Line: 3, Column: 5})
	require.Equal(t, Position{Line: 2, Character: 5}, got)
}

func TestFromASTClampsAtOrigin(t *testing.T) {
	got := FromAST(ast.Position{Line: 0, Column: 0})
	require.Equal(t, Position{Line: 0, Character: 0}, got)
}

func TestFindNodeReturnsNilOnEmptyProgram(t *testing.T) {
	program := &ast.Program{}
	require.Nil(t, FindNode(program, 1, 1))
}
