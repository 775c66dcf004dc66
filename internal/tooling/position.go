// Package tooling is the IDE-integration facade consulted by
// internal/lsp: position lookups and symbol walks that
// only need the partial AST, not a type checker, so they stay usable even
// on source with parse errors.
package tooling

import "github.com/vertere-lang/vertere/compiler/ast"

// Position is a zero-based line/character pair, matching the LSP wire
// protocol's convention; the compiler's Position has a one-based line and a
// zero-based column.
type Position struct {
	Line      int
	Character int
}

// FromAST converts a compiler ast.Position (one-based line, zero-based
// column) to a zero-based tooling.Position.
func FromAST(p ast.Position) Position {
	return Position{Line: max0(p.Line - 1), Character: max0(p.Column)}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// FindNode returns the innermost statement whose own line matches the
// given one-based line, searching into block bodies so a cursor inside a
// function or branch resolves to that statement rather than the
// enclosing declaration. It is a best-effort, line-granular lookup — not
// a full span index — sufficient for hover and hasn't needed more.
func FindNode(program *ast.Program, line, col int) ast.Node {
	return findIn(program.Body, line)
}

func findIn(stmts []ast.Stmt, line int) ast.Node {
	var best ast.Node
	for _, stmt := range stmts {
		if stmt.GetLocation().Line == line {
			best = stmt
		}
		if nested := findIn(bodyOf(stmt), line); nested != nil {
			best = nested
		}
	}
	return best
}

// bodyOf returns a statement's nested block body, if it has one.
func bodyOf(stmt ast.Stmt) []ast.Stmt {
	switch s := stmt.(type) {
	case *ast.FunctioDecl:
		return s.Body
	case *ast.SiStmt:
		return s.Then
	case *ast.DumStmt:
		return s.Body
	case *ast.IteratioStmt:
		return s.Body
	case *ast.IncipitStmt:
		return s.Body
	case *ast.GenusDecl:
		var body []ast.Stmt
		for _, m := range s.Methods {
			body = append(body, m)
		}
		return body
	default:
		return nil
	}
}
