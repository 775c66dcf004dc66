// Package codegen implements the multi-target code-generation framework:
// a per-target generator object carrying indentation depth, generator-
// context, required-feature flags, and exhaustive genStatement/
// genExpression dispatch over the AST.
package codegen

import (
	"fmt"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
)

// TargetName names one of the three reference targets.
type TargetName string

const (
	Fidelis TargetName = "fidelis" // TS-shaped: structural types, async/await, template literals
	Simplex TargetName = "simplex" // Python-shaped: dynamic typing, f-strings, None
	Firmus  TargetName = "firmus"  // Rust-shaped: ownership, Option<T>, .await
)

// SourceMapping records one AST position's corresponding generated
// location. Only populated when Generate is called with WithSourceMap().
type SourceMapping struct {
	SourcePos       ast.Position
	GeneratedLine   int
	GeneratedColumn int
}

// Result is everything one Generate call produces.
type Result struct {
	Code      string
	Features  map[string]bool
	SourceMap []SourceMapping
}

// Option configures a generator before a run.
type Option func(*base)

// WithSourceMap turns on incremental source-map emission.
func WithSourceMap() Option {
	return func(b *base) { b.emitSourceMap = true }
}

// canonicalTypeNames is the closed set of primitive Latin type names codegen
// must map for every target (spec.md §4.3).
var canonicalTypeNames = []string{
	"textus", "numerus", "fractus", "decimus", "magnus", "bivalens", "nihil",
	"vacuum", "numquam", "octeti", "objectum", "lista", "tabula", "copia",
	"promissum", "erratum", "cursor", "ignotum",
}

// unsupportedNode is the internal panic used to signal "not implemented for
// target" — the framework error spec.md §4.4/§7 describes as the only
// source of truth for "not implemented for target". It is caught exactly
// once, at the Run boundary, and turned into a caller-visible error.
type unsupportedNode struct {
	err errors.CompilerError
}

// base carries the bookkeeping shared by all three target generators: the
// teacher's convention of one mutable state struct per emission, owned for
// the duration of a single Run and never shared across generators.
type base struct {
	target        TargetName
	buf           strings.Builder
	depth         int
	inGenerator   bool
	features      map[string]bool
	emitSourceMap bool
	sourceMap     []SourceMapping
	line          int
	col           int
	uidSeq        int
}

func newBase(target TargetName, opts ...Option) base {
	b := base{target: target, features: map[string]bool{}, line: 1}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) fail(code errors.Code, msg string, pos ast.Position) {
	panic(unsupportedNode{err: errors.New(errors.PhaseCodegen, code, msg, errors.FromPosition(pos, ""))})
}

func (b *base) requireFeature(name string) { b.features[name] = true }

// write appends raw text to the buffer, tracking line/column for the
// optional source-map hook.
func (b *base) write(s string) {
	for _, r := range s {
		if r == '\n' {
			b.line++
			b.col = 0
		} else {
			b.col++
		}
	}
	b.buf.WriteString(s)
}

func (b *base) writeLine(s string) {
	b.write(s)
	b.write("\n")
}

func (b *base) indentStr(unit string) string {
	return strings.Repeat(unit, b.depth)
}

// mark records a source mapping for the node currently being emitted, at the
// generated position the cursor is about to write to.
func (b *base) mark(pos ast.Position) {
	if !b.emitSourceMap {
		return
	}
	b.sourceMap = append(b.sourceMap, SourceMapping{SourcePos: pos, GeneratedLine: b.line, GeneratedColumn: b.col})
}

// commentsOf returns a node's leading or trailing comments, or nil if it
// carries none (e.g. a synthetic node built by codegen itself).
func commentsOf(n ast.Node, leading bool) []ast.Comment {
	cc, ok := n.(ast.CommentCarrier)
	if !ok {
		return nil
	}
	if leading {
		return cc.GetLeadingComments()
	}
	return cc.GetTrailingComments()
}

func (b *base) nextUID(prefix string) string {
	b.uidSeq++
	return fmt.Sprintf("%s%d", prefix, b.uidSeq)
}

// runGuard recovers an unsupportedNode panic raised by any adapter into a
// returned error, matching the "no retry, fatal framework error" contract.
func runGuard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if u, ok := r.(unsupportedNode); ok {
				err = u.err
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

// Generate dispatches to the requested target's generator.
func Generate(program *ast.Program, target TargetName, opts ...Option) (Result, error) {
	switch target {
	case Fidelis:
		return runFidelis(program, opts...)
	case Simplex:
		return runSimplex(program, opts...)
	case Firmus:
		return runFirmus(program, opts...)
	default:
		return Result{}, fmt.Errorf("codegen: unknown target %q", target)
	}
}
