// Package parser implements a recursive-descent parser with one-token
// lookahead, precedence-climbing expressions, and statement-boundary error
// recovery over the Vertere token stream.
package parser

import (
	"fmt"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// Parser turns a token stream into a Program plus ordered diagnostics. No
// exception escapes Parse: a lightweight internal panic is used only to
// unwind expression parsing to the nearest statement boundary, and is always
// recovered by parseStatementSynced.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	pending []ast.Comment // drained comments awaiting attachment
	errs    []errors.CompilerError
	lexicon lexer.LexiconQuery
	file    string
	uidSeq  int
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithLexicon overrides the default builtin-type lexicon used to classify
// identifiers during type parsing.
func WithLexicon(l lexer.LexiconQuery) Option {
	return func(p *Parser) { p.lexicon = l }
}

// WithFile attaches a file name to reported diagnostics.
func WithFile(file string) Option {
	return func(p *Parser) { p.file = file }
}

// New constructs a Parser over a finished token stream (see lexer.Tokenize).
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, lexicon: lexer.DefaultLexicon()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse runs New(tokens).ParseProgram() as a convenience for callers that
// don't need extra Parser options.
func Parse(tokens []lexer.Token, opts ...Option) (*ast.Program, []errors.CompilerError) {
	p := New(tokens, opts...)
	return p.ParseProgram(), p.errs
}

// ParseProgram parses the entire token stream. It never panics outward: a
// catastrophic internal error still yields a non-nil Program with whatever
// statements were parsed before the failure.
func (p *Parser) ParseProgram() (prog *ast.Program) {
	prog = &ast.Program{}
	defer func() {
		if r := recover(); r != nil {
			p.report(errors.ErrUnexpectedToken, fmt.Sprintf("internal parser error: %v", r), p.peek())
		}
	}()
	for !p.isAtEnd() {
		stmt := p.parseStatementSynced()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	p.attachTrailingForEOF()
	return prog
}

// ---- token stream primitives ----

// unwind is the internal control-flow signal used to abort expression
// parsing back to the nearest statement boundary. It never escapes Parser.
type unwind struct{}

func (p *Parser) currentRaw() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// drainComments advances past any COMMENT tokens at the current position,
// buffering them as pending, and returns the first non-comment token without
// consuming it.
func (p *Parser) drainComments() lexer.Token {
	for p.currentRaw().Kind == lexer.COMMENT {
		tok := p.tokens[p.pos]
		p.pending = append(p.pending, ast.Comment{
			Kind: tok.CommentKind, Value: tok.Lexeme, Position: tok.Position,
		})
		p.pos++
	}
	return p.currentRaw()
}

// peek returns the k-th non-comment token ahead (0 = current), draining
// comments transparently but without consuming the target token.
func (p *Parser) peek() lexer.Token {
	return p.peekN(0)
}

func (p *Parser) peekN(k int) lexer.Token {
	save := p.pos
	tok := p.drainComments()
	scan := p.pos
	for i := 0; i < k; i++ {
		scan++
		for scan < len(p.tokens) && p.tokens[scan].Kind == lexer.COMMENT {
			scan++
		}
		if scan >= len(p.tokens) {
			tok = lexer.Token{Kind: lexer.EOF}
		} else {
			tok = p.tokens[scan]
		}
	}
	p.pos = save
	if k == 0 {
		return p.drainComments()
	}
	return tok
}

// advance drains comments then consumes and returns the next non-comment
// token.
func (p *Parser) advance() lexer.Token {
	p.drainComments()
	tok := p.currentRaw()
	if tok.Kind != lexer.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenType) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kind lexer.TokenType) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == lexer.EOF
}

func (p *Parser) previous() lexer.Token {
	i := p.pos - 1
	for i >= 0 && p.tokens[i].Kind == lexer.COMMENT {
		i--
	}
	if i < 0 {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[i]
}

// expect consumes the token if it matches kind; otherwise reports and
// advances anyway, returning a synthetic token so callers never spin.
func (p *Parser) expect(kind lexer.TokenType, what string) lexer.Token {
	if p.check(kind) {
		return p.advance()
	}
	tok := p.peek()
	p.report(errors.ErrExpectedPunct, fmt.Sprintf("expected %s, got '%s'", what, tok.Lexeme), tok)
	if tok.Kind == lexer.EOF {
		return tok
	}
	return p.advance()
}

func (p *Parser) expectKeyword(kind lexer.TokenType, lexeme string) lexer.Token {
	if p.check(kind) {
		return p.advance()
	}
	tok := p.peek()
	p.report(errors.ErrExpectedKeyword, fmt.Sprintf("expected '%s', got '%s'", lexeme, tok.Lexeme), tok)
	if tok.Kind == lexer.EOF {
		return tok
	}
	return p.advance()
}

func (p *Parser) report(code errors.Code, msg string, tok lexer.Token) {
	loc := errors.FromPosition(tok.Position, p.file)
	p.errs = append(p.errs, errors.New(errors.PhaseParser, code, msg, loc))
}

func (p *Parser) nextUID(kind string) string {
	p.uidSeq++
	return fmt.Sprintf("_%s_%d", kind, p.uidSeq)
}

// ---- comment attachment ----

func (p *Parser) takeLeadingComments() []ast.Comment {
	if len(p.pending) == 0 {
		return nil
	}
	out := p.pending
	p.pending = nil
	return out
}

// attachTrailing looks for a COMMENT token immediately following, on the
// same source line as the just-parsed statement's last token, and if found
// consumes it as trailing.
func (p *Parser) attachTrailing(lastLine int) []ast.Comment {
	if p.pos < len(p.tokens) && p.tokens[p.pos].Kind == lexer.COMMENT {
		tok := p.tokens[p.pos]
		if tok.Position.Line == lastLine {
			p.pos++
			return []ast.Comment{{Kind: tok.CommentKind, Value: tok.Lexeme, Position: tok.Position}}
		}
	}
	return nil
}

// attachTrailingForEOF drains any remaining comments before EOF so they are
// not silently lost from the pending buffer (they simply precede EOF and
// attach to nothing, per the comment-attachment contract).
func (p *Parser) attachTrailingForEOF() {
	p.drainComments()
}

// ---- synchronization ----

var statementStarters = map[lexer.TokenType]bool{
	lexer.VARIA: true, lexer.FIXUM: true, lexer.FIGENDUM: true, lexer.VARIANDUM: true,
	lexer.FUNCTIO: true, lexer.TYPUS: true, lexer.ORDO: true, lexer.GENUS: true,
	lexer.PACTUM: true, lexer.DISCRETIO: true, lexer.EX: true, lexer.DE: true, lexer.IN: true,
	lexer.SI: true, lexer.DUM: true, lexer.ELIGE: true, lexer.DISCERNE: true,
	lexer.CUSTODI: true, lexer.ADFIRMA: true, lexer.REDDE: true, lexer.RUMPE: true,
	lexer.PERGE: true, lexer.IACE: true, lexer.MORI: true, lexer.SCRIBE: true,
	lexer.VIDE: true, lexer.MONE: true, lexer.TEMPTA: true, lexer.FAC: true,
	lexer.PROBANDUM: true, lexer.PROBA: true, lexer.PRAEPARA: true, lexer.PRAEPARABIT: true,
	lexer.POSTPARA: true, lexer.POSTPARABIT: true, lexer.CURA: true, lexer.AD: true,
	lexer.INCIPIT: true, lexer.INCIPIET: true, lexer.IMPORTA: true, lexer.AT: true,
}

// synchronize advances until a statement-starter keyword or EOF, used to
// recover after a statement-level parse failure.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if statementStarters[p.peek().Kind] {
			return
		}
		p.advance()
	}
}

// synchronizeGenusMember stops at RBRACE or a candidate member-starter
// keyword, used when a genus/struct body member fails to parse.
func (p *Parser) synchronizeGenusMember() {
	for !p.isAtEnd() {
		k := p.peek().Kind
		if k == lexer.RBRACE || k == lexer.FUNCTIO || k == lexer.AT || k == lexer.IDENTIFIER {
			return
		}
		p.advance()
	}
}

// parseStatementSynced wraps parseStatement with the panic recovery boundary
// and synchronization, so one malformed statement never aborts the parse.
func (p *Parser) parseStatementSynced() (result ast.Stmt) {
	startPos := p.pos
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(unwind); ok {
				p.synchronize()
				result = nil
				return
			}
			panic(r)
		}
	}()

	p.drainComments()
	leading := p.takeLeadingComments()

	stmt := p.parseStatement()
	if stmt == nil && p.pos == startPos {
		// Guarantee forward progress even on totally unrecognized input.
		tok := p.peek()
		p.report(errors.ErrUnexpectedToken, fmt.Sprintf("unexpected token '%s'", tok.Lexeme), tok)
		p.advance()
		p.synchronize()
		return nil
	}
	if stmt != nil {
		if cc, ok := stmt.(ast.CommentCarrier); ok {
			if len(leading) > 0 {
				cc.SetLeadingComments(leading)
			}
			if trailing := p.attachTrailing(p.previous().Position.Line); len(trailing) > 0 {
				cc.SetTrailingComments(trailing)
			}
		}
	}
	return stmt
}
