package parser

import (
	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// parseType parses a type reference: primitive, array shorthand/generic,
// union, inline struct, or a capitalized resource name. Borrow prepositions
// (de/in) are consumed by the caller before invoking parseType where they're
// grammatically valid (parameter lists).
func (p *Parser) parseType() *ast.TypeNode {
	start := p.peek()

	borrow := ""
	if p.check(lexer.DE) || p.check(lexer.IN) {
		if p.check(lexer.DE) {
			borrow = "de"
		} else {
			borrow = "in"
		}
		p.advance()
	}

	var t *ast.TypeNode
	switch {
	case p.check(lexer.LBRACE):
		t = p.parseStructType(start)
	case p.check(lexer.IDENTIFIER):
		t = p.parseNamedType(start)
	default:
		p.report(errors.ErrExpectedType, "expected a type", p.peek())
		t = &ast.TypeNode{Position: start.Position}
	}
	t.Borrow = borrow

	// Array shorthand: T[]
	for p.check(lexer.LBRACKET) && p.peekN(1).Kind == lexer.RBRACKET {
		p.advance()
		p.advance()
		t = &ast.TypeNode{ElementType: t, ArrayShorthand: true, Position: start.Position}
	}

	if p.match(lexer.BANG) {
		t.Nullable = false
	} else if p.match(lexer.QUESTION) {
		t.Nullable = true
	}

	return t
}

func (p *Parser) parseNamedType(start lexer.Token) *ast.TypeNode {
	name := p.advance().Lexeme

	if p.lexicon.IsBuiltinType(name) {
		t := &ast.TypeNode{Primitive: name, Position: start.Position}
		if p.check(lexer.LT) {
			t.TypeArgs = p.parseTypeArgs()
		}
		return t
	}

	if name == "unio" {
		args := p.parseTypeArgs()
		return &ast.TypeNode{Generic: "unio", Union: args, Position: start.Position}
	}

	// Generic instantiation, e.g. lista<T>, tabula<K, V>, user generics.
	if p.check(lexer.LT) {
		args := p.parseTypeArgs()
		return &ast.TypeNode{Generic: name, TypeArgs: args, Position: start.Position}
	}

	if len(name) == 0 || name[0] < 'A' || name[0] > 'Z' {
		p.report(errors.ErrExpectedType, "resource type names must start with a capital letter: "+name, start)
	}
	return &ast.TypeNode{Resource: name, Position: start.Position}
}

func (p *Parser) parseTypeArgs() []*ast.TypeNode {
	p.expect(lexer.LT, "'<'")
	var args []*ast.TypeNode
	for {
		args = append(args, p.parseType())
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.GT, "'>'")
	return args
}

func (p *Parser) parseStructType(start lexer.Token) *ast.TypeNode {
	p.expect(lexer.LBRACE, "'{'")
	var fields []ast.GenusField
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		fields = append(fields, p.parseGenusField())
		p.match(lexer.COMMA)
	}
	p.expect(lexer.RBRACE, "'}'")
	if len(fields) == 0 {
		p.report(errors.ErrUnexpectedToken, "inline struct must have at least one field", start)
	}
	return &ast.TypeNode{Fields: fields, Position: start.Position}
}

func (p *Parser) parseGenusField() ast.GenusField {
	name := p.expect(lexer.IDENTIFIER, "field name").Lexeme
	p.expect(lexer.COLON, "':'")
	ft := p.parseType()
	// parseType consumes a trailing `!`/`?` itself, so the marker is the
	// token it consumed last.
	nullable := false
	switch p.previous().Kind {
	case lexer.QUESTION:
		nullable = true
	case lexer.BANG:
	default:
		s := errors.SuggestMissingNullability(name)
		tok := p.previous()
		p.errs = append(p.errs, errors.New(errors.PhaseParser, errors.ErrExpectedPunct,
			"missing nullability indicator (! or ?) for field '"+name+"'",
			errors.FromPosition(tok.Position, p.file)).WithSuggestion(s))
	}
	var anns []ast.Annotation
	for p.check(lexer.AT) {
		anns = append(anns, p.parseAnnotation())
	}
	return ast.GenusField{Name: name, Type: ft, Nullable: nullable, Annotations: anns}
}

// parseAnnotation parses `@ mod1 mod2 ...` on one logical line.
func (p *Parser) parseAnnotation() ast.Annotation {
	start := p.expect(lexer.AT, "'@'")
	var mods []string
	line := start.Position.Line
	for p.check(lexer.IDENTIFIER) && p.peek().Position.Line == line {
		mods = append(mods, p.advance().Lexeme)
	}
	return ast.Annotation{Modifiers: mods, Position: start.Position}
}
