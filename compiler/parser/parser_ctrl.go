package parser

import (
	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// parseCapeClause parses the shared `cape IDENT { ... }` error-binding clause
// used by si/tempta/fac/cura/ad.
func (p *Parser) parseCapeClause() *ast.CapeClause {
	if !p.match(lexer.CAPE) {
		return nil
	}
	binding := p.expect(lexer.IDENTIFIER, "error binding identifier").Lexeme
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	return &ast.CapeClause{Binding: binding, Body: body}
}

func (p *Parser) parseSi() ast.Stmt {
	start := p.advance()
	cond := p.parseExpression()
	stmt := &ast.SiStmt{Base: newBase(start.Position), Cond: cond}

	if p.match(lexer.ERGO) {
		stmt.ThenErgo = p.parseStatementSynced()
		return stmt
	}

	p.expect(lexer.LBRACE, "'{'")
	stmt.Then = p.parseBlockBody()
	stmt.Cape = p.parseCapeClause()

	if p.check(lexer.SIN) {
		// parseSi consumes the introducing keyword itself, so SIN is left for it.
		if next, ok := p.parseSi().(*ast.SiStmt); ok {
			stmt.ElseIf = next
		}
	} else if p.match(lexer.SECUS) {
		p.expect(lexer.LBRACE, "'{'")
		stmt.Else = p.parseBlockBody()
	}
	return stmt
}

func (p *Parser) parseDum() ast.Stmt {
	start := p.advance()
	cond := p.parseExpression()
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	return &ast.DumStmt{Base: newBase(start.Position), Cond: cond, Body: body}
}

func (p *Parser) parseElige() ast.Stmt {
	start := p.advance()
	subject := p.parseExpression()
	p.expect(lexer.LBRACE, "'{'")
	stmt := &ast.EligeStmt{Base: newBase(start.Position), Subject: subject}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		var c ast.EligeCase
		if p.match(lexer.SECUS) {
			// default case, Cond left nil
		} else {
			c.Cond = p.parseExpression()
		}
		p.expect(lexer.LBRACE, "'{'")
		c.Body = p.parseBlockBody()
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.RBRACE, "'}'")
	return stmt
}

func (p *Parser) parseDiscerne() ast.Stmt {
	start := p.advance()
	subject := p.parseExpression()
	p.expect(lexer.LBRACE, "'{'")
	stmt := &ast.DiscerneStmt{Base: newBase(start.Position), Subject: subject}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		var c ast.DiscerneCase
		c.VariantName = p.expect(lexer.IDENTIFIER, "variant name").Lexeme
		if p.match(lexer.LPAREN) {
			for !p.check(lexer.RPAREN) && !p.isAtEnd() {
				c.Bindings = append(c.Bindings, p.expect(lexer.IDENTIFIER, "binding").Lexeme)
				if !p.match(lexer.COMMA) {
					break
				}
			}
			p.expect(lexer.RPAREN, "')'")
		}
		p.expect(lexer.LBRACE, "'{'")
		c.Body = p.parseBlockBody()
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.RBRACE, "'}'")
	return stmt
}

func (p *Parser) parseCustodi() ast.Stmt {
	start := p.advance()
	p.expect(lexer.LBRACE, "'{'")
	stmt := &ast.CustodiStmt{Base: newBase(start.Position)}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		var c ast.CustodiCase
		if !p.match(lexer.SECUS) {
			c.Cond = p.parseExpression()
		}
		p.expect(lexer.LBRACE, "'{'")
		c.Body = p.parseBlockBody()
		stmt.Cases = append(stmt.Cases, c)
	}
	p.expect(lexer.RBRACE, "'}'")
	return stmt
}

func (p *Parser) parseAdfirma() ast.Stmt {
	start := p.advance()
	cond := p.parseExpression()
	stmt := &ast.AdfirmaStmt{Base: newBase(start.Position), Cond: cond}
	if p.match(lexer.COMMA) {
		stmt.Message = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parseRedde() ast.Stmt {
	start := p.advance()
	stmt := &ast.ReddeStmt{Base: newBase(start.Position)}
	if !p.isStatementEnd() {
		stmt.Value = p.parseExpression()
	}
	return stmt
}

// isStatementEnd reports whether the current token plausibly ends a bare
// statement (no trailing expression), used by redde to support a bare form.
func (p *Parser) isStatementEnd() bool {
	switch p.peek().Kind {
	case lexer.RBRACE, lexer.SEMICOLON, lexer.EOF:
		return true
	}
	return statementStarters[p.peek().Kind]
}

func (p *Parser) parseIace() ast.Stmt {
	start := p.advance()
	fatal := start.Kind == lexer.MORI
	value := p.parseExpression()
	return &ast.IaceStmt{Base: newBase(start.Position), Value: value, Fatal: fatal}
}

// parseLogStatement models scribe/vide/mone as an ExpressionStmt wrapping a
// call to a synthetic builtin identifier, avoiding a dedicated AST node for
// what is, at its core, just a call.
func (p *Parser) parseLogStatement() ast.Stmt {
	start := p.advance()
	builtin := map[lexer.TokenType]string{lexer.SCRIBE: "scribe", lexer.VIDE: "vide", lexer.MONE: "mone"}[start.Kind]
	var args []ast.Expr
	if !p.isStatementEnd() {
		args = append(args, p.parseExpression())
		for p.match(lexer.COMMA) {
			args = append(args, p.parseExpression())
		}
	}
	call := &ast.CallExpr{
		Base:   newBase(start.Position),
		Callee: &ast.Identifier{Base: newBase(start.Position), Name: builtin},
		Args:   args,
	}
	return &ast.ExpressionStmt{Base: newBase(start.Position), Expression: call}
}

func (p *Parser) parseTempta() ast.Stmt {
	start := p.advance()
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	stmt := &ast.TemptaStmt{Base: newBase(start.Position), Body: body}
	stmt.Cape = p.parseCapeClause()
	if p.match(lexer.DEMUM) {
		p.expect(lexer.LBRACE, "'{'")
		stmt.Finally = p.parseBlockBody()
	}
	if stmt.Cape == nil && stmt.Finally == nil {
		p.report(errors.ErrUnexpectedToken, "tempta requires a 'cape' and/or 'demum' clause", start)
	}
	return stmt
}

func (p *Parser) parseFac() ast.Stmt {
	start := p.advance()
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	stmt := &ast.FacBlockStmt{Base: newBase(start.Position), Body: body}
	stmt.Cape = p.parseCapeClause()
	if p.match(lexer.DUM) {
		stmt.WhileCond = p.parseExpression()
	}
	return stmt
}

func (p *Parser) parseProbandum() ast.Stmt {
	start := p.advance()
	var name string
	if p.check(lexer.STRING) {
		tok := p.advance()
		name, _ = tok.Literal.(string)
	} else {
		name = p.advance().Lexeme
	}
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	return &ast.ProbandumStmt{Base: newBase(start.Position), Name: name, Body: body}
}

func (p *Parser) parseProba() ast.Stmt {
	start := p.advance()
	var name string
	if p.check(lexer.STRING) {
		tok := p.advance()
		name, _ = tok.Literal.(string)
	} else {
		name = p.advance().Lexeme
	}
	stmt := &ast.ProbaStmt{Base: newBase(start.Position), Name: name}
	if p.match(lexer.OMITTE) {
		stmt.Omitted = true
	} else if p.match(lexer.FUTURUM) {
		tok := p.expect(lexer.STRING, "reason string")
		stmt.FutureNote, _ = tok.Literal.(string)
	}
	p.expect(lexer.LBRACE, "'{'")
	stmt.Body = p.parseBlockBody()
	return stmt
}

func (p *Parser) parsePraepara() ast.Stmt {
	start := p.advance()
	stmt := &ast.PraeparaStmt{Base: newBase(start.Position), Verb: start.Lexeme}
	if p.match(lexer.OMNIA) {
		stmt.Omnia = true
	}
	p.expect(lexer.LBRACE, "'{'")
	stmt.Body = p.parseBlockBody()
	return stmt
}

func (p *Parser) parseCura() ast.Stmt {
	start := p.advance()
	stmt := &ast.CuraStmt{Base: newBase(start.Position)}
	if p.check(lexer.ARENA) || p.check(lexer.PAGE) {
		stmt.Scope = p.advance().Lexeme
	}
	stmt.Resource = p.parseExpression()

	switch p.peek().Kind {
	case lexer.PRO, lexer.FIT, lexer.FIET:
		stmt.Verb = p.advance().Lexeme
		stmt.Binding = p.expect(lexer.IDENTIFIER, "binding identifier").Lexeme
	default:
		stmt.Binding = p.nextUID("resource")
	}

	p.expect(lexer.LBRACE, "'{'")
	stmt.Body = p.parseBlockBody()
	stmt.Cape = p.parseCapeClause()
	return stmt
}

func (p *Parser) parseAd() ast.Stmt {
	start := p.advance()
	stmt := &ast.AdStmt{Base: newBase(start.Position)}
	if p.check(lexer.STRING) {
		tok := p.advance()
		stmt.Target, _ = tok.Literal.(string)
	} else {
		stmt.Target = p.advance().Lexeme
	}

	for !p.check(lexer.LBRACE) && !p.isAtEnd() &&
		!(p.check(lexer.FIT) || p.check(lexer.FIET) || p.check(lexer.FIUNT) || p.check(lexer.FIENT) ||
			p.check(lexer.PRO) || p.check(lexer.UT)) {
		stmt.Args = append(stmt.Args, p.parseAssignment())
		if !p.match(lexer.COMMA) {
			break
		}
	}

	switch p.peek().Kind {
	case lexer.FIT, lexer.FIET, lexer.FIUNT, lexer.FIENT:
		stmt.Verb = p.advance().Lexeme
		stmt.Type = p.parseType()
	}
	if p.match(lexer.PRO) {
		stmt.Binding = p.expect(lexer.IDENTIFIER, "binding identifier").Lexeme
	}
	if p.match(lexer.UT) {
		stmt.Alias = p.expect(lexer.IDENTIFIER, "alias identifier").Lexeme
	}

	p.expect(lexer.LBRACE, "'{'")
	stmt.Body = p.parseBlockBody()
	stmt.Cape = p.parseCapeClause()
	return stmt
}

func (p *Parser) parseIncipit() ast.Stmt {
	start := p.advance()
	stmt := &ast.IncipitStmt{Base: newBase(start.Position), Async: start.Kind == lexer.INCIPIET}
	if p.match(lexer.ERGO) {
		stmt.ErgoStmt = p.parseStatementSynced()
		return stmt
	}
	p.expect(lexer.LBRACE, "'{'")
	stmt.Body = p.parseBlockBody()
	return stmt
}
