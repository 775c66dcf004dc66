package parser

import (
	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// parseStatement dispatches on the current keyword. Returning nil (with no
// diagnostic of its own) signals "not a statement I recognize"; the caller
// (parseStatementSynced) reports the generic unexpected-token diagnostic in
// that case.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.peek().Kind {
	case lexer.AT:
		return p.parseAnnotatedDecl()
	case lexer.IMPORTA:
		return p.parseBareImporta()
	case lexer.EX:
		return p.parseExStarter()
	case lexer.DE:
		return p.parseDeIteration()
	case lexer.IN:
		return p.parseInStatement()
	case lexer.VARIA, lexer.FIXUM, lexer.FIGENDUM, lexer.VARIANDUM:
		return p.parseVaria(nil)
	case lexer.FUNCTIO:
		return p.parseFunctio(nil)
	case lexer.TYPUS:
		return p.parseTypeAlias(nil)
	case lexer.ORDO:
		return p.parseOrdo(nil)
	case lexer.GENUS:
		return p.parseGenus(nil)
	case lexer.PACTUM:
		return p.parsePactum(nil)
	case lexer.DISCRETIO:
		return p.parseDiscretio(nil)
	case lexer.SI:
		return p.parseSi()
	case lexer.DUM:
		return p.parseDum()
	case lexer.ELIGE:
		return p.parseElige()
	case lexer.DISCERNE:
		return p.parseDiscerne()
	case lexer.CUSTODI:
		return p.parseCustodi()
	case lexer.ADFIRMA:
		return p.parseAdfirma()
	case lexer.REDDE:
		return p.parseRedde()
	case lexer.RUMPE:
		tok := p.advance()
		return &ast.RumpeStmt{Base: newBase(tok.Position)}
	case lexer.PERGE:
		tok := p.advance()
		return &ast.PergeStmt{Base: newBase(tok.Position)}
	case lexer.IACE, lexer.MORI:
		return p.parseIace()
	case lexer.SCRIBE, lexer.VIDE, lexer.MONE:
		return p.parseLogStatement()
	case lexer.TEMPTA:
		return p.parseTempta()
	case lexer.FAC:
		return p.parseFac()
	case lexer.PROBANDUM:
		return p.parseProbandum()
	case lexer.PROBA:
		return p.parseProba()
	case lexer.PRAEPARA, lexer.PRAEPARABIT, lexer.POSTPARA, lexer.POSTPARABIT:
		return p.parsePraepara()
	case lexer.CURA:
		return p.parseCura()
	case lexer.AD:
		return p.parseAd()
	case lexer.INCIPIT, lexer.INCIPIET:
		return p.parseIncipit()
	default:
		expr := p.parseExpression()
		return &ast.ExpressionStmt{Base: newBase(expr.GetLocation()), Expression: expr}
	}
}

func (p *Parser) parseAnnotatedDecl() ast.Stmt {
	var anns []ast.Annotation
	for p.check(lexer.AT) {
		anns = append(anns, p.parseAnnotation())
	}
	switch p.peek().Kind {
	case lexer.VARIA, lexer.FIXUM, lexer.FIGENDUM, lexer.VARIANDUM:
		return p.parseVaria(anns)
	case lexer.FUNCTIO:
		return p.parseFunctio(anns)
	case lexer.GENUS:
		return p.parseGenus(anns)
	case lexer.PACTUM:
		return p.parsePactum(anns)
	case lexer.TYPUS:
		return p.parseTypeAlias(anns)
	case lexer.ORDO:
		return p.parseOrdo(anns)
	case lexer.DISCRETIO:
		return p.parseDiscretio(anns)
	default:
		tok := p.peek()
		p.report(errors.ErrAnnotationMisplaced, "annotations may only precede a declaration", tok)
		return p.parseStatement()
	}
}

func (p *Parser) parseBlockBody() []ast.Stmt {
	var body []ast.Stmt
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStatementSynced()
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return body
}

// ---- ex / de / in dispatch ----

func (p *Parser) parseExStarter() ast.Stmt {
	start := p.advance() // consume `ex`

	// `ex SOURCE importa ...`
	if p.peekIsImportSource() && p.peekAheadIsImporta() {
		return p.finishImporta(start)
	}

	// `ex EXPR (fixum|varia|figendum|variandum) ...` destructure.
	srcCheckpoint := p.pos
	src := p.parseExpression()
	if bindKind, ok := p.peekBindKeyword(); ok {
		_ = bindKind
		return p.finishDestructure(start, src)
	}

	// Otherwise it's an iteration: `ex EXPR [dsl...] (pro|fit|fiet) IDENT { }`
	p.pos = srcCheckpoint
	return p.finishIteration(start, false)
}

func (p *Parser) peekIsImportSource() bool {
	return p.check(lexer.STRING) || p.check(lexer.IDENTIFIER)
}

func (p *Parser) peekAheadIsImporta() bool {
	return p.peekN(1).Kind == lexer.IMPORTA
}

func (p *Parser) peekBindKeyword() (string, bool) {
	switch p.peek().Kind {
	case lexer.FIXUM:
		return "fixum", true
	case lexer.VARIA:
		return "varia", true
	case lexer.FIGENDUM:
		return "figendum", true
	case lexer.VARIANDUM:
		return "variandum", true
	}
	return "", false
}

func (p *Parser) finishImporta(start lexer.Token) ast.Stmt {
	var source string
	if p.check(lexer.STRING) {
		tok := p.advance()
		source, _ = tok.Literal.(string)
	} else {
		source = p.advance().Lexeme
	}
	p.expectKeyword(lexer.IMPORTA, "importa")

	specs := p.parseImportSpecifiers()
	return &ast.ImportaDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position)}, Source: source, Specifiers: specs}
}

func (p *Parser) parseImportSpecifiers() []ast.ImportSpecifier {
	var specs []ast.ImportSpecifier
	for {
		if p.match(lexer.CETERI) {
			name := p.expect(lexer.IDENTIFIER, "identifier").Lexeme
			specs = append(specs, ast.ImportSpecifier{Rest: true, Imported: name})
		} else {
			name := p.advance().Lexeme // import names may be keywords
			local := name
			if p.match(lexer.UT) {
				local = p.advance().Lexeme
			}
			specs = append(specs, ast.ImportSpecifier{Imported: name, Local: local})
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return specs
}

func (p *Parser) finishDestructure(start lexer.Token, src ast.Expr) ast.Stmt {
	bindKind := p.advance().Lexeme
	specs := p.parseImportSpecifiers()
	return &ast.DestructureDecl{
		DeclBase: ast.DeclBase{Base: newBase(start.Position)}, BindKind: bindKind, Source: src, Specifiers: specs,
	}
}

func (p *Parser) finishIteration(start lexer.Token, keyForm bool) ast.Stmt {
	source := p.parseExpression()
	var dsl []ast.DSLTransform
	for p.check(lexer.PRIMA) || p.check(lexer.ULTIMA) || p.check(lexer.SUMMA) {
		dsl = append(dsl, p.parseDSLTransform())
		p.match(lexer.COMMA)
	}
	verb := ""
	switch p.peek().Kind {
	case lexer.PRO:
		verb = "pro"
		p.advance()
	case lexer.FIT:
		verb = "fit"
		p.advance()
	case lexer.FIET:
		verb = "fiet"
		p.advance()
	default:
		p.report(errors.ErrExpectedKeyword, "expected 'pro', 'fit', or 'fiet' to bind the iteration variable", p.peek())
	}
	binding := p.expect(lexer.IDENTIFIER, "binding identifier").Lexeme
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	stmt := &ast.IteratioStmt{Base: newBase(start.Position), Source: source, DSL: dsl, Verb: verb, Binding: binding, Body: body}
	if keyForm {
		stmt.KeyBind = binding
	}
	return stmt
}

func (p *Parser) parseDSLTransform() ast.DSLTransform {
	verbTok := p.advance()
	t := ast.DSLTransform{Verb: verbTok.Lexeme}
	if verbTok.Kind != lexer.SUMMA {
		t.N = p.parseAssignment()
	}
	return t
}

func (p *Parser) parseDeIteration() ast.Stmt {
	start := p.advance()
	return p.finishIteration(start, true)
}

func (p *Parser) parseInStatement() ast.Stmt {
	start := p.advance()
	target := p.parseExpression()
	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()
	return &ast.InStmt{Base: newBase(start.Position), Target: target, Body: body}
}

// ---- Collection DSL entry (`ab`) as a statement-level expression ----

func (p *Parser) parseCollectionDSL(start lexer.Token) ast.Expr {
	p.advance() // `ab`
	src := p.parseAdditive()
	negated := p.match(lexer.NON)
	var propName string
	var predicate ast.Expr
	if p.check(lexer.UBI) {
		p.advance()
		predicate = p.parseAssignment()
	} else if p.check(lexer.IDENTIFIER) {
		propName = p.advance().Lexeme
	}
	var transforms []ast.DSLTransform
	for p.match(lexer.COMMA) {
		transforms = append(transforms, p.parseDSLTransform())
	}
	return &ast.CollectionDSLExpr{
		Base: newBase(start.Position), Source: src, Negated: negated,
		PropName: propName, Predicate: predicate, Transforms: transforms,
	}
}

// ---- Declarations ----

func (p *Parser) parseVaria(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	bindKind := start.Lexeme

	// Array pattern: `varia [a, _, ceteri rest] = ...`
	if p.check(lexer.LBRACKET) {
		pat := p.parsePattern()
		p.expect(lexer.ASSIGN, "'='")
		init := p.parseExpression()
		return &ast.VariaDecl{
			DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns},
			BindKind: bindKind, Pattern: pat, Initializer: init,
		}
	}
	if p.check(lexer.LBRACE) {
		pat := p.parseObjectPattern()
		p.expect(lexer.ASSIGN, "'='")
		init := p.parseExpression()
		return &ast.VariaDecl{
			DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns},
			BindKind: bindKind, Pattern: pat, Initializer: init,
		}
	}

	name := p.expect(lexer.IDENTIFIER, "identifier").Lexeme

	// "fixum textus = x" — the immediately following `=` forbids treating
	// the preceding identifier as a type; `name` above IS the variable name.
	if p.check(lexer.ASSIGN) {
		p.advance()
		init := p.parseExpression()
		return &ast.VariaDecl{
			DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns},
			BindKind: bindKind, Name: name, Initializer: init,
		}
	}

	// Two consecutive identifiers before '=' => user type + name.
	var declType *ast.TypeNode
	varName := name
	if p.check(lexer.IDENTIFIER) || p.isTypeStartToken() {
		p.pos-- // re-examine `name` as a type start
		// rewind the drained-comment cursor too isn't necessary since no
		// comments precede an identifier token in this position normally.
		declType = p.parseType()
		varName = p.expect(lexer.IDENTIFIER, "identifier").Lexeme
	} else {
		varName = name
	}

	nullable := false
	if p.match(lexer.BANG) {
		nullable = false
	} else if p.match(lexer.QUESTION) {
		nullable = true
	}

	var init ast.Expr
	if p.match(lexer.ASSIGN) {
		init = p.parseExpression()
	}
	if declType != nil && declType.ArrayShorthand && init == nil {
		p.report(errors.ErrUnexpectedToken, "array-pattern declarations require an initializer", start)
	}
	return &ast.VariaDecl{
		DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns},
		BindKind: bindKind, Name: varName, Type: declType, Nullable: nullable, Initializer: init,
	}
}

func (p *Parser) isTypeStartToken() bool {
	return p.check(lexer.IDENTIFIER) || p.check(lexer.LBRACE)
}

func (p *Parser) parsePattern() *ast.Pattern {
	p.expect(lexer.LBRACKET, "'['")
	pat := &ast.Pattern{IsArray: true}
	for !p.check(lexer.RBRACKET) && !p.isAtEnd() {
		if p.match(lexer.CETERI) {
			name := p.expect(lexer.IDENTIFIER, "identifier").Lexeme
			pat.Elements = append(pat.Elements, ast.PatternElement{Rest: true, Name: name})
		} else if p.check(lexer.IDENTIFIER) && p.peek().Lexeme == "_" {
			p.advance()
			pat.Elements = append(pat.Elements, ast.PatternElement{Skip: true})
		} else if p.peek().Kind == lexer.DOT_DOT {
			tok := p.advance()
			p.report(errors.ErrJSRestSyntax, "JS-style '...rest' is not accepted; use 'ceteri NAME'", tok)
		} else if p.peek().Kind == lexer.STAR {
			tok := p.advance()
			p.report(errors.ErrPythonRestSyntax, "Python-style '*rest' is not accepted; use 'ceteri NAME'", tok)
		} else {
			name := p.expect(lexer.IDENTIFIER, "identifier").Lexeme
			pat.Elements = append(pat.Elements, ast.PatternElement{Name: name})
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET, "']'")
	return pat
}

func (p *Parser) parseObjectPattern() *ast.Pattern {
	p.expect(lexer.LBRACE, "'{'")
	pat := &ast.Pattern{}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		if p.match(lexer.CETERI) {
			name := p.expect(lexer.IDENTIFIER, "identifier").Lexeme
			pat.Elements = append(pat.Elements, ast.PatternElement{Rest: true, Name: name})
		} else {
			name := p.advance().Lexeme
			alias := name
			if p.match(lexer.COLON) {
				alias = p.advance().Lexeme
			}
			pat.Elements = append(pat.Elements, ast.PatternElement{Name: name, Alias: alias})
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return pat
}

func (p *Parser) parseFunctio(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "function name").Lexeme
	isCtor := name == "creo"

	typeParams, params := p.parseParamLists()

	returnVerb := ""
	var returnType *ast.TypeNode
	async, generator := false, false
	switch p.peek().Kind {
	case lexer.THIN_ARROW:
		p.advance()
		returnType = p.parseType()
	case lexer.FIT, lexer.FIET, lexer.FIUNT, lexer.FIENT:
		tok := p.advance()
		returnVerb = tok.Lexeme
		async = returnVerb == "fiet" || returnVerb == "fient"
		generator = returnVerb == "fiunt" || returnVerb == "fient"
		returnType = p.parseType()
	}

	if p.match(lexer.FUTURA) {
		if returnVerb != "" {
			p.report(errors.ErrVerbModifierConflict, "'futura' cannot combine with the non-arrow return verb '"+returnVerb+"'", p.previous())
		} else {
			async = true
		}
	}
	if p.match(lexer.CURSOR_MOD) {
		if returnVerb != "" {
			p.report(errors.ErrVerbModifierConflict, "'cursor' cannot combine with the non-arrow return verb '"+returnVerb+"'", p.previous())
		} else {
			generator = true
		}
	}

	p.expect(lexer.LBRACE, "'{'")
	body := p.parseBlockBody()

	return &ast.FunctioDecl{
		DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns},
		Name: name, IsConstructor: isCtor, TypeParams: typeParams, Params: params,
		ReturnVerb: returnVerb, ReturnType: returnType, Async: async, Generator: generator, Body: body,
	}
}

func (p *Parser) parseParamLists() ([]ast.Param, []ast.Param) {
	p.expect(lexer.LPAREN, "'('")
	var typeParams, params []ast.Param
	inTypeParams := true
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		if inTypeParams && p.check(lexer.PRAE) {
			p.advance()
			p.expectKeyword(lexer.TYPUS, "typus")
			name := p.expect(lexer.IDENTIFIER, "type parameter name").Lexeme
			typeParams = append(typeParams, ast.Param{InternalName: name, IsTypeParam: true})
		} else {
			inTypeParams = false
			params = append(params, p.parseParam())
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "')'")
	return typeParams, params
}

func (p *Parser) parseParam() ast.Param {
	prep := ""
	switch p.peek().Kind {
	case lexer.DE:
		prep = "de"
		p.advance()
	case lexer.IN:
		prep = "in"
		p.advance()
	case lexer.EX:
		prep = "ex"
		p.advance()
	}
	t := p.parseType()
	external := p.expect(lexer.IDENTIFIER, "parameter name").Lexeme
	internal := external
	if p.match(lexer.UT) {
		internal = p.expect(lexer.IDENTIFIER, "alias").Lexeme
	}
	var def ast.Expr
	if p.match(lexer.VEL) {
		def = p.parseAssignment()
	}
	return ast.Param{Preposition: prep, Type: t, ExternalName: external, InternalName: internal, Default: def}
}

func (p *Parser) parseTypeAlias(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "type name").Lexeme
	p.expect(lexer.ASSIGN, "'='")
	t := p.parseType()
	return &ast.TypeAliasDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns}, Name: name, Type: t}
}

func (p *Parser) parseOrdo(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "enum name").Lexeme
	p.expect(lexer.LBRACE, "'{'")
	var values []string
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		if p.check(lexer.MINUS) {
			tok := p.advance()
			p.report(errors.ErrNegativeEnumValue, "enum values may not carry a leading minus sign", tok)
		}
		values = append(values, p.advance().Lexeme)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return &ast.OrdoDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns}, Name: name, Values: values}
}

func (p *Parser) parseGenus(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "genus name").Lexeme
	decl := &ast.GenusDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns}, Name: name}

	if p.match(lexer.SUB) {
		decl.Super = p.expect(lexer.IDENTIFIER, "parent genus name").Lexeme
	}
	if p.match(lexer.IMPLET) {
		for {
			decl.Implements = append(decl.Implements, p.expect(lexer.IDENTIFIER, "pactum name").Lexeme)
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.LBRACE, "'{'")
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		if p.check(lexer.FUNCTIO) {
			if m, ok := p.parseFunctio(nil).(*ast.FunctioDecl); ok {
				decl.Methods = append(decl.Methods, m)
			}
		} else if p.check(lexer.IDENTIFIER) {
			decl.Fields = append(decl.Fields, p.parseGenusField())
		} else if p.check(lexer.AT) {
			var fieldAnns []ast.Annotation
			for p.check(lexer.AT) {
				fieldAnns = append(fieldAnns, p.parseAnnotation())
			}
			if p.check(lexer.FUNCTIO) {
				if m, ok := p.parseFunctio(fieldAnns).(*ast.FunctioDecl); ok {
					decl.Methods = append(decl.Methods, m)
				}
			} else {
				f := p.parseGenusField()
				f.Annotations = append(f.Annotations, fieldAnns...)
				decl.Fields = append(decl.Fields, f)
			}
		} else {
			tok := p.peek()
			p.report(errors.ErrUnexpectedToken, "expected a field or method in genus body", tok)
			p.synchronizeGenusMember()
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return decl
}

func (p *Parser) parsePactum(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "pactum name").Lexeme
	decl := &ast.PactumDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns}, Name: name}
	p.expect(lexer.LBRACE, "'{'")
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		p.expectKeyword(lexer.FUNCTIO, "functio")
		mname := p.expect(lexer.IDENTIFIER, "method name").Lexeme
		_, params := p.parseParamLists()
		verb := ""
		var rt *ast.TypeNode
		switch p.peek().Kind {
		case lexer.THIN_ARROW:
			p.advance()
			rt = p.parseType()
		case lexer.FIT, lexer.FIET, lexer.FIUNT, lexer.FIENT:
			verb = p.advance().Lexeme
			rt = p.parseType()
		}
		decl.Methods = append(decl.Methods, ast.PactumMethod{Name: mname, Params: params, ReturnVerb: verb, ReturnType: rt})
	}
	p.expect(lexer.RBRACE, "'}'")
	return decl
}

func (p *Parser) parseDiscretio(anns []ast.Annotation) ast.Stmt {
	start := p.advance()
	name := p.expect(lexer.IDENTIFIER, "discretio name").Lexeme
	decl := &ast.DiscretioDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position), Annotations: anns}, Name: name}
	p.expect(lexer.LBRACE, "'{'")
	seen := map[string]bool{}
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		vname := p.expect(lexer.IDENTIFIER, "variant name").Lexeme
		if seen[vname] {
			p.report(errors.ErrUnexpectedToken, "duplicate discretio variant name '"+vname+"'", p.previous())
		}
		seen[vname] = true
		var fields []ast.GenusField
		if p.match(lexer.LBRACE) {
			for !p.check(lexer.RBRACE) && !p.isAtEnd() {
				fields = append(fields, p.parseGenusField())
			}
			p.expect(lexer.RBRACE, "'}'")
		}
		decl.Variants = append(decl.Variants, ast.DiscretioVariant{Name: vname, Fields: fields})
		p.match(lexer.COMMA)
	}
	p.expect(lexer.RBRACE, "'}'")
	return decl
}

func (p *Parser) parseBareImporta() ast.Stmt {
	start := p.advance()
	specs := p.parseImportSpecifiers()
	return &ast.ImportaDecl{DeclBase: ast.DeclBase{Base: newBase(start.Position)}, Specifiers: specs}
}
