package parser

import (
	"strconv"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// parseExpression is the entry point of the 16-level precedence ladder
// described by the language reference, low to high: assignment, ternary,
// logical-or/nullish, logical-and, equality, comparison, bitwise-or, xor,
// and, shift, range, additive, multiplicative, unary, cast, postfix.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

var assignOps = map[lexer.TokenType]string{
	lexer.ASSIGN: "=", lexer.PLUS_ASSIGN: "+=", lexer.MINUS_ASSIGN: "-=",
	lexer.STAR_ASSIGN: "*=", lexer.SLASH_ASSIGN: "/=", lexer.PERCENT_ASSIGN: "%=",
	lexer.AMP_ASSIGN: "&=", lexer.PIPE_ASSIGN: "|=",
}

func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseTernary()
	if op, ok := assignOps[p.peek().Kind]; ok {
		tok := p.advance()
		right := p.parseAssignment() // right-assoc
		if !isLValue(left) {
			p.report(errors.ErrInvalidAssignTarget, "invalid assignment target", tok)
		}
		return &ast.AssignmentExpr{Base: newBase(tok.Position), Op: op, Target: left, Value: right}
	}
	return left
}

func isLValue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOrNullish()
	if p.match(lexer.QUESTION) {
		then := p.parseAssignment()
		p.expect(lexer.COLON, "':'")
		els := p.parseAssignment()
		return &ast.ConditionalExpr{Base: newBase(cond.GetLocation()), Cond: cond, Then: then, Else: els}
	}
	return cond
}

// parseLogicalOrNullish handles `||`/`aut` and `vel` at the same binding
// power; mixing the two families without parenthesization is a reported
// semantic conflict, not a syntax error.
func (p *Parser) parseLogicalOrNullish() ast.Expr {
	left := p.parseLogicalAnd()
	sawOr, sawNullish := false, false
	for {
		switch p.peek().Kind {
		case lexer.OR_OR, lexer.AUT:
			tok := p.advance()
			sawOr = true
			if sawNullish {
				p.report(errors.ErrMixedLogicalNullish, "mixing '||'/'aut' with 'vel' requires parentheses", tok)
			}
			right := p.parseLogicalAnd()
			left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "||", Left: left, Right: right}
		case lexer.VEL:
			tok := p.advance()
			sawNullish = true
			if sawOr {
				p.report(errors.ErrMixedLogicalNullish, "mixing '||'/'aut' with 'vel' requires parentheses", tok)
			}
			right := p.parseLogicalAnd()
			left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "??", Left: left, Right: right}
		default:
			return left
		}
	}
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(lexer.AND_AND) || p.check(lexer.ET) {
		tok := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "&&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseComparison()
	for {
		switch p.peek().Kind {
		case lexer.EQ, lexer.NEQ, lexer.STRICT_EQ, lexer.STRICT_NEQ:
			tok := p.advance()
			right := p.parseComparison()
			left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: tok.Lexeme, Left: left, Right: right}
		case lexer.EST:
			tok := p.advance()
			t := p.parseType()
			left = &ast.EstExpr{Base: newBase(tok.Position), Operand: left, Type: t}
		default:
			return left
		}
	}
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseBitwiseOr()
	for {
		switch p.peek().Kind {
		case lexer.LT, lexer.LTE, lexer.GT, lexer.GTE:
			tok := p.advance()
			right := p.parseBitwiseOr()
			left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: tok.Lexeme, Left: left, Right: right}
		default:
			return left
		}
	}
}

func (p *Parser) parseBitwiseOr() ast.Expr {
	left := p.parseBitwiseXor()
	for p.check(lexer.PIPE) {
		tok := p.advance()
		right := p.parseBitwiseXor()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "|", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitwiseXor() ast.Expr {
	left := p.parseBitwiseAnd()
	for p.check(lexer.CARET) {
		tok := p.advance()
		right := p.parseBitwiseAnd()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "^", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseBitwiseAnd() ast.Expr {
	left := p.parseShift()
	for p.check(lexer.AMP) {
		tok := p.advance()
		right := p.parseShift()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: "&", Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseRange()
	for p.check(lexer.SHL) || p.check(lexer.SHR) {
		tok := p.advance()
		right := p.parseRange()
		op := "<<"
		if tok.Kind == lexer.SHR {
			op = ">>"
		}
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRange() ast.Expr {
	left := p.parseAdditive()
	if p.check(lexer.DOT_DOT) || p.check(lexer.ANTE) || p.check(lexer.USQUE) {
		inclusive := p.check(lexer.USQUE)
		tok := p.advance()
		right := p.parseAdditive()
		var step ast.Expr
		if p.match(lexer.PER) {
			step = p.parseAdditive()
		}
		return &ast.RangeExpr{Base: newBase(tok.Position), Start: left, End: right, Inclusive: inclusive, Step: step}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		tok := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.PERCENT) {
		tok := p.advance()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Base: newBase(tok.Position), Op: tok.Lexeme, Left: left, Right: right}
	}
	return left
}

var unaryWordOps = map[lexer.TokenType]string{
	lexer.NON: "non", lexer.NULLA: "nulla", lexer.NONNULLA: "nonnulla",
	lexer.NONNIHIL: "nonnihil", lexer.NEGATIVUM: "negativum", lexer.POSITIVUM: "positivum",
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case lexer.BANG, lexer.MINUS, lexer.TILDE:
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: newBase(tok.Position), Op: tok.Lexeme, Operand: operand}
	case lexer.NON, lexer.NULLA, lexer.NONNULLA, lexer.NONNIHIL, lexer.NEGATIVUM, lexer.POSITIVUM:
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Base: newBase(tok.Position), Op: unaryWordOps[tok.Kind], Operand: operand}
	case lexer.NIHIL:
		// `nihil` is only a unary null-check when followed by an operand;
		// otherwise it is the nihil literal handled in parsePrimary.
		if startsOperand(p.peekN(1).Kind) {
			tok := p.advance()
			operand := p.parseUnary()
			return &ast.UnaryExpr{Base: newBase(tok.Position), Op: "nihil", Operand: operand}
		}
	case lexer.CEDE:
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.CedeExpr{Base: newBase(tok.Position), Operand: operand}
	case lexer.NOVUM:
		return p.parseNovum()
	case lexer.FINGE:
		return p.parseFinge()
	case lexer.PRAEFIXUM:
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.PraefixumExpr{Base: newBase(tok.Position), Operand: operand}
	case lexer.SCRIPTUM:
		return p.parseScriptum()
	case lexer.LEGE:
		tok := p.advance()
		return &ast.LegeExpr{Base: newBase(tok.Position)}
	}
	return p.parseCast()
}

func startsOperand(k lexer.TokenType) bool {
	switch k {
	case lexer.EOF, lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET, lexer.COMMA, lexer.SEMICOLON, lexer.COLON:
		return false
	default:
		return true
	}
}

// parseCast handles left-associative `qua TYPE`.
func (p *Parser) parseCast() ast.Expr {
	left := p.parsePostfix()
	for p.check(lexer.QUA) {
		tok := p.advance()
		t := p.parseType()
		left = &ast.QuaExpr{Base: newBase(tok.Position), Operand: left, Type: t}
	}
	return left
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case lexer.DOT, lexer.QUESTION_DOT, lexer.BANG_DOT:
			tok := p.advance()
			name := p.parsePropertyName()
			expr = &ast.MemberExpr{
				Base: newBase(tok.Position), Object: expr, Property: name,
				Optional: tok.Kind == lexer.QUESTION_DOT, NonNull: tok.Kind == lexer.BANG_DOT,
			}
		case lexer.LBRACKET, lexer.QUESTION_BRACKET, lexer.BANG_BRACKET:
			tok := p.advance()
			idx := p.parseExpression()
			p.expect(lexer.RBRACKET, "']'")
			expr = &ast.MemberExpr{
				Base: newBase(tok.Position), Object: expr, Computed: true, Index: idx,
				Optional: tok.Kind == lexer.QUESTION_BRACKET, NonNull: tok.Kind == lexer.BANG_BRACKET,
			}
		case lexer.LPAREN, lexer.QUESTION_PAREN, lexer.BANG_PAREN:
			tok := p.advance()
			args := p.parseArgList()
			expr = &ast.CallExpr{
				Base: newBase(tok.Position), Callee: expr, Args: args,
				Optional: tok.Kind == lexer.QUESTION_PAREN, NonNull: tok.Kind == lexer.BANG_PAREN,
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePropertyName() string {
	tok := p.advance()
	return tok.Lexeme
}

func (p *Parser) parseArgList() []ast.Expr {
	var args []ast.Expr
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		if p.match(lexer.SPARGE) {
			inner := p.parseAssignment()
			args = append(args, &ast.SpreadExpr{Base: newBase(inner.GetLocation()), Operand: inner})
		} else {
			args = append(args, p.parseAssignment())
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RPAREN, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case lexer.NUMBER:
		p.advance()
		return parseNumberLiteral(tok)
	case lexer.BIGINT:
		p.advance()
		return &ast.Literal{Base: newBase(tok.Position), LitKind: ast.LitBigInt, Raw: tok.Lexeme, Value: tok.Literal}
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Base: newBase(tok.Position), LitKind: ast.LitString, Raw: tok.Lexeme, Value: tok.Literal}
	case lexer.TEMPLATE_STRING:
		p.advance()
		return p.parseTemplateLiteral(tok)
	case lexer.VERUM:
		p.advance()
		return &ast.Literal{Base: newBase(tok.Position), LitKind: ast.LitBool, Raw: tok.Lexeme, Value: true}
	case lexer.FALSUM:
		p.advance()
		return &ast.Literal{Base: newBase(tok.Position), LitKind: ast.LitBool, Raw: tok.Lexeme, Value: false}
	case lexer.NIHIL:
		p.advance()
		return &ast.Literal{Base: newBase(tok.Position), LitKind: ast.LitNihil, Raw: tok.Lexeme}
	case lexer.EGO:
		p.advance()
		return &ast.EgoExpr{Base: newBase(tok.Position)}
	case lexer.IDENTIFIER:
		p.advance()
		return &ast.Identifier{Base: newBase(tok.Position), Name: tok.Lexeme}
	case lexer.LPAREN:
		p.advance()
		if lam, ok := p.tryParseLambdaFromParen(tok); ok {
			return lam
		}
		inner := p.parseExpression()
		p.expect(lexer.RPAREN, "')'")
		return inner
	case lexer.LBRACKET:
		return p.parseArrayLiteral(tok)
	case lexer.LBRACE:
		return p.parseObjectLiteral(tok)
	case lexer.SED:
		return p.parseRegex(tok)
	case lexer.AB:
		return p.parseCollectionDSL(tok)
	case lexer.EX:
		if isLambdaParamStart(p.peekN(1).Kind) || p.peekN(1).Kind == lexer.AB {
			// ex also introduces a pipeline-producing expression when not a
			// statement-level import/iteration/destructure (those are
			// consumed at statement dispatch before expression parsing).
			return p.parseExPipeline(tok)
		}
	case lexer.PRO, lexer.FIET:
		return p.parseLambda(tok)
	}

	p.report(errors.ErrUnexpectedToken, "unexpected token '"+tok.Lexeme+"' while parsing expression", tok)
	p.advance()
	panic(unwind{})
}

func isLambdaParamStart(k lexer.TokenType) bool {
	return k == lexer.IDENTIFIER
}

// parseExPipeline parses the expression-position form of `ex`: a collection
// DSL chain (`ex SOURCE prima N, ultima N, summa`) producing a value, as
// opposed to the statement-level import/destructure/iteration forms of `ex`
// that are dispatched before expression parsing ever sees the token.
func (p *Parser) parseExPipeline(start lexer.Token) ast.Expr {
	p.advance() // `ex`
	src := p.parseAdditive()
	var transforms []ast.DSLTransform
	for p.check(lexer.PRIMA) || p.check(lexer.ULTIMA) || p.check(lexer.SUMMA) {
		transforms = append(transforms, p.parseDSLTransform())
		p.match(lexer.COMMA)
	}
	return &ast.CollectionDSLExpr{Base: newBase(start.Position), Source: src, Transforms: transforms}
}

func newBase(pos ast.Position) ast.Base {
	return ast.Base{Pos: pos}
}

func parseNumberLiteral(tok lexer.Token) *ast.Literal {
	raw := tok.Lexeme
	kind := ast.LitInt
	if strings.ContainsAny(raw, ".eE") && !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		kind = ast.LitFloat
	}
	var val interface{}
	if kind == ast.LitFloat {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			val = f
		}
	} else {
		base := 10
		s := raw
		if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
			base = 16
			s = raw[2:]
		}
		if n, err := strconv.ParseInt(s, base, 64); err == nil {
			val = n
		}
	}
	return &ast.Literal{Base: newBase(tok.Position), LitKind: kind, Raw: raw, Value: val}
}

func (p *Parser) parseTemplateLiteral(tok lexer.Token) *ast.TemplateExpr {
	raw, _ := tok.Literal.(string)
	var parts []ast.TemplatePart
	i := 0
	for i < len(raw) {
		j := strings.Index(raw[i:], "${")
		if j < 0 {
			parts = append(parts, ast.TemplatePart{Text: raw[i:]})
			break
		}
		if j > 0 {
			parts = append(parts, ast.TemplatePart{Text: raw[i : i+j]})
		}
		start := i + j + 2
		depth := 1
		k := start
		for k < len(raw) && depth > 0 {
			if raw[k] == '{' {
				depth++
			} else if raw[k] == '}' {
				depth--
				if depth == 0 {
					break
				}
			}
			k++
		}
		exprSrc := raw[start:k]
		subTokens, _ := lexer.Tokenize(exprSrc)
		subParser := New(subTokens, WithLexicon(p.lexicon), WithFile(p.file))
		parts = append(parts, ast.TemplatePart{Expr: subParser.parseExpression()})
		i = k + 1
	}
	return &ast.TemplateExpr{Base: newBase(tok.Position), Parts: parts}
}

func (p *Parser) parseArrayLiteral(start lexer.Token) ast.Expr {
	p.advance()
	var elems []ast.Expr
	for !p.check(lexer.RBRACKET) && !p.isAtEnd() {
		if p.match(lexer.SPARGE) {
			inner := p.parseAssignment()
			elems = append(elems, &ast.SpreadExpr{Base: newBase(inner.GetLocation()), Operand: inner})
		} else {
			elems = append(elems, p.parseAssignment())
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACKET, "']'")
	return &ast.ArrayExpr{Base: newBase(start.Position), Elements: elems}
}

func (p *Parser) parseObjectLiteral(start lexer.Token) ast.Expr {
	p.advance()
	var props []ast.ObjectProperty
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		if p.match(lexer.SPARGE) {
			v := p.parseAssignment()
			props = append(props, ast.ObjectProperty{Spread: true, Value: v})
		} else {
			computed := false
			var keyExpr ast.Expr
			var key string
			if p.match(lexer.LBRACKET) {
				computed = true
				keyExpr = p.parseExpression()
				p.expect(lexer.RBRACKET, "']'")
			} else {
				key = p.advance().Lexeme
			}
			var val ast.Expr
			if p.match(lexer.COLON) {
				val = p.parseAssignment()
			} else {
				val = &ast.Identifier{Base: newBase(start.Position), Name: key}
			}
			props = append(props, ast.ObjectProperty{Key: key, Computed: computed, KeyExpr: keyExpr, Value: val})
		}
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RBRACE, "'}'")
	return &ast.ObjectExpr{Base: newBase(start.Position), Properties: props}
}

func (p *Parser) parseRegex(start lexer.Token) ast.Expr {
	p.advance()
	pattern := ""
	if p.check(lexer.STRING) {
		tok := p.advance()
		pattern, _ = tok.Literal.(string)
	}
	flags := ""
	if p.check(lexer.IDENTIFIER) {
		flags = p.advance().Lexeme
	}
	return &ast.RegexExpr{Base: newBase(start.Position), Pattern: pattern, Flags: flags}
}

func (p *Parser) parseNovum() ast.Expr {
	tok := p.advance()
	t := p.parseType()
	var args []ast.Expr
	if p.match(lexer.LPAREN) {
		args = p.parseArgList()
	}
	n := &ast.NovumExpr{Base: newBase(tok.Position), Type: t, Args: args}
	if p.match(lexer.IDENTIFIER) && p.previous().Lexeme == "with" {
		if p.check(lexer.LBRACE) {
			obj := p.parseObjectLiteral(p.peek())
			n.With = obj.(*ast.ObjectExpr)
		} else {
			n.WithFrom = p.parseAssignment()
		}
	}
	return n
}

func (p *Parser) parseFinge() ast.Expr {
	tok := p.advance()
	name := p.expect(lexer.IDENTIFIER, "variant name").Lexeme
	var args []ast.Expr
	if p.match(lexer.LPAREN) {
		args = p.parseArgList()
	}
	return &ast.FingeExpr{Base: newBase(tok.Position), VariantName: name, Args: args}
}

func (p *Parser) parseScriptum() ast.Expr {
	tok := p.advance()
	format := ""
	if p.check(lexer.STRING) {
		format, _ = p.advance().Literal.(string)
	}
	var args []ast.Expr
	for p.match(lexer.COMMA) {
		args = append(args, p.parseAssignment())
	}
	return &ast.ScriptumExpr{Base: newBase(tok.Position), Format: format, Args: args}
}

// tryParseLambdaFromParen speculatively parses a parenthesized parameter
// list followed by `=>`, backtracking to ordinary parenthesized-expression
// parsing if no arrow follows.
func (p *Parser) tryParseLambdaFromParen(start lexer.Token) (ast.Expr, bool) {
	save := p.pos
	var params []ast.Param
	ok := true
	for !p.check(lexer.RPAREN) && !p.isAtEnd() {
		if !p.check(lexer.IDENTIFIER) {
			ok = false
			break
		}
		name := p.advance().Lexeme
		params = append(params, ast.Param{InternalName: name, ExternalName: name})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	if ok && p.check(lexer.RPAREN) {
		p.advance()
		if p.check(lexer.ARROW) {
			p.advance()
			return p.finishLambdaBody(start, params, false), true
		}
	}
	p.pos = save
	return nil, false
}

func (p *Parser) parseLambda(start lexer.Token) ast.Expr {
	verb := p.advance().Lexeme
	async := verb == "fiet"
	var params []ast.Param
	for p.check(lexer.IDENTIFIER) {
		name := p.advance().Lexeme
		params = append(params, ast.Param{InternalName: name, ExternalName: name})
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return p.finishLambdaBody(start, params, async)
}

func (p *Parser) finishLambdaBody(start lexer.Token, params []ast.Param, async bool) ast.Expr {
	lam := &ast.LambdaExpr{Base: newBase(start.Position), Params: params, Async: async}
	if p.match(lexer.COLON) {
		lam.Expression = p.parseAssignment()
		return lam
	}
	p.expect(lexer.LBRACE, "'{'")
	lam.Body = p.parseBlockBody()
	return lam
}
