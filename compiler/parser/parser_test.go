package parser

import (
	"testing"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

func parseSource(t *testing.T, source string) (*ast.Program, []errors.CompilerError) {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		t.Fatalf("lexer errors: %v", lexErrs)
	}
	return Parse(tokens)
}

func TestParseFibonacci(t *testing.T) {
	source := `functio fib(numerus n) fit numerus { si n < 2 ergo redde n  redde fib(n-1) + fib(n-2) }`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(program.Body))
	}

	fn, ok := program.Body[0].(*ast.FunctioDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctioDecl, got %T", program.Body[0])
	}
	if fn.Name != "fib" {
		t.Errorf("expected name fib, got %s", fn.Name)
	}
	if fn.ReturnVerb != "fit" {
		t.Errorf("expected return verb fit, got %s", fn.ReturnVerb)
	}
	if fn.Async || fn.Generator {
		t.Errorf("fit-returning function must not be async or a generator")
	}
	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 statements in body, got %d", len(fn.Body))
	}

	si, ok := fn.Body[0].(*ast.SiStmt)
	if !ok {
		t.Fatalf("expected first statement to be *ast.SiStmt, got %T", fn.Body[0])
	}
	if si.ThenErgo == nil {
		t.Fatal("expected ergo-form si statement")
	}
	if _, ok := si.ThenErgo.(*ast.ReddeStmt); !ok {
		t.Fatalf("expected ergo body to be *ast.ReddeStmt, got %T", si.ThenErgo)
	}

	redde, ok := fn.Body[1].(*ast.ReddeStmt)
	if !ok {
		t.Fatalf("expected terminal statement to be *ast.ReddeStmt, got %T", fn.Body[1])
	}
	if _, ok := redde.Value.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected terminal redde value to be *ast.BinaryExpr, got %T", redde.Value)
	}
}

func TestParseDestructure(t *testing.T) {
	source := `ex user fixum nomen ut n, ceteri rest`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(program.Body))
	}

	d, ok := program.Body[0].(*ast.DestructureDecl)
	if !ok {
		t.Fatalf("expected *ast.DestructureDecl, got %T", program.Body[0])
	}
	if d.BindKind != "fixum" {
		t.Errorf("expected bind kind fixum, got %s", d.BindKind)
	}
	src, ok := d.Source.(*ast.Identifier)
	if !ok || src.Name != "user" {
		t.Fatalf("expected source identifier user, got %#v", d.Source)
	}
	if len(d.Specifiers) != 2 {
		t.Fatalf("expected 2 specifiers, got %d", len(d.Specifiers))
	}
	if d.Specifiers[0].Imported != "nomen" || d.Specifiers[0].Local != "n" {
		t.Errorf("unexpected first specifier: %#v", d.Specifiers[0])
	}
	if !d.Specifiers[1].Rest || d.Specifiers[1].Imported != "rest" {
		t.Errorf("unexpected rest specifier: %#v", d.Specifiers[1])
	}
}

func TestParseEmptyProgram(t *testing.T) {
	program, diags := parseSource(t, "")
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	if len(program.Body) != 0 {
		t.Fatalf("expected 0 top-level statements, got %d", len(program.Body))
	}
}

func TestParseHelloWorld(t *testing.T) {
	program, diags := parseSource(t, `scribe "hello, world"`)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	if len(program.Body) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(program.Body))
	}
	expr, ok := program.Body[0].(*ast.ExpressionStmt)
	if !ok {
		t.Fatalf("expected *ast.ExpressionStmt, got %T", program.Body[0])
	}
	call, ok := expr.Expression.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr.Expression)
	}
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.Name != "scribe" {
		t.Fatalf("expected callee identifier scribe, got %#v", call.Callee)
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(call.Args))
	}
}

func TestParseDiscerneMatch(t *testing.T) {
	source := `discerne shape {
		Circulus(radius) { redde radius }
		Quadratum { redde 0 }
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.DiscerneStmt)
	if !ok {
		t.Fatalf("expected *ast.DiscerneStmt, got %T", program.Body[0])
	}
	if len(stmt.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(stmt.Cases))
	}
	if stmt.Cases[0].VariantName != "Circulus" {
		t.Errorf("expected variant Circulus, got %s", stmt.Cases[0].VariantName)
	}
	if len(stmt.Cases[0].Bindings) != 1 || stmt.Cases[0].Bindings[0] != "radius" {
		t.Errorf("unexpected bindings: %#v", stmt.Cases[0].Bindings)
	}
}

func TestParseElige(t *testing.T) {
	source := `elige n {
		1 { scribe "one" }
		secus { scribe "other" }
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.EligeStmt)
	if !ok {
		t.Fatalf("expected *ast.EligeStmt, got %T", program.Body[0])
	}
	if len(stmt.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(stmt.Cases))
	}
	if stmt.Cases[0].Cond == nil {
		t.Error("expected first case to have a condition")
	}
	if stmt.Cases[1].Cond != nil {
		t.Error("expected secus case to have a nil condition")
	}
}

func TestParseCustodi(t *testing.T) {
	source := `custodi {
		n > 0 { redde n }
		secus { redde 0 }
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.CustodiStmt)
	if !ok {
		t.Fatalf("expected *ast.CustodiStmt, got %T", program.Body[0])
	}
	if len(stmt.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(stmt.Cases))
	}
}

func TestParseTemptaCape(t *testing.T) {
	source := `tempta {
		redde 1
	} cape err {
		scribe err
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.TemptaStmt)
	if !ok {
		t.Fatalf("expected *ast.TemptaStmt, got %T", program.Body[0])
	}
	if stmt.Cape == nil {
		t.Fatal("expected a cape clause")
	}
	if stmt.Cape.Binding != "err" {
		t.Errorf("expected cape binding err, got %s", stmt.Cape.Binding)
	}
}

func TestParseCuraResource(t *testing.T) {
	source := `cura file pro f {
		scribe f
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.CuraStmt)
	if !ok {
		t.Fatalf("expected *ast.CuraStmt, got %T", program.Body[0])
	}
	if stmt.Verb != "pro" || stmt.Binding != "f" {
		t.Errorf("unexpected verb/binding: %s/%s", stmt.Verb, stmt.Binding)
	}
}

func TestParseAdWithStringTarget(t *testing.T) {
	source := `ad "http.client" (url) fit Resp pro r {
		scribe r
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.AdStmt)
	if !ok {
		t.Fatalf("expected *ast.AdStmt, got %T", program.Body[0])
	}
	if stmt.Target != "http.client" {
		t.Errorf("expected unquoted target http.client, got %q", stmt.Target)
	}
	if len(stmt.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(stmt.Args))
	}
	if stmt.Binding != "r" {
		t.Errorf("expected binding r, got %s", stmt.Binding)
	}
}

func TestParseAdWithIdentifierTarget(t *testing.T) {
	source := `ad db (query) {
		scribe query
	}`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	stmt, ok := program.Body[0].(*ast.AdStmt)
	if !ok {
		t.Fatalf("expected *ast.AdStmt, got %T", program.Body[0])
	}
	if stmt.Target != "db" {
		t.Errorf("expected target db, got %q", stmt.Target)
	}
}

func TestParseOptionalChainingMember(t *testing.T) {
	source := `fixum x = user?.nomen`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	decl, ok := program.Body[0].(*ast.VariaDecl)
	if !ok {
		t.Fatalf("expected *ast.VariaDecl, got %T", program.Body[0])
	}
	member, ok := decl.Initializer.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected *ast.MemberExpr, got %T", decl.Initializer)
	}
	if !member.Optional {
		t.Error("expected Optional to be true for ?. access")
	}
}

func TestParseExPipelineExpression(t *testing.T) {
	source := `fixum top = ex items prima 5`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	decl, ok := program.Body[0].(*ast.VariaDecl)
	if !ok {
		t.Fatalf("expected *ast.VariaDecl, got %T", program.Body[0])
	}
	dsl, ok := decl.Initializer.(*ast.CollectionDSLExpr)
	if !ok {
		t.Fatalf("expected *ast.CollectionDSLExpr, got %T", decl.Initializer)
	}
	src, ok := dsl.Source.(*ast.Identifier)
	if !ok || src.Name != "items" {
		t.Fatalf("expected source identifier items, got %#v", dsl.Source)
	}
	if len(dsl.Transforms) != 1 || dsl.Transforms[0].Verb != "prima" {
		t.Fatalf("expected 1 prima transform, got %#v", dsl.Transforms)
	}
}

func TestParseCollectionDSLAbForm(t *testing.T) {
	source := `fixum evens = ab items ubi n`
	program, diags := parseSource(t, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got: %v", diags)
	}
	decl, ok := program.Body[0].(*ast.VariaDecl)
	if !ok {
		t.Fatalf("expected *ast.VariaDecl, got %T", program.Body[0])
	}
	dsl, ok := decl.Initializer.(*ast.CollectionDSLExpr)
	if !ok {
		t.Fatalf("expected *ast.CollectionDSLExpr, got %T", decl.Initializer)
	}
	if dsl.Predicate == nil {
		t.Error("expected a ubi predicate")
	}
}

func TestParseVerbModifierConflictDiagnostic(t *testing.T) {
	source := `functio f() fit numerus futura { redde 1 }`
	_, diags := parseSource(t, source)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for 'futura' on a non-arrow 'fit' return")
	}
	found := false
	for _, d := range diags {
		if d.Code == errors.ErrVerbModifierConflict {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrVerbModifierConflict among diagnostics, got: %v", diags)
	}
}

func TestParseRecoversFromMissingIdentifier(t *testing.T) {
	source := "fixum = 1\nscribe \"ok\"\n"
	program, diags := parseSource(t, source)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic for the missing identifier after fixum")
	}
	if program == nil {
		t.Fatal("expected a non-nil partial program even after a parse error")
	}

	var foundScribe bool
	for _, stmt := range program.Body {
		if expr, ok := stmt.(*ast.ExpressionStmt); ok {
			if call, ok := expr.Expression.(*ast.CallExpr); ok {
				if id, ok := call.Callee.(*ast.Identifier); ok && id.Name == "scribe" {
					foundScribe = true
				}
			}
		}
	}
	if !foundScribe {
		t.Error("expected the scribe statement on the following line to still be parsed after recovery")
	}
}
