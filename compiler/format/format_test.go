package format

import (
	"strings"
	"testing"

	"github.com/vertere-lang/vertere/compiler/lexer"
	"github.com/vertere-lang/vertere/compiler/parser"
)

func TestFormatFunctionDeclaration(t *testing.T) {
	tokens, lexErrs := lexer.Tokenize("functio f() { redde 1 }")
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	program, diags := parser.Parse(tokens)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}

	out := Format(program)
	if !strings.HasPrefix(out, "functio f() {\n") {
		t.Fatalf("expected function header, got: %q", out)
	}
	if !strings.Contains(out, "redde 1") {
		t.Fatalf("expected formatted return statement, got: %q", out)
	}
}

func TestFormatVariaDeclaration(t *testing.T) {
	tokens, _ := lexer.Tokenize("fixum x = 1")
	program, diags := parser.Parse(tokens)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}

	out := Format(program)
	if out != "fixum x = 1\n" {
		t.Fatalf("got %q, want %q", out, "fixum x = 1\n")
	}
}

func formatSource(t *testing.T, source string) string {
	t.Helper()
	tokens, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	program, diags := parser.Parse(tokens)
	if len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
	return Format(program)
}

func TestFormatDumStatement(t *testing.T) {
	out := formatSource(t, "dum x < 10 { x = x + 1 }")
	if !strings.HasPrefix(out, "dum x < 10 {\n") {
		t.Fatalf("expected dum header, got: %q", out)
	}
}

func TestFormatAdfirmaStatementWithAndWithoutMessage(t *testing.T) {
	out := formatSource(t, `adfirma x > 0, "x must be positive"`)
	if out != `adfirma x > 0, "x must be positive"`+"\n" {
		t.Fatalf("got %q", out)
	}

	out = formatSource(t, "adfirma x > 0")
	if out != "adfirma x > 0\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatRumpeAndPergeStatements(t *testing.T) {
	out := formatSource(t, "dum verum { rumpe }")
	if !strings.Contains(out, "rumpe\n") {
		t.Fatalf("expected formatted rumpe, got: %q", out)
	}

	out = formatSource(t, "dum verum { perge }")
	if !strings.Contains(out, "perge\n") {
		t.Fatalf("expected formatted perge, got: %q", out)
	}
}

func TestFormatIaceAndMoriStatements(t *testing.T) {
	out := formatSource(t, `iace "boom"`)
	if out != `iace "boom"`+"\n" {
		t.Fatalf("got %q", out)
	}

	out = formatSource(t, `mori "fatal"`)
	if out != `mori "fatal"`+"\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatSiWithSinAndSecus(t *testing.T) {
	out := formatSource(t, `si x < 0 { redde 0 } sin x > 10 { redde 10 } secus { redde x }`)
	if !strings.Contains(out, "sin x > 10 {\n") {
		t.Fatalf("expected formatted sin branch, got: %q", out)
	}
	if !strings.Contains(out, "secus {\n") {
		t.Fatalf("expected formatted secus branch, got: %q", out)
	}
}

func TestFormatArrayAndConditionalExpressions(t *testing.T) {
	out := formatSource(t, "fixum xs = [1, 2, 3]")
	if out != "fixum xs = [1, 2, 3]\n" {
		t.Fatalf("got %q", out)
	}

	out = formatSource(t, "fixum y = x > 0 ? 1 : -1")
	if !strings.Contains(out, "? 1 : ") {
		t.Fatalf("expected formatted conditional expression, got: %q", out)
	}
}

func TestFormatMemberExpressionOptionalAndComputed(t *testing.T) {
	out := formatSource(t, "fixum a = user?.nomen")
	if !strings.Contains(out, "user?.nomen") {
		t.Fatalf("expected optional member access, got: %q", out)
	}

	out = formatSource(t, "fixum b = items[0]")
	if !strings.Contains(out, "items[0]") {
		t.Fatalf("expected computed member access, got: %q", out)
	}
}

func TestFormatAssignmentExpression(t *testing.T) {
	out := formatSource(t, "x = x + 1")
	if out != "x = x + 1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatTypeAliasDeclaration(t *testing.T) {
	out := formatSource(t, "typus ID = textus")
	if out != "typus ID = textus\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatOrdoDeclaration(t *testing.T) {
	out := formatSource(t, "ordo Color { Rubrum, Viride, Caeruleum }")
	if out != "ordo Color { Rubrum, Viride, Caeruleum }\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFormatGenusDeclarationWithSuperAndMethods(t *testing.T) {
	out := formatSource(t, `genus Canis sub Animal implet Vocalis {
		nomen: textus!
		functio loquere() fit textus { redde "woof" }
	}`)
	if !strings.HasPrefix(out, "genus Canis sub Animal implet Vocalis {\n") {
		t.Fatalf("expected genus header with sub/implet, got: %q", out)
	}
	if !strings.Contains(out, "nomen: textus!\n") {
		t.Fatalf("expected formatted field, got: %q", out)
	}
	if !strings.Contains(out, "functio loquere()") {
		t.Fatalf("expected formatted method, got: %q", out)
	}
}
