package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
)

// simplexGenerator emits the Python-shaped reference target: dynamic
// typing, `and`/`or`, f-strings, `None`, generators via `yield`.
type simplexGenerator struct {
	base
}

func runSimplex(program *ast.Program, opts ...Option) (result Result, err error) {
	g := &simplexGenerator{base: newBase(Simplex, opts...)}
	err = runGuard(func() {
		for _, stmt := range program.Body {
			g.genStatement(stmt)
		}
	})
	result = Result{Code: g.preamble() + g.buf.String(), Features: g.features, SourceMap: g.sourceMap}
	return result, err
}

func (g *simplexGenerator) preamble() string {
	var b strings.Builder
	if g.features["random"] {
		b.WriteString("import random\n")
	}
	if g.features["uuid"] {
		b.WriteString("import uuid\n")
	}
	if g.features["decimal"] {
		b.WriteString("from decimal import Decimal\n")
	}
	if g.features["dataclass"] {
		b.WriteString("from dataclasses import dataclass\n")
	}
	if g.features["typing"] {
		b.WriteString("from typing import Optional, Union\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

var simplexTypeNames = map[string]string{
	"textus": "str", "numerus": "int", "fractus": "float", "decimus": "Decimal",
	"magnus": "int", "bivalens": "bool", "nihil": "None", "vacuum": "None",
	"numquam": "NoReturn", "octeti": "bytes", "objectum": "object", "lista": "list",
	"tabula": "dict", "copia": "set", "promissum": "Awaitable", "erratum": "Exception",
	"cursor": "Iterator", "ignotum": "object",
}

func (g *simplexGenerator) typeName(t *ast.TypeNode) string {
	if t == nil {
		return "object"
	}
	g.requireFeature("typing")
	if t.Fields != nil {
		return "dict"
	}
	if t.ArrayShorthand {
		return "list[" + g.typeName(t.ElementType) + "]"
	}
	if len(t.Union) > 0 {
		var parts []string
		for _, u := range t.Union {
			parts = append(parts, g.typeName(u))
		}
		return "Union[" + strings.Join(parts, ", ") + "]"
	}
	var name string
	if t.Primitive != "" {
		name = simplexTypeNames[t.Primitive]
		if name == "" {
			name = t.Primitive
		}
	} else if t.Resource != "" {
		name = t.Resource
	} else if t.Generic != "" {
		name = t.Generic
	}
	if len(t.TypeArgs) > 0 {
		var parts []string
		for _, a := range t.TypeArgs {
			parts = append(parts, g.typeName(a))
		}
		name += "[" + strings.Join(parts, ", ") + "]"
	}
	if t.Nullable {
		name = "Optional[" + name + "]"
	}
	return name
}

func (g *simplexGenerator) indent() string { return strings.Repeat("    ", g.depth) }

// block emits an indentation-significant suite. Python has no braces, so the
// `noop` placeholder is a literal `pass`.
func (g *simplexGenerator) block(body []ast.Stmt) {
	g.depth++
	if len(body) == 0 {
		g.write(g.indent() + "pass\n")
	}
	for _, s := range body {
		g.genLeading(s)
		g.write(g.indent())
		g.genStatement(s)
		g.genTrailing(s)
	}
	g.depth--
}

func (g *simplexGenerator) genLeading(n ast.Node) {
	for _, c := range commentsOf(n, true) {
		g.write(g.indent() + "# " + c.Value + "\n")
	}
}

func (g *simplexGenerator) genTrailing(n ast.Node) {
	if cs := commentsOf(n, false); len(cs) > 0 {
		out := g.buf.String()
		out = strings.TrimSuffix(out, "\n")
		g.buf.Reset()
		g.write(out)
		g.write("  # " + cs[0].Value)
	}
	g.write("\n")
}

func (g *simplexGenerator) genStatement(stmt ast.Stmt) {
	g.mark(stmt.GetLocation())
	switch s := stmt.(type) {
	case *ast.ImportaDecl:
		g.genImporta(s)
	case *ast.DestructureDecl:
		g.genDestructure(s)
	case *ast.VariaDecl:
		g.genVaria(s)
	case *ast.FunctioDecl:
		g.genFunctio(s)
	case *ast.PactumDecl:
		g.genPactum(s)
	case *ast.GenusDecl:
		g.genGenus(s)
	case *ast.TypeAliasDecl:
		g.write(s.Name + " = " + g.typeName(s.Type) + "\n")
	case *ast.OrdoDecl:
		g.write("class " + s.Name + "(Enum):\n")
		g.depth++
		for _, v := range s.Values {
			g.write(g.indent() + strings.ToUpper(v) + " = " + strconv.Quote(v) + "\n")
		}
		g.depth--
	case *ast.DiscretioDecl:
		g.genDiscretio(s)
	case *ast.SiStmt:
		g.genSi(s)
	case *ast.DumStmt:
		g.write("while " + g.genExpr(s.Cond) + ":\n")
		g.block(s.Body)
	case *ast.IteratioStmt:
		g.genIteratio(s)
	case *ast.InStmt:
		g.write("with " + g.genExpr(s.Target) + ":\n")
		g.block(s.Body)
	case *ast.EligeStmt:
		g.genElige(s)
	case *ast.DiscerneStmt:
		g.genDiscerne(s)
	case *ast.CustodiStmt:
		g.genCustodi(s)
	case *ast.AdfirmaStmt:
		g.write("assert " + g.genExpr(s.Cond))
		if s.Message != nil {
			g.write(", " + g.genExpr(s.Message))
		}
		g.write("\n")
	case *ast.ReddeStmt:
		if s.Value != nil {
			g.write("return " + g.genExpr(s.Value) + "\n")
		} else {
			g.write("return\n")
		}
	case *ast.RumpeStmt:
		g.write("break\n")
	case *ast.PergeStmt:
		g.write("continue\n")
	case *ast.IaceStmt:
		g.write("raise " + g.genExpr(s.Value) + "\n")
	case *ast.TemptaStmt:
		g.genTempta(s)
	case *ast.FacBlockStmt:
		g.genFacBlock(s)
	case *ast.CuraStmt:
		g.genCura(s)
	case *ast.AdStmt:
		g.genAd(s)
	case *ast.IncipitStmt:
		g.genIncipit(s)
	case *ast.PraeparaStmt:
		g.genPraepara(s)
	case *ast.ProbandumStmt:
		g.write("class " + pascalCase(s.Name) + "(unittest.TestCase):\n")
		g.block(s.Body)
	case *ast.ProbaStmt:
		g.genProba(s)
	case *ast.ExpressionStmt:
		g.write(g.genExpr(s.Expression) + "\n")
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("simplex: unsupported statement node %T", stmt), stmt.GetLocation())
	}
}

func pascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return "Test"
	}
	return "Test" + b.String()
}

func (g *simplexGenerator) genImporta(s *ast.ImportaDecl) {
	var names []string
	var rest string
	for _, spec := range s.Specifiers {
		if spec.Rest {
			rest = spec.Imported
			continue
		}
		if spec.Local != "" && spec.Local != spec.Imported {
			names = append(names, spec.Imported+" as "+spec.Local)
		} else {
			names = append(names, spec.Imported)
		}
	}
	if rest != "" {
		g.write("import " + s.Source + "\n")
		return
	}
	g.write("from " + s.Source + " import " + strings.Join(names, ", ") + "\n")
}

func (g *simplexGenerator) genDestructure(s *ast.DestructureDecl) {
	var names []string
	for _, spec := range s.Specifiers {
		if spec.Rest {
			names = append(names, "*"+spec.Imported)
			continue
		}
		names = append(names, spec.Local)
		if spec.Local == "" {
			names[len(names)-1] = spec.Imported
		}
	}
	g.write(strings.Join(names, ", ") + " = " + g.genExpr(s.Source) + "\n")
}

func (g *simplexGenerator) genVaria(s *ast.VariaDecl) {
	async := s.BindKind == "figendum" || s.BindKind == "variandum"
	if s.Pattern != nil {
		g.write(patternPy(s.Pattern) + " = ")
		if async {
			g.write("await ")
		}
		g.write(g.genExpr(s.Initializer) + "\n")
		return
	}
	if s.Initializer == nil {
		g.write(s.Name + ": " + g.typeName(s.Type) + "\n")
		return
	}
	g.write(s.Name + " = ")
	if async {
		g.write("await ")
	}
	g.write(g.genExpr(s.Initializer) + "\n")
}

func patternPy(p *ast.Pattern) string {
	var parts []string
	for _, e := range p.Elements {
		switch {
		case e.Rest:
			parts = append(parts, "*"+e.Name)
		case e.Skip && p.IsArray:
			parts = append(parts, "_")
		case e.Alias != "" && e.Alias != e.Name:
			parts = append(parts, e.Alias)
		default:
			parts = append(parts, e.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func (g *simplexGenerator) genParams(params []ast.Param) string {
	var parts []string
	for _, p := range params {
		s := p.InternalName
		if p.Type != nil {
			s += ": " + g.typeName(p.Type)
		}
		if p.Default != nil {
			s += " = " + g.genExpr(p.Default)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func (g *simplexGenerator) genFunctio(s *ast.FunctioDecl) {
	async, generator := s.Async, s.Generator
	if s.ReturnVerb != "" {
		av, gv := returnVerbImplications(s.ReturnVerb)
		async, generator = async || av, generator || gv
	}
	prevGen := g.inGenerator
	g.inGenerator = generator
	defer func() { g.inGenerator = prevGen }()

	name := s.Name
	if s.IsConstructor {
		name = "__init__"
	}
	def := "def "
	if async {
		def = "async def "
	}
	g.write(def + name + "(" + selfParam(s) + g.genParams(s.Params) + ")")
	if s.ReturnType != nil {
		g.write(" -> " + g.typeName(s.ReturnType))
	}
	g.write(":\n")
	g.block(s.Body)
}

func selfParam(s *ast.FunctioDecl) string {
	if len(s.Params) == 0 {
		return "self"
	}
	return "self, "
}

func (g *simplexGenerator) genPactum(s *ast.PactumDecl) {
	g.requireFeature("typing")
	g.write("class " + s.Name + "(Protocol):\n")
	g.depth++
	for _, m := range s.Methods {
		g.write(g.indent() + "def " + m.Name + "(self, " + g.genParams(m.Params) + ")")
		if m.ReturnType != nil {
			g.write(" -> " + g.typeName(m.ReturnType))
		}
		g.write(": ...\n")
	}
	g.depth--
}

func (g *simplexGenerator) genGenus(s *ast.GenusDecl) {
	g.requireFeature("dataclass")
	bases := s.Implements
	if s.Super != "" {
		bases = append([]string{s.Super}, bases...)
	}
	decorator := ""
	if len(s.Methods) == 0 || !hasConstructor(s.Methods) {
		decorator = "@dataclass\n"
	}
	g.write(decorator + "class " + s.Name)
	if len(bases) > 0 {
		g.write("(" + strings.Join(bases, ", ") + ")")
	}
	g.write(":\n")
	g.depth++
	for _, f := range s.Fields {
		g.write(g.indent() + f.Name + ": " + g.typeName(f.Type) + "\n")
	}
	if len(s.Fields) == 0 && len(s.Methods) == 0 {
		g.write(g.indent() + "pass\n")
	}
	for _, m := range s.Methods {
		g.write(g.indent())
		g.genFunctio(m)
	}
	g.depth--
}

func hasConstructor(methods []*ast.FunctioDecl) bool {
	for _, m := range methods {
		if m.IsConstructor {
			return true
		}
	}
	return false
}

func (g *simplexGenerator) genDiscretio(s *ast.DiscretioDecl) {
	g.requireFeature("dataclass")
	for _, v := range s.Variants {
		g.write("@dataclass\nclass " + s.Name + v.Name + ":\n")
		g.depth++
		if len(v.Fields) == 0 {
			g.write(g.indent() + "pass\n")
		}
		for _, f := range v.Fields {
			g.write(g.indent() + f.Name + ": " + g.typeName(f.Type) + "\n")
		}
		g.depth--
	}
	var names []string
	for _, v := range s.Variants {
		names = append(names, s.Name+v.Name)
	}
	g.requireFeature("typing")
	g.write(s.Name + " = Union[" + strings.Join(names, ", ") + "]\n")
}

func (g *simplexGenerator) genSi(s *ast.SiStmt) {
	g.write("if " + g.genExpr(s.Cond) + ":\n")
	if s.ThenErgo != nil {
		g.depth++
		g.write(g.indent())
		g.genStatement(s.ThenErgo)
		g.depth--
	} else {
		g.block(s.Then)
	}
	if s.ElseIf != nil {
		g.write(g.indent() + "el")
		g.genSiAsElif(s.ElseIf)
		return
	}
	if s.Else != nil {
		g.write(g.indent() + "else:\n")
		g.block(s.Else)
	}
}

func (g *simplexGenerator) genSiAsElif(s *ast.SiStmt) {
	g.write("if " + g.genExpr(s.Cond) + ":\n")
	if s.ThenErgo != nil {
		g.depth++
		g.write(g.indent())
		g.genStatement(s.ThenErgo)
		g.depth--
	} else {
		g.block(s.Then)
	}
	if s.ElseIf != nil {
		g.write(g.indent() + "el")
		g.genSiAsElif(s.ElseIf)
	} else if s.Else != nil {
		g.write(g.indent() + "else:\n")
		g.block(s.Else)
	}
}

func (g *simplexGenerator) genIteratio(s *ast.IteratioStmt) {
	src := g.genExpr(s.Source)
	src = applyDSLPy(g, src, s.DSL)
	if s.KeyBind != "" {
		g.write("for " + s.Binding + " in " + src + ".keys():\n")
	} else {
		g.write("for " + s.Binding + " in " + src + ":\n")
	}
	g.block(s.Body)
}

func applyDSLPy(g *simplexGenerator, src string, dsl []ast.DSLTransform) string {
	for _, t := range dsl {
		switch t.Verb {
		case "prima":
			src = src + "[:" + g.genExpr(t.N) + "]"
		case "ultima":
			src = src + "[-(" + g.genExpr(t.N) + "):]"
		case "summa":
			src = "sum(" + src + ")"
		}
	}
	return src
}

func (g *simplexGenerator) genElige(s *ast.EligeStmt) {
	subj := g.genExpr(s.Subject)
	first := true
	for _, c := range s.Cases {
		kw := "elif "
		if first {
			kw = "if "
			first = false
		}
		if c.Cond == nil {
			g.write(g.indent() + "else:\n")
		} else {
			g.write(g.indent() + kw + "(" + subj + " == " + g.genExpr(c.Cond) + "):\n")
		}
		g.block(c.Body)
	}
}

func (g *simplexGenerator) genDiscerne(s *ast.DiscerneStmt) {
	subj := g.genExpr(s.Subject)
	first := true
	for _, c := range s.Cases {
		kw := "elif "
		if first {
			kw = "if "
			first = false
		}
		g.write(g.indent() + kw + "isinstance(" + subj + ", " + c.VariantName + "):\n")
		g.depth++
		for _, b := range c.Bindings {
			g.write(g.indent() + b + " = " + subj + "." + b + "\n")
		}
		g.depth--
		g.block(c.Body)
	}
}

func (g *simplexGenerator) genCustodi(s *ast.CustodiStmt) {
	first := true
	for _, c := range s.Cases {
		kw := "elif "
		if first {
			kw = "if "
			first = false
		}
		if c.Cond == nil {
			g.write(g.indent() + "else:\n")
		} else {
			g.write(g.indent() + kw + g.genExpr(c.Cond) + ":\n")
		}
		g.block(c.Body)
	}
}

func (g *simplexGenerator) genTempta(s *ast.TemptaStmt) {
	g.write("try:\n")
	g.block(s.Body)
	if s.Cape != nil {
		g.write(g.indent() + "except Exception as " + s.Cape.Binding + ":\n")
		g.block(s.Cape.Body)
	}
	if s.Finally != nil {
		g.write(g.indent() + "finally:\n")
		g.block(s.Finally)
	}
}

func (g *simplexGenerator) genFacBlock(s *ast.FacBlockStmt) {
	if s.WhileCond != nil {
		g.write("while True:\n")
		g.block(s.Body)
		g.depth++
		g.write(g.indent() + "if not (" + g.genExpr(s.WhileCond) + "):\n")
		g.depth++
		g.write(g.indent() + "break\n")
		g.depth -= 2
		return
	}
	for _, st := range s.Body {
		g.write(g.indent())
		g.genStatement(st)
	}
}

func (g *simplexGenerator) genCura(s *ast.CuraStmt) {
	g.write("with " + g.genExpr(s.Resource) + " as " + s.Binding + ":\n")
	g.block(s.Body)
}

func (g *simplexGenerator) genAd(s *ast.AdStmt) {
	var args []string
	for _, a := range s.Args {
		args = append(args, g.genExpr(a))
	}
	call := "client." + s.Target + "(" + strings.Join(args, ", ") + ")"
	if s.Verb == "fiet" || s.Verb == "fient" {
		call = "await " + call
	}
	if s.Binding != "" {
		g.write(s.Binding + " = " + call + "\n")
	} else {
		g.write(call + "\n")
	}
	if s.Body != nil {
		g.block(s.Body)
	}
}

func (g *simplexGenerator) genIncipit(s *ast.IncipitStmt) {
	def := "def main():\n"
	if s.Async {
		def = "async def main():\n"
	}
	g.write(def)
	if s.ErgoStmt != nil {
		g.depth++
		g.write(g.indent())
		g.genStatement(s.ErgoStmt)
		g.depth--
	} else {
		g.block(s.Body)
	}
	if s.Async {
		g.write("\nasyncio.run(main())\n")
	} else {
		g.write("\nif __name__ == \"__main__\":\n    main()\n")
	}
}

func (g *simplexGenerator) genPraepara(s *ast.PraeparaStmt) {
	name := map[string]string{"praepara": "setUp", "praeparabit": "setUp", "postpara": "tearDown", "postparabit": "tearDown"}[s.Verb]
	if s.Omnia {
		name = "setUpClass"
		if strings.HasPrefix(s.Verb, "post") {
			name = "tearDownClass"
		}
	}
	g.write("def " + name + "(self):\n")
	g.block(s.Body)
}

func (g *simplexGenerator) genProba(s *ast.ProbaStmt) {
	prefix := ""
	if s.Omitted {
		prefix = "@unittest.skip(\"omitted\")\n" + g.indent()
	} else if s.FutureNote != "" {
		prefix = "@unittest.skip(" + strconv.Quote(s.FutureNote) + ")\n" + g.indent()
	}
	g.write(prefix + "def test_" + snakeCase(s.Name) + "(self):\n")
	g.block(s.Body)
}

func snakeCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '-' {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// ---- expressions ----

func (g *simplexGenerator) genExpr(e ast.Expr) string {
	g.mark(e.GetLocation())
	switch x := e.(type) {
	case *ast.Literal:
		return g.genLiteral(x)
	case *ast.Identifier:
		return x.Name
	case *ast.EgoExpr:
		return "self"
	case *ast.TemplateExpr:
		return g.genTemplate(x)
	case *ast.ArrayExpr:
		var parts []string
		for _, el := range x.Elements {
			parts = append(parts, g.genExpr(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.ObjectExpr:
		var parts []string
		for _, p := range x.Properties {
			if p.Spread {
				parts = append(parts, "**"+g.genExpr(p.Value))
				continue
			}
			key := strconv.Quote(p.Key)
			if p.Computed {
				key = g.genExpr(p.KeyExpr)
			}
			parts = append(parts, key+": "+g.genExpr(p.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *ast.RangeExpr:
		return g.genRange(x)
	case *ast.BinaryExpr:
		return g.genBinary(x)
	case *ast.UnaryExpr:
		return g.genUnary(x)
	case *ast.CallExpr:
		return g.genCall(x)
	case *ast.MemberExpr:
		return g.genMember(x)
	case *ast.LambdaExpr:
		return g.genLambda(x)
	case *ast.AssignmentExpr:
		return g.genExpr(x.Target) + " " + x.Op + " " + g.genExpr(x.Value)
	case *ast.CedeExpr:
		if g.inGenerator {
			return "(yield " + g.genExpr(x.Operand) + ")"
		}
		return "(await " + g.genExpr(x.Operand) + ")"
	case *ast.NovumExpr:
		return g.genNovum(x)
	case *ast.FingeExpr:
		var args []string
		for _, a := range x.Args {
			args = append(args, g.genExpr(a))
		}
		return x.VariantName + "(" + strings.Join(args, ", ") + ")"
	case *ast.ConditionalExpr:
		return g.genExpr(x.Then) + " if " + g.genExpr(x.Cond) + " else " + g.genExpr(x.Else)
	case *ast.QuaExpr:
		return "cast(" + g.typeName(x.Type) + ", " + g.genExpr(x.Operand) + ")"
	case *ast.EstExpr:
		neg := ""
		if x.Negated {
			neg = "not "
		}
		return neg + "isinstance(" + g.genExpr(x.Operand) + ", " + g.typeName(x.Type) + ")"
	case *ast.PraefixumExpr:
		return g.genExpr(x.Operand)
	case *ast.ScriptumExpr:
		return g.genScriptum(x)
	case *ast.LegeExpr:
		return "input()"
	case *ast.RegexExpr:
		g.requireFeature("re")
		return "re.compile(" + strconv.Quote(x.Pattern) + ")"
	case *ast.CollectionDSLExpr:
		return g.genCollectionDSL(x)
	case *ast.SpreadExpr:
		return "*" + g.genExpr(x.Operand)
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("simplex: unsupported expression node %T", e), e.GetLocation())
		return ""
	}
}

func (g *simplexGenerator) genLiteral(x *ast.Literal) string {
	switch x.LitKind {
	case ast.LitNihil:
		return "None"
	case ast.LitBool:
		if v, _ := x.Value.(bool); v {
			return "True"
		}
		return "False"
	case ast.LitString:
		return strconv.Quote(fmt.Sprint(x.Value))
	case ast.LitBigInt:
		return x.Raw
	default:
		return x.Raw
	}
}

func (g *simplexGenerator) genTemplate(x *ast.TemplateExpr) string {
	var b strings.Builder
	b.WriteString("f\"")
	for _, p := range x.Parts {
		if p.Expr != nil {
			b.WriteString("{" + g.genExpr(p.Expr) + "}")
		} else {
			b.WriteString(strings.ReplaceAll(p.Text, "\"", "\\\""))
		}
	}
	b.WriteString("\"")
	return b.String()
}

func (g *simplexGenerator) genRange(x *ast.RangeExpr) string {
	end := g.genExpr(x.End)
	if x.Inclusive {
		end = end + " + 1"
	}
	if x.Step != nil {
		return "range(" + g.genExpr(x.Start) + ", " + end + ", " + g.genExpr(x.Step) + ")"
	}
	return "range(" + g.genExpr(x.Start) + ", " + end + ")"
}

var binOpPy = map[string]string{"&&": "and", "||": "or", "===": "==", "!==": "!=", "!": "not "}

func (g *simplexGenerator) genBinary(x *ast.BinaryExpr) string {
	if x.Op == "??" {
		return "(" + g.genExpr(x.Left) + " if " + g.genExpr(x.Left) + " is not None else " + g.genExpr(x.Right) + ")"
	}
	op := x.Op
	if mapped, ok := binOpPy[op]; ok {
		op = mapped
	}
	return "(" + g.genExpr(x.Left) + " " + op + " " + g.genExpr(x.Right) + ")"
}

func (g *simplexGenerator) genUnary(x *ast.UnaryExpr) string {
	operand := g.genExpr(x.Operand)
	switch x.Op {
	case "!", "non":
		return "(not " + operand + ")"
	case "nulla":
		return "(not " + operand + ")"
	case "nonnulla":
		return "(bool(" + operand + "))"
	case "nihil":
		return "(" + operand + " is None)"
	case "nonnihil":
		return "(" + operand + " is not None)"
	case "negativum":
		return "(" + operand + " < 0)"
	case "positivum":
		return "(" + operand + " > 0)"
	case "~":
		return "(~" + operand + ")"
	case "-":
		return "(-" + operand + ")"
	default:
		return operand
	}
}

func (g *simplexGenerator) genCall(x *ast.CallExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	return g.genExpr(x.Callee) + "(" + strings.Join(args, ", ") + ")"
}

func (g *simplexGenerator) genMember(x *ast.MemberExpr) string {
	obj := g.genExpr(x.Object)
	if x.Computed {
		return obj + "[" + g.genExpr(x.Index) + "]"
	}
	return obj + "." + x.Property
}

func (g *simplexGenerator) genLambda(x *ast.LambdaExpr) string {
	var params []string
	for _, p := range x.Params {
		params = append(params, p.InternalName)
	}
	if x.Expression != nil {
		return "lambda " + strings.Join(params, ", ") + ": " + g.genExpr(x.Expression)
	}
	return "lambda " + strings.Join(params, ", ") + ": " + g.genLambdaBlockBody(x.Body)
}

// genLambdaBlockBody folds a block-bodied lambda into the single expression a
// Python lambda can hold: each simple binding becomes a PEP 572 walrus
// assignment, chained as tuple elements with the final value selected by
// indexing the last one. Control-flow statements inside a lambda body have
// no expression form and are a framework error.
func (g *simplexGenerator) genLambdaBlockBody(body []ast.Stmt) string {
	var parts []string
	for _, s := range body {
		switch st := s.(type) {
		case *ast.VariaDecl:
			if st.Pattern != nil {
				g.fail(errors.ErrCodegenUnsupportedNode, "simplex: destructuring binding inside a block lambda has no expression form", st.GetLocation())
			}
			parts = append(parts, "("+st.Name+" := "+g.genExpr(st.Initializer)+")")
		case *ast.ExpressionStmt:
			parts = append(parts, g.genExpr(st.Expression))
		case *ast.ReddeStmt:
			if st.Value != nil {
				parts = append(parts, g.genExpr(st.Value))
			} else {
				parts = append(parts, "None")
			}
		default:
			g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("simplex: statement %T inside a block lambda has no expression form", s), s.GetLocation())
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, ", ") + ")[-1]"
}

func (g *simplexGenerator) genNovum(x *ast.NovumExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	call := g.typeName(x.Type) + "(" + strings.Join(args, ", ") + ")"
	if x.With != nil {
		call = "replace(" + call + ", " + g.genExpr(x.With) + ")"
	} else if x.WithFrom != nil {
		call = "replace(" + call + ", **" + g.genExpr(x.WithFrom) + ".__dict__)"
	}
	return call
}

func (g *simplexGenerator) genScriptum(x *ast.ScriptumExpr) string {
	format := strings.ReplaceAll(x.Format, "§", "{}")
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	return strconv.Quote(format) + ".format(" + strings.Join(args, ", ") + ")"
}

func (g *simplexGenerator) genCollectionDSL(x *ast.CollectionDSLExpr) string {
	src := g.genExpr(x.Source)
	if x.Predicate != nil {
		neg := ""
		if x.Negated {
			neg = "not "
		}
		src = "[_item for _item in " + src + " if " + neg + "(" + g.genExpr(x.Predicate) + ")]"
	} else if x.PropName != "" {
		neg := ""
		if x.Negated {
			neg = "not "
		}
		src = "[_item for _item in " + src + " if " + neg + "_item." + x.PropName + "]"
	}
	return applyDSLPy(g, src, x.Transforms)
}
