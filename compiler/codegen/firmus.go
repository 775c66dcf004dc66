package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
)

// firmusGenerator emits the Rust-shaped reference target: ownership
// prepositions translated to `&`/`&mut`, `Option<T>` nullability, `.await`.
type firmusGenerator struct {
	base
}

func runFirmus(program *ast.Program, opts ...Option) (result Result, err error) {
	g := &firmusGenerator{base: newBase(Firmus, opts...)}
	err = runGuard(func() {
		for _, stmt := range program.Body {
			g.genStatement(stmt)
		}
	})
	result = Result{Code: g.preamble() + g.buf.String(), Features: g.features, SourceMap: g.sourceMap}
	return result, err
}

func (g *firmusGenerator) preamble() string {
	var b strings.Builder
	if g.features["rand"] {
		b.WriteString("use rand::Rng;\n")
	}
	if g.features["uuid"] {
		b.WriteString("use uuid::Uuid;\n")
	}
	if g.features["decimal"] {
		b.WriteString("use rust_decimal::Decimal;\n")
	}
	if g.features["async"] {
		b.WriteString("use futures::future::BoxFuture;\n")
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

var firmusTypeNames = map[string]string{
	"textus": "String", "numerus": "i64", "fractus": "f64", "decimus": "Decimal",
	"magnus": "i128", "bivalens": "bool", "nihil": "()", "vacuum": "()",
	"numquam": "!", "octeti": "Vec<u8>", "objectum": "serde_json::Value", "lista": "Vec",
	"tabula": "HashMap", "copia": "HashSet", "promissum": "BoxFuture<'static, ()>",
	"erratum": "Box<dyn std::error::Error>", "cursor": "impl Iterator", "ignotum": "Box<dyn std::any::Any>",
}

func (g *firmusGenerator) typeName(t *ast.TypeNode) string {
	if t == nil {
		return "()"
	}
	if t.Fields != nil {
		var parts []string
		for _, f := range t.Fields {
			parts = append(parts, f.Name+": "+g.typeName(f.Type))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	if t.ArrayShorthand {
		return "Vec<" + g.typeName(t.ElementType) + ">"
	}
	if len(t.Union) > 0 {
		var parts []string
		for _, u := range t.Union {
			parts = append(parts, g.typeName(u))
		}
		// Rust has no anonymous union type; a generated enum is the
		// idiomatic shape but that requires a name this call site lacks, so
		// fall back to a documented placeholder the caller can rename.
		return "/* " + strings.Join(parts, " | ") + " */ serde_json::Value"
	}
	var name string
	if t.Primitive != "" {
		name = firmusTypeNames[t.Primitive]
		if name == "" {
			name = t.Primitive
		}
	} else if t.Resource != "" {
		name = t.Resource
	} else if t.Generic != "" {
		if t.Generic == "unio" {
			var parts []string
			for _, a := range t.TypeArgs {
				parts = append(parts, g.typeName(a))
			}
			return "/* " + strings.Join(parts, " | ") + " */ serde_json::Value"
		}
		name = t.Generic
	}
	if len(t.TypeArgs) > 0 {
		var parts []string
		for _, a := range t.TypeArgs {
			parts = append(parts, g.typeName(a))
		}
		name += "<" + strings.Join(parts, ", ") + ">"
	}
	if t.Nullable {
		name = "Option<" + name + ">"
	}
	switch t.Borrow {
	case "de":
		name = "&" + name
	case "in":
		name = "&mut " + name
	}
	return name
}

func (g *firmusGenerator) indent() string { return strings.Repeat("    ", g.depth) }

func (g *firmusGenerator) block(body []ast.Stmt) string {
	var b strings.Builder
	b.WriteString("{\n")
	g.depth++
	if len(body) == 0 {
		b.WriteString(g.indent() + "// noop\n")
	}
	for _, s := range body {
		for _, c := range commentsOf(s, true) {
			b.WriteString(g.indent() + "// " + c.Value + "\n")
		}
		b.WriteString(g.indent())
		b.WriteString(g.renderStatement(s))
		if tc := commentsOf(s, false); len(tc) > 0 {
			b.WriteString(" // " + tc[0].Value)
		}
	}
	g.depth--
	b.WriteString(g.indent() + "}")
	return b.String()
}

// renderStatement captures one statement's text by swapping the shared
// buffer, mirroring the fidelis target's block-expression needs.
func (g *firmusGenerator) renderStatement(s ast.Stmt) string {
	saved := g.buf
	g.buf = strings.Builder{}
	g.genStatement(s)
	out := g.buf.String()
	g.buf = saved
	return out
}

func (g *firmusGenerator) genStatement(stmt ast.Stmt) {
	g.mark(stmt.GetLocation())
	switch s := stmt.(type) {
	case *ast.ImportaDecl:
		g.genImporta(s)
	case *ast.DestructureDecl:
		g.genDestructure(s)
	case *ast.VariaDecl:
		g.genVaria(s)
	case *ast.FunctioDecl:
		g.write(g.genFunctio(s) + "\n")
	case *ast.PactumDecl:
		g.genPactum(s)
	case *ast.GenusDecl:
		g.genGenus(s)
	case *ast.TypeAliasDecl:
		g.write("type " + s.Name + " = " + g.typeName(s.Type) + ";\n")
	case *ast.OrdoDecl:
		g.write("#[derive(Debug, Clone, PartialEq)]\nenum " + s.Name + " {\n")
		g.depth++
		for _, v := range s.Values {
			g.write(g.indent() + pascalCaseRs(v) + ",\n")
		}
		g.depth--
		g.write("}\n")
	case *ast.DiscretioDecl:
		g.genDiscretio(s)
	case *ast.SiStmt:
		g.write(g.genSi(s) + "\n")
	case *ast.DumStmt:
		g.write("while " + g.genExpr(s.Cond) + " " + g.block(s.Body) + "\n")
	case *ast.IteratioStmt:
		g.genIteratio(s)
	case *ast.InStmt:
		g.write(g.genExpr(s.Target) + ".with_mut(|it| " + g.block(s.Body) + ");\n")
	case *ast.EligeStmt:
		g.genElige(s)
	case *ast.DiscerneStmt:
		g.genDiscerne(s)
	case *ast.CustodiStmt:
		g.write(g.genCustodi(s) + "\n")
	case *ast.AdfirmaStmt:
		if s.Message != nil {
			g.write("assert!(" + g.genExpr(s.Cond) + ", " + g.genExpr(s.Message) + ");\n")
		} else {
			g.write("assert!(" + g.genExpr(s.Cond) + ");\n")
		}
	case *ast.ReddeStmt:
		if s.Value != nil {
			g.write("return " + g.genExpr(s.Value) + ";\n")
		} else {
			g.write("return;\n")
		}
	case *ast.RumpeStmt:
		g.write("break;\n")
	case *ast.PergeStmt:
		g.write("continue;\n")
	case *ast.IaceStmt:
		if s.Fatal {
			g.write("panic!(\"{}\", " + g.genExpr(s.Value) + ");\n")
		} else {
			g.write("return Err(" + g.genExpr(s.Value) + ".into());\n")
		}
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
		g.write("// " + s.Verb + "\n" + g.indent() + "fn " + s.Verb + "() " + g.block(s.Body) + "\n")
	case *ast.ProbandumStmt:
		g.write("#[cfg(test)]\nmod " + snakeCaseRs(s.Name) + " {\n")
		g.depth++
		g.write(g.indent() + "use super::*;\n")
		for _, st := range s.Body {
			g.write(g.indent())
			g.genStatement(st)
		}
		g.depth--
		g.write("}\n")
	case *ast.ProbaStmt:
		g.genProba(s)
	case *ast.ExpressionStmt:
		g.write(g.genExpr(s.Expression) + ";\n")
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("firmus: unsupported statement node %T", stmt), stmt.GetLocation())
	}
}

func pascalCaseRs(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' || r == '-' })
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}

func snakeCaseRs(s string) string {
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

func (g *firmusGenerator) genImporta(s *ast.ImportaDecl) {
	var names []string
	for _, spec := range s.Specifiers {
		if spec.Rest {
			names = append(names, "*")
			continue
		}
		if spec.Local != "" && spec.Local != spec.Imported {
			names = append(names, spec.Imported+" as "+spec.Local)
		} else {
			names = append(names, spec.Imported)
		}
	}
	if len(names) == 1 {
		g.write("use " + strings.ReplaceAll(s.Source, "/", "::") + "::" + names[0] + ";\n")
		return
	}
	g.write("use " + strings.ReplaceAll(s.Source, "/", "::") + "::{" + strings.Join(names, ", ") + "};\n")
}

func (g *firmusGenerator) genDestructure(s *ast.DestructureDecl) {
	var names []string
	for _, spec := range s.Specifiers {
		if spec.Rest {
			continue
		}
		if spec.Local != "" && spec.Local != spec.Imported {
			names = append(names, spec.Imported+": "+spec.Local)
		} else {
			names = append(names, spec.Imported)
		}
	}
	kw := "let"
	if s.BindKind == "varia" || s.BindKind == "variandum" {
		kw = "let mut"
	}
	await := ""
	if s.BindKind == "figendum" || s.BindKind == "variandum" {
		await = ".await"
	}
	g.write(kw + " Self {" + strings.Join(names, ", ") + ", ..} = " + g.genExpr(s.Source) + await + ";\n")
}

func (g *firmusGenerator) genVaria(s *ast.VariaDecl) {
	kw := "let"
	if s.BindKind == "varia" || s.BindKind == "variandum" {
		kw = "let mut"
	}
	await := ""
	if s.BindKind == "figendum" || s.BindKind == "variandum" {
		await = ".await"
	}
	if s.Pattern != nil {
		g.write(kw + " " + patternRs(s.Pattern) + " = " + g.genExpr(s.Initializer) + await + ";\n")
		return
	}
	if s.Initializer == nil {
		g.write(kw + " " + s.Name + ": " + g.typeName(s.Type) + ";\n")
		return
	}
	ty := ""
	if s.Type != nil {
		ty = ": " + g.typeName(s.Type)
	}
	g.write(kw + " " + s.Name + ty + " = " + g.genExpr(s.Initializer) + await + ";\n")
}

func patternRs(p *ast.Pattern) string {
	var parts []string
	for _, e := range p.Elements {
		switch {
		case e.Rest:
			parts = append(parts, "..")
		case e.Skip:
			parts = append(parts, "_")
		case e.Alias != "" && e.Alias != e.Name:
			parts = append(parts, e.Name+": "+e.Alias)
		default:
			parts = append(parts, e.Name)
		}
	}
	open, close := "(", ")"
	if !p.IsArray {
		open, close = "{", "}"
	}
	return open + strings.Join(parts, ", ") + close
}

func (g *firmusGenerator) genParams(params []ast.Param, isMethod bool) string {
	var parts []string
	if isMethod {
		parts = append(parts, "&self")
	}
	for _, p := range params {
		ty := g.typeName(p.Type)
		switch p.Preposition {
		case "de":
			ty = "&" + ty
		case "in":
			ty = "&mut " + ty
		}
		parts = append(parts, p.InternalName+": "+ty)
	}
	return strings.Join(parts, ", ")
}

func (g *firmusGenerator) genTypeParams(params []ast.Param) string {
	if len(params) == 0 {
		return ""
	}
	var parts []string
	for _, p := range params {
		parts = append(parts, p.InternalName)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (g *firmusGenerator) genFunctio(s *ast.FunctioDecl) string {
	async, _ := returnVerbImplications(s.ReturnVerb)
	async = async || s.Async
	name := s.Name
	if s.IsConstructor {
		name = "new"
	}
	var b strings.Builder
	if async {
		b.WriteString("async ")
	}
	b.WriteString("fn " + name + g.genTypeParams(s.TypeParams) + "(" + g.genParams(s.Params, false) + ")")
	if s.ReturnType != nil {
		b.WriteString(" -> " + g.typeName(s.ReturnType))
	} else if s.IsConstructor {
		b.WriteString(" -> Self")
	}
	b.WriteString(" " + g.block(s.Body))
	return b.String()
}

func (g *firmusGenerator) genPactum(s *ast.PactumDecl) {
	g.write("trait " + s.Name + " {\n")
	g.depth++
	for _, m := range s.Methods {
		g.write(g.indent() + "fn " + m.Name + "(&self, " + g.genParams(m.Params, false) + ")")
		if m.ReturnType != nil {
			g.write(" -> " + g.typeName(m.ReturnType))
		}
		g.write(";\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *firmusGenerator) genGenus(s *ast.GenusDecl) {
	g.write("#[derive(Debug, Clone)]\npub struct " + s.Name + " {\n")
	g.depth++
	for _, f := range s.Fields {
		ty := g.typeName(f.Type)
		if f.Nullable {
			ty = "Option<" + ty + ">"
		}
		g.write(g.indent() + "pub " + f.Name + ": " + ty + ",\n")
	}
	g.depth--
	g.write("}\n")
	var traits []string
	if s.Super != "" {
		traits = append(traits, s.Super)
	}
	traits = append(traits, s.Implements...)
	g.write("impl " + s.Name + " {\n")
	g.depth++
	for _, m := range s.Methods {
		g.write(g.indent())
		g.write(g.genFunctio(m))
		g.write("\n")
	}
	g.depth--
	g.write("}\n")
	for _, t := range traits {
		g.write("impl " + t + " for " + s.Name + " {}\n")
	}
}

func (g *firmusGenerator) genDiscretio(s *ast.DiscretioDecl) {
	g.write("#[derive(Debug, Clone)]\nenum " + s.Name + " {\n")
	g.depth++
	for _, v := range s.Variants {
		if len(v.Fields) == 0 {
			g.write(g.indent() + v.Name + ",\n")
			continue
		}
		var parts []string
		for _, f := range v.Fields {
			parts = append(parts, f.Name+": "+g.typeName(f.Type))
		}
		g.write(g.indent() + v.Name + " { " + strings.Join(parts, ", ") + " },\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *firmusGenerator) genSi(s *ast.SiStmt) string {
	var then string
	if s.ThenErgo != nil {
		then = "{ " + strings.TrimSuffix(g.renderStatement(s.ThenErgo), "\n") + " }"
	} else {
		then = g.block(s.Then)
	}
	out := "if " + g.genExpr(s.Cond) + " " + then
	if s.ElseIf != nil {
		out += " else " + g.genSi(s.ElseIf)
	} else if s.Else != nil {
		out += " else " + g.block(s.Else)
	}
	return out
}

func (g *firmusGenerator) genIteratio(s *ast.IteratioStmt) {
	src := g.genExpr(s.Source)
	src = applyDSLRs(g, src, s.DSL)
	if s.KeyBind != "" {
		src += ".keys()"
	}
	g.write("for " + s.Binding + " in " + src + " " + g.block(s.Body) + "\n")
}

func applyDSLRs(g *firmusGenerator, src string, dsl []ast.DSLTransform) string {
	for _, t := range dsl {
		switch t.Verb {
		case "prima":
			src = src + ".into_iter().take(" + g.genExpr(t.N) + " as usize)"
		case "ultima":
			src = src + ".into_iter().rev().take(" + g.genExpr(t.N) + " as usize).rev()"
		case "summa":
			src = src + ".into_iter().sum()"
		}
	}
	return src
}

func (g *firmusGenerator) genElige(s *ast.EligeStmt) {
	subj := g.genExpr(s.Subject)
	g.write("match true {\n")
	g.depth++
	for _, c := range s.Cases {
		cond := "_"
		if c.Cond != nil {
			cond = subj + " == " + g.genExpr(c.Cond)
		}
		g.write(g.indent() + cond + " => " + g.block(c.Body) + ",\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *firmusGenerator) genDiscerne(s *ast.DiscerneStmt) {
	subj := g.genExpr(s.Subject)
	g.write("match " + subj + " {\n")
	g.depth++
	for _, c := range s.Cases {
		pat := c.VariantName
		if len(c.Bindings) > 0 {
			pat += " { " + strings.Join(c.Bindings, ", ") + " }"
		}
		g.write(g.indent() + pat + " => " + g.block(c.Body) + ",\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *firmusGenerator) genCustodi(s *ast.CustodiStmt) string {
	var b strings.Builder
	for i, c := range s.Cases {
		if i > 0 {
			b.WriteString(" else ")
		}
		if c.Cond == nil {
			b.WriteString(g.block(c.Body))
			continue
		}
		b.WriteString("if " + g.genExpr(c.Cond) + " " + g.block(c.Body))
	}
	return b.String()
}

func (g *firmusGenerator) genTempta(s *ast.TemptaStmt) {
	g.write("match (|| -> Result<_, Box<dyn std::error::Error>> " + g.block(s.Body) + ")() {\n")
	g.depth++
	g.write(g.indent() + "Ok(_) => {}\n")
	if s.Cape != nil {
		g.write(g.indent() + "Err(" + s.Cape.Binding + ") => " + g.block(s.Cape.Body) + "\n")
	}
	g.depth--
	g.write("}\n")
	if s.Finally != nil {
		g.write(g.block(s.Finally) + "\n")
	}
}

func (g *firmusGenerator) genFacBlock(s *ast.FacBlockStmt) {
	if s.WhileCond != nil {
		g.write("while { " + g.block(s.Body) + "; " + g.genExpr(s.WhileCond) + " } {}\n")
		return
	}
	g.write(g.block(s.Body) + "\n")
}

func (g *firmusGenerator) genCura(s *ast.CuraStmt) {
	g.write("let " + s.Binding + " = " + g.genExpr(s.Resource) + ";\n")
	for _, st := range s.Body {
		g.write(g.indent())
		g.genStatement(st)
	}
	g.write(g.indent() + "drop(" + s.Binding + ");\n")
}

func (g *firmusGenerator) genAd(s *ast.AdStmt) {
	var args []string
	for _, a := range s.Args {
		args = append(args, g.genExpr(a))
	}
	call := "client." + s.Target + "(" + strings.Join(args, ", ") + ")"
	if s.Verb == "fiet" || s.Verb == "fient" {
		call += ".await"
	}
	if s.Binding != "" {
		g.write("let " + s.Binding + " = " + call + ";\n")
	} else {
		g.write(call + ";\n")
	}
	if s.Body != nil {
		for _, st := range s.Body {
			g.write(g.indent())
			g.genStatement(st)
		}
	}
}

func (g *firmusGenerator) genIncipit(s *ast.IncipitStmt) {
	sig := "fn main()"
	if s.Async {
		g.requireFeature("async")
		sig = "#[tokio::main]\nasync fn main()"
	}
	if s.ErgoStmt != nil {
		g.write(sig + " { " + strings.TrimSuffix(g.renderStatement(s.ErgoStmt), "\n") + " }\n")
		return
	}
	g.write(sig + " " + g.block(s.Body) + "\n")
}

func (g *firmusGenerator) genProba(s *ast.ProbaStmt) {
	attr := "#[test]\n" + g.indent()
	if s.Omitted {
		attr = "#[test]\n" + g.indent() + "#[ignore]\n" + g.indent()
	} else if s.FutureNote != "" {
		attr = "#[test]\n" + g.indent() + "#[ignore = " + strconv.Quote(s.FutureNote) + "]\n" + g.indent()
	}
	g.write(attr + "fn " + snakeCaseRs(s.Name) + "() " + g.block(s.Body) + "\n")
}

// ---- expressions ----

func (g *firmusGenerator) genExpr(e ast.Expr) string {
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
		return "vec![" + strings.Join(parts, ", ") + "]"
	case *ast.ObjectExpr:
		var parts []string
		for _, p := range x.Properties {
			if p.Spread {
				parts = append(parts, "..Default::default()")
				continue
			}
			parts = append(parts, p.Key+": "+g.genExpr(p.Value))
		}
		return "Self { " + strings.Join(parts, ", ") + " }"
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
		return g.genExpr(x.Operand) + ".await"
	case *ast.NovumExpr:
		return g.genNovum(x)
	case *ast.FingeExpr:
		var args []string
		for _, a := range x.Args {
			args = append(args, g.genExpr(a))
		}
		return x.VariantName + "(" + strings.Join(args, ", ") + ")"
	case *ast.ConditionalExpr:
		return "if " + g.genExpr(x.Cond) + " { " + g.genExpr(x.Then) + " } else { " + g.genExpr(x.Else) + " }"
	case *ast.QuaExpr:
		return g.genExpr(x.Operand) + " as " + g.typeName(x.Type)
	case *ast.EstExpr:
		neg := ""
		if x.Negated {
			neg = "!"
		}
		return neg + "matches!(" + g.genExpr(x.Operand) + ", " + g.typeName(x.Type) + "(_))"
	case *ast.PraefixumExpr:
		return g.genExpr(x.Operand)
	case *ast.ScriptumExpr:
		return g.genScriptum(x)
	case *ast.LegeExpr:
		return "read_line_from_stdin()"
	case *ast.RegexExpr:
		g.requireFeature("regex")
		return "Regex::new(" + strconv.Quote(x.Pattern) + ").unwrap()"
	case *ast.CollectionDSLExpr:
		return g.genCollectionDSL(x)
	case *ast.SpreadExpr:
		return "..(" + g.genExpr(x.Operand) + ")"
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("firmus: unsupported expression node %T", e), e.GetLocation())
		return ""
	}
}

func (g *firmusGenerator) genLiteral(x *ast.Literal) string {
	switch x.LitKind {
	case ast.LitNihil:
		return "None"
	case ast.LitBool:
		if v, _ := x.Value.(bool); v {
			return "true"
		}
		return "false"
	case ast.LitString:
		return strconv.Quote(fmt.Sprint(x.Value))
	case ast.LitBigInt:
		return x.Raw
	default:
		return x.Raw
	}
}

func (g *firmusGenerator) genTemplate(x *ast.TemplateExpr) string {
	var format strings.Builder
	var args []string
	format.WriteString("format!(\"")
	for _, p := range x.Parts {
		if p.Expr != nil {
			format.WriteString("{}")
			args = append(args, g.genExpr(p.Expr))
		} else {
			format.WriteString(strings.ReplaceAll(p.Text, "\"", "\\\""))
		}
	}
	format.WriteString("\"")
	for _, a := range args {
		format.WriteString(", " + a)
	}
	format.WriteString(")")
	return format.String()
}

func (g *firmusGenerator) genRange(x *ast.RangeExpr) string {
	op := ".."
	if x.Inclusive {
		op = "..="
	}
	r := g.genExpr(x.Start) + op + g.genExpr(x.End)
	if x.Step != nil {
		return "(" + r + ").step_by(" + g.genExpr(x.Step) + " as usize)"
	}
	return r
}

var binOpRs = map[string]string{"&&": "&&", "||": "||", "===": "==", "!==": "!="}

func (g *firmusGenerator) genBinary(x *ast.BinaryExpr) string {
	if x.Op == "??" {
		return g.genExpr(x.Left) + ".unwrap_or(" + g.genExpr(x.Right) + ")"
	}
	op := x.Op
	if mapped, ok := binOpRs[op]; ok {
		op = mapped
	}
	return "(" + g.genExpr(x.Left) + " " + op + " " + g.genExpr(x.Right) + ")"
}

func (g *firmusGenerator) genUnary(x *ast.UnaryExpr) string {
	operand := g.genExpr(x.Operand)
	switch x.Op {
	case "!", "non":
		return "!" + operand
	case "nulla":
		return "!" + operand
	case "nonnulla":
		return operand
	case "nihil":
		return operand + ".is_none()"
	case "nonnihil":
		return operand + ".is_some()"
	case "negativum":
		return "(" + operand + " < 0)"
	case "positivum":
		return "(" + operand + " > 0)"
	case "~":
		return "!" + operand
	case "-":
		return "-" + operand
	default:
		return operand
	}
}

func (g *firmusGenerator) genCall(x *ast.CallExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	callee := g.genExpr(x.Callee)
	if x.Optional {
		return callee + ".map(|f| f(" + strings.Join(args, ", ") + "))"
	}
	return callee + "(" + strings.Join(args, ", ") + ")"
}

func (g *firmusGenerator) genMember(x *ast.MemberExpr) string {
	obj := g.genExpr(x.Object)
	if x.Computed {
		return obj + "[" + g.genExpr(x.Index) + "]"
	}
	if x.Optional {
		return obj + ".as_ref().map(|v| v." + x.Property + ")"
	}
	return obj + "." + x.Property
}

func (g *firmusGenerator) genLambda(x *ast.LambdaExpr) string {
	var params []string
	for _, p := range x.Params {
		params = append(params, p.InternalName)
	}
	prefix := ""
	if x.Async {
		prefix = "async "
	}
	if x.Expression != nil {
		return prefix + "|" + strings.Join(params, ", ") + "| " + g.genExpr(x.Expression)
	}
	return prefix + "|" + strings.Join(params, ", ") + "| " + g.block(x.Body)
}

func (g *firmusGenerator) genNovum(x *ast.NovumExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	call := g.typeName(x.Type) + "::new(" + strings.Join(args, ", ") + ")"
	if x.With != nil {
		call = g.typeName(x.Type) + " { " + strings.TrimPrefix(strings.TrimSuffix(g.genExpr(x.With), " }"), "Self { ") + ", ..Default::default() }"
	} else if x.WithFrom != nil {
		call = g.typeName(x.Type) + " { .. " + g.genExpr(x.WithFrom) + " }"
	}
	return call
}

func (g *firmusGenerator) genScriptum(x *ast.ScriptumExpr) string {
	format := strings.ReplaceAll(x.Format, "§", "{}")
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	out := "format!(" + strconv.Quote(format)
	for _, a := range args {
		out += ", " + a
	}
	return out + ")"
}

func (g *firmusGenerator) genCollectionDSL(x *ast.CollectionDSLExpr) string {
	src := g.genExpr(x.Source)
	if x.Predicate != nil {
		neg := ""
		if x.Negated {
			neg = "!"
		}
		src = src + ".into_iter().filter(|it| " + neg + "(" + g.genExpr(x.Predicate) + ")).collect::<Vec<_>>()"
	} else if x.PropName != "" {
		neg := ""
		if x.Negated {
			neg = "!"
		}
		src = src + ".into_iter().filter(|it| " + neg + "it." + x.PropName + ").collect::<Vec<_>>()"
	}
	return applyDSLRs(g, src, x.Transforms)
}
