package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/compiler/lexer"
)

// fidelisGenerator emits the TS-shaped reference target: structural
// interfaces, `| null`, async/await, template literals.
type fidelisGenerator struct {
	base
}

func runFidelis(program *ast.Program, opts ...Option) (result Result, err error) {
	g := &fidelisGenerator{base: newBase(Fidelis, opts...)}
	err = runGuard(func() {
		for _, stmt := range program.Body {
			g.genStatement(stmt)
		}
	})
	preamble := g.preamble()
	result = Result{Code: preamble + g.buf.String(), Features: g.features, SourceMap: g.sourceMap}
	return result, err
}

func (g *fidelisGenerator) preamble() string {
	var b strings.Builder
	if g.features["random"] {
		b.WriteString("// random: Math.random()\n")
	}
	if g.features["uuid"] {
		b.WriteString("import { randomUUID } from \"node:crypto\";\n")
	}
	if g.features["decimal"] {
		b.WriteString("import Decimal from \"decimal.js\";\n")
	}
	return b.String()
}

var fidelisTypeNames = map[string]string{
	"textus": "string", "numerus": "number", "fractus": "number", "decimus": "Decimal",
	"magnus": "bigint", "bivalens": "boolean", "nihil": "null", "vacuum": "void",
	"numquam": "never", "octeti": "Uint8Array", "objectum": "object", "lista": "Array",
	"tabula": "Map", "copia": "Set", "promissum": "Promise", "erratum": "Error",
	"cursor": "Generator", "ignotum": "unknown",
}

func (g *fidelisGenerator) typeName(t *ast.TypeNode) string {
	if t == nil {
		return "unknown"
	}
	if t.Fields != nil {
		var parts []string
		for _, f := range t.Fields {
			suffix := ""
			if f.Nullable {
				suffix = " | null"
			}
			parts = append(parts, fmt.Sprintf("%s: %s%s", f.Name, g.typeName(f.Type), suffix))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	}
	if t.ArrayShorthand {
		return g.typeName(t.ElementType) + "[]"
	}
	if len(t.Union) > 0 {
		var parts []string
		for _, u := range t.Union {
			parts = append(parts, g.typeName(u))
		}
		return strings.Join(parts, " | ")
	}
	var name string
	if t.Primitive != "" {
		name = fidelisTypeNames[t.Primitive]
		if name == "" {
			name = t.Primitive
		}
	} else if t.Resource != "" {
		name = t.Resource
	} else if t.Generic != "" {
		name = t.Generic
		if t.Generic == "unio" {
			var parts []string
			for _, u := range t.Union {
				parts = append(parts, g.typeName(u))
			}
			return strings.Join(parts, " | ")
		}
	}
	if len(t.TypeArgs) > 0 {
		var parts []string
		for _, a := range t.TypeArgs {
			parts = append(parts, g.typeName(a))
		}
		name += "<" + strings.Join(parts, ", ") + ">"
	}
	if t.Nullable {
		name += " | null"
	}
	return name
}

func (g *fidelisGenerator) indent() string { return strings.Repeat("  ", g.depth) }

func (g *fidelisGenerator) block(body []ast.Stmt) {
	g.write("{\n")
	g.depth++
	if len(body) == 0 {
		g.write(g.indent())
		g.write("// noop\n")
	}
	for _, s := range body {
		g.genLeading(s)
		g.write(g.indent())
		g.genStatement(s)
		g.genTrailing(s)
	}
	g.depth--
	g.write(g.indent())
	g.write("}")
}

func (g *fidelisGenerator) genLeading(n ast.Node) {
	for _, c := range commentsOf(n, true) {
		g.write(g.indent())
		g.write(commentSyntaxTS(c))
		g.write("\n")
	}
}

func (g *fidelisGenerator) genTrailing(n ast.Node) {
	if cs := commentsOf(n, false); len(cs) > 0 {
		g.write(" " + commentSyntaxTS(cs[0]))
	}
	g.write("\n")
}

func commentSyntaxTS(c ast.Comment) string {
	if c.Kind == lexer.CommentBlock || c.Kind == lexer.CommentDoc {
		return "/*" + c.Value + "*/"
	}
	return "//" + c.Value
}

func visibilityPrefix(anns []ast.Annotation) string {
	for _, a := range anns {
		a := a
		if v, ok := ast.VisibilityOf(&a); ok {
			switch v {
			case "publicum":
				return "export "
			case "privatum", "intus":
				return ""
			}
		}
	}
	return ""
}

func (g *fidelisGenerator) genStatement(stmt ast.Stmt) {
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
		g.write(visibilityPrefix(s.Annotations) + "type " + s.Name + " = " + g.typeName(s.Type) + ";\n")
	case *ast.OrdoDecl:
		g.write(visibilityPrefix(s.Annotations) + "enum " + s.Name + " {\n")
		g.depth++
		for _, v := range s.Values {
			g.write(g.indent() + v + ",\n")
		}
		g.depth--
		g.write("}\n")
	case *ast.DiscretioDecl:
		g.genDiscretio(s)
	case *ast.SiStmt:
		g.genSi(s)
	case *ast.DumStmt:
		g.write("while (" + g.genExpr(s.Cond) + ") ")
		g.block(s.Body)
		g.write("\n")
	case *ast.IteratioStmt:
		g.genIteratio(s)
	case *ast.InStmt:
		g.write("with (" + g.genExpr(s.Target) + ") ")
		g.block(s.Body)
		g.write("\n")
	case *ast.EligeStmt:
		g.genElige(s)
	case *ast.DiscerneStmt:
		g.genDiscerne(s)
	case *ast.CustodiStmt:
		g.genCustodi(s)
	case *ast.AdfirmaStmt:
		g.write("console.assert(" + g.genExpr(s.Cond))
		if s.Message != nil {
			g.write(", " + g.genExpr(s.Message))
		}
		g.write(");\n")
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
		g.write("throw " + g.genExpr(s.Value) + ";\n")
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
		g.write("describe(" + strconv.Quote(s.Name) + ", () => ")
		g.block(s.Body)
		g.write(");\n")
	case *ast.ProbaStmt:
		g.genProba(s)
	case *ast.ExpressionStmt:
		g.write(g.genExpr(s.Expression) + ";\n")
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("fidelis: unsupported statement node %T", stmt), stmt.GetLocation())
	}
}

func (g *fidelisGenerator) genImporta(s *ast.ImportaDecl) {
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
		names = append(names, "..."+rest)
	}
	g.write("import { " + strings.Join(names, ", ") + " } from " + strconv.Quote(s.Source) + ";\n")
}

func (g *fidelisGenerator) genDestructure(s *ast.DestructureDecl) {
	kw := varKeywordTS(s.BindKind)
	var names []string
	for _, spec := range s.Specifiers {
		if spec.Rest {
			names = append(names, "..."+spec.Imported)
			continue
		}
		if spec.Local != "" && spec.Local != spec.Imported {
			names = append(names, spec.Imported+": "+spec.Local)
		} else {
			names = append(names, spec.Imported)
		}
	}
	g.write(kw + " { " + strings.Join(names, ", ") + " } = " + g.genExpr(s.Source) + ";\n")
}

func varKeywordTS(kind string) string {
	if kind == "fixum" {
		return "const"
	}
	return "let"
}

func (g *fidelisGenerator) genVaria(s *ast.VariaDecl) {
	kw := varKeywordTS(s.BindKind)
	async := s.BindKind == "figendum" || s.BindKind == "variandum"
	if s.Pattern != nil {
		g.write(kw + " " + patternTS(s.Pattern) + " = ")
		if async {
			g.write("await ")
		}
		g.write(g.genExpr(s.Initializer) + ";\n")
		return
	}
	g.write(kw + " " + s.Name)
	if s.Type != nil {
		g.write(": " + g.typeName(s.Type))
		if s.Nullable {
			g.write(" | null")
		}
	}
	if s.Initializer != nil {
		g.write(" = ")
		if async {
			g.write("await ")
		}
		g.write(g.genExpr(s.Initializer))
	}
	g.write(";\n")
}

func patternTS(p *ast.Pattern) string {
	var parts []string
	for _, e := range p.Elements {
		switch {
		case e.Rest:
			parts = append(parts, "..."+e.Name)
		case e.Skip && p.IsArray:
			parts = append(parts, "")
		case e.Alias != "" && e.Alias != e.Name:
			parts = append(parts, e.Name+": "+e.Alias)
		default:
			parts = append(parts, e.Name)
		}
	}
	if p.IsArray {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (g *fidelisGenerator) genParams(params []ast.Param) string {
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

func (g *fidelisGenerator) genTypeParams(tp []ast.Param) string {
	if len(tp) == 0 {
		return ""
	}
	var names []string
	for _, t := range tp {
		names = append(names, t.InternalName)
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func returnVerbImplications(verb string) (async, generator bool) {
	switch verb {
	case "fiet":
		return true, false
	case "fiunt":
		return false, true
	case "fient":
		return true, true
	}
	return false, false
}

func (g *fidelisGenerator) genFunctio(s *ast.FunctioDecl) {
	async, generator := s.Async, s.Generator
	if s.ReturnVerb != "" {
		async, generator = returnVerbImplications(s.ReturnVerb)
		async = async || s.Async
		generator = generator || s.Generator
	}
	prevGen := g.inGenerator
	g.inGenerator = generator
	defer func() { g.inGenerator = prevGen }()

	name := s.Name
	if s.IsConstructor {
		name = "constructor"
	}
	kw := "function "
	if generator {
		kw = "function* "
	}
	prefix := visibilityPrefix(s.Annotations)
	if async {
		prefix += "async "
	}
	g.write(prefix + kw + name + g.genTypeParams(s.TypeParams) + "(" + g.genParams(s.Params) + ")")
	if s.ReturnType != nil {
		g.write(": " + g.typeName(s.ReturnType))
	}
	g.write(" ")
	g.block(s.Body)
	g.write("\n")
}

func (g *fidelisGenerator) genPactum(s *ast.PactumDecl) {
	g.write(visibilityPrefix(s.Annotations) + "interface " + s.Name + " {\n")
	g.depth++
	for _, m := range s.Methods {
		g.write(g.indent() + m.Name + "(" + g.genParams(m.Params) + ")")
		if m.ReturnType != nil {
			g.write(": " + g.typeName(m.ReturnType))
		}
		g.write(";\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *fidelisGenerator) genGenus(s *ast.GenusDecl) {
	g.write(visibilityPrefix(s.Annotations) + "class " + s.Name)
	if s.Super != "" {
		g.write(" extends " + s.Super)
	}
	if len(s.Implements) > 0 {
		g.write(" implements " + strings.Join(s.Implements, ", "))
	}
	g.write(" {\n")
	g.depth++
	for _, f := range s.Fields {
		mark := "!"
		if f.Nullable {
			mark = "?"
		}
		g.write(g.indent() + f.Name + mark + ": " + g.typeName(f.Type) + ";\n")
	}
	for _, m := range s.Methods {
		g.write(g.indent())
		g.genFunctio(m)
	}
	g.depth--
	g.write("}\n")
}

func (g *fidelisGenerator) genDiscretio(s *ast.DiscretioDecl) {
	g.write(visibilityPrefix(s.Annotations) + "type " + s.Name + " =\n")
	g.depth++
	var arms []string
	for _, v := range s.Variants {
		var fields []string
		fields = append(fields, "kind: \""+v.Name+"\"")
		for _, f := range v.Fields {
			fields = append(fields, f.Name+": "+g.typeName(f.Type))
		}
		arms = append(arms, g.indent()+"| { "+strings.Join(fields, "; ")+" }")
	}
	g.write(strings.Join(arms, "\n") + ";\n")
	g.depth--
}

func (g *fidelisGenerator) genSi(s *ast.SiStmt) {
	g.write("if (" + g.genExpr(s.Cond) + ") ")
	if s.ThenErgo != nil {
		g.write("{ ")
		g.genStatement(s.ThenErgo)
		g.write("}")
	} else {
		g.block(s.Then)
	}
	if s.ElseIf != nil {
		g.write(" else ")
		g.genSi(s.ElseIf)
		return
	}
	if s.Else != nil {
		g.write(" else ")
		g.block(s.Else)
	}
	g.write("\n")
}

func (g *fidelisGenerator) genIteratio(s *ast.IteratioStmt) {
	src := g.genExpr(s.Source)
	src = applyDSLTS(g, src, s.DSL)
	if s.KeyBind != "" {
		g.write("for (const " + s.Binding + " of Object.keys(" + src + ")) ")
	} else {
		g.write("for (const " + s.Binding + " of " + src + ") ")
	}
	g.block(s.Body)
	g.write("\n")
}

func applyDSLTS(g *fidelisGenerator, src string, dsl []ast.DSLTransform) string {
	for _, t := range dsl {
		switch t.Verb {
		case "prima":
			src = src + ".slice(0, " + g.genExpr(t.N) + ")"
		case "ultima":
			src = src + ".slice(-(" + g.genExpr(t.N) + "))"
		case "summa":
			src = src + ".reduce((a, b) => a + b, 0)"
		}
	}
	return src
}

func (g *fidelisGenerator) genElige(s *ast.EligeStmt) {
	subj := g.genExpr(s.Subject)
	g.write("switch (true) {\n")
	g.depth++
	for _, c := range s.Cases {
		if c.Cond == nil {
			g.write(g.indent() + "default: {\n")
		} else {
			g.write(g.indent() + "case (" + subj + " === " + g.genExpr(c.Cond) + "): {\n")
		}
		g.depth++
		for _, st := range c.Body {
			g.write(g.indent())
			g.genStatement(st)
		}
		g.write(g.indent() + "break;\n")
		g.depth--
		g.write(g.indent() + "}\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *fidelisGenerator) genDiscerne(s *ast.DiscerneStmt) {
	subj := g.genExpr(s.Subject)
	g.write("switch (" + subj + ".kind) {\n")
	g.depth++
	for _, c := range s.Cases {
		g.write(g.indent() + "case \"" + c.VariantName + "\": {\n")
		g.depth++
		for _, b := range c.Bindings {
			g.write(g.indent() + "const " + b + " = " + subj + "." + b + ";\n")
		}
		for _, st := range c.Body {
			g.write(g.indent())
			g.genStatement(st)
		}
		g.write(g.indent() + "break;\n")
		g.depth--
		g.write(g.indent() + "}\n")
	}
	g.depth--
	g.write("}\n")
}

func (g *fidelisGenerator) genCustodi(s *ast.CustodiStmt) {
	for i, c := range s.Cases {
		if i > 0 {
			g.write(g.indent() + "else ")
		}
		if c.Cond != nil {
			g.write("if (" + g.genExpr(c.Cond) + ") ")
		}
		g.block(c.Body)
		if i < len(s.Cases)-1 {
			g.write("\n")
		}
	}
	g.write("\n")
}

func (g *fidelisGenerator) genTempta(s *ast.TemptaStmt) {
	g.write("try ")
	g.block(s.Body)
	if s.Cape != nil {
		g.write(" catch (" + s.Cape.Binding + ") ")
		g.block(s.Cape.Body)
	}
	if s.Finally != nil {
		g.write(" finally ")
		g.block(s.Finally)
	}
	g.write("\n")
}

func (g *fidelisGenerator) genFacBlock(s *ast.FacBlockStmt) {
	if s.WhileCond != nil {
		g.write("do ")
		g.block(s.Body)
		g.write(" while (" + g.genExpr(s.WhileCond) + ");\n")
		return
	}
	g.block(s.Body)
	g.write("\n")
}

func (g *fidelisGenerator) genCura(s *ast.CuraStmt) {
	g.write("{\n")
	g.depth++
	g.write(g.indent() + "using " + s.Binding + " = " + g.genExpr(s.Resource) + ";\n")
	for _, st := range s.Body {
		g.write(g.indent())
		g.genStatement(st)
	}
	g.depth--
	g.write(g.indent() + "}\n")
}

func (g *fidelisGenerator) genAd(s *ast.AdStmt) {
	var args []string
	for _, a := range s.Args {
		args = append(args, g.genExpr(a))
	}
	call := "client." + s.Target + "(" + strings.Join(args, ", ") + ")"
	if s.Verb == "fiet" || s.Verb == "fient" {
		call = "await " + call
	}
	if s.Binding != "" {
		g.write("const " + s.Binding + " = " + call + ";\n")
	} else {
		g.write(call + ";\n")
	}
	if s.Body != nil {
		g.write(g.indent())
		g.block(s.Body)
		g.write("\n")
	}
}

func (g *fidelisGenerator) genIncipit(s *ast.IncipitStmt) {
	prefix := ""
	if s.Async {
		prefix = "async "
	}
	g.write(prefix + "function main() ")
	if s.ErgoStmt != nil {
		g.write("{ ")
		g.genStatement(s.ErgoStmt)
		g.write("}\n")
		return
	}
	g.block(s.Body)
	g.write("\nmain();\n")
}

func (g *fidelisGenerator) genPraepara(s *ast.PraeparaStmt) {
	hook := map[string]string{"praepara": "beforeEach", "praeparabit": "beforeEach", "postpara": "afterEach", "postparabit": "afterEach"}[s.Verb]
	if s.Omnia {
		if strings.HasPrefix(hook, "before") {
			hook = "beforeAll"
		} else {
			hook = "afterAll"
		}
	}
	g.write(hook + "(() => ")
	g.block(s.Body)
	g.write(");\n")
}

func (g *fidelisGenerator) genProba(s *ast.ProbaStmt) {
	fn := "it"
	if s.Omitted {
		fn = "it.skip"
	} else if s.FutureNote != "" {
		fn = "it.todo"
	}
	g.write(fn + "(" + strconv.Quote(s.Name) + ", () => ")
	g.block(s.Body)
	g.write(");\n")
}

// ---- expressions ----

func (g *fidelisGenerator) genExpr(e ast.Expr) string {
	g.mark(e.GetLocation())
	switch x := e.(type) {
	case *ast.Literal:
		return g.genLiteral(x)
	case *ast.Identifier:
		return x.Name
	case *ast.EgoExpr:
		return "this"
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
				parts = append(parts, "..."+g.genExpr(p.Value))
				continue
			}
			key := p.Key
			if p.Computed {
				key = "[" + g.genExpr(p.KeyExpr) + "]"
			}
			parts = append(parts, key+": "+g.genExpr(p.Value))
		}
		return "{ " + strings.Join(parts, ", ") + " }"
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
		return "{ kind: \"" + x.VariantName + "\"" + joinArgsObj(args) + " }"
	case *ast.ConditionalExpr:
		return g.genExpr(x.Cond) + " ? " + g.genExpr(x.Then) + " : " + g.genExpr(x.Else)
	case *ast.QuaExpr:
		return "(" + g.genExpr(x.Operand) + " as " + g.typeName(x.Type) + ")"
	case *ast.EstExpr:
		neg := ""
		if x.Negated {
			neg = "!"
		}
		return neg + "(" + g.genExpr(x.Operand) + " instanceof " + g.typeName(x.Type) + ")"
	case *ast.PraefixumExpr:
		return g.genExpr(x.Operand)
	case *ast.ScriptumExpr:
		return g.genScriptum(x)
	case *ast.LegeExpr:
		g.requireFeature("readline")
		return "(await readLine())"
	case *ast.RegexExpr:
		return "/" + x.Pattern + "/" + x.Flags
	case *ast.CollectionDSLExpr:
		return g.genCollectionDSL(x)
	case *ast.SpreadExpr:
		return "..." + g.genExpr(x.Operand)
	default:
		g.fail(errors.ErrCodegenUnsupportedNode, fmt.Sprintf("fidelis: unsupported expression node %T", e), e.GetLocation())
		return ""
	}
}

func joinArgsObj(args []string) string {
	if len(args) == 0 {
		return ""
	}
	var parts []string
	for i, a := range args {
		parts = append(parts, fmt.Sprintf("f%d: %s", i, a))
	}
	return ", " + strings.Join(parts, ", ")
}

func (g *fidelisGenerator) genLiteral(x *ast.Literal) string {
	switch x.LitKind {
	case ast.LitNihil:
		return "null"
	case ast.LitBool:
		if v, _ := x.Value.(bool); v {
			return "true"
		}
		return "false"
	case ast.LitString:
		return strconv.Quote(fmt.Sprint(x.Value))
	case ast.LitBigInt:
		return x.Raw + "n"
	default:
		return x.Raw
	}
}

func (g *fidelisGenerator) genTemplate(x *ast.TemplateExpr) string {
	var b strings.Builder
	b.WriteString("`")
	for _, p := range x.Parts {
		if p.Expr != nil {
			b.WriteString("${" + g.genExpr(p.Expr) + "}")
		} else {
			b.WriteString(p.Text)
		}
	}
	b.WriteString("`")
	return b.String()
}

func (g *fidelisGenerator) genRange(x *ast.RangeExpr) string {
	end := g.genExpr(x.End)
	if x.Inclusive {
		end = end + " + 1"
	}
	step := "1"
	if x.Step != nil {
		step = g.genExpr(x.Step)
	}
	return "rangeTo(" + g.genExpr(x.Start) + ", " + end + ", " + step + ")"
}

var binOpTS = map[string]string{"&&": "&&", "||": "||", "??": "??", "===": "===", "!==": "!=="}

func (g *fidelisGenerator) genBinary(x *ast.BinaryExpr) string {
	op := x.Op
	if mapped, ok := binOpTS[op]; ok {
		op = mapped
	}
	return "(" + g.genExpr(x.Left) + " " + op + " " + g.genExpr(x.Right) + ")"
}

func (g *fidelisGenerator) genUnary(x *ast.UnaryExpr) string {
	operand := g.genExpr(x.Operand)
	switch x.Op {
	case "nulla":
		return "(" + operand + " == null || (Array.isArray(" + operand + ") ? " + operand + ".length === 0 : Object.keys(" + operand + ").length === 0))"
	case "nonnulla":
		return "!(" + operand + " == null)"
	case "nihil":
		return "(" + operand + " === null)"
	case "nonnihil":
		return "(" + operand + " !== null)"
	case "negativum":
		return "(" + operand + " < 0)"
	case "positivum":
		return "(" + operand + " > 0)"
	case "non":
		return "!" + operand
	default:
		return x.Op + operand
	}
}

func (g *fidelisGenerator) genCall(x *ast.CallExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	callee := g.genExpr(x.Callee)
	paren := "("
	if x.Optional {
		paren = "?.("
	}
	return callee + paren + strings.Join(args, ", ") + ")"
}

func (g *fidelisGenerator) genMember(x *ast.MemberExpr) string {
	obj := g.genExpr(x.Object)
	if x.Computed {
		op := "["
		if x.Optional {
			op = "?.["
		}
		return obj + op + g.genExpr(x.Index) + "]"
	}
	op := "."
	if x.Optional {
		op = "?."
	}
	if x.NonNull {
		obj = obj + "!"
	}
	return obj + op + x.Property
}

func (g *fidelisGenerator) genLambda(x *ast.LambdaExpr) string {
	var params []string
	for _, p := range x.Params {
		params = append(params, p.InternalName)
	}
	prefix := ""
	if x.Async {
		prefix = "async "
	}
	if x.Expression != nil {
		return prefix + "(" + strings.Join(params, ", ") + ") => " + g.genExpr(x.Expression)
	}
	var b strings.Builder
	b.WriteString(prefix + "(" + strings.Join(params, ", ") + ") => {\n")
	g.depth++
	for _, s := range x.Body {
		b.WriteString(g.indent())
		b.WriteString(captureStatement(g, s))
	}
	g.depth--
	b.WriteString(g.indent() + "}")
	return b.String()
}

// captureStatement renders one statement into a string by temporarily
// swapping the generator's buffer, used where a nested block must become an
// inline expression fragment (lambda bodies).
func captureStatement(g *fidelisGenerator, s ast.Stmt) string {
	saved := g.buf
	g.buf = strings.Builder{}
	g.genStatement(s)
	out := g.buf.String()
	g.buf = saved
	return out
}

func (g *fidelisGenerator) genNovum(x *ast.NovumExpr) string {
	var args []string
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	call := "new " + g.typeName(x.Type) + "(" + strings.Join(args, ", ") + ")"
	if x.With != nil {
		call = "Object.assign(" + call + ", " + g.genExpr(x.With) + ")"
	} else if x.WithFrom != nil {
		call = "Object.assign(" + call + ", " + g.genExpr(x.WithFrom) + ")"
	}
	return call
}

func (g *fidelisGenerator) genScriptum(x *ast.ScriptumExpr) string {
	format := strings.ReplaceAll(x.Format, "§", "%s")
	var args []string
	args = append(args, strconv.Quote(format))
	for _, a := range x.Args {
		args = append(args, g.genExpr(a))
	}
	g.requireFeature("sprintf")
	return "format(" + strings.Join(args, ", ") + ")"
}

func (g *fidelisGenerator) genCollectionDSL(x *ast.CollectionDSLExpr) string {
	src := g.genExpr(x.Source)
	if x.Predicate != nil {
		neg := ""
		if x.Negated {
			neg = "!"
		}
		src = src + ".filter(_item => " + neg + "(" + g.genExpr(x.Predicate) + "))"
	} else if x.PropName != "" {
		neg := ""
		if x.Negated {
			neg = "!"
		}
		src = src + ".filter(_item => " + neg + "_item." + x.PropName + ")"
	}
	return applyDSLTS(g, src, x.Transforms)
}
