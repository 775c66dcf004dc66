// Package format implements the round-trip pretty-printer spec.md §6
// requires: Format(program) re-emits canonical Vertere source syntax from
// the AST, independent of and never consulted by codegen.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertere-lang/vertere/compiler/ast"
)

// printer carries indentation state for one Format call. A fresh printer is
// created per call and never shared, matching the codegen generators'
// isolated-by-value convention.
type printer struct {
	buf   strings.Builder
	depth int
}

// Format re-emits a Program as canonical Vertere source text.
func Format(program *ast.Program) string {
	p := &printer{}
	for _, s := range program.Body {
		p.stmt(s)
	}
	return p.buf.String()
}

func (p *printer) indent() string { return strings.Repeat("  ", p.depth) }

func (p *printer) write(s string) { p.buf.WriteString(s) }

func (p *printer) block(body []ast.Stmt) {
	p.write("{\n")
	p.depth++
	for _, s := range body {
		p.write(p.indent())
		p.stmt(s)
	}
	p.depth--
	p.write(p.indent() + "}\n")
}

func (p *printer) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.VariaDecl:
		p.write(n.BindKind + " ")
		if n.Pattern != nil {
			p.write(pattern(n.Pattern))
		} else {
			if n.Type != nil {
				p.write(typeStr(n.Type) + " ")
			}
			p.write(n.Name)
		}
		if n.Initializer != nil {
			p.write(" = " + p.expr(n.Initializer))
		}
		p.write("\n")
	case *ast.FunctioDecl:
		p.write("functio " + n.Name + "(" + params(n.Params) + ")")
		if n.ReturnVerb != "" {
			p.write(" " + n.ReturnVerb)
		} else if n.ReturnType != nil {
			p.write(" ->")
		}
		if n.ReturnType != nil {
			p.write(" " + typeStr(n.ReturnType))
		}
		if n.ReturnVerb == "" && n.Async {
			p.write(" futura")
		}
		if n.ReturnVerb == "" && n.Generator {
			p.write(" cursor")
		}
		p.write(" ")
		p.block(n.Body)
	case *ast.TypeAliasDecl:
		p.write("typus " + n.Name + " = " + typeStr(n.Type) + "\n")
	case *ast.OrdoDecl:
		p.write("ordo " + n.Name + " { " + strings.Join(n.Values, ", ") + " }\n")
	case *ast.GenusDecl:
		p.write("genus " + n.Name)
		if n.Super != "" {
			p.write(" sub " + n.Super)
		}
		if len(n.Implements) > 0 {
			p.write(" implet " + strings.Join(n.Implements, ", "))
		}
		p.write(" {\n")
		p.depth++
		for _, f := range n.Fields {
			marker := "!"
			if f.Nullable {
				marker = "" // typeStr already ends a nullable type with "?"
			}
			p.write(p.indent() + f.Name + ": " + typeStr(f.Type) + marker + "\n")
		}
		for _, m := range n.Methods {
			p.write(p.indent())
			p.stmt(m)
		}
		p.depth--
		p.write(p.indent() + "}\n")
	case *ast.SiStmt:
		kw := "si "
		for cur := n; cur != nil; cur = cur.ElseIf {
			if cur != n {
				p.write(p.indent())
			}
			p.write(kw + p.expr(cur.Cond) + " ")
			kw = "sin "
			if cur.ThenErgo != nil {
				p.write("ergo ")
				p.stmt(cur.ThenErgo)
			} else {
				p.block(cur.Then)
			}
			if cur.ElseIf == nil && cur.Else != nil {
				p.write(p.indent() + "secus ")
				p.block(cur.Else)
			}
		}
	case *ast.DumStmt:
		p.write("dum " + p.expr(n.Cond) + " ")
		p.block(n.Body)
	case *ast.AdfirmaStmt:
		p.write("adfirma " + p.expr(n.Cond))
		if n.Message != nil {
			p.write(", " + p.expr(n.Message))
		}
		p.write("\n")
	case *ast.ReddeStmt:
		if n.Value != nil {
			p.write("redde " + p.expr(n.Value) + "\n")
		} else {
			p.write("redde\n")
		}
	case *ast.RumpeStmt:
		p.write("rumpe\n")
	case *ast.PergeStmt:
		p.write("perge\n")
	case *ast.IaceStmt:
		kw := "iace"
		if n.Fatal {
			kw = "mori"
		}
		p.write(kw + " " + p.expr(n.Value) + "\n")
	case *ast.ExpressionStmt:
		p.write(p.expr(n.Expression) + "\n")
	default:
		p.write(fmt.Sprintf("/* unformatted: %T */\n", s))
	}
}

func pattern(pt *ast.Pattern) string {
	var parts []string
	for _, e := range pt.Elements {
		switch {
		case e.Rest:
			parts = append(parts, "ceteri "+e.Name)
		case e.Skip:
			parts = append(parts, "_")
		case e.Alias != "" && e.Alias != e.Name:
			parts = append(parts, e.Name+" ut "+e.Alias)
		default:
			parts = append(parts, e.Name)
		}
	}
	open, close := "[", "]"
	if !pt.IsArray {
		open, close = "{", "}"
	}
	return open + strings.Join(parts, ", ") + close
}

func params(ps []ast.Param) string {
	var parts []string
	for _, pm := range ps {
		s := ""
		if pm.Preposition != "" {
			s += pm.Preposition + " "
		}
		if pm.Type != nil {
			s += typeStr(pm.Type) + " "
		}
		s += pm.ExternalName
		if pm.InternalName != "" && pm.InternalName != pm.ExternalName {
			s += " ut " + pm.InternalName
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func typeStr(t *ast.TypeNode) string {
	if t == nil {
		return ""
	}
	var name string
	switch {
	case t.Fields != nil:
		var parts []string
		for _, f := range t.Fields {
			marker := "!"
			if f.Nullable {
				marker = ""
			}
			parts = append(parts, f.Name+": "+typeStr(f.Type)+marker)
		}
		name = "{ " + strings.Join(parts, ", ") + " }"
	case t.ArrayShorthand:
		name = typeStr(t.ElementType) + "[]"
	case len(t.Union) > 0:
		var parts []string
		for _, u := range t.Union {
			parts = append(parts, typeStr(u))
		}
		name = strings.Join(parts, " | ")
	case t.Primitive != "":
		name = t.Primitive
	case t.Resource != "":
		name = t.Resource
	case t.Generic != "":
		name = t.Generic
		if len(t.TypeArgs) > 0 {
			var parts []string
			for _, a := range t.TypeArgs {
				parts = append(parts, typeStr(a))
			}
			name += "<" + strings.Join(parts, ", ") + ">"
		}
	}
	if t.Borrow == "de" {
		name = "de " + name
	} else if t.Borrow == "in" {
		name = "in " + name
	}
	if t.Nullable {
		name += "?"
	}
	return name
}

func (p *printer) expr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Literal:
		return literal(x)
	case *ast.Identifier:
		return x.Name
	case *ast.EgoExpr:
		return "ego"
	case *ast.ArrayExpr:
		var parts []string
		for _, el := range x.Elements {
			parts = append(parts, p.expr(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.BinaryExpr:
		return p.expr(x.Left) + " " + x.Op + " " + p.expr(x.Right)
	case *ast.UnaryExpr:
		return x.Op + " " + p.expr(x.Operand)
	case *ast.CallExpr:
		var args []string
		for _, a := range x.Args {
			args = append(args, p.expr(a))
		}
		call := "("
		if x.Optional {
			call = "?("
		}
		return p.expr(x.Callee) + call + strings.Join(args, ", ") + ")"
	case *ast.MemberExpr:
		sep := "."
		if x.Optional {
			sep = "?."
		}
		if x.Computed {
			return p.expr(x.Object) + "[" + p.expr(x.Index) + "]"
		}
		return p.expr(x.Object) + sep + x.Property
	case *ast.ConditionalExpr:
		return p.expr(x.Cond) + " ? " + p.expr(x.Then) + " : " + p.expr(x.Else)
	case *ast.AssignmentExpr:
		return p.expr(x.Target) + " " + x.Op + " " + p.expr(x.Value)
	default:
		return fmt.Sprintf("/* unformatted: %T */", e)
	}
}

func literal(x *ast.Literal) string {
	switch x.LitKind {
	case ast.LitNihil:
		return "nihil"
	case ast.LitBool:
		if v, _ := x.Value.(bool); v {
			return "verum"
		}
		return "falsum"
	case ast.LitString:
		return strconv.Quote(fmt.Sprint(x.Value))
	default:
		return x.Raw
	}
}
