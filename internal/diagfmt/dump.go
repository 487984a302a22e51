package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"cascade/internal/ast"
	"cascade/internal/model"
	"cascade/internal/source"
	"cascade/internal/token"
)

// Tokens writes one line per token with its resolved position.
func Tokens(w io.Writer, toks []token.Token, fs *source.FileSet) {
	for _, t := range toks {
		start, _ := fs.Resolve(t.Span)
		if t.Text != "" && t.Kind != token.EOF {
			fmt.Fprintf(w, "%4d:%-3d %-12s %q\n", start.Line, start.Col, t.Kind, t.Text)
		} else {
			fmt.Fprintf(w, "%4d:%-3d %s\n", start.Line, start.Col, t.Kind)
		}
	}
}

// AST writes an indented outline of the file's statements.
func AST(w io.Writer, file *ast.File) {
	for _, s := range file.Statements {
		writeStmt(w, s, 0)
	}
}

func indent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat("  ", depth))
}

func writeStmt(w io.Writer, s ast.Statement, depth int) {
	indent(w, depth)
	switch s := s.(type) {
	case *ast.UseStatement:
		decls := make([]string, len(s.Decls))
		for i, d := range s.Decls {
			decls[i] = strings.Join(d.Path, "::")
			if d.Wildcard {
				decls[i] += "::*"
			}
			if d.Alias != "" {
				decls[i] += " as " + d.Alias
			}
		}
		fmt.Fprintf(w, "use %s\n", strings.Join(decls, ", "))
	case *ast.AssignStatement:
		fmt.Fprintf(w, "assign %s%s\n", visPrefix(s.Visibility), s.Name)
		writeExpr(w, s.Value, depth+1)
	case *ast.FunctionDef:
		fmt.Fprintf(w, "fn %s%s(%s)\n", visPrefix(s.Visibility), s.Name, paramNames(s.Params))
		writeBody(w, s.Body, depth+1)
	case *ast.ModuleDef:
		fmt.Fprintf(w, "mod %s%s\n", visPrefix(s.Visibility), s.Name)
		writeBody(w, s.Body, depth+1)
	case *ast.WorkbenchDef:
		fmt.Fprintf(w, "%s %s%s(%s)\n", s.Kind, visPrefix(s.Visibility), s.Name, paramNames(s.Params))
		writeBody(w, s.Body, depth+1)
	case *ast.ReturnStatement:
		fmt.Fprintln(w, "return")
		if s.Value != nil {
			writeExpr(w, s.Value, depth+1)
		}
	case *ast.IfStatement:
		fmt.Fprintln(w, "if")
		writeExpr(w, s.Cond, depth+1)
		writeBody(w, s.Then, depth+1)
		if s.Else != nil {
			indent(w, depth)
			fmt.Fprintln(w, "else")
			writeBody(w, s.Else, depth+1)
		}
	case *ast.ExpressionStatement:
		label := "expr"
		for _, a := range s.Attributes {
			label += " #[" + a.Name + "]"
		}
		fmt.Fprintln(w, label)
		writeExpr(w, s.Expr, depth+1)
	case *ast.ChildrenMarker:
		fmt.Fprintln(w, "@children")
	default:
		fmt.Fprintf(w, "%T\n", s)
	}
}

func writeBody(w io.Writer, b *ast.Body, depth int) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		writeStmt(w, s, depth)
	}
}

func writeExpr(w io.Writer, e ast.Expression, depth int) {
	indent(w, depth)
	switch e := e.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.LitInt:
			fmt.Fprintf(w, "int %d\n", e.Int)
		case ast.LitNumber:
			fmt.Fprintf(w, "number %g\n", e.Number)
		case ast.LitBool:
			fmt.Fprintf(w, "bool %t\n", e.Bool)
		case ast.LitString:
			fmt.Fprintf(w, "string %q\n", e.Str)
		}
	case *ast.ListExpr:
		fmt.Fprintf(w, "list (%d)\n", len(e.Elems))
		for _, el := range e.Elems {
			writeExpr(w, el, depth+1)
		}
	case *ast.NameExpr:
		fmt.Fprintf(w, "name %s\n", strings.Join(e.Path, "::"))
	case *ast.CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = a.Name
		}
		fmt.Fprintf(w, "call %s(%s)\n", strings.Join(e.Callee.Path, "::"), strings.Join(args, ", "))
		for _, a := range e.Args {
			writeExpr(w, a.Value, depth+1)
		}
		if e.Trailing != nil {
			writeExpr(w, e.Trailing, depth+1)
		}
		writeBody(w, e.Body, depth+1)
	case *ast.GroupExpr:
		fmt.Fprintln(w, "group")
		writeBody(w, e.Body, depth+1)
	case *ast.BinaryExpr:
		fmt.Fprintf(w, "binary %s\n", e.Op)
		writeExpr(w, e.LHS, depth+1)
		writeExpr(w, e.RHS, depth+1)
	case *ast.UnaryExpr:
		fmt.Fprintf(w, "unary %s\n", e.Op)
		writeExpr(w, e.Operand, depth+1)
	default:
		fmt.Fprintf(w, "%T\n", e)
	}
}

func paramNames(params []ast.Parameter) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

func visPrefix(v ast.Visibility) string {
	if v == ast.Public {
		return "pub "
	}
	return ""
}

// ModelTree writes the evaluated tree with element names, bound
// arguments and inferred output types.
func ModelTree(w io.Writer, root *model.Model) {
	writeModel(w, root, 0)
}

func writeModel(w io.Writer, m *model.Model, depth int) {
	indent(w, depth)
	fmt.Fprintf(w, "%s%s [%s]\n", elementLabel(m.Element), boundArgs(m.Element), m.Output.Type)
	for _, c := range m.Children() {
		writeModel(w, c, depth+1)
	}
}

func elementLabel(el model.Element) string {
	switch el := el.(type) {
	case model.Primitive:
		return el.Name
	case model.Operation:
		return el.Name
	case model.Transform:
		return el.Name
	case model.Workpiece:
		return el.Name
	default:
		return el.ElementKind()
	}
}

func boundArgs(el model.Element) string {
	var args []model.BoundArg
	switch el := el.(type) {
	case model.Primitive:
		args = el.Args
	case model.Operation:
		args = el.Args
	default:
		return ""
	}
	if len(args) == 0 {
		return "()"
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s = %s", a.Name, a.Value)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
