package eval

import (
	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/model"
	"cascade/internal/resolve"
	"cascade/internal/value"
)

// evalStatements runs a statement list in the current frame, stopping on a
// return or when the error limit aborts the pass.
func (c *Context) evalStatements(statements []ast.Statement) {
	for _, stmt := range statements {
		if c.aborted() || c.frame().returned {
			return
		}
		c.evalStatement(stmt)
	}
}

func (c *Context) evalStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		ev := c.evalExpression(s.Value)
		if len(ev.Models) > 0 {
			c.errorf(diag.EvalTypeMismatch, s.SrcSpan,
				"cannot assign a model to '%s'", s.Name)
			c.setLocal(s.Name, value.None)
			return
		}
		c.setLocal(s.Name, ev.Value)

	case *ast.ExpressionStatement:
		ev := c.evalExpression(s.Expr)
		attr := c.evalAttributes(s.Attributes)
		f := c.frame()
		for _, m := range ev.Models {
			m.Attr = m.Attr.Merge(attr)
			f.children = append(f.children, m)
		}

	case *ast.ReturnStatement:
		f := c.frame()
		f.retValue = value.None
		if s.Value != nil {
			ev := c.evalExpression(s.Value)
			f.retValue = ev.Value
		}
		f.returned = true

	case *ast.IfStatement:
		ev := c.evalExpression(s.Cond)
		if !ev.Value.Valid() {
			return
		}
		if ev.Value.Kind != value.KindBool {
			c.errorf(diag.EvalTypeMismatch, s.Cond.Span(),
				"condition has type %s, expected Bool", ev.Value.Type())
			return
		}
		if ev.Value.B {
			c.evalStatements(s.Then.Statements)
		} else if s.Else != nil {
			c.evalStatements(s.Else.Statements)
		}

	case *ast.ChildrenMarker:
		f := c.frame()
		marker := model.New(model.ChildrenMarker{})
		marker.Span = s.SrcSpan
		f.children = append(f.children, marker)

	case *ast.UseStatement, *ast.FunctionDef, *ast.ModuleDef, *ast.WorkbenchDef:
		// Handled during resolution.
	}
}

func (c *Context) evalExpression(expr ast.Expression) Evaluated {
	switch e := expr.(type) {
	case *ast.Literal:
		return valueResult(literalValue(e))

	case *ast.ListExpr:
		elems := make([]value.Value, 0, len(e.Elems))
		for _, el := range e.Elems {
			ev := c.evalExpression(el)
			elems = append(elems, ev.Value)
		}
		return valueResult(value.List(elems...))

	case *ast.NameExpr:
		return valueResult(c.evalName(e))

	case *ast.CallExpr:
		return c.evalCall(e)

	case *ast.GroupExpr:
		return c.evalGroup(e)

	case *ast.BinaryExpr:
		lhs := c.evalExpression(e.LHS).Value
		rhs := c.evalExpression(e.RHS).Value
		v, ok := value.BinaryOp(e.Op, lhs, rhs)
		if !ok {
			if e.Op == "/" || e.Op == "%" {
				c.errorf(diag.EvalDivisionByZero, e.SrcSpan, "division by zero")
			} else {
				c.errorf(diag.EvalInvalidOperands, e.SrcSpan,
					"operator '%s' cannot combine %s and %s", e.Op, lhs.Type(), rhs.Type())
			}
			return valueResult(value.None)
		}
		return valueResult(v)

	case *ast.UnaryExpr:
		operand := c.evalExpression(e.Operand).Value
		v, ok := value.UnaryOp(e.Op, operand)
		if !ok {
			c.errorf(diag.EvalInvalidOperands, e.SrcSpan,
				"operator '%s' cannot apply to %s", e.Op, operand.Type())
			return valueResult(value.None)
		}
		return valueResult(v)
	}
	return valueResult(value.None)
}

func literalValue(lit *ast.Literal) value.Value {
	switch lit.Kind {
	case ast.LitInt:
		return value.Int(lit.Int)
	case ast.LitNumber:
		return value.Number(lit.Number)
	case ast.LitBool:
		return value.Bool(lit.Bool)
	case ast.LitString:
		return value.Str(lit.Str)
	}
	return value.None
}

// evalName resolves a reference to a runtime value: frame locals win for
// bare names, then the symbol tree.
func (c *Context) evalName(e *ast.NameExpr) value.Value {
	if len(e.Path) == 1 {
		if v, ok := c.lookupLocal(e.Path[0]); ok {
			return v
		}
	}

	sym, code := c.resolver.Lookup(c.frame().Scope, resolve.QualifiedName(e.Path), e.SrcSpan)
	if code != 0 {
		return value.None
	}
	return c.symbolValue(sym, e)
}

// symbolValue reduces a symbol to a value. Module-level assignments are
// evaluated once and memoized; self-reference yields None with a
// diagnostic.
func (c *Context) symbolValue(sym *resolve.Symbol, e *ast.NameExpr) value.Value {
	if v, ok := sym.Builtin.(value.Value); ok {
		return v
	}
	if sym.Kind != resolve.SymValue {
		c.errorf(diag.EvalTypeMismatch, e.SrcSpan,
			"'%s' is a %s, not a value", sym.FullName(), sym.Kind)
		return value.None
	}

	if entry, ok := c.consts[sym]; ok {
		if entry.busy {
			c.errorf(diag.EvalTypeMismatch, e.SrcSpan,
				"'%s' refers to itself", sym.FullName())
			return value.None
		}
		return entry.val
	}

	def, ok := sym.Def.(*ast.AssignStatement)
	if !ok {
		return value.None
	}

	entry := &constEntry{busy: true}
	c.consts[sym] = entry

	c.push(&Frame{Scope: sym.Parent, Symbol: sym, CallSpan: e.SrcSpan})
	ev := c.evalExpression(def.Value)
	c.pop()

	entry.val = ev.Value
	entry.busy = false
	return ev.Value
}

// evalGroup evaluates a bare `{ ... }` body into a Group node.
func (c *Context) evalGroup(e *ast.GroupExpr) Evaluated {
	f := c.push(&Frame{Scope: c.frame().Scope})
	c.evalStatements(e.Body.Statements)
	children := f.children
	c.pop()

	group := model.New(model.Group{})
	group.Span = e.SrcSpan
	for _, m := range children {
		group.Append(m)
	}
	return modelResult(group)
}

// evalAttributes reduces an attribute list to model attributes.
func (c *Context) evalAttributes(attrs []ast.Attribute) model.Attributes {
	var out model.Attributes
	for _, a := range attrs {
		arg := func() value.Value {
			if len(a.Args) == 0 {
				return value.None
			}
			return c.evalExpression(a.Args[0].Value).Value
		}
		switch a.Name {
		case "export":
			v := arg()
			if v.Kind != value.KindString || v.S == "" {
				c.errorf(diag.EvalTypeMismatch, a.SrcSpan,
					"export expects a filename string")
				continue
			}
			out.Exports = append(out.Exports, v.S)
		case "color":
			if v := arg(); v.Kind == value.KindString {
				out.Color = v.S
			}
		case "layer":
			if v := arg(); v.Kind == value.KindString {
				out.Layer = v.S
			}
		case "resolution":
			if n, ok := arg().AsNumber(); ok && n > 0 {
				out.Resolution = n
			}
		default:
			diag.Warning(c.reporter, diag.SynBadAttribute, a.SrcSpan,
				"unknown attribute '"+a.Name+"'")
		}
	}
	return out
}
