package eval

import (
	"strings"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/model"
	"cascade/internal/resolve"
	"cascade/internal/source"
	"cascade/internal/value"
)

func (c *Context) evalCall(e *ast.CallExpr) Evaluated {
	sym, code := c.resolver.Lookup(c.frame().Scope, resolve.QualifiedName(e.Callee.Path), e.Callee.SrcSpan)
	if code != 0 {
		return valueResult(value.None)
	}

	args := c.evalCallArgs(e.Args)
	children := c.evalCallChildren(e)

	switch sym.Kind {
	case resolve.SymFunction:
		return c.callFunction(sym, e, args, children)
	case resolve.SymWorkbench:
		return c.callWorkbench(sym, e, args, children)
	case resolve.SymBuiltinFunction:
		return c.callBuiltin(sym, e, args, children)
	default:
		c.errorf(diag.EvalNotCallable, e.Callee.SrcSpan,
			"'%s' is a %s and cannot be called", sym.FullName(), sym.Kind)
		return valueResult(value.None)
	}
}

// evalCallArgs evaluates argument expressions left to right. Arguments are
// plain values; a model expression in argument position is an error.
func (c *Context) evalCallArgs(args []ast.Argument) []CallArg {
	out := make([]CallArg, 0, len(args))
	for _, a := range args {
		ev := c.evalExpression(a.Value)
		if len(ev.Models) > 0 {
			c.errorf(diag.EvalTypeMismatch, a.SrcSpan,
				"model expressions cannot be passed as arguments")
			ev.Value = value.None
		}
		out = append(out, CallArg{Name: a.Name, Value: ev.Value, Span: a.SrcSpan})
	}
	return out
}

// evalCallChildren evaluates the trailing model expression or trailing body
// of a call into the child nodes the callee receives.
func (c *Context) evalCallChildren(e *ast.CallExpr) []*model.Model {
	switch {
	case e.Trailing != nil:
		ev := c.evalExpression(e.Trailing)
		if len(ev.Models) == 0 {
			c.errorf(diag.EvalTypeMismatch, e.Trailing.Span(),
				"expected a model expression after the call")
		}
		return ev.Models

	case e.Body != nil:
		f := c.push(&Frame{Scope: c.frame().Scope})
		c.evalStatements(e.Body.Statements)
		children := f.children
		c.pop()
		return children
	}
	return nil
}

// childrenFor hands the evaluated children to combination i: the first
// combination takes the originals, later ones take deep clones so each
// model keeps a single parent.
func childrenFor(children []*model.Model, i int) []*model.Model {
	if i == 0 {
		return children
	}
	out := make([]*model.Model, len(children))
	for j, m := range children {
		out[j] = m.Clone()
	}
	return out
}

func (c *Context) callFunction(sym *resolve.Symbol, e *ast.CallExpr, args []CallArg, children []*model.Model) Evaluated {
	def := sym.Def.(*ast.FunctionDef)
	if len(children) > 0 {
		c.errorf(diag.EvalTypeMismatch, e.SrcSpan,
			"function '%s' does not take children", sym.FullName())
	}

	plist := c.paramList(sym, def.Params)
	mam, ok := BindArguments(plist, args, e.SrcSpan, c.reporter)
	if !ok {
		return valueResult(value.None)
	}

	var results []value.Value
	combos := mam.Combinations()
	for {
		am, more := combos.Next()
		if !more || c.aborted() {
			break
		}
		results = append(results, c.invokeFunction(sym, def, am, e.SrcSpan))
	}

	if mam.Count() == 1 && len(results) == 1 {
		return valueResult(results[0])
	}
	return valueResult(value.List(results...))
}

func (c *Context) invokeFunction(sym *resolve.Symbol, def *ast.FunctionDef, am ArgumentMap, span source.Span) value.Value {
	f := c.push(&Frame{Symbol: sym, Scope: sym, Args: am, CallSpan: span})
	defer c.pop()

	c.evalStatements(def.Body.Statements)
	if !f.returned {
		c.errorf(diag.EvalMissingReturn, span,
			"function '%s' ended without returning", sym.FullName())
		return value.None
	}
	return f.retValue
}

func (c *Context) callWorkbench(sym *resolve.Symbol, e *ast.CallExpr, args []CallArg, children []*model.Model) Evaluated {
	def := sym.Def.(*ast.WorkbenchDef)

	plist := c.paramList(sym, def.Params)
	mam, ok := BindArguments(plist, args, e.SrcSpan, c.reporter)
	if !ok {
		return valueResult(value.None)
	}

	var out []*model.Model
	i := 0
	combos := mam.Combinations()
	for {
		am, more := combos.Next()
		if !more || c.aborted() {
			break
		}
		out = append(out, c.invokeWorkbench(sym, def, plist, am, e.SrcSpan, childrenFor(children, i)))
		i++
	}
	return modelResult(out...)
}

func (c *Context) invokeWorkbench(sym *resolve.Symbol, def *ast.WorkbenchDef, plist *ParameterValueList, am ArgumentMap, span source.Span, children []*model.Model) *model.Model {
	props := model.NewProperties()
	for i := 0; i < plist.Len(); i++ {
		name := plist.At(i).Name
		props.Set(name, am[name])
	}

	wp := model.New(model.Workpiece{Name: sym.FullName().String(), Props: props})
	wp.Span = span

	f := c.push(&Frame{Symbol: sym, Scope: sym, Args: am, CallSpan: span, props: props})
	c.evalStatements(def.Body.Statements)
	bodyChildren := f.children
	c.pop()

	for _, m := range bodyChildren {
		wp.Append(m)
	}

	if def.Kind == ast.Operation {
		wp.SpliceChildren(children)
	} else {
		for _, m := range children {
			wp.Append(m)
		}
	}

	if uninit := props.Uninitialized(); len(uninit) > 0 {
		c.errorf(diag.EvalUninitializedProps, span,
			"'%s' has uninitialized properties: %s",
			sym.FullName(), strings.Join(uninit, ", "))
	}
	return wp
}

func (c *Context) callBuiltin(sym *resolve.Symbol, e *ast.CallExpr, args []CallArg, children []*model.Model) Evaluated {
	b, ok := sym.Builtin.(*Builtin)
	if !ok {
		c.errorf(diag.EvalNotCallable, e.Callee.SrcSpan,
			"'%s' cannot be called", sym.FullName())
		return valueResult(value.None)
	}
	if len(children) > 0 && !b.TakesChildren {
		c.errorf(diag.EvalTypeMismatch, e.SrcSpan,
			"'%s' does not take children", sym.FullName())
		children = nil
	}

	mam, ok := BindArguments(b.Params, args, e.SrcSpan, c.reporter)
	if !ok {
		return valueResult(value.None)
	}

	var models []*model.Model
	var values []value.Value
	i := 0
	combos := mam.Combinations()
	for {
		am, more := combos.Next()
		if !more || c.aborted() {
			break
		}
		ev := b.Eval(c, am, e.SrcSpan)
		comboChildren := childrenFor(children, i)
		for _, m := range ev.Models {
			m.Span = e.SrcSpan
			for _, child := range comboChildren {
				m.Append(child)
			}
			models = append(models, m)
		}
		if len(ev.Models) == 0 {
			values = append(values, ev.Value)
		}
		i++
	}

	if len(models) > 0 {
		return modelResult(models...)
	}
	if mam.Count() == 1 && len(values) == 1 {
		return valueResult(values[0])
	}
	return valueResult(value.List(values...))
}

// paramList evaluates a definition's parameter declarations once per symbol
// and memoizes the result.
func (c *Context) paramList(sym *resolve.Symbol, decls []ast.Parameter) *ParameterValueList {
	if c.plists == nil {
		c.plists = make(map[*resolve.Symbol]*ParameterValueList)
	}
	if l, ok := c.plists[sym]; ok {
		return l
	}

	l := NewParameterValueList()
	for _, d := range decls {
		param := Parameter{Name: d.Name, Type: value.Invalid, Span: d.SrcSpan}
		if d.Type != nil {
			t, ok := value.ParseType(d.Type.Name, d.Type.List)
			if !ok {
				c.errorf(diag.EvalTypeMismatch, d.Type.SrcSpan,
					"unknown type '%s'", d.Type.Name)
			}
			param.Type = t
		}
		if d.Default != nil {
			c.push(&Frame{Scope: sym.Parent})
			ev := c.evalExpression(d.Default)
			c.pop()
			param.Default = ev.Value
			param.HasDefault = true
		}
		if err := l.Add(param); err != nil {
			c.errorf(diag.EvalDuplicateCallArgument, d.SrcSpan,
				"duplicate parameter '%s'", d.Name)
		}
	}
	c.plists[sym] = l
	return l
}
