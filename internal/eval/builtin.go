package eval

import (
	"fmt"
	"math"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/resolve"
	"cascade/internal/source"
	"cascade/internal/value"
)

// Builtin is the payload behind a builtin-function symbol. Eval runs once
// per multiplicity combination; it reports its own diagnostics through the
// context and returns None on failure.
type Builtin struct {
	Name          string
	Params        *ParameterValueList
	TakesChildren bool
	Eval          func(c *Context, am ArgumentMap, span source.Span) Evaluated
}

// InstallBuiltins mounts the builtin library into the resolver's root:
// `__builtin` diagnostics helpers, `std::math`, and the geometry primitives,
// transforms and operations at the top level.
func InstallBuiltins(r *resolve.Resolver) {
	fn := func(path string, b *Builtin) {
		sym := resolve.NewSymbol("", resolve.SymBuiltinFunction, ast.Public)
		sym.Builtin = b
		r.Install(resolve.ParseName(path), sym)
	}
	constant := func(path string, v value.Value) {
		sym := resolve.NewSymbol("", resolve.SymValue, ast.Public)
		sym.Builtin = v
		r.Install(resolve.ParseName(path), sym)
	}

	fn("__builtin::assert", builtinAssert())
	fn("__builtin::print", builtinPrint())

	constant("std::math::pi", value.Number(math.Pi))
	constant("std::math::tau", value.Number(2*math.Pi))
	constant("std::math::e", value.Number(math.E))
	fn("std::math::sin", mathFn1("sin", math.Sin))
	fn("std::math::cos", mathFn1("cos", math.Cos))
	fn("std::math::tan", mathFn1("tan", math.Tan))
	fn("std::math::sqrt", mathFn1("sqrt", math.Sqrt))
	fn("std::math::abs", mathFn1("abs", math.Abs))
	fn("std::math::floor", mathFn1("floor", math.Floor))
	fn("std::math::ceil", mathFn1("ceil", math.Ceil))
	fn("std::math::pow", mathFn2("pow", math.Pow))
	fn("std::math::min", mathFn2("min", math.Min))
	fn("std::math::max", mathFn2("max", math.Max))

	installGeometry(fn)
}

func builtinAssert() *Builtin {
	return &Builtin{
		Name:   "assert",
		Params: params(p("condition", value.BoolT), pd("message", value.StringT, value.Str(""))),
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			cond := am["condition"]
			if !cond.Valid() {
				return valueResult(value.None)
			}
			if !cond.B {
				msg := am["message"].S
				if msg == "" {
					msg = cond.Repr()
				}
				c.errorf(diag.EvalAssertionFailed, span, "Assertion failed: %s", msg)
			}
			return valueResult(value.Bool(cond.B))
		},
	}
}

func builtinPrint() *Builtin {
	return &Builtin{
		Name:   "print",
		Params: params(p("message", value.Invalid)),
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			fmt.Fprintln(c.Stdout, am["message"].String())
			return valueResult(value.None)
		},
	}
}

func mathFn1(name string, fn func(float64) float64) *Builtin {
	return &Builtin{
		Name:   name,
		Params: params(p("x", value.NumberT)),
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			x, ok := am["x"].AsNumber()
			if !ok {
				return valueResult(value.None)
			}
			return valueResult(value.Number(fn(x)))
		},
	}
}

func mathFn2(name string, fn func(float64, float64) float64) *Builtin {
	return &Builtin{
		Name:   name,
		Params: params(p("a", value.NumberT), p("b", value.NumberT)),
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			a, aok := am["a"].AsNumber()
			b, bok := am["b"].AsNumber()
			if !aok || !bok {
				return valueResult(value.None)
			}
			return valueResult(value.Number(fn(a, b)))
		},
	}
}
