package eval

import (
	"fmt"
	"strings"

	"cascade/internal/diag"
	"cascade/internal/source"
	"cascade/internal/value"
)

// CallArg is one evaluated call argument before binding.
type CallArg struct {
	Name  string // empty for positional
	Value value.Value
	Span  source.Span
}

// BindArguments matches evaluated arguments against a parameter list and
// classifies every bound value into a coefficient.
//
// Named arguments bind by name; positional arguments bind to the next
// unbound parameter in declaration order; unbound parameters fall back to
// their defaults. Unknown names, duplicate bindings and unbound required
// parameters are reported and fail the bind.
//
// A value matching the declared type binds Single. A list value whose
// element type matches a non-list declared type binds Multi and fans the
// call out; this is the only fan-out mechanism. Anything else is a type
// mismatch.
func BindArguments(params *ParameterValueList, args []CallArg, callSpan source.Span, r diag.Reporter) (*MultiArgumentMap, bool) {
	bound := make(map[string]value.Value, params.Len())
	spans := make(map[string]source.Span, params.Len())
	ok := true

	for _, a := range args {
		if a.Name == "" {
			continue
		}
		if _, exists := params.Get(a.Name); !exists {
			diag.Error(r, diag.EvalUnexpectedArgument, a.Span,
				fmt.Sprintf("unexpected argument '%s'", a.Name))
			ok = false
			continue
		}
		if _, dup := bound[a.Name]; dup {
			diag.Error(r, diag.EvalDuplicateCallArgument, a.Span,
				fmt.Sprintf("argument '%s' bound twice", a.Name))
			ok = false
			continue
		}
		bound[a.Name] = a.Value
		spans[a.Name] = a.Span
	}

	next := 0
	for _, a := range args {
		if a.Name != "" {
			continue
		}
		for next < params.Len() {
			if _, taken := bound[params.At(next).Name]; !taken {
				break
			}
			next++
		}
		if next >= params.Len() {
			diag.Error(r, diag.EvalUnexpectedArgument, a.Span,
				"too many positional arguments")
			ok = false
			continue
		}
		name := params.At(next).Name
		bound[name] = a.Value
		spans[name] = a.Span
		next++
	}

	var missing []string
	out := NewMultiArgumentMap()
	for i := 0; i < params.Len(); i++ {
		param := params.At(i)
		v, has := bound[param.Name]
		if !has {
			if !param.HasDefault {
				missing = append(missing, param.Name)
				continue
			}
			out.Set(param.Name, SingleCoeff(param.Default))
			continue
		}
		coeff, cerr := classify(param, v)
		if cerr != "" {
			diag.Error(r, diag.EvalTypeMismatch, spans[param.Name], cerr)
			ok = false
			continue
		}
		out.Set(param.Name, coeff)
	}

	if len(missing) > 0 {
		diag.Error(r, diag.EvalMissingArguments, callSpan,
			fmt.Sprintf("missing arguments: %s", strings.Join(missing, ", ")))
		ok = false
	}
	return out, ok
}

// classify turns one bound value into a coefficient against the parameter's
// declared type. The error string is empty on success.
func classify(param Parameter, v value.Value) (Coefficient, string) {
	if !v.Valid() {
		// An upstream error already produced a diagnostic.
		return SingleCoeff(v), ""
	}
	if param.Type == value.Invalid {
		return SingleCoeff(v), ""
	}

	if v.Type().ConvertsTo(param.Type) {
		conv, _ := v.Convert(param.Type)
		return SingleCoeff(conv), ""
	}

	if v.Kind == value.KindList && param.Type.Kind != value.KindList {
		elems := make([]value.Value, len(v.L))
		fits := true
		for i, e := range v.L {
			conv, convOK := e.Convert(param.Type)
			if !convOK {
				fits = false
				break
			}
			elems[i] = conv
		}
		if fits {
			return MultiCoeff(elems), ""
		}
	}

	return Coefficient{}, fmt.Sprintf(
		"argument '%s' has type %s, expected %s",
		param.Name, v.Type(), param.Type)
}
