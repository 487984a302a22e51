// Package eval executes resolved programs: it binds call arguments,
// expands list arguments into multiplicity combinations, evaluates
// statements and expressions, and builds the model tree.
package eval

import (
	"fmt"

	"cascade/internal/source"
	"cascade/internal/value"
)

// Parameter is one evaluated parameter declaration: its defaults and type
// annotation are already reduced to runtime values.
type Parameter struct {
	Name string
	// Type is the declared type; value.Invalid means untyped.
	Type value.Type
	// Default is the evaluated default; HasDefault distinguishes an
	// explicit None from no default at all.
	Default    value.Value
	HasDefault bool
	Span       source.Span
}

// ParameterValueList holds parameters in declaration order with unique
// names, indexed for by-name lookup.
type ParameterValueList struct {
	order []Parameter
	index map[string]int
}

func NewParameterValueList() *ParameterValueList {
	return &ParameterValueList{index: make(map[string]int)}
}

// Add appends a parameter; a duplicate name is rejected.
func (l *ParameterValueList) Add(p Parameter) error {
	if _, ok := l.index[p.Name]; ok {
		return fmt.Errorf("duplicate parameter %q", p.Name)
	}
	l.index[p.Name] = len(l.order)
	l.order = append(l.order, p)
	return nil
}

func (l *ParameterValueList) Len() int          { return len(l.order) }
func (l *ParameterValueList) At(i int) Parameter { return l.order[i] }

func (l *ParameterValueList) Get(name string) (Parameter, bool) {
	i, ok := l.index[name]
	if !ok {
		return Parameter{}, false
	}
	return l.order[i], true
}

// params builds a list from literals, for builtins and tests.
func params(ps ...Parameter) *ParameterValueList {
	l := NewParameterValueList()
	for _, p := range ps {
		if err := l.Add(p); err != nil {
			panic(err)
		}
	}
	return l
}

// p declares a typed parameter without a default.
func p(name string, t value.Type) Parameter {
	return Parameter{Name: name, Type: t}
}

// pd declares a typed parameter with a default.
func pd(name string, t value.Type, def value.Value) Parameter {
	return Parameter{Name: name, Type: t, Default: def, HasDefault: true}
}
