// Package model defines the tree the evaluator builds and the renderer
// consumes: nodes with an element payload, attributes, uniquely-owned
// children and an inferred output type.
package model

import (
	"fmt"

	"cascade/internal/geom"
	"cascade/internal/source"
)

// Output is the render state attached to a node: filled in by the render
// pass, zero-valued before it.
type Output struct {
	Type       OutputType
	Geometry   *geom.Geometry
	Local      geom.Mat4
	World      geom.Mat4
	Resolution float64
}

// Model is one node of the instance tree. Children are uniquely owned, the
// parent pointer is set exactly once on attach, and the shape is immutable
// after building.
type Model struct {
	ID      string
	Attr    Attributes
	Element Element
	Output  Output
	// Span is the source location the node came from, for diagnostics.
	Span source.Span

	parent   *Model
	children []*Model
}

// New creates a detached node around element.
func New(element Element) *Model {
	return &Model{Element: element, Output: Output{Local: geom.Identity()}}
}

// NewTransform creates a node whose local matrix is the transform's.
func NewTransform(tr Transform) *Model {
	m := New(tr)
	m.Output.Local = tr.Matrix
	return m
}

// Parent returns the owner, nil for a root.
func (m *Model) Parent() *Model { return m.parent }

// Children returns the child slice; callers must not mutate it.
func (m *Model) Children() []*Model { return m.children }

// Append attaches child at the end. A node can be attached once.
func (m *Model) Append(child *Model) {
	if child.parent != nil {
		panic(fmt.Sprintf("model: node %q attached twice", child.describe()))
	}
	child.parent = m
	m.children = append(m.children, child)
}

func (m *Model) describe() string {
	if m.ID != "" {
		return m.ID
	}
	return m.Element.ElementKind()
}

// Clone deep-copies the subtree: fresh nodes, detached parent, shared
// element payload, zeroed render output.
func (m *Model) Clone() *Model {
	out := &Model{
		ID:      m.ID,
		Attr:    m.Attr,
		Element: m.Element,
		Output:  Output{Type: m.Output.Type, Local: m.Output.Local},
		Span:    m.Span,
	}
	for _, c := range m.children {
		out.Append(c.Clone())
	}
	return out
}

// Walk visits the subtree pre-order; returning false prunes descent.
func (m *Model) Walk(fn func(*Model) bool) {
	if !fn(m) {
		return
	}
	for _, c := range m.children {
		c.Walk(fn)
	}
}

// InferOutputType fills Output.Type bottom-up and returns the root's type.
// Primitives decide by dimensionality, operations by their declared output,
// everything else merges its children. A mixed merge yields InvalidMixed
// and propagates without stopping inference elsewhere.
func (m *Model) InferOutputType() OutputType {
	merged := NotDetermined
	for _, c := range m.children {
		merged = merged.Merge(c.InferOutputType())
	}

	switch el := m.Element.(type) {
	case Primitive:
		m.Output.Type = OutputTypeOf(el.Dim)
	case Operation:
		switch {
		case merged == InvalidMixed:
			m.Output.Type = InvalidMixed
		case el.Output != 0:
			m.Output.Type = OutputTypeOf(el.Output)
		case el.Input != 0:
			m.Output.Type = OutputTypeOf(el.Input)
		default:
			m.Output.Type = merged
		}
	default:
		m.Output.Type = merged
	}
	return m.Output.Type
}

// SpliceChildren replaces every ChildrenMarker in the subtree with the
// given nodes as siblings at the marker's position, removing the marker.
// The first marker receives the nodes themselves; further markers receive
// deep clones, keeping single-parent ownership intact.
func (m *Model) SpliceChildren(nodes []*Model) {
	first := true
	var splice func(n *Model)
	splice = func(n *Model) {
		var out []*Model
		for _, c := range n.children {
			if _, ok := c.Element.(ChildrenMarker); !ok {
				splice(c)
				out = append(out, c)
				continue
			}
			for _, ins := range nodes {
				if !first {
					ins = ins.Clone()
				} else if ins.parent != nil {
					panic(fmt.Sprintf("model: node %q attached twice", ins.describe()))
				}
				ins.parent = n
				out = append(out, ins)
			}
			first = false
		}
		n.children = out
	}
	splice(m)
}
