package model

import (
	"cascade/internal/geom"
	"cascade/internal/value"
)

// Element is the payload of a model node. Concrete elements: Group,
// Workpiece, ChildrenMarker, Transform, Primitive, Operation.
type Element interface {
	// ElementKind is a stable tag used in hashing and debug output.
	ElementKind() string
}

// Group collects children without adding behavior, from a bare `{...}` body.
type Group struct{}

func (Group) ElementKind() string { return "group" }

// Workpiece is a named workbench instantiation. Its properties are seeded
// from the call's bound arguments and must all be initialized before the
// node is valid.
type Workpiece struct {
	Name  string
	Props *Properties
}

func (Workpiece) ElementKind() string { return "workpiece" }

// ChildrenMarker is the placeholder left by `@children` inside an operation
// body. Splicing replaces it with the call's evaluated children.
type ChildrenMarker struct{}

func (ChildrenMarker) ElementKind() string { return "children-marker" }

// Transform applies an affine matrix to everything below it.
type Transform struct {
	Name   string
	Matrix geom.Mat4
}

func (Transform) ElementKind() string { return "transform" }

// Primitive produces leaf geometry. Tessellate receives the effective
// linear resolution; Args carries the bound arguments for hashing.
type Primitive struct {
	Name       string
	Dim        geom.Dim
	Args       []BoundArg
	Tessellate func(resolution float64) (*geom.Geometry, error)
}

func (Primitive) ElementKind() string { return "primitive" }

// Operation combines the rendered geometry of its children. Input pins the
// child dimensionality it consumes (0 accepts either, uniformly); Output
// pins the produced dimensionality (0 means same as input).
type Operation struct {
	Name   string
	Input  geom.Dim
	Output geom.Dim
	Args   []BoundArg
	Apply  func(k geom.Kernel, children []*geom.Geometry, resolution float64) (*geom.Geometry, error)
}

func (Operation) ElementKind() string { return "operation" }

// BoundArg is one evaluated argument recorded on an element, in binding
// order, for content hashing and debug output.
type BoundArg struct {
	Name  string
	Value value.Value
}
