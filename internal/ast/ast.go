// Package ast defines the syntax tree produced by the parser. Nodes carry
// source spans for diagnostics; they hold no resolved semantics.
package ast

import (
	"cascade/internal/source"
)

// File is one parsed source file.
type File struct {
	Path       string
	FileID     source.FileID
	Statements []Statement
}

// Statement is implemented by all statement nodes.
type Statement interface {
	Span() source.Span
	stmt()
}

// Expression is implemented by all expression nodes.
type Expression interface {
	Span() source.Span
	expr()
}

// Visibility gates whether a symbol is importable from outside its
// defining scope.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// WorkbenchKind distinguishes the three user-definable workbench templates.
type WorkbenchKind uint8

const (
	// Sketch produces 2D geometry.
	Sketch WorkbenchKind = iota
	// Part produces 3D geometry.
	Part
	// Operation wraps evaluated children.
	Operation
)

func (k WorkbenchKind) String() string {
	switch k {
	case Sketch:
		return "sketch"
	case Part:
		return "part"
	case Operation:
		return "op"
	}
	return "invalid"
}

// Body is a braced statement list.
type Body struct {
	Statements []Statement
	SrcSpan    source.Span
}

func (b *Body) Span() source.Span { return b.SrcSpan }

// Parameter declares one workbench or function parameter.
type Parameter struct {
	Name    string
	Type    *TypeAnnotation // optional
	Default Expression      // optional
	SrcSpan source.Span
}

// TypeAnnotation is a declared parameter type, e.g. `Number` or `[Number]`.
type TypeAnnotation struct {
	Name    string // "Int", "Number", "Bool", "String"
	List    bool   // wrapped in brackets
	SrcSpan source.Span
}

// Argument is one call argument, named (`x = 1`) or positional.
type Argument struct {
	Name    string // empty for positional
	Value   Expression
	SrcSpan source.Span
}

// Attribute is one entry of an attribute list `#[export("out.stl")]`.
type Attribute struct {
	Name    string
	Args    []Argument
	SrcSpan source.Span
}
