package ast

import (
	"cascade/internal/source"
)

// LiteralKind tags the payload of a Literal.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitNumber
	LitBool
	LitString
)

// Literal is a constant expression.
type Literal struct {
	Kind    LiteralKind
	Int     int64
	Number  float64
	Bool    bool
	Str     string
	SrcSpan source.Span
}

// ListExpr is `[a, b, c]`.
type ListExpr struct {
	Elems   []Expression
	SrcSpan source.Span
}

// NameExpr references a possibly qualified name `a::b::c`.
type NameExpr struct {
	Path    []string
	SrcSpan source.Span
}

// CallExpr is `callee(args)`, optionally followed by a trailing model
// expression (`translate(x=1) cube(1)`) or a trailing body
// (`difference() { ... }`). At most one of Trailing and Body is set.
type CallExpr struct {
	Callee   *NameExpr
	Args     []Argument
	Trailing Expression
	Body     *Body
	SrcSpan  source.Span
}

// GroupExpr is a bare `{ ... }` body used as a model expression.
type GroupExpr struct {
	Body    *Body
	SrcSpan source.Span
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op      string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">="
	LHS     Expression
	RHS     Expression
	SrcSpan source.Span
}

// UnaryExpr applies a prefix operator, "-" or "!".
type UnaryExpr struct {
	Op      string
	Operand Expression
	SrcSpan source.Span
}

func (e *Literal) Span() source.Span    { return e.SrcSpan }
func (e *ListExpr) Span() source.Span   { return e.SrcSpan }
func (e *NameExpr) Span() source.Span   { return e.SrcSpan }
func (e *CallExpr) Span() source.Span   { return e.SrcSpan }
func (e *GroupExpr) Span() source.Span  { return e.SrcSpan }
func (e *BinaryExpr) Span() source.Span { return e.SrcSpan }
func (e *UnaryExpr) Span() source.Span  { return e.SrcSpan }

func (*Literal) expr()    {}
func (*ListExpr) expr()   {}
func (*NameExpr) expr()   {}
func (*CallExpr) expr()   {}
func (*GroupExpr) expr()  {}
func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
