package ast

import (
	"cascade/internal/source"
)

// UseDecl is one target of a `use` statement.
type UseDecl struct {
	Path     []string // `a::b::c`
	Wildcard bool     // `use a::*`
	Alias    string   // `use a::b as c`
	SrcSpan  source.Span
}

// UseStatement imports symbols into the current scope.
type UseStatement struct {
	Visibility Visibility
	Decls      []UseDecl
	SrcSpan    source.Span
}

// AssignStatement binds a value to a name: `x = expr;`.
type AssignStatement struct {
	Visibility Visibility
	Name       string
	Value      Expression
	SrcSpan    source.Span
}

// FunctionDef declares `fn name(params) { ... }`.
type FunctionDef struct {
	Visibility Visibility
	Name       string
	Params     []Parameter
	Body       *Body
	SrcSpan    source.Span
}

// ModuleDef declares a namespace: `mod name { ... }`.
type ModuleDef struct {
	Visibility Visibility
	Name       string
	Body       *Body
	SrcSpan    source.Span
}

// WorkbenchDef declares `part|sketch|op name(params) { ... }`.
type WorkbenchDef struct {
	Visibility Visibility
	Kind       WorkbenchKind
	Name       string
	Params     []Parameter
	Body       *Body
	SrcSpan    source.Span
}

// ReturnStatement yields a value from a function body.
type ReturnStatement struct {
	Value   Expression // optional
	SrcSpan source.Span
}

// IfStatement is a conditional with an optional else branch.
type IfStatement struct {
	Cond    Expression
	Then    *Body
	Else    *Body // optional
	SrcSpan source.Span
}

// ExpressionStatement evaluates an expression for its effect, typically a
// model expression producing nodes. Attributes attach to the produced models.
type ExpressionStatement struct {
	Attributes []Attribute
	Expr       Expression
	SrcSpan    source.Span
}

// ChildrenMarker is the `@children;` placeholder inside an operation body.
type ChildrenMarker struct {
	SrcSpan source.Span
}

func (s *UseStatement) Span() source.Span        { return s.SrcSpan }
func (s *AssignStatement) Span() source.Span     { return s.SrcSpan }
func (s *FunctionDef) Span() source.Span         { return s.SrcSpan }
func (s *ModuleDef) Span() source.Span           { return s.SrcSpan }
func (s *WorkbenchDef) Span() source.Span        { return s.SrcSpan }
func (s *ReturnStatement) Span() source.Span     { return s.SrcSpan }
func (s *IfStatement) Span() source.Span         { return s.SrcSpan }
func (s *ExpressionStatement) Span() source.Span { return s.SrcSpan }
func (s *ChildrenMarker) Span() source.Span      { return s.SrcSpan }

func (*UseStatement) stmt()        {}
func (*AssignStatement) stmt()     {}
func (*FunctionDef) stmt()         {}
func (*ModuleDef) stmt()           {}
func (*WorkbenchDef) stmt()        {}
func (*ReturnStatement) stmt()     {}
func (*IfStatement) stmt()         {}
func (*ExpressionStatement) stmt() {}
func (*ChildrenMarker) stmt()      {}
