package resolve

import (
	"cascade/internal/ast"
	"cascade/internal/source"
)

// SymbolKind classifies a resolved entity.
type SymbolKind uint8

const (
	SymInvalid SymbolKind = iota
	// SymValue is a named constant produced by an assignment.
	SymValue
	SymFunction
	// SymModule is a source file loaded from a search path.
	SymModule
	// SymNamespace is a `mod` block or a path segment of an external file.
	SymNamespace
	SymWorkbench
	SymBuiltinFunction
	SymBuiltinModule
)

func (k SymbolKind) String() string {
	switch k {
	case SymValue:
		return "value"
	case SymFunction:
		return "function"
	case SymModule:
		return "module"
	case SymNamespace:
		return "namespace"
	case SymWorkbench:
		return "workbench"
	case SymBuiltinFunction:
		return "builtin function"
	case SymBuiltinModule:
		return "builtin module"
	default:
		return "invalid"
	}
}

// useEntry is one recorded `use` declaration, resolved lazily at lookup.
type useEntry struct {
	decl       ast.UseDecl
	visibility ast.Visibility
}

// Symbol is a named, resolved entity. Symbols are always handled through
// shared *Symbol pointers: aliases and multiple qualified paths reference
// the identical Symbol, never a copy. Parent is a non-owning back-reference
// used for upward scope search.
type Symbol struct {
	Name       Identifier
	Kind       SymbolKind
	Visibility ast.Visibility
	Span       source.Span

	Parent   *Symbol
	children *SymbolMap
	uses     []useEntry

	// wildcardSources are the resolved targets of `use x::*` imports in
	// this scope; filled once by resolveUses.
	wildcardSources []*Symbol
	usesResolved    bool

	// Def holds the declaring AST node for user-defined symbols:
	// *ast.AssignStatement, *ast.FunctionDef, *ast.WorkbenchDef or
	// *ast.ModuleDef.
	Def ast.Statement

	// Builtin is the opaque payload installed by the builtin registry for
	// SymBuiltinFunction/SymBuiltinModule symbols; the evaluator interprets
	// it.
	Builtin any
}

// NewSymbol creates a detached symbol.
func NewSymbol(name Identifier, kind SymbolKind, vis ast.Visibility) *Symbol {
	return &Symbol{
		Name:       name,
		Kind:       kind,
		Visibility: vis,
		children:   NewSymbolMap(),
	}
}

// Add inserts child under its own name and sets the parent pointer.
// Returns false if the name is already taken in this scope.
func (s *Symbol) Add(child *Symbol) bool {
	if _, exists := s.children.Get(child.Name); exists {
		return false
	}
	child.Parent = s
	s.children.Insert(child.Name, child)
	return true
}

// AddAlias binds name to target in this scope without reparenting target:
// the alias resolves to the identical Symbol.
func (s *Symbol) AddAlias(name Identifier, target *Symbol) bool {
	if _, exists := s.children.Get(name); exists {
		return false
	}
	s.children.Insert(name, target)
	return true
}

// Child returns the direct child (or alias target) bound under name.
func (s *Symbol) Child(name Identifier) (*Symbol, bool) {
	return s.children.Get(name)
}

// Children returns the ordered child map.
func (s *Symbol) Children() *SymbolMap {
	return s.children
}

// FullName returns the qualified path from the root to this symbol.
func (s *Symbol) FullName() QualifiedName {
	var parts []Identifier
	for cur := s; cur != nil && cur.Name != ""; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	// Reverse.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return QualifiedName(parts)
}

// IsDescendantOf reports whether s is other or nested anywhere below it.
func (s *Symbol) IsDescendantOf(other *Symbol) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur == other {
			return true
		}
	}
	return false
}

// visibleFrom reports whether s may be referenced from origin: public
// symbols always, private ones only from within their defining scope.
func (s *Symbol) visibleFrom(origin *Symbol) bool {
	if s.Visibility == ast.Public {
		return true
	}
	if s.Parent == nil {
		return true
	}
	return origin != nil && origin.IsDescendantOf(s.Parent)
}
