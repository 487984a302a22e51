// Package resolve builds the symbol tree for parsed source files and answers
// qualified-name lookups across namespaces, modules and `use` imports.
//
// Resolution errors are recoverable: they are reported as diagnostics and the
// failing reference evaluates to an invalid value downstream.
package resolve

import (
	"fmt"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/source"
)

// Resolver owns the global symbol tree for one run. The tree is built once
// (lazily extended as external files load) and treated read-mostly afterwards.
type Resolver struct {
	fs        *source.FileSet
	interner  *source.Interner
	reporter  diag.Reporter
	root      *Symbol
	externals *Externals
}

// NewResolver creates a resolver with an empty root namespace.
func NewResolver(fs *source.FileSet, interner *source.Interner, reporter diag.Reporter) *Resolver {
	return &Resolver{
		fs:       fs,
		interner: interner,
		reporter: reporter,
		root:     NewSymbol("", SymNamespace, ast.Public),
	}
}

// Root returns the global namespace symbol.
func (r *Resolver) Root() *Symbol { return r.root }

// SetExternals attaches the external library index.
func (r *Resolver) SetExternals(ex *Externals) { r.externals = ex }

// Install mounts sym under root at path, creating intermediate namespace
// symbols as needed. Used by the builtin registry and the external loader.
func (r *Resolver) Install(path QualifiedName, sym *Symbol) {
	parent := r.root
	for _, seg := range path[:len(path)-1] {
		next, ok := parent.Child(seg)
		if !ok {
			next = NewSymbol(seg, SymNamespace, ast.Public)
			parent.Add(next)
		}
		parent = next
	}
	sym.Name = path.Last()
	parent.Add(sym)
}

// ResolveFile builds the symbol subtree for file and mounts it into the
// root namespace. The returned module symbol is the lexical scope for
// evaluating the file's statements.
func (r *Resolver) ResolveFile(file *ast.File) *Symbol {
	mod := NewSymbol("", SymModule, ast.Public)
	mod.Parent = r.root
	r.buildScope(file.Statements, mod)
	return mod
}

// buildScope adds one child symbol per named statement; nested bodies
// recurse with the new symbol as parent.
func (r *Resolver) buildScope(statements []ast.Statement, owner *Symbol) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.AssignStatement:
			sym := NewSymbol(s.Name, SymValue, s.Visibility)
			sym.Span = s.SrcSpan
			sym.Def = s
			r.addChecked(owner, sym)

		case *ast.FunctionDef:
			sym := NewSymbol(s.Name, SymFunction, s.Visibility)
			sym.Span = s.SrcSpan
			sym.Def = s
			if r.addChecked(owner, sym) {
				r.buildScope(s.Body.Statements, sym)
			}

		case *ast.ModuleDef:
			sym := NewSymbol(s.Name, SymNamespace, s.Visibility)
			sym.Span = s.SrcSpan
			sym.Def = s
			if r.addChecked(owner, sym) {
				r.buildScope(s.Body.Statements, sym)
			}

		case *ast.WorkbenchDef:
			sym := NewSymbol(s.Name, SymWorkbench, s.Visibility)
			sym.Span = s.SrcSpan
			sym.Def = s
			if r.addChecked(owner, sym) {
				r.buildScope(s.Body.Statements, sym)
			}

		case *ast.UseStatement:
			for _, decl := range s.Decls {
				owner.uses = append(owner.uses, useEntry{decl: decl, visibility: s.Visibility})
			}
		}
	}
}

func (r *Resolver) addChecked(owner *Symbol, sym *Symbol) bool {
	if !owner.Add(sym) {
		diag.Error(r.reporter, diag.ResDuplicateSymbol, sym.Span,
			fmt.Sprintf("'%s' is already defined in this scope", sym.Name))
		return false
	}
	return true
}

// Lookup resolves a qualified name from the lexical scope chain starting at
// scope: the head identifier is searched innermost-to-outermost, then the
// remaining segments descend through children. Repeated lookups of the same
// name return the identical *Symbol.
//
// On failure a diagnostic is reported and nil is returned together with the
// code (SymbolNotFound, AmbiguousSymbol, SymbolIsPrivate,
// ExternalSymbolNotFound).
func (r *Resolver) Lookup(scope *Symbol, name QualifiedName, span source.Span) (*Symbol, diag.Code) {
	if len(name) == 0 {
		return nil, diag.ResSymbolNotFound
	}

	head := name.Head()
	for s := scope; s != nil; s = s.Parent {
		sym, code := r.findLocal(s, head, scope)
		switch code {
		case lookupFound:
			return r.descend(sym, name.Tail(), scope, name, span)
		case lookupAmbiguous:
			diag.Error(r.reporter, diag.ResAmbiguousSymbol, span,
				fmt.Sprintf("'%s' is ambiguous: provided by multiple wildcard imports", head))
			return nil, diag.ResAmbiguousSymbol
		}
	}

	if r.externals != nil {
		if sym, code := r.lookupExternal(scope, name, span); code == 0 {
			return sym, 0
		} else if code != diag.ResSymbolNotFound {
			return nil, code
		}
	}

	diag.Error(r.reporter, diag.ResSymbolNotFound, span,
		fmt.Sprintf("symbol '%s' not found", name))
	return nil, diag.ResSymbolNotFound
}

type lookupCode uint8

const (
	lookupMissing lookupCode = iota
	lookupFound
	lookupAmbiguous
)

// findLocal searches one scope for head: direct children and aliases first,
// then wildcard imports. Two wildcard providers for the same name are an
// ambiguity, never a silent pick.
func (r *Resolver) findLocal(s *Symbol, head Identifier, origin *Symbol) (*Symbol, lookupCode) {
	r.resolveUses(s, origin)

	if sym, ok := s.Child(head); ok {
		return sym, lookupFound
	}

	var matches []*Symbol
	for _, src := range s.wildcardSources {
		if sym, ok := src.Child(head); ok && sym.visibleFrom(origin) {
			matches = append(matches, sym)
		}
	}
	switch len(matches) {
	case 0:
		return nil, lookupMissing
	case 1:
		return matches[0], lookupFound
	default:
		return nil, lookupAmbiguous
	}
}

// descend walks the remaining path segments through child symbols, gating
// private symbols against the lookup origin.
func (r *Resolver) descend(sym *Symbol, rest QualifiedName, origin *Symbol, full QualifiedName, span source.Span) (*Symbol, diag.Code) {
	for _, seg := range rest {
		r.resolveUses(sym, origin)
		next, ok := sym.Child(seg)
		if !ok {
			diag.Error(r.reporter, diag.ResSymbolNotFound, span,
				fmt.Sprintf("symbol '%s' not found", full))
			return nil, diag.ResSymbolNotFound
		}
		if !next.visibleFrom(origin) {
			diag.Error(r.reporter, diag.ResSymbolIsPrivate, span,
				fmt.Sprintf("'%s' is private", full))
			return nil, diag.ResSymbolIsPrivate
		}
		sym = next
	}
	return sym, 0
}
