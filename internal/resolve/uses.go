package resolve

import (
	"fmt"

	"cascade/internal/ast"
	"cascade/internal/diag"
)

// resolveUses processes the scope's recorded `use` declarations the first
// time the scope is searched. Single imports become aliases to the identical
// target Symbol; wildcard imports record their source scope for lookup.
// The resolved-flag is set up front so that a `use` path passing through
// this scope again cannot recurse.
func (r *Resolver) resolveUses(s *Symbol, origin *Symbol) {
	if s.usesResolved || len(s.uses) == 0 {
		if !s.usesResolved {
			s.usesResolved = true
		}
		return
	}
	s.usesResolved = true

	for _, entry := range s.uses {
		path := QualifiedName(entry.decl.Path)

		// Resolve the use path from the scope it appears in.
		target, code := r.Lookup(s, path, entry.decl.SrcSpan)
		if code != 0 {
			// Already reported by Lookup.
			continue
		}

		if entry.decl.Wildcard {
			if target.Kind != SymNamespace && target.Kind != SymModule && target.Kind != SymBuiltinModule {
				diag.Error(r.reporter, diag.ResSymbolNotFound, entry.decl.SrcSpan,
					fmt.Sprintf("'%s' is a %s, wildcard imports need a module or namespace", path, target.Kind))
				continue
			}
			s.wildcardSources = append(s.wildcardSources, target)
			continue
		}

		if target.Visibility != ast.Public && !s.IsDescendantOf(target.Parent) {
			diag.Error(r.reporter, diag.ResSymbolIsPrivate, entry.decl.SrcSpan,
				fmt.Sprintf("'%s' is private", path))
			continue
		}

		alias := path.Last()
		if entry.decl.Alias != "" {
			alias = entry.decl.Alias
		}
		if !s.AddAlias(alias, target) {
			diag.Error(r.reporter, diag.ResDuplicateSymbol, entry.decl.SrcSpan,
				fmt.Sprintf("'%s' is already defined in this scope", alias))
		}
	}
}
