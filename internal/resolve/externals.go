package resolve

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/parser"
	"cascade/internal/source"
)

// SourceExt is the file extension of cascade sources.
const SourceExt = ".cad"

// Externals indexes library search paths. Each directory is scanned exactly
// once at construction; files are parsed lazily on first reference and each
// file loads at most once, memoized by canonical path.
type Externals struct {
	// entries maps a namespace prefix ("std::math") to the backing file.
	entries map[string]string
	// loaded memoizes module symbols by canonical file path.
	loaded map[string]*Symbol
}

// ScanSearchPaths walks each search path once and maps every source file's
// path-minus-extension to a namespace prefix: `<dir>/std/math.cad` becomes
// `std::math`. Later search paths never shadow earlier ones.
func ScanSearchPaths(searchPaths []string) (*Externals, error) {
	ex := &Externals{
		entries: make(map[string]string),
		loaded:  make(map[string]*Symbol),
	}
	for _, dir := range searchPaths {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, SourceExt) {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			rel = strings.TrimSuffix(filepath.ToSlash(rel), SourceExt)
			prefix := strings.Join(strings.Split(rel, "/"), "::")
			if _, exists := ex.entries[prefix]; !exists {
				ex.entries[prefix] = path
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning search path %s: %w", dir, err)
		}
	}
	return ex, nil
}

// Prefixes returns all indexed namespace prefixes, sorted.
func (e *Externals) Prefixes() []string {
	out := make([]string, 0, len(e.entries))
	for p := range e.entries {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// find returns the longest indexed prefix covering name.
func (e *Externals) find(name QualifiedName) (QualifiedName, string, bool) {
	for i := len(name); i > 0; i-- {
		prefix := QualifiedName(name[:i])
		if path, ok := e.entries[prefix.String()]; ok {
			return prefix, path, true
		}
	}
	return nil, "", false
}

// lookupExternal tries to satisfy a locally-unresolved name from the search
// path index: the matching file is parsed and merged into the symbol tree on
// first reference, then the rest of the path descends normally.
func (r *Resolver) lookupExternal(scope *Symbol, name QualifiedName, span source.Span) (*Symbol, diag.Code) {
	prefix, path, ok := r.externals.find(name)
	if !ok {
		return nil, diag.ResSymbolNotFound
	}

	mod, code := r.loadExternalFile(prefix, path, span)
	if code != 0 {
		return nil, code
	}

	sym := mod
	for _, seg := range name[len(prefix):] {
		r.resolveUses(sym, scope)
		next, ok := sym.Child(seg)
		if !ok {
			diag.Error(r.reporter, diag.ResExternalSymbolNotFound, span,
				fmt.Sprintf("symbol '%s' not found in %s", name, path))
			return nil, diag.ResExternalSymbolNotFound
		}
		if !next.visibleFrom(scope) {
			diag.Error(r.reporter, diag.ResSymbolIsPrivate, span,
				fmt.Sprintf("symbol '%s' is private", name))
			return nil, diag.ResSymbolIsPrivate
		}
		sym = next
	}
	return sym, 0
}

func (r *Resolver) loadExternalFile(prefix QualifiedName, path string, span source.Span) (*Symbol, diag.Code) {
	canonical := source.CanonicalPath(path)
	if mod, ok := r.externals.loaded[canonical]; ok {
		return mod, 0
	}

	fileID, err := r.fs.Load(path)
	if err != nil {
		diag.Error(r.reporter, diag.ResExternalLoadFailed, span,
			fmt.Sprintf("cannot load %s: %v", path, err))
		return nil, diag.ResExternalLoadFailed
	}
	file := r.fs.Get(fileID)
	file.Flags |= source.FileExternal

	parsed := parser.ParseFile(file, r.interner, r.reporter)

	mod := NewSymbol(prefix.Last(), SymModule, ast.Public)
	mod.Span = source.Span{File: fileID}
	r.buildScope(parsed.Statements, mod)
	r.Install(prefix, mod)

	r.externals.loaded[canonical] = mod
	return mod, 0
}
