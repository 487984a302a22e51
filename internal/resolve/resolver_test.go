package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/parser"
	"cascade/internal/source"
)

type testEnv struct {
	fs       *source.FileSet
	interner *source.Interner
	bag      *diag.Bag
	resolver *Resolver
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := source.NewFileSet()
	in := source.NewInterner()
	bag := diag.NewBag(diag.DefaultErrorLimit)
	return &testEnv{
		fs:       fs,
		interner: in,
		bag:      bag,
		resolver: NewResolver(fs, in, diag.BagReporter{Bag: bag}),
	}
}

func (e *testEnv) resolveSource(t *testing.T, src string) *Symbol {
	t.Helper()
	id := e.fs.AddVirtual("main.cad", []byte(src))
	file := parser.ParseFile(e.fs.Get(id), e.interner, diag.BagReporter{Bag: e.bag})
	if e.bag.HasErrors() {
		t.Fatalf("parse errors: %v", e.bag.Items())
	}
	return e.resolver.ResolveFile(file)
}

func TestLookupNested(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod shapes {
	pub part box(size: Number) {}
}
`)

	sym, code := env.resolver.Lookup(mod, ParseName("shapes::box"), source.Span{})
	if code != 0 {
		t.Fatalf("lookup failed with code %d", code)
	}
	if sym.Kind != SymWorkbench {
		t.Errorf("kind = %v, want workbench", sym.Kind)
	}
	if got := sym.FullName().String(); got != "shapes::box" {
		t.Errorf("full name = %q", got)
	}
}

func TestRepeatedLookupIdentity(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod geo {
	pub sketch profile() {}
}
`)

	a, code := env.resolver.Lookup(mod, ParseName("geo::profile"), source.Span{})
	if code != 0 {
		t.Fatalf("first lookup failed: %d", code)
	}
	b, code := env.resolver.Lookup(mod, ParseName("geo::profile"), source.Span{})
	if code != 0 {
		t.Fatalf("second lookup failed: %d", code)
	}
	if a != b {
		t.Error("repeated lookups returned distinct symbols")
	}
}

func TestUseAlias(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod a {
	pub mod b {
		pub part c() {}
	}
}
use a::b as d;
`)

	direct, code := env.resolver.Lookup(mod, ParseName("a::b::c"), source.Span{})
	if code != 0 {
		t.Fatalf("direct lookup failed: %d", code)
	}
	aliased, code := env.resolver.Lookup(mod, ParseName("d::c"), source.Span{})
	if code != 0 {
		t.Fatalf("aliased lookup failed: %d", code)
	}
	if direct != aliased {
		t.Error("alias resolved to a different symbol than the direct path")
	}
}

func TestUseSingleImport(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod lib {
	pub part widget() {}
}
use lib::widget;
`)

	sym, code := env.resolver.Lookup(mod, ParseName("widget"), source.Span{})
	if code != 0 {
		t.Fatalf("lookup failed: %d", code)
	}
	if got := sym.FullName().String(); got != "lib::widget" {
		t.Errorf("full name = %q", got)
	}
}

func TestWildcardAmbiguity(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod left {
	pub part thing() {}
}
mod right {
	pub part thing() {}
}
use left::*;
use right::*;
`)

	_, code := env.resolver.Lookup(mod, ParseName("thing"), source.Span{})
	if code != diag.ResAmbiguousSymbol {
		t.Fatalf("code = %d, want ambiguous", code)
	}
}

func TestDirectChildShadowsWildcard(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod lib {
	pub part thing() {}
}
use lib::*;
part thing() {}
`)

	sym, code := env.resolver.Lookup(mod, ParseName("thing"), source.Span{})
	if code != 0 {
		t.Fatalf("lookup failed: %d", code)
	}
	if sym.Parent != mod {
		t.Error("wildcard import shadowed the local definition")
	}
}

func TestPrivateSymbolRejected(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `
mod lib {
	part hidden() {}
}
`)

	_, code := env.resolver.Lookup(mod, ParseName("lib::hidden"), source.Span{})
	if code != diag.ResSymbolIsPrivate {
		t.Fatalf("code = %d, want private", code)
	}
	if !env.bag.HasErrors() {
		t.Error("expected a diagnostic")
	}
}

func TestDuplicateDefinition(t *testing.T) {
	env := newTestEnv(t)
	env.resolveSource(t, `
part box() {}
part box() {}
`)

	found := false
	for _, d := range env.bag.Items() {
		if d.Code == diag.ResDuplicateSymbol {
			found = true
		}
	}
	if !found {
		t.Error("expected a duplicate-symbol diagnostic")
	}
}

func TestLookupMissing(t *testing.T) {
	env := newTestEnv(t)
	mod := env.resolveSource(t, `x = 1;`)

	_, code := env.resolver.Lookup(mod, ParseName("no::such::thing"), source.Span{})
	if code != diag.ResSymbolNotFound {
		t.Fatalf("code = %d, want not-found", code)
	}
}

func TestInstallAndLookupFromNestedScope(t *testing.T) {
	env := newTestEnv(t)
	builtin := NewSymbol("assert", SymBuiltinFunction, ast.Public)
	env.resolver.Install(ParseName("__builtin::assert"), builtin)

	mod := env.resolveSource(t, `
mod inner {
	part p() {}
}
`)
	inner, _ := env.resolver.Lookup(mod, ParseName("inner"), source.Span{})

	sym, code := env.resolver.Lookup(inner, ParseName("__builtin::assert"), source.Span{})
	if code != 0 {
		t.Fatalf("lookup failed: %d", code)
	}
	if sym != builtin {
		t.Error("installed builtin not returned by lookup")
	}
}

func writeExternalLib(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExternalLookup(t *testing.T) {
	env := newTestEnv(t)
	dir := writeExternalLib(t, map[string]string{
		"std/shapes.cad": "pub part gear(teeth: Integer) {}\n",
	})
	ex, err := ScanSearchPaths([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	env.resolver.SetExternals(ex)

	mod := env.resolveSource(t, `x = 1;`)
	sym, code := env.resolver.Lookup(mod, ParseName("std::shapes::gear"), source.Span{})
	if code != 0 {
		t.Fatalf("lookup failed: %d, diags: %v", code, env.bag.Items())
	}
	if sym.Kind != SymWorkbench {
		t.Errorf("kind = %v", sym.Kind)
	}

	again, code := env.resolver.Lookup(mod, ParseName("std::shapes::gear"), source.Span{})
	if code != 0 || again != sym {
		t.Error("second external lookup did not return the cached symbol")
	}
}

func TestExternalSymbolMissing(t *testing.T) {
	env := newTestEnv(t)
	dir := writeExternalLib(t, map[string]string{
		"std/shapes.cad": "pub part gear() {}\n",
	})
	ex, err := ScanSearchPaths([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	env.resolver.SetExternals(ex)

	mod := env.resolveSource(t, `x = 1;`)
	_, code := env.resolver.Lookup(mod, ParseName("std::shapes::sprocket"), source.Span{})
	if code != diag.ResExternalSymbolNotFound {
		t.Fatalf("code = %d, want external-not-found", code)
	}
}

func TestScanSearchPathPrefixes(t *testing.T) {
	dir := writeExternalLib(t, map[string]string{
		"std/math.cad":  "pub pi = 3;\n",
		"std/algo.cad":  "pub fn id(x: Number) { return x; }\n",
		"vendor.cad":    "pub part v() {}\n",
		"std/notes.txt": "ignored\n",
	})
	ex, err := ScanSearchPaths([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	got := ex.Prefixes()
	want := []string{"std::algo", "std::math", "vendor"}
	if len(got) != len(want) {
		t.Fatalf("prefixes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("prefixes = %v, want %v", got, want)
		}
	}
}
