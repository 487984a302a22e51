// Package driver orchestrates the model pipeline: load, parse,
// resolve, evaluate, render and export. Commands call into the driver
// instead of wiring the stages themselves.
package driver

import (
	"path/filepath"

	"cascade/internal/ast"
	"cascade/internal/diag"
	"cascade/internal/eval"
	"cascade/internal/lexer"
	"cascade/internal/model"
	"cascade/internal/observ"
	"cascade/internal/parser"
	"cascade/internal/project"
	"cascade/internal/render"
	"cascade/internal/resolve"
	"cascade/internal/source"
	"cascade/internal/token"
)

// Options configures a pipeline run. The zero value works for a
// standalone file with defaults.
type Options struct {
	// MaxDiagnostics caps error diagnostics; <= 0 selects the default.
	MaxDiagnostics int
	// Jobs bounds parallel export rendering; <= 0 uses GOMAXPROCS.
	Jobs int
	// Resolution overrides the default tessellation resolution.
	Resolution float64
	// SearchPaths lists library roots for qualified name lookup.
	SearchPaths []string
	// DiskCache enables the persistent geometry cache.
	DiskCache bool
	// OutDir receives export targets; empty means next to the source.
	OutDir string
}

// ResolveOptions fills unset fields from the cascade.toml governing
// path, when one exists. Explicitly set fields win over the manifest.
func ResolveOptions(path string, opts Options) (Options, error) {
	manifest, ok, err := project.Load(dirOf(path))
	if err != nil || !ok {
		return opts, err
	}
	if opts.SearchPaths == nil {
		opts.SearchPaths = manifest.SearchPaths()
	}
	if opts.Resolution == 0 {
		opts.Resolution = manifest.Config.Render.Resolution
	}
	if manifest.Config.Render.DiskCache {
		opts.DiskCache = true
	}
	return opts, nil
}

// TokenizeResult is the raw token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads and tokenizes a single file.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	interner := source.NewInterner()
	lx := lexer.New(file, interner, diag.BagReporter{Bag: bag})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.Tokenize(),
		Bag:     bag,
	}, nil
}

// ParseResult is the syntax tree of one file.
type ParseResult struct {
	FileSet  *source.FileSet
	Interner *source.Interner
	File     *ast.File
	Bag      *diag.Bag
}

// Parse loads and parses a single file.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	interner := source.NewInterner()
	astFile := parser.ParseFile(file, interner, diag.BagReporter{Bag: bag})

	return &ParseResult{
		FileSet:  fs,
		Interner: interner,
		File:     astFile,
		Bag:      bag,
	}, nil
}

// EvalResult is a fully evaluated model tree plus the state needed to
// render it.
type EvalResult struct {
	FileSet  *source.FileSet
	Interner *source.Interner
	Resolver *resolve.Resolver
	Bag      *diag.Bag
	Root     *model.Model
	Timing   observ.Report
}

// Eval runs the front half of the pipeline on path: parse, install
// builtins, scan library search paths, resolve and evaluate. The
// returned tree is complete even when Bag carries errors; callers
// decide whether to continue.
func Eval(path string, opts Options) (*EvalResult, error) {
	timer := observ.NewTimer()

	phase := timer.Begin("load")
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	timer.End(phase, path)

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	interner := source.NewInterner()

	phase = timer.Begin("parse")
	astFile := parser.ParseFile(file, interner, reporter)
	timer.End(phase, "")

	phase = timer.Begin("resolve")
	resolver := resolve.NewResolver(fs, interner, reporter)
	eval.InstallBuiltins(resolver)
	if len(opts.SearchPaths) > 0 {
		ex, err := resolve.ScanSearchPaths(opts.SearchPaths)
		if err != nil {
			return nil, err
		}
		resolver.SetExternals(ex)
	}
	scope := resolver.ResolveFile(astFile)
	timer.End(phase, "")

	phase = timer.Begin("eval")
	ctx := eval.NewContext(fs, resolver, reporter, bag)
	root := ctx.EvalFile(astFile, scope)
	timer.End(phase, "")

	return &EvalResult{
		FileSet:  fs,
		Interner: interner,
		Resolver: resolver,
		Bag:      bag,
		Root:     root,
		Timing:   timer.Report(),
	}, nil
}

// newRenderContext builds a render context honoring opts.
func newRenderContext(opts Options, cache *render.Cache, reporter diag.Reporter) (*render.Context, error) {
	rc := render.NewContext(cache, reporter)
	if opts.Resolution > 0 {
		rc.Resolution = opts.Resolution
	}
	if opts.DiskCache {
		disk, err := render.OpenDiskCache("cascade")
		if err != nil {
			return nil, err
		}
		rc.Disk = disk
	}
	return rc, nil
}

func dirOf(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Dir(path)
}
