package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"cascade/internal/diag"
	"cascade/internal/export"
	"cascade/internal/model"
	"cascade/internal/render"
	"cascade/internal/source"
	"cascade/internal/trace"
)

// Target is one file an export attribute asks for.
type Target struct {
	// OutPath is the destination file.
	OutPath string
	// Node is the model subtree the attribute is attached to.
	Node *model.Model
	// Err is the render or write failure, nil on success.
	Err error
}

// ExportResult is the outcome of a full pipeline run.
type ExportResult struct {
	Eval    *EvalResult
	Targets []Target
	Cache   render.Stats
}

// Failed reports whether the run produced errors.
func (r *ExportResult) Failed() bool {
	if r.Eval.Bag.HasErrors() {
		return true
	}
	for _, t := range r.Targets {
		if t.Err != nil {
			return true
		}
	}
	return false
}

// CollectTargets walks the tree and resolves every export attribute
// to a destination path. Relative destinations land in outDir.
func CollectTargets(root *model.Model, outDir string) []Target {
	var targets []Target
	root.Walk(func(m *model.Model) bool {
		for _, name := range m.Attr.Exports {
			out := name
			if !filepath.IsAbs(out) {
				out = filepath.Join(outDir, filepath.FromSlash(name))
			}
			targets = append(targets, Target{OutPath: out, Node: m})
		}
		return true
	})
	return targets
}

// Session keeps the geometry cache alive across pipeline runs, so a
// watch loop only re-tessellates subtrees whose content hash changed.
type Session struct {
	cache *render.Cache
}

func NewSession() *Session {
	return &Session{cache: render.NewCache()}
}

// Export runs the whole pipeline once and writes every export target.
// Convenience wrapper for one-shot commands.
func Export(ctx context.Context, path string, opts Options) (*ExportResult, error) {
	return NewSession().Export(ctx, path, opts)
}

// Export runs the whole pipeline on path and writes every export
// target. Targets render in parallel; each goroutine renders a clone
// of its subtree so shared nodes are never mutated concurrently,
// while the geometry cache is shared across all of them. A failed
// target is recorded and does not stop the others. Cache entries not
// touched by this pass are evicted at the end.
func (s *Session) Export(ctx context.Context, path string, opts Options) (*ExportResult, error) {
	tracer := trace.FromContext(ctx)
	pass := trace.Begin(tracer, trace.LevelPass, "pass")
	defer func() { pass.End(path) }()

	ev, err := Eval(path, opts)
	if err != nil {
		return nil, err
	}
	res := &ExportResult{Eval: ev}
	if ev.Bag.HasErrors() {
		return res, nil
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	res.Targets = CollectTargets(ev.Root, outDir)
	if len(res.Targets) == 0 {
		diag.Warning(diag.BagReporter{Bag: ev.Bag}, diag.ExportNothingToExport, source.Span{},
			"nothing to export: no #[export(...)] attribute in "+path)
		return res, nil
	}

	cache := s.cache
	cache.BeginPass()
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bags := make([]*diag.Bag, len(res.Targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(res.Targets)))

	for i := range res.Targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			t := &res.Targets[i]
			span := trace.Begin(tracer, trace.LevelTarget, "target")
			defer func() { span.End(t.OutPath) }()
			bag := diag.NewBag(opts.MaxDiagnostics)
			bags[i] = bag

			rc, err := newRenderContext(opts, cache, diag.BagReporter{Bag: bag})
			if err != nil {
				t.Err = err
				return nil
			}

			node := t.Node.Clone()
			geo, err := rc.Render(node)
			if err != nil {
				t.Err = fmt.Errorf("render %s: %w", t.OutPath, err)
				return nil
			}
			if err := export.WriteFile(t.OutPath, geo, t.Node.Attr); err != nil {
				t.Err = err
				diag.Error(diag.BagReporter{Bag: bag}, diag.ExportIOFailure, t.Node.Span,
					"export failed: "+err.Error())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return res, err
	}
	for _, bag := range bags {
		if bag != nil {
			ev.Bag.Merge(bag)
		}
	}
	cache.GC()
	res.Cache = cache.Stats()
	return res, nil
}
