// Package watch re-runs the export pipeline whenever a source file
// changes, keeping the geometry cache warm between passes.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"cascade/internal/driver"
	"cascade/internal/project"
	"cascade/internal/resolve"
)

// Debounce collapses editor save bursts into a single rebuild.
const Debounce = 150 * time.Millisecond

// Handler receives the outcome of every pipeline pass.
type Handler func(res *driver.ExportResult, err error)

// Run exports path once, then blocks watching its directory and the
// library search paths, re-running the pipeline on every relevant
// change until ctx is cancelled.
func Run(ctx context.Context, path string, opts Options, handle Handler) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addTree(w, filepath.Dir(path)); err != nil {
		return err
	}
	for _, dir := range opts.Driver.SearchPaths {
		if err := addTree(w, dir); err != nil {
			return err
		}
	}

	session := driver.NewSession()
	handle(session.Export(ctx, path, opts.Driver))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// New directories must be picked up for nested libraries.
			if ev.Has(fsnotify.Create) {
				_ = addTree(w, ev.Name)
			}
			if !relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(opts.debounce())
				fire = timer.C
			} else {
				timer.Reset(opts.debounce())
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			handle(nil, err)

		case <-fire:
			timer = nil
			fire = nil
			handle(session.Export(ctx, path, opts.Driver))
		}
	}
}

// Options configures the watch loop.
type Options struct {
	Driver driver.Options
	// DebounceFor overrides the default debounce window; zero keeps it.
	DebounceFor time.Duration
}

func (o Options) debounce() time.Duration {
	if o.DebounceFor > 0 {
		return o.DebounceFor
	}
	return Debounce
}

// relevant reports whether an event should trigger a rebuild: content
// changes to model sources or the project manifest.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if base == project.ManifestName {
		return true
	}
	return strings.HasSuffix(ev.Name, resolve.SourceExt)
}

// addTree registers dir and every subdirectory. Non-directories are
// ignored so create events for plain files can be passed through.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
