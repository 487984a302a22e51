package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"cascade/internal/driver"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "a/main.cad", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a/cascade.toml", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a/lib.cad", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "a/main.cad", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "a/part.stl", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "a/notes.txt", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev); got != tc.want {
			t.Errorf("relevant(%v %s) = %v, want %v", tc.ev.Op, tc.ev.Name, got, tc.want)
		}
	}
}

func TestRunRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cad")
	if err := os.WriteFile(path, []byte("#[export(\"part.stl\")]\ncube(size = 1);\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := make(chan *driver.ExportResult, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, Options{
			Driver:      driver.Options{OutDir: dir},
			DebounceFor: 10 * time.Millisecond,
		}, func(res *driver.ExportResult, err error) {
			if err != nil {
				t.Errorf("pass error: %v", err)
				return
			}
			results <- res
		})
	}()

	first := waitResult(t, results)
	if first.Failed() {
		t.Fatalf("initial pass failed: %v", first.Eval.Bag.Items())
	}

	// Give the watcher time to arm before the write.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("#[export(\"part.stl\")]\ncube(size = 2);\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	second := waitResult(t, results)
	if second.Failed() {
		t.Fatalf("rebuild failed: %v", second.Eval.Bag.Items())
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v", err)
	}
}

func waitResult(t *testing.T, ch chan *driver.ExportResult) *driver.ExportResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a pipeline pass")
		return nil
	}
}
