// Package export writes rendered geometry to interchange formats.
// Exporters are looked up by the target file extension and never
// modify the geometry they are given.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cascade/internal/geom"
	"cascade/internal/model"
)

// Exporter serializes one rendered geometry to a writer.
type Exporter interface {
	// Ext is the file extension handled, lowercase with leading dot.
	Ext() string
	// Export writes g. Presentation attributes (color, layer) apply
	// where the format supports them.
	Export(w io.Writer, g *geom.Geometry, attr model.Attributes) error
}

var registry = map[string]Exporter{}

// Register installs an exporter. Later registrations for the same
// extension win, which lets callers override the built-in writers.
func Register(e Exporter) {
	registry[e.Ext()] = e
}

func init() {
	Register(stlExporter{})
	Register(svgExporter{})
}

// ForPath selects the exporter for a target file name by extension.
func ForPath(path string) (Exporter, bool) {
	e, ok := registry[strings.ToLower(filepath.Ext(path))]
	return e, ok
}

// Extensions lists registered extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// WriteFile exports g to path using the exporter matching its
// extension. The file is written via a temp file and rename so a
// failed export never leaves a truncated target behind.
func WriteFile(path string, g *geom.Geometry, attr model.Attributes) error {
	e, ok := ForPath(path)
	if !ok {
		return fmt.Errorf("no exporter for %q (known: %s)",
			filepath.Ext(path), strings.Join(Extensions(), ", "))
	}
	if g == nil {
		return fmt.Errorf("nothing to export to %s", path)
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := e.Export(f, g, attr); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
