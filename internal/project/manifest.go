// Package project loads the cascade.toml manifest that describes a
// model project: its name, the entry file, library search paths and
// render defaults.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const ManifestName = "cascade.toml"

// Manifest is a parsed cascade.toml plus its location on disk.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Package PackageConfig `toml:"package"`
	Paths   PathsConfig   `toml:"paths"`
	Render  RenderConfig  `toml:"render"`
}

type PackageConfig struct {
	Name string `toml:"name"`
	Main string `toml:"main"`
}

type PathsConfig struct {
	// Search lists library directories, relative to the project root.
	Search []string `toml:"search"`
}

type RenderConfig struct {
	// Resolution is the default tessellation resolution in model
	// units. Zero keeps the built-in default.
	Resolution float64 `toml:"resolution"`
	// DiskCache toggles the persistent geometry cache.
	DiskCache bool `toml:"disk_cache"`
}

// Find walks up from startDir to locate cascade.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and parses the manifest governing startDir.
// ok=false when no manifest exists, which is not an error: single-file
// invocations work without a project.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := parse(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

func parse(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// MainFile resolves the entry file. An explicit [package].main wins;
// otherwise <name>.cad in the project root is tried.
func (m *Manifest) MainFile() (string, error) {
	rel := strings.TrimSpace(m.Config.Package.Main)
	if rel == "" {
		rel = m.Config.Package.Name + ".cad"
	}
	p := filepath.Join(m.Root, filepath.FromSlash(rel))
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: entry file does not exist: %s", m.Path, p)
		}
		return "", fmt.Errorf("%s: failed to stat entry file: %w", m.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: [package].main must be a file, %s is a directory", m.Path, p)
	}
	return p, nil
}

// SearchPaths returns the library directories as absolute paths,
// keeping manifest order. Missing directories are skipped.
func (m *Manifest) SearchPaths() []string {
	out := make([]string, 0, len(m.Config.Paths.Search))
	for _, rel := range m.Config.Paths.Search {
		p := filepath.Join(m.Root, filepath.FromSlash(rel))
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}
