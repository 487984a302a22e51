package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "gears"
main = "src/main.cad"

[paths]
search = ["lib", "missing"]

[render]
resolution = 0.05
disk_cache = true
`)
	if err := os.MkdirAll(filepath.Join(root, "src", "deep"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "main.cad"), []byte("cube(1);\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(filepath.Join(root, "src", "deep"))
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "gears" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
	if m.Config.Render.Resolution != 0.05 || !m.Config.Render.DiskCache {
		t.Errorf("render config = %+v", m.Config.Render)
	}

	main, err := m.MainFile()
	if err != nil {
		t.Fatal(err)
	}
	if main != filepath.Join(root, "src", "main.cad") {
		t.Errorf("main = %q", main)
	}

	paths := m.SearchPaths()
	if len(paths) != 1 || paths[0] != filepath.Join(root, "lib") {
		t.Errorf("search paths = %v, missing dirs should be dropped", paths)
	}
}

func TestLoadNoManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unexpected manifest")
	}
}

func TestLoadRejectsMissingName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\n")
	if _, _, err := Load(dir); err == nil {
		t.Error("expected error for missing [package].name")
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"x\"\nbogus = 1\n")
	if _, _, err := Load(dir); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestMainFileDefaultsToPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\nname = \"plate\"\n")
	if err := os.WriteFile(filepath.Join(dir, "plate.cad"), []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}
	m, _, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	main, err := m.MainFile()
	if err != nil {
		t.Fatal(err)
	}
	if main != filepath.Join(dir, "plate.cad") {
		t.Errorf("main = %q", main)
	}
}
