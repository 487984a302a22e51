package export

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cascade/internal/geom"
	"cascade/internal/model"
)

func TestForPath(t *testing.T) {
	if _, ok := ForPath("out/part.stl"); !ok {
		t.Error("no exporter for .stl")
	}
	if _, ok := ForPath("plate.SVG"); !ok {
		t.Error("extension matching should be case-insensitive")
	}
	if _, ok := ForPath("part.step"); ok {
		t.Error("unexpected exporter for .step")
	}
}

func TestSTLBinaryLayout(t *testing.T) {
	mesh := geom.Cube(2)
	var buf bytes.Buffer
	if err := (stlExporter{}).Export(&buf, geom.From3D(mesh), model.Attributes{}); err != nil {
		t.Fatal(err)
	}

	data := buf.Bytes()
	wantLen := 80 + 4 + 50*len(mesh.Triangles)
	if len(data) != wantLen {
		t.Fatalf("size = %d, want %d", len(data), wantLen)
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	if int(count) != len(mesh.Triangles) {
		t.Fatalf("triangle count = %d, want %d", count, len(mesh.Triangles))
	}

	// First vertex of the first triangle survives the float32 narrowing.
	tri := data[84:]
	x := math.Float32frombits(binary.LittleEndian.Uint32(tri[12:16]))
	if float64(x) != mesh.Triangles[0].A.X {
		t.Errorf("vertex x = %v, want %v", x, mesh.Triangles[0].A.X)
	}
	if attrWord := binary.LittleEndian.Uint16(tri[48:50]); attrWord != 0 {
		t.Errorf("attribute word = %d", attrWord)
	}
}

func TestSTLRejects2D(t *testing.T) {
	g := geom.From2D(geom.Circle(1, 16))
	if err := (stlExporter{}).Export(&bytes.Buffer{}, g, model.Attributes{}); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestSVGContents(t *testing.T) {
	profile := geom.Rect(4, 2)
	hole := geom.Circle(0.5, 8)
	hole.Polygons[0].Hole = true
	hole.Polygons[0].Reverse()
	profile.Polygons = append(profile.Polygons, hole.Polygons...)

	var buf bytes.Buffer
	attr := model.Attributes{Color: "#ff0000", Layer: "cut"}
	if err := (svgExporter{}).Export(&buf, geom.From2D(profile), attr); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`fill-rule="evenodd"`,
		`fill="#ff0000"`,
		`<g id="cut">`,
		"viewBox=",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
	// One subpath per polygon.
	if got := strings.Count(out, "Z"); got != 2 {
		t.Errorf("closed subpaths = %d, want 2", got)
	}
}

func TestSVGEmptyProfile(t *testing.T) {
	g := geom.From2D(geom.PolygonSet{})
	if err := (svgExporter{}).Export(&bytes.Buffer{}, g, model.Attributes{}); err == nil {
		t.Fatal("expected error for empty profile")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.stl")
	if err := WriteFile(path, geom.From3D(geom.Cube(1)), model.Attributes{}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 80+4+50*12 {
		t.Errorf("file size = %d", info.Size())
	}

	if err := WriteFile(filepath.Join(dir, "part.xyz"), geom.From3D(geom.Cube(1)), model.Attributes{}); err == nil {
		t.Error("expected unknown-extension error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %d entries", len(entries))
	}
}
