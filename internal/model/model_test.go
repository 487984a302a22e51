package model

import (
	"testing"

	"cascade/internal/geom"
	"cascade/internal/value"
)

func TestOutputTypeMerge(t *testing.T) {
	cases := []struct {
		a, b, want OutputType
	}{
		{NotDetermined, NotDetermined, NotDetermined},
		{NotDetermined, Geometry2D, Geometry2D},
		{Geometry3D, NotDetermined, Geometry3D},
		{Geometry2D, Geometry2D, Geometry2D},
		{Geometry2D, Geometry3D, InvalidMixed},
		{Geometry3D, InvalidMixed, InvalidMixed},
		{InvalidMixed, NotDetermined, InvalidMixed},
	}
	for _, c := range cases {
		if got := c.a.Merge(c.b); got != c.want {
			t.Errorf("%v.Merge(%v) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func prim(dim geom.Dim) *Model {
	return New(Primitive{Name: "p", Dim: dim})
}

func TestInferOutputType(t *testing.T) {
	root := New(Group{})
	root.Append(prim(geom.Dim3D))
	root.Append(prim(geom.Dim3D))
	if got := root.InferOutputType(); got != Geometry3D {
		t.Fatalf("type = %v", got)
	}

	mixed := New(Group{})
	mixed.Append(prim(geom.Dim2D))
	mixed.Append(prim(geom.Dim3D))
	if got := mixed.InferOutputType(); got != InvalidMixed {
		t.Fatalf("mixed type = %v", got)
	}
	// Siblings keep their own valid types.
	if mixed.Children()[0].Output.Type != Geometry2D {
		t.Error("child type clobbered by mixed parent")
	}
}

func TestInferOutputTypeOperation(t *testing.T) {
	ex := New(Operation{Name: "extrude", Input: geom.Dim2D, Output: geom.Dim3D})
	ex.Append(prim(geom.Dim2D))
	if got := ex.InferOutputType(); got != Geometry3D {
		t.Fatalf("extrude type = %v", got)
	}

	un := New(Operation{Name: "union"})
	un.Append(prim(geom.Dim2D))
	un.Append(prim(geom.Dim2D))
	if got := un.InferOutputType(); got != Geometry2D {
		t.Fatalf("union type = %v", got)
	}
}

func TestAppendSetsParentOnce(t *testing.T) {
	a := New(Group{})
	b := New(Group{})
	child := prim(geom.Dim3D)
	a.Append(child)
	if child.Parent() != a {
		t.Fatal("parent not set")
	}

	defer func() {
		if recover() == nil {
			t.Error("second attach did not panic")
		}
	}()
	b.Append(child)
}

func TestSpliceChildren(t *testing.T) {
	// op body: { cube; @children; cube; }
	op := New(Operation{Name: "wrap"})
	op.Append(prim(geom.Dim3D))
	op.Append(New(ChildrenMarker{}))
	op.Append(prim(geom.Dim3D))

	in1 := prim(geom.Dim3D)
	in2 := prim(geom.Dim3D)
	op.SpliceChildren([]*Model{in1, in2})

	kids := op.Children()
	if len(kids) != 4 {
		t.Fatalf("children = %d", len(kids))
	}
	if kids[1] != in1 || kids[2] != in2 {
		t.Error("spliced nodes not siblings at the marker position")
	}
	for i, k := range kids {
		if _, ok := k.Element.(ChildrenMarker); ok {
			t.Errorf("marker survived at %d", i)
		}
		if k.Parent() != op {
			t.Errorf("child %d parent not set", i)
		}
	}
}

func TestSpliceChildrenMultipleMarkers(t *testing.T) {
	op := New(Group{})
	op.Append(New(ChildrenMarker{}))
	nested := New(Group{})
	nested.Append(New(ChildrenMarker{}))
	op.Append(nested)

	in := prim(geom.Dim3D)
	op.SpliceChildren([]*Model{in})

	if op.Children()[0] != in {
		t.Fatal("first marker did not receive the original node")
	}
	clone := nested.Children()[0]
	if clone == in {
		t.Fatal("second marker reused the original node")
	}
	if clone.Element.ElementKind() != "primitive" {
		t.Errorf("clone element = %s", clone.Element.ElementKind())
	}
}

func TestPropertiesUninitialized(t *testing.T) {
	p := NewProperties()
	p.Set("size", value.None)
	p.Set("depth", value.Number(2))
	p.Set("name", value.None)

	got := p.Uninitialized()
	if len(got) != 2 || got[0] != "size" || got[1] != "name" {
		t.Fatalf("uninitialized = %v", got)
	}

	p.Set("size", value.Int(4))
	p.Set("name", value.Str("lid"))
	if got := p.Uninitialized(); len(got) != 0 {
		t.Fatalf("uninitialized after fill = %v", got)
	}
}

func TestAttributesMerge(t *testing.T) {
	base := Attributes{Exports: []string{"a.stl"}, Color: "red"}
	over := Attributes{Exports: []string{"b.stl"}, Resolution: 0.5}
	got := base.Merge(over)
	if len(got.Exports) != 2 || got.Color != "red" || got.Resolution != 0.5 {
		t.Fatalf("merged = %+v", got)
	}
}
