package render

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cascade/internal/diag"
	"cascade/internal/geom"
	"cascade/internal/model"
)

// countingKernel wraps the naive kernel and counts invocations.
type countingKernel struct {
	geom.NaiveKernel
	mu    sync.Mutex
	calls int
}

func (k *countingKernel) bump() {
	k.mu.Lock()
	k.calls++
	k.mu.Unlock()
}

func (k *countingKernel) Boolean2D(op geom.BoolOp, a, b geom.PolygonSet) (geom.PolygonSet, error) {
	k.bump()
	return k.NaiveKernel.Boolean2D(op, a, b)
}

func (k *countingKernel) Boolean3D(op geom.BoolOp, a, b geom.Mesh) (geom.Mesh, error) {
	k.bump()
	return k.NaiveKernel.Boolean3D(op, a, b)
}

func (k *countingKernel) Extrude(profile geom.PolygonSet, height float64) (geom.Mesh, error) {
	k.bump()
	return k.NaiveKernel.Extrude(profile, height)
}

func cubeNode(size float64) *model.Model {
	return model.New(model.Primitive{
		Name: "cube",
		Dim:  geom.Dim3D,
		Tessellate: func(res float64) (*geom.Geometry, error) {
			return geom.From3D(geom.Cube(size)), nil
		},
	})
}

func sphereNode(radius float64, count *int) *model.Model {
	return model.New(model.Primitive{
		Name: "sphere",
		Dim:  geom.Dim3D,
		Tessellate: func(res float64) (*geom.Geometry, error) {
			*count++
			segs := int(2 / res)
			return geom.From3D(geom.Sphere(radius, segs)), nil
		},
	})
}

func circleNode(radius float64) *model.Model {
	return model.New(model.Primitive{
		Name: "circle",
		Dim:  geom.Dim2D,
		Tessellate: func(res float64) (*geom.Geometry, error) {
			return geom.From2D(geom.Circle(radius, 16)), nil
		},
	})
}

func translated(x float64, child *model.Model) *model.Model {
	tr := model.NewTransform(model.Transform{Name: "translate", Matrix: geom.Translation(x, 0, 0)})
	tr.Append(child)
	return tr
}

func differenceNode(children ...*model.Model) *model.Model {
	op := model.New(model.Operation{
		Name: "difference",
		Apply: func(k geom.Kernel, geos []*geom.Geometry, res float64) (*geom.Geometry, error) {
			mesh, err := k.Boolean3D(geom.BoolDifference, geos[0].Mesh, geos[1].Mesh)
			if err != nil {
				return nil, err
			}
			return geom.From3D(mesh), nil
		},
	})
	for _, c := range children {
		op.Append(c)
	}
	return op
}

func newTestContext(k geom.Kernel) (*Context, *diag.Bag) {
	bag := diag.NewBag(0)
	rc := NewContext(NewCache(), diag.BagReporter{Bag: bag})
	if k != nil {
		rc.Kernel = k
	}
	return rc, bag
}

func TestRenderRepeatUsesCache(t *testing.T) {
	k := &countingKernel{}
	rc, bag := newTestContext(k)

	root := differenceNode(cubeNode(2), translated(1, cubeNode(2)))
	root.InferOutputType()

	if _, err := rc.Render(root); err != nil {
		t.Fatalf("first render: %v (%v)", err, bag.Items())
	}
	if k.calls != 1 {
		t.Fatalf("kernel calls after first render = %d", k.calls)
	}

	if _, err := rc.Render(root); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if k.calls != 1 {
		t.Errorf("kernel calls after repeat render = %d, want 1", k.calls)
	}
	stats := rc.Cache.Stats()
	if stats.Hits == 0 {
		t.Error("no cache hits recorded")
	}
}

func TestRenderResolutionChangesEntry(t *testing.T) {
	count := 0
	node := sphereNode(1, &count)
	node.InferOutputType()

	rc, _ := newTestContext(nil)
	rc.Resolution = 0.1
	if _, err := rc.Render(node); err != nil {
		t.Fatal(err)
	}
	rc.Resolution = 0.05
	if _, err := rc.Render(node); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("tessellations = %d, want 2 (one per resolution)", count)
	}

	rc.Resolution = 0.1
	if _, err := rc.Render(node); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("tessellations = %d, earlier resolution should hit the cache", count)
	}
}

func TestRenderDifferenceMatchesDirectKernel(t *testing.T) {
	rc, bag := newTestContext(nil)
	root := differenceNode(cubeNode(2), translated(1, cubeNode(2)))
	root.InferOutputType()

	got, err := rc.Render(root)
	if err != nil {
		t.Fatalf("render: %v (%v)", err, bag.Items())
	}

	k := geom.NaiveKernel{}
	moved := geom.Cube(2)
	moved = moved.Transform(geom.Translation(1, 0, 0))
	want, err := k.Boolean3D(geom.BoolDifference, geom.Cube(2), moved)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got.Mesh); diff != "" {
		t.Errorf("rendered difference diverges from direct kernel call:\n%s", diff)
	}
}

func TestRenderTransformAppliesWorldMatrix(t *testing.T) {
	rc, _ := newTestContext(nil)
	root := translated(10, cubeNode(2))
	root.InferOutputType()

	g, err := rc.Render(root)
	if err != nil {
		t.Fatal(err)
	}
	min, max, ok := g.Mesh.Bounds()
	if !ok {
		t.Fatal("empty mesh")
	}
	if min.X != 9 || max.X != 11 {
		t.Errorf("x range = %v..%v", min.X, max.X)
	}
}

func TestRenderMixedDimensionsFails(t *testing.T) {
	rc, bag := newTestContext(nil)
	root := model.New(model.Group{})
	root.Append(circleNode(1))
	root.Append(cubeNode(1))
	root.InferOutputType()

	if _, err := rc.Render(root); err == nil {
		t.Fatal("expected render failure")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.RenderMixedOutput {
			found = true
		}
	}
	if !found {
		t.Error("no MixedOutput diagnostic")
	}
}

func TestRenderSiblingSurvivesChildFailure(t *testing.T) {
	rc, bag := newTestContext(nil)
	broken := model.New(model.Primitive{
		Name: "broken",
		Dim:  geom.Dim3D,
		Tessellate: func(res float64) (*geom.Geometry, error) {
			return nil, geom.ErrUnsupported
		},
	})
	root := model.New(model.Group{})
	root.Append(broken)
	root.Append(cubeNode(2))
	root.InferOutputType()

	g, err := rc.Render(root)
	if err != nil {
		t.Fatalf("render: %v (%v)", err, bag.Items())
	}
	if len(g.Mesh.Triangles) != 12 {
		t.Errorf("triangles = %d, want the surviving cube", len(g.Mesh.Triangles))
	}
}

func TestContentHashDistinguishesStructure(t *testing.T) {
	a := ContentHash(cubeNode(1), geom.Identity(), 0.1)
	b := ContentHash(cubeNode(1), geom.Identity(), 0.1)
	if a != b {
		t.Error("equal nodes hash differently")
	}

	shifted := ContentHash(cubeNode(1), geom.Translation(1, 0, 0), 0.1)
	if a == shifted {
		t.Error("world transform not part of the hash")
	}
	finer := ContentHash(cubeNode(1), geom.Identity(), 0.05)
	if a == finer {
		t.Error("resolution not part of the hash")
	}

	parent := model.New(model.Group{})
	parent.Append(cubeNode(1))
	withChild := ContentHash(parent, geom.Identity(), 0.1)
	empty := ContentHash(model.New(model.Group{}), geom.Identity(), 0.1)
	if withChild == empty {
		t.Error("children not part of the hash")
	}
}

func TestCacheGC(t *testing.T) {
	c := NewCache()
	mk := func(b byte) Digest {
		var d Digest
		d[0] = b
		return d
	}
	g := geom.From3D(geom.Cube(1))
	compute := func() (*geom.Geometry, error) { return g, nil }

	c.GetOrCompute(mk(1), compute)
	c.GetOrCompute(mk(2), compute)

	c.BeginPass()
	c.GetOrCompute(mk(1), compute)

	if evicted := c.GC(); evicted != 1 {
		t.Fatalf("evicted = %d", evicted)
	}
	if stats := c.Stats(); stats.Entries != 1 {
		t.Fatalf("entries = %d", stats.Entries)
	}
}

func TestCacheAtMostOnce(t *testing.T) {
	c := NewCache()
	var d Digest
	runs := 0
	for i := 0; i < 3; i++ {
		c.GetOrCompute(d, func() (*geom.Geometry, error) {
			runs++
			return geom.From3D(geom.Cube(1)), nil
		})
	}
	if runs != 1 {
		t.Fatalf("compute ran %d times", runs)
	}
	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dc, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[0] = 7

	if _, ok, err := dc.Get(key); err != nil || ok {
		t.Fatalf("unexpected entry before put: ok=%v err=%v", ok, err)
	}

	want := geom.From3D(geom.Cube(2))
	if err := dc.Put(key, want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := dc.Get(key)
	if err != nil || !ok {
		t.Fatalf("get after put: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(want.Mesh, got.Mesh); diff != "" {
		t.Errorf("roundtrip mismatch:\n%s", diff)
	}
}
