package render

import (
	"errors"
	"fmt"

	"cascade/internal/diag"
	"cascade/internal/geom"
	"cascade/internal/model"
)

// DefaultResolution is the linear tessellation resolution used when neither
// a flag nor a `#[resolution(...)]` attribute overrides it.
const DefaultResolution = 0.1

// Context renders model subtrees on demand. One Context serves one pass; in
// a watch loop Cache survives across Contexts.
type Context struct {
	Kernel   geom.Kernel
	Cache    *Cache
	Disk     *DiskCache // optional
	Reporter diag.Reporter
	// Resolution is the base linear resolution; 0 means DefaultResolution.
	Resolution float64
}

// NewContext wires a render context around the naive kernel.
func NewContext(cache *Cache, reporter diag.Reporter) *Context {
	return &Context{
		Kernel:   geom.NaiveKernel{},
		Cache:    cache,
		Reporter: reporter,
	}
}

// Render produces geometry for the subtree rooted at m, treating m as a
// root (identity parent transform).
func (rc *Context) Render(m *model.Model) (*geom.Geometry, error) {
	if m.Output.Type == model.NotDetermined {
		m.InferOutputType()
	}
	return rc.render(m, geom.Identity(), rc.baseResolution())
}

func (rc *Context) baseResolution() float64 {
	if rc.Resolution > 0 {
		return rc.Resolution
	}
	return DefaultResolution
}

// render is the memoized recursive entry. parentWorld is the accumulated
// transform above m; res the inherited base resolution.
func (rc *Context) render(m *model.Model, parentWorld geom.Mat4, res float64) (*geom.Geometry, error) {
	if m.Output.Type == model.InvalidMixed {
		err := errors.New("children mix 2d and 3d geometry")
		diag.Error(rc.Reporter, diag.RenderMixedOutput, m.Span, err.Error())
		return nil, err
	}

	world := parentWorld.Mul(m.Output.Local)
	if m.Attr.Resolution > 0 {
		res = m.Attr.Resolution
	}
	eff := res
	if sf := world.ScaleFactor(); sf > 0 {
		eff = res / sf
	}

	m.Output.World = world
	m.Output.Resolution = eff

	key := ContentHash(m, world, eff)
	g, err := rc.Cache.GetOrCompute(key, func() (*geom.Geometry, error) {
		if cached, ok, derr := rc.Disk.Get(key); derr == nil && ok {
			return cached, nil
		}
		computed, cerr := rc.renderElement(m, world, eff)
		if cerr != nil {
			return nil, cerr
		}
		if perr := rc.Disk.Put(key, computed); perr != nil {
			diag.Warning(rc.Reporter, diag.ExportIOFailure, m.Span,
				fmt.Sprintf("cannot persist render cache entry: %v", perr))
		}
		return computed, nil
	})
	if err != nil {
		return nil, err
	}
	m.Output.Geometry = g
	return g, nil
}

func (rc *Context) renderElement(m *model.Model, world geom.Mat4, eff float64) (*geom.Geometry, error) {
	switch el := m.Element.(type) {
	case model.Primitive:
		local, err := el.Tessellate(eff)
		if err != nil {
			return nil, err
		}
		return local.Transform(world), nil

	case model.Operation:
		children, err := rc.renderOperands(m, world, eff, el)
		if err != nil {
			return nil, err
		}
		out, err := el.Apply(rc.Kernel, children, eff)
		if err != nil {
			rc.reportKernel(m, el.Name, err)
			return nil, err
		}
		return out, nil

	case model.Group, model.Workpiece, model.Transform:
		return rc.renderCombined(m, world, eff)

	default:
		err := fmt.Errorf("cannot render element %s", m.Element.ElementKind())
		diag.Error(rc.Reporter, diag.RenderUnsupported, m.Span, err.Error())
		return nil, err
	}
}

// renderOperands renders an operation's children, rejecting geometry of the
// wrong dimensionality.
func (rc *Context) renderOperands(m *model.Model, world geom.Mat4, eff float64, el model.Operation) ([]*geom.Geometry, error) {
	out := make([]*geom.Geometry, 0, len(m.Children()))
	for _, c := range m.Children() {
		g, err := rc.render(c, world, eff)
		if err != nil {
			return nil, err
		}
		if el.Input != 0 && g.Dim != el.Input {
			err := fmt.Errorf("'%s' consumes %dd geometry, child produces %dd",
				el.Name, el.Input, g.Dim)
			diag.Error(rc.Reporter, diag.RenderMixedOutput, c.Span, err.Error())
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

// renderCombined renders a container's children and unions the survivors.
// A failing child is reported and skipped; siblings keep rendering.
func (rc *Context) renderCombined(m *model.Model, world geom.Mat4, eff float64) (*geom.Geometry, error) {
	var parts []*geom.Geometry
	var firstErr error
	for _, c := range m.Children() {
		g, err := rc.render(c, world, eff)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		parts = append(parts, g)
	}
	if len(parts) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, errors.New("nothing to render")
	}

	acc := parts[0]
	for _, next := range parts[1:] {
		if acc.Dim != next.Dim {
			err := errors.New("children mix 2d and 3d geometry")
			diag.Error(rc.Reporter, diag.RenderMixedOutput, m.Span, err.Error())
			return nil, err
		}
		var err error
		if acc.Dim == geom.Dim2D {
			var poly geom.PolygonSet
			poly, err = rc.Kernel.Boolean2D(geom.BoolUnion, acc.Poly, next.Poly)
			acc = geom.From2D(poly)
		} else {
			var mesh geom.Mesh
			mesh, err = rc.Kernel.Boolean3D(geom.BoolUnion, acc.Mesh, next.Mesh)
			acc = geom.From3D(mesh)
		}
		if err != nil {
			rc.reportKernel(m, "union", err)
			return nil, err
		}
	}
	return acc, nil
}

func (rc *Context) reportKernel(m *model.Model, op string, err error) {
	code := diag.RenderKernelFailure
	if errors.Is(err, geom.ErrUnsupported) {
		code = diag.RenderUnsupported
	}
	diag.Error(rc.Reporter, code, m.Span, fmt.Sprintf("%s: %v", op, err))
}
