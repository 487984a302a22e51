package eval

import (
	"errors"
	"math"

	"cascade/internal/geom"
	"cascade/internal/model"
	"cascade/internal/source"
	"cascade/internal/value"
)

// installGeometry registers the primitives, transforms and operations at
// the root namespace so bare calls like `cube(1)` resolve.
func installGeometry(fn func(path string, b *Builtin)) {
	fn("circle", primitive2D("circle",
		params(p("radius", value.NumberT)),
		func(am ArgumentMap, res float64) geom.PolygonSet {
			r := num(am, "radius")
			return geom.Circle(r, segmentsFor(r, res))
		}))
	fn("rect", primitive2D("rect",
		params(p("width", value.NumberT), p("height", value.NumberT)),
		func(am ArgumentMap, res float64) geom.PolygonSet {
			return geom.Rect(num(am, "width"), num(am, "height"))
		}))

	fn("cube", primitive3D("cube",
		params(p("size", value.NumberT)),
		func(am ArgumentMap, res float64) geom.Mesh {
			return geom.Cube(num(am, "size"))
		}))
	fn("sphere", primitive3D("sphere",
		params(p("radius", value.NumberT)),
		func(am ArgumentMap, res float64) geom.Mesh {
			r := num(am, "radius")
			return geom.Sphere(r, segmentsFor(r, res))
		}))
	fn("cylinder", primitive3D("cylinder",
		params(p("radius", value.NumberT), p("height", value.NumberT)),
		func(am ArgumentMap, res float64) geom.Mesh {
			r := num(am, "radius")
			return geom.Cylinder(r, num(am, "height"), segmentsFor(r, res))
		}))

	fn("translate", transform("translate",
		params(
			pd("x", value.NumberT, value.Number(0)),
			pd("y", value.NumberT, value.Number(0)),
			pd("z", value.NumberT, value.Number(0)),
		),
		func(am ArgumentMap) geom.Mat4 {
			return geom.Translation(num(am, "x"), num(am, "y"), num(am, "z"))
		}))
	fn("rotate", transform("rotate",
		params(
			p("angle", value.NumberT),
			pd("x", value.NumberT, value.Number(0)),
			pd("y", value.NumberT, value.Number(0)),
			pd("z", value.NumberT, value.Number(1)),
		),
		func(am ArgumentMap) geom.Mat4 {
			axis := geom.Vec3{X: num(am, "x"), Y: num(am, "y"), Z: num(am, "z")}
			return geom.RotationAxisAngle(axis, deg2rad(num(am, "angle")))
		}))
	fn("scale", transform("scale",
		params(p("s", value.NumberT)),
		func(am ArgumentMap) geom.Mat4 {
			return geom.Scaling(num(am, "s"))
		}))

	fn("union", booleanOp("union", geom.BoolUnion))
	fn("difference", booleanOp("difference", geom.BoolDifference))
	fn("intersection", booleanOp("intersection", geom.BoolIntersection))

	fn("extrude", &Builtin{
		Name:          "extrude",
		Params:        params(p("height", value.NumberT)),
		TakesChildren: true,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			height := num(am, "height")
			return modelResult(model.New(model.Operation{
				Name:   "extrude",
				Input:  geom.Dim2D,
				Output: geom.Dim3D,
				Args:   boundArgs(am, "height"),
				Apply: func(k geom.Kernel, children []*geom.Geometry, res float64) (*geom.Geometry, error) {
					profile, err := foldBoolean(k, geom.BoolUnion, children)
					if err != nil {
						return nil, err
					}
					mesh, err := k.Extrude(profile.Poly, height)
					if err != nil {
						return nil, err
					}
					return geom.From3D(mesh), nil
				},
			}))
		},
	})
	fn("revolve", &Builtin{
		Name:          "revolve",
		Params:        params(pd("angle", value.NumberT, value.Number(360))),
		TakesChildren: true,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			angle := deg2rad(num(am, "angle"))
			return modelResult(model.New(model.Operation{
				Name:   "revolve",
				Input:  geom.Dim2D,
				Output: geom.Dim3D,
				Args:   boundArgs(am, "angle"),
				Apply: func(k geom.Kernel, children []*geom.Geometry, res float64) (*geom.Geometry, error) {
					profile, err := foldBoolean(k, geom.BoolUnion, children)
					if err != nil {
						return nil, err
					}
					radius := 1.0
					if _, max, ok := profile.Poly.Bounds(); ok {
						radius = math.Max(math.Abs(max.X), radius)
					}
					mesh, err := k.Revolve(profile.Poly, angle, segmentsFor(radius, res))
					if err != nil {
						return nil, err
					}
					return geom.From3D(mesh), nil
				},
			}))
		},
	})

	fn("center", alignOp("center", alignCenter))
	fn("align", alignOp("align", alignFloor))
}

// num reads a bound numeric argument; binding guarantees the kind.
func num(am ArgumentMap, name string) float64 {
	n, _ := am[name].AsNumber()
	return n
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }

// segmentsFor converts a linear resolution into a segment count for a
// circular feature of the given radius.
func segmentsFor(radius, res float64) int {
	if res <= 0 || radius <= 0 {
		return 32
	}
	segs := int(math.Ceil(2 * math.Pi * radius / res))
	if segs < geom.MinSegments {
		return geom.MinSegments
	}
	if segs > 1024 {
		return 1024
	}
	return segs
}

// snapshotArgs records every bound parameter in declaration order, for
// element hashing.
func snapshotArgs(plist *ParameterValueList, am ArgumentMap) []model.BoundArg {
	out := make([]model.BoundArg, 0, plist.Len())
	for i := 0; i < plist.Len(); i++ {
		n := plist.At(i).Name
		out = append(out, model.BoundArg{Name: n, Value: am[n]})
	}
	return out
}

// boundArgs snapshots the named arguments onto the element for hashing.
func boundArgs(am ArgumentMap, names ...string) []model.BoundArg {
	out := make([]model.BoundArg, 0, len(names))
	for _, n := range names {
		out = append(out, model.BoundArg{Name: n, Value: am[n]})
	}
	return out
}

func primitive2D(name string, plist *ParameterValueList, build func(am ArgumentMap, res float64) geom.PolygonSet) *Builtin {
	return &Builtin{
		Name:   name,
		Params: plist,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			return modelResult(model.New(model.Primitive{
				Name: name,
				Dim:  geom.Dim2D,
				Args: snapshotArgs(plist, am),
				Tessellate: func(res float64) (*geom.Geometry, error) {
					return geom.From2D(build(am, res)), nil
				},
			}))
		},
	}
}

func primitive3D(name string, plist *ParameterValueList, build func(am ArgumentMap, res float64) geom.Mesh) *Builtin {
	return &Builtin{
		Name:   name,
		Params: plist,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			return modelResult(model.New(model.Primitive{
				Name: name,
				Dim:  geom.Dim3D,
				Args: snapshotArgs(plist, am),
				Tessellate: func(res float64) (*geom.Geometry, error) {
					return geom.From3D(build(am, res)), nil
				},
			}))
		},
	}
}

func transform(name string, plist *ParameterValueList, build func(am ArgumentMap) geom.Mat4) *Builtin {
	return &Builtin{
		Name:          name,
		Params:        plist,
		TakesChildren: true,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			return modelResult(model.NewTransform(model.Transform{
				Name:   name,
				Matrix: build(am),
			}))
		},
	}
}

func booleanOp(name string, op geom.BoolOp) *Builtin {
	return &Builtin{
		Name:          name,
		Params:        params(),
		TakesChildren: true,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			return modelResult(model.New(model.Operation{
				Name: name,
				Apply: func(k geom.Kernel, children []*geom.Geometry, res float64) (*geom.Geometry, error) {
					return foldBoolean(k, op, children)
				},
			}))
		},
	}
}

// foldBoolean combines children left to right. The renderer has already
// checked dimensional uniformity; an empty child list is an error.
func foldBoolean(k geom.Kernel, op geom.BoolOp, children []*geom.Geometry) (*geom.Geometry, error) {
	if len(children) == 0 {
		return nil, errors.New("operation has no children")
	}
	acc := children[0]
	for _, next := range children[1:] {
		if acc.Dim != next.Dim {
			return nil, errors.New("children mix 2d and 3d geometry")
		}
		if acc.Dim == geom.Dim2D {
			poly, err := k.Boolean2D(op, acc.Poly, next.Poly)
			if err != nil {
				return nil, err
			}
			acc = geom.From2D(poly)
		} else {
			mesh, err := k.Boolean3D(op, acc.Mesh, next.Mesh)
			if err != nil {
				return nil, err
			}
			acc = geom.From3D(mesh)
		}
	}
	return acc, nil
}

type alignMode uint8

const (
	alignCenter alignMode = iota
	alignFloor
)

// alignOp repositions the union of its children: center moves the bounding
// box midpoint to the origin, align rests the box's minimum corner on it.
func alignOp(name string, mode alignMode) *Builtin {
	return &Builtin{
		Name:          name,
		Params:        params(),
		TakesChildren: true,
		Eval: func(c *Context, am ArgumentMap, span source.Span) Evaluated {
			return modelResult(model.New(model.Operation{
				Name: name,
				Apply: func(k geom.Kernel, children []*geom.Geometry, res float64) (*geom.Geometry, error) {
					combined, err := foldBoolean(k, geom.BoolUnion, children)
					if err != nil {
						return nil, err
					}
					var shift geom.Mat4
					if combined.Dim == geom.Dim2D {
						min, max, ok := combined.Poly.Bounds()
						if !ok {
							return combined, nil
						}
						switch mode {
						case alignCenter:
							shift = geom.Translation(-(min.X+max.X)/2, -(min.Y+max.Y)/2, 0)
						default:
							shift = geom.Translation(-min.X, -min.Y, 0)
						}
					} else {
						min, max, ok := combined.Mesh.Bounds()
						if !ok {
							return combined, nil
						}
						switch mode {
						case alignCenter:
							shift = geom.Translation(-(min.X+max.X)/2, -(min.Y+max.Y)/2, -(min.Z+max.Z)/2)
						default:
							shift = geom.Translation(-min.X, -min.Y, -min.Z)
						}
					}
					return combined.Transform(shift), nil
				},
			}))
		},
	}
}
