package geom

import (
	"errors"
	"fmt"
	"math"
)

// BoolOp selects a boolean combination.
type BoolOp uint8

const (
	BoolUnion BoolOp = iota
	BoolDifference
	BoolIntersection
)

func (op BoolOp) String() string {
	switch op {
	case BoolUnion:
		return "union"
	case BoolDifference:
		return "difference"
	case BoolIntersection:
		return "intersection"
	}
	return fmt.Sprintf("BoolOp(%d)", uint8(op))
}

// ErrUnsupported marks an operation the active kernel cannot perform.
// Callers report it as a recoverable diagnostic and keep going.
var ErrUnsupported = errors.New("operation not supported by kernel")

// Kernel combines already-rendered child geometry. Implementations must be
// deterministic: identical inputs produce identical outputs.
type Kernel interface {
	Name() string
	Boolean2D(op BoolOp, a, b PolygonSet) (PolygonSet, error)
	Boolean3D(op BoolOp, a, b Mesh) (Mesh, error)
	// Extrude sweeps a profile linearly along Z by height.
	Extrude(profile PolygonSet, height float64) (Mesh, error)
	// Revolve sweeps a profile around the Y axis by angle radians,
	// tessellated into segments steps.
	Revolve(profile PolygonSet, angle float64, segments int) (Mesh, error)
}

// NaiveKernel is the built-in mesh kernel. Booleans are representational,
// not exact: union concatenates, 2D difference marks the subtrahend as
// even-odd holes, 3D difference appends the subtrahend inside out, and
// intersection is unsupported. Sweeps use fan triangulation for caps and
// assume convex profiles.
type NaiveKernel struct{}

func (NaiveKernel) Name() string { return "naive" }

func (NaiveKernel) Boolean2D(op BoolOp, a, b PolygonSet) (PolygonSet, error) {
	out := a.Clone()
	switch op {
	case BoolUnion:
		out.Polygons = append(out.Polygons, b.Clone().Polygons...)
	case BoolDifference:
		for _, p := range b.Clone().Polygons {
			p.Hole = !p.Hole
			out.Polygons = append(out.Polygons, p)
		}
	default:
		return PolygonSet{}, fmt.Errorf("2d %s: %w", op, ErrUnsupported)
	}
	return out, nil
}

func (NaiveKernel) Boolean3D(op BoolOp, a, b Mesh) (Mesh, error) {
	out := a.Clone()
	switch op {
	case BoolUnion:
		out.Triangles = append(out.Triangles, b.Triangles...)
	case BoolDifference:
		for _, t := range b.Triangles {
			out.Triangles = append(out.Triangles, t.Flip())
		}
	default:
		return Mesh{}, fmt.Errorf("3d %s: %w", op, ErrUnsupported)
	}
	return out, nil
}

func (NaiveKernel) Extrude(profile PolygonSet, height float64) (Mesh, error) {
	var m Mesh
	for _, p := range profile.Polygons {
		n := len(p.Points)
		if n < 3 {
			continue
		}
		// Hole outlines contribute inward-facing walls via reversed winding.
		pts := p.Points
		if (p.SignedArea() < 0) != p.Hole {
			rev := Polygon{Points: append([]Vec2(nil), pts...)}
			rev.Reverse()
			pts = rev.Points
		}
		lo := func(i int) Vec3 { return Vec3{X: pts[i%n].X, Y: pts[i%n].Y} }
		hi := func(i int) Vec3 {
			v := lo(i)
			v.Z = height
			return v
		}
		for i := 0; i < n; i++ {
			m.Triangles = append(m.Triangles,
				Triangle{A: lo(i), B: hi(i), C: hi(i + 1)},
				Triangle{A: lo(i), B: hi(i + 1), C: lo(i + 1)},
			)
		}
		if p.Hole {
			continue
		}
		for i := 1; i < n-1; i++ {
			m.Triangles = append(m.Triangles,
				Triangle{A: lo(0), B: lo(i + 1), C: lo(i)},
				Triangle{A: hi(0), B: hi(i), C: hi(i + 1)},
			)
		}
	}
	return m, nil
}

func (NaiveKernel) Revolve(profile PolygonSet, angle float64, segments int) (Mesh, error) {
	if segments < MinSegments {
		segments = MinSegments
	}
	full := math.Abs(angle-2*math.Pi) < 1e-9
	spin := func(v Vec2, step int) Vec3 {
		a := angle * float64(step) / float64(segments)
		return Vec3{
			X: v.X * math.Cos(a),
			Y: v.Y,
			Z: v.X * math.Sin(a),
		}
	}
	var m Mesh
	for _, p := range profile.Polygons {
		n := len(p.Points)
		if n < 3 || p.Hole {
			continue
		}
		for step := 0; step < segments; step++ {
			for i := 0; i < n; i++ {
				a := spin(p.Points[i], step)
				b := spin(p.Points[(i+1)%n], step)
				c := spin(p.Points[(i+1)%n], step+1)
				d := spin(p.Points[i], step+1)
				m.Triangles = append(m.Triangles,
					Triangle{A: a, B: b, C: c},
					Triangle{A: a, B: c, C: d},
				)
			}
		}
		if !full {
			// Cap the start and end faces of a partial sweep.
			for i := 1; i < n-1; i++ {
				m.Triangles = append(m.Triangles,
					Triangle{
						A: spin(p.Points[0], 0),
						B: spin(p.Points[i], 0),
						C: spin(p.Points[i+1], 0),
					},
					Triangle{
						A: spin(p.Points[0], segments),
						B: spin(p.Points[i+1], segments),
						C: spin(p.Points[i], segments),
					},
				)
			}
		}
	}
	return m, nil
}
