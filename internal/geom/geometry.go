package geom

// Dim distinguishes sketch-plane geometry from solid geometry.
type Dim uint8

const (
	Dim2D Dim = 2
	Dim3D Dim = 3
)

// Polygon is a closed outline in the sketch plane. A Hole polygon cuts out
// of the surrounding outlines under the even-odd fill rule.
type Polygon struct {
	Points []Vec2
	Hole   bool
}

// Reverse flips the winding in place.
func (p *Polygon) Reverse() {
	for i, j := 0, len(p.Points)-1; i < j; i, j = i+1, j-1 {
		p.Points[i], p.Points[j] = p.Points[j], p.Points[i]
	}
}

// SignedArea is positive for counter-clockwise winding.
func (p *Polygon) SignedArea() float64 {
	var sum float64
	n := len(p.Points)
	for i := 0; i < n; i++ {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// PolygonSet is the 2D geometry unit: zero or more outlines with holes.
type PolygonSet struct {
	Polygons []Polygon
}

func (s *PolygonSet) Clone() PolygonSet {
	out := PolygonSet{Polygons: make([]Polygon, len(s.Polygons))}
	for i, p := range s.Polygons {
		out.Polygons[i] = Polygon{
			Points: append([]Vec2(nil), p.Points...),
			Hole:   p.Hole,
		}
	}
	return out
}

// Transform returns the set mapped through m's sketch-plane projection.
func (s *PolygonSet) Transform(m Mat4) PolygonSet {
	out := s.Clone()
	for i := range out.Polygons {
		for j, pt := range out.Polygons[i].Points {
			out.Polygons[i].Points[j] = m.Apply2D(pt)
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box, or ok=false when empty.
func (s *PolygonSet) Bounds() (min, max Vec2, ok bool) {
	for _, p := range s.Polygons {
		for _, pt := range p.Points {
			if !ok {
				min, max, ok = pt, pt, true
				continue
			}
			if pt.X < min.X {
				min.X = pt.X
			}
			if pt.Y < min.Y {
				min.Y = pt.Y
			}
			if pt.X > max.X {
				max.X = pt.X
			}
			if pt.Y > max.Y {
				max.Y = pt.Y
			}
		}
	}
	return min, max, ok
}

// Triangle is one oriented face of a mesh.
type Triangle struct {
	A, B, C Vec3
}

// Normal is the unit face normal by right-hand winding.
func (t Triangle) Normal() Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

// Flip reverses the winding.
func (t Triangle) Flip() Triangle {
	return Triangle{A: t.A, B: t.C, C: t.B}
}

// Mesh is the 3D geometry unit: a triangle soup.
type Mesh struct {
	Triangles []Triangle
}

func (m *Mesh) Clone() Mesh {
	return Mesh{Triangles: append([]Triangle(nil), m.Triangles...)}
}

// Transform returns the mesh mapped through mat.
func (m *Mesh) Transform(mat Mat4) Mesh {
	out := m.Clone()
	for i, t := range out.Triangles {
		out.Triangles[i] = Triangle{
			A: mat.Apply(t.A),
			B: mat.Apply(t.B),
			C: mat.Apply(t.C),
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box, or ok=false when empty.
func (m *Mesh) Bounds() (min, max Vec3, ok bool) {
	expand := func(pt Vec3) {
		if !ok {
			min, max, ok = pt, pt, true
			return
		}
		if pt.X < min.X {
			min.X = pt.X
		}
		if pt.Y < min.Y {
			min.Y = pt.Y
		}
		if pt.Z < min.Z {
			min.Z = pt.Z
		}
		if pt.X > max.X {
			max.X = pt.X
		}
		if pt.Y > max.Y {
			max.Y = pt.Y
		}
		if pt.Z > max.Z {
			max.Z = pt.Z
		}
	}
	for _, t := range m.Triangles {
		expand(t.A)
		expand(t.B)
		expand(t.C)
	}
	return min, max, ok
}

// Geometry is the payload flowing through rendering, caching and export:
// exactly one of Poly or Mesh is meaningful, selected by Dim.
type Geometry struct {
	Dim  Dim
	Poly PolygonSet
	Mesh Mesh
}

// From2D wraps a polygon set.
func From2D(s PolygonSet) *Geometry {
	return &Geometry{Dim: Dim2D, Poly: s}
}

// From3D wraps a mesh.
func From3D(m Mesh) *Geometry {
	return &Geometry{Dim: Dim3D, Mesh: m}
}

// Transform returns a transformed copy.
func (g *Geometry) Transform(m Mat4) *Geometry {
	if g.Dim == Dim2D {
		return From2D(g.Poly.Transform(m))
	}
	return From3D(g.Mesh.Transform(m))
}

// Cost is a size measure used for cache accounting: vertices held.
func (g *Geometry) Cost() int {
	if g.Dim == Dim2D {
		n := 0
		for _, p := range g.Poly.Polygons {
			n += len(p.Points)
		}
		return n
	}
	return 3 * len(g.Mesh.Triangles)
}
