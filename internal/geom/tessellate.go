package geom

import "math"

// MinSegments is the floor on circular tessellation so degenerate
// resolutions still produce a closed outline.
const MinSegments = 8

// Circle tessellates a circle of the given radius into segments edges,
// counter-clockwise, centered at the origin.
func Circle(radius float64, segments int) PolygonSet {
	if segments < MinSegments {
		segments = MinSegments
	}
	pts := make([]Vec2, segments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = Vec2{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return PolygonSet{Polygons: []Polygon{{Points: pts}}}
}

// Rect builds an axis-aligned rectangle centered at the origin.
func Rect(width, height float64) PolygonSet {
	w, h := width/2, height/2
	return PolygonSet{Polygons: []Polygon{{Points: []Vec2{
		{X: -w, Y: -h}, {X: w, Y: -h}, {X: w, Y: h}, {X: -w, Y: h},
	}}}}
}

// Cube builds an axis-aligned cube of edge length size centered at the
// origin, 12 triangles with outward winding.
func Cube(size float64) Mesh {
	s := size / 2
	v := [8]Vec3{
		{-s, -s, -s}, {s, -s, -s}, {s, s, -s}, {-s, s, -s},
		{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s},
	}
	quads := [6][4]int{
		{0, 3, 2, 1}, // bottom z-
		{4, 5, 6, 7}, // top z+
		{0, 1, 5, 4}, // y-
		{2, 3, 7, 6}, // y+
		{1, 2, 6, 5}, // x+
		{3, 0, 4, 7}, // x-
	}
	m := Mesh{Triangles: make([]Triangle, 0, 12)}
	for _, q := range quads {
		m.Triangles = append(m.Triangles,
			Triangle{A: v[q[0]], B: v[q[1]], C: v[q[2]]},
			Triangle{A: v[q[0]], B: v[q[2]], C: v[q[3]]},
		)
	}
	return m
}

// Sphere tessellates a UV sphere: segments meridians, segments/2 parallels.
func Sphere(radius float64, segments int) Mesh {
	if segments < MinSegments {
		segments = MinSegments
	}
	rings := segments / 2
	at := func(ring, seg int) Vec3 {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(seg) / float64(segments)
		return Vec3{
			X: radius * math.Sin(theta) * math.Cos(phi),
			Y: radius * math.Sin(theta) * math.Sin(phi),
			Z: radius * math.Cos(theta),
		}
	}
	var m Mesh
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := at(ring, seg)
			b := at(ring+1, seg)
			c := at(ring+1, seg+1)
			d := at(ring, seg+1)
			if ring > 0 {
				m.Triangles = append(m.Triangles, Triangle{A: a, B: b, C: d})
			}
			if ring < rings-1 {
				m.Triangles = append(m.Triangles, Triangle{A: b, B: c, C: d})
			}
		}
	}
	return m
}

// Cylinder tessellates a cylinder along Z, base at z=0, cap at z=height.
func Cylinder(radius, height float64, segments int) Mesh {
	if segments < MinSegments {
		segments = MinSegments
	}
	rim := func(z float64, seg int) Vec3 {
		a := 2 * math.Pi * float64(seg) / float64(segments)
		return Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
	}
	bottom := Vec3{}
	top := Vec3{Z: height}
	var m Mesh
	for seg := 0; seg < segments; seg++ {
		b0 := rim(0, seg)
		b1 := rim(0, seg+1)
		t0 := rim(height, seg)
		t1 := rim(height, seg+1)
		m.Triangles = append(m.Triangles,
			Triangle{A: bottom, B: b1, C: b0},
			Triangle{A: top, B: t0, C: t1},
			Triangle{A: b0, B: b1, C: t1},
			Triangle{A: b0, B: t1, C: t0},
		)
	}
	return m
}
