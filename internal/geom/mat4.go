package geom

import "math"

// Mat4 is a row-major 4x4 affine transform. The bottom row is assumed to
// stay (0 0 0 1); only the upper 3x4 carries rotation, scale and translation.
type Mat4 [16]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation builds a translation by (x, y, z).
func Translation(x, y, z float64) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = x, y, z
	return m
}

// Scaling builds a uniform scale.
func Scaling(s float64) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = s, s, s
	return m
}

// RotationAxisAngle builds a rotation of angle radians around axis.
func RotationAxisAngle(axis Vec3, angle float64) Mat4 {
	u := axis.Normalize()
	if u == (Vec3{}) {
		u = Vec3{Z: 1}
	}
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return Mat4{
		t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y, 0,
		t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X, 0,
		t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul returns m * o (o applied first).
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			r[row*4+col] = sum
		}
	}
	return r
}

// Apply transforms a point.
func (m Mat4) Apply(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// ApplyDir transforms a direction, ignoring translation.
func (m Mat4) ApplyDir(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// Apply2D transforms a sketch-plane point through the XY part of the matrix.
func (m Mat4) Apply2D(v Vec2) Vec2 {
	p := m.Apply(Vec3{X: v.X, Y: v.Y})
	return Vec2{X: p.X, Y: p.Y}
}

// det3 is the determinant of the upper-left 3x3 block.
func (m Mat4) det3() float64 {
	return m[0]*(m[5]*m[10]-m[6]*m[9]) -
		m[1]*(m[4]*m[10]-m[6]*m[8]) +
		m[2]*(m[4]*m[9]-m[5]*m[8])
}

// ScaleFactor returns the uniform scale equivalent of the linear part, the
// cube root of the absolute determinant. Tessellation density is multiplied
// by this so curvature stays proportionally accurate under magnification.
func (m Mat4) ScaleFactor() float64 {
	d := math.Abs(m.det3())
	if d == 0 {
		return 0
	}
	return math.Cbrt(d)
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}
