package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Points are column vectors, so a.Mul(b) applies b first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateX creates a rotation around the X axis (radians, right-handed).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation around the Y axis (radians, right-handed).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation around the Z axis (radians, right-handed).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateEuler composes Rz·Ry·Rx: a point is rotated around X first, then Y,
// then Z.
func RotateEuler(x, y, z float64) Mat4 {
	return RotateZ(z).Mul(RotateY(y)).Mul(RotateX(x))
}

// LookAt creates a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective creates an OpenGL style projection matrix. fovy is the vertical
// field of view in radians, aspect is width/height. Visible view-space points
// have negative Z and land in the [-1, 1] NDC cube after the divide by W.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul returns a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms v as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]
	if w == 0 {
		w = 1
	}
	return Vec3{
		(m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]) / w,
		(m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]) / w,
		(m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]) / w,
	}
}

// MulVec3Dir transforms v as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// minors holds the 2x2 determinants of the top two and bottom two rows,
// which both the determinant and the inverse are built from.
type minors struct {
	s0, s1, s2, s3, s4, s5 float64 // rows 0 and 1
	c0, c1, c2, c3, c4, c5 float64 // rows 2 and 3
}

func (m *Mat4) minors() minors {
	return minors{
		s0: m[0]*m[5] - m[1]*m[4],
		s1: m[0]*m[9] - m[1]*m[8],
		s2: m[0]*m[13] - m[1]*m[12],
		s3: m[4]*m[9] - m[5]*m[8],
		s4: m[4]*m[13] - m[5]*m[12],
		s5: m[8]*m[13] - m[9]*m[12],
		c0: m[2]*m[7] - m[3]*m[6],
		c1: m[2]*m[11] - m[3]*m[10],
		c2: m[2]*m[15] - m[3]*m[14],
		c3: m[6]*m[11] - m[7]*m[10],
		c4: m[6]*m[15] - m[7]*m[14],
		c5: m[10]*m[15] - m[11]*m[14],
	}
}

func (k minors) det() float64 {
	return k.s0*k.c5 - k.s1*k.c4 + k.s2*k.c3 + k.s3*k.c2 - k.s4*k.c1 + k.s5*k.c0
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of the matrix, or the identity if the matrix
// is singular.
func (m Mat4) Inverse() Mat4 {
	k := m.minors()
	det := k.det()
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	// element (row, col) lives at m[row+4*col]
	return Mat4{
		(m[5]*k.c5 - m[9]*k.c4 + m[13]*k.c3) * d,
		(-m[1]*k.c5 + m[9]*k.c2 - m[13]*k.c1) * d,
		(m[1]*k.c4 - m[5]*k.c2 + m[13]*k.c0) * d,
		(-m[1]*k.c3 + m[5]*k.c1 - m[9]*k.c0) * d,

		(-m[4]*k.c5 + m[8]*k.c4 - m[12]*k.c3) * d,
		(m[0]*k.c5 - m[8]*k.c2 + m[12]*k.c1) * d,
		(-m[0]*k.c4 + m[4]*k.c2 - m[12]*k.c0) * d,
		(m[0]*k.c3 - m[4]*k.c1 + m[8]*k.c0) * d,

		(m[7]*k.s5 - m[11]*k.s4 + m[15]*k.s3) * d,
		(-m[3]*k.s5 + m[11]*k.s2 - m[15]*k.s1) * d,
		(m[3]*k.s4 - m[7]*k.s2 + m[15]*k.s0) * d,
		(-m[3]*k.s3 + m[7]*k.s1 - m[11]*k.s0) * d,

		(-m[6]*k.s5 + m[10]*k.s4 - m[14]*k.s3) * d,
		(m[2]*k.s5 - m[10]*k.s2 + m[14]*k.s1) * d,
		(-m[2]*k.s4 + m[6]*k.s2 - m[14]*k.s0) * d,
		(m[2]*k.s3 - m[6]*k.s1 + m[10]*k.s0) * d,
	}
}

// InverseTranspose returns the matrix that carries normals through m.
func (m Mat4) InverseTranspose() Mat4 {
	return m.Inverse().Transpose()
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether all elements differ by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
