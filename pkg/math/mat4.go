package math

import "math"

// Mat4 is a column-major 4x4 matrix, laid out as OpenGL expects.
// Element (row r, column c) lives at index c*4+r.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

// Perspective is a right-handed projection into OpenGL clip space.
// fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// LookAt builds the view matrix of an eye at eye facing center.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	side := fwd.Cross(up).Normalize()
	top := side.Cross(fwd)

	m := Identity()
	for i, v := range [3]Vec3{side, top, fwd.Scale(-1)} {
		m[i], m[4+i], m[8+i] = v.X, v.Y, v.Z
		m[12+i] = -v.Dot(eye)
	}
	return m
}

// Translate moves by d.
func Translate(d Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = d.X, d.Y, d.Z
	return m
}

// Scale stretches each axis by s.
func Scale(s Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = s.X, s.Y, s.Z
	return m
}

// Rotation turns angle radians about a unit axis, counter-clockwise when
// looking down the axis towards the origin.
func Rotation(axis Vec3, angle float32) Mat4 {
	sin, cos := math.Sincos(float64(angle))
	s, c := float32(sin), float32(cos)
	k := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		k*x*x + c, k*x*y + s*z, k*x*z - s*y, 0,
		k*x*y - s*z, k*y*y + c, k*y*z + s*x, 0,
		k*x*z + s*y, k*y*z - s*x, k*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Basis widens a column-major 3x3 rotation.
func Basis(r [9]float32) Mat4 {
	m := Identity()
	for c := 0; c < 3; c++ {
		copy(m[c*4:c*4+3], r[c*3:c*3+3])
	}
	return m
}

// Mul returns m * o, so o is applied first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * o[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformVec3 maps the point v, dividing by w for projective matrices.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	out := Vec3{
		X: m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12],
		Y: m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13],
		Z: m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14],
	}
	if w := m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]; w != 0 && w != 1 {
		out = out.Scale(1 / w)
	}
	return out
}

// Translation returns the offset the matrix applies to the origin.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
