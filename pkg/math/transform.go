package math

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math.Pi / 180
}

// Euler holds rotation angles in radians applied in X, Y, Z order.
type Euler struct {
	X, Y, Z float32
}

// EulerDeg builds an Euler rotation from degrees.
func EulerDeg(x, y, z float32) Euler {
	return Euler{DegToRad(x), DegToRad(y), DegToRad(z)}
}

// Matrix returns Rx * Ry * Rz.
func (e Euler) Matrix() Mat4 {
	return Rotation(Vec3{X: 1}, e.X).Mul(Rotation(Vec3{Y: 1}, e.Y)).Mul(Rotation(Vec3{Z: 1}, e.Z))
}

// Transform is a local position, rotation and scale.
type Transform struct {
	Position Vec3
	Rotation Euler
	Scale    Vec3
}

// NewTransform returns a transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// At returns a unit-scale transform at position p.
func At(p Vec3) Transform {
	t := NewTransform()
	t.Position = p
	return t
}

// Matrix composes T * R * S.
func (t Transform) Matrix() Mat4 {
	s := t.Scale
	if s == (Vec3{}) {
		s = Vec3{1, 1, 1}
	}
	return Translate(t.Position).Mul(t.Rotation.Matrix()).Mul(Scale(s))
}

// TranslateLocal moves the transform by d expressed in its rotated frame.
func (t Transform) TranslateLocal(d Vec3) Transform {
	t.Position = t.Position.Add(t.Rotation.Matrix().TransformVec3(d))
	return t
}

// EulerFromMatrix extracts XYZ angles from the rotation part of m.
func EulerFromMatrix(m Mat4) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	y := float32(math.Asin(float64(max(-1, min(1, m13)))))
	if math.Abs(float64(m13)) < 0.9999999 {
		return Euler{
			X: float32(math.Atan2(float64(-m23), float64(m33))),
			Y: y,
			Z: float32(math.Atan2(float64(-m12), float64(m11))),
		}
	}
	return Euler{X: float32(math.Atan2(float64(m32), float64(m22))), Y: y}
}

// Euler converts q to XYZ angles.
func (q Quat) Euler() Euler {
	return EulerFromMatrix(q.Matrix())
}
