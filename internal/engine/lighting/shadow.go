package lighting

import (
	stdmath "math"

	"github.com/Faultbox/showroom/pkg/math"
)

// Fallback depth range when a light has no shadow camera configured.
const (
	defaultShadowNear = 1
	defaultShadowFar  = 3000
)

// ViewProjection returns the light-space matrix of the spot's shadow map:
// a square perspective frustum covering the outer cone.
func (l SpotLight) ViewProjection() math.Mat4 {
	c := l.shadowCamera()
	view := math.LookAt(c.pos, c.pos.Add(c.dir), c.up)
	return math.Perspective(c.fov, 1, c.near, c.far).Mul(view)
}

// Frustum returns the world-space corners of the shadow camera, near face
// first, each face wound the same way.
func (l SpotLight) Frustum() [8]math.Vec3 {
	c := l.shadowCamera()
	f := c.dir.Normalize()
	right := f.Cross(c.up).Normalize()
	up := right.Cross(f)
	tan := float32(stdmath.Tan(float64(c.fov / 2)))

	var out [8]math.Vec3
	for i, d := range [2]float32{c.near, c.far} {
		centre := c.pos.Add(f.Scale(d))
		r := right.Scale(d * tan)
		u := up.Scale(d * tan)
		out[i*4+0] = centre.Sub(r).Sub(u)
		out[i*4+1] = centre.Add(r).Sub(u)
		out[i*4+2] = centre.Add(r).Add(u)
		out[i*4+3] = centre.Sub(r).Add(u)
	}
	return out
}

type shadowCamera struct {
	pos, dir, up math.Vec3
	fov          float32
	near, far    float32
}

func (l SpotLight) shadowCamera() shadowCamera {
	c := shadowCamera{pos: vec3(l.Position), dir: vec3(l.Direction), up: math.Vec3{Y: 1}}
	// LookAt degenerates when up is parallel to the view direction.
	if abs32(c.dir.Y) > 0.99 {
		c.up = math.Vec3{Z: 1}
	}

	c.fov = 2 * float32(stdmath.Acos(float64(l.CosOuter)))
	c.fov = min(max(c.fov, math.DegToRad(1)), math.DegToRad(179))

	c.near, c.far = l.Shadow.Near, l.Shadow.Far
	if c.near <= 0 {
		c.near = defaultShadowNear
	}
	if c.far <= c.near {
		c.far = defaultShadowFar
	}
	return c
}

func vec3(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
