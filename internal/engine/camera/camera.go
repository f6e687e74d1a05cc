// Package camera provides the damped orbit camera used to inspect the scene.
package camera

import (
	gomath "math"
	"time"

	"github.com/Faultbox/showroom/pkg/math"
)

// Options configures an OrbitCamera.
type Options struct {
	FOV      float32 // degrees
	Near     float32
	Far      float32
	Position math.Vec3
	Target   math.Vec3

	Damping         float32
	MinPolar        float32 // radians from +Y
	MaxPolar        float32
	AutoRotate      bool
	AutoRotateSpeed float32 // turns per minute
	EnablePan       bool
}

// OrbitCamera orbits a target on a sphere. Input accumulates deltas that
// Update eases in by the damping factor.
type OrbitCamera struct {
	FOV, Near, Far float32

	Target math.Vec3
	Radius float32
	Theta  float32 // azimuth around +Y
	Phi    float32 // polar angle from +Y

	MinDistance, MaxDistance float32
	MinPolar, MaxPolar       float32
	Damping                  float32
	AutoRotate               bool
	AutoRotateSpeed          float32
	EnablePan                bool

	RotateSpeed float32
	ZoomSpeed   float32
	KeyPanSpeed float32 // pixels per key press

	dTheta, dPhi float32
	pan          math.Vec3
	scale        float32
}

// NewOrbitCamera places the camera at opts.Position looking at opts.Target.
// Distance limits are a tenth and twice the initial distance.
func NewOrbitCamera(opts Options) *OrbitCamera {
	c := &OrbitCamera{
		FOV:             opts.FOV,
		Near:            opts.Near,
		Far:             opts.Far,
		Target:          opts.Target,
		MinPolar:        opts.MinPolar,
		MaxPolar:        opts.MaxPolar,
		Damping:         opts.Damping,
		AutoRotate:      opts.AutoRotate,
		AutoRotateSpeed: opts.AutoRotateSpeed,
		EnablePan:       opts.EnablePan,
		RotateSpeed:     1,
		ZoomSpeed:       1,
		KeyPanSpeed:     7,
		scale:           1,
	}
	if c.MaxPolar == 0 {
		c.MaxPolar = gomath.Pi
	}
	c.setOffset(opts.Position.Sub(opts.Target))

	dist := opts.Position.Z
	if dist <= 0 {
		dist = c.Radius
	}
	c.MinDistance, c.MaxDistance = dist/10, dist*2
	return c
}

func (c *OrbitCamera) setOffset(off math.Vec3) {
	c.Radius = off.Length()
	if c.Radius == 0 {
		return
	}
	c.Theta = float32(gomath.Atan2(float64(off.X), float64(off.Z)))
	c.Phi = float32(gomath.Acos(clamp(float64(off.Y/c.Radius), -1, 1)))
}

// Position returns the eye in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinPhi, cosPhi := gomath.Sincos(float64(c.Phi))
	sinTheta, cosTheta := gomath.Sincos(float64(c.Theta))
	return c.Target.Add(math.Vec3{
		X: c.Radius * float32(sinPhi*sinTheta),
		Y: c.Radius * float32(cosPhi),
		Z: c.Radius * float32(sinPhi*cosTheta),
	})
}

// ViewMatrix returns the world-to-camera transform.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{Y: 1})
}

// ProjectionMatrix returns the perspective projection for aspect.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(math.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// HandleDrag rotates from a mouse drag in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy, viewportHeight float32) {
	if viewportHeight <= 0 {
		return
	}
	c.dTheta -= 2 * gomath.Pi * dx / viewportHeight * c.RotateSpeed
	c.dPhi -= 2 * gomath.Pi * dy / viewportHeight * c.RotateSpeed
}

// HandleZoom dollies by wheel steps; positive moves closer.
func (c *OrbitCamera) HandleZoom(steps float32) {
	c.scale *= float32(gomath.Pow(0.95, float64(steps*c.ZoomSpeed)))
}

// HandlePan moves the target in screen space by a drag in pixels.
func (c *OrbitCamera) HandlePan(dx, dy, viewportHeight float32) {
	if !c.EnablePan || viewportHeight <= 0 {
		return
	}
	// world units per pixel at the target distance
	unit := 2 * c.Radius * float32(gomath.Tan(float64(math.DegToRad(c.FOV))/2)) / viewportHeight
	view := c.ViewMatrix()
	right := math.Vec3{X: view[0], Y: view[4], Z: view[8]}
	up := math.Vec3{X: view[1], Y: view[5], Z: view[9]}
	c.pan = c.pan.Add(right.Scale(-dx * unit)).Add(up.Scale(dy * unit))
}

// Key is a panning arrow key.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
)

// HandleKey pans by KeyPanSpeed pixels.
func (c *OrbitCamera) HandleKey(k Key, viewportHeight float32) {
	switch k {
	case KeyUp:
		c.HandlePan(0, c.KeyPanSpeed, viewportHeight)
	case KeyDown:
		c.HandlePan(0, -c.KeyPanSpeed, viewportHeight)
	case KeyLeft:
		c.HandlePan(c.KeyPanSpeed, 0, viewportHeight)
	case KeyRight:
		c.HandlePan(-c.KeyPanSpeed, 0, viewportHeight)
	}
}

// Update applies pending input and auto-rotation for a frame of length dt.
func (c *OrbitCamera) Update(dt time.Duration) {
	if c.AutoRotate {
		c.dTheta -= 2 * gomath.Pi / 60 * c.AutoRotateSpeed * float32(dt.Seconds())
	}

	damping := c.Damping
	if damping <= 0 || damping > 1 {
		damping = 1
	}

	c.Theta += c.dTheta * damping
	c.Phi += c.dPhi * damping
	c.Phi = float32(clamp(float64(c.Phi), float64(c.MinPolar), float64(c.MaxPolar)))
	c.Phi = float32(clamp(float64(c.Phi), 1e-6, gomath.Pi-1e-6))

	c.Radius = float32(clamp(float64(c.Radius*c.scale), float64(c.MinDistance), float64(c.MaxDistance)))
	c.Target = c.Target.Add(c.pan.Scale(damping))

	c.dTheta *= 1 - damping
	c.dPhi *= 1 - damping
	c.pan = c.pan.Scale(1 - damping)
	c.scale = 1
}

// SetTarget moves the orbit centre keeping the eye offset.
func (c *OrbitCamera) SetTarget(t math.Vec3) {
	c.Target = t
}

func clamp(v, lo, hi float64) float64 {
	return gomath.Max(lo, gomath.Min(hi, v))
}
