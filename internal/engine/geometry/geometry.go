// Package geometry describes procedural primitive shapes and tessellates them.
//
// A Shape is a comparable value: two parts with equal shapes share a mesh,
// and any parameter change produces a different value, so callers detect
// regeneration with ==.
package geometry

import (
	"fmt"

	"github.com/Faultbox/showroom/pkg/math"
)

// Kind is the primitive type of a shape.
type Kind int

const (
	KindCylinder Kind = iota + 1
	KindTorus
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindCylinder:
		return "cylinder"
	case KindTorus:
		return "torus"
	case KindSphere:
		return "sphere"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape is a primitive descriptor. Unused fields stay zero for a given kind.
type Shape struct {
	Kind Kind

	// Cylinder: RadiusTop, RadiusBottom, Height, Segments.
	// Torus: Radius, Tube, Segments (radial), Tubular.
	// Sphere: Radius, Segments (width), Rings (height).
	RadiusTop    float32
	RadiusBottom float32
	Height       float32
	Radius       float32
	Tube         float32
	Segments     int
	Tubular      int
	Rings        int
}

// Cylinder is a Y-aligned cylinder or cone frustum centred on the origin.
func Cylinder(radiusTop, radiusBottom, height float32, segments int) Shape {
	return Shape{Kind: KindCylinder, RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: height, Segments: segments}
}

// Torus is a ring in the XY plane around the Z axis.
func Torus(radius, tube float32, radialSegments, tubularSegments int) Shape {
	return Shape{Kind: KindTorus, Radius: radius, Tube: tube, Segments: radialSegments, Tubular: tubularSegments}
}

// Sphere is a UV sphere centred on the origin.
func Sphere(radius float32, widthSegments, heightSegments int) Shape {
	return Shape{Kind: KindSphere, Radius: radius, Segments: widthSegments, Rings: heightSegments}
}

func (s Shape) String() string {
	switch s.Kind {
	case KindCylinder:
		return fmt.Sprintf("cylinder(rt=%.2f rb=%.2f h=%.2f seg=%d)", s.RadiusTop, s.RadiusBottom, s.Height, s.Segments)
	case KindTorus:
		return fmt.Sprintf("torus(r=%.2f tube=%.2f %dx%d)", s.Radius, s.Tube, s.Segments, s.Tubular)
	case KindSphere:
		return fmt.Sprintf("sphere(r=%.2f %dx%d)", s.Radius, s.Segments, s.Rings)
	}
	return s.Kind.String()
}

// Bounds returns the local-space bounding box of the shape.
func (s Shape) Bounds() math.AABB {
	var e math.Vec3
	switch s.Kind {
	case KindCylinder:
		r := max(s.RadiusTop, s.RadiusBottom)
		e = math.Vec3{X: r, Y: s.Height / 2, Z: r}
	case KindTorus:
		r := s.Radius + s.Tube
		e = math.Vec3{X: r, Y: r, Z: s.Tube}
	case KindSphere:
		e = math.Vec3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	default:
		return math.EmptyAABB()
	}
	return math.AABB{Min: e.Scale(-1), Max: e}
}

// Build tessellates the shape.
func (s Shape) Build() *Mesh {
	switch s.Kind {
	case KindCylinder:
		return buildCylinder(s)
	case KindTorus:
		return buildTorus(s)
	case KindSphere:
		return buildSphere(s)
	}
	return &Mesh{}
}
