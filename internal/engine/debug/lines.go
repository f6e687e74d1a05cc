// Package debug turns helper nodes into line geometry.
package debug

import (
	"github.com/Faultbox/showroom/internal/engine/lighting"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// FloatsPerVertex is position plus colour.
const FloatsPerVertex = 6

// BoxVertexCount is the vertex count of one wireframe box (12 edges).
const BoxVertexCount = 24

// FrustumVertexCount is a box plus four lines from the apex.
const FrustumVertexCount = BoxVertexCount + 8

// FrustumColor marks the shadow camera.
var FrustumColor = [3]float32{1, 0.67, 0}

// near face 0-3, far face 4-7
var hullEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Axis colours.
var (
	AxisX = [3]float32{1, 0, 0}
	AxisY = [3]float32{0, 1, 0}
	AxisZ = [3]float32{0, 0, 1}
)

// Lines is a batch of coloured line segments, xyz rgb per vertex.
type Lines struct {
	Data []float32
}

// Len returns the vertex count.
func (l *Lines) Len() int { return len(l.Data) / FloatsPerVertex }

// Reset empties the batch keeping its storage.
func (l *Lines) Reset() { l.Data = l.Data[:0] }

// Segment adds a line from a to b.
func (l *Lines) Segment(a, b math.Vec3, c [3]float32) {
	l.Data = append(l.Data,
		a.X, a.Y, a.Z, c[0], c[1], c[2],
		b.X, b.Y, b.Z, c[0], c[1], c[2],
	)
}

// Box adds the 12 edges of b.
func (l *Lines) Box(b math.AABB, c [3]float32) {
	if b.IsEmpty() {
		return
	}
	l.hull(b.Corners(), c)
}

func (l *Lines) hull(p [8]math.Vec3, c [3]float32) {
	for _, e := range hullEdges {
		l.Segment(p[e[0]], p[e[1]], c)
	}
}

// Frustum adds a camera frustum and the lines joining apex to its near face.
func (l *Lines) Frustum(apex math.Vec3, corners [8]math.Vec3, c [3]float32) {
	l.hull(corners, c)
	for _, p := range corners[:4] {
		l.Segment(apex, p, c)
	}
}

// Axes adds the three positive axes from origin.
func (l *Lines) Axes(origin math.Vec3, size float32) {
	l.Segment(origin, origin.Add(math.Vec3{X: size}), AxisX)
	l.Segment(origin, origin.Add(math.Vec3{Y: size}), AxisY)
	l.Segment(origin, origin.Add(math.Vec3{Z: size}), AxisZ)
}

// Collect rebuilds l from every visible helper and axes node in the scene.
// When shadow is set and its light carries a helper, its shadow camera is
// drawn too.
func (l *Lines) Collect(g *scenegraph.Graph, shadow *lighting.SpotLight) {
	l.Reset()
	g.Walk(func(n *scenegraph.Node, world math.Mat4) bool {
		if !n.Visible || n.Helper == nil {
			return true
		}
		switch n.Kind {
		case scenegraph.KindHelper:
			l.Box(n.Helper.Bounds, n.Helper.Color)
			if shadow != nil && n.Helper.Target == shadow.Node {
				l.Frustum(math.Vec3{X: shadow.Position[0], Y: shadow.Position[1], Z: shadow.Position[2]},
					shadow.Frustum(), FrustumColor)
			}
		case scenegraph.KindAxes:
			l.Axes(world.Translation(), n.Helper.AxesSize)
		}
		return true
	})
}
