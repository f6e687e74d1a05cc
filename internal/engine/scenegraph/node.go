// Package scenegraph holds the live scene as an arena of identity-keyed nodes
// and the manager that keeps it in step with the chair parameters.
package scenegraph

import (
	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/pkg/math"
)

// NodeID is a stable node identity. Zero is never assigned.
type NodeID uint64

// Kind tags what a node carries.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindLight
	KindHelper
	KindAxes
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindLight:
		return "light"
	case KindHelper:
		return "helper"
	case KindAxes:
		return "axes"
	}
	return "unknown"
}

// Mesh is a drawable surface.
type Mesh struct {
	// Shape is the procedural descriptor; zero for imported geometry.
	Shape geometry.Shape
	// Data holds imported geometry. Nil means tessellate Shape.
	Data     *geometry.Mesh
	Material material.Key
	// Texture overrides the material's texture when set.
	Texture       string
	Emissive      [3]float32
	CastShadow    bool
	ReceiveShadow bool
}

// Bounds returns the local bounding box.
func (m *Mesh) Bounds() math.AABB {
	if m.Data != nil {
		return m.Data.Bounds()
	}
	return m.Shape.Bounds()
}

// LightKind selects the light model.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightSpot
)

// Shadow configures a light's shadow map.
type Shadow struct {
	MapSize   int
	Near, Far float32
	Bias      float32
	Radius    float32
}

// Light is a light source positioned by its node.
type Light struct {
	Kind      LightKind
	Color     [3]float32
	Intensity float32
	// Angle is the cone half-angle in radians.
	Angle    float32
	Penumbra float32
	Distance float32
	Decay    float32
	// Target is the world-space point a spot light aims at.
	Target     math.Vec3
	CastShadow bool
	Shadow     Shadow
}

// Helper is a debug overlay. Box helpers wrap Target's world bounds;
// axes helpers draw AxesSize-long axis lines at the origin.
type Helper struct {
	Target   NodeID
	Color    [3]float32
	Bounds   math.AABB
	AxesSize float32
}

// Node is one element of the scene.
type Node struct {
	Name      string
	Kind      Kind
	Transform math.Transform
	Visible   bool

	Mesh   *Mesh
	Light  *Light
	Helper *Helper

	id       NodeID
	parent   NodeID
	children []NodeID
	attached bool
}

// ID returns the node's identity.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent identity, zero for the root or a detached node.
func (n *Node) Parent() NodeID { return n.parent }

// NewGroup returns an empty transform node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Kind: KindGroup, Transform: math.NewTransform(), Visible: true}
}

// NewMesh returns a mesh node.
func NewMesh(name string, m Mesh, t math.Transform) *Node {
	return &Node{Name: name, Kind: KindMesh, Transform: t, Visible: true, Mesh: &m}
}

// NewLight returns a light node at pos.
func NewLight(name string, l Light, pos math.Vec3) *Node {
	return &Node{Name: name, Kind: KindLight, Transform: math.At(pos), Visible: true, Light: &l}
}

// Prefab is a detached node tree, instantiated into a graph by copy.
type Prefab struct {
	Name      string
	Transform math.Transform
	Mesh      *Mesh
	Children  []*Prefab
}

// Walk visits the prefab tree depth-first.
func (p *Prefab) Walk(fn func(*Prefab)) {
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}
