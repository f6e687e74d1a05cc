// Package batch flattens the scene graph into a draw list. It has no GPU
// dependency so the list can be inspected in tests.
package batch

import (
	"cmp"
	"path/filepath"
	"slices"

	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// Fallback is drawn when a mesh names a material the catalog lacks.
var Fallback = material.Material{
	Key:       material.Key{Category: material.Colours, Name: "White"},
	Color:     [3]float32{1, 1, 1},
	Roughness: 1,
}

// Source identifies the vertex data of a mesh. Procedural meshes share
// buffers per Shape, imported meshes per pointer.
type Source struct {
	Shape geometry.Shape
	Data  *geometry.Mesh
}

// Build returns the triangles for the source.
func (s Source) Build() *geometry.Mesh {
	if s.Data != nil {
		return s.Data
	}
	return s.Shape.Build()
}

// Item is one draw call.
type Item struct {
	Node     scenegraph.NodeID
	World    math.Mat4
	Source   Source
	Material material.Material
	// Texture is a file path, empty for flat colour.
	Texture       string
	Emissive      [3]float32
	CastShadow    bool
	ReceiveShadow bool
}

// List builds draw lists against a catalog.
type List struct {
	Catalog    *material.Catalog
	TextureDir string
	Items      []Item
}

// Build replaces the list with every visible mesh in the scene, grouped by
// texture so consecutive items share bindings.
func (l *List) Build(g *scenegraph.Graph) []Item {
	l.Items = l.Items[:0]
	g.Walk(func(n *scenegraph.Node, world math.Mat4) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh == nil {
			return true
		}
		m := l.material(n.Mesh.Material)
		tex := n.Mesh.Texture
		if tex == "" && m.Texture != "" {
			tex = filepath.Join(l.TextureDir, m.Texture)
		}
		l.Items = append(l.Items, Item{
			Node:          n.ID(),
			World:         world,
			Source:        Source{Shape: n.Mesh.Shape, Data: n.Mesh.Data},
			Material:      m,
			Texture:       tex,
			Emissive:      n.Mesh.Emissive,
			CastShadow:    n.Mesh.CastShadow,
			ReceiveShadow: n.Mesh.ReceiveShadow,
		})
		return true
	})
	slices.SortStableFunc(l.Items, func(a, b Item) int {
		return cmp.Compare(a.Texture, b.Texture)
	})
	return l.Items
}

func (l *List) material(key material.Key) material.Material {
	if l.Catalog != nil {
		if m, ok := l.Catalog.Lookup(key); ok {
			return m
		}
	}
	return Fallback
}

// Casters returns the items that cast shadows.
func (l *List) Casters() []Item {
	var out []Item
	for _, it := range l.Items {
		if it.CastShadow {
			out = append(out, it)
		}
	}
	return out
}
