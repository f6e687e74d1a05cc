package batch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

func TestBuild(t *testing.T) {
	g := scenegraph.New()
	floor := g.Add(g.Root(), scenegraph.NewMesh("floor", scenegraph.Mesh{
		Shape:         geometry.Cylinder(1000, 1000, 2, 64),
		Material:      material.Key{Category: material.Floors, Name: "Planks"},
		ReceiveShadow: true,
	}, math.At(math.Vec3{Y: -250})))
	seat := g.Add(g.Root(), scenegraph.NewMesh("seat", scenegraph.Mesh{
		Shape:      geometry.Torus(100, 20, 16, 64),
		Material:   material.Key{Category: material.Leathers, Name: "Velvet"},
		CastShadow: true,
	}, math.NewTransform()))

	l := &List{Catalog: material.Default(), TextureDir: "textures"}
	items := l.Build(g)
	require.Len(t, items, 2)

	byNode := map[scenegraph.NodeID]Item{}
	for _, it := range items {
		byNode[it.Node] = it
	}
	assert.Equal(t, filepath.Join("textures", "planks.jpg"), byNode[floor].Texture)
	assert.Equal(t, float32(-250), byNode[floor].World.Translation().Y)
	assert.Equal(t, Fallback, byNode[seat].Material, "unknown material")
	assert.Empty(t, byNode[seat].Texture)

	casters := l.Casters()
	require.Len(t, casters, 1)
	assert.Equal(t, seat, casters[0].Node)
}

func TestBuildSkipsHiddenAndDetached(t *testing.T) {
	g := scenegraph.New()
	mesh := scenegraph.Mesh{Shape: geometry.Sphere(10, 8, 8)}

	group := g.Add(g.Root(), scenegraph.NewGroup("group"))
	g.Add(group, scenegraph.NewMesh("inner", mesh, math.NewTransform()))
	hidden := scenegraph.NewMesh("hidden", mesh, math.NewTransform())
	hidden.Visible = false
	g.Add(g.Root(), hidden)

	l := &List{}
	assert.Len(t, l.Build(g), 1)

	g.Detach(group)
	assert.Empty(t, l.Build(g))
}

func TestTextureOverride(t *testing.T) {
	g := scenegraph.New()
	data := &geometry.Mesh{Positions: []float32{0, 0, 0}, Normals: []float32{0, 1, 0}, UVs: []float32{0, 0}}
	g.Add(g.Root(), scenegraph.NewMesh("model", scenegraph.Mesh{
		Data:     data,
		Texture:  "models/speaker.bmp",
		Material: material.Key{Category: material.Floors, Name: "Planks"},
	}, math.NewTransform()))

	l := &List{Catalog: material.Default(), TextureDir: "textures"}
	items := l.Build(g)
	require.Len(t, items, 1)
	assert.Equal(t, "models/speaker.bmp", items[0].Texture)
	assert.Same(t, data, items[0].Source.Build())
}

func TestGroupedByTexture(t *testing.T) {
	g := scenegraph.New()
	for _, tex := range []string{"b.bmp", "a.bmp", "b.bmp", "a.bmp"} {
		g.Add(g.Root(), scenegraph.NewMesh(tex, scenegraph.Mesh{Shape: geometry.Sphere(1, 4, 4), Texture: tex}, math.NewTransform()))
	}
	l := &List{}
	var got []string
	for _, it := range l.Build(g) {
		got = append(got, it.Texture)
	}
	assert.Equal(t, []string{"a.bmp", "a.bmp", "b.bmp", "b.bmp"}, got)
}
