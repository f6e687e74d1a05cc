package scenegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/pkg/math"
)

func TestAddRemoveSubtree(t *testing.T) {
	g := New()
	group := g.Add(g.Root(), NewGroup("group"))
	child := g.Add(group, NewMesh("child", Mesh{Shape: geometry.Sphere(1, 8, 4)}, math.NewTransform()))
	require.NotZero(t, group)
	require.NotZero(t, child)
	assert.Equal(t, 3, g.Len())

	g.Remove(group)
	assert.False(t, g.Contains(group))
	assert.False(t, g.Contains(child))
	assert.Empty(t, g.Children(g.Root()))
	assert.Equal(t, 1, g.Len())
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	g := New()
	id := g.Add(g.Root(), NewGroup("a"))
	g.Remove(id)
	assert.NotPanics(t, func() {
		g.Remove(id)
		g.Remove(9999)
		g.Remove(g.Root())
	})
	assert.True(t, g.Contains(g.Root()))
}

func TestAddUnderMissingParent(t *testing.T) {
	g := New()
	assert.Zero(t, g.Add(42, NewGroup("orphan")))
	assert.Equal(t, 1, g.Len())
}

func TestIDsAreNeverReused(t *testing.T) {
	g := New()
	a := g.Add(g.Root(), NewGroup("a"))
	g.Remove(a)
	b := g.Add(g.Root(), NewGroup("b"))
	assert.NotEqual(t, a, b)
}

func TestDetachAttach(t *testing.T) {
	g := New()
	rig := g.Add(g.Root(), NewGroup("rig"))
	light := g.Add(rig, NewLight("spot", Light{Kind: LightSpot}, math.Vec3{Y: 800}))

	assert.True(t, g.Detach(rig))
	assert.False(t, g.Detach(rig), "second detach is a no-op")
	assert.True(t, g.Contains(light))
	assert.False(t, g.InScene(light))

	visited := 0
	g.Walk(func(n *Node, _ math.Mat4) bool { visited++; return true })
	assert.Equal(t, 1, visited, "detached subtree must not be walked")

	assert.True(t, g.Attach(g.Root(), rig))
	assert.False(t, g.Attach(g.Root(), rig), "second attach is a no-op")
	assert.True(t, g.InScene(light))
}

func TestAttachRejectsCycles(t *testing.T) {
	g := New()
	a := g.Add(g.Root(), NewGroup("a"))
	b := g.Add(a, NewGroup("b"))
	require.True(t, g.Detach(a))
	assert.False(t, g.Attach(b, a))
}

func TestWorldMatrixAndBounds(t *testing.T) {
	g := New()
	group := NewGroup("group")
	group.Transform.Position = math.Vec3{X: -300}
	gid := g.Add(g.Root(), group)
	mid := g.Add(gid, NewMesh("ball", Mesh{Shape: geometry.Sphere(10, 8, 4)}, math.At(math.Vec3{Y: 600})))

	assert.Equal(t, math.Vec3{X: -300, Y: 600}, g.WorldPosition(mid))

	b := g.WorldBounds(gid)
	assert.InDelta(t, -310, b.Min.X, 1e-3)
	assert.InDelta(t, 610, b.Max.Y, 1e-3)
}

func TestInstantiateAndFind(t *testing.T) {
	g := New()
	prefab := &Prefab{
		Name:      "model",
		Transform: math.NewTransform(),
		Children: []*Prefab{
			{Name: "body", Transform: math.NewTransform(), Mesh: &Mesh{Shape: geometry.Sphere(1, 8, 4)}},
			{Name: "arm", Transform: math.NewTransform(), Mesh: &Mesh{Shape: geometry.Sphere(1, 8, 4)}},
		},
	}
	a := g.Instantiate(g.Root(), prefab)
	b := g.Instantiate(g.Root(), prefab)
	require.NotZero(t, a)

	armA, ok := g.FindDescendant(a, "arm")
	require.True(t, ok)
	armB, _ := g.FindDescendant(b, "arm")
	assert.NotEqual(t, armA, armB)

	nodeA, _ := g.Get(armA)
	nodeA.Mesh.CastShadow = true
	nodeB, _ := g.Get(armB)
	assert.False(t, nodeB.Mesh.CastShadow, "instances must not share mesh state")

	_, ok = g.FindDescendant(a, "missing")
	assert.False(t, ok)
}
