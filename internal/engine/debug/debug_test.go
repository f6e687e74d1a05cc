package debug

import (
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/engine/lighting"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

func TestBoxEdges(t *testing.T) {
	var l Lines
	b := math.AABB{Min: math.Vec3{X: -1, Y: -1, Z: -1}, Max: math.Vec3{X: 1, Y: 1, Z: 1}}
	l.Box(b, [3]float32{1, 1, 0})
	require.Equal(t, BoxVertexCount, l.Len())

	// every edge is axis aligned with length 2
	for i := 0; i < l.Len(); i += 2 {
		a := math.Vec3{X: l.Data[i*6], Y: l.Data[i*6+1], Z: l.Data[i*6+2]}
		c := math.Vec3{X: l.Data[(i+1)*6], Y: l.Data[(i+1)*6+1], Z: l.Data[(i+1)*6+2]}
		assert.InDelta(t, 2, a.Distance(c), 1e-6, "edge %d", i/2)
	}

	l.Reset()
	l.Box(math.EmptyAABB(), [3]float32{})
	assert.Zero(t, l.Len())
}

func TestCollect(t *testing.T) {
	g := scenegraph.New()
	g.Add(g.Root(), &scenegraph.Node{Kind: scenegraph.KindHelper, Visible: true, Transform: math.NewTransform(),
		Helper: &scenegraph.Helper{Bounds: math.AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}}})
	g.Add(g.Root(), &scenegraph.Node{Kind: scenegraph.KindAxes, Visible: true, Transform: math.NewTransform(),
		Helper: &scenegraph.Helper{AxesSize: 50}})
	hidden := g.Add(g.Root(), &scenegraph.Node{Kind: scenegraph.KindHelper, Visible: false, Transform: math.NewTransform(),
		Helper: &scenegraph.Helper{Bounds: math.AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}}})
	require.NotZero(t, hidden)

	var l Lines
	l.Collect(g, nil)
	assert.Equal(t, BoxVertexCount+6, l.Len())

	l.Collect(g, nil)
	assert.Equal(t, BoxVertexCount+6, l.Len(), "collect starts from an empty batch")
}

func TestCollectShadowFrustum(t *testing.T) {
	g := scenegraph.New()
	main := lighting.MainSpot(1024)
	main.Target = math.Vec3{}
	light := g.Add(g.Root(), scenegraph.NewLight("main", main, math.Vec3{X: 500, Y: 700}))

	b := lighting.NewLightBuffer()
	b.Collect(g)
	caster, ok := b.ShadowCaster()
	require.True(t, ok)

	var l Lines
	l.Collect(g, &caster)
	assert.Zero(t, l.Len(), "no frustum without a light helper")

	g.Add(g.Root(), &scenegraph.Node{Kind: scenegraph.KindHelper, Visible: true, Transform: math.NewTransform(),
		Helper: &scenegraph.Helper{Target: light, Bounds: math.AABB{Max: math.Vec3{X: 1, Y: 1, Z: 1}}}})
	l.Collect(g, &caster)
	require.Equal(t, BoxVertexCount+FrustumVertexCount, l.Len())

	// the last four segments start at the light
	for i := l.Len() - 8; i < l.Len(); i += 2 {
		apex := math.Vec3{X: l.Data[i*6], Y: l.Data[i*6+1], Z: l.Data[i*6+2]}
		assert.InDelta(t, 0, apex.Distance(math.Vec3{X: 500, Y: 700}), 1e-3)
		assert.Equal(t, FrustumColor[0], l.Data[i*6+3])
	}
}

func TestScreenshotSave(t *testing.T) {
	s := NewScreenshots(t.TempDir(), "showroom")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	// 1x2: bottom row red, top row blue
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	name, err := s.Save(pixels, 1, 2)
	require.NoError(t, err)
	assert.Contains(t, name, "showroom_2024-05-01_12-00-00.png")

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, _, b, _ := img.At(0, 0).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, b, "top row comes first after the flip")

	_, err = s.Save([]byte{1, 2, 3}, 1, 1)
	assert.Error(t, err)
}
