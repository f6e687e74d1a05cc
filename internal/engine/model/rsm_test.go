package model

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/formats"
	"github.com/Faultbox/showroom/pkg/math"
)

func speakerRSM() *formats.RSM {
	identity := [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}
	return &formats.RSM{
		Version:    formats.RSMVersion{Major: 1, Minor: 5},
		AnimLength: 1000,
		Alpha:      1,
		Textures:   []string{"tex\\cone.png"},
		RootNode:   "cabinet",
		Nodes: []formats.RSMNode{
			{
				Name:       "cabinet",
				TextureIDs: []int32{0},
				Matrix:     identity,
				Offset:     [3]float32{0, 10, 0},
				Scale:      [3]float32{1, 1, 1},
				Vertices:   [][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {5, 5, 5}},
				Faces: []formats.RSMFace{
					{VertexIDs: [3]uint16{0, 1, 2}, TwoSide: 1},
					{VertexIDs: [3]uint16{0, 1, 9}}, // out of range
					{VertexIDs: [3]uint16{0, 0, 1}}, // degenerate
				},
			},
			{
				Name:     "woofer",
				Parent:   "cabinet",
				Matrix:   identity,
				Position: [3]float32{0, 20, 0},
				Scale:    [3]float32{1, 1, 1},
				RotKeys: []formats.RSMRotKeyframe{
					{Frame: 0, Quaternion: [4]float32{0, 0, 0, 1}},
					{Frame: 1000, Quaternion: [4]float32{0, 0.7071068, 0, 0.7071068}},
				},
			},
		},
	}
}

func TestBuildAsset(t *testing.T) {
	a := BuildAsset(speakerRSM(), "/models")

	require.Len(t, a.Root.Children, 1)
	flip := a.Root.Children[0]
	assert.Equal(t, float32(-1), flip.Transform.Scale.Y)

	require.Len(t, flip.Children, 1)
	cabinet := flip.Children[0]
	assert.Equal(t, "cabinet", cabinet.Name)

	var meshes []*scenegraph.Prefab
	var names []string
	cabinet.Walk(func(p *scenegraph.Prefab) {
		names = append(names, p.Name)
		if p.Mesh != nil {
			meshes = append(meshes, p)
		}
	})
	assert.Equal(t, []string{"cabinet", "cabinet#0", "woofer"}, names)

	require.Len(t, meshes, 1)
	data := meshes[0].Mesh.Data
	assert.Equal(t, 6, data.VertexCount(), "two-sided face is duplicated")
	assert.Len(t, data.Indices, 6)
	assert.Equal(t, float32(10), data.Positions[1], "offset baked into vertices")
	assert.Equal(t, filepath.Join("/models", "tex", "cone.png"), meshes[0].Mesh.Texture)

	require.Len(t, a.Clips, 1)
	clip := a.Clips[0]
	assert.Equal(t, time.Second, clip.Length)
	require.Len(t, clip.Tracks, 1)
	assert.Equal(t, "woofer", clip.Tracks[0].Target)
}

func TestBuildAssetStatic(t *testing.T) {
	m := speakerRSM()
	m.Nodes[1].RotKeys = m.Nodes[1].RotKeys[:1]
	assert.Empty(t, BuildAsset(m, "").Clips)
}

func TestMixerPosesRotation(t *testing.T) {
	g := scenegraph.New()
	a := BuildAsset(speakerRSM(), "")
	root := g.Instantiate(g.Root(), a.Root)

	mixer := NewMixer(g, root, a.Clips)
	_, err := mixer.ClipAction(1)
	assert.ErrorIs(t, err, ErrNoSuchClip)

	action, err := mixer.ClipAction(0)
	require.NoError(t, err)
	again, _ := mixer.ClipAction(0)
	assert.Same(t, action, again)

	mixer.Update(time.Second / 2)
	woofer, ok := g.FindDescendant(root, "woofer")
	require.True(t, ok)
	n, _ := g.Get(woofer)
	assert.Zero(t, n.Transform.Rotation.Y, "stopped actions do not pose")

	action.Play()
	mixer.Update(time.Second / 2)
	assert.InDelta(t, math.DegToRad(45), n.Transform.Rotation.Y, 1e-3)

	action.Stop()
	assert.Zero(t, action.Time())
}

func TestRSMLoader(t *testing.T) {
	dir := t.TempDir()
	data, err := speakerRSM().MarshalBinary()
	require.NoError(t, err)
	path := filepath.Join(dir, "speakers.rsm")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tex"), 0o755))
	f, err := os.Create(filepath.Join(dir, "tex", "cone.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())

	loaded := make(map[string]*image.RGBA)
	l := &RSMLoader{Textures: func(p string, img *image.RGBA) { loaded[p] = img }}
	a, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotNil(t, a.Root)
	assert.Contains(t, loaded, filepath.Join(dir, "tex", "cone.png"))

	_, err = l.Load(context.Background(), filepath.Join(dir, "missing.rsm"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRSMLoaderBadTextureKeepsModel(t *testing.T) {
	dir := t.TempDir()
	data, err := speakerRSM().MarshalBinary()
	require.NoError(t, err)
	path := filepath.Join(dir, "speakers.rsm")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "tex"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tex", "cone.png"), []byte("not an image"), 0o644))

	loaded := make(map[string]*image.RGBA)
	l := &RSMLoader{Textures: func(p string, img *image.RGBA) { loaded[p] = img }}
	a, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.NotNil(t, a.Root)
	assert.Empty(t, loaded)
	assert.Empty(t, TexturePaths(a), "meshes fall back to their material")

	meshes := 0
	a.Root.Walk(func(p *scenegraph.Prefab) {
		if p.Mesh != nil {
			meshes++
		}
	})
	assert.Positive(t, meshes)
}
