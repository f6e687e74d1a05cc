package model

import (
	"context"
	"fmt"
	"image"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/internal/engine/texture"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/formats"
	"github.com/Faultbox/showroom/pkg/math"
)

// RSMLoader loads RSM models and decodes their textures off the owning goroutine.
type RSMLoader struct {
	// TextureDir is searched for texture files; defaults to the model's directory.
	TextureDir string
	// Textures receives decoded textures, keyed by the path stored on meshes.
	// Nil skips decoding.
	Textures func(path string, img *image.RGBA)
}

// Load implements Loader.
func (l *RSMLoader) Load(ctx context.Context, p string) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rsm, err := formats.ParseRSMFile(p)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", p, err)
	}

	dir := l.TextureDir
	if dir == "" {
		dir = filepath.Dir(p)
	}
	asset := BuildAsset(rsm, dir)

	if l.Textures != nil {
		for _, tex := range TexturePaths(asset) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			img, err := texture.Load(tex, texture.Options{ColorKey: true})
			if err != nil {
				// the meshes keep their material instead
				logger.Named("model").Warn("texture unavailable",
					zap.String("model", p), zap.String("texture", tex), zap.Error(err))
				dropTexture(asset, tex)
				continue
			}
			l.Textures(tex, img)
		}
	}
	return asset, nil
}

func dropTexture(a *Asset, tex string) {
	a.Root.Walk(func(p *scenegraph.Prefab) {
		if p.Mesh != nil && p.Mesh.Texture == tex {
			p.Mesh.Texture = ""
		}
	})
}

// TexturePaths lists the distinct textures referenced by an asset's meshes.
func TexturePaths(a *Asset) []string {
	seen := make(map[string]bool)
	var out []string
	a.Root.Walk(func(p *scenegraph.Prefab) {
		if p.Mesh != nil && p.Mesh.Texture != "" && !seen[p.Mesh.Texture] {
			seen[p.Mesh.Texture] = true
			out = append(out, p.Mesh.Texture)
		}
	})
	return out
}

// BuildAsset converts a parsed model into a prefab tree plus its clip.
// The returned root flips Y, since RSM models are authored Y-down.
func BuildAsset(rsm *formats.RSM, textureDir string) *Asset {
	flip := &scenegraph.Prefab{Name: "rsm-flip", Transform: math.NewTransform()}
	flip.Transform.Scale = math.Vec3{X: 1, Y: -1, Z: 1}

	visited := make(map[string]bool)
	var build func(n *formats.RSMNode) *scenegraph.Prefab
	build = func(n *formats.RSMNode) *scenegraph.Prefab {
		visited[n.Name] = true
		p := &scenegraph.Prefab{Name: n.Name, Transform: nodeTransform(n)}
		p.Children = append(p.Children, nodeMeshes(rsm, n, textureDir)...)
		for _, c := range rsm.Children(n.Name) {
			if !visited[c.Name] {
				p.Children = append(p.Children, build(c))
			}
		}
		return p
	}
	if root := rsm.Root(); root != nil {
		flip.Children = append(flip.Children, build(root))
	}

	asset := &Asset{Root: &scenegraph.Prefab{Name: "rsm", Transform: math.NewTransform(), Children: []*scenegraph.Prefab{flip}}}
	if rsm.Animated() {
		asset.Clips = []Clip{buildClip(rsm)}
	}
	return asset
}

// nodeTransform is the inherited part of a node: position, rotation, scale.
func nodeTransform(n *formats.RSMNode) math.Transform {
	t := math.At(math.Vec3{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]})
	t.Scale = math.Vec3{X: n.Scale[0], Y: n.Scale[1], Z: n.Scale[2]}
	axis := math.Vec3{X: n.RotAxis[0], Y: n.RotAxis[1], Z: n.RotAxis[2]}
	if len(n.RotKeys) == 0 && n.RotAngle != 0 && axis.Length() > 1e-6 {
		t.Rotation = math.QuatFromAxisAngle(axis.Normalize(), n.RotAngle).Euler()
	} else if len(n.RotKeys) > 0 {
		t.Rotation = quat(n.RotKeys[0].Quaternion).Euler()
	}
	return t
}

func quat(q [4]float32) math.Quat {
	return math.Quat{X: q[0], Y: q[1], Z: q[2], W: q[3]}
}

// nodeMeshes bakes the node's vertex-only transform (offset, then 3x3
// matrix) into one mesh per texture.
func nodeMeshes(rsm *formats.RSM, n *formats.RSMNode, textureDir string) []*scenegraph.Prefab {
	vm := math.Translate(vec(n.Offset)).Mul(math.Basis(n.Matrix))

	byTex := make(map[int]*geometry.Mesh)
	var order []int
	for _, f := range n.Faces {
		if !faceValid(n, f) {
			continue
		}
		var pos [3]math.Vec3
		for j, vid := range f.VertexIDs {
			pos[j] = vm.TransformVec3(vec(n.Vertices[vid]))
		}
		normal := pos[1].Sub(pos[0]).Cross(pos[2].Sub(pos[0]))
		if normal.Length() < 1e-5 {
			continue
		}
		normal = normal.Normalize()

		tex := 0
		if int(f.TextureID) < len(n.TextureIDs) {
			tex = int(n.TextureIDs[f.TextureID])
		}
		m, ok := byTex[tex]
		if !ok {
			m = &geometry.Mesh{}
			byTex[tex] = m
			order = append(order, tex)
		}
		addFace(m, n, f, pos, normal, false)
		if f.TwoSide != 0 {
			addFace(m, n, f, pos, normal.Scale(-1), true)
		}
	}

	out := make([]*scenegraph.Prefab, 0, len(order))
	for _, tex := range order {
		mesh := scenegraph.Mesh{Data: byTex[tex], CastShadow: true, ReceiveShadow: true}
		if tex >= 0 && tex < len(rsm.Textures) {
			mesh.Texture = texturePath(textureDir, rsm.Textures[tex])
		}
		out = append(out, &scenegraph.Prefab{
			Name:      fmt.Sprintf("%s#%d", n.Name, tex),
			Transform: math.NewTransform(),
			Mesh:      &mesh,
		})
	}
	return out
}

func faceValid(n *formats.RSMNode, f formats.RSMFace) bool {
	for _, vid := range f.VertexIDs {
		if int(vid) >= len(n.Vertices) {
			return false
		}
	}
	return true
}

func addFace(m *geometry.Mesh, n *formats.RSMNode, f formats.RSMFace, pos [3]math.Vec3, normal math.Vec3, reverse bool) {
	base := uint32(m.VertexCount())
	for j := 0; j < 3; j++ {
		k := j
		if reverse {
			k = 2 - j
		}
		var u, v float32
		if tc := int(f.TexCoordIDs[k]); tc < len(n.TexCoords) {
			u, v = n.TexCoords[tc].U, n.TexCoords[tc].V
		}
		p := pos[k]
		m.Positions = append(m.Positions, p.X, p.Y, p.Z)
		m.Normals = append(m.Normals, normal.X, normal.Y, normal.Z)
		m.UVs = append(m.UVs, u, v)
	}
	m.Indices = append(m.Indices, base, base+1, base+2)
}

func vec(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// texturePath maps a stored texture name (often with backslashes) onto dir.
func texturePath(dir, name string) string {
	name = path.Clean(strings.ReplaceAll(name, "\\", "/"))
	return filepath.Join(dir, filepath.FromSlash(name))
}

func buildClip(rsm *formats.RSM) Clip {
	ms := func(frame int32) time.Duration { return time.Duration(frame) * time.Millisecond }
	clip := Clip{Name: rsm.RootNode, Length: ms(rsm.AnimLength)}
	for i := range rsm.Nodes {
		n := &rsm.Nodes[i]
		tr := Track{Target: n.Name}
		for _, k := range n.PosKeys {
			tr.Position = append(tr.Position, Key[math.Vec3]{At: ms(k.Frame), Value: vec(k.Position)})
		}
		for _, k := range n.RotKeys {
			tr.Rotation = append(tr.Rotation, Key[math.Quat]{At: ms(k.Frame), Value: quat(k.Quaternion)})
		}
		for _, k := range n.ScaleKeys {
			// scale keys multiply the static scale
			s := vec(k.Scale)
			tr.Scale = append(tr.Scale, Key[math.Vec3]{At: ms(k.Frame), Value: math.Vec3{
				X: s.X * n.Scale[0], Y: s.Y * n.Scale[1], Z: s.Z * n.Scale[2],
			}})
		}
		if len(tr.Position)+len(tr.Rotation)+len(tr.Scale) > 0 {
			clip.Tracks = append(clip.Tracks, tr)
		}
	}
	return clip
}
