// Package render draws the scene graph with OpenGL into an offscreen target.
package render

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/debug"
	"github.com/Faultbox/showroom/internal/engine/lighting"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/render/batch"
	"github.com/Faultbox/showroom/internal/engine/render/shaders"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/internal/engine/texture"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/math"
)

// Options configures a Surface.
type Options struct {
	Width, Height int32
	Catalog       *material.Catalog
	TextureDir    string
	Background    [3]float32
	ShadowMapSize int32
}

// Surface renders frames into an offscreen target. All methods except
// AddTexture must run on the thread owning the GL context.
type Surface struct {
	opts     Options
	log      *zap.Logger
	textures *texture.Cache

	mesh   *Program
	depth  *Program
	lines  *Program
	target *Target
	shadow *ShadowMap

	geoms    map[batch.Source]*gpuMesh
	frame    uint64
	texIDs   map[string]uint32
	missing  map[string]bool
	white    uint32
	lineBuf  *lineBuffer
	list     batch.List
	lights   *lighting.LightBuffer
	helpers  debug.Lines
	lightMat math.Mat4

	mu      sync.Mutex
	pending map[string]*image.RGBA
}

// New creates a surface. A GL context must be current and gl.Init done.
func New(opts Options) (*Surface, error) {
	s := &Surface{
		opts:     opts,
		log:      logger.Named("render"),
		textures: texture.NewCache(texture.Options{}),
		geoms:    make(map[batch.Source]*gpuMesh),
		texIDs:   make(map[string]uint32),
		missing:  make(map[string]bool),
		lights:   lighting.NewLightBuffer(),
		pending:  make(map[string]*image.RGBA),
		list:     batch.List{Catalog: opts.Catalog, TextureDir: opts.TextureDir},
	}

	s.log.Info("OpenGL surface",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var err error
	if s.mesh, err = NewProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader); err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	if s.depth, err = NewProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		s.Close()
		return nil, fmt.Errorf("depth shader: %w", err)
	}
	if s.lines, err = NewProgram(shaders.LinesVertexShader, shaders.LinesFragmentShader); err != nil {
		s.Close()
		return nil, fmt.Errorf("lines shader: %w", err)
	}
	if s.target, err = NewTarget(opts.Width, opts.Height); err != nil {
		s.Close()
		return nil, err
	}
	s.shadow = NewShadowMap(opts.ShadowMapSize)
	if s.shadow == nil {
		s.log.Warn("shadow map unavailable, rendering without shadows")
	}
	s.white = whiteTexture()
	s.lineBuf = newLineBuffer()

	if opts.Catalog != nil {
		for _, tex := range opts.Catalog.Textures() {
			s.texture(filepath.Join(opts.TextureDir, tex))
		}
	}
	return s, nil
}

// AddTexture hands over a texture decoded elsewhere, keyed by the path
// meshes reference. It is safe to call from any goroutine; the upload
// happens on the next Render.
func (s *Surface) AddTexture(path string, img *image.RGBA) {
	s.mu.Lock()
	s.pending[path] = img
	s.mu.Unlock()
}

func (s *Surface) uploadPending() {
	s.mu.Lock()
	pending := s.pending
	s.pending = make(map[string]*image.RGBA)
	s.mu.Unlock()

	for path, img := range pending {
		if old, ok := s.texIDs[path]; ok && old != s.white {
			gl.DeleteTextures(1, &old)
		}
		s.texIDs[path] = uploadTexture(img)
		delete(s.missing, path)
	}
}

// texture returns the GL texture for path, decoding it on first use.
// Unreadable files fall back to white and are reported once.
func (s *Surface) texture(path string) uint32 {
	if path == "" {
		return s.white
	}
	if id, ok := s.texIDs[path]; ok {
		return id
	}
	if s.missing[path] {
		return s.white
	}
	img, err := s.textures.Get(path)
	if err != nil {
		s.missing[path] = true
		s.log.Warn("texture unavailable", zap.String("path", path), zap.Error(err))
		return s.white
	}
	id := uploadTexture(img)
	s.texIDs[path] = id
	return id
}

// evictAfter is how many frames an unused mesh survives. Resizing the
// chair produces new shapes every frame while a slider is dragged.
const evictAfter = 120

func (s *Surface) geometry(src batch.Source) *gpuMesh {
	g, ok := s.geoms[src]
	if !ok {
		g = uploadMesh(src.Build())
		s.geoms[src] = g
	}
	g.used = s.frame
	return g
}

func (s *Surface) evict() {
	for src, g := range s.geoms {
		if s.frame-g.used > evictAfter {
			g.destroy()
			delete(s.geoms, src)
		}
	}
}

// Resize changes the target size.
func (s *Surface) Resize(width, height int32) {
	s.target.Resize(width, height)
}

// Size returns the target size.
func (s *Surface) Size() (int32, int32) { return s.target.Size() }

// Texture returns the colour texture holding the last frame.
func (s *Surface) Texture() uint32 { return s.target.ColorTexture() }

// ReadPixels returns the last frame as bottom-up RGBA rows.
func (s *Surface) ReadPixels() (pixels []byte, width, height int) {
	w, h := s.target.Size()
	return s.target.ReadPixels(), int(w), int(h)
}

// Render draws g as seen by cam.
func (s *Surface) Render(g *scenegraph.Graph, cam *camera.OrbitCamera) {
	if g == nil || cam == nil {
		return
	}
	s.frame++
	s.uploadPending()
	defer s.evict()

	if dropped := s.lights.Collect(g); dropped > 0 {
		s.log.Debug("spot lights over budget", zap.Int("dropped", dropped))
	}
	items := s.list.Build(g)

	caster, hasShadow := s.lights.ShadowCaster()
	shadowIndex := int32(-1)
	if hasShadow && s.shadow != nil {
		s.lightMat = caster.ViewProjection()
		s.depthPass()
		for i, l := range s.lights.Spots {
			if l.Node == caster.Node {
				shadowIndex = int32(i)
				break
			}
		}
	}

	restore := s.target.Bind()
	defer restore()

	bg := s.opts.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	w, h := s.target.Size()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(float32(w) / float32(h))

	p := s.mesh
	p.Use()
	p.SetMat4("uView", (*[16]float32)(&view))
	p.SetMat4("uProjection", (*[16]float32)(&proj))
	p.SetMat4("uLightViewProj", (*[16]float32)(&s.lightMat))
	p.SetVec3("uCameraPos", cam.Position().Array())
	p.SetVec3("uAmbient", s.lights.Ambient)
	p.SetInt("uSpotCount", int32(len(s.lights.Spots)))
	p.SetVec3Array("uSpotPositions", s.lights.Positions())
	p.SetVec3Array("uSpotDirections", s.lights.Directions())
	p.SetVec3Array("uSpotColors", s.lights.Colors())
	p.SetVec2Array("uSpotCones", s.lights.Cones())
	p.SetInt("uShadowIndex", shadowIndex)
	p.SetFloat("uShadowBias", caster.Shadow.Bias)
	p.SetInt("uTexture", 0)
	p.SetInt("uShadowMap", 1)
	if s.shadow != nil {
		s.shadow.BindTexture(gl.TEXTURE1)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	bound := uint32(0)
	for i := range items {
		it := &items[i]
		if tex := s.texture(it.Texture); tex != bound {
			gl.BindTexture(gl.TEXTURE_2D, tex)
			bound = tex
		}
		m := it.Material
		repeat := m.Repeat
		if repeat == [2]float32{} {
			repeat = [2]float32{1, 1}
		}
		p.SetMat4("uModel", (*[16]float32)(&it.World))
		p.SetVec2("uRepeat", repeat[0], repeat[1])
		p.SetVec3("uColor", m.Color)
		p.SetVec3("uEmissive", it.Emissive)
		p.SetFloat("uRoughness", m.Roughness)
		p.SetFloat("uMetalness", m.Metalness)
		p.SetFloat("uShininess", m.Shininess)
		p.SetBool("uPhong", m.Shading == material.Phong)
		p.SetBool("uFlat", m.Flat)
		p.SetBool("uReceiveShadow", it.ReceiveShadow)
		s.geometry(it.Source).draw()
	}

	var frustum *lighting.SpotLight
	if hasShadow {
		frustum = &caster
	}
	s.helpers.Collect(g, frustum)
	if n := s.helpers.Len(); n > 0 {
		vp := proj.Mul(view)
		s.lines.Use()
		s.lines.SetMat4("uViewProj", (*[16]float32)(&vp))
		s.lineBuf.draw(s.helpers.Data, int32(n))
	}
	gl.BindVertexArray(0)
}

func (s *Surface) depthPass() {
	s.shadow.Bind()
	defer s.shadow.Unbind()

	s.depth.Use()
	s.depth.SetMat4("uLightViewProj", (*[16]float32)(&s.lightMat))
	for _, it := range s.list.Casters() {
		s.depth.SetMat4("uModel", (*[16]float32)(&it.World))
		s.geometry(it.Source).draw()
	}
}

// Close releases every GPU resource.
func (s *Surface) Close() {
	for _, g := range s.geoms {
		g.destroy()
	}
	clear(s.geoms)
	for _, id := range s.texIDs {
		if id != s.white {
			gl.DeleteTextures(1, &id)
		}
	}
	clear(s.texIDs)
	if s.white != 0 {
		gl.DeleteTextures(1, &s.white)
		s.white = 0
	}
	if s.lineBuf != nil {
		s.lineBuf.destroy()
		s.lineBuf = nil
	}
	for _, p := range []*Program{s.mesh, s.depth, s.lines} {
		if p != nil {
			p.Delete()
		}
	}
	if s.target != nil {
		s.target.Destroy()
	}
	if s.shadow != nil {
		s.shadow.Destroy()
	}
}
