// Package showroom assembles the chair showroom: the procedural chair, the
// light rigs, the animated models, the music and the frame loop.
package showroom

import (
	"fmt"
	"image"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/audio"
	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/dispatch"
	"github.com/Faultbox/showroom/internal/engine/frame"
	"github.com/Faultbox/showroom/internal/engine/lighting"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/notice"
	"github.com/Faultbox/showroom/internal/engine/panel"
	"github.com/Faultbox/showroom/internal/engine/params"
	"github.com/Faultbox/showroom/internal/engine/parts"
	"github.com/Faultbox/showroom/internal/engine/reactive"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/internal/engine/tween"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/math"
)

// Options wires an Engine. Zero fields get working defaults.
type Options struct {
	Config *config.Config
	// Loader reads model files; defaults to an RSM loader.
	Loader model.Loader
	// Renderer draws each frame; nil runs headless.
	Renderer frame.Renderer
	// Audio must already be initialised to be heard.
	Audio   *audio.Manager
	Notices *notice.Board
	Catalog *material.Catalog
	// Textures receives model textures decoded by the default loader.
	Textures func(path string, img *image.RGBA)
	Rand     *rand.Rand
}

// Engine owns every piece of scene state. All methods run on the goroutine
// that calls Tick.
type Engine struct {
	cfg *config.Config
	log *zap.Logger

	graph    *scenegraph.Graph
	scene    *scenegraph.Manager
	catalog  *material.Catalog
	queue    *dispatch.Queue
	tweens   *tween.Group
	rig      *lighting.DiscoRig
	disco    *lighting.Choreographer
	camera   *camera.OrbitCamera
	audio    *audio.Manager
	music    *audio.Track
	applause *audio.Track
	analyser *audio.Analyser
	modes    *mode.Controller
	reactive *reactive.Driver
	registry *model.Registry
	binder   *panel.Binder
	notices  *notice.Board
	loop     *frame.Loop

	params  params.Geometry
	started bool
}

// New builds the scene. Nothing is loaded until Start.
func New(opts Options) (*Engine, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(cfg.Disco.Seed)
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = material.Default()
	}
	notices := opts.Notices
	if notices == nil {
		notices = notice.NewBoard()
	}
	mgr := opts.Audio
	if mgr == nil {
		mgr = audio.New()
	}

	e := &Engine{
		cfg:     cfg,
		log:     logger.Named("showroom"),
		graph:   scenegraph.New(),
		catalog: catalog,
		queue:   dispatch.New(),
		tweens:  tween.NewGroup(),
		audio:   mgr,
		notices: notices,
	}
	e.scene = scenegraph.NewManager(e.graph, catalog)

	if err := e.initLights(rng); err != nil {
		return nil, err
	}
	e.initMeshes()
	e.initCamera()
	e.initAudio()
	e.initModels(opts)

	e.modes = mode.NewController(mode.Options{
		Rigs:      e.scene,
		Music:     e.music,
		Applause:  e.applause,
		MusicName: trackName(cfg.Audio.MusicPath),
		Notices:   notices,
	})
	e.reactive = reactive.New(reactive.Options{
		Signal: e.analyser,
		Cones:  e.rig,
		Graph:  e.graph,
		Ball: func() (*scenegraph.Node, bool) {
			return e.scene.PartNode(parts.ID{Kind: parts.DiscoBall})
		},
		Spin: cfg.Disco.BallSpinPerTick,
	})
	e.binder = panel.NewBinder(e, catalog)

	e.loop = &frame.Loop{
		State:    e,
		Queue:    e.queue,
		Models:   e.registry,
		Tweens:   e.tweens,
		Disco:    e.disco,
		Camera:   e.camera,
		Listener: e.audio,
		Reactive: e.reactive,
		Helpers:  e.scene,
		Modes:    e.binder,
		Notices:  notices,
		Graph:    e.graph,
		Renderer: opts.Renderer,
	}
	return e, nil
}

func (e *Engine) initLights(rng *rand.Rand) error {
	e.notices.Show("Lights initialization...")
	d := e.cfg.Disco

	palette := make([]uint32, 0, len(d.Palette))
	for _, hex := range d.Palette {
		c, err := config.ParseColor(hex)
		if err != nil {
			return fmt.Errorf("disco palette: %w", err)
		}
		palette = append(palette, c)
	}

	e.graph.Add(e.graph.Root(), scenegraph.NewLight("ambient", lighting.Ambient(), math.Vec3{}))

	main := lighting.MainSpot(e.cfg.Graphics.ShadowMapSize)
	main.Target = math.Vec3{}
	e.scene.SetMainLight(e.graph.Add(e.graph.Root(),
		scenegraph.NewLight("main-light", main, math.Vec3{X: 500, Y: params.LightY})))

	e.rig = lighting.BuildDiscoRig(e.graph, lighting.DiscoOptions{
		Count:         d.LightsCount,
		Palette:       palette,
		OffsetX:       d.GroupOffsetX,
		ShadowMapSize: e.cfg.Graphics.ShadowMapSize,
		Rand:          rng,
	})
	e.scene.SetDiscoRig(e.rig.Group())
	e.disco = lighting.NewChoreographer(e.rig, e.tweens, lighting.ChoreographyOptions{
		Interval: d.MoveInterval,
		MinMove:  d.MinMoveTime,
		MaxMove:  d.MaxMoveTime,
		Rand:     rng,
	})

	e.notices.Show("Lights successfully initialized")
	return nil
}

func (e *Engine) initMeshes() {
	e.notices.Show("Meshes initialization...")
	c := e.cfg.Chair
	g := params.Default()
	g.LegCount = c.LegCount
	g.LegRadius = c.LegRadius
	g.LegHeight = c.LegHeight
	g.ChairBackVisible = c.ChairBack
	g.DebugHelpersVisible = c.Helpers
	g.AxesVisible = c.Axes
	if c.FloorMaterial != "" {
		g.FloorMaterial = c.FloorMaterial
	}
	if c.ChairMaterial != "" {
		g.ChairMaterial = c.ChairMaterial
	}
	e.params = g.Clamp()
	e.scene.Apply(e.params)
	e.notices.Show("Meshes successfully initialized")
}

func (e *Engine) initCamera() {
	c := e.cfg.Camera
	e.camera = camera.NewOrbitCamera(camera.Options{
		FOV:             c.FOV,
		Near:            c.Near,
		Far:             c.Far,
		Position:        vec3(c.Position),
		Damping:         c.Damping,
		MinPolar:        c.MinPolar,
		MaxPolar:        c.MaxPolar,
		AutoRotate:      c.AutoRotate,
		AutoRotateSpeed: c.AutoRotateSpeed,
		EnablePan:       true,
	})
}

func (e *Engine) initAudio() {
	a := e.cfg.Audio
	e.audio.SetMuted(a.Muted)

	e.analyser = audio.NewAnalyser()
	e.music = e.audio.NewTrack(trackName(a.MusicPath))
	e.music.SetLoop(true)
	e.music.SetVolume(a.MusicVolume)
	e.music.SetRefDistance(a.RefDistance)
	e.music.SetPosition(vec3(a.SourcePosition))
	e.music.Tap(e.analyser)

	e.applause = e.audio.NewTrack(trackName(a.ApplausePath))
	e.applause.SetLoop(true)
	e.applause.SetVolume(a.ApplauseVolume)
}

func (e *Engine) initModels(opts Options) {
	loader := opts.Loader
	if loader == nil {
		loader = &model.RSMLoader{Textures: opts.Textures}
	}
	e.registry = model.NewRegistry(e.graph, loader, e.queue)
	e.registry.RepositionFloor(e.params.FloorY())
}

// Start builds the panel on s, begins loading models and music and enters
// the configured mode. s may be nil for a headless engine.
func (e *Engine) Start(s panel.Surface) error {
	if e.started {
		return nil
	}
	e.started = true

	if s != nil {
		e.notices.Show("Building GUI...")
		e.binder.Build(s)
		e.binder.RefreshModes(e.modes.Current())
		e.notices.Show("Successfully building GUI")
	}

	e.notices.Show("Models initialization...")
	for _, m := range e.cfg.Models {
		d := model.Declaration{
			Name:        m.Name,
			Path:        e.cfg.AssetPath(m.Path),
			Position:    vec3(m.Position),
			Rotation:    vec3(m.Rotation),
			Scale:       m.Scale,
			Animation:   m.Animation,
			FollowFloor: m.FollowFloor,
			FloorOffset: m.FloorOffset,
		}
		e.notices.Show(fmt.Sprintf("Loading model: '%s'", d.Name))
		e.registry.OnResolved(d.Name, func(*scenegraph.Node) {
			e.notices.Show(fmt.Sprintf("Successfully load model: '%s'", d.Name))
		})
		e.registry.Request(d)
	}

	if p := e.cfg.Audio.MusicPath; p != "" {
		e.audio.LoadAsync(e.music, e.cfg.AssetPath(p), e.queue.Post)
	}
	if p := e.cfg.Audio.ApplausePath; p != "" {
		e.audio.LoadAsync(e.applause, e.cfg.AssetPath(p), e.queue.Post)
	}

	m, err := mode.Parse(e.cfg.Disco.StartMode)
	if err != nil {
		return fmt.Errorf("start mode: %w", err)
	}
	e.SwitchMode(m)
	e.notices.Show("Scene successfully initialized")
	e.log.Info("showroom started",
		zap.Int("models", len(e.cfg.Models)),
		zap.Stringer("mode", m),
		zap.Int("lights", len(e.rig.Lights())))
	return nil
}

// Tick runs one frame.
func (e *Engine) Tick(now time.Time) time.Duration {
	return e.loop.Tick(now)
}

// Params implements panel.Target.
func (e *Engine) Params() params.Geometry { return e.params }

// SetParams implements panel.Target. Geometry, helpers and floor-following
// models follow the new values.
func (e *Engine) SetParams(g params.Geometry) {
	g = g.Clamp()
	e.params = g
	d := e.scene.Apply(g)
	if d.LegHeightChanged {
		e.registry.RepositionFloor(g.FloorY())
	}
}

// SaveSettings writes the current chair and start mode into the user
// config file, so the next launch opens on the same scene.
func (e *Engine) SaveSettings() error {
	g := e.params
	e.cfg.Chair = config.ChairConfig{
		LegCount:      g.LegCount,
		LegRadius:     g.LegRadius,
		LegHeight:     g.LegHeight,
		ChairBack:     g.ChairBackVisible,
		FloorMaterial: g.FloorMaterial,
		ChairMaterial: g.ChairMaterial,
		Helpers:       g.DebugHelpersVisible,
		Axes:          g.AxesVisible,
	}
	e.cfg.Disco.StartMode = strings.ToLower(e.modes.Current().String())
	if err := e.cfg.Save(); err != nil {
		e.log.Warn("settings not saved", zap.Error(err))
		e.notices.Show("Could not save settings")
		return err
	}
	e.notices.Show("Settings saved")
	return nil
}

// SwitchMode implements panel.Target.
func (e *Engine) SwitchMode(m mode.Mode) bool {
	changed := e.modes.Switch(m)
	if changed {
		e.binder.RefreshModes(m)
	}
	return changed
}

// Mode returns the running mode.
func (e *Engine) Mode() mode.Mode { return e.modes.Current() }

// Paused reports whether animation is paused.
func (e *Engine) Paused() bool { return e.params.AnimationPaused }

func (e *Engine) Graph() *scenegraph.Graph     { return e.graph }
func (e *Engine) Scene() *scenegraph.Manager   { return e.scene }
func (e *Engine) Camera() *camera.OrbitCamera  { return e.camera }
func (e *Engine) Registry() *model.Registry    { return e.registry }
func (e *Engine) Notices() *notice.Board       { return e.notices }
func (e *Engine) Catalog() *material.Catalog   { return e.catalog }
func (e *Engine) DiscoRig() *lighting.DiscoRig { return e.rig }
func (e *Engine) Music() *audio.Track          { return e.music }
func (e *Engine) Applause() *audio.Track       { return e.applause }
func (e *Engine) Reactive() *reactive.Driver   { return e.reactive }

// Close stops background loads. Completions still queued are dropped.
func (e *Engine) Close() error {
	err := e.registry.Close()
	e.audio.Close()
	e.queue.Close()
	return err
}

func vec3(a [3]float32) math.Vec3 { return math.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// trackName derives a display name from a file path.
func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
