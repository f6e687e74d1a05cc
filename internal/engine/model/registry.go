package model

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/math"
)

// Poster hands a closure to the goroutine that owns the scene.
type Poster interface {
	Post(fn func()) bool
}

// Instance is a resolved model.
type Instance struct {
	Decl   Declaration
	Node   scenegraph.NodeID
	Mixer  *Mixer
	Action *Action
}

// Registry tracks requested models and the instances that resolved.
// Everything except the loader runs on the owning goroutine.
type Registry struct {
	graph  *scenegraph.Graph
	loader Loader
	post   Poster
	log    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	requested map[string]Declaration
	instances map[string]*Instance
	hooks     map[string][]func(*scenegraph.Node)
	floorY    float32
	hasFloor  bool
}

// NewRegistry creates a registry placing models into g.
func NewRegistry(g *scenegraph.Graph, loader Loader, post Poster) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)
	return &Registry{
		graph:     g,
		loader:    loader,
		post:      post,
		log:       logger.Named("model"),
		ctx:       ctx,
		cancel:    cancel,
		group:     group,
		requested: make(map[string]Declaration),
		instances: make(map[string]*Instance),
		hooks:     make(map[string][]func(*scenegraph.Node)),
	}
}

// Request starts loading d and returns immediately. A later request with the
// same name replaces the declaration but does not cancel the earlier load.
func (r *Registry) Request(d Declaration) {
	r.requested[d.Name] = d
	r.log.Info("loading model", zap.String("name", d.Name), zap.String("path", d.Path))

	ctx := r.ctx
	r.group.Go(func() error {
		asset, err := r.loader.Load(ctx, d.Path)
		if ctx.Err() != nil {
			return nil
		}
		r.post.Post(func() { r.resolve(d, asset, err) })
		return nil
	})
}

func (r *Registry) resolve(d Declaration, asset *Asset, err error) {
	if err != nil {
		r.log.Warn("model load failed", zap.String("name", d.Name), zap.Error(err))
		return
	}
	if asset == nil || asset.Root == nil {
		r.log.Warn("model load returned no scene", zap.String("name", d.Name))
		return
	}
	parent := d.Parent
	if parent == 0 {
		parent = r.graph.Root()
	}
	if !r.graph.Contains(parent) {
		r.log.Warn("model parent gone", zap.String("name", d.Name))
		return
	}
	if old, ok := r.instances[d.Name]; ok {
		r.graph.Remove(old.Node)
	}

	id := r.graph.Instantiate(parent, asset.Root)
	root, _ := r.graph.Get(id)
	root.Name = d.Name
	root.Transform = d.Transform()
	if d.FollowFloor && r.hasFloor {
		root.Transform.Position.Y = r.floorY + d.FloorOffset
	}
	r.graph.WalkSubtree(id, func(n *scenegraph.Node) {
		if n.Mesh != nil {
			n.Mesh.CastShadow = true
			n.Mesh.ReceiveShadow = true
		}
	})

	inst := &Instance{Decl: d, Node: id, Mixer: NewMixer(r.graph, id, asset.Clips)}
	if d.Animation != nil {
		a, err := inst.Mixer.ClipAction(*d.Animation)
		if err != nil {
			r.log.Warn("model animation unavailable", zap.String("name", d.Name), zap.Error(err))
		} else {
			a.Play()
			inst.Action = a
		}
	}
	r.instances[d.Name] = inst
	r.log.Info("model ready", zap.String("name", d.Name), zap.Int("clips", len(asset.Clips)))

	hooks := r.hooks[d.Name]
	delete(r.hooks, d.Name)
	for _, fn := range hooks {
		fn(root)
	}
}

// Update advances every instance's animation.
func (r *Registry) Update(dt time.Duration) {
	for _, inst := range r.instances {
		inst.Mixer.Update(dt)
	}
}

// Lookup returns the root node of a resolved model.
func (r *Registry) Lookup(name string) (*scenegraph.Node, bool) {
	inst, ok := r.instances[name]
	if !ok {
		return nil, false
	}
	return r.graph.Get(inst.Node)
}

// Instance returns the resolved instance called name.
func (r *Registry) Instance(name string) (*Instance, bool) {
	inst, ok := r.instances[name]
	return inst, ok
}

// Names lists resolved models, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.instances))
	for name := range r.instances {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Pending reports how many requested models have not resolved.
func (r *Registry) Pending() int {
	n := 0
	for name := range r.requested {
		if _, ok := r.instances[name]; !ok {
			n++
		}
	}
	return n
}

// OnResolved runs fn with the model's root once it resolves, or now if it
// already has.
func (r *Registry) OnResolved(name string, fn func(*scenegraph.Node)) {
	if n, ok := r.Lookup(name); ok {
		fn(n)
		return
	}
	r.hooks[name] = append(r.hooks[name], fn)
}

// Reposition moves a resolved model. It reports whether the model exists.
func (r *Registry) Reposition(name string, pos math.Vec3) bool {
	n, ok := r.Lookup(name)
	if ok {
		n.Transform.Position = pos
	}
	return ok
}

// RepositionFloor records the floor height and moves every floor-following
// model onto it, including those that resolve later.
func (r *Registry) RepositionFloor(floorY float32) {
	r.floorY, r.hasFloor = floorY, true
	for _, inst := range r.instances {
		if !inst.Decl.FollowFloor {
			continue
		}
		if n, ok := r.graph.Get(inst.Node); ok {
			n.Transform.Position.Y = floorY + inst.Decl.FloorOffset
		}
	}
}

// Close cancels in-flight loads and waits for their goroutines.
func (r *Registry) Close() error {
	r.cancel()
	return r.group.Wait()
}
