package model

import (
	"fmt"
	"time"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// sample interpolates keys at t. Keys must be sorted by At.
func sample[T any](keys []Key[T], t time.Duration, lerp func(a, b T, k float32) T) (T, bool) {
	var zero T
	switch len(keys) {
	case 0:
		return zero, false
	case 1:
		return keys[0].Value, true
	}

	prev, next := 0, 0
	for i := range keys {
		if keys[i].At > t {
			next = i
			break
		}
		prev, next = i, i
	}
	if prev == next {
		return keys[prev].Value, true
	}

	k0, k1 := keys[prev], keys[next]
	var k float32
	if span := k1.At - k0.At; span > 0 {
		k = float32(t-k0.At) / float32(span)
	}
	return lerp(k0.Value, k1.Value, k), true
}

func slerp(a, b math.Quat, k float32) math.Quat { return a.Slerp(b, k) }
func lerp3(a, b math.Vec3, k float32) math.Vec3 { return a.Lerp(b, k) }

type binding struct {
	node  scenegraph.NodeID
	track *Track
}

// Action plays one clip on a model instance.
type Action struct {
	clip     *Clip
	bindings []binding
	time     time.Duration
	running  bool
}

// Play starts or resumes the action.
func (a *Action) Play() { a.running = true }

// Stop halts the action and rewinds it.
func (a *Action) Stop() {
	a.running = false
	a.time = 0
}

// Running reports whether the action advances on Update.
func (a *Action) Running() bool { return a.running }

// Time returns the playhead.
func (a *Action) Time() time.Duration { return a.time }

// Clip returns the clip being played.
func (a *Action) Clip() *Clip { return a.clip }

// Mixer drives the clips of one model instance.
type Mixer struct {
	graph   *scenegraph.Graph
	root    scenegraph.NodeID
	clips   []Clip
	actions map[int]*Action
}

// NewMixer binds clips to the instance rooted at root.
func NewMixer(g *scenegraph.Graph, root scenegraph.NodeID, clips []Clip) *Mixer {
	return &Mixer{graph: g, root: root, clips: clips, actions: make(map[int]*Action)}
}

// ClipAction returns the action for clip i, creating it on first use.
func (m *Mixer) ClipAction(i int) (*Action, error) {
	if i < 0 || i >= len(m.clips) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoSuchClip, i, len(m.clips))
	}
	if a, ok := m.actions[i]; ok {
		return a, nil
	}
	clip := &m.clips[i]
	a := &Action{clip: clip}
	for j := range clip.Tracks {
		tr := &clip.Tracks[j]
		if id, ok := m.graph.FindDescendant(m.root, tr.Target); ok {
			a.bindings = append(a.bindings, binding{node: id, track: tr})
		}
	}
	m.actions[i] = a
	return a, nil
}

// Update advances every running action by dt and poses the bound nodes.
func (m *Mixer) Update(dt time.Duration) {
	for _, a := range m.actions {
		if !a.running {
			continue
		}
		a.time += dt
		if a.clip.Length > 0 {
			a.time %= a.clip.Length
		}
		m.pose(a)
	}
}

func (m *Mixer) pose(a *Action) {
	for _, b := range a.bindings {
		n, ok := m.graph.Get(b.node)
		if !ok {
			continue
		}
		if p, ok := sample(b.track.Position, a.time, lerp3); ok {
			n.Transform.Position = p
		}
		if q, ok := sample(b.track.Rotation, a.time, slerp); ok {
			n.Transform.Rotation = q.Euler()
		}
		if s, ok := sample(b.track.Scale, a.time, lerp3); ok {
			n.Transform.Scale = s
		}
	}
}
