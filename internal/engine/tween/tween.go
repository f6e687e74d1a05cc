// Package tween moves vectors over time on gween easing curves.
package tween

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/showroom/pkg/math"
)

// Tween moves a vector from From to To over Duration, one gween tween per axis.
type Tween struct {
	From, To math.Vec3
	Duration time.Duration
	// Ease defaults to ease.Linear.
	Ease ease.TweenFunc
	// Set receives every interpolated value.
	Set func(math.Vec3)

	axes [3]*gween.Tween
}

func (t *Tween) init() {
	fn := t.Ease
	if fn == nil {
		fn = ease.Linear
	}
	d := float32(t.Duration.Seconds())
	t.axes = [3]*gween.Tween{
		gween.New(t.From.X, t.To.X, d, fn),
		gween.New(t.From.Y, t.To.Y, d, fn),
		gween.New(t.From.Z, t.To.Z, d, fn),
	}
}

// Step advances the tween by dt and reports whether it finished.
func (t *Tween) Step(dt time.Duration) bool {
	if t.Duration <= 0 {
		if t.Set != nil {
			t.Set(t.To)
		}
		return true
	}
	if t.axes[0] == nil {
		t.init()
	}
	s := float32(dt.Seconds())
	var v math.Vec3
	var done bool
	v.X, done = t.axes[0].Update(s)
	v.Y, _ = t.axes[1].Update(s)
	v.Z, _ = t.axes[2].Update(s)
	if t.Set != nil {
		t.Set(v)
	}
	return done
}

// Group runs tweens keyed by target. Starting a tween on a key that is
// already animating replaces the running one.
type Group struct {
	active map[any]*Tween
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{active: make(map[any]*Tween)}
}

// Start begins t under key.
func (g *Group) Start(key any, t *Tween) {
	g.active[key] = t
}

// Update steps every tween and drops finished ones.
func (g *Group) Update(dt time.Duration) {
	for key, t := range g.active {
		if t.Step(dt) {
			delete(g.active, key)
		}
	}
}

// Len returns the number of running tweens.
func (g *Group) Len() int { return len(g.active) }

// Running reports whether key has a tween in flight.
func (g *Group) Running(key any) bool {
	_, ok := g.active[key]
	return ok
}

// Clear drops every tween without applying further values.
func (g *Group) Clear() {
	clear(g.active)
}
