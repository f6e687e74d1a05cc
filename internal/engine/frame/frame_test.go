package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

type journal struct{ steps []string }

func (j *journal) add(s string) { j.steps = append(j.steps, s) }

type state struct {
	mode   mode.Mode
	paused bool
}

func (s *state) Mode() mode.Mode { return s.mode }
func (s *state) Paused() bool    { return s.paused }

type step struct {
	j    *journal
	name string
	dts  []time.Duration
}

func (s *step) Drain() int                                    { s.j.add(s.name); return 0 }
func (s *step) Update(dt time.Duration)                       { s.j.add(s.name); s.dts = append(s.dts, dt) }
func (s *step) RefreshHelpers()                               { s.j.add(s.name) }
func (s *step) RefreshModes(mode.Mode)                        { s.j.add(s.name) }
func (s *step) Prune()                                        { s.j.add(s.name) }
func (s *step) SetListener(math.Vec3)                         { s.j.add(s.name) }
func (s *step) Render(*scenegraph.Graph, *camera.OrbitCamera) { s.j.add(s.name) }

type disco struct {
	j      *journal
	active []bool
}

func (d *disco) Update(_ time.Duration, active bool) int {
	d.j.add("disco")
	d.active = append(d.active, active)
	return 0
}

type reactive struct {
	j *journal
}

func (r *reactive) Update(mode.Mode, bool) bool { r.j.add("reactive"); return true }

func newLoop(s *state) (*Loop, *journal, *step, *disco) {
	j := &journal{}
	models := &step{j: j, name: "models"}
	d := &disco{j: j}
	l := &Loop{
		State:    s,
		Queue:    &step{j: j, name: "drain"},
		Models:   models,
		Tweens:   &step{j: j, name: "tweens"},
		Disco:    d,
		Camera:   camera.NewOrbitCamera(camera.Options{FOV: 70, Near: 1, Far: 3000, Position: math.Vec3{Y: 200, Z: 750}, Damping: 0.1}),
		Listener: &step{j: j, name: "listener"},
		Reactive: &reactive{j: j},
		Helpers:  &step{j: j, name: "helpers"},
		Modes:    &step{j: j, name: "modes"},
		Notices:  &step{j: j, name: "notices"},
		Graph:    scenegraph.New(),
		Renderer: &step{j: j, name: "render"},
	}
	return l, j, models, d
}

func TestTickOrder(t *testing.T) {
	l, j, _, _ := newLoop(&state{mode: mode.Disco})
	l.Tick(time.Unix(100, 0))

	assert.Equal(t, []string{
		"drain", "models", "tweens", "disco", "listener",
		"reactive", "helpers", "modes", "notices", "render",
	}, j.steps)
}

func TestTickDelta(t *testing.T) {
	l, _, models, _ := newLoop(&state{})
	start := time.Unix(100, 0)

	assert.Zero(t, l.Tick(start))
	assert.Equal(t, 16*time.Millisecond, l.Tick(start.Add(16*time.Millisecond)))
	assert.Equal(t, MaxDelta, l.Tick(start.Add(10*time.Second)))
	assert.Zero(t, l.Tick(start), "clock going backwards")

	assert.Equal(t, []time.Duration{0, 16 * time.Millisecond, MaxDelta, 0}, models.dts)
}

func TestPausedSkipsModels(t *testing.T) {
	s := &state{mode: mode.Disco, paused: true}
	l, j, _, d := newLoop(s)
	l.Tick(time.Unix(100, 0))

	assert.NotContains(t, j.steps, "models")
	assert.Contains(t, j.steps, "reactive", "the driver decides for itself")
	assert.Equal(t, []bool{false}, d.active)

	s.paused = false
	l.Tick(time.Unix(101, 0))
	assert.Equal(t, []bool{false, true}, d.active)

	s.mode = mode.Normal
	l.Tick(time.Unix(102, 0))
	assert.Equal(t, []bool{false, true, false}, d.active)
}

func TestNilCollaborators(t *testing.T) {
	l := &Loop{}
	assert.NotPanics(t, func() {
		l.Tick(time.Unix(1, 0))
		l.Tick(time.Unix(2, 0))
	})
}
