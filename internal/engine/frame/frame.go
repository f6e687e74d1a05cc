// Package frame runs the per-frame update in a fixed order.
package frame

import (
	"time"

	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// MaxDelta caps the step after a stall so tweens and clips do not jump.
const MaxDelta = 250 * time.Millisecond

// Renderer draws the scene.
type Renderer interface {
	Render(g *scenegraph.Graph, cam *camera.OrbitCamera)
}

// State reports the mode and the pause toggle.
type State interface {
	Mode() mode.Mode
	Paused() bool
}

type (
	drainer       interface{ Drain() int }
	animator      interface{ Update(dt time.Duration) }
	choreographer interface {
		Update(dt time.Duration, active bool) int
	}
	reactor interface {
		Update(m mode.Mode, paused bool) bool
	}
	refresher interface{ RefreshHelpers() }
	indicator interface{ RefreshModes(m mode.Mode) }
	listener  interface{ SetListener(pos math.Vec3) }
	pruner    interface{ Prune() }
)

// Loop holds the collaborators of one frame. Nil fields are skipped.
type Loop struct {
	State    State
	Queue    drainer
	Models   animator
	Tweens   animator
	Disco    choreographer
	Camera   *camera.OrbitCamera
	Listener listener
	Reactive reactor
	Helpers  refresher
	Modes    indicator
	Notices  pruner
	Graph    *scenegraph.Graph
	Renderer Renderer

	last time.Time
}

// Tick runs one frame at now and returns the step used.
func (l *Loop) Tick(now time.Time) time.Duration {
	if l.Queue != nil {
		l.Queue.Drain()
	}

	var dt time.Duration
	if !l.last.IsZero() {
		dt = min(max(now.Sub(l.last), 0), MaxDelta)
	}
	l.last = now

	m, paused := mode.Normal, false
	if l.State != nil {
		m, paused = l.State.Mode(), l.State.Paused()
	}

	if l.Models != nil && !paused {
		l.Models.Update(dt)
	}

	if l.Tweens != nil {
		l.Tweens.Update(dt)
	}
	if l.Disco != nil {
		l.Disco.Update(dt, m == mode.Disco && !paused)
	}
	if l.Camera != nil {
		l.Camera.Update(dt)
		if l.Listener != nil {
			l.Listener.SetListener(l.Camera.Position())
		}
	}

	if l.Reactive != nil {
		l.Reactive.Update(m, paused)
	}
	if l.Helpers != nil {
		l.Helpers.RefreshHelpers()
	}
	if l.Modes != nil {
		l.Modes.RefreshModes(m)
	}
	if l.Notices != nil {
		l.Notices.Prune()
	}
	if l.Renderer != nil {
		l.Renderer.Render(l.Graph, l.Camera)
	}
	return dt
}
