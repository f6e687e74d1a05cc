// Package reactive modulates the disco lights and mirror ball from the music.
package reactive

import (
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

const (
	// BaseAngle is the disco cone angle in degrees at silence.
	BaseAngle = 35
	// DefaultSpin is the ball's yaw step per update, in radians.
	DefaultSpin = 0.01
)

// Signal yields the loudness of the music in [0, 256].
type Signal interface {
	AverageFrequency() float64
}

// Cones sets the cone angle of the disco lights.
type Cones interface {
	SetAngle(rad float32)
}

// Driver applies the audio signal to the scene once per frame.
type Driver struct {
	signal Signal
	cones  Cones
	graph  *scenegraph.Graph
	ball   func() (*scenegraph.Node, bool)
	spin   float32
	last   float64
}

// Options wires a driver. Ball returns the spinning prop, if present.
type Options struct {
	Signal Signal
	Cones  Cones
	Graph  *scenegraph.Graph
	Ball   func() (*scenegraph.Node, bool)
	Spin   float32
}

func New(opts Options) *Driver {
	spin := opts.Spin
	if spin == 0 {
		spin = DefaultSpin
	}
	return &Driver{
		signal: opts.Signal,
		cones:  opts.Cones,
		graph:  opts.Graph,
		ball:   opts.Ball,
		spin:   spin,
	}
}

// Update samples the signal and applies it. It does nothing outside Disco
// or while animation is paused, and reports whether it ran.
func (d *Driver) Update(m mode.Mode, paused bool) bool {
	if m != mode.Disco || paused {
		return false
	}
	var s float64
	if d.signal != nil {
		s = d.signal.AverageFrequency()
	}
	d.last = s

	if d.cones != nil {
		d.cones.SetAngle(ConeAngle(s))
	}

	e := float32(s / 256)
	if d.graph != nil {
		d.graph.Walk(func(n *scenegraph.Node, _ math.Mat4) bool {
			if n.Mesh != nil && n.Mesh.Material == material.Mirror {
				n.Mesh.Emissive = [3]float32{e, e, e}
			}
			return true
		})
	}

	if d.ball != nil {
		if n, ok := d.ball(); ok {
			n.Transform.Rotation.Y += d.spin
		}
	}
	return true
}

// Last returns the most recently applied signal.
func (d *Driver) Last() float64 { return d.last }

// ConeAngle maps a signal to a cone half-angle in radians.
func ConeAngle(s float64) float32 {
	return math.DegToRad(float32(BaseAngle + s/10))
}
