package reactive

import (
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/mode"
	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

type constSignal float64

func (c constSignal) AverageFrequency() float64 { return float64(c) }

type cones struct {
	angle float32
	calls int
}

func (c *cones) SetAngle(rad float32) { c.angle = rad; c.calls++ }

func setup(s float64) (*Driver, *cones, *scenegraph.Graph, scenegraph.NodeID) {
	g := scenegraph.New()
	ball := g.Add(g.Root(), scenegraph.NewMesh("ball", scenegraph.Mesh{Material: material.Mirror}, math.NewTransform()))
	c := &cones{}
	d := New(Options{
		Signal: constSignal(s),
		Cones:  c,
		Graph:  g,
		Ball:   func() (*scenegraph.Node, bool) { return g.Get(ball) },
	})
	return d, c, g, ball
}

func TestUpdateInDisco(t *testing.T) {
	d, c, g, ball := setup(128)

	require.True(t, d.Update(mode.Disco, false))
	assert.InDelta(t, 47.8, float64(c.angle)*180/stdmath.Pi, 1e-4)

	n, _ := g.Get(ball)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, n.Mesh.Emissive)
	assert.InDelta(t, DefaultSpin, n.Transform.Rotation.Y, 1e-7)
	assert.Equal(t, 128.0, d.Last())

	d.Update(mode.Disco, false)
	assert.InDelta(t, 2*DefaultSpin, n.Transform.Rotation.Y, 1e-7)
}

func TestUpdateSkipped(t *testing.T) {
	tests := []struct {
		name   string
		mode   mode.Mode
		paused bool
	}{
		{"normal", mode.Normal, false},
		{"normal paused", mode.Normal, true},
		{"disco paused", mode.Disco, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c, g, ball := setup(200)
			assert.False(t, d.Update(tt.mode, tt.paused))
			assert.Zero(t, c.calls)
			n, _ := g.Get(ball)
			assert.Equal(t, [3]float32{}, n.Mesh.Emissive)
			assert.Zero(t, n.Transform.Rotation.Y)
		})
	}
}

func TestConeAngleRange(t *testing.T) {
	assert.InDelta(t, 35*stdmath.Pi/180, ConeAngle(0), 1e-6)
	assert.InDelta(t, 60.6*stdmath.Pi/180, ConeAngle(256), 1e-6)
}

func TestMissingCollaborators(t *testing.T) {
	d := New(Options{})
	assert.True(t, d.Update(mode.Disco, false))
	assert.Zero(t, d.Last())
}
