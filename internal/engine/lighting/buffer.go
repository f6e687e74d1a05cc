package lighting

import (
	stdmath "math"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// MaxSpotLights is the number of spot lights the shader accepts.
const MaxSpotLights = 8

// SpotLight is a spot light flattened to world space for GPU upload.
type SpotLight struct {
	Position  [3]float32
	Direction [3]float32
	Color     [3]float32
	Intensity float32
	// CosInner and CosOuter bound the penumbra falloff.
	CosInner   float32
	CosOuter   float32
	CastShadow bool
	Shadow     scenegraph.Shadow
	Node       scenegraph.NodeID
}

// LightBuffer holds the lights gathered from the scene each frame.
type LightBuffer struct {
	Spots   []SpotLight
	Ambient [3]float32
}

// NewLightBuffer creates an empty buffer.
func NewLightBuffer() *LightBuffer {
	return &LightBuffer{Spots: make([]SpotLight, 0, MaxSpotLights)}
}

// Clear removes every light.
func (b *LightBuffer) Clear() {
	b.Spots = b.Spots[:0]
	b.Ambient = [3]float32{}
}

// AddSpot appends a light, returning false when the buffer is full.
func (b *LightBuffer) AddSpot(l SpotLight) bool {
	if len(b.Spots) >= MaxSpotLights {
		return false
	}
	b.Spots = append(b.Spots, l)
	return true
}

// Collect gathers every light reachable from the root. Detached rigs
// contribute nothing. It returns the number of spots that did not fit.
func (b *LightBuffer) Collect(g *scenegraph.Graph) int {
	b.Clear()
	dropped := 0
	g.Walk(func(n *scenegraph.Node, world math.Mat4) bool {
		if !n.Visible {
			return false
		}
		if n.Light == nil {
			return true
		}
		switch n.Light.Kind {
		case scenegraph.LightAmbient:
			for i := range b.Ambient {
				b.Ambient[i] += n.Light.Color[i] * n.Light.Intensity
			}
		case scenegraph.LightSpot:
			if !b.AddSpot(flatten(n, world)) {
				dropped++
			}
		}
		return true
	})
	return dropped
}

func flatten(n *scenegraph.Node, world math.Mat4) SpotLight {
	l := n.Light
	pos := world.Translation()
	dir := l.Target.Sub(pos).Normalize()
	outer := float64(l.Angle)
	inner := outer * float64(1-l.Penumbra)
	return SpotLight{
		Position:   pos.Array(),
		Direction:  dir.Array(),
		Color:      l.Color,
		Intensity:  l.Intensity,
		CosInner:   float32(stdmath.Cos(inner)),
		CosOuter:   float32(stdmath.Cos(outer)),
		CastShadow: l.CastShadow,
		Shadow:     l.Shadow,
		Node:       n.ID(),
	}
}

// Positions returns positions as a flat, fixed-size slice for GPU upload.
func (b *LightBuffer) Positions() []float32 {
	return b.pack3(func(l SpotLight) [3]float32 { return l.Position })
}

// Directions returns directions as a flat, fixed-size slice.
func (b *LightBuffer) Directions() []float32 {
	return b.pack3(func(l SpotLight) [3]float32 { return l.Direction })
}

// Colors returns intensity-scaled colours as a flat, fixed-size slice.
func (b *LightBuffer) Colors() []float32 {
	return b.pack3(func(l SpotLight) [3]float32 {
		return [3]float32{l.Color[0] * l.Intensity, l.Color[1] * l.Intensity, l.Color[2] * l.Intensity}
	})
}

// Cones returns (cosInner, cosOuter) pairs as a flat, fixed-size slice.
func (b *LightBuffer) Cones() []float32 {
	out := make([]float32, MaxSpotLights*2)
	for i, l := range b.Spots {
		out[i*2] = l.CosInner
		out[i*2+1] = l.CosOuter
	}
	return out
}

func (b *LightBuffer) pack3(get func(SpotLight) [3]float32) []float32 {
	out := make([]float32, MaxSpotLights*3)
	for i, l := range b.Spots {
		v := get(l)
		copy(out[i*3:], v[:])
	}
	return out
}

// ShadowCaster returns the first shadow-casting spot, if any.
func (b *LightBuffer) ShadowCaster() (SpotLight, bool) {
	for _, l := range b.Spots {
		if l.CastShadow {
			return l, true
		}
	}
	return SpotLight{}, false
}
