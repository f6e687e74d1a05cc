// Package lighting builds the scene's light rigs and packs them for the GPU.
package lighting

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/pkg/math"
)

// Cone half-angles in degrees.
const (
	DefaultSpotAngle = 60
	DiscoBaseAngle   = 35
)

// DefaultPalette is the stock disco colour set.
var DefaultPalette = []uint32{0xffbd00, 0xff0000, 0xe000ff, 0x00fbff, 0x57ff50}

// RGB converts 0xRRGGBB to linear [0,1] channels.
func RGB(hex uint32) [3]float32 {
	return [3]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// Ambient returns the flat fill light.
func Ambient() scenegraph.Light {
	return scenegraph.Light{Kind: scenegraph.LightAmbient, Color: [3]float32{1, 1, 1}, Intensity: 0.5}
}

// MainSpot returns the primary shadow-casting spot light.
func MainSpot(shadowMapSize int) scenegraph.Light {
	return scenegraph.Light{
		Kind:       scenegraph.LightSpot,
		Color:      [3]float32{1, 1, 1},
		Intensity:  1,
		Angle:      math.DegToRad(DefaultSpotAngle),
		Penumbra:   0.1,
		Decay:      1,
		CastShadow: true,
		Shadow:     scenegraph.Shadow{MapSize: shadowMapSize, Near: 100, Far: 2500, Bias: -0.002, Radius: 2},
	}
}

func discoSpot(color uint32, shadowMapSize int) scenegraph.Light {
	l := MainSpot(shadowMapSize)
	l.Color = RGB(color)
	l.Angle = math.DegToRad(DiscoBaseAngle)
	l.Shadow.Near = 500
	return l
}

// Palette hands out colours without replacement. When empty it refills
// from the base set and keeps drawing, so colours repeat only after every
// colour has been used once per cycle.
type Palette struct {
	base      []uint32
	remaining []uint32
	rng       *rand.Rand
	cycles    int
}

// NewPalette creates a palette over colors.
func NewPalette(colors []uint32, rng *rand.Rand) *Palette {
	p := &Palette{base: append([]uint32(nil), colors...), rng: rng}
	p.refill()
	return p
}

func (p *Palette) refill() {
	p.remaining = append(p.remaining[:0], p.base...)
}

// Draw removes and returns a random remaining colour.
func (p *Palette) Draw() uint32 {
	if len(p.base) == 0 {
		return 0xffffff
	}
	if len(p.remaining) == 0 {
		p.cycles++
		logger.Named("lighting").Warn("disco palette exhausted, cycling",
			zap.Int("palette", len(p.base)), zap.Int("cycle", p.cycles))
		p.refill()
	}
	i := p.rng.IntN(len(p.remaining))
	c := p.remaining[i]
	p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
	return c
}

// Cycles reports how many times the palette has been refilled.
func (p *Palette) Cycles() int { return p.cycles }

// DiscoOptions configures the disco rig.
type DiscoOptions struct {
	Count         int
	Palette       []uint32
	OffsetX       float32
	ShadowMapSize int
	Rand          *rand.Rand
}

// DiscoRig is the group of coloured spot lights used in Disco mode.
// It is built once and only ever attached or detached.
type DiscoRig struct {
	group  scenegraph.NodeID
	lights []scenegraph.NodeID
	graph  *scenegraph.Graph
}

// BuildDiscoRig creates the disco group under the root, detached.
func BuildDiscoRig(g *scenegraph.Graph, opts DiscoOptions) *DiscoRig {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	colors := opts.Palette
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	pal := NewPalette(colors, rng)

	group := scenegraph.NewGroup("disco-lights")
	group.Transform.Position.X = opts.OffsetX
	rig := &DiscoRig{graph: g, group: g.Add(g.Root(), group)}

	for i := 0; i < opts.Count; i++ {
		pos := math.Vec3{
			X: float32(rng.IntN(2001) - 1000),
			Y: 800,
			Z: float32(rng.IntN(2001) - 1000),
		}
		id := g.Add(rig.group, scenegraph.NewLight("disco-light", discoSpot(pal.Draw(), opts.ShadowMapSize), pos))
		rig.lights = append(rig.lights, id)
	}
	g.Detach(rig.group)
	return rig
}

// Group returns the rig's group node.
func (r *DiscoRig) Group() scenegraph.NodeID { return r.group }

// Lights returns the light node identities.
func (r *DiscoRig) Lights() []scenegraph.NodeID {
	return append([]scenegraph.NodeID(nil), r.lights...)
}

// SetAngle sets every light's cone half-angle in radians.
func (r *DiscoRig) SetAngle(rad float32) {
	for _, id := range r.lights {
		if n, ok := r.graph.Get(id); ok && n.Light != nil {
			n.Light.Angle = rad
		}
	}
}

// Colors returns each light's colour.
func (r *DiscoRig) Colors() [][3]float32 {
	out := make([][3]float32, 0, len(r.lights))
	for _, id := range r.lights {
		if n, ok := r.graph.Get(id); ok && n.Light != nil {
			out = append(out, n.Light.Color)
		}
	}
	return out
}
