// Package params holds the chair composition parameters edited from the panel.
package params

// Range is an inclusive numeric bound for a parameter.
type Range struct {
	Min, Max float32
}

// Clamp pulls v into the range.
func (r Range) Clamp(v float32) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Bounds accepted by the engine. The panel may expose a narrower window.
var (
	LegCountRange  = Range{3, 30}
	LegRadiusRange = Range{5, 20}
	LegHeightRange = Range{50, 400}
	LightRange     = Range{-800, 800}
)

// Fixed dimensions.
const (
	SeatRadius = 75
	SeatHeight = 25
	LightY     = 700
)

// Geometry is the mutable configuration every structural placement derives from.
type Geometry struct {
	LegCount  int
	LegRadius float32
	LegHeight float32

	SeatRadius float32
	SeatHeight float32

	ChairBackVisible    bool
	DebugHelpersVisible bool
	AxesVisible         bool
	AnimationPaused     bool

	LightX, LightY, LightZ float32

	FloorMaterial string
	ChairMaterial string
}

// Default returns the stock chair.
func Default() Geometry {
	return Geometry{
		LegCount:         3,
		LegRadius:        10,
		LegHeight:        250,
		SeatRadius:       SeatRadius,
		SeatHeight:       SeatHeight,
		ChairBackVisible: true,
		LightX:           500,
		LightY:           LightY,
		LightZ:           0,
		FloorMaterial:    "Planks",
		ChairMaterial:    "Black Leather",
	}
}

// Clamp returns a copy with every numeric field pulled into range
// and the fixed dimensions restored.
func (g Geometry) Clamp() Geometry {
	g.LegCount = int(LegCountRange.Clamp(float32(g.LegCount)))
	g.LegRadius = LegRadiusRange.Clamp(g.LegRadius)
	g.LegHeight = LegHeightRange.Clamp(g.LegHeight)
	g.LightX = LightRange.Clamp(g.LightX)
	g.LightZ = LightRange.Clamp(g.LightZ)
	g.SeatRadius = SeatRadius
	g.SeatHeight = SeatHeight
	g.LightY = LightY
	return g
}

// FloorY is the height of the floor's centre under the legs.
func (g Geometry) FloorY() float32 {
	return -g.LegHeight
}
