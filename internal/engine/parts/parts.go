// Package parts derives every structural part of the chair composition
// from the geometry parameters.
package parts

import (
	"fmt"

	"github.com/Faultbox/showroom/internal/engine/geometry"
	"github.com/Faultbox/showroom/internal/engine/material"
	"github.com/Faultbox/showroom/internal/engine/params"
	"github.com/Faultbox/showroom/pkg/math"
)

// Kind enumerates the structural parts.
type Kind int

const (
	Floor Kind = iota
	Seat
	FootRest
	ChairBack
	ChairBackLegLeft
	ChairBackLegRight
	Leg
	Cable
	DiscoBall
)

var kindNames = [...]string{
	"floor", "seat", "footrest", "chairback", "chairback-leg-left",
	"chairback-leg-right", "leg", "cable", "disco-ball",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ID identifies a part. Index is only meaningful for legs.
type ID struct {
	Kind  Kind
	Index int
}

// LegID returns the identity of leg i.
func LegID(i int) ID { return ID{Kind: Leg, Index: i} }

func (id ID) String() string {
	if id.Kind == Leg {
		return fmt.Sprintf("leg%d", id.Index)
	}
	return id.Kind.String()
}

// Part is one derived mesh placement.
type Part struct {
	ID            ID
	Shape         geometry.Shape
	Material      material.Key
	CastShadow    bool
	ReceiveShadow bool
	Transform     math.Transform
}

// Fixed layout constants.
const (
	FloorRadius   = 1200
	FloorHeight   = 25
	LegTilt       = 10 // degrees outward
	LegOffset     = 50 // along the tilted local X axis
	ChairBackY    = 90
	BackLegY      = 25
	BackLegSpread = 30
	CableRadius   = 2.5
	CableLength   = 1000
	CableY        = 1100
	BallRadius    = 125
	BallY         = 600
)

// Derive returns every part for g, keyed by identity. It is pure.
func Derive(g params.Geometry) map[ID]Part {
	out := make(map[ID]Part, 8+g.LegCount)
	add := func(p Part) { out[p.ID] = p }

	chair := material.Key{Category: material.Leathers, Name: g.ChairMaterial}
	floorMat := material.Key{Category: material.Floors, Name: g.FloorMaterial}

	add(Part{
		ID:            ID{Kind: Floor},
		Shape:         geometry.Cylinder(FloorRadius, FloorRadius, FloorHeight, 64),
		Material:      floorMat,
		ReceiveShadow: true,
		Transform:     math.At(math.Vec3{Y: -g.LegHeight}),
	})

	add(solid(ID{Kind: Seat}, geometry.Cylinder(g.SeatRadius, g.SeatRadius, g.SeatHeight, 32), chair, math.NewTransform()))

	foot := math.At(math.Vec3{Y: -g.LegHeight / 2})
	foot.Rotation = math.EulerDeg(90, 0, 0)
	add(solid(ID{Kind: FootRest}, geometry.Torus(g.SeatRadius*0.7, g.LegRadius/2, 16, 100), chair, foot))

	if g.ChairBackVisible {
		backX := -g.SeatRadius * 0.75
		back := math.At(math.Vec3{X: backX, Y: ChairBackY})
		back.Rotation = math.EulerDeg(0, 0, 90)
		add(solid(ID{Kind: ChairBack}, geometry.Cylinder(g.SeatRadius*0.8, g.SeatRadius*0.8, 16, 32), chair, back))

		backLeg := geometry.Cylinder(g.LegRadius/2, g.LegRadius/2, g.LegHeight/4, 32)
		add(solid(ID{Kind: ChairBackLegLeft}, backLeg, material.Metal, math.At(math.Vec3{X: backX, Y: BackLegY, Z: BackLegSpread})))
		add(solid(ID{Kind: ChairBackLegRight}, backLeg, material.Metal, math.At(math.Vec3{X: backX, Y: BackLegY, Z: -BackLegSpread})))
	}

	legShape := geometry.Cylinder(g.LegRadius, g.LegRadius/2, g.LegHeight, 32)
	for i := 0; i < g.LegCount; i++ {
		add(solid(LegID(i), legShape, material.Metal, LegTransform(g, i)))
	}

	add(solid(ID{Kind: Cable}, geometry.Cylinder(CableRadius, CableRadius, CableLength, 32), material.Cable, math.At(math.Vec3{Y: CableY})))
	add(solid(ID{Kind: DiscoBall}, geometry.Sphere(BallRadius, 18, 9), material.Mirror, math.At(math.Vec3{Y: BallY})))

	return out
}

// LegTransform places leg i: spun about Y by its share of the circle,
// tilted outward, then pushed out along its own X axis.
func LegTransform(g params.Geometry, i int) math.Transform {
	t := math.At(math.Vec3{Y: -g.LegHeight / 2})
	t.Rotation = math.EulerDeg(0, 360/float32(g.LegCount)*float32(i+1), LegTilt)
	return t.TranslateLocal(math.Vec3{X: LegOffset})
}

func solid(id ID, s geometry.Shape, mat material.Key, t math.Transform) Part {
	return Part{ID: id, Shape: s, Material: mat, CastShadow: true, ReceiveShadow: true, Transform: t}
}

// Keys returns the identities in a derived set.
func Keys(set map[ID]Part) map[ID]struct{} {
	out := make(map[ID]struct{}, len(set))
	for id := range set {
		out[id] = struct{}{}
	}
	return out
}

// ChairParts reports whether a part takes the chair material.
func ChairParts(id ID) bool {
	switch id.Kind {
	case Seat, FootRest, ChairBack:
		return true
	}
	return false
}
