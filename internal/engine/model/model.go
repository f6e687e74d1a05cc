// Package model loads animated models asynchronously and places them in the
// scene graph once they arrive.
package model

import (
	"context"
	"errors"
	"time"

	"github.com/Faultbox/showroom/internal/engine/scenegraph"
	"github.com/Faultbox/showroom/pkg/math"
)

// ErrNoSuchClip is returned for an animation index the asset does not have.
var ErrNoSuchClip = errors.New("model: no such clip")

// Declaration describes a model to load and where to put it.
type Declaration struct {
	Name     string
	Path     string
	Position math.Vec3
	// Rotation is in degrees.
	Rotation math.Vec3
	Scale    float32
	// Animation is the clip started on load; nil leaves the model still.
	Animation *int
	// FollowFloor keeps the model's Y at floor level plus FloorOffset.
	FollowFloor bool
	FloorOffset float32
	// Parent defaults to the scene root.
	Parent scenegraph.NodeID
}

// Transform returns the placement described by the declaration.
func (d Declaration) Transform() math.Transform {
	t := math.At(d.Position)
	t.Rotation = math.EulerDeg(d.Rotation.X, d.Rotation.Y, d.Rotation.Z)
	if d.Scale != 0 {
		t.Scale = math.Vec3{X: d.Scale, Y: d.Scale, Z: d.Scale}
	}
	return t
}

// Asset is a loaded model ready to instantiate.
type Asset struct {
	Root  *scenegraph.Prefab
	Clips []Clip
}

// Loader reads an asset. Implementations must honour ctx cancellation.
type Loader interface {
	Load(ctx context.Context, path string) (*Asset, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, path string) (*Asset, error)

func (f LoaderFunc) Load(ctx context.Context, path string) (*Asset, error) { return f(ctx, path) }

// Key is a value at a point in a clip.
type Key[T any] struct {
	At    time.Duration
	Value T
}

// Track animates one named node.
type Track struct {
	Target   string
	Position []Key[math.Vec3]
	Rotation []Key[math.Quat]
	Scale    []Key[math.Vec3]
}

// Clip is a looping animation.
type Clip struct {
	Name   string
	Length time.Duration
	Tracks []Track
}
