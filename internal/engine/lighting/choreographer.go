package lighting

import (
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/showroom/internal/engine/tween"
	"github.com/Faultbox/showroom/pkg/math"
)

// Movement bounds for disco lights, in the rig's local space.
var (
	MoveMin = math.Vec3{X: -400, Y: 600, Z: -600}
	MoveMax = math.Vec3{X: 800, Y: 1000, Z: 600}
)

// ChoreographyOptions configures light movement.
type ChoreographyOptions struct {
	Interval time.Duration
	MinMove  time.Duration
	MaxMove  time.Duration
	Rand     *rand.Rand
}

// Choreographer sends disco lights to new random spots on a fixed beat.
type Choreographer struct {
	rig    *DiscoRig
	tweens *tween.Group
	opts   ChoreographyOptions
	rng    *rand.Rand
	acc    time.Duration
}

// NewChoreographer schedules moves for rig's lights into tweens.
func NewChoreographer(rig *DiscoRig, tweens *tween.Group, opts ChoreographyOptions) *Choreographer {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxMove < opts.MinMove {
		opts.MaxMove = opts.MinMove
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Choreographer{rig: rig, tweens: tweens, opts: opts, rng: rng}
}

// Update advances the beat clock. Each elapsed beat starts a new move for
// every light, but only while active. The clock keeps ticking when inactive.
func (c *Choreographer) Update(dt time.Duration, active bool) int {
	c.acc += dt
	started := 0
	for c.acc >= c.opts.Interval {
		c.acc -= c.opts.Interval
		if active {
			started += c.moveAll()
		}
	}
	return started
}

func (c *Choreographer) moveAll() int {
	n := 0
	for _, id := range c.rig.lights {
		node, ok := c.rig.graph.Get(id)
		if !ok {
			continue
		}
		c.tweens.Start(id, &tween.Tween{
			From:     node.Transform.Position,
			To:       c.randomTarget(),
			Duration: c.randomDuration(),
			Ease:     ease.OutQuad,
			Set:      func(v math.Vec3) { node.Transform.Position = v },
		})
		n++
	}
	return n
}

func (c *Choreographer) randomTarget() math.Vec3 {
	lerp := func(lo, hi float32) float32 { return lo + c.rng.Float32()*(hi-lo) }
	return math.Vec3{
		X: lerp(MoveMin.X, MoveMax.X),
		Y: lerp(MoveMin.Y, MoveMax.Y),
		Z: lerp(MoveMin.Z, MoveMax.Z),
	}
}

func (c *Choreographer) randomDuration() time.Duration {
	span := c.opts.MaxMove - c.opts.MinMove
	if span <= 0 {
		return c.opts.MinMove
	}
	return c.opts.MinMove + time.Duration(c.rng.Int64N(int64(span)))
}
