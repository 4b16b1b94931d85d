// Package layout expands placement intents (grid, random scatter,
// explicit instance lists) into concrete, ordered instance lists.
//
// Expansion is deterministic: each object draws from a fresh source
// seeded with the scene seed, so sibling objects cannot perturb each
// other's streams and reordering objects never changes their
// placements.
package layout

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/roach88/mjscene/internal/ir"
)

// DefaultMaxAttempts bounds how many draws a random layout spends
// trying to satisfy min_separation for one point.
const DefaultMaxAttempts = 100

// Engine expands placement intents. The default engine is lenient: a
// min_separation the disk cannot satisfy degrades into accepting the
// last attempted point rather than failing the compile.
type Engine struct {
	maxAttempts      int
	strictSeparation bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxAttempts overrides the per-point draw budget for random
// layouts.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithStrictSeparation makes an unsatisfiable min_separation a
// LayoutError instead of a degraded placement.
func WithStrictSeparation() Option {
	return func(e *Engine) { e.strictSeparation = true }
}

// NewEngine constructs an expansion engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand expands one object's placement with the default lenient
// engine.
func Expand(obj *ir.ObjectSpec, seed int64) ([]ir.InstanceSpec, error) {
	return NewEngine().Expand(obj, seed)
}

// Expand expands one object's placement into its ordered instance
// list. Explicit instances pass through verbatim, including an
// explicitly empty list; an object with neither layout nor instances
// gets a single instance at the origin.
func (e *Engine) Expand(obj *ir.ObjectSpec, seed int64) ([]ir.InstanceSpec, error) {
	if obj.Instances != nil {
		out := make([]ir.InstanceSpec, len(obj.Instances))
		copy(out, obj.Instances)
		return out, nil
	}
	if obj.Layout == nil {
		return []ir.InstanceSpec{{}}, nil
	}

	rng := rand.New(rand.NewSource(seed))
	switch l := obj.Layout.(type) {
	case *ir.GridLayout:
		return expandGrid(l, rng), nil
	case *ir.RandomLayout:
		return e.expandRandom(l, rng)
	default:
		return nil, fmt.Errorf("unsupported layout kind %T", obj.Layout)
	}
}

// expandGrid walks rows then columns; iteration order is instance
// order. Yaw is drawn per instance only when variation is enabled, so
// a zero-variation grid consumes no randomness at all.
func expandGrid(l *ir.GridLayout, rng *rand.Rand) []ir.InstanceSpec {
	out := make([]ir.InstanceSpec, 0, l.Rows*l.Cols)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			x := l.Origin[0] + float64(col)*l.Spacing[0]
			y := l.Origin[1] + float64(row)*l.Spacing[1]
			z := l.Origin[2]

			yaw := 0.0
			if l.YawVariationDeg > 0 {
				yaw = rng.Float64()*2*l.YawVariationDeg - l.YawVariationDeg
			}
			out = append(out, ir.InstanceSpec{
				Pose:       ir.Pose{Position: ir.Vec3{x, y, z}, YawDeg: yaw},
				NameSuffix: fmt.Sprintf("r%d_c%d", row, col),
			})
		}
	}
	return out
}

type point struct{ x, y float64 }

func tooClose(placed []point, x, y, minSep float64) bool {
	for _, p := range placed {
		if math.Hypot(x-p.x, y-p.y) < minSep {
			return true
		}
	}
	return false
}

// expandRandom draws area-uniform points in the disk (radius scaled by
// the square root of a uniform draw). When the attempt budget for one
// point runs out, the lenient engine keeps the last draw but leaves it
// out of the separation set, so one crowded point cannot poison the
// remaining draws.
func (e *Engine) expandRandom(l *ir.RandomLayout, rng *rand.Rand) ([]ir.InstanceSpec, error) {
	out := make([]ir.InstanceSpec, 0, l.Count)
	var placed []point

	for i := 0; i < l.Count; i++ {
		var x, y float64
		accepted := false
		for attempt := 0; attempt < e.maxAttempts; attempt++ {
			angle := rng.Float64() * 2 * math.Pi
			r := math.Sqrt(rng.Float64()) * l.Radius
			x = l.Center[0] + r*math.Cos(angle)
			y = l.Center[1] + r*math.Sin(angle)

			if l.MinSeparation > 0 && tooClose(placed, x, y, l.MinSeparation) {
				continue
			}
			placed = append(placed, point{x, y})
			accepted = true
			break
		}
		if !accepted && e.strictSeparation {
			return nil, NewLayoutError(ir.LayoutKindRandom, l.Count, len(out))
		}

		yaw := 0.0
		if l.RandomYaw {
			yaw = rng.Float64() * 360
		}
		out = append(out, ir.InstanceSpec{
			Pose:       ir.Pose{Position: ir.Vec3{x, y, l.Center[2]}, YawDeg: yaw},
			NameSuffix: strconv.Itoa(i),
		})
	}
	return out, nil
}
