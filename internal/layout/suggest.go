package layout

import (
	"math"

	"github.com/roach88/mjscene/internal/ir"
)

// SuggestGrid proposes a grid for count objects: columns capped at
// maxPerRow, rows as needed to cover the count. Non-positive maxPerRow
// falls back to 5, a zero spacing to one meter each way.
func SuggestGrid(count int, origin ir.Vec3, maxPerRow int, spacing ir.Vec2, yawVariationDeg float64) *ir.GridLayout {
	if count < 1 {
		count = 1
	}
	if maxPerRow < 1 {
		maxPerRow = 5
	}
	if spacing == (ir.Vec2{}) {
		spacing = ir.Vec2{1, 1}
	}
	cols := count
	if cols > maxPerRow {
		cols = maxPerRow
	}
	rows := (count + cols - 1) / cols
	return &ir.GridLayout{
		Origin:          origin,
		Rows:            rows,
		Cols:            cols,
		Spacing:         spacing,
		YawVariationDeg: yawVariationDeg,
	}
}

// SuggestRandom proposes a circular scatter.
func SuggestRandom(count int, center ir.Vec3, radius, minSeparation float64, randomYaw bool) *ir.RandomLayout {
	if count < 1 {
		count = 1
	}
	return &ir.RandomLayout{
		Center:        center,
		Radius:        radius,
		Count:         count,
		MinSeparation: minSeparation,
		RandomYaw:     randomYaw,
	}
}

// SuggestForCount picks a layout for count objects in a square area
// areaSize meters across: a near-square grid when organization is
// wanted and the count is small, otherwise a scatter whose separation
// shrinks as the count grows.
func SuggestForCount(count int, center ir.Vec3, areaSize float64, organized bool) ir.Layout {
	if count < 1 {
		count = 1
	}
	if areaSize <= 0 {
		areaSize = 10
	}

	if organized && count <= 20 {
		side := int(math.Ceil(math.Sqrt(float64(count))))
		den := side
		if den < 2 {
			den = 2
		}
		spacing := areaSize / float64(den)
		origin := ir.Vec3{center[0] - areaSize/2, center[1] - areaSize/2, center[2]}
		return SuggestGrid(count, origin, side, ir.Vec2{spacing, spacing}, 0)
	}

	minSep := areaSize / float64(count+1) * 0.8
	return SuggestRandom(count, center, areaSize/2, minSep, true)
}
