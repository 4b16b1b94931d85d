package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mjscene/internal/ir"
)

func TestSuggestGrid(t *testing.T) {
	t.Run("exact capacity", func(t *testing.T) {
		grid := SuggestGrid(6, ir.Vec3{0, 0, 0}, 3, ir.Vec2{1, 1}, 0)
		assert.Equal(t, 2, grid.Rows)
		assert.Equal(t, 3, grid.Cols)
	})

	t.Run("capacity may overshoot the count", func(t *testing.T) {
		grid := SuggestGrid(6, ir.Vec3{0, 0, 0}, 5, ir.Vec2{1, 1}, 0)
		assert.Equal(t, 2, grid.Rows)
		assert.Equal(t, 5, grid.Cols)

		instances, err := Expand(&ir.ObjectSpec{AssetID: "x", Layout: grid}, 1)
		require.NoError(t, err)
		assert.Len(t, instances, 10, "a suggested grid fills every slot")
	})

	t.Run("defaults", func(t *testing.T) {
		grid := SuggestGrid(0, ir.Vec3{1, 2, 3}, 0, ir.Vec2{}, 5)
		assert.Equal(t, 1, grid.Rows)
		assert.Equal(t, 1, grid.Cols)
		assert.Equal(t, ir.Vec2{1, 1}, grid.Spacing)
		assert.Equal(t, ir.Vec3{1, 2, 3}, grid.Origin)
		assert.Equal(t, 5.0, grid.YawVariationDeg)
	})
}

func TestSuggestRandom(t *testing.T) {
	random := SuggestRandom(12, ir.Vec3{1, 1, 0}, 4, 0.5, true)
	assert.Equal(t, 12, random.Count)
	assert.Equal(t, 4.0, random.Radius)
	assert.Equal(t, 0.5, random.MinSeparation)
	assert.True(t, random.RandomYaw)

	assert.Equal(t, 1, SuggestRandom(0, ir.Vec3{}, 1, 0, false).Count)
}

func TestSuggestForCount(t *testing.T) {
	t.Run("organized small count gets a grid", func(t *testing.T) {
		l := SuggestForCount(9, ir.Vec3{0, 0, 0}, 6, true)
		grid, ok := l.(*ir.GridLayout)
		require.True(t, ok)
		assert.Equal(t, 3, grid.Rows)
		assert.Equal(t, 3, grid.Cols)
		assert.Equal(t, ir.Vec2{2, 2}, grid.Spacing, "area divided by grid side")
		assert.Equal(t, ir.Vec3{-3, -3, 0}, grid.Origin, "grid anchored at the area corner")
	})

	t.Run("single object grid spacing uses half the area", func(t *testing.T) {
		l := SuggestForCount(1, ir.Vec3{0, 0, 0}, 8, true)
		grid, ok := l.(*ir.GridLayout)
		require.True(t, ok)
		assert.Equal(t, 1, grid.Rows)
		assert.Equal(t, 1, grid.Cols)
		assert.Equal(t, ir.Vec2{4, 4}, grid.Spacing)
	})

	t.Run("disorganized gets a scatter", func(t *testing.T) {
		l := SuggestForCount(4, ir.Vec3{2, 2, 0}, 10, false)
		random, ok := l.(*ir.RandomLayout)
		require.True(t, ok)
		assert.Equal(t, ir.Vec3{2, 2, 0}, random.Center)
		assert.Equal(t, 5.0, random.Radius)
		assert.Equal(t, 1.6, random.MinSeparation, "separation scales inversely with count")
		assert.True(t, random.RandomYaw)
	})

	t.Run("large counts scatter even when organized", func(t *testing.T) {
		l := SuggestForCount(21, ir.Vec3{}, 10, true)
		_, ok := l.(*ir.RandomLayout)
		assert.True(t, ok)
	})

	t.Run("nonpositive area falls back", func(t *testing.T) {
		l := SuggestForCount(4, ir.Vec3{}, 0, false)
		random, ok := l.(*ir.RandomLayout)
		require.True(t, ok)
		assert.Equal(t, 5.0, random.Radius, "default ten meter area")
	})
}
