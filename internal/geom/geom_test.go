package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleConversion(t *testing.T) {
	assert.InDelta(t, math.Pi, Radians(180), 1e-12)
	assert.InDelta(t, 90.0, Degrees(math.Pi/2), 1e-12)
	assert.InDelta(t, 45.0, Degrees(Radians(45)), 1e-12)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 45, "45"},
		{"zero", 0, "0"},
		{"negative", -9.81, "-9.81"},
		{"small", 0.002, "0.002"},
		{"truncates to four digits", 30.963756, "30.96"},
		{"rounds", 1.23456, "1.235"},
		{"large switches to exponent", 123456, "1.235e+05"},
		{"trailing zeros dropped", 1.5, "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestFormatVec(t *testing.T) {
	assert.Equal(t, "1 2 0", FormatVec3([3]float64{1, 2, 0}))
	assert.Equal(t, "0 0 -9.81", FormatVec3([3]float64{0, 0, -9.81}))
	assert.Equal(t, "2.5 2.5", FormatVec2([2]float64{2.5, 2.5}))
	assert.Equal(t, "", FormatVec(nil))
}

func TestLookAtEuler(t *testing.T) {
	tests := []struct {
		name      string
		pos       [3]float64
		target    [3]float64
		wantPitch float64
		wantYaw   float64
	}{
		{"straight down +x", [3]float64{0, 0, 0}, [3]float64{1, 0, 0}, 0, 0},
		{"straight down +y", [3]float64{0, 0, 0}, [3]float64{0, 1, 0}, 0, 90},
		{"behind", [3]float64{0, 0, 0}, [3]float64{-1, 0, 0}, 0, 180},
		{"looking down", [3]float64{0, 0, 5}, [3]float64{1, 0, 5 - 1}, 45, 0},
		{"looking up", [3]float64{0, 0, 0}, [3]float64{1, 0, 1}, -45, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roll, pitch, yaw := LookAtEuler(tt.pos, tt.target)
			assert.Zero(t, roll)
			assert.InDelta(t, tt.wantPitch, pitch, 1e-9)
			assert.InDelta(t, tt.wantYaw, yaw, 1e-9)
		})
	}
}

func TestLookAtEulerOverheadTarget(t *testing.T) {
	// Target directly above: no horizontal component, pitch saturates.
	roll, pitch, yaw := LookAtEuler([3]float64{0, 0, 0}, [3]float64{0, 0, 3})
	assert.Zero(t, roll)
	assert.InDelta(t, -90.0, pitch, 1e-9)
	assert.InDelta(t, 0.0, yaw, 1e-9)
}
