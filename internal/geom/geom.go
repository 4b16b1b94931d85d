// Package geom holds the small pure geometry helpers shared by the
// layout and document stages: angle conversion, look-at orientation,
// and the fixed-precision numeric formatting that keeps serialized
// output stable across runs.
package geom

import (
	"fmt"
	"math"
	"strings"
)

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// FormatFloat renders v with at most four significant digits, trailing
// zeros removed. Every numeric attribute in a compiled document goes
// through this one formatter so output stays diffable.
func FormatFloat(v float64) string {
	return fmt.Sprintf("%.4g", v)
}

// FormatVec renders a vector as space-separated FormatFloat components.
func FormatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = FormatFloat(c)
	}
	return strings.Join(parts, " ")
}

// FormatVec3 is FormatVec for fixed 3-vectors.
func FormatVec3(v [3]float64) string {
	return FormatVec(v[:])
}

// FormatVec2 is FormatVec for fixed 2-vectors.
func FormatVec2(v [2]float64) string {
	return FormatVec(v[:])
}

// LookAtEuler computes the orientation that aims an observer at
// position toward target. Angles are degrees in (roll, pitch, yaw)
// order; roll is always zero. Pitch is negated: looking below the
// horizon is a positive downward pitch in the document convention.
func LookAtEuler(position, target [3]float64) (roll, pitch, yaw float64) {
	dx := target[0] - position[0]
	dy := target[1] - position[1]
	dz := target[2] - position[2]

	yaw = Degrees(math.Atan2(dy, dx))
	horizontal := math.Sqrt(dx*dx + dy*dy)
	pitch = -Degrees(math.Atan2(dz, horizontal))
	return 0, pitch, yaw
}
