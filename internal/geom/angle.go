package geom

import "math"

// WrapAngle normalizes an angle to the interval [-π, π].
func WrapAngle(rad float64) float64 {
	w := math.Mod(rad+math.Pi, 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	return w - math.Pi
}

// AngleDiff returns the signed shortest rotation from the current heading to
// the wanted heading, wrapped to [-π, π]. Positive means counter-clockwise.
func AngleDiff(cur, want float64) float64 {
	return WrapAngle(want - cur)
}
