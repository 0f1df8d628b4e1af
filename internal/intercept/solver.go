// Package intercept computes aim points for a constant-speed projectile
// against a moving target, ignoring drag and gravity. All geometry is
// stateless and expressed relative to the shooter: p is the target's
// relative position, v its relative velocity.
package intercept

import (
	"errors"
	"math"

	"github.com/arclight-sim/arclight/internal/geom"
)

// ErrNoSolution is the failure sentinel for intercept geometry with a
// negative discriminant or no positive root. Callers must fall back to
// LinearLead rather than aiming at the target's current position.
var ErrNoSolution = errors.New("intercept: no solution")

// maxIterations bounds the fixed-point refinement in Iterate.
const maxIterations = 16

// machineEpsilon is the float64 ulp of 1.0, the early-exit threshold for
// consecutive fixed-point estimates.
var machineEpsilon = math.Nextafter(1, 2) - 1

// SmallestPositiveRoot solves a·t² + b·t + c = 0 and returns the earliest
// positive root. If both roots are positive the smaller wins; if neither is,
// or the discriminant is negative, ok is false.
func SmallestPositiveRoot(a, b, c float64) (t float64, ok bool) {
	if a == 0 {
		// Degenerate linear case: target speed equals projectile speed.
		if b == 0 {
			return 0, false
		}
		if t := -c / b; t > 0 {
			return t, true
		}
		return 0, false
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}

	s := math.Sqrt(disc)
	x1 := (-b - s) / (2 * a)
	x2 := (-b + s) / (2 * a)
	switch {
	case x1 > 0 && x2 > 0:
		return math.Min(x1, x2), true
	case x1 > 0:
		return x1, true
	case x2 > 0:
		return x2, true
	}
	return 0, false
}

// Solve computes the first-hit aim point in closed form. The flight time
// satisfies |p + t·v| = s·t, i.e. a·t² + b·t + c = 0 with a = v·v − s²,
// b = 2(p·v), c = p·p.
func Solve(p, v geom.Vec2, speed float64) (geom.Vec2, error) {
	a := v.Dot(v) - speed*speed
	b := 2 * p.Dot(v)
	c := p.Dot(p)

	t, ok := SmallestPositiveRoot(a, b, c)
	if !ok {
		return geom.Vec2{}, ErrNoSolution
	}
	return p.Add(v.Scale(t)), nil
}

// SolvePerTick is the closed form with the target velocity in per-tick units
// and the projectile speed quantized to whole per-tick steps, matching a
// loop that only re-evaluates once per tick.
func SolvePerTick(p, v geom.Vec2, speed, tps float64) (geom.Vec2, error) {
	return Solve(p, v.Scale(1/tps), math.Ceil(speed/tps))
}

// LinearLead is the first-order fallback used when the quadratic has no
// intercept: p + v_per_tick · |p| / ceil(s_per_tick).
func LinearLead(p, v geom.Vec2, speed, tps float64) geom.Vec2 {
	vPerTick := v.Scale(1 / tps)
	return p.Add(vPerTick.Scale(p.Len() / math.Ceil(speed/tps)))
}

// Lead is the caller-facing aim-point operation: the closed form, degrading
// to the linear lead when no intercept exists. It never fails.
func Lead(p, v geom.Vec2, speed, tps float64) geom.Vec2 {
	aim, err := Solve(p, v, speed)
	if err != nil {
		return LinearLead(p, v, speed, tps)
	}
	return aim
}

// Iterate refines the flight time by fixed-point iteration t ← |p + t·v| / s,
// seeded at t = 0 and bounded to maxIterations, exiting early once
// consecutive estimates differ by less than machine epsilon. It agrees with
// Solve away from degenerate cases and serves as a cross-check, not the
// primary path.
func Iterate(p, v geom.Vec2, speed float64) geom.Vec2 {
	var t float64
	for i := 0; i < maxIterations; i++ {
		old := t
		t = p.Add(v.Scale(t)).Len() / speed
		if math.Abs(t-old) < machineEpsilon {
			break
		}
	}
	return p.Add(v.Scale(t))
}
