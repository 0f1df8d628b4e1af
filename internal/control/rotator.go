// Package control maps heading error and angular velocity to actuation
// commands with critically-damped convergence.
package control

import (
	"math"

	"github.com/arclight-sim/arclight/internal/config"
)

// Mode labels the controller band derived from the current error magnitude.
// The sequence over a closing engagement is coarse-turn, then fine-hold,
// then rate-hold; no persistent state is carried between calls.
type Mode string

const (
	ModeCoarse Mode = "coarse-turn"
	ModeFine   Mode = "fine-hold"
	ModeHold   Mode = "rate-hold"
)

// DefaultHoldTolerance is the heading error below which the controller
// switches from an acceleration command to a direct rate command, killing
// residual jitter immediately before firing.
const DefaultHoldTolerance = 0.01

// Accel returns the commanded angular acceleration k·e − 2·√k·ω for a
// unit-inertia rotational system. The damping term makes convergence
// critically damped: larger k converges faster but saturates actuation
// sooner.
func Accel(gain, headingErr, angVel float64) float64 {
	return gain*headingErr - 2*math.Sqrt(gain)*angVel
}

// Command is one tick's rotational actuation decision.
type Command struct {
	Mode Mode

	// Torque is the commanded angular acceleration. Valid unless UseRate.
	Torque float64

	// Rate is the commanded angular rate, issued instead of Torque when
	// UseRate is set (hold mode only).
	Rate    float64
	UseRate bool

	// FireEligible reports angular convergence: |e| within tolerance.
	FireEligible bool
}

// Rotator selects gains by error band. A low coarse gain avoids actuator
// saturation on large turns; the high fine gain pins the heading once the
// error is small.
type Rotator struct {
	CoarseGain    float64
	FineGain      float64
	Tolerance     float64
	HoldTolerance float64
}

// RotatorFromTuning derives a Rotator from a Tuning.
func RotatorFromTuning(t *config.Tuning) Rotator {
	return Rotator{
		CoarseGain:    t.GetCoarseTurnGain(),
		FineGain:      t.GetFineTurnGain(),
		Tolerance:     t.GetAimToleranceRad(),
		HoldTolerance: DefaultHoldTolerance,
	}
}

// Steer derives the mode from the current error magnitude and returns the
// actuation command. headingErr must already be wrapped to [-π, π].
func (r Rotator) Steer(headingErr, angVel float64) Command {
	abs := math.Abs(headingErr)
	switch {
	case abs > r.Tolerance:
		return Command{
			Mode:   ModeCoarse,
			Torque: Accel(r.CoarseGain, headingErr, angVel),
		}
	case abs > r.HoldTolerance:
		return Command{
			Mode:         ModeFine,
			Torque:       Accel(r.FineGain, headingErr, angVel),
			FireEligible: true,
		}
	default:
		// Direct rate command on the critically damped sliding surface
		// ω = √k·e: residual error decays exponentially with no
		// acceleration jitter left before firing.
		return Command{
			Mode:         ModeHold,
			Rate:         math.Sqrt(r.FineGain) * headingErr,
			UseRate:      true,
			FireEligible: true,
		}
	}
}

// FireGate reports whether the trigger may be pulled: angular convergence
// plus an optional range tolerance. maxRange <= 0 disables the range check.
func FireGate(cmd Command, dist, maxRange float64) bool {
	if !cmd.FireEligible {
		return false
	}
	return maxRange <= 0 || dist < maxRange
}
