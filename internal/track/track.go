// Package track converts sparse directional-sensor plots into persistent,
// identity-tagged tracks. The Tracker owns the track arena and performs plot
// association, lifecycle management, and nearest-target queries; each Track
// carries a kinematic estimate, a classification, and its association gate.
package track

import (
	"math"

	"github.com/arclight-sim/arclight/internal/geom"
)

// Class is the classification applied to a track.
type Class string

const (
	ClassTentative Class = "tentative" // new track, identity unresolved
	ClassFriend    Class = "friend"
	ClassFoe       Class = "foe"
	ClassMunition  Class = "munition"
)

// MaxSpeedHistoryLength bounds the per-track speed samples kept for
// percentile computation.
const MaxSpeedHistoryLength = 100

// Plot is one instantaneous sensor measurement for an unidentified contact.
// Plots are transient: each is consumed into an existing track or used to
// spawn one.
type Plot struct {
	Position geom.Vec2
	Velocity geom.Vec2
	SNR      float64 // reported signal quality, dB
	Tick     uint64  // tick the measurement was taken
}

// Track is the persistent kinematic estimate of another agent, built from
// intermittent plots. Tracks are owned by the Tracker arena and referenced
// elsewhere only by id.
type Track struct {
	ID       uint64
	Position geom.Vec2
	Velocity geom.Vec2
	Class    Class
	Gate     Gate

	FirstContactTick uint64
	LastContactTick  uint64
	ObservationCount int

	// pending holds plots queued for the next update. The sensor contract
	// yields at most one plot per tick, so the queue normally holds a
	// single entry.
	pending []Plot

	// speedHistory keeps recent speed samples for percentile computation.
	speedHistory []float64

	// kf is non-nil when the constant-velocity Kalman estimator is
	// configured instead of the differencing smoother.
	kf *CVFilter
}

// Heading returns the track's course in radians, derived from the velocity
// estimate.
func (t *Track) Heading() float64 {
	return math.Atan2(t.Velocity.Y, t.Velocity.X)
}

// Speed returns the current speed magnitude for the track.
func (t *Track) Speed() float64 {
	return t.Velocity.Len()
}

// DistanceFrom returns the Euclidean distance from the track's position
// estimate to point.
func (t *Track) DistanceFrom(point geom.Vec2) float64 {
	return t.Position.Sub(point).Len()
}

// TicksSinceContact returns how many ticks have elapsed at now since the
// track last matched a plot.
func (t *Track) TicksSinceContact(now uint64) int {
	if now < t.LastContactTick {
		return 0
	}
	return int(now - t.LastContactTick)
}

// SpeedHistory returns a copy of the track's bounded speed history.
func (t *Track) SpeedHistory() []float64 {
	if t.speedHistory == nil {
		return nil
	}
	out := make([]float64, len(t.speedHistory))
	copy(out, t.speedHistory)
	return out
}

func (t *Track) pushPlot(p Plot) {
	t.pending = append(t.pending, p)
}

// step applies the once-per-tick update rule. With no queued plot the track
// coasts its velocity estimate forward one tick; with queued plots each is
// applied as a measurement update in arrival order. Multiple queued plots
// cannot occur under the one-plot-per-tick sensor contract, but applying
// them sequentially is the documented merge policy so data is never silently
// dropped. The gate is recentered unconditionally afterwards.
func (t *Track) step(cfg TrackerConfig) {
	if len(t.pending) == 0 {
		if t.kf != nil {
			t.kf.Predict(1 / cfg.TicksPerSecond)
			t.Position, t.Velocity = t.kf.State()
		} else {
			t.Position = t.Position.Add(t.Velocity.Scale(1 / cfg.TicksPerSecond))
		}
	} else {
		for _, p := range t.pending {
			t.observe(p, cfg)
		}
		t.pending = t.pending[:0]
	}
	t.Gate.SetCenter(t.Position)
}

// observe folds one measurement into the kinematic estimate.
//
// The default estimator is a one-step differencing smoother, not a full
// covariance filter: the plot's reported velocity is treated as an
// independent measurement, both velocities are converted to per-tick units,
// and half their difference is taken as the acceleration over the last tick.
func (t *Track) observe(plot Plot, cfg TrackerConfig) {
	if t.kf != nil {
		t.kf.Update(plot.Position)
		t.Position, t.Velocity = t.kf.State()
	} else {
		currentPerTick := t.Velocity.Scale(1 / cfg.TicksPerSecond)
		plotPerTick := plot.Velocity.Scale(1 / cfg.TicksPerSecond)
		accel := currentPerTick.Sub(plotPerTick).Scale(0.5)
		t.Velocity = currentPerTick.Add(accel).Scale(cfg.TicksPerSecond)
		t.Position = t.Position.Add(accel)
	}

	t.LastContactTick = plot.Tick
	t.ObservationCount++

	t.speedHistory = append(t.speedHistory, t.Speed())
	if len(t.speedHistory) > MaxSpeedHistoryLength {
		t.speedHistory = t.speedHistory[1:]
	}
}
