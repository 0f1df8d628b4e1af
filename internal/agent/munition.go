package agent

import (
	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// proximityRadius is the detonation distance for the terminal phase, in
// meters.
const proximityRadius = 20.0

// Terminal guidance gains.
const (
	munitionTurnGain   = 10.0
	munitionChaseGain  = 100.0
	munitionSweepWidth = 0.7853981633974483 // pi/4
)

// Munition is the self-guided munition pilot: a scanning sweep until first
// contact, then proportional pursuit on the closing geometry with a
// proximity-fused terminal phase. The tracker coasts the target estimate
// across sensor dropouts in the terminal approach.
type Munition struct {
	hooks   Hooks
	tracker *track.Tracker

	searchMinRange float64
	searchMaxRange float64

	sweepHeading float64
}

func NewMunition(tuning *config.Tuning, hooks Hooks) *Munition {
	if tuning == nil {
		tuning = config.EmptyTuning()
	}
	return &Munition{
		hooks:          hooks,
		tracker:        track.NewTracker(track.TrackerConfigFromTuning(tuning)),
		searchMinRange: tuning.GetSearchMinRangeM(),
		searchMaxRange: tuning.GetSearchMaxRangeM(),
	}
}

// Tracker exposes the munition's track table for inspection.
func (mn *Munition) Tracker() *track.Tracker { return mn.tracker }

// Tick runs one pursuit cycle.
func (mn *Munition) Tick() {
	kin := mn.hooks.SelfKinematics()

	var plot *track.Plot
	if p, ok := mn.hooks.Sense(); ok {
		plot = &p
	}
	mn.tracker.Ingest(plot)

	id, err := mn.tracker.Nearest(kin.Position)
	if err != nil {
		mn.scan(kin)
		return
	}
	target, err := mn.tracker.Get(id)
	if err != nil {
		mn.scan(kin)
		return
	}
	mn.pursue(kin, target)
}

// scan advances the sweep one beam width and coasts on current heading.
func (mn *Munition) scan(kin Kinematics) {
	mn.sweepHeading += munitionSweepWidth
	mn.hooks.SetSensorAim(mn.sweepHeading, munitionSweepWidth, mn.searchMinRange, mn.searchMaxRange)
	mn.hooks.AccelerateLinear(geom.Heading(kin.Heading).Scale(munitionChaseGain))
}

// pursue closes on the target along the combined position and closing
// velocity error, detonating inside the proximity radius.
func (mn *Munition) pursue(kin Kinematics, target *track.Track) {
	dp := target.Position.Sub(kin.Position)
	dv := target.Velocity.Sub(kin.Velocity)

	mn.hooks.SetTurnRate(munitionTurnGain * geom.AngleDiff(kin.Heading, dp.Angle()))
	mn.hooks.AccelerateLinear(dp.Add(dv).Scale(munitionChaseGain))
	mn.hooks.SetSensorAim(dp.Angle(), munitionSweepWidth/2, dp.Len()*0.7, dp.Len()*1.1)

	if dp.Len() < proximityRadius {
		mn.hooks.SelfDestruct()
	}
}
