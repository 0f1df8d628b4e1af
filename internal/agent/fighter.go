package agent

import (
	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/control"
	"github.com/arclight-sim/arclight/internal/engage"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/intercept"
	"github.com/arclight-sim/arclight/internal/track"
)

// Maneuver distance bands. Inside closeRange the fighter manages separation,
// between closeRange and standoffRange it matches target motion, and beyond
// standoffRange it burns straight at the target.
const (
	closeRange    = 500.0
	standoffRange = 1000.0

	holdThrust  = 10.0
	chaseThrust = 100.0
)

// Fighter runs the full sense-track-engage loop: it feeds sensor returns to
// the tracker, advances the engagement state machine, steers the hull onto
// the intercept lead angle, gates the gun, launches munitions, and aims the
// sensor for the next tick.
type Fighter struct {
	hooks   Hooks
	tracker *track.Tracker
	machine *engage.Machine
	rotator control.Rotator

	ticksPerSecond  float64
	projectileSpeed float64
	fireRange       float64

	sweep engage.SweepPlan
}

func NewFighter(tuning *config.Tuning, hooks Hooks) *Fighter {
	if tuning == nil {
		tuning = config.EmptyTuning()
	}
	cfg := engage.ConfigFromTuning(tuning)
	return &Fighter{
		hooks:           hooks,
		tracker:         track.NewTracker(track.TrackerConfigFromTuning(tuning)),
		machine:         engage.NewMachine(cfg),
		rotator:         control.RotatorFromTuning(tuning),
		ticksPerSecond:  tuning.GetTicksPerSecond(),
		projectileSpeed: tuning.GetProjectileSpeedMps(),
		fireRange:       tuning.GetFireRangeM(),
		sweep: engage.SweepPlan{
			Width:    cfg.SearchBeamWidth,
			MinRange: cfg.SearchMinRange,
			MaxRange: cfg.SearchMaxRange,
		},
	}
}

// Tracker exposes the fighter's track table for inspection.
func (f *Fighter) Tracker() *track.Tracker { return f.tracker }

// State reports the engagement state after the last Tick.
func (f *Fighter) State() engage.State { return f.machine.State() }

// Tick runs one guidance cycle.
func (f *Fighter) Tick() {
	kin := f.hooks.SelfKinematics()

	var plot *track.Plot
	if p, ok := f.hooks.Sense(); ok {
		plot = &p
	}
	f.tracker.Ingest(plot)

	target := f.machine.Step(f.tracker, kin.Position)
	if target != nil {
		f.engageTarget(kin, target)
	}

	f.sweep = f.machine.PlanSweep(f.sweep, target, kin.Position)
	f.hooks.SetSensorAim(f.sweep.Heading, f.sweep.Width, f.sweep.MinRange, f.sweep.MaxRange)
}

// engageTarget steers onto the lead angle for the designated target, fires
// the gun when aligned and in range, launches a munition, and maneuvers by
// distance band.
func (f *Fighter) engageTarget(kin Kinematics, target *track.Track) {
	rel := target.Position.Sub(kin.Position)
	relVel := target.Velocity.Sub(kin.Velocity)
	aim := intercept.Lead(rel, relVel, f.projectileSpeed, f.ticksPerSecond)

	cmd := f.rotator.Steer(geom.AngleDiff(kin.Heading, aim.Angle()), kin.AngularVelocity)
	if cmd.UseRate {
		f.hooks.SetTurnRate(cmd.Rate)
	} else {
		f.hooks.ApplyTorque(cmd.Torque)
	}

	dist := rel.Len()
	if control.FireGate(cmd, dist, f.fireRange) {
		f.hooks.FireWeapon(gunIndex)
	}
	f.hooks.FireWeapon(missileIndex)

	f.maneuver(kin, target, rel, dist)
}

// maneuver issues the distance-banded linear acceleration.
func (f *Fighter) maneuver(kin Kinematics, target *track.Track, rel geom.Vec2, dist float64) {
	toward := rel.Norm()
	switch {
	case dist < closeRange:
		// Manage separation: push in while opening, back off while
		// closing, judged against the target's next predicted position.
		next := target.Position.Add(target.Velocity)
		if kin.Position.DistanceTo(next) > dist {
			f.hooks.AccelerateLinear(toward.Scale(holdThrust))
		} else {
			f.hooks.AccelerateLinear(toward.Scale(-holdThrust))
		}
	case dist < standoffRange:
		f.hooks.AccelerateLinear(target.Velocity.Scale(holdThrust))
	default:
		f.hooks.AccelerateLinear(toward.Scale(chaseThrust))
	}
}
