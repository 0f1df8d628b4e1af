// Package engage selects the operating mode and designated target for an
// agent, with hysteresis on target designation, and derives the sensor-sweep
// parameters each mode wants.
package engage

import (
	"errors"

	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// State represents the agent's operating mode. Any state can return to
// Searching.
type State string

const (
	StateNoTarget         State = "no-target"
	StateSearching        State = "searching"
	StateEngaged          State = "engaged"
	StateOutOfTargetRange State = "out-of-target-range"
	StateOutOfRadarRange  State = "out-of-radar-range"
)

// Config holds the engagement parameters.
type Config struct {
	// StickyTargetTicks is the hysteresis window: once set, a designation
	// is held this many ticks before replacement is permitted.
	StickyTargetTicks int

	// LostContactTicks is the contact-recency threshold beyond which the
	// machine forces OutOfRadarRange.
	LostContactTicks int

	// EngageRange is the range check against the designated target;
	// beyond it the machine forces OutOfTargetRange.
	EngageRange float64

	// Sweep parameters per mode.
	SearchBeamWidth    float64
	SearchMinRange     float64
	SearchMaxRange     float64
	LongRangeBeamWidth float64
	LongRangeMaxRange  float64
}

// ConfigFromTuning derives engagement config from a Tuning. The
// out-of-target-range check reuses the search sweep ceiling: a target the
// search cone cannot reach cannot be prosecuted.
func ConfigFromTuning(t *config.Tuning) Config {
	return Config{
		StickyTargetTicks:  t.GetStickyTargetTicks(),
		LostContactTicks:   t.GetLostContactTicks(),
		EngageRange:        t.GetSearchMaxRangeM(),
		SearchBeamWidth:    t.GetSearchBeamWidthRad(),
		SearchMinRange:     t.GetSearchMinRangeM(),
		SearchMaxRange:     t.GetSearchMaxRangeM(),
		LongRangeBeamWidth: t.GetLongRangeBeamWidthRad(),
		LongRangeMaxRange:  t.GetLongRangeMaxRangeM(),
	}
}

// Machine owns the operating state and the single designation. At most one
// designated target exists per agent at a time.
type Machine struct {
	Config Config

	state       State
	designation designation
}

// designation is the optional reference to one track: an id resolved
// through the Tracker each use, plus the hysteresis counter.
type designation struct {
	id     uint64
	held   bool
	sticky int
}

// NewMachine creates an engagement machine in the NoTarget state.
func NewMachine(cfg Config) *Machine {
	return &Machine{Config: cfg, state: StateNoTarget}
}

// State returns the current operating mode.
func (m *Machine) State() State { return m.state }

// DesignatedID returns the designated track id, if one is held.
func (m *Machine) DesignatedID() (uint64, bool) {
	return m.designation.id, m.designation.held
}

// Step runs one tick of mode transitions and designation discipline against
// the tracker, and returns the resolved designated track (nil when no
// target is held this tick).
func (m *Machine) Step(tk *track.Tracker, selfPos geom.Vec2) *track.Track {
	target := m.stepDesignation(tk, selfPos)
	m.stepState(tk, selfPos, target)
	return target
}

// stepDesignation applies the designation discipline: acquire from Nearest
// when empty, hold through the hysteresis window, and on a stale target
// (backing track pruned) clear and re-acquire immediately, bypassing
// hysteresis for the recovery.
func (m *Machine) stepDesignation(tk *track.Tracker, selfPos geom.Vec2) *track.Track {
	if !m.designation.held {
		return m.acquire(tk, selfPos)
	}

	t, err := tk.Get(m.designation.id)
	if err != nil {
		if errors.Is(err, track.ErrUnknownTrack) {
			m.designation = designation{}
			return m.acquire(tk, selfPos)
		}
		return nil
	}

	if m.designation.sticky > 0 {
		m.designation.sticky--
		return t
	}

	// Hysteresis expired: Nearest may replace the designation.
	id, err := tk.Nearest(selfPos)
	if err != nil || id == m.designation.id {
		return t
	}
	m.designation = designation{id: id, held: true, sticky: m.Config.StickyTargetTicks}
	nt, err := tk.Get(id)
	if err != nil {
		return t
	}
	return nt
}

func (m *Machine) acquire(tk *track.Tracker, selfPos geom.Vec2) *track.Track {
	id, err := tk.Nearest(selfPos)
	if err != nil {
		// No contacts: nothing to designate this tick.
		return nil
	}
	m.designation = designation{id: id, held: true, sticky: m.Config.StickyTargetTicks}
	t, err := tk.Get(id)
	if err != nil {
		m.designation = designation{}
		return nil
	}
	return t
}

// stepState applies the mode transitions in priority order: a live contact
// forces Engaged, a designated target beyond the engage range forces
// OutOfTargetRange, an exhausted contact-recency counter forces
// OutOfRadarRange, and everything else settles to Searching.
func (m *Machine) stepState(tk *track.Tracker, selfPos geom.Vec2, target *track.Track) {
	switch {
	case tk.HasContacts():
		if target != nil && target.DistanceFrom(selfPos) > m.Config.EngageRange {
			m.state = StateOutOfTargetRange
		} else {
			m.state = StateEngaged
		}
	case tk.TicksSinceContact() > m.Config.LostContactTicks:
		m.state = StateOutOfRadarRange
	default:
		m.state = StateSearching
	}
}
