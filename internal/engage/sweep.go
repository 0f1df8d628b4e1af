package engage

import (
	"math"

	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// SweepPlan is the sensor cone configuration requested for the next tick.
type SweepPlan struct {
	Heading  float64
	Width    float64
	MinRange float64
	MaxRange float64
}

// PlanSweep selects the sweep for the current mode: a focused narrow cone on
// the designated target while Engaged, an advancing wide sweep while
// searching, and a maximum-range sweep once contact has been lost. cur is
// the sensor's current aim, used to advance scanning sweeps by one beam
// width per tick.
func (m *Machine) PlanSweep(cur SweepPlan, target *track.Track, selfPos geom.Vec2) SweepPlan {
	if m.state == StateEngaged && target != nil {
		return m.focusSweep(target, selfPos)
	}

	plan := SweepPlan{
		Heading:  cur.Heading + cur.Width,
		Width:    m.Config.SearchBeamWidth,
		MinRange: m.Config.SearchMinRange,
		MaxRange: m.Config.SearchMaxRange,
	}
	if m.state == StateOutOfRadarRange {
		plan.Width = m.Config.LongRangeBeamWidth
		plan.MaxRange = m.Config.LongRangeMaxRange
	}
	return plan
}

// focusSweep points the cone at the designated target and narrows it with
// range, bracketing the expected return between 70% and 110% of the target
// distance.
func (m *Machine) focusSweep(target *track.Track, selfPos geom.Vec2) SweepPlan {
	rel := target.Position.Sub(selfPos)
	dist := rel.Len()

	width := m.Config.SearchBeamWidth
	if dist > 2 {
		width = math.Pi / math.Log2(dist)
	}

	return SweepPlan{
		Heading:  rel.Angle(),
		Width:    width,
		MinRange: dist * 0.7,
		MaxRange: dist * 1.1,
	}
}
