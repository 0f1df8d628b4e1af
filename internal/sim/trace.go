package sim

import "github.com/arclight-sim/arclight/internal/agent"

// BodySample is one body's state captured at the end of a tick.
type BodySample struct {
	ID    int
	Team  int
	Role  agent.Role
	X     float64
	Y     float64
	Alive bool
}

// TraceSample is the arena snapshot for one tick.
type TraceSample struct {
	Tick   uint64
	Bodies []BodySample
}

func (w *World) sample() {
	s := TraceSample{Tick: w.tick, Bodies: make([]BodySample, 0, len(w.bodies))}
	for _, b := range w.bodies {
		s.Bodies = append(s.Bodies, BodySample{
			ID:    b.ID,
			Team:  b.Team,
			Role:  b.Role,
			X:     b.Position.X,
			Y:     b.Position.Y,
			Alive: b.Alive,
		})
	}
	w.trace = append(w.trace, s)
}
