package track

import "github.com/arclight-sim/arclight/internal/geom"

// Gate is the square association window owned by a single Track. The window
// is centered on the track's last resolved position and has a fixed side
// length (the "radius"); new plots falling inside it are claimed by the
// owning track.
type Gate struct {
	Center geom.Vec2
	Radius float64 // side length in meters
}

// NewGate returns a gate centered on point with the given side length.
func NewGate(center geom.Vec2, radius float64) Gate {
	return Gate{Center: center, Radius: radius}
}

// Contains reports whether p lies strictly inside all four edges of the
// square. A point exactly on an edge is outside; the boundary-exclusive rule
// keeps association deterministic near gate edges.
func (g *Gate) Contains(p geom.Vec2) bool {
	half := g.Radius / 2
	if p.X >= g.Center.X+half || p.X <= g.Center.X-half {
		return false
	}
	if p.Y >= g.Center.Y+half || p.Y <= g.Center.Y-half {
		return false
	}
	return true
}

// SetCenter recenters the gate. Called unconditionally once per track update,
// including coast-only ticks.
func (g *Gate) SetCenter(c geom.Vec2) { g.Center = c }

// SetRadius resizes the gate, for variants with adaptive gate sizing.
func (g *Gate) SetRadius(r float64) { g.Radius = r }
