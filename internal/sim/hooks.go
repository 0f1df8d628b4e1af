package sim

import (
	"github.com/arclight-sim/arclight/internal/agent"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// bodyHooks binds one body to the agent.Hooks contract. Sensing reads the
// current arena state; actuator calls latch onto the body and take effect
// when the world integrates the tick.
type bodyHooks struct {
	w *World
	b *Body
}

func (h *bodyHooks) Sense() (track.Plot, bool) { return h.w.sense(h.b) }

func (h *bodyHooks) SelfKinematics() agent.Kinematics {
	return agent.Kinematics{
		Position:        h.b.Position,
		Velocity:        h.b.Velocity,
		Heading:         h.b.Heading,
		AngularVelocity: h.b.AngularVelocity,
	}
}

func (h *bodyHooks) SetSensorAim(heading, width, minRange, maxRange float64) {
	h.b.aim = sensorCone{Heading: heading, Width: width, MinRange: minRange, MaxRange: maxRange}
}

func (h *bodyHooks) AccelerateLinear(a geom.Vec2) { h.b.accel = a }
func (h *bodyHooks) ApplyTorque(t float64)        { h.b.torque = t }

func (h *bodyHooks) SetTurnRate(rate float64) {
	h.b.turnRate = rate
	h.b.useTurnRate = true
}

func (h *bodyHooks) FireWeapon(index int) {
	switch index {
	case 0:
		h.b.fireGun = true
	case 1:
		h.b.fireMissile = true
	}
}

func (h *bodyHooks) SelfDestruct() { h.b.destruct = true }
