package agent

import (
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// Kinematics is the agent's own state as reported by the host each tick.
type Kinematics struct {
	Position        geom.Vec2
	Velocity        geom.Vec2
	Heading         float64
	AngularVelocity float64
}

// Hooks is the per-tick contract with the host environment. The engine owns
// no I/O: everything it senses and everything it actuates crosses this
// boundary. At most one rate-style command is issued per tick per axis.
type Hooks interface {
	// Sense returns the directional sensor's return for this tick, if
	// any. The sensor yields at most one plot per tick.
	Sense() (track.Plot, bool)

	// SelfKinematics reports the vehicle's own kinematic state.
	SelfKinematics() Kinematics

	// SetSensorAim reconfigures the sense cone for the next tick.
	SetSensorAim(heading, beamWidth, minRange, maxRange float64)

	// AccelerateLinear requests a linear acceleration for this tick.
	AccelerateLinear(accel geom.Vec2)

	// ApplyTorque requests an angular acceleration for this tick.
	ApplyTorque(torque float64)

	// SetTurnRate requests an angular rate directly, bypassing torque.
	SetTurnRate(rate float64)

	// FireWeapon fires the weapon at the given mount index.
	FireWeapon(index int)

	// SelfDestruct detonates the vehicle.
	SelfDestruct()
}
