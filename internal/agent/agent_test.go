package agent

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-sim/arclight/internal/engage"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

type sensorAim struct {
	heading, width, minRange, maxRange float64
}

// fakeHooks records every actuator call and replays a scripted sensor
// return.
type fakeHooks struct {
	plot *track.Plot
	kin  Kinematics

	aims       []sensorAim
	accels     []geom.Vec2
	torques    []float64
	rates      []float64
	fired      []int
	destructed bool
}

func (h *fakeHooks) Sense() (track.Plot, bool) {
	if h.plot == nil {
		return track.Plot{}, false
	}
	return *h.plot, true
}

func (h *fakeHooks) SelfKinematics() Kinematics { return h.kin }

func (h *fakeHooks) SetSensorAim(heading, width, minRange, maxRange float64) {
	h.aims = append(h.aims, sensorAim{heading, width, minRange, maxRange})
}

func (h *fakeHooks) AccelerateLinear(a geom.Vec2) { h.accels = append(h.accels, a) }
func (h *fakeHooks) ApplyTorque(t float64)        { h.torques = append(h.torques, t) }
func (h *fakeHooks) SetTurnRate(r float64)        { h.rates = append(h.rates, r) }
func (h *fakeHooks) FireWeapon(index int)         { h.fired = append(h.fired, index) }
func (h *fakeHooks) SelfDestruct()                { h.destructed = true }

func (h *fakeHooks) firedWeapon(index int) bool {
	for _, i := range h.fired {
		if i == index {
			return true
		}
	}
	return false
}

func TestAgentRoleDispatch(t *testing.T) {
	t.Parallel()

	f := New(RoleFighter, nil, &fakeHooks{})
	require.Equal(t, RoleFighter, f.Role())
	require.NotNil(t, f.Fighter())
	require.Nil(t, f.Munition())

	m := New(RoleMunition, nil, &fakeHooks{})
	require.Equal(t, RoleMunition, m.Role())
	require.NotNil(t, m.Munition())
	require.Nil(t, m.Fighter())

	f.Tick()
	m.Tick()
}

func TestFighterSearchSweep(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{}
	f := NewFighter(nil, hooks)

	f.Tick()

	assert.Equal(t, engage.StateSearching, f.State())
	assert.Empty(t, hooks.fired)
	assert.Empty(t, hooks.torques)
	assert.Empty(t, hooks.rates)

	require.Len(t, hooks.aims, 1)
	aim := hooks.aims[0]
	assert.InDelta(t, math.Pi/4, aim.heading, 1e-12)
	assert.InDelta(t, math.Pi/4, aim.width, 1e-12)
	assert.Equal(t, 25.0, aim.minRange)
	assert.Equal(t, 10_000.0, aim.maxRange)

	// Each empty tick advances the sweep by one beam width.
	f.Tick()
	require.Len(t, hooks.aims, 2)
	assert.InDelta(t, math.Pi/2, hooks.aims[1].heading, 1e-12)
}

func TestFighterEngagesStationaryTarget(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(800, 0)},
	}
	f := NewFighter(nil, hooks)

	f.Tick()

	require.Equal(t, engage.StateEngaged, f.State())
	require.Equal(t, 1, f.Tracker().Len())

	// Dead ahead and inside fire range: the gun fires and a munition
	// launches.
	assert.True(t, hooks.firedWeapon(gunIndex))
	assert.True(t, hooks.firedWeapon(missileIndex))

	// Zero heading error lands in the rate-hold band.
	require.Len(t, hooks.rates, 1)
	assert.InDelta(t, 0, hooks.rates[0], 1e-12)
	assert.Empty(t, hooks.torques)

	// Standoff band against a stationary target: match its (zero)
	// velocity.
	require.Len(t, hooks.accels, 1)
	assert.Equal(t, geom.V(0, 0), hooks.accels[0])

	// The sweep focuses on the target.
	require.Len(t, hooks.aims, 1)
	aim := hooks.aims[0]
	assert.InDelta(t, 0, aim.heading, 1e-12)
	assert.InDelta(t, math.Pi/math.Log2(800), aim.width, 1e-12)
	assert.InDelta(t, 800*0.7, aim.minRange, 1e-9)
	assert.InDelta(t, 800*1.1, aim.maxRange, 1e-9)
}

func TestFighterHoldsFireOutOfRange(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(5000, 0)},
	}
	f := NewFighter(nil, hooks)

	f.Tick()

	require.Equal(t, engage.StateEngaged, f.State())
	assert.False(t, hooks.firedWeapon(gunIndex))
	assert.True(t, hooks.firedWeapon(missileIndex))

	// Chase band: full thrust toward the target.
	require.Len(t, hooks.accels, 1)
	assert.Equal(t, geom.V(chaseThrust, 0), hooks.accels[0])
}

func TestFighterCoarseTurnTowardOffAxisTarget(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(0, 800)},
	}
	f := NewFighter(nil, hooks)

	f.Tick()

	// pi/2 of heading error demands a positive coarse torque, and the gun
	// stays cold until aligned.
	require.Len(t, hooks.torques, 1)
	assert.Greater(t, hooks.torques[0], 0.0)
	assert.Empty(t, hooks.rates)
	assert.False(t, hooks.firedWeapon(gunIndex))
}

func TestFighterBacksOffInsideCloseRange(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(100, 0)},
	}
	f := NewFighter(nil, hooks)

	f.Tick()

	// A stationary target at 100 m is neither opening nor closing, so the
	// fighter backs away.
	require.Len(t, hooks.accels, 1)
	assert.Equal(t, geom.V(-holdThrust, 0), hooks.accels[0])
}

func TestMunitionScansWithoutContact(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{kin: Kinematics{Heading: 0}}
	m := NewMunition(nil, hooks)

	m.Tick()

	assert.False(t, hooks.destructed)
	require.Len(t, hooks.aims, 1)
	assert.InDelta(t, munitionSweepWidth, hooks.aims[0].heading, 1e-12)

	// Coasts on current heading at full thrust.
	require.Len(t, hooks.accels, 1)
	assert.InDelta(t, munitionChaseGain, hooks.accels[0].X, 1e-12)
	assert.InDelta(t, 0, hooks.accels[0].Y, 1e-12)
}

func TestMunitionPursuesContact(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(400, 400), Velocity: geom.V(-100, 0)},
	}
	m := NewMunition(nil, hooks)

	m.Tick()

	assert.False(t, hooks.destructed)

	// Turn rate proportional to the bearing error.
	require.Len(t, hooks.rates, 1)
	assert.InDelta(t, munitionTurnGain*math.Pi/4, hooks.rates[0], 1e-9)

	// Acceleration along dp+dv.
	require.Len(t, hooks.accels, 1)
	want := geom.V(400-100, 400).Scale(munitionChaseGain)
	assert.InDelta(t, want.X, hooks.accels[0].X, 1e-9)
	assert.InDelta(t, want.Y, hooks.accels[0].Y, 1e-9)
}

func TestMunitionDetonatesInsideProximityRadius(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(10, 0)},
	}
	m := NewMunition(nil, hooks)

	m.Tick()

	assert.True(t, hooks.destructed)
}

func TestMunitionCoastsThroughSensorDropout(t *testing.T) {
	t.Parallel()

	hooks := &fakeHooks{
		plot: &track.Plot{Position: geom.V(1000, 0), Velocity: geom.V(-60, 0)},
	}
	m := NewMunition(nil, hooks)

	m.Tick()
	require.Equal(t, 1, m.Tracker().Len())

	// Sensor drops out: the track coasts and pursuit continues against
	// the estimate.
	hooks.plot = nil
	hooks.rates = nil
	m.Tick()

	require.Equal(t, 1, m.Tracker().Len())
	require.Len(t, hooks.rates, 1)
	assert.False(t, hooks.destructed)
}
