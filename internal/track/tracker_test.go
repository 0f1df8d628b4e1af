package track

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
)

func testConfig() TrackerConfig {
	return DefaultTrackerConfig()
}

func TestNewTracker(t *testing.T) {
	tk := NewTracker(testConfig())
	require.NotNil(t, tk)
	assert.False(t, tk.HasContacts())
	assert.Equal(t, 0, tk.Len())
	assert.Equal(t, uint64(0), tk.CurrentTick())
}

func TestIngestSpawnsTentativeTrack(t *testing.T) {
	tk := NewTracker(testConfig())

	tk.Ingest(&Plot{Position: geom.V(100, 200), Velocity: geom.V(60, 0), SNR: 20})

	require.Equal(t, 1, tk.Len())
	tr := tk.Tracks()[0]
	assert.Equal(t, ClassTentative, tr.Class)
	assert.Equal(t, geom.V(100, 200), tr.Position)
	assert.Equal(t, geom.V(60, 0), tr.Velocity)
	assert.Equal(t, geom.V(100, 200), tr.Gate.Center)
	assert.Equal(t, tk.Config.GateRadius, tr.Gate.Radius)
	assert.Equal(t, uint64(1), tr.LastContactTick)
	assert.Equal(t, 1, tr.ObservationCount)
}

// Coast law: with no queued plot, new_position == old_position + old_velocity/tps.
func TestCoastLaw(t *testing.T) {
	tk := NewTracker(testConfig())
	tk.Ingest(&Plot{Position: geom.V(0, 0), Velocity: geom.V(120, -60)})

	tk.Ingest(nil)

	tr := tk.Tracks()[0]
	assert.InDelta(t, 2.0, tr.Position.X, 1e-12)
	assert.InDelta(t, -1.0, tr.Position.Y, 1e-12)
	// Gate follows the coasted position, including coast-only ticks.
	assert.Equal(t, tr.Position, tr.Gate.Center)
	// Velocity is untouched by coasting.
	assert.Equal(t, geom.V(120, -60), tr.Velocity)
}

// Differencing filter: acceleration == (current_v/tps - plot_v/tps) / 2,
// velocity and position updated from it exactly as specified.
func TestDifferencingUpdate(t *testing.T) {
	tk := NewTracker(testConfig())
	tps := tk.Config.TicksPerSecond

	tk.Ingest(&Plot{Position: geom.V(0, 0), Velocity: geom.V(120, 0)})

	// Tick 2: the track coasts to (2, 0) first, then claims a plot there.
	plotVel := geom.V(60, 0)
	tk.Ingest(&Plot{Position: geom.V(2, 0), Velocity: plotVel})

	tr := tk.Tracks()[0]
	require.Equal(t, 1, tk.Len())

	currentPerTick := geom.V(120, 0).Scale(1 / tps)
	plotPerTick := plotVel.Scale(1 / tps)
	accel := currentPerTick.Sub(plotPerTick).Scale(0.5)
	wantVel := currentPerTick.Add(accel).Scale(tps)
	wantPos := geom.V(2, 0).Add(accel)

	assert.InDelta(t, wantVel.X, tr.Velocity.X, 1e-12)
	assert.InDelta(t, wantVel.Y, tr.Velocity.Y, 1e-12)
	assert.InDelta(t, wantPos.X, tr.Position.X, 1e-12)
	assert.InDelta(t, wantPos.Y, tr.Position.Y, 1e-12)
	assert.Equal(t, tr.Position, tr.Gate.Center)
	assert.Equal(t, uint64(2), tr.LastContactTick)
	assert.Equal(t, 2, tr.ObservationCount)
}

// No two tracks ever claim the same plot within one tick.
func TestAtMostOneAssociation(t *testing.T) {
	tk := NewTracker(testConfig())

	// Two stationary tracks 30 m apart: gates (side 50) overlap between
	// x=5 and x=25.
	tk.Ingest(&Plot{Position: geom.V(0, 0)})
	tk.Ingest(&Plot{Position: geom.V(30, 0)})
	require.Equal(t, 2, tk.Len())

	tk.Ingest(&Plot{Position: geom.V(15, 0)})

	require.Equal(t, 2, tk.Len(), "plot in overlapping gates must not spawn a track")
	claims := 0
	for _, tr := range tk.Tracks() {
		if tr.ObservationCount == 2 {
			claims++
		}
	}
	assert.Equal(t, 1, claims, "exactly one track claims the plot")
}

func TestUnclaimedPlotSpawnsNewTrack(t *testing.T) {
	tk := NewTracker(testConfig())
	tk.Ingest(&Plot{Position: geom.V(0, 0)})

	// Well outside the first track's gate.
	tk.Ingest(&Plot{Position: geom.V(500, 500)})
	assert.Equal(t, 2, tk.Len())
}

// A track is retained through 29 plotless ticks and evicted exactly at 30.
func TestStalenessEvictionBoundary(t *testing.T) {
	tk := NewTracker(testConfig())
	require.Equal(t, 30, tk.Config.StalenessTicks)

	tk.Ingest(&Plot{Position: geom.V(0, 0)})

	for i := 0; i < 29; i++ {
		tk.Ingest(nil)
	}
	assert.Equal(t, 1, tk.Len(), "track must survive 29 ticks without a match")

	tk.Ingest(nil)
	assert.Equal(t, 0, tk.Len(), "track must be evicted at 30 ticks without a match")
	assert.False(t, tk.HasContacts())
}

// A matched plot resets the staleness clock.
func TestPlotMatchRefreshesStaleness(t *testing.T) {
	tk := NewTracker(testConfig())
	tk.Ingest(&Plot{Position: geom.V(0, 0)})

	for i := 0; i < 20; i++ {
		tk.Ingest(nil)
	}
	// Stationary track: gate still centered at the origin.
	tk.Ingest(&Plot{Position: geom.V(0, 0)})

	for i := 0; i < 29; i++ {
		tk.Ingest(nil)
	}
	assert.Equal(t, 1, tk.Len())
	tk.Ingest(nil)
	assert.Equal(t, 0, tk.Len())
}

// Track ids are unique, monotonically assigned, and never reused.
func TestTrackIDsNeverReused(t *testing.T) {
	tk := NewTracker(testConfig())

	tk.Ingest(&Plot{Position: geom.V(0, 0)})
	tk.Ingest(&Plot{Position: geom.V(1000, 0)})

	ids := map[uint64]bool{}
	for _, tr := range tk.Tracks() {
		ids[tr.ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])

	// Evict everything, then spawn again: the counter must not rewind.
	for i := 0; i < tk.Config.StalenessTicks; i++ {
		tk.Ingest(nil)
	}
	require.Equal(t, 0, tk.Len())

	tk.Ingest(&Plot{Position: geom.V(0, 0)})
	assert.Equal(t, uint64(3), tk.Tracks()[0].ID)
}

func TestNearest(t *testing.T) {
	tk := NewTracker(testConfig())

	_, err := tk.Nearest(geom.V(0, 0))
	assert.ErrorIs(t, err, ErrNoContacts)

	tk.Ingest(&Plot{Position: geom.V(100, 0)})
	tk.Ingest(&Plot{Position: geom.V(1000, 0)})

	id, err := tk.Nearest(geom.V(0, 0))
	require.NoError(t, err)
	tr, err := tk.Get(id)
	require.NoError(t, err)
	assert.InDelta(t, 100, tr.Position.X, 1e-9)
}

func TestGetUnknownTrack(t *testing.T) {
	tk := NewTracker(testConfig())
	_, err := tk.Get(42)
	assert.True(t, errors.Is(err, ErrUnknownTrack))
}

func TestTicksSinceContactCounter(t *testing.T) {
	tk := NewTracker(testConfig())

	tk.Ingest(nil)
	tk.Ingest(nil)
	assert.Equal(t, 2, tk.TicksSinceContact())

	tk.Ingest(&Plot{Position: geom.V(0, 0)})
	assert.Equal(t, 0, tk.TicksSinceContact())

	tk.Ingest(nil)
	assert.Equal(t, 1, tk.TicksSinceContact())
}

func TestTrackHeadingAndSpeed(t *testing.T) {
	tr := &Track{Velocity: geom.V(0, 50)}
	assert.InDelta(t, math.Pi/2, tr.Heading(), 1e-12)
	assert.InDelta(t, 50, tr.Speed(), 1e-12)
}

func TestSpeedQuantiles(t *testing.T) {
	tk := NewTracker(testConfig())
	assert.Nil(t, (&Track{}).SpeedQuantiles(0.5))

	tk.Ingest(&Plot{Position: geom.V(0, 0), Velocity: geom.V(60, 0)})
	tr := tk.Tracks()[0]
	qs := tr.SpeedQuantiles(0.5, 0.95)
	require.Len(t, qs, 2)
	assert.InDelta(t, 60, qs[0], 1e-9)
}

func TestKalmanEstimatorTrack(t *testing.T) {
	tuning := config.EmptyTuning()
	est := config.EstimatorKalman
	tuning.Estimator = &est
	tk := NewTracker(TrackerConfigFromTuning(tuning))

	tk.Ingest(&Plot{Position: geom.V(0, 0), Velocity: geom.V(60, 0)})
	tr := tk.Tracks()[0]

	// Coast tick: the filter predicts one tick of constant velocity.
	tk.Ingest(nil)
	assert.InDelta(t, 1.0, tr.Position.X, 1e-9)
	assert.InDelta(t, 0.0, tr.Position.Y, 1e-9)

	// A measurement exactly on the prediction leaves the state unchanged.
	tk.Ingest(&Plot{Position: geom.V(2, 0), Velocity: geom.V(60, 0)})
	assert.InDelta(t, 2.0, tr.Position.X, 1e-9)
	assert.InDelta(t, 60.0, tr.Velocity.X, 1e-9)
}
