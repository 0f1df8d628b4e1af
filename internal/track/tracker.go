package track

import (
	"errors"
	"math"

	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
)

// Recoverable query failures. Callers treat both as "no target this tick".
var (
	// ErrNoContacts is returned by Nearest when the tracker holds no tracks.
	ErrNoContacts = errors.New("tracker: no contacts")
	// ErrUnknownTrack is returned by Get for an id that is not (or no
	// longer) in the arena.
	ErrUnknownTrack = errors.New("tracker: unknown track")
)

// TrackerConfig holds configuration parameters for the tracker.
type TrackerConfig struct {
	TicksPerSecond float64 // simulation tick rate
	GateRadius     float64 // gate side length assigned at track creation (meters)
	StalenessTicks int     // ticks without a match before a track is evicted
	Estimator      string  // config.EstimatorDifference or config.EstimatorKalman

	// Constant-velocity Kalman extension noise terms, used only when
	// Estimator selects the Kalman filter.
	ProcessNoisePos  float64
	ProcessNoiseVel  float64
	MeasurementNoise float64
}

// DefaultTrackerConfig returns default tracker configuration.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfigFromTuning(config.EmptyTuning())
}

// TrackerConfigFromTuning derives tracker config from a Tuning.
func TrackerConfigFromTuning(t *config.Tuning) TrackerConfig {
	return TrackerConfig{
		TicksPerSecond:   t.GetTicksPerSecond(),
		GateRadius:       t.GetGateRadiusM(),
		StalenessTicks:   t.GetStalenessTicks(),
		Estimator:        t.GetEstimator(),
		ProcessNoisePos:  t.GetProcessNoisePos(),
		ProcessNoiseVel:  t.GetProcessNoiseVel(),
		MeasurementNoise: t.GetMeasurementNoise(),
	}
}

// Tracker turns one plot per tick into a consistent, pruned set of tracks.
// It is the sole owner of the track arena; other components hold track ids
// and resolve them through Get each use.
//
// Single-threaded by design: the engine runs as one cooperative fixed-rate
// tick loop, so no locking is needed.
type Tracker struct {
	Config TrackerConfig

	tracks map[uint64]*Track
	nextID uint64
	tick   uint64

	// ticksSinceContact counts consecutive Ingest calls without a plot,
	// feeding the engagement machine's lost-contact transition.
	ticksSinceContact int
}

// NewTracker creates a tracker with the specified configuration.
func NewTracker(cfg TrackerConfig) *Tracker {
	return &Tracker{
		Config: cfg,
		tracks: make(map[uint64]*Track),
		nextID: 1,
	}
}

// Ingest advances the tracker one tick. Every track coasts one step first;
// the plot, if present, is then offered to live tracks in unspecified
// iteration order and the first track whose gate contains it claims it
// (greedy and order-dependent, deliberate under the one-plot-per-tick sensor
// model). An unclaimed plot spawns a new tentative track. Finally any track
// that has gone StalenessTicks without a match is evicted.
func (tk *Tracker) Ingest(plot *Plot) {
	tk.tick++

	for _, t := range tk.tracks {
		t.step(tk.Config)
	}

	if plot != nil {
		tk.ticksSinceContact = 0
		p := *plot
		p.Tick = tk.tick

		claimed := false
		for _, t := range tk.tracks {
			if t.Gate.Contains(p.Position) {
				t.pushPlot(p)
				t.step(tk.Config)
				claimed = true
				break
			}
		}
		if !claimed {
			tk.spawn(p)
		}
	} else {
		tk.ticksSinceContact++
	}

	for id, t := range tk.tracks {
		if t.TicksSinceContact(tk.tick) >= tk.Config.StalenessTicks {
			delete(tk.tracks, id)
		}
	}
}

// spawn creates a new tentative track seeded from the plot's reported
// position and velocity. Track ids are unique and never reused.
func (tk *Tracker) spawn(p Plot) *Track {
	id := tk.nextID
	tk.nextID++

	t := &Track{
		ID:               id,
		Position:         p.Position,
		Velocity:         p.Velocity,
		Class:            ClassTentative,
		Gate:             NewGate(p.Position, tk.Config.GateRadius),
		FirstContactTick: p.Tick,
		LastContactTick:  p.Tick,
		ObservationCount: 1,
		speedHistory:     []float64{p.Velocity.Len()},
	}
	if tk.Config.Estimator == config.EstimatorKalman {
		t.kf = NewCVFilter(p.Position, p.Velocity, tk.Config)
	}

	tk.tracks[id] = t
	return t
}

// Nearest returns the id of the track with minimum Euclidean distance to
// point. Tie-break order is undefined. Returns ErrNoContacts when the
// tracker holds no tracks; callers must check emptiness first.
func (tk *Tracker) Nearest(point geom.Vec2) (uint64, error) {
	if len(tk.tracks) == 0 {
		return 0, ErrNoContacts
	}
	best := math.MaxFloat64
	var bestID uint64
	for id, t := range tk.tracks {
		if d := t.DistanceFrom(point); d < best {
			best = d
			bestID = id
		}
	}
	return bestID, nil
}

// Get returns the track with the given id, or ErrUnknownTrack.
func (tk *Tracker) Get(id uint64) (*Track, error) {
	t, ok := tk.tracks[id]
	if !ok {
		return nil, ErrUnknownTrack
	}
	return t, nil
}

// HasContacts reports whether at least one track exists.
func (tk *Tracker) HasContacts() bool {
	return len(tk.tracks) > 0
}

// Len returns the number of live tracks.
func (tk *Tracker) Len() int {
	return len(tk.tracks)
}

// CurrentTick returns the tracker's tick counter.
func (tk *Tracker) CurrentTick() uint64 {
	return tk.tick
}

// TicksSinceContact returns how many consecutive ticks have passed without
// any sensor return.
func (tk *Tracker) TicksSinceContact() int {
	return tk.ticksSinceContact
}

// Tracks returns the live tracks in unspecified order.
func (tk *Tracker) Tracks() []*Track {
	out := make([]*Track, 0, len(tk.tracks))
	for _, t := range tk.tracks {
		out = append(out, t)
	}
	return out
}
