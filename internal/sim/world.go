// Package sim is a fixed-tick kinematic arena for exercising agents: it
// hosts bodies, models the directional sensor, integrates motion, and
// resolves weapons. Each piloted body gets its own agent.Hooks binding.
package sim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/arclight-sim/arclight/internal/agent"
	"github.com/arclight-sim/arclight/internal/config"
	"github.com/arclight-sim/arclight/internal/geom"
	"github.com/arclight-sim/arclight/internal/track"
)

// Body physical limits and weapon timing.
const (
	fighterMaxAccel  = 100.0
	munitionMaxAccel = 400.0
	maxTurnRate      = 2 * math.Pi

	gunCooldownTicks     = 4
	missileCooldownTicks = 300

	projectileHitRadius = 10.0
	blastRadius         = 25.0
)

type sensorCone struct {
	Heading  float64
	Width    float64
	MinRange float64
	MaxRange float64
}

// Body is one vehicle in the arena.
type Body struct {
	ID       int
	Team     int
	Role     agent.Role
	Alive    bool
	MaxAccel float64

	Position        geom.Vec2
	Velocity        geom.Vec2
	Heading         float64
	AngularVelocity float64

	aim sensorCone

	// Per-tick command latches, reset before each pilot tick.
	accel       geom.Vec2
	torque      float64
	turnRate    float64
	useTurnRate bool
	fireGun     bool
	fireMissile bool
	destruct    bool

	gunCooldown     int
	missileCooldown int
}

func (b *Body) resetCommands() {
	b.accel = geom.Vec2{}
	b.torque = 0
	b.turnRate = 0
	b.useTurnRate = false
	b.fireGun = false
	b.fireMissile = false
	b.destruct = false
}

type projectile struct {
	Position geom.Vec2
	Velocity geom.Vec2
	Team     int
	TTL      int
}

type pilot struct {
	body  *Body
	agent *agent.Agent
}

// World owns every body and advances the arena one tick at a time.
type World struct {
	RunID string

	tuning *config.Tuning
	tps    float64
	noise  float64

	tick        uint64
	rng         *rand.Rand
	nextBodyID  int
	bodies      []*Body
	pilots      []*pilot
	projectiles []*projectile
	trace       []TraceSample
}

func NewWorld(tuning *config.Tuning, seed int64) *World {
	if tuning == nil {
		tuning = config.EmptyTuning()
	}
	return &World{
		RunID:  uuid.New().String(),
		tuning: tuning,
		tps:    tuning.GetTicksPerSecond(),
		noise:  tuning.GetMeasurementNoise(),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (w *World) newBody(role agent.Role, team int, pos geom.Vec2, heading, maxAccel float64) *Body {
	w.nextBodyID++
	b := &Body{
		ID:       w.nextBodyID,
		Team:     team,
		Role:     role,
		Alive:    true,
		MaxAccel: maxAccel,
		Position: pos,
		Heading:  heading,
		// The sensor starts omnidirectional until the pilot aims it.
		aim: sensorCone{Width: 2 * math.Pi, MaxRange: w.tuning.GetLongRangeMaxRangeM()},
	}
	w.bodies = append(w.bodies, b)
	return b
}

// AddFighter spawns a piloted fighter.
func (w *World) AddFighter(team int, pos geom.Vec2, heading float64) *Body {
	b := w.newBody(agent.RoleFighter, team, pos, heading, fighterMaxAccel)
	w.pilots = append(w.pilots, &pilot{body: b, agent: agent.New(agent.RoleFighter, w.tuning, &bodyHooks{w: w, b: b})})
	return b
}

// AddMunition spawns a piloted munition.
func (w *World) AddMunition(team int, pos geom.Vec2, heading float64) *Body {
	b := w.newBody(agent.RoleMunition, team, pos, heading, munitionMaxAccel)
	w.pilots = append(w.pilots, &pilot{body: b, agent: agent.New(agent.RoleMunition, w.tuning, &bodyHooks{w: w, b: b})})
	return b
}

// AddDrone spawns an unpiloted body that drifts at a constant velocity.
func (w *World) AddDrone(team int, pos, vel geom.Vec2) *Body {
	b := w.newBody("", team, pos, vel.Angle(), 0)
	b.Velocity = vel
	return b
}

func (w *World) Tick() uint64     { return w.tick }
func (w *World) Bodies() []*Body  { return w.bodies }
func (w *World) Trace() []TraceSample {
	return w.trace
}

// Step advances the arena one tick: pilots run against the current state,
// then motion integrates, weapons resolve, and the trace records.
func (w *World) Step() {
	w.tick++

	for _, p := range w.pilots {
		if !p.body.Alive {
			continue
		}
		p.body.resetCommands()
		p.agent.Tick()
	}

	w.integrate()
	w.resolveWeapons()
	w.stepProjectiles()
	w.resolveDestructs()
	w.sample()
}

// Run advances the arena n ticks.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

func (w *World) integrate() {
	for _, b := range w.bodies {
		if !b.Alive {
			continue
		}

		accel := b.accel
		if max := b.MaxAccel; max > 0 && accel.Len() > max {
			accel = accel.Norm().Scale(max)
		}
		b.Velocity = b.Velocity.Add(accel.Scale(1 / w.tps))

		if b.useTurnRate {
			b.AngularVelocity = clamp(b.turnRate, maxTurnRate)
		} else {
			b.AngularVelocity = clamp(b.AngularVelocity+b.torque/w.tps, maxTurnRate)
		}
		b.Heading = geom.WrapAngle(b.Heading + b.AngularVelocity/w.tps)
		b.Position = b.Position.Add(b.Velocity.Scale(1 / w.tps))

		if b.gunCooldown > 0 {
			b.gunCooldown--
		}
		if b.missileCooldown > 0 {
			b.missileCooldown--
		}
	}
}

func (w *World) resolveWeapons() {
	speed := w.tuning.GetProjectileSpeedMps()
	ttl := int(math.Ceil(w.tuning.GetFireRangeM() / speed * w.tps))

	for _, b := range w.bodies {
		if !b.Alive {
			continue
		}
		if b.fireGun && b.gunCooldown == 0 {
			b.gunCooldown = gunCooldownTicks
			w.projectiles = append(w.projectiles, &projectile{
				Position: b.Position,
				Velocity: b.Velocity.Add(geom.Heading(b.Heading).Scale(speed)),
				Team:     b.Team,
				TTL:      ttl,
			})
		}
		if b.fireMissile && b.missileCooldown == 0 && b.Role == agent.RoleFighter {
			b.missileCooldown = missileCooldownTicks
			m := w.AddMunition(b.Team, b.Position, b.Heading)
			m.Velocity = b.Velocity
		}
	}
}

func (w *World) stepProjectiles() {
	alive := w.projectiles[:0]
	for _, p := range w.projectiles {
		end := p.Position.Add(p.Velocity.Scale(1 / w.tps))

		hit := false
		for _, b := range w.bodies {
			if !b.Alive || b.Team == p.Team {
				continue
			}
			if pointSegmentDistance(b.Position, p.Position, end) < projectileHitRadius {
				b.Alive = false
				hit = true
				break
			}
		}

		p.Position = end
		p.TTL--
		if !hit && p.TTL > 0 {
			alive = append(alive, p)
		}
	}
	w.projectiles = alive
}

func (w *World) resolveDestructs() {
	for _, b := range w.bodies {
		if !b.Alive || !b.destruct {
			continue
		}
		b.Alive = false
		for _, other := range w.bodies {
			if !other.Alive || other.Team == b.Team {
				continue
			}
			if b.Position.DistanceTo(other.Position) < blastRadius {
				other.Alive = false
			}
		}
	}
}

// sense returns the nearest living enemy inside the body's sensor cone,
// with measurement noise on position. At most one return per tick.
func (w *World) sense(b *Body) (track.Plot, bool) {
	var best *Body
	bestDist := math.MaxFloat64

	for _, other := range w.bodies {
		if !other.Alive || other == b || other.Team == b.Team {
			continue
		}
		rel := other.Position.Sub(b.Position)
		dist := rel.Len()
		if dist < b.aim.MinRange || dist > b.aim.MaxRange {
			continue
		}
		if math.Abs(geom.AngleDiff(b.aim.Heading, rel.Angle())) > b.aim.Width/2 {
			continue
		}
		if dist < bestDist {
			best = other
			bestDist = dist
		}
	}
	if best == nil {
		return track.Plot{}, false
	}

	jitter := geom.V(w.rng.NormFloat64(), w.rng.NormFloat64()).Scale(w.noise)
	return track.Plot{
		Position: best.Position.Add(jitter),
		Velocity: best.Velocity,
		SNR:      20,
		Tick:     w.tick,
	}, true
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

// pointSegmentDistance returns the distance from p to the segment ab.
func pointSegmentDistance(p, a, b geom.Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return p.DistanceTo(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.DistanceTo(a.Add(ab.Scale(t)))
}
