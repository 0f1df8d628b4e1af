// Package agent composes the tracking, intercept, control, and engagement
// packages into per-tick guidance loops for the two vehicle roles.
package agent

import (
	"github.com/arclight-sim/arclight/internal/config"
)

// Role identifies the vehicle variant an Agent is piloting.
type Role string

const (
	RoleFighter  Role = "fighter"
	RoleMunition Role = "munition"
)

// Weapon mount indices on the fighter hull.
const (
	gunIndex     = 0
	missileIndex = 1
)

// Agent is a tagged union over vehicle roles. Exactly one of the role
// pilots is active; Tick dispatches to it.
type Agent struct {
	role     Role
	fighter  *Fighter
	munition *Munition
}

// New builds an agent for the given role. Unknown roles default to the
// fighter.
func New(role Role, tuning *config.Tuning, hooks Hooks) *Agent {
	if role == RoleMunition {
		return &Agent{role: role, munition: NewMunition(tuning, hooks)}
	}
	return &Agent{role: RoleFighter, fighter: NewFighter(tuning, hooks)}
}

func (a *Agent) Role() Role { return a.role }

// Fighter returns the fighter pilot, or nil for other roles.
func (a *Agent) Fighter() *Fighter { return a.fighter }

// Munition returns the munition pilot, or nil for other roles.
func (a *Agent) Munition() *Munition { return a.munition }

// Tick runs one guidance cycle on the active role.
func (a *Agent) Tick() {
	switch a.role {
	case RoleMunition:
		a.munition.Tick()
	default:
		a.fighter.Tick()
	}
}
