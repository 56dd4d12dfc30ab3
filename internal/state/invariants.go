package state

import (
	"fmt"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
)

// InvariantError reports a state the engine should never have produced. It
// is raised with panic, never returned to players.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "state invariant violated: " + e.Message
}

func violation(format string, args ...any) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}

// Check verifies structural invariants and returns the first violation.
func (gs *GameState) Check() error {
	if gs.Timeline.CurrentTurn < 1 {
		return violation("turn %d < 1", gs.Timeline.CurrentTurn)
	}
	a := gs.Assets
	if a.Intel < 0 {
		return violation("negative intel %d", a.Intel)
	}
	if a.MaxTransportCapacity < 0 || a.CurrentTransportCapacity < 0 {
		return violation("negative transport capacity %d/%d", a.CurrentTransportCapacity, a.MaxTransportCapacity)
	}
	if a.CurrentTransportCapacity > a.MaxTransportCapacity {
		return violation("transport capacity %d above max %d", a.CurrentTransportCapacity, a.MaxTransportCapacity)
	}
	if err := gs.checkAgents(); err != nil {
		return err
	}
	if err := gs.checkSites(); err != nil {
		return err
	}
	if err := gs.checkMissions(); err != nil {
		return err
	}
	return gs.checkFactions()
}

// MustCheck panics on the first violation.
func (gs *GameState) MustCheck() {
	if err := gs.Check(); err != nil {
		panic(err)
	}
}

func (gs *GameState) checkAgents() error {
	for _, ag := range gs.Assets.Agents {
		if !ag.State.Valid() {
			return violation("agent %d has unknown state %q", ag.ID, ag.State)
		}
		if !ag.IsAlive() {
			return violation("terminated agent %d still on roster", ag.ID)
		}
		if ag.Recovery < 0 {
			return violation("agent %d has negative recovery", ag.ID)
		}
		if ag.IsDeployed() {
			m, ok := gs.Missions.Get(missions.MissionID(ag.MissionID))
			if !ok || m.IsResolved() {
				return violation("agent %d deployed without an active mission", ag.ID)
			}
		}
	}
	for _, ag := range gs.TerminatedAgents {
		if ag.IsAlive() {
			return violation("agent %d in terminated list with state %s", ag.ID, ag.State)
		}
	}
	for i, ag := range gs.AllAgents() {
		if ag.ID != agents.AgentID(i) {
			if i > 0 && ag.ID == agents.AgentID(i-1) {
				return violation("agent %d appears twice", ag.ID)
			}
			return violation("agent ids not consecutive at %d (found %d)", i, ag.ID)
		}
	}
	return nil
}

func (gs *GameState) checkSites() error {
	for i, s := range gs.MissionSites {
		if s.ID != missions.SiteID(i) {
			return violation("site ids not consecutive at %d (found %d)", i, s.ID)
		}
		if s.Difficulty < 0 {
			return violation("site %d has negative difficulty", s.ID)
		}
		if s.Active && (s.Expired || s.MissionID >= 0) {
			return violation("site %d active after removal", s.ID)
		}
	}
	return nil
}

func (gs *GameState) checkMissions() error {
	for i, m := range gs.Missions {
		if m.ID != missions.MissionID(i) {
			return violation("mission ids not consecutive at %d (found %d)", i, m.ID)
		}
		if _, ok := gs.MissionSites.Get(m.SiteID); !ok {
			return violation("mission %d references unknown site %d", m.ID, m.SiteID)
		}
		if len(m.AgentIDs) == 0 {
			return violation("mission %d has no agents", m.ID)
		}
	}
	return nil
}

func (gs *GameState) checkFactions() error {
	seen := make(map[factions.FactionID]bool, len(gs.Factions))
	for _, f := range gs.Factions {
		if seen[f.ID] {
			return violation("faction %d appears twice", f.ID)
		}
		seen[f.ID] = true
		if f.Power < 0 {
			return violation("faction %d has negative power", f.ID)
		}
		if f.IsPlaceholder() && f.Power != 0 {
			return violation("placeholder faction has power %.2f", f.Power)
		}
	}
	return nil
}
