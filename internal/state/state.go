// Package state holds the per-turn aggregate of a game. A GameState is built
// by cloning the previous one and applying changes to the clone; once a newer
// state exists the older one is marked past and never changes again.
package state

import (
	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
)

// Timeline tracks game time. TurnLimit 0 means the game never times out.
type Timeline struct {
	CurrentTurn int `json:"CurrentTurn"`
	TurnLimit   int `json:"TurnLimit"`
}

// Assets are the organization's resources and staff.
type Assets struct {
	Money   int `json:"Money"`
	Intel   int `json:"Intel"`
	Funding int `json:"Funding"`
	Support int `json:"Support"`

	MaxTransportCapacity     int `json:"MaxTransportCapacity"`
	CurrentTransportCapacity int `json:"CurrentTransportCapacity"`

	Agents agents.Roster `json:"Agents"`
}

// GameState is the aggregate root for one turn.
type GameState struct {
	UpdateCount      int            `json:"UpdateCount"`
	Timeline         Timeline       `json:"Timeline"`
	Assets           Assets         `json:"Assets"`
	MissionSites     missions.Sites `json:"MissionSites"`
	Missions         missions.List  `json:"Missions"`
	Factions         factions.List  `json:"Factions"`
	TerminatedAgents agents.Roster  `json:"TerminatedAgents"`

	past bool
}

// New builds the opening state of a game.
func New(r ruleset.Ruleset, fs factions.List) *GameState {
	return &GameState{
		Timeline: Timeline{CurrentTurn: 1, TurnLimit: r.MaxTurnLimit},
		Assets: Assets{
			Money:                    r.InitialMoney,
			Intel:                    r.InitialIntel,
			Funding:                  r.InitialFunding,
			Support:                  r.InitialSupport,
			MaxTransportCapacity:     r.InitialTransportCapacity,
			CurrentTransportCapacity: r.InitialTransportCapacity,
			Agents:                   agents.Roster{},
		},
		MissionSites:     missions.Sites{},
		Missions:         missions.List{},
		Factions:         fs.Clone(),
		TerminatedAgents: agents.Roster{},
	}
}

// Clone returns a live deep copy with the next update count.
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.UpdateCount = gs.UpdateCount + 1
	out.Assets.Agents = gs.Assets.Agents.Clone()
	out.MissionSites = gs.MissionSites.Clone()
	out.Missions = gs.Missions.Clone()
	out.Factions = gs.Factions.Clone()
	out.TerminatedAgents = gs.TerminatedAgents.Clone()
	out.past = false
	return &out
}

// Reopen returns an unfrozen copy of gs carrying the same update count.
// Undo uses it to make an earlier state the head again.
func (gs *GameState) Reopen() *GameState {
	out := gs.Clone()
	out.UpdateCount = gs.UpdateCount
	return out
}

// IsPast reports whether a newer state has superseded this one.
func (gs *GameState) IsPast() bool { return gs.past }

// MarkPast freezes the state.
func (gs *GameState) MarkPast() { gs.past = true }

// MustBeLive panics when gs has been superseded. Every mutation path calls it
// before touching the state.
func (gs *GameState) MustBeLive() {
	if gs.past {
		panic(violation("mutating past state %d", gs.UpdateCount))
	}
}

// Turn is the current turn.
func (gs *GameState) Turn() int { return gs.Timeline.CurrentTurn }

// IsGameLost reports whether the organization has collapsed: public support
// is gone or it is in debt.
func (gs *GameState) IsGameLost() bool {
	return gs.Assets.Support <= 0 || gs.Assets.Money < 0
}

// IsGameWon reports whether every real faction has been defeated.
func (gs *GameState) IsGameWon() bool {
	return !gs.IsGameLost() && gs.Factions.AllDefeated()
}

// IsTimedOut reports whether the turn limit has been passed.
func (gs *GameState) IsTimedOut() bool {
	return gs.Timeline.TurnLimit > 0 && gs.Timeline.CurrentTurn > gs.Timeline.TurnLimit
}

// IsGameOver reports whether the game has reached a terminal state.
func (gs *GameState) IsGameOver() bool {
	return gs.IsGameLost() || gs.IsGameWon() || gs.IsTimedOut()
}

// AllAgents returns living and terminated agents ordered by id.
func (gs *GameState) AllAgents() agents.Roster {
	all := make(agents.Roster, 0, len(gs.Assets.Agents)+len(gs.TerminatedAgents))
	live, dead := gs.Assets.Agents, gs.TerminatedAgents
	for len(live) > 0 || len(dead) > 0 {
		if len(dead) == 0 || (len(live) > 0 && live[0].ID < dead[0].ID) {
			all = append(all, live[0])
			live = live[1:]
			continue
		}
		all = append(all, dead[0])
		dead = dead[1:]
	}
	return all
}

// UpdateAgent replaces the roster entry with a's id.
func (gs *GameState) UpdateAgent(a agents.Agent) {
	gs.MustBeLive()
	i := gs.Assets.Agents.Find(a.ID)
	if i < 0 {
		panic(violation("update of unknown agent %d", a.ID))
	}
	gs.Assets.Agents[i] = a
}

// Terminate moves a terminated agent from the roster to the terminated
// history, keeping both ordered by id.
func (gs *GameState) Terminate(a agents.Agent) {
	gs.MustBeLive()
	if a.State != agents.StateTerminated {
		panic(violation("agent %d terminated in state %s", a.ID, a.State))
	}
	i := gs.Assets.Agents.Find(a.ID)
	if i < 0 {
		panic(violation("termination of unknown agent %d", a.ID))
	}
	gs.Assets.Agents = append(gs.Assets.Agents[:i], gs.Assets.Agents[i+1:]...)

	j := len(gs.TerminatedAgents)
	for j > 0 && gs.TerminatedAgents[j-1].ID > a.ID {
		j--
	}
	gs.TerminatedAgents = append(gs.TerminatedAgents, agents.Agent{})
	copy(gs.TerminatedAgents[j+1:], gs.TerminatedAgents[j:])
	gs.TerminatedAgents[j] = a
}

// UpdateSite replaces the site with s's id.
func (gs *GameState) UpdateSite(s missions.Site) {
	gs.MustBeLive()
	i := gs.MissionSites.Find(s.ID)
	if i < 0 {
		panic(violation("update of unknown site %d", s.ID))
	}
	gs.MissionSites[i] = s
}

// UpdateMission replaces the mission with m's id.
func (gs *GameState) UpdateMission(m missions.Mission) {
	gs.MustBeLive()
	i := gs.Missions.Find(m.ID)
	if i < 0 {
		panic(violation("update of unknown mission %d", m.ID))
	}
	gs.Missions[i] = m
}

// UpdateFaction replaces the faction with f's id.
func (gs *GameState) UpdateFaction(f factions.Faction) {
	gs.MustBeLive()
	i := gs.Factions.Find(f.ID)
	if i < 0 {
		panic(violation("update of unknown faction %d", f.ID))
	}
	gs.Factions[i] = f
}
