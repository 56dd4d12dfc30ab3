package command

import (
	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// Game over outcomes carried in the TargetId of a GameOver event.
const (
	GameOverLost      = 0
	GameOverWon       = 1
	GameOverTurnLimit = 2
)

// AdvanceTime ends the turn. Everything the world does on its own happens
// here, in a fixed order:
//
//  1. the turn counter moves on
//  2. agents train and heal, missions progress and resolve
//  3. money and intel are settled
//  4. sites expire, factions grow and spawn new sites
//  5. transport capacity is restored
type AdvanceTime struct{}

func (AdvanceTime) Type() events.Type { return events.TypeAdvanceTime }

func (AdvanceTime) Validate(*state.GameState, ruleset.Ruleset) error { return nil }

func (c AdvanceTime) Apply(env *Env) {
	gs := env.State
	gs.Timeline.CurrentTurn++
	env.Record(c.Type(), nil, events.Target(gs.Turn()))

	progressAgents(env)
	progressMissions(env)
	settleEconomy(env)
	expireSites(env)
	growFactions(env)

	gs.Assets.CurrentTransportCapacity = gs.Assets.MaxTransportCapacity

	if gs.IsGameOver() {
		outcome := GameOverTurnLimit
		switch {
		case gs.IsGameLost():
			outcome = GameOverLost
		case gs.IsGameWon():
			outcome = GameOverWon
		}
		env.Record(events.TypeGameOver, nil, events.Target(outcome))
	}
}

func progressAgents(env *Env) {
	gs := env.State
	for _, a := range gs.Assets.Agents {
		next, recovered := a.Progress(env.Rules.RecoverySpeed)
		if next == a {
			continue
		}
		gs.UpdateAgent(next)
		if recovered {
			env.Record(events.TypeAgentRecovered, []int{int(a.ID)}, nil)
		}
	}
}

// progressMissions moves each active mission one step: agents in transit
// arrive, and agents that arrived on an earlier turn fight it out.
func progressMissions(env *Env) {
	gs := env.State
	for _, m := range gs.Missions.Active() {
		first, ok := gs.Assets.Agents.Get(m.AgentIDs[0])
		if !ok {
			panic(&state.InvariantError{Message: "active mission without its agents"})
		}
		switch first.State {
		case agents.StateInTransit:
			for _, id := range m.AgentIDs {
				a, _ := gs.Assets.Agents.Get(id)
				gs.UpdateAgent(must(a.Arrive()))
			}
		case agents.StateOnMission:
			resolveMission(env, m)
		}
	}
}

func resolveMission(env *Env, m missions.Mission) {
	gs := env.State
	site, _ := gs.MissionSites.Get(m.SiteID)
	m = missions.Resolve(m, site, gs.Assets.Agents, gs.Turn(), env.Rules, env.Source)
	gs.UpdateMission(m)

	var dead []int
	for _, o := range m.Outcomes {
		a, _ := gs.Assets.Agents.Get(o.AgentID)
		if o.Survived {
			gs.UpdateAgent(must(a.Survive(float64(o.RecoveryTurns))))
			continue
		}
		gs.Terminate(must(a.Perish(gs.Turn())))
		dead = append(dead, int(o.AgentID))
	}

	mods := site.Modifiers
	if m.Status == missions.StatusSuccessful {
		gs.Assets.Money += mods.MoneyReward
		gs.Assets.Intel += mods.IntelReward
		funding, support := ruleset.SuccessDeltas(mods)
		applyStanding(gs, funding, support)
		env.Record(events.TypeMissionSuccessful, []int{int(m.ID)}, events.Target(int(site.ID)))

		if f, ok := gs.Factions.Get(site.FactionID); ok && f.IsActive() {
			f = f.Damage(mods.PowerDamage)
			gs.UpdateFaction(f)
			if f.IsDefeated() {
				env.Record(events.TypeFactionDefeated, []int{int(f.ID)}, nil)
			}
		}
	} else {
		funding, support := ruleset.FailureDeltas(mods)
		applyStanding(gs, funding, support)
		env.Record(events.TypeMissionFailed, []int{int(m.ID)}, events.Target(int(site.ID)))
	}
	if len(dead) > 0 {
		env.Record(events.TypeAgentTerminated, dead, events.Target(int(m.ID)))
	}
}

func applyStanding(gs *state.GameState, funding, support int) {
	gs.Assets.Funding = max(0, gs.Assets.Funding+funding)
	gs.Assets.Support += support
}

func settleEconomy(env *Env) {
	gs := env.State
	roster := gs.Assets.Agents
	gs.Assets.Money += env.Rules.MoneyDelta(gs.Assets.Funding, len(roster.GeneratingIncome()), len(roster))
	gs.Assets.Intel += env.Rules.IntelDelta(len(roster.GatheringIntel()))
}

func expireSites(env *Env) {
	gs := env.State
	for _, s := range gs.MissionSites.Active() {
		next, expired := s.CountDown()
		gs.UpdateSite(next)
		if expired {
			funding, support := ruleset.ExpiryDeltas(s.Modifiers)
			applyStanding(gs, funding, support)
			env.Record(events.TypeMissionSiteExpired, []int{int(s.ID)}, events.Target(int(s.FactionID)))
		}
	}
}

func growFactions(env *Env) {
	gs := env.State
	lo, hi := env.Rules.SiteCountdownBounds()
	for _, f := range gs.Factions {
		if !f.IsActive() {
			continue
		}
		var due bool
		f, due = f.Grow(env.Rules).CountDown()
		if due {
			site := missions.NewSite(env.IDs.NextSite(), f, gs.Turn(), env.Rules, env.Source)
			gs.MissionSites = append(gs.MissionSites, site)
			f = f.ResetCountdown(entropy.Range(env.Source, lo, hi))
			env.Record(events.TypeMissionSiteSpawned, []int{int(site.ID)}, events.Target(int(f.ID)))
		}
		gs.UpdateFaction(f)
	}
}
