package intellect

import (
	"sort"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// hire grows the roster towards a headcount the transport fleet can use and
// the budget can carry.
func hire(gs *state.GameState, r ruleset.Ruleset, t Tuning) []command.Action {
	a := gs.Assets
	desired := a.MaxTransportCapacity * t.ReserveMultiplier
	if r.AgentUpkeepCost > 0 && t.RunwayTurns > 0 {
		earners := len(a.Agents.GeneratingIncome())
		sustainable := (a.Funding+earners*r.AgentIncome)/r.AgentUpkeepCost +
			max(0, a.Money)/(r.AgentUpkeepCost*t.RunwayTurns)
		desired = min(desired, sustainable)
	}
	if r.AgentHireCost <= 0 {
		return nil
	}
	affordable := (a.Money - t.MoneyReserve) / r.AgentHireCost
	n := min(desired-len(a.Agents), affordable)
	if n <= 0 {
		return nil
	}
	return []command.Action{command.HireAgents{Count: n}}
}

// dutyTargets splits a workforce across the three duties by how much money
// is in the bank.
func dutyTargets(workforce, money int, t Tuning) map[agents.State]int {
	targets := map[agents.State]int{}
	switch {
	case money < t.LowMoney:
		targets[agents.StateGeneratingIncome] = workforce
	case money < t.HighMoney:
		targets[agents.StateGeneratingIncome] = (workforce + 1) / 2
		targets[agents.StateGatheringIntel] = workforce / 2
	default:
		targets[agents.StateGatheringIntel] = workforce / 2
		targets[agents.StateTraining] = (workforce + 1) / 2
	}
	return targets
}

var duties = []agents.State{
	agents.StateGeneratingIncome,
	agents.StateGatheringIntel,
	agents.StateTraining,
}

func workforce(roster agents.Roster) int {
	return len(roster.Available()) + len(roster.Recallable())
}

// recall frees agents whose duty is overstaffed for the current budget.
func recall(gs *state.GameState, _ ruleset.Ruleset, t Tuning) []command.Action {
	roster := gs.Assets.Agents
	targets := dutyTargets(workforce(roster), gs.Assets.Money, t)
	var ids []agents.AgentID
	for _, d := range duties {
		on := roster.InState(d)
		if excess := len(on) - targets[d]; excess > 0 {
			ids = append(ids, on[len(on)-excess:].IDs()...)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return []command.Action{command.RecallAgents{AgentIDs: ids}}
}

// deploy sends the most skilled agents against the easiest sites first. An
// agent is only sent when its survival chance clears the floor, and a site
// is only attempted when enough such agents remain to reach the required
// survivors.
func deploy(gs *state.GameState, r ruleset.Ruleset, t Tuning) []command.Action {
	sites := gs.MissionSites.Active()
	sort.SliceStable(sites, func(i, j int) bool {
		if sites[i].Difficulty != sites[j].Difficulty {
			return sites[i].Difficulty < sites[j].Difficulty
		}
		return sites[i].ID < sites[j].ID
	})

	pool := gs.Assets.Agents.Launchable()
	sort.SliceStable(pool, func(i, j int) bool {
		si := r.SurvivalSkill(pool[i].TurnsInTraining, pool[i].MissionsSurvived)
		sj := r.SurvivalSkill(pool[j].TurnsInTraining, pool[j].MissionsSurvived)
		if si != sj {
			return si > sj
		}
		return pool[i].ID < pool[j].ID
	})

	capacity := gs.Assets.CurrentTransportCapacity
	sent := make(map[agents.AgentID]bool)
	var actions []command.Action
	for _, s := range sites {
		need := r.RequiredSurvivors(s.Difficulty)
		size := min(capacity, need+t.SpareAgents)
		if size < need {
			break
		}
		team := pickTeam(pool, sent, s, size, r, t)
		if len(team) < need {
			continue
		}
		for _, id := range team {
			sent[id] = true
		}
		capacity -= len(team)
		actions = append(actions, command.LaunchMission{SiteID: s.ID, AgentIDs: team})
	}
	return actions
}

func pickTeam(pool agents.Roster, sent map[agents.AgentID]bool, s missions.Site, size int, r ruleset.Ruleset, t Tuning) []agents.AgentID {
	var team []agents.AgentID
	for _, a := range pool {
		if len(team) == size {
			break
		}
		if sent[a.ID] {
			continue
		}
		if r.AgentSurvivalChance(s.Difficulty, a.TurnsInTraining, a.MissionsSurvived) < t.SurvivalFloor {
			// The pool is ordered by skill, so nobody after a falls above the floor.
			break
		}
		team = append(team, a.ID)
	}
	return team
}

// buyTransport adds capacity when sites are left unattended for lack of it.
func buyTransport(gs *state.GameState, r ruleset.Ruleset, t Tuning) []command.Action {
	a := gs.Assets
	if a.CurrentTransportCapacity > 0 || len(gs.MissionSites.Active()) == 0 {
		return nil
	}
	if len(a.Agents.Launchable()) == 0 || a.Money < r.TransportCost(1)+2*t.MoneyReserve {
		return nil
	}
	return []command.Action{command.BuyTransportCapacity{Amount: 1}}
}

// investIntel spends banked intel against the strongest faction.
func investIntel(gs *state.GameState, _ ruleset.Ruleset, t Tuning) []command.Action {
	if gs.Assets.Intel < t.IntelInvestThreshold || gs.Assets.Intel <= 0 {
		return nil
	}
	var target factions.Faction
	found := false
	for _, f := range gs.Factions.Active() {
		if !found || f.Power > target.Power {
			target, found = f, true
		}
	}
	if !found {
		return nil
	}
	return []command.Action{command.InvestIntel{FactionID: target.ID, Amount: gs.Assets.Intel}}
}

// assignDuties puts every idle agent to work, filling understaffed duties
// first.
func assignDuties(gs *state.GameState, _ ruleset.Ruleset, t Tuning) []command.Action {
	roster := gs.Assets.Agents
	idle := roster.Available().Filter(func(a agents.Agent) bool { return a.CanAssign(gs.Turn()) })
	if len(idle) == 0 {
		return nil
	}
	targets := dutyTargets(workforce(roster), gs.Assets.Money, t)

	assigned := make(map[agents.State][]agents.AgentID)
	next := 0
	for _, d := range duties {
		for gap := targets[d] - len(roster.InState(d)); gap > 0 && next < len(idle); gap-- {
			assigned[d] = append(assigned[d], idle[next].ID)
			next++
		}
	}
	fallback := agents.StateGeneratingIncome
	if gs.Assets.Money >= t.HighMoney {
		fallback = agents.StateTraining
	}
	for ; next < len(idle); next++ {
		assigned[fallback] = append(assigned[fallback], idle[next].ID)
	}

	var actions []command.Action
	for _, d := range duties {
		if ids := assigned[d]; len(ids) > 0 {
			actions = append(actions, command.AssignDuty{Duty: d, AgentIDs: ids})
		}
	}
	return actions
}
