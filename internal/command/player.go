package command

import (
	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// HireAgents recruits Count new agents.
type HireAgents struct {
	Count int
}

func (HireAgents) Type() events.Type { return events.TypeHireAgents }

func (c HireAgents) Validate(gs *state.GameState, r ruleset.Ruleset) error {
	if c.Count <= 0 {
		return New(CodeInvalidAmount, "hire count must be positive, got %d", c.Count).WithMetadata("count", c.Count)
	}
	if cost := r.HireCost(c.Count); gs.Assets.Money < cost {
		return New(CodeInsufficientFunds, "hiring %d agents costs %d, have %d", c.Count, cost, gs.Assets.Money).
			WithMetadata("cost", cost)
	}
	return nil
}

func (c HireAgents) Apply(env *Env) {
	gs := env.State
	gs.Assets.Money -= env.Rules.HireCost(c.Count)
	hired := env.IDs.Agents.Hire(c.Count, gs.Turn())
	gs.Assets.Agents = append(gs.Assets.Agents, hired...)
	env.Record(c.Type(), intIDs(agents.Roster(hired).IDs()), events.Target(len(gs.Assets.Agents)))
}

// BuyTransportCapacity raises maximum transport capacity by Amount. The new
// capacity is usable immediately.
type BuyTransportCapacity struct {
	Amount int
}

func (BuyTransportCapacity) Type() events.Type { return events.TypeBuyTransportCapacity }

func (c BuyTransportCapacity) Validate(gs *state.GameState, r ruleset.Ruleset) error {
	if c.Amount <= 0 {
		return New(CodeInvalidAmount, "transport amount must be positive, got %d", c.Amount).WithMetadata("amount", c.Amount)
	}
	if cost := r.TransportCost(c.Amount); gs.Assets.Money < cost {
		return New(CodeInsufficientFunds, "%d transport capacity costs %d, have %d", c.Amount, cost, gs.Assets.Money).
			WithMetadata("cost", cost)
	}
	return nil
}

func (c BuyTransportCapacity) Apply(env *Env) {
	a := &env.State.Assets
	a.Money -= env.Rules.TransportCost(c.Amount)
	a.MaxTransportCapacity += c.Amount
	a.CurrentTransportCapacity += c.Amount
	env.Record(c.Type(), nil, events.Target(a.MaxTransportCapacity))
}

// LaunchMission sends agents against an active mission site.
type LaunchMission struct {
	SiteID   missions.SiteID
	AgentIDs []agents.AgentID
}

func (LaunchMission) Type() events.Type { return events.TypeLaunchMission }

func (c LaunchMission) Validate(gs *state.GameState, _ ruleset.Ruleset) error {
	site, ok := gs.MissionSites.Get(c.SiteID)
	if !ok {
		return New(CodeUnknownSite, "no mission site %d", c.SiteID).WithMetadata("site", c.SiteID)
	}
	if !site.Active {
		return New(CodeUnknownSite, "mission site %d is no longer active", c.SiteID).WithMetadata("site", c.SiteID)
	}
	sent, err := lookup(gs, c.AgentIDs)
	if err != nil {
		return err
	}
	for _, a := range sent {
		if a.IsDeployed() {
			return onMission(a)
		}
		if !a.CanLaunch() {
			return ineligible(a, "launched")
		}
	}
	if n := len(sent); n > gs.Assets.CurrentTransportCapacity {
		return New(CodeInsufficientCapacity, "launching %d agents needs transport for %d, have %d",
			n, n, gs.Assets.CurrentTransportCapacity).WithMetadata("needed", n)
	}
	return nil
}

func (c LaunchMission) Apply(env *Env) {
	gs := env.State
	site, _ := gs.MissionSites.Get(c.SiteID)
	id := env.IDs.NextMission()

	for _, agentID := range c.AgentIDs {
		a, _ := gs.Assets.Agents.Get(agentID)
		gs.UpdateAgent(must(a.Launch(int(id))))
	}
	gs.Missions = append(gs.Missions, missions.Mission{
		ID:                id,
		SiteID:            site.ID,
		AgentIDs:          append([]agents.AgentID{}, c.AgentIDs...),
		TurnLaunched:      gs.Turn(),
		Status:            missions.StatusActive,
		RequiredSurvivors: env.Rules.RequiredSurvivors(site.Difficulty),
		Outcomes:          []missions.Outcome{},
	})
	gs.UpdateSite(site.Deploy(int(id)))
	gs.Assets.CurrentTransportCapacity -= len(c.AgentIDs)
	env.Record(c.Type(), intIDs(c.AgentIDs), events.Target(int(site.ID)))
}

// RecallAgents returns agents on a duty to Available.
type RecallAgents struct {
	AgentIDs []agents.AgentID
}

func (RecallAgents) Type() events.Type { return events.TypeRecallAgents }

func (c RecallAgents) Validate(gs *state.GameState, _ ruleset.Ruleset) error {
	recalled, err := lookup(gs, c.AgentIDs)
	if err != nil {
		return err
	}
	for _, a := range recalled {
		if a.IsDeployed() {
			return onMission(a)
		}
		if !a.CanRecall() {
			return ineligible(a, "recalled")
		}
	}
	return nil
}

func (c RecallAgents) Apply(env *Env) {
	gs := env.State
	for _, id := range c.AgentIDs {
		a, _ := gs.Assets.Agents.Get(id)
		gs.UpdateAgent(must(a.Recall()))
	}
	env.Record(c.Type(), intIDs(c.AgentIDs), nil)
}

// SackAgents discharges agents. Agents travelling to or on a mission cannot
// be sacked.
type SackAgents struct {
	AgentIDs []agents.AgentID
}

func (SackAgents) Type() events.Type { return events.TypeSackAgents }

func (c SackAgents) Validate(gs *state.GameState, _ ruleset.Ruleset) error {
	sacked, err := lookup(gs, c.AgentIDs)
	if err != nil {
		return err
	}
	for _, a := range sacked {
		if a.IsDeployed() {
			return onMission(a)
		}
		if !a.CanSack() {
			return ineligible(a, "sacked")
		}
	}
	return nil
}

func (c SackAgents) Apply(env *Env) {
	gs := env.State
	for _, id := range c.AgentIDs {
		a, _ := gs.Assets.Agents.Get(id)
		gs.Terminate(must(a.Sack(gs.Turn())))
	}
	env.Record(c.Type(), intIDs(c.AgentIDs), events.Target(len(gs.Assets.Agents)))
}

// AssignDuty puts agents on one of the three duties. The exported
// constructors below are the only way to build one.
type AssignDuty struct {
	Duty     agents.State
	AgentIDs []agents.AgentID
}

// SendAgentsToTraining assigns agents to training.
func SendAgentsToTraining(ids ...agents.AgentID) AssignDuty {
	return AssignDuty{Duty: agents.StateTraining, AgentIDs: ids}
}

// SendAgentsToGenerateIncome assigns agents to earn money.
func SendAgentsToGenerateIncome(ids ...agents.AgentID) AssignDuty {
	return AssignDuty{Duty: agents.StateGeneratingIncome, AgentIDs: ids}
}

// SendAgentsToGatherIntel assigns agents to gather intel.
func SendAgentsToGatherIntel(ids ...agents.AgentID) AssignDuty {
	return AssignDuty{Duty: agents.StateGatheringIntel, AgentIDs: ids}
}

var dutyTypes = map[agents.State]events.Type{
	agents.StateTraining:         events.TypeSendAgentsToTraining,
	agents.StateGeneratingIncome: events.TypeSendAgentsToGenerateIncome,
	agents.StateGatheringIntel:   events.TypeSendAgentsToGatherIntel,
}

func (c AssignDuty) Type() events.Type { return dutyTypes[c.Duty] }

func (c AssignDuty) Validate(gs *state.GameState, _ ruleset.Ruleset) error {
	if !c.Duty.IsDuty() {
		return New(CodeMalformedCommand, "%s is not a duty", c.Duty)
	}
	assigned, err := lookup(gs, c.AgentIDs)
	if err != nil {
		return err
	}
	turn := gs.Turn()
	for _, a := range assigned {
		if a.IsDeployed() {
			return onMission(a)
		}
		if a.LastAssignedTurn == turn {
			return New(CodeAlreadyAssigned, "agent %d was already assigned on turn %d", a.ID, turn).
				WithMetadata("agent", a.ID)
		}
		if !a.CanAssign(turn) {
			return ineligible(a, "assigned")
		}
	}
	return nil
}

func (c AssignDuty) Apply(env *Env) {
	gs := env.State
	for _, id := range c.AgentIDs {
		a, _ := gs.Assets.Agents.Get(id)
		gs.UpdateAgent(must(a.Assign(c.Duty, gs.Turn())))
	}
	env.Record(c.Type(), intIDs(c.AgentIDs), nil)
}

// InvestIntel spends intel against a faction to slow its growth.
type InvestIntel struct {
	FactionID factions.FactionID
	Amount    int
}

func (InvestIntel) Type() events.Type { return events.TypeInvestIntel }

func (c InvestIntel) Validate(gs *state.GameState, _ ruleset.Ruleset) error {
	f, ok := gs.Factions.Get(c.FactionID)
	if !ok || f.IsPlaceholder() {
		return New(CodeUnknownFaction, "no faction %d", c.FactionID).WithMetadata("faction", c.FactionID)
	}
	if f.IsDefeated() {
		return New(CodeUnknownFaction, "faction %d is already defeated", c.FactionID).WithMetadata("faction", c.FactionID)
	}
	if c.Amount <= 0 {
		return New(CodeInvalidAmount, "intel amount must be positive, got %d", c.Amount).WithMetadata("amount", c.Amount)
	}
	if gs.Assets.Intel < c.Amount {
		return New(CodeInsufficientIntel, "investing %d intel, have %d", c.Amount, gs.Assets.Intel).
			WithMetadata("amount", c.Amount)
	}
	return nil
}

func (c InvestIntel) Apply(env *Env) {
	gs := env.State
	f, _ := gs.Factions.Get(c.FactionID)
	gs.Assets.Intel -= c.Amount
	gs.UpdateFaction(f.Invest(c.Amount))
	env.Record(c.Type(), []int{int(c.FactionID)}, events.Target(c.Amount))
}

// lookup resolves a non-empty list of distinct living agents.
func lookup(gs *state.GameState, ids []agents.AgentID) ([]agents.Agent, error) {
	if len(ids) == 0 {
		return nil, New(CodeInsufficientAgents, "no agents given")
	}
	seen := make(map[agents.AgentID]bool, len(ids))
	out := make([]agents.Agent, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, New(CodeDuplicateAgent, "agent %d listed twice", id).WithMetadata("agent", id)
		}
		seen[id] = true
		a, ok := gs.Assets.Agents.Get(id)
		if !ok {
			if _, dead := gs.TerminatedAgents.Get(id); dead {
				return nil, New(CodeIneligibleAgent, "agent %d is terminated", id).WithMetadata("agent", id)
			}
			return nil, New(CodeUnknownAgent, "no agent %d", id).WithMetadata("agent", id)
		}
		out = append(out, a)
	}
	return out, nil
}

func onMission(a agents.Agent) *Error {
	return New(CodeAgentOnMission, "agent %d is on mission %d", a.ID, a.MissionID).WithMetadata("agent", a.ID)
}

func ineligible(a agents.Agent, verb string) *Error {
	return New(CodeIneligibleAgent, "agent %d cannot be %s while %s", a.ID, verb, a.State).WithMetadata("agent", a.ID)
}

func intIDs[T ~int](ids []T) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
