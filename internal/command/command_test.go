package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

func newGame(countdown int) *state.GameState {
	return state.New(ruleset.Default(), factions.List{
		factions.NoFaction(),
		{ID: 1, Name: "Red Dawn", Power: 30, PowerClimb: 0.5, MissionSiteCountdown: countdown},
	})
}

func withSite(gs *state.GameState, difficulty, expiresIn int) *state.GameState {
	gs.MissionSites = append(gs.MissionSites, missions.Site{
		ID:         missions.SiteID(len(gs.MissionSites)),
		FactionID:  1,
		Difficulty: difficulty,
		ExpiresIn:  expiresIn,
		Modifiers:  ruleset.Default().SiteModifiers(difficulty),
		Active:     true,
		MissionID:  -1,
	})
	return gs
}

func apply(gs *state.GameState, src entropy.Source, actions ...Action) (*state.GameState, []events.GameEvent, error) {
	next := gs.Clone()
	env := NewEnv(next, ruleset.Default(), src, 0)
	err := Execute(env, actions...)
	return next, env.Events.Events(), err
}

func mustApply(t *testing.T, gs *state.GameState, src entropy.Source, actions ...Action) (*state.GameState, []events.GameEvent) {
	t.Helper()
	next, evs, err := apply(gs, src, actions...)
	require.NoError(t, err)
	return next, evs
}

func types(evs []events.GameEvent) []events.Type {
	out := make([]events.Type, len(evs))
	for i, e := range evs {
		out[i] = e.Type
	}
	return out
}

func TestHireAgentsCostAndUpkeep(t *testing.T) {
	src := entropy.NewScripted()
	gs, evs := mustApply(t, newGame(10), src, HireAgents{Count: 4})

	assert.Equal(t, 300, gs.Assets.Money)
	assert.Equal(t, []agents.AgentID{0, 1, 2, 3}, gs.Assets.Agents.IDs())
	require.Len(t, evs, 1)
	assert.Equal(t, []int{0, 1, 2, 3}, evs[0].IDs)
	assert.Equal(t, 4, *evs[0].TargetID)

	gs, _ = mustApply(t, gs, src, AdvanceTime{})
	assert.Equal(t, 300+20-4*5, gs.Assets.Money)
	assert.Equal(t, 2, gs.Turn())
}

func TestHireRejectedWhenBroke(t *testing.T) {
	head := newGame(10)
	_, evs, err := apply(head, entropy.NewScripted(), HireAgents{Count: 11})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, evs)
	assert.Equal(t, 500, head.Assets.Money)
	assert.Empty(t, head.Assets.Agents)
}

func TestMissionFailsAndAgentIsTerminated(t *testing.T) {
	src := entropy.NewScripted()
	gs := withSite(newGame(10), 30, 3)

	gs, _ = mustApply(t, gs, src, HireAgents{Count: 2}, LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{0, 1}})
	assert.Equal(t, 2, gs.Assets.CurrentTransportCapacity)
	assert.Len(t, gs.Assets.Agents.InTransit(), 2)
	assert.False(t, gs.MissionSites[0].Active)

	gs, _ = mustApply(t, gs, src, AdvanceTime{})
	assert.Len(t, gs.Assets.Agents.OnMission(), 2)
	assert.Equal(t, 4, gs.Assets.CurrentTransportCapacity)
	assert.Equal(t, 410, gs.Assets.Money)

	src.PushPercent(10, 77)
	gs, evs := mustApply(t, gs, src, AdvanceTime{})

	m := gs.Missions[0]
	assert.Equal(t, missions.StatusFailed, m.Status)
	require.Len(t, m.Outcomes, 2)
	assert.Equal(t, 76, m.Outcomes[0].Chance)
	assert.True(t, m.Outcomes[0].Survived)
	assert.False(t, m.Outcomes[1].Survived)

	assert.Equal(t, []agents.AgentID{0}, gs.Assets.Agents.Available().IDs())
	assert.Equal(t, []agents.AgentID{1}, gs.TerminatedAgents.IDs())
	assert.Equal(t, 30-8, gs.Assets.Support)
	assert.Equal(t, 20-2, gs.Assets.Funding, "failure costs funding before settlement")
	assert.Equal(t, 410+18-5, gs.Assets.Money)
	assert.Equal(t, []events.Type{
		events.TypeAdvanceTime,
		events.TypeMissionFailed,
		events.TypeAgentTerminated,
	}, types(evs))
	assert.Equal(t, []int{1}, evs[2].IDs)
}

func TestMissionSucceedsAndDamagesFaction(t *testing.T) {
	src := entropy.NewScripted()
	gs := withSite(newGame(10), 30, 3)
	gs, _ = mustApply(t, gs, src, HireAgents{Count: 2}, LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{0, 1}})
	gs, _ = mustApply(t, gs, src, AdvanceTime{})

	src.PushPercent(10, 76)
	gs, evs := mustApply(t, gs, src, AdvanceTime{})

	assert.Equal(t, missions.StatusSuccessful, gs.Missions[0].Status)
	assert.Equal(t, 22, gs.Assets.Funding)
	assert.Equal(t, 38, gs.Assets.Support)
	assert.Equal(t, 15, gs.Assets.Intel)
	assert.Equal(t, 410+60+22-10, gs.Assets.Money)
	assert.InDelta(t, 30.5-4.5+0.5, gs.Factions[1].Power, 1e-9)

	recovering, ok := gs.Assets.Agents.Get(1)
	require.True(t, ok)
	assert.Equal(t, agents.StateRecovering, recovering.State)
	assert.InDelta(t, 4.0, recovering.Recovery, 1e-9)
	assert.Equal(t, 1, recovering.MissionsSurvived)
	assert.Contains(t, types(evs), events.TypeMissionSuccessful)

	for i := 0; i < 4; i++ {
		gs, evs = mustApply(t, gs, src, AdvanceTime{})
	}
	recovered, _ := gs.Assets.Agents.Get(1)
	assert.Equal(t, agents.StateAvailable, recovered.State)
	assert.Contains(t, types(evs), events.TypeAgentRecovered)
}

func TestSiteExpiryPenalizesOnce(t *testing.T) {
	src := entropy.NewScripted()
	gs := withSite(newGame(10), 30, 1)

	gs, evs := mustApply(t, gs, src, AdvanceTime{})
	assert.Equal(t, 18, gs.Assets.Funding)
	assert.Equal(t, 22, gs.Assets.Support)
	assert.True(t, gs.MissionSites[0].Expired)
	assert.Contains(t, types(evs), events.TypeMissionSiteExpired)

	gs, evs = mustApply(t, gs, src, AdvanceTime{})
	assert.Equal(t, 18, gs.Assets.Funding)
	assert.Equal(t, 22, gs.Assets.Support)
	assert.NotContains(t, types(evs), events.TypeMissionSiteExpired)
	assert.Len(t, gs.MissionSites, 1)
}

func TestFactionSpawnsSite(t *testing.T) {
	gs := newGame(1)
	gs.Factions[1].PowerClimb = 0
	src := entropy.NewScripted().PushFloat(0.5).PushInt(2)

	gs, evs := mustApply(t, gs, src, AdvanceTime{})

	require.Len(t, gs.MissionSites, 1)
	site := gs.MissionSites[0]
	assert.Equal(t, 30, site.Difficulty)
	assert.Equal(t, 2, site.TurnAppeared)
	assert.True(t, site.Active)
	assert.Equal(t, 5, gs.Factions[1].MissionSiteCountdown)
	assert.Equal(t, []events.Type{events.TypeAdvanceTime, events.TypeMissionSiteSpawned}, types(evs))
	assert.Equal(t, 1, *evs[1].TargetID)
	assert.Zero(t, src.Remaining())
}

func TestPlaceholderFactionNeverActs(t *testing.T) {
	src := entropy.NewScripted()
	gs := newGame(10)
	for i := 0; i < 5; i++ {
		gs, _ = mustApply(t, gs, src, AdvanceTime{})
	}
	assert.Equal(t, factions.NoFaction(), gs.Factions[0])
	assert.Zero(t, src.IntDraws+src.FloatDraws)
}

func TestGameOverRejectsFurtherCommands(t *testing.T) {
	src := entropy.NewScripted()
	gs := withSite(newGame(10), 30, 1)
	gs.Assets.Support = 8

	gs, evs := mustApply(t, gs, src, AdvanceTime{})
	assert.True(t, gs.IsGameLost())
	last := evs[len(evs)-1]
	assert.Equal(t, events.TypeGameOver, last.Type)
	assert.Equal(t, GameOverLost, *last.TargetID)

	_, _, err := apply(gs, src, HireAgents{Count: 1})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestValidationErrors(t *testing.T) {
	src := entropy.NewScripted()
	base := withSite(withSite(newGame(10), 30, 3), 30, 3)
	base, _ = mustApply(t, base, src,
		HireAgents{Count: 3},
		LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{0}},
		SendAgentsToTraining(1),
	)

	cases := []struct {
		name   string
		prep   func(gs *state.GameState)
		action Action
		want   error
	}{
		{name: "hire zero", action: HireAgents{}, want: ErrInvalidAmount},
		{name: "hire too many", action: HireAgents{Count: 20}, want: ErrInsufficientFunds},
		{name: "transport too expensive", action: BuyTransportCapacity{Amount: 3}, want: ErrInsufficientFunds},
		{name: "unknown site", action: LaunchMission{SiteID: 9, AgentIDs: []agents.AgentID{2}}, want: ErrUnknownSite},
		{name: "inactive site", action: LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{2}}, want: ErrUnknownSite},
		{name: "no agents", action: LaunchMission{SiteID: 1}, want: ErrInsufficientAgents},
		{name: "duplicate", action: LaunchMission{SiteID: 1, AgentIDs: []agents.AgentID{2, 2}}, want: ErrDuplicateAgent},
		{name: "unknown agent", action: LaunchMission{SiteID: 1, AgentIDs: []agents.AgentID{7}}, want: ErrUnknownAgent},
		{name: "already deployed", action: LaunchMission{SiteID: 1, AgentIDs: []agents.AgentID{0}}, want: ErrAgentOnMission},
		{
			name:   "no capacity",
			prep:   func(gs *state.GameState) { gs.Assets.CurrentTransportCapacity = 1 },
			action: LaunchMission{SiteID: 1, AgentIDs: []agents.AgentID{1, 2}},
			want:   ErrInsufficientCapacity,
		},
		{name: "sack deployed", action: SackAgents{AgentIDs: []agents.AgentID{0}}, want: ErrAgentOnMission},
		{name: "assign twice", action: SendAgentsToGatherIntel(1), want: ErrAlreadyAssigned},
		{name: "recall idle", action: RecallAgents{AgentIDs: []agents.AgentID{2}}, want: ErrIneligibleAgent},
		{name: "invest placeholder", action: InvestIntel{FactionID: 0, Amount: 1}, want: ErrUnknownFaction},
		{name: "invest unknown", action: InvestIntel{FactionID: 5, Amount: 1}, want: ErrUnknownFaction},
		{name: "invest zero", action: InvestIntel{FactionID: 1}, want: ErrInvalidAmount},
		{name: "invest without intel", action: InvestIntel{FactionID: 1, Amount: 5}, want: ErrInsufficientIntel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs := base.Clone()
			if tc.prep != nil {
				tc.prep(gs)
			}
			_, evs, err := apply(gs, src, tc.action)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, evs)
		})
	}
}

func TestSackedAgentMovesToHistory(t *testing.T) {
	src := entropy.NewScripted()
	gs, _ := mustApply(t, newGame(10), src, HireAgents{Count: 2})
	gs, evs := mustApply(t, gs, src, SackAgents{AgentIDs: []agents.AgentID{0}})

	assert.Equal(t, []agents.AgentID{1}, gs.Assets.Agents.IDs())
	require.Len(t, gs.TerminatedAgents, 1)
	assert.True(t, gs.TerminatedAgents[0].Sacked)
	assert.Equal(t, 1, *evs[0].TargetID)

	_, _, err := apply(gs, src, RecallAgents{AgentIDs: []agents.AgentID{0}})
	assert.ErrorIs(t, err, ErrIneligibleAgent)
}

func TestDutiesSettleIncomeAndIntel(t *testing.T) {
	src := entropy.NewScripted()
	gs, _ := mustApply(t, newGame(10), src,
		HireAgents{Count: 3},
		SendAgentsToGenerateIncome(0),
		SendAgentsToGatherIntel(1),
		SendAgentsToTraining(2),
		AdvanceTime{},
	)
	assert.Equal(t, 350+20+10-15, gs.Assets.Money)
	assert.Equal(t, 5, gs.Assets.Intel)
	trainee, _ := gs.Assets.Agents.Get(2)
	assert.Equal(t, 1, trainee.TurnsInTraining)

	gs, _ = mustApply(t, gs, src, RecallAgents{AgentIDs: []agents.AgentID{0}}, InvestIntel{FactionID: 1, Amount: 5})
	assert.Zero(t, gs.Assets.Intel)
	assert.Equal(t, 5, gs.Factions[1].IntelInvested)
	assert.Equal(t, agents.StateAvailable, gs.Assets.Agents[0].State)
}

func TestAgentsAreConservedUnderPlay(t *testing.T) {
	src := entropy.NewSeeded(42)
	gs := newGame(1)
	hired := 0

	for turn := 0; turn < 40 && !gs.IsGameOver(); turn++ {
		var batch []Action
		if gs.Assets.Money >= 100 {
			batch = append(batch, HireAgents{Count: 1})
			hired++
		}
		next, _ := mustApply(t, gs, src, batch...)

		if sites := next.MissionSites.Active(); len(sites) > 0 {
			ready := next.Assets.Agents.Launchable().IDs()
			if n := min(len(ready), next.Assets.CurrentTransportCapacity); n > 0 {
				next, _ = mustApply(t, next, src, LaunchMission{SiteID: sites[0].ID, AgentIDs: ready[:n]})
			}
		}
		gs, _ = mustApply(t, next, src, AdvanceTime{})

		total := 0
		for _, n := range gs.Assets.Agents.CountByState() {
			total += n
		}
		assert.Equal(t, len(gs.Assets.Agents), total)
		assert.Equal(t, hired, len(gs.Assets.Agents)+len(gs.TerminatedAgents))
		assert.Equal(t, gs.Assets.MaxTransportCapacity, gs.Assets.CurrentTransportCapacity)
	}
}
