package intellect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/intellect/mocks"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

func newGame() *state.GameState {
	return state.New(ruleset.Default(), factions.List{
		factions.NoFaction(),
		{ID: 1, Name: "Red Dawn", Power: 30, PowerClimb: 0.5, MissionSiteCountdown: 10},
		{ID: 2, Name: "EXALT", Power: 45, PowerClimb: 0.5, MissionSiteCountdown: 10},
	})
}

func withAgents(gs *state.GameState, n int, st agents.State) *state.GameState {
	for _, a := range state.SeedIDs(gs).Agents.Hire(n, 1) {
		a.State = st
		gs.Assets.Agents = append(gs.Assets.Agents, a)
	}
	return gs
}

func withSite(gs *state.GameState, difficulty int) *state.GameState {
	gs.MissionSites = append(gs.MissionSites, missions.Site{
		ID:         missions.SiteID(len(gs.MissionSites)),
		FactionID:  1,
		Difficulty: difficulty,
		ExpiresIn:  3,
		Modifiers:  ruleset.Default().SiteModifiers(difficulty),
		Active:     true,
		MissionID:  -1,
	})
	return gs
}

// fakeSession applies batches the way a session does, without history.
type fakeSession struct {
	gs      *state.GameState
	src     entropy.Source
	batches [][]command.Action
}

func (f *fakeSession) Head() *state.GameState { return f.gs }
func (f *fakeSession) Rules() ruleset.Ruleset { return ruleset.Default() }

func (f *fakeSession) Apply(_ context.Context, actions ...command.Action) error {
	next := f.gs.Clone()
	if err := command.Execute(command.NewEnv(next, f.Rules(), f.src, 0), actions...); err != nil {
		return err
	}
	f.gs = next
	f.batches = append(f.batches, actions)
	return nil
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{Basic, DoNothing, LaunchOnly}, Names())
	for _, name := range Names() {
		p, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
	_, err := New("aggressive")
	assert.ErrorContains(t, err, "unknown policy")
}

func TestDoNothingIssuesNoCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)

	p, err := New(DoNothing)
	require.NoError(t, err)
	assert.NoError(t, p.DecideAndAct(context.Background(), c))
}

func TestLaunchOnlyDeploysAgainstSite(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	gs := withSite(withAgents(newGame(), 3, agents.StateAvailable), 30)

	c.EXPECT().Head().Return(gs)
	c.EXPECT().Rules().Return(ruleset.Default())
	c.EXPECT().Apply(gomock.Any(), command.LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{0, 1, 2}}).Return(nil)

	p, err := New(LaunchOnly)
	require.NoError(t, err)
	assert.NoError(t, p.DecideAndAct(context.Background(), c))
}

func TestPolicyStopsOnGameOver(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	gs := withSite(withAgents(newGame(), 3, agents.StateAvailable), 30)
	gs.Assets.Support = 0

	c.EXPECT().Head().Return(gs)

	p, err := New(Basic)
	require.NoError(t, err)
	assert.NoError(t, p.DecideAndAct(context.Background(), c))
}

func TestPolicyWrapsApplyErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mocks.NewMockController(ctrl)
	gs := withSite(withAgents(newGame(), 2, agents.StateAvailable), 30)

	c.EXPECT().Head().Return(gs)
	c.EXPECT().Rules().Return(ruleset.Default())
	c.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(command.ErrInsufficientCapacity)

	p, err := New(LaunchOnly)
	require.NoError(t, err)
	err = p.DecideAndAct(context.Background(), c)
	assert.ErrorIs(t, err, command.ErrInsufficientCapacity)
	assert.ErrorContains(t, err, "deploy")
}

func TestDeployRespectsSurvivalFloor(t *testing.T) {
	gs := withSite(withAgents(newGame(), 4, agents.StateAvailable), 300)
	assert.Empty(t, deploy(gs, ruleset.Default(), DefaultTuning()))
}

func TestDeployEasiestSiteFirstWithinCapacity(t *testing.T) {
	gs := withAgents(newGame(), 5, agents.StateAvailable)
	gs = withSite(withSite(gs, 45), 20)
	gs.Assets.Agents[4].MissionsSurvived = 2

	actions := deploy(gs, ruleset.Default(), DefaultTuning())

	// Site 1 needs 1 survivor, so two agents go; site 0 needs 2 but only two
	// seats remain, which is enough with no spare.
	require.Len(t, actions, 2)
	assert.Equal(t, command.LaunchMission{SiteID: 1, AgentIDs: []agents.AgentID{4, 0}}, actions[0])
	assert.Equal(t, command.LaunchMission{SiteID: 0, AgentIDs: []agents.AgentID{1, 2}}, actions[1])
}

func TestBasicOpeningTurn(t *testing.T) {
	f := &fakeSession{gs: newGame(), src: entropy.NewScripted()}
	p, err := New(Basic)
	require.NoError(t, err)

	require.NoError(t, p.DecideAndAct(context.Background(), f))

	assert.Len(t, f.gs.Assets.Agents, 8)
	assert.Equal(t, 100, f.gs.Assets.Money)
	assert.Len(t, f.gs.Assets.Agents.GeneratingIncome(), 8)
	assert.Len(t, f.batches, 2)
}

func TestRecallAndReassignOnBudgetChange(t *testing.T) {
	gs := withAgents(newGame(), 4, agents.StateGeneratingIncome)
	gs.Assets.Money = 400
	tuning := DefaultTuning()

	actions := recall(gs, ruleset.Default(), tuning)
	require.Equal(t, []command.Action{command.RecallAgents{AgentIDs: []agents.AgentID{2, 3}}}, actions)

	f := &fakeSession{gs: gs, src: entropy.NewScripted()}
	require.NoError(t, f.Apply(context.Background(), actions...))
	require.NoError(t, f.Apply(context.Background(), assignDuties(f.gs, ruleset.Default(), tuning)...))

	assert.Equal(t, []agents.AgentID{0, 1}, f.gs.Assets.Agents.GeneratingIncome().IDs())
	assert.Equal(t, []agents.AgentID{2, 3}, f.gs.Assets.Agents.GatheringIntel().IDs())
}

func TestInvestIntelTargetsStrongest(t *testing.T) {
	gs := newGame()
	gs.Assets.Intel = 25
	actions := investIntel(gs, ruleset.Default(), DefaultTuning())
	assert.Equal(t, []command.Action{command.InvestIntel{FactionID: 2, Amount: 25}}, actions)

	gs.Assets.Intel = 5
	assert.Empty(t, investIntel(gs, ruleset.Default(), DefaultTuning()))
}

func TestBuyTransportWhenSitesLeftOver(t *testing.T) {
	gs := withSite(withAgents(newGame(), 2, agents.StateAvailable), 30)
	gs.Assets.CurrentTransportCapacity = 0
	assert.Equal(t, []command.Action{command.BuyTransportCapacity{Amount: 1}},
		buyTransport(gs, ruleset.Default(), DefaultTuning()))

	gs.Assets.Money = 300
	assert.Empty(t, buyTransport(gs, ruleset.Default(), DefaultTuning()))
}

func TestTriage(t *testing.T) {
	gs := newGame()
	assert.Equal(t, Healthy, Triage(gs).Level)
	assert.Equal(t, -1, Triage(gs).TurnsOfRunway)

	gs.Assets.Support = 15
	assert.Equal(t, Warning, Triage(gs).Level)

	gs.Assets.Support = 5
	assert.Equal(t, Critical, Triage(gs).Level)

	gs = withAgents(newGame(), 10, agents.StateAvailable)
	gs.Assets.Money = 60
	h := Triage(gs)
	assert.Equal(t, -30, h.MoneyPerTurn)
	assert.Equal(t, 2, h.TurnsOfRunway)
	assert.Equal(t, Critical, h.Level)
	assert.InDelta(t, 75.0, h.FactionPower, 1e-9)
	assert.InDelta(t, 45.0, h.StrongestPower, 1e-9)
}
