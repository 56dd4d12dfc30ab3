package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
	"github.com/talgya/ufo-command/internal/ruleset"
)

func testFactions() factions.List {
	return factions.List{
		factions.NoFaction(),
		{ID: 1, Name: "Red Dawn", Power: 30, PowerClimb: 0.5, MissionSiteCountdown: 2},
	}
}

func fixture(t *testing.T) *GameState {
	t.Helper()
	gs := New(ruleset.Default(), testFactions())
	ids := SeedIDs(gs)
	gs.Assets.Agents = append(gs.Assets.Agents, ids.Agents.Hire(3, 1)...)
	return gs
}

func TestNewStartingAssets(t *testing.T) {
	gs := New(ruleset.Default(), testFactions())

	assert.Equal(t, 1, gs.Turn())
	assert.Equal(t, 500, gs.Assets.Money)
	assert.Equal(t, 20, gs.Assets.Funding)
	assert.Equal(t, 30, gs.Assets.Support)
	assert.Equal(t, 4, gs.Assets.MaxTransportCapacity)
	assert.Equal(t, 4, gs.Assets.CurrentTransportCapacity)
	assert.Empty(t, gs.Assets.Agents)
	assert.False(t, gs.IsGameOver())
	require.NoError(t, gs.Check())
}

func TestCloneIsIndependent(t *testing.T) {
	gs := fixture(t)
	next := gs.Clone()

	next.Assets.Agents[0].State = agents.StateTraining
	next.Factions[1].Power = 99

	assert.Equal(t, agents.StateAvailable, gs.Assets.Agents[0].State)
	assert.Equal(t, 30.0, gs.Factions[1].Power)
	assert.Equal(t, gs.UpdateCount+1, next.UpdateCount)
}

func TestPastStateRejectsMutation(t *testing.T) {
	gs := fixture(t)
	gs.MarkPast()

	assert.True(t, gs.IsPast())
	assert.False(t, gs.Clone().IsPast())
	assert.PanicsWithError(t, "state invariant violated: mutating past state 0", func() {
		gs.UpdateAgent(gs.Assets.Agents[0])
	})
}

func TestTerminateKeepsHistoryOrdered(t *testing.T) {
	gs := fixture(t)
	for _, id := range []agents.AgentID{2, 0} {
		a, _ := gs.Assets.Agents.Get(id)
		a, err := a.Sack(1)
		require.NoError(t, err)
		gs.Terminate(a)
	}

	assert.Equal(t, []agents.AgentID{1}, gs.Assets.Agents.IDs())
	assert.Equal(t, []agents.AgentID{0, 2}, gs.TerminatedAgents.IDs())
	assert.Equal(t, []agents.AgentID{0, 1, 2}, gs.AllAgents().IDs())
	require.NoError(t, gs.Check())
	assert.Equal(t, agents.AgentID(3), SeedIDs(gs).Agents.NextID())
}

func TestCheckViolations(t *testing.T) {
	cases := map[string]func(gs *GameState){
		"capacity above max": func(gs *GameState) { gs.Assets.CurrentTransportCapacity = 5 },
		"negative intel":     func(gs *GameState) { gs.Assets.Intel = -1 },
		"duplicate agent": func(gs *GameState) {
			dup := gs.Assets.Agents[0]
			dup.State = agents.StateTerminated
			gs.TerminatedAgents = append(gs.TerminatedAgents, dup)
		},
		"id gap": func(gs *GameState) { gs.Assets.Agents[2].ID = 7 },
		"deployed without mission": func(gs *GameState) {
			gs.Assets.Agents[0].State = agents.StateInTransit
			gs.Assets.Agents[0].MissionID = 0
		},
		"site id gap": func(gs *GameState) {
			gs.MissionSites = append(gs.MissionSites, missions.Site{ID: 1, MissionID: -1})
		},
		"placeholder with power": func(gs *GameState) { gs.Factions[0].Power = 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			gs := fixture(t)
			mutate(gs)
			var ie *InvariantError
			assert.ErrorAs(t, gs.Check(), &ie)
			assert.Panics(t, gs.MustCheck)
		})
	}
}

func TestGameOverConditions(t *testing.T) {
	gs := fixture(t)
	gs.Assets.Support = 0
	assert.True(t, gs.IsGameLost())
	assert.True(t, gs.IsGameOver())
	assert.False(t, gs.IsGameWon())

	gs = fixture(t)
	gs.Assets.Money = -1
	assert.True(t, gs.IsGameLost())

	gs = fixture(t)
	gs.Factions[1].Power = 0
	assert.True(t, gs.IsGameWon())
	assert.True(t, gs.IsGameOver())

	gs = fixture(t)
	gs.Timeline.CurrentTurn = gs.Timeline.TurnLimit + 1
	assert.True(t, gs.IsTimedOut())
	assert.True(t, gs.IsGameOver())
	assert.False(t, gs.IsGameWon())
	assert.False(t, gs.IsGameLost())
}

func TestSnapshotRoundTrip(t *testing.T) {
	gs := fixture(t)
	gs.UpdateCount = 7
	gs.MissionSites = missions.Sites{{ID: 0, FactionID: 1, Difficulty: 30, MissionID: 0}}
	gs.Missions = missions.List{{
		ID:                0,
		SiteID:            0,
		AgentIDs:          []agents.AgentID{0},
		TurnLaunched:      1,
		Status:            missions.StatusActive,
		RequiredSurvivors: 2,
		Outcomes:          []missions.Outcome{},
	}}
	gs.Assets.Agents[0].State = agents.StateInTransit
	gs.Assets.Agents[0].MissionID = 0
	require.NoError(t, gs.Check())

	data, err := Encode(gs)
	require.NoError(t, err)

	restored, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, gs, restored)
}

func TestSnapshotKeepsZeroValues(t *testing.T) {
	data, err := Encode(New(ruleset.Default(), testFactions()))
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"Intel":0`)
	assert.Contains(t, s, `"Agents":[]`)
	assert.Contains(t, s, `"IsGameOver":false`)
}

func TestDecodeRejectsBadSnapshots(t *testing.T) {
	good, err := Encode(fixture(t))
	require.NoError(t, err)

	_, err = Decode([]byte("{"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"Version":99,"Sections":{}}`))
	assert.ErrorContains(t, err, "unsupported snapshot version")

	_, err = Decode([]byte(`{"Version":1,"Sections":{}}`))
	assert.ErrorContains(t, err, "missing section")

	restored, err := Decode(good)
	require.NoError(t, err)
	restored.Assets.CurrentTransportCapacity = 10
	bad, err := Encode(restored)
	require.NoError(t, err)
	_, err = Decode(bad)
	var ie *InvariantError
	assert.ErrorAs(t, err, &ie)
}
