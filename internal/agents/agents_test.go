package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hire(n int) Roster {
	return Roster(NewSpawner(0).Hire(n, 1))
}

func TestSpawnerIssuesConsecutiveIDs(t *testing.T) {
	sp := NewSpawner(7)
	first := sp.Hire(2, 3)
	second := sp.Hire(1, 4)

	require.Len(t, first, 2)
	assert.Equal(t, AgentID(7), first[0].ID)
	assert.Equal(t, AgentID(8), first[1].ID)
	assert.Equal(t, AgentID(9), second[0].ID)
	assert.Equal(t, 3, first[0].TurnHired)
	assert.Equal(t, StateAvailable, first[0].State)
	assert.Equal(t, NoMission, first[0].MissionID)
	assert.Equal(t, AgentID(10), sp.NextID())
}

func TestAssignClearsOtherDutyOncePerTurn(t *testing.T) {
	a := hire(1)[0]

	a, err := a.Assign(StateTraining, 1)
	require.NoError(t, err)
	assert.Equal(t, StateTraining, a.State)

	_, err = a.Assign(StateGatheringIntel, 1)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	a, err = a.Assign(StateGatheringIntel, 2)
	require.NoError(t, err)
	assert.Equal(t, StateGatheringIntel, a.State)

	_, err = a.Assign(StateAvailable, 3)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestMissionLifecycle(t *testing.T) {
	a := hire(1)[0]

	a, err := a.Launch(4)
	require.NoError(t, err)
	assert.Equal(t, StateInTransit, a.State)
	assert.Equal(t, 4, a.MissionID)
	assert.False(t, a.CanSack())

	_, err = a.Survive(0)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	a, err = a.Arrive()
	require.NoError(t, err)
	assert.Equal(t, StateOnMission, a.State)

	healed, err := a.Survive(0)
	require.NoError(t, err)
	assert.Equal(t, StateAvailable, healed.State)
	assert.Equal(t, 1, healed.MissionsSurvived)
	assert.Equal(t, NoMission, healed.MissionID)

	hurt, err := a.Survive(2)
	require.NoError(t, err)
	assert.Equal(t, StateRecovering, hurt.State)

	hurt, done := hurt.Progress(1)
	assert.False(t, done)
	hurt, done = hurt.Progress(1)
	assert.True(t, done)
	assert.Equal(t, StateAvailable, hurt.State)

	dead, err := a.Perish(5)
	require.NoError(t, err)
	assert.Equal(t, StateTerminated, dead.State)
	assert.Equal(t, 5, dead.TurnTerminated)
	assert.False(t, dead.Sacked)
}

func TestRecoveringCannotLaunchOrRecall(t *testing.T) {
	a := Agent{ID: 1, State: StateRecovering, Recovery: 3}
	assert.False(t, a.CanLaunch())
	assert.False(t, a.CanRecall())
	assert.True(t, a.CanSack())

	_, err := a.Launch(0)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSack(t *testing.T) {
	a := hire(1)[0]
	a, err := a.Assign(StateGeneratingIncome, 1)
	require.NoError(t, err)

	a, err = a.Sack(2)
	require.NoError(t, err)
	assert.True(t, a.Sacked)
	assert.False(t, a.IsAlive())

	_, err = a.Sack(3)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTrainingAccrues(t *testing.T) {
	a, err := hire(1)[0].Assign(StateTraining, 1)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		a, _ = a.Progress(1)
	}
	assert.Equal(t, 3, a.TurnsInTraining)
}

func TestRosterQueriesPartitionAgents(t *testing.T) {
	r := hire(7)
	var err error
	r[1], err = r[1].Assign(StateTraining, 1)
	require.NoError(t, err)
	r[2], err = r[2].Assign(StateGeneratingIncome, 1)
	require.NoError(t, err)
	r[3], err = r[3].Assign(StateGatheringIntel, 1)
	require.NoError(t, err)
	r[4], err = r[4].Launch(0)
	require.NoError(t, err)
	r[5] = Agent{ID: 5, State: StateRecovering, Recovery: 1, MissionID: NoMission}

	total := 0
	for _, s := range AllStates {
		total += len(r.InState(s))
	}
	assert.Equal(t, len(r), total)

	assert.Len(t, r.Available(), 2)
	assert.Len(t, r.Recallable(), 3)
	assert.Len(t, r.Launchable(), 5)
	assert.Len(t, r.Deployed(), 1)
	assert.Len(t, r.Assignable(1), 2)
	assert.Len(t, r.Assignable(2), 5)

	counts := r.CountByState()
	assert.Equal(t, 0, counts[StateTerminated])
	assert.Equal(t, 1, counts[StateInTransit])
}

func TestRosterGetAndClone(t *testing.T) {
	r := hire(3)
	a, ok := r.Get(2)
	require.True(t, ok)
	assert.Equal(t, AgentID(2), a.ID)

	_, ok = r.Get(9)
	assert.False(t, ok)

	c := r.Clone()
	c[0].State = StateTraining
	assert.Equal(t, StateAvailable, r[0].State)
}
