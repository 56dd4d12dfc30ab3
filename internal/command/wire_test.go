package command

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/events"
)

func TestDecodeBatch(t *testing.T) {
	actions, err := DecodeBatch([]byte(`[
		{"Type":"HireAgents","Amount":2},
		{"Type":"LaunchMission","AgentIds":[0,1],"TargetId":3},
		{"Type":"SendAgentsToGatherIntel","AgentIds":[4]},
		{"Type":"InvestIntel","TargetId":1,"Amount":10},
		{"Type":"AdvanceTime"}
	]`))
	require.NoError(t, err)

	assert.Equal(t, []Action{
		HireAgents{Count: 2},
		LaunchMission{SiteID: 3, AgentIDs: []agents.AgentID{0, 1}},
		SendAgentsToGatherIntel(4),
		InvestIntel{FactionID: 1, Amount: 10},
		AdvanceTime{},
	}, actions)
}

func TestDecodeBatchRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"not json":        {body: `{`, want: ErrMalformedCommand},
		"null":            {body: `null`, want: ErrMalformedCommand},
		"empty array":     {body: `[]`, want: ErrEmptyBatch},
		"unknown field":   {body: `[{"Type":"AdvanceTime","Foo":1}]`, want: ErrMalformedCommand},
		"unknown type":    {body: `[{"Type":"NukeEverything"}]`, want: ErrUnknownCommand},
		"world event tag": {body: `[{"Type":"MissionFailed"}]`, want: ErrUnknownCommand},
		"missing site":    {body: `[{"Type":"LaunchMission","AgentIds":[0]}]`, want: ErrMalformedCommand},
		"missing faction": {body: `[{"Type":"InvestIntel","Amount":1}]`, want: ErrMalformedCommand},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeBatch([]byte(tc.body))
			assert.ErrorIs(t, err, tc.want)
			assert.NotEmpty(t, CodeOf(err))
		})
	}
}

func TestWireRoundTrip(t *testing.T) {
	for _, a := range []Action{
		AdvanceTime{},
		HireAgents{Count: 3},
		BuyTransportCapacity{Amount: 1},
		LaunchMission{SiteID: 2, AgentIDs: []agents.AgentID{5, 6}},
		RecallAgents{AgentIDs: []agents.AgentID{1}},
		SackAgents{AgentIDs: []agents.AgentID{2}},
		SendAgentsToTraining(3),
		SendAgentsToGenerateIncome(4),
		InvestIntel{FactionID: 2, Amount: 7},
	} {
		w := ToWire(a)
		data, err := json.Marshal(w)
		require.NoError(t, err)

		var back Wire
		require.NoError(t, json.Unmarshal(data, &back))
		got, err := FromWire(back)
		require.NoError(t, err)
		assert.Equal(t, a, got, "round trip of %s", a.Type())
	}
}

func TestEveryPlayerTypeIsRegistered(t *testing.T) {
	for tag := range registry {
		assert.True(t, tag.IsPlayerAction(), tag)
	}
	for _, tag := range []events.Type{
		events.TypeAdvanceTime, events.TypeHireAgents, events.TypeBuyTransportCapacity,
		events.TypeLaunchMission, events.TypeRecallAgents, events.TypeSackAgents,
		events.TypeSendAgentsToTraining, events.TypeSendAgentsToGenerateIncome,
		events.TypeSendAgentsToGatherIntel, events.TypeInvestIntel,
	} {
		assert.Contains(t, registry, tag)
	}
}
