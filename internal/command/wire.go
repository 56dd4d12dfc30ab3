package command

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
)

// Wire is the transport form of a command.
type Wire struct {
	Type     events.Type `json:"Type"`
	AgentIDs []int       `json:"AgentIds"`
	TargetID *int        `json:"TargetId"`
	Amount   int         `json:"Amount"`
}

type decoder func(w Wire) (Action, error)

// registry maps every command tag to its decoder. Tags not listed here are
// rejected.
var registry = map[events.Type]decoder{
	events.TypeAdvanceTime: func(Wire) (Action, error) { return AdvanceTime{}, nil },
	events.TypeHireAgents: func(w Wire) (Action, error) {
		return HireAgents{Count: w.Amount}, nil
	},
	events.TypeBuyTransportCapacity: func(w Wire) (Action, error) {
		return BuyTransportCapacity{Amount: w.Amount}, nil
	},
	events.TypeLaunchMission: func(w Wire) (Action, error) {
		if w.TargetID == nil {
			return nil, New(CodeMalformedCommand, "%s needs a TargetId site", w.Type)
		}
		return LaunchMission{SiteID: missions.SiteID(*w.TargetID), AgentIDs: agentIDs(w.AgentIDs)}, nil
	},
	events.TypeRecallAgents: func(w Wire) (Action, error) {
		return RecallAgents{AgentIDs: agentIDs(w.AgentIDs)}, nil
	},
	events.TypeSackAgents: func(w Wire) (Action, error) {
		return SackAgents{AgentIDs: agentIDs(w.AgentIDs)}, nil
	},
	events.TypeSendAgentsToTraining: func(w Wire) (Action, error) {
		return SendAgentsToTraining(agentIDs(w.AgentIDs)...), nil
	},
	events.TypeSendAgentsToGenerateIncome: func(w Wire) (Action, error) {
		return SendAgentsToGenerateIncome(agentIDs(w.AgentIDs)...), nil
	},
	events.TypeSendAgentsToGatherIntel: func(w Wire) (Action, error) {
		return SendAgentsToGatherIntel(agentIDs(w.AgentIDs)...), nil
	},
	events.TypeInvestIntel: func(w Wire) (Action, error) {
		if w.TargetID == nil {
			return nil, New(CodeMalformedCommand, "%s needs a TargetId faction", w.Type)
		}
		return InvestIntel{FactionID: factions.FactionID(*w.TargetID), Amount: w.Amount}, nil
	},
}

// FromWire converts a wire command into an Action.
func FromWire(w Wire) (Action, error) {
	dec, ok := registry[w.Type]
	if !ok {
		return nil, New(CodeUnknownCommand, "unknown command type %q", w.Type).WithMetadata("type", w.Type)
	}
	return dec(w)
}

// ToWire converts an Action into its wire form.
func ToWire(a Action) Wire {
	w := Wire{Type: a.Type()}
	switch c := a.(type) {
	case HireAgents:
		w.Amount = c.Count
	case BuyTransportCapacity:
		w.Amount = c.Amount
	case LaunchMission:
		w.AgentIDs = intIDs(c.AgentIDs)
		w.TargetID = events.Target(int(c.SiteID))
	case RecallAgents:
		w.AgentIDs = intIDs(c.AgentIDs)
	case SackAgents:
		w.AgentIDs = intIDs(c.AgentIDs)
	case AssignDuty:
		w.AgentIDs = intIDs(c.AgentIDs)
	case InvestIntel:
		w.TargetID = events.Target(int(c.FactionID))
		w.Amount = c.Amount
	}
	return w
}

// DecodeBatch parses a JSON array of wire commands. Unknown fields and a
// null body are malformed input; an empty array is an empty batch.
func DecodeBatch(data []byte) ([]Action, error) {
	var wires []Wire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wires); err != nil {
		return nil, &Error{Code: CodeMalformedCommand, Message: fmt.Sprintf("decode commands: %v", err), Cause: err}
	}
	if wires == nil {
		return nil, New(CodeMalformedCommand, "decode commands: expected an array, got null")
	}
	if len(wires) == 0 {
		return nil, New(CodeEmptyBatch, "batch has no commands")
	}
	actions := make([]Action, 0, len(wires))
	for i, w := range wires {
		a, err := FromWire(w)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func agentIDs(ids []int) []agents.AgentID {
	out := make([]agents.AgentID, len(ids))
	for i, id := range ids {
		out[i] = agents.AgentID(id)
	}
	return out
}
