// Package agents provides the agent data model, its lifecycle state machine
// and roster queries.
package agents

// AgentID is a unique identifier for an agent. Ids are issued consecutively
// from 0 and never reused.
type AgentID int

// State is an agent's lifecycle state. An agent is in exactly one at a time.
type State string

const (
	StateAvailable        State = "Available"
	StateInTransit        State = "InTransit"
	StateOnMission        State = "OnMission"
	StateRecovering       State = "Recovering"
	StateTraining         State = "Training"
	StateGeneratingIncome State = "GeneratingIncome"
	StateGatheringIntel   State = "GatheringIntel"
	StateTerminated       State = "Terminated"
)

// AllStates lists every lifecycle state in a fixed order.
var AllStates = []State{
	StateAvailable,
	StateInTransit,
	StateOnMission,
	StateRecovering,
	StateTraining,
	StateGeneratingIncome,
	StateGatheringIntel,
	StateTerminated,
}

// Valid reports whether s is one of the known states.
func (s State) Valid() bool {
	for _, known := range AllStates {
		if s == known {
			return true
		}
	}
	return false
}

// IsDuty reports whether s is one of the assignable duties.
func (s State) IsDuty() bool {
	return s == StateTraining || s == StateGeneratingIncome || s == StateGatheringIntel
}

// NoMission marks an agent that is not deployed.
const NoMission = -1

// Agent is a unit hired by the player.
type Agent struct {
	ID    AgentID `json:"Id"`
	State State   `json:"State"`

	TurnHired        int     `json:"TurnHired"`
	TurnsInTraining  int     `json:"TurnsInTraining"`
	MissionsSurvived int     `json:"MissionsSurvived"`
	MissionsLaunched int     `json:"MissionsLaunched"`
	Recovery         float64 `json:"Recovery"` // Remaining recovery points; 0 when healthy

	MissionID        int  `json:"MissionId"`        // Current deployment, NoMission when idle
	LastAssignedTurn int  `json:"LastAssignedTurn"` // Turn of the last duty assignment, 0 if never
	TurnTerminated   int  `json:"TurnTerminated"`
	Sacked           bool `json:"Sacked"`
}

// IsAlive reports whether the agent is still on the roster.
func (a Agent) IsAlive() bool {
	return a.State != StateTerminated
}

// IsDeployed reports whether the agent is travelling to or on a mission.
func (a Agent) IsDeployed() bool {
	return a.State == StateInTransit || a.State == StateOnMission
}

// CanLaunch reports whether the agent may be sent on a mission.
func (a Agent) CanLaunch() bool {
	return a.State == StateAvailable || a.State.IsDuty()
}

// CanRecall reports whether the agent has a duty to be recalled from.
func (a Agent) CanRecall() bool {
	return a.State.IsDuty()
}

// CanAssign reports whether the agent may take a new duty on turn.
func (a Agent) CanAssign(turn int) bool {
	if a.LastAssignedTurn == turn {
		return false
	}
	return a.State == StateAvailable || a.State.IsDuty()
}

// CanSack reports whether the agent may be discharged.
func (a Agent) CanSack() bool {
	return a.IsAlive() && !a.IsDeployed()
}
