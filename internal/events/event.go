// Package events is the append-only record of what happened in a session.
// Events carry a type tag and entity ids only; turning them into text is
// left to whoever displays them.
package events

// Type is a closed catalogue of event kinds.
type Type string

// Player action events.
const (
	TypeAdvanceTime                Type = "AdvanceTime"
	TypeHireAgents                 Type = "HireAgents"
	TypeBuyTransportCapacity       Type = "BuyTransportCapacity"
	TypeLaunchMission              Type = "LaunchMission"
	TypeRecallAgents               Type = "RecallAgents"
	TypeSackAgents                 Type = "SackAgents"
	TypeSendAgentsToTraining       Type = "SendAgentsToTraining"
	TypeSendAgentsToGenerateIncome Type = "SendAgentsToGenerateIncome"
	TypeSendAgentsToGatherIntel    Type = "SendAgentsToGatherIntel"
	TypeInvestIntel                Type = "InvestIntel"
)

// World events, produced by the engine rather than the player.
const (
	TypeMissionSiteSpawned Type = "MissionSiteSpawned"
	TypeMissionSiteExpired Type = "MissionSiteExpired"
	TypeMissionSuccessful  Type = "MissionSuccessful"
	TypeMissionFailed      Type = "MissionFailed"
	TypeAgentTerminated    Type = "AgentTerminated"
	TypeAgentRecovered     Type = "AgentRecovered"
	TypeFactionDefeated    Type = "FactionDefeated"
	TypeGameOver           Type = "GameOver"
)

var playerTypes = map[Type]bool{
	TypeAdvanceTime:                true,
	TypeHireAgents:                 true,
	TypeBuyTransportCapacity:       true,
	TypeLaunchMission:              true,
	TypeRecallAgents:               true,
	TypeSackAgents:                 true,
	TypeSendAgentsToTraining:       true,
	TypeSendAgentsToGenerateIncome: true,
	TypeSendAgentsToGatherIntel:    true,
	TypeInvestIntel:                true,
}

var worldTypes = map[Type]bool{
	TypeMissionSiteSpawned: true,
	TypeMissionSiteExpired: true,
	TypeMissionSuccessful:  true,
	TypeMissionFailed:      true,
	TypeAgentTerminated:    true,
	TypeAgentRecovered:     true,
	TypeFactionDefeated:    true,
	TypeGameOver:           true,
}

// IsPlayerAction reports whether t records a player command.
func (t Type) IsPlayerAction() bool { return playerTypes[t] }

// IsWorldEvent reports whether t records something the world did.
func (t Type) IsWorldEvent() bool { return worldTypes[t] }

// Valid reports whether t is in the catalogue.
func (t Type) Valid() bool { return t.IsPlayerAction() || t.IsWorldEvent() }

// GameEvent is one entry of the log.
type GameEvent struct {
	ID       int   `json:"Id"`
	Turn     int   `json:"Turn"`
	Type     Type  `json:"Type"`
	IDs      []int `json:"Ids"`
	TargetID *int  `json:"TargetId"`
}

// Target returns a pointer suitable for GameEvent.TargetID.
func Target(v int) *int {
	return &v
}
