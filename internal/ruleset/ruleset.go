// Package ruleset holds the game's formulas. Everything here is a pure
// function of its inputs: callers pass in counts, coefficients and rolls that
// were already drawn from an entropy.Source.
package ruleset

import "fmt"

// Ruleset is the full set of tunable constants. It is a plain value; methods
// never mutate it.
type Ruleset struct {
	// Economy
	AgentHireCost         int `yaml:"agent_hire_cost"`
	AgentUpkeepCost       int `yaml:"agent_upkeep_cost"`
	TransportCapacityCost int `yaml:"transport_capacity_cost"`
	AgentIncome           int `yaml:"agent_income"`
	AgentIntel            int `yaml:"agent_intel"`

	// Starting assets
	InitialMoney             int `yaml:"initial_money"`
	InitialIntel             int `yaml:"initial_intel"`
	InitialFunding           int `yaml:"initial_funding"`
	InitialSupport           int `yaml:"initial_support"`
	InitialTransportCapacity int `yaml:"initial_transport_capacity"`

	// Agent skill and survival
	AgentBaseSkill         int     `yaml:"agent_base_skill"`
	TrainingCoefficient    int     `yaml:"training_coefficient"`
	MissionSurvivalBonuses []int   `yaml:"mission_survival_bonuses"`
	MaxSurvivalChance      int     `yaml:"max_survival_chance"`
	RecoveryDivisor        int     `yaml:"recovery_divisor"`
	RecoverySpeed          float64 `yaml:"recovery_speed"`

	// Mission sites
	BaseDifficultyRequirement int     `yaml:"base_difficulty_requirement"`
	DifficultyVariation       float64 `yaml:"difficulty_variation"`
	SiteExpiryTurns           int     `yaml:"site_expiry_turns"`
	SiteCountdownMin          int     `yaml:"site_countdown_min"`
	SiteCountdownMax          int     `yaml:"site_countdown_max"`

	// Factions
	IntelSuppressionPerPoint float64 `yaml:"intel_suppression_per_point"`

	// Session
	HistoryRetention int `yaml:"history_retention"`
	MaxTurnLimit     int `yaml:"max_turn_limit"`
}

// Default returns the canonical ruleset.
func Default() Ruleset {
	return Ruleset{
		AgentHireCost:         50,
		AgentUpkeepCost:       5,
		TransportCapacityCost: 200,
		AgentIncome:           10,
		AgentIntel:            5,

		InitialMoney:             500,
		InitialIntel:             0,
		InitialFunding:           20,
		InitialSupport:           30,
		InitialTransportCapacity: 4,

		AgentBaseSkill:         100,
		TrainingCoefficient:    1,
		MissionSurvivalBonuses: []int{18, 15, 12, 9, 6},
		MaxSurvivalChance:      99,
		RecoveryDivisor:        10,
		RecoverySpeed:          1.0,

		BaseDifficultyRequirement: 30,
		DifficultyVariation:       0.30,
		SiteExpiryTurns:           3,
		SiteCountdownMin:          3,
		SiteCountdownMax:          8,

		IntelSuppressionPerPoint: 0.01,

		HistoryRetention: 10,
		MaxTurnLimit:     300,
	}
}

// Validate rejects rulesets that would break the formulas' assumptions.
func (r Ruleset) Validate() error {
	switch {
	case r.AgentHireCost < 0 || r.AgentUpkeepCost < 0 || r.TransportCapacityCost < 0:
		return fmt.Errorf("costs must be non-negative")
	case r.AgentBaseSkill <= 0:
		return fmt.Errorf("agent_base_skill must be positive, got %d", r.AgentBaseSkill)
	case r.MaxSurvivalChance <= 0 || r.MaxSurvivalChance > 100:
		return fmt.Errorf("max_survival_chance must be in (0, 100], got %d", r.MaxSurvivalChance)
	case len(r.MissionSurvivalBonuses) == 0:
		return fmt.Errorf("mission_survival_bonuses must not be empty")
	case r.BaseDifficultyRequirement <= 0:
		return fmt.Errorf("base_difficulty_requirement must be positive")
	case r.DifficultyVariation < 0 || r.DifficultyVariation >= 1:
		return fmt.Errorf("difficulty_variation must be in [0, 1), got %f", r.DifficultyVariation)
	case r.RecoverySpeed <= 0:
		return fmt.Errorf("recovery_speed must be positive")
	case r.SiteExpiryTurns < 1:
		return fmt.Errorf("site_expiry_turns must be at least 1")
	case r.SiteCountdownMin < 1 || r.SiteCountdownMax < r.SiteCountdownMin:
		return fmt.Errorf("site countdown bounds invalid: [%d, %d]", r.SiteCountdownMin, r.SiteCountdownMax)
	case r.HistoryRetention < 1:
		return fmt.Errorf("history_retention must be at least 1")
	case r.InitialTransportCapacity < 0:
		return fmt.Errorf("initial_transport_capacity must be non-negative")
	}
	return nil
}
