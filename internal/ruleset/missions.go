package ruleset

import "math"

// Modifiers are the rewards and penalties attached to one mission site.
type Modifiers struct {
	MoneyReward    int     `json:"MoneyReward"`
	IntelReward    int     `json:"IntelReward"`
	FundingReward  int     `json:"FundingReward"`
	SupportReward  int     `json:"SupportReward"`
	FundingPenalty int     `json:"FundingPenalty"`
	SupportPenalty int     `json:"SupportPenalty"`
	PowerDamage    float64 `json:"PowerDamage"`
}

// SiteDifficulty applies a variation roll in [-DifficultyVariation,
// +DifficultyVariation] to the faction's power and rounds to an integer.
// Rolls outside the bound are clamped.
func (r Ruleset) SiteDifficulty(power, variationRoll float64) int {
	v := math.Max(-r.DifficultyVariation, math.Min(r.DifficultyVariation, variationRoll))
	d := int(math.Round(power * (1 + v)))
	if d < 0 {
		return 0
	}
	return d
}

// RequiredSurvivors is the number of agents that must survive for a mission
// against a site of the given difficulty to succeed. Always at least 1.
func (r Ruleset) RequiredSurvivors(difficulty int) int {
	req := r.BaseDifficultyRequirement
	if req <= 0 {
		return 1
	}
	if difficulty < 0 {
		difficulty = 0
	}
	return 1 + difficulty/req
}

// MissionSucceeds reports whether survivors meet the requirement.
func (r Ruleset) MissionSucceeds(difficulty, survivors int) bool {
	return survivors >= r.RequiredSurvivors(difficulty)
}

// SiteModifiers derives a site's rewards and penalties from its difficulty.
func (r Ruleset) SiteModifiers(difficulty int) Modifiers {
	d := difficulty
	if d < 0 {
		d = 0
	}
	return Modifiers{
		MoneyReward:    2 * d,
		IntelReward:    d / 2,
		FundingReward:  1 + d/30,
		SupportReward:  5 + d/10,
		FundingPenalty: 1 + d/30,
		SupportPenalty: 5 + d/10,
		PowerDamage:    0.15 * float64(d),
	}
}
