package ruleset

import "math"

// MoneyDelta is the money change of one turn's settlement.
func (r Ruleset) MoneyDelta(funding, incomeAgents, totalAgents int) int {
	return funding + incomeAgents*r.AgentIncome - r.UpkeepCost(totalAgents)
}

// IntelDelta is the intel gathered in one turn.
func (r Ruleset) IntelDelta(intelAgents int) int {
	return intelAgents * r.AgentIntel
}

// SuccessDeltas returns funding and support gained from a successful mission.
func SuccessDeltas(m Modifiers) (funding, support int) {
	return m.FundingReward, m.SupportReward
}

// FailureDeltas returns funding and support lost to a failed mission.
func FailureDeltas(m Modifiers) (funding, support int) {
	return -m.FundingPenalty, -m.SupportPenalty
}

// ExpiryDeltas returns funding and support lost to an expired site.
func ExpiryDeltas(m Modifiers) (funding, support int) {
	return -m.FundingPenalty, -m.SupportPenalty
}

// PowerGrowth is how much a faction's power rises this turn. Intel invested
// against the faction suppresses growth but never turns it negative.
func (r Ruleset) PowerGrowth(climb, accumulatedAcceleration float64, intelInvested int) float64 {
	g := climb + accumulatedAcceleration - float64(intelInvested)*r.IntelSuppressionPerPoint
	return math.Max(0, g)
}

// SiteCountdownBounds returns the inclusive range a faction's mission site
// countdown is rolled from.
func (r Ruleset) SiteCountdownBounds() (lo, hi int) {
	lo, hi = r.SiteCountdownMin, r.SiteCountdownMax
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
