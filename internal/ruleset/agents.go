package ruleset

// ExperienceBonus is the skill an agent has earned on top of the base: a
// linear training term plus a concave mission term. The first missions each
// add the next entry of MissionSurvivalBonuses; every mission past the table
// adds the table's last entry.
func (r Ruleset) ExperienceBonus(turnsInTraining, missionsSurvived int) int {
	bonus := turnsInTraining * r.TrainingCoefficient
	table := r.MissionSurvivalBonuses
	for i := 0; i < missionsSurvived; i++ {
		switch {
		case i < len(table):
			bonus += table[i]
		case len(table) > 0:
			bonus += table[len(table)-1]
		}
	}
	return bonus
}

// SurvivalSkill is the agent's total skill.
func (r Ruleset) SurvivalSkill(turnsInTraining, missionsSurvived int) int {
	return r.AgentBaseSkill + r.ExperienceBonus(turnsInTraining, missionsSurvived)
}

// BaselineChance is the survival chance in percent of an agent with no
// experience, derived from the power ratio base / (base + difficulty).
func (r Ruleset) BaselineChance(difficulty int) int {
	if difficulty < 0 {
		difficulty = 0
	}
	ours := r.AgentBaseSkill
	if ours+difficulty == 0 {
		return 0
	}
	return 100 * ours / (ours + difficulty)
}

// SurvivalChance is the percent chance an agent with the given experience
// bonus survives a site of the given difficulty. Experience closes the gap
// between the baseline and MaxSurvivalChance with diminishing returns.
func (r Ruleset) SurvivalChance(difficulty, experienceBonus int) int {
	if experienceBonus < 0 {
		experienceBonus = 0
	}
	max := r.MaxSurvivalChance
	baseline := r.BaselineChance(difficulty)
	if baseline > max {
		baseline = max
	}
	chance := max - (max-baseline)*100/(100+experienceBonus)
	return clampInt(chance, 0, max)
}

// AgentSurvivalChance combines ExperienceBonus and SurvivalChance.
func (r Ruleset) AgentSurvivalChance(difficulty, turnsInTraining, missionsSurvived int) int {
	return r.SurvivalChance(difficulty, r.ExperienceBonus(turnsInTraining, missionsSurvived))
}

// Survives reports whether a d100 roll survives the given chance.
func Survives(chance, roll int) bool {
	return roll <= chance
}

// RecoveryTurns is how long a surviving agent recovers. A roll in the lower
// half of the chance is a clean escape; above that, every RecoveryDivisor
// points of margin cost a turn.
func (r Ruleset) RecoveryTurns(chance, roll int) int {
	threshold := chance / 2
	if roll <= threshold {
		return 0
	}
	div := r.RecoveryDivisor
	if div <= 0 {
		div = 1
	}
	return (roll - threshold + div - 1) / div
}

// HireCost is the money needed to hire count agents.
func (r Ruleset) HireCost(count int) int {
	return count * r.AgentHireCost
}

// UpkeepCost is the per-turn money spent on count agents.
func (r Ruleset) UpkeepCost(count int) int {
	return count * r.AgentUpkeepCost
}

// TransportCost is the money needed to buy amount transport capacity.
func (r Ruleset) TransportCost(amount int) int {
	return amount * r.TransportCapacityCost
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
