package intellect

import (
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// Crisis levels, worst first.
const (
	Critical = "CRITICAL"
	Warning  = "WARNING"
	Watch    = "WATCH"
	Healthy  = "HEALTHY"
)

// Health is a quick diagnosis of a state for logs and the status endpoint.
// It is deterministic and reads nothing but the state.
type Health struct {
	Level          string  `json:"level"`
	MoneyPerTurn   int     `json:"money_per_turn"`
	TurnsOfRunway  int     `json:"turns_of_runway"` // -1 when money is not shrinking
	ActiveSites    int     `json:"active_sites"`
	Deployable     int     `json:"deployable"`
	FactionPower   float64 `json:"faction_power"`
	StrongestPower float64 `json:"strongest_power"`
}

// Triage diagnoses gs under the default ruleset.
func Triage(gs *state.GameState) Health {
	return TriageWith(gs, ruleset.Default())
}

// TriageWith diagnoses gs under r.
func TriageWith(gs *state.GameState, r ruleset.Ruleset) Health {
	a := gs.Assets
	h := Health{
		MoneyPerTurn:  r.MoneyDelta(a.Funding, len(a.Agents.GeneratingIncome()), len(a.Agents)),
		TurnsOfRunway: -1,
		ActiveSites:   len(gs.MissionSites.Active()),
		Deployable:    len(a.Agents.Launchable()),
		FactionPower:  gs.Factions.TotalPower(),
	}
	for _, f := range gs.Factions.Active() {
		h.StrongestPower = max(h.StrongestPower, f.Power)
	}
	if h.MoneyPerTurn < 0 {
		h.TurnsOfRunway = max(0, a.Money) / -h.MoneyPerTurn
	}

	h.Level = Healthy
	switch {
	case gs.IsGameLost():
		h.Level = Critical
	case a.Support < 10:
		h.Level = Critical
	case h.TurnsOfRunway >= 0 && h.TurnsOfRunway < 5:
		h.Level = Critical
	case a.Support < 20:
		h.Level = Warning
	case h.TurnsOfRunway >= 0 && h.TurnsOfRunway < 15:
		h.Level = Warning
	case h.ActiveSites > 0 && h.Deployable == 0:
		h.Level = Watch
	case h.MoneyPerTurn < 0:
		h.Level = Watch
	}
	return h
}
