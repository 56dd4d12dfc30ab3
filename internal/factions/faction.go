// Package factions models the hostile organizations whose power drives
// mission site difficulty.
package factions

import (
	"math"

	"github.com/talgya/ufo-command/internal/ruleset"
)

// FactionID is a unique identifier for a faction.
type FactionID int

// NoFactionID identifies the placeholder faction. It exists so that
// references can always resolve, and never takes part in gameplay.
const NoFactionID FactionID = 0

// Faction is a hostile organization.
type Faction struct {
	ID   FactionID `json:"Id"`
	Name string    `json:"Name"`

	Power                   float64 `json:"Power"`
	PowerClimb              float64 `json:"PowerClimb"`              // Base growth per turn
	PowerAcceleration       float64 `json:"PowerAcceleration"`       // Added to AccumulatedAcceleration each turn
	AccumulatedAcceleration float64 `json:"AccumulatedAcceleration"` // Extra growth per turn, rising over time

	IntelInvested        int `json:"IntelInvested"`
	MissionSiteCountdown int `json:"MissionSiteCountdown"` // Turns until the next site spawns
}

// NoFaction returns the placeholder faction.
func NoFaction() Faction {
	return Faction{ID: NoFactionID, Name: "No faction"}
}

// IsPlaceholder reports whether f is the no-faction placeholder.
func (f Faction) IsPlaceholder() bool {
	return f.ID == NoFactionID
}

// IsDefeated reports whether a real faction has been driven to zero power.
func (f Faction) IsDefeated() bool {
	return !f.IsPlaceholder() && f.Power <= 0
}

// IsActive reports whether the faction still grows and spawns sites.
func (f Faction) IsActive() bool {
	return !f.IsPlaceholder() && f.Power > 0
}

// Grow applies one turn of power growth.
func (f Faction) Grow(r ruleset.Ruleset) Faction {
	if !f.IsActive() {
		return f
	}
	f.Power += r.PowerGrowth(f.PowerClimb, f.AccumulatedAcceleration, f.IntelInvested)
	f.AccumulatedAcceleration += f.PowerAcceleration
	return f
}

// Damage lowers power, never below zero.
func (f Faction) Damage(amount float64) Faction {
	if f.IsPlaceholder() {
		return f
	}
	f.Power = math.Max(0, f.Power-amount)
	return f
}

// Invest records intel spent against the faction.
func (f Faction) Invest(intel int) Faction {
	f.IntelInvested += intel
	return f
}

// CountDown advances the site countdown by a turn. It reports true when the
// countdown has run out and a mission site is due; the caller then rolls a
// new countdown with ResetCountdown.
func (f Faction) CountDown() (Faction, bool) {
	if !f.IsActive() {
		return f, false
	}
	f.MissionSiteCountdown--
	return f, f.MissionSiteCountdown <= 0
}

// ResetCountdown sets the turns until the next site.
func (f Faction) ResetCountdown(turns int) Faction {
	f.MissionSiteCountdown = turns
	return f
}
