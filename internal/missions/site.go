// Package missions models mission sites spawned by factions and the
// missions launched against them.
package missions

import (
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/ruleset"
)

// SiteID is a unique identifier for a mission site.
type SiteID int

// Site is a time-limited opportunity to strike a faction. Sites are never
// removed from a game's list; a site that has been deployed against or has
// expired is simply no longer Active.
type Site struct {
	ID        SiteID             `json:"Id"`
	FactionID factions.FactionID `json:"FactionId"`

	Difficulty     int     `json:"Difficulty"`
	BaseDifficulty float64 `json:"BaseDifficulty"` // Faction power when the site appeared
	DifficultyRoll float64 `json:"DifficultyRoll"` // Variation applied to BaseDifficulty

	TurnAppeared int               `json:"TurnAppeared"`
	ExpiresIn    int               `json:"ExpiresIn"`
	Modifiers    ruleset.Modifiers `json:"Modifiers"`

	Active    bool `json:"Active"`
	Expired   bool `json:"Expired"`
	MissionID int  `json:"MissionId"` // Mission launched against the site, -1 if none
}

// NewSite rolls a site for faction f. The only draw is the difficulty
// variation.
func NewSite(id SiteID, f factions.Faction, turn int, r ruleset.Ruleset, src entropy.Source) Site {
	roll := entropy.Symmetric(src, r.DifficultyVariation)
	difficulty := r.SiteDifficulty(f.Power, roll)
	return Site{
		ID:             id,
		FactionID:      f.ID,
		Difficulty:     difficulty,
		BaseDifficulty: f.Power,
		DifficultyRoll: roll,
		TurnAppeared:   turn,
		ExpiresIn:      r.SiteExpiryTurns,
		Modifiers:      r.SiteModifiers(difficulty),
		Active:         true,
		MissionID:      -1,
	}
}

// CountDown advances the expiry clock by a turn and reports whether the
// site expired.
func (s Site) CountDown() (Site, bool) {
	if !s.Active {
		return s, false
	}
	s.ExpiresIn--
	if s.ExpiresIn <= 0 {
		s.ExpiresIn = 0
		s.Active = false
		s.Expired = true
		return s, true
	}
	return s, false
}

// Deploy marks the site as taken by a mission.
func (s Site) Deploy(missionID int) Site {
	s.Active = false
	s.MissionID = missionID
	return s
}

// Sites is the ordered list of every site a game has seen.
type Sites []Site

// Clone returns an independent copy.
func (l Sites) Clone() Sites {
	if l == nil {
		return Sites{}
	}
	out := make(Sites, len(l))
	copy(out, l)
	return out
}

// Find returns the index of the site with id, or -1. Site ids equal their
// position, which the state invariants guarantee.
func (l Sites) Find(id SiteID) int {
	i := int(id)
	if i >= 0 && i < len(l) && l[i].ID == id {
		return i
	}
	for j, s := range l {
		if s.ID == id {
			return j
		}
	}
	return -1
}

// Get returns the site with id.
func (l Sites) Get(id SiteID) (Site, bool) {
	i := l.Find(id)
	if i < 0 {
		return Site{}, false
	}
	return l[i], true
}

// Active returns the sites still open for deployment.
func (l Sites) Active() Sites {
	var out Sites
	for _, s := range l {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}
