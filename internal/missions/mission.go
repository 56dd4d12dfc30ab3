package missions

import (
	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/ruleset"
)

// MissionID is a unique identifier for a mission.
type MissionID int

// Status is a mission's lifecycle position.
type Status string

const (
	StatusActive     Status = "Active"
	StatusSuccessful Status = "Successful"
	StatusFailed     Status = "Failed"
)

// Outcome records how one agent fared. Chance and Roll are kept so a
// resolution can be audited after the fact.
type Outcome struct {
	AgentID       agents.AgentID `json:"AgentId"`
	Chance        int            `json:"Chance"`
	Roll          int            `json:"Roll"`
	Survived      bool           `json:"Survived"`
	RecoveryTurns int            `json:"RecoveryTurns"`
}

// Mission is a deployment of agents against a site.
type Mission struct {
	ID                MissionID        `json:"Id"`
	SiteID            SiteID           `json:"SiteId"`
	AgentIDs          []agents.AgentID `json:"AgentIds"`
	TurnLaunched      int              `json:"TurnLaunched"`
	TurnResolved      int              `json:"TurnResolved"`
	Status            Status           `json:"Status"`
	RequiredSurvivors int              `json:"RequiredSurvivors"`
	Outcomes          []Outcome        `json:"Outcomes"`
}

// Clone returns a copy that shares no slices with m.
func (m Mission) Clone() Mission {
	m.AgentIDs = append([]agents.AgentID{}, m.AgentIDs...)
	m.Outcomes = append([]Outcome{}, m.Outcomes...)
	return m
}

// IsResolved reports whether the mission has an outcome.
func (m Mission) IsResolved() bool {
	return m.Status != StatusActive
}

// Survivors counts agents that lived.
func (m Mission) Survivors() int {
	n := 0
	for _, o := range m.Outcomes {
		if o.Survived {
			n++
		}
	}
	return n
}

// Resolve rolls survival for every agent on the mission, in the order they
// were sent, and settles success or failure. roster must contain every agent
// on the mission; callers validate that first.
func Resolve(m Mission, site Site, roster agents.Roster, turn int, r ruleset.Ruleset, src entropy.Source) Mission {
	m = m.Clone()
	m.Outcomes = m.Outcomes[:0]
	for _, id := range m.AgentIDs {
		a, _ := roster.Get(id)
		chance := r.AgentSurvivalChance(site.Difficulty, a.TurnsInTraining, a.MissionsSurvived)
		roll := entropy.Percent(src)
		o := Outcome{
			AgentID:  id,
			Chance:   chance,
			Roll:     roll,
			Survived: ruleset.Survives(chance, roll),
		}
		if o.Survived {
			o.RecoveryTurns = r.RecoveryTurns(chance, roll)
		}
		m.Outcomes = append(m.Outcomes, o)
	}

	m.TurnResolved = turn
	if r.MissionSucceeds(site.Difficulty, m.Survivors()) {
		m.Status = StatusSuccessful
	} else {
		m.Status = StatusFailed
	}
	return m
}

// List is the ordered list of every mission a game has launched.
type List []Mission

// Clone returns a deep copy.
func (l List) Clone() List {
	out := make(List, len(l))
	for i, m := range l {
		out[i] = m.Clone()
	}
	return out
}

// Find returns the index of the mission with id, or -1.
func (l List) Find(id MissionID) int {
	i := int(id)
	if i >= 0 && i < len(l) && l[i].ID == id {
		return i
	}
	for j, m := range l {
		if m.ID == id {
			return j
		}
	}
	return -1
}

// Get returns the mission with id.
func (l List) Get(id MissionID) (Mission, bool) {
	i := l.Find(id)
	if i < 0 {
		return Mission{}, false
	}
	return l[i], true
}

// Active returns missions still under way.
func (l List) Active() List {
	var out List
	for _, m := range l {
		if !m.IsResolved() {
			out = append(out, m)
		}
	}
	return out
}
