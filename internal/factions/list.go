package factions

// List is the ordered set of factions in a game, placeholder first.
type List []Faction

// Clone returns an independent copy.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Find returns the index of the faction with id, or -1.
func (l List) Find(id FactionID) int {
	for i, f := range l {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the faction with id.
func (l List) Get(id FactionID) (Faction, bool) {
	i := l.Find(id)
	if i < 0 {
		return Faction{}, false
	}
	return l[i], true
}

// Active returns the factions still in play.
func (l List) Active() List {
	var out List
	for _, f := range l {
		if f.IsActive() {
			out = append(out, f)
		}
	}
	return out
}

// AllDefeated reports whether every real faction has been defeated. A list
// with no real factions is not considered won.
func (l List) AllDefeated() bool {
	count := 0
	for _, f := range l {
		if f.IsPlaceholder() {
			continue
		}
		count++
		if !f.IsDefeated() {
			return false
		}
	}
	return count > 0
}

// TotalPower sums the power of active factions.
func (l List) TotalPower() float64 {
	total := 0.0
	for _, f := range l.Active() {
		total += f.Power
	}
	return total
}
