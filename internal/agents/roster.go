package agents

import "sort"

// Roster is the ordered list of agents an organization employs. Order is
// hiring order, which is also id order.
type Roster []Agent

// Clone returns an independent copy.
func (r Roster) Clone() Roster {
	if r == nil {
		return Roster{}
	}
	out := make(Roster, len(r))
	copy(out, r)
	return out
}

// Find returns the index of the agent with id, or -1.
func (r Roster) Find(id AgentID) int {
	// Ids are issued in order, so binary search works on a roster that only
	// ever has agents appended and removed.
	i := sort.Search(len(r), func(i int) bool { return r[i].ID >= id })
	if i < len(r) && r[i].ID == id {
		return i
	}
	return -1
}

// Get returns the agent with id.
func (r Roster) Get(id AgentID) (Agent, bool) {
	i := r.Find(id)
	if i < 0 {
		return Agent{}, false
	}
	return r[i], true
}

// Filter returns the agents matching keep, in roster order.
func (r Roster) Filter(keep func(Agent) bool) Roster {
	var out Roster
	for _, a := range r {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// InState returns the agents currently in s.
func (r Roster) InState(s State) Roster {
	return r.Filter(func(a Agent) bool { return a.State == s })
}

func (r Roster) Available() Roster        { return r.InState(StateAvailable) }
func (r Roster) InTransit() Roster        { return r.InState(StateInTransit) }
func (r Roster) OnMission() Roster        { return r.InState(StateOnMission) }
func (r Roster) Recovering() Roster       { return r.InState(StateRecovering) }
func (r Roster) Training() Roster         { return r.InState(StateTraining) }
func (r Roster) GeneratingIncome() Roster { return r.InState(StateGeneratingIncome) }
func (r Roster) GatheringIntel() Roster   { return r.InState(StateGatheringIntel) }

// Recallable returns agents on a duty.
func (r Roster) Recallable() Roster {
	return r.Filter(Agent.CanRecall)
}

// Launchable returns agents that may be sent on a mission.
func (r Roster) Launchable() Roster {
	return r.Filter(Agent.CanLaunch)
}

// Deployed returns agents travelling to or on a mission.
func (r Roster) Deployed() Roster {
	return r.Filter(Agent.IsDeployed)
}

// Assignable returns agents that may take a duty on turn.
func (r Roster) Assignable(turn int) Roster {
	return r.Filter(func(a Agent) bool { return a.CanAssign(turn) })
}

// IDs returns the ids of every agent in the roster.
func (r Roster) IDs() []AgentID {
	ids := make([]AgentID, len(r))
	for i, a := range r {
		ids[i] = a.ID
	}
	return ids
}

// CountByState tallies agents per state. Every state is present in the
// result, zero counts included.
func (r Roster) CountByState() map[State]int {
	counts := make(map[State]int, len(AllStates))
	for _, s := range AllStates {
		counts[s] = 0
	}
	for _, a := range r {
		counts[a.State]++
	}
	return counts
}
