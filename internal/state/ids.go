package state

import (
	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/missions"
)

// IDs issues entity ids for one batch of changes. It is seeded from a state
// rather than kept globally, so a rejected batch or a restored snapshot
// simply reseeds from whatever state is current.
type IDs struct {
	Agents *agents.Spawner
	sites  missions.SiteID
	missns missions.MissionID
}

// SeedIDs continues numbering after the last ids present in gs.
func SeedIDs(gs *GameState) *IDs {
	return &IDs{
		Agents: agents.NewSpawner(agents.AgentID(len(gs.Assets.Agents) + len(gs.TerminatedAgents))),
		sites:  missions.SiteID(len(gs.MissionSites)),
		missns: missions.MissionID(len(gs.Missions)),
	}
}

// NextSite issues a mission site id.
func (ids *IDs) NextSite() missions.SiteID {
	id := ids.sites
	ids.sites++
	return id
}

// NextMission issues a mission id.
func (ids *IDs) NextMission() missions.MissionID {
	id := ids.missns
	ids.missns++
	return id
}
