package agents

// Spawner issues new agents with consecutive ids. A session seeds it from
// the last id it knows about, so ids continue across save and load.
type Spawner struct {
	nextID AgentID
}

// NewSpawner creates a spawner that will issue next as its first id.
func NewSpawner(next AgentID) *Spawner {
	return &Spawner{nextID: next}
}

// SetNextID sets the next agent id to be issued (used when restoring).
func (s *Spawner) SetNextID(id AgentID) {
	s.nextID = id
}

// NextID returns the id the next hire will receive.
func (s *Spawner) NextID() AgentID {
	return s.nextID
}

// Hire creates count fresh agents, available from turn.
func (s *Spawner) Hire(count int, turn int) []Agent {
	hired := make([]Agent, 0, count)
	for i := 0; i < count; i++ {
		hired = append(hired, s.spawnOne(turn))
	}
	return hired
}

func (s *Spawner) spawnOne(turn int) Agent {
	id := s.nextID
	s.nextID++
	return Agent{
		ID:        id,
		State:     StateAvailable,
		TurnHired: turn,
		MissionID: NoMission,
	}
}
