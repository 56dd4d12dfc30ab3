package state

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/missions"
)

// SnapshotVersion is bumped whenever a section's shape changes.
const SnapshotVersion = 1

// Kind names one section of a snapshot.
type Kind string

const (
	KindMeta             Kind = "Meta"
	KindTimeline         Kind = "Timeline"
	KindAssets           Kind = "Assets"
	KindMissionSites     Kind = "MissionSites"
	KindMissions         Kind = "Missions"
	KindFactions         Kind = "Factions"
	KindTerminatedAgents Kind = "TerminatedAgents"
)

// Envelope is the serialized form of a GameState.
type Envelope struct {
	Version  int                      `json:"Version"`
	Sections map[Kind]json.RawMessage `json:"Sections"`
}

// Meta carries the update counter and the derived flags. The flags are
// written for readers of the snapshot and recomputed on load.
type Meta struct {
	UpdateCount int  `json:"UpdateCount"`
	IsGameOver  bool `json:"IsGameOver"`
	IsGameWon   bool `json:"IsGameWon"`
	IsGameLost  bool `json:"IsGameLost"`
}

type codec struct {
	encode func(gs *GameState) any
	decode func(raw json.RawMessage, gs *GameState) error
}

func into[T any](dst func(gs *GameState) *T) func(json.RawMessage, *GameState) error {
	return func(raw json.RawMessage, gs *GameState) error {
		return json.Unmarshal(raw, dst(gs))
	}
}

// codecs is the complete, static list of snapshot sections.
var codecs = map[Kind]codec{
	KindMeta: {
		encode: func(gs *GameState) any {
			return Meta{
				UpdateCount: gs.UpdateCount,
				IsGameOver:  gs.IsGameOver(),
				IsGameWon:   gs.IsGameWon(),
				IsGameLost:  gs.IsGameLost(),
			}
		},
		decode: func(raw json.RawMessage, gs *GameState) error {
			var m Meta
			if err := json.Unmarshal(raw, &m); err != nil {
				return err
			}
			gs.UpdateCount = m.UpdateCount
			return nil
		},
	},
	KindTimeline: {
		encode: func(gs *GameState) any { return gs.Timeline },
		decode: into(func(gs *GameState) *Timeline { return &gs.Timeline }),
	},
	KindAssets: {
		encode: func(gs *GameState) any { return gs.Assets },
		decode: into(func(gs *GameState) *Assets { return &gs.Assets }),
	},
	KindMissionSites: {
		encode: func(gs *GameState) any { return gs.MissionSites },
		decode: into(func(gs *GameState) *missions.Sites { return &gs.MissionSites }),
	},
	KindMissions: {
		encode: func(gs *GameState) any { return gs.Missions },
		decode: into(func(gs *GameState) *missions.List { return &gs.Missions }),
	},
	KindFactions: {
		encode: func(gs *GameState) any { return gs.Factions },
		decode: into(func(gs *GameState) *factions.List { return &gs.Factions }),
	},
	KindTerminatedAgents: {
		encode: func(gs *GameState) any { return gs.TerminatedAgents },
		decode: into(func(gs *GameState) *agents.Roster { return &gs.TerminatedAgents }),
	},
}

// Encode serializes gs into a versioned envelope.
func Encode(gs *GameState) ([]byte, error) {
	env := Envelope{Version: SnapshotVersion, Sections: make(map[Kind]json.RawMessage, len(codecs))}
	for kind, c := range codecs {
		raw, err := json.Marshal(c.encode(gs.normalized()))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", kind, err)
		}
		env.Sections[kind] = raw
	}
	return json.Marshal(env)
}

// Decode restores a live state from Encode's output and verifies its
// invariants. Any error means the snapshot cannot be used and the caller
// should start over.
func Decode(data []byte) (*GameState, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode snapshot envelope: %w", err)
	}
	if env.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	for kind := range env.Sections {
		if _, ok := codecs[kind]; !ok {
			return nil, fmt.Errorf("unknown snapshot section %q", kind)
		}
	}

	gs := &GameState{}
	for kind, c := range codecs {
		raw, ok := env.Sections[kind]
		if !ok {
			return nil, fmt.Errorf("snapshot missing section %q", kind)
		}
		if err := c.decode(raw, gs); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
	}
	gs = gs.normalized()
	if err := gs.Check(); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return gs, nil
}

// normalized replaces nil collections with empty ones so that every list is
// written as [] rather than null.
func (gs *GameState) normalized() *GameState {
	out := *gs
	if out.Assets.Agents == nil {
		out.Assets.Agents = agents.Roster{}
	}
	if out.MissionSites == nil {
		out.MissionSites = missions.Sites{}
	}
	out.Missions = out.Missions.Clone()
	if out.Factions == nil {
		out.Factions = factions.List{}
	}
	if out.TerminatedAgents == nil {
		out.TerminatedAgents = agents.Roster{}
	}
	return &out
}
