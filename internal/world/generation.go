// Package world generates the opening state of a game. Faction traits are
// sampled from layered simplex noise so that a seed always yields the same
// set of opponents, and neighbouring seeds yield similar ones.
package world

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/ufo-command/internal/factions"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Seed     int64
	Factions int // Number of hostile factions (placeholder excluded)

	MinPower, MaxPower               float64 // Starting power range
	MinClimb, MaxClimb               float64 // Base growth per turn
	MinAcceleration, MaxAcceleration float64 // Growth of the growth per turn
}

// DefaultGenConfig returns the standard four-faction setup.
func DefaultGenConfig(seed int64) GenConfig {
	return GenConfig{
		Seed:            seed,
		Factions:        len(factionNames),
		MinPower:        20,
		MaxPower:        40,
		MinClimb:        0.2,
		MaxClimb:        0.8,
		MinAcceleration: 0.002,
		MaxAcceleration: 0.01,
	}
}

var factionNames = []string{"Red Dawn", "Black Lotus", "EXALT", "Zombies"}

// Generate creates the faction list: the placeholder first, then cfg.Factions
// real factions with ids from 1.
func Generate(cfg GenConfig, r ruleset.Ruleset) (factions.List, error) {
	if cfg.Factions < 1 {
		return nil, fmt.Errorf("generate world: need at least one faction, got %d", cfg.Factions)
	}
	if cfg.MaxPower < cfg.MinPower || cfg.MaxClimb < cfg.MinClimb || cfg.MaxAcceleration < cfg.MinAcceleration {
		return nil, fmt.Errorf("generate world: inverted range in %+v", cfg)
	}

	// Independent layers per trait.
	powerNoise := opensimplex.NewNormalized(cfg.Seed)
	climbNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	accelNoise := opensimplex.NewNormalized(cfg.Seed + 2)
	countNoise := opensimplex.NewNormalized(cfg.Seed + 3)

	lo, hi := r.SiteCountdownBounds()
	list := factions.List{factions.NoFaction()}
	for i := 1; i <= cfg.Factions; i++ {
		// Spread factions around a circle so samples are far apart in noise space.
		angle := 2 * math.Pi * float64(i) / float64(cfg.Factions)
		x, y := math.Cos(angle)*8, math.Sin(angle)*8

		f := factions.Faction{
			ID:                factions.FactionID(i),
			Name:              factionName(i),
			Power:             round2(lerp(cfg.MinPower, cfg.MaxPower, octaveNoise(powerNoise, x, y, 3, 0.4, 0.5))),
			PowerClimb:        round2(lerp(cfg.MinClimb, cfg.MaxClimb, octaveNoise(climbNoise, x, y, 2, 0.4, 0.5))),
			PowerAcceleration: lerp(cfg.MinAcceleration, cfg.MaxAcceleration, octaveNoise(accelNoise, x, y, 2, 0.4, 0.5)),
		}
		span := float64(hi - lo + 1)
		f.MissionSiteCountdown = lo + min(hi-lo, int(octaveNoise(countNoise, x, y, 1, 0.4, 0.5)*span))
		list = append(list, f)
	}
	return list, nil
}

// NewGame builds the opening state for cfg.
func NewGame(cfg GenConfig, r ruleset.Ruleset) (*state.GameState, error) {
	fs, err := Generate(cfg, r)
	if err != nil {
		return nil, err
	}
	return state.New(r, fs), nil
}

func factionName(id int) string {
	if id <= len(factionNames) {
		return factionNames[id-1]
	}
	return fmt.Sprintf("Cell %d", id)
}

// octaveNoise samples multi-octave noise, normalized to 0..1.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return math.Min(1, math.Max(0, total/maxVal))
}

func lerp(lo, hi, t float64) float64 {
	return lo + (hi-lo)*t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
