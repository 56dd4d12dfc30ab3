package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/ufo-command/internal/ruleset"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "basic", cfg.Policy)
	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, 0, cfg.Turns)
	assert.Empty(t, cfg.AdminKey)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("UFOSIM_SEED", "7")
	t.Setenv("UFOSIM_POLICY", "launch-only")
	t.Setenv("UFOSIM_TURNS", "120")
	t.Setenv("UFOSIM_LOG_LEVEL", "debug")
	t.Setenv("UFOSIM_ADMIN_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "launch-only", cfg.Policy)
	assert.Equal(t, 120, cfg.Turns)
	assert.Equal(t, "secret", cfg.AdminKey)
	level, _ := cfg.Level()
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"UFOSIM_SEED":      "not-a-number",
		"UFOSIM_TURNS":     "-1",
		"UFOSIM_LOG_LEVEL": "loud",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseRulesetOverlaysDefaults(t *testing.T) {
	r, err := ParseRuleset([]byte(`
agent_hire_cost: 75
mission_survival_bonuses: [20, 10]
max_turn_limit: 100
`))
	require.NoError(t, err)

	def := ruleset.Default()
	assert.Equal(t, 75, r.AgentHireCost)
	assert.Equal(t, []int{20, 10}, r.MissionSurvivalBonuses)
	assert.Equal(t, 100, r.MaxTurnLimit)
	assert.Equal(t, def.AgentUpkeepCost, r.AgentUpkeepCost)
	assert.Equal(t, def.InitialMoney, r.InitialMoney)
}

func TestParseRulesetEmpty(t *testing.T) {
	r, err := ParseRuleset(nil)
	require.NoError(t, err)
	assert.Equal(t, ruleset.Default(), r)
}

func TestParseRulesetRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key": "agent_hire_price: 10\n",
		"bad type":    "agent_hire_cost: lots\n",
		"invalid":     "agent_hire_cost: -5\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRuleset([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRulesetFile(t *testing.T) {
	r, err := LoadRuleset("")
	require.NoError(t, err)
	assert.Equal(t, ruleset.Default(), r)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial_money: 900\n"), 0o644))
	r, err = LoadRuleset(path)
	require.NoError(t, err)
	assert.Equal(t, 900, r.InitialMoney)

	_, err = LoadRuleset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
