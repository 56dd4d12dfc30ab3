package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/ufo-command/internal/config"
	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/world"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfg   config.Config
	rules ruleset.Ruleset
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ufosim",
		Short:         "Turn-based UFO command simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.Int64("seed", 0, "world and random stream seed (env UFOSIM_SEED)")
	flags.String("policy", "", "AI policy: "+fmt.Sprint(intellect.Names())+" (env UFOSIM_POLICY)")
	flags.Int("turns", 0, "stop after this many turns, 0 plays to the end (env UFOSIM_TURNS)")
	flags.String("rules", "", "YAML ruleset overrides (env UFOSIM_RULESET_FILE)")
	flags.String("db", "", "SQLite database path (env UFOSIM_DB_PATH)")
	flags.String("log-level", "", "debug, info, warn or error (env UFOSIM_LOG_LEVEL)")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, &cfg); err != nil {
			return err
		}
		level, err := cfg.Level()
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		rules, err := config.LoadRuleset(cfg.RulesetFile)
		if err != nil {
			return err
		}
		a.cfg, a.rules = cfg, rules
		return nil
	}

	root.AddCommand(
		newPlayCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newInspectCmd(a),
	)
	return root
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("seed") {
		if cfg.Seed, err = flags.GetInt64("seed"); err != nil {
			return err
		}
	}
	if flags.Changed("policy") {
		if cfg.Policy, err = flags.GetString("policy"); err != nil {
			return err
		}
	}
	if flags.Changed("turns") {
		if cfg.Turns, err = flags.GetInt("turns"); err != nil {
			return err
		}
	}
	if flags.Changed("rules") {
		if cfg.RulesetFile, err = flags.GetString("rules"); err != nil {
			return err
		}
	}
	if flags.Changed("db") {
		if cfg.DBPath, err = flags.GetString("db"); err != nil {
			return err
		}
	}
	if flags.Changed("log-level") {
		if cfg.LogLevel, err = flags.GetString("log-level"); err != nil {
			return err
		}
	}
	return nil
}

// newGame generates a world from seed and opens a session on it.
func (a *app) newGame(seed int64) (*engine.Session, error) {
	gs, err := world.NewGame(world.DefaultGenConfig(seed), a.rules)
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	return engine.NewSession(engine.Options{Seed: seed, Rules: a.rules, Initial: gs})
}
