package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/persistence"
	"github.com/talgya/ufo-command/internal/state"
)

func newPlayCmd(a *app) *cobra.Command {
	var (
		save     bool
		random   bool
		resume   string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play one game with an AI policy",
		Long: `Generates a world from the seed and lets the policy play it turn by turn
until the game ends or --turns is reached. With --save every commit is stored
in the database; --resume continues a stored session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := intellect.New(a.cfg.Policy)
			if err != nil {
				return err
			}

			var db *persistence.DB
			if save || resume != "" {
				if db, err = openDB(a.cfg.DBPath); err != nil {
					return err
				}
				defer db.Close()
			}

			var s *engine.Session
			if resume != "" {
				s, err = loadSession(ctx, db, resume, a)
			} else {
				seed := a.cfg.Seed
				if random {
					if seed, err = entropy.NewSeed(); err != nil {
						return err
					}
				}
				s, err = a.newGame(seed)
			}
			if err != nil {
				return err
			}
			if db != nil {
				if err := saveOnCommit(ctx, db, s, p.Name()); err != nil {
					return err
				}
			}

			r := engine.NewRunner(s, p)
			r.MaxTurns = a.cfg.Turns
			r.Interval = interval
			res, err := r.Run(ctx)
			printResult(cmd.OutOrStdout(), res)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "store the session in the database")
	cmd.Flags().BoolVar(&random, "random", false, "ignore --seed and draw a fresh one")
	cmd.Flags().StringVar(&resume, "resume", "", "continue the stored session with this id")
	cmd.Flags().DurationVar(&interval, "interval", 0, "pause between turns")
	return cmd
}

func openDB(path string) (*persistence.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", path)
	return db, nil
}

func loadSession(ctx context.Context, db *persistence.DB, id string, a *app) (*engine.Session, error) {
	saved, err := db.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := saved.Resume(a.rules)
	if err != nil {
		return nil, err
	}
	if saved.Policy != "" && saved.Policy != a.cfg.Policy {
		slog.Info("resumed session used another policy", "stored", saved.Policy, "now", a.cfg.Policy)
	}
	slog.Info("session resumed", "session", s.ID, "turn", s.Head().Turn(), "events", len(saved.Events))
	return s, nil
}

// saveOnCommit writes the session now and after every commit.
func saveOnCommit(ctx context.Context, db *persistence.DB, s *engine.Session, policy string) error {
	if err := db.Save(ctx, persistence.CheckpointOf(s, policy, s.Events(0))); err != nil {
		return err
	}
	if err := db.SaveMeta("last_session", s.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	s.OnCommit(func(gs *state.GameState, evs []events.GameEvent) {
		if err := db.Save(context.Background(), persistence.CheckpointOf(s, policy, evs)); err != nil {
			slog.Error("checkpoint failed", "session", s.ID, "turn", gs.Turn(), "error", err)
		}
	})
	return nil
}

func printResult(w io.Writer, res engine.Result) {
	gs := res.Final
	if gs == nil {
		return
	}
	outcome := "in progress"
	switch {
	case res.Won:
		outcome = "won"
	case res.Lost:
		outcome = "lost"
	case res.TimedOut:
		outcome = "turn limit reached"
	}
	fmt.Fprintf(w, "session %s (%s): %s after %d turns\n", res.SessionID, res.Policy, outcome, res.Turns)
	fmt.Fprintf(w, "  turn %d  money %s  intel %s  funding %d  support %d\n",
		gs.Turn(),
		humanize.Comma(int64(gs.Assets.Money)),
		humanize.Comma(int64(gs.Assets.Intel)),
		gs.Assets.Funding,
		gs.Assets.Support,
	)
	fmt.Fprintf(w, "  agents %d  lost %d  missions %d  factions left %d\n",
		len(gs.Assets.Agents),
		len(gs.TerminatedAgents),
		len(gs.Missions),
		len(gs.Factions.Active()),
	)
}
