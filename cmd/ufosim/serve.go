package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/ufo-command/internal/api"
	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/persistence"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port    int
		session string
		fresh   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve one session over the HTTP API",
		Long: `Resumes the last stored session (or --session, or a new game with --new)
and serves it over HTTP. Every commit is saved. A stored session that fails to
load is replaced by a new game.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cmd.Flags().Changed("port") {
				a.cfg.APIPort = port
			}
			p, err := intellect.New(a.cfg.Policy)
			if err != nil {
				return err
			}
			db, err := openDB(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			id := session
			if id == "" && !fresh {
				id, err = db.GetMeta("last_session")
				if err != nil && !errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("read last session: %w", err)
				}
			}

			s, err := resumeOrStart(ctx, db, a, id)
			if err != nil {
				return err
			}
			if err := saveOnCommit(ctx, db, s, p.Name()); err != nil {
				return err
			}

			srv := api.New(s, p, db, a.cfg.APIPort, a.cfg.AdminKey)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (env UFOSIM_API_PORT)")
	cmd.Flags().StringVar(&session, "session", "", "serve the stored session with this id")
	cmd.Flags().BoolVar(&fresh, "new", false, "start a new game instead of resuming")
	return cmd
}

// resumeOrStart resumes the stored session id, or starts a new game when id
// is empty. A stored session that cannot be loaded is deleted and replaced.
func resumeOrStart(ctx context.Context, db *persistence.DB, a *app, id string) (*engine.Session, error) {
	if id != "" {
		s, err := loadSession(ctx, db, id, a)
		switch {
		case err == nil:
			return s, nil
		case errors.Is(err, persistence.ErrCorrupt):
			slog.Warn("stored session corrupt, deleting it and starting a new game", "session", id, "error", err)
			if err := db.Delete(ctx, id); err != nil {
				return nil, err
			}
		case errors.Is(err, persistence.ErrNotFound):
			slog.Warn("stored session not found, starting a new game", "session", id)
		default:
			return nil, err
		}
	}
	s, err := a.newGame(a.cfg.Seed)
	if err != nil {
		return nil, err
	}
	slog.Info("new game", "session", s.ID, "seed", s.Seed)
	return s, nil
}
