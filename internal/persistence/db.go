// Package persistence provides SQLite-based session storage: one snapshot of
// each session's head, its full event log and the random stream position.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

var (
	// ErrNotFound is returned when no session is stored under an id.
	ErrNotFound = errors.New("session not found")
	// ErrCorrupt is returned when a stored session cannot be decoded. Callers
	// should start a new game rather than repair it.
	ErrCorrupt = errors.New("stored session is corrupt")
)

// DB wraps a SQLite connection for session persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		policy TEXT NOT NULL,
		rng BLOB NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		session_id TEXT NOT NULL,
		update_count INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		envelope TEXT NOT NULL,
		PRIMARY KEY (session_id, update_count)
	);

	CREATE TABLE IF NOT EXISTS events (
		session_id TEXT NOT NULL,
		id INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		type TEXT NOT NULL,
		ids_json TEXT NOT NULL,
		target_id INTEGER,
		PRIMARY KEY (session_id, id)
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_turn ON events(session_id, turn);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Checkpoint is what one save writes: the session row, the head snapshot and
// the events recorded since the previous save.
type Checkpoint struct {
	SessionID   string
	Seed        int64
	Policy      string
	RNG         []byte
	Head        *state.GameState
	NextEventID int                // Stored events at or past this id are dropped
	Events      []events.GameEvent // New events; replace any stored with the same ids
}

// CheckpointOf captures a session after a commit. evs are the events the
// commit recorded; nil after an undo.
func CheckpointOf(s *engine.Session, policy string, evs []events.GameEvent) Checkpoint {
	return Checkpoint{
		SessionID:   s.ID,
		Seed:        s.Seed,
		Policy:      policy,
		RNG:         s.RNGState(),
		Head:        s.Head(),
		NextEventID: s.NextEventID(),
		Events:      evs,
	}
}

type eventRow struct {
	ID       int           `db:"id"`
	Turn     int           `db:"turn"`
	Type     string        `db:"type"`
	IDsJSON  string        `db:"ids_json"`
	TargetID sql.NullInt64 `db:"target_id"`
}

// Save writes a checkpoint in one transaction.
func (db *DB) Save(ctx context.Context, cp Checkpoint) error {
	envelope, err := state.Encode(cp.Head)
	if err != nil {
		return fmt.Errorf("save session %s: %w", cp.SessionID, err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, seed, policy, rng, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET policy = excluded.policy, rng = excluded.rng, updated_at = excluded.updated_at`,
		cp.SessionID, cp.Seed, cp.Policy, cp.RNG, now, now,
	); err != nil {
		return fmt.Errorf("upsert session %s: %w", cp.SessionID, err)
	}

	// An undo rewinds UpdateCount, so later snapshots are stale.
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE session_id = ? AND update_count >= ?",
		cp.SessionID, cp.Head.UpdateCount); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO snapshots (session_id, update_count, turn, envelope) VALUES (?, ?, ?, ?)",
		cp.SessionID, cp.Head.UpdateCount, cp.Head.Turn(), string(envelope)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	cut := cp.NextEventID
	if len(cp.Events) > 0 && cp.Events[0].ID < cut {
		cut = cp.Events[0].ID
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM events WHERE session_id = ? AND id >= ?", cp.SessionID, cut); err != nil {
		return err
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO events (session_id, id, turn, type, ids_json, target_id)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range cp.Events {
		ids := e.IDs
		if ids == nil {
			ids = []int{}
		}
		idsJSON, _ := json.Marshal(ids)

		var target sql.NullInt64
		if e.TargetID != nil {
			target = sql.NullInt64{Int64: int64(*e.TargetID), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, cp.SessionID, e.ID, e.Turn, string(e.Type), string(idsJSON), target); err != nil {
			return fmt.Errorf("insert event %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Saved is a session as stored.
type Saved struct {
	SessionID string
	Seed      int64
	Policy    string
	RNG       []byte
	Head      *state.GameState
	Events    []events.GameEvent
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Resume rebuilds a live session from the stored parts.
func (s *Saved) Resume(rules ruleset.Ruleset) (*engine.Session, error) {
	sess, err := engine.Resume(s.SessionID, s.Seed, rules, s.Head, s.Events, s.RNG)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return sess, nil
}

type sessionRow struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Policy    string `db:"policy"`
	RNG       []byte `db:"rng"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Load reads a stored session. A stored head that fails to decode or check
// yields ErrCorrupt.
func (db *DB) Load(ctx context.Context, id string) (*Saved, error) {
	var row sessionRow
	err := db.conn.GetContext(ctx, &row, "SELECT id, seed, policy, rng, created_at, updated_at FROM sessions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var envelope string
	err = db.conn.GetContext(ctx, &envelope,
		"SELECT envelope FROM snapshots WHERE session_id = ? ORDER BY update_count DESC LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load session %s: no snapshot: %w", id, ErrCorrupt)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	head, err := state.Decode([]byte(envelope))
	if err != nil {
		slog.Warn("stored snapshot rejected", "session", id, "error", err)
		return nil, fmt.Errorf("load session %s: %w: %w", id, ErrCorrupt, err)
	}

	evs, err := db.Events(ctx, id, 0)
	if err != nil {
		return nil, err
	}

	created, _ := time.Parse(time.RFC3339, row.CreatedAt)
	updated, _ := time.Parse(time.RFC3339, row.UpdatedAt)
	return &Saved{
		SessionID: row.ID,
		Seed:      row.Seed,
		Policy:    row.Policy,
		RNG:       row.RNG,
		Head:      head,
		Events:    evs,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}

// Events returns a session's stored events with id >= since, in order.
func (db *DB) Events(ctx context.Context, id string, since int) ([]events.GameEvent, error) {
	var rows []eventRow
	err := db.conn.SelectContext(ctx, &rows,
		"SELECT id, turn, type, ids_json, target_id FROM events WHERE session_id = ? AND id >= ? ORDER BY id",
		id, since,
	)
	if err != nil {
		return nil, fmt.Errorf("load events %s: %w", id, err)
	}

	out := make([]events.GameEvent, 0, len(rows))
	for _, r := range rows {
		e := events.GameEvent{ID: r.ID, Turn: r.Turn, Type: events.Type(r.Type)}
		if err := json.Unmarshal([]byte(r.IDsJSON), &e.IDs); err != nil {
			return nil, fmt.Errorf("load event %d: %w: %w", r.ID, ErrCorrupt, err)
		}
		if !e.Type.Valid() {
			return nil, fmt.Errorf("load event %d: unknown type %q: %w", r.ID, r.Type, ErrCorrupt)
		}
		if r.TargetID.Valid {
			e.TargetID = events.Target(int(r.TargetID.Int64))
		}
		out = append(out, e)
	}
	return out, nil
}

// SessionInfo is one line of the session listing.
type SessionInfo struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Policy    string `db:"policy"`
	Turn      int    `db:"turn"`
	Events    int    `db:"events"`
	UpdatedAt string `db:"updated_at"`
}

// Sessions lists stored sessions, most recently saved first.
func (db *DB) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var out []SessionInfo
	err := db.conn.SelectContext(ctx, &out, `
		SELECT s.id, s.seed, s.policy, s.updated_at,
			COALESCE((SELECT turn FROM snapshots WHERE session_id = s.id ORDER BY update_count DESC LIMIT 1), 0) AS turn,
			(SELECT COUNT(*) FROM events WHERE session_id = s.id) AS events
		FROM sessions s
		ORDER BY s.updated_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

// Delete removes a session and everything stored with it.
func (db *DB) Delete(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM events WHERE session_id = ?",
		"DELETE FROM snapshots WHERE session_id = ?",
		"DELETE FROM sessions WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// SaveMeta stores a key-value pair.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}
