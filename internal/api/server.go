// Package api provides the HTTP API over one game session.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token and are rate limited.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/persistence"
	"github.com/talgya/ufo-command/internal/state"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 1 << 20

// Server serves one session over HTTP.
type Server struct {
	Session  *engine.Session
	Policy   intellect.Policy // Plays /ai/turn
	DB       *persistence.DB  // Optional; every commit is saved when set
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// Serializes write endpoints so an AI turn's batches are not interleaved
	// with player commands.
	writeMu sync.Mutex

	limiter *RateLimiter
	hub     *hub
}

// New creates a server and takes over the session's commit hook.
func New(s *engine.Session, p intellect.Policy, db *persistence.DB, port int, adminKey string) *Server {
	srv := &Server{
		Session:  s,
		Policy:   p,
		DB:       db,
		Port:     port,
		AdminKey: adminKey,
		limiter:  NewRateLimiter(rate.Limit(10), 20),
		hub:      newHub(),
	}
	s.OnCommit(srv.committed)
	return srv
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/events", s.handleEvents)
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	mux.HandleFunc("POST /api/v1/actions", s.write(s.handleActions))
	mux.HandleFunc("POST /api/v1/undo", s.write(s.handleUndo))
	mux.HandleFunc("POST /api/v1/redo", s.write(s.handleRedo))
	mux.HandleFunc("POST /api/v1/ai/turn", s.write(s.handleAITurn))

	return corsMiddleware(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	slog.Info("HTTP API starting", "addr", addr, "session", s.Session.ID, "admin_auth", s.AdminKey != "")

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.hub.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("HTTP API stopped")
	return nil
}

// committed runs after every batch, undo and redo.
func (s *Server) committed(gs *state.GameState, evs []events.GameEvent) {
	if evs == nil {
		s.hub.publish(streamMessage{Kind: kindRewind, Turn: gs.Turn(), Next: s.Session.NextEventID()})
	} else {
		s.hub.publish(streamMessage{Kind: kindEvents, Turn: gs.Turn(), Events: evs, Next: s.Session.NextEventID()})
	}
	if s.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.DB.Save(ctx, persistence.CheckpointOf(s.Session, s.Policy.Name(), evs)); err != nil {
		slog.Error("checkpoint failed", "session", s.Session.ID, "turn", gs.Turn(), "error", err)
	}
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// write wraps a mutating handler: bearer auth, rate limit, one writer at a
// time.
func (s *Server) write(next http.HandlerFunc) http.HandlerFunc {
	return s.adminOnly(RateLimitMiddleware(s.limiter, func(w http.ResponseWriter, r *http.Request) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		next(w, r)
	}))
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no UFOSIM_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	data, err := state.Encode(s.Session.Head())
	if err != nil {
		writeError(w, fmt.Errorf("encode state: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type eventsResponse struct {
	Events []events.GameEvent `json:"events"`
	Next   int                `json:"next"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since, err := intParam(r, "since", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, eventsResponse{Events: s.Session.Events(since), Next: s.Session.NextEventID()})
}

type statusResponse struct {
	Session     string           `json:"session"`
	Seed        int64            `json:"seed"`
	Policy      string           `json:"policy"`
	Turn        int              `json:"turn"`
	TurnLimit   int              `json:"turn_limit"`
	UpdateCount int              `json:"update_count"`
	Money       int              `json:"money"`
	Intel       int              `json:"intel"`
	Funding     int              `json:"funding"`
	Support     int              `json:"support"`
	Transport   string           `json:"transport"`
	Agents      int              `json:"agents"`
	Lost        int              `json:"lost_agents"`
	GameOver    bool             `json:"game_over"`
	GameWon     bool             `json:"game_won"`
	GameLost    bool             `json:"game_lost"`
	CanUndo     bool             `json:"can_undo"`
	CanRedo     bool             `json:"can_redo"`
	Health      intellect.Health `json:"health"`
}

func (s *Server) status() statusResponse {
	gs := s.Session.Head()
	return statusResponse{
		Session:     s.Session.ID,
		Seed:        s.Session.Seed,
		Policy:      s.Policy.Name(),
		Turn:        gs.Turn(),
		TurnLimit:   gs.Timeline.TurnLimit,
		UpdateCount: gs.UpdateCount,
		Money:       gs.Assets.Money,
		Intel:       gs.Assets.Intel,
		Funding:     gs.Assets.Funding,
		Support:     gs.Assets.Support,
		Transport:   fmt.Sprintf("%d/%d", gs.Assets.CurrentTransportCapacity, gs.Assets.MaxTransportCapacity),
		Agents:      len(gs.Assets.Agents),
		Lost:        len(gs.TerminatedAgents),
		GameOver:    gs.IsGameOver(),
		GameWon:     gs.IsGameWon(),
		GameLost:    gs.IsGameLost(),
		CanUndo:     s.Session.CanUndo(),
		CanRedo:     s.Session.CanRedo(),
		Health:      intellect.TriageWith(gs, s.Session.Rules()),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.status())
}

type commitResponse struct {
	Turn        int                `json:"turn"`
	UpdateCount int                `json:"update_count"`
	Events      []events.GameEvent `json:"events"`
}

// handleActions applies a JSON array of wire commands as one batch.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, command.New(command.CodeMalformedCommand, "read body: %v", err))
		return
	}
	actions, err := command.DecodeBatch(body)
	if err != nil {
		writeError(w, err)
		return
	}
	gs, evs, err := s.Session.ApplyActions(r.Context(), actions...)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("actions applied", "session", s.Session.ID, "turn", gs.Turn(), "commands", len(actions), "events", len(evs))
	writeJSON(w, commitResponse{Turn: gs.Turn(), UpdateCount: gs.UpdateCount, Events: evs})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Session.Undo(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.status())
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Session.Redo(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, s.status())
}

// handleAITurn lets the policy act and then advances time once.
func (s *Server) handleAITurn(w http.ResponseWriter, r *http.Request) {
	from := s.Session.NextEventID()
	if err := engine.NewRunner(s.Session, s.Policy).Step(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	gs := s.Session.Head()
	writeJSON(w, commitResponse{Turn: gs.Turn(), UpdateCount: gs.UpdateCount, Events: s.Session.Events(from)})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, command.New(command.CodeMalformedCommand, "query parameter %s must be a non-negative integer", name)
	}
	return v, nil
}

type errorBody struct {
	Code     command.Code      `json:"code"`
	Message  string            `json:"message"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// statusFor maps a command error code to an HTTP status.
func statusFor(code command.Code) int {
	switch code {
	case command.CodeMalformedCommand, command.CodeUnknownCommand, command.CodeEmptyBatch:
		return http.StatusBadRequest
	case command.CodeGameOver, command.CodeNothingToUndo, command.CodeNothingToRedo:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeError(w http.ResponseWriter, err error) {
	var cerr *command.Error
	if !errors.As(err, &cerr) {
		slog.Error("request failed", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]errorBody{"error": {Code: "internal", Message: err.Error()}})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(cerr.Code))
	json.NewEncoder(w).Encode(map[string]errorBody{"error": {
		Code:     cerr.Code,
		Message:  err.Error(),
		Metadata: cerr.Metadata,
	}})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
