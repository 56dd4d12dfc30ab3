package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// Options configure a new session.
type Options struct {
	ID      string          // Generated when empty
	Seed    int64           // Seed of the session's random stream
	Rules   ruleset.Ruleset // Formulas and constants
	Initial *state.GameState
}

// entry is one committed batch: the state it produced, the random stream
// position right after it, and the events it recorded.
type entry struct {
	state  *state.GameState
	rng    []byte
	events []events.GameEvent
}

// Session owns the authoritative timeline of one game. It is the only writer
// of game state: every change goes through ApplyActions, one batch at a time.
type Session struct {
	ID   string
	Seed int64

	// commitMu is held from the start of a write until its commit hook has
	// returned, so hooks observe commits one at a time and in order. mu alone
	// guards the fields below and is never held while the hook runs.
	commitMu sync.Mutex
	mu       sync.Mutex
	rules    ruleset.Ruleset
	source   entropy.Snapshotter
	log      *events.Log
	history  []entry // Oldest first; the last entry is the head
	undone   []entry // Batches removed by Undo, most recent last
	onCommit commitFunc
}

type commitFunc func(gs *state.GameState, evs []events.GameEvent)

// NewSession starts a game from opts.Initial.
func NewSession(opts Options) (*Session, error) {
	if opts.Initial == nil {
		return nil, fmt.Errorf("new session: no initial state")
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if err := opts.Initial.Check(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	src := entropy.NewSeeded(opts.Seed)
	rng, err := src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return &Session{
		ID:      id,
		Seed:    opts.Seed,
		rules:   opts.Rules,
		source:  src,
		log:     events.NewLog(0),
		history: []entry{{state: opts.Initial, rng: rng}},
	}, nil
}

// Resume rebuilds a session from persisted parts. rng is the stream position
// saved alongside head; evs is the full event log.
func Resume(id string, seed int64, rules ruleset.Ruleset, head *state.GameState, evs []events.GameEvent, rng []byte) (*Session, error) {
	if err := head.Check(); err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	log, err := events.Restore(evs)
	if err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	src := entropy.NewSeeded(seed)
	if err := src.UnmarshalBinary(rng); err != nil {
		return nil, fmt.Errorf("resume session %s: %w", id, err)
	}
	return &Session{
		ID:      id,
		Seed:    seed,
		rules:   rules,
		source:  src,
		log:     log,
		history: []entry{{state: head, rng: append([]byte{}, rng...)}},
	}, nil
}

// OnCommit registers fn to be called after every committed batch, undo and
// redo. Calls arrive in commit order and no other write starts until fn
// returns, so fn may read the session but must not write to it.
func (s *Session) OnCommit(fn func(gs *state.GameState, evs []events.GameEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCommit = fn
}

// Rules returns the session's ruleset.
func (s *Session) Rules() ruleset.Ruleset { return s.rules }

// Head returns the current state. Callers must treat it as read-only.
func (s *Session) Head() *state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head().state
}

func (s *Session) head() entry {
	return s.history[len(s.history)-1]
}

// History returns the retained states, oldest first, head last.
func (s *Session) History() []*state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*state.GameState, len(s.history))
	for i, e := range s.history {
		out[i] = e.state
	}
	return out
}

// Events returns logged events with id >= since.
func (s *Session) Events(since int) []events.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Since(since)
}

// NextEventID is the id the next recorded event will receive.
func (s *Session) NextEventID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.NextID()
}

// RNGState returns the random stream position of the head state.
func (s *Session) RNGState() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte{}, s.head().rng...)
}

// ApplyActions validates and applies a batch of commands as one atomic step.
// On error nothing changes: not the head, not the event log, not the random
// stream. Invariant violations panic.
func (s *Session) ApplyActions(ctx context.Context, actions ...command.Action) (*state.GameState, []events.GameEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	next, evs, notify, err := s.apply(actions)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("batch applied", "session", s.ID, "turn", next.Turn(), "update", next.UpdateCount, "events", len(evs))
	if notify != nil {
		notify(next, evs)
	}
	return next, evs, nil
}

func (s *Session) apply(actions []command.Action) (*state.GameState, []events.GameEvent, commitFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(actions) == 0 {
		return nil, nil, nil, command.New(command.CodeEmptyBatch, "batch has no commands")
	}
	head := s.head()
	if head.state.IsGameOver() {
		return nil, nil, nil, command.New(command.CodeGameOver, "game is over at turn %d", head.state.Turn())
	}

	next := head.state.Clone()
	env := command.NewEnv(next, s.rules, s.source, s.log.NextID())
	if err := command.Execute(env, actions...); err != nil {
		s.restoreSource(head.rng)
		return nil, nil, nil, err
	}
	rng, err := s.source.MarshalBinary()
	if err != nil {
		s.restoreSource(head.rng)
		return nil, nil, nil, fmt.Errorf("apply actions: %w", err)
	}

	evs := env.Events.Events()
	if err := s.log.Extend(evs); err != nil {
		panic(&state.InvariantError{Message: err.Error()})
	}
	head.state.MarkPast()
	s.push(entry{state: next, rng: rng, events: evs})
	s.undone = nil
	return next, evs, s.onCommit, nil
}

// Apply is ApplyActions without the results, for callers that read the head
// afterwards.
func (s *Session) Apply(ctx context.Context, actions ...command.Action) error {
	_, _, err := s.ApplyActions(ctx, actions...)
	return err
}

func (s *Session) push(e entry) {
	s.history = append(s.history, e)
	if limit := s.rules.HistoryRetention; limit > 0 && len(s.history) > limit {
		s.history = append([]entry{}, s.history[len(s.history)-limit:]...)
	}
}

func (s *Session) restoreSource(rng []byte) {
	if err := s.source.UnmarshalBinary(rng); err != nil {
		panic(&state.InvariantError{Message: "restore random stream: " + err.Error()})
	}
}

// CanUndo reports whether an earlier state is retained.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history) > 1
}

// CanRedo reports whether an undone batch can be reapplied.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undone) > 0
}

// Undo reverts the most recent batch. Its events leave the log and the
// random stream rewinds, so replaying the same commands gives the same
// result.
func (s *Session) Undo() (*state.GameState, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	prev, dropped, notify, err := s.undo()
	if err != nil {
		return nil, err
	}
	slog.Info("undo", "session", s.ID, "turn", prev.Turn(), "dropped_events", dropped)
	if notify != nil {
		notify(prev, nil)
	}
	return prev, nil
}

func (s *Session) undo() (*state.GameState, int, commitFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.history) < 2 {
		return nil, 0, nil, command.New(command.CodeNothingToUndo, "no earlier state retained")
	}
	dropped := s.head()
	s.history = s.history[:len(s.history)-1]
	s.undone = append(s.undone, dropped)

	prev := s.head()
	prev.state = prev.state.Reopen()
	s.history[len(s.history)-1] = prev
	if len(dropped.events) > 0 {
		s.log.TruncateAfter(dropped.events[0].ID - 1)
	}
	s.restoreSource(prev.rng)
	return prev.state, len(dropped.events), s.onCommit, nil
}

// Redo reapplies the most recently undone batch exactly as it happened.
func (s *Session) Redo() (*state.GameState, error) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	e, notify, err := s.redo()
	if err != nil {
		return nil, err
	}
	slog.Info("redo", "session", s.ID, "turn", e.state.Turn(), "events", len(e.events))
	if notify != nil {
		notify(e.state, e.events)
	}
	return e.state, nil
}

func (s *Session) redo() (entry, commitFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.undone) == 0 {
		return entry{}, nil, command.New(command.CodeNothingToRedo, "nothing was undone")
	}
	e := s.undone[len(s.undone)-1]
	s.undone = s.undone[:len(s.undone)-1]

	if err := s.log.Extend(e.events); err != nil {
		panic(&state.InvariantError{Message: err.Error()})
	}
	s.head().state.MarkPast()
	e.state = e.state.Reopen()
	s.push(e)
	s.restoreSource(e.rng)
	return e, s.onCommit, nil
}
