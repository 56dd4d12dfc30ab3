// Package command is the closed catalogue of player actions. Each action
// validates itself against the current state and then applies its changes to
// a live clone, recording events as it goes.
package command

import (
	"github.com/talgya/ufo-command/internal/entropy"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// Action is one player command.
type Action interface {
	// Type is the command's tag in the event catalogue.
	Type() events.Type
	// Validate reports why the action cannot be applied to gs, or nil.
	Validate(gs *state.GameState, r ruleset.Ruleset) error
	// Apply mutates env.State. It is only called after Validate passed
	// against the same state, so any failure here is an engine defect.
	Apply(env *Env)
}

// Env is everything an action needs while it is applied.
type Env struct {
	State  *state.GameState
	Rules  ruleset.Ruleset
	Source entropy.Source
	IDs    *state.IDs
	Events *events.Recorder
}

// NewEnv prepares a batch against next, which must be a fresh clone of the
// head state. Event ids continue from firstEventID.
func NewEnv(next *state.GameState, r ruleset.Ruleset, src entropy.Source, firstEventID int) *Env {
	return &Env{
		State:  next,
		Rules:  r,
		Source: src,
		IDs:    state.SeedIDs(next),
		Events: events.NewRecorder(firstEventID, next.Turn),
	}
}

// Record appends an event for the current turn.
func (env *Env) Record(t events.Type, ids []int, target *int) {
	env.Events.Record(t, ids, target)
}

// Execute validates and applies actions in order. Each action is validated
// against the state left by the ones before it. On error the batch must be
// discarded; env.State is partially applied.
func Execute(env *Env, actions ...Action) error {
	for _, a := range actions {
		env.State.MustBeLive()
		if env.State.IsGameOver() {
			return New(CodeGameOver, "game is over at turn %d", env.State.Turn())
		}
		if err := a.Validate(env.State, env.Rules); err != nil {
			return err
		}
		a.Apply(env)
		env.State.MustCheck()
	}
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(&state.InvariantError{Message: err.Error()})
	}
	return v
}
