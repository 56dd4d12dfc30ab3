// Package intellect plays the game without a human. A Policy looks at the
// head state through a Controller and issues commands; it never advances
// time itself.
package intellect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

//go:generate go tool mockgen -destination=./mocks/controller_mock.go -package=mocks . Controller

// Controller is the policy's view of a session.
type Controller interface {
	// Head returns the current state; it must not be modified.
	Head() *state.GameState
	// Rules returns the formulas the session runs on.
	Rules() ruleset.Ruleset
	// Apply validates and applies a batch of commands atomically.
	Apply(ctx context.Context, actions ...command.Action) error
}

// Policy decides what to do on one turn.
type Policy interface {
	Name() string
	DecideAndAct(ctx context.Context, c Controller) error
}

// Policy names accepted by New.
const (
	DoNothing  = "do-nothing"
	Basic      = "basic"
	LaunchOnly = "launch-only"
)

// step is one phase of a turn. It reads the head fresh and returns the
// commands to submit as a single batch, or none.
type step struct {
	name   string
	decide func(gs *state.GameState, r ruleset.Ruleset, t Tuning) []command.Action
}

// composite runs its steps in order, one batch per step, so every step sees
// the effects of the ones before it. A turn therefore issues at most
// len(steps) batches.
type composite struct {
	name   string
	tuning Tuning
	steps  []step
}

func (p *composite) Name() string { return p.name }

func (p *composite) DecideAndAct(ctx context.Context, c Controller) error {
	for _, s := range p.steps {
		gs := c.Head()
		if gs.IsGameOver() {
			return nil
		}
		actions := s.decide(gs, c.Rules(), p.tuning)
		if len(actions) == 0 {
			continue
		}
		if err := c.Apply(ctx, actions...); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
		slog.Debug("policy step", "policy", p.name, "step", s.name, "turn", gs.Turn(), "commands", len(actions))
	}
	return nil
}

var registry = map[string]func(Tuning) Policy{
	DoNothing: func(t Tuning) Policy {
		return &composite{name: DoNothing, tuning: t}
	},
	Basic: func(t Tuning) Policy {
		return &composite{name: Basic, tuning: t, steps: []step{
			{name: "hire", decide: hire},
			{name: "recall", decide: recall},
			{name: "deploy", decide: deploy},
			{name: "transport", decide: buyTransport},
			{name: "intel", decide: investIntel},
			{name: "duties", decide: assignDuties},
		}}
	},
	LaunchOnly: func(t Tuning) Policy {
		return &composite{name: LaunchOnly, tuning: t, steps: []step{
			{name: "deploy", decide: deploy},
		}}
	},
}

// New returns the named policy with default tuning.
func New(name string) (Policy, error) {
	return NewTuned(name, DefaultTuning())
}

// NewTuned returns the named policy with the given tuning.
func NewTuned(name string, t Tuning) (Policy, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q (have %v)", name, Names())
	}
	return build(t), nil
}

// Names lists the registered policies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
