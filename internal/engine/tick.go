// Package engine drives games: a Session owns one game's timeline and a
// Runner plays it turn by turn with a policy.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/ufo-command/internal/agents"
	"github.com/talgya/ufo-command/internal/command"
	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/ruleset"
	"github.com/talgya/ufo-command/internal/state"
)

// ReportEvery is how many turns pass between turn report log lines.
const ReportEvery = 10

// Result summarizes a finished run.
type Result struct {
	SessionID string
	Policy    string
	Turns     int
	Won       bool
	Lost      bool
	TimedOut  bool
	Final     *state.GameState
}

// Runner plays a session with a policy: each turn the policy acts, then
// time advances.
type Runner struct {
	Session  *Session
	Policy   intellect.Policy
	MaxTurns int           // Stop after this many turns; 0 runs until game over
	Interval time.Duration // Pause between turns; 0 runs flat out

	// Called after every advance, with the new head and the turn's events.
	OnTurn func(gs *state.GameState, evs []events.GameEvent)
}

// NewRunner creates a runner with no turn cap.
func NewRunner(s *Session, p intellect.Policy) *Runner {
	return &Runner{Session: s, Policy: p}
}

// Run plays until the game ends, MaxTurns is reached or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	slog.Info("runner started", "session", r.Session.ID, "policy", r.Policy.Name(), "turn", r.Session.Head().Turn())

	played := 0
	for !r.Session.Head().IsGameOver() && (r.MaxTurns <= 0 || played < r.MaxTurns) {
		if err := ctx.Err(); err != nil {
			return r.result(played), err
		}
		if err := r.Step(ctx); err != nil {
			return r.result(played), err
		}
		played++

		if r.Interval > 0 {
			select {
			case <-ctx.Done():
				return r.result(played), ctx.Err()
			case <-time.After(r.Interval):
			}
		}
	}

	res := r.result(played)
	slog.Info("runner stopped",
		"session", r.Session.ID,
		"policy", r.Policy.Name(),
		"turns", res.Turns,
		"won", res.Won,
		"lost", res.Lost,
		"timed_out", res.TimedOut,
	)
	return res, nil
}

// Step plays one turn: the policy decides and acts, then time advances.
func (r *Runner) Step(ctx context.Context) error {
	before := r.Session.Head()
	from := r.Session.NextEventID()
	if err := r.Policy.DecideAndAct(ctx, r.Session); err != nil {
		return fmt.Errorf("policy %s on turn %d: %w", r.Policy.Name(), before.Turn(), err)
	}
	gs, _, err := r.Session.ApplyActions(ctx, command.AdvanceTime{})
	if err != nil {
		return fmt.Errorf("advance turn %d: %w", before.Turn(), err)
	}

	evs := r.Session.Events(from)
	if gs.Turn()%ReportEvery == 0 || gs.IsGameOver() {
		report(r.Session.ID, gs, r.Session.Rules())
	}
	if r.OnTurn != nil {
		r.OnTurn(gs, evs)
	}
	return nil
}

func (r *Runner) result(played int) Result {
	gs := r.Session.Head()
	return Result{
		SessionID: r.Session.ID,
		Policy:    r.Policy.Name(),
		Turns:     played,
		Won:       gs.IsGameWon(),
		Lost:      gs.IsGameLost(),
		TimedOut:  gs.IsTimedOut(),
		Final:     gs,
	}
}

func report(session string, gs *state.GameState, rules ruleset.Ruleset) {
	counts := gs.Assets.Agents.CountByState()
	slog.Info("turn report",
		"session", session,
		"turn", gs.Turn(),
		"money", humanize.Comma(int64(gs.Assets.Money)),
		"intel", humanize.Comma(int64(gs.Assets.Intel)),
		"funding", gs.Assets.Funding,
		"support", gs.Assets.Support,
		"agents", len(gs.Assets.Agents),
		"lost_agents", len(gs.TerminatedAgents),
		"on_mission", counts[agents.StateOnMission]+counts[agents.StateInTransit],
		"sites", len(gs.MissionSites.Active()),
		"faction_power", fmt.Sprintf("%.1f", gs.Factions.TotalPower()),
		"crisis", intellect.TriageWith(gs, rules).Level,
	)
}
