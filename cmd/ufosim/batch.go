package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/talgya/ufo-command/internal/engine"
	"github.com/talgya/ufo-command/internal/intellect"
)

// batchStats aggregates finished games.
type batchStats struct {
	Games      int
	Won        int
	Lost       int
	TimedOut   int
	Unfinished int
	Turns      int
	AgentsLost int
	Money      int
}

func (b *batchStats) add(res engine.Result) {
	b.Games++
	switch {
	case res.Won:
		b.Won++
	case res.Lost:
		b.Lost++
	case res.TimedOut:
		b.TimedOut++
	default:
		b.Unfinished++
	}
	b.Turns += res.Turns
	if res.Final != nil {
		b.AgentsLost += len(res.Final.TerminatedAgents)
		b.Money += res.Final.Assets.Money
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		games    int
		parallel int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Play many seeded games and report aggregate results",
		Long: `Plays --games independent games with seeds seed, seed+1, ... in parallel,
each single-threaded with its own random stream, and prints win/loss totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if games < 1 {
				return fmt.Errorf("--games must be at least 1")
			}
			if _, err := intellect.New(a.cfg.Policy); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, err := runBatch(ctx, a, games, parallel)
			if err != nil {
				return err
			}
			var stats batchStats
			for _, res := range results {
				stats.add(res)
			}
			printBatch(cmd.OutOrStdout(), a.cfg.Policy, a.cfg.Seed, stats)
			return nil
		},
	}
	cmd.Flags().IntVar(&games, "games", 100, "number of games")
	cmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "games played at once")
	return cmd
}

// runBatch plays games in parallel; results are indexed by seed offset.
func runBatch(ctx context.Context, a *app, games, parallel int) ([]engine.Result, error) {
	results := make([]engine.Result, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))

	for i := range games {
		seed := a.cfg.Seed + int64(i)
		g.Go(func() error {
			s, err := a.newGame(seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			p, err := intellect.New(a.cfg.Policy)
			if err != nil {
				return err
			}
			r := engine.NewRunner(s, p)
			r.MaxTurns = a.cfg.Turns
			res, err := r.Run(ctx)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			slog.Debug("game finished", "seed", seed, "turns", res.Turns, "won", res.Won, "lost", res.Lost)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printBatch(w io.Writer, policy string, seed int64, s batchStats) {
	pct := func(n int) string {
		return fmt.Sprintf("%5.1f%%", 100*float64(n)/float64(s.Games))
	}
	fmt.Fprintf(w, "%s games with policy %s, seeds %d..%d\n",
		humanize.Comma(int64(s.Games)), policy, seed, seed+int64(s.Games)-1)
	fmt.Fprintf(w, "  won        %6d %s\n", s.Won, pct(s.Won))
	fmt.Fprintf(w, "  lost       %6d %s\n", s.Lost, pct(s.Lost))
	fmt.Fprintf(w, "  turn limit %6d %s\n", s.TimedOut, pct(s.TimedOut))
	if s.Unfinished > 0 {
		fmt.Fprintf(w, "  unfinished %6d %s\n", s.Unfinished, pct(s.Unfinished))
	}
	fmt.Fprintf(w, "  mean turns %.1f  mean agents lost %.1f  mean final money %s\n",
		float64(s.Turns)/float64(s.Games),
		float64(s.AgentsLost)/float64(s.Games),
		humanize.Comma(int64(s.Money/s.Games)),
	)
}
