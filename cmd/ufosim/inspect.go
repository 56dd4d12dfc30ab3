package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/ufo-command/internal/events"
	"github.com/talgya/ufo-command/internal/intellect"
	"github.com/talgya/ufo-command/internal/persistence"
)

func newInspectCmd(a *app) *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "inspect [session-id]",
		Short: "List stored sessions or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(a.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				list, err := db.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				printSessions(out, list)
				return nil
			}

			saved, err := db.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSaved(out, saved, last)
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "events", 20, "number of most recent events to show")
	return cmd
}

func printSessions(w io.Writer, list []persistence.SessionInfo) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no stored sessions")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSEED\tPOLICY\tTURN\tEVENTS\tSAVED")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\t%s\n", s.ID, s.Seed, s.Policy, s.Turn, humanize.Comma(int64(s.Events)), s.UpdatedAt)
	}
	tw.Flush()
}

func printSaved(w io.Writer, saved *persistence.Saved, last int) {
	gs := saved.Head
	health := intellect.Triage(gs)

	fmt.Fprintf(w, "session %s  seed %d  policy %s\n", saved.SessionID, saved.Seed, saved.Policy)
	fmt.Fprintf(w, "saved %s (started %s)\n", humanize.Time(saved.UpdatedAt), humanize.Time(saved.CreatedAt))
	fmt.Fprintf(w, "turn %d/%d  update %d  crisis %s\n", gs.Turn(), gs.Timeline.TurnLimit, gs.UpdateCount, health.Level)
	fmt.Fprintf(w, "money %s  intel %s  funding %d  support %d  transport %d/%d\n",
		humanize.Comma(int64(gs.Assets.Money)), humanize.Comma(int64(gs.Assets.Intel)),
		gs.Assets.Funding, gs.Assets.Support,
		gs.Assets.CurrentTransportCapacity, gs.Assets.MaxTransportCapacity)

	counts := gs.Assets.Agents.CountByState()
	states := make([]string, 0, len(counts))
	for st, n := range counts {
		if n > 0 {
			states = append(states, fmt.Sprintf("%s=%d", st, n))
		}
	}
	slices.Sort(states)
	fmt.Fprintf(w, "agents %d [%s]  terminated %d\n", len(gs.Assets.Agents), strings.Join(states, " "), len(gs.TerminatedAgents))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTION\tPOWER\tINTEL\tNEXT SITE")
	for _, f := range gs.Factions {
		if f.IsPlaceholder() {
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%d\t%d\n", f.Name, f.Power, f.IntelInvested, f.MissionSiteCountdown)
	}
	tw.Flush()

	evs := saved.Events
	if len(evs) > last {
		evs = evs[len(evs)-last:]
	}
	for _, e := range evs {
		fmt.Fprintln(w, formatEvent(e))
	}
}

func formatEvent(e events.GameEvent) string {
	s := fmt.Sprintf("#%d t%d %s", e.ID, e.Turn, e.Type)
	if len(e.IDs) > 0 {
		s += fmt.Sprintf(" ids=%v", e.IDs)
	}
	if e.TargetID != nil {
		s += fmt.Sprintf(" target=%d", *e.TargetID)
	}
	return s
}
