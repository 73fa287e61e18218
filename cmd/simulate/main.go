package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pifslicer-design/mpg-assistant/internal/core/catalog"
	"github.com/pifslicer-design/mpg-assistant/internal/core/engine"
	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/process"
)

func main() {
	without := flag.String("without", "", "replay without a bonus, as side:bonus (e.g. home:mcdo)")
	probabilistic := flag.Bool("prob", false, "recompute virtual goals instead of using the recorded ones")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: simulate [-prob] [-without side:bonus] <match-id>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	matchID := flag.Arg(0)

	process.Run(process.AnalysisConfig{
		Name: "simulate",
		Run: func(ctx context.Context, env *process.Env) error {
			m, err := env.Store.Match(ctx, matchID)
			if err != nil {
				return err
			}

			mode := engine.GroundTruth
			if *probabilistic {
				mode = engine.Probabilistic
			}
			r := engine.Simulate(m, mode)
			printMatch(m, r, env.Catalog)

			if *without == "" {
				return nil
			}
			side, kind, err := parseWithout(env.Catalog, *without)
			if err != nil {
				return err
			}
			if !m.Team(side).Bonuses.Has(kind) {
				fmt.Printf("%s did not play %s; counterfactual equals the recorded run.\n", side, env.Catalog.Label(kind))
				return nil
			}
			cf := engine.WithoutBonus(m, side, kind)
			fmt.Printf("\n── without %s (%s) ──\n", env.Catalog.Label(kind), side)
			if !kind.Reversible() {
				fmt.Println("  approximate: the lineup effect of this bonus cannot be removed")
			}
			printScore(cf)
			d := (r.Team(side).TotalGoals() - r.Team(side.Opponent()).TotalGoals()) -
				(cf.Team(side).TotalGoals() - cf.Team(side.Opponent()).TotalGoals())
			fmt.Printf("  goal-differential gain for %s: %+d\n", side, d)
			return nil
		},
	})
}

func parseWithout(cat *catalog.Catalog, arg string) (match.Side, match.Kind, error) {
	sideStr, bonus, ok := strings.Cut(arg, ":")
	if !ok {
		return "", "", errors.New("-without: want side:bonus")
	}
	side, err := match.ParseSide(strings.ToLower(strings.TrimSpace(sideStr)))
	if err != nil {
		return "", "", fmt.Errorf("-without: %w", err)
	}
	kind, err := cat.Resolve(bonus)
	if err != nil {
		return "", "", fmt.Errorf("-without: %w", err)
	}
	return side, kind, nil
}

func printMatch(m *match.Match, r engine.MatchSimResult, cat *catalog.Catalog) {
	fmt.Printf("=== %s  (season %d, GW%d, %s) ===\n", m.ID, m.Season, m.GameWeek, r.Mode)
	for _, side := range []match.Side{match.Home, match.Away} {
		t := m.Team(side)
		fmt.Printf("\n── %s %s ──\n", side, t.TeamID)
		printLineup(t, m.Team(side.Opponent()), side == match.Home)

		if kinds := t.Bonuses.Kinds(); len(kinds) > 0 {
			labels := make([]string, len(kinds))
			for i, k := range kinds {
				labels[i] = cat.Label(k)
			}
			fmt.Printf("  bonuses: %s\n", strings.Join(labels, ", "))
		}
		tr := r.Team(side)
		names := make([]string, len(tr.VirtualScorers))
		for i, s := range tr.VirtualScorers {
			names[i] = s.Name
		}
		fmt.Printf("  real=%d  virtual=%d  own(opp)=%d  scorers=[%s]\n",
			tr.RealGoals, tr.VirtualGoals, tr.OwnGoals, strings.Join(names, ", "))
		if len(tr.CancelTargets) > 0 {
			fmt.Printf("  cancelled: %s\n", strings.Join(tr.CancelTargets, ", "))
		}
	}
	fmt.Println()
	printScore(r)
}

func printLineup(t, opp *match.Team, home bool) {
	starters := engine.ParseStarters(t)
	oppAvg := engine.ComputeLineAverages(engine.ParseStarters(opp))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  slot\tplayer\tpos\trating\tbonus\teff\treal\tmpg\tsim")
	for _, p := range starters {
		sim := "-"
		if p.EligibleForVirtualGoal() {
			sim = "no"
			if engine.ScoresVirtualGoal(p, oppAvg, home) {
				sim = "goal"
			}
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%.1f\t%+.1f\t%.1f\t%d\t%d\t%s\n",
			p.Slot, p.DisplayName(), p.Position, p.Rating, p.BonusRating,
			p.EffectiveRating(), p.RealGoals, p.RecordedVirtualGoals, sim)
	}
	w.Flush()

	avg := engine.ComputeLineAverages(starters)
	fmt.Printf("  line averages: GK %.2f  DEF %.2f  MID %.2f  FWD %.2f\n",
		avg.Goalkeeper, avg.Defender, avg.Midfielder, avg.Forward)
}

func printScore(r engine.MatchSimResult) {
	if !r.Simulated {
		fmt.Println("  not simulated: a side has no rated starter")
		return
	}
	fmt.Printf("  simulated %d-%d", r.Home.TotalGoals(), r.Away.TotalGoals())
	if r.RecordedHome != nil && r.RecordedAway != nil {
		verdict := "differs"
		if r.MatchesRecorded() {
			verdict = "matches"
		}
		fmt.Printf("  recorded %d-%d  (%s)", *r.RecordedHome, *r.RecordedAway, verdict)
	}
	fmt.Println()
}
