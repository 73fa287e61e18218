package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pifslicer-design/mpg-assistant/internal/core/catalog"
	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/process"
	"github.com/pifslicer-design/mpg-assistant/internal/store"
)

func main() {
	n := flag.Int("n", 10, "number of recent matches to display")
	division := flag.String("division", "", "restrict to one division ID")
	divisions := flag.Bool("divisions", false, "list division metadata instead of matches")
	remaining := flag.Bool("remaining", false, "show remaining bonus stock per team instead of matches")
	upTo := flag.Int("gw", 0, "with -remaining: count usage up to this game week")
	flag.Parse()

	process.Run(process.AnalysisConfig{
		Name: "inspect",
		Run: func(ctx context.Context, env *process.Env) error {
			switch {
			case *divisions:
				return printDivisions(ctx, env.Store)
			case *remaining:
				return printRemaining(ctx, env.Store, env.Catalog, *division, *upTo)
			default:
				return printRecent(ctx, env.Store, env.Catalog, *division, *n)
			}
		},
	})
}

func printRecent(ctx context.Context, st *store.Store, cat *catalog.Catalog, division string, n int) error {
	rows, err := st.Recent(ctx, division, n)
	if err != nil {
		return err
	}
	fmt.Printf("=== Matches (last %d) ===\n", n)
	if len(rows) == 0 {
		fmt.Println("(no data)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tseason\tgw\thome\taway\tscore\thome bonuses\taway bonuses\tfinal")
	fmt.Fprintln(w, strings.Repeat("----\t", 9))
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s-%s\t%s\t%s\t%v\n",
			r.ID, r.Season, r.GameWeek, r.HomeTeamID, r.AwayTeamID,
			fmtScore(r.HomeScore), fmtScore(r.AwayScore),
			bonusLabels(cat, r.HomeBonuses), bonusLabels(cat, r.AwayBonuses), r.Finalized)
	}
	return w.Flush()
}

func printDivisions(ctx context.Context, st *store.Store) error {
	divs, err := st.Divisions(ctx)
	if err != nil {
		return err
	}
	fmt.Println("=== Divisions ===")
	if len(divs) == 0 {
		fmt.Println("(no metadata, run import first)")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "division\tseason\tmatches\tgw\tflags")
	fmt.Fprintln(w, strings.Repeat("----\t", 5))
	for _, d := range divs {
		var flags []string
		if d.Covid {
			flags = append(flags, "covid")
		}
		if d.Incomplete {
			flags = append(flags, fmt.Sprintf("incomplete(<%d)", d.ExpectedMatches))
		}
		if d.Current {
			flags = append(flags, "current")
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d-%d\t%s\n",
			d.ID, d.Season, d.Matches, d.FirstGameWeek, d.LastGameWeek, strings.Join(flags, ","))
	}
	return w.Flush()
}

func printRemaining(ctx context.Context, st *store.Store, cat *catalog.Catalog, division string, upTo int) error {
	used, err := st.BonusUsage(ctx, division, upTo)
	if err != nil {
		return err
	}
	scope := "whole season"
	if upTo > 0 {
		scope = fmt.Sprintf("up to GW%d", upTo)
	}
	fmt.Printf("=== Remaining bonuses (%s) ===\n", scope)
	if len(used) == 0 {
		fmt.Println("(no data)")
		return nil
	}

	teams := make([]string, 0, len(used))
	for id := range used {
		teams = append(teams, id)
	}
	sort.Strings(teams)

	cons := cat.Consumable()
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	header := []string{"team"}
	for _, e := range cons {
		header = append(header, catalog.DisplayLabel(e.Short))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	fmt.Fprintln(w, strings.Repeat("----\t", len(header)))
	for _, team := range teams {
		cells := []string{team}
		for _, s := range cat.Remaining(used[team]) {
			cells = append(cells, fmt.Sprintf("%d/%d (u:%d)", s.Remaining, s.Entry.Stock, s.Used))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	unlisted := make(map[match.Kind]int)
	for _, counts := range used {
		for k, n := range counts {
			unlisted[k] += n
		}
	}
	if extra := cat.Unlisted(unlisted); len(extra) > 0 {
		fmt.Printf("\nBonus keys missing from the catalog: %v\n", extra)
	}
	return nil
}

func bonusLabels(cat *catalog.Catalog, raw string) string {
	var b match.Bonuses
	if err := b.UnmarshalJSON([]byte(raw)); err != nil {
		return "?"
	}
	kinds := b.Kinds()
	if len(kinds) == 0 {
		return "-"
	}
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = cat.Short(k)
	}
	return strings.Join(labels, ",")
}

func fmtScore(v *float64) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", int(*v))
}
