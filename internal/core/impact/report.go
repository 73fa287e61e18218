package impact

import (
	"fmt"
	"io"
	"strings"

	"github.com/pifslicer-design/mpg-assistant/internal/core/catalog"
)

const reportWidth = 76

// PrintImpact writes the fixed-width bonus impact table, best bonus first.
func PrintImpact(w io.Writer, a Analysis, cat *catalog.Catalog) {
	rule := strings.Repeat("=", reportWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  BONUS IMPACT  counterfactual simulation")
	fmt.Fprintf(w, "  %d matches, %d skipped, %d samples\n", a.Matches, a.Skipped, a.Samples)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-30s %6s %8s %8s %8s %9s\n", "Bonus", "N", "ΔGoals", "W%with", "W%w/o", "Changed")
	fmt.Fprintln(w, strings.Repeat("-", reportWidth))

	approx := false
	for _, bi := range a.Sorted() {
		label := catalog.DisplayLabel(cat.Label(bi.Kind))
		if bi.Approximate {
			label += " *"
			approx = true
		}
		fmt.Fprintf(w, "%-30s %6d %+8.3f %7.1f%% %7.1f%% %8.1f%%\n",
			truncate(label, 30), bi.Samples, bi.MeanDelta,
			bi.WinWith, bi.WinWithout, bi.OutcomeChangedPct)
	}
	if len(a.Impacts) == 0 {
		fmt.Fprintln(w, "  (no bonus played in this corpus)")
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  ΔGoals  = mean goal-differential gain for the side playing the bonus")
	fmt.Fprintln(w, "  Changed = share of samples where the bonus changed the result")
	if approx {
		fmt.Fprintln(w, "  *       = lineup bonus replayed as recorded, delta is not meaningful")
	}
	fmt.Fprintln(w)
}

// PrintImpactDetail writes the full outcome distribution of each kind.
func PrintImpactDetail(w io.Writer, a Analysis, cat *catalog.Catalog) {
	fmt.Fprintf(w, "%-30s %6s   %-15s   %-15s\n", "Bonus", "Δ>0", "with W/D/L", "without W/D/L")
	for _, bi := range a.Sorted() {
		fmt.Fprintf(w, "%-30s %5.1f%%   %4.0f/%4.0f/%4.0f%%   %4.0f/%4.0f/%4.0f%%\n",
			truncate(catalog.DisplayLabel(cat.Label(bi.Kind)), 30), bi.PositiveDeltaPct,
			bi.WinWith, bi.DrawWith, bi.LossWith,
			bi.WinWithout, bi.DrawWithout, bi.LossWithout)
	}
	fmt.Fprintln(w)
}

// PrintValidation writes the accuracy summary and at most listWrong
// mismatched matches.
func PrintValidation(w io.Writer, v Validation, listWrong int) {
	fmt.Fprintf(w, "Engine validation over %d matches (%d skipped)\n", v.Total, v.Skipped)
	fmt.Fprintf(w, "  Exact   : %5d / %d  (%.1f%%)\n", v.Exact, v.Total, v.ExactPct())
	fmt.Fprintf(w, "  ±1 goal : %5d / %d  (%.1f%%)\n", v.Near, v.Total, v.NearPct())
	fmt.Fprintf(w, "  Wrong   : %5d / %d  (%.1f%%)\n", v.Wrong, v.Total, v.WrongPct())
	fmt.Fprintf(w, "  Mean |diff|: %.3f goals/match\n", v.MeanAbsDiff)

	if listWrong <= 0 || len(v.Mismatches) == 0 {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-36s %9s %9s\n", "Match", "simulated", "recorded")
	for i, c := range v.Mismatches {
		if i == listWrong {
			fmt.Fprintf(w, "  ... %d more\n", len(v.Mismatches)-listWrong)
			break
		}
		fmt.Fprintf(w, "  %-36s %9s %9s\n", c.MatchID,
			fmt.Sprintf("%d-%d", c.SimHome, c.SimAway),
			fmt.Sprintf("%d-%d", c.RecordedHome, c.RecordedAway))
	}
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
