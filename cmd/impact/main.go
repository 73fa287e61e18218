package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pifslicer-design/mpg-assistant/internal/config"
	"github.com/pifslicer-design/mpg-assistant/internal/core/impact"
	"github.com/pifslicer-design/mpg-assistant/internal/core/match"
	"github.com/pifslicer-design/mpg-assistant/internal/process"
)

func main() {
	bonuses := flag.String("bonus", "", "comma-separated bonuses to measure, by key or label (default: all reversible kinds)")
	maxMatches := flag.Int("max", 0, "cap the corpus (default IMPACT_MAX_MATCHES)")
	detail := flag.Bool("detail", false, "also print win/draw/loss distributions")
	exact := flag.Bool("exact", false, "leave out bonuses whose counterfactual is approximate")
	division := flag.String("division", "", "restrict to one division ID")
	flag.Parse()

	process.Run(process.AnalysisConfig{
		Name: "impact",
		Configure: func(cfg *config.Config) {
			if *maxMatches > 0 {
				cfg.ImpactMaxMatches = *maxMatches
			}
			if *exact {
				cfg.ExcludeApproximateBonuses = true
			}
		},
		Run: func(ctx context.Context, env *process.Env) error {
			kinds, err := parseKinds(env, *bonuses)
			if err != nil {
				return err
			}

			q := env.CorpusQuery(env.Config.ImpactMaxMatches)
			q.DivisionID = *division
			ms, err := env.Corpus.Scored(ctx, q)
			if err != nil {
				return err
			}
			env.Log.Info("analyzing bonus impact", "matches", len(ms), "kinds", len(kinds))

			a, err := impact.Analyze(ctx, ms, impact.Options{
				Kinds:              kinds,
				Workers:            env.Config.SimWorkers,
				ExcludeApproximate: env.Config.ExcludeApproximateBonuses,
			})
			if err != nil {
				return err
			}
			impact.PrintImpact(os.Stdout, a, env.Catalog)
			if *detail {
				impact.PrintImpactDetail(os.Stdout, a, env.Catalog)
			}
			return nil
		},
	})
}

func parseKinds(env *process.Env, list string) ([]match.Kind, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var kinds []match.Kind
	for _, name := range strings.Split(list, ",") {
		k, err := env.Catalog.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("-bonus: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
