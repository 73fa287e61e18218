package main

import (
	"context"
	"flag"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/pifslicer-design/mpg-assistant/internal/core/impact"
	"github.com/pifslicer-design/mpg-assistant/internal/process"
)

// report runs the engine validation and the bonus impact analysis side by
// side over one shared corpus load.
func main() {
	list := flag.Int("list", 0, "print up to N wrongly reconstructed matches")
	flag.Parse()

	process.Run(process.AnalysisConfig{
		Name: "report",
		Run: func(ctx context.Context, env *process.Env) error {
			cfg := env.Config
			q := env.CorpusQuery(cfg.ImpactMaxMatches)

			var (
				v impact.Validation
				a impact.Analysis
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				ms, err := env.Corpus.Scored(gctx, q)
				if err != nil {
					return err
				}
				v, err = impact.Validate(gctx, ms, impact.ValidateOptions{
					Limit:   cfg.ValidateSample,
					Workers: cfg.SimWorkers,
				})
				return err
			})
			g.Go(func() error {
				ms, err := env.Corpus.Scored(gctx, q)
				if err != nil {
					return err
				}
				a, err = impact.Analyze(gctx, ms, impact.Options{
					Workers:            cfg.SimWorkers,
					ExcludeApproximate: cfg.ExcludeApproximateBonuses,
				})
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			env.Log.Info("report ready", "validated", v.Total, "samples", a.Samples)
			impact.PrintValidation(os.Stdout, v, *list)
			impact.PrintImpact(os.Stdout, a, env.Catalog)
			return nil
		},
	})
}
