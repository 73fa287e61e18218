package main

import (
	"context"
	"flag"
	"os"

	"github.com/pifslicer-design/mpg-assistant/internal/config"
	"github.com/pifslicer-design/mpg-assistant/internal/core/impact"
	"github.com/pifslicer-design/mpg-assistant/internal/process"
)

func main() {
	n := flag.Int("n", 0, "number of matches to sample (default VALIDATE_SAMPLE)")
	list := flag.Int("list", 0, "print up to N wrongly reconstructed matches")
	all := flag.Bool("all", false, "validate the whole corpus in stored order instead of a random sample")
	division := flag.String("division", "", "restrict to one division ID")
	flag.Parse()

	process.Run(process.AnalysisConfig{
		Name: "validate",
		Configure: func(cfg *config.Config) {
			if *n > 0 {
				cfg.ValidateSample = *n
			}
		},
		Run: func(ctx context.Context, env *process.Env) error {
			q := env.CorpusQuery(env.Config.ValidateSample)
			q.DivisionID = *division
			q.Random = true
			if *all {
				q.Limit, q.Random = 0, false
			}

			ms, err := env.Corpus.Scored(ctx, q)
			if err != nil {
				return err
			}
			env.Log.Info("validating", "matches", len(ms))

			v, err := impact.Validate(ctx, ms, impact.ValidateOptions{Workers: env.Config.SimWorkers})
			if err != nil {
				return err
			}
			impact.PrintValidation(os.Stdout, v, *list)
			return nil
		},
	})
}
