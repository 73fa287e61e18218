package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pifslicer-design/mpg-assistant/internal/process"
	"github.com/pifslicer-design/mpg-assistant/internal/store"
)

func main() {
	division := flag.String("division", "", "division ID the files belong to (required)")
	gw := flag.Int("gw", 0, "game week for payloads that carry none")
	finalizedUpTo := flag.Int("finalized", 0, "mark game weeks up to N as final")
	expected := flag.Int("expected", store.DefaultExpectedMatches, "match count of a complete season")
	covid := flag.String("covid", "", "comma-separated division IDs truncated by covid")
	current := flag.String("current", "", "division ID of the season in progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: import -division ID [flags] file.json...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *division == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	process.Run(process.AnalysisConfig{
		Name: "import",
		Run: func(ctx context.Context, env *process.Env) error {
			total := 0
			for _, path := range flag.Args() {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				raws, err := store.SplitPayload(data)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				n, err := env.Store.SaveMatches(ctx, *division, *gw, raws)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				total += n
			}

			if *finalizedUpTo > 0 {
				n, err := env.Store.MarkFinalized(ctx, *division, *finalizedUpTo)
				if err != nil {
					return err
				}
				env.Log.Info(fmt.Sprintf("GW1-GW%d finalized", *finalizedUpTo), "matches", n)
			}

			divs, err := env.Store.RefreshDivisions(ctx, store.DivisionPolicy{
				ExpectedMatches: *expected,
				Covid:           splitList(*covid),
				Current:         *current,
			})
			if err != nil {
				return err
			}
			env.Corpus.Forget()
			env.Log.Info("import done", "files", flag.NArg(), "matches", total, "divisions", divs)
			return nil
		},
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
