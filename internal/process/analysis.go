package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pifslicer-design/mpg-assistant/internal/config"
	"github.com/pifslicer-design/mpg-assistant/internal/core/catalog"
	"github.com/pifslicer-design/mpg-assistant/internal/store"
	"github.com/pifslicer-design/mpg-assistant/internal/telemetry"
)

// Env is the shared infrastructure handed to every analysis command.
type Env struct {
	Config  *config.Config
	Store   *store.Store
	Corpus  *store.Corpus
	Catalog *catalog.Catalog
	RunID   string
	Log     *slog.Logger
}

// Open wires the store, corpus cache and bonus catalog for cfg.
func Open(cfg *config.Config) (*Env, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	cat, err := config.LoadCatalog(cfg.BonusCatalogPath)
	if err != nil {
		st.Close()
		return nil, err
	}
	runID := uuid.NewString()
	return &Env{
		Config:  cfg,
		Store:   st,
		Corpus:  store.NewCorpus(st),
		Catalog: cat,
		RunID:   runID,
		Log:     telemetry.L().With("run", runID[:8]),
	}, nil
}

func (e *Env) Close() error {
	return e.Store.Close()
}

// CorpusQuery returns the configured exclusion policy with the given cap.
func (e *Env) CorpusQuery(limit int) store.CorpusQuery {
	return store.CorpusQuery{
		IncludeCovid:      e.Config.IncludeCovidDivisions,
		IncludeCurrent:    e.Config.IncludeCurrentDivision,
		IncludeIncomplete: e.Config.IncludeIncompleteDivisions,
		Limit:             limit,
	}
}

// AnalysisConfig captures what differs between the analysis entry points.
type AnalysisConfig struct {
	Name string

	// Configure optionally adjusts the loaded config, e.g. from CLI flags.
	Configure func(cfg *config.Config)

	Run func(ctx context.Context, env *Env) error
}

// Run boots an analysis command: config, telemetry, store, catalog and a
// context cancelled on SIGINT/SIGTERM. It exits the process with status 1
// when setup or ac.Run fails.
func Run(ac AnalysisConfig) {
	cfg := config.Load()
	if ac.Configure != nil {
		ac.Configure(cfg)
	}
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	env, err := Open(cfg)
	if err != nil {
		telemetry.Errorf("%s setup: %v", ac.Name, err)
		os.Exit(1)
	}
	env.Log.Info(fmt.Sprintf("Starting %s", ac.Name), "db", cfg.DBPath, "workers", cfg.SimWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	start := time.Now()
	err = ac.Run(ctx, env)
	stop()
	env.Close()

	elapsed := time.Since(start).Round(time.Millisecond)
	switch {
	case errors.Is(err, context.Canceled):
		telemetry.Warnf("%s interrupted after %s", ac.Name, elapsed)
		os.Exit(1)
	case err != nil:
		telemetry.Errorf("%s: %v", ac.Name, err)
		os.Exit(1)
	}
	telemetry.Infof("%s complete in %s  %s", ac.Name, elapsed, telemetry.Summary())
}
