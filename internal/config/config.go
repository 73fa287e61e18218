package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DBPath string

	// Batch simulation
	SimWorkers       int
	ValidateSample   int
	ImpactMaxMatches int // 0 = whole corpus

	// Bonus catalog
	BonusCatalogPath          string
	ExcludeApproximateBonuses bool

	// Corpus exclusion policy. Covid-truncated, current and incomplete
	// divisions are left out of historical statistics unless switched on.
	IncludeCurrentDivision     bool
	IncludeCovidDivisions      bool
	IncludeIncompleteDivisions bool

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBPath: envStr("MPG_DB_PATH", "data/mpg.db"),

		SimWorkers:       envInt("SIM_WORKERS", 4),
		ValidateSample:   envInt("VALIDATE_SAMPLE", 500),
		ImpactMaxMatches: envInt("IMPACT_MAX_MATCHES", 0),

		BonusCatalogPath:          envStr("BONUS_CATALOG_PATH", "config/bonus_catalog.yaml"),
		ExcludeApproximateBonuses: envBool("EXCLUDE_APPROXIMATE_BONUSES", false),

		IncludeCurrentDivision:     envBool("INCLUDE_CURRENT_DIVISION", false),
		IncludeCovidDivisions:      envBool("INCLUDE_COVID_DIVISIONS", false),
		IncludeIncompleteDivisions: envBool("INCLUDE_INCOMPLETE_DIVISIONS", false),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
