// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Model selects the rating model: plackett_luce, bradley_terry_full,
	// bradley_terry_part, thurstone_mosteller_full, thurstone_mosteller_part.
	Model string `koanf:"model"`

	// Mu and Sigma seed new player ratings.
	Mu    float64 `koanf:"mu"`
	Sigma float64 `koanf:"sigma"`

	// Beta is the performance variance added per pairwise comparison.
	Beta float64 `koanf:"beta"`

	// Kappa floors the variance multiplier during updates.
	Kappa float64 `koanf:"kappa"`

	// Tau inflates sigma before each update to keep ratings mobile.
	Tau float64 `koanf:"tau"`

	// Margin is the score gap below which victories carry no extra weight.
	Margin float64 `koanf:"margin"`

	// Epsilon is the draw margin for the Thurstone-Mosteller models.
	Epsilon float64 `koanf:"epsilon"`

	// WindowSize bounds neighbor comparisons in the partial-pairing models.
	WindowSize int `koanf:"window_size"`

	// LimitSigma prevents sigma from growing past its pre-update value.
	LimitSigma bool `koanf:"limit_sigma"`

	// Balance weights strong teams more heavily during aggregation.
	Balance bool `koanf:"balance"`

	// MatchQueueSize bounds the in-memory match queue.
	MatchQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Model:               "plackett_luce",
		Mu:                  25.0,
		Sigma:               25.0 / 3.0,
		Beta:                25.0 / 6.0,
		Kappa:               0.0001,
		Tau:                 25.0 / 300.0,
		Margin:              0.0,
		Epsilon:             0.1,
		WindowSize:          4,
		LimitSigma:          false,
		Balance:             false,
		MatchQueueSize:      100_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          500_000,
		MaxLeaderboardLimit: 100,
	}
}
