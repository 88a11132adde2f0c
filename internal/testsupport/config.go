package testsupport

import (
	"path/filepath"
	"testing"

	"rosterid/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithAuthoritative overrides the sources trusted to create new players.
func WithAuthoritative(sources ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sources.Authoritative = sources
	}
}

// WithFuzzyThresholds overrides the fuzzy acceptance policy.
func WithFuzzyThresholds(accept, margin float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.FuzzyAccept = accept
		cfg.Matching.FuzzyMargin = margin
	}
}
