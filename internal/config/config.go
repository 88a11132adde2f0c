package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Matching contains the resolution engine's confidence policy. Every value
// lives in [0,1]; acceptance thresholds gate which decision ladder steps may
// write an identifier.
type Matching struct {
	// CrosswalkConfidence is assigned to identifiers resolved via the
	// trusted cross-source mapping table. Must be at least 0.95.
	CrosswalkConfidence float64 `toml:"crosswalk_confidence"`
	// NameDOBConfidence is assigned when a normalized name plus exact
	// birth date isolates a single candidate.
	NameDOBConfidence float64 `toml:"name_dob_confidence"`
	// NameOnlyConfidence is assigned when a normalized name alone (plus
	// optional team/position narrowing) isolates a single candidate.
	NameOnlyConfidence float64 `toml:"name_only_confidence"`
	// FuzzyAccept is the minimum similarity score a fuzzy match must clear.
	FuzzyAccept float64 `toml:"fuzzy_accept"`
	// FuzzyMargin is the minimum separation between the best and runner-up
	// fuzzy scores. Ties inside the margin queue for review instead.
	FuzzyMargin float64 `toml:"fuzzy_margin"`
}

// Sources contains per-source ingestion policy and curated data file paths.
type Sources struct {
	// Authoritative lists source tags trusted to create new players when
	// no existing player matches. Records from other sources queue instead.
	Authoritative []string `toml:"authoritative"`
	// AliasFile is an optional TOML file of alias registry entries layered
	// over the builtin table.
	AliasFile string `toml:"alias_file"`
	// CrosswalkFile is an optional TOML file of trusted cross-source id links.
	CrosswalkFile string `toml:"crosswalk_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rosterid.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Matching Matching `toml:"matching"`
	Sources  Sources  `toml:"sources"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rosterid/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rosterid.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for store and log output.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IsAuthoritative reports whether a source tag is trusted to create new
// players for unmatched records.
func (c *Config) IsAuthoritative(source string) bool {
	source = strings.ToLower(strings.TrimSpace(source))
	for _, tag := range c.Sources.Authoritative {
		if strings.ToLower(strings.TrimSpace(tag)) == source {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
