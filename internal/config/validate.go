package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	unit := map[string]float64{
		"matching.crosswalk_confidence": c.Matching.CrosswalkConfidence,
		"matching.name_dob_confidence":  c.Matching.NameDOBConfidence,
		"matching.name_only_confidence": c.Matching.NameOnlyConfidence,
		"matching.fuzzy_accept":         c.Matching.FuzzyAccept,
		"matching.fuzzy_margin":         c.Matching.FuzzyMargin,
	}
	for field, value := range unit {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1", field)
		}
	}
	if c.Matching.CrosswalkConfidence < 0.95 {
		return errors.New("matching.crosswalk_confidence must be at least 0.95")
	}
	if c.Matching.NameDOBConfidence < 0.85 || c.Matching.NameDOBConfidence > 0.95 {
		return errors.New("matching.name_dob_confidence must be between 0.85 and 0.95")
	}
	if c.Matching.NameOnlyConfidence < 0.70 || c.Matching.NameOnlyConfidence > 0.85 {
		return errors.New("matching.name_only_confidence must be between 0.70 and 0.85")
	}
	if c.Matching.FuzzyAccept <= c.Matching.FuzzyMargin {
		return errors.New("matching.fuzzy_accept must exceed matching.fuzzy_margin")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
