package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"rosterid/internal/alias"
	"rosterid/internal/config"
	"rosterid/internal/crosswalk"
	"rosterid/internal/identity"
	"rosterid/internal/logging"
	"rosterid/internal/resolve"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the identity store for the duration of one command.
func (c *commandContext) withStore(fn func(*config.Config, *identity.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := identity.Open(cfg)
	if err != nil {
		return fmt.Errorf("open identity store: %w", err)
	}
	defer store.Close()
	return fn(cfg, store)
}

// newEngine builds the resolution engine with the configured alias and
// crosswalk seed files layered over the builtin tables.
func (c *commandContext) newEngine(cfg *config.Config, store *identity.Store, logger *slog.Logger) (*resolve.Engine, error) {
	registry := alias.NewRegistry(alias.Builtin()...)
	if path := strings.TrimSpace(cfg.Sources.AliasFile); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve alias file: %w", err)
		}
		registry, err = alias.LoadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("load alias file: %w", err)
		}
	}

	xwalk := crosswalk.NewTable()
	if path := strings.TrimSpace(cfg.Sources.CrosswalkFile); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("resolve crosswalk file: %w", err)
		}
		xwalk, err = crosswalk.LoadFile(expanded)
		if err != nil {
			return nil, fmt.Errorf("load crosswalk file: %w", err)
		}
	}

	return resolve.NewEngine(store, registry, xwalk, cfg, logger), nil
}

// newLogger builds the configured logger for long-running commands.
func (c *commandContext) newLogger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}
