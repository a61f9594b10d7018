// Package bootstrap builds the engine and its collaborators from
// configuration. The functions double as wire providers.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/observability"
	"github.com/cory-johannsen/arena/internal/scripting"
	"github.com/cory-johannsen/arena/internal/server"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
	"github.com/cory-johannsen/arena/internal/validation"
)

// ConfigPath is the configuration file to load; empty means defaults and
// environment only.
type ConfigPath string

// ProvideConfig loads and validates the configuration at path.
func ProvideConfig(path ConfigPath) (config.Config, error) {
	return config.Load(string(path))
}

// ProvideLogger builds the process logger.
func ProvideLogger(cfg config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Logging)
}

// ProvideCatalog loads the embedded catalog merged with configured overrides.
func ProvideCatalog(cfg config.Config, logger *zap.Logger) (*content.Catalog, error) {
	start := time.Now()
	cat, err := content.Load(cfg.Content.Overrides())
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(cat.Weapons())),
		zap.Int("skills", len(cat.Skills())),
		zap.Int("pets", len(cat.Pets())),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}

// ProvideScripts creates the Lua manager and loads every catalog script.
//
// Postcondition: the returned cleanup closes the manager.
func ProvideScripts(cfg config.Config, cat *content.Catalog, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(logger, cfg.Content.ScriptInstructionLimit)
	if err := cat.LoadScripts(mgr); err != nil {
		mgr.Close()
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	return mgr, mgr.Close, nil
}

// ProvideSimulator builds the encounter simulator.
func ProvideSimulator(cfg config.Config, cat *content.Catalog, mgr *scripting.Manager, logger *zap.Logger) (*combat.Simulator, error) {
	return combat.NewSimulator(cat, mgr, logger, combat.Config{
		TurnCap:        cfg.Engine.TurnCap,
		DefaultFormula: cfg.Engine.DefaultFormula,
	})
}

// ProvidePool connects to PostgreSQL.
//
// Postcondition: the returned cleanup closes the pool.
func ProvidePool(ctx context.Context, cfg config.Config, logger *zap.Logger) (*postgres.Pool, func(), error) {
	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(start)),
	)
	return pool, pool.Close, nil
}

// ProvideFightRepository returns the fight store of pool.
func ProvideFightRepository(pool *postgres.Pool) *postgres.FightRepository {
	return pool.Fights()
}

// ProvideWorker builds the polling validation worker.
func ProvideWorker(cfg config.Config, v *validation.Validator, store validation.Store, logger *zap.Logger) *validation.Worker {
	return validation.NewWorker(v, store, logger, cfg.Validator.PollInterval, cfg.Validator.BatchSize)
}

// ProvideLifecycle registers the worker with a lifecycle manager.
func ProvideLifecycle(w *validation.Worker, logger *zap.Logger) *server.Lifecycle {
	lc := server.NewLifecycle(logger)
	lc.Add("validator", w)
	return lc
}
