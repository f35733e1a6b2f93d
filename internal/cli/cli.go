package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/julicq/is-deprecated-or-not/pkg/cache"
	"github.com/julicq/is-deprecated-or-not/pkg/checker"
	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/config"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
	"github.com/julicq/is-deprecated-or-not/pkg/scheduler"
	"github.com/julicq/is-deprecated-or-not/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// ConfigFile overrides the config search path (--config).
	ConfigFile string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration & Wiring
// =============================================================================

// loadConfig loads the configuration once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	// --verbose wins over log.level.
	if c.Logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	c.cfg = cfg
	return cfg, nil
}

// app bundles the components a command works with.
type app struct {
	cfg     *config.Config
	backend storage.Backend
	store   *kb.Store
	seeded  bool
}

// openApp opens the knowledge base backend and loads the stored snapshot.
// An empty backend is seeded with the curated list.
func (c *CLI) openApp(ctx context.Context) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	snap, seeded, err := storage.LoadOrSeed(ctx, backend, collector.DefaultManual())
	if err != nil {
		backend.Close()
		return nil, err
	}
	if seeded {
		c.Logger.Info("initialized knowledge base from the curated list", "backend", backend.Name(), "packages", snap.Len())
	}
	return &app{cfg: cfg, backend: backend, store: kb.NewStore(snap), seeded: seeded}, nil
}

func (a *app) Close() error { return a.backend.Close() }

// newChecker returns a project checker over the app's store.
func (a *app) newChecker(logger *log.Logger) *checker.Checker {
	return checker.New(a.store, checker.WithLogger(logger))
}

// newCollector builds the configured sources over the HTTP response
// cache. The returned cache must be closed by the caller.
func (a *app) newCollector(logger *log.Logger) (*collector.Collector, cache.Cache, error) {
	httpCache, err := a.cfg.OpenCache()
	if err != nil {
		return nil, nil, err
	}
	sources := collector.NewSources(a.cfg.Collector, httpCache, logger)
	col := collector.New(a.cfg.Collector, sources,
		collector.WithPrevious(a.store),
		collector.WithLogger(logger))
	return col, httpCache, nil
}

// newScheduler wires a scheduler that persists to the app's backend.
func (a *app) newScheduler(updater scheduler.Updater, logger *log.Logger) *scheduler.Scheduler {
	return scheduler.New(a.cfg.Scheduler, updater, a.store,
		scheduler.WithBackend(a.backend),
		scheduler.WithLogger(logger))
}
