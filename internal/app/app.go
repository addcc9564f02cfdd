package app

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/changes"
	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/interfaces"
	"github.com/ternarybob/transcheck/internal/publish"
	"github.com/ternarybob/transcheck/internal/storage/badger"
	"github.com/ternarybob/transcheck/internal/translators"
)

// App holds all application components and dependencies
type App struct {
	Config  *common.Config
	Logger  arbor.ILogger
	Catalog *translators.Catalog

	// Optional collaborators; nil when disabled in config or unavailable
	RunStorage interfaces.RunStorage
	Publisher  interfaces.Publisher

	Detector interfaces.ChangeDetector
}

// New initializes the application: translator catalog, run history and publisher
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	catalog, err := translators.LoadCatalog(cfg.Harness.TranslatorsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load translators: %w", err)
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Catalog:  catalog,
		Detector: changes.NewDetector(cfg.Harness.TranslatorsDir, cfg.Harness.BaseBranch, logger),
	}

	if cfg.Storage.Badger.Enabled {
		storage, err := OpenRunStorage(cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Run history unavailable, continuing without it")
		} else {
			app.RunStorage = storage
		}
	}

	if cfg.GitHub.Enabled() {
		publisher, err := publish.NewGitHubPublisher(cfg.GitHub, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Pull request publishing disabled")
		} else {
			app.Publisher = publisher
		}
	}

	logger.Info().
		Str("translators_dir", cfg.Harness.TranslatorsDir).
		Int("translators", catalog.Len()).
		Bool("history", app.RunStorage != nil).
		Bool("publish", app.Publisher != nil).
		Msg("Application initialized")

	return app, nil
}

// OpenRunStorage opens the Badger run history configured in cfg
func OpenRunStorage(cfg *common.Config, logger arbor.ILogger) (interfaces.RunStorage, error) {
	db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
	if err != nil {
		return nil, err
	}
	return badger.NewRunStorage(db, logger), nil
}

// Close releases application resources
func (a *App) Close() error {
	if a.RunStorage != nil {
		if err := a.RunStorage.Close(); err != nil {
			return fmt.Errorf("failed to close run history: %w", err)
		}
		a.RunStorage = nil
	}
	return nil
}
