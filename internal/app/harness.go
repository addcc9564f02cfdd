package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ternarybob/transcheck/internal/browser"
	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/interfaces"
	"github.com/ternarybob/transcheck/internal/models"
	"github.com/ternarybob/transcheck/internal/report"
	"github.com/ternarybob/transcheck/internal/server"
)

// Exit codes returned by Harness.Run
const (
	ExitPass = 0
	ExitFail = 1
)

const (
	serverReadyTimeout    = 10 * time.Second
	serverShutdownTimeout = 5 * time.Second
)

// RunOptions selects the translators to test
type RunOptions struct {
	TranslatorIDs []string // explicit IDs; take precedence over All
	All           bool     // every translator in the catalog
}

// Harness runs one end-to-end translator check
type Harness struct {
	app    *App
	stdout io.Writer

	newDriver        func() interfaces.TestDriver
	startServer      func(ctx context.Context) (stop func(), err error)
	waitForInterrupt func(ctx context.Context)
	now              func() time.Time
}

// NewHarness creates a harness writing the transcript to stdout
func (a *App) NewHarness() *Harness {
	h := &Harness{
		app:    a,
		stdout: os.Stdout,
		now:    time.Now,
	}
	h.newDriver = func() interfaces.TestDriver {
		return browser.NewSession(a.Config.Browser, a.Config.Harness.ExtensionDir, a.Logger)
	}
	h.startServer = h.serveTranslators
	h.waitForInterrupt = func(ctx context.Context) { <-ctx.Done() }
	return h
}

// Run executes the check and returns the process exit code.
// ctx should be cancelled on SIGINT/SIGTERM.
func (h *Harness) Run(ctx context.Context, opts RunOptions) int {
	logger := h.app.Logger
	cfg := h.app.Config

	run := &models.RunRecord{
		ID:         common.NewRunID(),
		StartedAt:  h.now(),
		BaseBranch: cfg.Harness.BaseBranch,
	}

	ids, err := h.selectTranslators(ctx, opts)
	if err != nil {
		return h.fail(ctx, run, err)
	}
	run.TranslatorIDs = ids

	if len(ids) == 0 {
		logger.Info().Str("base", cfg.Harness.BaseBranch).Msg("No translators to test")
		return ExitPass
	}

	logger.Info().
		Str("run_id", run.ID).
		Strs("translators", ids).
		Msg("Testing translators")

	results, release, err := h.collectResults(ctx, ids)
	defer release()
	if err != nil {
		return h.fail(ctx, run, err)
	}

	var transcript bytes.Buffer
	reporter := report.NewReporter(io.MultiWriter(h.stdout, &transcript))
	summary := reporter.Report(results)
	summary.RenderTable(h.stdout)

	run.FinishedAt = h.now()
	run.Passed = summary.Passed()
	run.Subjects = summary.Subjects

	info := report.RunInfo{
		RunID:      run.ID,
		BaseBranch: run.BaseBranch,
		StartedAt:  run.StartedAt,
		Duration:   run.Duration(),
	}

	if cfg.Harness.OutputDir != "" {
		runDir, err := report.WriteArtifacts(cfg.Harness.OutputDir, transcript.String(), summary, info)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to write artifacts")
		} else {
			run.ArtifactsDir = runDir
			logger.Info().Str("dir", runDir).Msg("Artifacts written")
		}
	}

	h.saveRun(ctx, run)

	if h.app.Publisher != nil {
		if err := h.app.Publisher.Publish(ctx, summary.Markdown(info)); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish summary")
		}
	}

	logger.Info().
		Str("run_id", run.ID).
		Str("status", run.Status()).
		Str("duration", run.Duration().String()).
		Msg("Run complete")

	if run.Passed {
		return ExitPass
	}
	return ExitFail
}

// selectTranslators resolves explicit IDs, the whole catalog, or the changed files
func (h *Harness) selectTranslators(ctx context.Context, opts RunOptions) ([]string, error) {
	catalog := h.app.Catalog

	if len(opts.TranslatorIDs) > 0 {
		ids := make([]string, 0, len(opts.TranslatorIDs))
		for _, id := range opts.TranslatorIDs {
			if _, ok := catalog.ByID(id); !ok {
				h.app.Logger.Warn().Str("translator_id", id).Msg("Unknown translator, skipping")
				continue
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	if opts.All {
		return catalog.IDs(), nil
	}

	ids, err := h.app.Detector.TranslatorIDs(ctx, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to detect changed translators: %w", err)
	}
	return ids, nil
}

// collectResults serves the translators, drives the browser and returns its results.
// The returned release func closes the browser, first waiting for an interrupt
// when the browser is kept open; it is never nil.
func (h *Harness) collectResults(ctx context.Context, ids []string) (*models.ResultSet, func(), error) {
	release := func() {}

	stopServer, err := h.startServer(ctx)
	if err != nil {
		return nil, release, err
	}
	defer stopServer()

	driver := h.newDriver()
	if err := driver.Start(ctx); err != nil {
		return nil, release, fmt.Errorf("failed to start browser: %w", err)
	}
	release = func() {
		if h.app.Config.Harness.KeepBrowserOpen {
			h.app.Logger.Info().Msg("Keeping browser open, press Ctrl+C to exit")
			h.waitForInterrupt(ctx)
		}
		driver.Close()
	}

	if _, err := driver.DiscoverExtensionID(ctx); err != nil {
		return nil, release, fmt.Errorf("failed to discover extension: %w", err)
	}

	results, err := driver.RunTests(ctx, ids)
	if err != nil {
		return nil, release, err
	}
	return results, release, nil
}

// Serve runs only the translator server until ctx is cancelled
func (h *Harness) Serve(ctx context.Context) error {
	stop, err := h.startServer(ctx)
	if err != nil {
		return err
	}
	defer stop()

	h.app.Logger.Info().
		Str("url", h.app.Config.TranslatorServerURL()).
		Int("translators", h.app.Catalog.Len()).
		Msg("Server ready, press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}

// serveTranslators starts the translator server and waits until it answers
func (h *Harness) serveTranslators(ctx context.Context) (func(), error) {
	cfg := h.app.Config
	srv := server.New(h.app.Catalog, cfg.TranslatorServer.Host, cfg.TranslatorServer.Port, h.app.Logger)

	errCh := make(chan error, 1)
	common.SafeGo(h.app.Logger, "translator-server", func() {
		errCh <- srv.Start()
	}, func(r interface{}) {
		errCh <- fmt.Errorf("translator server panicked: %v", r)
	})

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			h.app.Logger.Warn().Err(err).Msg("Failed to stop translator server")
		}
	}

	readyCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	readyErr := make(chan error, 1)
	go func() { readyErr <- server.WaitReady(readyCtx, cfg.TranslatorServerURL(), serverReadyTimeout) }()

	select {
	case err := <-errCh:
		if err == nil {
			err = fmt.Errorf("translator server exited before becoming ready")
		}
		return nil, err
	case err := <-readyErr:
		if err != nil {
			stop()
			return nil, fmt.Errorf("failed to start translator server: %w", err)
		}
	}

	return stop, nil
}

// fail records an acquisition failure; no report is rendered
func (h *Harness) fail(ctx context.Context, run *models.RunRecord, err error) int {
	h.app.Logger.Error().Err(err).Str("run_id", run.ID).Msg("Translator tests could not be run")

	run.FinishedAt = h.now()
	run.Passed = false
	run.Error = err.Error()
	h.saveRun(ctx, run)

	return ExitFail
}

func (h *Harness) saveRun(ctx context.Context, run *models.RunRecord) {
	if h.app.RunStorage == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if err := h.app.RunStorage.SaveRun(ctx, run); err != nil {
		h.app.Logger.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to save run")
		return
	}
	if _, err := h.app.RunStorage.PruneRuns(ctx, h.app.Config.Storage.Badger.MaxRuns); err != nil {
		h.app.Logger.Warn().Err(err).Msg("Failed to prune run history")
	}
}
