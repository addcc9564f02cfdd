package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/models"
)

const (
	systemPageURL       = "chrome://system/"
	extensionsButton    = "#extensions-value-btn"
	systemContent       = "#content"
	testsComplete       = "#translator-tests-complete"
	resultsExpression   = "JSON.stringify(window.seleniumOutput ?? null)"
	startupCheckTimeout = 30 * time.Second
)

// Session drives one Chromium instance with the extension under test loaded
type Session struct {
	config       common.BrowserConfig
	extensionDir string
	logger       arbor.ILogger

	mu              sync.Mutex
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	extensionID     string
}

// NewSession creates a browser session; Start launches the browser
func NewSession(config common.BrowserConfig, extensionDir string, logger arbor.ILogger) *Session {
	return &Session{
		config:       config,
		extensionDir: extensionDir,
		logger:       logger,
	}
}

// Start launches Chromium with the unpacked extension and checks it responds
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browserCtx != nil {
		return fmt.Errorf("browser session already started")
	}

	extensionDir, err := filepath.Abs(s.extensionDir)
	if err != nil {
		return fmt.Errorf("failed to resolve extension directory: %w", err)
	}
	if _, err := os.Stat(filepath.Join(extensionDir, "manifest.json")); err != nil {
		return fmt.Errorf("extension manifest not found in %s: %w", extensionDir, err)
	}

	s.logger.Info().
		Str("extension_dir", extensionDir).
		Str("exec_path", s.config.ExecPath).
		Bool("headless", s.config.Headless).
		Msg("Starting browser")

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(ctx, s.allocatorOptions(extensionDir)...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			s.logger.Debug().Msgf("chromedp: "+format, args...)
		}),
	)

	s.allocatorCancel = allocatorCancel
	s.browserCtx = browserCtx
	s.browserCancel = browserCancel

	startCtx, cancel := context.WithTimeout(browserCtx, startupCheckTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx, chromedp.Navigate("about:blank")); err != nil {
		s.closeLocked()
		return fmt.Errorf("browser failed startup test: %w", err)
	}

	return nil
}

// allocatorOptions keeps chromedp's default flags but re-enables the extension under test
func (s *Session) allocatorOptions(extensionDir string) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-extensions", false),
		chromedp.Flag("load-extension", extensionDir),
		chromedp.Flag("disable-extensions-except", extensionDir),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	if s.config.Headless {
		// Legacy headless mode cannot load extensions
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	if s.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if s.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(s.config.ExecPath))
	}

	return opts
}

// DiscoverExtensionID reads the extension's runtime ID from chrome://system
func (s *Session) DiscoverExtensionID(ctx context.Context) (string, error) {
	browserCtx, err := s.context()
	if err != nil {
		return "", err
	}

	waitCtx, cancel := context.WithTimeout(browserCtx, s.config.DiscoveryWait())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err = chromedp.Run(waitCtx,
		chromedp.Navigate(systemPageURL),
		chromedp.WaitVisible(extensionsButton, chromedp.ByQuery),
		chromedp.Click(extensionsButton, chromedp.ByQuery),
		chromedp.OuterHTML(systemContent, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", systemPageURL, err)
	}

	id, err := ExtractExtensionIDFromHTML(html, s.config.ExtensionName)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.extensionID = id
	s.mu.Unlock()

	s.logger.Info().
		Str("extension", s.config.ExtensionName).
		Str("extension_id", id).
		Msg("Discovered extension")

	return id, nil
}

// RunTests opens the test page for the given translators and collects the results
func (s *Session) RunTests(ctx context.Context, translatorIDs []string) (*models.ResultSet, error) {
	browserCtx, err := s.context()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	extensionID := s.extensionID
	s.mu.Unlock()
	if extensionID == "" {
		if extensionID, err = s.DiscoverExtensionID(ctx); err != nil {
			return nil, err
		}
	}

	testURL := TestPageURL(extensionID, translatorIDs)
	s.logger.Info().
		Str("url", testURL).
		Int("translators", len(translatorIDs)).
		Msg("Running translator tests")

	runCtx, cancel := context.WithTimeout(browserCtx, s.config.TestWait())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var raw string
	err = chromedp.Run(runCtx,
		chromedp.Sleep(s.config.NavigationWait()),
		chromedp.Navigate(testURL),
		chromedp.WaitReady(testsComplete, chromedp.ByQuery),
		chromedp.Evaluate(resultsExpression, &raw, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to run translator tests: %w", err)
	}

	results, err := models.ParseResultSet(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to collect test results: %w", err)
	}

	s.logger.Debug().Int("subjects", results.Len()).Msg("Collected test results")
	return results, nil
}

// Close shuts the browser down
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.browserCancel != nil {
		s.browserCancel()
		s.browserCancel = nil
	}
	if s.allocatorCancel != nil {
		s.allocatorCancel()
		s.allocatorCancel = nil
	}
	if s.browserCtx != nil {
		s.browserCtx = nil
		s.logger.Info().Msg("Browser closed")
	}
}

func (s *Session) context() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.browserCtx == nil {
		return nil, fmt.Errorf("browser session not started")
	}
	return s.browserCtx, nil
}
