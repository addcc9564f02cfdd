package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/transcheck/internal/app"
	"github.com/ternarybob/transcheck/internal/common"
	"github.com/ternarybob/transcheck/internal/translators"
)

var serveTranslatorsDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translators to a manually started browser",
	Long:  `Starts only the translator server, for running the extension's test page by hand. Stops on Ctrl+C.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTranslatorsDir, "translators-dir", "", "Translator repository root (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := setup(common.FlagOverrides{TranslatorsDir: serveTranslatorsDir}); err != nil {
		return err
	}

	common.PrintBanner(common.GetVersion(), config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := translators.LoadCatalog(config.Harness.TranslatorsDir, logger)
	if err != nil {
		return fmt.Errorf("failed to load translators: %w", err)
	}

	// No run history or publisher: serving records nothing
	application := &app.App{Config: config, Logger: logger, Catalog: catalog}
	return application.NewHarness().Serve(ctx)
}
