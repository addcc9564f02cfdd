package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/transcheck/internal/app"
	"github.com/ternarybob/transcheck/internal/common"
)

// runFlags holds the flags shared by the root command and "run"
type runFlags struct {
	base            string
	all             bool
	translators     []string
	keepBrowserOpen bool
	extensionDir    string
	translatorsDir  string
	outputDir       string
}

var flagsRun runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Test the translators changed on this branch (default command)",
	RunE:  runTests,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagsRun.base, "base", "", "Base branch to diff against (overrides config)")
	cmd.Flags().BoolVar(&flagsRun.all, "all", false, "Test every translator instead of the changed ones")
	cmd.Flags().StringArrayVarP(&flagsRun.translators, "translator", "t", nil, "Translator ID to test (repeatable)")
	cmd.Flags().BoolVar(&flagsRun.keepBrowserOpen, "keep-browser-open", false, "Leave the browser open after reporting until interrupted")
	cmd.Flags().StringVar(&flagsRun.extensionDir, "extension-dir", "", "Unpacked extension build directory (overrides config)")
	cmd.Flags().StringVar(&flagsRun.translatorsDir, "translators-dir", "", "Translator repository root (overrides config)")
	cmd.Flags().StringVar(&flagsRun.outputDir, "output-dir", "", "Artifacts directory (overrides config)")
}

func runTests(cmd *cobra.Command, args []string) error {
	err := setup(common.FlagOverrides{
		BaseBranch:      flagsRun.base,
		TranslatorsDir:  flagsRun.translatorsDir,
		ExtensionDir:    flagsRun.extensionDir,
		OutputDir:       flagsRun.outputDir,
		KeepBrowserOpen: flagsRun.keepBrowserOpen,
	})
	if err != nil {
		return err
	}

	common.PrintBanner(common.GetVersion(), config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		exitCode = app.ExitFail
		return nil
	}
	defer application.Close()

	exitCode = application.NewHarness().Run(ctx, app.RunOptions{
		TranslatorIDs: flagsRun.translators,
		All:           flagsRun.all,
	})
	return nil
}
