package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/common"
)

var (
	// Persistent flags
	configFiles []string
	logLevel    string

	// Global state, populated by setup
	config *common.Config
	logger arbor.ILogger

	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "transcheck",
	Short: "Run translator tests for a pull request in a real browser",
	Long: `transcheck serves the repository's translators to the browser extension,
runs the extension's translator tests for the translators changed on this branch,
and prints a color-coded transcript. The exit code is 0 only when every test passed.`,
	SilenceUsage: true,
	RunE:         runTests,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	addRunFlags(rootCmd)
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// setup loads configuration (defaults -> files -> env -> flags) and initializes the logger
func setup(flags common.FlagOverrides) error {
	if len(configFiles) == 0 {
		if _, err := os.Stat("transcheck.toml"); err == nil {
			configFiles = append(configFiles, "transcheck.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags.LogLevel = logLevel
	common.ApplyFlagOverrides(config, flags)

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	common.InstallCrashHandler(config.Harness.OutputDir)

	if missing := config.UnresolvedReferences(); len(missing) > 0 {
		logger.Warn().Strs("variables", missing).Msg("Configuration references unset environment variables")
	}

	logger.Debug().
		Strs("config_files", configFiles).
		Str("base", config.Harness.BaseBranch).
		Str("translators_dir", config.Harness.TranslatorsDir).
		Str("extension_dir", config.Harness.ExtensionDir).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")

	return nil
}
