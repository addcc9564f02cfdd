package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the harness configuration
type Config struct {
	Harness          HarnessConfig          `toml:"harness"`
	TranslatorServer TranslatorServerConfig `toml:"translator_server"`
	Browser          BrowserConfig          `toml:"browser"`
	Storage          StorageConfig          `toml:"storage"`
	GitHub           GitHubConfig           `toml:"github"`
	Logging          LoggingConfig          `toml:"logging"`

	unresolved []string
}

type HarnessConfig struct {
	BaseBranch      string `toml:"base_branch" validate:"required"`    // Branch the pull request is diffed against
	TranslatorsDir  string `toml:"translators_dir" validate:"required"` // Repository root holding the translator files
	ExtensionDir    string `toml:"extension_dir" validate:"required"`   // Unpacked extension build loaded into the browser
	OutputDir       string `toml:"output_dir"`                          // Artifacts directory; empty disables artifacts
	KeepBrowserOpen bool   `toml:"keep_browser_open"`                   // Leave the browser running after the report
}

type TranslatorServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port" validate:"min=1,max=65535"`
}

// BrowserConfig controls the Chromium instance driven over the DevTools protocol
type BrowserConfig struct {
	ExecPath         string `toml:"exec_path"`                            // Browser binary; empty uses chromedp discovery
	Headless         bool   `toml:"headless"`                             // Extensions need a headful or new-headless browser
	NoSandbox        bool   `toml:"no_sandbox"`                           // Required in most CI containers
	ExtensionName    string `toml:"extension_name" validate:"required"`   // Name shown on chrome://system
	DiscoveryTimeout string `toml:"discovery_timeout" validate:"timeout"` // Wait for chrome://system as duration string (default: "60s")
	NavigationDelay  string `toml:"navigation_delay" validate:"delay"`    // Pause before opening the test page (default: "500ms")
	TestTimeout      string `toml:"test_timeout" validate:"timeout"`      // Wait for the test page to finish (default: "10m")
}

const (
	defaultDiscoveryTimeout = 60 * time.Second
	defaultNavigationDelay  = 500 * time.Millisecond
	defaultTestTimeout      = 10 * time.Minute
)

// DiscoveryWait returns DiscoveryTimeout as a duration
func (b BrowserConfig) DiscoveryWait() time.Duration {
	return parseDuration(b.DiscoveryTimeout, defaultDiscoveryTimeout)
}

// NavigationWait returns NavigationDelay as a duration
func (b BrowserConfig) NavigationWait() time.Duration {
	return parseDuration(b.NavigationDelay, defaultNavigationDelay)
}

// TestWait returns TestTimeout as a duration
func (b BrowserConfig) TestWait() time.Duration {
	return parseDuration(b.TestTimeout, defaultTestTimeout)
}

// parseDuration falls back when value is empty or malformed; Validate rejects the latter
func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path" validate:"required_if=Enabled true"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`                         // Delete database on startup
	MaxRuns        int    `toml:"max_runs" validate:"gte=0"`                // Runs to retain; 0 keeps all
}

// GitHubConfig enables the pull-request comment when token, repository and PR are all set
type GitHubConfig struct {
	Token       string `toml:"token"`
	Repository  string `toml:"repository" validate:"omitempty,contains=/"` // owner/name
	PullRequest int    `toml:"pull_request" validate:"gte=0"`
	APIURL      string `toml:"api_url" validate:"omitempty,url"` // GitHub Enterprise API base
}

// Enabled reports whether a pull-request comment can be published
func (g GitHubConfig) Enabled() bool {
	return g.Token != "" && g.Repository != "" && g.PullRequest > 0
}

// OwnerRepo splits Repository into owner and name
func (g GitHubConfig) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(g.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", g.Repository)
	}
	return owner, repo, nil
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output" validate:"dive,oneof=stdout console file"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Harness: HarnessConfig{
			BaseBranch:     "master",
			TranslatorsDir: ".",
			ExtensionDir:   "./connectors/build/chrome",
			OutputDir:      "./test-results",
		},
		TranslatorServer: TranslatorServerConfig{
			Host: "localhost",
			Port: 8085,
		},
		Browser: BrowserConfig{
			ExtensionName:    "Zotero Connector",
			DiscoveryTimeout: "60s",
			NavigationDelay:  "500ms",
			TestTimeout:      "10m",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./.transcheck/data",
				MaxRuns: 200,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files and ${NAME} references in their values are
// expanded from the environment. CLI flags are applied afterwards by ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	config.unresolved = ExpandInStruct(config, environMap())
	applyEnvOverrides(config)

	return config, nil
}

// UnresolvedReferences lists ${NAME} references in the config files that had no
// matching environment variable
func (c *Config) UnresolvedReferences() []string {
	return c.unresolved
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if base := os.Getenv("TRANSCHECK_BASE_BRANCH"); base != "" {
		config.Harness.BaseBranch = base
	}
	if dir := os.Getenv("TRANSCHECK_TRANSLATORS_DIR"); dir != "" {
		config.Harness.TranslatorsDir = dir
	}
	if dir := os.Getenv("TRANSCHECK_EXTENSION_DIR"); dir != "" {
		config.Harness.ExtensionDir = dir
	}
	if dir := os.Getenv("TRANSCHECK_OUTPUT_DIR"); dir != "" {
		config.Harness.OutputDir = dir
	}
	// Presence alone enables it, matching the historical CI variable
	if _, ok := os.LookupEnv("KEEP_BROWSER_OPEN"); ok {
		config.Harness.KeepBrowserOpen = true
	}

	if port := os.Getenv("TRANSCHECK_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.TranslatorServer.Port = p
		}
	}

	if exec := os.Getenv("BROWSER_EXECUTABLE"); exec != "" {
		config.Browser.ExecPath = exec
	}
	if headless := os.Getenv("TRANSCHECK_BROWSER_HEADLESS"); headless != "" {
		if b, err := strconv.ParseBool(headless); err == nil {
			config.Browser.Headless = b
		}
	}
	if noSandbox := os.Getenv("TRANSCHECK_BROWSER_NO_SANDBOX"); noSandbox != "" {
		if b, err := strconv.ParseBool(noSandbox); err == nil {
			config.Browser.NoSandbox = b
		}
	}
	if timeout := os.Getenv("TRANSCHECK_BROWSER_TEST_TIMEOUT"); timeout != "" {
		config.Browser.TestTimeout = timeout
	}

	if badgerPath := os.Getenv("TRANSCHECK_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if token := os.Getenv("TRANSCHECK_GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		config.GitHub.Repository = repo
	}
	if pr := os.Getenv("TRANSCHECK_GITHUB_PR"); pr != "" {
		if n, err := strconv.Atoi(pr); err == nil {
			config.GitHub.PullRequest = n
		}
	}

	if level := os.Getenv("TRANSCHECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TRANSCHECK_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if o = strings.TrimSpace(o); o != "" {
				outputs = append(outputs, o)
			}
		}
		config.Logging.Output = outputs
	}
}

// FlagOverrides carries command-line values; zero values leave config untouched
type FlagOverrides struct {
	BaseBranch      string
	TranslatorsDir  string
	ExtensionDir    string
	OutputDir       string
	KeepBrowserOpen bool
	LogLevel        string
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	if flags.BaseBranch != "" {
		config.Harness.BaseBranch = flags.BaseBranch
	}
	if flags.TranslatorsDir != "" {
		config.Harness.TranslatorsDir = flags.TranslatorsDir
	}
	if flags.ExtensionDir != "" {
		config.Harness.ExtensionDir = flags.ExtensionDir
	}
	if flags.OutputDir != "" {
		config.Harness.OutputDir = flags.OutputDir
	}
	if flags.KeepBrowserOpen {
		config.Harness.KeepBrowserOpen = true
	}
	if flags.LogLevel != "" {
		config.Logging.Level = flags.LogLevel
	}
}

// Validate checks the configuration using its validate tags
func (c *Config) Validate() error {
	validate := validator.New()
	_ = validate.RegisterValidation("timeout", durationValidator(false))
	_ = validate.RegisterValidation("delay", durationValidator(true))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// durationValidator accepts empty values (defaults apply) and duration strings;
// zero is only allowed when allowZero is set
func durationValidator(allowZero bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return false
		}
		return allowZero || d > 0
	}
}

// TranslatorServerURL returns the base URL the extension uses to fetch translators
func (c *Config) TranslatorServerURL() string {
	host := c.TranslatorServer.Host
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.TranslatorServer.Port)
}
