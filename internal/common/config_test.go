package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcheck.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	config := NewDefaultConfig()
	require.NoError(t, config.Validate())

	assert.Equal(t, "master", config.Harness.BaseBranch)
	assert.Equal(t, 8085, config.TranslatorServer.Port)
	assert.Equal(t, "Zotero Connector", config.Browser.ExtensionName)
	assert.Equal(t, 60*time.Second, config.Browser.DiscoveryWait())
	assert.Equal(t, 500*time.Millisecond, config.Browser.NavigationWait())
	assert.Equal(t, 10*time.Minute, config.Browser.TestWait())
	assert.Equal(t, "http://localhost:8085", config.TranslatorServerURL())
	assert.False(t, config.GitHub.Enabled())
}

func TestLoadFromFiles_LaterFilesOverride(t *testing.T) {
	base := writeConfig(t, `
[harness]
base_branch = "main"
translators_dir = "/repo"

[browser]
test_timeout = "5m"
headless = true
`)
	override := writeConfig(t, `
[harness]
translators_dir = "/other"

[translator_server]
port = 9090
`)

	config, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	assert.Equal(t, "main", config.Harness.BaseBranch)
	assert.Equal(t, "/other", config.Harness.TranslatorsDir)
	assert.Equal(t, 9090, config.TranslatorServer.Port)
	assert.Equal(t, 5*time.Minute, config.Browser.TestWait())
	assert.True(t, config.Browser.Headless)
	// untouched defaults survive
	assert.Equal(t, "./connectors/build/chrome", config.Harness.ExtensionDir)
}

func TestLoadFromFiles_BrowserDurations(t *testing.T) {
	config, err := LoadFromFiles(writeConfig(t, `
[browser]
discovery_timeout = "90s"
navigation_delay = "0s"
test_timeout = "1h30m"
`))
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 90*time.Second, config.Browser.DiscoveryWait())
	assert.Equal(t, time.Duration(0), config.Browser.NavigationWait())
	assert.Equal(t, 90*time.Minute, config.Browser.TestWait())
}

func TestLoadFromFiles_BrowserDurationFromEnv(t *testing.T) {
	t.Setenv("TRANSCHECK_BROWSER_TEST_TIMEOUT", "45s")

	config, err := LoadFromFiles(writeConfig(t, "[browser]\ntest_timeout = \"5m\"\n"))
	require.NoError(t, err)
	require.NoError(t, config.Validate())
	assert.Equal(t, 45*time.Second, config.Browser.TestWait())
}

func TestBrowserConfig_EmptyDurationsUseDefaults(t *testing.T) {
	browser := BrowserConfig{}
	assert.Equal(t, 60*time.Second, browser.DiscoveryWait())
	assert.Equal(t, 500*time.Millisecond, browser.NavigationWait())
	assert.Equal(t, 10*time.Minute, browser.TestWait())
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadFromFiles(writeConfig(t, "[harness\nbroken"))
	assert.Error(t, err)
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TRANSCHECK_BASE_BRANCH", "develop")
	t.Setenv("TRANSCHECK_SERVER_PORT", "18085")
	t.Setenv("KEEP_BROWSER_OPEN", "")
	t.Setenv("BROWSER_EXECUTABLE", "/usr/bin/chromium")
	t.Setenv("TRANSCHECK_BROWSER_NO_SANDBOX", "true")
	t.Setenv("GITHUB_TOKEN", "ghp_token")
	t.Setenv("GITHUB_REPOSITORY", "zotero/translators")
	t.Setenv("TRANSCHECK_GITHUB_PR", "42")
	t.Setenv("TRANSCHECK_LOG_OUTPUT", "stdout, file")

	config, err := LoadFromFiles(writeConfig(t, "[harness]\nbase_branch = \"main\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "develop", config.Harness.BaseBranch)
	assert.Equal(t, 18085, config.TranslatorServer.Port)
	assert.True(t, config.Harness.KeepBrowserOpen, "presence of KEEP_BROWSER_OPEN enables it")
	assert.Equal(t, "/usr/bin/chromium", config.Browser.ExecPath)
	assert.True(t, config.Browser.NoSandbox)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.True(t, config.GitHub.Enabled())

	owner, repo, err := config.GitHub.OwnerRepo()
	require.NoError(t, err)
	assert.Equal(t, "zotero", owner)
	assert.Equal(t, "translators", repo)
	require.NoError(t, config.Validate())
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()
	ApplyFlagOverrides(config, FlagOverrides{
		BaseBranch:      "release",
		ExtensionDir:    "/ext",
		KeepBrowserOpen: true,
		LogLevel:        "debug",
	})

	assert.Equal(t, "release", config.Harness.BaseBranch)
	assert.Equal(t, "/ext", config.Harness.ExtensionDir)
	assert.Equal(t, ".", config.Harness.TranslatorsDir)
	assert.True(t, config.Harness.KeepBrowserOpen)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log output", func(c *Config) { c.Logging.Output = []string{"syslog"} }},
		{"port out of range", func(c *Config) { c.TranslatorServer.Port = 70000 }},
		{"missing base branch", func(c *Config) { c.Harness.BaseBranch = "" }},
		{"zero test timeout", func(c *Config) { c.Browser.TestTimeout = "0s" }},
		{"malformed discovery timeout", func(c *Config) { c.Browser.DiscoveryTimeout = "soon" }},
		{"negative navigation delay", func(c *Config) { c.Browser.NavigationDelay = "-1s" }},
		{"repository without owner", func(c *Config) { c.GitHub.Repository = "translators" }},
		{"badger enabled without path", func(c *Config) { c.Storage.Badger.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestGitHubConfig_OwnerRepoInvalid(t *testing.T) {
	_, _, err := GitHubConfig{Repository: "/name"}.OwnerRepo()
	assert.Error(t, err)
}
