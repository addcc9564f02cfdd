package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandReferences(t *testing.T) {
	vars := map[string]string{"HOME_DIR": "/home/ci", "BRANCH": "main"}

	tests := []struct {
		name        string
		input       string
		want        string
		wantMissing []string
	}{
		{"no reference", "plain", "plain", nil},
		{"single", "${HOME_DIR}/translators", "/home/ci/translators", nil},
		{"multiple", "${HOME_DIR}:${BRANCH}", "/home/ci:main", nil},
		{"missing left unchanged", "${NOPE}/x", "${NOPE}/x", []string{"NOPE"}},
		{"braces without dollar", "{HOME_DIR}", "{HOME_DIR}", nil},
		{"empty", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := ExpandReferences(tt.input, vars)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestExpandInStruct(t *testing.T) {
	config := NewDefaultConfig()
	config.GitHub.Token = "${CI_TOKEN}"
	config.Harness.TranslatorsDir = "${WORKSPACE}/translators"
	config.Logging.Output = []string{"${LOG_TARGET}"}
	config.Harness.ExtensionDir = "${MISSING_B}/${MISSING_A}/${MISSING_B}"

	missing := ExpandInStruct(config, map[string]string{
		"CI_TOKEN":   "ghp_123",
		"WORKSPACE":  "/ws",
		"LOG_TARGET": "stdout",
	})

	assert.Equal(t, "ghp_123", config.GitHub.Token)
	assert.Equal(t, "/ws/translators", config.Harness.TranslatorsDir)
	assert.Equal(t, []string{"stdout"}, config.Logging.Output)
	assert.Equal(t, []string{"MISSING_A", "MISSING_B"}, missing)
}

func TestExpandInStruct_RequiresStructPointer(t *testing.T) {
	assert.Nil(t, ExpandInStruct(Config{}, nil))
	s := "x"
	assert.Nil(t, ExpandInStruct(&s, nil))
}

func TestLoadFromFiles_ExpandsEnvironmentReferences(t *testing.T) {
	t.Setenv("TRANSCHECK_TEST_ROOT", "/checkout")

	config, err := LoadFromFiles(writeConfig(t, `
[harness]
translators_dir = "${TRANSCHECK_TEST_ROOT}/translators"
extension_dir = "${TRANSCHECK_TEST_UNSET}/chrome"
`))
	require.NoError(t, err)

	assert.Equal(t, "/checkout/translators", config.Harness.TranslatorsDir)
	assert.Equal(t, "${TRANSCHECK_TEST_UNSET}/chrome", config.Harness.ExtensionDir)
	assert.Equal(t, []string{"TRANSCHECK_TEST_UNSET"}, config.UnresolvedReferences())
}
