package changes

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/translators"
)

func TestFilterTranslatorFiles(t *testing.T) {
	names := []string{
		"Example Journal.js",
		"",
		"lib/helper.js",
		"README.md",
		"  Another.js  ",
		"deleted/nested/x.js",
		"script.jsx",
	}

	files, err := FilterTranslatorFiles(names, translators.FilePattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"Example Journal.js", "Another.js"}, files)
}

func TestFilterTranslatorFiles_BadPattern(t *testing.T) {
	_, err := FilterTranslatorFiles([]string{"a.js"}, "[")
	assert.Error(t, err)
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDetector_GitRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git(t, dir, "init", "-q", "-b", "master")
	writeFile(t, dir, "Unchanged.js", `{"translatorID": "unchanged", "label": "Unchanged"}`)
	writeFile(t, dir, "Journal.js", `{"translatorID": "journal", "label": "Journal"}`)
	writeFile(t, dir, "Removed.js", `{"translatorID": "removed", "label": "Removed"}`)
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "base")

	git(t, dir, "checkout", "-q", "-b", "feature")
	writeFile(t, dir, "Journal.js", `{"translatorID": "journal", "label": "Journal v2"}`)
	writeFile(t, dir, "lib/util.js", "// helper")
	writeFile(t, dir, "notes.md", "notes")
	require.NoError(t, os.Remove(filepath.Join(dir, "Removed.js")))
	git(t, dir, "add", "-A")
	git(t, dir, "commit", "-q", "-m", "change")

	logger := arbor.NewLogger()
	detector := NewDetector(dir, "master", logger)

	files, err := detector.ChangedFiles(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Journal.js", "Removed.js"}, files)

	catalog, err := translators.LoadCatalog(dir, logger)
	require.NoError(t, err)

	ids, err := detector.TranslatorIDs(context.Background(), catalog)
	require.NoError(t, err)
	assert.Equal(t, []string{"journal"}, ids, "deleted translators are skipped")
}

func TestDetector_UnknownBase(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git(t, dir, "init", "-q")

	detector := NewDetector(dir, "no-such-branch", arbor.NewLogger())
	_, err := detector.ChangedFiles(context.Background())
	assert.Error(t, err)
}
