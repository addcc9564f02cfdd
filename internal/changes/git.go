package changes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/transcheck/internal/translators"
)

// Detector finds the translators a branch changes relative to its base
type Detector struct {
	RepoDir    string
	BaseBranch string
	Pattern    string // defaults to translators.FilePattern
	logger     arbor.ILogger
}

// NewDetector creates a detector for the repository at repoDir
func NewDetector(repoDir, baseBranch string, logger arbor.ILogger) *Detector {
	return &Detector{
		RepoDir:    repoDir,
		BaseBranch: baseBranch,
		Pattern:    translators.FilePattern,
		logger:     logger,
	}
}

// ChangedFiles lists translator files that differ from the base branch, in diff order
func (d *Detector) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := runGit(ctx, d.RepoDir, "diff", d.BaseBranch, "--name-only")
	if err != nil {
		return nil, fmt.Errorf("failed to diff against %s: %w", d.BaseBranch, err)
	}

	files, err := FilterTranslatorFiles(strings.Split(out, "\n"), d.pattern())
	if err != nil {
		return nil, err
	}

	d.logger.Debug().
		Str("base", d.BaseBranch).
		Strs("files", files).
		Msg("Changed translator files")

	return files, nil
}

// TranslatorIDs maps the changed files to translator IDs.
// Files missing from the catalog are skipped with a warning.
func (d *Detector) TranslatorIDs(ctx context.Context, catalog *translators.Catalog) ([]string, error) {
	files, err := d.ChangedFiles(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		translator, ok := catalog.ByFilename(file)
		if !ok {
			d.logger.Warn().Str("file", file).Msg("Changed file is not a loadable translator, skipping")
			continue
		}
		if seen[translator.ID()] {
			continue
		}
		seen[translator.ID()] = true
		ids = append(ids, translator.ID())
	}

	return ids, nil
}

func (d *Detector) pattern() string {
	if d.Pattern == "" {
		return translators.FilePattern
	}
	return d.Pattern
}

// FilterTranslatorFiles keeps the names matching pattern, dropping blanks
func FilterTranslatorFiles(names []string, pattern string) ([]string, error) {
	var out []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("invalid translator pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, name)
		}
	}
	return out, nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return string(out), nil
}
