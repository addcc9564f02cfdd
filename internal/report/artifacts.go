package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acarl005/stripansi"
)

// Artifact file names inside a run directory
const (
	TranscriptFile  = "transcript.log"
	SummaryMarkdown = "summary.md"
	SummaryHTML     = "summary.html"
)

// WriteArtifacts writes the transcript (ANSI stripped) and the markdown/HTML
// summaries into {outputDir}/run-{timestamp}-{run id}/ and returns that directory.
func WriteArtifacts(outputDir, transcript string, summary *Summary, info RunInfo) (string, error) {
	runDir := filepath.Join(outputDir, runDirName(info))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory %s: %w", runDir, err)
	}

	if err := os.WriteFile(filepath.Join(runDir, TranscriptFile), []byte(stripansi.Strip(transcript)), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	markdown := summary.Markdown(info)
	if err := os.WriteFile(filepath.Join(runDir, SummaryMarkdown), []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown summary: %w", err)
	}

	html, err := MarkdownToHTML(markdown)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, SummaryHTML), []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write HTML summary: %w", err)
	}

	return runDir, nil
}

// runDirName sorts by start time and stays unique for runs started in the same second
func runDirName(info RunInfo) string {
	name := "run-" + info.StartedAt.Format("2006-01-02_15-04-05")
	if id := strings.TrimPrefix(info.RunID, "run_"); id != "" {
		name += "-" + id
	}
	return name
}
