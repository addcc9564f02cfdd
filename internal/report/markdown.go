package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ternarybob/transcheck/internal/models"
)

// RunInfo describes the run a summary belongs to
type RunInfo struct {
	RunID      string
	BaseBranch string
	StartedAt  time.Time
	Duration   time.Duration
}

var outcomeEmoji = map[models.Outcome]string{
	models.OutcomePassed:  "✅",
	models.OutcomeUnknown: "⚠️",
	models.OutcomeFailed:  "❌",
}

// Markdown renders the summary as a GitHub-flavored markdown document
func (s *Summary) Markdown(info RunInfo) string {
	var b strings.Builder

	outcome := s.Outcome()
	fmt.Fprintf(&b, "## %s Translator tests: %s\n\n", outcomeEmoji[outcome], outcomeString(outcome))

	if info.RunID != "" {
		fmt.Fprintf(&b, "Run `%s`", info.RunID)
		if info.BaseBranch != "" {
			fmt.Fprintf(&b, " against `%s`", info.BaseBranch)
		}
		if info.Duration > 0 {
			fmt.Fprintf(&b, " (%.1fs)", info.Duration.Seconds())
		}
		b.WriteString("\n\n")
	}

	if len(s.Subjects) == 0 {
		b.WriteString("No translators were tested.\n")
		return b.String()
	}

	b.WriteString("| Translator | Label | Succeeded | Unknown | Failed | Outcome |\n")
	b.WriteString("|---|---|---:|---:|---:|---|\n")
	for _, subject := range s.Subjects {
		fmt.Fprintf(&b, "| `%s` | %s | %d | %d | %d | %s %s |\n",
			subject.ID,
			escapeCell(subject.Label),
			subject.Succeeded,
			subject.Unknown,
			subject.Failed,
			outcomeEmoji[subject.Outcome],
			outcomeString(subject.Outcome),
		)
	}

	totals := s.Totals()
	fmt.Fprintf(&b, "\n**%d** translators, **%d** succeeded, **%d** unknown, **%d** failed.\n",
		totals.Subjects, totals.Succeeded, totals.Unknown, totals.Failed)

	return b.String()
}

// MarkdownToHTML converts a markdown summary to a standalone HTML page
func MarkdownToHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("failed to convert summary to HTML: %w", err)
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Translator Test Results</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
