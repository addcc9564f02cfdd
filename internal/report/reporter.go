package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ternarybob/transcheck/internal/models"
)

// padding is the indent level of transcript lines; section lines sit one level out
const padding = 2

var (
	headerStyle    = text.Colors{text.Bold, text.ReverseVideo}
	sectionStyle   = text.Colors{text.ReverseVideo, text.FgCyan}
	removedStyle   = text.Colors{text.FgRed}
	addedStyle     = text.Colors{text.FgGreen}
	succeededStyle = text.Colors{text.BgGreen}
	unknownStyle   = text.Colors{text.BgYellow}
	failedStyle    = text.Colors{text.BgRed}
)

// Reporter renders test results as an annotated, color-coded transcript
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to w. A nil writer means stdout.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{out: w}
}

// Render writes the transcript for every subject in enumeration order and
// returns true unless any line reported an unknown or failed test.
func (r *Reporter) Render(results *models.ResultSet) bool {
	return r.Report(results).Passed()
}

// Report renders like Render and returns the per-subject summary
func (r *Reporter) Report(results *models.ResultSet) *Summary {
	summary := &Summary{}

	for _, subject := range results.Subjects() {
		fmt.Fprintln(r.out, headerStyle.Sprint(fmt.Sprintf("Beginning Tests for %s: %s", subject.ID, subject.Result.Label)))

		entry := models.SubjectSummary{
			ID:      subject.ID,
			Label:   subject.Result.Label,
			Outcome: models.OutcomePassed,
		}
		for _, line := range ClassifyMessage(subject.Result.Message) {
			fmt.Fprintln(r.out, renderLine(line))
			tally(&entry, line.Kind)
		}
		fmt.Fprintln(r.out)

		summary.Subjects = append(summary.Subjects, entry)
	}

	return summary
}

func renderLine(line models.ClassifiedLine) string {
	switch line.Kind {
	case models.LineSection:
		return indent(padding-1) + sectionStyle.Sprint(line.Text)
	case models.LineRemoved:
		return removedStyle.Sprint("-" + indent(padding) + line.Text[1:])
	case models.LineAdded:
		return addedStyle.Sprint("+" + indent(padding) + line.Text[1:])
	case models.LineSucceeded:
		return indent(padding) + succeededStyle.Sprint(line.Text)
	case models.LineUnknown:
		return indent(padding) + unknownStyle.Sprint(line.Text)
	case models.LineFailed:
		return indent(padding) + failedStyle.Sprint(line.Text)
	default:
		return indent(padding) + line.Text
	}
}

func indent(level int) string {
	if level <= 0 {
		return ""
	}
	return strings.Repeat("  ", level)
}
