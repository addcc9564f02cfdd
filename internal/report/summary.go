package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ternarybob/transcheck/internal/models"
)

// Summary is the classified outcome of a result set, one entry per subject
type Summary struct {
	Subjects []models.SubjectSummary
}

// Totals holds line counts across every subject
type Totals struct {
	Subjects  int
	Succeeded int
	Unknown   int
	Failed    int
}

// Summarize classifies a result set without rendering it
func Summarize(results *models.ResultSet) *Summary {
	summary := &Summary{}
	for _, subject := range results.Subjects() {
		entry := models.SubjectSummary{
			ID:      subject.ID,
			Label:   subject.Result.Label,
			Outcome: models.OutcomePassed,
		}
		for _, line := range ClassifyMessage(subject.Result.Message) {
			tally(&entry, line.Kind)
		}
		summary.Subjects = append(summary.Subjects, entry)
	}
	return summary
}

func tally(entry *models.SubjectSummary, kind models.LineKind) {
	switch kind {
	case models.LineSucceeded:
		entry.Succeeded++
	case models.LineUnknown:
		entry.Unknown++
	case models.LineFailed:
		entry.Failed++
	default:
		return
	}
	entry.Outcome = entry.Outcome.Worse(outcomeOf(kind))
}

// Passed is true unless any subject saw an unknown or failed test
func (s *Summary) Passed() bool {
	return s.Outcome().Passing()
}

// Outcome returns the worst subject outcome; an empty summary has passed
func (s *Summary) Outcome() models.Outcome {
	outcome := models.OutcomePassed
	if s == nil {
		return outcome
	}
	for _, subject := range s.Subjects {
		outcome = outcome.Worse(subject.Outcome)
	}
	return outcome
}

// Totals sums the line counts of every subject
func (s *Summary) Totals() Totals {
	var t Totals
	if s == nil {
		return t
	}
	t.Subjects = len(s.Subjects)
	for _, subject := range s.Subjects {
		t.Succeeded += subject.Succeeded
		t.Unknown += subject.Unknown
		t.Failed += subject.Failed
	}
	return t
}

// RenderTable writes a colored summary table of every subject
func (s *Summary) RenderTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Translator Test Results")
	t.AppendHeader(table.Row{"Translator", "Label", "Succeeded", "Unknown", "Failed", "Outcome"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Translator", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Label", WidthMax: 40, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Succeeded", Align: text.AlignRight},
		{Name: "Unknown", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
	})

	for _, subject := range s.Subjects {
		t.AppendRow(table.Row{
			string(subject.ID),
			subject.Label,
			subject.Succeeded,
			subject.Unknown,
			subject.Failed,
			outcomeString(subject.Outcome),
		})
	}

	totals := s.Totals()
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d translators", totals.Subjects),
		totals.Succeeded,
		totals.Unknown,
		totals.Failed,
		outcomeString(s.Outcome()),
	})

	switch s.Outcome() {
	case models.OutcomeFailed:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case models.OutcomeUnknown:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.Render()
}

func outcomeString(o models.Outcome) string {
	switch o {
	case models.OutcomeFailed:
		return "FAIL"
	case models.OutcomeUnknown:
		return "UNKNOWN"
	default:
		return "PASS"
	}
}
