package report

import (
	"regexp"
	"strings"

	"github.com/ternarybob/transcheck/internal/models"
)

var (
	runningTestPattern  = regexp.MustCompile(`^TranslatorTester: Running [^T]*Test [0-9]*$`)
	runningCountPattern = regexp.MustCompile(`^TranslatorTester: Running [0-9]* tests for .*$`)
	succeededPattern    = regexp.MustCompile(`^TranslatorTester: [^T]*Test [0-9]*: succeeded`)
	unknownPattern      = regexp.MustCompile(`^TranslatorTester: [^T]*Test [0-9]*: unknown`)
	failedPattern       = regexp.MustCompile(`^TranslatorTester: [^T]*Test [0-9]*: failed`)
)

// rule is one entry of the classification table
type rule struct {
	kind  models.LineKind
	match func(line string) bool
}

// rules are evaluated top to bottom, first match wins.
// Lines that match none are models.LinePlain.
var rules = []rule{
	{models.LineSection, func(line string) bool {
		return runningTestPattern.MatchString(line) || runningCountPattern.MatchString(line)
	}},
	{models.LineRemoved, func(line string) bool { return strings.HasPrefix(line, "-") }},
	{models.LineAdded, func(line string) bool { return strings.HasPrefix(line, "+") }},
	{models.LineSucceeded, succeededPattern.MatchString},
	{models.LineUnknown, unknownPattern.MatchString},
	{models.LineFailed, failedPattern.MatchString},
}

// Classify tags a single transcript line
func Classify(line string) models.ClassifiedLine {
	for _, r := range rules {
		if r.match(line) {
			return models.ClassifiedLine{Kind: r.kind, Text: line}
		}
	}
	return models.ClassifiedLine{Kind: models.LinePlain, Text: line}
}

// ClassifyMessage splits a subject transcript on newlines and classifies every line
func ClassifyMessage(message string) []models.ClassifiedLine {
	lines := strings.Split(message, "\n")
	out := make([]models.ClassifiedLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, Classify(line))
	}
	return out
}

// outcomeOf returns the effect a line kind has on the subject outcome
func outcomeOf(kind models.LineKind) models.Outcome {
	switch kind {
	case models.LineUnknown:
		return models.OutcomeUnknown
	case models.LineFailed:
		return models.OutcomeFailed
	default:
		return models.OutcomePassed
	}
}
