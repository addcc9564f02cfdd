package models

// LineKind tags one line of a subject's transcript
type LineKind int

const (
	LineSection LineKind = iota
	LineRemoved
	LineAdded
	LineSucceeded
	LineUnknown
	LineFailed
	LinePlain
)

func (k LineKind) String() string {
	switch k {
	case LineSection:
		return "section"
	case LineRemoved:
		return "removed"
	case LineAdded:
		return "added"
	case LineSucceeded:
		return "succeeded"
	case LineUnknown:
		return "unknown"
	case LineFailed:
		return "failed"
	default:
		return "plain"
	}
}

// ClassifiedLine is a transcript line with its kind
type ClassifiedLine struct {
	Kind LineKind
	Text string
}

// Outcome is the three-way result of one subject
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeUnknown Outcome = "unknown"
	OutcomeFailed  Outcome = "failed"
)

// Worse returns the more severe of two outcomes (failed > unknown > passed)
func (o Outcome) Worse(other Outcome) Outcome {
	if outcomeRank(other) > outcomeRank(o) {
		return other
	}
	return o
}

// Passing reports whether the outcome counts as passing
func (o Outcome) Passing() bool {
	return o == OutcomePassed || o == ""
}

func outcomeRank(o Outcome) int {
	switch o {
	case OutcomeFailed:
		return 2
	case OutcomeUnknown:
		return 1
	default:
		return 0
	}
}
