package models

import "time"

// SubjectSummary holds the classified counts for one subject
type SubjectSummary struct {
	ID        TestSubjectID `json:"id"`
	Label     string        `json:"label"`
	Succeeded int           `json:"succeeded"`
	Unknown   int           `json:"unknown"`
	Failed    int           `json:"failed"`
	Outcome   Outcome       `json:"outcome"`
}

// RunRecord is one harness run persisted to the history store
type RunRecord struct {
	ID            string           `json:"id" badgerhold:"key"`
	StartedAt     time.Time        `json:"started_at" badgerhold:"index"`
	FinishedAt    time.Time        `json:"finished_at"`
	BaseBranch    string           `json:"base_branch"`
	TranslatorIDs []string         `json:"translator_ids"`
	Passed        bool             `json:"passed"`
	Error         string           `json:"error,omitempty"`
	ArtifactsDir  string           `json:"artifacts_dir,omitempty"`
	Subjects      []SubjectSummary `json:"subjects"`
}

// Duration returns how long the run took
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Status returns a short status word for tables
func (r *RunRecord) Status() string {
	switch {
	case r.Error != "":
		return "ERROR"
	case r.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}
