package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrNoResults is returned when the test page produced no result object
	ErrNoResults = errors.New("no test results returned")

	// ErrInvalidResults is returned when the result payload is not a JSON object
	ErrInvalidResults = errors.New("invalid test results payload")
)

// TestSubjectID identifies one test subject (a translator)
type TestSubjectID string

// SubjectResult is the raw outcome the in-browser test runner reports for one subject
type SubjectResult struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// Subject pairs a TestSubjectID with its result
type Subject struct {
	ID     TestSubjectID `json:"id"`
	Result SubjectResult `json:"result"`
}

// ResultSet is an ordered mapping from TestSubjectID to SubjectResult.
// Iteration follows insertion order; re-adding an existing ID replaces the
// result in place.
type ResultSet struct {
	subjects []Subject
	index    map[TestSubjectID]int
}

// NewResultSet creates an empty result set
func NewResultSet() *ResultSet {
	return &ResultSet{index: make(map[TestSubjectID]int)}
}

// Add inserts or replaces the result for id
func (rs *ResultSet) Add(id TestSubjectID, result SubjectResult) {
	if rs.index == nil {
		rs.index = make(map[TestSubjectID]int)
	}
	if i, ok := rs.index[id]; ok {
		rs.subjects[i].Result = result
		return
	}
	rs.index[id] = len(rs.subjects)
	rs.subjects = append(rs.subjects, Subject{ID: id, Result: result})
}

// Get returns the result for id
func (rs *ResultSet) Get(id TestSubjectID) (SubjectResult, bool) {
	if rs == nil {
		return SubjectResult{}, false
	}
	i, ok := rs.index[id]
	if !ok {
		return SubjectResult{}, false
	}
	return rs.subjects[i].Result, true
}

// Subjects returns the subjects in enumeration order
func (rs *ResultSet) Subjects() []Subject {
	if rs == nil {
		return nil
	}
	out := make([]Subject, len(rs.subjects))
	copy(out, rs.subjects)
	return out
}

// IDs returns the subject IDs in enumeration order
func (rs *ResultSet) IDs() []TestSubjectID {
	if rs == nil {
		return nil
	}
	ids := make([]TestSubjectID, 0, len(rs.subjects))
	for _, s := range rs.subjects {
		ids = append(ids, s.ID)
	}
	return ids
}

// Len returns the number of subjects
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.subjects)
}

// ParseResultSet decodes the JSON object produced by the test page
// ({"<id>": {"label": "...", "message": "..."}}) keeping the key order of the
// object text. A null or empty payload yields ErrNoResults.
func ParseResultSet(raw string) (*ResultSet, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" || trimmed == "undefined" {
		return nil, ErrNoResults
	}
	if !gjson.Valid(trimmed) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidResults)
	}

	parsed := gjson.Parse(trimmed)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrInvalidResults, parsed.Type)
	}

	rs := NewResultSet()
	var parseErr error
	parsed.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			parseErr = fmt.Errorf("%w: entry %q is not an object", ErrInvalidResults, key.String())
			return false
		}
		rs.Add(TestSubjectID(key.String()), SubjectResult{
			Label:   value.Get("label").String(),
			Message: value.Get("message").String(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return rs, nil
}
