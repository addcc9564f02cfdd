package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/acarl005/stripansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/transcheck/internal/models"
)

func resultSet(entries ...[3]string) *models.ResultSet {
	rs := models.NewResultSet()
	for _, e := range entries {
		rs.Add(models.TestSubjectID(e[0]), models.SubjectResult{Label: e[1], Message: e[2]})
	}
	return rs
}

func render(t *testing.T, rs *models.ResultSet) (string, bool) {
	t.Helper()
	var buf bytes.Buffer
	passed := NewReporter(&buf).Render(rs)
	return buf.String(), passed
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want models.LineKind
	}{
		{"TranslatorTester: Running Web Test 1", models.LineSection},
		{"TranslatorTester: Running Import Test 12", models.LineSection},
		{"TranslatorTester: Running 3 tests for Example", models.LineSection},
		{"- removed", models.LineRemoved},
		{"-", models.LineRemoved},
		{"+ added", models.LineAdded},
		{"TranslatorTester: Web Test 1: succeeded", models.LineSucceeded},
		{"TranslatorTester: Search Test 2: unknown", models.LineUnknown},
		{"TranslatorTester: Web Test 3: failed", models.LineFailed},
		{"TranslatorTester: Web Test 3: failed: Error: boom", models.LineFailed},
		{"TranslatorTester: Running Web Test 1 extra", models.LinePlain},
		{"TranslatorTester: Translate Test 1: succeeded", models.LinePlain},
		{"  TranslatorTester: Web Test 1: succeeded", models.LinePlain},
		{"", models.LinePlain},
		{"just text", models.LinePlain},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Classify(tt.line)
			assert.Equal(t, tt.want, got.Kind, "kind %s", got.Kind)
			assert.Equal(t, tt.line, got.Text)
		})
	}
}

func TestClassify_DiffPrefixWinsOverMarkers(t *testing.T) {
	// A diff fragment that happens to contain a failure marker is still a diff fragment
	assert.Equal(t, models.LineRemoved, Classify("-TranslatorTester: Web Test 1: failed").Kind)
	assert.Equal(t, models.LineAdded, Classify("+TranslatorTester: Web Test 1: unknown").Kind)
}

func TestRender_SucceededScenario(t *testing.T) {
	rs := resultSet([3]string{"T1", "Example", "TranslatorTester: Running Web Test 1\nTranslatorTester: Web Test 1: succeeded"})

	out, passed := render(t, rs)

	assert.True(t, passed)
	assert.Contains(t, out, sectionStyle.Sprint("TranslatorTester: Running Web Test 1"))
	assert.Contains(t, out, succeededStyle.Sprint("TranslatorTester: Web Test 1: succeeded"))
	assert.Equal(t,
		"Beginning Tests for T1: Example\n"+
			"  TranslatorTester: Running Web Test 1\n"+
			"    TranslatorTester: Web Test 1: succeeded\n"+
			"\n",
		stripansi.Strip(out))
}

func TestRender_FailedScenario(t *testing.T) {
	rs := resultSet([3]string{"T1", "Example", "TranslatorTester: Running Web Test 1\nTranslatorTester: Web Test 1: failed"})

	out, passed := render(t, rs)

	assert.False(t, passed)
	assert.Contains(t, out, failedStyle.Sprint("TranslatorTester: Web Test 1: failed"))
}

func TestRender_UnknownFails(t *testing.T) {
	rs := resultSet([3]string{"T1", "Example", "TranslatorTester: Web Test 1: succeeded\nTranslatorTester: Web Test 2: unknown"})

	out, passed := render(t, rs)

	assert.False(t, passed)
	assert.Contains(t, out, unknownStyle.Sprint("TranslatorTester: Web Test 2: unknown"))
}

func TestRender_DiffLines(t *testing.T) {
	rs := resultSet([3]string{"T1", "Example", "- old line\n+ new line"})

	out, passed := render(t, rs)

	assert.True(t, passed)
	assert.Contains(t, out, removedStyle.Sprint("-     old line"))
	assert.Contains(t, out, addedStyle.Sprint("+     new line"))

	lines := strings.Split(stripansi.Strip(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "-     old line", lines[1])
	assert.Equal(t, "+     new line", lines[2])
}

func TestRender_EmptyResultSet(t *testing.T) {
	out, passed := render(t, models.NewResultSet())
	assert.True(t, passed)
	assert.Empty(t, out)

	out, passed = render(t, nil)
	assert.True(t, passed)
	assert.Empty(t, out)
}

func TestRender_AnyFailureAmongManySuccesses(t *testing.T) {
	var msg strings.Builder
	for i := 0; i < 20; i++ {
		msg.WriteString("TranslatorTester: Web Test 1: succeeded\n")
	}
	rs := resultSet(
		[3]string{"A", "Alpha", msg.String()},
		[3]string{"B", "Beta", msg.String() + "TranslatorTester: Web Test 21: failed"},
		[3]string{"C", "Gamma", msg.String()},
	)

	_, passed := render(t, rs)
	assert.False(t, passed)
}

func TestRender_SubjectAndLineOrder(t *testing.T) {
	rs := resultSet(
		[3]string{"second", "Two", "b1\nb2"},
		[3]string{"first", "One", "a1"},
	)

	out, _ := render(t, rs)

	assert.Equal(t,
		"Beginning Tests for second: Two\n"+
			"    b1\n"+
			"    b2\n"+
			"\n"+
			"Beginning Tests for first: One\n"+
			"    a1\n"+
			"\n",
		stripansi.Strip(out))
}

func TestRender_HeaderStyled(t *testing.T) {
	out, _ := render(t, resultSet([3]string{"T1", "Example", ""}))
	assert.True(t, strings.HasPrefix(out, headerStyle.Sprint("Beginning Tests for T1: Example")))
}

func TestReport_ThreeWayOutcome(t *testing.T) {
	rs := resultSet(
		[3]string{"ok", "Ok", "TranslatorTester: Web Test 1: succeeded\nTranslatorTester: Web Test 2: succeeded"},
		[3]string{"maybe", "Maybe", "TranslatorTester: Web Test 1: succeeded\nTranslatorTester: Web Test 2: unknown"},
		[3]string{"bad", "Bad", "TranslatorTester: Web Test 1: unknown\nTranslatorTester: Web Test 2: failed"},
	)

	var buf bytes.Buffer
	summary := NewReporter(&buf).Report(rs)

	require.Len(t, summary.Subjects, 3)
	assert.Equal(t, models.OutcomePassed, summary.Subjects[0].Outcome)
	assert.Equal(t, 2, summary.Subjects[0].Succeeded)
	assert.Equal(t, models.OutcomeUnknown, summary.Subjects[1].Outcome)
	assert.Equal(t, models.OutcomeFailed, summary.Subjects[2].Outcome)
	assert.Equal(t, 1, summary.Subjects[2].Unknown)
	assert.Equal(t, 1, summary.Subjects[2].Failed)
	assert.Equal(t, models.OutcomeFailed, summary.Outcome())
	assert.False(t, summary.Passed())

	assert.Equal(t, Summarize(rs), summary)
}
