package render

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/snapreview/internal/review"
)

func TestMain(m *testing.M) {
	SetColorEnabled(false)
	os.Exit(m.Run())
}

func sampleReview() *review.Review {
	line := 12
	return &review.Review{
		Score: review.IntScore(72),
		Issues: []review.Issue{
			{Type: review.IssueTypeBug, Severity: review.IssueSeverityHigh, Line: &line, Description: "Possible nil dereference"},
			{Type: review.IssueTypeStyle, Severity: "critical", Description: "Inconsistent naming"},
		},
		Positives:   []string{"Clear structure"},
		Suggestions: []string{"Add tests", "Extract helper"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: " Markdown ", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReview(), Options{Format: FormatText, Language: "go"}))

	out := buf.String()
	assert.Contains(t, out, "Code Quality Score (go): 72")
	assert.Contains(t, out, "Good, with room for improvement")
	assert.Contains(t, out, "Issues (2)")
	assert.Contains(t, out, "Possible nil dereference")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "high")
	assert.Contains(t, out, "low", "unknown severity is shown as low")
	assert.Contains(t, out, "Positives")
	assert.Contains(t, out, "✓ Clear structure")
	assert.Contains(t, out, "→ Add tests")
	assert.NotContains(t, out, "\x1b[", "colors are disabled")
}

func TestTextNoIssues(t *testing.T) {
	var buf bytes.Buffer
	r := &review.Review{Score: review.IntScore(95)}
	require.NoError(t, Text(&buf, r, Options{}))

	out := buf.String()
	assert.Contains(t, out, "Excellent code!")
	assert.Contains(t, out, "No issues found")
	assert.NotContains(t, out, "Positives")
	assert.NotContains(t, out, "Suggestions")
}

func TestTextPipelineError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, review.NewPipelineErrorReview(), Options{}))

	out := buf.String()
	assert.Contains(t, out, "Needs attention")
	assert.Contains(t, out, review.PipelineErrorDescription)
	assert.NotContains(t, out, "Issues (")
}

func TestTextWrapsLongItems(t *testing.T) {
	var buf bytes.Buffer
	r := &review.Review{
		Score:       review.IntScore(90),
		Suggestions: []string{strings.TrimSpace(strings.Repeat("word ", 40))},
	}
	require.NoError(t, Text(&buf, r, Options{Width: 40}))

	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40, "line %q", line)
	}
}

func TestTextNonNumericScore(t *testing.T) {
	var buf bytes.Buffer
	r := &review.Review{Score: review.RawScore(json.RawMessage(`"great"`))}
	require.NoError(t, Text(&buf, r, Options{}))
	assert.Contains(t, buf.String(), "Needs attention")
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReview(), "go")

	assert.True(t, strings.HasPrefix(md, "# Code Review (go)\n"))
	assert.Contains(t, md, "**Score:** 72 / 100 (Good, with room for improvement)")
	assert.Contains(t, md, "- 🐛 **HIGH** `bug` line 12: Possible nil dereference")
	assert.Contains(t, md, "- 🎨 **LOW** `style`: Inconsistent naming")
	assert.Contains(t, md, "## Positives\n\n- Clear structure\n")
	assert.Contains(t, md, "## Suggestions\n\n1. Add tests\n2. Extract helper\n")
}

func TestMarkdownEmpty(t *testing.T) {
	md := Markdown(&review.Review{Score: review.IntScore(100)}, "")

	assert.True(t, strings.HasPrefix(md, "# Code Review\n"))
	assert.Contains(t, md, "No issues found.")
	assert.NotContains(t, md, "## Positives")
	assert.NotContains(t, md, "## Suggestions")
}

func TestRenderMarkdownRaw(t *testing.T) {
	var buf bytes.Buffer
	r := sampleReview()
	require.NoError(t, Render(&buf, r, Options{Format: FormatMarkdown, Raw: true}))
	assert.Equal(t, Markdown(r, ""), buf.String())
}

func TestRenderMarkdownTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReview(), Options{Format: FormatMarkdown, Width: 80}))

	out := buf.String()
	assert.Contains(t, out, "Code Review")
	assert.Contains(t, out, "Possible nil dereference")
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	r := &review.Review{Score: review.IntScore(88)}
	require.NoError(t, Render(&buf, r, Options{Format: FormatJSON}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(88), decoded["score"])
	assert.Equal(t, []any{}, decoded["issues"])
	assert.Equal(t, []any{}, decoded["positives"])
	assert.Equal(t, []any{}, decoded["suggestions"])
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, nil, Options{}))
	assert.Error(t, Render(&buf, sampleReview(), Options{Format: "yaml"}))
}

func TestIssueIcon(t *testing.T) {
	assert.Equal(t, "🐛", IssueIcon(review.IssueTypeBug))
	assert.Equal(t, "🔒", IssueIcon(review.IssueTypeSecurity))
	assert.Equal(t, "⚡", IssueIcon(review.IssueTypePerformance))
	assert.Equal(t, "🎨", IssueIcon(review.IssueTypeStyle))
	assert.Equal(t, "⚠", IssueIcon("naming"))
}
