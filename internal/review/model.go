// Package review holds the structured code review produced by a completion
// and the prompt that asks the model for it.
package review

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// IssueType represents the type of issue identified during code review.
// Values outside the known set are kept verbatim.
type IssueType string

const (
	// IssueTypeBug represents a potential bug or error
	IssueTypeBug IssueType = "bug"
	// IssueTypeSecurity represents a security vulnerability
	IssueTypeSecurity IssueType = "security"
	// IssueTypePerformance represents a performance issue
	IssueTypePerformance IssueType = "performance"
	// IssueTypeStyle represents a code style issue
	IssueTypeStyle IssueType = "style"
	// IssueTypeError marks the issue of a review synthesized after a failed exchange
	IssueTypeError IssueType = "error"
)

// IssueSeverity represents the severity of an issue
type IssueSeverity string

const (
	// IssueSeverityHigh represents a high-severity issue
	IssueSeverityHigh IssueSeverity = "high"
	// IssueSeverityMedium represents a medium-severity issue
	IssueSeverityMedium IssueSeverity = "medium"
	// IssueSeverityLow represents a low-severity issue
	IssueSeverityLow IssueSeverity = "low"
)

// Normalize maps absent or unrecognized severities to low
func (s IssueSeverity) Normalize() IssueSeverity {
	switch s {
	case IssueSeverityHigh, IssueSeverityMedium, IssueSeverityLow:
		return s
	default:
		return IssueSeverityLow
	}
}

// PipelineErrorDescription is the description of the single issue in a pipeline-error review
const PipelineErrorDescription = "Failed to analyze code. Please try again."

// Issue is one finding of a review
type Issue struct {
	Type        IssueType     `json:"type"`
	Severity    IssueSeverity `json:"severity"`
	Line        *int          `json:"line,omitempty"`
	Description string        `json:"description"`
}

// Review is the structured result of one review cycle
type Review struct {
	Score       Score    `json:"score"`
	Issues      []Issue  `json:"issues"`
	Positives   []string `json:"positives"`
	Suggestions []string `json:"suggestions"`
}

// MarshalJSON keeps empty sequences as [] rather than null
func (r Review) MarshalJSON() ([]byte, error) {
	type plain Review
	out := plain(r)
	if out.Issues == nil {
		out.Issues = []Issue{}
	}
	if out.Positives == nil {
		out.Positives = []string{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	return json.Marshal(out)
}

// NewPipelineErrorReview returns the review published when an exchange fails
func NewPipelineErrorReview() *Review {
	return &Review{
		Score: IntScore(0),
		Issues: []Issue{{
			Type:        IssueTypeError,
			Severity:    IssueSeverityHigh,
			Description: PipelineErrorDescription,
		}},
		Positives:   []string{},
		Suggestions: []string{},
	}
}

// IsPipelineError reports whether r is the review synthesized for a failed exchange
func (r *Review) IsPipelineError() bool {
	if r == nil || len(r.Issues) != 1 || len(r.Positives) != 0 || len(r.Suggestions) != 0 {
		return false
	}
	score, ok := r.Score.Int()
	issue := r.Issues[0]
	return ok && score == 0 &&
		issue.Type == IssueTypeError &&
		issue.Severity == IssueSeverityHigh &&
		issue.Line == nil &&
		issue.Description == PipelineErrorDescription
}

// Score is the review's quality score as the model returned it.
// The intended range is 0-100 but nothing is clamped or coerced: the raw JSON
// value is kept so that missing or non-numeric scores reach consumers unchanged.
type Score struct {
	raw json.RawMessage
}

// IntScore returns a numeric score
func IntScore(n int) Score {
	return Score{raw: json.RawMessage(strconv.Itoa(n))}
}

// RawScore wraps a raw JSON value. An empty or null value is an absent score.
func RawScore(raw json.RawMessage) Score {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Score{}
	}
	return Score{raw: append(json.RawMessage(nil), trimmed...)}
}

// Present reports whether the model returned a score
func (s Score) Present() bool {
	return len(s.raw) > 0
}

// Raw returns the JSON value of the score, nil when absent
func (s Score) Raw() json.RawMessage {
	return s.raw
}

// Int returns the score as an integer when it is an integral JSON number
func (s Score) Int() (int, bool) {
	if !s.Present() {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(s.raw, &f); err != nil {
		return 0, false
	}
	n := int(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}

// String renders the score for display: the number, the raw value, or "?" when absent
func (s Score) String() string {
	if n, ok := s.Int(); ok {
		return strconv.Itoa(n)
	}
	if !s.Present() {
		return "?"
	}
	var str string
	if err := json.Unmarshal(s.raw, &str); err == nil {
		return str
	}
	return string(s.raw)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Present() {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *Score) UnmarshalJSON(data []byte) error {
	*s = RawScore(data)
	return nil
}

// ScoreBand buckets a score for display
type ScoreBand string

const (
	// ScoreBandGood is a score of 80 or more
	ScoreBandGood ScoreBand = "good"
	// ScoreBandFair is a score of 60 to 79
	ScoreBandFair ScoreBand = "fair"
	// ScoreBandPoor is anything lower, or a score that is not a number
	ScoreBandPoor ScoreBand = "poor"
)

// Band returns the display band of the score
func (s Score) Band() ScoreBand {
	n, ok := s.Int()
	switch {
	case !ok:
		return ScoreBandPoor
	case n >= 80:
		return ScoreBandGood
	case n >= 60:
		return ScoreBandFair
	default:
		return ScoreBandPoor
	}
}

// Verdict is the one-line summary shown under the score
func (b ScoreBand) Verdict() string {
	switch b {
	case ScoreBandGood:
		return "Excellent code!"
	case ScoreBandFair:
		return "Good, with room for improvement"
	default:
		return "Needs attention"
	}
}
