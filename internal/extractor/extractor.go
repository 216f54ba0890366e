package extractor

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/review"
)

// DefaultIssueDescription fills issues the model left without a description
const DefaultIssueDescription = "Unspecified issue"

// Extractor turns raw completion text into a review
type Extractor struct {
	logger *loggy.Logger
}

// New creates a new Extractor
func New(logger *loggy.Logger) *Extractor {
	if logger == nil {
		logger = loggy.GetGlobalLogger()
	}
	return &Extractor{
		logger: logger,
	}
}

// Extract parses the widest '{' ... '}' span of rawText as a review.
// Missing or wrong-typed fields become empty values; score is passed through as-is.
// A response with no span or an unparsable span yields a *ParseError.
func (e *Extractor) Extract(rawText string) (*review.Review, error) {
	span, ok := widestObjectSpan(rawText)
	if !ok {
		e.logger.Debug("No JSON object in response", "length", len(rawText))
		return nil, &ParseError{Kind: NoJSONFound}
	}

	var out rawReviewOutput
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		e.logger.Debug("Failed to parse JSON span", "length", len(span), "error", err)
		return nil, &ParseError{Kind: MalformedJSON, Err: err}
	}
	e.logger.Debug("Successfully extracted JSON", "length", len(span))

	r := &review.Review{
		Score:       review.RawScore(out.Score),
		Issues:      e.decodeIssues(out.Issues),
		Positives:   e.decodeStrings("positives", out.Positives),
		Suggestions: e.decodeStrings("suggestions", out.Suggestions),
	}
	return r, nil
}

// widestObjectSpan returns the text from the first '{' to the last '}' inclusive
func widestObjectSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func (e *Extractor) decodeIssues(raw json.RawMessage) []review.Issue {
	issues := []review.Issue{}
	if isAbsent(raw) {
		return issues
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		e.logger.Debug("Ignoring issues field that is not an array", "error", err)
		return issues
	}

	for i, entry := range entries {
		var ri rawIssue
		if !isObject(entry) || json.Unmarshal(entry, &ri) != nil {
			e.logger.Debug("Skipping issue that is not an object", "index", i)
			continue
		}

		issue := review.Issue{
			Type:        review.IssueType(decodeString(ri.Type)),
			Severity:    review.IssueSeverity(decodeString(ri.Severity)),
			Line:        parseLineNumber(ri.Line),
			Description: decodeString(ri.Description),
		}
		if strings.TrimSpace(issue.Description) == "" {
			issue.Description = DefaultIssueDescription
		}
		issues = append(issues, issue)
	}

	return issues
}

func (e *Extractor) decodeStrings(field string, raw json.RawMessage) []string {
	values := []string{}
	if isAbsent(raw) {
		return values
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		e.logger.Debug("Ignoring field that is not an array", "field", field, "error", err)
		return values
	}

	for _, entry := range entries {
		var s string
		if isAbsent(entry) || json.Unmarshal(entry, &s) != nil {
			continue
		}
		values = append(values, s)
	}
	return values
}

// parseLineNumber accepts a positive integer or a numeric string
func parseLineNumber(raw json.RawMessage) *int {
	if isAbsent(raw) {
		return nil
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil
		}
		n = parsed
	}

	if n <= 0 {
		return nil
	}
	return &n
}

// decodeString returns the string value of raw, or "" for anything else
func decodeString(raw json.RawMessage) string {
	var s string
	if isAbsent(raw) || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
