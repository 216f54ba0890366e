// Package extractor pulls the structured review out of free-form model output
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ParseErrorKind tells why a response could not be turned into a review
type ParseErrorKind string

const (
	// NoJSONFound means the text has no '{' ... '}' span
	NoJSONFound ParseErrorKind = "no_json_found"
	// MalformedJSON means the span exists but is not valid JSON
	MalformedJSON ParseErrorKind = "malformed_json"
)

// Sentinels for errors.Is against a *ParseError
var (
	ErrNoJSONFound   = errors.New("no JSON object found in response")
	ErrMalformedJSON = errors.New("malformed JSON in response")
)

// ParseError reports a response the extractor could not use
type ParseError struct {
	Kind ParseErrorKind
	Err  error // syntax error for MalformedJSON
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case NoJSONFound:
		return ErrNoJSONFound.Error()
	case MalformedJSON:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", ErrMalformedJSON, e.Err)
		}
		return ErrMalformedJSON.Error()
	default:
		return fmt.Sprintf("parse error (%s)", e.Kind)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrNoJSONFound:
		return e.Kind == NoJSONFound
	case ErrMalformedJSON:
		return e.Kind == MalformedJSON
	}
	return false
}

// rawReviewOutput is the top-level object as the model returned it. Fields are
// decoded one by one so that a wrong-typed field does not sink the others.
type rawReviewOutput struct {
	Score       json.RawMessage `json:"score"`
	Issues      json.RawMessage `json:"issues"`
	Positives   json.RawMessage `json:"positives"`
	Suggestions json.RawMessage `json:"suggestions"`
}

// rawIssue is one entry of "issues" before validation
type rawIssue struct {
	Type        json.RawMessage `json:"type"`
	Severity    json.RawMessage `json:"severity"`
	Line        json.RawMessage `json:"line"`
	Description json.RawMessage `json:"description"`
}
