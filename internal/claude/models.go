package claude

import (
	"errors"
	"fmt"

	"github.com/tildaslashalef/snapreview/internal/review"
)

// ErrEmptyContent is returned when a successful response carries no content blocks
var ErrEmptyContent = errors.New("response contained no content blocks")

// MessagesRequest is the body of POST /v1/messages
type MessagesRequest struct {
	Model     string           `json:"model"`      // Claude model to use
	MaxTokens int              `json:"max_tokens"` // Maximum tokens to generate
	Messages  []review.Message `json:"messages"`   // Conversation, a single user message here
}

// ContentBlock represents a block of content in a response
// Claude responses can contain multiple content blocks of different types
type ContentBlock struct {
	Type string `json:"type"` // Content type (e.g., "text", "thinking")
	Text string `json:"text"` // The actual content text
}

// MessageResponse represents the full message response from Claude API
type MessageResponse struct {
	ID         string         `json:"id"`                    // Message ID
	Type       string         `json:"type"`                  // Message type
	Role       string         `json:"role"`                  // Message role (e.g., "assistant")
	Content    []ContentBlock `json:"content"`               // Message content blocks
	Model      string         `json:"model"`                 // Model used
	StopReason string         `json:"stop_reason,omitempty"` // Reason why generation stopped
	Usage      *UsageInfo     `json:"usage,omitempty"`       // Token usage information
}

// UsageInfo contains token usage information for a request
type UsageInfo struct {
	InputTokens  int `json:"input_tokens"`  // Number of input tokens
	OutputTokens int `json:"output_tokens"` // Number of output tokens
}

// APIError represents an error response from the Claude API
type APIError struct {
	StatusCode   int    `json:"-"`
	Type         string `json:"type"`
	ErrorDetails struct {
		Type    string `json:"type"`    // Error type
		Message string `json:"message"` // Error message
	} `json:"error"`
	Body string `json:"-"` // Raw body when it was not a structured error
}

// Error implements the error interface for APIError
func (e *APIError) Error() string {
	if e.ErrorDetails.Type == "" && e.ErrorDetails.Message == "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %s", e.ErrorDetails.Type, e.ErrorDetails.Message)
}
