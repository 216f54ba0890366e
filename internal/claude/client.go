// Package claude is a minimal client for the Anthropic Messages API
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tildaslashalef/snapreview/internal/config"
	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/review"
	"github.com/tildaslashalef/snapreview/internal/ulid"
)

const messagesPath = "/v1/messages"

// Client represents an Anthropic Claude API client
// It sends one request per call and never retries
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client, e.g. to install a custom transport
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new Claude client from config
func NewClient(cfg config.ClaudeConfig, opts ...ClientOption) *Client {
	// Ensure baseURL doesn't end with a slash
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		// Zero timeout means the exchange waits for the server
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends payload to the Messages endpoint and returns the text of the
// first content block
func (c *Client) Complete(ctx context.Context, payload review.RequestPayload) (string, error) {
	req := MessagesRequest{
		Model:     payload.Model,
		MaxTokens: payload.MaxTokens,
		Messages:  payload.Messages,
	}

	var resp MessageResponse
	if err := c.makeRequest(ctx, http.MethodPost, messagesPath, req, &resp); err != nil {
		return "", fmt.Errorf("generating completion: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", ErrEmptyContent
	}

	if resp.Usage != nil {
		loggy.Debug("Claude usage",
			"model", resp.Model,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
			"stop_reason", resp.StopReason)
	}

	return resp.Content[0].Text, nil
}

// makeRequest sends one JSON request and decodes the JSON response
func (c *Client) makeRequest(ctx context.Context, method, path string, body any, response any) error {
	requestID := ulid.RequestID()

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request body: %w", err)
	}

	url := c.baseURL + path
	loggy.Debug("Sending Claude request",
		"request_id", requestID,
		"method", method,
		"url", url,
		"body_length", len(bodyBytes))

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("anthropic-version", c.apiVersion)
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	// Log request headers for debugging (excluding sensitive info)
	headers := make(map[string]string)
	for k, v := range req.Header {
		if strings.EqualFold(k, "x-api-key") {
			headers[k] = "[REDACTED]"
			continue
		}
		headers[k] = strings.Join(v, ", ")
	}
	loggy.Debug("Claude request headers", "request_id", requestID, "headers", headers)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	loggy.Debug("Claude API response",
		"request_id", requestID,
		"status", resp.Status,
		"status_code", resp.StatusCode,
		"content_length", len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		loggy.Error("Claude API error response",
			"request_id", requestID,
			"status", resp.Status,
			"body", string(respBody))
		return c.handleErrorResponse(resp, respBody)
	}

	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// handleErrorResponse processes error responses from the API
// It attempts to parse the error JSON and return a structured error
func (c *Client) handleErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || (apiErr.ErrorDetails.Type == "" && apiErr.ErrorDetails.Message == "") {
		apiErr = &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return apiErr
}
