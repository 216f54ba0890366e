package review

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"text/template/parse"
)

// Defaults for the request payload
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 1000
)

// ErrEmptySource is returned by Build when the source is blank
var ErrEmptySource = errors.New("source code is empty")

// reviewPromptTemplate asks for the four-field review object. The code is placed
// verbatim inside a fence tagged with the language.
const reviewPromptTemplate = "You are an expert code reviewer. Analyze this {{.Language}} code and provide a structured review with:\n" +
	"1. Overall quality score (0-100)\n" +
	"2. Specific issues found (bugs, security, performance, style)\n" +
	"3. Positive aspects\n" +
	"4. Actionable suggestions for improvement\n" +
	"\n" +
	"Format your response as JSON with this structure:\n" +
	"{\n" +
	"  \"score\": number,\n" +
	"  \"issues\": [{\"type\": \"bug|security|performance|style\", \"severity\": \"high|medium|low\", \"line\": number or null, \"description\": string}],\n" +
	"  \"positives\": [string],\n" +
	"  \"suggestions\": [string]\n" +
	"}\n" +
	"\n" +
	"Code to review:\n" +
	"```{{.Language}}\n" +
	"{{.Code}}\n" +
	"```"

// Message is one message of a Messages API request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestPayload is the body sent to the completion endpoint
type RequestPayload struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []Message `json:"messages"`
}

// Prompt returns the content of the user message
func (p RequestPayload) Prompt() string {
	for _, m := range p.Messages {
		if m.Role == "user" {
			return m.Content
		}
	}
	return ""
}

// PromptOptions contains options for building request payloads
type PromptOptions struct {
	Model     string
	MaxTokens int
	Template  string // text/template source with .Language and .Code; empty uses the built-in prompt
}

// DefaultPromptOptions returns default prompt options
func DefaultPromptOptions() PromptOptions {
	return PromptOptions{
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
	}
}

// PromptBuilder renders the review prompt into a request payload
type PromptBuilder struct {
	model     string
	maxTokens int
	tmpl      *template.Template
}

// NewPromptBuilder parses the prompt template once
func NewPromptBuilder(opts PromptOptions) (*PromptBuilder, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	text := opts.Template
	if strings.TrimSpace(text) == "" {
		text = reviewPromptTemplate
	}

	tmpl, err := template.New("review").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}
	if !referencesField(tmpl.Tree.Root, "Code") {
		return nil, errors.New("prompt template must reference {{.Code}}")
	}

	return &PromptBuilder{
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		tmpl:      tmpl,
	}, nil
}

// Build renders the prompt for sourceCode and languageTag. Both are inserted verbatim.
func (b *PromptBuilder) Build(sourceCode, languageTag string) (RequestPayload, error) {
	if strings.TrimSpace(sourceCode) == "" {
		return RequestPayload{}, ErrEmptySource
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, struct {
		Language string
		Code     string
	}{
		Language: languageTag,
		Code:     sourceCode,
	}); err != nil {
		return RequestPayload{}, fmt.Errorf("rendering prompt: %w", err)
	}

	return RequestPayload{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages: []Message{
			{Role: "user", Content: buf.String()},
		},
	}, nil
}

// referencesField reports whether any action in the tree uses .name
func referencesField(node parse.Node, name string) bool {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return false
		}
		for _, child := range n.Nodes {
			if referencesField(child, name) {
				return true
			}
		}
	case *parse.ActionNode:
		return referencesField(n.Pipe, name)
	case *parse.PipeNode:
		if n == nil {
			return false
		}
		for _, cmd := range n.Cmds {
			if referencesField(cmd, name) {
				return true
			}
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			if referencesField(arg, name) {
				return true
			}
		}
	case *parse.FieldNode:
		return len(n.Ident) > 0 && n.Ident[0] == name
	case *parse.IfNode:
		return referencesField(n.Pipe, name) || referencesField(n.List, name) || referencesField(n.ElseList, name)
	case *parse.RangeNode:
		return referencesField(n.Pipe, name) || referencesField(n.List, name) || referencesField(n.ElseList, name)
	case *parse.WithNode:
		return referencesField(n.Pipe, name) || referencesField(n.List, name) || referencesField(n.ElseList, name)
	}
	return false
}
