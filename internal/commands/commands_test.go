package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/app"
	"github.com/tildaslashalef/snapreview/internal/config"
	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/review"
)

const reviewJSON = `{"score": 85, "issues": [{"type": "style", "severity": "low", "line": 3, "description": "Use const"}], "positives": ["Readable"], "suggestions": ["Add tests"]}`

// claudeServer answers every request with text as the first content block
func claudeServer(t *testing.T, status int, text string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`))
			return
		}
		body, _ := json.Marshal(map[string]any{
			"id":      "msg_1",
			"type":    "message",
			"role":    "assistant",
			"model":   "claude-sonnet-4-20250514",
			"content": []map[string]string{{"type": "text", "text": text}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

// runCLI runs args against a CLI wired to a fresh App pointed at baseURL
func runCLI(t *testing.T, baseURL, stdin string, args ...string) (string, error) {
	t.Helper()

	cfg := config.Default()
	cfg.Claude.BaseURL = baseURL
	application, err := app.NewFromConfig(cfg, loggy.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })

	var out bytes.Buffer
	cliApp := &cli.App{
		Name:   "snapreview",
		Reader: strings.NewReader(stdin),
		Writer: &out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir"},
			&cli.StringFlag{Name: "log-level"},
		},
		Before: func(c *cli.Context) error {
			app.Attach(c, application)
			return nil
		},
		Commands: []*cli.Command{
			ReviewCommand(),
			LanguagesCommand(),
			InitCommand(),
		},
		ExitErrHandler: func(*cli.Context, error) {},
	}

	err = cliApp.Run(append([]string{"snapreview"}, args...))
	return out.String(), err
}

func TestReviewJSON(t *testing.T) {
	server, calls := claudeServer(t, http.StatusOK, "Here you go:\n"+reviewJSON)

	out, err := runCLI(t, server.URL, "const x = 1\nlet y = 2\nvar z = 3\n", "review", "--format", "json", "--lang", "javascript")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var got review.Review
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	score, ok := got.Score.Int()
	require.True(t, ok)
	assert.Equal(t, 85, score)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "Use const", got.Issues[0].Description)
	assert.Equal(t, []string{"Readable"}, got.Positives)
	assert.Equal(t, []string{"Add tests"}, got.Suggestions)
}

func TestReviewTextFromFile(t *testing.T) {
	server, _ := claudeServer(t, http.StatusOK, reviewJSON)

	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n\nfunc main() {}\n"), 0644))

	out, err := runCLI(t, server.URL, "", "review", "--format", "text", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Code Quality Score (go): 85")
	assert.Contains(t, out, "Use const")
	assert.Contains(t, out, "Readable")
}

func TestReviewFailedExitsNonZero(t *testing.T) {
	server, calls := claudeServer(t, http.StatusServiceUnavailable, "")

	out, err := runCLI(t, server.URL, "x = 1\n", "review", "--format", "json", "--lang", "python")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "failed exchanges are not retried")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())

	var got review.Review
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.IsPipelineError())
}

func TestReviewUnparseableCompletion(t *testing.T) {
	server, _ := claudeServer(t, http.StatusOK, "I cannot review this.")

	out, err := runCLI(t, server.URL, "x = 1\n", "review", "--format", "json")
	require.Error(t, err)

	var got review.Review
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.IsPipelineError())
}

func TestReviewDryRun(t *testing.T) {
	server, calls := claudeServer(t, http.StatusOK, reviewJSON)

	out, err := runCLI(t, server.URL, "print('hi')\n", "review", "--dry-run", "--lang", "python")
	require.NoError(t, err)
	assert.Equal(t, int32(0), calls.Load())

	var payload review.RequestPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, config.DefaultModel, payload.Model)
	assert.Equal(t, config.DefaultMaxTokens, payload.MaxTokens)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "user", payload.Messages[0].Role)
	assert.Contains(t, payload.Prompt(), "python")
	assert.Contains(t, payload.Prompt(), "print('hi')")
}

func TestReviewInputErrors(t *testing.T) {
	server, calls := claudeServer(t, http.StatusOK, reviewJSON)

	t.Run("empty stdin", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "  \n", "review")
		assert.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("binary input", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "\x7fELF\x00\x00\x01\x02", "review")
		assert.ErrorIs(t, err, ErrBinarySource)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "", "review", filepath.Join(t.TempDir(), "nope.go"))
		assert.ErrorContains(t, err, "failed to open source file")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCLI(t, server.URL, "x = 1\n", "review", "--format", "yaml")
		assert.ErrorContains(t, err, "unknown output format")
	})

	assert.Equal(t, int32(0), calls.Load())
}

func TestLanguagesCommand(t *testing.T) {
	out, err := runCLI(t, "https://api.anthropic.com", "", "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "javascript")
	assert.Contains(t, out, ".py")
}

func TestInitCommand(t *testing.T) {
	// The generated .env is loaded into the process environment; t.Setenv restores it afterwards
	for _, key := range []string{
		"ENV_FILE_PATH",
		"SNAPREVIEW_CLAUDE_API_KEY", "SNAPREVIEW_CLAUDE_BASE_URL", "SNAPREVIEW_CLAUDE_API_VERSION",
		"SNAPREVIEW_CLAUDE_MODEL", "SNAPREVIEW_CLAUDE_MAX_TOKENS", "SNAPREVIEW_CLAUDE_TIMEOUT",
		"SNAPREVIEW_PROMPT_TEMPLATE_FILE", "SNAPREVIEW_DEFAULT_LANGUAGE", "SNAPREVIEW_OUTPUT_FORMAT",
		"SNAPREVIEW_LOG_LEVEL", "SNAPREVIEW_LOG_FORMAT", "SNAPREVIEW_LOG_OUTPUT",
		"SNAPREVIEW_LOG_ADD_SOURCE", "SNAPREVIEW_LOG_TIME_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	dir := filepath.Join(t.TempDir(), "cfg")

	out, err := runCLI(t, "https://api.anthropic.com", "", "--config-dir", dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "snapreview initialized successfully!")
	assert.FileExists(t, filepath.Join(dir, ".env"))

	_, err = runCLI(t, "https://api.anthropic.com", "", "--config-dir", dir, "init")
	require.NoError(t, err)
	backups, err := filepath.Glob(filepath.Join(dir, ".env.*.bak"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}
