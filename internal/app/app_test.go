package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/config"
	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
)

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	application, err := NewFromConfig(cfg, loggy.NewNoopLogger())
	require.NoError(t, err)

	assert.Same(t, cfg, application.Config)
	assert.NotNil(t, application.Client)
	assert.NotNil(t, application.Detector)
	assert.Equal(t, pipeline.StateIdle, application.Pipeline.State())

	payload, err := application.Prompts.Build("x = 1", "python")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModel, payload.Model)
	assert.Equal(t, config.DefaultMaxTokens, payload.MaxTokens)

	require.NoError(t, application.Shutdown())
}

func TestNewFromConfigPromptTemplate(t *testing.T) {
	dir := t.TempDir()

	t.Run("custom template", func(t *testing.T) {
		path := filepath.Join(dir, "prompt.tmpl")
		require.NoError(t, os.WriteFile(path, []byte("Review this {{.Language}}:\n{{.Code}}"), 0644))

		cfg := config.Default()
		cfg.Review.PromptTemplateFile = path
		application, err := NewFromConfig(cfg, loggy.NewNoopLogger())
		require.NoError(t, err)

		payload, err := application.Prompts.Build("fn main() {}", "rust")
		require.NoError(t, err)
		assert.Equal(t, "Review this rust:\nfn main() {}", payload.Prompt())
	})

	t.Run("template without code", func(t *testing.T) {
		path := filepath.Join(dir, "nocode.tmpl")
		require.NoError(t, os.WriteFile(path, []byte("Review this {{.Language}}"), 0644))

		cfg := config.Default()
		cfg.Review.PromptTemplateFile = path
		_, err := NewFromConfig(cfg, loggy.NewNoopLogger())
		assert.ErrorContains(t, err, "failed to create prompt builder")
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Review.PromptTemplateFile = filepath.Join(dir, "missing.tmpl")
		_, err := NewFromConfig(cfg, loggy.NewNoopLogger())
		assert.ErrorContains(t, err, "failed to read prompt template")
	})
}

func TestFromContext(t *testing.T) {
	cliApp := &cli.App{}
	c := cli.NewContext(cliApp, nil, nil)

	_, err := FromContext(c)
	assert.Error(t, err)

	application, err := NewFromConfig(config.Default(), loggy.NewNoopLogger())
	require.NoError(t, err)
	Attach(c, application)

	got, err := FromContext(c)
	require.NoError(t, err)
	assert.Same(t, application, got)
}
