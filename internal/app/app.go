// Package app provides the application initialization and lifecycle management
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/snapreview/internal/claude"
	"github.com/tildaslashalef/snapreview/internal/config"
	"github.com/tildaslashalef/snapreview/internal/extractor"
	"github.com/tildaslashalef/snapreview/internal/language"
	"github.com/tildaslashalef/snapreview/internal/loggy"
	"github.com/tildaslashalef/snapreview/internal/pipeline"
	"github.com/tildaslashalef/snapreview/internal/review"
)

// metadataKey is where the App is stored in cli.App.Metadata
const metadataKey = "app"

// Options are the command-line overrides applied on top of the loaded configuration
type Options struct {
	ConfigDir string // empty uses ~/.snapreview
	LogLevel  string // empty keeps SNAPREVIEW_LOG_LEVEL
}

// App represents the application instance with its dependencies
type App struct {
	Config   *config.Config
	Logger   *loggy.Logger
	Client   *claude.Client
	Prompts  *review.PromptBuilder
	Pipeline *pipeline.Pipeline
	Detector *language.Detector

	cancel context.CancelFunc
}

// New initializes a new application instance with all its dependencies
func New(opts Options) (*App, error) {
	cfg, err := initConfig(opts)
	if err != nil {
		return nil, err
	}

	if err := initLogger(cfg); err != nil {
		return nil, err
	}

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
		"model", cfg.Claude.Model,
	)

	app, err := NewFromConfig(cfg, loggy.GetGlobalLogger())
	if err != nil {
		return nil, err
	}

	loggy.Info("Application initialized successfully")
	return app, nil
}

// initConfig loads and sets up the application configuration
func initConfig(opts Options) (*config.Config, error) {
	cfg, err := config.LoadFromEnv(opts.ConfigDir, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
	}

	config.Set(cfg)
	return cfg, nil
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// NewFromConfig wires the services for an already loaded configuration
func NewFromConfig(cfg *config.Config, logger *loggy.Logger) (*App, error) {
	prompts, err := initPromptBuilder(cfg)
	if err != nil {
		return nil, err
	}

	client := claude.NewClient(cfg.Claude)

	ctx, cancel := context.WithCancel(context.Background())
	p := pipeline.New(
		client,
		prompts,
		extractor.New(logger),
		logger,
		pipeline.WithBaseContext(ctx),
	)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Prompts:  prompts,
		Pipeline: p,
		Detector: language.NewDetector(logger),
		cancel:   cancel,
	}, nil
}

// initPromptBuilder reads the optional prompt template file
func initPromptBuilder(cfg *config.Config) (*review.PromptBuilder, error) {
	opts := review.PromptOptions{
		Model:     cfg.Claude.Model,
		MaxTokens: cfg.Claude.MaxTokens,
	}

	if path := cfg.Review.PromptTemplateFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template: %w", err)
		}
		opts.Template = string(data)
	}

	prompts, err := review.NewPromptBuilder(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}
	return prompts, nil
}

// Shutdown aborts any in-flight exchange
func (app *App) Shutdown() error {
	app.Logger.Info("Shutting down application", "state", app.Pipeline.State())
	if app.cancel != nil {
		app.cancel()
	}
	return nil
}

// Attach stores the App instance in the CLI application metadata
func Attach(c *cli.Context, app *App) {
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[metadataKey] = app
}

// Load returns the App attached to c, creating it from the global
// --config-dir and --log-level flags on first use
func Load(c *cli.Context) (*App, error) {
	if app, err := FromContext(c); err == nil {
		return app, nil
	}

	app, err := New(Options{
		ConfigDir: c.String("config-dir"),
		LogLevel:  c.String("log-level"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	Attach(c, app)
	return app, nil
}

// FromContext retrieves the App instance from the CLI context
func FromContext(c *cli.Context) (*App, error) {
	if c.App.Metadata == nil {
		return nil, fmt.Errorf("app metadata not found in context")
	}

	app, ok := c.App.Metadata[metadataKey].(*App)
	if !ok {
		return nil, fmt.Errorf("app instance not found in context")
	}

	return app, nil
}
