package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the Messages endpoint and the review prompt
const (
	DefaultBaseURL         = "https://api.anthropic.com"
	DefaultAPIVersion      = "2023-06-01"
	DefaultModel           = "claude-sonnet-4-20250514"
	DefaultMaxTokens       = 1000
	DefaultLanguage        = "javascript"
	DefaultOutputFormat    = "text"
	defaultLogFileName     = "snapreview.log"
	defaultEnvFileName     = ".env"
	envFilePathOverrideKey = "ENV_FILE_PATH"
)

// LoadFromEnv loads configuration from environment variables
// Parameters:
// - configDir: Directory containing config files (or empty for ~/.snapreview)
// - configFilePath: Path to .env file (or empty for <configDir>/.env)
func LoadFromEnv(configDir string, configFilePath string) (*Config, error) {
	cfg := New()

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir

		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	cfg.configDir = configDir

	// Logs go to a file by default so terminal output stays clean
	defaultLogPath := filepath.Join(configDir, defaultLogFileName)

	if configFilePath == "" {
		configFilePath = filepath.Join(configDir, defaultEnvFileName)
	}

	// ENV_FILE_PATH points at a custom .env file and must exist when set
	envFilePath := getEnvString(envFilePathOverrideKey, "")
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFilePath, err)
		}
	} else {
		if err := godotenv.Load(configFilePath); err != nil {
			_ = godotenv.Load() // ./.env is optional
		}
	}

	cfg.Claude = ClaudeConfig{
		APIKey:     getEnvString("SNAPREVIEW_CLAUDE_API_KEY", ""),
		BaseURL:    getEnvString("SNAPREVIEW_CLAUDE_BASE_URL", DefaultBaseURL),
		APIVersion: getEnvString("SNAPREVIEW_CLAUDE_API_VERSION", DefaultAPIVersion),
		Model:      getEnvString("SNAPREVIEW_CLAUDE_MODEL", DefaultModel),
		MaxTokens:  getEnvInt("SNAPREVIEW_CLAUDE_MAX_TOKENS", DefaultMaxTokens),
		Timeout:    getEnvDuration("SNAPREVIEW_CLAUDE_TIMEOUT", 0),
	}

	cfg.Review = ReviewConfig{
		PromptTemplateFile: getEnvString("SNAPREVIEW_PROMPT_TEMPLATE_FILE", ""),
		DefaultLanguage:    getEnvString("SNAPREVIEW_DEFAULT_LANGUAGE", DefaultLanguage),
		OutputFormat:       getEnvString("SNAPREVIEW_OUTPUT_FORMAT", DefaultOutputFormat),
	}

	cfg.Logging = LoggingConfig{
		Level:      getEnvString("SNAPREVIEW_LOG_LEVEL", "info"),
		Format:     getEnvString("SNAPREVIEW_LOG_FORMAT", "text"),
		Output:     getEnvString("SNAPREVIEW_LOG_OUTPUT", defaultLogPath),
		AddSource:  getEnvBool("SNAPREVIEW_LOG_ADD_SOURCE", true),
		TimeFormat: getTimeFormat(getEnvString("SNAPREVIEW_LOG_TIME_FORMAT", "RFC3339")),
	}

	return cfg, cfg.Validate()
}

// Default returns the built-in configuration with logs on stderr and no .env loaded
func Default() *Config {
	return &Config{
		Claude: ClaudeConfig{
			BaseURL:    DefaultBaseURL,
			APIVersion: DefaultAPIVersion,
			Model:      DefaultModel,
			MaxTokens:  DefaultMaxTokens,
		},
		Review: ReviewConfig{
			DefaultLanguage: DefaultLanguage,
			OutputFormat:    DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			AddSource:  true,
			TimeFormat: time.RFC3339,
		},
	}
}
