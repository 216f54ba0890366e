package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Global configuration instance
	globalConfig *Config
	configMutex  sync.RWMutex

	validate = newValidator()
)

// newValidator reports fields by the environment variable that sets them
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("env"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Get returns the global configuration instance
// If the configuration has not been initialized, it will return an error
func Get() (*Config, error) {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if globalConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	return globalConfig, nil
}

// Set sets the global configuration instance
func Set(cfg *Config) {
	configMutex.Lock()
	defer configMutex.Unlock()

	globalConfig = cfg
}

// Config represents the complete application configuration
type Config struct {
	Claude    ClaudeConfig
	Review    ReviewConfig
	Logging   LoggingConfig
	configDir string // Internal: Directory where config was loaded from
}

// ClaudeConfig holds settings for the Messages endpoint
type ClaudeConfig struct {
	APIKey     string        `env:"SNAPREVIEW_CLAUDE_API_KEY"` // Sent as x-api-key when non-empty
	BaseURL    string        `env:"SNAPREVIEW_CLAUDE_BASE_URL" validate:"required,url"`
	APIVersion string        `env:"SNAPREVIEW_CLAUDE_API_VERSION" validate:"required"`
	Model      string        `env:"SNAPREVIEW_CLAUDE_MODEL" validate:"required"`
	MaxTokens  int           `env:"SNAPREVIEW_CLAUDE_MAX_TOKENS" validate:"gt=0"`
	Timeout    time.Duration `env:"SNAPREVIEW_CLAUDE_TIMEOUT" validate:"gte=0"` // Zero means no client-side deadline
}

// ReviewConfig holds settings for prompt construction and output
type ReviewConfig struct {
	PromptTemplateFile string `env:"SNAPREVIEW_PROMPT_TEMPLATE_FILE"` // Optional text/template overriding the built-in prompt
	DefaultLanguage    string `env:"SNAPREVIEW_DEFAULT_LANGUAGE" validate:"required"`
	OutputFormat       string `env:"SNAPREVIEW_OUTPUT_FORMAT" validate:"oneof=text markdown json"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `env:"SNAPREVIEW_LOG_LEVEL" validate:"oneof=debug info warn error none"`
	Format     string `env:"SNAPREVIEW_LOG_FORMAT" validate:"oneof=text json"`
	Output     string `env:"SNAPREVIEW_LOG_OUTPUT" validate:"required"` // stdout, stderr, or a file path
	AddSource  bool   `env:"SNAPREVIEW_LOG_ADD_SOURCE"`
	TimeFormat string `env:"SNAPREVIEW_LOG_TIME_FORMAT"`
}

// New returns a new empty Config
func New() *Config {
	return &Config{
		Claude:  ClaudeConfig{},
		Review:  ReviewConfig{},
		Logging: LoggingConfig{},
	}
}

// ConfigDir returns the directory the configuration was loaded from
func (c *Config) ConfigDir() string {
	return c.configDir
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validateSection(c.Claude); err != nil {
		return fmt.Errorf("claude config: %w", err)
	}

	if err := c.validatePromptTemplate(); err != nil {
		return fmt.Errorf("review config: %w", err)
	}

	if err := validateSection(c.Review); err != nil {
		return fmt.Errorf("review config: %w", err)
	}

	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if err := validateSection(c.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// validateSection runs the struct tags of one section and reports the first failure
func validateSection(section any) error {
	err := validate.Struct(section)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", fe.Field())
	case "url":
		return fmt.Errorf("%s must be a valid URL: %v", fe.Field(), fe.Value())
	case "gt":
		return fmt.Errorf("%s must be positive", fe.Field())
	case "gte":
		return fmt.Errorf("%s cannot be negative", fe.Field())
	case "oneof":
		return fmt.Errorf("invalid %s: %v (must be one of %s)", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func (c *Config) validatePromptTemplate() error {
	if c.Review.PromptTemplateFile == "" {
		return nil
	}
	info, err := os.Stat(c.Review.PromptTemplateFile)
	if err != nil {
		return fmt.Errorf("prompt template file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("prompt template file %s is a directory", c.Review.PromptTemplateFile)
	}
	return nil
}

// ParseLogLevel parses a log level string to a slog.Level
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "none":
		// Set to a very high level that won't be triggered
		return slog.Level(9999)
	default:
		return slog.LevelInfo
	}
}

// DefaultConfigDir returns ~/.snapreview
func DefaultConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".snapreview"), nil
}

// getEnvString returns a string from the environment variable
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an int from the environment variable
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns a bool from the environment variable
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration returns a time.Duration from the environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getTimeFormat converts a named time format to its actual format string
func getTimeFormat(name string) string {
	switch name {
	case "RFC3339":
		return time.RFC3339
	case "RFC3339Nano":
		return time.RFC3339Nano
	case "RFC822":
		return time.RFC822
	case "RFC1123":
		return time.RFC1123
	case "Kitchen":
		return time.Kitchen
	case "StampMilli":
		return time.StampMilli
	case "DateTime":
		return time.DateTime
	case "DateTimeMS":
		return "2006-01-02 15:04:05.000"
	case "Date":
		return time.DateOnly
	case "Time":
		return time.TimeOnly
	default:
		return name
	}
}
