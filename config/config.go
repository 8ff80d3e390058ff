// Package config loads application settings from an optional YAML file with
// environment variable overrides. Defaults are safe for local development;
// deployments typically supply a config file plus provider API keys via the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/saxenashivang/interactive-learning/core"
)

// Config holds all application configuration.
type Config struct {
	// AppName is used in logs and artifact metadata.
	AppName string `yaml:"app_name"`

	// Providers configures the model backends.
	Providers ProvidersConfig `yaml:"providers"`

	// Research configures the web research pipeline.
	Research ResearchConfig `yaml:"research"`

	// Artifacts configures visualization storage.
	Artifacts ArtifactsConfig `yaml:"artifacts"`

	// Logging configures diagnostics output.
	Logging LoggingConfig `yaml:"logging"`
}

// ProvidersConfig configures the model backends and which one is used by default.
type ProvidersConfig struct {
	Default      string  `yaml:"default"` // gemini, openai, anthropic
	GoogleAPIKey string  `yaml:"google_api_key"`
	OpenAIAPIKey string  `yaml:"openai_api_key"`
	AnthropicKey string  `yaml:"anthropic_api_key"`
	Temperature  float64 `yaml:"temperature"`
}

// ResearchConfig configures the research pipeline and its search backend.
type ResearchConfig struct {
	TavilyAPIKey       string `yaml:"tavily_api_key"`
	MaxResultsPerQuery int    `yaml:"max_results_per_query"`
	MaxIterations      int    `yaml:"max_iterations"`
}

// ArtifactsConfig configures where packaged HTML documents are stored. An
// empty bucket selects the in-memory store.
type ArtifactsConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		AppName: "Interactive Learning Platform",

		Providers: ProvidersConfig{
			Default:     "gemini",
			Temperature: 0.7,
		},

		Research: ResearchConfig{
			MaxResultsPerQuery: 5,
			MaxIterations:      3,
		},

		Artifacts: ArtifactsConfig{
			Prefix: "artifacts",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, then applies environment
// variable overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied, skipping
// the file entirely.
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	return cfg
}

// applyEnvOverrides overrides config values from environment variables.
func (c *Config) applyEnvOverrides() {
	setString(&c.Providers.Default, "DEFAULT_LLM_PROVIDER")
	setString(&c.Providers.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&c.Providers.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.Providers.AnthropicKey, "ANTHROPIC_API_KEY")
	setFloat(&c.Providers.Temperature, "LLM_TEMPERATURE")

	setString(&c.Research.TavilyAPIKey, "TAVILY_API_KEY")
	setInt(&c.Research.MaxResultsPerQuery, "RESEARCH_MAX_RESULTS")

	setString(&c.Artifacts.Bucket, "ARTIFACT_BUCKET")
	setString(&c.Artifacts.Prefix, "ARTIFACT_PREFIX")

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate checks that the configuration is internally consistent and that
// the default provider has a credential.
func (c *Config) Validate() error {
	var key string
	switch c.Providers.Default {
	case "gemini":
		key = c.Providers.GoogleAPIKey
	case "openai":
		key = c.Providers.OpenAIAPIKey
	case "anthropic":
		key = c.Providers.AnthropicKey
	default:
		return &core.ConfigurationError{
			Setting: "providers.default",
			Reason:  fmt.Sprintf("unknown provider %q", c.Providers.Default),
		}
	}
	if key == "" {
		return &core.ConfigurationError{
			Setting: "providers." + c.Providers.Default,
			Reason:  "missing API key",
		}
	}
	if c.Research.MaxResultsPerQuery <= 0 {
		return &core.ConfigurationError{
			Setting: "research.max_results_per_query",
			Reason:  "must be positive",
		}
	}
	return nil
}
