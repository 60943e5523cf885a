// Package config loads tranceforge configuration from YAML, falling
// back to defaults when no config file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tranceforge configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Catalogs points at external catalog files. Empty paths fall back
	// to the embedded defaults.
	Catalogs CatalogsConfig `yaml:"catalogs"`

	// Generator configures the external text generator.
	Generator GeneratorConfig `yaml:"generator"`

	// Usage configures the template usage store.
	Usage UsageConfig `yaml:"usage"`

	// Logging configures the categorized file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogsConfig lists per-catalog override file paths.
type CatalogsConfig struct {
	ArcsPath       string `yaml:"arcs_path"`
	MetaphorsPath  string `yaml:"metaphors_path"`
	IssuesPath     string `yaml:"issues_path"`
	PrinciplesPath string `yaml:"principles_path"`
	LanguagePath   string `yaml:"language_path"`
	TemplatesPath  string `yaml:"templates_path"`
}

// GeneratorConfig configures the chat-completions generator client.
type GeneratorConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
	MaxRetries  int     `yaml:"max_retries"`
}

// ParsedTimeout returns the generator timeout as a duration, falling
// back to two minutes on a missing or invalid value.
func (g GeneratorConfig) ParsedTimeout() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// UsageConfig configures the SQLite usage store.
type UsageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	Debug      bool     `yaml:"debug"`
	Directory  string   `yaml:"directory"`
	Level      string   `yaml:"level"`
	Categories []string `yaml:"categories"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "tranceforge",
		Version: "0.3.0",

		Generator: GeneratorConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			MaxTokens:   4096,
			Temperature: 0.7,
			Timeout:     "120s",
			MaxRetries:  3,
		},

		Usage: UsageConfig{
			DatabasePath: "data/tranceforge.db",
		},

		Logging: LoggingConfig{
			Debug:     false,
			Directory: "logs",
			Level:     "info",
		},
	}
}

// Load reads configuration from a YAML file. A missing file returns
// the defaults; a malformed file is an error.
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

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment supply secrets that should not
// live in a config file.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("TRANCEFORGE_API_KEY"); key != "" {
		c.Generator.APIKey = key
	}
	if url := os.Getenv("TRANCEFORGE_BASE_URL"); url != "" {
		c.Generator.BaseURL = url
	}
	if model := os.Getenv("TRANCEFORGE_MODEL"); model != "" {
		c.Generator.Model = model
	}
}
