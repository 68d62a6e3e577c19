package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the runtime configuration for the server and CLI
type Config struct {
	Provider string `mapstructure:"provider"`

	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	OllamaURL   string `mapstructure:"ollama_url"`
	OllamaModel string `mapstructure:"ollama_model"`

	GoogleBooksAPIKey   string `mapstructure:"google_books_api_key"`
	GoogleBooksEndpoint string `mapstructure:"google_books_endpoint"`

	CompletionAttempts uint   `mapstructure:"completion_attempts"`
	LibraryCatalog     string `mapstructure:"library_catalog"`
	Port               string `mapstructure:"port"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"provider":            "openai",
	"openai_model":        "gpt-4o-mini",
	"gemini_model":        "gemini-1.5-flash",
	"ollama_url":          "http://localhost:11434",
	"ollama_model":        "llama3.1",
	"completion_attempts": 1,
	"port":                "8888",
	"log_level":           "info",
	"log_format":          "text",
}

// Environment variable names for each key
var envNames = map[string]string{
	"provider":              "COMPANION_PROVIDER",
	"openai_api_key":        "OPENAI_API_KEY",
	"openai_model":          "OPENAI_MODEL",
	"openai_base_url":       "OPENAI_BASE_URL",
	"gemini_api_key":        "GEMINI_API_KEY",
	"gemini_model":          "GEMINI_MODEL",
	"ollama_url":            "OLLAMA_URL",
	"ollama_model":          "OLLAMA_MODEL",
	"google_books_api_key":  "GOOGLE_BOOKS_API_KEY",
	"google_books_endpoint": "GOOGLE_BOOKS_ENDPOINT",
	"completion_attempts":   "COMPLETION_ATTEMPTS",
	"library_catalog":       "LIBRARY_CATALOG",
	"port":                  "PORT",
	"log_level":             "LOG_LEVEL",
	"log_format":            "LOG_FORMAT",
}

// Load reads defaults, an optional YAML file, then the environment. With an
// empty cfgFile, companion.yaml is looked up in the working directory and
// $HOME/.companion; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envNames {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("companion")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.companion")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	return &cfg, nil
}

// Validate checks that the selected provider has what it needs
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for the ollama provider")
		}
	default:
		return fmt.Errorf("unsupported provider: %s (supported: openai, gemini, ollama)", c.Provider)
	}

	if c.CompletionAttempts == 0 {
		return fmt.Errorf("completion_attempts must be at least 1")
	}
	return nil
}

// Model returns the model name for the selected provider
func (c *Config) Model() string {
	switch c.Provider {
	case "gemini":
		return c.GeminiModel
	case "ollama":
		return c.OllamaModel
	default:
		return c.OpenAIModel
	}
}
