package config

import (
	"time"
)

// Config holds runtime configuration for the playbook CLI.
type Config struct {
	// Pacing is the delay between node executions.
	Pacing time.Duration `mapstructure:"pacing"`

	LLM LLMConfig `mapstructure:"llm"`
	Log LogConfig `mapstructure:"log"`
}

// LLMConfig configures the optional language model used to phrase
// questions at user-interaction steps. An empty provider disables the
// language model entirely.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`

	// APIKey supports ${ENV_VAR} interpolation so keys stay out of
	// config files.
	APIKey string `mapstructure:"api_key"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Enabled reports whether a language model provider is configured.
func (c LLMConfig) Enabled() bool {
	return c.Provider != ""
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Pacing: 500 * time.Millisecond,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
