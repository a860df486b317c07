package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type Config struct {
	Port        string `envconfig:"PORT" default:"8002"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// LLM provider. The API key is optional at startup: endpoints that need
	// it answer 503 until it is configured.
	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	GeminiInterval time.Duration `envconfig:"GEMINI_MIN_INTERVAL" default:"1500ms"`

	// Diagnosis sessions.
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	SessionSweep   time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"memory"`

	Redis RedisConfig
}

// RedisConfig configures the optional Redis session backend.
type RedisConfig struct {
	URL          string `envconfig:"REDIS_URL"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
