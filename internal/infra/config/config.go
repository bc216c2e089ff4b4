// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/ytlength/internal/infra/credential"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	YouTube    YouTubeConfig     `yaml:"youtube"`
	Credential credential.Config `yaml:"credential"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr            string `yaml:"addr" default:":8080"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec" default:"5" validate:"gte=1,lte=300"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec" default:"60" validate:"gte=1,lte=600"`
}

// YouTubeConfig represents YouTube Data API configuration.
type YouTubeConfig struct {
	// APIKey is the server-side fallback key. Requests may carry their own.
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url" default:"https://www.googleapis.com/youtube/v3" validate:"url"`
	TimeoutSec int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// LoggingConfig represents logger configuration.
type LoggingConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info" validate:"omitempty,oneof=debug info warn error"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.YouTube.APIKey = v
	}
	if v := os.Getenv("YTLENGTH_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
