// Package config provides configuration management for the gportal CLI.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the complete application configuration loaded from environment variables.
type Config struct {
	Catalogue CatalogueConfig `envPrefix:"GPORTAL_"`
	SFTP      SFTPConfig      `envPrefix:"GPORTAL_SFTP_"`
	Logging   LoggingConfig   `envPrefix:"LOG_"`
}

// CatalogueConfig contains G-Portal catalogue client configuration.
type CatalogueConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://gportal.jaxa.jp"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// SFTPConfig contains G-Portal SFTP download configuration. Username and
// Password are the G-Portal account credentials; they are only required for
// download commands.
type SFTPConfig struct {
	Host     string        `env:"HOST" envDefault:"ftp.gportal.jaxa.jp"`
	Port     int           `env:"PORT" envDefault:"2051"`
	Username string        `env:"USERNAME" envDefault:""`
	Password string        `env:"PASSWORD" envDefault:""`
	Timeout  time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses configuration from environment variables.
// It returns an error if required fields are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		RequiredIfNoDef: true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Catalogue.BaseURL == "" {
		return fmt.Errorf("catalogue base URL is required")
	}

	if c.Catalogue.Timeout <= 0 {
		return fmt.Errorf("catalogue timeout must be positive, got %s", c.Catalogue.Timeout)
	}

	if c.SFTP.Host == "" {
		return fmt.Errorf("SFTP host is required")
	}

	if c.SFTP.Port < 1 || c.SFTP.Port > 65535 {
		return fmt.Errorf("SFTP port must be between 1 and 65535, got %d", c.SFTP.Port)
	}

	if c.SFTP.Timeout <= 0 {
		return fmt.Errorf("SFTP timeout must be positive, got %s", c.SFTP.Timeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the SFTP server address in the format "host:port".
func (s *SFTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
