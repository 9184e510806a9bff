// Package config loads application configuration from TOML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrNoGeminiKeys          = errors.New("at least one Gemini API key is required")
)

// CurrentVersion is the expected config file version.
const CurrentVersion = 1

// Config represents the entire application configuration.
type Config struct {
	// Version of the config file.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Bot        Bot        `koanf:"bot"`
	Gemini     Gemini     `koanf:"gemini"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
}

// Bot contains Discord bot configuration.
type Bot struct {
	// Discord bot token.
	Token string `koanf:"token"`
}

// Gemini contains configuration for the link classifier.
type Gemini struct {
	// API keys rotated under the shared daily quota.
	Keys []string `koanf:"keys"`
	// Model used for URL scans.
	Model string `koanf:"model"`
	// Requests allowed per key per day.
	DailyLimit int `koanf:"daily_limit"`
	// Maximum concurrent classifier calls.
	MaxConcurrent int64 `koanf:"max_concurrent"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	Host         string `koanf:"host"`
	Port         int    `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	DBName       string `koanf:"db_name"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxLifetime  int    `koanf:"max_lifetime"` // Minutes
}

// LoadConfig loads the configuration file from the first search path that has
// one and validates it.
func LoadConfig() (*Config, string, error) {
	k := koanf.New(".")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configPaths := []string{
		".suspy",
		homeDir + "/.suspy/config",
		"/etc/suspy/config",
		"config",
		".",
	}

	var usedConfigPath string

	for _, path := range configPaths {
		configPath := fmt.Sprintf("%s/config.toml", path)
		if err := k.Load(file.Provider(configPath), toml.Parser()); err == nil {
			usedConfigPath = path
			break
		}
	}

	if usedConfigPath == "" {
		return nil, "", ErrConfigFileNotFound
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Version != CurrentVersion {
		return nil, "", fmt.Errorf("%w: expected version %d, got %d",
			ErrConfigVersionMismatch, CurrentVersion, config.Version)
	}

	if len(config.Gemini.Keys) == 0 {
		return nil, "", ErrNoGeminiKeys
	}

	applyDefaults(&config)

	return &config, usedConfigPath, nil
}

func applyDefaults(config *Config) {
	if config.Gemini.Model == "" {
		config.Gemini.Model = "gemini-2.5-flash"
	}

	if config.Gemini.DailyLimit <= 0 {
		config.Gemini.DailyLimit = 1500
	}

	if config.Gemini.MaxConcurrent <= 0 {
		config.Gemini.MaxConcurrent = 4
	}

	if config.PostgreSQL.MaxOpenConns <= 0 {
		config.PostgreSQL.MaxOpenConns = 8
	}

	if config.PostgreSQL.MaxIdleConns <= 0 {
		config.PostgreSQL.MaxIdleConns = 4
	}

	if config.PostgreSQL.MaxLifetime <= 0 {
		config.PostgreSQL.MaxLifetime = 30
	}
}
