package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Display  DisplayConfig  `mapstructure:"display"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
	// UseCases logs one line per service call.
	UseCases bool `mapstructure:"use_cases"`
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	// Currency is an ISO 4217 code used to format amounts.
	Currency string `mapstructure:"currency"`
	// Color is one of auto, always or never.
	Color string `mapstructure:"color"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// HOLDINGS_, with dots in keys replaced by underscores.
func Load() (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "holdings", "holdings.db"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.use_cases", false)
	v.SetDefault("display.currency", "EUR")
	v.SetDefault("display.color", "auto")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("HOLDINGS_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "holdings"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HOLDINGS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; an explicit one must exist and parse.
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Display.Currency = strings.ToUpper(strings.TrimSpace(c.Display.Currency))
	return c, nil
}

// SlogLevel maps Log.Level to a slog level, defaulting to warn.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}
