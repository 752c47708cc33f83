package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Journal JournalConfig `mapstructure:"journal"`
	Replay  ReplayConfig  `mapstructure:"replay"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig mirrors the logger package's options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // optional rotating log file
	Environment string `mapstructure:"environment"` // "dev" or "prod"
}

// JournalConfig points at the backend that persists trade summaries. An
// empty base URL disables journaling entirely.
type JournalConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ReplayConfig sets defaults for newly created replay sessions.
type ReplayConfig struct {
	Candles       int     `mapstructure:"candles"`
	InitialOffset int     `mapstructure:"initial_offset"`
	Window        int     `mapstructure:"window"`
	Balance       float64 `mapstructure:"balance"`
}

// Load reads configuration from the given YAML file (or config.yaml in the
// working directory when path is empty) with environment-variable overrides,
// e.g. SERVER_PORT or LOG_LEVEL. A missing default file falls back to the
// built-in defaults; an explicitly named file must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("journal.timeout", 5*time.Second)
	v.SetDefault("replay.candles", 500)
	v.SetDefault("replay.initial_offset", 100)
	v.SetDefault("replay.window", 100)
	v.SetDefault("replay.balance", 10000)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
