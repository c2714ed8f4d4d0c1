// Package config loads application configuration from a YAML file with
// environment-variable overrides (LOTOSCOPE_* prefix) and sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SourceConfig holds draw-history input configuration.
type SourceConfig struct {
	FilePath string `mapstructure:"file_path"` // .csv or .json draw history
	// MergePredictions appends archived predictions to the history as
	// synthetic draws before computing statistics.
	MergePredictions bool `mapstructure:"merge_predictions"`
}

// StorageConfig holds local persistence configuration.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// PredictionConfig holds the text-generation request configuration.
type PredictionConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	Model          string        `mapstructure:"model"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
	// TopK is how many top-frequency numbers the prompt includes.
	TopK int `mapstructure:"top_k"`
}

// TelegramConfig holds Telegram digest configuration.
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("LOTOSCOPE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.file_path", "./data/draws.csv")
	v.SetDefault("source.merge_predictions", false)

	v.SetDefault("storage.db_path", "./data/lotoscope.db")

	v.SetDefault("prediction.enabled", false)
	v.SetDefault("prediction.api_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("prediction.model", "gemini-1.5-flash")
	v.SetDefault("prediction.timeout", "30s")
	v.SetDefault("prediction.max_retries", 3)
	v.SetDefault("prediction.retry_delay_base", "1s")
	v.SetDefault("prediction.top_k", 10)

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.Source.FilePath == "" {
		return fmt.Errorf("source.file_path is required")
	}

	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	if c.Prediction.Enabled {
		if c.Prediction.APIBaseURL == "" {
			return fmt.Errorf("prediction.api_base_url is required when prediction is enabled")
		}
		if c.Prediction.Model == "" {
			return fmt.Errorf("prediction.model is required when prediction is enabled")
		}
		if c.Prediction.APIKey == "" {
			return fmt.Errorf("prediction.api_key is required when prediction is enabled")
		}
		if c.Prediction.Timeout < time.Second {
			return fmt.Errorf("prediction.timeout must be at least 1 second")
		}
		if c.Prediction.TopK < 1 {
			return fmt.Errorf("prediction.top_k must be at least 1")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
