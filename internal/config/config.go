// Package config provides configuration management for the tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig       `mapstructure:"server"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Risk          RiskConfig         `mapstructure:"risk"`
	UI            UIConfig           `mapstructure:"ui"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Addr         string `mapstructure:"addr"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
}

// DatabaseConfig holds the SQLite database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RiskConfig holds risk policy overrides. Zero values fall back to the
// engine defaults.
type RiskConfig struct {
	MinRiskReward    float64 `mapstructure:"min_risk_reward"`
	MaxDailyRisk     float64 `mapstructure:"max_daily_risk"`
	MaxTradeRisk     float64 `mapstructure:"max_trade_risk"`
	MinTradeRisk     float64 `mapstructure:"min_trade_risk"`
	KellyFraction    float64 `mapstructure:"kelly_fraction"`
	DefaultStopPips  float64 `mapstructure:"default_stop_pips"`
	FallbackPipValue float64 `mapstructure:"fallback_pip_value"`
}

// UIConfig holds CLI output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
	TimeFormat   string `mapstructure:"time_format"`
}

// NotificationConfig holds notification configuration.
type NotificationConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Level   string        `mapstructure:"level"` // all, trades_only, errors_only
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig holds webhook notification configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// defaultMaxTradeRisk mirrors the engine's built-in per-trade ceiling.
// A zero max_trade_risk in the file defers to that default, so the
// min/max ordering check compares against it too.
const defaultMaxTradeRisk = 0.005

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/fxtracker"
	}
	return filepath.Join(home, ".config", "fxtracker")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// The template ships path keys set to "". An empty path means "use
	// the config directory", the same as omitting the key entirely.
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(configDir, "fxtracker.db")
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(configDir, "logs", "fxtracker.log")
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("server.addr", ":8090")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)
	v.SetDefault("database.path", filepath.Join(configDir, "fxtracker.db"))
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")
	v.SetDefault("ui.time_format", "15:04:05")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "fxtracker.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FXTRACKER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FXTRACKER_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FXTRACKER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("FXTRACKER_WEBHOOK_URL"); v != "" {
		cfg.Notifications.Webhook.URL = v
		cfg.Notifications.Webhook.Enabled = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.Risk.MinRiskReward < 0 {
		return fmt.Errorf("min_risk_reward must be non-negative")
	}
	if c.Risk.MaxDailyRisk < 0 || c.Risk.MaxDailyRisk > 1 {
		return fmt.Errorf("max_daily_risk must be between 0 and 1")
	}
	if c.Risk.MaxTradeRisk < 0 || c.Risk.MaxTradeRisk > 1 {
		return fmt.Errorf("max_trade_risk must be between 0 and 1")
	}
	maxTrade := c.Risk.MaxTradeRisk
	if maxTrade == 0 {
		maxTrade = defaultMaxTradeRisk
	}
	if c.Risk.MinTradeRisk > maxTrade {
		return fmt.Errorf("min_trade_risk must not exceed max_trade_risk")
	}
	if c.Risk.KellyFraction < 0 || c.Risk.KellyFraction > 1 {
		return fmt.Errorf("kelly_fraction must be between 0 and 1")
	}
	switch c.Notifications.Level {
	case "", "all", "trades_only", "errors_only":
	default:
		return fmt.Errorf("invalid notification level: %s", c.Notifications.Level)
	}
	return nil
}
