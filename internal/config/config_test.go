package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCreatesTemplateWhenMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error on first run")
	}
	if !strings.Contains(err.Error(), "created template") {
		t.Errorf("error = %v, want template creation notice", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("template not written: %v", err)
	}

	// The written template is itself loadable.
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Server.Addr != ":8090" {
		t.Errorf("Addr = %s", cfg.Server.Addr)
	}
	if cfg.Database.Path != filepath.Join(dir, "fxtracker.db") {
		t.Errorf("Database.Path = %s, want config-dir default", cfg.Database.Path)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[server]\naddr = \":9000\"\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Addr = %s, want override", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 15 || cfg.Server.WriteTimeout != 15 {
		t.Errorf("timeouts = %d/%d, want defaults 15/15", cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}
	if cfg.Database.Path != filepath.Join(dir, "fxtracker.db") {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %s", cfg.Logging.Level)
	}
	if !cfg.UI.ColorEnabled {
		t.Error("ColorEnabled default lost")
	}
}

func TestLoadEmptyPathsUseConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[database]\npath = \"\"\n\n[logging]\nfile_path = \"\"\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("empty path keys rejected: %v", err)
	}
	if cfg.Database.Path != filepath.Join(dir, "fxtracker.db") {
		t.Errorf("Database.Path = %s, want config-dir default", cfg.Database.Path)
	}
	if cfg.Logging.FilePath != filepath.Join(dir, "logs", "fxtracker.log") {
		t.Errorf("Logging.FilePath = %s, want config-dir default", cfg.Logging.FilePath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[server]\naddr = \":9000\"\n")

	t.Setenv("FXTRACKER_ADDR", ":7777")
	t.Setenv("FXTRACKER_DB", "/tmp/override.db")
	t.Setenv("FXTRACKER_LOG_LEVEL", "debug")
	t.Setenv("FXTRACKER_WEBHOOK_URL", "https://example.com/hook")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7777" {
		t.Errorf("Addr = %s, want env override", cfg.Server.Addr)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("Database.Path = %s", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s", cfg.Logging.Level)
	}
	if !cfg.Notifications.Webhook.Enabled || cfg.Notifications.Webhook.URL != "https://example.com/hook" {
		t.Errorf("webhook = %+v", cfg.Notifications.Webhook)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Addr: ":8090"},
			Database: DatabaseConfig{Path: "/tmp/db"},
			Risk: RiskConfig{
				MinRiskReward: 3,
				MaxDailyRisk:  0.01,
				MaxTradeRisk:  0.005,
				MinTradeRisk:  0.001,
				KellyFraction: 0.25,
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	// A zero max_trade_risk defers to the engine default, so a min at or
	// under that default passes and one above it fails.
	deferred := valid()
	deferred.Risk.MaxTradeRisk = 0
	deferred.Risk.MinTradeRisk = 0.001
	if err := deferred.Validate(); err != nil {
		t.Errorf("min under the default ceiling rejected: %v", err)
	}
	deferred.Risk.MinTradeRisk = 0.01
	if err := deferred.Validate(); err == nil {
		t.Error("min over the default ceiling accepted")
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"empty db path", func(c *Config) { c.Database.Path = "" }},
		{"negative risk reward", func(c *Config) { c.Risk.MinRiskReward = -1 }},
		{"daily risk over one", func(c *Config) { c.Risk.MaxDailyRisk = 1.5 }},
		{"min over max trade risk", func(c *Config) { c.Risk.MinTradeRisk = 0.01 }},
		{"kelly over one", func(c *Config) { c.Risk.KellyFraction = 2 }},
		{"bad notification level", func(c *Config) { c.Notifications.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}
