package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# FX Tracker Configuration

[server]
# HTTP listen address
addr = ":8090"
# Read/write timeouts in seconds
read_timeout = 15
write_timeout = 15

[database]
# SQLite database file path (defaults to the config directory)
path = ""

[risk]
# Risk policy overrides. Zero values use the built-in defaults.
# Minimum risk-reward ratio
min_risk_reward = 3.0
# Maximum fraction of balance risked per day
max_daily_risk = 0.01
# Maximum fraction of balance risked per trade
max_trade_risk = 0.005
# Minimum fraction of balance risked per trade
min_trade_risk = 0.001
# Fraction of the Kelly criterion to apply
kelly_fraction = 0.25
# Default stop-loss distance in pips
default_stop_pips = 30.0
# Pip value used for unknown pairs
fallback_pip_value = 10.0

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[notifications]
# Enable notifications
enabled = false
# Notification level: all, trades_only, errors_only
level = "all"

[notifications.webhook]
enabled = false
url = ""

[logging]
level = "info"
console = true
file = true
# Log file path (defaults to the config directory)
file_path = ""
max_size = 100
max_backups = 7
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
