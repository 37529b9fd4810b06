package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings are the environment-driven defaults for the CLI, TUI and web server.
// Flags override them.
type Settings struct {
	Dir       string `env:"TALLY_DIR"`
	Workspace string `env:"TALLY_WORKSPACE"`
	List      string `env:"TALLY_LIST"`
	Backend   string `env:"TALLY_BACKEND" envDefault:"sqlite"`
	Format    string `env:"TALLY_FORMAT" envDefault:"json"`

	ConfigDir string `env:"TALLY_CONFIG_DIR"`

	LogLevel string `env:"TALLY_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"TALLY_LOG_FILE"`

	WebAddr    string `env:"TALLY_WEB_ADDR" envDefault:"127.0.0.1:3333"`
	WebTUIAddr string `env:"TALLY_WEBTUI_ADDR" envDefault:"127.0.0.1:3334"`

	// TUITheme forces light|dark background detection; empty or "auto" probes the terminal.
	TUITheme string `env:"TALLY_TUI_THEME"`
}

// Load parses Settings from the process environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// LoadOrDefault is Load without the error: a malformed variable falls back to defaults.
func LoadOrDefault() Settings {
	s, err := Load()
	if err != nil {
		var d Settings
		_ = env.ParseWithOptions(&d, env.Options{Environment: map[string]string{}})
		return d
	}
	return s
}
