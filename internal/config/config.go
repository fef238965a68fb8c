package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "planboard"
	configFile = "config.yaml"
)

// Config is the client configuration, loaded from
// $XDG_CONFIG_HOME/planboard/config.yaml with env overrides.
type Config struct {
	// APIBaseURL is the REST backend, e.g. http://localhost:8000.
	APIBaseURL string `yaml:"api_base_url"`
	// InitData is the Telegram WebApp init data string used once to
	// exchange for a bearer token. Outside the host environment it can
	// be supplied here or via PLANBOARD_INIT_DATA.
	InitData string `yaml:"init_data,omitempty"`
	// DevToken is a developer token override; it is used as-is and
	// never persisted to the token store.
	DevToken string `yaml:"dev_token,omitempty"`
	// LogLevel is a zap level string (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
	// HourRows is the number of terminal rows per hour in the day grid.
	HourRows int `yaml:"hour_rows,omitempty"`
	// AssistantModel and AssistantToken back the settings page's
	// assistant section; the client only stores them.
	AssistantModel string `yaml:"assistant_model,omitempty"`
	AssistantToken string `yaml:"assistant_token,omitempty"`
}

func defaults() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8000",
		LogLevel:       "info",
		HourRows:       4,
		AssistantModel: "gpt-5",
	}
}

// Path returns the config file location.
func Path() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appName, configFile), nil
}

// Load reads the config file, falling back to defaults when it does
// not exist, then applies environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("PLANBOARD_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("PLANBOARD_INIT_DATA"); v != "" {
		cfg.InitData = v
	}
	if v := os.Getenv("PLANBOARD_DEV_TOKEN"); v != "" {
		cfg.DevToken = v
	}
	if cfg.HourRows <= 0 {
		cfg.HourRows = 4
	}
	return cfg, nil
}

// Save writes the config back, creating the directory when needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
