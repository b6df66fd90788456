package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type UserConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"` // bcrypt hash
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type UIConfig struct {
	ShowActivity bool `yaml:"showActivity"`
	ActivityMax  int  `yaml:"activityMax"`
}

type Config struct {
	Listen   string        `yaml:"listen"`
	Database string        `yaml:"database"` // path to the sqlite file
	Users    []UserConfig  `yaml:"users"`
	Logging  LoggingConfig `yaml:"logging"`
	UI       UIConfig      `yaml:"ui"`
}

func Default() *Config {
	return &Config{
		Database: "todos.db",
		Users:    []UserConfig{},
		Logging:  LoggingConfig{Level: "info"},
		UI:       UIConfig{ShowActivity: true, ActivityMax: 200},
	}
}

// Load lädt eine optionale YAML-Datei. Wenn pfad leer oder Datei fehlt, werden Defaults geliefert.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TODOWEB_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("TODOWEB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TODOWEB_UI_SHOW_ACTIVITY"); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "0", "false", "off", "no":
			cfg.UI.ShowActivity = false
		default:
			cfg.UI.ShowActivity = true
		}
	}
	if v := os.Getenv("TODOWEB_ACTIVITY_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.UI.ActivityMax = n
		}
	}
}

// AuthEnabled reports whether any login is configured.
func (c *Config) AuthEnabled() bool {
	for _, u := range c.Users {
		if u.Username != "" && u.PasswordHash != "" {
			return true
		}
	}
	return false
}
