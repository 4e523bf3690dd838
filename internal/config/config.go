// Package config loads application settings from a yaml file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Auction struct {
		AntiSnipeWindowSec int `yaml:"anti_snipe_window_sec"`
		AntiSnipeExtendSec int `yaml:"anti_snipe_extend_sec"`
		TickIntervalMS     int `yaml:"tick_interval_ms"`
	} `yaml:"auction"`

	Queue struct {
		Workers     int     `yaml:"workers"`
		Capacity    int     `yaml:"capacity"`
		RatePerSec  float64 `yaml:"rate_per_sec"`
		Burst       int     `yaml:"burst"`
		MaxAttempts int     `yaml:"max_attempts"`
	} `yaml:"queue"`

	WS struct {
		HeartbeatSec int `yaml:"heartbeat_sec"`
	} `yaml:"ws"`

	Storage struct {
		EventDBPath string `yaml:"event_db_path"`
	} `yaml:"storage"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Auction.AntiSnipeWindowSec = 30
	cfg.Auction.AntiSnipeExtendSec = 30
	cfg.Auction.TickIntervalMS = 1000
	cfg.Queue.Workers = 10
	cfg.Queue.Capacity = 1024
	cfg.Queue.RatePerSec = 100
	cfg.Queue.Burst = 10
	cfg.Queue.MaxAttempts = 3
	cfg.WS.HeartbeatSec = 30
	cfg.Storage.EventDBPath = "events.db"
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads the yaml config at path, falling back to defaults when path
// is empty or missing, then applies env overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ANTI_SNIPE_WINDOW_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auction.AntiSnipeWindowSec = n
		}
	}
	if v := os.Getenv("ANTI_SNIPE_EXTEND_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Auction.AntiSnipeExtendSec = n
		}
	}
	if v := os.Getenv("EVENT_DB_PATH"); v != "" {
		cfg.Storage.EventDBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Auction.AntiSnipeWindowSec < 0 || c.Auction.AntiSnipeExtendSec < 0 {
		return fmt.Errorf("anti-snipe window and extend cannot be negative")
	}
	if c.Auction.TickIntervalMS <= 0 {
		return fmt.Errorf("auction.tick_interval_ms must be positive")
	}
	if c.Queue.Workers <= 0 {
		return fmt.Errorf("queue.workers must be positive")
	}
	if c.Queue.Capacity <= 0 {
		return fmt.Errorf("queue.capacity must be positive")
	}
	if c.Queue.RatePerSec <= 0 {
		return fmt.Errorf("queue.rate_per_sec must be positive")
	}
	if c.Queue.MaxAttempts <= 0 {
		return fmt.Errorf("queue.max_attempts must be positive")
	}
	if c.WS.HeartbeatSec <= 0 {
		return fmt.Errorf("ws.heartbeat_sec must be positive")
	}
	return nil
}
