// Package config loads the server settings from an optional JSON file.
package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "time"

    "github.com/jaminalder/codex-three-mens-morris/internal/app"
    "github.com/jaminalder/codex-three-mens-morris/internal/search"
    "github.com/rs/zerolog"
)

type Config struct {
    Addr              string `json:"addr"`
    ScoreFile         string `json:"score_file"`
    LogLevel          string `json:"log_level"`
    PrettyLog         bool   `json:"pretty_log"`
    DefaultMode       string `json:"default_mode"`
    DefaultDifficulty string `json:"default_difficulty"`
    HeartbeatSeconds  int    `json:"heartbeat_seconds"`
}

func Default() Config {
    return Config{
        Addr:              ":8080",
        ScoreFile:         "score.txt",
        LogLevel:          "info",
        PrettyLog:         true,
        DefaultMode:       "machine",
        DefaultDifficulty: "medium",
        HeartbeatSeconds:  15,
    }
}

// Load reads path over the defaults. An empty path or a missing file gives
// the defaults.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        return cfg, nil
    }
    b, err := os.ReadFile(path)
    if errors.Is(err, os.ErrNotExist) {
        return cfg, nil
    }
    if err != nil {
        return cfg, fmt.Errorf("read config: %w", err)
    }
    if err := json.Unmarshal(b, &cfg); err != nil {
        return cfg, fmt.Errorf("parse config %s: %w", path, err)
    }
    return cfg, cfg.Validate()
}

func (c Config) Validate() error {
    if c.Addr == "" {
        return errors.New("config: addr is empty")
    }
    if c.ScoreFile == "" {
        return errors.New("config: score_file is empty")
    }
    if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    if _, err := app.ParseMode(c.DefaultMode); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    if _, err := search.ParseDifficulty(c.DefaultDifficulty); err != nil {
        return fmt.Errorf("config: %w", err)
    }
    if c.HeartbeatSeconds <= 0 {
        return fmt.Errorf("config: heartbeat_seconds must be positive, got %d", c.HeartbeatSeconds)
    }
    return nil
}

// Level is the parsed log level. Validate first.
func (c Config) Level() zerolog.Level {
    lvl, err := zerolog.ParseLevel(c.LogLevel)
    if err != nil {
        return zerolog.InfoLevel
    }
    return lvl
}

func (c Config) Heartbeat() time.Duration { return time.Duration(c.HeartbeatSeconds) * time.Second }

// Mode and Difficulty are the defaults offered on the start page.
func (c Config) Mode() app.Mode {
    m, _ := app.ParseMode(c.DefaultMode)
    return m
}

func (c Config) Difficulty() search.Difficulty {
    d, _ := search.ParseDifficulty(c.DefaultDifficulty)
    return d
}
