// Package config loads tmc settings from ~/.config/tmc/config.json.
// Every getter resolves env > config.json > default.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// APIConfig holds the remote API settings.
type APIConfig struct {
	URL     string `json:"url,omitempty"`
	Timeout string `json:"timeout,omitempty"` // duration string, default "30s"
}

// StoreConfig selects where the session token is persisted.
type StoreConfig struct {
	Backend string `json:"backend,omitempty"` // file (default), sqlite, memory
}

// LogConfig controls slog output on stderr.
type LogConfig struct {
	Level  string `json:"level,omitempty"`  // debug, info, warn (default), error
	Format string `json:"format,omitempty"` // text (default) or json
}

// Config is the global tmc config.
type Config struct {
	API   APIConfig   `json:"api"`
	Store StoreConfig `json:"store"`
	Log   LogConfig   `json:"log"`
}

const (
	configFile = "config.json"

	DefaultAPIURL     = "http://localhost:8000"
	DefaultAPITimeout = 30 * time.Second
	DefaultBackend    = "file"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Dir returns the config directory, creating it if necessary.
// TMC_CONFIG_DIR overrides ~/.config/tmc.
func Dir() (string, error) {
	dir := os.Getenv("TMC_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".config", "tmc")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// Load reads config.json. A missing file yields an empty Config.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes config.json atomically (temp file + rename).
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, filepath.Join(dir, configFile))
}

// loadOrEmpty never fails; getters fall back to defaults on read errors.
func loadOrEmpty() *Config {
	cfg, err := Load()
	if err != nil {
		slog.Debug("config: load", "err", err)
		return &Config{}
	}
	return cfg
}

// APIURL returns the API base URL without a trailing slash.
// Priority: TMC_API_URL env > config.json api.url > default.
func APIURL() string {
	if v := os.Getenv("TMC_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	if cfg := loadOrEmpty(); cfg.API.URL != "" {
		return strings.TrimRight(cfg.API.URL, "/")
	}
	return DefaultAPIURL
}

// APITimeout returns the per-request HTTP timeout.
// Priority: TMC_API_TIMEOUT env > config.json api.timeout > 30s
func APITimeout() time.Duration {
	if v := os.Getenv("TMC_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	if cfg := loadOrEmpty(); cfg.API.Timeout != "" {
		if d, err := time.ParseDuration(cfg.API.Timeout); err == nil && d > 0 {
			return d
		}
	}
	return DefaultAPITimeout
}

// StoreBackend returns the token store backend name.
// Priority: TMC_STORE env > config.json store.backend > file
func StoreBackend() string {
	if v := os.Getenv("TMC_STORE"); v != "" {
		return strings.ToLower(v)
	}
	if cfg := loadOrEmpty(); cfg.Store.Backend != "" {
		return strings.ToLower(cfg.Store.Backend)
	}
	return DefaultBackend
}

// LogLevel returns the configured slog level.
// Priority: TMC_LOG_LEVEL env > config.json log.level > warn
func LogLevel() slog.Level {
	if v := os.Getenv("TMC_LOG_LEVEL"); v != "" {
		return ParseLogLevel(v)
	}
	if cfg := loadOrEmpty(); cfg.Log.Level != "" {
		return ParseLogLevel(cfg.Log.Level)
	}
	return ParseLogLevel(DefaultLogLevel)
}

// LogFormat returns "text" or "json".
// Priority: TMC_LOG_FORMAT env > config.json log.format > text
func LogFormat() string {
	if v := os.Getenv("TMC_LOG_FORMAT"); v != "" {
		return normalizeFormat(v)
	}
	if cfg := loadOrEmpty(); cfg.Log.Format != "" {
		return normalizeFormat(cfg.Log.Format)
	}
	return DefaultLogFormat
}

// ParseLogLevel maps a level name to slog.Level; unknown names map to warn.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func normalizeFormat(s string) string {
	if strings.ToLower(strings.TrimSpace(s)) == "json" {
		return "json"
	}
	return "text"
}
