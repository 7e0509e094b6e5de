package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Keys lists the settable config keys in display order.
var Keys = []string{
	"api.url",
	"api.timeout",
	"store.backend",
	"log.level",
	"log.format",
}

// IsValidKey reports whether key is settable
func IsValidKey(key string) bool {
	return slices.Contains(Keys, key)
}

// Get returns the raw value stored for key in cfg ("" when unset).
func Get(cfg *Config, key string) (string, error) {
	switch key {
	case "api.url":
		return cfg.API.URL, nil
	case "api.timeout":
		return cfg.API.Timeout, nil
	case "store.backend":
		return cfg.Store.Backend, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set validates val and stores it under key in cfg.
func Set(cfg *Config, key, val string) error {
	val = strings.TrimSpace(val)
	switch key {
	case "api.url":
		if !strings.HasPrefix(val, "http://") && !strings.HasPrefix(val, "https://") {
			return fmt.Errorf("api.url must start with http:// or https://")
		}
		cfg.API.URL = strings.TrimRight(val, "/")
	case "api.timeout":
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q", val)
		}
		cfg.API.Timeout = val
	case "store.backend":
		switch strings.ToLower(val) {
		case "file", "sqlite", "memory":
			cfg.Store.Backend = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid backend %q (use file, sqlite, or memory)", val)
		}
	case "log.level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log level %q (use debug, info, warn, or error)", val)
		}
	case "log.format":
		switch strings.ToLower(val) {
		case "text", "json":
			cfg.Log.Format = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log format %q (use text or json)", val)
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
