package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestConfig points TMC_CONFIG_DIR at a temp dir holding cfg.
func writeTestConfig(t *testing.T, cfg *Config) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMC_CONFIG_DIR", dir)
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), data, 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TMC_API_URL", "TMC_API_TIMEOUT", "TMC_STORE", "TMC_LOG_LEVEL", "TMC_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TMC_CONFIG_DIR", t.TempDir())

	if got := APIURL(); got != DefaultAPIURL {
		t.Errorf("APIURL() = %q, want %q", got, DefaultAPIURL)
	}
	if got := APITimeout(); got != DefaultAPITimeout {
		t.Errorf("APITimeout() = %v, want %v", got, DefaultAPITimeout)
	}
	if got := StoreBackend(); got != "file" {
		t.Errorf("StoreBackend() = %q, want file", got)
	}
	if got := LogLevel(); got != slog.LevelWarn {
		t.Errorf("LogLevel() = %v, want warn", got)
	}
	if got := LogFormat(); got != "text" {
		t.Errorf("LogFormat() = %q, want text", got)
	}
}

func TestConfigFileValues(t *testing.T) {
	clearEnv(t)
	writeTestConfig(t, &Config{
		API:   APIConfig{URL: "https://tasks.example.com/", Timeout: "5s"},
		Store: StoreConfig{Backend: "SQLite"},
		Log:   LogConfig{Level: "debug", Format: "json"},
	})

	if got := APIURL(); got != "https://tasks.example.com" {
		t.Errorf("APIURL() = %q", got)
	}
	if got := APITimeout(); got != 5*time.Second {
		t.Errorf("APITimeout() = %v", got)
	}
	if got := StoreBackend(); got != "sqlite" {
		t.Errorf("StoreBackend() = %q", got)
	}
	if got := LogLevel(); got != slog.LevelDebug {
		t.Errorf("LogLevel() = %v", got)
	}
	if got := LogFormat(); got != "json" {
		t.Errorf("LogFormat() = %q", got)
	}
}

func TestEnvOverridesConfig(t *testing.T) {
	clearEnv(t)
	writeTestConfig(t, &Config{API: APIConfig{URL: "https://from-file.example.com", Timeout: "5s"}})
	t.Setenv("TMC_API_URL", "http://127.0.0.1:9999/")
	t.Setenv("TMC_API_TIMEOUT", "250ms")

	if got := APIURL(); got != "http://127.0.0.1:9999" {
		t.Errorf("APIURL() = %q, want env value", got)
	}
	if got := APITimeout(); got != 250*time.Millisecond {
		t.Errorf("APITimeout() = %v, want 250ms", got)
	}
}

func TestInvalidTimeoutFallsThrough(t *testing.T) {
	clearEnv(t)
	writeTestConfig(t, &Config{API: APIConfig{Timeout: "10s"}})
	t.Setenv("TMC_API_TIMEOUT", "soon")

	if got := APITimeout(); got != 10*time.Second {
		t.Errorf("APITimeout() = %v, want config value 10s", got)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("TMC_CONFIG_DIR", t.TempDir())
	cfg := &Config{}
	if err := Set(cfg, "api.url", "https://tasks.example.com/"); err != nil {
		t.Fatal(err)
	}
	if err := Set(cfg, "store.backend", "sqlite"); err != nil {
		t.Fatal(err)
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := Get(loaded, "api.url"); v != "https://tasks.example.com" {
		t.Errorf("api.url = %q", v)
	}
	if v, _ := Get(loaded, "store.backend"); v != "sqlite" {
		t.Errorf("store.backend = %q", v)
	}
}

func TestSetRejectsInvalidValues(t *testing.T) {
	cfg := &Config{}
	bad := map[string]string{
		"api.url":       "localhost:8000",
		"api.timeout":   "-1s",
		"store.backend": "redis",
		"log.level":     "verbose",
		"log.format":    "xml",
		"nope":          "x",
	}
	for key, val := range bad {
		if err := Set(cfg, key, val); err == nil {
			t.Errorf("Set(%q, %q) succeeded, want error", key, val)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelWarn,
		"loud":  slog.LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
