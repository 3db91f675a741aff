package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EOSCAL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECORDS_BASE_URL", "https://records.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Fatalf("expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Calendar.Timezone != DefaultTimezone {
		t.Fatalf("expected default timezone %s, got %s", DefaultTimezone, cfg.Calendar.Timezone)
	}
	if cfg.Calendar.DefaultDurationHours != DefaultDurationHours {
		t.Fatalf("expected default duration %d, got %d", DefaultDurationHours, cfg.Calendar.DefaultDurationHours)
	}
	if cfg.Records.FeedLimit != DefaultFeedLimit {
		t.Fatalf("expected default feed limit %d, got %d", DefaultFeedLimit, cfg.Records.FeedLimit)
	}
	if cfg.Google.Enabled() {
		t.Fatal("expected google publisher disabled without credentials")
	}
}

func TestLoadConfigFileWithEnvOverrides(t *testing.T) {
	cfgPath := writeConfigFile(t, `
server:
  base_url: "http://file.example.com"
  port: 9090
  read_timeout: 90
  write_timeout: "1m30s"
records:
  base_url: "https://file-records.example.com"
  api_key: "file-key"
  feed_limit: 50
calendar:
  timezone: "Europe/Paris"
  uid_domain: "example.org"
google:
  client_id: "cid"
  client_secret: "csecret"
  token_file: "/tmp/token.json"
logging:
  level: "debug"
`)

	t.Setenv("EOSCAL_CONFIG_FILE", cfgPath)
	t.Setenv("PORT", "8081")
	t.Setenv("BASE_URL", "http://env.example.com")
	t.Setenv("RECORDS_BASE_URL", "https://env-records.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8081 {
		t.Fatalf("expected env override port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "http://env.example.com" {
		t.Fatalf("expected env override base_url, got %s", cfg.Server.BaseURL)
	}
	if cfg.Records.BaseURL != "https://env-records.example.com" {
		t.Fatalf("expected env override records base_url, got %s", cfg.Records.BaseURL)
	}
	if cfg.Server.ReadTimeout != 90*time.Second {
		t.Fatalf("expected read timeout 90s from yaml int, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 90*time.Second {
		t.Fatalf("expected write timeout 90s from duration string, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.Records.APIKey != "file-key" {
		t.Fatalf("expected file api key, got %s", cfg.Records.APIKey)
	}
	if cfg.Records.FeedLimit != 50 {
		t.Fatalf("expected feed limit 50, got %d", cfg.Records.FeedLimit)
	}
	if cfg.Calendar.Timezone != "Europe/Paris" {
		t.Fatalf("expected timezone Europe/Paris, got %s", cfg.Calendar.Timezone)
	}
	if cfg.Calendar.UIDDomain != "example.org" {
		t.Fatalf("expected uid domain example.org, got %s", cfg.Calendar.UIDDomain)
	}
	if cfg.Calendar.DisplayTimezone != DefaultDisplayTimezone {
		t.Fatalf("expected default display timezone, got %s", cfg.Calendar.DisplayTimezone)
	}
	if !cfg.Google.Enabled() {
		t.Fatal("expected google publisher enabled with full credentials")
	}
	if cfg.Google.CalendarID != "primary" {
		t.Fatalf("expected default calendar id primary, got %s", cfg.Google.CalendarID)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoadEnvDurations(t *testing.T) {
	t.Setenv("EOSCAL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RECORDS_BASE_URL", "https://records.example.com")
	t.Setenv("READ_TIMEOUT", "45s")
	t.Setenv("RECORDS_TIMEOUT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Fatalf("expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Records.Timeout != 7*time.Second {
		t.Fatalf("expected records timeout 7s from bare seconds, got %v", cfg.Records.Timeout)
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	cfgPath := writeConfigFile(t, "server: [not a mapping")
	t.Setenv("EOSCAL_CONFIG_FILE", cfgPath)
	t.Setenv("RECORDS_BASE_URL", "https://records.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Records:  RecordsConfig{BaseURL: "https://records.example.com", FeedLimit: 10},
			Calendar: CalendarConfig{DefaultDurationHours: 2},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid port"},
		{"missing records url", func(c *Config) { c.Records.BaseURL = "" }, "RECORDS_BASE_URL"},
		{"bad records url scheme", func(c *Config) { c.Records.BaseURL = "records.example.com" }, "invalid records base URL"},
		{"bad feed limit", func(c *Config) { c.Records.FeedLimit = 0 }, "invalid feed limit"},
		{"bad default duration", func(c *Config) { c.Calendar.DefaultDurationHours = 0 }, "invalid default duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("unexpected error %q, want substring %q", err, tt.wantMsg)
			}
		})
	}
}
