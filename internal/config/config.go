// Package config handles configuration loading from environment variables and
// an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Records    RecordsConfig
	Calendar   CalendarConfig
	Google     GoogleConfig
	RateLimits RateLimitsConfig
	Logging    LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RecordsConfig holds settings for the managed event record store.
type RecordsConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	FeedLimit int
}

// CalendarConfig holds calendar artifact settings.
type CalendarConfig struct {
	// Timezone interprets naive dates and times in event records.
	Timezone string
	// DisplayTimezone is pinned on Google Calendar links (ctz parameter).
	DisplayTimezone string
	ProdID          string
	UIDDomain       string
	// DefaultDurationHours is applied to timed events without an end.
	DefaultDurationHours int
}

// GoogleConfig holds Google Calendar API publisher settings. The publisher is
// disabled unless client credentials and a token file are configured.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CalendarID   string
}

// Enabled reports whether the publisher is fully configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.TokenFile != ""
}

// RateLimitsConfig holds per-client rate limiting settings.
type RateLimitsConfig struct {
	RequestsPerMinute int
	Burst             int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration. Defaults are overridden by an optional YAML file
// (EOSCAL_CONFIG_FILE), which is in turn overridden by environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			BaseURL:      DefaultBaseURL,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Records: RecordsConfig{
			Timeout:   DefaultRecordsTimeout,
			FeedLimit: DefaultFeedLimit,
		},
		Calendar: CalendarConfig{
			Timezone:             DefaultTimezone,
			DisplayTimezone:      DefaultDisplayTimezone,
			ProdID:               DefaultProdID,
			UIDDomain:            DefaultUIDDomain,
			DefaultDurationHours: DefaultDurationHours,
		},
		Google: GoogleConfig{
			CalendarID: "primary",
		},
		RateLimits: RateLimitsConfig{
			RequestsPerMinute: DefaultRequestsPerMinute,
			Burst:             DefaultBurst,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}

	if path := GetConfigFilePath(); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetConfigFilePath returns the configured YAML file path, or the default
// path when the default file exists.
func GetConfigFilePath() string {
	if path := os.Getenv("EOSCAL_CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("BASE_URL", cfg.Server.BaseURL)
	cfg.Server.ReadTimeout = getEnvDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Records.BaseURL = getEnv("RECORDS_BASE_URL", cfg.Records.BaseURL)
	cfg.Records.APIKey = getEnv("RECORDS_API_KEY", cfg.Records.APIKey)
	cfg.Records.Timeout = getEnvDuration("RECORDS_TIMEOUT", cfg.Records.Timeout)
	cfg.Records.FeedLimit = getEnvInt("RECORDS_FEED_LIMIT", cfg.Records.FeedLimit)

	cfg.Calendar.Timezone = getEnv("CALENDAR_TIMEZONE", cfg.Calendar.Timezone)
	cfg.Calendar.DisplayTimezone = getEnv("CALENDAR_DISPLAY_TIMEZONE", cfg.Calendar.DisplayTimezone)
	cfg.Calendar.ProdID = getEnv("CALENDAR_PROD_ID", cfg.Calendar.ProdID)
	cfg.Calendar.UIDDomain = getEnv("CALENDAR_UID_DOMAIN", cfg.Calendar.UIDDomain)
	cfg.Calendar.DefaultDurationHours = getEnvInt("CALENDAR_DEFAULT_DURATION_HOURS", cfg.Calendar.DefaultDurationHours)

	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", cfg.Google.ClientID)
	cfg.Google.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.Google.ClientSecret)
	cfg.Google.TokenFile = getEnv("GOOGLE_TOKEN_FILE", cfg.Google.TokenFile)
	cfg.Google.CalendarID = getEnv("GOOGLE_CALENDAR_ID", cfg.Google.CalendarID)

	cfg.RateLimits.RequestsPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimits.RequestsPerMinute)
	cfg.RateLimits.Burst = getEnvInt("RATE_LIMIT_BURST", cfg.RateLimits.Burst)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Records.BaseURL == "" {
		return fmt.Errorf("RECORDS_BASE_URL environment variable is required")
	}
	if !strings.HasPrefix(c.Records.BaseURL, "http://") && !strings.HasPrefix(c.Records.BaseURL, "https://") {
		return fmt.Errorf("invalid records base URL: %s", c.Records.BaseURL)
	}
	if c.Records.FeedLimit < 1 {
		return fmt.Errorf("invalid feed limit: %d", c.Records.FeedLimit)
	}
	if c.Calendar.DefaultDurationHours < 1 {
		return fmt.Errorf("invalid default duration: %d hours", c.Calendar.DefaultDurationHours)
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Bare integers in container env files are taken as seconds.
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
