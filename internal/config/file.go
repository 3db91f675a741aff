package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileDuration time.Duration

func (d *fileDuration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!int" {
			var seconds int64
			if err := value.Decode(&seconds); err != nil {
				return err
			}
			*d = fileDuration(time.Duration(seconds) * time.Second)
			return nil
		}
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = fileDuration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration type")
	}
}

// ConfigFile mirrors Config with pointer fields so that absent YAML keys
// leave defaults untouched.
type ConfigFile struct {
	Server     *ServerConfigFile     `yaml:"server"`
	Records    *RecordsConfigFile    `yaml:"records"`
	Calendar   *CalendarConfigFile   `yaml:"calendar"`
	Google     *GoogleConfigFile     `yaml:"google"`
	RateLimits *RateLimitsConfigFile `yaml:"rate_limits"`
	Logging    *LoggingConfigFile    `yaml:"logging"`
}

type ServerConfigFile struct {
	Host         *string       `yaml:"host"`
	Port         *int          `yaml:"port"`
	BaseURL      *string       `yaml:"base_url"`
	ReadTimeout  *fileDuration `yaml:"read_timeout"`
	WriteTimeout *fileDuration `yaml:"write_timeout"`
}

type RecordsConfigFile struct {
	BaseURL   *string       `yaml:"base_url"`
	APIKey    *string       `yaml:"api_key"`
	Timeout   *fileDuration `yaml:"timeout"`
	FeedLimit *int          `yaml:"feed_limit"`
}

type CalendarConfigFile struct {
	Timezone             *string `yaml:"timezone"`
	DisplayTimezone      *string `yaml:"display_timezone"`
	ProdID               *string `yaml:"prod_id"`
	UIDDomain            *string `yaml:"uid_domain"`
	DefaultDurationHours *int    `yaml:"default_duration_hours"`
}

type GoogleConfigFile struct {
	ClientID     *string `yaml:"client_id"`
	ClientSecret *string `yaml:"client_secret"`
	TokenFile    *string `yaml:"token_file"`
	CalendarID   *string `yaml:"calendar_id"`
}

type RateLimitsConfigFile struct {
	RequestsPerMinute *int `yaml:"requests_per_minute"`
	Burst             *int `yaml:"burst"`
}

type LoggingConfigFile struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

// applyFile overlays values from the YAML file at path onto cfg. A missing
// file is not an error so the default path can be probed unconditionally.
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	var file ConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}

	applyConfigFile(cfg, &file)
	return nil
}

func applyConfigFile(cfg *Config, file *ConfigFile) {
	if file.Server != nil {
		if file.Server.Host != nil {
			cfg.Server.Host = *file.Server.Host
		}
		if file.Server.Port != nil {
			cfg.Server.Port = *file.Server.Port
		}
		if file.Server.BaseURL != nil {
			cfg.Server.BaseURL = *file.Server.BaseURL
		}
		if file.Server.ReadTimeout != nil {
			cfg.Server.ReadTimeout = time.Duration(*file.Server.ReadTimeout)
		}
		if file.Server.WriteTimeout != nil {
			cfg.Server.WriteTimeout = time.Duration(*file.Server.WriteTimeout)
		}
	}

	if file.Records != nil {
		if file.Records.BaseURL != nil {
			cfg.Records.BaseURL = *file.Records.BaseURL
		}
		if file.Records.APIKey != nil {
			cfg.Records.APIKey = *file.Records.APIKey
		}
		if file.Records.Timeout != nil {
			cfg.Records.Timeout = time.Duration(*file.Records.Timeout)
		}
		if file.Records.FeedLimit != nil {
			cfg.Records.FeedLimit = *file.Records.FeedLimit
		}
	}

	if file.Calendar != nil {
		if file.Calendar.Timezone != nil {
			cfg.Calendar.Timezone = *file.Calendar.Timezone
		}
		if file.Calendar.DisplayTimezone != nil {
			cfg.Calendar.DisplayTimezone = *file.Calendar.DisplayTimezone
		}
		if file.Calendar.ProdID != nil {
			cfg.Calendar.ProdID = *file.Calendar.ProdID
		}
		if file.Calendar.UIDDomain != nil {
			cfg.Calendar.UIDDomain = *file.Calendar.UIDDomain
		}
		if file.Calendar.DefaultDurationHours != nil {
			cfg.Calendar.DefaultDurationHours = *file.Calendar.DefaultDurationHours
		}
	}

	if file.Google != nil {
		if file.Google.ClientID != nil {
			cfg.Google.ClientID = *file.Google.ClientID
		}
		if file.Google.ClientSecret != nil {
			cfg.Google.ClientSecret = *file.Google.ClientSecret
		}
		if file.Google.TokenFile != nil {
			cfg.Google.TokenFile = *file.Google.TokenFile
		}
		if file.Google.CalendarID != nil {
			cfg.Google.CalendarID = *file.Google.CalendarID
		}
	}

	if file.RateLimits != nil {
		if file.RateLimits.RequestsPerMinute != nil {
			cfg.RateLimits.RequestsPerMinute = *file.RateLimits.RequestsPerMinute
		}
		if file.RateLimits.Burst != nil {
			cfg.RateLimits.Burst = *file.RateLimits.Burst
		}
	}

	if file.Logging != nil {
		if file.Logging.Level != nil {
			cfg.Logging.Level = *file.Logging.Level
		}
		if file.Logging.Format != nil {
			cfg.Logging.Format = *file.Logging.Format
		}
	}
}
