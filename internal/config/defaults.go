// Package config provides default values for configuration.
package config

import "time"

// Server defaults
const (
	DefaultHost         = "0.0.0.0"
	DefaultPort         = 8080
	DefaultBaseURL      = "http://localhost:8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
)

// Record store defaults
const (
	DefaultRecordsTimeout = 10 * time.Second
	DefaultFeedLimit      = 200
)

// Calendar defaults
const (
	DefaultTimezone        = "Europe/Berlin"
	DefaultDisplayTimezone = "Europe/Berlin"
	DefaultProdID          = "-//eos archive//event calendar//EN"
	DefaultUIDDomain       = "eosarchive.app"
	DefaultDurationHours   = 2
)

// Rate limit defaults
const (
	DefaultRequestsPerMinute = 120
	DefaultBurst             = 20
)

// Logging defaults
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// DefaultConfigFile is the YAML file consulted when EOSCAL_CONFIG_FILE is
// unset.
const DefaultConfigFile = "/etc/eoscal/config.yaml"
