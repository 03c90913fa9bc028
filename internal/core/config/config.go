// Package config provides configuration management for recordfilter services.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds configuration for the gRPC filter service.
type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	MaxRecords     int // records accepted per Evaluate call
}

// SchemaConfig locates the field schema file.
type SchemaConfig struct {
	File string // empty: every field is treated as text
}

// DatabaseConfig locates the template store.
type DatabaseConfig struct {
	URL string // sqlite://path or postgres://...; empty disables templates
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Config is the complete recordfilter configuration.
type Config struct {
	Server   ServerConfig
	Schema   SchemaConfig
	Database DatabaseConfig
	Log      LogConfig
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           50061,
			RequestTimeout: 30 * time.Second,
			MaxRecords:     10000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
