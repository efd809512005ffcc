package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Upstream UpstreamConfig `mapstructure:"upstream" validate:"required"`
	Fleet    FleetConfig    `mapstructure:"fleet" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig selects and configures the tree backend.
type StoreConfig struct {
	Driver  string `mapstructure:"driver" validate:"required,oneof=memory postgres sqlite"`
	URL     string `mapstructure:"url" validate:"required_if=Driver postgres"`
	DataDir string `mapstructure:"data_dir" validate:"required_if=Driver sqlite"`
}

// UpstreamConfig configures the client for the mobile-network API.
type UpstreamConfig struct {
	BaseURL     string        `mapstructure:"base_url" validate:"required,url"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"gt=0"`
	UserAgent   string        `mapstructure:"user_agent" validate:"required"`
}

// FleetConfig configures fleet runs.
type FleetConfig struct {
	Concurrency int    `mapstructure:"concurrency" validate:"gte=1,lte=100"`
	TimeZone    string `mapstructure:"time_zone" validate:"required"`
}

// Location resolves the configured time zone.
func (f FleetConfig) Location() (*time.Location, error) {
	return time.LoadLocation(f.TimeZone)
}
