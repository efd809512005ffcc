package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SIMFLEET"

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.url", "")
	v.SetDefault("store.data_dir", "./data")

	v.SetDefault("upstream.base_url", "https://apis.mytel.com.mm")
	v.SetDefault("upstream.timeout", "30s")
	v.SetDefault("upstream.max_attempts", 3)
	v.SetDefault("upstream.retry_delay", "2s")
	v.SetDefault("upstream.user_agent", "okhttp/4.9.1")

	v.SetDefault("fleet.concurrency", 10)
	v.SetDefault("fleet.time_zone", "Asia/Yangon")
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory or /etc/simfleet, and SIMFLEET_* environment variables,
// in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches the
// default locations and tolerates a missing file.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/simfleet")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags and the time zone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Fleet.Location(); err != nil {
		return fmt.Errorf("invalid configuration: fleet.time_zone: %w", err)
	}
	return nil
}
