package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SHELLBAGS_LOG_LEVEL.
const EnvPrefix = "SHELLBAGS"

// NewViper returns a Viper instance primed with defaults and environment
// lookups. Callers bind command flags to it before calling LoadFromViper.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("lang", d.Lang)
	v.SetDefault("key_path", d.KeyPath)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("utc_offset_hours", d.UTCOffsetHours)
	v.SetDefault("log.level", d.Logging.Level)
	v.SetDefault("log.format", d.Logging.Format)
	v.SetDefault("log.output", d.Logging.Output)
	return v
}

// ReadFile merges the YAML file at configPath into v. An empty path is a
// no-op.
func ReadFile(v *viper.Viper, configPath string) error {
	if configPath == "" {
		return nil
	}
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load reads configuration from the YAML file at configPath (optional),
// the environment and the defaults.
func Load(configPath string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, configPath); err != nil {
		return nil, err
	}
	return LoadFromViper(v)
}

// LoadFromViper creates a validated Config from an existing Viper instance.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.Lang = strings.ToLower(cfg.Lang)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
