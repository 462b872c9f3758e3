// Package config holds the shellbags command configuration and its loading
// from YAML files, SHELLBAGS_* environment variables and command flags.
package config

import (
	"time"

	"github.com/joshuapare/shellbags/pkg/shellbags"
)

// Config is the complete command configuration.
type Config struct {
	Output         string        `yaml:"output" mapstructure:"output"`
	Format         string        `yaml:"format" mapstructure:"format"` // csv, json, table
	Lang           string        `yaml:"lang" mapstructure:"lang"`     // header labels: ja, en
	KeyPath        string        `yaml:"key_path" mapstructure:"key_path"`
	MaxDepth       int           `yaml:"max_depth" mapstructure:"max_depth"`
	UTCOffsetHours int           `yaml:"utc_offset_hours" mapstructure:"utc_offset_hours"`
	Logging        LoggingConfig `yaml:"log" mapstructure:"log"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
	Output string `yaml:"output" mapstructure:"output"` // stderr, stdout or a file path
}

// Output formats accepted by the output package.
const (
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatTable = "table"
)

// DefaultOutput is the file name the CSV report is written to.
const DefaultOutput = "analyzed_ShellBags.csv"

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Output:         DefaultOutput,
		Format:         FormatCSV,
		Lang:           "ja",
		KeyPath:        shellbags.DefaultKeyPath,
		MaxDepth:       shellbags.DefaultMaxDepth,
		UTCOffsetHours: 9,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Location returns the fixed zone timestamps are reported in.
func (c *Config) Location() *time.Location {
	if c.UTCOffsetHours == 9 {
		return shellbags.SourceZone
	}
	return time.FixedZone("", c.UTCOffsetHours*60*60)
}

// AnalyzeOptions translates the configuration into analyzer options.
func (c *Config) AnalyzeOptions() []shellbags.Option {
	return []shellbags.Option{
		shellbags.WithKeyPath(c.KeyPath),
		shellbags.WithMaxDepth(c.MaxDepth),
		shellbags.WithLocation(c.Location()),
	}
}
