// Package config defines the pipeline configuration and its loading.
//
// Conventions:
//   - New() returns the defaults; Load(ctx) layers file and env on top.
//   - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/teamstats/internal/domain/schema"
)

// Pipeline holds the input and output paths of one pipeline.
type Pipeline struct {
	Input  string `koanf:"input"`
	Output string `koanf:"output"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Delimiter is the single-character field separator; "tab" is accepted.
	Delimiter string `koanf:"delimiter"`

	// Encodings are tried in order when decoding the source file.
	Encodings []string `koanf:"encodings"`

	// StrictSubstring limits substring column matching to whole tokens.
	StrictSubstring bool `koanf:"strict_substring"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	Overview   Pipeline `koanf:"overview"`
	Timeseries Pipeline `koanf:"timeseries"`

	// Roles overrides candidate column names per role, e.g. team: [club].
	Roles map[string][]string `koanf:"roles"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Delimiter: ",",
		Encodings: []string{"utf-8-sig", "cp949"},
		Overview: Pipeline{
			Input:  "team_TSS_SGP_PTI_master.csv",
			Output: "data/overview.json",
		},
		Timeseries: Pipeline{
			Input:  "matchup_long_team_perspective.csv",
			Output: "data/team_timeseries.json",
		},
		Roles: map[string][]string{},
	}
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *Config) DelimiterRune() (rune, error) {
	d := c.Delimiter
	switch strings.ToLower(d) {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("%w: delimiter must be one character, got %q", ErrInvalidConfig, d)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if r == '\r' || r == '\n' || r == '"' || r == utf8.RuneError {
		return 0, fmt.Errorf("%w: delimiter %q not allowed", ErrInvalidConfig, d)
	}
	return r, nil
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if len(c.Encodings) == 0 {
		return fmt.Errorf("%w: encodings must not be empty", ErrInvalidConfig)
	}
	for name := range c.Roles {
		if _, ok := schema.ParseRole(name); !ok {
			return fmt.Errorf("%w: unknown role %q in roles", ErrInvalidConfig, name)
		}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}
