// Package config provides configuration management for shaker using Viper
// for flexible loading from files, environment variables, and command-line
// flags.
//
// Configuration sources, highest priority first: command-line flags, SHAKER_
// prefixed environment variables, and a .shaker.yml file in the working
// directory. The recognized options mirror the bundling surface: the selected
// output task, the compiled directory, concurrency limits, lint/minify/strip
// toggles, and an opaque config block forwarded verbatim to the output
// transform.
package config

import (
	"regexp"
	"time"

	"github.com/spf13/viper"

	"github.com/mridgway/shaker/internal/errors"
)

// TaskLocal is the reserved task identifier that selects dev mode: file lists
// are rewritten to resolvable URLs in place and no bundles are produced.
const TaskLocal = "local"

// Config is the full shaker configuration surface.
type Config struct {
	// Task selects the output transform; the reserved value "local" maps to
	// dev mode.
	Task string `yaml:"task" mapstructure:"task"`
	// Manifest is the path to the metadata manifest describing the asset tree.
	Manifest string `yaml:"manifest" mapstructure:"manifest"`
	// Root is the static root directory that produced URLs are rooted at.
	Root string `yaml:"root" mapstructure:"root"`
	// CompiledDir is the directory prefix for bundle names, relative to Root.
	CompiledDir string `yaml:"compiled_dir" mapstructure:"compiled_dir"`
	// Images enables image deployment tasks.
	Images bool `yaml:"images" mapstructure:"images"`
	// Parallel bounds the number of simultaneously in-flight build tasks.
	Parallel int `yaml:"parallel" mapstructure:"parallel"`
	// Delay inserts an artificial pause before each task is dispatched.
	Delay time.Duration `yaml:"delay" mapstructure:"delay"`
	// Lint gates the pipeline on an external CSS lint pass.
	Lint bool `yaml:"lint" mapstructure:"lint"`
	// Minify enables minification of rollup bundles.
	Minify bool `yaml:"minify" mapstructure:"minify"`
	// Strip is a regular expression removed from concatenated bundles before
	// minification. Empty disables stripping.
	Strip string `yaml:"strip" mapstructure:"strip"`
	// ClientCache enables rewriting of HTML view templates into client
	// template-registration snippets inside client bundles.
	ClientCache bool `yaml:"client_cache" mapstructure:"client_cache"`
	// TransformConfig is forwarded verbatim to the output transform.
	TransformConfig map[string]interface{} `yaml:"config" mapstructure:"config"`
	// Modules names additional output transform registrations to enable.
	Modules []string `yaml:"module" mapstructure:"module"`
	// LogLevel controls logger verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Load builds a Config from viper's merged sources and applies defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeInvalidConfig, "failed to unmarshal configuration")
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Task == "" {
		cfg.Task = TaskLocal
	}
	if cfg.Manifest == "" {
		cfg.Manifest = "shaker.yml"
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.CompiledDir == "" {
		cfg.CompiledDir = "compiled/"
	}
	if cfg.Parallel == 0 {
		cfg.Parallel = 20
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Parallel < 1 {
		return errors.New(errors.ErrorTypeConfig, errors.ErrCodeInvalidConfig,
			"parallel must be at least 1")
	}
	if c.Delay < 0 {
		return errors.New(errors.ErrorTypeConfig, errors.ErrCodeInvalidConfig,
			"delay must not be negative")
	}
	if _, err := c.StripPattern(); err != nil {
		return err
	}
	return nil
}

// StripPattern compiles the configured strip regular expression. A nil result
// with nil error means stripping is disabled.
func (c *Config) StripPattern() (*regexp.Regexp, error) {
	if c.Strip == "" {
		return nil, nil
	}
	re, err := regexp.Compile(c.Strip)
	if err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeInvalidConfig, "invalid strip pattern")
	}
	return re, nil
}

// IsDevMode reports whether the reserved local task is selected.
func (c *Config) IsDevMode() bool {
	return c.Task == TaskLocal
}
