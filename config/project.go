package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// DefaultFileName is looked up in the project root when no config is given.
const DefaultFileName = "lineage.yaml"

const (
	FailFast   = "fail_fast"
	FailAtEnd  = "fail_at_end"
	BestEffort = "best_effort"
)

// Config is the lineage.yaml document.
type Config struct {
	// Templates is the template tree root. Relative paths are resolved
	// against the directory of the config file.
	Templates   string    `yaml:"templates"`
	Output      string    `yaml:"output"`
	FailureMode string    `yaml:"failure_mode"`
	Workers     int       `yaml:"workers"`
	GoImports   bool      `yaml:"goimports"`
	Log         LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives a copy of the log with size-based rotation.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

func Default() Config {
	return Config{
		Templates:   "templates",
		Output:      "out",
		FailureMode: FailFast,
		Workers:     0,
		GoImports:   true,
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  64,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads path over the defaults and resolves relative directories
// against the config file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := LoadYAML(path, &cfg); err != nil {
		return Config{}, err
	}

	dir := filepath.Dir(path)
	cfg.Templates = resolve(dir, cfg.Templates)
	cfg.Output = resolve(dir, cfg.Output)
	if cfg.Log.File != "" {
		cfg.Log.File = resolve(dir, cfg.Log.File)
	}
	return cfg, nil
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (c *Config) Validate() error {
	var errs []error

	if c.Templates == "" {
		errs = append(errs, errors.New("templates is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	switch c.FailureMode {
	case FailFast, FailAtEnd, BestEffort:
	default:
		errs = append(errs, fmt.Errorf("failure_mode must be one of %s, %s, %s; got %q", FailFast, FailAtEnd, BestEffort, c.FailureMode))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (l *LogConfig) Validate() error {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error; got %q", l.Level)
	}
	switch l.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json; got %q", l.Format)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return errors.New("log rotation limits must not be negative")
	}
	return nil
}
