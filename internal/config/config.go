// Package config loads hgpkg settings from hgpkg.toml (or .yaml/.json) and
// HGPKG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/goplus/hgpkg/internal/env"
)

// Config holds hgpkg settings.
type Config struct {
	// RecipeDir overrides the embedded recipes when set.
	RecipeDir      string `mapstructure:"recipe_dir"`
	WorkDir        string `mapstructure:"work_dir"`
	LogLevel       string `mapstructure:"log_level"`
	Generator      string `mapstructure:"generator"`
	ManifestFormat string `mapstructure:"manifest_format"`
}

// Options tell Load where to look.
type Options struct {
	// File, when set, is the only config file read and must exist.
	File string
	// Dirs are searched for hgpkg.* in order when File is empty.
	Dirs []string
}

// Load reads the configuration. Environment variables named HGPKG_<KEY>
// take precedence over the file, which takes precedence over defaults.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	workDir, err := env.WorkDir()
	if err != nil {
		return nil, err
	}
	v.SetDefault("recipe_dir", "")
	v.SetDefault("work_dir", workDir)
	v.SetDefault("log_level", "info")
	v.SetDefault("generator", "")
	v.SetDefault("manifest_format", "json")

	v.SetEnvPrefix("HGPKG")
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("hgpkg")
		for _, dir := range opts.Dirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.ManifestFormat) {
	case "json", "toml":
	default:
		return fmt.Errorf("manifest_format must be json or toml, got: %s", c.ManifestFormat)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.WorkDir == "" {
		return errors.New("work_dir must not be empty")
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
