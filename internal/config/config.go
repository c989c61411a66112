// Package config loads the tracker configuration from the application
// directory (config.yaml) and XTIMETRACKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const configFileName = "config"

// Options holds user-tunable behavior switches.
type Options struct {
	// ReportCurrent includes the in-progress activity in reports by
	// default.
	ReportCurrent bool `mapstructure:"report_current"`
	// StopOnStart stops the running activity instead of erroring when a
	// new one is started.
	StopOnStart bool `mapstructure:"stop_on_start"`
	// WeekStart names the first day of the week used by --week windows.
	WeekStart string `mapstructure:"week_start"`
}

// Config is the loaded tracker configuration.
type Config struct {
	Options     Options             `mapstructure:"options"`
	DefaultTags map[string][]string `mapstructure:"default_tags"`

	v   *viper.Viper
	dir string
}

// Load reads the configuration from dir, falling back to defaults when no
// config file exists. Environment variables (XTIMETRACKER_OPTIONS_WEEK_START,
// ...) override file values.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("XTIMETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("options.report_current", false)
	v.SetDefault("options.stop_on_start", false)
	v.SetDefault("options.week_start", "monday")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot parse config file: %w", err)
		}
	}

	cfg := &Config{v: v, dir: dir}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file: %w", err)
	}
	return cfg, nil
}

// DefaultTagsFor returns the tags configured to be attached automatically to
// frames of the given project.
func (c *Config) DefaultTagsFor(project string) []string {
	return c.DefaultTags[project]
}

// Get returns the raw value stored under a dotted key, or nil when unset.
func (c *Config) Get(key string) any {
	if !c.v.IsSet(key) {
		return nil
	}
	return c.v.Get(key)
}

// Set stores a value under a dotted key and writes the config file back.
func (c *Config) Set(key string, value string) error {
	c.v.Set(key, value)
	path := filepath.Join(c.dir, configFileName+".yaml")
	if err := c.v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return c.v.Unmarshal(c)
}
