// Package config loads gantry settings from an optional YAML file and
// GANTRY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/gantry/internal/gantt"
	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvConfig   = "GANTRY_CONFIG"
	EnvDB       = "GANTRY_DB"
	EnvLog      = "GANTRY_LOG"
	EnvHTTPAddr = "GANTRY_HTTP_ADDR"
)

type Config struct {
	Database    string `yaml:"database"`
	LogUseCases bool   `yaml:"log_use_cases"`

	Gantt struct {
		DayWidth        float64 `yaml:"day_width"`
		RowHeight       float64 `yaml:"row_height"`
		BufferSize      *int    `yaml:"buffer_size"`
		MinimumSpanDays int     `yaml:"minimum_span_days"`
		ViewPaddingDays *int    `yaml:"view_padding_days"`
		ArrowHeadSize   float64 `yaml:"arrow_head_size"`
	} `yaml:"gantt"`

	Utilization struct {
		DefaultUnits    int     `yaml:"default_units"`
		BaseHoursPerDay float64 `yaml:"base_hours_per_day"`
	} `yaml:"utilization"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	// Path is the file the config was read from, empty when none was found.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file or env is present.
// Home is the user's home directory; the database lives under it.
func Default(home string) Config {
	var c Config
	c.Database = filepath.Join(home, ".gantry", "gantry.db")
	c.HTTP.Addr = "127.0.0.1:8080"
	return c
}

// DefaultPath is the config file consulted when GANTRY_CONFIG is unset.
func DefaultPath(home string) string {
	return filepath.Join(home, ".gantry", "config.yaml")
}

// Load resolves configuration: defaults, then the YAML file, then env.
// An explicitly named file that does not exist is an error; a missing
// default file is not.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}

	path, explicit := os.Getenv(EnvConfig), true
	if path == "" {
		path, explicit = DefaultPath(home), false
	}

	cfg := Default(home)
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	} else {
		cfg.Path = path
	}
	cfg.applyEnv()
	return cfg, nil
}

// mergeFile overlays the keys present in path onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDB); v != "" {
		c.Database = v
	}
	if v := os.Getenv(EnvLog); v != "" {
		c.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTP.Addr = v
	}
}

// GanttConfig maps the file settings onto the engine's geometry. Unset or
// invalid values fall back to the engine defaults.
func (c Config) GanttConfig() gantt.Config {
	g := gantt.DefaultConfig()
	if c.Gantt.DayWidth > 0 {
		g.DayWidth = c.Gantt.DayWidth
	}
	if c.Gantt.RowHeight > 0 {
		g.RowHeight = c.Gantt.RowHeight
	}
	if c.Gantt.BufferSize != nil && *c.Gantt.BufferSize >= 0 {
		g.BufferSize = *c.Gantt.BufferSize
	}
	if c.Gantt.MinimumSpanDays > 0 {
		g.MinimumSpanDays = c.Gantt.MinimumSpanDays
	}
	if c.Gantt.ViewPaddingDays != nil && *c.Gantt.ViewPaddingDays >= 0 {
		g.ViewPaddingDays = *c.Gantt.ViewPaddingDays
	}
	if c.Gantt.ArrowHeadSize > 0 {
		g.ArrowHeadSize = c.Gantt.ArrowHeadSize
	}
	if c.Utilization.DefaultUnits > 0 {
		g.Defaults.Units = c.Utilization.DefaultUnits
	}
	if c.Utilization.BaseHoursPerDay > 0 {
		g.Defaults.BaseHoursPerDay = c.Utilization.BaseHoursPerDay
	}
	return g
}
