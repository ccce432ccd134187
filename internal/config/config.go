// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/usmap/internal/crs"
	"github.com/woozymasta/usmap/internal/layout"

	"gopkg.in/yaml.v3"
)

// Defaults for the Census cartographic boundary dataset.
const (
	DefaultDataset = "shape/cb_2018_us_state_500k.shp"
	DefaultCRS     = crs.USAtlasEqual
)

// DefaultExclude lists territories outside the map frame:
// Northern Mariana Islands, American Samoa, Guam, US Virgin Islands.
var DefaultExclude = []string{"69", "60", "66", "78"}

// Config represents the root configuration file structure.
type Config struct {
	Dataset string         `yaml:"dataset"`
	CRS     string         `yaml:"crs"`
	Exclude []string       `yaml:"exclude,omitempty"`
	Insets  []layout.Inset `yaml:"insets,omitempty"`
	Output  Output         `yaml:"output,omitempty"`
}

// Output controls how layers are written.
type Output struct {
	Dir       string `yaml:"dir,omitempty"`
	Format    string `yaml:"format,omitempty"`    // json or yaml
	Precision int    `yaml:"precision,omitempty"` // significant digits when minifying, 0 keeps all
	Minify    bool   `yaml:"minify,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
// A missing file is not an error when allowMissing is set; defaults are
// returned instead.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dataset == "" {
		c.Dataset = DefaultDataset
	}
	if c.CRS == "" {
		c.CRS = DefaultCRS
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), DefaultExclude...)
	}
	if c.Insets == nil {
		c.Insets = layout.DefaultInsets()
	}
	for i := range c.Insets {
		if c.Insets[i].Recipe.Scale == 0 {
			c.Insets[i].Recipe.Scale = 1
		}
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "out"
	}
	if c.Output.Format == "" {
		c.Output.Format = "json"
	}
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if _, err := crs.Lookup(c.CRS); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Insets))
	for _, in := range c.Insets {
		if in.FIPS == "" {
			return fmt.Errorf("inset %q has no fips code", in.Name)
		}
		if seen[in.FIPS] {
			return fmt.Errorf("inset fips %q listed twice", in.FIPS)
		}
		seen[in.FIPS] = true
		if in.Recipe.Scale < 0 {
			return fmt.Errorf("inset %q has negative scale", in.Name)
		}
	}

	if c.Output.Format != "json" && c.Output.Format != "yaml" {
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}

	return nil
}

// ExcludeSet returns the exclusion list as a lookup set.
func (c *Config) ExcludeSet() map[string]bool {
	set := make(map[string]bool, len(c.Exclude))
	for _, code := range c.Exclude {
		set[code] = true
	}
	return set
}
