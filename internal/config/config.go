// Package config loads editplot settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/editplot/config.toml unless a path is
// given. A missing file is not an error: every setting has a default, and
// command-line flags override the file.
//
//	[render]
//	format = "svg"
//	scale = 2
//
//	[import]
//	panel_width = 5
//	panel_height = 4
//
//	[cache]
//	enabled = true
//	ttl = "72h"
//
//	[serve]
//	addr = "127.0.0.1:8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/editplot/pkg/cache"
	perrors "github.com/matzehuels/editplot/pkg/errors"
	"github.com/matzehuels/editplot/pkg/io"
	"github.com/matzehuels/editplot/pkg/render"
)

// Config is the full settings tree.
type Config struct {
	Render RenderConfig `toml:"render"`
	Import ImportConfig `toml:"import"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds the defaults for the render command.
type RenderConfig struct {
	Format string  `toml:"format"`
	Scale  float64 `toml:"scale"`
}

// ImportConfig sizes rebuilt figures, in inches per panel.
type ImportConfig struct {
	PanelWidth  float64 `toml:"panel_width"`
	PanelHeight float64 `toml:"panel_height"`
}

// CacheConfig controls the artifact cache.
type CacheConfig struct {
	Enabled bool     `toml:"enabled"`
	TTL     Duration `toml:"ttl"`
	// Dir overrides the user cache directory.
	Dir string `toml:"dir"`
}

// ServeConfig holds the serve command defaults.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Duration reads TOML strings such as "90m" or "72h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Render: RenderConfig{Format: render.FormatPNG, Scale: 1},
		Import: ImportConfig{PanelWidth: io.DefaultPanelWidth, PanelHeight: io.DefaultPanelHeight},
		Cache:  CacheConfig{Enabled: true, TTL: Duration{cache.DefaultTTL}},
		Serve:  ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "editplot", "config.toml"), nil
}

// Load reads path over the defaults. An empty path means [Path]. A missing
// file yields the defaults; unknown keys are an INVALID_CONFIG error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := perrors.ValidateFormat(c.Render.Format, render.Formats); err != nil {
		return err
	}
	if c.Render.Scale <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "render.scale must be positive, got %g", c.Render.Scale)
	}
	if c.Import.PanelWidth <= 0 || c.Import.PanelHeight <= 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "import panel size must be positive, got %gx%g",
			c.Import.PanelWidth, c.Import.PanelHeight)
	}
	if c.Cache.TTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// CacheDir returns the configured cache directory or the user default.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
