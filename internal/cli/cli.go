package cli

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/editplot/internal/config"
	"github.com/matzehuels/editplot/pkg/cache"
)

const appName = "editplot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     config.Config
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the config file named by --config, or the default one.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "format", cfg.Render.Format, "cache", cfg.Cache.Enabled)
	return nil
}

// newCache opens the artifact cache. Caching is off when noCache is set or
// the config disables it; an unusable cache directory also disables it.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache || !c.config.Cache.Enabled {
		return cache.NewNullCache()
	}
	dir, err := c.config.CacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}
