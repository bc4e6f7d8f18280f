package io

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/editplot/pkg/chart"
)

// Default panel size in inches used to size imported figures.
const (
	DefaultPanelWidth  = 5.0
	DefaultPanelHeight = 4.0
)

// Option configures export and import.
type Option func(*config)

type config struct {
	logger      *log.Logger
	pretty      io.Writer
	display     chart.Displayer
	panelWidth  float64
	panelHeight float64
}

func newConfig(opts []Option) config {
	cfg := config{
		logger:      log.Default(),
		panelWidth:  DefaultPanelWidth,
		panelHeight: DefaultPanelHeight,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithLogger sets the logger. Skipped elements are reported at debug level,
// an empty document at warn level.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPretty echoes a 4-space indented copy of every exported document to w.
func WithPretty(w io.Writer) Option {
	return func(c *config) { c.pretty = w }
}

// WithDisplay sets the displayer that receives imported figures.
func WithDisplay(d chart.Displayer) Option {
	return func(c *config) { c.display = d }
}

// WithPanelSize sets the per-panel size in inches of imported figures.
func WithPanelSize(width, height float64) Option {
	return func(c *config) {
		if width > 0 {
			c.panelWidth = width
		}
		if height > 0 {
			c.panelHeight = height
		}
	}
}
