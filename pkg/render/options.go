package render

import "github.com/charmbracelet/log"

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	format string
	scale  float64
	logger *log.Logger
}

func newRenderer(opts []Option) renderer {
	r := renderer{format: FormatPNG, scale: 1, logger: log.Default()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithFormat sets the output format (default "png"). See [Formats].
func WithFormat(format string) Option {
	return func(r *renderer) { r.format = format }
}

// WithScale sets the raster scale factor (default 1, i.e. 96 DPI). Vector
// formats ignore it.
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithLogger sets the logger for elements that cannot be drawn.
func WithLogger(l *log.Logger) Option {
	return func(r *renderer) {
		if l != nil {
			r.logger = l
		}
	}
}
