package chart

import "github.com/google/uuid"

// Default figure size in inches.
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
)

// Figure is the top-level container for a panel grid.
type Figure struct {
	id        uuid.UUID
	width     float64
	height    float64
	grid      *Grid
	colorbars []Colorbar
	tight     bool
}

// Colorbar attaches a color scale for an image to a panel.
type Colorbar struct {
	Image *Image
	Axes  *Axes
}

// FigureOption configures a [Figure].
type FigureOption func(*Figure)

// WithSize sets the figure size in inches.
func WithSize(width, height float64) FigureOption {
	return func(f *Figure) {
		if width > 0 {
			f.width = width
		}
		if height > 0 {
			f.height = height
		}
	}
}

// WithGrid sets the panel grid of the figure.
func WithGrid(g *Grid) FigureOption {
	return func(f *Figure) { f.grid = g }
}

// NewFigure returns a figure. Without [WithGrid] it holds a single empty panel.
func NewFigure(opts ...FigureOption) *Figure {
	f := &Figure{id: uuid.New(), width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(f)
	}
	if f.grid == nil {
		f.grid = Single(NewAxes())
	}
	return f
}

// Subplots returns a figure holding a fresh rows×cols grid. Dimensions below
// one are raised to one.
func Subplots(rows, cols int, opts ...FigureOption) (*Figure, *Grid) {
	rows, cols = max(rows, 1), max(cols, 1)
	g, _ := NewGrid(rows, cols)
	f := NewFigure(append(opts, WithGrid(g))...)
	return f, g
}

// ID identifies the figure, e.g. for naming rendered artifacts.
func (f *Figure) ID() uuid.UUID { return f.id }

// Size returns the figure size in inches.
func (f *Figure) Size() (width, height float64) { return f.width, f.height }

// Grid returns the panel grid.
func (f *Figure) Grid() *Grid { return f.grid }

// Colorbar adds a color scale for im beside ax.
func (f *Figure) Colorbar(im *Image, ax *Axes) Colorbar {
	cb := Colorbar{Image: im, Axes: ax}
	f.colorbars = append(f.colorbars, cb)
	return cb
}

// Colorbars returns the color scales in creation order.
func (f *Figure) Colorbars() []Colorbar { return append([]Colorbar(nil), f.colorbars...) }

// ColorbarFor returns the color scale attached to ax, if any.
func (f *Figure) ColorbarFor(ax *Axes) (Colorbar, bool) {
	for _, cb := range f.colorbars {
		if cb.Axes == ax {
			return cb, true
		}
	}
	return Colorbar{}, false
}

// TightLayout asks the renderer to shrink padding between panels to fit
// their decorations.
func (f *Figure) TightLayout() { f.tight = true }

// Tight reports whether [Figure.TightLayout] was applied.
func (f *Figure) Tight() bool { return f.tight }

// Show hands the figure to d. A nil Displayer is a no-op.
func (f *Figure) Show(d Displayer) error {
	if d == nil {
		return nil
	}
	return d.Display(f)
}

// Displayer presents a finished figure, for example by rendering it to a
// file or opening a viewer.
type Displayer interface {
	Display(f *Figure) error
}

// DisplayFunc adapts a function to [Displayer].
type DisplayFunc func(f *Figure) error

// Display calls fn(f).
func (fn DisplayFunc) Display(f *Figure) error { return fn(f) }
