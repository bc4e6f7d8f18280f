package chart

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// DefaultBarWidth is the bar width used by [Axes.Bar].
const DefaultBarWidth = 0.8

// autoscale margin as a fraction of the data span.
const margin = 0.05

// Axes is one plotting panel. It holds artists in insertion order plus the
// panel decorations: title, axis labels, limits, legend, aspect and grid.
//
// An Axes is not safe for concurrent use.
type Axes struct {
	children []Artist

	title  string
	xlabel string
	ylabel string

	xlim *[2]float64
	ylim *[2]float64

	legend   []string
	legendOn bool

	aspect Aspect
	grid   bool
	cycle  int
}

// NewAxes returns an empty panel with automatic aspect.
func NewAxes() *Axes {
	return &Axes{aspect: AspectAuto}
}

func (ax *Axes) nextColor() Color {
	c := CycleColor(ax.cycle)
	ax.cycle++
	return c
}

// Plot adds a line through (x[i], y[i]). Without [WithColor] the line takes
// the next cycle color.
func (ax *Axes) Plot(x, y []float64, opts ...Option) (*Line, error) {
	l, err := NewLine(x, y, opts...)
	if err != nil {
		return nil, err
	}
	if l.color.IsZero() {
		l.color = ax.nextColor()
	}
	ax.children = append(ax.children, l)
	return l, nil
}

// Scatter adds markers at (x[i], y[i]). Without [WithColor] or [WithColors]
// the markers share the next cycle color.
func (ax *Axes) Scatter(x, y []float64, opts ...Option) (*PathCollection, error) {
	o := buildOptions(opts)
	if len(o.colors) == 0 && o.color.IsZero() {
		opts = append(slices.Clone(opts), WithColor(ax.nextColor()))
	}
	pc, err := NewPathCollection(x, y, opts...)
	if err != nil {
		return nil, err
	}
	ax.children = append(ax.children, pc)
	return pc, nil
}

// Bar adds one rectangle per x value, centered on x with its base at 0.
// All bars share one color; only the first carries the label.
func (ax *Axes) Bar(x, heights []float64, opts ...Option) ([]*Rectangle, error) {
	if len(x) != len(heights) {
		return nil, perrors.New(perrors.ErrCodeLengthMismatch, "x has %d values, heights has %d", len(x), len(heights))
	}
	o := buildOptions(opts)
	width := o.width
	if width == 0 {
		width = DefaultBarWidth
	}
	face := o.color
	if face.IsZero() {
		face = ax.nextColor()
	}
	bars := make([]*Rectangle, 0, len(x))
	for i := range x {
		label := "_nolegend_"
		if i == 0 && o.label != "" {
			label = o.label
		}
		r, err := NewRectangle(x[i]-width/2, 0, width, heights[i], WithColor(face), WithLabel(label))
		if err != nil {
			return nil, err
		}
		bars = append(bars, r)
	}
	for _, r := range bars {
		ax.children = append(ax.children, r)
	}
	return bars, nil
}

// AddPatch adds a filled shape.
func (ax *Axes) AddPatch(p Patch) {
	ax.children = append(ax.children, p)
}

// Imshow adds an image of a. The panel aspect becomes [WithAspect] or, by
// default, "equal".
func (ax *Axes) Imshow(a Array, opts ...Option) (*Image, error) {
	im, err := NewImage(a, opts...)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	ax.aspect = AspectEqual
	if o.aspect != nil {
		ax.aspect = *o.aspect
	}
	ax.children = append(ax.children, im)
	return im, nil
}

// Text places s at data position (x, y).
func (ax *Axes) Text(x, y float64, s string) *Text {
	t := &Text{x: x, y: y, s: s}
	ax.children = append(ax.children, t)
	return t
}

// Children returns every artist in insertion order.
func (ax *Axes) Children() []Artist { return slices.Clone(ax.children) }

// Lines returns the line artists in insertion order.
func (ax *Axes) Lines() []*Line { return childrenOf[*Line](ax) }

// Collections returns the scatter collections in insertion order.
func (ax *Axes) Collections() []*PathCollection { return childrenOf[*PathCollection](ax) }

// Images returns the images in insertion order.
func (ax *Axes) Images() []*Image { return childrenOf[*Image](ax) }

// Patches returns every patch, rectangles and unmodeled shapes alike.
func (ax *Axes) Patches() []Patch { return childrenOf[Patch](ax) }

func childrenOf[T any](ax *Axes) []T {
	var out []T
	for _, c := range ax.children {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// IsEmpty reports whether the panel has no artists.
func (ax *Axes) IsEmpty() bool { return len(ax.children) == 0 }

// Title returns the panel title, or "" when unset.
func (ax *Axes) Title() string { return ax.title }

// SetTitle replaces the panel title.
func (ax *Axes) SetTitle(s string) { ax.title = s }

// XLabel returns the x-axis label.
func (ax *Axes) XLabel() string { return ax.xlabel }

// SetXLabel replaces the x-axis label.
func (ax *Axes) SetXLabel(s string) { ax.xlabel = s }

// YLabel returns the y-axis label.
func (ax *Axes) YLabel() string { return ax.ylabel }

// SetYLabel replaces the y-axis label.
func (ax *Axes) SetYLabel(s string) { ax.ylabel = s }

// Aspect returns the data aspect. The zero value means auto.
func (ax *Axes) Aspect() Aspect { return ax.aspect }

// SetAspect replaces the data aspect. [Axes.Imshow] sets it to equal unless
// told otherwise.
func (ax *Axes) SetAspect(a Aspect) { ax.aspect = a }

// Grid turns the background grid lines on or off.
func (ax *Axes) Grid(on bool) { ax.grid = on }

// GridOn reports whether grid lines are drawn.
func (ax *Axes) GridOn() bool { return ax.grid }

// SetXLim fixes the x-axis limits. lo > hi inverts the axis.
func (ax *Axes) SetXLim(lo, hi float64) { ax.xlim = &[2]float64{lo, hi} }

// SetYLim fixes the y-axis limits. lo > hi inverts the axis.
func (ax *Axes) SetYLim(lo, hi float64) { ax.ylim = &[2]float64{lo, hi} }

// XLim returns the x-axis limits, autoscaled from the data when unset.
func (ax *Axes) XLim() (lo, hi float64) {
	if ax.xlim != nil {
		return ax.xlim[0], ax.xlim[1]
	}
	return ax.autoscale(0)
}

// YLim returns the y-axis limits, autoscaled from the data when unset.
func (ax *Axes) YLim() (lo, hi float64) {
	if ax.ylim != nil {
		return ax.ylim[0], ax.ylim[1]
	}
	return ax.autoscale(1)
}

// Legend activates the legend and returns its entries: the labels of all
// artists, in insertion order, that are non-empty and not prefixed by "_".
func (ax *Axes) Legend() []string {
	var entries []string
	for _, c := range ax.children {
		if l := c.Label(); l != "" && !strings.HasPrefix(l, "_") {
			entries = append(entries, l)
		}
	}
	ax.legend = entries
	ax.legendOn = true
	return slices.Clone(entries)
}

// HasLegend reports whether a legend is active.
func (ax *Axes) HasLegend() bool { return ax.legendOn }

// LegendEntries returns the labels captured by the last [Axes.Legend] call.
func (ax *Axes) LegendEntries() []string { return slices.Clone(ax.legend) }

// RemoveLegend deactivates the legend.
func (ax *Axes) RemoveLegend() {
	ax.legend = nil
	ax.legendOn = false
}

// autoscale computes limits along axis 0 (x) or 1 (y). Data spans get a 5%
// margin on both sides except where the extreme value is a sticky edge (bar
// bases, image borders). An empty panel has limits (0, 1). An image whose
// extent runs backwards along the axis inverts the result.
func (ax *Axes) autoscale(axis int) (lo, hi float64) {
	var (
		values   []float64
		sticky   []float64
		inverted bool
	)
	for _, c := range ax.children {
		switch a := c.(type) {
		case *Line:
			if axis == 0 {
				values = append(values, a.x...)
			} else {
				values = append(values, a.y...)
			}
		case *PathCollection:
			for _, p := range a.Points() {
				values = append(values, p[axis])
			}
		case *Rectangle:
			if axis == 0 {
				values = append(values, a.x, a.x+a.width)
			} else {
				values = append(values, a.y, a.y+a.height)
				sticky = append(sticky, a.y)
			}
		case *Circle:
			cx, cy := a.Center()
			center := cx
			if axis == 1 {
				center = cy
			}
			values = append(values, center-a.radius, center+a.radius)
		case *Image:
			e0, e1 := a.extent[2*axis], a.extent[2*axis+1]
			values = append(values, e0, e1)
			sticky = append(sticky, e0, e1)
			if e0 > e1 {
				inverted = true
			}
		}
	}
	values = finiteValues(values)
	if len(values) == 0 {
		return 0, 1
	}
	rawLo, rawHi := floats.Min(values), floats.Max(values)
	lo, hi = expand(rawLo, rawHi)
	if slices.Contains(sticky, rawLo) {
		lo = rawLo
	}
	if slices.Contains(sticky, rawHi) {
		hi = rawHi
	}
	if inverted {
		return hi, lo
	}
	return lo, hi
}

func expand(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		d := margin * math.Abs(lo)
		if d == 0 {
			d = margin
		}
		return lo - d, hi + d
	}
	return lo - margin*span, hi + margin*span
}
