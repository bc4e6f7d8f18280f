package chart

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Artist is anything drawn inside a panel.
type Artist interface {
	// Kind names the artist type, e.g. "line" or "text".
	Kind() string
	// Label is the legend label. Labels starting with "_" are hidden.
	Label() string
}

// Patch is a filled shape added with [Axes.AddPatch].
type Patch interface {
	Artist
	FaceColor() Color
}

// Line is a connected series of points.
type Line struct {
	x, y  []float64
	label string
	color Color
	style LineStyle
}

// NewLine returns a line through the points (x[i], y[i]). The slices are
// copied. Without [WithColor] the line has no color until it is added to a
// panel, which assigns the next cycle color.
func NewLine(x, y []float64, opts ...Option) (*Line, error) {
	if len(x) != len(y) {
		return nil, perrors.New(perrors.ErrCodeLengthMismatch, "x has %d values, y has %d", len(x), len(y))
	}
	o := buildOptions(opts)
	style := Solid
	if o.lineStyle != nil {
		ls, err := ParseLineStyle(*o.lineStyle)
		if err != nil {
			return nil, err
		}
		style = ls
	}
	if !o.color.IsZero() {
		if _, err := o.color.RGBA(); err != nil {
			return nil, err
		}
	}
	return &Line{
		x:     slices.Clone(x),
		y:     slices.Clone(y),
		label: o.label,
		color: o.color,
		style: style,
	}, nil
}

// Kind returns "line".
func (l *Line) Kind() string { return "line" }

// Label returns the legend label.
func (l *Line) Label() string { return l.label }

// SetLabel replaces the legend label.
func (l *Line) SetLabel(s string) { l.label = s }

// XData returns the x coordinates. Callers must not modify them.
func (l *Line) XData() []float64 { return l.x }

// YData returns the y coordinates. Callers must not modify them.
func (l *Line) YData() []float64 { return l.y }

// Color returns the stroke color in the form it was given.
func (l *Line) Color() Color { return l.color }

// SetColor replaces the stroke color.
func (l *Line) SetColor(c Color) { l.color = c }

// LineStyle returns the dash pattern in short form.
func (l *Line) LineStyle() LineStyle { return l.style }

// SetLineStyle replaces the dash pattern.
func (l *Line) SetLineStyle(s LineStyle) { l.style = s }

// PathCollection is a scatter of markers at data offsets.
type PathCollection struct {
	offsets    *mat.Dense // N×2, nil when empty
	label      string
	faceColors []Color
}

// NewPathCollection returns a scatter collection at (x[i], y[i]).
// Face colors come from [WithColors] (one per point or one shared) or
// [WithColor]; they are stored resolved to RGBA tuples.
func NewPathCollection(x, y []float64, opts ...Option) (*PathCollection, error) {
	if len(x) != len(y) {
		return nil, perrors.New(perrors.ErrCodeLengthMismatch, "x has %d values, y has %d", len(x), len(y))
	}
	o := buildOptions(opts)
	pc := &PathCollection{label: o.label}
	if len(x) > 0 {
		pc.offsets = mat.NewDense(len(x), 2, nil)
		pc.offsets.SetCol(0, x)
		pc.offsets.SetCol(1, y)
	}
	colors := o.colors
	if len(colors) == 0 && !o.color.IsZero() {
		colors = []Color{o.color}
	}
	if err := pc.SetFaceColors(colors); err != nil {
		return nil, err
	}
	return pc, nil
}

// NewPathCollectionFromOffsets builds a collection from an N×2 offset matrix.
// A nil matrix is an empty collection.
func NewPathCollectionFromOffsets(offsets *mat.Dense, opts ...Option) (*PathCollection, error) {
	if offsets == nil {
		return NewPathCollection(nil, nil, opts...)
	}
	r, c := offsets.Dims()
	if c != 2 {
		return nil, perrors.New(perrors.ErrCodeInvalidShape, "offsets must be N×2, got %d×%d", r, c)
	}
	return NewPathCollection(mat.Col(nil, 0, offsets), mat.Col(nil, 1, offsets), opts...)
}

// Kind returns "path_collection".
func (pc *PathCollection) Kind() string { return "path_collection" }

// Label returns the legend label.
func (pc *PathCollection) Label() string { return pc.label }

// SetLabel replaces the legend label.
func (pc *PathCollection) SetLabel(s string) { pc.label = s }

// Offsets returns the N×2 offset matrix, or nil for an empty collection.
func (pc *PathCollection) Offsets() *mat.Dense { return pc.offsets }

// Len returns the number of markers.
func (pc *PathCollection) Len() int {
	if pc.offsets == nil {
		return 0
	}
	r, _ := pc.offsets.Dims()
	return r
}

// Points returns the offsets as (x, y) pairs.
func (pc *PathCollection) Points() [][2]float64 {
	n := pc.Len()
	out := make([][2]float64, n)
	for i := range n {
		out[i] = [2]float64{pc.offsets.At(i, 0), pc.offsets.At(i, 1)}
	}
	return out
}

// FaceColors returns the marker fill colors as RGBA tuples.
func (pc *PathCollection) FaceColors() []Color { return pc.faceColors }

// SetFaceColors resolves and stores the fill colors.
func (pc *PathCollection) SetFaceColors(colors []Color) error {
	resolved := make([]Color, len(colors))
	for i, c := range colors {
		r, err := c.Resolved()
		if err != nil {
			return err
		}
		resolved[i] = r
	}
	pc.faceColors = resolved
	return nil
}

// Rectangle is an axis-aligned filled rectangle anchored at (x, y).
type Rectangle struct {
	x, y, width, height float64
	label               string
	face                Color
}

// NewRectangle returns a rectangle. The face color defaults to the first
// cycle color and is stored resolved to an RGBA tuple.
func NewRectangle(x, y, width, height float64, opts ...Option) (*Rectangle, error) {
	o := buildOptions(opts)
	face := o.color
	if face.IsZero() {
		face = CycleColor(0)
	}
	resolved, err := face.Resolved()
	if err != nil {
		return nil, err
	}
	return &Rectangle{x: x, y: y, width: width, height: height, label: o.label, face: resolved}, nil
}

// Kind returns "rectangle".
func (r *Rectangle) Kind() string { return "rectangle" }

// Label returns the legend label. Bars after the first carry "_nolegend_".
func (r *Rectangle) Label() string { return r.label }

// X returns the anchor x coordinate.
func (r *Rectangle) X() float64 { return r.x }

// Y returns the anchor y coordinate.
func (r *Rectangle) Y() float64 { return r.y }

// Width returns the extent along x. It may be negative.
func (r *Rectangle) Width() float64 { return r.width }

// Height returns the extent along y. Bars below zero have a negative height.
func (r *Rectangle) Height() float64 { return r.height }

// FaceColor returns the fill color as an RGBA tuple.
func (r *Rectangle) FaceColor() Color { return r.face }

// Circle is a filled circle. Exporters do not model it.
type Circle struct {
	cx, cy, radius float64
	label          string
	face           Color
}

// NewCircle returns a circle centered at (cx, cy).
func NewCircle(cx, cy, radius float64, opts ...Option) (*Circle, error) {
	o := buildOptions(opts)
	face := o.color
	if face.IsZero() {
		face = CycleColor(0)
	}
	resolved, err := face.Resolved()
	if err != nil {
		return nil, err
	}
	return &Circle{cx: cx, cy: cy, radius: radius, label: o.label, face: resolved}, nil
}

// Kind returns "circle".
func (c *Circle) Kind() string { return "circle" }

// Label returns the legend label.
func (c *Circle) Label() string { return c.label }

// FaceColor returns the fill color as an RGBA tuple.
func (c *Circle) FaceColor() Color { return c.face }

// Center returns the center in data coordinates.
func (c *Circle) Center() (x, y float64) { return c.cx, c.cy }

// Radius returns the radius in data units.
func (c *Circle) Radius() float64 { return c.radius }

// Image is a raster drawn over a data-space extent.
type Image struct {
	data          Array
	cmap          string
	interpolation string
	vmin, vmax    float64
	extent        [4]float64
}

// Image defaults.
const (
	DefaultCmap          = "viridis"
	DefaultInterpolation = "antialiased"
)

// NewImage returns an image of a 2D or 3D array. Unset options default to
// the viridis colormap, antialiased interpolation, the data range for the
// normalization and pixel-centered extent (-0.5, cols-0.5, rows-0.5, -0.5).
func NewImage(data Array, opts ...Option) (*Image, error) {
	if err := data.validateImage(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	im := &Image{
		data:          data,
		cmap:          DefaultCmap,
		interpolation: DefaultInterpolation,
	}
	if o.cmap != "" {
		im.cmap = o.cmap
	}
	if o.interpolation != "" {
		im.interpolation = o.interpolation
	}
	lo, hi, ok := data.MinMax()
	if !ok {
		lo, hi = 0, 1
	}
	im.vmin, im.vmax = lo, hi
	if o.vmin != nil {
		im.vmin = *o.vmin
	}
	if o.vmax != nil {
		im.vmax = *o.vmax
	}
	if o.extent != nil {
		im.extent = *o.extent
	} else {
		im.extent = [4]float64{-0.5, float64(data.Cols()) - 0.5, float64(data.Rows()) - 0.5, -0.5}
	}
	return im, nil
}

// Kind returns "image".
func (im *Image) Kind() string { return "image" }

// Label is always empty; images never appear in a legend.
func (im *Image) Label() string { return "" }

// Array returns the pixel data.
func (im *Image) Array() Array { return im.data }

// Cmap returns the colormap name.
func (im *Image) Cmap() string { return im.cmap }

// Interpolation returns the resampling method name.
func (im *Image) Interpolation() string { return im.interpolation }

// Norm returns the value range mapped onto the colormap.
func (im *Image) Norm() (vmin, vmax float64) { return im.vmin, im.vmax }

// Extent returns (left, right, bottom, top) in data coordinates.
func (im *Image) Extent() [4]float64 { return im.extent }

// Text is a string placed at a data position. Exporters do not model it.
type Text struct {
	x, y float64
	s    string
}

// Kind returns "text".
func (t *Text) Kind() string { return "text" }

// Label is always empty.
func (t *Text) Label() string { return "" }

// Text returns the string.
func (t *Text) Text() string { return t.s }

// Position returns the anchor in data coordinates.
func (t *Text) Position() (x, y float64) { return t.x, t.y }
