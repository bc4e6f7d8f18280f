package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/editplot/pkg/chart"
)

const (
	lineWidth   = 1.5
	markerSize  = 3.0
	circleEdges = 64
)

// axisMap places data values on a plot axis. gonum/plot axes always grow
// upward and rightward, so an inverted limit pair is drawn by negating every
// coordinate on that axis and relabeling the ticks.
type axisMap bool

func (m axisMap) at(v float64) float64 {
	if m {
		return -v
	}
	return v
}

type panel struct {
	plot   *plot.Plot
	xm, ym axisMap
	logger *log.Logger
}

// newPanel converts ax into a plot. Artists are added in draw order.
func newPanel(ax *chart.Axes, logger *log.Logger) (*plot.Plot, error) {
	xlo, xhi := ax.XLim()
	ylo, yhi := ax.YLim()
	pn := &panel{
		plot:   plot.New(),
		xm:     axisMap(xhi < xlo),
		ym:     axisMap(yhi < ylo),
		logger: logger,
	}
	p := pn.plot
	p.Title.Text = ax.Title()
	p.X.Label.Text = ax.XLabel()
	p.Y.Label.Text = ax.YLabel()
	if ax.GridOn() {
		p.Add(plotter.NewGrid())
	}

	for _, a := range ax.Children() {
		var (
			thumb plot.Thumbnailer
			err   error
		)
		switch v := a.(type) {
		case *chart.Image:
			err = pn.addImage(v)
		case *chart.Line:
			thumb, err = pn.addLine(v)
		case *chart.PathCollection:
			thumb, err = pn.addScatter(v)
		case *chart.Rectangle:
			thumb, err = pn.addRectangle(v)
		case *chart.Circle:
			thumb, err = pn.addCircle(v)
		case *chart.Text:
			err = pn.addText(v)
		default:
			logger.Debug("cannot draw element", "kind", a.Kind())
		}
		if err != nil {
			return nil, err
		}
		if thumb != nil && ax.HasLegend() && legendVisible(a.Label()) {
			p.Legend.Add(a.Label(), thumb)
		}
	}
	p.Legend.Top = true

	setAxis(&p.X, xlo, xhi)
	setAxis(&p.Y, ylo, yhi)
	return p, nil
}

func legendVisible(label string) bool {
	return label != "" && !strings.HasPrefix(label, "_")
}

// setAxis fixes the axis range to the panel limits. Plotters widen the
// range as they are added, so this runs last.
func setAxis(a *plot.Axis, lo, hi float64) {
	if hi < lo {
		a.Min, a.Max = -lo, -hi
		a.Tick.Marker = negatedTicks{a.Tick.Marker}
		return
	}
	a.Min, a.Max = lo, hi
}

// negatedTicks labels a negated axis with the original values.
type negatedTicks struct {
	plot.Ticker
}

func (t negatedTicks) Ticks(min, max float64) []plot.Tick {
	ticks := t.Ticker.Ticks(-max, -min)
	for i := range ticks {
		ticks[i].Value = -ticks[i].Value
	}
	return ticks
}

// segments splits x/y into runs of finite points.
func (pn *panel) segments(x, y []float64) []plotter.XYs {
	var (
		out []plotter.XYs
		cur plotter.XYs
	)
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: pn.xm.at(x[i]), Y: pn.ym.at(y[i])})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func dashes(style chart.LineStyle) []vg.Length {
	var pattern []float64
	switch style {
	case chart.Dashed:
		pattern = []float64{3.7, 1.6}
	case chart.DashDot:
		pattern = []float64{6.4, 1.6, 1, 1.6}
	case chart.Dotted:
		pattern = []float64{1, 1.65}
	default:
		return nil
	}
	out := make([]vg.Length, len(pattern))
	for i, p := range pattern {
		out[i] = vg.Points(p * lineWidth)
	}
	return out
}

func (pn *panel) addLine(l *chart.Line) (plot.Thumbnailer, error) {
	if !l.LineStyle().Visible() {
		return nil, nil
	}
	style := draw.LineStyle{
		Color:  toColor(l.Color()),
		Width:  vg.Points(lineWidth),
		Dashes: dashes(l.LineStyle()),
	}
	var first *plotter.Line
	for _, seg := range pn.segments(l.XData(), l.YData()) {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return nil, err
		}
		line.LineStyle = style
		pn.plot.Add(line)
		if first == nil {
			first = line
		}
	}
	if first == nil {
		return nil, nil
	}
	return first, nil
}

func (pn *panel) addScatter(pc *chart.PathCollection) (plot.Thumbnailer, error) {
	var (
		xys   plotter.XYs
		index []int
	)
	for i, pt := range pc.Points() {
		if !finite(pt[0]) || !finite(pt[1]) {
			continue
		}
		xys = append(xys, plotter.XY{X: pn.xm.at(pt[0]), Y: pn.ym.at(pt[1])})
		index = append(index, i)
	}
	if len(xys) == 0 {
		return nil, nil
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	faces := pc.FaceColors()
	glyph := func(c color.Color) draw.GlyphStyle {
		return draw.GlyphStyle{Color: c, Radius: vg.Points(markerSize), Shape: draw.CircleGlyph{}}
	}
	s.GlyphStyle = glyph(color.Black)
	if len(faces) > 0 {
		s.GlyphStyle = glyph(toColor(faces[0]))
		s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return glyph(toColor(faces[index[i]%len(faces)]))
		}
	}
	pn.plot.Add(s)
	return s, nil
}

func (pn *panel) polygon(pts plotter.XYs, face chart.Color) (*plotter.Polygon, error) {
	for _, pt := range pts {
		if !finite(pt.X) || !finite(pt.Y) {
			return nil, nil
		}
	}
	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, err
	}
	poly.Color = toColor(face)
	poly.LineStyle.Width = 0
	pn.plot.Add(poly)
	return poly, nil
}

func (pn *panel) addRectangle(r *chart.Rectangle) (plot.Thumbnailer, error) {
	x0, x1 := pn.xm.at(r.X()), pn.xm.at(r.X()+r.Width())
	y0, y1 := pn.ym.at(r.Y()), pn.ym.at(r.Y()+r.Height())
	poly, err := pn.polygon(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}, r.FaceColor())
	if poly == nil {
		return nil, err
	}
	return poly, nil
}

func (pn *panel) addCircle(c *chart.Circle) (plot.Thumbnailer, error) {
	cx, cy := c.Center()
	pts := make(plotter.XYs, circleEdges)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / circleEdges
		pts[i] = plotter.XY{
			X: pn.xm.at(cx + c.Radius()*math.Cos(theta)),
			Y: pn.ym.at(cy + c.Radius()*math.Sin(theta)),
		}
	}
	poly, err := pn.polygon(pts, c.FaceColor())
	if poly == nil {
		return nil, err
	}
	return poly, nil
}

func (pn *panel) addText(t *chart.Text) error {
	x, y := t.Position()
	if !finite(x) || !finite(y) {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: pn.xm.at(x), Y: pn.ym.at(y)}},
		Labels: []string{t.Text()},
	})
	if err != nil {
		return err
	}
	pn.plot.Add(labels)
	return nil
}

// addImage places the raster so that row 0 lies on the top extent edge and
// column 0 on the left extent edge, whatever the axis directions.
func (pn *panel) addImage(im *chart.Image) error {
	ext := im.Extent()
	l, r := pn.xm.at(ext[0]), pn.xm.at(ext[1])
	b, t := pn.ym.at(ext[2]), pn.ym.at(ext[3])
	for _, v := range []float64{l, r, b, t} {
		if !finite(v) {
			pn.logger.Debug("skipping image with non-finite extent")
			return nil
		}
	}
	flipCols, flipRows := l > r, t < b
	img := rasterize(im, flipRows, flipCols, pn.logger)
	pn.plot.Add(plotter.NewImage(img, math.Min(l, r), math.Min(b, t), math.Max(l, r), math.Max(b, t)))
	return nil
}

// rasterize converts the image data to pixels. 2D data goes through the
// colormap; 3D data is read as RGB(A) in [0, 1], or [0, 255] when any value
// exceeds 1.
func rasterize(im *chart.Image, flipRows, flipCols bool, logger *log.Logger) *image.NRGBA {
	a := im.Array()
	rows, cols := a.Rows(), a.Cols()
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))

	var pixel func(r, c int) color.Color
	if a.Ndim() == 2 {
		vmin, vmax := im.Norm()
		cm, ok := Colormap(im.Cmap(), vmin, vmax)
		if !ok {
			logger.Debug("unknown colormap, using default", "cmap", im.Cmap(), "default", DefaultColormap)
		}
		pixel = func(r, c int) color.Color { return mapValue(cm, a.At(r, c)) }
	} else {
		scale := 1.0
		if _, hi, ok := a.MinMax(); ok && hi > 1 {
			scale = 255
		}
		channels := a.Channels()
		pixel = func(r, c int) color.Color {
			ch := [4]float64{0, 0, 0, 1}
			for k := range channels {
				ch[k] = a.At(r, c, k) / scale
			}
			return color.NRGBA{R: unit8(ch[0]), G: unit8(ch[1]), B: unit8(ch[2]), A: unit8(ch[3])}
		}
	}

	for r := range rows {
		for c := range cols {
			y, x := r, c
			if flipRows {
				y = rows - 1 - r
			}
			if flipCols {
				x = cols - 1 - c
			}
			img.Set(x, y, pixel(r, c))
		}
	}
	return img
}

func unit8(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func toColor(c chart.Color) color.Color {
	if c.IsZero() {
		return color.Black
	}
	nc, err := c.NRGBA()
	if err != nil {
		return color.Black
	}
	return nc
}
