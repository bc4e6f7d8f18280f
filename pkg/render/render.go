package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/matzehuels/editplot/pkg/chart"
	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatJPG  = "jpg"
	FormatTIFF = "tiff"
	FormatTIF  = "tif"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatEPS  = "eps"
)

// Formats lists the supported output formats.
var Formats = []string{FormatPNG, FormatJPEG, FormatJPG, FormatTIFF, FormatTIF, FormatSVG, FormatPDF, FormatEPS}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatJPG:  "image/jpeg",
	FormatTIFF: "image/tiff",
	FormatTIF:  "image/tiff",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatEPS:  "application/postscript",
}

// ContentType returns the MIME type for a supported format, or
// "application/octet-stream".
func ContentType(format string) string {
	if ct, ok := contentTypes[normalizeFormat(format)]; ok {
		return ct
	}
	return "application/octet-stream"
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(format, "."))
}

// Layout constants, in points.
const (
	tightPad     = 4
	loosePad     = 18
	colorbarSize = 54
	colorbarGap  = 6
)

// Render draws fig to w in the configured format.
//
// Every panel becomes one plot, aligned on a grid of tiles the shape of the
// figure's grid. A panel with a colorbar gives up a strip on its right edge
// for it. Panels with an equal or numeric aspect are shrunk to match it.
func Render(fig *chart.Figure, w io.Writer, opts ...Option) error {
	r := newRenderer(opts)
	format := normalizeFormat(r.format)
	if err := perrors.ValidateFormat(format, Formats); err != nil {
		return err
	}
	if fig == nil {
		return perrors.New(perrors.ErrCodeInvalidInput, "figure cannot be nil")
	}
	if format == FormatEPS && hasImages(fig) {
		return perrors.New(perrors.ErrCodeUnsupported, "eps output cannot embed images")
	}

	c := newCanvas(format, fig, r.scale)
	if err := r.drawFigure(fig, draw.New(c)); err != nil {
		return err
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// RenderBytes is [Render] into memory.
func RenderBytes(fig *chart.Figure, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(fig, &buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save renders fig to path. The format comes from the file extension unless
// [WithFormat] is given.
func Save(fig *chart.Figure, path string, opts ...Option) error {
	if err := perrors.ValidateOutputPath(path); err != nil {
		return err
	}
	opts = append([]Option{WithFormat(filepath.Ext(path))}, opts...)
	data, err := RenderBytes(fig, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func hasImages(fig *chart.Figure) bool {
	for _, ax := range fig.Grid().Axes() {
		if ax != nil && len(ax.Images()) > 0 {
			return true
		}
	}
	return false
}

func newCanvas(format string, fig *chart.Figure, scale float64) vg.CanvasWriterTo {
	fw, fh := fig.Size()
	w, h := vg.Length(fw)*vg.Inch, vg.Length(fh)*vg.Inch
	raster := func() *vgimg.Canvas {
		dpi := max(1, int(math.Round(vgimg.DefaultDPI*scale)))
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	}
	switch format {
	case FormatJPEG, FormatJPG:
		return vgimg.JpegCanvas{Canvas: raster()}
	case FormatTIFF, FormatTIF:
		return vgimg.TiffCanvas{Canvas: raster()}
	case FormatSVG:
		return vgsvg.New(w, h)
	case FormatPDF:
		return vgpdf.New(w, h)
	case FormatEPS:
		return vgeps.New(w, h)
	default:
		return vgimg.PngCanvas{Canvas: raster()}
	}
}

func (r renderer) drawFigure(fig *chart.Figure, dc draw.Canvas) error {
	g := fig.Grid()
	rows, cols := g.Shape()
	plots := make([][]*plot.Plot, rows)
	bars := make([][]*plot.Plot, rows)
	for row := range rows {
		plots[row] = make([]*plot.Plot, cols)
		bars[row] = make([]*plot.Plot, cols)
		for col := range cols {
			ax := g.At(row, col)
			if ax == nil {
				continue
			}
			p, err := newPanel(ax, r.logger)
			if err != nil {
				return fmt.Errorf("panel (%d, %d): %w", row, col, err)
			}
			plots[row][col] = p
			if cb, ok := fig.ColorbarFor(ax); ok {
				bars[row][col] = newColorbar(cb.Image)
			}
		}
	}

	pad := vg.Points(loosePad)
	if fig.Tight() {
		pad = vg.Points(tightPad)
	}
	tiles := draw.Tiles{
		Rows: rows, Cols: cols,
		PadTop: pad, PadBottom: pad, PadLeft: pad, PadRight: pad,
		PadX: 2 * pad, PadY: 2 * pad,
	}
	canvases := plot.Align(plots, tiles, dc)
	for row := range rows {
		for col := range cols {
			p := plots[row][col]
			if p == nil {
				continue
			}
			c := canvases[row][col]
			if bar := bars[row][col]; bar != nil {
				var strip draw.Canvas
				c, strip = splitColorbar(c)
				bar.Draw(strip)
			}
			if ratio, ok := g.At(row, col).Aspect().Ratio(); ok {
				c = fitAspect(c, ratio, p.X.Max-p.X.Min, p.Y.Max-p.Y.Min)
			}
			p.Draw(c)
		}
	}
	r.logger.Debug("rendered figure", "id", fig.ID(), "rows", rows, "cols", cols)
	return nil
}

// splitColorbar cuts a strip off the right edge of c.
func splitColorbar(c draw.Canvas) (main, strip draw.Canvas) {
	width := c.Max.X - c.Min.X
	size := vg.Points(colorbarSize)
	if width < 3*size {
		size = width / 3
	}
	main = draw.Crop(c, 0, -size-vg.Points(colorbarGap), 0, 0)
	strip = draw.Crop(c, width-size, 0, 0, 0)
	return main, strip
}

// colorbarSteps is the number of color samples in a colorbar strip.
const colorbarSteps = 256

// newColorbar draws the colormap of im as an 8-bit strip spanning the image
// norm, lowest value at the bottom. The PDF backend cannot embed the 16-bit
// rasters plotter.ColorBar produces.
func newColorbar(im *chart.Image) *plot.Plot {
	vmin, vmax := im.Norm()
	cm, _ := Colormap(im.Cmap(), vmin, vmax)
	lo, hi := cm.Min(), cm.Max()

	strip := image.NewNRGBA(image.Rect(0, 0, 1, colorbarSteps))
	for i := range colorbarSteps {
		v := lo + (hi-lo)*(float64(i)+0.5)/colorbarSteps
		strip.Set(0, colorbarSteps-1-i, mapValue(cm, v))
	}

	p := plot.New()
	p.Add(plotter.NewImage(strip, 0, lo, 1, hi))
	p.HideX()
	p.Y.Padding = 0
	return p
}

// fitAspect shrinks c around its center so that one y unit is ratio times
// one x unit on screen.
func fitAspect(c draw.Canvas, ratio, xspan, yspan float64) draw.Canvas {
	if !(xspan > 0) || !(yspan > 0) || !(ratio > 0) {
		return c
	}
	w, h := float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y)
	want := ratio * yspan / xspan
	if h/w > want {
		d := vg.Length((h - w*want) / 2)
		return draw.Crop(c, 0, 0, d, -d)
	}
	d := vg.Length((w - h/want) / 2)
	return draw.Crop(c, d, -d, 0, 0)
}
