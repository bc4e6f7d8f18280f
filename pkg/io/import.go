package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/editplot/pkg/chart"
	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// ReadJSON decodes a document from r.
//
// Malformed JSON is returned as a decode error wrapping the parser error.
// Well-formed JSON with the wrong structure (an object instead of an array,
// a malformed color or subplot_index) is an INVALID_DOCUMENT error. Unknown
// fields are ignored and missing arrays decode as empty.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		var perr *perrors.Error
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &perr) || errors.As(err, &typeErr) {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "decode")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}

// Build creates a figure from doc and repopulates its panels.
//
// The grid is sized from the largest subplot_index on each axis; positions
// no record names stay empty. Each panel receives, in order, its lines,
// scatter collections, rectangles, images (each with a colorbar), metadata
// and legend, and has grid lines turned on. The figure then gets a tight
// layout and is handed to the [WithDisplay] displayer, if any.
//
// An empty document is not an error: Build logs "no data to plot" and
// returns nil values. A record without subplot_index fails with MISSING_KEY
// before any figure is created.
func Build(doc Document, opts ...Option) (*chart.Figure, *chart.Grid, error) {
	cfg := newConfig(opts)
	if len(doc) == 0 {
		cfg.logger.Warn("no data to plot")
		return nil, nil, nil
	}

	rows, cols := 0, 0
	for i, p := range doc {
		if p.SubplotIndex == nil {
			return nil, nil, perrors.New(perrors.ErrCodeMissingKey, "panel %d: missing subplot_index", i)
		}
		r, c := p.SubplotIndex.Row(), p.SubplotIndex.Col()
		if err := perrors.ValidateSubplotIndex(r, c); err != nil {
			return nil, nil, fmt.Errorf("panel %d: %w", i, err)
		}
		rows, cols = max(rows, r+1), max(cols, c+1)
	}

	fig, grid := chart.Subplots(rows, cols,
		chart.WithSize(cfg.panelWidth*float64(cols), cfg.panelHeight*float64(rows)))
	for i, p := range doc {
		ax := grid.At(p.SubplotIndex.Row(), p.SubplotIndex.Col())
		if err := populate(fig, ax, p); err != nil {
			return nil, nil, perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "panel %d", i)
		}
	}
	cfg.logger.Debug("built figure", "rows", rows, "cols", cols, "records", len(doc))

	fig.TightLayout()
	if err := fig.Show(cfg.display); err != nil {
		return fig, grid, fmt.Errorf("display: %w", err)
	}
	return fig, grid, nil
}

func populate(fig *chart.Figure, ax *chart.Axes, p Panel) error {
	for i, lr := range p.Lines {
		if len(lr.XData) != len(lr.YData) {
			return perrors.New(perrors.ErrCodeLengthMismatch,
				"line %d: x_data has %d values, y_data has %d", i, len(lr.XData), len(lr.YData))
		}
		opts := []chart.Option{chart.WithLabel(lr.Label)}
		if !lr.Color.IsZero() {
			opts = append(opts, chart.WithColor(lr.Color))
		}
		if lr.LineStyle != "" {
			opts = append(opts, chart.WithLineStyle(lr.LineStyle))
		}
		if _, err := ax.Plot(fromFloats(lr.XData), fromFloats(lr.YData), opts...); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}

	for i, cr := range p.Collections {
		x := make([]float64, len(cr.DataOffsets))
		y := make([]float64, len(cr.DataOffsets))
		for j, off := range cr.DataOffsets {
			if len(off) != 2 {
				return perrors.New(perrors.ErrCodeInvalidShape,
					"collection %d: offset %d has %d values, want 2", i, j, len(off))
			}
			x[j], y[j] = float64(off[0]), float64(off[1])
		}
		opts := []chart.Option{chart.WithLabel(cr.Label)}
		if len(cr.FaceColors) > 0 {
			opts = append(opts, chart.WithColors(cr.FaceColors...))
		}
		if _, err := ax.Scatter(x, y, opts...); err != nil {
			return fmt.Errorf("collection %d: %w", i, err)
		}
	}

	for i, pr := range p.Patches {
		opts := []chart.Option{chart.WithLabel(pr.Label)}
		if !pr.FaceColor.IsZero() {
			opts = append(opts, chart.WithColor(pr.FaceColor))
		}
		rect, err := chart.NewRectangle(float64(pr.X), float64(pr.Y), float64(pr.Width), float64(pr.Height), opts...)
		if err != nil {
			return fmt.Errorf("patch %d: %w", i, err)
		}
		ax.AddPatch(rect)
	}

	for i, ir := range p.Images {
		opts, err := imageOptions(ir)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		im, err := ax.Imshow(ir.DataArray.Array, opts...)
		if err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
		fig.Colorbar(im, ax)
	}

	md := p.Metadata
	if md.Title != "" {
		ax.SetTitle(md.Title)
	}
	if md.XLabel != "" {
		ax.SetXLabel(md.XLabel)
	}
	if md.YLabel != "" {
		ax.SetYLabel(md.YLabel)
	}
	if md.XLim != nil {
		ax.SetXLim(float64(md.XLim[0]), float64(md.XLim[1]))
	}
	if md.YLim != nil {
		ax.SetYLim(float64(md.YLim[0]), float64(md.YLim[1]))
	}
	if len(md.Legend) > 0 {
		ax.Legend()
	}
	ax.Grid(true)
	return nil
}

func imageOptions(ir ImageRecord) ([]chart.Option, error) {
	var opts []chart.Option
	if ir.Cmap != "" {
		opts = append(opts, chart.WithCmap(ir.Cmap))
	}
	if ir.Interpolation != "" {
		opts = append(opts, chart.WithInterpolation(ir.Interpolation))
	}
	if ir.VMin != nil || ir.VMax != nil {
		lo, hi, ok := ir.DataArray.MinMax()
		if !ok {
			lo, hi = 0, 1
		}
		if ir.VMin != nil {
			lo = float64(*ir.VMin)
		}
		if ir.VMax != nil {
			hi = float64(*ir.VMax)
		}
		opts = append(opts, chart.WithNorm(lo, hi))
	}
	if ir.Extent != nil {
		if len(ir.Extent) != 4 {
			return nil, perrors.New(perrors.ErrCodeInvalidShape, "extent has %d values, want 4", len(ir.Extent))
		}
		opts = append(opts, chart.WithExtent([4]float64{
			float64(ir.Extent[0]), float64(ir.Extent[1]), float64(ir.Extent[2]), float64(ir.Extent[3]),
		}))
	}
	if !ir.Aspect.IsZero() {
		opts = append(opts, chart.WithAspect(ir.Aspect))
	}
	return opts, nil
}

// ImportJSON reads the document at path and builds it with [Build].
func ImportJSON(path string, opts ...Option) (*chart.Figure, *chart.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadJSON(f)
	if err != nil {
		return nil, nil, err
	}
	return Build(doc, opts...)
}
