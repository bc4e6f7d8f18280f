package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/editplot/pkg/chart"
)

// Report summarizes an export.
type Report struct {
	// Panels is the number of panel records written.
	Panels int
	// Dropped counts skipped artists by kind, e.g. {"text": 2}.
	Dropped map[string]int
}

// DroppedTotal returns the number of skipped artists.
func (r Report) DroppedTotal() int {
	n := 0
	for _, c := range r.Dropped {
		n += c
	}
	return n
}

// Extract converts every panel of g into a record, row-major. Lines, scatter
// collections, rectangles and images are recorded; other artists are skipped
// and counted in the report.
func Extract(g *chart.Grid, opts ...Option) (Document, Report) {
	cfg := newConfig(opts)
	rows, cols := g.Shape()
	doc := make(Document, 0, rows*cols)
	rep := Report{Dropped: map[string]int{}}

	for r := range rows {
		for c := range cols {
			ax := g.At(r, c)
			if ax == nil {
				continue
			}
			doc = append(doc, extractPanel(ax, r, c, &rep))
		}
	}
	rep.Panels = len(doc)

	for _, kind := range slices.Sorted(maps.Keys(rep.Dropped)) {
		cfg.logger.Debug("skipped unsupported elements", "kind", kind, "count", rep.Dropped[kind])
	}
	return doc, rep
}

func extractPanel(ax *chart.Axes, row, col int, rep *Report) Panel {
	p := Panel{
		Lines:        []LineRecord{},
		Collections:  []CollectionRecord{},
		Patches:      []PatchRecord{},
		Images:       []ImageRecord{},
		SubplotIndex: &Index{row, col},
	}

	for _, a := range ax.Children() {
		switch v := a.(type) {
		case *chart.Line:
			p.Lines = append(p.Lines, LineRecord{
				XData:     toFloats(v.XData()),
				YData:     toFloats(v.YData()),
				Label:     v.Label(),
				Color:     v.Color(),
				LineStyle: string(v.LineStyle()),
			})
		case *chart.PathCollection:
			pts := v.Points()
			offsets := make([][]Float, len(pts))
			for i, pt := range pts {
				offsets[i] = []Float{Float(pt[0]), Float(pt[1])}
			}
			p.Collections = append(p.Collections, CollectionRecord{
				DataOffsets: offsets,
				Label:       v.Label(),
				FaceColors:  slices.Clone(v.FaceColors()),
			})
		case *chart.Rectangle:
			p.Patches = append(p.Patches, PatchRecord{
				X:         Float(v.X()),
				Y:         Float(v.Y()),
				Width:     Float(v.Width()),
				Height:    Float(v.Height()),
				Label:     v.Label(),
				FaceColor: v.FaceColor(),
			})
		case *chart.Image:
			vmin, vmax := v.Norm()
			ext := v.Extent()
			p.Images = append(p.Images, ImageRecord{
				DataArray:     NDArray{v.Array()},
				Cmap:          v.Cmap(),
				Interpolation: v.Interpolation(),
				VMin:          ptr(Float(vmin)),
				VMax:          ptr(Float(vmax)),
				Extent:        toFloats(ext[:]),
				Aspect:        ax.Aspect(),
			})
		default:
			rep.Dropped[a.Kind()]++
		}
	}

	xlo, xhi := ax.XLim()
	ylo, yhi := ax.YLim()
	p.Metadata = Metadata{
		XLabel: ax.XLabel(),
		YLabel: ax.YLabel(),
		XLim:   &[2]Float{Float(xlo), Float(xhi)},
		YLim:   &[2]Float{Float(ylo), Float(yhi)},
	}
	if ax.HasLegend() {
		p.Metadata.Legend = ax.LegendEntries()
	}
	p.Metadata.Title = ax.Title()
	return p
}

func ptr[T any](v T) *T { return &v }

// WriteJSON extracts g and writes the document to w with 2-space indentation.
// With [WithPretty] a 4-space copy is echoed as well.
func WriteJSON(g *chart.Grid, w io.Writer, opts ...Option) error {
	cfg := newConfig(opts)
	doc, _ := Extract(g, opts...)
	return writeDocument(doc, w, cfg)
}

// WriteDocument writes an already extracted document to w.
func WriteDocument(doc Document, w io.Writer, opts ...Option) error {
	return writeDocument(doc, w, newConfig(opts))
}

func writeDocument(doc Document, w io.Writer, cfg config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if cfg.pretty != nil {
		echoPretty(cfg.pretty, doc)
	}
	return nil
}

// echoPretty never fails: if the document cannot be encoded it falls back
// to Go value formatting.
func echoPretty(w io.Writer, doc Document) {
	b, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		fmt.Fprintf(w, "%+v\n", doc)
		return
	}
	fmt.Fprintf(w, "%s\n", b)
}

// ExportJSON writes the document for g to a file at path, creating or
// truncating it.
func ExportJSON(g *chart.Grid, path string, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJSON(g, f, opts...); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	newConfig(opts).logger.Debug("exported figure", "path", path, "panels", g.Len())
	return nil
}
