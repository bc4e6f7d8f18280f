package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/editplot/pkg/chart"
	perrors "github.com/matzehuels/editplot/pkg/errors"
)

var docOpts = cmp.Options{
	cmp.Comparer(func(a, b Float) bool {
		x, y := float64(a), float64(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.IsNaN(x) && math.IsNaN(y)
		}
		return x == y || math.Abs(x-y) <= 1e-9
	}),
	cmp.Comparer(func(a, b chart.Color) bool {
		return a.IsTuple() == b.IsTuple() && a.String() == b.String()
	}),
	cmp.Comparer(func(a, b chart.Aspect) bool { return a == b }),
	cmpopts.EquateEmpty(),
}

type recorder struct {
	figs []*chart.Figure
}

func (r *recorder) Display(f *chart.Figure) error {
	r.figs = append(r.figs, f)
	return nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// sampleGrid fills a rows×cols grid, cycling through four kinds of panel.
func sampleGrid(t *testing.T, rows, cols int) *chart.Grid {
	t.Helper()
	_, g := chart.Subplots(rows, cols)
	g.Each(func(r, c int, ax *chart.Axes) {
		switch (r*cols + c) % 4 {
		case 0:
			must(ax.Plot([]float64{1, 2, math.NaN(), 4}, []float64{1, math.Inf(1), 3, 4},
				chart.WithLabel("signal"), chart.WithColor(chart.Named("red")), chart.WithLineStyle("--")))
			must(ax.Plot([]float64{0, 1}, []float64{0, 1},
				chart.WithLabel("ref"), chart.WithColor(chart.RGBA(0, 0, 1, 0.5)), chart.WithLineStyle(":")))
			ax.SetTitle("lines")
			ax.SetXLabel("time")
			ax.SetYLabel("value")
			ax.Legend()
		case 1:
			must(ax.Scatter([]float64{1, 2, 3}, []float64{3, 1, 2},
				chart.WithColors(chart.Named("red"), chart.Named("green"), chart.Named("blue")),
				chart.WithLabel("points")))
			must(ax.Scatter([]float64{0.5}, []float64{0.5}))
		case 2:
			must(ax.Bar([]float64{1, 2}, []float64{3, -1}))
			ax.AddPatch(must(chart.NewRectangle(0, 0, 2, 1, chart.WithColor(chart.Named("0.5")))))
			ax.SetYLim(-2, 5)
		case 3:
			a := must(chart.ArrayFromRows([][]float64{{0, 1, 2}, {3, 4, math.NaN()}}))
			must(ax.Imshow(a, chart.WithCmap("plasma"), chart.WithNorm(0, 10)))
			rgb := must(chart.NewArray([]float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 1, 1, 1}, 2, 2, 3))
			must(ax.Imshow(rgb, chart.WithExtent([4]float64{0, 4, 0, 4}), chart.WithAspect(chart.AspectAuto)))
		}
	})
	return g
}

func TestRoundTripGridShapes(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		kind       chart.Kind
	}{
		{"single", 1, 1, chart.KindSingle},
		{"row", 1, 4, chart.KindRow},
		{"column", 3, 1, chart.KindColumn},
		{"matrix", 2, 2, chart.KindMatrix},
		{"wide matrix", 2, 3, chart.KindMatrix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGrid(t, tt.rows, tt.cols)
			var buf bytes.Buffer
			if err := WriteJSON(g, &buf); err != nil {
				t.Fatalf("WriteJSON: %v", err)
			}
			doc, err := ReadJSON(&buf)
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if len(doc) != tt.rows*tt.cols {
				t.Fatalf("document has %d records, want %d", len(doc), tt.rows*tt.cols)
			}

			rec := &recorder{}
			fig, g2, err := Build(doc, WithDisplay(rec))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(rec.figs) != 1 || rec.figs[0] != fig {
				t.Fatal("figure was not displayed exactly once")
			}
			if !fig.Tight() {
				t.Error("imported figure should use a tight layout")
			}
			if r, c := g2.Shape(); r != tt.rows || c != tt.cols || g2.Kind() != tt.kind {
				t.Fatalf("imported grid = (%d, %d) %v", r, c, g2.Kind())
			}

			want, _ := Extract(g)
			got, _ := Extract(g2)
			if diff := cmp.Diff(want, got, docOpts); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConcreteOneByTwo(t *testing.T) {
	_, g := chart.Subplots(1, 2)
	must(g.At(0, 0).Plot([]float64{1, 2, 3}, []float64{4, 5, 6}))
	must(g.At(0, 1).Bar([]float64{1, 2, 3}, []float64{4, 5, 6}))

	path := filepath.Join(t.TempDir(), "figure.json")
	if err := ExportJSON(g, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not a JSON array of objects: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("got %d records", len(raw))
	}
	for i, rec := range raw {
		for _, key := range []string{"lines", "collections", "patches", "images", "metadata", "subplot_index"} {
			if _, ok := rec[key]; !ok {
				t.Errorf("record %d missing %q", i, key)
			}
		}
	}

	doc, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if *doc[0].SubplotIndex != (Index{0, 0}) || *doc[1].SubplotIndex != (Index{0, 1}) {
		t.Errorf("indices = %v, %v", *doc[0].SubplotIndex, *doc[1].SubplotIndex)
	}
	if len(doc[0].Lines) != 1 || len(doc[0].Patches) != 0 {
		t.Errorf("left panel = %d lines, %d patches", len(doc[0].Lines), len(doc[0].Patches))
	}
	if got := fromFloats(doc[0].Lines[0].YData); !slices.Equal(got, []float64{4, 5, 6}) {
		t.Errorf("y_data = %v", got)
	}
	if len(doc[1].Lines) != 0 || len(doc[1].Patches) != 3 {
		t.Errorf("right panel = %d lines, %d patches", len(doc[1].Lines), len(doc[1].Patches))
	}
	first := doc[1].Patches[0]
	if diff := cmp.Diff(PatchRecord{X: 0.6, Y: 0, Width: 0.8, Height: 4}, first, docOpts,
		cmpopts.IgnoreFields(PatchRecord{}, "Label", "FaceColor")); diff != "" {
		t.Errorf("first bar (-want +got):\n%s", diff)
	}

	fig, g2, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if w, h := fig.Size(); w != 10 || h != 4 {
		t.Errorf("figure size = %gx%g, want 10x4", w, h)
	}
	if len(g2.At(0, 0).Lines()) != 1 || len(g2.At(0, 1).Patches()) != 3 {
		t.Error("imported panels do not match the exported ones")
	}
	if !g2.At(0, 0).GridOn() {
		t.Error("imported panels should show grid lines")
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	var logs bytes.Buffer
	rec := &recorder{}
	fig, g, err := Build(Document{}, WithLogger(log.New(&logs)), WithDisplay(rec))
	if err != nil || fig != nil || g != nil {
		t.Fatalf("Build(empty) = %v, %v, %v", fig, g, err)
	}
	if !strings.Contains(logs.String(), "no data to plot") {
		t.Errorf("expected warning, got %q", logs.String())
	}
	if len(rec.figs) != 0 {
		t.Error("nothing should be displayed")
	}

	doc, err := ReadJSON(strings.NewReader("[]"))
	if err != nil {
		t.Fatal(err)
	}
	if fig, _, _ := Build(doc, WithLogger(log.New(&logs))); fig != nil {
		t.Error("empty array should produce no figure")
	}
}

func TestBuildSparseOutOfOrder(t *testing.T) {
	in := `[
		{"lines": [{"x_data": [0, 1], "y_data": [1, 0], "label": "late", "color": "k", "linestyle": "-"}],
		 "subplot_index": [1, 1]},
		{"metadata": {"title": "first"}, "subplot_index": [0, 0]}
	]`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	fig, g, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	if r, c := g.Shape(); r != 2 || c != 2 {
		t.Fatalf("shape = (%d, %d), want (2, 2)", r, c)
	}
	if w, h := fig.Size(); w != 10 || h != 8 {
		t.Errorf("size = %gx%g", w, h)
	}
	if g.At(0, 0).Title() != "first" || len(g.At(1, 1).Lines()) != 1 {
		t.Error("records landed in the wrong panels")
	}
	for _, pos := range [][2]int{{0, 1}, {1, 0}} {
		if ax := g.At(pos[0], pos[1]); !ax.IsEmpty() || ax.GridOn() {
			t.Errorf("panel %v should be an untouched default panel", pos)
		}
	}
}

func TestBuildColumnIndices(t *testing.T) {
	in := `[{"subplot_index": [0, 0]}, {"subplot_index": [1, 0]}, {"subplot_index": [2, 0]}]`
	doc := must(ReadJSON(strings.NewReader(in)))
	_, g, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	if g.Kind() != chart.KindColumn {
		t.Errorf("kind = %v, want column", g.Kind())
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code perrors.Code
	}{
		{"missing subplot_index", `[{"lines": []}]`, perrors.ErrCodeMissingKey},
		{"negative index", `[{"subplot_index": [-1, 0]}]`, perrors.ErrCodeInvalidDocument},
		{"line length mismatch",
			`[{"lines": [{"x_data": [1, 2, 3], "y_data": [1]}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeLengthMismatch},
		{"bad offset row",
			`[{"collections": [{"data_offsets": [[1, 2, 3]]}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidShape},
		{"bad color",
			`[{"lines": [{"x_data": [1], "y_data": [1], "color": "nope"}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidColor},
		{"bad linestyle",
			`[{"lines": [{"x_data": [1], "y_data": [1], "linestyle": "~"}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidLineStyle},
		{"1D image",
			`[{"images": [{"data_array": [1, 2, 3]}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidArray},
		{"empty image",
			`[{"images": [{"data_array": []}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidArray},
		{"image with empty rows",
			`[{"images": [{"data_array": [[], []]}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidArray},
		{"short extent",
			`[{"images": [{"data_array": [[1]], "extent": [0, 1]}], "subplot_index": [0, 0]}]`,
			perrors.ErrCodeInvalidShape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadJSON(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			rec := &recorder{}
			fig, _, err := Build(doc, WithDisplay(rec))
			if !perrors.Is(err, tt.code) {
				t.Fatalf("Build error = %v, want %s", err, tt.code)
			}
			if fig != nil || len(rec.figs) != 0 {
				t.Error("failed build should not produce or display a figure")
			}
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[{"lines": [}`))
	var syntax *json.SyntaxError
	if !errors.As(err, &syntax) {
		t.Errorf("malformed JSON error = %v, want *json.SyntaxError", err)
	}

	for _, in := range []string{
		`{"lines": []}`,
		`[{"subplot_index": [0]}]`,
		`[{"subplot_index": "0,0"}]`,
		`[{"lines": [{"color": [1, 2]}], "subplot_index": [0, 0]}]`,
		`[{"images": [{"data_array": [[1, 2], [3]]}], "subplot_index": [0, 0]}]`,
	} {
		if _, err := ReadJSON(strings.NewReader(in)); !perrors.Is(err, perrors.ErrCodeInvalidDocument) {
			t.Errorf("ReadJSON(%s) error = %v, want INVALID_DOCUMENT", in, err)
		}
	}
}

func TestReadJSONIgnoresUnknownFields(t *testing.T) {
	in := `[{"subplot_index": [0, 0], "texts": ["ignored"], "metadata": {"zorder": 3, "title": "t"}}]`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if doc[0].Metadata.Title != "t" || doc[0].Lines != nil {
		t.Errorf("unexpected panel %+v", doc[0])
	}
	if _, _, err := Build(doc); err != nil {
		t.Errorf("Build: %v", err)
	}
}

func TestBuildIdempotentTitle(t *testing.T) {
	doc := Document{{
		Metadata:     Metadata{Title: "twice"},
		SubplotIndex: &Index{0, 0},
	}}
	for range 2 {
		_, g, err := Build(doc)
		if err != nil {
			t.Fatal(err)
		}
		if g.At(0, 0).Title() != "twice" {
			t.Errorf("title = %q", g.At(0, 0).Title())
		}
		out, _ := Extract(g)
		if out[0].Metadata.Title != "twice" {
			t.Errorf("re-exported title = %q", out[0].Metadata.Title)
		}
	}
}

func TestExtractDroppedKinds(t *testing.T) {
	_, g := chart.Subplots(1, 1)
	ax := g.At(0, 0)
	ax.Text(0, 0, "a")
	ax.Text(1, 1, "b")
	ax.AddPatch(must(chart.NewCircle(0, 0, 1)))
	must(ax.Plot([]float64{1}, []float64{1}))

	var logs bytes.Buffer
	logger := log.New(&logs)
	logger.SetLevel(log.DebugLevel)
	doc, rep := Extract(g, WithLogger(logger))
	if rep.Panels != 1 || len(doc[0].Lines) != 1 || len(doc[0].Patches) != 0 {
		t.Errorf("unexpected extraction: %+v", rep)
	}
	if diff := cmp.Diff(map[string]int{"text": 2, "circle": 1}, rep.Dropped); diff != "" {
		t.Errorf("Dropped (-want +got):\n%s", diff)
	}
	if rep.DroppedTotal() != 3 {
		t.Errorf("DroppedTotal() = %d", rep.DroppedTotal())
	}
	if !strings.Contains(logs.String(), "kind=circle") || !strings.Contains(logs.String(), "kind=text") {
		t.Errorf("dropped kinds not logged: %q", logs.String())
	}
}

func TestExtractMetadataPresence(t *testing.T) {
	_, g := chart.Subplots(1, 2)
	g.At(0, 1).SetTitle("titled")
	g.At(0, 1).Legend()

	doc, _ := Extract(g)
	bare := doc[0].Metadata
	if bare.Title != "" || bare.XLabel != "" || bare.Legend != nil {
		t.Errorf("bare panel metadata = %+v", bare)
	}
	if bare.XLim == nil || bare.YLim == nil || *bare.XLim != [2]Float{0, 1} {
		t.Errorf("bare panel limits = %v, %v", bare.XLim, bare.YLim)
	}

	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		t.Fatal(err)
	}
	var raw []struct {
		Metadata map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw[0].Metadata["title"]; ok {
		t.Error("empty title should be omitted")
	}
	if _, ok := raw[0].Metadata["legend"]; ok {
		t.Error("inactive legend should be omitted")
	}
	if raw[1].Metadata["title"] != "titled" {
		t.Errorf("title = %v", raw[1].Metadata["title"])
	}
}

func TestNonFiniteRoundTrip(t *testing.T) {
	_, g := chart.Subplots(1, 1)
	must(g.At(0, 0).Plot(
		[]float64{math.NaN(), 1, math.Inf(-1)},
		[]float64{math.Inf(1), 2, 3}))

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"NaN"`) || !strings.Contains(buf.String(), `"-Infinity"`) {
		t.Errorf("non-finite values not encoded: %s", buf.String())
	}
	_, g2, err := Build(must(ReadJSON(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	l := g2.At(0, 0).Lines()[0]
	want := []float64{math.NaN(), 1, math.Inf(-1)}
	if diff := cmp.Diff(want, l.XData(), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("x_data (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{math.Inf(1), 2, 3}, l.YData(), cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("y_data (-want +got):\n%s", diff)
	}
}

func TestFloatJSON(t *testing.T) {
	var vals []Float
	if err := json.Unmarshal([]byte(`[1.5, "NaN", "Infinity", "-Infinity", null, "inf"]`), &vals); err != nil {
		t.Fatal(err)
	}
	if vals[0] != 1.5 || !math.IsNaN(float64(vals[1])) || !math.IsInf(float64(vals[2]), 1) ||
		!math.IsInf(float64(vals[3]), -1) || !math.IsNaN(float64(vals[4])) || !math.IsInf(float64(vals[5]), 1) {
		t.Errorf("decoded %v", vals)
	}
	var f Float
	if err := json.Unmarshal([]byte(`"many"`), &f); err == nil {
		t.Error("non-numeric string should fail")
	}
}

func TestNDArrayJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		shape []int
	}{
		{"matrix", `[[1,2,3],[4,5,6]]`, []int{2, 3}},
		{"rgb", `[[[1,0,0],[0,1,0]]]`, []int{1, 2, 3}},
		{"with nan", `[["NaN",1]]`, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NDArray
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(a.Shape(), tt.shape) {
				t.Errorf("shape = %v, want %v", a.Shape(), tt.shape)
			}
			out, err := json.Marshal(a)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.in {
				t.Errorf("Marshal = %s, want %s", out, tt.in)
			}
		})
	}

	for _, in := range []string{`[[1,2],[3]]`, `[[1,2],3]`, `[1,[2]]`, `5`, `[["x"]]`} {
		var a NDArray
		if err := json.Unmarshal([]byte(in), &a); err == nil {
			t.Errorf("Unmarshal(%s) should fail", in)
		}
	}
}

func TestWithPretty(t *testing.T) {
	_, g := chart.Subplots(1, 1)
	must(g.At(0, 0).Plot([]float64{1}, []float64{2}))
	var out, echo bytes.Buffer
	if err := WriteJSON(g, &out, WithPretty(&echo)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "\n  {") {
		t.Errorf("file output should use 2-space indentation:\n%s", out.String())
	}
	if !strings.Contains(echo.String(), "\n    {") {
		t.Errorf("echo should use 4-space indentation:\n%s", echo.String())
	}
}

func TestExportJSONCreateError(t *testing.T) {
	_, g := chart.Subplots(1, 1)
	path := filepath.Join(t.TempDir(), "missing", "figure.json")
	err := ExportJSON(g, path)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ExportJSON error = %v, want fs.ErrNotExist", err)
	}
	if _, _, err := ImportJSON(path); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ImportJSON error = %v, want fs.ErrNotExist", err)
	}
}

func TestImportExampleDocument(t *testing.T) {
	const path = "../../examples/figure.json"
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	in, err := ReadJSON(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	_, g, err := ImportJSON(path, WithDisplay(rec), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if rows, cols := g.Shape(); rows != 1 || cols != 2 {
		t.Fatalf("grid shape = %d×%d, want 1×2", rows, cols)
	}
	if len(rec.figs) != 1 {
		t.Errorf("figure displayed %d times, want 1", len(rec.figs))
	}

	out, rep := Extract(g)
	if rep.Panels != 2 || rep.DroppedTotal() != 0 {
		t.Fatalf("report = %+v", rep)
	}
	// Face colors come back resolved to RGBA tuples.
	rgbaOpts := cmp.Options{
		docOpts[0],
		cmp.Comparer(func(a, b chart.Color) bool { return a.Equivalent(b) }),
		cmpopts.EquateEmpty(),
	}
	for i := range in {
		if diff := cmp.Diff(in[i].Lines, out[i].Lines, docOpts); diff != "" {
			t.Errorf("panel %d lines (-file +export):\n%s", i, diff)
		}
		if diff := cmp.Diff(in[i].Patches, out[i].Patches, rgbaOpts); diff != "" {
			t.Errorf("panel %d patches (-file +export):\n%s", i, diff)
		}
		if diff := cmp.Diff(in[i].Collections, out[i].Collections, rgbaOpts); diff != "" {
			t.Errorf("panel %d collections (-file +export):\n%s", i, diff)
		}
		if diff := cmp.Diff(in[i].Metadata, out[i].Metadata, docOpts); diff != "" {
			t.Errorf("panel %d metadata (-file +export):\n%s", i, diff)
		}
	}
}
