package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/editplot/pkg/cache"
	perrors "github.com/matzehuels/editplot/pkg/errors"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeDemo(t, dir, false)

	if _, err := execute(t, c, "render", input); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "demo.png"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Errorf("output is not a PNG: % x", data[:min(8, len(data))])
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	cacheDir, err := c.config.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	cached, hit, err := fc.Get(context.Background(), cache.ArtifactKey(cache.Hash(raw), c.renderSettings("png", 1)))
	if err != nil || !hit {
		t.Fatalf("rendering not cached: hit=%v err=%v", hit, err)
	}
	if !bytes.Equal(cached, data) {
		t.Error("cached bytes differ from the written file")
	}
}

func TestRenderCommandPanelSizeChange(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeDemo(t, dir, false)
	output := filepath.Join(dir, "demo.png")

	width := func(panelWidth string) int {
		t.Helper()
		cfg := writeFile(t, dir, "config.toml", "[import]\npanel_width = "+panelWidth+"\n")
		if _, err := execute(t, c, "--config", cfg, "render", input); err != nil {
			t.Fatalf("render: %v", err)
		}
		f, err := os.Open(output)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		img, err := png.DecodeConfig(f)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return img.Width
	}

	wide := width("5.0")
	narrow := width("3.0")
	if narrow >= wide {
		t.Errorf("width after shrinking panels = %d, was %d; cached rendering reused", narrow, wide)
	}
}

func TestRenderCommandFormats(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		output string
		prefix string
	}{
		{"format from extension", []string{"-o", "out.svg"}, "out.svg", "<?xml"},
		{"format flag", []string{"-f", "pdf"}, "demo.pdf", "%PDF"},
		{"flag wins over extension", []string{"-f", "png", "-o", "figure.out"}, "figure.out", string(pngMagic)},
		{"scaled raster", []string{"--scale", "2", "-o", "big.png"}, "big.png", string(pngMagic)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			dir := t.TempDir()
			input := writeDemo(t, dir, true)

			args := []string{"render", input, "--no-cache"}
			for i := 0; i < len(tt.args); i++ {
				a := tt.args[i]
				if a == "-o" {
					args = append(args, a, filepath.Join(dir, tt.args[i+1]))
					i++
					continue
				}
				args = append(args, a)
			}
			if _, err := execute(t, c, args...); err != nil {
				t.Fatalf("render: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(dir, tt.output))
			if err != nil {
				t.Fatalf("output not written: %v", err)
			}
			if !strings.HasPrefix(string(data), tt.prefix) {
				t.Errorf("output starts with %q, want %q", data[:min(8, len(data))], tt.prefix)
			}
		})
	}
}

func TestRenderCommandNoCache(t *testing.T) {
	c := newTestCLI(t)
	input := writeDemo(t, t.TempDir(), false)

	if _, err := execute(t, c, "render", input, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	dir, err := c.config.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache dir created with --no-cache: %v", err)
	}
}

func TestRenderCommandEmptyDocument(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "empty.json", "[]")

	if _, err := execute(t, c, "render", input); err != nil {
		t.Fatalf("empty document should not fail: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "empty.png")); !os.IsNotExist(err) {
		t.Error("empty document produced an output file")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	demo := writeDemo(t, dir, false)
	notArray := writeFile(t, dir, "object.json", `{"lines": []}`)
	noIndex := writeFile(t, dir, "noindex.json", `[{"lines": []}]`)
	mismatch := writeFile(t, dir, "mismatch.json",
		`[{"lines": [{"x_data": [0, 1], "y_data": [0]}], "subplot_index": [0, 0]}]`)

	tests := []struct {
		name string
		args []string
		code perrors.Code
	}{
		{"missing file", []string{filepath.Join(dir, "nope.json")}, perrors.ErrCodeFileNotFound},
		{"unsupported format", []string{demo, "-f", "bmp"}, perrors.ErrCodeUnsupportedFormat},
		{"not an array", []string{notArray}, perrors.ErrCodeInvalidDocument},
		{"missing subplot_index", []string{noIndex}, perrors.ErrCodeMissingKey},
		{"length mismatch", []string{mismatch}, perrors.ErrCodeLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCLI(t)
			_, err := execute(t, c, append([]string{"render", "--no-cache"}, tt.args...)...)
			if !perrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		flag, output, fallback string
		want                   string
	}{
		{"", "", "png", "png"},
		{"SVG", "", "png", "svg"},
		{".pdf", "", "png", "pdf"},
		{"", "figure.JPG", "png", "jpg"},
		{"eps", "figure.svg", "png", "eps"},
		{"", "dir.v2/figure", "svg", "svg"},
	}

	for _, tt := range tests {
		if got := resolveFormat(tt.flag, tt.output, tt.fallback); got != tt.want {
			t.Errorf("resolveFormat(%q, %q, %q) = %q, want %q", tt.flag, tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		want                  string
	}{
		{"", "figure.json", "png", "figure.png"},
		{"", "plots/figure.json", "svg", "plots/figure.svg"},
		{"", "figure", "pdf", "figure.pdf"},
		{"out.png", "figure.json", "svg", "out.png"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.format, got, tt.want)
		}
	}
}
