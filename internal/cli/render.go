package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/cache"
	"github.com/matzehuels/editplot/pkg/chart"
	perrors "github.com/matzehuels/editplot/pkg/errors"
	"github.com/matzehuels/editplot/pkg/io"
	"github.com/matzehuels/editplot/pkg/observability"
	"github.com/matzehuels/editplot/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // output file; defaults to the input name with the format extension
	format  string  // output format; defaults to the output extension, then the config
	scale   float64 // raster scale factor; 0 means the configured scale
	open    bool    // open the result in the platform viewer
	noCache bool    // skip the artifact cache
}

// renderCommand creates the render command, which rebuilds the figure
// described by a JSON document and draws it to a file.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a JSON document to an image",
		Long: `Render rebuilds the figure described by a JSON document and draws it to a file.

The format comes from --format, then from the extension of --output, then from
the config file. Rendered files are cached by document content, so rendering an
unchanged document again is instant.`,
		Example: `  editplot render figure.json
  editplot render figure.json -o figure.svg
  editplot render figure.json -f pdf --open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "raster scale factor (default from config)")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the result in the default viewer")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render even if a cached result exists")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	raw, doc, err := readDocument(input)
	if err != nil {
		return err
	}

	format := resolveFormat(opts.format, opts.output, c.config.Render.Format)
	if err := perrors.ValidateFormat(format, render.Formats); err != nil {
		return err
	}
	scale := opts.scale
	if scale <= 0 {
		scale = c.config.Render.Scale
	}
	output := outputPath(opts.output, input, format)
	if err := perrors.ValidateOutputPath(output); err != nil {
		return err
	}

	store := c.newCache(opts.noCache)
	defer store.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	data, cached, err := c.cachedRender(ctx, store, raw, doc, format, scale)
	spinner.Stop()
	if err != nil {
		return err
	}
	if data == nil {
		printWarning("%s has no data to plot", input)
		return nil
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done("Rendered " + output)

	printSuccess("Rendered %s", strings.ToUpper(format))
	printFile(output)
	printStats(countElements(doc), len(data), cached)

	if opts.open {
		if err := render.OpenFile(output); err != nil {
			printWarning("Could not open %s: %v", output, err)
		}
	}
	return nil
}

// cachedRender returns the rendering of doc from store, rendering and storing
// it on a miss. raw is the encoded document the cache key is derived from.
func (c *CLI) cachedRender(ctx context.Context, store cache.Cache, raw []byte, doc io.Document, format string, scale float64) ([]byte, bool, error) {
	logger := loggerFromContext(ctx)
	hooks := observability.Cache()
	key := cache.ArtifactKey(cache.Hash(raw), c.renderSettings(format, scale))

	data, hit, err := store.Get(ctx, key)
	if err != nil {
		logger.Debug("cache read failed", "err", err)
	}
	if hit {
		hooks.OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, "artifact")

	data, err = c.renderDocument(ctx, doc, format, scale)
	if err != nil || data == nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, c.config.Cache.TTL.Duration); err != nil {
		logger.Debug("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// renderSettings collects what besides the document shapes a rendering.
func (c *CLI) renderSettings(format string, scale float64) cache.RenderSettings {
	return cache.RenderSettings{
		Format:      format,
		Scale:       scale,
		PanelWidth:  c.config.Import.PanelWidth,
		PanelHeight: c.config.Import.PanelHeight,
	}
}

// renderDocument builds doc into a figure and draws it in format. A document
// without records yields nil data and no error.
func (c *CLI) renderDocument(ctx context.Context, doc io.Document, format string, scale float64) ([]byte, error) {
	logger := loggerFromContext(ctx)
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, format, len(doc))

	var buf bytes.Buffer
	draw := chart.DisplayFunc(func(fig *chart.Figure) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return render.Render(fig, &buf,
			render.WithFormat(format),
			render.WithScale(scale),
			render.WithLogger(logger))
	})

	fig, _, err := io.Build(doc, c.importOptions(logger, draw)...)
	hooks.OnRenderComplete(ctx, format, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if fig == nil {
		return nil, nil
	}
	logger.Debugf("Generated %s: %d bytes", format, buf.Len())
	return buf.Bytes(), nil
}

// importOptions returns the import options shared by all commands.
func (c *CLI) importOptions(logger *log.Logger, d chart.Displayer) []io.Option {
	return []io.Option{
		io.WithLogger(logger),
		io.WithPanelSize(c.config.Import.PanelWidth, c.config.Import.PanelHeight),
		io.WithDisplay(d),
	}
}

// readDocument reads and decodes the document at path, returning the raw
// bytes for cache keys alongside it.
func readDocument(path string) ([]byte, io.Document, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "read %s", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := io.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, doc, nil
}

// resolveFormat picks the output format from the flag, the output extension
// or the fallback, in that order.
func resolveFormat(flag, output, fallback string) string {
	if flag != "" {
		return strings.ToLower(strings.TrimPrefix(flag, "."))
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return fallback
}

// outputPath returns output, or input with its extension replaced by format.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}
