package cli

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/chart"
	"github.com/matzehuels/editplot/pkg/io"
	"github.com/matzehuels/editplot/pkg/render"
)

// exportOpts holds the command-line flags for the export-demo command.
type exportOpts struct {
	output string // document path
	pretty bool   // echo the document to stdout
	extras bool   // add a second row with a scatter and an image
	show   bool   // render the figure and open it
}

// exportDemoCommand creates the export-demo command, which builds a sample
// figure in code and saves it as a JSON document.
func (c *CLI) exportDemoCommand() *cobra.Command {
	opts := exportOpts{output: "demo.json"}

	cmd := &cobra.Command{
		Use:   "export-demo",
		Short: "Write a sample figure as a JSON document",
		Long: `Export-demo builds a 1×2 figure with a line panel and a bar panel and saves it
as a JSON document. With --extras a second row adds a scatter panel with
per-point colors and an image panel with a colorbar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExportDemo(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output document")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "also print the document to stdout")
	cmd.Flags().BoolVar(&opts.extras, "extras", false, "add scatter and image panels")
	cmd.Flags().BoolVar(&opts.show, "show", false, "render the figure and open it")

	return cmd
}

func (c *CLI) runExportDemo(ctx context.Context, opts exportOpts) error {
	logger := loggerFromContext(ctx)

	fig, grid, err := demoFigure(opts.extras)
	if err != nil {
		return err
	}

	ioOpts := []io.Option{io.WithLogger(logger)}
	if opts.pretty {
		ioOpts = append(ioOpts, io.WithPretty(os.Stdout))
	}
	doc, rep := io.Extract(grid, ioOpts...)
	if err := writeDocumentFile(doc, opts.output, ioOpts...); err != nil {
		return err
	}

	printSuccess("Exported %d panels", rep.Panels)
	printFile(opts.output)
	if n := rep.DroppedTotal(); n > 0 {
		printDetail("%d unsupported elements skipped (run with -v for details)", n)
	}

	if opts.show {
		d := &render.FileDisplay{
			Format: c.config.Render.Format,
			Scale:  c.config.Render.Scale,
			Open:   true,
			Logger: logger,
		}
		if err := fig.Show(d); err != nil {
			return err
		}
		printFile(d.Written())
	}

	printNewline()
	printNextStep("Render it", "editplot render "+opts.output)
	return nil
}

// writeDocumentFile writes doc to path, creating or truncating it.
func writeDocumentFile(doc io.Document, path string, opts ...io.Option) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := io.WriteDocument(doc, f, opts...); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// demoFigure builds the sample figure: a red line y=x² next to a blue bar.
// With extras, a second row holds a scatter with per-point colors plus an
// annotation, and a 2D gradient image.
func demoFigure(extras bool) (*chart.Figure, *chart.Grid, error) {
	rows := 1
	if extras {
		rows = 2
	}
	fig, grid := chart.Subplots(rows, 2, chart.WithSize(10, 4*float64(rows)))
	fig.TightLayout()

	left := grid.At(0, 0)
	if _, err := left.Plot([]float64{0, 1, 2}, []float64{0, 1, 4},
		chart.WithLabel("sq"), chart.WithColor(chart.Named("red")), chart.WithLineStyle("-")); err != nil {
		return nil, nil, err
	}
	left.SetTitle("Squares")
	left.SetXLabel("x")
	left.SetYLabel("x²")
	left.Legend()

	right := grid.At(0, 1)
	bar, err := chart.NewRectangle(0, 0, 2, 3, chart.WithColor(chart.Named("blue")), chart.WithLabel("bar"))
	if err != nil {
		return nil, nil, err
	}
	right.AddPatch(bar)
	right.SetTitle("Bar")
	right.SetXLim(-0.5, 2.5)
	right.SetYLim(0, 3.5)
	right.Legend()

	if !extras {
		return fig, grid, nil
	}

	const n = 24
	x := make([]float64, n)
	y := make([]float64, n)
	colors := make([]chart.Color, n)
	for i := range n {
		t := 2 * math.Pi * float64(i) / n
		x[i], y[i] = math.Cos(t), math.Sin(2*t)/2
		colors[i] = chart.CycleColor(i)
	}
	scatter := grid.At(1, 0)
	if _, err := scatter.Scatter(x, y, chart.WithColors(colors...), chart.WithLabel("orbit")); err != nil {
		return nil, nil, err
	}
	scatter.Text(0, 0, "origin")
	scatter.SetTitle("Scatter")

	const size = 16
	data := make([]float64, 0, size*size)
	for r := range size {
		for c := range size {
			data = append(data, math.Sin(float64(r)/3)*math.Cos(float64(c)/4))
		}
	}
	arr, err := chart.NewArray(data, size, size)
	if err != nil {
		return nil, nil, err
	}
	heat := grid.At(1, 1)
	im, err := heat.Imshow(arr, chart.WithCmap("plasma"))
	if err != nil {
		return nil, nil, err
	}
	fig.Colorbar(im, heat)
	heat.SetTitle("Image")

	return fig, grid, nil
}
