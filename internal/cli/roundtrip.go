package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/io"
)

// roundtripCommand creates the roundtrip command. Importing a document and
// exporting it again normalizes it: explicit limits, resolved defaults and
// row-major panel order.
func (c *CLI) roundtripCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "roundtrip [file]",
		Short: "Import a JSON document and export it again",
		Example: `  editplot roundtrip edited.json -o normalized.json
  editplot roundtrip edited.json | less`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoundtrip(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output document (default: stdout)")

	return cmd
}

func (c *CLI) runRoundtrip(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	fig, grid, err := io.ImportJSON(input, c.importOptions(logger, nil)...)
	if err != nil {
		return err
	}
	if fig == nil {
		printWarning("%s has no data to plot", input)
		return nil
	}

	if output == "" {
		return io.WriteJSON(grid, os.Stdout, io.WithLogger(logger))
	}
	if err := io.ExportJSON(grid, output, io.WithLogger(logger)); err != nil {
		return err
	}
	rows, cols := grid.Shape()
	printSuccess("Wrote %d×%d grid", rows, cols)
	printFile(output)
	return nil
}
