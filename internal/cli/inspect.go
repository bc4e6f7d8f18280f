package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/editplot/pkg/io"
)

// inspectCommand creates the inspect command, which summarizes a document
// without rendering it.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "List the panels and elements of a JSON document",
		Example: `  editplot inspect figure.json
  editplot inspect figure.json -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse panels interactively")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, interactive bool) error {
	_, doc, err := readDocument(input)
	if err != nil {
		return err
	}
	if len(doc) == 0 {
		printWarning("%s has no panels", input)
		return nil
	}

	if interactive {
		_, err := tea.NewProgram(newPanelListModel(filepath.Base(input), doc), tea.WithContext(ctx)).Run()
		return err
	}

	rows, cols := gridShape(doc)
	fmt.Println(StyleTitle.Render(filepath.Base(input)))
	fmt.Println(panelTable(doc, -1))
	printDetail("%d panels on a %d×%d grid", len(doc), rows, cols)
	return nil
}

// elementCounts tallies the records of a document.
type elementCounts struct {
	Panels      int
	Lines       int
	Collections int
	Points      int
	Patches     int
	Images      int
}

func countElements(doc io.Document) elementCounts {
	n := elementCounts{Panels: len(doc)}
	for _, p := range doc {
		n.Lines += len(p.Lines)
		n.Collections += len(p.Collections)
		for _, cr := range p.Collections {
			n.Points += len(cr.DataOffsets)
		}
		n.Patches += len(p.Patches)
		n.Images += len(p.Images)
	}
	return n
}

// gridShape returns the grid size implied by the subplot indices of doc.
func gridShape(doc io.Document) (rows, cols int) {
	for _, p := range doc {
		if p.SubplotIndex == nil {
			continue
		}
		rows = max(rows, p.SubplotIndex.Row()+1)
		cols = max(cols, p.SubplotIndex.Col()+1)
	}
	return rows, cols
}

func panelPosition(p io.Panel) string {
	if p.SubplotIndex == nil {
		return "—"
	}
	return fmt.Sprintf("(%d, %d)", p.SubplotIndex.Row(), p.SubplotIndex.Col())
}

func countCell(n int) string {
	if n == 0 {
		return "—"
	}
	return strconv.Itoa(n)
}

// panelTable renders one row per panel record. The row at cursor is
// highlighted; pass -1 for none.
func panelTable(doc io.Document, cursor int) string {
	rows := make([][]string, 0, len(doc))
	for _, p := range doc {
		title := p.Metadata.Title
		if title == "" {
			title = "—"
		}
		rows = append(rows, []string{
			panelPosition(p),
			title,
			countCell(len(p.Lines)),
			countCell(len(p.Collections)),
			countCell(len(p.Patches)),
			countCell(len(p.Images)),
			countCell(len(p.Metadata.Legend)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Panel", "Title", "Lines", "Scatter", "Patches", "Images", "Legend").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case row == cursor:
				return base.Foreground(colorGreen).Bold(true)
			case col == 0:
				return base.Foreground(colorCyan)
			case col >= 2:
				return base.Foreground(colorGray)
			}
			return base
		})

	return t.Render()
}
