package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/editplot/pkg/io"
)

var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	detailLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// =============================================================================
// PanelListModel - Interactive panel browser
// =============================================================================

// PanelListModel is the bubbletea model behind "inspect -i". It lists the
// panel records of a document; enter shows the elements of the selected one.
type PanelListModel struct {
	Name   string
	Doc    io.Document
	Cursor int
	Height int
	Offset int
	Detail bool
}

// newPanelListModel creates a browser for doc titled name.
func newPanelListModel(name string, doc io.Document) PanelListModel {
	return PanelListModel{
		Name:   name,
		Doc:    doc,
		Height: 15,
	}
}

func (m PanelListModel) Init() tea.Cmd {
	return nil
}

func (m PanelListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Doc)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Doc) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PanelListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")

	if m.Detail {
		b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
		b.WriteString("\n\n")
		b.WriteString(panelDetail(m.Doc[m.Cursor]))
		return b.String()
	}

	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Doc))
	b.WriteString(panelTable(m.Doc[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc))))

	return b.String()
}

// panelDetail lists every element of p, one line each.
func panelDetail(p io.Panel) string {
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label) + " " + StyleValue.Render(value) + "\n")
	}

	md := p.Metadata
	field("Panel", panelPosition(p))
	field("Title", md.Title)
	field("X label", md.XLabel)
	field("Y label", md.YLabel)
	if md.XLim != nil {
		field("X limits", fmt.Sprintf("%g … %g", float64(md.XLim[0]), float64(md.XLim[1])))
	}
	if md.YLim != nil {
		field("Y limits", fmt.Sprintf("%g … %g", float64(md.YLim[0]), float64(md.YLim[1])))
	}
	if len(md.Legend) > 0 {
		field("Legend", strings.Join(md.Legend, ", "))
	}
	b.WriteString("\n")

	for i, lr := range p.Lines {
		b.WriteString(elementLine("line", i, lr.Label,
			fmt.Sprintf("%d points · %s · %s", len(lr.XData), lr.Color, orDefault(lr.LineStyle, "-"))))
	}
	for i, cr := range p.Collections {
		b.WriteString(elementLine("scatter", i, cr.Label,
			fmt.Sprintf("%d points · %d colors", len(cr.DataOffsets), len(cr.FaceColors))))
	}
	for i, pr := range p.Patches {
		b.WriteString(elementLine("patch", i, pr.Label,
			fmt.Sprintf("(%g, %g) %g×%g · %s", float64(pr.X), float64(pr.Y), float64(pr.Width), float64(pr.Height), pr.FaceColor)))
	}
	for i, ir := range p.Images {
		shape := ir.DataArray.Array.Shape()
		dims := make([]string, len(shape))
		for j, d := range shape {
			dims[j] = fmt.Sprint(d)
		}
		b.WriteString(elementLine("image", i, "",
			fmt.Sprintf("%s · %s", strings.Join(dims, "×"), orDefault(ir.Cmap, "viridis"))))
	}
	if len(p.Lines)+len(p.Collections)+len(p.Patches)+len(p.Images) == 0 {
		b.WriteString(listDimStyle.Render("  no elements") + "\n")
	}
	return b.String()
}

func elementLine(kind string, i int, label, desc string) string {
	name := fmt.Sprintf("%s %d", kind, i)
	if label != "" {
		name += " " + StyleHighlight.Render(label)
	}
	return "  " + name + "  " + listDimStyle.Render(desc) + "\n"
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
