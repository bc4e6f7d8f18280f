package chart

import (
	"fmt"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Kind is the structural form of a panel grid.
type Kind int

const (
	// KindSingle is one bare panel.
	KindSingle Kind = iota
	// KindRow is a 1×N sequence of panels.
	KindRow
	// KindColumn is an N×1 sequence of panels.
	KindColumn
	// KindMatrix is an M×N grid of panels.
	KindMatrix
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindRow:
		return "row"
	case KindColumn:
		return "column"
	case KindMatrix:
		return "matrix"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// KindFor returns the kind a rows×cols grid squeezes to: one panel is
// single, one row or one column is a sequence, anything else a matrix.
func KindFor(rows, cols int) Kind {
	switch {
	case rows == 1 && cols == 1:
		return KindSingle
	case rows == 1:
		return KindRow
	case cols == 1:
		return KindColumn
	}
	return KindMatrix
}

// Grid is a rectangular arrangement of panels. Its kind records whether it
// was built from a single panel, a row, a column or a full matrix; [Grid.At]
// addresses every kind uniformly by (row, col).
type Grid struct {
	kind  Kind
	rows  int
	cols  int
	cells []*Axes // row-major, len rows*cols
}

// Single wraps one panel.
func Single(ax *Axes) *Grid {
	return &Grid{kind: KindSingle, rows: 1, cols: 1, cells: []*Axes{ax}}
}

// Row arranges panels left to right in one row.
func Row(axs ...*Axes) (*Grid, error) {
	if len(axs) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidShape, "row needs at least one panel")
	}
	return &Grid{kind: KindRow, rows: 1, cols: len(axs), cells: append([]*Axes(nil), axs...)}, nil
}

// Column arranges panels top to bottom in one column.
func Column(axs ...*Axes) (*Grid, error) {
	if len(axs) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidShape, "column needs at least one panel")
	}
	return &Grid{kind: KindColumn, rows: len(axs), cols: 1, cells: append([]*Axes(nil), axs...)}, nil
}

// Matrix arranges panels by row. All rows must have the same length.
func Matrix(rows [][]*Axes) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidShape, "matrix needs at least one panel")
	}
	cols := len(rows[0])
	g := &Grid{kind: KindMatrix, rows: len(rows), cols: cols, cells: make([]*Axes, 0, len(rows)*cols)}
	for i, r := range rows {
		if len(r) != cols {
			return nil, perrors.New(perrors.ErrCodeInvalidShape, "matrix row %d has %d panels, want %d", i, len(r), cols)
		}
		g.cells = append(g.cells, r...)
	}
	return g, nil
}

// NewGrid returns a rows×cols grid of fresh panels with the squeezed kind
// from [KindFor].
func NewGrid(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, perrors.New(perrors.ErrCodeInvalidShape, "grid shape must be positive, got (%d, %d)", rows, cols)
	}
	g := &Grid{kind: KindFor(rows, cols), rows: rows, cols: cols, cells: make([]*Axes, rows*cols)}
	for i := range g.cells {
		g.cells[i] = NewAxes()
	}
	return g, nil
}

// Kind returns the structural form of the grid.
func (g *Grid) Kind() Kind { return g.kind }

// Shape returns the number of rows and columns.
func (g *Grid) Shape() (rows, cols int) { return g.rows, g.cols }

// Len returns the number of panels.
func (g *Grid) Len() int { return len(g.cells) }

// At returns the panel at (row, col), or nil when out of range.
func (g *Grid) At(row, col int) *Axes {
	if row < 0 || col < 0 || row >= g.rows || col >= g.cols {
		return nil
	}
	return g.cells[row*g.cols+col]
}

// Axes returns all panels in row-major order.
func (g *Grid) Axes() []*Axes { return append([]*Axes(nil), g.cells...) }

// Each calls fn for every panel in row-major order.
func (g *Grid) Each(fn func(row, col int, ax *Axes)) {
	for i, ax := range g.cells {
		fn(i/g.cols, i%g.cols, ax)
	}
}
