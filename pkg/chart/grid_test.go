package chart

import (
	"math"
	"testing"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		rows, cols int
		want       Kind
	}{
		{1, 1, KindSingle},
		{1, 3, KindRow},
		{4, 1, KindColumn},
		{2, 2, KindMatrix},
	}
	for _, tt := range tests {
		if got := KindFor(tt.rows, tt.cols); got != tt.want {
			t.Errorf("KindFor(%d, %d) = %v, want %v", tt.rows, tt.cols, got, tt.want)
		}
	}
}

func TestGridConstructors(t *testing.T) {
	a, b, c := NewAxes(), NewAxes(), NewAxes()

	row, err := Row(a, b, c)
	if err != nil {
		t.Fatal(err)
	}
	if r, cl := row.Shape(); r != 1 || cl != 3 || row.Kind() != KindRow {
		t.Errorf("Row shape = (%d, %d) kind %v", r, cl, row.Kind())
	}
	if row.At(0, 2) != c {
		t.Error("Row At(0, 2) should be the third panel")
	}

	col, err := Column(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if r, cl := col.Shape(); r != 2 || cl != 1 || col.Kind() != KindColumn {
		t.Errorf("Column shape = (%d, %d) kind %v", r, cl, col.Kind())
	}
	if col.At(1, 0) != b {
		t.Error("Column At(1, 0) should be the second panel")
	}

	single := Single(a)
	if single.At(0, 0) != a || single.Len() != 1 {
		t.Error("Single should hold one panel")
	}

	if _, err := Row(); !perrors.Is(err, perrors.ErrCodeInvalidShape) {
		t.Errorf("empty Row error = %v", err)
	}
	if _, err := Column(); err == nil {
		t.Error("empty Column should fail")
	}
}

func TestMatrix(t *testing.T) {
	a, b, c, d := NewAxes(), NewAxes(), NewAxes(), NewAxes()
	m, err := Matrix([][]*Axes{{a, b}, {c, d}})
	if err != nil {
		t.Fatal(err)
	}
	if m.At(1, 0) != c || m.At(0, 1) != b {
		t.Error("Matrix indexing is not row-major")
	}
	if m.At(2, 0) != nil || m.At(0, -1) != nil {
		t.Error("out-of-range At should return nil")
	}

	if _, err := Matrix([][]*Axes{{a, b}, {c}}); !perrors.Is(err, perrors.ErrCodeInvalidShape) {
		t.Errorf("ragged Matrix error = %v", err)
	}
	if _, err := Matrix(nil); err == nil {
		t.Error("empty Matrix should fail")
	}
}

func TestEachRowMajor(t *testing.T) {
	g, err := NewGrid(2, 3)
	if err != nil {
		t.Fatal(err)
	}
	var got [][2]int
	g.Each(func(row, col int, ax *Axes) {
		if ax != g.At(row, col) {
			t.Errorf("Each panel mismatch at (%d, %d)", row, col)
		}
		got = append(got, [2]int{row, col})
	})
	want := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("visited %d panels", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("visit %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSubplots(t *testing.T) {
	fig, g := Subplots(2, 1, WithSize(5, 8))
	if fig.Grid() != g || g.Kind() != KindColumn {
		t.Errorf("Subplots grid kind = %v", g.Kind())
	}
	if w, h := fig.Size(); w != 5 || h != 8 {
		t.Errorf("Size() = %g, %g", w, h)
	}
	_, g = Subplots(0, 0)
	if g.Len() != 1 || g.Kind() != KindSingle {
		t.Errorf("Subplots(0, 0) = %d panels", g.Len())
	}
	if _, err := NewGrid(0, 2); err == nil {
		t.Error("NewGrid(0, 2) should fail")
	}
}

func TestFigureShow(t *testing.T) {
	fig := NewFigure()
	if err := fig.Show(nil); err != nil {
		t.Errorf("Show(nil) = %v", err)
	}
	var shown *Figure
	err := fig.Show(DisplayFunc(func(f *Figure) error {
		shown = f
		return nil
	}))
	if err != nil || shown != fig {
		t.Errorf("Show did not pass the figure to the displayer")
	}
	if fig.ID() == NewFigure().ID() {
		t.Error("figure IDs should be unique")
	}
}

func TestColorbarFor(t *testing.T) {
	fig, g := Subplots(1, 2)
	a, _ := ArrayFromRows([][]float64{{0, 1}})
	im, _ := g.At(0, 1).Imshow(a)
	fig.Colorbar(im, g.At(0, 1))
	if _, ok := fig.ColorbarFor(g.At(0, 0)); ok {
		t.Error("panel 0 should have no colorbar")
	}
	cb, ok := fig.ColorbarFor(g.At(0, 1))
	if !ok || cb.Image != im {
		t.Error("panel 1 colorbar not found")
	}
}

func TestArray(t *testing.T) {
	a, err := NewArray([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if a.At(1, 2) != 6 || a.Rows() != 2 || a.Cols() != 3 || a.Channels() != 1 {
		t.Errorf("unexpected array layout %v", a.Shape())
	}
	if _, err := NewArray([]float64{1, 2, 3}, 2, 2); !perrors.Is(err, perrors.ErrCodeInvalidArray) {
		t.Errorf("size mismatch error = %v", err)
	}
	if _, err := ArrayFromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("ragged rows should fail")
	}

	lo, hi, ok := a.MinMax()
	if !ok || lo != 1 || hi != 6 {
		t.Errorf("MinMax() = %g, %g, %v", lo, hi, ok)
	}

	withNaN, _ := NewArray([]float64{1, math.NaN()}, 2)
	if !withNaN.Equal(withNaN) {
		t.Error("NaN arrays should compare equal to themselves")
	}
	if a.Equal(withNaN) {
		t.Error("different shapes should not be equal")
	}
}
