package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Array is a dense row-major float array of one to three dimensions.
// Images use 2D arrays (scalar data mapped through a colormap) or 3D arrays
// whose last axis holds 3 (RGB) or 4 (RGBA) channels.
type Array struct {
	shape []int
	data  []float64
}

// NewArray returns an array with the given shape backed by data.
// The product of shape must equal len(data).
func NewArray(data []float64, shape ...int) (Array, error) {
	if len(shape) == 0 || len(shape) > 3 {
		return Array{}, perrors.New(perrors.ErrCodeInvalidArray, "array must have 1 to 3 dimensions, got %d", len(shape))
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return Array{}, perrors.New(perrors.ErrCodeInvalidArray, "negative dimension in shape %v", shape)
		}
		n *= d
	}
	if n != len(data) {
		return Array{}, perrors.New(perrors.ErrCodeInvalidArray, "shape %v needs %d values, got %d", shape, n, len(data))
	}
	return Array{shape: append([]int(nil), shape...), data: data}, nil
}

// ArrayFromRows builds a 2D array from equal-length rows.
func ArrayFromRows(rows [][]float64) (Array, error) {
	if len(rows) == 0 {
		return NewArray(nil, 0, 0)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, perrors.New(perrors.ErrCodeInvalidArray, "row %d has %d values, want %d", i, len(r), cols)
		}
		data = append(data, r...)
	}
	return NewArray(data, len(rows), cols)
}

// Shape returns a copy of the array dimensions.
func (a Array) Shape() []int { return append([]int(nil), a.shape...) }

// Ndim returns the number of dimensions.
func (a Array) Ndim() int { return len(a.shape) }

// Len returns the total number of values.
func (a Array) Len() int { return len(a.data) }

// Data returns the backing slice in row-major order. Callers must not modify it.
func (a Array) Data() []float64 { return a.data }

// Rows returns the size of the first axis.
func (a Array) Rows() int { return a.dim(0) }

// Cols returns the size of the second axis (1 for 1D arrays).
func (a Array) Cols() int {
	if len(a.shape) < 2 {
		return 1
	}
	return a.shape[1]
}

// Channels returns the size of the third axis (1 for 1D and 2D arrays).
func (a Array) Channels() int {
	if len(a.shape) < 3 {
		return 1
	}
	return a.shape[2]
}

func (a Array) dim(i int) int {
	if i >= len(a.shape) {
		return 0
	}
	return a.shape[i]
}

// At returns the value at the given index. It panics on a bad index, like
// slice indexing.
func (a Array) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic("chart: index rank does not match array rank")
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= a.shape[i] {
			panic("chart: array index out of range")
		}
		off = off*a.shape[i] + v
	}
	return a.data[off]
}

// MinMax returns the smallest and largest finite values. ok is false when the
// array holds no finite value.
func (a Array) MinMax() (lo, hi float64, ok bool) {
	finite := finiteValues(a.data)
	if len(finite) == 0 {
		return 0, 0, false
	}
	return floats.Min(finite), floats.Max(finite), true
}

// Equal reports whether a and b have the same shape and values. NaN equals NaN.
func (a Array) Equal(b Array) bool {
	if len(a.shape) != len(b.shape) || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i, v := range a.data {
		w := b.data[i]
		if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
			return false
		}
	}
	return true
}

// validateImage checks that a holds at least one pixel in a drawable layout.
func (a Array) validateImage() error {
	if a.Len() == 0 {
		return perrors.New(perrors.ErrCodeInvalidArray, "image data is empty, got shape %v", a.shape)
	}
	switch {
	case a.Ndim() == 2:
		return nil
	case a.Ndim() == 3 && (a.Channels() == 3 || a.Channels() == 4):
		return nil
	}
	return perrors.New(perrors.ErrCodeInvalidArray, "image data must be 2D or 3D with 3 or 4 channels, got shape %v", a.shape)
}

func finiteValues(vs []float64) []float64 {
	out := make([]float64, 0, len(vs))
	for _, v := range vs {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
