package io

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/matzehuels/editplot/pkg/chart"
	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Document is the top-level JSON value: one Panel record per panel, in
// row-major order when written by the exporter.
type Document []Panel

// Panel is the serialized content of one panel.
type Panel struct {
	Lines        []LineRecord       `json:"lines"`
	Collections  []CollectionRecord `json:"collections"`
	Patches      []PatchRecord      `json:"patches"`
	Images       []ImageRecord      `json:"images"`
	Metadata     Metadata           `json:"metadata"`
	SubplotIndex *Index             `json:"subplot_index"`
}

// LineRecord is a serialized [chart.Line].
type LineRecord struct {
	XData     []Float     `json:"x_data"`
	YData     []Float     `json:"y_data"`
	Label     string      `json:"label"`
	Color     chart.Color `json:"color"`
	LineStyle string      `json:"linestyle"`
}

// CollectionRecord is a serialized [chart.PathCollection]. Each offset row
// must hold exactly two numbers.
type CollectionRecord struct {
	DataOffsets [][]Float     `json:"data_offsets"`
	Label       string        `json:"label"`
	FaceColors  []chart.Color `json:"facecolors"`
}

// PatchRecord is a serialized [chart.Rectangle].
type PatchRecord struct {
	X         Float       `json:"x"`
	Y         Float       `json:"y"`
	Width     Float       `json:"width"`
	Height    Float       `json:"height"`
	Label     string      `json:"label"`
	FaceColor chart.Color `json:"facecolor"`
}

// ImageRecord is a serialized [chart.Image]. Aspect is the aspect of the
// panel the image was drawn in.
type ImageRecord struct {
	DataArray     NDArray      `json:"data_array"`
	Cmap          string       `json:"cmap"`
	Interpolation string       `json:"interpolation"`
	VMin          *Float       `json:"vmin"`
	VMax          *Float       `json:"vmax"`
	Extent        []Float      `json:"extent"`
	Aspect        chart.Aspect `json:"aspect"`
}

// Metadata holds panel decorations. Every field is optional.
type Metadata struct {
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"xlabel,omitempty"`
	YLabel string    `json:"ylabel,omitempty"`
	XLim   *[2]Float `json:"xlim,omitempty"`
	YLim   *[2]Float `json:"ylim,omitempty"`
	Legend []string  `json:"legend,omitempty"`
}

// Index is a (row, col) panel position.
type Index [2]int

// Row returns the row component.
func (i Index) Row() int { return i[0] }

// Col returns the column component.
func (i Index) Col() int { return i[1] }

// UnmarshalJSON requires a two-element integer array.
func (i *Index) UnmarshalJSON(data []byte) error {
	var v []int
	if err := json.Unmarshal(data, &v); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidDocument, err, "subplot_index must be [row, col]")
	}
	if len(v) != 2 {
		return perrors.New(perrors.ErrCodeInvalidDocument, "subplot_index must have 2 elements, got %d", len(v))
	}
	*i = Index{v[0], v[1]}
	return nil
}

// Float is a float64 that survives JSON encoding when non-finite. Finite
// values are plain numbers; NaN and infinities are written as the strings
// "NaN", "Infinity" and "-Infinity". null decodes to NaN.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"NaN"`), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := floatValue(raw)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

func floatValue(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return v, nil
	case string:
		switch strings.ToLower(v) {
		case "nan":
			return math.NaN(), nil
		case "infinity", "inf", "+infinity", "+inf":
			return math.Inf(1), nil
		case "-infinity", "-inf":
			return math.Inf(-1), nil
		}
		return 0, perrors.New(perrors.ErrCodeInvalidDocument, "invalid number %q", v)
	}
	return 0, perrors.New(perrors.ErrCodeInvalidDocument, "expected a number, got %T", raw)
}

func toFloats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float(v)
	}
	return out
}

func fromFloats(vs []Float) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = float64(v)
	}
	return out
}

// NDArray is a [chart.Array] encoded as nested JSON arrays, one nesting
// level per dimension.
type NDArray struct {
	chart.Array
}

// Equal reports whether both arrays hold the same shape and values.
func (a NDArray) Equal(b NDArray) bool { return a.Array.Equal(b.Array) }

// MarshalJSON writes the array as nested lists.
func (a NDArray) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if a.Ndim() == 0 {
		return []byte("[]"), nil
	}
	if err := writeNested(&buf, a.Data(), a.Shape()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeNested(buf *bytes.Buffer, data []float64, shape []int) error {
	buf.WriteByte('[')
	if len(shape) == 1 {
		for i, v := range data {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := Float(v).MarshalJSON()
			if err != nil {
				return err
			}
			buf.Write(b)
		}
	} else {
		stride := 1
		for _, d := range shape[1:] {
			stride *= d
		}
		for i := range shape[0] {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNested(buf, data[i*stride:(i+1)*stride], shape[1:]); err != nil {
				return err
			}
		}
	}
	buf.WriteByte(']')
	return nil
}

// UnmarshalJSON reads nested lists. Every list at the same depth must have
// the same length; scalars must sit at the same depth.
func (a *NDArray) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*a = NDArray{}
		return nil
	}
	var shape []int
	for v := raw; ; {
		list, ok := v.([]any)
		if !ok {
			break
		}
		shape = append(shape, len(list))
		if len(list) == 0 {
			break
		}
		v = list[0]
	}
	if len(shape) == 0 {
		return perrors.New(perrors.ErrCodeInvalidArray, "data_array must be a nested list")
	}
	values := make([]float64, 0)
	if err := flattenNested(raw, shape, &values); err != nil {
		return err
	}
	arr, err := chart.NewArray(values, shape...)
	if err != nil {
		return err
	}
	a.Array = arr
	return nil
}

func flattenNested(v any, shape []int, out *[]float64) error {
	if len(shape) == 0 {
		f, err := floatValue(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidArray, err, "ragged or non-numeric data_array")
		}
		*out = append(*out, f)
		return nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != shape[0] {
		return perrors.New(perrors.ErrCodeInvalidArray, "ragged data_array: expected a list of %d", shape[0])
	}
	for _, item := range list {
		if err := flattenNested(item, shape[1:], out); err != nil {
			return err
		}
	}
	return nil
}
