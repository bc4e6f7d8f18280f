package chart

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	perrors "github.com/matzehuels/editplot/pkg/errors"
)

// Color is a color specification kept in the form it was given: a name
// ("red", "C1", "tab:orange"), a hex string ("#1f77b4"), a gray level
// ("0.5") or an RGBA tuple with components in [0, 1].
//
// Colors are never canonicalized. A Color marshals back to the same JSON
// primitive it was created from; use [Color.RGBA] or [Color.Equivalent] to
// compare colors by value.
type Color struct {
	spec  string
	rgba  [4]float64
	tuple bool
}

// Named returns a Color for a string specification.
// The specification is validated lazily by [Color.RGBA].
func Named(spec string) Color { return Color{spec: spec} }

// RGBA returns a tuple Color.
func RGBA(r, g, b, a float64) Color {
	return Color{rgba: [4]float64{r, g, b, a}, tuple: true}
}

// FromRGBA returns a tuple Color from a 4-element array.
func FromRGBA(v [4]float64) Color { return Color{rgba: v, tuple: true} }

// IsZero reports whether c is the zero Color (no specification at all).
func (c Color) IsZero() bool { return !c.tuple && c.spec == "" }

// IsTuple reports whether c was given as an RGBA tuple.
func (c Color) IsTuple() bool { return c.tuple }

// Spec returns the specification as given: a string, or a [4]float64 for
// tuple colors.
func (c Color) Spec() any {
	if c.tuple {
		return c.rgba
	}
	return c.spec
}

// String formats tuples as "(r, g, b, a)" and returns strings unchanged.
func (c Color) String() string {
	if c.tuple {
		return fmt.Sprintf("(%g, %g, %g, %g)", c.rgba[0], c.rgba[1], c.rgba[2], c.rgba[3])
	}
	return c.spec
}

// RGBA resolves c to red, green, blue and alpha components in [0, 1].
func (c Color) RGBA() ([4]float64, error) {
	if c.tuple {
		for _, v := range c.rgba {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return [4]float64{}, perrors.New(perrors.ErrCodeInvalidColor, "RGBA component %g out of range [0, 1]", v)
			}
		}
		return c.rgba, nil
	}
	return parseColorSpec(c.spec)
}

// NRGBA resolves c to a non-premultiplied 8-bit color.
func (c Color) NRGBA() (color.NRGBA, error) {
	v, err := c.RGBA()
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: to8(v[0]), G: to8(v[1]), B: to8(v[2]), A: to8(v[3])}, nil
}

// Equivalent reports whether c and o resolve to the same RGBA value within
// 8-bit precision. Colors that fail to resolve are never equivalent.
func (c Color) Equivalent(o Color) bool {
	a, err := c.RGBA()
	if err != nil {
		return false
	}
	b, err := o.RGBA()
	if err != nil {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 0.5/255 {
			return false
		}
	}
	return true
}

// Resolved returns c converted to a tuple Color.
func (c Color) Resolved() (Color, error) {
	v, err := c.RGBA()
	if err != nil {
		return Color{}, err
	}
	return FromRGBA(v), nil
}

// MarshalJSON writes a string for named colors and a 4-element array for
// tuple colors. The zero Color is written as null.
func (c Color) MarshalJSON() ([]byte, error) {
	switch {
	case c.tuple:
		return json.Marshal(c.rgba)
	case c.spec == "":
		return []byte("null"), nil
	default:
		return json.Marshal(c.spec)
	}
}

// UnmarshalJSON accepts a string, a 3- or 4-element number array, or null.
func (c *Color) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*c = Color{}
	case string:
		*c = Named(v)
	case []any:
		if len(v) != 3 && len(v) != 4 {
			return perrors.New(perrors.ErrCodeInvalidColor, "color tuple must have 3 or 4 components, got %d", len(v))
		}
		out := [4]float64{0, 0, 0, 1}
		for i, comp := range v {
			f, ok := comp.(float64)
			if !ok {
				return perrors.New(perrors.ErrCodeInvalidColor, "color component %d is %T, not a number", i, comp)
			}
			out[i] = f
		}
		*c = FromRGBA(out)
	default:
		return perrors.New(perrors.ErrCodeInvalidColor, "unsupported color value %s", string(data))
	}
	return nil
}

// tab10 is the default property cycle.
var tab10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var tabNames = map[string]string{
	"tab:blue":   tab10[0],
	"tab:orange": tab10[1],
	"tab:green":  tab10[2],
	"tab:red":    tab10[3],
	"tab:purple": tab10[4],
	"tab:brown":  tab10[5],
	"tab:pink":   tab10[6],
	"tab:gray":   tab10[7],
	"tab:grey":   tab10[7],
	"tab:olive":  tab10[8],
	"tab:cyan":   tab10[9],
}

var baseColors = map[string][4]float64{
	"b": {0, 0, 1, 1},
	"g": {0, 0.5, 0, 1},
	"r": {1, 0, 0, 1},
	"c": {0, 0.75, 0.75, 1},
	"m": {0.75, 0, 0.75, 1},
	"y": {0.75, 0.75, 0, 1},
	"k": {0, 0, 0, 1},
	"w": {1, 1, 1, 1},
}

// CycleColor returns the i-th color of the default cycle as a hex Color.
func CycleColor(i int) Color {
	if i < 0 {
		i = -i
	}
	return Named(tab10[i%len(tab10)])
}

func parseColorSpec(spec string) ([4]float64, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return [4]float64{}, perrors.New(perrors.ErrCodeInvalidColor, "empty color specification")
	}
	if s == "none" {
		return [4]float64{}, nil
	}
	if v, ok := baseColors[s]; ok {
		return v, nil
	}
	if len(s) == 2 && s[0] == 'c' && s[1] >= '0' && s[1] <= '9' {
		return parseHex(tab10[s[1]-'0'])
	}
	if hex, ok := tabNames[s]; ok {
		return parseHex(hex)
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 || f > 1 {
			return [4]float64{}, perrors.New(perrors.ErrCodeInvalidColor, "gray level %q out of range [0, 1]", spec)
		}
		return [4]float64{f, f, f, 1}, nil
	}
	if rgba, ok := colornames.Map[s]; ok {
		return [4]float64{
			float64(rgba.R) / 255,
			float64(rgba.G) / 255,
			float64(rgba.B) / 255,
			float64(rgba.A) / 255,
		}, nil
	}
	return [4]float64{}, perrors.New(perrors.ErrCodeInvalidColor, "unknown color %q", spec)
}

func parseHex(s string) ([4]float64, error) {
	alpha := 1.0
	switch len(s) {
	case 4, 7:
	case 9:
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return [4]float64{}, perrors.Wrap(perrors.ErrCodeInvalidColor, err, "invalid hex color %q", s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	default:
		return [4]float64{}, perrors.New(perrors.ErrCodeInvalidColor, "invalid hex color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return [4]float64{}, perrors.Wrap(perrors.ErrCodeInvalidColor, err, "invalid hex color %q", s)
	}
	return [4]float64{c.R, c.G, c.B, alpha}, nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
