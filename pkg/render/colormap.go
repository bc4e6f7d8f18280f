package render

import (
	"image/color"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/matzehuels/editplot/pkg/chart"
)

// Control points sampled from the perceptually uniform matplotlib maps.
// Each list has strictly increasing luminance.
var luminanceMaps = map[string][]string{
	"viridis": {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"plasma":  {"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786", "#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921"},
	"inferno": {"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60", "#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4"},
	"magma":   {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"cividis": {"#00224e", "#123570", "#3b496c", "#575d6d", "#707173", "#8a8779", "#a69d75", "#c4b56c", "#e4cf5b", "#fdea45"},
	"gray":    {"#000000", "#ffffff"},
	"grey":    {"#000000", "#ffffff"},
}

// aliases maps other names onto a base map; reversed bases end in "_r".
var aliases = map[string]string{
	"Greys":   "gray_r",
	"greys":   "gray_r",
	"binary":  "gray_r",
	"RdBu":    "coolwarm_r",
	"bwr":     "coolwarm",
	"seismic": "coolwarm",
}

// DefaultColormap is used for names Colormap does not know.
const DefaultColormap = chart.DefaultCmap

// Colormaps lists the names Colormap resolves, sorted, without their "_r"
// variants.
func Colormaps() []string {
	names := []string{"coolwarm", "hot", "afmhot", "gist_heat", "kindlmann"}
	for name := range luminanceMaps {
		names = append(names, name)
	}
	for name := range aliases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Colormap returns a color map for name spanning [vmin, vmax]. Unknown
// names fall back to viridis and report ok=false. A "_r" suffix reverses
// the map. When vmin >= vmax every value maps to the low end.
func Colormap(name string, vmin, vmax float64) (cm palette.ColorMap, ok bool) {
	cm, ok = lookup(name)
	if !ok {
		cm, _ = lookup(DefaultColormap)
	}
	if math.IsNaN(vmin) || math.IsInf(vmin, 0) {
		vmin = 0
	}
	if !(vmin < vmax) || math.IsInf(vmax, 0) {
		vmax = vmin + 1
	}
	cm.SetMax(vmax)
	cm.SetMin(vmin)
	return cm, ok
}

func lookup(name string) (palette.ColorMap, bool) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	if base, found := strings.CutSuffix(name, "_r"); found {
		cm, ok := lookup(base)
		if !ok {
			return nil, false
		}
		return palette.Reverse(cm), true
	}

	switch name {
	case "coolwarm":
		return moreland.SmoothBlueRed(), true
	case "hot", "afmhot", "gist_heat":
		return moreland.BlackBody(), true
	case "kindlmann":
		return moreland.Kindlmann(), true
	}

	hexes, ok := luminanceMaps[name]
	if !ok {
		return nil, false
	}
	controls := make([]color.Color, len(hexes))
	for i, h := range hexes {
		c, err := chart.Named(h).NRGBA()
		if err != nil {
			return nil, false
		}
		controls[i] = c
	}
	cm, err := moreland.NewLuminance(controls)
	if err != nil {
		return nil, false
	}
	return cm, true
}

// mapValue returns the color for v, clamping into the map range. NaN is
// transparent.
func mapValue(cm palette.ColorMap, v float64) color.Color {
	if math.IsNaN(v) {
		return color.Transparent
	}
	lo, hi := cm.Min(), cm.Max()
	v = math.Max(lo, math.Min(hi, v))
	c, err := cm.At(v)
	if err != nil {
		// Reversed maps can round just past an end of the range.
		eps := (hi - lo) * 1e-9
		c, err = cm.At(math.Max(lo+eps, math.Min(hi-eps, v)))
		if err != nil {
			return color.Transparent
		}
	}
	return c
}
