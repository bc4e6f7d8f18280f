// Package render draws chart figures with gonum/plot.
//
// # Overview
//
// [Render] turns a [chart.Figure] into PNG, JPEG, TIFF, SVG, PDF or EPS:
//
//	err := render.Render(fig, w, render.WithFormat("svg"))
//	err := render.Save(fig, "figure.png", render.WithScale(2))
//
// Each panel of the figure's grid becomes one plot; the plots are aligned so
// that neighbouring data areas line up. Lines keep their color and dash
// pattern, scatter points their per-point face colors, rectangles and
// circles are filled polygons and images are rasterized through their
// colormap. Panels with a colorbar give up a strip on their right edge.
//
// Inverted axis limits (high before low) are supported by mirroring the
// panel's coordinates; tick labels still show the original values.
//
// # Colormaps
//
// [Colormap] knows viridis, plasma, inferno, magma, cividis, gray, hot,
// coolwarm and a few aliases (Greys, RdBu, bwr). Any name may take an "_r"
// suffix to reverse it. Unknown names fall back to viridis.
//
// # Display
//
// [FileDisplay] implements [chart.Displayer] by saving the figure, to a
// temporary file when no path is set, and can open it in the system viewer.
//
// EPS output cannot embed raster images; rendering a figure with images to
// EPS fails with an UNSUPPORTED error.
package render
