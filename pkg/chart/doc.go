// Package chart is an in-memory plotting model: figures, panel grids,
// panels (Axes) and the artists drawn on them.
//
// # Overview
//
// A [Figure] owns a [Grid] of [Axes]. Panels hold artists in insertion
// order:
//
//   - [Line]: a connected series, created with [Axes.Plot]
//   - [PathCollection]: scatter markers, created with [Axes.Scatter]
//   - [Rectangle]: filled bars and boxes, created with [Axes.Bar] or
//     [Axes.AddPatch]
//   - [Image]: a raster mapped through a colormap, created with [Axes.Imshow]
//   - [Circle] and [Text]: shapes that serializers may not model
//
// Panels carry their own title, axis labels, limits, legend, aspect and
// grid settings. Unset limits are autoscaled from the data.
//
// # Grids
//
// A Grid remembers whether it was built from one panel ([Single]), a row
// ([Row]), a column ([Column]) or a full matrix ([Matrix]). Code that walks
// a grid should address panels with [Grid.At], which works for every kind:
//
//	fig, grid := chart.Subplots(1, 2)
//	grid.At(0, 0).Plot([]float64{1, 2, 3}, []float64{4, 5, 6})
//	grid.At(0, 1).Bar([]float64{1, 2, 3}, []float64{4, 5, 6})
//
// # Colors
//
// [Color] values keep the form they were given in (names, hex strings, gray
// levels or RGBA tuples) so they can be written back unchanged. Default
// colors follow the ten-color cycle C0 to C9, one cycle per panel.
//
// Display is delegated to a [Displayer]; see the render package for the
// gonum/plot backed implementation.
package chart
