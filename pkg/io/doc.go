// Package io saves the visual content of a chart as JSON and rebuilds an
// equivalent chart from it.
//
// # Overview
//
// The exporter walks a [chart.Grid] row by row and writes one Panel record
// per panel. The importer reads the records back, creates a figure whose
// grid is just large enough for every recorded position and redraws each
// panel. Only the element kinds a record can describe survive:
//
//   - lines: x/y data, label, color and line style
//   - collections: scatter offsets, label and face colors
//   - patches: rectangles with position, size, label and face color
//   - images: pixel data, colormap, interpolation, value range, extent and
//     the panel aspect
//   - metadata: title, axis labels, axis limits and legend entries
//
// Other artists (text, circles) are skipped; [Extract] counts them by kind in
// its [Report] and logs them at debug level.
//
// # JSON Format
//
// A document is an array of Panel records:
//
//	[
//	  {
//	    "lines": [{"x_data": [1, 2, 3], "y_data": [4, 5, 6], "label": "",
//	               "color": "#1f77b4", "linestyle": "-"}],
//	    "collections": [],
//	    "patches": [],
//	    "images": [],
//	    "metadata": {"xlim": [0.9, 3.1], "ylim": [3.9, 6.1]},
//	    "subplot_index": [0, 0]
//	  }
//	]
//
// subplot_index is the only required field. Missing arrays mean "no
// elements of that kind", missing metadata keys mean "leave the default" and
// unknown fields are ignored. Colors are written in the form they were given:
// a name, a hex string, a gray level string or an [r, g, b, a] array.
//
// Non-finite numbers are written as the strings "NaN", "Infinity" and
// "-Infinity"; see [Float].
//
// # Export
//
//	err := io.ExportJSON(grid, "figure.json")
//
// [WriteJSON] writes to any io.Writer, and [WithPretty] echoes an indented
// copy for inspection.
//
// # Import
//
//	fig, grid, err := io.ImportJSON("figure.json", io.WithDisplay(display))
//
// An empty document is a sentinel, not an error: [Build] logs "no data to
// plot" and returns a nil figure and grid with a nil error.
//
// # Concurrency
//
// Export and import are synchronous. They may run concurrently on distinct
// figures; a single figure must not be modified during export.
package io
