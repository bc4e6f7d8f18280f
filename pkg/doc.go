// Package pkg provides the libraries behind editplot, which saves the visual
// content of a chart as JSON and rebuilds an equivalent chart from it.
//
// # Overview
//
// A figure is a grid of panels. Each panel holds lines, scatter collections,
// rectangles and images plus its title, axis labels, limits and legend. The
// JSON document is an array with one record per panel, so a figure can be
// edited in any text editor and drawn again. The pkg directory is organized
// into four main areas:
//
//  1. [chart] - The in-memory figure model (figures, grids, axes, artists)
//  2. [io] - The JSON document format, the exporter and the importer
//  3. [render] - Drawing figures to PNG, SVG, PDF and friends
//  4. [cache] - Content-addressed storage for rendered artifacts
//
// # Architecture
//
// The typical data flow:
//
//	figure.json
//	     ↓
//	[io] package (decode and validate panel records)
//	     ↓
//	[chart] package (figure + grid + populated axes)
//	     ↓
//	[render] package (gonum/plot canvas)
//	     ↓
//	SVG/PDF/PNG/EPS/JPEG/TIFF output
//
// The export direction runs the other way, from a [chart.Grid] to a document.
//
// # Quick Start
//
// Build a chart, export it and render the document:
//
//	import (
//	    "github.com/matzehuels/editplot/pkg/chart"
//	    "github.com/matzehuels/editplot/pkg/io"
//	    "github.com/matzehuels/editplot/pkg/render"
//	)
//
//	// 1. Draw
//	_, grid := chart.Subplots(1, 2)
//	grid.At(0, 0).Plot([]float64{0, 1, 2}, []float64{0, 1, 4}, chart.WithLabel("sq"))
//	grid.At(0, 0).Legend()
//
//	// 2. Export
//	_ = io.ExportJSON(grid, "figure.json")
//
//	// 3. Import and render to a file
//	_, _, _ = io.ImportJSON("figure.json",
//	    io.WithDisplay(&render.FileDisplay{Path: "figure.svg"}))
//
// # Main Packages
//
// [chart] - Figures with a panel grid, axes with autoscaled or explicit
// limits and the supported artists. Colors accept names, hex strings, gray
// levels and RGB(A) tuples and keep the spelling they were given.
//
// [io] - [io.Extract] and [io.ImportJSON] convert between grids and documents.
// Non-finite floats travel as "NaN", "Infinity" and "-Infinity".
//
// [render] - A [chart.Displayer] that draws figures with gonum/plot.
//
// [cache] - Cache interface with file and null implementations, keyed by a
// hash of the document bytes.
//
// [errors] - Error codes and user-facing messages shared by all packages.
//
// [observability] - Hooks for rendering, cache and HTTP metrics.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/io/...       # Specific package
//
// [chart]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/chart
// [io]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/editplot/pkg/buildinfo
package pkg
