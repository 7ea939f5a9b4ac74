// Package pkg provides the core libraries for Emberview wildfire damage charts.
//
// # Overview
//
// Emberview turns a parcel-level damage inspection table and a county
// boundary file into four linked charts: a bar chart of damage categories,
// a scatter map of inspected parcels over the county outlines, a line graph
// of records by year built and a treemap of records per county. The pkg
// directory is organized into four areas:
//
//  1. Input - [dataset] loads the CSV and the GeoJSON or TopoJSON boundaries
//  2. Computation - [aggregate], [scale], [geo] and [treemap] turn records
//     into buckets, axes, projected paths and rectangles
//  3. Drawing - [chart] draws each chart as SVG, [dashboard] combines them
//     into a page with a shared selection, [render] converts to PNG and PDF
//  4. Orchestration - [pipeline] runs load and render with the [cache]
//
// # Architecture
//
// The typical data flow through Emberview:
//
//	records.csv + counties.topojson
//	         ↓
//	    [dataset] package (parse, coerce, decode topology)
//	         ↓
//	    [aggregate] package (bucket counts per chart)
//	         ↓
//	    [chart] package (scales, projection, SVG)
//	         ↓
//	    SVG/PNG/PDF/JSON files, dashboard.html or the live preview
//
// # Quick Start
//
// Load the inputs and render every chart:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/emberview/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), pipeline.Options{
//	    Records:    "damage.csv",
//	    Boundaries: "counties.topojson",
//	    Dashboard:  true,
//	})
//	for _, c := range res.Charts {
//	    if c.Rendered() {
//	        os.WriteFile(pipeline.FileName(c.Kind, render.FormatSVG), c.SVG, 0o644)
//	    }
//	}
//
// # Main Packages
//
// [dataset] - Typed parcel records with the raw columns kept for grouping,
// and county boundaries as an orb FeatureCollection.
//
// [aggregate] - Bucket counting by damage, county, year built or any column,
// and the year-window filter.
//
// [scale] - Linear, band and ordinal scales with nice domains and ticks.
//
// [geo] - The rotated Mercator projection of the scatter map, SVG path
// output and point-in-county lookup.
//
// [treemap] - Squarified treemap layout.
//
// [chart] - The four chart kinds, their configuration and SVG drawing.
//
// [dashboard] - The shared selection with subset-changed events, and the
// four-chart HTML page.
//
// [render] - SVG to PNG and PDF conversion through rsvg-convert.
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// [pipeline] - Load and render orchestration used by the CLI and the
// preview server.
//
// [observability] - Event hooks, with a Prometheus implementation.
//
// [errors] - Coded errors and the per-chart skip policy.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/chart/...     # Specific package
//	go test -run Example        # Examples only
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/dataset
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/aggregate
// [scale]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/scale
// [geo]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/geo
// [treemap]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/treemap
// [chart]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/chart
// [dashboard]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/dashboard
// [render]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/emberview/pkg/errors
package pkg
