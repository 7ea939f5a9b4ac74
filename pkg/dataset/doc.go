// Package dataset loads the two inputs every emberview chart is built from:
// the parcel damage table (CSV) and the county boundary collection
// (GeoJSON or TopoJSON).
//
// # Records
//
// [ReadCSV] parses a header row followed by one row per parcel. Cells are
// auto-typed: numeric columns become float64 when they parse, anything else
// is treated as missing for that column. Missing values never fail a load;
// a [Record] reports them through [Record.HasValue], [Record.HasYear] and
// [Record.HasCoords], and the aggregations that need the field skip it.
//
// Column names default to [DefaultColumns] and can be remapped for datasets
// that label the same fields differently.
//
// # Boundaries
//
// [ReadBoundaries] accepts either a GeoJSON FeatureCollection or a TopoJSON
// Topology. Topologies are decoded into a FeatureCollection so the rest of
// the pipeline only deals with [github.com/paulmach/orb/geojson] features.
//
// # Loading
//
// [LoadAll] reads both files concurrently and returns only after both have
// finished. A records failure fails the call; a boundary failure is
// reported in [Bundle] so the charts that do not draw the map still render.
package dataset
