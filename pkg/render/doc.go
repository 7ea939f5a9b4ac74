// Package render converts rendered chart SVG into the other output formats.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG document using the external
// rsvg-convert tool (from librsvg). [Convert] dispatches on a [Format] and
// passes SVG through unchanged. JSON is produced from the drawn chart
// itself, not from its SVG, so it never reaches this package.
//
//	svg, _ := chart.Render(cfg, data)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is not installed the conversions fail with
// [errors.ErrCodeUnsupported] and an installation hint.
package render
