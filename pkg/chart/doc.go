// Package chart renders the four wildfire charts as standalone SVG.
//
// There is one renderer, parameterized by [Config]. The chart kind selects
// which aggregation, scales and marks are used:
//
//   - [KindBar]: records counted per damage category, descending, drawn as
//     colored bars on a band x axis and a nice linear y axis
//   - [KindScatter]: county boundaries with one point per parcel, sized by
//     assessed value and colored by damage category
//   - [KindLine]: records counted per year built, ascending, drawn as a
//     monotone curve
//   - [KindTreemap]: records counted per any column, drawn as a squarified
//     treemap
//
// Every call to [Render] or [Build] creates its own [Frame]; no drawing
// state is shared between charts or calls. Marks carry a data-key attribute
// and the embedded script highlights all marks sharing the hovered key.
//
// An aggregation with no buckets is reported as
// [errors.ErrCodeEmptyResult]; the caller decides whether to skip the chart.
package chart
