// Package pipeline provides the load → aggregate → render pipeline for
// emberview.
//
// The CLI render command, the summary command and the preview server all go
// through a [Runner], so every entry point loads, filters, caches and
// renders charts the same way.
//
// # Architecture
//
// A run has two stages:
//
//  1. Load: read the parcel CSV and, when a requested chart needs it, the
//     county boundaries. Both loads run concurrently and rendering starts
//     only when both have finished.
//  2. Render: for each chart kind, select the records the chart is drawn
//     from, aggregate them, draw the SVG and convert it to the requested
//     formats. Artifacts are cached by input digest and render options.
//
// A chart whose inputs are unusable (an empty aggregation, missing
// boundaries) is skipped with a warning; the other charts still render.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Records: "wildfire.csv",
//	    Kinds:   []chart.Kind{chart.KindBar, chart.KindLine},
//	    Formats: []render.Format{render.FormatSVG},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Charts[0].Artifacts[render.FormatSVG]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/emberview/pkg/cache"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
	"github.com/matzehuels/emberview/pkg/render"
)

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Records    string          `json:"records"`
	Boundaries string          `json:"boundaries,omitempty"`
	Object     string          `json:"object,omitempty"` // TopoJSON object name
	Columns    dataset.Columns `json:"columns"`

	// Selection options
	YearFrom int    `json:"year_from,omitempty"` // 0 with YearTo 0 means the full data range
	YearTo   int    `json:"year_to,omitempty"`
	Group    string `json:"group,omitempty"` // treemap grouping column

	// Render options
	Kinds      []chart.Kind    `json:"kinds,omitempty"`
	Formats    []render.Format `json:"formats,omitempty"`
	Width      float64         `json:"width,omitempty"`  // overrides the frame width of bar, scatter and line
	Height     float64         `json:"height,omitempty"` // overrides the frame height of bar, scatter and line
	Scale      float64         `json:"scale,omitempty"`  // PNG scale factor
	Projection *geo.Projection `json:"projection,omitempty"`
	Dashboard  bool            `json:"dashboard,omitempty"`
	Refresh    bool            `json:"refresh,omitempty"` // bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and the manifest.
	RunID string

	// Created is when the run started.
	Created time.Time

	// Inputs holds the content digests of the loaded files.
	Inputs cache.Inputs

	// Selection is the selection the charts were drawn with, after defaults.
	Selection dashboard.Selection

	// Charts holds one entry per requested kind, in request order.
	Charts []ChartResult

	// Dashboard is the combined HTML page, if requested.
	Dashboard []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks how many charts came from the cache.
	CacheInfo CacheInfo
}

// ChartResult is the outcome of rendering one chart kind.
type ChartResult struct {
	Kind chart.Kind

	// Chart holds the drawn values. It is nil when the artifacts came from
	// the cache or the chart was skipped.
	Chart *chart.Chart

	// SVG is the chart document, always set for a rendered chart.
	SVG []byte

	// Artifacts contains the requested outputs keyed by format.
	Artifacts map[render.Format][]byte

	// Skipped is set when the chart could not be drawn from the inputs.
	Skipped error

	CacheHit bool
	Duration time.Duration
}

// Rendered reports whether the chart produced output.
func (c ChartResult) Rendered() bool { return c.Skipped == nil }

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount   int
	FeatureCount  int
	LoadTime      time.Duration
	RenderTime    time.Duration
	ChartsSkipped int
}

// CacheInfo tracks cache hits across the charts of a run.
type CacheInfo struct {
	Hits   int // charts whose artifacts all came from the cache
	Misses int // charts that were drawn
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input paths.
func (o *Options) ValidateForLoad() error {
	if o.Records == "" {
		return errors.New(errors.ErrCodeInvalidInput, "records CSV is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Kinds) == 0 {
		o.Kinds = append([]chart.Kind(nil), chart.Kinds...)
	}
	if len(o.Formats) == 0 {
		o.Formats = []render.Format{render.FormatSVG}
	}
	if o.Group == "" {
		o.Group = chart.TreemapField
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, k := range o.Kinds {
		if _, err := chart.ParseKind(string(k)); err != nil {
			return err
		}
	}
	for _, f := range o.Formats {
		if !f.Valid() {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", f)
		}
	}
	if o.YearFrom != 0 || o.YearTo != 0 {
		if err := errors.ValidateYearWindow(o.YearFrom, o.YearTo); err != nil {
			return err
		}
	}
	if err := errors.ValidateFieldName(o.Group); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 || o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width, height and scale must not be negative")
	}
	return nil
}

// NeedsBoundaries reports whether any requested chart draws the county map.
func (o *Options) NeedsBoundaries() bool {
	for _, k := range o.Kinds {
		if k.NeedsBoundaries() {
			return true
		}
	}
	return false
}

// Selection returns the dashboard selection described by the options.
func (o *Options) Selection() dashboard.Selection {
	return dashboard.Selection{YearFrom: o.YearFrom, YearTo: o.YearTo, GroupField: o.Group}
}

// ChartConfig returns the chart configuration for kind under sel.
func (o *Options) ChartConfig(kind chart.Kind, sel dashboard.Selection) chart.Config {
	cfg := chart.DefaultConfig(kind)
	if kind == chart.KindTreemap {
		cfg.Field = sel.GroupField
	} else {
		if o.Width > 0 {
			cfg.Width = o.Width
		}
		if o.Height > 0 {
			cfg.Height = o.Height
		}
	}
	if kind == chart.KindScatter && o.Projection != nil {
		p := *o.Projection
		cfg.Projection = &p
	}
	return cfg
}

// ArtifactKeyOpts returns cache key options for one chart artifact. Only the
// options that change the kind's output are included, so for example a new
// year window does not invalidate the cached bar chart.
func (o *Options) ArtifactKeyOpts(cfg chart.Config, sel dashboard.Selection, format render.Format) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Kind:   string(cfg.Kind),
		Format: string(format),
		Width:  cfg.Width,
		Height: cfg.Height,
		Title:  cfg.Title,
	}
	switch cfg.Kind {
	case chart.KindTreemap:
		k.Field = cfg.Field
	case chart.KindLine:
		k.YearFrom, k.YearTo = sel.YearFrom, sel.YearTo
	case chart.KindScatter:
		if p := cfg.Projection; p != nil {
			k.Projection = [8]float64{p.Center[0], p.Center[1], p.Scale, p.Translate[0], p.Translate[1], p.Rotate[0], p.Rotate[1], p.Rotate[2]}
		}
	}
	if format == render.FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
