package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/cache"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/observability"
	"github.com/matzehuels/emberview/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// The CLI and the preview server both use it to avoid duplicating caching
// logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Clock  clockwork.Clock

	// TTL is the lifetime of cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Clock:  clockwork.NewRealClock(),
	}
}

// Loaded holds the inputs of a run once both loads have finished.
type Loaded struct {
	Dataset    *dataset.Dataset
	Boundaries *dataset.Boundaries // nil when no requested chart needs it
	// BoundariesErr is the boundary load failure, if any. Only the charts
	// that draw the county map are affected by it.
	BoundariesErr error
	Inputs        cache.Inputs
}

// YearRange returns the year-built range of the records, or zeros when no
// record has a year.
func (l *Loaded) YearRange() (lo, hi int) {
	lo, hi, _ = aggregate.YearRange(l.Dataset.Records)
	return lo, hi
}

// Data returns the chart input for kind under sel.
func (l *Loaded) Data(kind chart.Kind, sel dashboard.Selection) chart.Data {
	return chart.Data{
		Records:    sel.Records(kind, l.Dataset.Records),
		Boundaries: l.Boundaries,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	opts.Logger = logger

	// Stage 1: Load
	loadStart := r.now()
	in, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{RunID: runID, Created: loadStart, Inputs: in.Inputs}
	result.Stats.LoadTime = r.now().Sub(loadStart)
	result.Stats.RecordCount = len(in.Dataset.Records)
	if in.Boundaries != nil {
		result.Stats.FeatureCount = len(in.Boundaries.Polygons())
	}

	logger.Info("loaded inputs",
		"records", result.Stats.RecordCount,
		"counties", result.Stats.FeatureCount,
		"duration", result.Stats.LoadTime)

	view := dashboard.NewView(in.Dataset.Records, opts.Selection())
	result.Selection = view.Selection()

	// Stage 2: Render
	renderStart := r.now()
	for _, kind := range opts.Kinds {
		cr, err := r.RenderChart(ctx, in, kind, result.Selection, opts)
		if err != nil {
			return nil, err
		}
		switch {
		case cr.Skipped != nil:
			result.Stats.ChartsSkipped++
		case cr.CacheHit:
			result.CacheInfo.Hits++
		default:
			result.CacheInfo.Misses++
		}
		result.Charts = append(result.Charts, cr)
	}
	result.Stats.RenderTime = r.now().Sub(renderStart)

	if opts.Dashboard {
		page, err := Dashboard(result, in)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render dashboard")
		}
		result.Dashboard = page
	}

	logger.Info("rendered charts",
		"charts", len(result.Charts)-result.Stats.ChartsSkipped,
		"skipped", result.Stats.ChartsSkipped,
		"cached", result.CacheInfo.Hits,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the records and, if a requested chart draws the county map and
// a boundary file is configured, the boundaries. The two loads run
// concurrently. A records failure fails the load; a boundary failure is kept
// on Loaded and only skips the charts that draw the map.
func (r *Runner) Load(ctx context.Context, opts Options) (*Loaded, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = chart.Kinds
	}

	hooks := observability.Pipeline()
	start := r.now()
	in := &Loaded{}
	var err error

	hooks.OnLoadStart(ctx, "records")
	if opts.NeedsBoundaries() && opts.Boundaries != "" {
		hooks.OnLoadStart(ctx, "boundaries")
		var b *dataset.Bundle
		b, err = dataset.LoadAll(ctx, dataset.Sources{
			Records:    opts.Records,
			Boundaries: opts.Boundaries,
			Object:     opts.Object,
			Columns:    opts.Columns,
		})
		if b != nil {
			in.Dataset, in.Boundaries, in.BoundariesErr = b.Records, b.Boundaries, b.BoundariesErr
			features := 0
			if in.Boundaries != nil {
				features = len(in.Boundaries.Polygons())
			}
			hooks.OnLoadComplete(ctx, "boundaries", features, r.now().Sub(start), in.BoundariesErr)
			if in.BoundariesErr != nil {
				opts.Logger.Warn("boundaries not loaded, the scatter map will be skipped",
					"path", opts.Boundaries, "err", errors.UserMessage(in.BoundariesErr))
			}
		} else {
			// the records failure cancelled the boundary load
			hooks.OnLoadComplete(ctx, "boundaries", 0, r.now().Sub(start), context.Canceled)
		}
	} else {
		if opts.NeedsBoundaries() {
			opts.Logger.Warn("no boundary file configured, the scatter map will be skipped")
		}
		in.Dataset, err = dataset.LoadRecords(ctx, opts.Records, opts.Columns)
	}
	records := 0
	if in.Dataset != nil {
		records = len(in.Dataset.Records)
	}
	hooks.OnLoadComplete(ctx, "records", records, r.now().Sub(start), err)
	if err != nil {
		return nil, err
	}

	in.Inputs.Records = in.Dataset.Digest
	if in.Boundaries != nil {
		in.Inputs.Boundaries = in.Boundaries.Digest
	}
	opts.Logger.Debug("inputs loaded",
		"fields", len(in.Dataset.Header),
		"records_digest", in.Inputs.Records[:12])
	return in, nil
}

// RenderChart draws one chart and converts it to opts.Formats, reading and
// writing the artifact cache. A chart that cannot be drawn from the inputs
// is returned with Skipped set and a nil error; other failures are
// returned as errors.
func (r *Runner) RenderChart(ctx context.Context, in *Loaded, kind chart.Kind, sel dashboard.Selection, opts Options) (ChartResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return ChartResult{}, err
	}

	hooks := observability.Pipeline()
	start := r.now()
	hooks.OnChartStart(ctx, string(kind))

	cr, err := r.renderChart(ctx, in, kind, sel, opts)
	cr.Duration = r.now().Sub(start)
	hooks.OnChartComplete(ctx, string(kind), cr.Duration, err)

	if err != nil {
		if errors.IsSkippable(err) {
			opts.Logger.Warn("skipping chart", "chart", kind, "reason", errors.UserMessage(err))
			cr.Skipped = err
			return cr, nil
		}
		return cr, err
	}
	opts.Logger.Debug("chart ready", "chart", kind, "cached", cr.CacheHit, "duration", cr.Duration)
	return cr, nil
}

func (r *Runner) renderChart(ctx context.Context, in *Loaded, kind chart.Kind, sel dashboard.Selection, opts Options) (ChartResult, error) {
	cr := ChartResult{Kind: kind}
	if kind.NeedsBoundaries() && in.BoundariesErr != nil {
		return cr, errors.Wrap(errors.ErrCodeLoadFailed, in.BoundariesErr,
			"county boundaries are not loaded: %s", errors.UserMessage(in.BoundariesErr))
	}
	cfg := opts.ChartConfig(kind, sel)

	// svg is always fetched so the dashboard and preview have a document
	formats := withSVG(opts.Formats)
	keys := make(map[render.Format]string, len(formats))
	for _, f := range formats {
		keys[f] = r.Keyer.ArtifactKey(in.Inputs, opts.ArtifactKeyOpts(cfg, sel, f))
	}

	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, formats, keys); ok {
			cr.CacheHit = true
			cr.SVG = artifacts[render.FormatSVG]
			cr.Artifacts = requested(artifacts, opts.Formats)
			return cr, nil
		}
	}

	c, err := chart.Build(cfg, in.Data(kind, sel))
	if err != nil {
		return cr, err
	}
	artifacts, err := Render(ctx, c, formats, opts.Scale)
	if err != nil {
		return cr, err
	}

	for f, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[f], data, r.ttl()); err != nil {
			opts.Logger.Debug("cache write failed", "chart", kind, "format", f, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	cr.Chart = c
	cr.SVG = c.SVG
	cr.Artifacts = requested(artifacts, opts.Formats)
	return cr, nil
}

// cached returns the artifacts for every format, or false if any is missing.
func (r *Runner) cached(ctx context.Context, formats []render.Format, keys map[render.Format]string) (map[render.Format][]byte, bool) {
	out := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		data, hit, err := r.Cache.Get(ctx, keys[f])
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		out[f] = data
	}
	return out, true
}

func withSVG(formats []render.Format) []render.Format {
	for _, f := range formats {
		if f == render.FormatSVG {
			return formats
		}
	}
	return append([]render.Format{render.FormatSVG}, formats...)
}

func requested(artifacts map[render.Format][]byte, formats []render.Format) map[render.Format][]byte {
	out := make(map[render.Format][]byte, len(formats))
	for _, f := range formats {
		if data, ok := artifacts[f]; ok {
			out[f] = data
		}
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// now returns the runner clock's current time.
func (r *Runner) now() time.Time {
	if r.Clock == nil {
		return time.Now()
	}
	return r.Clock.Now()
}
