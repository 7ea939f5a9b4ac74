package server

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/pipeline"
)

// Board keeps the latest rendering of every chart. It subscribes to a
// dashboard view and redraws the charts named in each subset-changed event.
type Board struct {
	runner *pipeline.Runner
	in     *pipeline.Loaded
	opts   pipeline.Options
	logger *log.Logger

	mu     sync.RWMutex
	panels map[chart.Kind]pipeline.ChartResult

	unsubscribe func()
}

// NewBoard renders every chart once for the view's current selection and
// then follows the view.
func NewBoard(ctx context.Context, runner *pipeline.Runner, in *pipeline.Loaded, view *dashboard.View, opts pipeline.Options) (*Board, error) {
	b := &Board{
		runner: runner,
		in:     in,
		opts:   opts,
		logger: runner.Logger,
		panels: make(map[chart.Kind]pipeline.ChartResult),
	}
	if opts.Logger != nil {
		b.logger = opts.Logger
	}
	if err := b.redraw(ctx, view.Selection(), opts.Kinds); err != nil {
		return nil, err
	}
	b.unsubscribe = view.Subscribe(func(ev dashboard.Event) {
		// Listeners have no error path; failures are kept on the panel.
		if err := b.redraw(context.Background(), ev.Selection, ev.Changed); err != nil {
			b.logger.Error("redraw failed", "charts", ev.Changed, "error", err)
		}
	})
	return b, nil
}

func (b *Board) redraw(ctx context.Context, sel dashboard.Selection, kinds []chart.Kind) error {
	for _, kind := range kinds {
		if !b.wants(kind) {
			continue
		}
		cr, err := b.runner.RenderChart(ctx, b.in, kind, sel, b.opts)
		if err != nil {
			cr = pipeline.ChartResult{Kind: kind, Skipped: err}
		}
		b.mu.Lock()
		b.panels[kind] = cr
		b.mu.Unlock()
		if err != nil {
			return err
		}
		b.logger.Debug("redrew chart", "chart", kind, "cached", cr.CacheHit, "duration", cr.Duration)
	}
	return nil
}

func (b *Board) wants(kind chart.Kind) bool {
	for _, k := range b.opts.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Panel returns the latest rendering of kind.
func (b *Board) Panel(kind chart.Kind) (pipeline.ChartResult, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cr, ok := b.panels[kind]
	return cr, ok
}

// Panels returns the dashboard panels in chart order.
func (b *Board) Panels() []dashboard.Panel {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []dashboard.Panel
	for _, kind := range b.opts.Kinds {
		cr, ok := b.panels[kind]
		if !ok {
			continue
		}
		p := dashboard.Panel{Kind: kind, Mount: dashboard.Mounts[kind], SVG: cr.SVG}
		if cr.Skipped != nil {
			p.Err = cr.Skipped.Error()
		}
		out = append(out, p)
	}
	return out
}

// Close stops following the view.
func (b *Board) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
}
