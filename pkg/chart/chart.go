package chart

import (
	"fmt"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/scale"
)

// Data is the input of a render call.
type Data struct {
	Records    []dataset.Record
	Boundaries *dataset.Boundaries // required by KindScatter only
}

// Chart is a rendered chart together with the values it was drawn from.
type Chart struct {
	Kind    Kind               `json:"kind"`
	Mount   string             `json:"mount"`
	Title   string             `json:"title,omitempty"`
	Field   string             `json:"field,omitempty"`
	Buckets []aggregate.Bucket `json:"buckets,omitempty"`
	Points  int                `json:"points,omitempty"`
	XDomain []float64          `json:"x_domain,omitempty"`
	YDomain []float64          `json:"y_domain,omitempty"`
	Sizes   []float64          `json:"size_domain,omitempty"`

	Frame *Frame `json:"-"`
	SVG   []byte `json:"-"`
}

type drawFunc func(f *Frame, cfg Config, data Data, out *Chart) error

var drawers = map[Kind]drawFunc{
	KindBar:     drawBar,
	KindScatter: drawScatter,
	KindLine:    drawLine,
	KindTreemap: drawTreemap,
}

// Render draws one chart and returns the SVG document.
func Render(cfg Config, data Data) ([]byte, error) {
	c, err := Build(cfg, data)
	if err != nil {
		return nil, err
	}
	return c.SVG, nil
}

// Build draws one chart into a fresh frame.
func Build(cfg Config, data Data) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	draw, ok := drawers[cfg.Kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "no renderer for %s", cfg.Kind)
	}

	f := NewFrame(cfg)
	out := &Chart{Kind: cfg.Kind, Mount: cfg.Mount, Title: cfg.Title, Frame: f}
	if err := draw(f, cfg, data, out); err != nil {
		return nil, fmt.Errorf("%s chart: %w", cfg.Kind, err)
	}
	out.SVG = f.Bytes(cfg)
	return out, nil
}

func domainOf(s scale.Linear) []float64 {
	d := s.Domain()
	return []float64{d[0], d[1]}
}

func emptyResult(what string) error {
	return errors.New(errors.ErrCodeEmptyResult, "no %s to draw", what)
}
