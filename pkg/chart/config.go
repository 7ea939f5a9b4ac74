package chart

import (
	"fmt"
	"strings"

	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
)

// Kind identifies a chart type.
type Kind string

const (
	KindBar     Kind = "bar"
	KindScatter Kind = "scatter"
	KindLine    Kind = "line"
	KindTreemap Kind = "treemap"
)

// Kinds lists every chart kind in dashboard order.
var Kinds = []Kind{KindBar, KindScatter, KindLine, KindTreemap}

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidChart, "unknown chart kind %q (want bar, scatter, line or treemap)", s)
}

// ParseKinds parses a comma-separated list of kinds. "all" selects every
// kind. Duplicates are dropped.
func ParseKinds(s string) ([]Kind, error) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), "all") {
		return append([]Kind(nil), Kinds...), nil
	}
	seen := make(map[Kind]bool)
	var out []Kind
	for _, part := range strings.Split(s, ",") {
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

// NeedsBoundaries reports whether the kind draws the county map.
func (k Kind) NeedsBoundaries() bool { return k == KindScatter }

// Insets is a set of edge offsets in pixels.
type Insets struct {
	Top    float64 `mapstructure:"top" toml:"top" json:"top"`
	Right  float64 `mapstructure:"right" toml:"right" json:"right"`
	Bottom float64 `mapstructure:"bottom" toml:"bottom" json:"bottom"`
	Left   float64 `mapstructure:"left" toml:"left" json:"left"`
}

// Default layout.
const (
	DefaultWidth   = 1000
	DefaultHeight  = 600
	TreemapSize    = 500
	TreemapPadding = 1
	TreemapField   = "County"
)

var (
	DefaultMargin  = Insets{Top: 20, Right: 80, Bottom: 20, Left: 100}
	DefaultPadding = Insets{Top: 60, Right: 60, Bottom: 150, Left: 60}
)

// Config parameterizes one chart.
type Config struct {
	Mount  string // id of the element the chart is mounted in
	Title  string
	Kind   Kind
	Field  string // grouping column; used by the treemap
	XLabel string
	YLabel string

	Width   float64
	Height  float64
	Margin  Insets
	Padding Insets

	// Projection places the scatter map. Nil selects geo.Canonical for the
	// drawing area.
	Projection *geo.Projection
}

// DefaultConfig returns the standard configuration for kind.
func DefaultConfig(kind Kind) Config {
	cfg := Config{
		Kind:    kind,
		Width:   DefaultWidth,
		Height:  DefaultHeight,
		Margin:  DefaultMargin,
		Padding: DefaultPadding,
	}
	switch kind {
	case KindBar:
		cfg.Mount = "bar-chart"
		cfg.Title = "Wildfire Damage Category Counts"
		cfg.XLabel = "Damage Category"
		cfg.YLabel = "Number of Properties"
	case KindScatter:
		cfg.Mount = "scatterplot"
		cfg.Title = "Wildfire Damage ScatterMap"
	case KindLine:
		cfg.Mount = "line-graph"
		cfg.Title = "Wildfire-Affected Properties by Year Built"
		cfg.XLabel = "Year Built"
		cfg.YLabel = "Number of Properties"
	case KindTreemap:
		cfg.Mount = "treemap"
		cfg.Field = TreemapField
		cfg.Width, cfg.Height = TreemapSize, TreemapSize
		cfg.Margin, cfg.Padding = Insets{}, Insets{}
	}
	return cfg
}

// Validate checks that the configuration can be drawn.
func (c Config) Validate() error {
	if _, err := ParseKind(string(c.Kind)); err != nil {
		return err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s chart size %vx%v must be positive", c.Kind, c.Width, c.Height)
	}
	f := NewFrame(c)
	if f.InnerWidth() <= 0 || f.InnerHeight() <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s chart margins and padding leave no drawing area", c.Kind)
	}
	if c.Kind == KindTreemap {
		if err := errors.ValidateFieldName(c.Field); err != nil {
			return err
		}
	}
	if p := c.Projection; p != nil && p.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "projection scale must be positive")
	}
	return nil
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return fmt.Sprintf("%s(#%s %vx%v)", c.Kind, c.Mount, c.Width, c.Height)
}
