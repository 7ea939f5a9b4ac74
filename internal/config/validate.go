package config

import (
	"strings"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
	"github.com/matzehuels/emberview/pkg/pipeline"
	"github.com/matzehuels/emberview/pkg/render"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if _, err := c.Kinds(); err != nil {
		return err
	}
	if _, err := c.Formats(); err != nil {
		return err
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.width and render.height must not be negative")
	}
	if c.Render.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "render.scale must be positive")
	}
	if c.Dashboard.YearFrom != 0 || c.Dashboard.YearTo != 0 {
		if err := errors.ValidateYearWindow(c.Dashboard.YearFrom, c.Dashboard.YearTo); err != nil {
			return err
		}
	}
	if err := errors.ValidateFieldName(c.Dashboard.Group); err != nil {
		return err
	}
	if _, err := c.Projection.Projection(); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "server.addr is required")
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return errors.New(errors.ErrCodeInvalidInput, "logging.level must be one of: debug, info, warn, error")
	}
	if f := strings.ToLower(c.Logging.Format); f != "text" && f != "json" {
		return errors.New(errors.ErrCodeInvalidInput, "logging.format must be text or json")
	}
	return nil
}

// Kinds returns the configured chart kinds.
func (c *Config) Kinds() ([]chart.Kind, error) {
	return chart.ParseKinds(strings.Join(c.Render.Charts, ","))
}

// Formats returns the configured output formats.
func (c *Config) Formats() ([]render.Format, error) {
	return render.ParseFormats(strings.Join(c.Render.Formats, ","))
}

// Projection converts the config to a projection. It returns nil when the
// override is disabled.
func (p ProjectionConfig) Projection() (*geo.Projection, error) {
	if !p.Enabled {
		return nil, nil
	}
	if len(p.Center) != 2 || len(p.Translate) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "projection.center and projection.translate need two values")
	}
	if len(p.Rotate) < 2 || len(p.Rotate) > 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "projection.rotate needs two or three values")
	}
	if p.Scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "projection.scale must be positive")
	}
	proj := &geo.Projection{Scale: p.Scale}
	copy(proj.Center[:], p.Center)
	copy(proj.Translate[:], p.Translate)
	copy(proj.Rotate[:], p.Rotate)
	return proj, nil
}

// PipelineOptions converts the config into pipeline options. records
// overrides data.records when set.
func (c *Config) PipelineOptions(records string) (pipeline.Options, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Options{}, err
	}
	kinds, _ := c.Kinds()
	formats, _ := c.Formats()
	proj, _ := c.Projection.Projection()
	if records == "" {
		records = c.Data.Records
	}
	return pipeline.Options{
		Records:    records,
		Boundaries: c.Data.Boundaries,
		Object:     c.Data.Object,
		Columns:    c.Data.Columns,
		YearFrom:   c.Dashboard.YearFrom,
		YearTo:     c.Dashboard.YearTo,
		Group:      c.Dashboard.Group,
		Kinds:      kinds,
		Formats:    formats,
		Width:      c.Render.Width,
		Height:     c.Render.Height,
		Scale:      c.Render.Scale,
		Projection: proj,
		Dashboard:  c.Render.Dashboard,
	}, nil
}
