package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/observability"
	"github.com/matzehuels/emberview/pkg/render"
)

// Render generates output artifacts for a drawn chart in the requested
// formats.
func Render(ctx context.Context, c *chart.Chart, formats []render.Format, scale float64) (map[render.Format][]byte, error) {
	artifacts := make(map[render.Format][]byte, len(formats))

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case render.FormatSVG:
			data = c.SVG
		case render.FormatJSON:
			data, err = json.MarshalIndent(c, "", "  ")
		case render.FormatPNG, render.FormatPDF:
			start := time.Now()
			data, err = render.Convert(ctx, c.SVG, format, scale)
			observability.Pipeline().OnConvertComplete(ctx, string(format), time.Since(start), err)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// Dashboard assembles the combined page from the chart results of a run.
// Skipped charts keep their mount point and show the skip reason.
func Dashboard(res *Result, in *Loaded) ([]byte, error) {
	data := dashboard.PageData{
		Selection:   res.Selection,
		GroupFields: in.Dataset.Fields(),
	}
	data.YearMin, data.YearMax = in.YearRange()
	for _, c := range res.Charts {
		p := dashboard.Panel{Kind: c.Kind, Mount: dashboard.Mounts[c.Kind], SVG: c.SVG}
		if c.Skipped != nil {
			p.Err = c.Skipped.Error()
		}
		data.Panels = append(data.Panels, p)
	}
	return dashboard.Page(data)
}
