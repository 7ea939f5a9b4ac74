package pipeline

import (
	"time"

	"github.com/matzehuels/emberview/pkg/cache"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/render"
)

// Output file names.
const (
	DashboardFile = "dashboard.html"
	ManifestFile  = "manifest.json"
)

// Manifest describes the files written by a run.
type Manifest struct {
	RunID     string              `json:"run_id"`
	Created   time.Time           `json:"created"`
	Version   string              `json:"version,omitempty"`
	Inputs    cache.Inputs        `json:"inputs"`
	Selection dashboard.Selection `json:"selection"`
	Charts    []ManifestChart     `json:"charts"`
	Dashboard string              `json:"dashboard,omitempty"`
}

// ManifestChart is the manifest entry of one chart.
type ManifestChart struct {
	Kind    chart.Kind `json:"kind"`
	Files   []string   `json:"files,omitempty"`
	Cached  bool       `json:"cached,omitempty"`
	Skipped string     `json:"skipped,omitempty"`
	Code    string     `json:"code,omitempty"`
}

// FileName returns the output file name of a chart artifact.
func FileName(kind chart.Kind, f render.Format) string {
	return string(kind) + f.Ext()
}

// Manifest builds the manifest of the run. formats is the order artifacts
// are listed in.
func (r *Result) Manifest(version string, formats []render.Format) Manifest {
	m := Manifest{
		RunID:     r.RunID,
		Created:   r.Created.UTC(),
		Version:   version,
		Inputs:    r.Inputs,
		Selection: r.Selection,
	}
	for _, c := range r.Charts {
		entry := ManifestChart{Kind: c.Kind, Cached: c.CacheHit}
		if c.Skipped != nil {
			entry.Skipped = errors.UserMessage(c.Skipped)
			entry.Code = string(errors.GetCode(c.Skipped))
		}
		for _, f := range formats {
			if _, ok := c.Artifacts[f]; ok {
				entry.Files = append(entry.Files, FileName(c.Kind, f))
			}
		}
		m.Charts = append(m.Charts, entry)
	}
	if len(r.Dashboard) > 0 {
		m.Dashboard = DashboardFile
	}
	return m
}
