package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
	"github.com/matzehuels/emberview/pkg/scale"
)

const (
	pointMinRadius = 2
	pointMaxRadius = 10
	pointOpacity   = 0.8
	countyFill     = "#ddd"
	countyStroke   = "#666"
)

func drawScatter(f *Frame, cfg Config, data Data, out *Chart) error {
	counties := data.Boundaries.Polygons()
	if len(counties) == 0 {
		return errors.New(errors.ErrCodeLoadFailed, "county boundaries are not loaded")
	}

	var points []dataset.Record
	var values []float64
	for _, r := range data.Records {
		if !r.HasCoords() {
			continue
		}
		points = append(points, r)
		if r.HasValue() {
			values = append(values, r.AssessedValue)
		}
	}
	if len(points) == 0 {
		return emptyResult("records with coordinates")
	}
	out.Points = len(points)

	w, h := f.InnerWidth(), f.InnerHeight()
	proj := geo.Canonical(w, h)
	if cfg.Projection != nil {
		proj = *cfg.Projection
	}

	size := func(float64) float64 { return pointMinRadius }
	if lo, hi, ok := scale.Extent(values); ok {
		s := scale.NewSqrt([2]float64{lo, hi}, [2]float64{pointMinRadius, pointMaxRadius})
		size = s.Apply
		out.Sizes = []float64{lo, hi}
	}

	f.Inner.WriteString(`      <g class="counties">` + "\n")
	for _, c := range counties {
		name := dataset.FeatureName(c)
		fmt.Fprintf(&f.Inner, `        <path class="county mark" data-key="%s" d="%s" fill="%s" stroke="%s"><title>%s</title></path>`+"\n",
			escapeXML("county:"+name), proj.PathData(c.Geometry), countyFill, countyStroke, escapeXML(name))
	}
	f.Inner.WriteString("      </g>\n")

	f.Inner.WriteString(`      <g class="points">` + "\n")
	for _, r := range points {
		cx, cy := proj.Project(r.Longitude, r.Latitude)
		radius := float64(pointMinRadius)
		if r.HasValue() {
			radius = size(r.AssessedValue)
		}
		category := r.Damage
		if category == "" {
			category = dataset.DamageUnknown
		}
		fmt.Fprintf(&f.Inner, `        <circle class="point mark" data-key="%s" cx="%s" cy="%s" r="%s" fill="%s" opacity="%v"><title>%s</title></circle>`+"\n",
			escapeXML(category), num(cx), num(cy), num(radius), scale.DamageColors.Color(r.Damage), pointOpacity,
			escapeXML(pointTooltip(r, category)))
	}
	f.Inner.WriteString("      </g>\n")

	drawLegend(f, w+10, 0)
	f.title(cfg.Title, 20)
	return nil
}

func pointTooltip(r dataset.Record, category string) string {
	s := category
	if r.County != "" {
		s += " · " + r.County
	}
	if r.HasValue() {
		s += " · $" + humanize.Commaf(r.AssessedValue)
	}
	if r.HasYear() {
		s += fmt.Sprintf(" · built %d", r.YearBuilt)
	}
	return s
}

// drawLegend lists the damage colors at x, y in inner coordinates.
func drawLegend(f *Frame, x, y float64) {
	fmt.Fprintf(&f.Inner, `      <g class="legend" transform="translate(%s,%s)" font-size="12px">`+"\n", num(x), num(y))
	for i, sw := range scale.DamageColors.Swatches() {
		row := float64(i) * 18
		fmt.Fprintf(&f.Inner, `        <g class="legend-item mark" data-key="%s" transform="translate(0,%s)"><rect width="12" height="12" fill="%s" stroke="#666"/><text x="16" y="10">%s</text></g>`+"\n",
			escapeXML(sw.Key), num(row), sw.Color, escapeXML(sw.Key))
	}
	f.Inner.WriteString("      </g>\n")
}
