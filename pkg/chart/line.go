package chart

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/scale"
)

const (
	lineStroke      = "steelblue"
	lineStrokeWidth = 2
	lineXTicks      = 10
)

func drawLine(f *Frame, cfg Config, data Data, out *Chart) error {
	buckets := aggregate.Aggregate(data.Records, aggregate.ByYearBuilt, aggregate.ByKeyAsc)
	if len(buckets) == 0 {
		return emptyResult("years")
	}
	out.Buckets = buckets

	years := make([]float64, len(buckets))
	for i, b := range buckets {
		years[i], _ = strconv.ParseFloat(b.Key, 64)
	}
	lo, hi, _ := scale.Extent(years)

	w, h := f.InnerWidth(), f.InnerHeight()
	x := scale.NewLinear([2]float64{lo, hi}, [2]float64{0, w}).Nice(lineXTicks)
	y := scale.NewLinear([2]float64{0, float64(aggregate.Max(buckets))}, [2]float64{h, 0}).Nice(scale.DefaultTickCount)
	out.XDomain = domainOf(x)
	out.YDomain = domainOf(y)

	pts := make([][2]float64, len(buckets))
	for i, b := range buckets {
		pts[i] = [2]float64{x.Apply(years[i]), y.Apply(float64(b.Count))}
	}
	fmt.Fprintf(&f.Inner, `      <path class="line" fill="none" stroke="%s" stroke-width="%d" d="%s"/>`+"\n",
		lineStroke, lineStrokeWidth, monotoneX(pts))

	f.Inner.WriteString(`      <g class="year-points">` + "\n")
	for i, b := range buckets {
		fmt.Fprintf(&f.Inner, `        <circle class="year mark" data-key="%s" cx="%s" cy="%s" r="3" fill="%s"><title>%s: %s</title></circle>`+"\n",
			escapeXML(b.Key), num(pts[i][0]), num(pts[i][1]), lineStroke, escapeXML(b.Key), humanize.Comma(int64(b.Count)))
	}
	f.Inner.WriteString("      </g>\n")

	linearAxisBottom(&f.Inner, x, h, lineXTicks, yearFormat)
	linearAxisLeft(&f.Inner, y, scale.DefaultTickCount, countFormat(y, scale.DefaultTickCount))

	f.xLabel(cfg.XLabel, h+f.Padding.Bottom-20)
	f.yLabel(cfg.YLabel)
	f.title(cfg.Title, 30)
	return nil
}
