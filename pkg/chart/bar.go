package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/scale"
)

const (
	bandPadding  = 0.1
	barLabelTilt = -35
)

func drawBar(f *Frame, cfg Config, data Data, out *Chart) error {
	buckets := aggregate.Aggregate(data.Records, aggregate.ByDamage, aggregate.ByCountDesc)
	if len(buckets) == 0 {
		return emptyResult("damage categories")
	}
	out.Buckets = buckets

	w, h := f.InnerWidth(), f.InnerHeight()
	x := scale.NewBand(aggregate.Keys(buckets), [2]float64{0, w}, bandPadding)
	y := scale.NewLinear([2]float64{0, float64(aggregate.Max(buckets))}, [2]float64{h, 0}).Nice(scale.DefaultTickCount)
	out.YDomain = domainOf(y)

	for _, b := range buckets {
		x0, bw, _ := x.Position(b.Key)
		top := y.Apply(float64(b.Count))
		fmt.Fprintf(&f.Inner, `      <rect class="bar mark" data-key="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"><title>%s: %s</title></rect>`+"\n",
			escapeXML(b.Key), num(x0), num(top), num(bw), num(h-top), scale.DamageColors.Color(b.Key),
			escapeXML(b.Key), humanize.Comma(int64(b.Count)))
	}

	bandAxisBottom(&f.Inner, x, h, w, barLabelTilt)
	linearAxisLeft(&f.Inner, y, scale.DefaultTickCount, countFormat(y, scale.DefaultTickCount))

	f.xLabel(cfg.XLabel, h+f.Padding.Bottom+20)
	f.yLabel(cfg.YLabel)
	f.title(cfg.Title, 20)
	return nil
}
