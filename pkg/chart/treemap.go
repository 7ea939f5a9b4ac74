package chart

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/treemap"
)

const (
	tileFill      = "orange"
	tileStroke    = "#fff"
	tileLabelRune = 10
)

func drawTreemap(f *Frame, cfg Config, data Data, out *Chart) error {
	buckets := aggregate.Aggregate(data.Records, aggregate.ByField(cfg.Field), aggregate.ByCountDesc)
	if len(buckets) == 0 {
		return emptyResult(cfg.Field + " values")
	}
	out.Buckets = buckets
	out.Field = cfg.Field

	items := make([]treemap.Item, len(buckets))
	for i, b := range buckets {
		items[i] = treemap.Item{Key: b.Key, Value: float64(b.Count)}
	}
	tiles := treemap.Squarify(items, f.InnerWidth(), f.InnerHeight(), TreemapPadding)

	for _, t := range tiles {
		fmt.Fprintf(&f.Inner, `      <rect class="tile mark" data-key="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s"><title>%s: %s</title></rect>`+"\n",
			escapeXML(t.Key), num(t.X0), num(t.Y0), num(t.Width()), num(t.Height()), tileFill, tileStroke,
			escapeXML(t.Key), humanize.Comma(int64(t.Value)))
	}
	for _, t := range tiles {
		fmt.Fprintf(&f.Inner, `      <text class="tile-label" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="black" font-size="12px" pointer-events="none">%s</text>`+"\n",
			num((t.X0+t.X1)/2), num((t.Y0+t.Y1)/2), escapeXML(truncate(t.Key, tileLabelRune)))
	}

	f.title(cfg.Title, 20)
	return nil
}
