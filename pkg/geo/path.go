package geo

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// PathData returns the SVG path "d" attribute for an area geometry.
// Rings are projected vertex by vertex and closed with Z. Geometries that
// are not polygons yield an empty string.
func (p Projection) PathData(g orb.Geometry) string {
	var b strings.Builder
	switch g := g.(type) {
	case orb.Polygon:
		p.writePolygon(&b, g)
	case orb.MultiPolygon:
		for _, poly := range g {
			p.writePolygon(&b, poly)
		}
	}
	return b.String()
}

func (p Projection) writePolygon(b *strings.Builder, poly orb.Polygon) {
	for _, ring := range poly {
		p.writeRing(b, ring)
	}
}

func (p Projection) writeRing(b *strings.Builder, ring orb.Ring) {
	if len(ring) < 3 {
		return
	}
	if ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	var last string
	for i, pt := range ring {
		x, y := p.Project(pt.Lon(), pt.Lat())
		xy := formatCoord(x) + "," + formatCoord(y)
		if i > 0 && xy == last {
			continue
		}
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(xy)
		last = xy
	}
	b.WriteByte('Z')
}

func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
