package geo

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/emberview/pkg/dataset"
)

// Locator finds the county boundary that contains a point.
type Locator struct {
	features []*geojson.Feature
	bounds   []orb.Bound
}

// NewLocator indexes the polygon features of b.
func NewLocator(b *dataset.Boundaries) *Locator {
	l := &Locator{}
	for _, f := range b.Polygons() {
		l.features = append(l.features, f)
		l.bounds = append(l.bounds, f.Geometry.Bound())
	}
	return l
}

// Locate returns the first feature containing lon/lat.
func (l *Locator) Locate(lon, lat float64) (*geojson.Feature, bool) {
	pt := orb.Point{lon, lat}
	for i, f := range l.features {
		if !l.bounds[i].Contains(pt) {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return f, true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return f, true
			}
		}
	}
	return nil, false
}

// Mismatch is a record placed outside the county it names.
type Mismatch struct {
	Record dataset.Record
	Found  string // county containing the coordinates, empty if none
}

// Mismatches returns the records with coordinates whose stated county is
// not the one containing them. Records without coordinates or county are
// ignored.
func (l *Locator) Mismatches(records []dataset.Record) []Mismatch {
	var out []Mismatch
	for _, r := range records {
		if !r.HasCoords() || r.County == "" {
			continue
		}
		f, ok := l.Locate(r.Longitude, r.Latitude)
		found := ""
		if ok {
			found = dataset.FeatureName(f)
		}
		if !sameCounty(found, r.County) {
			out = append(out, Mismatch{Record: r, Found: found})
		}
	}
	return out
}

func sameCounty(a, b string) bool {
	norm := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.TrimSpace(strings.TrimSuffix(s, " county"))
	}
	return a != "" && norm(a) == norm(b)
}
