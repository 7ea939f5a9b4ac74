package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rubenv/topojson"

	"github.com/matzehuels/emberview/pkg/errors"
)

// Boundaries is a decoded county boundary collection.
type Boundaries struct {
	Features *geojson.FeatureCollection
	Digest   string
}

// Polygons returns the features whose geometry can be drawn as an area.
func (b *Boundaries) Polygons() []*geojson.Feature {
	if b == nil || b.Features == nil {
		return nil
	}
	out := make([]*geojson.Feature, 0, len(b.Features.Features))
	for _, f := range b.Features.Features {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
			out = append(out, f)
		}
	}
	return out
}

// FeatureName returns the display name of a boundary feature, looking at the
// property keys county datasets commonly use.
func FeatureName(f *geojson.Feature) string {
	for _, key := range []string{"name", "NAME", "Name", "NAMELSAD", "county", "COUNTY_NAME"} {
		if v, ok := f.Properties[key].(string); ok && v != "" {
			return v
		}
	}
	if s, ok := f.ID.(string); ok {
		return s
	}
	return ""
}

// ReadBoundaries decodes a GeoJSON FeatureCollection or a TopoJSON Topology.
// For topologies, object selects the named object to convert; when empty the
// alphabetically first object is used.
func ReadBoundaries(r io.Reader, object string) (*Boundaries, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read boundaries")
	}
	return parseBoundaries(raw, object)
}

func parseBoundaries(raw []byte, object string) (*Boundaries, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "decode boundaries")
	}

	var (
		fc  *geojson.FeatureCollection
		err error
	)
	switch head.Type {
	case "Topology":
		fc, err = decodeTopology(raw, object)
	case "FeatureCollection":
		fc, err = geojson.UnmarshalFeatureCollection(raw)
	case "Feature":
		var f *geojson.Feature
		if f, err = geojson.UnmarshalFeature(raw); err == nil {
			fc = geojson.NewFeatureCollection().Append(f)
		}
	default:
		return nil, errors.New(errors.ErrCodeLoadFailed, "unsupported boundary document type %q", head.Type)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "decode %s", strings.ToLower(head.Type))
	}
	if fc == nil || len(fc.Features) == 0 {
		return nil, errors.New(errors.ErrCodeLoadFailed, "boundary file has no features")
	}

	sum := sha256.Sum256(raw)
	return &Boundaries{Features: fc, Digest: hex.EncodeToString(sum[:])}, nil
}

func decodeTopology(raw []byte, object string) (*geojson.FeatureCollection, error) {
	var topo topojson.Topology
	if err := json.Unmarshal(raw, &topo); err != nil {
		return nil, err
	}
	if len(topo.Objects) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "topology has no objects")
	}

	names := make([]string, 0, len(topo.Objects))
	for name := range topo.Objects {
		names = append(names, name)
	}
	sort.Strings(names)

	if object == "" {
		object = names[0]
	}
	obj, ok := topo.Objects[object]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "topology object %q not found (have %s)", object, strings.Join(names, ", "))
	}
	topo.Objects = map[string]*topojson.Geometry{object: obj}
	return topo.ToGeoJSON(), nil
}
