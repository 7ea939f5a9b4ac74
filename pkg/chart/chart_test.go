package chart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
)

func rec(kv ...string) dataset.Record {
	fields := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i]] = kv[i+1]
	}
	return dataset.NewRecord(dataset.DefaultColumns, fields)
}

func scenarioRecords() []dataset.Record {
	return []dataset.Record{
		rec("County", "Butte", "* Damage", "Destroyed (>50%)", "Year Built (parcel)", "1990",
			"Latitude", "39.76", "Longitude", "-121.62", "Assessed Improved Value (parcel)", "250000"),
		rec("County", "Butte", "* Damage", "Minor (10-25%)", "Year Built (parcel)", "bad",
			"Latitude", "39.75", "Longitude", "-121.60"),
		rec("County", "Lake", "* Damage", "Destroyed (>50%)", "Year Built (parcel)", "2005",
			"Latitude", "38.95", "Longitude", "-122.63", "Assessed Improved Value (parcel)", "80000"),
	}
}

func boundaries() *dataset.Boundaries {
	ring := orb.Ring{{-123, 38.5}, {-121, 38.5}, {-121, 40.2}, {-123, 40.2}, {-123, 38.5}}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties["name"] = "North Bay"
	return &dataset.Boundaries{Features: geojson.NewFeatureCollection().Append(f)}
}

func TestNewFrame(t *testing.T) {
	f := NewFrame(DefaultConfig(KindBar))
	assert.Equal(t, 820.0, f.OuterWidth())
	assert.Equal(t, 560.0, f.OuterHeight())
	assert.Equal(t, 700.0, f.InnerWidth())
	assert.Equal(t, 350.0, f.InnerHeight())

	tm := NewFrame(DefaultConfig(KindTreemap))
	assert.Equal(t, 500.0, tm.InnerWidth())
	assert.Equal(t, 500.0, tm.InnerHeight())
}

func TestBuildUsesFreshFrame(t *testing.T) {
	data := Data{Records: scenarioRecords()}
	a, err := Build(DefaultConfig(KindBar), data)
	require.NoError(t, err)
	b, err := Build(DefaultConfig(KindBar), data)
	require.NoError(t, err)

	assert.NotSame(t, a.Frame, b.Frame)
	assert.Equal(t, a.SVG, b.SVG)
}

func TestBarChart(t *testing.T) {
	c, err := Build(DefaultConfig(KindBar), Data{Records: scenarioRecords()})
	require.NoError(t, err)

	assert.Equal(t, []aggregate.Bucket{
		{Key: "Destroyed (>50%)", Count: 2},
		{Key: "Minor (10-25%)", Count: 1},
	}, c.Buckets)
	assert.Equal(t, []float64{0, 2}, c.YDomain)

	svg := string(c.SVG)
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.Contains(t, svg, `class="emberview emberview-bar" id="bar-chart-svg"`)
	assert.Contains(t, svg, `data-key="Destroyed (&gt;50%)"`)
	assert.Contains(t, svg, `fill="#F44336"`)
	assert.Contains(t, svg, `fill="#FF9800"`)
	assert.Contains(t, svg, "Wildfire Damage Category Counts")
	assert.Contains(t, svg, "Number of Properties")
	assert.Contains(t, svg, `rotate(-35)`)
	assert.Contains(t, svg, "emberviewBind")
	assert.Equal(t, 2, strings.Count(svg, `class="bar mark"`))
}

func TestBarChartEmpty(t *testing.T) {
	_, err := Render(DefaultConfig(KindBar), Data{Records: []dataset.Record{rec("County", "Butte")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyResult))
	assert.True(t, errors.IsSkippable(err))
}

func TestScatterNeedsBoundaries(t *testing.T) {
	_, err := Render(DefaultConfig(KindScatter), Data{Records: scenarioRecords()})
	assert.True(t, errors.Is(err, errors.ErrCodeLoadFailed))
}

func TestScatterMap(t *testing.T) {
	records := append(scenarioRecords(),
		rec("* Damage", "", "Latitude", "39.1", "Longitude", "-122.1"),
		rec("* Damage", "Inaccessible", "Latitude", "39.2", "Longitude", "-122.2"),
		rec("* Damage", "No Damage"),
	)
	c, err := Build(DefaultConfig(KindScatter), Data{Records: records, Boundaries: boundaries()})
	require.NoError(t, err)

	assert.Equal(t, 5, c.Points)
	assert.Equal(t, []float64{80000, 250000}, c.Sizes)

	svg := string(c.SVG)
	assert.Equal(t, 5, strings.Count(svg, `class="point mark"`))
	assert.Equal(t, 1, strings.Count(svg, `class="county mark"`))
	assert.Contains(t, svg, `fill="#ddd" stroke="#666"`)
	assert.Contains(t, svg, `data-key="Unknown" cx=`)
	assert.Contains(t, svg, `fill="#9E9E9E" opacity="0.8"`)
	assert.Contains(t, svg, `fill="#FFFFFF" opacity="0.8"`)
	assert.Contains(t, svg, `r="10"`, "largest value gets the max radius")
	assert.Contains(t, svg, `r="2"`, "smallest and missing values get the min radius")
}

func TestScatterNoCoordinates(t *testing.T) {
	_, err := Render(DefaultConfig(KindScatter), Data{
		Records:    []dataset.Record{rec("* Damage", "No Damage")},
		Boundaries: boundaries(),
	})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyResult))
}

func TestLineGraph(t *testing.T) {
	records := []dataset.Record{
		rec("Year Built (parcel)", "1950"),
		rec("Year Built (parcel)", "1975"),
		rec("Year Built (parcel)", "1975"),
		rec("Year Built (parcel)", "2000"),
		rec("Year Built (parcel)", "bad"),
		rec("Year Built (parcel)", "2010"),
	}
	c, err := Build(DefaultConfig(KindLine), Data{Records: records})
	require.NoError(t, err)

	assert.Equal(t, []string{"1950", "1975", "2000", "2010"}, aggregate.Keys(c.Buckets))
	assert.Equal(t, []float64{1950, 2010}, c.XDomain)

	svg := string(c.SVG)
	assert.Contains(t, svg, `stroke="steelblue" stroke-width="2" d="M0,`)
	assert.Contains(t, svg, ">1950<")
	assert.NotContains(t, svg, ">1,950<", "years are not grouped")
	assert.Contains(t, svg, "Year Built")
	assert.Contains(t, svg, "Wildfire-Affected Properties by Year Built")
}

func TestLineGraphNoYears(t *testing.T) {
	_, err := Render(DefaultConfig(KindLine), Data{Records: []dataset.Record{rec("Year Built (parcel)", "bad")}})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyResult))
}

func TestTreemap(t *testing.T) {
	records := []dataset.Record{
		rec("County", "San Bernardino"),
		rec("County", "San Bernardino"),
		rec("County", "Lake"),
		rec("County", ""),
	}
	c, err := Build(DefaultConfig(KindTreemap), Data{Records: records})
	require.NoError(t, err)

	assert.Equal(t, "County", c.Field)
	assert.Equal(t, []aggregate.Bucket{{Key: "San Bernardino", Count: 2}, {Key: "Lake", Count: 1}}, c.Buckets)

	svg := string(c.SVG)
	assert.Contains(t, svg, `width="500" height="500"`)
	assert.Contains(t, svg, ">San Bernar...<")
	assert.Contains(t, svg, ">Lake<")
	assert.Contains(t, svg, `fill="orange" stroke="#fff"`)
	assert.Contains(t, svg, `font-size="12px"`)
}

func TestTreemapOtherField(t *testing.T) {
	cfg := DefaultConfig(KindTreemap)
	cfg.Field = "Roof Construction"
	c, err := Build(cfg, Data{Records: []dataset.Record{
		rec("Roof Construction", "Asphalt"),
		rec("Roof Construction", "Tile"),
		rec("Roof Construction", "Asphalt"),
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Asphalt", "Tile"}, aggregate.Keys(c.Buckets))

	cfg.Field = "Missing Column"
	_, err = Render(cfg, Data{Records: []dataset.Record{rec("County", "Lake")}})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyResult))
}

func TestChartJSON(t *testing.T) {
	c, err := Build(DefaultConfig(KindBar), Data{Records: scenarioRecords()})
	require.NoError(t, err)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"kind":"bar"`)
	assert.Contains(t, string(raw), `"y_domain":[0,2]`)

	var decoded Chart
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, c.Buckets, decoded.Buckets)
	assert.NotContains(t, string(raw), "<svg")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"unknown kind", func(c *Config) { c.Kind = "pie" }, errors.ErrCodeInvalidChart},
		{"zero width", func(c *Config) { c.Width = 0 }, errors.ErrCodeInvalidInput},
		{"padding too large", func(c *Config) { c.Padding.Left = 900 }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(KindBar)
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	tm := DefaultConfig(KindTreemap)
	tm.Field = ""
	assert.True(t, errors.Is(tm.Validate(), errors.ErrCodeInvalidField))
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds("bar, line,bar")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindBar, KindLine}, kinds)

	kinds, err = ParseKinds("all")
	require.NoError(t, err)
	assert.Equal(t, Kinds, kinds)

	_, err = ParseKinds("bar,pie")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidChart))
}

func TestMonotoneX(t *testing.T) {
	assert.Equal(t, "", monotoneX(nil))
	assert.Equal(t, "M1,2", monotoneX([][2]float64{{1, 2}}))
	assert.Equal(t, "M0,0L10,10", monotoneX([][2]float64{{0, 0}, {10, 10}}))

	d := monotoneX([][2]float64{{0, 0}, {10, 10}, {20, 10}, {30, 30}})
	assert.True(t, strings.HasPrefix(d, "M0,0C"), d)
	assert.Equal(t, 3, strings.Count(d, "C"))

	// Flat segment: the tangent at a local extremum is zero, so the curve
	// does not overshoot.
	assert.Contains(t, monotoneX([][2]float64{{0, 0}, {10, 10}, {20, 0}}), "C3.33,5,6.67,10,10,10")
}

func TestTickFormat(t *testing.T) {
	assert.Equal(t, "4,500", groupedFormat(500)(4500))
	assert.Equal(t, "0", groupedFormat(500)(0))
	assert.Equal(t, "1990", yearFormat(1990))
	assert.Equal(t, "San Bernar...", truncate("San Bernardino", 10))
	assert.Equal(t, "Lake", truncate("Lake", 10))
	assert.Equal(t, "12.5", num(12.5))
	assert.Equal(t, "3", num(3.001))
}
