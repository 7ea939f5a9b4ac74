package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/emberview/pkg/dataset"
)

func rec(fields map[string]string) dataset.Record {
	return dataset.NewRecord(dataset.DefaultColumns, fields)
}

func withYear(y string) dataset.Record {
	return rec(map[string]string{"Year Built (parcel)": y})
}

func TestAggregateByDamageDescending(t *testing.T) {
	records := []dataset.Record{
		rec(map[string]string{"County": "Butte", "* Damage": "Destroyed (>50%)"}),
		rec(map[string]string{"County": "Butte", "* Damage": "Minor (10-25%)"}),
		rec(map[string]string{"County": "Lake", "* Damage": "Destroyed (>50%)"}),
	}

	got := Aggregate(records, ByDamage, ByCountDesc)
	assert.Equal(t, []Bucket{
		{Key: "Destroyed (>50%)", Count: 2},
		{Key: "Minor (10-25%)", Count: 1},
	}, got)
}

func TestAggregateTiesKeepEncounterOrder(t *testing.T) {
	records := []dataset.Record{
		rec(map[string]string{"County": "Lake"}),
		rec(map[string]string{"County": "Butte"}),
		rec(map[string]string{"County": "Napa"}),
		rec(map[string]string{"County": "Butte"}),
		rec(map[string]string{"County": "Napa"}),
	}

	got := Aggregate(records, ByCounty, ByCountDesc)
	assert.Equal(t, []string{"Butte", "Napa", "Lake"}, Keys(got))
}

func TestAggregateByYearSkipsMissing(t *testing.T) {
	records := []dataset.Record{withYear("1990"), withYear(""), withYear("2005"), withYear("bad")}

	got := Aggregate(records, ByYearBuilt, ByKeyAsc)
	require.Len(t, got, 2)
	assert.Equal(t, []Bucket{{Key: "1990", Count: 1}, {Key: "2005", Count: 1}}, got)
}

func TestAggregateKeyAscIsNumeric(t *testing.T) {
	records := []dataset.Record{withYear("2010"), withYear("950"), withYear("1975")}

	got := Aggregate(records, ByYearBuilt, ByKeyAsc)
	assert.Equal(t, []string{"950", "1975", "2010"}, Keys(got))
}

func TestAggregateCountsSumToPresentKeys(t *testing.T) {
	damages := []string{"No Damage", "", "Minor (10-25%)", "No Damage", "", "Destroyed (>50%)", "Affected (1-9%)"}
	var records []dataset.Record
	present := 0
	for _, d := range damages {
		records = append(records, rec(map[string]string{"* Damage": d}))
		if d != "" {
			present++
		}
	}

	for _, order := range []Order{ByCountDesc, ByKeyAsc} {
		got := Aggregate(records, ByDamage, order)
		assert.Equal(t, present, Total(got), "order %s", order)
	}
}

func TestAggregateByField(t *testing.T) {
	records := []dataset.Record{
		rec(map[string]string{"Roof Construction": "Asphalt"}),
		rec(map[string]string{"Roof Construction": " Tile "}),
		rec(map[string]string{"Roof Construction": "Asphalt"}),
		rec(map[string]string{}),
	}

	got := Aggregate(records, ByField("Roof Construction"), ByCountDesc)
	assert.Equal(t, []Bucket{{Key: "Asphalt", Count: 2}, {Key: "Tile", Count: 1}}, got)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, ByDamage, ByCountDesc))
	assert.Equal(t, 0, Max(nil))
	assert.Equal(t, 0, Total(nil))
}

func TestFilterYearsWindow(t *testing.T) {
	records := []dataset.Record{withYear("1950"), withYear("1975"), withYear("2000"), withYear("2010")}

	filtered := FilterYears(records, 1960, 2005)
	got := Aggregate(filtered, ByYearBuilt, ByKeyAsc)
	assert.Equal(t, []Bucket{{Key: "1975", Count: 1}, {Key: "2000", Count: 1}}, got)
}

func TestFilterYearsInclusive(t *testing.T) {
	records := []dataset.Record{withYear("1960"), withYear("2005"), withYear("")}
	assert.Len(t, FilterYears(records, 1960, 2005), 2)
}

func TestYearRange(t *testing.T) {
	lo, hi, ok := YearRange([]dataset.Record{withYear("1975"), withYear(""), withYear("1920"), withYear("2001")})
	require.True(t, ok)
	assert.Equal(t, 1920, lo)
	assert.Equal(t, 2001, hi)

	_, _, ok = YearRange([]dataset.Record{withYear("bad")})
	assert.False(t, ok)
}

func TestMax(t *testing.T) {
	assert.Equal(t, 7, Max([]Bucket{{"a", 3}, {"b", 7}, {"c", 1}}))
}
