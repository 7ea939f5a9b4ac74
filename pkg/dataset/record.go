package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Damage categories as they appear in the "* Damage" column.
const (
	DamageNone      = "No Damage"
	DamageAffected  = "Affected (1-9%)"
	DamageMinor     = "Minor (10-25%)"
	DamageMajor     = "Major (26-50%)"
	DamageDestroyed = "Destroyed (>50%)"
	DamageUnknown   = "Unknown"
)

// DamageCategories lists the known categories from least to most severe,
// followed by Unknown.
var DamageCategories = []string{
	DamageNone,
	DamageAffected,
	DamageMinor,
	DamageMajor,
	DamageDestroyed,
	DamageUnknown,
}

// Columns names the header cells that carry the typed record fields.
type Columns struct {
	Damage    string `mapstructure:"damage" toml:"damage" json:"damage"`
	County    string `mapstructure:"county" toml:"county" json:"county"`
	Value     string `mapstructure:"value" toml:"value" json:"value"`
	YearBuilt string `mapstructure:"year_built" toml:"year_built" json:"year_built"`
	Latitude  string `mapstructure:"latitude" toml:"latitude" json:"latitude"`
	Longitude string `mapstructure:"longitude" toml:"longitude" json:"longitude"`
}

// DefaultColumns matches the CAL FIRE damage inspection export.
var DefaultColumns = Columns{
	Damage:    "* Damage",
	County:    "County",
	Value:     "Assessed Improved Value (parcel)",
	YearBuilt: "Year Built (parcel)",
	Latitude:  "Latitude",
	Longitude: "Longitude",
}

// withDefaults fills empty names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	if c.Damage == "" {
		c.Damage = DefaultColumns.Damage
	}
	if c.County == "" {
		c.County = DefaultColumns.County
	}
	if c.Value == "" {
		c.Value = DefaultColumns.Value
	}
	if c.YearBuilt == "" {
		c.YearBuilt = DefaultColumns.YearBuilt
	}
	if c.Latitude == "" {
		c.Latitude = DefaultColumns.Latitude
	}
	if c.Longitude == "" {
		c.Longitude = DefaultColumns.Longitude
	}
	return c
}

func (c Columns) required() []string {
	return []string{c.Damage, c.County, c.Value, c.YearBuilt, c.Latitude, c.Longitude}
}

// Record is one parcel row. Numeric fields that were blank or did not parse
// are NaN (floats) or zero (YearBuilt). Records are never modified after
// they are loaded.
type Record struct {
	Damage        string
	County        string
	AssessedValue float64
	YearBuilt     int
	Latitude      float64
	Longitude     float64

	fields map[string]string
}

// NewRecord builds a record from raw column values keyed by header name,
// applying the same coercion as [ReadCSV].
func NewRecord(cols Columns, fields map[string]string) Record {
	cols = cols.withDefaults()
	r := Record{
		Damage:        strings.TrimSpace(fields[cols.Damage]),
		County:        strings.TrimSpace(fields[cols.County]),
		AssessedValue: parseFloat(fields[cols.Value]),
		YearBuilt:     parseYear(fields[cols.YearBuilt]),
		Latitude:      parseFloat(fields[cols.Latitude]),
		Longitude:     parseFloat(fields[cols.Longitude]),
		fields:        make(map[string]string, len(fields)),
	}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r
}

// Field returns the trimmed value of any column. ok is false when the
// column is absent or blank.
func (r Record) Field(name string) (string, bool) {
	v := strings.TrimSpace(r.fields[name])
	if v == "" {
		return "", false
	}
	return v, true
}

// HasValue reports whether the assessed value is present.
func (r Record) HasValue() bool {
	return !math.IsNaN(r.AssessedValue)
}

// HasYear reports whether year built is present.
func (r Record) HasYear() bool {
	return r.YearBuilt != 0
}

// HasCoords reports whether the record can be placed on the map.
// A zero latitude or longitude counts as missing.
func (r Record) HasCoords() bool {
	return isSet(r.Latitude) && isSet(r.Longitude)
}

func isSet(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v != 0
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// parseYear accepts whole numbers only; "1990.0" is fine, "1990.5" and
// "bad" are missing.
func parseYear(s string) int {
	f := parseFloat(s)
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f <= 0 {
		return 0
	}
	return int(f)
}
