package aggregate

import (
	"strconv"

	"github.com/matzehuels/emberview/pkg/dataset"
)

// ByDamage keys records by damage category. Blank categories are skipped.
func ByDamage(r dataset.Record) (string, bool) {
	return r.Damage, r.Damage != ""
}

// ByCounty keys records by county.
func ByCounty(r dataset.Record) (string, bool) {
	return r.County, r.County != ""
}

// ByYearBuilt keys records by year built. Missing and non-integer years
// are skipped.
func ByYearBuilt(r dataset.Record) (string, bool) {
	if !r.HasYear() {
		return "", false
	}
	return strconv.Itoa(r.YearBuilt), true
}

// ByField keys records by an arbitrary column.
func ByField(name string) KeyFunc {
	return func(r dataset.Record) (string, bool) {
		return r.Field(name)
	}
}

// FilterYears returns the records whose year built lies in [lo, hi].
// Records without a year are dropped.
func FilterYears(records []dataset.Record, lo, hi int) []dataset.Record {
	out := make([]dataset.Record, 0, len(records))
	for _, r := range records {
		if r.HasYear() && r.YearBuilt >= lo && r.YearBuilt <= hi {
			out = append(out, r)
		}
	}
	return out
}

// YearRange returns the smallest and largest year built among records.
// ok is false when no record has a year.
func YearRange(records []dataset.Record) (lo, hi int, ok bool) {
	for _, r := range records {
		if !r.HasYear() {
			continue
		}
		if !ok || r.YearBuilt < lo {
			lo = r.YearBuilt
		}
		if !ok || r.YearBuilt > hi {
			hi = r.YearBuilt
		}
		ok = true
	}
	return lo, hi, ok
}
