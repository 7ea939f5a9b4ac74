// Package aggregate groups parcel records into counted buckets.
//
// Every chart starts from a bucket list: the bar chart and the treemap count
// records per category in descending order, the line graph counts records
// per year built in ascending order. Records whose key is missing are
// skipped, so bucket counts always sum to the number of records that have
// the grouping field.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/matzehuels/emberview/pkg/dataset"
)

// Bucket is one (key, count) pair.
type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// KeyFunc extracts the grouping key from a record. ok is false when the
// record has no value for the key and must be skipped.
type KeyFunc func(r dataset.Record) (key string, ok bool)

// Order selects how buckets are sorted.
type Order int

const (
	// ByCountDesc sorts by descending count; equal counts keep the order in
	// which their keys were first seen.
	ByCountDesc Order = iota
	// ByKeyAsc sorts by ascending key, numerically when both keys are numbers.
	ByKeyAsc
)

// String returns the order name used in flags and manifests.
func (o Order) String() string {
	switch o {
	case ByCountDesc:
		return "count"
	case ByKeyAsc:
		return "key"
	}
	return "unknown"
}

// Aggregate groups records by key and returns the buckets in the given order.
func Aggregate(records []dataset.Record, key KeyFunc, order Order) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, r := range records {
		k, ok := key(r)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket{Key: k})
		}
		buckets[i].Count++
	}

	switch order {
	case ByCountDesc:
		sort.SliceStable(buckets, func(i, j int) bool {
			return buckets[i].Count > buckets[j].Count
		})
	case ByKeyAsc:
		sort.SliceStable(buckets, func(i, j int) bool {
			return lessKey(buckets[i].Key, buckets[j].Key)
		})
	}
	return buckets
}

func lessKey(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

// Total returns the sum of all bucket counts.
func Total(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

// Max returns the largest bucket count, or 0 for no buckets.
func Max(buckets []Bucket) int {
	m := 0
	for _, b := range buckets {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// Keys returns the bucket keys in order.
func Keys(buckets []Bucket) []string {
	keys := make([]string, len(buckets))
	for i, b := range buckets {
		keys[i] = b.Key
	}
	return keys
}
