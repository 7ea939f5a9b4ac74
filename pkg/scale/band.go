package scale

import "math"

// Band maps an ordered set of keys onto equal-width slots of a range.
type Band struct {
	keys      []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
	reverse   bool
}

// NewBand lays out keys across rng. padding is the fraction of a step left
// empty between bands and, the same amount, before the first and after the
// last band. The bands are centered in the range. Duplicate keys keep their
// first position.
func NewBand(keys []string, rng [2]float64, padding float64) Band {
	padding = math.Min(1, math.Max(0, padding))

	b := Band{index: make(map[string]int, len(keys))}
	for _, k := range keys {
		if _, dup := b.index[k]; dup {
			continue
		}
		b.index[k] = len(b.keys)
		b.keys = append(b.keys, k)
	}

	r0, r1 := rng[0], rng[1]
	b.reverse = r1 < r0
	if b.reverse {
		r0, r1 = r1, r0
	}
	n := float64(len(b.keys))
	b.step = (r1 - r0) / math.Max(1, n-padding+padding*2)
	b.start = r0 + (r1-r0-b.step*(n-padding))*0.5
	b.bandwidth = b.step * (1 - padding)
	return b
}

// Position returns the start offset and width of key's band.
// ok is false for keys outside the domain.
func (b Band) Position(key string) (start, width float64, ok bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, 0, false
	}
	if b.reverse {
		i = len(b.keys) - 1 - i
	}
	return b.start + b.step*float64(i), b.bandwidth, true
}

// Center returns the middle of key's band.
func (b Band) Center(key string) (float64, bool) {
	start, width, ok := b.Position(key)
	return start + width/2, ok
}

// Bandwidth returns the width of each band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return b.step }

// Keys returns the domain in band order.
func (b Band) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}
