// Package scale maps data values to visual values: pixel positions, point
// radii and colors.
//
// Scales are small immutable values. They are rebuilt from the data subset
// they are applied to every time that subset changes; nothing in this
// package caches a domain.
//
// The numeric behavior follows the conventions of d3-scale so charts look
// the way readers expect: [Linear.Nice] extends a domain outward to a round
// 1, 2 or 5 multiple of a power of ten, [Linear.Ticks] yields the same tick
// positions, and [Band] lays out equal slots with fractional padding.
package scale
