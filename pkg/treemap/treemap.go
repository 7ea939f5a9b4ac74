// Package treemap lays out weighted items as nested rectangles using the
// squarified algorithm of Bruls, Huizing and van Wijk, with the golden
// ratio as the target aspect ratio.
//
// Only a single level is supported: a root holding leaf items. Padding
// follows the d3-hierarchy convention: p is kept around the leaves and p
// between adjacent leaves.
package treemap

import "math"

// Phi is the golden ratio, the aspect ratio rows are tuned toward.
var Phi = (1 + math.Sqrt(5)) / 2

// Item is one weighted leaf.
type Item struct {
	Key   string
	Value float64
}

// Tile is a positioned leaf.
type Tile struct {
	Key    string
	Value  float64
	X0, Y0 float64
	X1, Y1 float64
}

// Width returns the tile width.
func (t Tile) Width() float64 { return t.X1 - t.X0 }

// Height returns the tile height.
func (t Tile) Height() float64 { return t.Y1 - t.Y0 }

// Area returns the tile area.
func (t Tile) Area() float64 { return t.Width() * t.Height() }

// Squarify lays items out inside a width by height rectangle, keeping their
// order. Items with non-positive values get empty tiles.
func Squarify(items []Item, width, height, padding float64) []Tile {
	tiles := make([]Tile, len(items))
	total := 0.0
	for i, it := range items {
		v := math.Max(0, it.Value)
		tiles[i] = Tile{Key: it.Key, Value: v}
		total += v
	}
	if len(tiles) == 0 {
		return tiles
	}
	if total == 0 {
		for i := range tiles {
			tiles[i].X0, tiles[i].X1 = width/2, width/2
			tiles[i].Y0, tiles[i].Y1 = height/2, height/2
		}
		return tiles
	}

	half := padding / 2
	x0, y0, x1, y1 := padding-half, padding-half, width-(padding-half), height-(padding-half)
	x0, x1 = collapse(x0, x1)
	y0, y1 = collapse(y0, y1)

	squarify(tiles, total, Phi, x0, y0, x1, y1)

	for i := range tiles {
		t := &tiles[i]
		t.X0, t.X1 = collapse(t.X0+half, t.X1-half)
		t.Y0, t.Y1 = collapse(t.Y0+half, t.Y1-half)
	}
	return tiles
}

func collapse(a, b float64) (float64, float64) {
	if b < a {
		m := (a + b) / 2
		return m, m
	}
	return a, b
}

func squarify(nodes []Tile, value, ratio, x0, y0, x1, y1 float64) {
	n := len(nodes)
	i0, i1 := 0, 0
	for i0 < n {
		if value <= 0 {
			for i := i0; i < n; i++ {
				nodes[i].X0, nodes[i].Y0, nodes[i].X1, nodes[i].Y1 = x0, y0, x0, y0
			}
			return
		}
		dx, dy := x1-x0, y1-y0

		// first non-empty node
		var sum float64
		for {
			sum = nodes[i1].Value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := nodes[i1].Value
			sum += v
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
			beta = sum * sum * alpha
			newRatio := math.Max(maxV/beta, beta/minV)
			if newRatio > minRatio {
				sum -= v
				break
			}
			minRatio = newRatio
		}

		row := nodes[i0:i1]
		if dx < dy {
			ry1 := y1
			if dy != 0 {
				ry1 = y0 + dy*sum/value
			}
			dice(row, sum, x0, y0, x1, ry1)
			if dy != 0 {
				y0 = ry1
			}
		} else {
			rx1 := x1
			if dx != 0 {
				rx1 = x0 + dx*sum/value
			}
			slice(row, sum, x0, y0, rx1, y1)
			if dx != 0 {
				x0 = rx1
			}
		}
		value -= sum
		i0 = i1
	}
}

// dice splits a row horizontally.
func dice(nodes []Tile, value, x0, y0, x1, y1 float64) {
	k := 0.0
	if value != 0 {
		k = (x1 - x0) / value
	}
	for i := range nodes {
		nodes[i].Y0, nodes[i].Y1 = y0, y1
		nodes[i].X0 = x0
		x0 += nodes[i].Value * k
		nodes[i].X1 = x0
	}
}

// slice splits a row vertically.
func slice(nodes []Tile, value, x0, y0, x1, y1 float64) {
	k := 0.0
	if value != 0 {
		k = (y1 - y0) / value
	}
	for i := range nodes {
		nodes[i].X0, nodes[i].X1 = x0, x1
		nodes[i].Y0 = y0
		y0 += nodes[i].Value * k
		nodes[i].Y1 = y0
	}
}
