// Package geo projects longitude/latitude pairs onto the map plane and
// turns county boundary geometries into SVG path data.
//
// The projection is a spherical Mercator with the same parameters as the
// d3-geo projection API: a three-axis rotation applied on the sphere, a
// center that lands on the translate point, a pixel scale and a y-down
// output. Every map in a run uses one [Projection] value; variants such as
// a shifted center or a rotation are expressed by changing its fields.
package geo

import "math"

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
	tau     = 2 * math.Pi

	// MaxLatitude is the Mercator latitude limit. Latitudes beyond it are
	// clamped.
	MaxLatitude = 85.0511287798066
)

// Projection configures a rotated spherical Mercator projection.
type Projection struct {
	Center    [2]float64 `json:"center"`    // lon, lat in degrees
	Scale     float64    `json:"scale"`     // pixels per radian
	Translate [2]float64 `json:"translate"` // pixel position of Center
	Rotate    [3]float64 `json:"rotate"`    // lambda, phi, gamma in degrees
}

// Canonical returns the California projection used by the scatter map,
// centered on the drawing area of the given size.
func Canonical(width, height float64) Projection {
	return Projection{
		Center:    [2]float64{-119.5, 37.5},
		Scale:     4000,
		Translate: [2]float64{width / 2, height / 2},
	}
}

// Project maps a longitude/latitude pair in degrees to pixel coordinates.
func (p Projection) Project(lon, lat float64) (x, y float64) {
	lambda, phi := p.rotate(lon*radians, clampLat(lat)*radians)
	px, py := mercator(lambda, phi)
	cx, cy := mercator(p.Center[0]*radians, clampLat(p.Center[1])*radians)

	k := p.Scale
	x = p.Translate[0] - k*cx + k*px
	y = p.Translate[1] + k*cy - k*py
	return x, y
}

// Invert maps pixel coordinates back to longitude/latitude in degrees.
func (p Projection) Invert(x, y float64) (lon, lat float64) {
	cx, cy := mercator(p.Center[0]*radians, clampLat(p.Center[1])*radians)
	k := p.Scale
	px := (x - p.Translate[0] + k*cx) / k
	py := (p.Translate[1] + k*cy - y) / k

	lambda, phi := px, 2*math.Atan(math.Exp(py))-math.Pi/2
	lambda, phi = p.unrotate(lambda, phi)
	return lambda * degrees, phi * degrees
}

func mercator(lambda, phi float64) (float64, float64) {
	return lambda, math.Log(math.Tan((math.Pi/2 + phi) / 2))
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

func (p Projection) rotate(lambda, phi float64) (float64, float64) {
	dl := math.Mod(p.Rotate[0]*radians, tau)
	dp, dg := p.Rotate[1]*radians, p.Rotate[2]*radians
	if dl != 0 {
		lambda += dl
		if math.Abs(lambda) > math.Pi {
			lambda -= math.Floor(lambda/tau+0.5) * tau
		}
	}
	if dp != 0 || dg != 0 {
		lambda, phi = rotatePhiGamma(lambda, phi, dp, dg)
	}
	return lambda, phi
}

func (p Projection) unrotate(lambda, phi float64) (float64, float64) {
	dl := math.Mod(p.Rotate[0]*radians, tau)
	dp, dg := p.Rotate[1]*radians, p.Rotate[2]*radians
	if dp != 0 || dg != 0 {
		lambda, phi = unrotatePhiGamma(lambda, phi, dp, dg)
	}
	if dl != 0 {
		lambda -= dl
		if math.Abs(lambda) > math.Pi {
			lambda -= math.Floor(lambda/tau+0.5) * tau
		}
	}
	return lambda, phi
}

func rotatePhiGamma(lambda, phi, dp, dg float64) (float64, float64) {
	cosDP, sinDP := math.Cos(dp), math.Sin(dp)
	cosDG, sinDG := math.Cos(dg), math.Sin(dg)

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*cosDP + x*sinDP
	return math.Atan2(y*cosDG-k*sinDG, x*cosDP-z*sinDP), asin(k*cosDG + y*sinDG)
}

func unrotatePhiGamma(lambda, phi, dp, dg float64) (float64, float64) {
	cosDP, sinDP := math.Cos(dp), math.Sin(dp)
	cosDG, sinDG := math.Cos(dg), math.Sin(dg)

	cosPhi := math.Cos(phi)
	x := math.Cos(lambda) * cosPhi
	y := math.Sin(lambda) * cosPhi
	z := math.Sin(phi)
	k := z*cosDG - y*sinDG
	return math.Atan2(y*cosDG+z*sinDG, x*cosDP+k*sinDP), asin(k*cosDP - x*sinDP)
}

func asin(x float64) float64 {
	return math.Asin(math.Max(-1, math.Min(1, x)))
}
