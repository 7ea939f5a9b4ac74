package scale

import "math"

// DefaultTickCount is used when a caller does not ask for a tick count.
const DefaultTickCount = 10

// Linear maps a continuous domain onto a continuous range.
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale from domain to rng.
func NewLinear(domain, rng [2]float64) Linear {
	return Linear{d0: domain[0], d1: domain[1], r0: rng[0], r1: rng[1]}
}

// Domain returns the input interval.
func (l Linear) Domain() [2]float64 { return [2]float64{l.d0, l.d1} }

// Range returns the output interval.
func (l Linear) Range() [2]float64 { return [2]float64{l.r0, l.r1} }

// Apply maps x from the domain to the range. Values outside the domain
// extrapolate. A zero-width domain maps everything to the middle of the
// range.
func (l Linear) Apply(x float64) float64 {
	return interpolate(l.r0, l.r1, normalize(l.d0, l.d1, x))
}

// Invert maps y from the range back to the domain.
func (l Linear) Invert(y float64) float64 {
	return interpolate(l.d0, l.d1, normalize(l.r0, l.r1, y))
}

// Nice extends the domain so that both ends fall on round tick values.
// The domain is only changed once the tick step has settled; this is at
// most ten refinements.
func (l Linear) Nice(count int) Linear {
	if count <= 0 {
		count = DefaultTickCount
	}
	start, stop := l.d0, l.d1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}

	var prestep float64
	for iter := 0; iter < 10; iter++ {
		step := TickIncrement(start, stop, count)
		switch {
		case step == prestep:
			if reverse {
				start, stop = stop, start
			}
			// adding zero turns -0 into 0
			return Linear{d0: start + 0, d1: stop + 0, r0: l.r0, r1: l.r1}
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			return l
		}
		prestep = step
	}
	return l
}

// Ticks returns round values inside the domain.
func (l Linear) Ticks(count int) []float64 {
	if count <= 0 {
		count = DefaultTickCount
	}
	return Ticks(l.d0, l.d1, count)
}

func normalize(a, b, x float64) float64 {
	d := b - a
	if d == 0 || math.IsNaN(d) {
		if math.IsNaN(d) {
			return math.NaN()
		}
		return 0.5
	}
	return (x - a) / d
}

func interpolate(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
