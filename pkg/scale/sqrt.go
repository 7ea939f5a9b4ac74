package scale

import "math"

// Sqrt is a power scale with exponent 0.5. It is used for point radii so
// that the area of a mark, not its radius, grows linearly with the value.
type Sqrt struct {
	lin    Linear
	domain [2]float64
}

// NewSqrt returns a square-root scale from domain to rng.
func NewSqrt(domain, rng [2]float64) Sqrt {
	return Sqrt{
		lin:    NewLinear([2]float64{signedSqrt(domain[0]), signedSqrt(domain[1])}, rng),
		domain: domain,
	}
}

// Domain returns the input interval.
func (s Sqrt) Domain() [2]float64 { return s.domain }

// Range returns the output interval.
func (s Sqrt) Range() [2]float64 { return s.lin.Range() }

// Apply maps x to the range.
func (s Sqrt) Apply(x float64) float64 {
	return s.lin.Apply(signedSqrt(x))
}

// Invert maps y back to the domain.
func (s Sqrt) Invert(y float64) float64 {
	v := s.lin.Invert(y)
	if v < 0 {
		return -(v * v)
	}
	return v * v
}

func signedSqrt(x float64) float64 {
	if x < 0 {
		return -math.Sqrt(-x)
	}
	return math.Sqrt(x)
}
