package chart

import (
	"math"
	"strings"
)

// monotoneX returns SVG path data for a cubic curve through pts that is
// monotone in y between adjacent points (Steffen's method). Points must be
// ordered by x.
func monotoneX(pts [][2]float64) string {
	var b strings.Builder
	c := monotoneCurve{out: &b}
	for _, p := range pts {
		c.point(p[0], p[1])
	}
	c.end()
	return b.String()
}

type monotoneCurve struct {
	out            *strings.Builder
	x0, y0, x1, y1 float64
	t0             float64
	n              int
}

func (c *monotoneCurve) point(x, y float64) {
	if c.n > 0 && x == c.x1 && y == c.y1 {
		return
	}
	t1 := math.NaN()
	switch c.n {
	case 0:
		c.n = 1
		c.out.WriteString("M" + num(x) + "," + num(y))
	case 1:
		c.n = 2
	case 2:
		c.n = 3
		t1 = c.slope3(x, y)
		c.bezier(c.slope2(t1), t1)
	default:
		t1 = c.slope3(x, y)
		c.bezier(c.t0, t1)
	}
	c.x0, c.x1 = c.x1, x
	c.y0, c.y1 = c.y1, y
	c.t0 = t1
}

func (c *monotoneCurve) end() {
	switch c.n {
	case 2:
		c.out.WriteString("L" + num(c.x1) + "," + num(c.y1))
	case 3:
		c.bezier(c.t0, c.slope2(c.t0))
	}
}

// slope3 is the tangent at (x1, y1) given the next point.
func (c *monotoneCurve) slope3(x2, y2 float64) float64 {
	h0 := c.x1 - c.x0
	h1 := x2 - c.x1
	s0 := (c.y1 - c.y0) / h0
	s1 := (y2 - c.y1) / h1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// slope2 is the one-sided tangent at an end point.
func (c *monotoneCurve) slope2(t float64) float64 {
	h := c.x1 - c.x0
	if h == 0 {
		return t
	}
	return (3*(c.y1-c.y0)/h - t) / 2
}

func (c *monotoneCurve) bezier(t0, t1 float64) {
	dx := (c.x1 - c.x0) / 3
	c.out.WriteString("C" + num(c.x0+dx) + "," + num(c.y0+dx*t0) + "," +
		num(c.x1-dx) + "," + num(c.y1-dx*t1) + "," + num(c.x1) + "," + num(c.y1))
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
