package chart

import (
	"bytes"
	"fmt"
)

// Frame is the drawing context of a single chart. The outer group is
// offset by the margin and holds titles; the inner group is further offset
// by the padding and holds marks and axes.
type Frame struct {
	Width   float64
	Height  float64
	Margin  Insets
	Padding Insets

	Outer bytes.Buffer
	Inner bytes.Buffer
}

// NewFrame creates an empty frame sized by cfg.
func NewFrame(cfg Config) *Frame {
	return &Frame{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Margin:  cfg.Margin,
		Padding: cfg.Padding,
	}
}

func (f *Frame) OuterWidth() float64  { return f.Width - f.Margin.Left - f.Margin.Right }
func (f *Frame) OuterHeight() float64 { return f.Height - f.Margin.Top - f.Margin.Bottom }
func (f *Frame) InnerWidth() float64  { return f.OuterWidth() - f.Padding.Left - f.Padding.Right }
func (f *Frame) InnerHeight() float64 { return f.OuterHeight() - f.Padding.Top - f.Padding.Bottom }

// Bytes assembles the frame into a standalone SVG document.
func (f *Frame) Bytes(cfg Config) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="emberview emberview-%s" id="%s-svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="sans-serif">`+"\n",
		cfg.Kind, escapeXML(cfg.Mount), num(f.Width), num(f.Height), num(f.Width), num(f.Height))
	if cfg.Title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(cfg.Title))
	}
	renderInteractionStyle(&buf)

	fmt.Fprintf(&buf, `  <g class="outer" transform="translate(%s,%s)">`+"\n", num(f.Margin.Left), num(f.Margin.Top))
	fmt.Fprintf(&buf, `    <g class="inner" transform="translate(%s,%s)">`+"\n", num(f.Padding.Left), num(f.Padding.Top))
	buf.Write(f.Inner.Bytes())
	buf.WriteString("    </g>\n")
	buf.Write(f.Outer.Bytes())
	buf.WriteString("  </g>\n")

	renderInteractionScript(&buf)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// title writes the bold chart title into the outer group.
func (f *Frame) title(text string, y float64) {
	if text == "" {
		return
	}
	fmt.Fprintf(&f.Outer, `    <text class="chart-title" x="%s" y="%s" text-anchor="middle" font-size="24px" font-weight="bold">%s</text>`+"\n",
		num(f.InnerWidth()/2), num(y), escapeXML(text))
}

// xLabel writes the x axis title below the inner area.
func (f *Frame) xLabel(text string, y float64) {
	if text == "" {
		return
	}
	fmt.Fprintf(&f.Outer, `    <text class="axis-title" x="%s" y="%s" text-anchor="middle" font-size="20px">%s</text>`+"\n",
		num(f.InnerWidth()/2), num(y), escapeXML(text))
}

// yLabel writes the rotated y axis title left of the inner area.
func (f *Frame) yLabel(text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(&f.Outer, `    <text class="axis-title" transform="rotate(-90)" x="%s" y="-60" text-anchor="middle" font-size="20px">%s</text>`+"\n",
		num(-f.InnerHeight()/2), escapeXML(text))
}
