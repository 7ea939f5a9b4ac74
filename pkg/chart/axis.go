package chart

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/emberview/pkg/scale"
)

const (
	tickSize    = 6
	tickPadding = 3
	tickFont    = "16px"
)

// bandAxisBottom draws a bottom axis with one tick centered on each band.
// A non-zero rotate tilts the labels and anchors them at their end.
func bandAxisBottom(buf *bytes.Buffer, b scale.Band, y, width, rotate float64) {
	fmt.Fprintf(buf, `      <g class="x-axis" transform="translate(0,%s)" font-size="%s">`+"\n", num(y), tickFont)
	fmt.Fprintf(buf, `        <path class="domain" stroke="currentColor" fill="none" d="M0,%dV0H%sV%d"/>`+"\n", tickSize, num(width), tickSize)
	for _, key := range b.Keys() {
		x, _ := b.Center(key)
		fmt.Fprintf(buf, `        <g class="tick" transform="translate(%s,0)">`, num(x))
		fmt.Fprintf(buf, `<line stroke="currentColor" y2="%d"/>`, tickSize)
		if rotate != 0 {
			fmt.Fprintf(buf, `<text fill="currentColor" y="%d" dy="0.71em" transform="rotate(%s)" text-anchor="end">%s</text>`,
				tickSize+tickPadding, num(rotate), escapeXML(key))
		} else {
			fmt.Fprintf(buf, `<text fill="currentColor" y="%d" dy="0.71em" text-anchor="middle">%s</text>`,
				tickSize+tickPadding, escapeXML(key))
		}
		buf.WriteString("</g>\n")
	}
	buf.WriteString("      </g>\n")
}

// linearAxisBottom draws a bottom axis for a continuous x scale.
func linearAxisBottom(buf *bytes.Buffer, s scale.Linear, y float64, count int, format tickFormatter) {
	r := s.Range()
	fmt.Fprintf(buf, `      <g class="x-axis" transform="translate(0,%s)" font-size="%s">`+"\n", num(y), tickFont)
	fmt.Fprintf(buf, `        <path class="domain" stroke="currentColor" fill="none" d="M%s,%dV0H%sV%d"/>`+"\n",
		num(r[0]), tickSize, num(r[1]), tickSize)
	for _, v := range s.Ticks(count) {
		fmt.Fprintf(buf, `        <g class="tick" transform="translate(%s,0)"><line stroke="currentColor" y2="%d"/><text fill="currentColor" y="%d" dy="0.71em" text-anchor="middle">%s</text></g>`+"\n",
			num(s.Apply(v)), tickSize, tickSize+tickPadding, escapeXML(format(v)))
	}
	buf.WriteString("      </g>\n")
}

// linearAxisLeft draws a left axis for a continuous y scale.
func linearAxisLeft(buf *bytes.Buffer, s scale.Linear, count int, format tickFormatter) {
	r := s.Range()
	fmt.Fprintf(buf, `      <g class="y-axis" font-size="%s">`+"\n", tickFont)
	fmt.Fprintf(buf, `        <path class="domain" stroke="currentColor" fill="none" d="M-%d,%sH0V%sH-%d"/>`+"\n",
		tickSize, num(r[0]), num(r[1]), tickSize)
	for _, v := range s.Ticks(count) {
		fmt.Fprintf(buf, `        <g class="tick" transform="translate(0,%s)"><line stroke="currentColor" x2="-%d"/><text fill="currentColor" x="-%d" dy="0.32em" text-anchor="end">%s</text></g>`+"\n",
			num(s.Apply(v)), tickSize, tickSize+tickPadding, escapeXML(format(v)))
	}
	buf.WriteString("      </g>\n")
}

// countFormat formats the ticks of a count axis.
func countFormat(s scale.Linear, count int) tickFormatter {
	d := s.Domain()
	return groupedFormat(scale.TickStep(d[0], d[1], count))
}
