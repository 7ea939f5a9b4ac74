package chart

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// truncate shortens s to n runes followed by "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// tickFormatter formats tick values for an axis with the given step.
type tickFormatter func(v float64) string

// groupedFormat formats values with thousands separators and as many
// decimals as the tick step needs.
func groupedFormat(step float64) tickFormatter {
	digits := 0
	if step = math.Abs(step); step > 0 && step < 1 {
		digits = int(math.Max(0, -math.Floor(math.Log10(step)+1e-12)))
	}
	pattern := "#,###."
	if digits > 0 {
		pattern += strings.Repeat("#", digits)
	}
	return func(v float64) string {
		if digits == 0 {
			return humanize.Comma(int64(math.Round(v)))
		}
		return humanize.FormatFloat(pattern, v)
	}
}

// yearFormat formats whole years without separators.
func yearFormat(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}
