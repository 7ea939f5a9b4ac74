package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/emberview/pkg/pipeline"
)

// stdout receives all status output. Tests replace it.
var stdout io.Writer = os.Stdout

// Terminal palette, ANSI 256.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const iconArrow = "→"

// marker is the leading glyph of a status line.
type marker struct {
	icon  string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

func (m marker) print(msg string) {
	fmt.Fprintln(stdout, m.style.Render(m.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { markSuccess.print(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { markError.print(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { markInfo.print(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarning.print(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line below a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() { fmt.Fprintln(stdout) }

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printRunStats prints the counts of a render run as one dotted line, e.g.
// "5 records · 3 counties · 1 skipped · cached".
func printRunStats(res *pipeline.Result) {
	parts := []string{StyleDim.Render(humanize.Comma(int64(res.Stats.RecordCount)) + " records")}
	if n := res.Stats.FeatureCount; n > 0 {
		parts = append(parts, StyleDim.Render(humanize.Comma(int64(n))+" counties"))
	}
	if n := res.Stats.ChartsSkipped; n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d skipped", n)))
	}
	parts = append(parts, cacheStatus(res.CacheInfo.Hits, res.CacheInfo.Misses))
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

func cacheStatus(hits, misses int) string {
	switch {
	case hits == 0:
		return StyleDim.Render("fresh")
	case misses == 0:
		return styleCached.Render("cached")
	}
	return styleCached.Render(fmt.Sprintf("%d cached", hits))
}
