package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/pipeline"
)

// Explorer styles
var (
	exploreFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	exploreValueStyle = lipgloss.NewStyle().Foreground(colorWhite)
	exploreDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	exploreBarStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	exploreErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	exploreBarWidth = 24 // widest histogram bar in cells
	exploreGroupMax = 12 // group rows before the remainder is folded
)

// exploreCommand creates the explore command, a terminal version of the
// dashboard controls.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [records.csv]",
		Short: "Explore the year window and treemap grouping in the terminal",
		Long: `Explore loads the records and shows the buckets behind the line graph and
the treemap. Arrow keys move the year window, space switches between its
start and end, and tab cycles the column the treemap groups by.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records string
			if len(args) == 1 {
				records = args[0]
			}
			return c.runExplore(cmd, records)
		},
	}
}

func (c *CLI) runExplore(cmd *cobra.Command, records string) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	popts, err := cfg.PipelineOptions(records)
	if err != nil {
		return err
	}
	popts.Kinds = []chart.Kind{chart.KindLine, chart.KindTreemap}

	in, err := pipeline.NewRunner(nil, nil, c.Logger).Load(ctx, popts)
	if err != nil {
		return err
	}

	m := NewExploreModel(in.Dataset.Records, fieldNames(in.Dataset), popts.Selection())
	defer m.Close()

	if _, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("explorer: %w", err)
	}
	return nil
}

// =============================================================================
// ExploreModel - Interactive selection over a dashboard view
// =============================================================================

// bound selects which end of the year window the arrow keys move.
type bound int

const (
	boundFrom bound = iota
	boundTo
)

// exploreState holds the buckets derived from the view. The view's
// listener rewrites it on every subset-changed event, so it is shared by
// pointer between copies of the model.
type exploreState struct {
	years  []aggregate.Bucket // per decade, ascending
	groups []aggregate.Bucket // per group value, by count
	subset int                // records inside the year window
	err    error              // last rejected change
}

// ExploreModel is the bubbletea model of the explore command.
type ExploreModel struct {
	view   *dashboard.View
	state  *exploreState
	fields []string
	field  int
	focus  bound

	minYear, maxYear int

	unsubscribe func()
}

// NewExploreModel creates an explorer over records. fields are the
// grouping columns tab cycles through.
func NewExploreModel(records []dataset.Record, fields []string, sel dashboard.Selection) ExploreModel {
	m := ExploreModel{
		view:   dashboard.NewView(records, sel),
		state:  &exploreState{},
		fields: fields,
	}
	m.minYear, m.maxYear, _ = aggregate.YearRange(records)

	cur := m.view.Selection()
	for i, f := range fields {
		if f == cur.GroupField {
			m.field = i
		}
	}

	state, view := m.state, m.view
	m.unsubscribe = view.Subscribe(func(ev dashboard.Event) {
		for _, k := range ev.Changed {
			switch k {
			case chart.KindLine:
				state.refreshYears(view.Subset(chart.KindLine))
			case chart.KindTreemap:
				state.refreshGroups(view.Records(), ev.Selection.GroupField)
			}
		}
	})
	state.refreshYears(view.Subset(chart.KindLine))
	state.refreshGroups(view.Records(), cur.GroupField)
	return m
}

func (s *exploreState) refreshYears(records []dataset.Record) {
	s.subset = len(records)
	s.years = aggregate.Aggregate(records, byDecade, aggregate.ByKeyAsc)
}

func (s *exploreState) refreshGroups(records []dataset.Record, field string) {
	s.groups = aggregate.Aggregate(records, aggregate.ByField(field), aggregate.ByCountDesc)
}

// byDecade keys records by the decade they were built in.
func byDecade(r dataset.Record) (string, bool) {
	if !r.HasYear() {
		return "", false
	}
	return strconv.Itoa(r.YearBuilt/10*10) + "s", true
}

// Selection returns the current selection.
func (m ExploreModel) Selection() dashboard.Selection { return m.view.Selection() }

// Close removes the model's subscription from its view.
func (m ExploreModel) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.moveYear(-1)
	case "right", "l":
		m.moveYear(1)
	case "down", "j":
		m.moveYear(-10)
	case "up", "k":
		m.moveYear(10)
	case " ":
		m.focus = 1 - m.focus
	case "tab":
		m.cycleField(1)
	case "shift+tab":
		m.cycleField(-1)
	}
	return m, nil
}

// moveYear shifts the focused end of the window by delta years, clamped to
// the data range and to the other end.
func (m *ExploreModel) moveYear(delta int) {
	sel := m.view.Selection()
	from, to := sel.YearFrom, sel.YearTo
	if m.focus == boundFrom {
		from = clamp(from+delta, m.minYear, to)
	} else {
		to = clamp(to+delta, from, m.maxYear)
	}
	m.state.err = m.view.SetYears(from, to)
}

func (m *ExploreModel) cycleField(step int) {
	if len(m.fields) == 0 {
		return
	}
	m.field = (m.field + step + len(m.fields)) % len(m.fields)
	m.state.err = m.view.SetGroup(m.fields[m.field])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m ExploreModel) View() string {
	var b strings.Builder
	sel := m.view.Selection()

	b.WriteString(StyleTitle.Render("Wildfire damage explorer"))
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("←/→ ±1 year  ↑/↓ ±10 years  space switch bound  tab group  q quit"))
	b.WriteString("\n\n")

	from := exploreValueStyle.Render(strconv.Itoa(sel.YearFrom))
	to := exploreValueStyle.Render(strconv.Itoa(sel.YearTo))
	if m.focus == boundFrom {
		from = exploreFocusStyle.Render(strconv.Itoa(sel.YearFrom))
	} else {
		to = exploreFocusStyle.Render(strconv.Itoa(sel.YearTo))
	}
	fmt.Fprintf(&b, "Year built %s to %s  %s\n", from, to,
		exploreDimStyle.Render(fmt.Sprintf("(%d records)", m.state.subset)))
	fmt.Fprintf(&b, "Group by   %s\n\n", exploreValueStyle.Render(sel.GroupField))

	years := histogramTable("DECADE", m.state.years, len(m.state.years))
	groups := histogramTable(strings.ToUpper(sel.GroupField), m.state.groups, exploreGroupMax)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, years, "  ", groups))

	if m.state.err != nil {
		b.WriteString("\n")
		b.WriteString(exploreErrStyle.Render(errors.UserMessage(m.state.err)))
	}
	return b.String()
}

// histogramTable renders buckets as a table with a proportional bar per
// row. Rows past limit are folded into one.
func histogramTable(title string, buckets []aggregate.Bucket, limit int) string {
	if len(buckets) == 0 {
		return exploreDimStyle.Render("no records")
	}
	peak := aggregate.Max(buckets)
	shown := buckets
	if limit < len(buckets) {
		shown = buckets[:limit]
	}

	rows := make([][]string, 0, len(shown)+1)
	for _, bk := range shown {
		rows = append(rows, []string{bk.Key, strconv.Itoa(bk.Count), bar(bk.Count, peak)})
	}
	if rest := buckets[len(shown):]; len(rest) > 0 {
		rows = append(rows, []string{fmt.Sprintf("(%d more)", len(rest)), strconv.Itoa(aggregate.Total(rest)), ""})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(title, "N", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1:
				return lipgloss.NewStyle().Align(lipgloss.Right)
			case col == 2:
				return exploreBarStyle
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func bar(n, peak int) string {
	if peak <= 0 || n <= 0 {
		return ""
	}
	w := n * exploreBarWidth / peak
	if w == 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}
