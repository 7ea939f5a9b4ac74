package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/pkg/aggregate"
	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
	"github.com/matzehuels/emberview/pkg/pipeline"
)

// maxMismatchRows bounds the mismatch listing printed by summary --geo.
const maxMismatchRows = 10

// summaryOpts holds the flags of the summary command.
type summaryOpts struct {
	by    string // damage, county, year or a column name
	years string // "from:to" record filter
	order string // count or key
	top   int    // 0 prints every bucket
}

// summaryCommand creates the summary command, which prints the bucket
// counts a chart would be drawn from.
func (c *CLI) summaryCommand() *cobra.Command {
	opts := summaryOpts{by: "damage"}

	cmd := &cobra.Command{
		Use:   "summary [records.csv]",
		Short: "Print record counts per damage category, county, year or column",
		Example: `  emberview summary damage.csv
  emberview summary damage.csv --by county --top 5
  emberview summary damage.csv --by year --years 1950:2000
  emberview summary damage.csv --by county --geo counties.topojson`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records string
			if len(args) == 1 {
				records = args[0]
			}
			return c.runSummary(cmd, records, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.by, "by", opts.by, "grouping: damage, county, year or any column name")
	f.StringVar(&opts.years, "years", "", "only count records built in FROM:TO")
	f.StringVar(&opts.order, "order", "", "bucket order: count or key (default: key for year, count otherwise)")
	f.IntVar(&opts.top, "top", 0, "print only the N largest buckets")
	f.String("geo", "", "county boundaries; report records placed outside their county")
	f.String("object", "", "TopoJSON object holding the counties")

	return cmd
}

// runSummary loads the records and prints the bucket table.
func (c *CLI) runSummary(cmd *cobra.Command, records string, opts summaryOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	popts, err := cfg.PipelineOptions(records)
	if err != nil {
		return err
	}
	popts.Kinds = []chart.Kind{chart.KindBar}
	if popts.Boundaries != "" {
		popts.Kinds = append(popts.Kinds, chart.KindScatter)
	}

	key, defaultOrder, err := summaryKey(opts.by)
	if err != nil {
		return err
	}
	order, err := parseOrder(opts.order, defaultOrder)
	if err != nil {
		return err
	}
	if opts.top < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--top must not be negative")
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	in, err := runner.Load(ctx, popts)
	if err != nil {
		return err
	}
	if !isBuiltinKey(opts.by) && !in.Dataset.HasField(opts.by) {
		return errors.New(errors.ErrCodeInvalidField, "no column %q in %s", opts.by, popts.Records)
	}

	rows := in.Dataset.Records
	if opts.years != "" {
		from, to, err := parseYears(opts.years)
		if err != nil {
			return err
		}
		rows = aggregate.FilterYears(rows, from, to)
	}

	buckets := aggregate.Aggregate(rows, key, order)
	if len(buckets) == 0 {
		return errors.New(errors.ErrCodeEmptyResult, "no records have a value for %s", opts.by)
	}
	fmt.Fprintln(stdout, StyleTitle.Render(summaryTitle(opts.by, len(rows))))
	fmt.Fprintln(stdout, bucketTable(buckets, opts.top))

	if in.Boundaries != nil {
		printMismatches(geo.NewLocator(in.Boundaries).Mismatches(rows))
	}
	return nil
}

// summaryKey maps the --by value to a key function and its natural order.
func summaryKey(by string) (aggregate.KeyFunc, aggregate.Order, error) {
	switch strings.ToLower(by) {
	case "damage":
		return aggregate.ByDamage, aggregate.ByCountDesc, nil
	case "county":
		return aggregate.ByCounty, aggregate.ByCountDesc, nil
	case "year":
		return aggregate.ByYearBuilt, aggregate.ByKeyAsc, nil
	}
	if err := errors.ValidateFieldName(by); err != nil {
		return nil, 0, err
	}
	return aggregate.ByField(by), aggregate.ByCountDesc, nil
}

func isBuiltinKey(by string) bool {
	switch strings.ToLower(by) {
	case "damage", "county", "year":
		return true
	}
	return false
}

// parseOrder parses the --order flag.
func parseOrder(s string, def aggregate.Order) (aggregate.Order, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case aggregate.ByCountDesc.String():
		return aggregate.ByCountDesc, nil
	case aggregate.ByKeyAsc.String():
		return aggregate.ByKeyAsc, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "invalid order %q (must be count or key)", s)
}

func summaryTitle(by string, n int) string {
	return fmt.Sprintf("%s records by %s", humanize.Comma(int64(n)), by)
}

// bucketTable renders buckets with their share of the total. top limits
// the rows; the remainder is folded into one "other" row.
func bucketTable(buckets []aggregate.Bucket, top int) string {
	total := aggregate.Total(buckets)
	shown := buckets
	var rest []aggregate.Bucket
	if top > 0 && top < len(buckets) {
		shown, rest = buckets[:top], buckets[top:]
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numStyle := cellStyle.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("KEY", "COUNT", "SHARE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col > 0:
				return numStyle
			}
			return cellStyle
		})

	for _, b := range shown {
		t.Row(b.Key, humanize.Comma(int64(b.Count)), share(b.Count, total))
	}
	if len(rest) > 0 {
		other := aggregate.Total(rest)
		t.Row(fmt.Sprintf("(%d more)", len(rest)), humanize.Comma(int64(other)), share(other, total))
	}
	t.Row("total", humanize.Comma(int64(total)), "100%")
	return t.Render()
}

func share(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return strconv.FormatFloat(100*float64(n)/float64(total), 'f', 1, 64) + "%"
}

// printMismatches reports records whose coordinates fall outside the county
// they name.
func printMismatches(ms []geo.Mismatch) {
	printNewline()
	if len(ms) == 0 {
		printSuccess("All located records lie inside their county")
		return
	}
	printWarning("%s records lie outside their county", humanize.Comma(int64(len(ms))))
	for i, m := range ms {
		if i == maxMismatchRows {
			printDetail("... and %d more", len(ms)-maxMismatchRows)
			break
		}
		found := m.Found
		if found == "" {
			found = "no county"
		}
		printDetail("%s at %.4f, %.4f %s %s", m.Record.County, m.Record.Latitude, m.Record.Longitude, iconArrow, found)
	}
}

// fieldNames lists the grouping choices offered by the explorer: the
// county column first, then every other header cell.
func fieldNames(ds *dataset.Dataset) []string {
	fields := []string{chart.TreemapField}
	for _, f := range ds.Fields() {
		if f != chart.TreemapField {
			fields = append(fields, f)
		}
	}
	return fields
}
