package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/pkg/buildinfo"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/pipeline"
	"github.com/matzehuels/emberview/pkg/render"
)

// renderOpts holds the flags of the render command that are not bound to
// config keys.
type renderOpts struct {
	years   string // "from:to" window of the line graph
	refresh bool   // ignore cached artifacts
}

// renderCommand creates the render command. Most flags are bound to config
// keys, so a value given on the command line overrides the config file and
// EMBERVIEW_* environment variables.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [records.csv]",
		Short: "Render the wildfire damage charts",
		Long: `Render draws the damage bar chart, the parcel scatter map, the year-built
line graph and the county treemap from an inspection CSV.

Each chart is written as <kind>.<format> into the output directory, along
with a manifest.json listing the files of the run. With --dashboard the
charts are also combined into dashboard.html.`,
		Example: `  emberview render damage.csv --geo counties.topojson
  emberview render damage.csv -t bar,line -f svg,png -o out/
  emberview render damage.csv --years 1950:2000 --group "Roof Construction"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records string
			if len(args) == 1 {
				records = args[0]
			}
			return c.runRender(cmd, records, opts)
		},
	}

	f := cmd.Flags()
	f.String("geo", "", "county boundaries (GeoJSON or TopoJSON)")
	f.String("object", "", "TopoJSON object holding the counties (default: first object)")
	f.StringSliceP("type", "t", nil, "chart kinds: bar, scatter, line, treemap or all (comma-separated)")
	f.StringSliceP("format", "f", nil, "output formats: svg, png, pdf, json (comma-separated)")
	f.StringP("output", "o", "", "output directory")
	f.Float64("width", 0, "frame width of bar, scatter and line charts")
	f.Float64("height", 0, "frame height of bar, scatter and line charts")
	f.Float64("scale", pipeline.DefaultScale, "PNG scale factor")
	f.Bool("dashboard", false, "also write dashboard.html")
	f.String("group", "", "column the treemap groups by")
	f.Bool("no-cache", false, "disable the artifact cache")
	f.String("redis", "", "cache artifacts in Redis at host:port")
	f.StringVar(&opts.years, "years", "", "year-built window of the line graph as FROM:TO")
	f.BoolVar(&opts.refresh, "refresh", false, "redraw charts even when cached")

	return cmd
}

// runRender executes a render run and writes its artifacts.
func (c *CLI) runRender(cmd *cobra.Command, records string, opts renderOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	popts, err := cfg.PipelineOptions(records)
	if err != nil {
		return err
	}
	if opts.years != "" {
		if popts.YearFrom, popts.YearTo, err = parseYears(opts.years); err != nil {
			return err
		}
	}
	popts.Refresh = opts.refresh

	outDir := cfg.Render.Output
	if err := errors.ValidateOutputDir(outDir); err != nil {
		return err
	}
	if err := checkConverter(popts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger, runner.Clock)
	res, err := c.execute(ctx, runner, popts)
	if err != nil {
		return err
	}
	prog.step("charts drawn")

	written, err := writeArtifacts(outDir, res, popts.Formats)
	if err != nil {
		return err
	}
	prog.step("artifacts written")
	prog.done(fmt.Sprintf("Run %s finished", shortID(res.RunID)))

	printNewline()
	for _, ch := range res.Charts {
		if ch.Skipped != nil {
			printWarning("%s skipped: %s", ch.Kind, errors.UserMessage(ch.Skipped))
		}
	}
	for _, path := range written {
		printDetail("%s %s", iconArrow, path)
	}
	printRunStats(res)
	if !popts.Dashboard && len(written) > 0 {
		printNewline()
		printNextStep("Preview interactively", appName+" serve "+popts.Records)
	}
	return nil
}

// execute runs the pipeline behind a spinner that follows its progress.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, os.Stderr, "Loading records...")
	restore := withSpinnerHooks(spinner)
	spinner.Start()

	res, err := runner.Execute(ctx, opts)

	restore()
	if err != nil {
		spinner.StopWithError(errors.UserMessage(err))
		return nil, err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d of %d charts", len(res.Charts)-res.Stats.ChartsSkipped, len(res.Charts)))
	return res, nil
}

// writeArtifacts writes the chart files, the dashboard and the manifest into
// dir and returns the paths written.
func writeArtifacts(dir string, res *pipeline.Result, formats []render.Format) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		written = append(written, fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(len(data)))))
		return nil
	}

	for _, ch := range res.Charts {
		for _, f := range formats {
			data, ok := ch.Artifacts[f]
			if !ok {
				continue
			}
			if err := write(pipeline.FileName(ch.Kind, f), data); err != nil {
				return written, err
			}
		}
	}
	if len(res.Dashboard) > 0 {
		if err := write(pipeline.DashboardFile, res.Dashboard); err != nil {
			return written, err
		}
	}

	manifest, err := json.MarshalIndent(res.Manifest(buildinfo.Version, formats), "", "  ")
	if err != nil {
		return written, err
	}
	if err := write(pipeline.ManifestFile, append(manifest, '\n')); err != nil {
		return written, err
	}
	return written, nil
}

// checkConverter fails early when a raster or PDF format is requested and
// rsvg-convert is not installed.
func checkConverter(formats []render.Format) error {
	for _, f := range formats {
		if f.NeedsRSVG() && !render.Available() {
			return errors.New(errors.ErrCodeUnsupported,
				"%s output needs rsvg-convert (brew install librsvg or apt install librsvg2-bin)", f)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseYears parses a "FROM:TO" year window. Either bound may be omitted
// ("1950:" or ":2000"); a missing bound is open.
func parseYears(s string) (from, to int, err error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidRange, "year window %q must be FROM:TO", s)
	}
	from, to = 0, 9999
	if lo = strings.TrimSpace(lo); lo != "" {
		if from, err = strconv.Atoi(lo); err != nil {
			return 0, 0, errors.New(errors.ErrCodeInvalidRange, "invalid start year %q", lo)
		}
	}
	if hi = strings.TrimSpace(hi); hi != "" {
		if to, err = strconv.Atoi(hi); err != nil {
			return 0, 0, errors.New(errors.ErrCodeInvalidRange, "invalid end year %q", hi)
		}
	}
	if err := errors.ValidateYearWindow(from, to); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}
