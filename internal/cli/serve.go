package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/emberview/internal/config"
	"github.com/matzehuels/emberview/internal/server"
	"github.com/matzehuels/emberview/pkg/cache"
	"github.com/matzehuels/emberview/pkg/observability"
)

// serveCommand creates the serve command, which runs the interactive
// dashboard as a local web page.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [records.csv]",
		Short: "Serve the interactive dashboard over HTTP",
		Long: `Serve loads the inputs once and serves the four-chart dashboard. Moving
the year slider redraws the line graph and changing the group field redraws
the treemap. Prometheus metrics are exported at /metrics.`,
		Example: `  emberview serve damage.csv --geo counties.topojson
  emberview serve damage.csv --addr :9000 --redis localhost:6379`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var records string
			if len(args) == 1 {
				records = args[0]
			}
			return c.runServe(cmd, records)
		},
	}

	f := cmd.Flags()
	f.String("geo", "", "county boundaries (GeoJSON or TopoJSON)")
	f.String("object", "", "TopoJSON object holding the counties")
	f.String("group", "", "initial treemap grouping column")
	f.String("addr", "", "listen address (default 127.0.0.1:8080)")
	f.Bool("metrics", true, "export Prometheus metrics at /metrics")
	f.Bool("no-cache", false, "disable the artifact cache")
	f.String("redis", "", "share rendered charts through Redis at host:port")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, records string) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	popts, err := cfg.PipelineOptions(records)
	if err != nil {
		return err
	}
	popts.Kinds = nil // the page shows every chart
	popts.Dashboard = false

	reg := newRegistry(cfg)
	if reg != nil {
		m := observability.NewMetrics(reg)
		observability.SetPipelineHooks(m)
		observability.SetCacheHooks(m)
		observability.SetServerHooks(m)
		defer observability.Reset()
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	if runner.TTL == 0 || runner.TTL > cache.TTLPreview {
		runner.TTL = cache.TTLPreview
	}

	in, err := runner.Load(ctx, popts)
	if err != nil {
		return err
	}

	so := server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       c.Logger,
	}
	if reg != nil {
		so.Gatherer = reg
	}
	srv, err := server.New(ctx, runner, in, popts, so)
	if err != nil {
		return err
	}

	printSuccess("Dashboard at %s", StyleLink.Render("http://"+cfg.Server.Addr))
	printDetail("Press Ctrl+C to stop")
	return srv.ListenAndServe(ctx)
}

// newRegistry returns a registry with the Go runtime and process
// collectors, or nil when metrics are disabled.
func newRegistry(cfg *config.Config) *prometheus.Registry {
	if !cfg.Server.Metrics {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
