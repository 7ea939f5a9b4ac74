package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/render"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Source)
	assert.Equal(t, []string{"all"}, cfg.Render.Charts)
	assert.Equal(t, "County", cfg.Dashboard.Group)
	assert.Equal(t, "* Damage", cfg.Data.Columns.Damage)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.TTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "emberview.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
records = "parcels.csv"
boundaries = "counties.topojson"

[render]
charts = ["bar", "line"]
formats = ["svg", "png"]

[dashboard]
year_from = 1960
year_to = 2005

[cache]
ttl = "1h"
`), 0644))

	t.Setenv("EMBERVIEW_DASHBOARD_GROUP", "Roof Construction")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "", "")
	flags.String("addr", "", "")
	require.NoError(t, flags.Parse([]string{"--format", "json"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, "parcels.csv", cfg.Data.Records)
	assert.Equal(t, "Roof Construction", cfg.Dashboard.Group, "env overrides default")
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr, "unset flag keeps default")

	formats, err := cfg.Formats()
	require.NoError(t, err)
	assert.Equal(t, []render.Format{render.FormatJSON}, formats, "flag overrides file")

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, []chart.Kind{chart.KindBar, chart.KindLine}, kinds)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"default", func(*Config) {}, ""},
		{"bad chart", func(c *Config) { c.Render.Charts = []string{"pie"} }, errors.ErrCodeInvalidChart},
		{"bad format", func(c *Config) { c.Render.Formats = []string{"gif"} }, errors.ErrCodeInvalidFormat},
		{"reversed years", func(c *Config) { c.Dashboard.YearFrom, c.Dashboard.YearTo = 2000, 1990 }, errors.ErrCodeInvalidRange},
		{"empty group", func(c *Config) { c.Dashboard.Group = "" }, errors.ErrCodeInvalidField},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, errors.ErrCodeInvalidInput},
		{"bad projection", func(c *Config) {
			c.Projection.Enabled = true
			c.Projection.Center = []float64{1}
		}, errors.ErrCodeInvalidInput},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, errors.ErrCodeInvalidInput},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestProjection(t *testing.T) {
	p := Default().Projection
	proj, err := p.Projection()
	require.NoError(t, err)
	assert.Nil(t, proj, "disabled override yields nil")

	p.Enabled = true
	p.Rotate = []float64{10, 0}
	proj, err = p.Projection()
	require.NoError(t, err)
	assert.Equal(t, [2]float64{-119.5, 37.5}, proj.Center)
	assert.Equal(t, [3]float64{10, 0, 0}, proj.Rotate)
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Data.Records = "from-config.csv"
	cfg.Render.Charts = []string{"treemap"}
	cfg.Dashboard.Group = "Roof Construction"

	opts, err := cfg.PipelineOptions("")
	require.NoError(t, err)
	assert.Equal(t, "from-config.csv", opts.Records)
	assert.Equal(t, []chart.Kind{chart.KindTreemap}, opts.Kinds)
	assert.Equal(t, "Roof Construction", opts.Group)
	assert.Nil(t, opts.Projection)

	opts, err = cfg.PipelineOptions("arg.csv")
	require.NoError(t, err)
	assert.Equal(t, "arg.csv", opts.Records)
}

func TestWriteFileRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "sub", "emberview.toml")

	require.NoError(t, WriteFile(path, Default(), false))
	err := WriteFile(path, Default(), false)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidPath), "existing file needs force")
	require.NoError(t, WriteFile(path, Default(), true))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Default().Cache.TTL, cfg.Cache.TTL)
	assert.Equal(t, Default().Projection.Center, cfg.Projection.Center)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, Default()))
	assert.Contains(t, buf.String(), "[data.columns]")
	assert.Contains(t, buf.String(), `damage = "* Damage"`)
}
