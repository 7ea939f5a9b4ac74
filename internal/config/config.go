// Package config loads emberview settings.
//
// Settings are layered, highest precedence first: command-line flags,
// EMBERVIEW_* environment variables (EMBERVIEW_CACHE_REDIS_ADDR sets
// cache.redis_addr), the emberview.toml config file, and built-in defaults.
// The config file is looked up in $XDG_CONFIG_HOME/emberview and the
// working directory unless a path is given explicitly.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dataset"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/geo"
	"github.com/matzehuels/emberview/pkg/pipeline"
	"github.com/matzehuels/emberview/pkg/render"
)

const (
	// FileName is the config file name without extension.
	FileName = "emberview"

	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "EMBERVIEW"
)

// Config represents the complete application configuration.
type Config struct {
	Data       DataConfig       `mapstructure:"data" toml:"data"`
	Render     RenderConfig     `mapstructure:"render" toml:"render"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard" toml:"dashboard"`
	Projection ProjectionConfig `mapstructure:"projection" toml:"projection"`
	Cache      CacheConfig      `mapstructure:"cache" toml:"cache"`
	Server     ServerConfig     `mapstructure:"server" toml:"server"`
	Logging    LoggingConfig    `mapstructure:"logging" toml:"logging"`

	// Source is the config file that was read, empty if none.
	Source string `mapstructure:"-" toml:"-"`
}

// DataConfig names the input files.
type DataConfig struct {
	Records    string          `mapstructure:"records" toml:"records"`
	Boundaries string          `mapstructure:"boundaries" toml:"boundaries"`
	Object     string          `mapstructure:"object" toml:"object,omitempty"`
	Columns    dataset.Columns `mapstructure:"columns" toml:"columns"`
}

// RenderConfig holds the render command settings.
type RenderConfig struct {
	Charts    []string `mapstructure:"charts" toml:"charts"`
	Formats   []string `mapstructure:"formats" toml:"formats"`
	Output    string   `mapstructure:"output" toml:"output"`
	Width     float64  `mapstructure:"width" toml:"width"`
	Height    float64  `mapstructure:"height" toml:"height"`
	Scale     float64  `mapstructure:"scale" toml:"scale"`
	Dashboard bool     `mapstructure:"dashboard" toml:"dashboard"`
}

// DashboardConfig is the initial selection.
type DashboardConfig struct {
	YearFrom int    `mapstructure:"year_from" toml:"year_from"`
	YearTo   int    `mapstructure:"year_to" toml:"year_to"`
	Group    string `mapstructure:"group" toml:"group"`
}

// ProjectionConfig overrides the scatter map projection when enabled.
type ProjectionConfig struct {
	Enabled   bool      `mapstructure:"enabled" toml:"enabled"`
	Center    []float64 `mapstructure:"center" toml:"center"`
	Scale     float64   `mapstructure:"scale" toml:"scale"`
	Translate []float64 `mapstructure:"translate" toml:"translate"`
	Rotate    []float64 `mapstructure:"rotate" toml:"rotate"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Disabled      bool          `mapstructure:"disabled" toml:"disabled"`
	Dir           string        `mapstructure:"dir" toml:"dir"`
	TTL           time.Duration `mapstructure:"ttl" toml:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr" toml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" toml:"redis_password,omitempty"`
	RedisDB       int           `mapstructure:"redis_db" toml:"redis_db"`
}

// ServerConfig holds the preview server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" toml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" toml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" toml:"write_timeout"`
	Metrics      bool          `mapstructure:"metrics" toml:"metrics"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level"`
	Format string `mapstructure:"format" toml:"format"` // text or json
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"geo":       "data.boundaries",
	"object":    "data.object",
	"type":      "render.charts",
	"format":    "render.formats",
	"output":    "render.output",
	"width":     "render.width",
	"height":    "render.height",
	"scale":     "render.scale",
	"dashboard": "render.dashboard",
	"group":     "dashboard.group",
	"no-cache":  "cache.disabled",
	"redis":     "cache.redis_addr",
	"addr":      "server.addr",
	"metrics":   "server.metrics",
}

// Load reads configuration from file, environment variables and flags.
// An empty path searches the default locations and tolerates a missing
// file; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode config")
	}
	cfg.Source = v.ConfigFileUsed()
	return &cfg, nil
}

// Dir returns the per-user config directory.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "emberview"), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "emberview"), nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("data.records", d.Data.Records)
	v.SetDefault("data.boundaries", d.Data.Boundaries)
	v.SetDefault("data.object", d.Data.Object)
	v.SetDefault("data.columns.damage", d.Data.Columns.Damage)
	v.SetDefault("data.columns.county", d.Data.Columns.County)
	v.SetDefault("data.columns.value", d.Data.Columns.Value)
	v.SetDefault("data.columns.year_built", d.Data.Columns.YearBuilt)
	v.SetDefault("data.columns.latitude", d.Data.Columns.Latitude)
	v.SetDefault("data.columns.longitude", d.Data.Columns.Longitude)

	v.SetDefault("render.charts", d.Render.Charts)
	v.SetDefault("render.formats", d.Render.Formats)
	v.SetDefault("render.output", d.Render.Output)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.scale", d.Render.Scale)
	v.SetDefault("render.dashboard", d.Render.Dashboard)

	v.SetDefault("dashboard.year_from", d.Dashboard.YearFrom)
	v.SetDefault("dashboard.year_to", d.Dashboard.YearTo)
	v.SetDefault("dashboard.group", d.Dashboard.Group)

	v.SetDefault("projection.enabled", d.Projection.Enabled)
	v.SetDefault("projection.center", d.Projection.Center)
	v.SetDefault("projection.scale", d.Projection.Scale)
	v.SetDefault("projection.translate", d.Projection.Translate)
	v.SetDefault("projection.rotate", d.Projection.Rotate)

	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)
	v.SetDefault("cache.redis_password", d.Cache.RedisPassword)
	v.SetDefault("cache.redis_db", d.Cache.RedisDB)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.metrics", d.Server.Metrics)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Default returns the built-in configuration.
func Default() *Config {
	cols := dataset.DefaultColumns
	canonical := geo.Canonical(
		chart.DefaultWidth-chart.DefaultMargin.Left-chart.DefaultMargin.Right-chart.DefaultPadding.Left-chart.DefaultPadding.Right,
		chart.DefaultHeight-chart.DefaultMargin.Top-chart.DefaultMargin.Bottom-chart.DefaultPadding.Top-chart.DefaultPadding.Bottom,
	)
	return &Config{
		Data: DataConfig{Columns: cols},
		Render: RenderConfig{
			Charts:  []string{"all"},
			Formats: []string{string(render.FormatSVG)},
			Output:  ".",
			Width:   chart.DefaultWidth,
			Height:  chart.DefaultHeight,
			Scale:   pipeline.DefaultScale,
		},
		Dashboard: DashboardConfig{Group: chart.TreemapField},
		Projection: ProjectionConfig{
			Center:    canonical.Center[:],
			Scale:     canonical.Scale,
			Translate: canonical.Translate[:],
			Rotate:    canonical.Rotate[:],
		},
		Cache: CacheConfig{TTL: 7 * 24 * time.Hour},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			Metrics:      true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
