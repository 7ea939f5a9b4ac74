package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "emberview"

// Metrics exports hook events as Prometheus metrics. It implements
// [PipelineHooks], [CacheHooks] and [ServerHooks].
type Metrics struct {
	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	loadItems     *prometheus.GaugeVec
	charts        *prometheus.CounterVec
	chartDuration *prometheus.HistogramVec
	conversions   *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if a collector is already registered, like MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Input files loaded, by source and result.",
		}, []string{"source", "result"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent reading and parsing input files.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		loadItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_items",
			Help:      "Records or features in the most recent successful load.",
		}, []string{"source"}),
		charts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_total",
			Help:      "Charts drawn, by kind and result.",
		}, []string{"kind", "result"}),
		chartDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_duration_seconds",
			Help:      "Time spent aggregating and drawing a chart.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"kind"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "SVG conversions to raster or document formats, by format and result.",
		}, []string{"format", "result"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Preview server requests, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Preview server request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		m.loads, m.loadDuration, m.loadItems,
		m.charts, m.chartDuration, m.conversions,
		m.cacheEvents, m.cacheBytes,
		m.requests, m.reqDuration,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, source string, items int, d time.Duration, err error) {
	m.loads.WithLabelValues(source, result(err)).Inc()
	m.loadDuration.WithLabelValues(source).Observe(d.Seconds())
	if err == nil {
		m.loadItems.WithLabelValues(source).Set(float64(items))
	}
}

func (m *Metrics) OnChartStart(context.Context, string) {}

func (m *Metrics) OnChartComplete(_ context.Context, kind string, d time.Duration, err error) {
	m.charts.WithLabelValues(kind, result(err)).Inc()
	m.chartDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) OnConvertComplete(_ context.Context, format string, _ time.Duration, err error) {
	m.conversions.WithLabelValues(format, result(err)).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ ServerHooks   = (*Metrics)(nil)
)
