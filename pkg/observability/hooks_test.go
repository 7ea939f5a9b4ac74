package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "records")
	p.OnLoadComplete(ctx, "records", 100, time.Second, nil)
	p.OnChartStart(ctx, "bar")
	p.OnChartComplete(ctx, "bar", time.Second, nil)
	p.OnConvertComplete(ctx, "png", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/charts/{kind}.svg", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestMetricsExport(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OnLoadComplete(ctx, "records", 42, 10*time.Millisecond, nil)
	m.OnChartComplete(ctx, "bar", time.Millisecond, nil)
	m.OnChartComplete(ctx, "scatter", time.Millisecond, errors.New("no boundaries"))
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 512)
	m.OnConvertComplete(ctx, "png", time.Millisecond, nil)
	m.OnRequest(ctx, "GET", "/healthz", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`emberview_loads_total{result="ok",source="records"} 1`,
		`emberview_loaded_items{source="records"} 42`,
		`emberview_charts_total{kind="bar",result="ok"} 1`,
		`emberview_charts_total{kind="scatter",result="error"} 1`,
		`emberview_cache_events_total{event="hit",key_type="artifact"} 1`,
		`emberview_cache_events_total{event="miss",key_type="artifact"} 1`,
		`emberview_cache_written_bytes_total 512`,
		`emberview_conversions_total{format="png",result="ok"} 1`,
		`emberview_http_requests_total{code="200",method="GET",route="/healthz"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetricsFailedLoadKeepsItems(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OnLoadComplete(ctx, "boundaries", 58, time.Millisecond, nil)
	m.OnLoadComplete(ctx, "boundaries", 0, time.Millisecond, errors.New("bad json"))

	rec := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	out := rec.Body.String()
	if !strings.Contains(out, `emberview_loaded_items{source="boundaries"} 58`) {
		t.Errorf("failed load should not reset item gauge:\n%s", out)
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
