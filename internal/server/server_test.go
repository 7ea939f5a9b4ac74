package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/observability"
	"github.com/matzehuels/emberview/pkg/pipeline"
)

func newTestServer(t *testing.T, gatherer prometheus.Gatherer) *Server {
	t.Helper()
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	opts := pipeline.Options{
		Records:    "../../pkg/dataset/testdata/wildfire.csv",
		Boundaries: "../../pkg/dataset/testdata/counties.geojson",
	}
	opts.SetRenderDefaults()

	in, err := runner.Load(ctx, opts)
	require.NoError(t, err)

	srv, err := New(ctx, runner, in, opts, Options{Addr: ":0", Gatherer: gatherer})
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestPageHasControlsAndMounts(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="year-from"`)
	assert.Contains(t, body, `id="group-field"`)
	for _, id := range []string{"bar-chart", "scatterplot", "line-graph", "treemap"} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `data-chart-url="/charts"`)
}

func TestChartSVGAppliesYearWindow(t *testing.T) {
	srv := newTestServer(t, nil)

	var events []dashboard.Event
	srv.View().Subscribe(func(ev dashboard.Event) { events = append(events, ev) })

	rec := get(t, srv, "/charts/line.svg?from=1980&to=2010")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	sel := srv.View().Selection()
	assert.Equal(t, 1980, sel.YearFrom)
	assert.Equal(t, 2010, sel.YearTo)
	require.Len(t, events, 1)

	// Same window again publishes nothing.
	get(t, srv, "/charts/line.svg?from=1980&to=2010")
	assert.Len(t, events, 1)
}

func TestChartSVGEmptyWindow(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := get(t, srv, "/charts/line.svg?from=1800&to=1850")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "EMPTY_RESULT", body["code"])

	// Other charts are unaffected.
	assert.Equal(t, http.StatusOK, get(t, srv, "/charts/bar.svg").Code)
}

func TestChartSVGGroup(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := get(t, srv, "/charts/treemap.svg?group=Roof+Construction")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Asphalt")
	assert.Equal(t, "Roof Construction", srv.View().Selection().GroupField)
}

func TestChartSVGBadRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		target string
		code   string
	}{
		{"/charts/pie.svg", "INVALID_CHART"},
		{"/charts/line.svg?from=abc", "INVALID_RANGE"},
		{"/charts/line.svg?from=2010&to=1990", "INVALID_RANGE"},
		{"/charts/treemap.svg?group=", "INVALID_FIELD"},
	}
	for _, tt := range tests {
		rec := get(t, srv, tt.target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.target)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.code, body["code"], tt.target)
	}
}

func TestSelectionAndChartJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := get(t, srv, "/api/selection")
	require.Equal(t, http.StatusOK, rec.Code)
	var sel dashboard.Selection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sel))
	assert.Equal(t, 1975, sel.YearFrom)
	assert.Equal(t, 2005, sel.YearTo)
	assert.Equal(t, "County", sel.GroupField)

	rec = get(t, srv, "/api/charts/bar")
	require.Equal(t, http.StatusOK, rec.Code)
	var c struct {
		Kind    string `json:"kind"`
		Buckets []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		} `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "bar", c.Kind)
	assert.NotEmpty(t, c.Buckets)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	observability.SetServerHooks(observability.NewMetrics(reg))

	srv := newTestServer(t, reg)
	get(t, srv, "/healthz")

	rec := get(t, srv, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `emberview_http_requests_total{code="200",method="GET",route="/healthz"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	srv := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/metrics").Code)
}
