// Package server serves the interactive dashboard over HTTP.
//
// The page is the same document `render --dashboard` writes, with the year
// slider and group dropdown enabled. Moving a control fetches
// /charts/{kind}.svg with the new selection; the handler applies it to the
// shared [dashboard.View], whose listeners redraw the affected charts, and
// returns the fresh SVG.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/dashboard"
	"github.com/matzehuels/emberview/pkg/errors"
	"github.com/matzehuels/emberview/pkg/observability"
	"github.com/matzehuels/emberview/pkg/pipeline"
	"github.com/matzehuels/emberview/pkg/render"
)

// Options configures a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the dashboard preview server.
type Server struct {
	runner *pipeline.Runner
	in     *pipeline.Loaded
	opts   pipeline.Options
	view   *dashboard.View
	board  *Board
	logger *log.Logger

	// mu serializes selection changes so each request sees its own redraw.
	mu sync.Mutex

	httpServer *http.Server
}

// New renders the initial charts and builds the router.
func New(ctx context.Context, runner *pipeline.Runner, in *pipeline.Loaded, opts pipeline.Options, so Options) (*Server, error) {
	opts.SetRenderDefaults()
	if so.Logger == nil {
		so.Logger = runner.Logger
	}
	opts.Logger = so.Logger

	view := dashboard.NewView(in.Dataset.Records, opts.Selection())
	board, err := NewBoard(ctx, runner, in, view, opts)
	if err != nil {
		return nil, err
	}

	s := &Server{
		runner: runner,
		in:     in,
		opts:   opts,
		view:   view,
		board:  board,
		logger: so.Logger,
	}
	s.httpServer = &http.Server{
		Addr:         so.Addr,
		Handler:      s.routes(so.Gatherer),
		ReadTimeout:  so.ReadTimeout,
		WriteTimeout: so.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/", s.handlePage)
	r.Get("/charts/{kind}.svg", s.handleChartSVG)
	r.Get("/api/selection", s.handleSelection)
	r.Get("/api/charts/{kind}", s.handleChartJSON)
	r.Get("/healthz", handleHealth)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// View returns the shared dashboard state.
func (s *Server) View() *dashboard.View { return s.view }

// ListenAndServe serves until ctx is canceled, then drains connections.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving dashboard", "addr", s.httpServer.Addr)
		errc <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.board.Close()
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	lo, hi := s.in.YearRange()
	page, err := dashboard.Page(dashboard.PageData{
		Panels:      s.board.Panels(),
		Selection:   s.view.Selection(),
		YearMin:     lo,
		YearMax:     hi,
		GroupFields: s.in.Dataset.Fields(),
		Served:      true,
		ChartURL:    "/charts",
	})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	err = s.apply(r)
	cr, ok := s.board.Panel(kind)
	s.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidChart, "%s chart is not enabled", kind))
		return
	}
	if cr.Skipped != nil {
		writeError(w, cr.Skipped)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(cr.SVG)
}

// apply updates the view from the from, to and group query parameters.
func (s *Server) apply(r *http.Request) error {
	q := r.URL.Query()
	if q.Has("from") || q.Has("to") {
		sel := s.view.Selection()
		from, err := intParam(q.Get("from"), sel.YearFrom)
		if err != nil {
			return err
		}
		to, err := intParam(q.Get("to"), sel.YearTo)
		if err != nil {
			return err
		}
		if err := s.view.SetYears(from, to); err != nil {
			return err
		}
	}
	if q.Has("group") {
		if err := s.view.SetGroup(q.Get("group")); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view.Selection())
}

func (s *Server) handleChartJSON(w http.ResponseWriter, r *http.Request) {
	kind, err := chart.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := s.opts
	opts.Formats = []render.Format{render.FormatJSON}
	cr, err := s.runner.RenderChart(r.Context(), s.in, kind, s.view.Selection(), opts)
	if err == nil && cr.Skipped != nil {
		err = cr.Skipped
	}
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(cr.Artifacts[render.FormatJSON])
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func intParam(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidRange, "year %q is not a number", s)
	}
	return n, nil
}

// instrument reports every request to the server hooks, labeled by route
// pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.Server().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the class of a coded error to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code.Class() {
	case errors.ClassInput:
		status = http.StatusBadRequest
	case errors.ClassData:
		status = http.StatusServiceUnavailable
		if code == errors.ErrCodeEmptyResult {
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(code),
	})
}
