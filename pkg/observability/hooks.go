// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The default hooks do nothing, so the chart packages carry
// no hard dependency on a metrics backend. The preview server registers
// [Metrics], which exports the events to Prometheus.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics(prometheus.NewRegistry())
//	observability.SetPipelineHooks(m)
//	observability.SetCacheHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnChartStart(ctx, "bar")
//	// ... aggregate and draw ...
//	observability.Pipeline().OnChartComplete(ctx, "bar", duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the chart pipeline.
type PipelineHooks interface {
	// source is "records" or "boundaries"; items is the number of records
	// or features read.
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, items int, duration time.Duration, err error)

	OnChartStart(ctx context.Context, kind string)
	OnChartComplete(ctx context.Context, kind string, duration time.Duration, err error)

	// OnConvertComplete follows an SVG to PNG or PDF conversion.
	OnConvertComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events. keyType is the prefix of the
// cache key, e.g. "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the preview server.
type ServerHooks interface {
	// route is the chi route pattern, never the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnChartStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnChartComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, time.Duration, error)   {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every server event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	cur  atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	s := &slot[T]{noop: noop}
	s.reset()
	return s
}

func (s *slot[T]) get() T { return *s.cur.Load() }

func (s *slot[T]) set(h T) {
	if any(h) != nil {
		s.cur.Store(&h)
	}
}

func (s *slot[T]) reset() {
	noop := s.noop
	s.cur.Store(&noop)
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetPipelineHooks registers h for pipeline events. nil is ignored.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetCacheHooks registers h for cache events. nil is ignored.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetServerHooks registers h for server events. nil is ignored.
func SetServerHooks(h ServerHooks) { serverSlot.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// Server returns the registered server hooks.
func Server() ServerHooks { return serverSlot.get() }

// Reset puts the no-op hooks back in place.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
