package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/emberview/pkg/chart"
	"github.com/matzehuels/emberview/pkg/observability"
)

// spinnerFrames is the braille animation drawn in front of the message.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner draws a one-line progress indicator on w until stopped or until
// its context is cancelled. The message can change while it runs.
type Spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	started bool

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
}

// newSpinner creates a spinner writing to w.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Update replaces the message shown next to the animation.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Message returns the current message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
	})
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner ended because its parent context
// was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	if n := len(s.message) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
}

// spinnerHooks narrates pipeline progress on a spinner and forwards every
// event to the hooks that were registered before it.
type spinnerHooks struct {
	observability.PipelineHooks
	spinner *Spinner
}

func (h spinnerHooks) OnLoadStart(ctx context.Context, source string) {
	h.spinner.Update("Loading " + source + "...")
	h.PipelineHooks.OnLoadStart(ctx, source)
}

func (h spinnerHooks) OnChartStart(ctx context.Context, kind string) {
	h.spinner.Update("Drawing " + chartTitle(kind) + "...")
	h.PipelineHooks.OnChartStart(ctx, kind)
}

// withSpinnerHooks installs spinner narration for the duration of a run.
// The returned function restores the previous hooks.
func withSpinnerHooks(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(spinnerHooks{PipelineHooks: prev, spinner: s})
	return func() { observability.SetPipelineHooks(prev) }
}

// chartTitle names a chart kind for progress messages.
func chartTitle(kind string) string {
	switch chart.Kind(kind) {
	case chart.KindBar:
		return "bar chart"
	case chart.KindScatter:
		return "scatter map"
	case chart.KindLine:
		return "line graph"
	case chart.KindTreemap:
		return "treemap"
	}
	return kind
}
