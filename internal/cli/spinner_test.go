package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/emberview/pkg/observability"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Loading records...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !bytes.Contains([]byte(out.String()), []byte("Loading records...")) {
		t.Errorf("spinner output %q missing message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not report cancellation")
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "first")
	s.Update("second")
	if got := s.Message(); got != "second" {
		t.Errorf("Message() = %q, want second", got)
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &syncBuffer{}, "Testing with context...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "never started")
	s.Stop()
}

func TestSpinnerStopWithSuccess(t *testing.T) {
	var out bytes.Buffer
	restore := captureStdout(&out)
	defer restore()

	s := newSpinner(context.Background(), &syncBuffer{}, "Testing success...")
	s.Start()
	s.StopWithSuccess("Done!")

	if !bytes.Contains(out.Bytes(), []byte("Done!")) {
		t.Errorf("stdout %q missing success message", out.String())
	}
}

func TestSpinnerHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	s := newSpinner(context.Background(), &syncBuffer{}, "")
	restore := withSpinnerHooks(s)

	observability.Pipeline().OnLoadStart(context.Background(), "records")
	if got := s.Message(); got != "Loading records..." {
		t.Errorf("after load start: %q", got)
	}
	observability.Pipeline().OnChartStart(context.Background(), "scatter")
	if got := s.Message(); got != "Drawing scatter map..." {
		t.Errorf("after chart start: %q", got)
	}

	restore()
	if _, ok := observability.Pipeline().(spinnerHooks); ok {
		t.Error("restore should remove the spinner hooks")
	}
}

// captureStdout redirects status output to w until the returned function
// is called.
func captureStdout(w *bytes.Buffer) (restore func()) {
	prev := stdout
	stdout = w
	return func() { stdout = prev }
}
