package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
)

// newLogger returns the human-facing logger: text lines stamped
// "15:04:05.00", filtered at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// setLogFormat switches l between "text" and "json" output. Unknown names
// leave it unchanged.
func setLogFormat(l *log.Logger, format string) {
	switch strings.ToLower(format) {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "text", "":
		l.SetFormatter(log.TextFormatter)
	}
}

// progress logs the wall time of the steps of one run. Not safe for
// concurrent use.
type progress struct {
	logger *log.Logger
	clock  clockwork.Clock
	start  time.Time
	last   time.Time
}

func newProgress(l *log.Logger, clock clockwork.Clock) *progress {
	now := clock.Now()
	return &progress{logger: l, clock: clock, start: now, last: now}
}

// step logs msg at debug level with the time since the previous step.
func (p *progress) step(msg string) {
	now := p.clock.Now()
	p.logger.Debug(msg, "took", now.Sub(p.last).Round(time.Millisecond))
	p.last = now
}

// done logs msg with the time since the tracker was created, e.g.
// "Run 1f3a9c2e finished (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.clock.Since(p.start).Round(time.Millisecond))
}
