// Package cli implements the deprecated-checker command-line interface.
//
// Commands check a Python project against the deprecated-package knowledge
// base, inspect and export the knowledge base, refresh it from the
// configured sources and run the refresh scheduler with its HTTP API.
// Logs go to stderr through charmbracelet/log; command output goes to the
// command's output writer so it can be redirected or captured.
//
// # Commands
//
//   - check: report deprecated dependencies of a project
//   - list-db, search, stats, validate-db, export-db: knowledge base access
//   - update-db: collect from the sources and publish a new snapshot
//   - scheduler: show scheduler status or run it in the foreground
//   - cache, clear-cache: manage the HTTP response cache
//
// # Logging
//
// --verbose (-v) switches to debug-level logging; otherwise log.level from
// the configuration applies.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Checked 42 dependencies (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
