package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Ran 200 trials (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Logging Hooks
// =============================================================================

// logHooks forwards engine events to a logger at debug level.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l.WithPrefix("hooks")}
	observability.SetSolverHooks(h)
	observability.SetReflowHooks(h)
	observability.SetDragHooks(h)
	observability.SetStoreHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *logHooks) OnSolve(x, y int, strategy string, moves int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("solve failed", "x", x, "y", y, "duration", d, "err", err)
		return
	}
	h.logger.Debug("solve", "x", x, "y", y, "strategy", strategy, "moves", moves, "duration", d)
}

func (h *logHooks) OnStateChange(set uint64, from, to string) {
	h.logger.Debug("change set", "set", set, "from", from, "to", to)
}

func (h *logHooks) OnCommit(set uint64, moves int) {
	h.logger.Debug("committed", "set", set, "moves", moves)
}

func (h *logHooks) OnRevert(set uint64, moves int) {
	h.logger.Debug("reverted", "set", set, "moves", moves)
}

func (h *logHooks) OnDragStart(item string) {
	h.logger.Debug("drag started", "item", item)
}

func (h *logHooks) OnDragEnd(item, state string, err error) {
	h.logger.Debug("drag ended", "item", item, "state", state, "err", err)
}

func (h *logHooks) OnStoreHit(_ context.Context, backend string) {
	h.logger.Debug("store hit", "backend", backend)
}

func (h *logHooks) OnStoreMiss(_ context.Context, backend string) {
	h.logger.Debug("store miss", "backend", backend)
}

func (h *logHooks) OnStoreSet(_ context.Context, backend string, size int) {
	h.logger.Debug("store set", "backend", backend, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, path string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "route", route, "status", status, "duration", d)
}
