package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("solved") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("solving") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("solving") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("not restored") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = prog.start.Add(-1500 * time.Millisecond)

	prog.done("Ran 40 trials")

	if got := buf.String(); !strings.Contains(got, "Ran 40 trials (1.5") {
		t.Errorf("progress output = %q", got)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	custom := newLogger(&bytes.Buffer{}, log.DebugLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	var buf bytes.Buffer
	installLogHooks(newLogger(&buf, log.DebugLevel))

	observability.Solver().OnSolve(1, 2, "cascade", 3, time.Millisecond, nil)
	observability.Reflow().OnCommit(7, 2)
	observability.Drag().OnDragEnd("mail", "committed", nil)
	observability.Store().OnStoreMiss(context.Background(), "memory")

	for _, want := range []string{"solve", "strategy=cascade", "committed", "drag ended", "store miss"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("hook output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)

	c.SetLogLevel(log.InfoLevel)
	observability.Drag().OnDragStart("clock")
	if buf.Len() != 0 {
		t.Fatalf("info level should leave hooks silent, got %q", buf.String())
	}

	c.SetLogLevel(log.DebugLevel)
	observability.Drag().OnDragStart("clock")
	if !strings.Contains(buf.String(), "drag started") {
		t.Errorf("debug level should route hooks to the logger, got %q", buf.String())
	}
}
