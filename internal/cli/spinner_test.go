package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
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

func TestSpinnerDrawsStatus(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), "Running trials").withStatus(func() string { return "3/10" })
	s.w = &out
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Running trials 3/10") {
		t.Errorf("output %q does not contain the status line", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q should end by clearing the line", got)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), spinnerInterval/2)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinner(ctx, "waiting")
			s.w = &syncBuffer{}
			s.Start()
			cancel()

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner did not stop when its context ended")
			}
			if !s.Cancelled() {
				t.Error("Cancelled() = false after the parent context ended")
			}
		})
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newSpinner(context.Background(), "stopping")
		s.w = &syncBuffer{}
		s.Start()
		s.Stop()
		s.Stop()
	})
	t.Run("before start", func(t *testing.T) {
		var out syncBuffer
		s := newSpinner(context.Background(), "never started")
		s.w = &out
		s.Stop()
		s.Start()
		if out.String() != "" {
			t.Errorf("stopped spinner drew %q", out.String())
		}
	})
}
