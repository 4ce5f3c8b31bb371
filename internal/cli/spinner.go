package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner redraws a status line on stderr until stopped or until its context
// ends. An optional status func is polled every frame, so long-running work
// can report counts without touching the spinner.
type spinner struct {
	w       io.Writer
	message string
	status  func() string

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	start   sync.Once
	stop    sync.Once
	stopped chan struct{}

	mu    sync.Mutex
	width int // widest line drawn, for clearing
}

func newSpinner(parent context.Context, message string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{
		w:       os.Stderr,
		message: message,
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// withStatus sets a func whose result is drawn after the message.
func (s *spinner) withStatus(fn func() string) *spinner {
	s.status = fn
	return s
}

func (s *spinner) Start() {
	s.start.Do(func() {
		go s.run()
	})
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
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
}

func (s *spinner) draw(frame string) {
	line := s.message
	if s.status != nil {
		line += " " + s.status()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(line)+2)
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
}

// Stop ends the animation and clears the line. It is safe to call more than
// once, and before Start.
func (s *spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		started := true
		s.start.Do(func() { started = false })
		if started {
			<-s.stopped
		}
		s.clearLine()
	})
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}

func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's parent context has ended.
func (s *spinner) Cancelled() bool { return s.parent.Err() != nil }
