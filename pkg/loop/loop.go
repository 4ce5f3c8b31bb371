// Package loop provides the single-goroutine executor that serializes drag
// events and animation ticks, and a [reflow.Scheduler] backed by it.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// ErrClosed is returned when work is posted to a closed loop.
var ErrClosed = errors.New(errors.ErrCodeUnsupported, "loop is closed")

// Loop runs posted functions one at a time on its own goroutine.
type Loop struct {
	ctx    context.Context
	cancel context.CancelFunc
	work   chan func()
	done   chan struct{}
	once   sync.Once
}

// New starts a loop. It stops when ctx is cancelled or Close is called.
func New(ctx context.Context) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{
		ctx:    ctx,
		cancel: cancel,
		work:   make(chan func(), 64),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case fn := <-l.work:
			fn()
		}
	}
}

// Post queues fn without waiting for it to run.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.ctx.Done():
		return ErrClosed
	default:
	}
	select {
	case l.work <- fn:
		return nil
	case <-l.ctx.Done():
		return ErrClosed
	}
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// The loop may have run fn just before stopping.
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// Close stops the loop and waits for the running function, if any, to
// return. Queued functions are dropped.
func (l *Loop) Close() {
	l.once.Do(l.cancel)
	<-l.done
}

// TimerScheduler delivers choreographer ticks through a loop. Each
// CancelTicks bumps a generation counter so timers that were already armed
// fire into nothing.
type TimerScheduler struct {
	loop *Loop
	tick func()

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
}

// NewTimerScheduler returns a scheduler that runs tick on l. Set tick with
// Bind when the choreographer is built after the scheduler.
func NewTimerScheduler(l *Loop, tick func()) *TimerScheduler {
	return &TimerScheduler{loop: l, tick: tick}
}

// Bind sets the function run on each tick.
func (s *TimerScheduler) Bind(tick func()) {
	s.mu.Lock()
	s.tick = tick
	s.mu.Unlock()
}

// ScheduleTick arms a timer for delay, replacing any armed one.
func (s *TimerScheduler) ScheduleTick(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	gen := s.generation
	s.timer = time.AfterFunc(delay, func() {
		_ = s.loop.Post(func() {
			s.mu.Lock()
			stale := gen != s.generation
			tick := s.tick
			s.mu.Unlock()
			if !stale && tick != nil {
				tick()
			}
		})
	})
}

// CancelTicks drops every armed or in-flight tick.
func (s *TimerScheduler) CancelTicks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
