package page

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/reflow"
)

// StepResult records what one script step did.
type StepResult struct {
	Step    int            `json:"step"`
	Kind    drag.EventKind `json:"kind"`
	Outcome *drag.Outcome  `json:"outcome,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    errors.Code    `json:"code,omitempty"`
}

// Replay is the result of running a script on simulated time.
type Replay struct {
	Steps   []StepResult `json:"steps"`
	Page    *Page        `json:"page"`
	Elapsed string       `json:"elapsed"`

	// Session is left in its final state so callers can snapshot it.
	Session *drag.Session `json:"-"`
}

// ReplayOption configures Run.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	timings reflow.Timings
	logger  *log.Logger
	settle  bool
	onStep  func(StepResult, *drag.Session)
}

// WithReplayTimings overrides the reflow timings.
func WithReplayTimings(t reflow.Timings) ReplayOption {
	return func(c *replayConfig) { c.timings = t }
}

// WithReplayLogger sets the logger handed to the session.
func WithReplayLogger(l *log.Logger) ReplayOption {
	return func(c *replayConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithoutSettle stops the replay right after the last step instead of
// running the animations to completion.
func WithoutSettle() ReplayOption { return func(c *replayConfig) { c.settle = false } }

// OnStep registers fn to run after each step and its wait.
func OnStep(fn func(StepResult, *drag.Session)) ReplayOption {
	return func(c *replayConfig) { c.onStep = fn }
}

// Run replays s against a copy of p on a manual clock, so waits take no
// wall time and the result is deterministic. Step errors are recorded in
// the result; only setup failures are returned.
func (s *Script) Run(p *Page, opts ...ReplayOption) (*Replay, error) {
	cfg := replayConfig{timings: reflow.DefaultTimings(), logger: log.Default(), settle: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.timings = cfg.timings.WithDefaults()
	if err := cfg.timings.Validate(); err != nil {
		return nil, err
	}
	m, err := p.Metrics()
	if err != nil {
		return nil, err
	}

	start := time.Unix(0, 0)
	clock := reflow.NewManualClock(start)
	sched := &reflow.ManualScheduler{}
	pr := NewProvider(p, WithLogger(cfg.logger))
	sess, err := drag.New(pr, m, sched,
		drag.WithLogger(cfg.logger),
		drag.WithReflow(reflow.WithTimings(cfg.timings), reflow.WithClock(clock), reflow.WithLogger(cfg.logger)),
	)
	if err != nil {
		return nil, err
	}

	interval := cfg.timings.TickInterval
	out := &Replay{Session: sess}
	for i, st := range s.Steps {
		res := StepResult{Step: i + 1, Kind: st.Kind}
		o, err := sess.Handle(st.Event())
		res.Outcome = o
		if err != nil {
			res.Error = errors.UserMessage(err)
			res.Code = errors.GetCode(err)
			cfg.logger.Debug("step failed", "step", res.Step, "kind", st.Kind, "err", err)
		}
		if w := st.Wait(); w > 0 {
			sched.Run(clock, interval, w, sess.Tick)
		}
		out.Steps = append(out.Steps, res)
		if cfg.onStep != nil {
			cfg.onStep(res, sess)
		}
	}
	if cfg.settle {
		limit := cfg.timings.Hint + cfg.timings.Pause + cfg.timings.Commit + cfg.timings.Revert
		sched.Run(clock, interval, limit, sess.Tick)
	}

	out.Page = pr.Page()
	out.Elapsed = clock.Now().Sub(start).String()
	return out, nil
}
