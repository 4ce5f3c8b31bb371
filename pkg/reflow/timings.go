package reflow

import (
	"math"
	"time"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// Timings configures state durations and the hint distance.
type Timings struct {
	Hint         time.Duration `json:"hint" toml:"hint" mapstructure:"hint"`
	Pause        time.Duration `json:"pause" toml:"pause" mapstructure:"pause"`
	Commit       time.Duration `json:"commit" toml:"commit" mapstructure:"commit"`
	Revert       time.Duration `json:"revert" toml:"revert" mapstructure:"revert"`
	HintFraction float64       `json:"hint_fraction" toml:"hint_fraction" mapstructure:"hint_fraction"`
	TickInterval time.Duration `json:"tick_interval" toml:"tick_interval" mapstructure:"tick_interval"`
}

// DefaultTickInterval is one frame at 60Hz.
const DefaultTickInterval = time.Second / 60

// DefaultTimings returns the standard animation timings.
func DefaultTimings() Timings {
	return Timings{
		Hint:         100 * time.Millisecond,
		Pause:        500 * time.Millisecond,
		Commit:       200 * time.Millisecond,
		Revert:       100 * time.Millisecond,
		HintFraction: 0.2,
		TickInterval: DefaultTickInterval,
	}
}

// Validate rejects negative durations and hint fractions outside [0, 1].
func (t Timings) Validate() error {
	for _, f := range []struct {
		name string
		d    time.Duration
	}{
		{"hint", t.Hint}, {"pause", t.Pause}, {"commit", t.Commit}, {"revert", t.Revert}, {"tick interval", t.TickInterval},
	} {
		if f.d < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "%s duration cannot be negative: %v", f.name, f.d)
		}
	}
	if t.HintFraction < 0 || t.HintFraction > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "hint fraction must be within [0, 1], got %v", t.HintFraction)
	}
	return nil
}

// WithDefaults fills zero fields from DefaultTimings.
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	if t.Hint == 0 {
		t.Hint = d.Hint
	}
	if t.Pause == 0 {
		t.Pause = d.Pause
	}
	if t.Commit == 0 {
		t.Commit = d.Commit
	}
	if t.Revert == 0 {
		t.Revert = d.Revert
	}
	if t.HintFraction == 0 {
		t.HintFraction = d.HintFraction
	}
	if t.TickInterval == 0 {
		t.TickInterval = d.TickInterval
	}
	return t
}

func (t Timings) duration(s State) time.Duration {
	switch s {
	case Hinting:
		return t.Hint
	case Pausing:
		return t.Pause
	case Committing:
		return t.Commit
	default:
		return t.Revert
	}
}

// State is the animation state of a change set.
type State int

const (
	Hinting State = iota
	Pausing
	Committing
	Reverting
)

func (s State) String() string {
	switch s {
	case Hinting:
		return "hinting"
	case Pausing:
		return "pausing"
	case Committing:
		return "committing"
	case Reverting:
		return "reverting"
	default:
		return "unknown"
	}
}

// Ease is the accelerate/decelerate curve: slow at both ends, fastest in
// the middle. t is clamped to [0, 1].
func Ease(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
