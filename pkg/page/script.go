package page

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
)

// Script is a recorded drag gesture sequence, replayable against a page.
//
//	page = "home.toml"
//
//	[[step]]
//	kind = "started"
//	item = { id = "n", width = 1, height = 1 }
//
//	[[step]]
//	kind = "location"
//	x = 0
//	y = 0
//	wait_ms = 900
type Script struct {
	Name  string `toml:"name,omitempty" json:"name,omitempty"`
	Page  string `toml:"page,omitempty" json:"page,omitempty"`
	Steps []Step `toml:"step" json:"steps"`
}

// Step is one event, optionally followed by a pause during which the
// choreographer keeps animating.
type Step struct {
	Kind   drag.EventKind `toml:"kind" json:"kind"`
	X      float64        `toml:"x,omitempty" json:"x,omitempty"`
	Y      float64        `toml:"y,omitempty" json:"y,omitempty"`
	Item   *grid.Item     `toml:"item,omitempty" json:"item,omitempty"`
	WaitMS int            `toml:"wait_ms,omitempty" json:"wait_ms,omitempty"`
}

// Event converts the step into a drag event.
func (s Step) Event() drag.Event {
	return drag.Event{Kind: s.Kind, X: s.X, Y: s.Y, Item: s.Item}
}

// Wait returns the pause after the step.
func (s Step) Wait() time.Duration { return time.Duration(s.WaitMS) * time.Millisecond }

// ReadScript decodes a TOML drag script.
func ReadScript(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown script keys: %v", undecoded)
	}
	for i, st := range s.Steps {
		if st.Kind == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "step %d has no kind", i+1)
		}
		if st.Kind == drag.EventStarted && st.Item == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "step %d starts a drag without an item", i+1)
		}
		if st.WaitMS < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "step %d has a negative wait", i+1)
		}
	}
	return &s, nil
}

// ReadScriptFile reads a TOML drag script from disk.
func ReadScriptFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadScript(f)
}
