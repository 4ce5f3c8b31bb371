package drag

import (
	"encoding"
	"fmt"

	"github.com/matzehuels/gridshift/pkg/grid"
)

// State is the lifecycle state of a drag session.
type State int

const (
	Idle State = iota
	Tracking
	Committed
	Rejected
	Cancelled
)

var stateNames = [...]string{"idle", "tracking", "committed", "rejected", "cancelled"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Done reports whether s ends a gesture.
func (s State) Done() bool { return s >= Committed }

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EventKind identifies a drag event.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventLocation  EventKind = "location"
	EventDrop      EventKind = "drop"
	EventEnded     EventKind = "ended"
	EventCancelled EventKind = "cancelled"
)

var _ encoding.TextUnmarshaler = (*EventKind)(nil)

// UnmarshalText accepts the known event names only.
func (k *EventKind) UnmarshalText(b []byte) error {
	switch v := EventKind(b); v {
	case EventStarted, EventLocation, EventDrop, EventEnded, EventCancelled:
		*k = v
		return nil
	default:
		return fmt.Errorf("unknown drag event %q", string(b))
	}
}

// Event is one input from a drag source. X and Y are the pixel position of
// the dragged footprint's top-left corner. Item is only read for
// EventStarted.
type Event struct {
	Kind EventKind  `json:"kind" toml:"kind"`
	X    float64    `json:"x,omitempty" toml:"x,omitempty"`
	Y    float64    `json:"y,omitempty" toml:"y,omitempty"`
	Item *grid.Item `json:"item,omitempty" toml:"item,omitempty"`
}

// Outcome describes how a gesture ended. Cell is where the dragged item ended
// up; it is only meaningful when the item was placed or restored.
type Outcome struct {
	State    State     `json:"state"`
	Item     grid.Item `json:"item"`
	Cell     grid.Cell `json:"cell"`
	Restored bool      `json:"restored,omitempty"`
	Err      error     `json:"-"`
}

// Placed reports whether the dragged item is on the page after the gesture.
func (o Outcome) Placed() bool { return o.State == Committed || o.State == Cancelled || o.Restored }
