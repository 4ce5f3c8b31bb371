package render

import (
	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/reflow"
)

// Tile is one drawable item.
type Tile struct {
	ID    grid.ItemID `json:"id"`
	Label string      `json:"label,omitempty"`
	Kind  grid.Kind   `json:"kind,omitempty"`
	Rect  grid.Rect   `json:"rect"`

	// Pending is the cell the item is animating toward, if any.
	Pending *grid.Cell `json:"pending,omitempty"`

	// State is the choreographer state of the item's change set.
	State string `json:"state,omitempty"`

	// DX and DY are the current pixel offset from the committed position.
	DX float64 `json:"dx,omitempty"`
	DY float64 `json:"dy,omitempty"`

	// Dragged marks the item under the pointer. Its Rect is the last cell
	// processed for the gesture.
	Dragged bool `json:"dragged,omitempty"`
}

// Snapshot is one frame of a page.
type Snapshot struct {
	Metrics grid.Metrics `json:"metrics"`
	Tiles   []Tile       `json:"tiles"`
}

// FromIndex captures the committed items of r and, when chor is not nil,
// the animation state of each.
func FromIndex(r occupancy.Reader, chor *reflow.Choreographer) Snapshot {
	s := Snapshot{Metrics: r.Metrics()}
	for _, it := range r.Items() {
		t := Tile{
			ID:    it.ID,
			Label: it.Payload.Label,
			Kind:  it.Payload.Kind,
			Rect:  it.Rect(),
		}
		if chor != nil {
			if to, ok := chor.Pending(it.ID); ok {
				t.Pending = &to
			}
			if st, ok := chor.State(it.ID); ok {
				t.State = st.String()
			}
			t.DX, t.DY, _ = chor.Offset(it.ID)
		}
		s.Tiles = append(s.Tiles, t)
	}
	return s
}

// FromSession captures the session's index, animations and dragged item.
func FromSession(sess *drag.Session) Snapshot {
	s := FromIndex(sess.Index(), sess.Choreographer())
	if it, cell, ok := sess.Dragged(); ok && cell != nil {
		s.Tiles = append(s.Tiles, Tile{
			ID:      it.ID,
			Label:   it.Payload.Label,
			Kind:    it.Payload.Kind,
			Rect:    grid.RectAt(*cell, it.Size()),
			Dragged: true,
		})
	}
	return s
}

// Tile returns the tile for id.
func (s Snapshot) Tile(id grid.ItemID) (Tile, bool) {
	for _, t := range s.Tiles {
		if t.ID == id {
			return t, true
		}
	}
	return Tile{}, false
}

// Pixels returns the drawn pixel rectangle of t, offset included.
func (s Snapshot) Pixels(t Tile) (x, y, w, h float64) {
	m := s.Metrics
	px, py := m.CellOrigin(t.Rect.Origin())
	return float64(px) + t.DX, float64(py) + t.DY,
		float64(m.WidthOfColumns(t.Rect.W)), float64(m.HeightOfRows(t.Rect.H))
}
