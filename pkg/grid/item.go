package grid

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemID identifies an item. IDs are stable for the lifetime of an item and
// unique within a page.
type ItemID string

// NewItemID returns a fresh random item id.
func NewItemID() ItemID { return ItemID(uuid.NewString()) }

// Kind tags what an item represents. Only renderers care.
type Kind string

const (
	KindApp     Kind = "app"
	KindWidget  Kind = "widget"
	KindMissing Kind = "missing"
)

// Payload is the opaque part of an item.
type Payload struct {
	Kind  Kind   `json:"kind,omitempty" toml:"kind,omitempty"`
	Ref   string `json:"ref,omitempty" toml:"ref,omitempty"`
	Label string `json:"label,omitempty" toml:"label,omitempty"`

	// MinWidth and MinHeight are the declared minimum pixel size of a widget.
	MinWidth  int `json:"min_width,omitempty" toml:"min_width,omitempty"`
	MinHeight int `json:"min_height,omitempty" toml:"min_height,omitempty"`
}

// Item is a placement record: a footprint anchored at (X, Y) plus payload.
type Item struct {
	ID      ItemID  `json:"id" toml:"id"`
	X       int     `json:"x" toml:"x"`
	Y       int     `json:"y" toml:"y"`
	Width   int     `json:"width" toml:"width"`
	Height  int     `json:"height" toml:"height"`
	Payload Payload `json:"payload" toml:"payload,omitempty"`
}

// Cell returns the top-left cell.
func (it Item) Cell() Cell { return Cell{X: it.X, Y: it.Y} }

// Size returns the span of the item.
func (it Item) Size() Size { return Size{W: it.Width, H: it.Height} }

// Rect returns the item's footprint.
func (it Item) Rect() Rect { return Rect{X: it.X, Y: it.Y, W: it.Width, H: it.Height} }

// At returns a copy of the item anchored at c.
func (it Item) At(c Cell) Item {
	it.X, it.Y = c.X, c.Y
	return it
}

func (it Item) String() string {
	return fmt.Sprintf("%s[%s]", it.ID, it.Rect())
}

// Move relocates an item's top-left cell from From to To.
type Move struct {
	ID   ItemID `json:"id"`
	From Cell   `json:"from"`
	To   Cell   `json:"to"`
}

// Delta returns the translation of the move in cells.
func (m Move) Delta() (dx, dy int) { return m.To.Sub(m.From) }
