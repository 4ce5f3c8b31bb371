package occupancy

import (
	"cmp"
	"slices"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
)

// Reader is the read side of an occupancy map. Both [Index] and [View]
// implement it.
type Reader interface {
	Metrics() grid.Metrics
	Item(id grid.ItemID) (grid.Item, bool)
	Items() []grid.Item
	ItemAt(row, col int) (grid.Item, bool)
	IsFree(row, col int) bool
	IsAreaOccupied(col, row, width, height int) bool
}

var (
	_ Reader = (*Index)(nil)
	_ Reader = (*View)(nil)
)

// Index maps every cell of the grid to the item occupying it. It is derived
// entirely from the set of live items and can always be regenerated with
// [Index.Rebuild]. An Index is not safe for concurrent use.
type Index struct {
	metrics grid.Metrics
	items   map[grid.ItemID]grid.Item
	cells   []grid.ItemID // row-major: y*Columns + x
}

// New returns an empty index for the given metrics.
func New(m grid.Metrics) *Index {
	return &Index{
		metrics: m,
		items:   make(map[grid.ItemID]grid.Item),
		cells:   make([]grid.ItemID, m.Columns*m.Rows),
	}
}

// NewFromItems returns an index holding items. It fails on the first item
// that does not fit.
func NewFromItems(m grid.Metrics, items []grid.Item) (*Index, error) {
	idx := New(m)
	for _, it := range items {
		if err := idx.Add(it); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Metrics returns the grid metrics the index was built for.
func (x *Index) Metrics() grid.Metrics { return x.metrics }

// Len returns the number of live items.
func (x *Index) Len() int { return len(x.items) }

// Item returns the committed record for id.
func (x *Index) Item(id grid.ItemID) (grid.Item, bool) {
	it, ok := x.items[id]
	return it, ok
}

// Items returns all live items ordered row-major by top-left cell, then id.
func (x *Index) Items() []grid.Item {
	items := make([]grid.Item, 0, len(x.items))
	for _, it := range x.items {
		items = append(items, it)
	}
	sortItems(items)
	return items
}

func sortItems(items []grid.Item) {
	slices.SortFunc(items, func(a, b grid.Item) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func (x *Index) inBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < x.metrics.Rows && col < x.metrics.Columns
}

func (x *Index) at(row, col int) grid.ItemID {
	return x.cells[row*x.metrics.Columns+col]
}

func (x *Index) set(r grid.Rect, id grid.ItemID) {
	for y := r.Y; y < r.Bottom(); y++ {
		for c := r.X; c < r.Right(); c++ {
			x.cells[y*x.metrics.Columns+c] = id
		}
	}
}

// IsFree reports whether the cell is in bounds and unoccupied.
func (x *Index) IsFree(row, col int) bool {
	return x.inBounds(row, col) && x.at(row, col) == ""
}

// ItemAt returns the item occupying the cell, if any.
func (x *Index) ItemAt(row, col int) (grid.Item, bool) {
	if !x.inBounds(row, col) {
		return grid.Item{}, false
	}
	id := x.at(row, col)
	if id == "" {
		return grid.Item{}, false
	}
	return x.items[id], true
}

// IsAreaOccupied reports whether any cell of the footprint is occupied or
// lies outside the grid.
func (x *Index) IsAreaOccupied(col, row, width, height int) bool {
	return x.areaBlocked(grid.Rect{X: col, Y: row, W: width, H: height}, "")
}

// areaBlocked is IsAreaOccupied ignoring cells held by self.
func (x *Index) areaBlocked(r grid.Rect, self grid.ItemID) bool {
	if !x.metrics.Fits(r) {
		return true
	}
	for y := r.Y; y < r.Bottom(); y++ {
		for c := r.X; c < r.Right(); c++ {
			if id := x.at(y, c); id != "" && id != self {
				return true
			}
		}
	}
	return false
}

// Add writes every cell of the item's footprint. Nothing is written when the
// footprint leaves the grid (OUT_OF_BOUNDS), the id is already live or a cell
// is taken (INCONSISTENT_STATE).
func (x *Index) Add(it grid.Item) error {
	if it.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "item has no id")
	}
	if it.Width < 1 || it.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "item %s has invalid span %dx%d", it.ID, it.Width, it.Height)
	}
	if !x.metrics.Fits(it.Rect()) {
		return errors.New(errors.ErrCodeOutOfBounds, "item %s at %v does not fit %dx%d grid",
			it.ID, it.Rect(), x.metrics.Columns, x.metrics.Rows)
	}
	if _, ok := x.items[it.ID]; ok {
		return errors.New(errors.ErrCodeInconsistentState, "item %s is already placed", it.ID)
	}
	if x.areaBlocked(it.Rect(), "") {
		return errors.New(errors.ErrCodeInconsistentState, "item %s overlaps an occupied cell at %v", it.ID, it.Rect())
	}
	x.items[it.ID] = it
	x.set(it.Rect(), it.ID)
	return nil
}

// Remove erases the item's footprint. Removing an unknown id is a no-op that
// returns NOT_FOUND.
func (x *Index) Remove(id grid.ItemID) error {
	it, ok := x.items[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "item %s is not placed", id)
	}
	delete(x.items, id)
	x.clearCells(it)
	return nil
}

// clearCells erases only the cells that still map to it.
func (x *Index) clearCells(it grid.Item) {
	r := it.Rect()
	for y := r.Y; y < r.Bottom(); y++ {
		for c := r.X; c < r.Right(); c++ {
			if x.at(y, c) == it.ID {
				x.cells[y*x.metrics.Columns+c] = ""
			}
		}
	}
}

// Rebuild clears the index and re-adds items. Items that cannot be placed
// are skipped; the first such failure is returned wrapped as
// INCONSISTENT_STATE.
func (x *Index) Rebuild(items []grid.Item) error {
	x.items = make(map[grid.ItemID]grid.Item, len(items))
	x.cells = make([]grid.ItemID, x.metrics.Columns*x.metrics.Rows)

	var first error
	for _, it := range items {
		if err := x.Add(it); err != nil && first == nil {
			first = errors.Wrap(errors.ErrCodeInconsistentState, err, "rebuild skipped item %s", it.ID)
		}
	}
	return first
}

// Apply relocates a group of items atomically: all of them are lifted off
// the grid, then placed at their destinations. If any destination leaves the
// grid or collides, the index is left untouched and INCONSISTENT_STATE is
// returned. A move whose From does not match the committed position is also
// rejected.
func (x *Index) Apply(moves []grid.Move) error {
	if len(moves) == 0 {
		return nil
	}

	originals := make([]grid.Item, 0, len(moves))
	seen := make(map[grid.ItemID]bool, len(moves))
	for _, m := range moves {
		it, ok := x.items[m.ID]
		if !ok {
			return errors.New(errors.ErrCodeInconsistentState, "cannot move %s: not placed", m.ID)
		}
		if it.Cell() != m.From {
			return errors.New(errors.ErrCodeInconsistentState, "cannot move %s from %v: committed at %v", m.ID, m.From, it.Cell())
		}
		if seen[m.ID] {
			return errors.New(errors.ErrCodeInconsistentState, "item %s moved twice", m.ID)
		}
		seen[m.ID] = true
		originals = append(originals, it)
	}

	for _, it := range originals {
		delete(x.items, it.ID)
		x.clearCells(it)
	}

	placed := 0
	var err error
	for i, m := range moves {
		if err = x.Add(originals[i].At(m.To)); err != nil {
			break
		}
		placed++
	}
	if err == nil {
		return nil
	}

	for i := 0; i < placed; i++ {
		moved := originals[i].At(moves[i].To)
		delete(x.items, moved.ID)
		x.clearCells(moved)
	}
	for _, it := range originals {
		x.items[it.ID] = it
		x.set(it.Rect(), it.ID)
	}
	return errors.Wrap(errors.ErrCodeInconsistentState, err, "apply %d moves", len(moves))
}

// Clone returns an independent copy of the index.
func (x *Index) Clone() *Index {
	c := &Index{
		metrics: x.metrics,
		items:   make(map[grid.ItemID]grid.Item, len(x.items)),
		cells:   slices.Clone(x.cells),
	}
	for id, it := range x.items {
		c.items[id] = it
	}
	return c
}
