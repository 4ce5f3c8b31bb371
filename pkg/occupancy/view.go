package occupancy

import (
	"github.com/matzehuels/gridshift/pkg/grid"
)

// View is a read-only occupancy map with some items relocated to in-flight
// destinations. The solver and the drag session read through a view so that
// moves which are animating toward commit already count as placed.
type View struct {
	idx *Index
}

// View returns a snapshot of the index with the overlay moves applied. The
// moved items are lifted together and then placed at their destinations, so
// a group may shift into cells it vacates. Moves for unknown items, or whose
// destinations collide, are ignored and the item keeps its committed cells.
func (x *Index) View(overlay ...grid.Move) *View {
	c := x.Clone()
	type lift struct {
		item grid.Item
		to   grid.Cell
	}
	lifted := make([]lift, 0, len(overlay))
	for _, m := range overlay {
		it, ok := c.items[m.ID]
		if !ok {
			continue
		}
		c.clearCells(it)
		delete(c.items, m.ID)
		lifted = append(lifted, lift{item: it, to: m.To})
	}

	var stuck []grid.Item
	for _, l := range lifted {
		it := l.item
		moved := it.At(l.to)
		if c.areaBlocked(moved.Rect(), "") {
			stuck = append(stuck, it)
			continue
		}
		c.items[it.ID] = moved
		c.set(moved.Rect(), it.ID)
	}
	for _, it := range stuck {
		if c.areaBlocked(it.Rect(), "") {
			continue
		}
		c.items[it.ID] = it
		c.set(it.Rect(), it.ID)
	}
	return &View{idx: c}
}

func (v *View) Metrics() grid.Metrics { return v.idx.Metrics() }

func (v *View) Item(id grid.ItemID) (grid.Item, bool) { return v.idx.Item(id) }

func (v *View) Items() []grid.Item { return v.idx.Items() }

func (v *View) ItemAt(row, col int) (grid.Item, bool) { return v.idx.ItemAt(row, col) }

func (v *View) IsFree(row, col int) bool { return v.idx.IsFree(row, col) }

func (v *View) IsAreaOccupied(col, row, w, h int) bool { return v.idx.IsAreaOccupied(col, row, w, h) }

// FreeRectSizes is [Index.FreeRectSizes] on the view.
func (v *View) FreeRectSizes(row, col int) map[grid.Size]bool { return freeRectSizes(v, row, col) }

// FindFree is [Index.FindFree] on the view.
func (v *View) FindFree(w, h int) (grid.Cell, bool) { return findFree(v, w, h) }
