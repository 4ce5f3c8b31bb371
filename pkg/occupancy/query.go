package occupancy

import (
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
)

// FreeRectSizes reports every footprint size that fits when anchored at
// (row, col) without touching an occupied cell or the grid edge. The
// result is empty when the anchor itself is occupied.
func (x *Index) FreeRectSizes(row, col int) map[grid.Size]bool {
	return freeRectSizes(x, row, col)
}

func freeRectSizes(r Reader, row, col int) map[grid.Size]bool {
	m := r.Metrics()
	sizes := make(map[grid.Size]bool)
	limit := m.Columns - col
	for y := row; y < m.Rows && limit > 0; y++ {
		w := 0
		for w < limit && r.IsFree(y, col+w) {
			w++
		}
		if w == 0 {
			break
		}
		// Rows further down cannot widen the rectangle past this row.
		limit = w
		for i := 1; i <= w; i++ {
			sizes[grid.Size{W: i, H: y - row + 1}] = true
		}
	}
	return sizes
}

// CanExpand reports whether the item can grow by one cell in dir: the grown
// footprint stays in bounds and the newly covered cells are free.
func (x *Index) CanExpand(id grid.ItemID, dir grid.Direction) bool {
	it, ok := x.items[id]
	if !ok {
		return false
	}
	r := it.Rect()
	var strip grid.Rect
	switch dir {
	case grid.Up:
		strip = grid.Rect{X: r.X, Y: r.Y - 1, W: r.W, H: 1}
	case grid.Down:
		strip = grid.Rect{X: r.X, Y: r.Bottom(), W: r.W, H: 1}
	case grid.Left:
		strip = grid.Rect{X: r.X - 1, Y: r.Y, W: 1, H: r.H}
	case grid.Right:
		strip = grid.Rect{X: r.Right(), Y: r.Y, W: 1, H: r.H}
	default:
		return false
	}
	return !x.IsAreaOccupied(strip.X, strip.Y, strip.W, strip.H)
}

// CanResize reports whether moving one edge of the item as described by dir
// is allowed by c and leaves the item on free, in-bounds cells.
func (x *Index) CanResize(id grid.ItemID, dir grid.ResizeDirection, c grid.Constraints) bool {
	it, ok := x.items[id]
	if !ok || !c.Mode.Allows(dir) {
		return false
	}
	next := dir.Apply(it.Rect())
	if dir.Shrink() {
		return next.W >= max(c.MinSpan.W, 1) && next.H >= max(c.MinSpan.H, 1)
	}
	return !x.areaBlocked(next, id)
}

// Resize moves one edge of the item by one cell.
func (x *Index) Resize(id grid.ItemID, dir grid.ResizeDirection, c grid.Constraints) (grid.Item, error) {
	it, ok := x.items[id]
	if !ok {
		return grid.Item{}, errors.New(errors.ErrCodeNotFound, "item %s is not placed", id)
	}
	if !x.CanResize(id, dir, c) {
		return it, errors.New(errors.ErrCodeItemDoesNotFit, "cannot resize %s %s", id, dir)
	}
	next := dir.Apply(it.Rect())
	x.clearCells(it)
	it.X, it.Y, it.Width, it.Height = next.X, next.Y, next.W, next.H
	x.items[id] = it
	x.set(next, id)
	return it, nil
}

// FindFree returns the first cell, row-major, where a w×h footprint fits.
func (x *Index) FindFree(w, h int) (grid.Cell, bool) {
	return findFree(x, w, h)
}

func findFree(r Reader, w, h int) (grid.Cell, bool) {
	m := r.Metrics()
	for y := 0; y+h <= m.Rows; y++ {
		for c := 0; c+w <= m.Columns; c++ {
			if !r.IsAreaOccupied(c, y, w, h) {
				return grid.Cell{X: c, Y: y}, true
			}
		}
	}
	return grid.Cell{}, false
}
