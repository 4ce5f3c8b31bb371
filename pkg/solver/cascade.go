package solver

import (
	"github.com/matzehuels/gridshift/pkg/grid"
)

// queued is an item waiting to be pushed, with the item that displaced it.
type queued struct {
	item  grid.Item
	cause grid.ItemID
}

// cascade pushes everything overlapping area along dir. It returns the moves
// in processing order, or false when some item would leave the grid or is
// pinned.
func (s *Solver) cascade(dir grid.Direction, area grid.Rect, dragged grid.ItemID) ([]Move, bool) {
	m := s.grid.Metrics()
	seen := map[grid.ItemID]bool{dragged: true}
	var queue []queued

	enqueue := func(it grid.Item, cause grid.ItemID) bool {
		if seen[it.ID] {
			return true
		}
		if s.pinned(it.ID) {
			s.logger.Debug("cascade blocked by pinned item", "direction", dir, "item", it.ID)
			return false
		}
		seen[it.ID] = true
		queue = append(queue, queued{item: it, cause: cause})
		return true
	}

	for _, c := range scanOrder(dir, area) {
		if it, ok := s.grid.ItemAt(c.Y, c.X); ok && !enqueue(it, "") {
			return nil, false
		}
	}

	// frontier[i] is the next free row (vertical) or column (horizontal)
	// along dir for column or row i.
	var frontier []int
	switch dir {
	case grid.Up:
		frontier = filled(m.Columns, area.Y-1)
	case grid.Down:
		frontier = filled(m.Columns, area.Bottom())
	case grid.Left:
		frontier = filled(m.Rows, area.X-1)
	case grid.Right:
		frontier = filled(m.Rows, area.Right())
	}

	var moves []Move
	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]
		it := q.item

		to, ok := push(dir, it, frontier, m)
		if !ok {
			s.logger.Debug("cascade leaves grid", "direction", dir, "item", it.ID, "to", to)
			return nil, false
		}
		s.logger.Debug("queue translation", "direction", dir, "item", it.ID, "from", it.Cell(), "to", to, "cause", q.cause)
		moves = append(moves, Move{ID: it.ID, From: it.Cell(), To: to, Cause: q.cause})

		landed := grid.RectAt(to, it.Size())
		advance(dir, landed, frontier)
		for _, c := range scanOrder(dir, landed) {
			if other, ok := s.grid.ItemAt(c.Y, c.X); ok && other.ID != it.ID && !enqueue(other, it.ID) {
				return nil, false
			}
		}
	}
	return moves, true
}

// push computes where it lands when pushed along dir against the frontier,
// taking the tightest constraint across the rows or columns it spans.
func push(dir grid.Direction, it grid.Item, frontier []int, m grid.Metrics) (grid.Cell, bool) {
	to := it.Cell()
	switch dir {
	case grid.Up:
		to.Y = frontier[it.X] - (it.Height - 1)
		for col := it.X + 1; col < it.X+it.Width; col++ {
			to.Y = min(to.Y, frontier[col]-(it.Height-1))
		}
		return to, to.Y >= 0
	case grid.Down:
		to.Y = frontier[it.X]
		for col := it.X + 1; col < it.X+it.Width; col++ {
			to.Y = max(to.Y, frontier[col])
		}
		return to, to.Y+it.Height <= m.Rows
	case grid.Left:
		to.X = frontier[it.Y] - (it.Width - 1)
		for row := it.Y + 1; row < it.Y+it.Height; row++ {
			to.X = min(to.X, frontier[row]-(it.Width-1))
		}
		return to, to.X >= 0
	default:
		to.X = frontier[it.Y]
		for row := it.Y + 1; row < it.Y+it.Height; row++ {
			to.X = max(to.X, frontier[row])
		}
		return to, to.X+it.Width <= m.Columns
	}
}

// advance moves the frontier just past a footprint that was pushed to r.
func advance(dir grid.Direction, r grid.Rect, frontier []int) {
	switch dir {
	case grid.Up:
		for col := r.X; col < r.Right(); col++ {
			frontier[col] = r.Y - 1
		}
	case grid.Down:
		for col := r.X; col < r.Right(); col++ {
			frontier[col] = r.Bottom()
		}
	case grid.Left:
		for row := r.Y; row < r.Bottom(); row++ {
			frontier[row] = r.X - 1
		}
	case grid.Right:
		for row := r.Y; row < r.Bottom(); row++ {
			frontier[row] = r.Right()
		}
	}
}

// scanOrder lists the cells of r in the order occupants are queued for dir.
// Pushing up visits rows bottom to top; pushing left visits each row right
// to left. Relative order of pushed items is preserved either way.
func scanOrder(dir grid.Direction, r grid.Rect) []grid.Cell {
	cells := make([]grid.Cell, 0, r.W*r.H)
	switch dir {
	case grid.Up:
		for y := r.Bottom() - 1; y >= r.Y; y-- {
			for x := r.X; x < r.Right(); x++ {
				cells = append(cells, grid.Cell{X: x, Y: y})
			}
		}
	case grid.Left:
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.Right() - 1; x >= r.X; x-- {
				cells = append(cells, grid.Cell{X: x, Y: y})
			}
		}
	default:
		for y := r.Y; y < r.Bottom(); y++ {
			for x := r.X; x < r.Right(); x++ {
				cells = append(cells, grid.Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}
