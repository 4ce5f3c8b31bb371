package grid

import "fmt"

// Cell is a (column, row) position on the grid.
type Cell struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Add returns the cell translated by (dx, dy).
func (c Cell) Add(dx, dy int) Cell { return Cell{X: c.X + dx, Y: c.Y + dy} }

// Sub returns the vector c - o.
func (c Cell) Sub(o Cell) (dx, dy int) { return c.X - o.X, c.Y - o.Y }

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// Size is a footprint span in cells.
type Size struct {
	W int `json:"w" toml:"w"`
	H int `json:"h" toml:"h"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Rect is a footprint: columns [X, X+W) and rows [Y, Y+H).
type Rect struct {
	X, Y int
	W, H int
}

// RectAt returns the footprint of size s anchored at c.
func RectAt(c Cell, s Size) Rect { return Rect{X: c.X, Y: c.Y, W: s.W, H: s.H} }

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int { return r.Y + r.H }

// Origin returns the top-left cell.
func (r Rect) Origin() Cell { return Cell{X: r.X, Y: r.Y} }

// Size returns the span of the rect.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether c lies inside the rect.
func (r Rect) Contains(c Cell) bool {
	return c.X >= r.X && c.X < r.Right() && c.Y >= r.Y && c.Y < r.Bottom()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether the two rects share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the bounding rect of r and o. An empty rect is the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x, y := min(r.X, o.X), min(r.Y, o.Y)
	return Rect{X: x, Y: y, W: max(r.Right(), o.Right()) - x, H: max(r.Bottom(), o.Bottom()) - y}
}

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Cells returns every covered cell in row-major order.
func (r Rect) Cells() []Cell {
	if r.Empty() {
		return nil
	}
	cells := make([]Cell, 0, r.W*r.H)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", r.W, r.H, r.X, r.Y)
}
