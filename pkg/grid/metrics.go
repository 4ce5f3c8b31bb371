package grid

import (
	"math"

	"github.com/matzehuels/gridshift/pkg/errors"
)

const (
	// DefaultColumns is the column count used for new pages.
	DefaultColumns = 5
	// DefaultMaxRows caps the row count chosen by FitMetrics.
	DefaultMaxRows = 6

	// PortraitAspect is the cell height/width ratio for portrait containers.
	PortraitAspect = 1.5
	// LandscapeAspect is the cell height/width ratio for landscape containers.
	LandscapeAspect = 1.15
)

// Metrics describes a grid: cell pixel size and column/row counts.
// Metrics values are immutable; a container resize produces a new value.
type Metrics struct {
	CellWidth  int `json:"cell_width" toml:"cell_width"`
	CellHeight int `json:"cell_height" toml:"cell_height"`
	Columns    int `json:"columns" toml:"columns"`
	Rows       int `json:"rows" toml:"rows"`
}

// NewMetrics validates and returns metrics. All four values must be positive.
func NewMetrics(cellWidth, cellHeight, columns, rows int) (Metrics, error) {
	m := Metrics{CellWidth: cellWidth, CellHeight: cellHeight, Columns: columns, Rows: rows}
	if err := m.Validate(); err != nil {
		return Metrics{}, err
	}
	return m, nil
}

// Validate reports an INVALID_INPUT error when any field is not positive.
func (m Metrics) Validate() error {
	if m.CellWidth <= 0 || m.CellHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size must be positive, got %dx%d px", m.CellWidth, m.CellHeight)
	}
	if m.Columns <= 0 || m.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid must be at least 1x1, got %dx%d", m.Columns, m.Rows)
	}
	return nil
}

// FitMetrics lays out a fresh grid for a container of the given pixel size.
// The row count is whatever fits vertically, capped at maxRows.
func FitMetrics(screenWidth, screenHeight, columns, maxRows int) Metrics {
	columns = max(columns, 1)
	cellW := max(screenWidth/columns, 1)
	cellH := max(int(float64(cellW)*aspectFor(screenWidth, screenHeight)), 1)
	rows := min(maxRows, int(math.Floor(float64(screenHeight)/float64(cellH))))
	return Metrics{CellWidth: cellW, CellHeight: cellH, Columns: columns, Rows: max(rows, 1)}
}

// Resize recomputes the cell pixel size for a new container size while
// keeping Columns and Rows. When the rows would overflow the container height
// the cell size is derived from the height instead.
func (m Metrics) Resize(screenWidth, screenHeight int) Metrics {
	aspect := aspectFor(screenWidth, screenHeight)
	cellW := screenWidth / m.Columns
	if float64(cellW)*aspect*float64(m.Rows) >= float64(screenHeight) {
		cellW = int(float64(screenHeight) / float64(m.Rows) / aspect)
	}
	cellW = max(cellW, 1)
	m.CellWidth = cellW
	m.CellHeight = max(int(float64(cellW)*aspect), 1)
	return m
}

func aspectFor(width, height int) float64 {
	if height < width {
		return LandscapeAspect
	}
	return PortraitAspect
}

// WidthOfColumns returns the pixel width of n columns.
func (m Metrics) WidthOfColumns(n int) int { return m.CellWidth * n }

// HeightOfRows returns the pixel height of n rows.
func (m Metrics) HeightOfRows(n int) int { return m.CellHeight * n }

// MinColumnsFor returns the columns needed to host minWidthPx, at least one
// and at most Columns.
func (m Metrics) MinColumnsFor(minWidthPx int) int {
	px := max(minWidthPx, m.CellWidth)
	return min(ceilDiv(px, m.CellWidth), m.Columns)
}

// MinRowsFor returns the rows needed to host minHeightPx, at least one.
// The result is not clamped; callers reject items taller than the grid.
func (m Metrics) MinRowsFor(minHeightPx int) int {
	px := max(minHeightPx, m.CellHeight)
	return ceilDiv(px, m.CellHeight)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Bounds returns the whole grid as a rect.
func (m Metrics) Bounds() Rect { return Rect{W: m.Columns, H: m.Rows} }

// Fits reports whether r lies entirely inside the grid.
func (m Metrics) Fits(r Rect) bool {
	return !r.Empty() && m.Bounds().ContainsRect(r)
}

// InBounds reports whether c is a cell of the grid.
func (m Metrics) InBounds(c Cell) bool { return m.Bounds().Contains(c) }

// SnapToCell maps the pixel position of a dragged footprint's top-left corner
// to the cell whose area holds the center of that corner cell.
func (m Metrics) SnapToCell(px, py float64) Cell {
	x := math.Floor((px + float64(m.CellWidth)/2) / float64(m.CellWidth))
	y := math.Floor((py + float64(m.CellHeight)/2) / float64(m.CellHeight))
	return Cell{X: int(x), Y: int(y)}
}

// ClampCell moves c so that a w×h footprint anchored there stays in bounds.
func (m Metrics) ClampCell(c Cell, w, h int) Cell {
	c.X = max(0, min(c.X, m.Columns-w))
	c.Y = max(0, min(c.Y, m.Rows-h))
	return c
}

// CellOrigin returns the pixel position of a cell's top-left corner.
func (m Metrics) CellOrigin(c Cell) (px, py int) {
	return m.WidthOfColumns(c.X), m.HeightOfRows(c.Y)
}

// PixelSize returns the pixel size of the whole grid.
func (m Metrics) PixelSize() (w, h int) {
	return m.WidthOfColumns(m.Columns), m.HeightOfRows(m.Rows)
}
