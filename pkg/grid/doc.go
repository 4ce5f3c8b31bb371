// Package grid provides the geometry shared by the placement engine.
//
// # Overview
//
// A page is a fixed Columns×Rows grid of cells. Items occupy rectangular
// footprints of whole cells, anchored at their top-left [Cell]. This package
// holds the value types every other package speaks in:
//
//   - [Metrics]: cell pixel size and column/row counts, with pixel↔cell conversion
//   - [Cell], [Rect], [Size]: cell coordinates, footprints and spans
//   - [Direction]: the four cascade directions in their fixed probe order
//   - [Item] and [Payload]: placement records with an opaque, tagged payload
//   - [ResizeDirection] and [Constraints]: item resizing rules
//
// # Coordinates
//
// X is the column and Y is the row, both zero-based from the top-left corner.
// A [Rect] covers columns [X, X+W) and rows [Y, Y+H).
//
// # Metrics
//
// [FitMetrics] performs the initial layout pass for a container: the cell width
// is the container width divided by the column count and the cell height follows
// from an aspect scalar (taller cells in portrait). When the container later
// changes size, [Metrics.Resize] keeps the saved column and row counts and only
// rescales the cell pixel size:
//
//	m := grid.FitMetrics(1080, 1920, grid.DefaultColumns, grid.DefaultMaxRows)
//	m = m.Resize(1080, 1700) // same Columns/Rows, smaller cells if needed
//
// Items never carry pixel data. Kind and label live in [Payload], which the
// placement engine never inspects.
package grid
