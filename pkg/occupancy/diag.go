package occupancy

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gridshift/pkg/grid"
)

// Dump returns a Rows×Columns copy of the cell map. Free cells are "".
func (x *Index) Dump() [][]grid.ItemID {
	out := make([][]grid.ItemID, x.metrics.Rows)
	for y := range out {
		row := make([]grid.ItemID, x.metrics.Columns)
		copy(row, x.cells[y*x.metrics.Columns:(y+1)*x.metrics.Columns])
		out[y] = row
	}
	return out
}

// String renders the cell map as text, one line per row. Items are labelled
// a, b, c... in [Index.Items] order; free cells are '.'.
func (x *Index) String() string {
	labels := make(map[grid.ItemID]byte, len(x.items))
	for i, it := range x.Items() {
		labels[it.ID] = label(i)
	}

	var b strings.Builder
	b.WriteString("   ")
	for c := 0; c < x.metrics.Columns; c++ {
		fmt.Fprintf(&b, "%d", c%10)
	}
	b.WriteByte('\n')
	for y := 0; y < x.metrics.Rows; y++ {
		fmt.Fprintf(&b, "%2d ", y)
		for c := 0; c < x.metrics.Columns; c++ {
			if id := x.at(y, c); id != "" {
				b.WriteByte(labels[id])
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

const labelAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func label(i int) byte {
	if i < len(labelAlphabet) {
		return labelAlphabet[i]
	}
	return '#'
}

// DiscrepancyKind classifies a validation finding.
type DiscrepancyKind string

const (
	// MissingFromIndex: a canonical item is not live in the index.
	MissingFromIndex DiscrepancyKind = "missing-from-index"
	// MissingFromCanonical: the index holds an item the canonical list lacks.
	MissingFromCanonical DiscrepancyKind = "missing-from-canonical"
	// FootprintMismatch: the index records a different footprint for the item.
	FootprintMismatch DiscrepancyKind = "footprint-mismatch"
	// CellMismatch: a cell maps to the wrong item, or to none.
	CellMismatch DiscrepancyKind = "cell-mismatch"
)

// Discrepancy is one difference between the index and a canonical item list.
type Discrepancy struct {
	Kind   DiscrepancyKind `json:"kind"`
	ID     grid.ItemID     `json:"id"`
	Cell   *grid.Cell      `json:"cell,omitempty"`
	Detail string          `json:"detail"`
}

func (d Discrepancy) String() string {
	if d.Cell != nil {
		return fmt.Sprintf("%s %s at %v: %s", d.Kind, d.ID, *d.Cell, d.Detail)
	}
	return fmt.Sprintf("%s %s: %s", d.Kind, d.ID, d.Detail)
}

// Validate compares the index against canonical, the externally owned item
// list, and returns every discrepancy found. An empty result means the index
// is consistent. Callers recover from discrepancies with [Index.Rebuild].
func (x *Index) Validate(canonical []grid.Item) []Discrepancy {
	var out []Discrepancy
	want := make(map[grid.ItemID]grid.Item, len(canonical))

	for _, it := range canonical {
		want[it.ID] = it
		got, ok := x.items[it.ID]
		if !ok {
			out = append(out, Discrepancy{Kind: MissingFromIndex, ID: it.ID, Detail: fmt.Sprintf("expected at %v", it.Rect())})
			continue
		}
		if got.Rect() != it.Rect() {
			out = append(out, Discrepancy{
				Kind:   FootprintMismatch,
				ID:     it.ID,
				Detail: fmt.Sprintf("index has %v, canonical has %v", got.Rect(), it.Rect()),
			})
		}
	}

	for _, it := range x.Items() {
		if _, ok := want[it.ID]; !ok {
			out = append(out, Discrepancy{Kind: MissingFromCanonical, ID: it.ID, Detail: fmt.Sprintf("index has %v", it.Rect())})
		}
	}

	for y := 0; y < x.metrics.Rows; y++ {
		for c := 0; c < x.metrics.Columns; c++ {
			id := x.at(y, c)
			if id == "" {
				continue
			}
			cell := grid.Cell{X: c, Y: y}
			it, ok := x.items[id]
			if !ok || !it.Rect().Contains(cell) {
				out = append(out, Discrepancy{Kind: CellMismatch, ID: id, Cell: &cell, Detail: "cell is outside the item's footprint"})
			}
		}
	}

	for _, it := range x.Items() {
		for _, cell := range it.Rect().Cells() {
			if id := x.at(cell.Y, cell.X); id != it.ID {
				out = append(out, Discrepancy{Kind: CellMismatch, ID: it.ID, Cell: &cell, Detail: fmt.Sprintf("cell maps to %q", id)})
			}
		}
	}
	return out
}
