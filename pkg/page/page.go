// Package page defines the persisted form of a grid page, its TOML and JSON
// codecs, drag scripts, and a [drag.PageProvider] backed by a [store.Store].
package page

import (
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
)

// DefaultCellSize is the pixel size of a cell when a page does not set one.
const DefaultCellSize = 100

// Page is a named grid and the items placed on it.
type Page struct {
	ID         string      `json:"id" toml:"id"`
	Name       string      `json:"name,omitempty" toml:"name,omitempty"`
	Columns    int         `json:"columns" toml:"columns"`
	Rows       int         `json:"rows" toml:"rows"`
	CellWidth  int         `json:"cell_width,omitempty" toml:"cell_width,omitempty"`
	CellHeight int         `json:"cell_height,omitempty" toml:"cell_height,omitempty"`
	Items      []grid.Item `json:"items" toml:"items"`
}

// New returns an empty page with a fresh ID.
func New(name string, columns, rows int) *Page {
	return &Page{
		ID:      string(grid.NewItemID()),
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
}

// Metrics returns the page's grid metrics, filling in the default cell size.
func (p *Page) Metrics() (grid.Metrics, error) {
	cw, ch := p.CellWidth, p.CellHeight
	if cw == 0 {
		cw = DefaultCellSize
	}
	if ch == 0 {
		ch = DefaultCellSize
	}
	return grid.NewMetrics(cw, ch, p.Columns, p.Rows)
}

// Index builds an occupancy index of the page's items.
func (p *Page) Index() (*occupancy.Index, error) {
	m, err := p.Metrics()
	if err != nil {
		return nil, err
	}
	return occupancy.NewFromItems(m, p.Items)
}

// Validate checks identifiers, labels and spans, and that no two items
// overlap.
func (p *Page) Validate() error {
	if err := errors.ValidatePageID(p.ID); err != nil {
		return err
	}
	seen := make(map[grid.ItemID]bool, len(p.Items))
	for _, it := range p.Items {
		if err := errors.ValidateItemID(string(it.ID)); err != nil {
			return err
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if err := errors.ValidateLabel(it.Payload.Label); err != nil {
			return err
		}
		if err := errors.ValidateSpan(it.Width, it.Height, p.Columns, p.Rows); err != nil {
			return err
		}
	}
	_, err := p.Index()
	return err
}

// Clone returns a deep copy.
func (p *Page) Clone() *Page {
	c := *p
	c.Items = append([]grid.Item(nil), p.Items...)
	return &c
}
