package page

import (
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// probeID names the stand-in item of a probe that drags a new footprint.
const probeID grid.ItemID = "probe"

// Probe describes one hypothetical drag position. When Item is set, that
// item is lifted off the page first and its cell is the swap fallback;
// otherwise a new Width×Height item is dragged in.
type Probe struct {
	Item        grid.ItemID `json:"item,omitempty" toml:"item,omitempty"`
	Width       int         `json:"width,omitempty" toml:"width,omitempty"`
	Height      int         `json:"height,omitempty" toml:"height,omitempty"`
	Target      grid.Cell   `json:"target" toml:"target"`
	LastDragged *grid.Cell  `json:"last_dragged,omitempty" toml:"last_dragged,omitempty"`
}

// Lift returns the page's index with the probed item removed, the item being
// dragged, and the cell it was lifted from (nil for a new item).
func (p *Page) Lift(pr Probe) (*occupancy.Index, grid.Item, *grid.Cell, error) {
	idx, err := p.Index()
	if err != nil {
		return nil, grid.Item{}, nil, err
	}
	if pr.Item == "" {
		if pr.Width < 1 || pr.Height < 1 {
			return nil, grid.Item{}, nil, errors.New(errors.ErrCodeInvalidInput, "probe needs an item or a size, got %dx%d", pr.Width, pr.Height)
		}
		return idx, grid.Item{ID: probeID, Width: pr.Width, Height: pr.Height}, nil, nil
	}
	it, ok := idx.Item(pr.Item)
	if !ok {
		return nil, grid.Item{}, nil, errors.New(errors.ErrCodeNotFound, "item %s is not on page %s", pr.Item, p.ID)
	}
	if err := idx.Remove(it.ID); err != nil {
		return nil, grid.Item{}, nil, err
	}
	origin := it.Cell()
	return idx, it, &origin, nil
}

// Solve runs the displacement solver once for pr against the page.
func (p *Page) Solve(pr Probe, opts ...solver.Option) (*solver.Solution, error) {
	idx, dragged, origin, err := p.Lift(pr)
	if err != nil {
		return nil, err
	}
	return solver.New(idx, opts...).Solve(pr.Target, origin, pr.LastDragged, dragged)
}
