package solver

import (
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/occupancy"
)

// Verify checks sol against idx without modifying it: every move stays in
// bounds, the moves apply without overlap, the target footprint ends up
// free, and no item is gained or lost. It returns INCONSISTENT_STATE on the
// first violation.
func Verify(idx *occupancy.Index, sol *Solution) error {
	m := idx.Metrics()
	for _, mv := range sol.Moves {
		it, ok := idx.Item(mv.ID)
		if !ok {
			return errors.New(errors.ErrCodeInconsistentState, "move of unknown item %s", mv.ID)
		}
		if !m.Fits(grid.RectAt(mv.To, it.Size())) {
			return errors.New(errors.ErrCodeInconsistentState, "move %s %v -> %v leaves the grid", mv.ID, mv.From, mv.To)
		}
	}

	c := idx.Clone()
	if err := c.Apply(sol.Placements()); err != nil {
		return err
	}
	if c.IsAreaOccupied(sol.Target.X, sol.Target.Y, sol.Size.W, sol.Size.H) {
		return errors.New(errors.ErrCodeInconsistentState, "target %v still occupied after %s", grid.RectAt(sol.Target, sol.Size), sol)
	}
	if found := c.Validate(c.Items()); len(found) > 0 {
		return errors.New(errors.ErrCodeInconsistentState, "index inconsistent after %s: %v", sol, found[0])
	}
	if c.Len() != idx.Len() {
		return errors.New(errors.ErrCodeInconsistentState, "item count changed from %d to %d", idx.Len(), c.Len())
	}
	return nil
}
