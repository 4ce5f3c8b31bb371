package solver

import (
	"github.com/matzehuels/gridshift/pkg/grid"
)

// swap moves the items under target into origin, the footprint the dragged
// item vacated, translating the whole group by origin - target.
func (s *Solver) swap(target, origin grid.Rect, dragged grid.ItemID) ([]Move, bool) {
	var group []grid.Item
	seen := map[grid.ItemID]bool{dragged: true}
	var bounds grid.Rect
	for _, c := range target.Cells() {
		it, ok := s.grid.ItemAt(c.Y, c.X)
		if !ok || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		group = append(group, it)
		bounds = bounds.Union(it.Rect())
	}

	if !target.ContainsRect(bounds) {
		s.logger.Debug("swap fails: occupants stretch beyond target", "bounds", bounds, "target", target)
		return nil, false
	}
	if target.Intersects(origin) {
		s.logger.Debug("swap fails: target overlaps origin", "origin", origin, "target", target)
		return nil, false
	}

	dx, dy := origin.X-target.X, origin.Y-target.Y
	m := s.grid.Metrics()
	moves := make([]Move, 0, len(group))
	for _, it := range group {
		if s.pinned(it.ID) {
			s.logger.Debug("swap fails: pinned occupant", "item", it.ID)
			return nil, false
		}
		landed := it.Rect().Translate(dx, dy)
		if !m.Fits(landed) || s.blocked(landed, seen) {
			s.logger.Debug("swap fails: no room at origin", "item", it.ID, "to", landed)
			return nil, false
		}
		moves = append(moves, Move{ID: it.ID, From: it.Cell(), To: landed.Origin()})
	}
	return moves, true
}

// blocked reports whether r holds an item outside the excluded set.
func (s *Solver) blocked(r grid.Rect, exclude map[grid.ItemID]bool) bool {
	for _, c := range r.Cells() {
		if it, ok := s.grid.ItemAt(c.Y, c.X); ok && !exclude[it.ID] {
			return true
		}
	}
	return false
}
