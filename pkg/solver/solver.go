package solver

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/observability"
	"github.com/matzehuels/gridshift/pkg/occupancy"
)

// Strategy names how a solution was found.
type Strategy string

const (
	StrategyCascade Strategy = "cascade"
	StrategySwap    Strategy = "swap"
)

// Move is one proposed relocation. Cause is the item whose new footprint
// displaced this one; it is empty for items the dragged item displaced.
type Move struct {
	ID    grid.ItemID `json:"id"`
	From  grid.Cell   `json:"from"`
	To    grid.Cell   `json:"to"`
	Cause grid.ItemID `json:"cause,omitempty"`
}

// Solution is a set of moves that frees the target footprint.
type Solution struct {
	Target    grid.Cell      `json:"target"`
	Dragged   grid.ItemID    `json:"dragged"`
	Size      grid.Size      `json:"size"`
	Strategy  Strategy       `json:"strategy"`
	Direction grid.Direction `json:"direction"`
	Moves     []Move         `json:"moves"`
}

// Placements returns the moves without their causes.
func (s *Solution) Placements() []grid.Move {
	out := make([]grid.Move, len(s.Moves))
	for i, m := range s.Moves {
		out[i] = grid.Move{ID: m.ID, From: m.From, To: m.To}
	}
	return out
}

// Contains reports whether id is moved by the solution.
func (s *Solution) Contains(id grid.ItemID) bool {
	for _, m := range s.Moves {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (s *Solution) String() string {
	if s.Strategy == StrategySwap {
		return fmt.Sprintf("swap at %v: %d moves", s.Target, len(s.Moves))
	}
	return fmt.Sprintf("cascade %s at %v: %d moves", s.Direction, s.Target, len(s.Moves))
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for cascade tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPinned marks items that must not move.
func WithPinned(pinned func(grid.ItemID) bool) Option {
	return func(s *Solver) {
		if pinned != nil {
			s.pinned = pinned
		}
	}
}

// Solver proposes displacements against a read-only occupancy map.
type Solver struct {
	grid   occupancy.Reader
	logger *log.Logger
	pinned func(grid.ItemID) bool
}

// New returns a solver reading from r.
func New(r occupancy.Reader, opts ...Option) *Solver {
	s := &Solver{
		grid:   r,
		logger: log.Default(),
		pinned: func(grid.ItemID) bool { return false },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve finds moves that free the footprint of dragged anchored at target.
// lastCommitted is the cell the dragged item would return to (nil for an
// item that was never placed) and lastDragged is the previously processed
// drag cell (nil on the first location update).
//
// It returns OUT_OF_BOUNDS when the footprint does not fit the grid and
// NO_CASCADE_SOLUTION when neither a cascade nor a swap works.
func (s *Solver) Solve(target grid.Cell, lastCommitted, lastDragged *grid.Cell, dragged grid.Item) (*Solution, error) {
	start := time.Now()
	sol, err := s.solve(target, lastCommitted, lastDragged, dragged)

	var strategy string
	var moves int
	if sol != nil {
		strategy, moves = string(sol.Strategy), len(sol.Moves)
	}
	observability.Solver().OnSolve(target.X, target.Y, strategy, moves, time.Since(start), err)
	return sol, err
}

func (s *Solver) solve(target grid.Cell, lastCommitted, lastDragged *grid.Cell, dragged grid.Item) (*Solution, error) {
	m := s.grid.Metrics()
	area := grid.RectAt(target, dragged.Size())
	s.logger.Debug("solving", "item", dragged.ID, "target", target, "size", dragged.Size(), "last", lastDragged)

	if !m.Fits(area) {
		return nil, errors.New(errors.ErrCodeOutOfBounds, "%s does not fit %dx%d grid", area, m.Columns, m.Rows)
	}

	for _, dir := range ProbeOrder(target, lastDragged) {
		moves, ok := s.cascade(dir, area, dragged.ID)
		if !ok {
			continue
		}
		s.logger.Debug("found cascade", "direction", dir, "moves", len(moves))
		return &Solution{
			Target:    target,
			Dragged:   dragged.ID,
			Size:      dragged.Size(),
			Strategy:  StrategyCascade,
			Direction: dir,
			Moves:     moves,
		}, nil
	}

	if lastCommitted == nil {
		s.logger.Debug("no cascade and no committed cell; not trying swap")
		return nil, errors.New(errors.ErrCodeNoCascadeSolution, "no cascade frees %s", area)
	}
	if moves, ok := s.swap(area, grid.RectAt(*lastCommitted, dragged.Size()), dragged.ID); ok {
		s.logger.Debug("found swap", "moves", len(moves))
		return &Solution{
			Target:   target,
			Dragged:  dragged.ID,
			Size:     dragged.Size(),
			Strategy: StrategySwap,
			Moves:    moves,
		}, nil
	}
	return nil, errors.New(errors.ErrCodeNoCascadeSolution, "no cascade or swap frees %s", area)
}

// PreferredDirection derives the cascade direction from the drag movement:
// the sign of the larger axis delta, horizontal on ties, down when the cell
// did not change and right when there is no previous cell.
func PreferredDirection(target grid.Cell, lastDragged *grid.Cell) grid.Direction {
	if lastDragged == nil {
		return grid.Right
	}
	dx, dy := target.Sub(*lastDragged)
	switch {
	case dx == 0 && dy == 0:
		return grid.Down
	case abs(dx) >= abs(dy) && dx > 0:
		return grid.Right
	case abs(dx) >= abs(dy):
		return grid.Left
	case dy > 0:
		return grid.Down
	default:
		return grid.Up
	}
}

// ProbeOrder returns the four directions in the order the solver tries them:
// preferred, its opposite, then the other two in natural order.
func ProbeOrder(target grid.Cell, lastDragged *grid.Cell) []grid.Direction {
	preferred := PreferredDirection(target, lastDragged)
	order := []grid.Direction{preferred, preferred.Opposite()}
	for _, d := range grid.Directions {
		if d != preferred && d != preferred.Opposite() {
			order = append(order, d)
		}
	}
	return order
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
