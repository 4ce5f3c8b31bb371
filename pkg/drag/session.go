package drag

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/observability"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// PageProvider owns the canonical item list of a page.
type PageProvider interface {
	Items() []grid.Item
	CommitItems(items []grid.Item) error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for the session, its solver and choreographer.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReflow passes options through to the choreographer.
func WithReflow(opts ...reflow.Option) Option {
	return func(s *Session) { s.reflowOpts = append(s.reflowOpts, opts...) }
}

// Session glues the index, solver and choreographer to a drag event stream.
type Session struct {
	page   PageProvider
	idx    *occupancy.Index
	chor   *reflow.Choreographer
	logger *log.Logger

	reflowOpts []reflow.Option

	state         State
	item          grid.Item
	origin        *grid.Cell
	lastCommitted *grid.Cell
	lastDragged   *grid.Cell
}

// New loads the page into a fresh index sized by m. Ticks for the
// choreographer are requested from sched.
func New(page PageProvider, m grid.Metrics, sched reflow.Scheduler, opts ...Option) (*Session, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	s := &Session{page: page, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	idx, err := occupancy.NewFromItems(m, page.Items())
	if err != nil {
		return nil, err
	}
	s.idx = idx
	ropts := append([]reflow.Option{reflow.WithLogger(s.logger)}, s.reflowOpts...)
	ropts = append(ropts, reflow.WithOnCommitted(s.committed))
	s.chor = reflow.New(idx, sched, ropts...)
	return s, nil
}

// Index returns the committed occupancy index.
func (s *Session) Index() *occupancy.Index { return s.idx }

// Choreographer returns the choreographer animating previews.
func (s *Session) Choreographer() *reflow.Choreographer { return s.chor }

// Tick advances the choreographer. Schedulers call it.
func (s *Session) Tick() { s.chor.Tick() }

// State returns the state of the current or last gesture.
func (s *Session) State() State { return s.state }

// Dragged returns the item being dragged and the last cell processed for
// it. ok is false when no gesture is active.
func (s *Session) Dragged() (it grid.Item, cell *grid.Cell, ok bool) {
	if s.state != Tracking {
		return grid.Item{}, nil, false
	}
	return s.item, s.lastDragged, true
}

// Candidate returns the last cell at which the dragged item was known to
// fit, if any.
func (s *Session) Candidate() (grid.Cell, bool) {
	if s.lastCommitted == nil {
		return grid.Cell{}, false
	}
	return *s.lastCommitted, true
}

// View returns the index with commits in flight applied.
func (s *Session) View() *occupancy.View { return s.idx.View(s.chor.Committing()...) }

// Start begins a gesture for it. An item already on the page is lifted out
// of the index and its cell becomes the starting candidate. An item without
// an ID is treated as new and given one.
func (s *Session) Start(it grid.Item) error {
	if s.state == Tracking {
		return errors.New(errors.ErrCodeSessionActive, "drag of %s is still active", s.item.ID)
	}
	if it.Width < 1 || it.Height < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "dragged item must have a positive size, got %dx%d", it.Width, it.Height)
	}
	m := s.idx.Metrics()
	if it.Width > m.Columns || it.Height > m.Rows {
		return errors.New(errors.ErrCodeOutOfBounds, "%dx%d item does not fit %dx%d grid", it.Width, it.Height, m.Columns, m.Rows)
	}
	if it.ID == "" {
		it.ID = grid.NewItemID()
	}

	s.origin, s.lastCommitted, s.lastDragged = nil, nil, nil
	if placed, ok := s.idx.Item(it.ID); ok {
		// Settle first so the origin is the item's real committed cell.
		s.chor.Settle()
		placed, _ = s.idx.Item(it.ID)
		if err := s.idx.Remove(it.ID); err != nil {
			return err
		}
		it.X, it.Y = placed.X, placed.Y
		origin := placed.Cell()
		s.origin = &origin
		c1, c2 := origin, origin
		s.lastCommitted, s.lastDragged = &c1, &c2
	}

	s.item, s.state = it, Tracking
	s.logger.Debug("drag started", "item", it.ID, "size", it.Size(), "origin", s.origin)
	observability.Drag().OnDragStart(string(it.ID))
	return nil
}

func (s *Session) cellFor(px, py float64) grid.Cell {
	m := s.idx.Metrics()
	return m.ClampCell(m.SnapToCell(px, py), s.item.Width, s.item.Height)
}

// Move processes a location update.
func (s *Session) Move(px, py float64) error {
	if s.state != Tracking {
		return errors.New(errors.ErrCodeSessionIdle, "no drag in progress")
	}
	cell := s.cellFor(px, py)
	if s.lastDragged != nil && *s.lastDragged == cell {
		return nil
	}

	view := s.View()
	if view.IsAreaOccupied(cell.X, cell.Y, s.item.Width, s.item.Height) {
		sv := solver.New(view, solver.WithLogger(s.logger), solver.WithPinned(s.chor.IsCommitting))
		sol, err := sv.Solve(cell, s.lastCommitted, s.lastDragged, s.item)
		if err != nil {
			s.logger.Debug("no arrangement", "cell", cell, "err", err)
		} else {
			s.chor.QueueSolve(sol)
		}
	} else {
		s.chor.Clear()
		c := cell
		s.lastCommitted = &c
	}
	s.lastDragged = &cell
	return nil
}

// committed runs when a change set lands in the index.
func (s *Session) committed(target grid.Cell, moves []grid.Move) {
	if s.state == Tracking {
		c := target
		s.lastCommitted = &c
	}
	s.logger.Debug("arrangement committed", "target", target, "moves", len(moves))
	if err := s.commitPage(); err != nil {
		s.logger.Error("page commit failed", "err", err)
	}
}

func (s *Session) commitPage() error {
	return s.page.CommitItems(s.idx.Items())
}

// Drop finishes the gesture at the given position.
func (s *Session) Drop(px, py float64) (Outcome, error) {
	if s.state != Tracking {
		return Outcome{}, errors.New(errors.ErrCodeSessionIdle, "no drag in progress")
	}
	s.chor.Clear()
	s.chor.Settle()
	return s.finish(s.cellFor(px, py), Committed)
}

// End finishes a gesture that ended without a drop by placing the item at
// the last cell where it fit.
func (s *Session) End() (Outcome, error) {
	return s.endAtCandidate(Committed)
}

// Cancel abandons the gesture. The item still lands on the last cell where
// it fit, or goes back to its origin when there is none.
func (s *Session) Cancel() (Outcome, error) {
	return s.endAtCandidate(Cancelled)
}

func (s *Session) endAtCandidate(success State) (Outcome, error) {
	if s.state != Tracking {
		return Outcome{}, errors.New(errors.ErrCodeSessionIdle, "no drag in progress")
	}
	s.chor.Clear()
	s.chor.Settle()
	if s.lastCommitted == nil {
		return s.reject(errors.New(errors.ErrCodeItemDoesNotFit, "%s has no cell it fits", s.item.ID))
	}
	return s.finish(*s.lastCommitted, success)
}

func (s *Session) finish(cell grid.Cell, success State) (Outcome, error) {
	if s.idx.IsAreaOccupied(cell.X, cell.Y, s.item.Width, s.item.Height) {
		return s.reject(errors.New(errors.ErrCodeItemDoesNotFit, "%s does not fit at %v", s.item.ID, cell))
	}
	placed := s.item.At(cell)
	if err := s.idx.Add(placed); err != nil {
		return s.reject(err)
	}
	out := Outcome{State: success, Item: placed, Cell: cell}
	return out, s.end(out)
}

// reject puts the item back at its origin, or the first free footprint when
// the origin has been taken. New items are simply discarded.
func (s *Session) reject(cause error) (Outcome, error) {
	out := Outcome{State: Rejected, Item: s.item, Err: cause}
	if s.origin != nil {
		cell, ok := *s.origin, true
		if s.idx.IsAreaOccupied(cell.X, cell.Y, s.item.Width, s.item.Height) {
			cell, ok = s.idx.FindFree(s.item.Width, s.item.Height)
		}
		if ok {
			restored := s.item.At(cell)
			if err := s.idx.Add(restored); err == nil {
				out.Item, out.Cell, out.Restored = restored, cell, true
			}
		}
		if !out.Restored {
			s.logger.Warn("dragged item could not be restored", "item", s.item.ID)
		}
	}
	s.logger.Debug("drop rejected", "item", s.item.ID, "err", cause, "restored", out.Restored)
	return out, s.end(out)
}

// end records the outcome, persists the page and resets per-gesture state.
func (s *Session) end(out Outcome) error {
	s.state = out.State
	s.origin, s.lastCommitted, s.lastDragged = nil, nil, nil
	s.item = grid.Item{}
	observability.Drag().OnDragEnd(string(out.Item.ID), out.State.String(), out.Err)

	if err := s.commitPage(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "commit page")
	}
	return nil
}

// Handle dispatches ev. Outcomes are returned for events that end a gesture.
func (s *Session) Handle(ev Event) (*Outcome, error) {
	var out Outcome
	var err error
	switch ev.Kind {
	case EventStarted:
		if ev.Item == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "started event without an item")
		}
		return nil, s.Start(*ev.Item)
	case EventLocation:
		return nil, s.Move(ev.X, ev.Y)
	case EventDrop:
		out, err = s.Drop(ev.X, ev.Y)
	case EventEnded:
		out, err = s.End()
	case EventCancelled:
		out, err = s.Cancel()
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown drag event %q", ev.Kind)
	}
	if err != nil && out.State == Idle {
		return nil, err
	}
	return &out, err
}

// Halt stops all animation and reverts previews. A gesture in progress keeps
// tracking.
func (s *Session) Halt() { s.chor.Halt() }

// Validate compares the index with the page's canonical items. The dragged
// item is expected to be missing while a gesture is active.
func (s *Session) Validate() []occupancy.Discrepancy {
	return s.idx.Validate(s.page.Items())
}

// Rebuild reloads the index from the page. Animations are halted first.
func (s *Session) Rebuild() error {
	s.chor.Halt()
	return s.idx.Rebuild(s.page.Items())
}
