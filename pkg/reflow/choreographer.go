package reflow

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/observability"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// Offset is a pixel translation relative to an item's committed position.
type Offset struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (o Offset) lerp(to Offset, f float64) Offset {
	return Offset{DX: o.DX + (to.DX-o.DX)*f, DY: o.DY + (to.DY-o.DY)*f}
}

func (o Offset) scale(f float64) Offset { return Offset{DX: o.DX * f, DY: o.DY * f} }

// element is one item's pending translation inside a change set.
type element struct {
	move    grid.Move
	dest    Offset // full translation to move.To
	from    Offset // animation endpoints for the current state
	to      Offset
	current Offset
}

type changeSet struct {
	id       uint64
	target   grid.Cell
	state    State
	started  time.Time
	elements []*element
}

func (s *changeSet) moves() []grid.Move {
	out := make([]grid.Move, len(s.elements))
	for i, e := range s.elements {
		out[i] = e.move
	}
	return out
}

// extract removes and returns the element for id.
func (s *changeSet) extract(id grid.ItemID) *element {
	for i, e := range s.elements {
		if e.move.ID == id {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return e
		}
	}
	return nil
}

// Option configures a Choreographer.
type Option func(*Choreographer)

// WithTimings overrides the state durations. Zero fields keep their defaults.
func WithTimings(t Timings) Option {
	return func(c *Choreographer) { c.timings = t.WithDefaults() }
}

// WithClock sets the time source. Defaults to the system clock.
func WithClock(clock Clock) Option {
	return func(c *Choreographer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Choreographer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithOnCommitted registers a callback run after a change set has been
// written to the index. target is the cell the set was solved for.
func WithOnCommitted(fn func(target grid.Cell, moves []grid.Move)) Option {
	return func(c *Choreographer) { c.onCommitted = fn }
}

// Choreographer animates change sets and commits them into an index.
type Choreographer struct {
	idx         *occupancy.Index
	sched       Scheduler
	clock       Clock
	timings     Timings
	logger      *log.Logger
	onCommitted func(grid.Cell, []grid.Move)

	sets    []*changeSet
	nextID  uint64
	ticking bool
}

// New returns an idle choreographer that commits into idx and asks sched for
// ticks.
func New(idx *occupancy.Index, sched Scheduler, opts ...Option) *Choreographer {
	c := &Choreographer{
		idx:     idx,
		sched:   sched,
		clock:   SystemClock{},
		timings: DefaultTimings(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timings returns the active timings.
func (c *Choreographer) Timings() Timings { return c.timings }

// QueueSolve starts animating sol, merging it with the sets already in
// flight. A nil solution is the same as [Choreographer.Clear].
func (c *Choreographer) QueueSolve(sol *solver.Solution) {
	var target grid.Cell
	var moves []grid.Move
	if sol != nil {
		target, moves = sol.Target, sol.Placements()
	}
	c.queue(target, moves)
}

// Clear reverts every set that has not started committing.
func (c *Choreographer) Clear() { c.queue(grid.Cell{}, nil) }

func (c *Choreographer) queue(target grid.Cell, moves []grid.Move) {
	now := c.clock.Now()
	m := c.idx.Metrics()

	next := &changeSet{target: target, state: Hinting, started: now}
	for _, mv := range moves {
		if c.IsCommitting(mv.ID) {
			c.logger.Warn("dropping move for committing item", "item", mv.ID)
			continue
		}
		dx, dy := mv.Delta()
		e := &element{
			move: mv,
			dest: Offset{DX: float64(dx * m.CellWidth), DY: float64(dy * m.CellHeight)},
		}
		for _, s := range c.sets {
			if s.state == Committing {
				continue
			}
			if old := s.extract(mv.ID); old != nil {
				e.current = old.current
				break
			}
		}
		e.from = e.current
		e.to = e.dest.scale(c.timings.HintFraction)
		next.elements = append(next.elements, e)
	}

	kept := c.sets[:0]
	for _, s := range c.sets {
		if len(s.elements) == 0 {
			c.logger.Debug("dropping emptied change set", "set", s.id)
			continue
		}
		if s.state == Hinting || s.state == Pausing {
			c.transition(s, Reverting, now)
		}
		kept = append(kept, s)
	}
	c.sets = kept

	if len(next.elements) > 0 {
		c.nextID++
		next.id = c.nextID
		c.sets = append(c.sets, next)
		c.logger.Debug("queued change set", "set", next.id, "target", target, "moves", len(next.elements))
		observability.Reflow().OnStateChange(next.id, "", Hinting.String())
	}
	if len(c.sets) > 0 {
		c.Tick()
	} else {
		c.stopTicking()
	}
}

// transition moves s into state, starting its clock at now and resetting
// each element's animation endpoints.
func (c *Choreographer) transition(s *changeSet, state State, now time.Time) {
	from := s.state
	s.state, s.started = state, now
	for _, e := range s.elements {
		e.from = e.current
		switch state {
		case Hinting:
			e.to = e.dest.scale(c.timings.HintFraction)
		case Pausing:
			e.to = e.current
		case Committing:
			e.to = e.dest
		case Reverting:
			e.to = Offset{}
		}
	}
	c.logger.Debug("change set state", "set", s.id, "from", from, "to", state)
	observability.Reflow().OnStateChange(s.id, from.String(), state.String())
}

type commit struct {
	target grid.Cell
	moves  []grid.Move
}

// Tick advances every active set to the current time. Sets whose state has
// run its course move on; finished sets are committed or discarded. Another
// tick is scheduled while anything is still active.
func (c *Choreographer) Tick() {
	now := c.clock.Now()
	var done []commit

	kept := c.sets[:0]
	for _, s := range c.sets {
		elapsed := now.Sub(s.started)
		d := c.timings.duration(s.state)
		complete := elapsed >= d
		f := 1.0
		if !complete {
			f = Ease(float64(elapsed) / float64(d))
		}
		for _, e := range s.elements {
			e.current = e.from.lerp(e.to, f)
		}
		if !complete {
			kept = append(kept, s)
			continue
		}

		switch s.state {
		case Hinting:
			c.transition(s, Pausing, now)
			kept = append(kept, s)
		case Pausing:
			c.transition(s, Committing, now)
			kept = append(kept, s)
		case Committing:
			if c.apply(s) {
				done = append(done, commit{target: s.target, moves: s.moves()})
			}
		case Reverting:
			c.logger.Debug("change set reverted", "set", s.id, "moves", len(s.elements))
			observability.Reflow().OnRevert(s.id, len(s.elements))
		}
	}
	c.sets = kept

	if len(c.sets) > 0 {
		c.ticking = true
		c.sched.ScheduleTick(c.timings.TickInterval)
	} else {
		c.stopTicking()
	}
	c.notify(done)
}

// apply writes a set into the index and reports whether it succeeded. A set
// that no longer applies is dropped as if it had reverted.
func (c *Choreographer) apply(s *changeSet) bool {
	moves := s.moves()
	if err := c.idx.Apply(moves); err != nil {
		c.logger.Error("change set could not be committed", "set", s.id, "err", err)
		observability.Reflow().OnRevert(s.id, len(moves))
		return false
	}
	c.logger.Debug("change set committed", "set", s.id, "target", s.target, "moves", len(moves))
	observability.Reflow().OnCommit(s.id, len(moves))
	return true
}

func (c *Choreographer) notify(done []commit) {
	if c.onCommitted == nil {
		return
	}
	for _, d := range done {
		c.onCommitted(d.target, d.moves)
	}
}

func (c *Choreographer) stopTicking() {
	if c.ticking {
		c.sched.CancelTicks()
		c.ticking = false
	}
}

// Halt stops all animation at once. Sets that were already committing are
// written to the index without finishing their animation; every other set is
// dropped and its items snap back to their committed cells. No tick fires
// after Halt returns.
func (c *Choreographer) Halt() {
	c.sched.CancelTicks()
	c.ticking = false

	done := c.settle()
	for _, s := range c.sets {
		observability.Reflow().OnRevert(s.id, len(s.elements))
	}
	if len(c.sets) > 0 {
		c.logger.Debug("halted", "reverted", len(c.sets), "committed", len(done))
	}
	c.sets = nil
	c.notify(done)
}

// Settle writes every committing set to the index now, without waiting for
// its animation to finish. Hinting, pausing and reverting sets carry on.
func (c *Choreographer) Settle() {
	done := c.settle()
	if len(c.sets) == 0 {
		c.stopTicking()
	}
	c.notify(done)
}

func (c *Choreographer) settle() []commit {
	var done []commit
	kept := c.sets[:0]
	for _, s := range c.sets {
		if s.state != Committing {
			kept = append(kept, s)
			continue
		}
		if c.apply(s) {
			done = append(done, commit{target: s.target, moves: s.moves()})
		}
	}
	c.sets = kept
	return done
}

func (c *Choreographer) find(id grid.ItemID) (*changeSet, *element) {
	for _, s := range c.sets {
		for _, e := range s.elements {
			if e.move.ID == id {
				return s, e
			}
		}
	}
	return nil, nil
}

// Offset returns the pixel offset at which id is currently drawn relative
// to its committed cell. ok is false when the item is not animating.
func (c *Choreographer) Offset(id grid.ItemID) (dx, dy float64, ok bool) {
	_, e := c.find(id)
	if e == nil {
		return 0, 0, false
	}
	return e.current.DX, e.current.DY, true
}

// Pending returns the cell id is heading for. Reverting items have no
// pending cell.
func (c *Choreographer) Pending(id grid.ItemID) (grid.Cell, bool) {
	s, e := c.find(id)
	if e == nil || s.state == Reverting {
		return grid.Cell{}, false
	}
	return e.move.To, true
}

// State returns the state of the set holding id.
func (c *Choreographer) State(id grid.ItemID) (State, bool) {
	s, _ := c.find(id)
	if s == nil {
		return 0, false
	}
	return s.state, true
}

// IsCommitting reports whether id belongs to a set that is committing.
func (c *Choreographer) IsCommitting(id grid.ItemID) bool {
	s, _ := c.find(id)
	return s != nil && s.state == Committing
}

// Committing returns the moves of every committing set. These are the cells
// reserved by commits in flight; readers overlay them on the index with
// [occupancy.Index.View].
func (c *Choreographer) Committing() []grid.Move {
	var out []grid.Move
	for _, s := range c.sets {
		if s.state == Committing {
			out = append(out, s.moves()...)
		}
	}
	return out
}

// Active returns the number of sets in flight.
func (c *Choreographer) Active() int { return len(c.sets) }

// Idle reports whether nothing is animating.
func (c *Choreographer) Idle() bool { return len(c.sets) == 0 }

// ElementState describes one animating item.
type ElementState struct {
	Set    uint64      `json:"set"`
	State  State       `json:"state"`
	ID     grid.ItemID `json:"id"`
	From   grid.Cell   `json:"from"`
	To     grid.Cell   `json:"to"`
	Offset Offset      `json:"offset"`
}

// Snapshot lists every animating item, oldest set first.
func (c *Choreographer) Snapshot() []ElementState {
	var out []ElementState
	for _, s := range c.sets {
		for _, e := range s.elements {
			out = append(out, ElementState{
				Set:    s.id,
				State:  s.state,
				ID:     e.move.ID,
				From:   e.move.From,
				To:     e.move.To,
				Offset: e.current,
			})
		}
	}
	return out
}
