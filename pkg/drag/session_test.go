package drag

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/reflow"
)

type memPage struct {
	items   []grid.Item
	commits int
}

func (p *memPage) Items() []grid.Item { return append([]grid.Item(nil), p.items...) }

func (p *memPage) CommitItems(items []grid.Item) error {
	p.items = append([]grid.Item(nil), items...)
	p.commits++
	return nil
}

type fixture struct {
	page  *memPage
	sched *reflow.ManualScheduler
	clock *reflow.ManualClock
	s     *Session
}

func newFixture(t *testing.T, items ...grid.Item) *fixture {
	t.Helper()
	m, err := grid.NewMetrics(100, 100, 5, 6)
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		page:  &memPage{items: items},
		sched: &reflow.ManualScheduler{},
		clock: reflow.NewManualClock(time.Unix(0, 0)),
	}
	f.s, err = New(f.page, m, f.sched, WithReflow(reflow.WithClock(f.clock)))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func (f *fixture) run(d time.Duration) { f.sched.Run(f.clock, 10*time.Millisecond, d, f.s.Tick) }

func item(id string, x, y, w, h int) grid.Item {
	return grid.Item{ID: grid.ItemID(id), X: x, Y: y, Width: w, Height: h}
}

func cellOf(t *testing.T, f *fixture, id string) grid.Cell {
	t.Helper()
	it, ok := f.s.Index().Item(grid.ItemID(id))
	if !ok {
		t.Fatalf("%s is not in the index", id)
	}
	return it.Cell()
}

func TestStartTwice(t *testing.T) {
	f := newFixture(t)
	if err := f.s.Start(item("n", 0, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	err := f.s.Start(item("m", 0, 0, 1, 1))
	if !errors.Is(err, errors.ErrCodeSessionActive) {
		t.Errorf("second Start = %v, want SESSION_ACTIVE", err)
	}
}

func TestStartValidation(t *testing.T) {
	f := newFixture(t)
	if err := f.s.Start(item("n", 0, 0, 0, 1)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero width = %v, want INVALID_INPUT", err)
	}
	if err := f.s.Start(item("n", 0, 0, 6, 1)); !errors.Is(err, errors.ErrCodeOutOfBounds) {
		t.Errorf("too wide = %v, want OUT_OF_BOUNDS", err)
	}
	if f.s.State() != Idle {
		t.Errorf("state = %v after failed starts", f.s.State())
	}
}

func TestStartAssignsID(t *testing.T) {
	f := newFixture(t)
	if err := f.s.Start(grid.Item{Width: 1, Height: 1}); err != nil {
		t.Fatal(err)
	}
	it, _, ok := f.s.Dragged()
	if !ok || it.ID == "" {
		t.Errorf("dragged = %+v %v, want a generated id", it, ok)
	}
}

func TestMoveWhenIdle(t *testing.T) {
	f := newFixture(t)
	if err := f.s.Move(0, 0); !errors.Is(err, errors.ErrCodeSessionIdle) {
		t.Errorf("Move = %v, want SESSION_IDLE", err)
	}
	if _, err := f.s.Drop(0, 0); !errors.Is(err, errors.ErrCodeSessionIdle) {
		t.Errorf("Drop = %v, want SESSION_IDLE", err)
	}
}

func TestDropOnFreeCell(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1))
	if err := f.s.Start(item("n", 0, 0, 2, 1)); err != nil {
		t.Fatal(err)
	}
	if err := f.s.Move(240, 160); err != nil {
		t.Fatal(err)
	}
	if c, ok := f.s.Candidate(); !ok || c != (grid.Cell{X: 2, Y: 2}) {
		t.Errorf("candidate = %v %v, want (2,2)", c, ok)
	}

	out, err := f.s.Drop(240, 160)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != Committed || out.Cell != (grid.Cell{X: 2, Y: 2}) || !out.Placed() {
		t.Errorf("outcome = %+v", out)
	}
	if got := cellOf(t, f, "n"); got != (grid.Cell{X: 2, Y: 2}) {
		t.Errorf("n at %v", got)
	}
	if len(f.page.items) != 2 {
		t.Errorf("page has %d items, want 2", len(f.page.items))
	}
	if f.s.State() != Committed {
		t.Errorf("state = %v", f.s.State())
	}
	if _, _, ok := f.s.Dragged(); ok {
		t.Error("still dragging after drop")
	}
}

func TestSnapAndClamp(t *testing.T) {
	f := newFixture(t)
	if err := f.s.Start(item("n", 0, 0, 2, 2)); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		px, py float64
		want   grid.Cell
	}{
		{40, 40, grid.Cell{X: 0, Y: 0}},
		{60, 0, grid.Cell{X: 1, Y: 0}},
		{-300, -300, grid.Cell{X: 0, Y: 0}},
		{1000, 1000, grid.Cell{X: 3, Y: 4}},
	}
	for _, tt := range tests {
		if err := f.s.Move(tt.px, tt.py); err != nil {
			t.Fatal(err)
		}
		_, cell, _ := f.s.Dragged()
		if cell == nil || *cell != tt.want {
			t.Errorf("Move(%v, %v) processed %v, want %v", tt.px, tt.py, cell, tt.want)
		}
	}
}

func TestDisplaceThenDrop(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1), item("b", 4, 5, 1, 1))
	if err := f.s.Start(item("n", 0, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := f.s.Move(0, 0); err != nil {
		t.Fatal(err)
	}
	if to, ok := f.s.Choreographer().Pending("a"); !ok || to != (grid.Cell{X: 1, Y: 0}) {
		t.Fatalf("a pending = %v %v, want (1,0)", to, ok)
	}
	if _, ok := f.s.Candidate(); ok {
		t.Error("candidate set before the displacement committed")
	}

	// Repeating the same cell does not solve again.
	if err := f.s.Move(10, 10); err != nil {
		t.Fatal(err)
	}
	if n := f.s.Choreographer().Active(); n != 1 {
		t.Errorf("active sets = %d, want 1", n)
	}

	f.run(time.Second)
	if got := cellOf(t, f, "a"); got != (grid.Cell{X: 1, Y: 0}) {
		t.Errorf("a at %v after commit", got)
	}
	if c, ok := f.s.Candidate(); !ok || c != (grid.Cell{}) {
		t.Errorf("candidate = %v %v, want (0,0)", c, ok)
	}
	if f.page.commits == 0 {
		t.Error("page not committed after the displacement")
	}

	out, err := f.s.Drop(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != Committed {
		t.Fatalf("outcome = %+v", out)
	}
	want := []grid.Item{item("n", 0, 0, 1, 1), item("a", 1, 0, 1, 1), item("b", 4, 5, 1, 1)}
	if diff := cmp.Diff(want, f.page.items); diff != "" {
		t.Errorf("page items (-want +got):\n%s", diff)
	}
	if d := f.s.Validate(); len(d) != 0 {
		t.Errorf("discrepancies: %v", d)
	}
}

func TestDropOnOccupiedRestoresOrigin(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1), item("b", 4, 5, 1, 1))
	if err := f.s.Start(item("b", 0, 0, 1, 1)); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.s.Index().Item("b"); ok {
		t.Fatal("dragged item still in the index")
	}
	if err := f.s.Move(0, 0); err != nil {
		t.Fatal(err)
	}
	if st, ok := f.s.Choreographer().State("a"); !ok || st != reflow.Hinting {
		t.Fatalf("a state = %v %v, want hinting", st, ok)
	}

	out, err := f.s.Drop(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != Rejected || !out.Restored || out.Cell != (grid.Cell{X: 4, Y: 5}) {
		t.Errorf("outcome = %+v", out)
	}
	if !errors.Is(out.Err, errors.ErrCodeItemDoesNotFit) {
		t.Errorf("err = %v, want ITEM_DOES_NOT_FIT", out.Err)
	}
	if msg := errors.UserMessage(out.Err); msg != "this item doesn't fit here" {
		t.Errorf("user message = %q", msg)
	}
	if st, _ := f.s.Choreographer().State("a"); st != reflow.Reverting {
		t.Errorf("preview not reverted: %v", st)
	}
	f.run(time.Second)
	if got := cellOf(t, f, "a"); got != (grid.Cell{}) {
		t.Errorf("a moved to %v", got)
	}
	if got := cellOf(t, f, "b"); got != (grid.Cell{X: 4, Y: 5}) {
		t.Errorf("b at %v", got)
	}
}

func TestRejectNewItemWithoutSolution(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1))
	if err := f.s.Start(item("n", 0, 0, 5, 6)); err != nil {
		t.Fatal(err)
	}
	if err := f.s.Move(0, 0); err != nil {
		t.Fatal(err)
	}
	if !f.s.Choreographer().Idle() {
		t.Error("a failed solve queued work")
	}
	out, err := f.s.Drop(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.State != Rejected || out.Restored || out.Placed() {
		t.Errorf("outcome = %+v", out)
	}
	if f.s.Index().Len() != 1 {
		t.Errorf("index has %d items, want 1", f.s.Index().Len())
	}
}

func TestEndAndCancel(t *testing.T) {
	tests := []struct {
		name      string
		cancel    bool
		moves     [][2]float64
		wantState State
		wantCell  grid.Cell
	}{
		{"end at candidate", false, [][2]float64{{200, 200}}, Committed, grid.Cell{X: 2, Y: 2}},
		{"cancel at candidate", true, [][2]float64{{200, 200}, {0, 0}}, Cancelled, grid.Cell{X: 2, Y: 2}},
		{"cancel without candidate", true, [][2]float64{{0, 0}}, Rejected, grid.Cell{}},
		{"end without moves", false, nil, Rejected, grid.Cell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, item("a", 0, 0, 1, 1))
			if err := f.s.Start(item("n", 0, 0, 1, 1)); err != nil {
				t.Fatal(err)
			}
			for _, p := range tt.moves {
				if err := f.s.Move(p[0], p[1]); err != nil {
					t.Fatal(err)
				}
			}
			var out Outcome
			var err error
			if tt.cancel {
				out, err = f.s.Cancel()
			} else {
				out, err = f.s.End()
			}
			if err != nil {
				t.Fatal(err)
			}
			if out.State != tt.wantState {
				t.Errorf("state = %v, want %v", out.State, tt.wantState)
			}
			if out.Placed() && out.Cell != tt.wantCell {
				t.Errorf("cell = %v, want %v", out.Cell, tt.wantCell)
			}
			if got := cellOf(t, f, "a"); got != (grid.Cell{}) {
				t.Errorf("a left displaced at %v", got)
			}
		})
	}
}

func TestHandleEvents(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1))
	n := item("n", 0, 0, 1, 1)
	events := []Event{
		{Kind: EventStarted, Item: &n},
		{Kind: EventLocation, X: 300, Y: 100},
		{Kind: EventDrop, X: 300, Y: 100},
	}
	var last *Outcome
	for _, ev := range events {
		out, err := f.s.Handle(ev)
		if err != nil {
			t.Fatalf("%s: %v", ev.Kind, err)
		}
		last = out
	}
	if last == nil || last.State != Committed || last.Cell != (grid.Cell{X: 3, Y: 1}) {
		t.Errorf("final outcome = %+v", last)
	}

	if _, err := f.s.Handle(Event{Kind: EventStarted}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("start without item = %v", err)
	}
	if _, err := f.s.Handle(Event{Kind: "bogus"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown kind = %v", err)
	}
	if _, err := f.s.Handle(Event{Kind: EventEnded}); !errors.Is(err, errors.ErrCodeSessionIdle) {
		t.Errorf("end while idle = %v", err)
	}
}

func TestEventKindUnmarshal(t *testing.T) {
	var k EventKind
	if err := k.UnmarshalText([]byte("drop")); err != nil || k != EventDrop {
		t.Errorf("drop = %v %v", k, err)
	}
	if err := k.UnmarshalText([]byte("hover")); err == nil {
		t.Error("accepted unknown kind")
	}
}

func TestRebuildFromPage(t *testing.T) {
	f := newFixture(t, item("a", 0, 0, 1, 1))
	f.page.items = append(f.page.items, item("z", 3, 3, 1, 1))
	if d := f.s.Validate(); len(d) != 1 {
		t.Fatalf("discrepancies = %v, want 1", d)
	}
	if err := f.s.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if d := f.s.Validate(); len(d) != 0 {
		t.Errorf("discrepancies after rebuild = %v", d)
	}
}
