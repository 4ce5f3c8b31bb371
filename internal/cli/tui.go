package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/render"
)

var (
	playCursorStyle = lipgloss.NewStyle().Reverse(true)
	playHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	playStateStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// =============================================================================
// PlayModel - Interactive drag playground
// =============================================================================

// tickMsg asks the model to advance the choreographer.
type tickMsg time.Time

// PlayModel is the bubbletea model behind `gridshift play`. The session's
// ticks are collected by a ManualScheduler and delivered as tickMsg, so every
// session call happens inside Update.
type PlayModel struct {
	sess     *drag.Session
	sched    *reflow.ManualScheduler
	interval time.Duration
	ticking  bool

	Cursor  grid.Cell
	NewSize grid.Size
	Status  string
	Drops   int
}

// NewPlayModel wraps a session built on sched.
func NewPlayModel(sess *drag.Session, sched *reflow.ManualScheduler, interval time.Duration) PlayModel {
	if interval <= 0 {
		interval = reflow.DefaultTickInterval
	}
	return PlayModel{
		sess:     sess,
		sched:    sched,
		interval: interval,
		NewSize:  grid.Size{W: 1, H: 1},
		Status:   "move with arrows, space to pick up",
	}
}

func (m PlayModel) Init() tea.Cmd {
	return nil
}

// scheduleTick returns a tick command when the choreographer wants one and
// none is in flight.
func (m *PlayModel) scheduleTick() tea.Cmd {
	if m.ticking || !m.sched.Pending() {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m PlayModel) holding() bool { return m.sess.State() == drag.Tracking }

// pointer returns the pixel position of the cursor cell's top-left corner.
func (m PlayModel) pointer() (float64, float64) {
	px, py := m.sess.Index().Metrics().CellOrigin(m.Cursor)
	return float64(px), float64(py)
}

func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ticking = false
		m.sched.Fire(m.sess.Tick)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.holding() {
				m.sess.Cancel()
			}
			m.sess.Halt()
			return m, tea.Quit
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case " ", "enter":
			if m.holding() {
				m.drop()
			} else {
				m.pickUp()
			}
		case "n":
			m.startNew()
		case "+":
			m.resizeNew(1)
		case "-":
			m.resizeNew(-1)
		case "esc":
			if m.holding() {
				m.finish(m.sess.Cancel())
			}
		case "x":
			m.sess.Halt()
			m.Status = "animations halted"
		}
	}
	return m, m.scheduleTick()
}

func (m *PlayModel) move(dx, dy int) {
	met := m.sess.Index().Metrics()
	w, h := 1, 1
	if it, _, ok := m.sess.Dragged(); ok {
		w, h = it.Width, it.Height
	}
	m.Cursor = met.ClampCell(m.Cursor.Add(dx, dy), w, h)
	if !m.holding() {
		return
	}
	px, py := m.pointer()
	if err := m.sess.Move(px, py); err != nil {
		m.Status = errors.UserMessage(err)
	}
}

func (m *PlayModel) pickUp() {
	it, ok := m.sess.View().ItemAt(m.Cursor.Y, m.Cursor.X)
	if !ok {
		m.Status = "nothing here; press n for a new item"
		return
	}
	if err := m.sess.Start(it); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	if _, cell, ok := m.sess.Dragged(); ok && cell != nil {
		m.Cursor = *cell
	}
	m.Status = fmt.Sprintf("dragging %s", it.ID)
}

func (m *PlayModel) startNew() {
	if m.holding() {
		return
	}
	it := grid.Item{Width: m.NewSize.W, Height: m.NewSize.H, Payload: grid.Payload{Kind: grid.KindApp}}
	if err := m.sess.Start(it); err != nil {
		m.Status = errors.UserMessage(err)
		return
	}
	m.move(0, 0)
	m.Status = fmt.Sprintf("dragging a new %s item", m.NewSize)
}

func (m *PlayModel) resizeNew(d int) {
	if m.holding() {
		return
	}
	met := m.sess.Index().Metrics()
	n := max(1, m.NewSize.W+d)
	if n > met.Columns || n > met.Rows {
		return
	}
	m.NewSize = grid.Size{W: n, H: n}
	m.Status = fmt.Sprintf("new items are %s", m.NewSize)
}

func (m *PlayModel) drop() {
	px, py := m.pointer()
	m.finish(m.sess.Drop(px, py))
}

func (m *PlayModel) finish(out drag.Outcome, err error) {
	m.Drops++
	switch {
	case out.State == drag.Committed || out.State == drag.Cancelled:
		m.Status = fmt.Sprintf("%s %s at %s", out.Item.ID, out.State, out.Cell)
	case out.Restored:
		m.Status = fmt.Sprintf("%s: back at %s", errors.UserMessage(err), out.Cell)
	case err != nil:
		m.Status = errors.UserMessage(err)
	default:
		m.Status = fmt.Sprintf("%s discarded", out.Item.ID)
	}
}

func (m PlayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("gridshift play"))
	b.WriteString("  ")
	b.WriteString(playStateStyle.Render(m.sess.State().String()))
	b.WriteString("\n")
	b.WriteString(playHelpStyle.Render("arrows move · space pick up/drop · n new · +/- new size · esc cancel · x halt · q quit"))
	b.WriteString("\n\n")

	text := render.Text(render.FromSession(m.sess))
	cells, legend, _ := strings.Cut(text, "\n\n")
	for y, line := range strings.Split(strings.TrimSuffix(cells, "\n"), "\n") {
		b.WriteString("  ")
		for x, r := range line {
			st := cellStyle(r)
			if !m.holding() && x == m.Cursor.X && y == m.Cursor.Y {
				st = st.Inherit(playCursorStyle)
			}
			b.WriteString(st.Render(string(r)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSuffix(legend, "\n"), "\n") {
		if line != "" {
			b.WriteString(StyleDim.Render("  " + line))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(StyleValue.Render(m.Status))
	b.WriteString("\n")
	return b.String()
}
