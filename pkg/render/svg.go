package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/gridshift/pkg/grid"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title     string
	gridLines bool
	arrows    bool
	labels    bool
}

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutGrid hides the cell grid.
func WithoutGrid() SVGOption { return func(r *svgRenderer) { r.gridLines = false } }

// WithoutArrows hides pending-move arrows.
func WithoutArrows() SVGOption { return func(r *svgRenderer) { r.arrows = false } }

// WithoutLabels hides item labels.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// Fill colors per item kind, shared by the SVG and PNG sinks.
var kindFill = map[grid.Kind]string{
	grid.KindApp:     "#8ecae6",
	grid.KindWidget:  "#ffb703",
	grid.KindMissing: "#d9d9d9",
}

const (
	defaultFill    = "#a8dadc"
	draggedFill    = "#e63946"
	committingFill = "#90be6d"
	gridStroke     = "#e0e0e0"
)

func fillFor(t Tile) string {
	switch {
	case t.Dragged:
		return draggedFill
	case t.State == "committing":
		return committingFill
	}
	if c, ok := kindFill[t.Kind]; ok {
		return c
	}
	return defaultFill
}

// RenderSVG draws the snapshot as SVG.
func RenderSVG(s Snapshot, opts ...SVGOption) []byte {
	r := svgRenderer{gridLines: true, arrows: true, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := s.Metrics.PixelSize()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	buf.WriteString(`  <defs><marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z" fill="#333"/></marker></defs>` + "\n")
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="white"/>`+"\n", w, h)

	if r.gridLines {
		renderGrid(&buf, s.Metrics)
	}
	for _, t := range s.Tiles {
		renderTile(&buf, s, t, r.labels)
	}
	if r.arrows {
		for _, t := range s.Tiles {
			renderArrow(&buf, s, t)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, m grid.Metrics) {
	w, h := m.PixelSize()
	for c := 1; c < m.Columns; c++ {
		x := m.WidthOfColumns(c)
		fmt.Fprintf(buf, `  <line x1="%d" y1="0" x2="%d" y2="%d" stroke="%s"/>`+"\n", x, x, h, gridStroke)
	}
	for r := 1; r < m.Rows; r++ {
		y := m.HeightOfRows(r)
		fmt.Fprintf(buf, `  <line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n", y, w, y, gridStroke)
	}
}

const tileInset = 4.0

func renderTile(buf *bytes.Buffer, s Snapshot, t Tile, labels bool) {
	x, y, w, h := s.Pixels(t)
	opacity := 1.0
	if t.Dragged {
		opacity = 0.6
	}
	fmt.Fprintf(buf, `  <rect id="tile-%s" class="tile" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="%s" fill-opacity="%.2f" stroke="#333" stroke-width="1.5"/>`+"\n",
		html.EscapeString(string(t.ID)), x+tileInset, y+tileInset, w-2*tileInset, h-2*tileInset, fillFor(t), opacity)
	if !labels {
		return
	}
	label := t.Label
	if label == "" {
		label = string(t.ID)
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="14">%s</text>`+"\n",
		x+w/2, y+h/2, html.EscapeString(label))
}

func renderArrow(buf *bytes.Buffer, s Snapshot, t Tile) {
	if t.Pending == nil {
		return
	}
	x, y, w, h := s.Pixels(t)
	tx, ty := s.Metrics.CellOrigin(*t.Pending)
	fmt.Fprintf(buf, `  <line class="pending" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-dasharray="4 3" marker-end="url(#arrow)"/>`+"\n",
		x+w/2, y+h/2, float64(tx)+w/2, float64(ty)+h/2)
}
