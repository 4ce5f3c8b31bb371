package render

import (
	"fmt"
	"strings"
)

const textLabels = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Text draws the snapshot as a character grid. Committed items are lower
// case letters in tile order, the dragged item is '@' and free cells are '.'.
// Cells an item is heading for are marked with the upper case of its letter
// when free. A legend follows the grid.
func Text(s Snapshot) string {
	m := s.Metrics
	cells := make([][]byte, m.Rows)
	for y := range cells {
		cells[y] = []byte(strings.Repeat(".", m.Columns))
	}
	put := func(x, y int, c byte, overwrite bool) {
		if y < 0 || y >= m.Rows || x < 0 || x >= m.Columns {
			return
		}
		if overwrite || cells[y][x] == '.' {
			cells[y][x] = c
		}
	}

	var legend []string
	labels := make([]byte, len(s.Tiles))
	n := 0
	for i, t := range s.Tiles {
		if t.Dragged {
			continue
		}
		c := byte('#')
		if n < len(textLabels) {
			c = textLabels[n]
		}
		labels[i] = c
		n++
		for _, cell := range t.Rect.Cells() {
			put(cell.X, cell.Y, c, true)
		}
		line := fmt.Sprintf("%c %s %v", c, t.ID, t.Rect)
		if t.Pending != nil {
			line += fmt.Sprintf(" -> %v (%s)", *t.Pending, t.State)
		} else if t.State != "" {
			line += " (" + t.State + ")"
		}
		legend = append(legend, line)
	}
	for i, t := range s.Tiles {
		if t.Pending == nil || t.Dragged || labels[i] == '#' {
			continue
		}
		up := strings.ToUpper(string(labels[i]))[0]
		for y := t.Pending.Y; y < t.Pending.Y+t.Rect.H; y++ {
			for x := t.Pending.X; x < t.Pending.X+t.Rect.W; x++ {
				put(x, y, up, false)
			}
		}
	}
	for _, t := range s.Tiles {
		if !t.Dragged {
			continue
		}
		for _, cell := range t.Rect.Cells() {
			put(cell.X, cell.Y, '@', true)
		}
		legend = append(legend, fmt.Sprintf("@ %s %v (dragged)", t.ID, t.Rect))
	}

	var b strings.Builder
	for _, row := range cells {
		b.Write(row)
		b.WriteByte('\n')
	}
	if len(legend) > 0 {
		b.WriteByte('\n')
		b.WriteString(strings.Join(legend, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}
