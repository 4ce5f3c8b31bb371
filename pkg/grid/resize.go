package grid

// ResizeDirection names one edge of an item and whether it moves outward
// (expand) or inward (shrink).
type ResizeDirection int

const (
	ResizeUp ResizeDirection = iota
	ResizeDown
	ResizeLeft
	ResizeRight
	ResizeUpIn
	ResizeDownIn
	ResizeLeftIn
	ResizeRightIn
)

var resizeNames = [...]string{"up", "down", "left", "right", "up-in", "down-in", "left-in", "right-in"}

func (d ResizeDirection) String() string {
	if d < 0 || int(d) >= len(resizeNames) {
		return "unknown"
	}
	return resizeNames[d]
}

// ParseResizeDirection parses a name as produced by String.
func ParseResizeDirection(s string) (ResizeDirection, bool) {
	for i, n := range resizeNames {
		if n == s {
			return ResizeDirection(i), true
		}
	}
	return 0, false
}

// Shrink reports whether the direction moves an edge inward.
func (d ResizeDirection) Shrink() bool { return d >= ResizeUpIn }

// Horizontal reports whether the direction changes the width.
func (d ResizeDirection) Horizontal() bool {
	switch d {
	case ResizeLeft, ResizeRight, ResizeLeftIn, ResizeRightIn:
		return true
	}
	return false
}

// Apply returns r after moving one edge by one cell.
func (d ResizeDirection) Apply(r Rect) Rect {
	switch d {
	case ResizeUp:
		r.Y--
		r.H++
	case ResizeDown:
		r.H++
	case ResizeLeft:
		r.X--
		r.W++
	case ResizeRight:
		r.W++
	case ResizeUpIn:
		r.Y++
		r.H--
	case ResizeDownIn:
		r.H--
	case ResizeLeftIn:
		r.X++
		r.W--
	case ResizeRightIn:
		r.W--
	}
	return r
}

// ResizeMode restricts which axes an item may be resized along.
type ResizeMode int

const (
	ResizeNone ResizeMode = iota
	ResizeHorizontal
	ResizeVertical
	ResizeBoth
)

// Allows reports whether the mode permits resizing in direction d.
func (m ResizeMode) Allows(d ResizeDirection) bool {
	switch m {
	case ResizeBoth:
		return true
	case ResizeHorizontal:
		return d.Horizontal()
	case ResizeVertical:
		return !d.Horizontal()
	}
	return false
}

// Constraints bound how an item may be resized.
type Constraints struct {
	Mode    ResizeMode
	MinSpan Size
}

// DefaultConstraints allow resizing on both axes down to a single cell.
func DefaultConstraints() Constraints {
	return Constraints{Mode: ResizeBoth, MinSpan: Size{W: 1, H: 1}}
}

// WidgetConstraints derives constraints from a payload's declared minimum
// pixel size.
func (m Metrics) WidgetConstraints(p Payload, mode ResizeMode) Constraints {
	return Constraints{
		Mode:    mode,
		MinSpan: Size{W: m.MinColumnsFor(p.MinWidth), H: m.MinRowsFor(p.MinHeight)},
	}
}
