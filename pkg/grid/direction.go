package grid

// Direction is one of the four cascade directions.
type Direction int

// Directions in their natural order. The solver probes the remaining
// directions in this order after the preferred and secondary ones.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all directions in natural order.
var Directions = [...]Direction{Up, Down, Left, Right}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Delta returns the unit step for d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// Vertical reports whether d moves along rows.
func (d Direction) Vertical() bool { return d == Up || d == Down }

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses a direction name as produced by String.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if d.String() == s {
			return d, true
		}
	}
	return 0, false
}
