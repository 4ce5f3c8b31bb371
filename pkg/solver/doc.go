// Package solver implements the displacement solver: given a dragged item
// and a target cell, it works out how to move the items under the target out
// of the way, or reports that it cannot.
//
// # Strategies
//
// The solver first tries a directional cascade in each of the four
// directions. The probe order starts with the direction the drag is moving
// in, then its opposite, then the remaining two in the order up, down, left,
// right. A cascade pushes every item overlapping the target footprint along
// the direction, then pushes whatever those items land on, and so on, keeping
// a per-row (or per-column) frontier of the next free position. A direction
// fails as soon as an item would be pushed off the grid.
//
// If every cascade fails and the dragged item has a last committed cell, the
// solver tries a swap: the items under the target move, as a group, into the
// space the dragged item vacated. That only works when the group fits inside
// the target footprint and the two footprints do not overlap.
//
// # Guarantees
//
// The solver never writes to the occupancy index; it only proposes moves.
// Results are deterministic: the same inputs against an unchanged index
// produce an identical [Solution]. Every proposed destination lies inside the
// grid and no two items in the result, or an item and the untouched rest of
// the grid, overlap.
//
// Items reported as pinned (see [WithPinned]) never move; any strategy that
// would have to move one fails.
package solver
