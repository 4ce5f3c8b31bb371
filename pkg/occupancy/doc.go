// Package occupancy implements the occupancy index: the spatial map from
// grid cells to the items covering them.
//
// The index is an arena of items keyed by [grid.ItemID] plus a dense
// row-major cell slice holding ids. It has no state of its own beyond what
// the live items imply, so it can always be regenerated from the canonical
// item list with [Index.Rebuild].
//
// Invariants:
//
//   - no two live items share a cell
//   - every occupied cell maps to exactly one live item
//   - an item's full footprint is present iff the item is live
//
// Writes that would break an invariant fail without touching the index.
// [Index.Apply] relocates a group of items atomically and is the only write
// used when a reflow commits.
//
// A [View] overlays in-flight moves onto a snapshot of the index so readers
// can treat moves that are still animating as already placed.
package occupancy
