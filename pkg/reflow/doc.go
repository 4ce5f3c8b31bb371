// Package reflow implements the reflow choreographer, which owns the
// temporal lifecycle of proposed displacements.
//
// # Change sets
//
// Every solution handed to [Choreographer.QueueSolve] becomes a change set
// that walks through timed states:
//
//	HINTING (100ms) → PAUSING (500ms) → COMMITTING (200ms) → committed
//	        └───────────┴──→ REVERTING (100ms) → discarded
//
// HINTING moves each item a fraction of the way toward its pending
// destination. PAUSING holds that hint so the user can keep dragging.
// COMMITTING animates the rest of the way and then writes the moves into the
// occupancy index in one atomic [occupancy.Index.Apply]. A set that is
// superseded while HINTING or PAUSING goes to REVERTING instead and never
// touches the index.
//
// # Merging
//
// When a new solution arrives while older sets are active, items present in
// both are pulled out of the old set and folded into the new one, starting
// from wherever they are currently drawn. Old sets left empty are dropped;
// old sets still holding items revert. Sets that are COMMITTING finish
// undisturbed and their items are kept out of new sets until they land.
//
// # Driving
//
// The choreographer never sleeps. It asks a [Scheduler] for the next tick and
// reads time from a [Clock]; whoever owns the event loop calls
// [Choreographer.Tick]. Ticking stops on its own once nothing is active.
// [ManualScheduler] and [ManualClock] drive it deterministically in tests.
//
// A Choreographer is not safe for concurrent use: ticks and drag events must
// be serialized by the caller.
package reflow
