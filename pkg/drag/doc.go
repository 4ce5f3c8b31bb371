// Package drag runs one drag gesture at a time over a grid page.
//
// A [Session] owns the page's occupancy index and a reflow choreographer.
// Location updates are snapped to cells; when the dragged footprint lands on
// occupied cells the session asks the solver for a displacement and hands it
// to the choreographer, which previews it and eventually commits it. Every
// occupancy question is answered through a view that already counts commits
// in flight as placed.
//
// A drop on free cells places the item and commits the page. A drop on
// occupied cells is rejected: the caller should show [errors.UserMessage] of
// the outcome's error, and the item is put back where it came from.
//
// Sessions are not safe for concurrent use. Drive them, and the scheduler's
// ticks, from one goroutine such as a [loop.Loop].
//
// [errors.UserMessage]: github.com/matzehuels/gridshift/pkg/errors.UserMessage
// [loop.Loop]: github.com/matzehuels/gridshift/pkg/loop.Loop
package drag
