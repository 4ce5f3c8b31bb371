// Package pkg holds the gridshift libraries.
//
// gridshift places rectangular items on a fixed grid of cells and simulates
// what happens when one of them is dragged across the others. The pieces,
// bottom up:
//
//  1. [grid] - cells, rects, items, directions and grid metrics
//  2. [occupancy] - the cell to item index and its read-only views
//  3. [solver] - cascade and swap solutions that free a target footprint
//  4. [reflow] - timed previews of solutions that commit or revert
//  5. [drag] - a gesture state machine tying the three together
//
// Around the engine sit [page] (documents, scripts and replays), [store]
// (page persistence), [render] (text, SVG, PNG, JSON and Graphviz output),
// [loop] (a single-threaded executor for real-time ticks) and
// [observability] (hooks for logging and metrics).
//
// # Quick Start
//
//	p, _ := page.ReadFile("home.toml")
//	sol, err := p.Solve(page.Probe{Width: 1, Height: 1, Target: grid.Cell{X: 4, Y: 0}})
//	if err != nil {
//		return err
//	}
//	fmt.Print(render.CascadeText(sol))
//
// The gridshift command wraps all of this; see internal/cli.
package pkg
