// Package render draws grid pages and solver output.
//
// # Snapshots
//
// A [Snapshot] is everything a presentation layer needs to draw one frame:
// each item's committed footprint, the cell it is heading for and the pixel
// offset the choreographer currently applies to it. Build one with
// [FromIndex] or [FromSession]; the engine itself never touches pixels.
//
// # Sinks
//
//   - [Text]: a character grid for terminals and golden tests
//   - [RenderSVG]: a vector frame with pending moves drawn as arrows
//   - [RenderPNG]: a raster frame drawn with gg
//   - [RenderJSON]: the snapshot as JSON for the HTTP API
//
// # Cascades
//
// [CascadeDOT] turns a solver solution into a Graphviz graph of which item
// pushed which, and [RenderDOT] lays it out as SVG:
//
//	dot := render.CascadeDOT(sol, render.CascadeOptions{})
//	svg, err := render.RenderDOT(ctx, dot)
package render
