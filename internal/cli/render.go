package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/render"
	"github.com/matzehuels/gridshift/pkg/solver"
)

const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatJSON = "json"
	formatText = "text"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string        // output file, or base path for several formats
	formats []string      // svg, png, json, text
	scale   float64       // PNG scale factor
	noGrid  bool          // omit grid lines (SVG)
	preview probeFlags    // optional drag to preview
	elapsed time.Duration // animation time at which the preview is captured
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 1}

	cmd := &cobra.Command{
		Use:               "render [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Render a page to SVG, PNG, JSON or text",
		Long: `Render a page to SVG, PNG, JSON or text.

With --at the page is rendered mid-drag: the dragged item sits at the target,
and displaced items are drawn where the animation has them after --elapsed,
with arrows to their pending cells.`,
		Example: `  gridshift render home.toml -f svg,png
  gridshift render home.toml --size 1x1 --at 0,0 --elapsed 300ms -f text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				switch f {
				case formatSVG, formatPNG, formatJSON, formatText:
				default:
					return fmt.Errorf("unknown format %q (want svg, png, json or text)", f)
				}
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several); text goes to stdout by default")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json, text (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noGrid, "no-grid", false, "omit grid lines")
	cmd.Flags().DurationVar(&opts.elapsed, "elapsed", 300*time.Millisecond, "animation time captured by a preview")
	opts.preview.register(cmd)

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

func (c *CLI) runRender(ctx context.Context, arg string, opts *renderOpts) error {
	p, err := c.loadPage(ctx, arg)
	if err != nil {
		return fmt.Errorf("load page %s: %w", arg, err)
	}

	var snap render.Snapshot
	if opts.preview.at != "" {
		pr, err := opts.preview.probe()
		if err != nil {
			return err
		}
		snap, err = previewSnapshot(p, pr, c.cfg().Reflow, opts.elapsed)
		if err != nil {
			return err
		}
	} else {
		idx, err := p.Index()
		if err != nil {
			return err
		}
		snap = render.FromIndex(idx, nil)
	}

	base := opts.output
	if base == "" && isPageFile(arg) {
		base = strings.TrimSuffix(arg, filepath.Ext(arg))
	} else if base == "" {
		base = p.ID
	}
	single := len(opts.formats) == 1

	for _, f := range opts.formats {
		data, err := encodeSnapshot(snap, f, p.Name, opts)
		if err != nil {
			return err
		}
		if f == formatText && opts.output == "" {
			fmt.Fprint(stdout, styleGrid(string(data)))
			continue
		}
		path := base + "." + fileExt(f)
		if single && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printSuccess("Rendered %s", f)
		printFile(path)
	}
	return nil
}

func fileExt(format string) string {
	if format == formatText {
		return "txt"
	}
	return format
}

func encodeSnapshot(snap render.Snapshot, format, title string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatSVG:
		svgOpts := []render.SVGOption{render.WithTitle(title)}
		if opts.noGrid {
			svgOpts = append(svgOpts, render.WithoutGrid())
		}
		return render.RenderSVG(snap, svgOpts...), nil
	case formatPNG:
		return render.RenderPNG(snap, render.WithScale(opts.scale))
	case formatJSON:
		return render.RenderJSON(snap)
	default:
		return []byte(render.Text(snap)), nil
	}
}

// previewSnapshot solves pr against p, plays the resulting change set on a
// manual clock for elapsed and captures the frame, with the dragged item
// drawn at the target.
func previewSnapshot(p *page.Page, pr page.Probe, t reflow.Timings, elapsed time.Duration) (render.Snapshot, error) {
	idx, dragged, origin, err := p.Lift(pr)
	if err != nil {
		return render.Snapshot{}, err
	}
	clock := reflow.NewManualClock(time.Unix(0, 0))
	sched := &reflow.ManualScheduler{}
	chor := reflow.New(idx, sched, reflow.WithTimings(t), reflow.WithClock(clock))

	if idx.IsAreaOccupied(pr.Target.X, pr.Target.Y, dragged.Width, dragged.Height) {
		sol, err := solver.New(idx).Solve(pr.Target, origin, pr.LastDragged, dragged)
		if err != nil {
			return render.Snapshot{}, err
		}
		chor.QueueSolve(sol)
		sched.Run(clock, t.WithDefaults().TickInterval, elapsed, chor.Tick)
	}

	snap := render.FromIndex(idx, chor)
	snap.Tiles = append(snap.Tiles, render.Tile{
		ID:      dragged.ID,
		Label:   dragged.Payload.Label,
		Kind:    dragged.Payload.Kind,
		Rect:    grid.RectAt(pr.Target, dragged.Size()),
		Dragged: true,
	})
	return snap, nil
}
