package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/render"
)

// explainCommand creates the explain command, which shows which item pushed
// which in a solution.
func (c *CLI) explainCommand() *cobra.Command {
	var (
		flags    probeFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:               "explain [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Show the push graph of a displacement",
		Long: `Show the push graph of a displacement: the dragged item at the root, and
an edge from each item to every item its new footprint displaced.

Formats: text (default), dot, svg. SVG is laid out with Graphviz.`,
		Example: `  gridshift explain home.toml --size 1x1 --at 0,0
  gridshift explain home.toml --item mail --at 1,1 -f svg -o push.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplain(cmd.Context(), args[0], flags, format, output, detailed)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their from and to cells")

	return cmd
}

func (c *CLI) runExplain(ctx context.Context, arg string, flags probeFlags, format, output string, detailed bool) error {
	sol, err := c.solve(ctx, arg, flags)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case "text":
		data = []byte(render.CascadeText(sol))
	case "dot":
		data = []byte(render.CascadeDOT(sol, render.CascadeOptions{Detailed: detailed}))
	case "svg":
		data, err = render.RenderDOT(ctx, render.CascadeDOT(sol, render.CascadeOptions{Detailed: detailed}))
		if err != nil {
			return fmt.Errorf("render cascade: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q (want text, dot or svg)", format)
	}

	if output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Explained %s", sol)
	printFile(output)
	return nil
}
