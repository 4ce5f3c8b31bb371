package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/render"
	"github.com/matzehuels/gridshift/pkg/solver"
)

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var (
		flags  probeFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:               "solve [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Compute the displacement for one drag position",
		Long: `Compute how the items of a page would make room for a dragged item.

The page is a .toml/.json file or the ID of a stored page. Drag an existing
item with --item, or a new one of --size. The solver tries a cascade in the
direction of travel (set with --from), then the opposite direction, then the
other two, and finally a swap with the item's origin.`,
		Example: `  gridshift solve home.toml --size 1x1 --at 0,0
  gridshift solve home.toml --item mail --at 1,1 --from 2,1 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd.Context(), args[0], flags, asJSON)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the solution as JSON")

	return cmd
}

func (c *CLI) solve(ctx context.Context, arg string, flags probeFlags) (*solver.Solution, error) {
	pr, err := flags.probe()
	if err != nil {
		return nil, err
	}
	p, err := c.loadPage(ctx, arg)
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", arg, err)
	}
	return p.Solve(pr, solver.WithLogger(c.Logger))
}

func (c *CLI) runSolve(ctx context.Context, arg string, flags probeFlags, asJSON bool) error {
	sol, err := c.solve(ctx, arg, flags)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sol)
	}

	printSuccess("%s", sol)
	fmt.Fprint(stdout, render.CascadeText(sol))
	printStats(stat{len(sol.Moves), "moves"})
	return nil
}
