package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/drag"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/reflow"
)

// playCommand creates the play command.
func (c *CLI) playCommand() *cobra.Command {
	var (
		save    bool
		columns int
		rows    int
	)

	cmd := &cobra.Command{
		Use:               "play [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Drag items around a page interactively",
		Long: `Open a terminal playground for a page. Pick items up, drag them over others
and watch the displaced items hint, pause and commit.

Without a page argument an empty grid of the configured size is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *page.Page
			if len(args) == 1 {
				loaded, err := c.loadPage(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("load page %s: %w", args[0], err)
				}
				p = loaded
			} else {
				cfg := c.cfg().Grid
				if columns == 0 {
					columns = cfg.Columns
				}
				if rows == 0 {
					rows = cfg.Rows
				}
				p = page.New("scratch", columns, rows)
				p.CellWidth, p.CellHeight = cfg.CellWidth, cfg.CellHeight
			}
			return c.runPlay(cmd.Context(), p, save)
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "persist every commit to the store")
	cmd.Flags().IntVar(&columns, "columns", 0, "columns of a scratch grid")
	cmd.Flags().IntVar(&rows, "rows", 0, "rows of a scratch grid")

	return cmd
}

func (c *CLI) runPlay(ctx context.Context, p *page.Page, save bool) error {
	m, err := p.Metrics()
	if err != nil {
		return err
	}

	opts := []page.ProviderOption{page.WithLogger(c.Logger)}
	if save {
		st, err := c.openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, page.WithStore(st))
	}
	pr := page.NewProvider(p, opts...)

	// Logging to the terminal would tear the UI.
	quiet := log.New(io.Discard)
	timings := c.cfg().Reflow
	sched := &reflow.ManualScheduler{}
	sess, err := drag.New(pr, m, sched,
		drag.WithLogger(quiet),
		drag.WithReflow(reflow.WithTimings(timings), reflow.WithLogger(quiet)),
	)
	if err != nil {
		return err
	}

	model := NewPlayModel(sess, sched, timings.TickInterval)
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run playground: %w", err)
	}

	if fm, ok := final.(PlayModel); ok {
		printSuccess("Finished after %d drops", fm.Drops)
	}
	printStats(stat{pr.Commits(), "commits"}, stat{len(pr.Items()), "items"})
	if save {
		printDetail("Saved page %s", p.ID)
	}
	return nil
}
