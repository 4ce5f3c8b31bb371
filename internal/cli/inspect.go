package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/occupancy"
	"github.com/matzehuels/gridshift/pkg/page"
)

// inspectPage loads a page without validating it, so broken pages can be
// examined.
func (c *CLI) inspectPage(ctx context.Context, arg string) (*page.Page, error) {
	if isPageFile(arg) {
		return page.DecodeFile(arg)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return page.LoadUnchecked(ctx, st, arg)
}

// lenientIndex indexes what it can of p, skipping overlapping items.
func lenientIndex(p *page.Page) (*occupancy.Index, error) {
	m, err := p.Metrics()
	if err != nil {
		return nil, err
	}
	idx := occupancy.New(m)
	_ = idx.Rebuild(p.Items)
	return idx, nil
}

// itemLabel matches the letters Index.String assigns.
func itemLabel(i int) byte {
	const labels = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	if i < len(labels) {
		return labels[i]
	}
	return '#'
}

// dumpCommand creates the dump command.
func (c *CLI) dumpCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:               "dump [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Print the cell map of a page",
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.inspectPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			idx, err := lenientIndex(p)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(idx.Dump())
			}
			fmt.Fprintln(stdout, StyleTitle.Render(p.ID))
			fmt.Fprint(stdout, idx.String())
			for i, it := range idx.Items() {
				printDetail("%c %s %s", itemLabel(i), it.ID, it.Rect())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the cell map as a JSON array of rows")

	return cmd
}

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "validate [page]",
		ValidArgsFunction: c.completePages,
		Short:             "Check a page for overlaps and index consistency",
		Long: `Check a page: identifiers, labels and spans, overlapping items, and that an
occupancy index built from it agrees with the item list cell by cell.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, arg string) error {
	p, err := c.inspectPage(ctx, arg)
	if err != nil {
		return err
	}
	idx, err := lenientIndex(p)
	if err != nil {
		return err
	}

	found := idx.Validate(p.Items)
	perr := p.Validate()
	if perr == nil && len(found) == 0 {
		printSuccess("%s is consistent", p.ID)
		printStats(stat{len(p.Items), "items"}, stat{p.Columns * p.Rows, "cells"})
		return nil
	}

	if perr != nil {
		printError("%s", errors.UserMessage(perr))
	}
	for _, d := range found {
		printWarning("%s", d)
	}
	return errors.New(errors.ErrCodeInconsistentState, "%s has %d discrepancies", p.ID, len(found))
}
