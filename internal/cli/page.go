package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/page"
)

// pageCommand creates the page command group for managing stored pages.
func (c *CLI) pageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page",
		Short: "Manage pages in the configured store",
	}

	cmd.AddCommand(c.pageNewCommand())
	cmd.AddCommand(c.pageImportCommand())
	cmd.AddCommand(c.pageExportCommand())
	cmd.AddCommand(c.pageListCommand())
	cmd.AddCommand(c.pageDeleteCommand())

	return cmd
}

func (c *CLI) pageNewCommand() *cobra.Command {
	var columns, rows int
	var id string

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := c.cfg().Grid
			p := page.New(args[0], columns, rows)
			if id != "" {
				p.ID = id
			}
			p.CellWidth, p.CellHeight = g.CellWidth, g.CellHeight
			if err := c.savePage(cmd.Context(), p); err != nil {
				return err
			}
			printSuccess("Created page %s", p.ID)
			printNextStep("Play on it", fmt.Sprintf("%s play %s --save", appName, p.ID))
			return nil
		},
	}

	cmd.Flags().IntVar(&columns, "columns", DefaultColumns, "grid columns")
	cmd.Flags().IntVar(&rows, "rows", DefaultRows, "grid rows")
	cmd.Flags().StringVar(&id, "id", "", "page ID (default: random)")

	return cmd
}

func (c *CLI) pageImportCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Store a page read from a TOML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := page.ReadFile(args[0])
			if err != nil {
				return err
			}
			if id != "" {
				p.ID = id
			}
			if err := c.savePage(cmd.Context(), p); err != nil {
				return err
			}
			printSuccess("Imported %s as %s", args[0], p.ID)
			printStats(stat{len(p.Items), "items"})
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "store under this ID instead of the file's")

	return cmd
}

func (c *CLI) pageExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "export ID",
		ValidArgsFunction: c.completePages,
		Short:             "Write a stored page as TOML or JSON",
		Long:              `Write a stored page to stdout as TOML, or to a file whose extension picks the format.`,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return page.Write(stdout, p, page.FormatTOML)
			}
			if err := page.WriteFile(output, p); err != nil {
				return err
			}
			printSuccess("Exported %s", p.ID)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.toml or .json)")

	return cmd
}

func (c *CLI) pageListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			ids, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No pages in the %s store", c.cfg().Store.Backend)
				return nil
			}
			sort.Strings(ids)
			for _, id := range ids {
				p, err := page.LoadUnchecked(ctx, st, id)
				if err != nil {
					printKeyValue(id, StyleWarning.Render("unreadable"))
					continue
				}
				printKeyValue(id, fmt.Sprintf("%-16s %dx%d, %d items", p.Name, p.Columns, p.Rows, len(p.Items)))
			}
			return nil
		},
	}
}

func (c *CLI) pageDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete ID",
		ValidArgsFunction: c.completePages,
		Short:             "Remove a stored page",
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidatePageID(args[0]); err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// savePage validates p and writes it to the configured store.
func (c *CLI) savePage(ctx context.Context, p *page.Page) error {
	if err := p.Validate(); err != nil {
		return err
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return page.Save(ctx, st, p)
}
