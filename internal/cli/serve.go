package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages, solves and replays over HTTP",
		Long: `Serve the configured page store over HTTP.

Routes:
  GET    /healthz, /version
  GET    /pages
  GET    /pages/{id}            (?format=toml)
  PUT    /pages/{id}            JSON or TOML body
  DELETE /pages/{id}
  GET    /pages/{id}/dump
  GET    /pages/{id}/validate
  GET    /pages/{id}/render     (?format=svg|png|json|text)
  POST   /pages/{id}/solve      probe body (?explain=text|dot|svg)
  POST   /pages/{id}/replay     script body (?save=true)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg().Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+server.DefaultAddr+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(st,
		server.WithLogger(c.Logger),
		server.WithTimings(c.cfg().Reflow),
	)
	printInfo("Listening on http://%s (store: %s)", addr, c.cfg().Store.Backend)
	return srv.ListenAndServe(ctx, addr)
}
