// Package cli implements the gridshift command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridshift/pkg/buildinfo"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gridshift"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	config     *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the engine hooks
// are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installLogHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "gridshift simulates drag-and-drop reflow on a cell grid",
		Long:         `gridshift places rectangular items on a fixed grid and simulates what happens when one is dragged over the others: occupants are pushed aside in cascades, previewed, and committed on a timed animation.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			if cfg.File != "" {
				c.Logger.Debug("loaded config", "file", cfg.File)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./gridshift.toml or ~/.config/gridshift/gridshift.toml)")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.stressCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.pageCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// cfg returns the loaded config, or defaults when no command has loaded one
// (tests call run functions directly).
func (c *CLI) cfg() *Config {
	if c.config == nil {
		c.config = &Config{}
		c.config.SetDefaults()
	}
	return c.config
}

// openStore opens the configured page store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.cfg().Store)
}

// loadPage resolves a page argument: a path to a .toml or .json file, or
// otherwise the ID of a stored page.
func (c *CLI) loadPage(ctx context.Context, arg string) (*page.Page, error) {
	if isPageFile(arg) {
		return page.ReadFile(arg)
	}
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return page.Load(ctx, st, arg)
}
