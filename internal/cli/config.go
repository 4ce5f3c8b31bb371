package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/matzehuels/gridshift/internal/server"
	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/page"
	"github.com/matzehuels/gridshift/pkg/reflow"
	"github.com/matzehuels/gridshift/pkg/store"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultColumns and DefaultRows size pages created without explicit
	// dimensions.
	DefaultColumns = 5
	DefaultRows    = 6

	// configName is the config file base name; viper probes the extensions.
	configName = appName

	// envPrefix prefixes environment overrides, e.g. GRIDSHIFT_STORE_BACKEND.
	envPrefix = "GRIDSHIFT"
)

// =============================================================================
// Config
// =============================================================================

// GridConfig sizes new pages.
type GridConfig struct {
	Columns    int `mapstructure:"columns"`
	Rows       int `mapstructure:"rows"`
	CellWidth  int `mapstructure:"cell_width"`
	CellHeight int `mapstructure:"cell_height"`
}

// ServerConfig configures `gridshift serve`.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config is the merged result of defaults, the config file and the
// environment. Command flags override individual fields afterwards.
type Config struct {
	Grid   GridConfig     `mapstructure:"grid"`
	Reflow reflow.Timings `mapstructure:"reflow"`
	Store  store.Config   `mapstructure:"store"`
	Server ServerConfig   `mapstructure:"server"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.Grid.Columns == 0 {
		c.Grid.Columns = DefaultColumns
	}
	if c.Grid.Rows == 0 {
		c.Grid.Rows = DefaultRows
	}
	if c.Grid.CellWidth == 0 {
		c.Grid.CellWidth = page.DefaultCellSize
	}
	if c.Grid.CellHeight == 0 {
		c.Grid.CellHeight = page.DefaultCellSize
	}
	c.Reflow = c.Reflow.WithDefaults()
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendDisk
	}
	if c.Server.Addr == "" {
		c.Server.Addr = server.DefaultAddr
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Grid.Columns < 1 || c.Grid.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "grid must have at least one row and column, got %dx%d", c.Grid.Columns, c.Grid.Rows)
	}
	if c.Grid.CellWidth < 1 || c.Grid.CellHeight < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "cell size must be positive, got %dx%d", c.Grid.CellWidth, c.Grid.CellHeight)
	}
	if err := c.Reflow.Validate(); err != nil {
		return err
	}
	if err := validateBackend(c.Store.Backend); err != nil {
		return err
	}
	return nil
}

func validateBackend(b string) error {
	for _, known := range store.Backends {
		if b == known {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q (want one of %s)", b, strings.Join(store.Backends, ", "))
}

// =============================================================================
// Loading
// =============================================================================

// configDir returns ~/.config/gridshift.
func configDir() (string, error) {
	return homedir.Expand(filepath.Join("~", ".config", appName))
}

// loadConfig reads gridshift.{toml,yaml,json} from the working directory or
// ~/.config/gridshift, or from path when it is set. A missing config file is
// not an error.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	def := reflow.DefaultTimings()
	v.SetDefault("grid.columns", DefaultColumns)
	v.SetDefault("grid.rows", DefaultRows)
	v.SetDefault("grid.cell_width", page.DefaultCellSize)
	v.SetDefault("grid.cell_height", page.DefaultCellSize)
	v.SetDefault("reflow.hint", def.Hint)
	v.SetDefault("reflow.pause", def.Pause)
	v.SetDefault("reflow.commit", def.Commit)
	v.SetDefault("reflow.revert", def.Revert)
	v.SetDefault("reflow.hint_fraction", def.HintFraction)
	v.SetDefault("reflow.tick_interval", def.TickInterval)
	v.SetDefault("store.backend", store.BackendDisk)
	v.SetDefault("store.path", store.DefaultDiskPath)
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_password", "")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_ttl", 0)
	v.SetDefault("store.mongo_uri", "")
	v.SetDefault("store.mongo_database", "")
	v.SetDefault("store.mongo_collection", "")
	v.SetDefault("server.addr", server.DefaultAddr)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
