// Package cmd implements the holland command-line tool: a thin cobra
// wrapper around internal/controller.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/holland-backup/holland/internal/catalog"
	"github.com/holland-backup/holland/internal/controller"
	"github.com/holland-backup/holland/internal/hollandconfig"
	"github.com/holland-backup/holland/internal/obs"
	"github.com/holland-backup/holland/internal/plugin"
	"github.com/holland-backup/holland/internal/spool"
)

const defaultConfigPath = "/etc/holland/holland.conf"

// CLI bundles the dependencies every holland subcommand needs. Fields
// below the flag block are populated lazily, once per invocation, in
// rootCmd's PersistentPreRunE, after global flags are known.
type CLI struct {
	// Flags
	configPath string
	logLevel   string
	debug      bool
	verbose    bool
	quiet      bool

	// Resolved state
	Config     *hollandconfig.HollandConfig
	Logger     *slog.Logger
	Spool      *spool.Spool
	Catalog    catalog.Catalog
	Strategies *plugin.Registry
	Controller *controller.Controller
}

// NewCLI returns a CLI ready to have its root command built.
func NewCLI() *CLI {
	return &CLI{Strategies: plugin.NewRegistry()}
}

// GetRootCommand builds the holland command tree.
func (c *CLI) GetRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "holland",
		Short:         "Pluggable backup orchestration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.bootstrap()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", envOr("HOLLAND_CONFIG", defaultConfigPath), "path to the global holland config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging (equivalent to --log-level=debug)")
	root.PersistentFlags().BoolVar(&c.verbose, "verbose", false, "enable verbose (info) logging")
	root.PersistentFlags().BoolVar(&c.quiet, "quiet", false, "suppress all but error logging")

	root.AddCommand(
		c.backupCommand(),
		c.purgeCommand(),
		c.listBackupsCommand(),
		c.listCommandsCommand(),
		c.listPluginsCommand(),
		c.releaseCommand(),
	)

	return root
}

// Execute runs the root command, returning the process exit code:
// 0 on success, 1 on any reported failure.
func (c *CLI) Execute() int {
	root := c.GetRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// bootstrap loads the global config and wires the spool/catalog/
// controller, run once before any subcommand's RunE.
func (c *CLI) bootstrap() error {
	cfg, _, err := hollandconfig.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("holland: %w", err)
	}
	c.Config = cfg

	level := cfg.Logging.Level
	switch {
	case c.debug:
		level = "debug"
	case c.quiet:
		level = "error"
	case c.verbose:
		level = "info"
	case c.logLevel != "":
		level = c.logLevel
	}
	c.Logger = obs.NewLogger(obs.LogConfig{
		Level:    level,
		Format:   cfg.Logging.Format,
		Output:   outputFor(cfg.Logging.Filename),
		Filename: cfg.Logging.Filename,
	})
	slog.SetDefault(c.Logger)

	if cfg.Tmpdir != "" {
		os.Setenv("TMPDIR", cfg.Tmpdir)
	}
	if cfg.Path != "" {
		os.Setenv("PATH", cfg.Path)
	}

	if cfg.BackupDirectory != "" {
		c.Spool = spool.Load(cfg.BackupDirectory)
		c.Spool.Logger = c.Logger
	}

	if cfg.CatalogDB != "" {
		cat, err := catalog.Open(context.Background(), cfg.CatalogDB)
		if err != nil {
			return fmt.Errorf("holland: opening catalog: %w", err)
		}
		c.Catalog = cat
	}

	if c.Spool != nil && c.Catalog != nil {
		c.Controller = controller.New(c.Spool, c.Catalog, plugin.RegistryLoader{Registry: c.Strategies}, c.Logger)
	}

	return nil
}

// rewire re-resolves the spool/catalog/controller after a subcommand
// applies its own --backup-directory/--catalog-db overrides on top of
// the global config.
func (c *CLI) rewire(backupDirectory, catalogDB string) error {
	if backupDirectory != "" {
		c.Config.BackupDirectory = backupDirectory
	}
	if catalogDB != "" {
		c.Config.CatalogDB = catalogDB
	}

	if c.Config.BackupDirectory != "" {
		c.Spool = spool.Load(c.Config.BackupDirectory)
		c.Spool.Logger = c.Logger
	}
	if c.Config.CatalogDB != "" && c.Catalog == nil {
		cat, err := catalog.Open(context.Background(), c.Config.CatalogDB)
		if err != nil {
			return fmt.Errorf("holland: opening catalog: %w", err)
		}
		c.Catalog = cat
	}
	if c.Spool != nil && c.Catalog != nil {
		c.Controller = controller.New(c.Spool, c.Catalog, plugin.RegistryLoader{Registry: c.Strategies}, c.Logger)
	}
	return nil
}

func outputFor(filename string) string {
	if filename == "" {
		return "stderr"
	}
	return "file"
}
