// Package cli implements the gridboard command-line interface.
//
// # Commands
//
//   - serve: run a board, its control socket and optional HTTP/TUI surfaces
//   - send: write a two-character address to a running board
//   - layout: print the computed cell positions for a configuration
//   - state: inspect or clear persisted marked cells
//   - config: print the default or effective configuration
//
// All commands support --verbose (-v) for debug-level logging and
// --config (-c) to read a TOML file other than the default location.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/buildinfo"
	"github.com/matzehuels/gridboard/pkg/config"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "gridboard"

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Gridboard serves a toggleable grid of cells",
		Long: `Gridboard lays out a grid of cells and lets clients toggle them, by pointer
in the terminal view or by two-character addresses such as "b3" written to a
local control socket.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ~/.config/gridboard/config.toml)")

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sendCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the configuration selected by --config.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(c.configPath, c.Logger)
	if err != nil {
		return cfg, err
	}
	resolveStoreDir(&cfg.Store)
	return cfg, nil
}

// resolveStoreDir points an unconfigured file store at the XDG state directory.
func resolveStoreDir(sc *store.Config) {
	if sc.Backend == store.BackendFile && sc.Dir == "" {
		if dir, err := config.StateDir(); err == nil {
			sc.Dir = dir
		}
	}
}

// gridFlags are the geometry overrides shared by serve and layout.
type gridFlags struct {
	columns, rows int
	gridPivot     string
	elementPivot  string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.columns, "columns", 0, "override grid columns")
	cmd.Flags().IntVar(&f.rows, "rows", 0, "override grid rows")
	cmd.Flags().StringVar(&f.gridPivot, "grid-pivot", "", "override grid pivot (e.g. center, bottom-right)")
	cmd.Flags().StringVar(&f.elementPivot, "element-pivot", "", "override element pivot")
}

// apply writes the flags that were set into cfg and revalidates it.
func (f *gridFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("columns") {
		cfg.Grid.Columns = f.columns
	}
	if flags.Changed("rows") {
		cfg.Grid.Rows = f.rows
	}
	if flags.Changed("grid-pivot") {
		if err := cfg.Grid.GridPivot.UnmarshalText([]byte(f.gridPivot)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPivot, err, "--grid-pivot")
		}
	}
	if flags.Changed("element-pivot") {
		if err := cfg.Grid.ElementPivot.UnmarshalText([]byte(f.elementPivot)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPivot, err, "--element-pivot")
		}
	}
	return cfg.Validate()
}
