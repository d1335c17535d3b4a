// Package config loads gridboard settings from a TOML file.
//
// A file holds four tables:
//
//	[grid]     geometry of the board (dimensions, cell size, spacing, pivots)
//	[control]  control socket path and listener timing
//	[http]     address of the read-only query server ("" disables it)
//	[store]    persistence backend for marked cells
//
// Every field is optional; [Default] supplies the values used for anything
// the file leaves out. Unknown keys are rejected so that typos surface at
// startup instead of silently falling back to defaults.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/ipc"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/store"
)

const appName = "gridboard"

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// =============================================================================
// Types
// =============================================================================

// Config is the full gridboard configuration.
type Config struct {
	Grid    Grid         `toml:"grid"`
	Control Control      `toml:"control"`
	HTTP    HTTP         `toml:"http"`
	Store   store.Config `toml:"store"`
}

// Grid describes the board geometry.
type Grid struct {
	Columns           int            `toml:"columns"`
	Rows              int            `toml:"rows"`
	CellSize          layout.Vec2    `toml:"cell_size"`
	Spacing           layout.Vec2    `toml:"spacing"`
	Position          layout.Vec2    `toml:"position"`
	Padding           layout.Padding `toml:"padding"`
	GridPivot         layout.Pivot   `toml:"grid_pivot"`
	ElementPivot      layout.Pivot   `toml:"element_pivot"`
	ConstrainByColumn bool           `toml:"constrain_by_column"`
	AutoLayout        bool           `toml:"auto_layout"`
}

// Control configures the control socket listener.
type Control struct {
	Socket         string   `toml:"socket"`
	ReconnectDelay Duration `toml:"reconnect_delay"`
	ReadTimeout    Duration `toml:"read_timeout"`
}

// HTTP configures the query server.
type HTTP struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("25ms").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the configuration used when no file is present: a 5x5
// board of 100-unit cells anchored at the upper left.
func Default() Config {
	c := Config{
		Grid: Grid{
			Columns:           5,
			Rows:              5,
			CellSize:          layout.Vec2{X: 100, Y: 100},
			GridPivot:         layout.UpperLeft,
			ElementPivot:      layout.UpperLeft,
			ConstrainByColumn: true,
			AutoLayout:        true,
		},
		Control: Control{
			Socket:         ipc.DefaultSocketPath(),
			ReconnectDelay: Duration{ipc.DefaultReconnectDelay},
		},
	}
	c.Store.SetDefaults()
	return c
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists. An empty path means the default
// location, which may be absent; an explicit path must exist.
func LoadOrDefault(path string, logger *log.Logger) (Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(def)
	if errors.Is(err, errors.ErrCodeFileNotFound) {
		logger.Debug("no config file, using defaults", "path", def)
		return Default(), nil
	}
	return cfg, err
}

// Decode reads TOML from r into cfg, keeping existing values for absent
// keys, then validates. Unknown keys are an error.
func Decode(r io.Reader, cfg *Config) error {
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	g := c.Grid
	if g.Columns <= 0 || g.Rows <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid dimensions must be positive, got %dx%d", g.Columns, g.Rows)
	}
	if g.CellSize.X < 0 || g.CellSize.Y < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size must not be negative")
	}
	if !g.GridPivot.Valid() || !g.ElementPivot.Valid() {
		return errors.New(errors.ErrCodeInvalidPivot, "invalid pivot")
	}

	if err := errors.ValidateSocketPath(c.Control.Socket); err != nil {
		return err
	}
	if c.Control.ReconnectDelay.Duration < 0 || c.Control.ReadTimeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "control durations must not be negative")
	}

	sc := c.Store
	sc.SetDefaults()
	return sc.Validate()
}

// =============================================================================
// Builders
// =============================================================================

// NewGrid builds the layout grid described by the [grid] table.
func (g Grid) NewGrid(logger *log.Logger) *layout.Grid {
	return layout.New(g.Columns, g.Rows, g.CellSize,
		layout.WithSpacing(g.Spacing),
		layout.WithPadding(g.Padding),
		layout.WithPosition(g.Position),
		layout.WithGridPivot(g.GridPivot),
		layout.WithElementPivot(g.ElementPivot),
		layout.WithConstrainByColumn(g.ConstrainByColumn),
		layout.WithAutoLayout(g.AutoLayout),
		layout.WithLogger(logger),
	)
}

// ListenerOptions returns the ipc options described by the [control] table.
func (c Control) ListenerOptions(logger *log.Logger) []ipc.Option {
	return []ipc.Option{
		ipc.WithLogger(logger),
		ipc.WithReconnectDelay(c.ReconnectDelay.Duration),
		ipc.WithReadTimeout(c.ReadTimeout.Duration),
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns ~/.config/gridboard/config.toml, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, FileName), nil
}

// StateDir returns ~/.local/state/gridboard, honouring XDG_STATE_HOME.
// The file store keeps board state here when no dir is configured.
func StateDir() (string, error) {
	if home := os.Getenv("XDG_STATE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}
