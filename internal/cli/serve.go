package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gridboard/pkg/api"
	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/config"
	"github.com/matzehuels/gridboard/pkg/ipc"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/store"
)

// watchLogName is the log file used while the terminal view owns the screen.
const watchLogName = "serve.log"

// serveOptions holds serve flags that are not part of the config file.
type serveOptions struct {
	watch bool
}

// serveCommand creates the serve command that runs a board.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		gf       gridFlags
		opts     serveOptions
		socket   string
		httpAddr string
		backend  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a board and its control socket",
		Long: `Run a board and listen for toggle requests.

Clients toggle cells by writing a two-character address followed by a newline
to the control socket, one address per connection:

  echo b3 | nc -U $XDG_RUNTIME_DIR/gridboard.sock
  gridboard send b3

The first character selects the column and the second the row. Letters a-z
map to 0-25 (case-insensitive) and digits 1-9 map to 0-8, so "a1" is the
upper-left cell.

With --watch the board is drawn in the terminal; clicking a cell toggles it
through the same hit test a pointer client would use. Marked cells are saved
to the configured store and restored on the next start.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("socket") {
				cfg.Control.Socket = socket
			}
			if flags.Changed("http") {
				cfg.HTTP.Addr = httpAddr
			}
			if flags.Changed("store") {
				cfg.Store.Backend = backend
				resolveStoreDir(&cfg.Store)
			}
			if err := gf.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts)
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVar(&socket, "socket", "", "control socket path (default: $XDG_RUNTIME_DIR/gridboard.sock)")
	cmd.Flags().StringVar(&httpAddr, "http", "", "serve the read-only HTTP API on this address, e.g. 127.0.0.1:8080")
	cmd.Flags().StringVar(&backend, "store", "", "state backend: none, memory, file, redis, mongo")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "draw the board in the terminal")
	_ = cmd.RegisterFlagCompletionFunc("store", completeBackends)

	return cmd
}

// runServe builds the board, binds the control socket and runs every
// enabled surface until ctx is cancelled or the terminal view exits.
func (c *CLI) runServe(ctx context.Context, cfg config.Config, opts serveOptions) error {
	prog := newProgress(c.Logger)

	logger := c.Logger
	if opts.watch {
		f, err := openWatchLog()
		if err != nil {
			return err
		}
		defer f.Close()
		logger = newLogger(f, c.Logger.GetLevel())
		printInfo("Logging to %s", f.Name())
	}

	registerLogHooks(logger)
	defer observability.Reset()

	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var persister *store.Persister
	b := board.New(cfg.Grid.NewGrid(logger),
		board.WithLogger(logger),
		board.WithOnToggle(func(board.Toggle) { persister.Notify() }),
	)
	persister = store.NewPersister(st, cfg.Store.Key, b, logger)
	restoreState(ctx, b, st, cfg.Store.Key, logger)

	ln, err := ipc.Listen(cfg.Control.Socket, b, cfg.Control.ListenerOptions(logger)...)
	if err != nil {
		return err
	}
	defer ln.Close()

	prog.done(fmt.Sprintf("Board ready: %dx%d", b.Columns(), b.Rows()))
	printSuccess("Serving %s board", StyleNumber.Render(fmt.Sprintf("%dx%d", b.Columns(), b.Rows())))
	printEndpoint("control", ln.Path())
	if cfg.HTTP.Addr != "" {
		printEndpoint("http", cfg.HTTP.Addr)
	}
	printEndpoint("store", st.Name())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error { return ln.Serve(gctx) })
	if st.Name() != store.BackendNone {
		g.Go(func() error { return persister.Run(gctx) })
	}
	if cfg.HTTP.Addr != "" {
		g.Go(func() error {
			return api.Serve(gctx, cfg.HTTP.Addr, b, logger, func(a net.Addr) {
				logger.Info("http api listening", "addr", a.String())
			})
		})
	}
	if opts.watch {
		g.Go(func() error {
			defer cancel()
			return runWatch(gctx, b, ln.Path())
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// A signal ends serve with context.Canceled so main exits 130; quitting
	// the terminal view is a normal exit.
	return ctx.Err()
}

// openStore opens the state backend, showing a spinner for network backends.
func (c *CLI) openStore(ctx context.Context, sc store.Config) (store.Store, error) {
	if sc.Backend != store.BackendRedis && sc.Backend != store.BackendMongo {
		return store.Open(ctx, sc)
	}

	sp := newSpinner(ctx, fmt.Sprintf("Connecting to %s store...", sc.Backend))
	sp.Start()
	s, err := store.Open(ctx, sc)
	if err != nil {
		sp.StopWithError("%s store unavailable", sc.Backend)
		return nil, err
	}
	sp.Stop()
	return s, nil
}

// restoreState applies the saved marked cells, if any. Load failures are
// logged and the board starts empty.
func restoreState(ctx context.Context, b *board.Board, st store.Store, key string, logger *log.Logger) {
	saved, err := st.Load(ctx, key)
	if err != nil {
		logger.Warn("could not load saved board state", "key", key, "err", err)
		return
	}
	if saved == nil {
		return
	}
	if !b.Restore(*saved) {
		printWarning("Saved state is for a %dx%d board; starting empty", saved.Columns, saved.Rows)
		return
	}
	printInfo("Restored %d marked cells from %s", len(b.Marked()), st.Name())
}

func openWatchLog() (*os.File, error) {
	dir, err := config.StateDir()
	if err != nil {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return os.OpenFile(filepath.Join(dir, watchLogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
