package ipc

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/observability"
)

const (
	// DefaultReconnectDelay is the pause in Draining before the next accept.
	DefaultReconnectDelay = 25 * time.Millisecond

	// MaxLineLength caps how many bytes are read from one connection.
	// Longer input cannot be a valid address and is dropped.
	MaxLineLength = 64

	// SocketName is the file name of the well-known control socket.
	SocketName = "gridboard.sock"
)

// Toggler receives decoded control messages. board.Board implements it.
type Toggler interface {
	ToggleAddress(address string) bool
}

// State is a listener state.
type State int

const (
	StateIdle State = iota
	StateAwaitingConnection
	StateConnected
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConnection:
		return "awaiting-connection"
	case StateConnected:
		return "connected"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

// Listener serves the control socket.
type Listener struct {
	ln      net.Listener
	path    string
	toggler Toggler
	logger  *log.Logger

	reconnectDelay time.Duration
	readTimeout    time.Duration

	mu     sync.Mutex
	state  State
	served int

	closeOnce sync.Once
	closeErr  error
}

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the listener's logger.
func WithLogger(l *log.Logger) Option {
	return func(ln *Listener) {
		if l != nil {
			ln.logger = l
		}
	}
}

// WithReconnectDelay sets the pause between connections. Zero disables it.
func WithReconnectDelay(d time.Duration) Option {
	return func(l *Listener) {
		if d >= 0 {
			l.reconnectDelay = d
		}
	}
}

// WithReadTimeout bounds how long a connected client may stay silent.
// Zero, the default, waits indefinitely.
func WithReadTimeout(d time.Duration) Option {
	return func(l *Listener) {
		if d >= 0 {
			l.readTimeout = d
		}
	}
}

// DefaultSocketPath returns $XDG_RUNTIME_DIR/gridboard.sock, falling back to
// the system temp directory.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, SocketName)
	}
	return filepath.Join(os.TempDir(), SocketName)
}

// Listen binds the control socket at path and returns an Idle listener.
// A leftover socket file with nobody listening on it is removed first; a
// live one makes Listen fail. Errors carry errors.ErrCodeBind or
// errors.ErrCodeInvalidPath.
func Listen(path string, t Toggler, opts ...Option) (*Listener, error) {
	if err := errors.ValidateSocketPath(path); err != nil {
		return nil, err
	}
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBind, err, "listen on %s", path)
	}

	l := &Listener{
		ln:             ln,
		path:           path,
		toggler:        t,
		logger:         log.Default(),
		reconnectDelay: DefaultReconnectDelay,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func removeStaleSocket(path string) error {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return nil
	}
	conn, err := net.DialTimeout("unix", path, 200*time.Millisecond)
	if err == nil {
		conn.Close()
		return errors.New(errors.ErrCodeBind, "control socket %s is already in use", path)
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrap(errors.ErrCodeBind, err, "remove stale socket %s", path)
	}
	return nil
}

// Path returns the socket path.
func (l *Listener) Path() string { return l.path }

// State returns the current state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Served returns the number of connections handled so far.
func (l *Listener) Served() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.served
}

func (l *Listener) setState(s State) {
	l.mu.Lock()
	prev := l.state
	l.state = s
	l.mu.Unlock()
	if prev != s {
		l.logger.Debug("listener state", "from", prev, "to", s)
	}
}

// Close closes the socket. A blocked Serve returns.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() { l.closeErr = l.ln.Close() })
	return l.closeErr
}

// Serve runs the state machine until ctx is cancelled or the listener is
// closed, then returns to Idle. It returns nil on either kind of shutdown.
// Serve must not be called concurrently with itself.
func (l *Listener) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { l.Close() })
	defer stop()
	defer l.setState(StateIdle)

	l.logger.Info("control channel listening", "socket", l.path)

	var conn net.Conn
	l.setState(StateAwaitingConnection)
	for {
		switch l.State() {
		case StateAwaitingConnection:
			c, err := l.ln.Accept()
			if err != nil {
				if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
					return nil
				}
				l.logger.Warn("accept failed", "err", err)
				l.setState(StateDraining)
				continue
			}
			conn = c
			l.setState(StateConnected)

		case StateConnected:
			l.handle(ctx, conn)
			conn = nil
			l.setState(StateDraining)

		case StateDraining:
			if l.reconnectDelay > 0 {
				t := time.NewTimer(l.reconnectDelay)
				select {
				case <-ctx.Done():
					t.Stop()
					return nil
				case <-t.C:
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			l.setState(StateAwaitingConnection)

		default:
			return nil
		}
	}
}

// handle reads one line from conn, forwards it when it has exactly two
// characters, and closes conn.
func (l *Listener) handle(ctx context.Context, conn net.Conn) {
	id := uuid.NewString()
	start := time.Now()
	hooks := observability.Listener()
	hooks.OnConnect(ctx, id)

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if l.readTimeout > 0 {
		_ = conn.SetReadDeadline(start.Add(l.readTimeout))
	}

	line, err := readLine(conn)
	if err != nil {
		l.logger.Warn("control read failed", "conn", id, "err", err)
	} else {
		forwarded := utf8.RuneCountInString(line) == 2
		toggled := false
		if forwarded {
			toggled = l.toggler.ToggleAddress(line)
		}
		l.logger.Debug("control message", "conn", id, "line", line, "forwarded", forwarded, "toggled", toggled)
		hooks.OnMessage(ctx, id, line, forwarded)
	}

	if cerr := conn.Close(); cerr != nil && !stderrors.Is(cerr, net.ErrClosed) {
		l.logger.Debug("close connection", "conn", id, "err", cerr)
	}

	l.mu.Lock()
	l.served++
	l.mu.Unlock()
	hooks.OnDisconnect(ctx, id, time.Since(start), err)
}

// readLine reads up to MaxLineLength bytes and returns the first line
// without its terminator. End of stream terminates a line; a client that
// sends nothing yields an empty line and no error.
func readLine(r io.Reader) (string, error) {
	br := bufio.NewReaderSize(io.LimitReader(r, MaxLineLength), MaxLineLength)
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
