package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/board"
)

// flushTimeout bounds the final save when the persister stops.
const flushTimeout = 5 * time.Second

// Snapshotter produces the state to persist. board.Board implements it.
type Snapshotter interface {
	Snapshot() board.State
}

// Persister saves board snapshots in the background. Notify only marks the
// board dirty; the snapshot is taken when the save runs, so the state written
// is always the newest one regardless of the order notifications arrive in.
type Persister struct {
	store  Store
	key    string
	source Snapshotter
	logger *log.Logger

	mu      sync.Mutex
	pending bool
	signal  chan struct{}
}

// NewPersister creates a persister writing snapshots of src to s under key.
func NewPersister(s Store, key string, src Snapshotter, logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.Default()
	}
	return &Persister{
		store:  s,
		key:    key,
		source: src,
		logger: logger,
		signal: make(chan struct{}, 1),
	}
}

// Notify records that the board changed. It never blocks.
func (p *Persister) Notify() {
	p.mu.Lock()
	p.pending = true
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// Run saves pending changes until ctx is cancelled, then flushes whatever
// is still pending. Save failures are logged and leave the change pending.
func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			p.flush(flushCtx)
			cancel()
			return nil
		case <-p.signal:
			p.flush(ctx)
		}
	}
}

func (p *Persister) flush(ctx context.Context) {
	p.mu.Lock()
	pending := p.pending
	p.pending = false
	p.mu.Unlock()

	if !pending {
		return
	}
	st := p.source.Snapshot()
	if err := p.store.Save(ctx, p.key, st); err != nil {
		p.mu.Lock()
		p.pending = true
		p.mu.Unlock()
		p.logger.Warn("save board state", "backend", p.store.Name(), "key", p.key, "err", err)
		return
	}
	p.logger.Debug("board state saved", "backend", p.store.Name(), "key", p.key, "marked", len(st.Marked))
}
