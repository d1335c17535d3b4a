// Package pkg provides the libraries behind gridboard.
//
// # Overview
//
// Gridboard lays out a fixed grid of cells, tracks which cells are marked,
// and accepts toggle requests from two directions: pointer positions in
// layout units, and two-character addresses written to a local socket.
//
//  1. [layout] - grid geometry: pivots, spacing, padding, index mapping
//  2. [board] - marked state, address decoding and hit testing
//  3. [ipc] - the control socket listener and its client
//  4. [store] - persistence of marked cells (file, redis, mongo)
//  5. [api] - read-only HTTP view of a board
//  6. [config] - TOML configuration
//
// # Data Flow
//
//	pointer (x, y) ──► board.PointerToggle ─┐
//	                                        ├─► flip cell ─► store.Persister
//	"b3\n" ─► ipc.Listener ─► ToggleAddress ┘
//
// # Quick Start
//
//	g := layout.New(5, 5, layout.Vec2{X: 100, Y: 100},
//	    layout.WithGridPivot(layout.Center))
//	b := board.New(g)
//
//	ln, err := ipc.Listen(ipc.DefaultSocketPath(), b)
//	if err != nil {
//	    return err
//	}
//	return ln.Serve(ctx)
//
// Supporting packages: [errors] for coded errors, [observability] for hooks,
// and [buildinfo] for version data.
package pkg
