package board

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// Board owns the marked flag of every cell in a grid.
type Board struct {
	mu       sync.Mutex
	grid     *layout.Grid
	cells    []cell // cells[i] pairs with grid.Item(i)
	logger   *log.Logger
	onToggle func(Toggle)
}

type cell struct {
	slot   *layout.Slot
	marked bool
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the board's logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithOnToggle registers fn to run after every successful flip.
// fn runs on the goroutine that caused the flip, outside the board lock.
func WithOnToggle(fn func(Toggle)) Option {
	return func(b *Board) { b.onToggle = fn }
}

// New creates a board over grid and initializes it. The board takes
// ownership of the grid's items; callers must not mutate grid afterwards
// except through Reconfigure.
func New(grid *layout.Grid, opts ...Option) *Board {
	b := &Board{grid: grid, logger: log.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.Initialize()
	return b
}

// Initialize discards all cells and creates Capacity unmarked cells in grid
// index order.
func (b *Board) Initialize() {
	b.mu.Lock()
	n := b.initLocked()
	b.mu.Unlock()
	observability.Board().OnRebuild(n)
}

func (b *Board) initLocked() int {
	g := b.grid
	auto := g.AutoLayout()
	g.SetAutoLayout(false)
	g.Clear()

	n := g.Capacity()
	b.cells = make([]cell, n)
	for i := range b.cells {
		s := &layout.Slot{}
		g.AddItem(s)
		b.cells[i].slot = s
	}

	g.SetAutoLayout(auto)
	g.Recompute()
	b.logger.Debug("board initialized", "columns", g.Columns(), "rows", g.Rows(), "cells", n)
	return n
}

// Reconfigure applies fn to the grid under the board lock. When the grid's
// capacity changed the board is rebuilt and every mark is lost; otherwise
// marks are kept and positions are brought up to date.
func (b *Board) Reconfigure(fn func(g *layout.Grid)) {
	b.mu.Lock()
	before := b.grid.Capacity()
	fn(b.grid)
	rebuilt := -1
	if b.grid.Capacity() != before || b.grid.NumItems() != len(b.cells) {
		rebuilt = b.initLocked()
	} else if !b.grid.AutoLayout() {
		b.grid.Recompute()
	}
	b.mu.Unlock()

	if rebuilt >= 0 {
		observability.Board().OnRebuild(rebuilt)
	}
}

// =============================================================================
// Toggles
// =============================================================================

// ToggleIndex flips the cell at index. It reports whether a cell was flipped;
// indices without a cell are ignored.
func (b *Board) ToggleIndex(index int) bool {
	b.mu.Lock()
	t, ok := b.flipLocked(index, SourceIndex)
	b.mu.Unlock()
	return b.finish(t, ok)
}

// ToggleAddress decodes a two-character address and flips that cell.
// Addresses that do not decode or fall outside the grid are ignored.
func (b *Board) ToggleAddress(address string) bool {
	col, row, ok := DecodeAddress(address)
	if !ok {
		b.logger.Debug("ignoring undecodable address", "address", address)
		return false
	}

	b.mu.Lock()
	index := b.grid.IndexFromColumnRow(col, row)
	t, ok := b.flipLocked(index, SourceAddress)
	b.mu.Unlock()

	if !ok {
		b.logger.Debug("ignoring address outside board", "address", address, "column", col, "row", row)
	}
	return b.finish(t, ok)
}

// PointerToggle flips the first cell, in index order, whose rectangle
// contains point.
func (b *Board) PointerToggle(point layout.Vec2) bool {
	b.mu.Lock()
	var (
		t  Toggle
		ok bool
	)
	for i := range b.cells {
		if b.grid.PointInItem(i, point) {
			t, ok = b.flipLocked(i, SourcePointer)
			break
		}
	}
	b.mu.Unlock()
	return b.finish(t, ok)
}

func (b *Board) flipLocked(index int, source string) (Toggle, bool) {
	if index < 0 || index >= len(b.cells) {
		return Toggle{}, false
	}
	c := &b.cells[index]
	c.marked = !c.marked
	col, row := b.grid.ColumnRowFromIndex(index)
	return Toggle{Index: index, Column: col, Row: row, Marked: c.marked, Source: source}, true
}

func (b *Board) finish(t Toggle, ok bool) bool {
	if !ok {
		return false
	}
	b.logger.Debug("cell toggled", "index", t.Index, "column", t.Column, "row", t.Row, "marked", t.Marked, "source", t.Source)
	observability.Board().OnToggle(t.Index, t.Marked, t.Source)
	if b.onToggle != nil {
		b.onToggle(t)
	}
	return true
}

// =============================================================================
// Queries
// =============================================================================

// Columns returns the grid's column count.
func (b *Board) Columns() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Columns()
}

// Rows returns the grid's row count.
func (b *Board) Rows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Rows()
}

// Len returns the number of cells.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cells)
}

// CellSize returns the grid's cell size.
func (b *Board) CellSize() layout.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.CellSize()
}

// Bounds returns the rectangle covering every cell.
func (b *Board) Bounds() layout.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Bounds()
}

// Index returns the index of the cell at (column, row), or layout.Invalid.
func (b *Board) Index(column, row int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.grid.IndexFromColumnRow(column, row)
	if idx >= len(b.cells) {
		return layout.Invalid
	}
	return idx
}

// IsMarked reports whether the cell at index is marked.
func (b *Board) IsMarked(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return index >= 0 && index < len(b.cells) && b.cells[index].marked
}

// Marked returns the indices of all marked cells in ascending order.
func (b *Board) Marked() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.markedLocked()
}

func (b *Board) markedLocked() []int {
	out := []int{}
	for i, c := range b.cells {
		if c.marked {
			out = append(out, i)
		}
	}
	return out
}

// CellAt returns the index of the first cell containing point, or
// layout.Invalid. It does not toggle anything.
func (b *Board) CellAt(point layout.Vec2) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cells {
		if b.grid.PointInItem(i, point) {
			return i
		}
	}
	return layout.Invalid
}

// Cell returns the cell at index.
func (b *Board) Cell(index int) (Cell, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.cells) {
		return Cell{}, false
	}
	return b.cellLocked(index), true
}

// Cells returns every cell in index order.
func (b *Board) Cells() []Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Cell, len(b.cells))
	for i := range b.cells {
		out[i] = b.cellLocked(i)
	}
	return out
}

func (b *Board) cellLocked(index int) Cell {
	col, row := b.grid.ColumnRowFromIndex(index)
	addr, _ := EncodeAddress(col, row)
	return Cell{
		Index:    index,
		Column:   col,
		Row:      row,
		Address:  addr,
		Position: b.cells[index].slot.Position,
		Marked:   b.cells[index].marked,
	}
}

// =============================================================================
// Snapshots
// =============================================================================

// Snapshot returns the current marked state.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return State{
		Columns:   b.grid.Columns(),
		Rows:      b.grid.Rows(),
		Marked:    b.markedLocked(),
		UpdatedAt: time.Now().UTC(),

		ColumnMajor: !b.grid.ConstrainByColumn(),
	}
}

// Restore replaces the marked state with s. It is applied only when s was
// taken from a board of the same dimensions and index order; indices outside
// the board are skipped. Restore does not fire toggle callbacks.
func (b *Board) Restore(s State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s.Columns != b.grid.Columns() || s.Rows != b.grid.Rows() {
		b.logger.Warn("ignoring saved state with different dimensions",
			"saved", fmt.Sprintf("%dx%d", s.Columns, s.Rows),
			"board", fmt.Sprintf("%dx%d", b.grid.Columns(), b.grid.Rows()))
		return false
	}
	if s.ColumnMajor == b.grid.ConstrainByColumn() {
		b.logger.Warn("ignoring saved state with different index order", "column_major", s.ColumnMajor)
		return false
	}

	for i := range b.cells {
		b.cells[i].marked = false
	}
	for _, i := range s.Marked {
		if i >= 0 && i < len(b.cells) {
			b.cells[i].marked = true
		}
	}
	return true
}
