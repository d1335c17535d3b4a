package layout

import (
	"github.com/charmbracelet/log"
)

// Invalid is the sentinel returned for coordinates or indices outside the grid.
const Invalid = -1

// Slot is a position owned by a [Grid]. Callers keep their payload elsewhere
// and identify it by the slot pointer or by index.
type Slot struct {
	Position Vec2
}

// Grid is a layout engine over columns, rows, cell size, spacing, padding
// and pivots. It is not safe for concurrent use.
type Grid struct {
	columns, rows     int
	cellSize          Vec2
	spacing           Vec2
	padding           Padding
	position          Vec2
	gridPivot         Pivot
	elementPivot      Pivot
	constrainByColumn bool
	autoLayout        bool

	items  []*Slot
	logger *log.Logger
}

// Option configures a Grid at construction.
type Option func(*Grid)

// WithSpacing sets the per-axis gap between cells.
func WithSpacing(s Vec2) Option { return func(g *Grid) { g.spacing = s } }

// WithPadding sets the padding translation.
func WithPadding(p Padding) Option { return func(g *Grid) { g.padding = p } }

// WithPosition sets the grid's anchor point in the parent space.
func WithPosition(p Vec2) Option { return func(g *Grid) { g.position = p } }

// WithGridPivot sets which point of the whole grid aligns to its position.
func WithGridPivot(p Pivot) Option { return func(g *Grid) { g.gridPivot = p } }

// WithElementPivot sets which point of a cell aligns to the computed coordinate.
func WithElementPivot(p Pivot) Option { return func(g *Grid) { g.elementPivot = p } }

// WithConstrainByColumn selects row-major (true) or column-major (false) indexing.
func WithConstrainByColumn(v bool) Option { return func(g *Grid) { g.constrainByColumn = v } }

// WithAutoLayout enables or disables repositioning on mutation.
func WithAutoLayout(v bool) Option { return func(g *Grid) { g.autoLayout = v } }

// WithLogger sets the logger used for capacity and geometry warnings.
func WithLogger(l *log.Logger) Option {
	return func(g *Grid) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a grid with the given dimensions and cell size. Both pivots
// default to UpperLeft, indexing is row-major and auto-layout is on.
// Non-positive dimensions are kept but logged; such a grid decodes every
// index to Invalid until valid dimensions are set.
func New(columns, rows int, cellSize Vec2, opts ...Option) *Grid {
	g := &Grid{
		columns:           columns,
		rows:              rows,
		cellSize:          cellSize,
		constrainByColumn: true,
		autoLayout:        true,
		logger:            log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if columns <= 0 || rows <= 0 {
		g.logger.Warn("grid created with non-positive dimensions", "columns", columns, "rows", rows)
	}
	return g
}

// Columns returns the number of columns.
func (g *Grid) Columns() int { return g.columns }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// CellSize returns the size of one cell.
func (g *Grid) CellSize() Vec2 { return g.cellSize }

// Spacing returns the per-axis gap between cells.
func (g *Grid) Spacing() Vec2 { return g.spacing }

// Padding returns the padding offsets.
func (g *Grid) Padding() Padding { return g.padding }

// Position returns the grid's anchor point.
func (g *Grid) Position() Vec2 { return g.position }

// GridPivot returns the whole-grid pivot.
func (g *Grid) GridPivot() Pivot { return g.gridPivot }

// ElementPivot returns the in-cell pivot.
func (g *Grid) ElementPivot() Pivot { return g.elementPivot }

// ConstrainByColumn reports whether indexing is row-major.
func (g *Grid) ConstrainByColumn() bool { return g.constrainByColumn }

// AutoLayout reports whether mutations reposition items immediately.
func (g *Grid) AutoLayout() bool { return g.autoLayout }

// Capacity returns columns*rows, or 0 when either is non-positive.
func (g *Grid) Capacity() int {
	if g.columns <= 0 || g.rows <= 0 {
		return 0
	}
	return g.columns * g.rows
}

// NumItems returns the number of items in the grid.
func (g *Grid) NumItems() int { return len(g.items) }

// Item returns the slot at index, or nil when index is out of range.
func (g *Grid) Item(index int) *Slot {
	if index < 0 || index >= len(g.items) {
		return nil
	}
	return g.items[index]
}

// Size returns the total grid extent used for the grid pivot offset:
// columns*cellSize.X by rows*cellSize.Y. Spacing is not included.
func (g *Grid) Size() Vec2 {
	return Vec2{X: float64(g.columns) * g.cellSize.X, Y: float64(g.rows) * g.cellSize.Y}
}

// =============================================================================
// Setters
// =============================================================================

// SetColumns changes the column count. Non-positive values are ignored.
func (g *Grid) SetColumns(n int) {
	if n <= 0 {
		g.logger.Warn("ignoring non-positive column count", "columns", n)
		return
	}
	if n == g.columns {
		return
	}
	g.columns = n
	g.changed()
}

// SetRows changes the row count. Non-positive values are ignored.
func (g *Grid) SetRows(n int) {
	if n <= 0 {
		g.logger.Warn("ignoring non-positive row count", "rows", n)
		return
	}
	if n == g.rows {
		return
	}
	g.rows = n
	g.changed()
}

// SetCellSize changes the cell size.
func (g *Grid) SetCellSize(v Vec2) {
	if v == g.cellSize {
		return
	}
	g.cellSize = v
	g.changed()
}

// SetSpacing changes the per-axis spacing.
func (g *Grid) SetSpacing(v Vec2) {
	if v == g.spacing {
		return
	}
	g.spacing = v
	g.changed()
}

// SetPosition changes the grid's anchor point.
func (g *Grid) SetPosition(v Vec2) {
	if v == g.position {
		return
	}
	g.position = v
	g.changed()
}

// SetPadding changes the padding.
func (g *Grid) SetPadding(p Padding) {
	if p == g.padding {
		return
	}
	g.padding = p
	g.changed()
}

// SetGridPivot changes the whole-grid pivot.
func (g *Grid) SetGridPivot(p Pivot) {
	if p == g.gridPivot {
		return
	}
	g.gridPivot = p
	g.changed()
}

// SetElementPivot changes the in-cell pivot.
func (g *Grid) SetElementPivot(p Pivot) {
	if p == g.elementPivot {
		return
	}
	g.elementPivot = p
	g.changed()
}

// SetConstrainByColumn switches between row-major and column-major indexing.
func (g *Grid) SetConstrainByColumn(v bool) {
	if v == g.constrainByColumn {
		return
	}
	g.constrainByColumn = v
	g.changed()
}

// SetAutoLayout enables or disables repositioning on mutation. Enabling it
// does not itself recompute; call Recompute to resync stale positions.
func (g *Grid) SetAutoLayout(v bool) { g.autoLayout = v }

func (g *Grid) changed() {
	if g.autoLayout {
		g.Recompute()
	}
}

// Recompute assigns every item the position of its index.
func (g *Grid) Recompute() {
	for i, s := range g.items {
		s.Position = g.PositionAt(i)
	}
}

// =============================================================================
// Items
// =============================================================================

// AddItem appends s. A nil slot is ignored. Items beyond capacity are
// accepted with a warning.
func (g *Grid) AddItem(s *Slot) {
	if s == nil {
		return
	}
	g.items = append(g.items, s)
	if n, limit := len(g.items), g.Capacity(); n > limit {
		g.logger.Warn("grid capacity exceeded", "items", n, "capacity", limit)
	}
	g.changed()
}

// RemoveItem removes s if present.
func (g *Grid) RemoveItem(s *Slot) {
	if s == nil {
		return
	}
	for i, it := range g.items {
		if it == s {
			g.removeAt(i)
			return
		}
	}
}

// RemoveAt removes the item at index if present.
func (g *Grid) RemoveAt(index int) {
	if index < 0 || index >= len(g.items) {
		g.logger.Debug("remove of absent index ignored", "index", index, "items", len(g.items))
		return
	}
	g.removeAt(index)
}

// RemoveAtColumnRow removes the item at (column, row) if present.
func (g *Grid) RemoveAtColumnRow(column, row int) {
	idx := g.IndexFromColumnRow(column, row)
	if idx == Invalid {
		g.logger.Warn("remove outside grid ignored", "column", column, "row", row)
		return
	}
	g.RemoveAt(idx)
}

func (g *Grid) removeAt(i int) {
	g.items = append(g.items[:i], g.items[i+1:]...)
	g.changed()
}

// Clear removes all items.
func (g *Grid) Clear() { g.items = nil }

// =============================================================================
// Index Mapping
// =============================================================================

// IndexFromColumnRow returns the linear index of (column, row), or Invalid
// when either coordinate lies outside the grid.
func (g *Grid) IndexFromColumnRow(column, row int) int {
	if column < 0 || column >= g.columns || row < 0 || row >= g.rows {
		return Invalid
	}
	if g.constrainByColumn {
		return row*g.columns + column
	}
	return column*g.rows + row
}

// ColumnRowFromIndex is the inverse of IndexFromColumnRow. Both results are
// Invalid when the active axis extent is non-positive or index falls
// outside [0, Capacity).
func (g *Grid) ColumnRowFromIndex(index int) (column, row int) {
	extent := g.rows
	if g.constrainByColumn {
		extent = g.columns
	}
	if extent <= 0 || index < 0 || index >= g.Capacity() {
		return Invalid, Invalid
	}
	if g.constrainByColumn {
		return index % g.columns, index / g.columns
	}
	return index / g.rows, index % g.rows
}

// =============================================================================
// Geometry
// =============================================================================

// PositionAt returns the position of index using the grid's own pivots.
// It does not require an item at index.
func (g *Grid) PositionAt(index int) Vec2 {
	return g.PositionAtPivots(index, g.gridPivot, g.elementPivot)
}

// PositionAtPivots returns the position of index under the given pivots,
// leaving the grid unchanged. Indices outside the grid decode to (-1, -1)
// and yield a well-defined but meaningless position.
func (g *Grid) PositionAtPivots(index int, gridPivot, elementPivot Pivot) Vec2 {
	col, row := g.ColumnRowFromIndex(index)
	c, r := float64(col), float64(row)

	elementOffset := elementPivot.Offset(g.cellSize)

	// The pivot column/row is 0, extent-1 or the (possibly fractional) middle.
	pivot := gridPivot.Fraction()
	pivotCol := pivot.X * float64(g.columns-1)
	pivotRow := pivot.Y * float64(g.rows-1)
	spacingOffset := Vec2{X: (c - pivotCol) * g.spacing.X, Y: (r - pivotRow) * g.spacing.Y}

	relative := Vec2{X: c * g.cellSize.X, Y: r * g.cellSize.Y}.
		Sub(elementOffset).
		Add(spacingOffset).
		Add(g.padding.Offset())

	gridOffset := gridPivot.Offset(g.Size())
	return g.position.Add(relative).Sub(gridOffset)
}

// CellRect returns the rectangle of size CellSize anchored at PositionAt(index).
func (g *Grid) CellRect(index int) Rect {
	p := g.PositionAt(index)
	return Rect{Min: p, Max: p.Add(g.cellSize)}
}

// PointInItem reports whether point lies in the cell of the item at index.
// Indices outside the current item count never match.
func (g *Grid) PointInItem(index int, point Vec2) bool {
	if index < 0 || index >= len(g.items) {
		return false
	}
	return g.CellRect(index).Contains(point)
}

// Bounds returns the union of every cell rectangle in [0, Capacity).
// An empty grid yields the zero Rect.
func (g *Grid) Bounds() Rect {
	n := g.Capacity()
	if n == 0 {
		return Rect{}
	}
	b := g.CellRect(0)
	for i := 1; i < n; i++ {
		b = b.Union(g.CellRect(i))
	}
	return b
}
