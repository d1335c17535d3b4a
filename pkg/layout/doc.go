// Package layout positions items in a rectangular grid.
//
// A [Grid] maps linear indices to (column, row) pairs and derives a position
// for every index from the cell size, per-axis spacing, padding, the grid's own
// anchor position and two pivots: one anchoring the whole grid to its
// position, one anchoring each item within its cell.
//
// # Index Space
//
// With ConstrainByColumn set (the default) the index advances across columns
// first (row-major):
//
//	index = row*columns + column
//
// Otherwise it advances down rows first (column-major):
//
//	index = column*rows + row
//
// Coordinates outside the grid map to [Invalid].
//
// # Spacing
//
// Spacing is distributed around the pivot column and row rather than
// accumulated from one edge. With a centered grid pivot and an even column
// count, the two middle columns sit half a spacing step either side of the
// anchor.
//
// # Automatic Repositioning
//
// Items are position [Slot] values owned by the grid. When auto-layout is on
// (the default), every setter that changes a geometry field recomputes all
// slot positions through [Grid.Recompute]. Writing an unchanged value does
// no work. With auto-layout off the caller invokes Recompute itself.
//
// # Usage
//
//	g := layout.New(5, 5, layout.Vec2{X: 100, Y: 100},
//	    layout.WithSpacing(layout.Vec2{X: 8, Y: 8}),
//	    layout.WithGridPivot(layout.Center),
//	)
//	for i := 0; i < g.Capacity(); i++ {
//	    g.AddItem(&layout.Slot{})
//	}
//	pos := g.PositionAt(12)
package layout
