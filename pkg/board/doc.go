// Package board tracks a marked flag for every cell of a layout grid.
//
// A [Board] owns one cell per grid index and flips cells in response to three
// kinds of input: a linear index, a two-character address from the control
// channel, and a pointer position resolved through the grid's geometry.
// Malformed or out-of-range input of any kind is a silent no-op; every
// successful call flips exactly one cell.
//
// # Addresses
//
// An address is two characters. The first selects the column, the second the
// row, and each decodes independently:
//
//	a..z  -> 0..25 (ASCII letters, case-insensitive)
//	1..9  -> 0..8
//	0     -> invalid
//
// So "a1" is column 0, row 0, and "c2" is column 2, row 1.
//
// # Concurrency
//
// Board is safe for concurrent use. A single mutex guards the cells and the
// underlying grid and is held only while one cell is looked up and flipped.
// Change callbacks and hooks run after the lock is released.
package board
