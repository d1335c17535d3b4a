package board

import "github.com/matzehuels/gridboard/pkg/layout"

// DecodeAddress decodes a two-character address into a column and row.
// ok is false when the address is not exactly two characters or either
// character does not decode. Range against a particular grid is not
// checked here.
func DecodeAddress(address string) (column, row int, ok bool) {
	r := []rune(address)
	if len(r) != 2 {
		return layout.Invalid, layout.Invalid, false
	}
	column, row = decodeSelector(r[0]), decodeSelector(r[1])
	if column == layout.Invalid || row == layout.Invalid {
		return layout.Invalid, layout.Invalid, false
	}
	return column, row, true
}

// decodeSelector maps one address character to a zero-based coordinate.
// Digits are one-based, so '0' maps to -1.
func decodeSelector(r rune) int {
	if r >= 'A' && r <= 'Z' {
		r += 'a' - 'A'
	}
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a')
	case r >= '0' && r <= '9':
		return int(r-'0') - 1
	default:
		return layout.Invalid
	}
}

// EncodeAddress returns the canonical address of (column, row): a letter for
// the column and a digit for rows 0..8, falling back to a letter for rows
// 9..25. ok is false when either coordinate cannot be expressed.
func EncodeAddress(column, row int) (string, bool) {
	if column < 0 || column > 25 || row < 0 || row > 25 {
		return "", false
	}
	c := byte('a' + column)
	var r byte
	if row < 9 {
		r = byte('1' + row)
	} else {
		r = byte('a' + row)
	}
	return string([]byte{c, r}), true
}
