package board

import (
	"time"

	"github.com/matzehuels/gridboard/pkg/layout"
)

// State is a serializable snapshot of which cells are marked.
type State struct {
	Columns   int       `json:"columns" bson:"columns"`
	Rows      int       `json:"rows" bson:"rows"`
	Marked    []int     `json:"marked" bson:"marked"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`

	// ColumnMajor is set when the board indexed its cells column by column.
	// The zero value is row-major, the grid default.
	ColumnMajor bool `json:"column_major,omitempty" bson:"column_major,omitempty"`
}

// ColumnRow maps a marked index back to its cell coordinates using the
// dimensions and index order recorded in s.
func (s State) ColumnRow(index int) (column, row int, ok bool) {
	if s.Columns <= 0 || s.Rows <= 0 || index < 0 || index >= s.Columns*s.Rows {
		return layout.Invalid, layout.Invalid, false
	}
	if s.ColumnMajor {
		return index / s.Rows, index % s.Rows, true
	}
	return index % s.Columns, index / s.Columns, true
}

// Address returns the two-character address of index, when it has one.
func (s State) Address(index int) (string, bool) {
	col, row, ok := s.ColumnRow(index)
	if !ok {
		return "", false
	}
	return EncodeAddress(col, row)
}

// Cell describes one cell at the moment it was read.
type Cell struct {
	Index    int         `json:"index"`
	Column   int         `json:"column"`
	Row      int         `json:"row"`
	Address  string      `json:"address,omitempty"`
	Position layout.Vec2 `json:"position"`
	Marked   bool        `json:"marked"`
}

// Toggle describes a single successful flip.
type Toggle struct {
	Index  int
	Column int
	Row    int
	Marked bool
	Source string
}

// Input sources reported in Toggle.Source.
const (
	SourceIndex   = "index"
	SourceAddress = "address"
	SourcePointer = "pointer"
)
