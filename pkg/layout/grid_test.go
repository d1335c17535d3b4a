package layout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func filledGrid(columns, rows int, cell Vec2, opts ...Option) *Grid {
	g := New(columns, rows, cell, opts...)
	for i := 0; i < g.Capacity(); i++ {
		g.AddItem(&Slot{})
	}
	return g
}

func TestIndexRoundTrip(t *testing.T) {
	for _, rowMajor := range []bool{true, false} {
		g := New(4, 3, Vec2{X: 1, Y: 1}, WithConstrainByColumn(rowMajor))
		seen := make(map[int]bool)
		for col := 0; col < 4; col++ {
			for row := 0; row < 3; row++ {
				idx := g.IndexFromColumnRow(col, row)
				if idx < 0 || idx >= g.Capacity() {
					t.Fatalf("rowMajor=%v: IndexFromColumnRow(%d, %d) = %d out of range", rowMajor, col, row, idx)
				}
				if seen[idx] {
					t.Fatalf("rowMajor=%v: index %d produced twice", rowMajor, idx)
				}
				seen[idx] = true

				gotCol, gotRow := g.ColumnRowFromIndex(idx)
				if gotCol != col || gotRow != row {
					t.Errorf("rowMajor=%v: ColumnRowFromIndex(%d) = (%d, %d), want (%d, %d)",
						rowMajor, idx, gotCol, gotRow, col, row)
				}
			}
		}
	}
}

func TestIndexFromColumnRow(t *testing.T) {
	g := New(5, 3, Vec2{X: 1, Y: 1})
	tests := []struct {
		name     string
		col, row int
		rowMajor bool
		want     int
	}{
		{"origin", 0, 0, true, 0},
		{"row major", 2, 1, true, 7},
		{"column major", 2, 1, false, 7},
		{"column major last", 4, 2, false, 14},
		{"negative column", -1, 0, true, Invalid},
		{"negative row", 0, -1, true, Invalid},
		{"column at extent", 5, 0, true, Invalid},
		{"row at extent", 0, 3, false, Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.SetConstrainByColumn(tt.rowMajor)
			if got := g.IndexFromColumnRow(tt.col, tt.row); got != tt.want {
				t.Errorf("IndexFromColumnRow(%d, %d) = %d, want %d", tt.col, tt.row, got, tt.want)
			}
		})
	}
}

func TestColumnRowFromIndexInvalid(t *testing.T) {
	tests := []struct {
		name  string
		grid  *Grid
		index int
	}{
		{"negative index", New(3, 3, Vec2{}), -1},
		{"past capacity", New(3, 3, Vec2{}), 9},
		{"zero columns", New(0, 3, Vec2{}, WithLogger(log.New(&bytes.Buffer{}))), 0},
		{"zero rows column major", New(3, 0, Vec2{}, WithConstrainByColumn(false), WithLogger(log.New(&bytes.Buffer{}))), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := tt.grid.ColumnRowFromIndex(tt.index)
			if col != Invalid || row != Invalid {
				t.Errorf("ColumnRowFromIndex(%d) = (%d, %d), want (Invalid, Invalid)", tt.index, col, row)
			}
		})
	}
}

func TestPositionAt(t *testing.T) {
	tests := []struct {
		name  string
		grid  *Grid
		index int
		want  Vec2
	}{
		{
			name:  "upper left origin",
			grid:  New(3, 2, Vec2{X: 10, Y: 20}),
			index: 0,
			want:  Vec2{X: 0, Y: 0},
		},
		{
			name:  "upper left row major",
			grid:  New(3, 2, Vec2{X: 10, Y: 20}),
			index: 4,
			want:  Vec2{X: 10, Y: 20},
		},
		{
			name:  "column major",
			grid:  New(3, 2, Vec2{X: 10, Y: 20}, WithConstrainByColumn(false)),
			index: 3,
			want:  Vec2{X: 10, Y: 20},
		},
		{
			name:  "grid position",
			grid:  New(2, 2, Vec2{X: 10, Y: 10}, WithPosition(Vec2{X: 100, Y: 50})),
			index: 1,
			want:  Vec2{X: 110, Y: 50},
		},
		{
			name:  "element pivot center",
			grid:  New(2, 2, Vec2{X: 10, Y: 10}, WithElementPivot(Center)),
			index: 0,
			want:  Vec2{X: -5, Y: -5},
		},
		{
			name:  "grid pivot bottom right",
			grid:  New(2, 2, Vec2{X: 10, Y: 10}, WithGridPivot(BottomRight)),
			index: 3,
			want:  Vec2{X: -10, Y: -10},
		},
		{
			name:  "spacing grows away from bottom right pivot",
			grid:  New(2, 2, Vec2{X: 10, Y: 10}, WithGridPivot(BottomRight), WithSpacing(Vec2{X: 2, Y: 2})),
			index: 0,
			want:  Vec2{X: -22, Y: -22},
		},
		{
			name:  "spacing from upper left pivot",
			grid:  New(3, 3, Vec2{X: 10, Y: 10}, WithSpacing(Vec2{X: 3, Y: 1})),
			index: 8,
			want:  Vec2{X: 26, Y: 22},
		},
		{
			name:  "padding",
			grid:  New(2, 2, Vec2{X: 10, Y: 10}, WithPadding(Padding{Left: 1, Right: 5, Top: 2, Bottom: 3})),
			index: 0,
			want:  Vec2{X: 4, Y: 1},
		},
		{
			name:  "centered grid",
			grid:  New(3, 3, Vec2{X: 10, Y: 10}, WithGridPivot(Center), WithElementPivot(Center)),
			index: 4,
			want:  Vec2{X: -10, Y: -10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grid.PositionAt(tt.index); got != tt.want {
				t.Errorf("PositionAt(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestPositionAtIsPure(t *testing.T) {
	g := filledGrid(4, 4, Vec2{X: 7, Y: 9}, WithGridPivot(Center), WithSpacing(Vec2{X: 3, Y: 2}))
	for i := 0; i < g.Capacity(); i++ {
		if a, b := g.PositionAt(i), g.PositionAt(i); a != b {
			t.Errorf("PositionAt(%d) not idempotent: %v then %v", i, a, b)
		}
	}
}

func TestPositionAtPivotsLeavesGridUnchanged(t *testing.T) {
	g := New(2, 2, Vec2{X: 10, Y: 10})
	got := g.PositionAtPivots(3, BottomRight, UpperLeft)
	if want := (Vec2{X: -10, Y: -10}); got != want {
		t.Errorf("PositionAtPivots() = %v, want %v", got, want)
	}
	if g.GridPivot() != UpperLeft {
		t.Errorf("GridPivot() = %v after PositionAtPivots, want %v", g.GridPivot(), UpperLeft)
	}
}

func TestCenteredSpacingIsSymmetric(t *testing.T) {
	const spacing = 6.0
	for _, n := range []int{2, 4, 6} {
		plain := New(n, 1, Vec2{X: 10, Y: 10}, WithGridPivot(Center))
		spaced := New(n, 1, Vec2{X: 10, Y: 10}, WithGridPivot(Center), WithSpacing(Vec2{X: spacing}))

		left, right := n/2-1, n/2
		dl := spaced.PositionAt(left).X - plain.PositionAt(left).X
		dr := spaced.PositionAt(right).X - plain.PositionAt(right).X
		if dl != -spacing/2 || dr != spacing/2 {
			t.Errorf("n=%d: center column offsets = (%v, %v), want (%v, %v)", n, dl, dr, -spacing/2, spacing/2)
		}
	}
}

func TestSpacingAndPaddingDeltas(t *testing.T) {
	base := New(3, 3, Vec2{X: 10, Y: 10})
	padded := New(3, 3, Vec2{X: 10, Y: 10}, WithPadding(Padding{Right: 4, Bottom: 7}))
	spaced := New(3, 3, Vec2{X: 10, Y: 10}, WithSpacing(Vec2{X: 2, Y: 5}))

	for i := 0; i < base.Capacity(); i++ {
		col, row := base.ColumnRowFromIndex(i)
		b := base.PositionAt(i)

		if d := padded.PositionAt(i).Sub(b); d != (Vec2{X: 4, Y: 7}) {
			t.Errorf("index %d: padding delta = %v, want {4 7}", i, d)
		}
		want := Vec2{X: float64(col) * 2, Y: float64(row) * 5}
		if d := spaced.PositionAt(i).Sub(b); d != want {
			t.Errorf("index %d: spacing delta = %v, want %v", i, d, want)
		}
	}
}

func TestAutoLayoutOnMutation(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 10, Y: 10})
	if got := g.Item(3).Position; got != (Vec2{X: 10, Y: 10}) {
		t.Fatalf("initial position = %v, want {10 10}", got)
	}

	g.SetSpacing(Vec2{X: 1, Y: 1})
	if got := g.Item(3).Position; got != (Vec2{X: 11, Y: 11}) {
		t.Errorf("after SetSpacing position = %v, want {11 11}", got)
	}

	g.SetPosition(Vec2{X: 100})
	if got := g.Item(0).Position; got != (Vec2{X: 100}) {
		t.Errorf("after SetPosition position = %v, want {100 0}", got)
	}

	g.SetCellSize(Vec2{X: 20, Y: 20})
	if got := g.Item(1).Position; got != (Vec2{X: 121}) {
		t.Errorf("after SetCellSize position = %v, want {121 0}", got)
	}
}

func TestUnchangedSetterDoesNotRecompute(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 10, Y: 10}, WithSpacing(Vec2{X: 1, Y: 1}))
	marker := Vec2{X: -999, Y: -999}
	g.Item(0).Position = marker

	g.SetSpacing(Vec2{X: 1, Y: 1})
	g.SetColumns(2)
	g.SetRows(2)
	g.SetCellSize(Vec2{X: 10, Y: 10})
	g.SetPadding(Padding{})
	g.SetPosition(Vec2{})
	g.SetGridPivot(UpperLeft)
	g.SetElementPivot(UpperLeft)
	g.SetConstrainByColumn(true)

	if got := g.Item(0).Position; got != marker {
		t.Errorf("position = %v, want untouched marker %v", got, marker)
	}
}

func TestAutoLayoutDisabled(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 10, Y: 10})
	g.SetAutoLayout(false)
	g.SetPosition(Vec2{X: 50, Y: 50})

	if got := g.Item(0).Position; got != (Vec2{}) {
		t.Errorf("stale position = %v, want {0 0}", got)
	}

	g.Recompute()
	if got := g.Item(0).Position; got != (Vec2{X: 50, Y: 50}) {
		t.Errorf("after Recompute position = %v, want {50 50}", got)
	}
}

func TestNonPositiveDimensionsIgnored(t *testing.T) {
	var buf bytes.Buffer
	g := New(3, 3, Vec2{X: 1, Y: 1}, WithLogger(log.New(&buf)))

	g.SetColumns(0)
	g.SetRows(-2)

	if g.Columns() != 3 || g.Rows() != 3 {
		t.Errorf("dimensions = %dx%d, want 3x3", g.Columns(), g.Rows())
	}
	if !strings.Contains(buf.String(), "non-positive") {
		t.Errorf("expected warning, got %q", buf.String())
	}
}

func TestAddItemOverCapacity(t *testing.T) {
	var buf bytes.Buffer
	g := filledGrid(2, 2, Vec2{X: 1, Y: 1}, WithLogger(log.New(&buf)))
	if buf.Len() != 0 {
		t.Fatalf("unexpected log output filling grid: %q", buf.String())
	}

	extra := &Slot{}
	g.AddItem(extra)

	if !strings.Contains(buf.String(), "capacity exceeded") {
		t.Errorf("expected capacity warning, got %q", buf.String())
	}
	if g.NumItems() != 5 {
		t.Errorf("NumItems() = %d, want 5", g.NumItems())
	}
	if g.Item(4) != extra {
		t.Error("extra item should be retrievable at index 4")
	}
}

func TestAddNilItem(t *testing.T) {
	g := New(2, 2, Vec2{X: 1, Y: 1})
	g.AddItem(nil)
	if g.NumItems() != 0 {
		t.Errorf("NumItems() = %d, want 0", g.NumItems())
	}
}

func TestRemoveItem(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 10, Y: 10})
	second := g.Item(1)
	last := g.Item(3)

	g.RemoveItem(second)
	if g.NumItems() != 3 {
		t.Fatalf("NumItems() = %d, want 3", g.NumItems())
	}
	if g.Item(2) != last {
		t.Fatal("later items should shift down")
	}
	if got := last.Position; got != (Vec2{X: 0, Y: 10}) {
		t.Errorf("shifted item position = %v, want {0 10}", got)
	}

	g.RemoveItem(&Slot{})
	g.RemoveItem(nil)
	if g.NumItems() != 3 {
		t.Errorf("removing unknown item changed count to %d", g.NumItems())
	}
}

func TestRemoveAt(t *testing.T) {
	g := filledGrid(3, 3, Vec2{X: 1, Y: 1})
	g.RemoveAt(-1)
	g.RemoveAt(42)
	if g.NumItems() != 9 {
		t.Fatalf("out of range RemoveAt changed count to %d", g.NumItems())
	}

	target := g.Item(5)
	g.RemoveAtColumnRow(2, 1)
	if g.NumItems() != 8 {
		t.Fatalf("NumItems() = %d, want 8", g.NumItems())
	}
	for i := 0; i < g.NumItems(); i++ {
		if g.Item(i) == target {
			t.Fatal("item at (2, 1) should be removed")
		}
	}

	g.RemoveAtColumnRow(3, 0)
	if g.NumItems() != 8 {
		t.Errorf("RemoveAtColumnRow outside grid changed count to %d", g.NumItems())
	}
}

func TestClear(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 1, Y: 1})
	g.Clear()
	if g.NumItems() != 0 {
		t.Errorf("NumItems() = %d, want 0", g.NumItems())
	}
	if g.Item(0) != nil {
		t.Error("Item(0) should be nil after Clear")
	}
}

func TestPointInItem(t *testing.T) {
	g := filledGrid(2, 2, Vec2{X: 10, Y: 10})
	tests := []struct {
		name  string
		index int
		point Vec2
		want  bool
	}{
		{"inside first", 0, Vec2{X: 5, Y: 5}, true},
		{"min edge inclusive", 0, Vec2{X: 0, Y: 0}, true},
		{"max edge exclusive", 0, Vec2{X: 10, Y: 5}, false},
		{"inside last", 3, Vec2{X: 15, Y: 15}, true},
		{"wrong cell", 1, Vec2{X: 5, Y: 5}, false},
		{"negative index", -1, Vec2{X: 5, Y: 5}, false},
		{"past item count", 4, Vec2{X: 5, Y: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.PointInItem(tt.index, tt.point); got != tt.want {
				t.Errorf("PointInItem(%d, %v) = %v, want %v", tt.index, tt.point, got, tt.want)
			}
		})
	}
}

func TestPointInItemRequiresItem(t *testing.T) {
	g := New(2, 2, Vec2{X: 10, Y: 10})
	if g.PointInItem(0, Vec2{X: 1, Y: 1}) {
		t.Error("PointInItem should be false for an empty grid")
	}
}

func TestBounds(t *testing.T) {
	g := New(3, 2, Vec2{X: 10, Y: 10}, WithSpacing(Vec2{X: 2, Y: 4}), WithGridPivot(Center))
	b := g.Bounds()
	if b.Width() != 34 || b.Height() != 24 {
		t.Errorf("Bounds() = %v (%vx%v), want 34x24", b, b.Width(), b.Height())
	}

	empty := New(0, 0, Vec2{X: 1, Y: 1}, WithLogger(log.New(&bytes.Buffer{})))
	if got := empty.Bounds(); got != (Rect{}) {
		t.Errorf("empty Bounds() = %v, want zero", got)
	}
}
