package layout

import (
	"fmt"
	"strings"
)

// Pivot names one of nine anchor points: upper/center/bottom by
// left/center/right. Y grows downward, so "upper" is the minimum Y edge.
type Pivot int

const (
	UpperLeft Pivot = iota
	UpperCenter
	UpperRight
	CenterLeft
	Center
	CenterRight
	BottomLeft
	BottomCenter
	BottomRight
)

var pivotNames = [...]string{
	UpperLeft:    "upper-left",
	UpperCenter:  "upper-center",
	UpperRight:   "upper-right",
	CenterLeft:   "center-left",
	Center:       "center",
	CenterRight:  "center-right",
	BottomLeft:   "bottom-left",
	BottomCenter: "bottom-center",
	BottomRight:  "bottom-right",
}

// Pivots lists every pivot in declaration order.
var Pivots = []Pivot{
	UpperLeft, UpperCenter, UpperRight,
	CenterLeft, Center, CenterRight,
	BottomLeft, BottomCenter, BottomRight,
}

// Valid reports whether p is one of the nine named pivots.
func (p Pivot) Valid() bool { return p >= UpperLeft && p <= BottomRight }

// String returns the kebab-case name of the pivot.
func (p Pivot) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pivot(%d)", int(p))
	}
	return pivotNames[p]
}

// Fraction returns the anchor as a fraction of an extent on each axis:
// 0 for left/upper, 0.5 for centered, 1 for right/bottom.
func (p Pivot) Fraction() Vec2 {
	if !p.Valid() {
		return Vec2{}
	}
	col, row := int(p)%3, int(p)/3
	return Vec2{X: float64(col) / 2, Y: float64(row) / 2}
}

// Offset returns the pivot's offset into a rectangle of the given size.
func (p Pivot) Offset(size Vec2) Vec2 { return p.Fraction().Mul(size) }

// ParsePivot parses a pivot name. Matching ignores case and accepts
// "_" or " " in place of "-", plus "top" for "upper" and "middle" for "center".
func ParsePivot(s string) (Pivot, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	norm = strings.ReplaceAll(norm, "top", "upper")
	norm = strings.ReplaceAll(norm, "middle", "center")
	for i, name := range pivotNames {
		if name == norm {
			return Pivot(i), nil
		}
	}
	return UpperLeft, fmt.Errorf("unknown pivot %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Pivot) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid pivot %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pivot) UnmarshalText(text []byte) error {
	v, err := ParsePivot(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
