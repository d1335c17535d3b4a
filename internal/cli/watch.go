package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/layout"
)

const (
	cellChars       = 6 // terminal columns per board column
	cellLines       = 3 // terminal lines per board row
	headerLines     = 2
	refreshInterval = 200 * time.Millisecond
)

var (
	watchMarkedStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	watchUnmarkedStyle = lipgloss.NewStyle().Foreground(colorDim)
	watchCursorStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	watchHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// runWatch draws b until the user quits or ctx is cancelled.
func runWatch(ctx context.Context, b *board.Board, socket string) error {
	p := tea.NewProgram(newWatchModel(b, socket),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// =============================================================================
// watchModel - terminal view of a board
// =============================================================================

type tickMsg time.Time

// watchModel renders the board by sampling its hit test: every terminal
// character shows whichever cell contains the layout point under it. Mouse
// presses send that same point to PointerToggle, so what is drawn is what
// gets toggled regardless of pivots, spacing or padding.
type watchModel struct {
	board  *board.Board
	socket string

	raster [][]int
	labels map[[2]int]string
	origin layout.Vec2
	scale  layout.Vec2

	cursor int
	status string
}

func newWatchModel(b *board.Board, socket string) watchModel {
	m := watchModel{board: b, socket: socket}
	m.rasterize()
	return m
}

func (m *watchModel) rasterize() {
	w := m.board.Columns() * cellChars
	h := m.board.Rows() * cellLines
	bounds := m.board.Bounds()
	m.origin = bounds.Min
	if w > 0 && h > 0 {
		m.scale = layout.Vec2{X: bounds.Width() / float64(w), Y: bounds.Height() / float64(h)}
	}

	type extent struct{ minX, maxX, minY, maxY int }
	extents := make(map[int]*extent)

	m.raster = make([][]int, h)
	for y := range m.raster {
		m.raster[y] = make([]int, w)
		for x := range m.raster[y] {
			idx := m.board.CellAt(m.pointAt(x, y))
			m.raster[y][x] = idx
			if idx == layout.Invalid {
				continue
			}
			e, ok := extents[idx]
			if !ok {
				extents[idx] = &extent{x, x, y, y}
				continue
			}
			e.minX, e.maxX = min(e.minX, x), max(e.maxX, x)
			e.minY, e.maxY = min(e.minY, y), max(e.maxY, y)
		}
	}

	m.labels = make(map[[2]int]string, len(extents))
	for idx, e := range extents {
		c, ok := m.board.Cell(idx)
		if !ok || c.Address == "" {
			continue
		}
		x := (e.minX+e.maxX+1)/2 - len(c.Address)/2
		m.labels[[2]int{max(x, e.minX), (e.minY + e.maxY) / 2}] = c.Address
	}
}

// pointAt maps the center of terminal character (x, y) to layout units.
func (m watchModel) pointAt(x, y int) layout.Vec2 {
	return layout.Vec2{
		X: m.origin.X + (float64(x)+0.5)*m.scale.X,
		Y: m.origin.Y + (float64(y)+0.5)*m.scale.Y,
	}
}

// move steps the cursor by whole columns and rows, staying put at the edges.
func (m *watchModel) move(dc, dr int) {
	c, ok := m.board.Cell(m.cursor)
	if !ok {
		return
	}
	if idx := m.board.Index(c.Column+dc, c.Row+dr); idx != layout.Invalid {
		m.cursor = idx
	}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case " ", "enter":
			if m.board.ToggleIndex(m.cursor) {
				m.status = m.describe(m.cursor)
			}
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		x, y := msg.X, msg.Y-headerLines
		if y < 0 || y >= len(m.raster) || x < 0 || x >= len(m.raster[y]) {
			return m, nil
		}
		p := m.pointAt(x, y)
		if m.board.PointerToggle(p) {
			idx := m.board.CellAt(p)
			m.cursor = idx
			m.status = m.describe(idx)
		}

	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m watchModel) describe(idx int) string {
	c, ok := m.board.Cell(idx)
	if !ok {
		return ""
	}
	state := "cleared"
	if c.Marked {
		state = "marked"
	}
	return fmt.Sprintf("%s %s (%d)", state, c.Address, c.Index)
}

func (m watchModel) View() string {
	cells := m.board.Cells()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render("  " + m.socket))
	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render("click or ←↑↓→ + space to toggle  q quit"))
	b.WriteString("\n")

	for y, row := range m.raster {
		for x := 0; x < len(row); x++ {
			idx := row[x]
			if idx == layout.Invalid {
				b.WriteByte(' ')
				continue
			}
			style := watchUnmarkedStyle
			fill := "░"
			if cells[idx].Marked {
				style, fill = watchMarkedStyle, "█"
			}
			if idx == m.cursor {
				style = watchCursorStyle
			}
			if label, ok := m.labels[[2]int{x, y}]; ok && x+len(label) <= len(row) {
				b.WriteString(style.Bold(true).Reverse(true).Render(label))
				x += len(label) - 1
				continue
			}
			b.WriteString(style.Render(fill))
		}
		b.WriteString("\n")
	}

	marked := 0
	for _, c := range cells {
		if c.Marked {
			marked++
		}
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d/%d marked", marked, len(cells))))
	if m.status != "" {
		b.WriteString(StyleDim.Render(" · ") + StyleValue.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}
