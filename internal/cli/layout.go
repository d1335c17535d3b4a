package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/config"
	"github.com/matzehuels/gridboard/pkg/layout"
)

// layoutCommand creates the layout command that prints computed positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		gf     gridFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the cell positions for the current configuration",
		Long: `Print the cell positions for the current configuration.

Each row shows a cell's index, control address, column, row and the position
computed from the grid and element pivots. Use --grid-pivot and
--element-pivot to preview other anchors without editing the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := gf.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runLayout(cfg.Grid, asJSON)
		},
	}

	gf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cells as JSON")

	return cmd
}

// layoutReport is the JSON form of the layout command.
type layoutReport struct {
	Columns      int          `json:"columns"`
	Rows         int          `json:"rows"`
	GridPivot    layout.Pivot `json:"grid_pivot"`
	ElementPivot layout.Pivot `json:"element_pivot"`
	Bounds       layout.Rect  `json:"bounds"`
	Cells        []board.Cell `json:"cells"`
}

func (c *CLI) runLayout(g config.Grid, asJSON bool) error {
	b := board.New(g.NewGrid(c.Logger), board.WithLogger(c.Logger))
	cells := b.Cells()

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(layoutReport{
			Columns:      b.Columns(),
			Rows:         b.Rows(),
			GridPivot:    g.GridPivot,
			ElementPivot: g.ElementPivot,
			Bounds:       b.Bounds(),
			Cells:        cells,
		})
	}

	rows := make([][]string, len(cells))
	for i, cell := range cells {
		rows[i] = []string{
			strconv.Itoa(cell.Index),
			cell.Address,
			strconv.Itoa(cell.Column),
			strconv.Itoa(cell.Row),
			formatUnits(cell.Position.X),
			formatUnits(cell.Position.Y),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Index", "Addr", "Col", "Row", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 1:
				return StyleHighlight.Padding(0, 1)
			case col >= 4:
				return StyleValue.Padding(0, 1).Align(lipgloss.Right)
			default:
				return StyleDim.Padding(0, 1).Align(lipgloss.Right)
			}
		})

	bounds := b.Bounds()
	printKeyValue("grid", fmt.Sprintf("%dx%d", b.Columns(), b.Rows()))
	printKeyValue("pivots", fmt.Sprintf("%s / %s", g.GridPivot, g.ElementPivot))
	printKeyValue("bounds", fmt.Sprintf("(%s, %s) to (%s, %s)",
		formatUnits(bounds.Min.X), formatUnits(bounds.Min.Y),
		formatUnits(bounds.Max.X), formatUnits(bounds.Max.Y)))
	fmt.Fprintln(stdout, t.Render())
	return nil
}

// formatUnits prints layout units without trailing zeros.
func formatUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
