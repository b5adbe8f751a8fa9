package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/csvboard/internal/csvload"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

func newLoadCmd(e *env) *cobra.Command {
	var (
		limit   int
		maxCell int
	)
	cmd := &cobra.Command{
		Use:   "load <file|url>",
		Short: "Load a CSV resource and print its rows",
		Example: `  csvboard load data/items.csv
  csvboard load https://example.com/items.csv --limit 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := args[0]
			t, err := e.loader().LoadTable(cmd.Context(), loc)
			if err != nil {
				return describeLoadErr(err)
			}

			rows := make([][]string, 0, len(t.Rows))
			for i, r := range t.Rows {
				if limit > 0 && i >= limit {
					break
				}
				cells := make([]string, len(t.Columns))
				for j, c := range t.Columns {
					cells[j] = r[c]
				}
				rows = append(rows, cells)
			}

			cur := ui.Current()
			lines := []string{
				fmt.Sprintf("%s  %s %d rows  %s %d columns",
					ui.C(cur.Title, loc),
					ui.C(cur.Accent, cur.SymUnchecked), len(t.Rows),
					ui.C(cur.Accent, cur.SymUnchecked), len(t.Columns)),
				"",
			}
			if len(t.Columns) > 0 {
				lines = append(lines, ui.Grid(t.Columns, rows, maxCell)...)
			}
			if len(rows) < len(t.Rows) {
				lines = append(lines, "", ui.C(cur.Muted, fmt.Sprintf("… %d more (use --limit 0 for all)", len(t.Rows)-len(rows))))
			}
			if len(t.Rows) == 0 {
				lines = append(lines, ui.C(cur.Muted, "no rows"))
			}
			ui.FPanel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "print at most this many rows (0 = all)")
	cmd.Flags().IntVar(&maxCell, "max-cell", 30, "truncate cells wider than this")
	return cmd
}

func describeLoadErr(err error) error {
	var te *csvload.TransportError
	var pe *csvload.ParseError
	switch {
	case errors.As(err, &te) && te.StatusCode != 0:
		return fmt.Errorf("load: %s returned status %d", te.Locator, te.StatusCode)
	case errors.As(err, &pe):
		return fmt.Errorf("load: malformed csv: %w", pe)
	default:
		return fmt.Errorf("load: %w", err)
	}
}
