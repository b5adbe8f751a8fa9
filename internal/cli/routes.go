package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/csvboard/internal/router"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the view routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, r := range router.Default().Routes() {
				rows = append(rows, []string{r.Path, r.Name, string(r.View)})
			}
			ui.FPanel(cmd.OutOrStdout(), ui.Grid([]string{"PATH", "NAME", "VIEW"}, rows, 0))
			return nil
		},
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Show which view a path opens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := router.Default().Resolve(args[0])
			out := cmd.OutOrStdout()
			if m.Found {
				fmt.Fprintf(out, "%s -> %s (%s)\n", m.Path, m.Route.View, m.Route.Name)
				return nil
			}
			fmt.Fprintf(out, "%s -> %s\n", m.Path, m.Route.View)
			if m.Suggestion != "" {
				fmt.Fprintf(out, "did you mean %s?\n", m.Suggestion)
			}
			return nil
		},
	}
}
