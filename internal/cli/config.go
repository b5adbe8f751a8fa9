package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/csvboard/internal/config"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file holding the current settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.DefaultDir(), "config.toml")
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteExample(path, e.cfg, force); err != nil {
				return err
			}
			ui.OK("wrote " + path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := e.cfg
			rows := [][]string{
				{"data.sources", fmt.Sprint(c.Data.Sources)},
				{"data.timeout", c.Data.Timeout.String()},
				{"data.watch", fmt.Sprint(c.Data.Watch)},
				{"data.price_column", c.Data.PriceCol},
				{"layout.breakpoint", fmt.Sprint(c.Layout.Breakpoint)},
				{"ui.theme", c.UI.Theme},
				{"ui.start_path", c.UI.StartPath},
				{"todo.file", c.Todo.File},
				{"logging.level", c.Logging.Level},
				{"logging.file", c.Logging.File},
			}
			ui.FPanel(cmd.OutOrStdout(), ui.Grid([]string{"KEY", "VALUE"}, rows, 60))
			return nil
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
