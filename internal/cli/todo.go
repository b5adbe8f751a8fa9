package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/csvboard/internal/model"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
	"github.com/Makepad-fr/csvboard/internal/ui"
)

func newTodoCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the to-do list without the interactive view",
		Example: `  csvboard todo add "Buy milk"
  csvboard todo ls
  csvboard todo done 2
  csvboard todo rm 3`,
	}

	var group bool
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, items, err := e.loadTodos()
			if err != nil {
				return err
			}
			d, p := stats(items)
			cur := ui.Current()
			header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
				ui.C(cur.Title, "Todos"),
				ui.C(cur.Success, cur.SymDone), d,
				ui.C(cur.Pending, cur.SymUnchecked), p,
				ui.C(cur.Accent, "Total"), len(items),
			)
			lines := []string{header, ui.C(cur.Muted, ui.ProgressBar(d, d+p, 28)), ""}
			if group {
				lines = append(lines, groupLines(items)...)
			} else {
				lines = append(lines, flatLines(items)...)
			}
			lines = append(lines, "", ui.C(cur.Muted, "Tip: csvboard todo add <title>"))
			ui.FPanel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	ls.Flags().BoolVar(&group, "group", false, "group output by pending/done")

	add := &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new item (title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usageErr("add: empty title")
			}
			s, items, err := e.loadTodos()
			if err != nil {
				return err
			}
			items = append(items, model.NewItem(title))
			if err := s.Save(items); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			ui.OK("added")
			return nil
		},
	}

	done := &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.editTodo(args[0], "done", func(items []model.Item, i int) []model.Item {
				items[i].Done = !items[i].Done
				return items
			}, "toggled")
		},
	}

	rm := &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the item at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.editTodo(args[0], "rm", func(items []model.Item, i int) []model.Item {
				return append(items[:i], items[i+1:]...)
			}, "removed")
		},
	}

	cmd.AddCommand(ls, add, done, rm)
	return cmd
}

func (e *env) loadTodos() (*jsonstore.Store, []model.Item, error) {
	s, err := e.todoStore()
	if err != nil {
		return nil, nil, err
	}
	items, err := s.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	return s, items, nil
}

func (e *env) editTodo(arg, verb string, edit func([]model.Item, int) []model.Item, okMsg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return usageErr("%s: not a number: %s", verb, arg)
	}
	s, items, err := e.loadTodos()
	if err != nil {
		return err
	}
	if n < 1 || n > len(items) {
		return usageErr("index out of range: have %d, got %d (run `csvboard todo ls` to see valid indexes)", len(items), n)
	}
	items = edit(items, n-1)
	if err := s.Save(items); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ui.OK(okMsg)
	return nil
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Item) []string {
	cur := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(cur.Muted, "no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, itemLine(cur, i+1, it))
	}
	return out
}

// itemLine renders one item under n, the 1-based index done and rm take.
func itemLine(cur ui.Theme, n int, it model.Item) string {
	idx := fmt.Sprintf("%2d.", n)
	box, color := cur.BoxUnchecked, cur.Muted
	if it.Done {
		box, color = cur.BoxChecked, cur.Success
	}
	return fmt.Sprintf("%s %s %s", ui.C(cur.Muted, idx), ui.C(color, box), ui.Clip(it.Title, 80))
}

// groupLines splits items into pending and done while keeping each item's
// position in the full list as its index.
func groupLines(items []model.Item) []string {
	var pend, done []int
	for i, it := range items {
		if it.Done {
			done = append(done, i)
		} else {
			pend = append(pend, i)
		}
	}
	cur := ui.Current()
	section := func(name string, idx []int) []string {
		lines := []string{ui.C(cur.Accent, name)}
		if len(idx) == 0 {
			return append(lines, ui.C(cur.Muted, "(none)"))
		}
		for _, i := range idx {
			lines = append(lines, itemLine(cur, i+1, items[i]))
		}
		return lines
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
