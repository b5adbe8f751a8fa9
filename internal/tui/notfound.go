package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/csvboard/internal/router"
)

type notFoundView struct {
	match router.Match
}

func newNotFoundView(m router.Match) *notFoundView { return &notFoundView{match: m} }

func (n *notFoundView) Init() tea.Cmd  { return nil }
func (n *notFoundView) Unmount() error { return nil }
func (n *notFoundView) Typing() bool   { return false }

func (n *notFoundView) Update(msg tea.Msg) (view, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEnter {
		target := n.match.Suggestion
		if target == "" {
			target = router.Root
		}
		return n, func() tea.Msg { return navigateMsg{path: target} }
	}
	return n, nil
}

func (n *notFoundView) View(width, height int) string {
	s := errorStyle.Render("Not found: "+n.match.Path) + "\n\n"
	if n.match.Suggestion != "" {
		s += fmt.Sprintf("Did you mean %s? Press enter to go there.", accentStyle.Render(n.match.Suggestion))
	} else {
		s += "Press enter to go back to " + accentStyle.Render(router.Root) + "."
	}
	return s
}
