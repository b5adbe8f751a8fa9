package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/csvboard/internal/layout"
	"github.com/Makepad-fr/csvboard/internal/router"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
)

type homeView struct {
	routes  *router.Table
	sources []string
	todos   *jsonstore.Store
	signal  *layout.Signal
}

func newHomeView(d Deps) *homeView {
	return &homeView{routes: d.Routes, sources: d.Sources, todos: d.Todos, signal: d.Signal}
}

func (h *homeView) Init() tea.Cmd                  { return nil }
func (h *homeView) Update(tea.Msg) (view, tea.Cmd) { return h, nil }
func (h *homeView) Unmount() error                 { return nil }
func (h *homeView) Typing() bool                   { return false }

func (h *homeView) View(width, height int) string {
	lines := []string{titleStyle.Render("Welcome to csvboard"), ""}

	lines = append(lines, accentStyle.Render("Views"))
	for _, r := range h.routes.Routes() {
		lines = append(lines, fmt.Sprintf("  %-8s %s", r.Path, r.Name))
	}
	lines = append(lines, "")

	lines = append(lines, accentStyle.Render("Data sources"))
	if len(h.sources) == 0 {
		lines = append(lines, mutedStyle.Render("  none configured"))
	}
	for _, s := range h.sources {
		lines = append(lines, "  "+s)
	}
	lines = append(lines, "")

	if h.todos != nil {
		if items, err := h.todos.Load(); err == nil {
			done, pending := stats(items)
			lines = append(lines, fmt.Sprintf("%s %d done, %d pending (%s)",
				accentStyle.Render("Todos"), done, pending, h.todos.Path()))
		}
	}
	mode := "wide"
	if h.signal.Value() {
		mode = "narrow"
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("layout %s (breakpoint %d columns)", mode, h.signal.Breakpoint())))

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
