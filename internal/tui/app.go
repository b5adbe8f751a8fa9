// Package tui hosts the csvboard views in a Bubble Tea program and switches
// between them by path.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/csvboard/internal/csvload"
	"github.com/Makepad-fr/csvboard/internal/layout"
	"github.com/Makepad-fr/csvboard/internal/router"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
)

// Deps is everything the views need. Routes, Loader, Viewport and Signal are
// required; Changes may be nil when file watching is off.
type Deps struct {
	Routes      *router.Table
	Loader      *csvload.Loader
	Sources     []string
	PriceColumn string
	Todos       *jsonstore.Store
	Viewport    *layout.TermViewport
	Signal      *layout.Signal
	Changes     <-chan string
	Logger      *zap.Logger
}

// view is one routed screen. Views own their resources: Unmount must cancel
// in-flight loads and release layout subscriptions.
type view interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (view, tea.Cmd)
	View(width, height int) string
	Unmount() error
	// Typing reports that the view is capturing keystrokes, so global
	// shortcuts must not fire.
	Typing() bool
}

// App is the root Bubble Tea model.
type App struct {
	deps  Deps
	match router.Match
	cur   view

	width, height int
	narrow        bool
	sub           *layout.Subscription

	prompt    textinput.Model
	prompting bool

	status    string
	statusErr bool

	closed bool
	err    error
}

// New builds the app and mounts the view for start.
func New(deps Deps, start string) *App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Routes == nil {
		deps.Routes = router.Default()
	}

	a := &App{deps: deps}
	a.prompt = textinput.New()
	a.prompt.Prompt = ": "
	a.prompt.Placeholder = "/path"
	a.prompt.CharLimit = 200
	a.sub = deps.Signal.Observe(func(n bool) { a.narrow = n })
	a.mount(start)
	return a
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, deps Deps, start string) error {
	a := New(deps, start)
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	a.Close()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return a.err
}

// Close unmounts the current view and stops observing the layout signal.
// Safe to call more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if err := a.cur.Unmount(); err != nil {
		a.deps.Logger.Error("unmount view", zap.String("path", a.match.Path), zap.Error(err))
		a.err = err
	}
	a.sub.Release()
}

func (a *App) mount(p string) {
	a.match = a.deps.Routes.Resolve(p)
	a.deps.Logger.Debug("navigate",
		zap.String("path", a.match.Path),
		zap.String("view", string(a.match.Route.View)),
		zap.Bool("found", a.match.Found))

	switch a.match.Route.View {
	case router.ViewAdmin:
		a.cur = newAdminView(a.deps)
	case router.ViewHome:
		a.cur = newHomeView(a.deps)
	case router.ViewTodo:
		a.cur = newTodoView(a.deps.Todos)
	default:
		a.cur = newNotFoundView(a.match)
	}
}

func (a *App) navigate(p string) tea.Cmd {
	a.status, a.statusErr = "", false
	if err := a.cur.Unmount(); err != nil {
		a.deps.Logger.Error("unmount view", zap.String("path", a.match.Path), zap.Error(err))
		a.status, a.statusErr = err.Error(), true
	}
	a.mount(p)
	if !a.match.Found {
		a.status = fmt.Sprintf("no route for %s", a.match.Path)
	}
	return a.cur.Init()
}

func (a *App) waitForChange() tea.Cmd {
	ch := a.deps.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		loc, ok := <-ch
		if !ok {
			return nil
		}
		return sourceChangedMsg{locator: loc}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.cur.Init(), a.waitForChange())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.deps.Viewport.Resize(msg.Width)

	case navigateMsg:
		return a, a.navigate(msg.path)

	case sourceChangedMsg:
		a.deps.Logger.Info("csv source changed", zap.String("locator", msg.locator))
		v, cmd := a.cur.Update(msg)
		a.cur = v
		return a, tea.Batch(cmd, a.waitForChange())

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			a.Close()
			return a, tea.Quit
		}
		if a.prompting {
			return a, a.updatePrompt(msg)
		}
		if !a.cur.Typing() {
			switch msg.String() {
			case "q":
				a.Close()
				return a, tea.Quit
			case ":":
				a.prompting = true
				a.prompt.SetValue("")
				return a, a.prompt.Focus()
			case "tab":
				return a, a.navigate(a.deps.Routes.Next(a.match.Path).Path)
			}
		}
	}

	v, cmd := a.cur.Update(msg)
	a.cur = v
	return a, cmd
}

func (a *App) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		p := strings.TrimSpace(a.prompt.Value())
		a.prompting = false
		a.prompt.Blur()
		if p == "" {
			return nil
		}
		return a.navigate(p)
	case tea.KeyEsc:
		a.prompting = false
		a.prompt.Blur()
		return nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(msg)
	return cmd
}

func (a *App) View() string {
	if a.closed {
		return ""
	}
	w, h := a.width, a.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	header := a.header()
	footer := a.footer()
	// panel border and padding take 4 columns and 2 lines
	bodyH := h - 2 - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}
	body := a.cur.View(w-4, bodyH)
	return panelString(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (a *App) header() string {
	if a.narrow {
		name := a.match.Route.Name
		return titleStyle.Render("csvboard") + " " + accentStyle.Render(name)
	}
	tabs := []string{titleStyle.Render("csvboard")}
	for _, r := range a.deps.Routes.Routes() {
		label := fmt.Sprintf(" %s %s ", r.Name, r.Path)
		if r.Path == a.match.Path {
			tabs = append(tabs, selectedStyle.Render(label))
		} else {
			tabs = append(tabs, mutedStyle.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (a *App) footer() string {
	if a.prompting {
		return a.prompt.View()
	}
	if a.status != "" {
		if a.statusErr {
			return errorStyle.Render(a.status)
		}
		return pendingStyle.Render(a.status)
	}
	mode := "wide"
	if a.narrow {
		mode = "narrow"
	}
	return helpStyle.Render(fmt.Sprintf("tab next view · : go to path · q quit · %s", mode))
}
