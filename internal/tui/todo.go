package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/csvboard/internal/model"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct {
	ID   string
	Text string
	Done bool
}

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// single-line rendering
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	boxStyled := mutedStyle.Render(boxUnchecked)
	textStyled := it.Text
	if it.Done {
		boxStyled = successStyle.Render(boxChecked)
		textStyled = doneStyle.Render(it.Text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+boxStyled+" "+textStyled)
}

// todoView is the to-do list. Changes are written back when the view is
// left or the app quits.
type todoView struct {
	store   *jsonstore.Store
	list    list.Model
	changed bool
	loadErr error

	// inline add / edit share one text input
	adding    bool
	editing   bool
	editIndex int
	ti        textinput.Model
	inputErr  string

	// single-level undo of the last delete
	undoIndex int
	undoItem  *listItem
}

func newTodoView(store *jsonstore.Store) *todoView {
	var items []model.Item
	var loadErr error
	if store != nil {
		items, loadErr = store.Load()
	}

	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{ID: it.ID, Text: it.Title, Done: it.Done})
	}

	l := list.New(li, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	// quitting belongs to the app, which saves first
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	undoBind := key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo"))
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, toggleBind, delBind, undoBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New item title..."
	ti.CharLimit = 200

	return &todoView{store: store, list: l, ti: ti, loadErr: loadErr}
}

func (m *todoView) Init() tea.Cmd { return nil }

func (m *todoView) Typing() bool {
	return m.adding || m.editing || m.list.FilterState() == list.Filtering
}

// Unmount persists the list if it changed.
func (m *todoView) Unmount() error {
	if !m.changed || m.store == nil {
		return nil
	}
	if err := m.store.Save(m.items()); err != nil {
		return fmt.Errorf("save todos: %w", err)
	}
	m.changed = false
	return nil
}

func (m *todoView) items() []model.Item {
	out := make([]model.Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if li, ok := it.(listItem); ok {
			out = append(out, model.Item{ID: li.ID, Title: li.Text, Done: li.Done})
		}
	}
	return out
}

func (m *todoView) Update(msg tea.Msg) (view, tea.Cmd) {
	if m.adding || m.editing {
		return m, m.updateInput(msg)
	}

	k, isKey := msg.(tea.KeyMsg)
	if isKey && m.list.FilterState() != list.Filtering {
		switch k.String() {
		case " ":
			if li, ok := m.list.SelectedItem().(listItem); ok {
				li.Done = !li.Done
				m.list.SetItem(m.list.Index(), li)
				m.changed = true
			}
			return m, nil
		case "d":
			if li, ok := m.list.SelectedItem().(listItem); ok {
				tmp := li
				m.undoItem = &tmp
				m.undoIndex = m.list.Index()
				m.list.RemoveItem(m.list.Index())
				m.changed = true
			}
			return m, nil
		case "a":
			m.adding = true
			m.inputErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New item title..."
			return m, m.ti.Focus()
		case "e":
			if li, ok := m.list.SelectedItem().(listItem); ok {
				m.editing = true
				m.inputErr = ""
				m.editIndex = m.list.Index()
				m.ti.SetValue(li.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit item title..."
				return m, m.ti.Focus()
			}
			return m, nil
		case "u":
			if m.undoItem != nil {
				idx := min(max(m.undoIndex, 0), len(m.list.Items()))
				m.list.InsertItem(idx, *m.undoItem)
				m.changed = true
				m.undoItem = nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *todoView) updateInput(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEnter:
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.inputErr = "Title cannot be empty"
				return nil
			}
			if m.adding {
				it := model.NewItem(title)
				m.list.InsertItem(m.list.Index()+1, listItem{ID: it.ID, Text: it.Title})
			} else if m.editIndex >= 0 && m.editIndex < len(m.list.Items()) {
				if li, ok := m.list.Items()[m.editIndex].(listItem); ok {
					li.Text = title
					m.list.SetItem(m.editIndex, li)
				}
			}
			m.changed = true
			m.closeInput()
			return nil
		case tea.KeyEsc:
			m.closeInput()
			return nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return cmd
}

func (m *todoView) closeInput() {
	m.adding, m.editing = false, false
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m *todoView) View(width, height int) string {
	listHeight := height
	if m.adding || m.editing {
		listHeight = height - 4
	}
	m.list.SetSize(width, max(listHeight, 3))
	m.list.Title = m.title()

	content := m.list.View()
	if m.loadErr != nil {
		content = errorStyle.Render("load todos: "+m.loadErr.Error()) + "\n" + content
	}
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " " + errorStyle.Render(m.inputErr)
		}
		content = content + "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return content
}

func (m *todoView) title() string {
	done, pending := stats(m.items())
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), done+pending,
	)
}

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
