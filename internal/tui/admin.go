package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Makepad-fr/csvboard/internal/cart"
	"github.com/Makepad-fr/csvboard/internal/csvload"
	"github.com/Makepad-fr/csvboard/internal/layout"
	"github.com/Makepad-fr/csvboard/internal/model"
)

const (
	maxColumnWidth = 24
	cartWidth      = 32
)

var errNoSources = errors.New("no data sources configured (data.sources)")

// adminView is the dashboard: the rows of the configured CSV sources and a
// cart the user fills from them.
type adminView struct {
	loader   *csvload.Loader
	sources  []string
	priceCol string
	logger   *zap.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	gen     int
	loading bool
	err     error

	tables map[string]csvload.Table
	active int
	rows   []model.Row
	table  table.Model

	cart   *cart.Cart
	note   string
	narrow bool
	sub    *layout.Subscription
}

func newAdminView(d Deps) *adminView {
	ctx, cancel := context.WithCancel(context.Background())
	v := &adminView{
		loader:   d.Loader,
		sources:  d.Sources,
		priceCol: d.PriceColumn,
		logger:   d.Logger,
		ctx:      ctx,
		cancel:   cancel,
		tables:   map[string]csvload.Table{},
		cart:     cart.New(),
		table: table.New(
			table.WithFocused(true),
			table.WithHeight(10),
		),
	}
	v.sub = d.Signal.Observe(func(n bool) { v.narrow = n })
	return v
}

func (v *adminView) Init() tea.Cmd { return v.load() }

// load fetches every source under the view's context. Results from earlier
// loads are dropped by generation.
func (v *adminView) load() tea.Cmd {
	if len(v.sources) == 0 {
		v.err = errNoSources
		return nil
	}
	v.gen++
	v.loading = true
	gen, ctx, loader, sources := v.gen, v.ctx, v.loader, slices.Clone(v.sources)
	return func() tea.Msg {
		tables, err := loader.LoadAll(ctx, sources...)
		return loadedMsg{owner: v, gen: gen, tables: tables, err: err}
	}
}

func (v *adminView) Unmount() error {
	v.cancel()
	v.sub.Release()
	return nil
}

func (v *adminView) Typing() bool { return false }

func (v *adminView) Update(msg tea.Msg) (view, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.owner != v || msg.gen != v.gen {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			// keep what was on screen; the error is shown above it
			v.err = msg.err
			return v, nil
		}
		v.err, v.note = nil, ""
		v.tables = msg.tables
		v.refreshTable()
		return v, nil

	case sourceChangedMsg:
		if slices.Contains(v.sources, msg.locator) {
			v.note = "reloaded " + msg.locator
			return v, v.load()
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if row, ok := v.selected(); ok {
				if it, err := v.cart.Add(row); err != nil {
					v.note = err.Error()
				} else {
					v.note = fmt.Sprintf("%s ×%d in cart", it.ID(), it.Quantity)
				}
			}
			return v, nil
		case "+", "=":
			v.adjust(1)
			return v, nil
		case "-":
			v.adjust(-1)
			return v, nil
		case "x":
			if row, ok := v.selected(); ok {
				if err := v.cart.Remove(row.ID()); err == nil {
					v.note = row.ID() + " removed"
				}
			}
			return v, nil
		case "r":
			return v, v.load()
		case "]":
			v.switchSource(1)
			return v, nil
		case "[":
			v.switchSource(-1)
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *adminView) selected() (model.Row, bool) {
	i := v.table.Cursor()
	if i < 0 || i >= len(v.rows) {
		return nil, false
	}
	return v.rows[i], true
}

func (v *adminView) adjust(delta int) {
	row, ok := v.selected()
	if !ok {
		return
	}
	if err := v.cart.Adjust(row.ID(), delta); errors.Is(err, cart.ErrNotFound) && delta > 0 {
		_, _ = v.cart.Add(row)
	}
}

func (v *adminView) switchSource(delta int) {
	if len(v.sources) < 2 {
		return
	}
	v.active = (v.active + delta + len(v.sources)) % len(v.sources)
	v.refreshTable()
}

func (v *adminView) refreshTable() {
	t := v.tables[v.sources[v.active]]
	v.rows = t.Rows

	cols := make([]table.Column, len(t.Columns))
	for i, c := range t.Columns {
		w := lipgloss.Width(c)
		for _, r := range t.Rows {
			w = max(w, lipgloss.Width(r[c]))
		}
		cols[i] = table.Column{Title: c, Width: min(w, maxColumnWidth)}
	}
	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		cells := make(table.Row, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = strings.ReplaceAll(r[c], "\n", " ")
		}
		rows[i] = cells
	}

	// rows must never be wider than the columns they render under
	v.table.SetRows(nil)
	v.table.SetColumns(cols)
	v.table.SetRows(rows)
	v.table.SetCursor(min(v.table.Cursor(), len(rows)-1))
}

func (v *adminView) View(width, height int) string {
	status := v.statusLine()
	cartBox := v.cartView()

	tableH := height - lipgloss.Height(status) - 1
	var body string
	if v.narrow {
		tableH -= lipgloss.Height(cartBox)
		v.table.SetHeight(max(tableH, 3))
		v.table.SetWidth(width)
		body = lipgloss.JoinVertical(lipgloss.Left, v.table.View(), cartBox)
	} else {
		v.table.SetHeight(max(tableH, 3))
		v.table.SetWidth(max(width-cartWidth-2, 20))
		body = lipgloss.JoinHorizontal(lipgloss.Top, v.table.View(), "  ", cartBox)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, body)
}

func (v *adminView) statusLine() string {
	var parts []string
	if len(v.sources) > 0 {
		src := v.sources[v.active]
		if len(v.sources) > 1 {
			src = fmt.Sprintf("%s (%d/%d, [ ] to switch)", src, v.active+1, len(v.sources))
		}
		parts = append(parts, accentStyle.Render(src))
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d rows", len(v.rows))))
	}
	if v.loading {
		parts = append(parts, pendingStyle.Render("loading…"))
	}
	if v.err != nil {
		parts = append(parts, errorStyle.Render(describeLoadError(v.err)))
	} else if v.note != "" {
		parts = append(parts, successStyle.Render(v.note))
	}
	return strings.Join(parts, "  ")
}

func (v *adminView) cartView() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Cart  %d items / %d units", v.cart.Len(), v.cart.Units()))}
	items := v.cart.Items()
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("enter adds the selected row"))
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s ×%d", it.ID(), it.Quantity))
	}
	if v.priceCol != "" && len(items) > 0 {
		lines = append(lines, accentStyle.Render(fmt.Sprintf("Total %.2f", v.cart.Total(v.priceCol))))
	}
	lines = append(lines, helpStyle.Render("+/- qty · x remove · r reload"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	if !v.narrow {
		box = box.Width(cartWidth - 2)
	}
	return box.Render(strings.Join(lines, "\n"))
}

func describeLoadError(err error) string {
	var te *csvload.TransportError
	var pe *csvload.ParseError
	switch {
	case errors.As(err, &te) && te.StatusCode != 0:
		return fmt.Sprintf("fetch failed: %s returned %d", te.Locator, te.StatusCode)
	case errors.As(err, &te):
		return fmt.Sprintf("fetch failed: %v", te.Err)
	case errors.As(err, &pe) && len(pe.Diagnostics) > 0:
		return fmt.Sprintf("malformed csv %s: %s", pe.Locator, pe.Diagnostics[0])
	default:
		return err.Error()
	}
}
