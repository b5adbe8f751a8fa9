package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/csvboard/internal/csvload"
	"github.com/Makepad-fr/csvboard/internal/layout"
	"github.com/Makepad-fr/csvboard/internal/router"
	"github.com/Makepad-fr/csvboard/internal/store/jsonstore"
)

const itemsCSV = "NAME,PRICE,STOCK\nWidget,2.50,4\nGadget,10,1\n"

func testDeps(t *testing.T, body string) Deps {
	t.Helper()
	store, err := jsonstore.New(filepath.Join(t.TempDir(), "todos.json"))
	require.NoError(t, err)

	loader := csvload.New(csvload.WithFileFetcher(csvload.FetcherFunc(
		func(ctx context.Context, _ string) ([]byte, error) {
			if err := ctx.Err(); err != nil {
				return nil, &csvload.TransportError{Locator: "items.csv", Err: err}
			}
			return []byte(body), nil
		})))

	vp := layout.NewTermViewport(120)
	return Deps{
		Routes:      router.Default(),
		Loader:      loader,
		Sources:     []string{"items.csv"},
		PriceColumn: "PRICE",
		Todos:       store,
		Viewport:    vp,
		Signal:      layout.NewSignal(vp, 100),
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

func send(a *App, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = a.Update(m)
	}
	return cmd
}

func goTo(a *App, path string) tea.Cmd {
	send(a, runes(":"))
	return send(a, runes(path), enter)
}

func loadAdmin(t *testing.T, a *App) *adminView {
	t.Helper()
	admin, ok := a.cur.(*adminView)
	require.True(t, ok, "current view is %T", a.cur)
	cmd := admin.load()
	require.NotNil(t, cmd)
	send(a, cmd())
	return admin
}

func TestStartPathSelectsView(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"/", &adminView{}},
		{"/home", &homeView{}},
		{"/todo", &todoView{}},
		{"/missing", &notFoundView{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			a := New(testDeps(t, itemsCSV), tt.path)
			defer a.Close()
			assert.IsType(t, tt.want, a.cur)
			assert.NotPanics(t, func() { _ = a.View() })
		})
	}
}

func TestTabCyclesRoutes(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()

	send(a, tab)
	assert.Equal(t, "/home", a.match.Path)
	send(a, tab)
	assert.Equal(t, "/todo", a.match.Path)
	send(a, tab)
	assert.Equal(t, "/", a.match.Path)
}

func TestPromptNavigation(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()

	goTo(a, "/home")
	assert.IsType(t, &homeView{}, a.cur)
	assert.False(t, a.prompting)

	goTo(a, "/tood")
	require.IsType(t, &notFoundView{}, a.cur)
	assert.False(t, a.match.Found)
	assert.Equal(t, "/todo", a.match.Suggestion)
	assert.Contains(t, a.View(), "/tood")

	// enter on the not-found view follows the suggestion
	cmd := send(a, enter)
	require.NotNil(t, cmd)
	send(a, cmd())
	assert.IsType(t, &todoView{}, a.cur)

	// esc abandons the prompt
	send(a, runes(":"), runes("/home"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.IsType(t, &todoView{}, a.cur)
	assert.False(t, a.prompting)
}

func TestAdminLoadsRowsAndFillsCart(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()
	send(a, tea.WindowSizeMsg{Width: 140, Height: 40})

	admin := loadAdmin(t, a)
	require.NoError(t, admin.err)
	require.Len(t, admin.rows, 2)
	assert.False(t, admin.loading)

	send(a, enter, enter)
	send(a, tea.KeyMsg{Type: tea.KeyDown}, runes("+"))
	items := admin.cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Widget", items[0].ID())
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Gadget", items[1].ID())
	assert.InDelta(t, 15.0, admin.cart.Total("PRICE"), 1e-9)

	send(a, runes("x"))
	assert.Equal(t, 1, admin.cart.Len())
	assert.Contains(t, a.View(), "Widget")
}

func TestAdminShowsLoadErrors(t *testing.T) {
	a := New(testDeps(t, "NAME,NOTE\nWidget,\"open\n"), "/")
	defer a.Close()

	admin := loadAdmin(t, a)
	var pe *csvload.ParseError
	require.ErrorAs(t, admin.err, &pe)
	assert.Empty(t, admin.rows)
	assert.Contains(t, a.View(), "malformed csv")
}

func TestAdminDropsStaleLoads(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()
	admin := a.cur.(*adminView)

	stale := admin.load()
	fresh := admin.load()
	send(a, stale())
	assert.True(t, admin.loading, "stale result must be ignored")
	send(a, fresh())
	assert.False(t, admin.loading)
	assert.Len(t, admin.rows, 2)
}

func TestLeavingAdminCancelsLoad(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()
	admin := a.cur.(*adminView)
	pending := admin.load()

	send(a, tab)
	require.Error(t, admin.ctx.Err())

	// the in-flight load now fails and nothing listens for it
	msg := pending().(loadedMsg)
	assert.ErrorIs(t, msg.err, context.Canceled)
	assert.NotPanics(t, func() { send(a, msg) })
}

func TestLayoutFollowsWindowWidth(t *testing.T) {
	d := testDeps(t, itemsCSV)
	a := New(d, "/")
	admin := loadAdmin(t, a)

	assert.Equal(t, 1, d.Viewport.Listeners())
	assert.Equal(t, 2, d.Signal.Observers())

	send(a, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.True(t, a.narrow)
	assert.True(t, admin.narrow)
	assert.Contains(t, a.footer(), "narrow")

	send(a, tea.WindowSizeMsg{Width: 101, Height: 30})
	assert.False(t, a.narrow)
	assert.False(t, admin.narrow)

	send(a, tab)
	assert.Equal(t, 1, d.Signal.Observers(), "admin view released its subscription")

	a.Close()
	a.Close()
	assert.Equal(t, 0, d.Signal.Observers())
	assert.Equal(t, 0, d.Viewport.Listeners())
}

func TestSourceChangeReloads(t *testing.T) {
	a := New(testDeps(t, itemsCSV), "/")
	defer a.Close()
	admin := loadAdmin(t, a)
	gen := admin.gen

	cmd := send(a, sourceChangedMsg{locator: "other.csv"})
	assert.Nil(t, cmd)
	assert.Equal(t, gen, admin.gen)

	cmd = send(a, sourceChangedMsg{locator: "items.csv"})
	require.NotNil(t, cmd)
	assert.Equal(t, gen+1, admin.gen)
}

func TestTodoViewSavesOnLeave(t *testing.T) {
	d := testDeps(t, itemsCSV)
	a := New(d, "/todo")
	defer a.Close()

	send(a, runes("a"))
	require.True(t, a.cur.Typing())
	// global shortcuts are suspended while typing
	send(a, runes("q"), runes(":"))
	assert.False(t, a.prompting)
	send(a, runes(" milk"), enter)
	assert.False(t, a.cur.Typing())

	send(a, runes("a"), enter)
	todo := a.cur.(*todoView)
	assert.Equal(t, "Title cannot be empty", todo.inputErr)
	send(a, tea.KeyMsg{Type: tea.KeyEsc})

	send(a, runes(" "))
	send(a, tab)

	items, err := d.Todos.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "q: milk", items[0].Title)
	assert.True(t, items[0].Done)
	assert.NotEmpty(t, items[0].ID)
}

func TestTodoDeleteAndUndo(t *testing.T) {
	d := testDeps(t, itemsCSV)
	a := New(d, "/todo")
	defer a.Close()

	send(a, runes("a"), runes("one"), enter)
	send(a, runes("a"), runes("two"), enter)
	todo := a.cur.(*todoView)
	require.Len(t, todo.items(), 2)

	send(a, runes("d"))
	require.Len(t, todo.items(), 1)
	send(a, runes("u"))
	require.Len(t, todo.items(), 2)

	send(a, runes("q"))
	items, err := d.Todos.Load()
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
