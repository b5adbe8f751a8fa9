// Package router maps URL-style paths to views.
package router

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/agnivade/levenshtein"
)

// View identifies what a route renders. The host decides how to mount it.
type View string

const (
	ViewAdmin    View = "admin"
	ViewHome     View = "home"
	ViewTodo     View = "todo"
	ViewNotFound View = "not-found"
)

// Root is the one path every table must register.
const Root = "/"

// Route is an immutable table entry.
type Route struct {
	Path string
	Name string
	View View
}

// NotFound is what unregistered paths resolve to.
var NotFound = Route{Name: "not-found", View: ViewNotFound}

// Match is the outcome of a lookup.
type Match struct {
	Route Route
	Found bool
	// Path is the normalised input.
	Path string
	// Suggestion is the closest registered path on a miss, if any is close.
	Suggestion string
}

// Table is an ordered, static route list.
type Table struct {
	routes []Route
	byPath map[string]int
	byName map[string]int
}

var (
	ErrNoRoot        = errors.New("route table has no root entry")
	ErrDuplicatePath = errors.New("duplicate route path")
	ErrDuplicateName = errors.New("duplicate route name")
	ErrRelativePath  = errors.New("route path must start with /")
)

// New validates routes and builds the table.
func New(routes ...Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
		byName: make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: %q", ErrRelativePath, r.Path)
		}
		r.Path = Normalize(r.Path)
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
		}
		t.byPath[r.Path] = len(t.routes)
		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	if _, ok := t.byPath[Root]; !ok {
		return nil, ErrNoRoot
	}
	return t, nil
}

// Default is the application table: the admin dashboard at the root plus the
// home and to-do views.
func Default() *Table {
	t, err := New(
		Route{Path: "/", Name: "admin", View: ViewAdmin},
		Route{Path: "/home", Name: "home", View: ViewHome},
		Route{Path: "/todo", Name: "todo", View: ViewTodo},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns the entries in registration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// ByName looks a route up by name.
func (t *Table) ByName(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Resolve looks p up. It never fails: a miss yields NotFound.
func (t *Table) Resolve(p string) Match {
	n := Normalize(p)
	if i, ok := t.byPath[n]; ok {
		return Match{Route: t.routes[i], Found: true, Path: n}
	}
	return Match{Route: NotFound, Path: n, Suggestion: t.suggest(n)}
}

// Next returns the route registered after the one at p, wrapping around.
// Unknown paths yield the first route.
func (t *Table) Next(p string) Route {
	i, ok := t.byPath[Normalize(p)]
	if !ok {
		return t.routes[0]
	}
	return t.routes[(i+1)%len(t.routes)]
}

func (t *Table) suggest(p string) string {
	best, bestDist := "", -1
	for _, r := range t.routes {
		d := levenshtein.ComputeDistance(p, r.Path)
		if bestDist < 0 || d < bestDist {
			best, bestDist = r.Path, d
		}
	}
	// only offer near misses
	limit := len(p) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// Normalize reduces p to the form routes are keyed by: query and fragment
// dropped, lower-cased, cleaned, leading slash, no trailing slash.
func Normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.ToLower(strings.TrimSpace(p))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
