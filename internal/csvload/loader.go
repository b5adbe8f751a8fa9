// Package csvload fetches CSV resources and turns them into rows.
package csvload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/csvboard/internal/model"
)

// Loader fetches and parses CSV resources. One attempt per call, no retries.
type Loader struct {
	http   Fetcher
	file   Fetcher
	logger *zap.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPFetcher replaces the fetcher used for http(s) locators.
func WithHTTPFetcher(f Fetcher) Option { return func(l *Loader) { l.http = f } }

// WithFileFetcher replaces the fetcher used for local locators.
func WithFileFetcher(f Fetcher) Option { return func(l *Loader) { l.file = f } }

// WithLogger sets the logger failures are reported to.
func WithLogger(lg *zap.Logger) Option { return func(l *Loader) { l.logger = lg } }

// WithHTTP builds the default HTTP fetcher with a request timeout and an
// optional bearer token source.
func WithHTTP(timeout time.Duration, token func() string) Option {
	return func(l *Loader) {
		l.http = &HTTPFetcher{Client: &http.Client{Timeout: timeout}, Token: token}
	}
}

func New(opts ...Option) *Loader {
	l := &Loader{
		http:   &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}},
		file:   FileFetcher{},
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the rows of the CSV behind locator in source order.
func (l *Loader) Load(ctx context.Context, locator string) ([]model.Row, error) {
	t, err := l.LoadTable(ctx, locator)
	if err != nil {
		return nil, err
	}
	return t.Rows, nil
}

// LoadTable is Load but also keeps the header column order.
func (l *Loader) LoadTable(ctx context.Context, locator string) (Table, error) {
	f := l.file
	if isHTTP(locator) {
		f = l.http
	}

	b, err := f.Fetch(ctx, locator)
	if err != nil {
		// cancelled loads were abandoned by their caller or a failing sibling
		log := l.logger.Error
		if errors.Is(err, context.Canceled) {
			log = l.logger.Debug
		}
		log("load csv: fetch failed",
			zap.String("locator", locator),
			zap.Error(err))
		return Table{}, err
	}

	t, err := parseBytes(b)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			pe.Locator = locator
			l.logger.Error("load csv: parse failed",
				zap.String("locator", locator),
				zap.Int("diagnostics", len(pe.Diagnostics)),
				zap.Error(pe))
			return Table{}, pe
		}
		l.logger.Error("load csv: parse failed", zap.String("locator", locator), zap.Error(err))
		return Table{}, fmt.Errorf("parse %s: %w", locator, err)
	}

	l.logger.Debug("load csv",
		zap.String("locator", locator),
		zap.Int("columns", len(t.Columns)),
		zap.Int("rows", len(t.Rows)))
	return t, nil
}

// LoadAll loads every locator concurrently. The first failure cancels the
// remaining loads and is returned; no partial result is returned with it.
func (l *Loader) LoadAll(ctx context.Context, locators ...string) (map[string]Table, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[string]Table, len(locators))
	for _, loc := range locators {
		loc := loc
		g.Go(func() error {
			t, err := l.LoadTable(gctx, loc)
			if err != nil {
				return err
			}
			mu.Lock()
			out[loc] = t
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
