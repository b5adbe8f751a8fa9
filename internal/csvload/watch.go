package csvload

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to local CSV files. Events for the same file
// arriving within the debounce window collapse into one notification.
// The parent directory is watched so editors that replace files on save
// are still seen.
type Watcher struct {
	fw       *fsnotify.Watcher
	files    map[string]string // cleaned path -> locator
	debounce time.Duration
	logger   *zap.Logger

	events chan string
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWatcher starts watching the local locators among locs. Remote locators
// are ignored.
func NewWatcher(locs []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fw:       fw,
		files:    make(map[string]string),
		debounce: debounce,
		logger:   logger,
		events:   make(chan string, len(locs)+1),
		stopCh:   make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, loc := range locs {
		p, ok := LocalPath(loc)
		if !ok {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		abs = filepath.Clean(abs)
		w.files[abs] = loc
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers the locator of each changed file. It is closed by Close.
func (w *Watcher) Events() <-chan string { return w.events }

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.fw.Close()
		w.wg.Wait()
		close(w.events)
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			loc, tracked := w.files[filepath.Clean(ev.Name)]
			if !tracked {
				continue
			}
			pending[loc] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("csv watcher error", zap.Error(err))

		case <-timer.C:
			for loc := range pending {
				select {
				case w.events <- loc:
				case <-w.stopCh:
					return
				}
				delete(pending, loc)
			}
		}
	}
}
