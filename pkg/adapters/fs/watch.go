package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/goinkwell/inkwell/pkg/core"
)

const defaultEventBuffer = 100

// Watch emits change events for content files matching the glob pattern
// until the context is cancelled. The channel is closed on shutdown.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**/*.md"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := r.recursiveAdd(watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	buffer := r.config.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	events := make(chan core.Event, buffer)

	w := &watchWorker{
		repo:      r,
		pattern:   pattern,
		watcher:   watcher,
		events:    events,
		debouncer: newDebouncer(50 * time.Millisecond),
	}
	go w.run(ctx)

	return events, nil
}

// recursiveAdd registers the content directory tree with the watcher,
// skipping the system dir. fsnotify does not watch recursively by itself.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == r.config.SystemDir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

type watchWorker struct {
	repo      *Repository
	pattern   string
	watcher   *fsnotify.Watcher
	events    chan core.Event
	debouncer *debouncer
}

func (w *watchWorker) run(ctx context.Context) {
	defer close(w.events)
	defer w.watcher.Close()
	defer w.debouncer.stopAndWait(5 * time.Second)

	logger := w.repo.config.Logger
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("fsnotify error", "error", err)
		}
	}
}

func (w *watchWorker) handle(ctx context.Context, event fsnotify.Event) {
	logger := w.repo.config.Logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	// New subdirectories must be registered or their files go unseen.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name) != w.repo.config.SystemDir {
				_ = w.watcher.Add(event.Name)
			}
			return
		}
	}

	if w.shouldIgnore(event.Name) {
		return
	}

	eType := mapEventType(event)
	if eType == "" {
		return
	}

	id, err := w.repo.resolveID(event.Name)
	if err != nil {
		logger.Debug("resolveID failed", "path", event.Name, "error", err)
		return
	}

	w.debouncer.add(core.Event{
		Type:      eType,
		ID:        id,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) || strings.HasPrefix(base, ".") {
		return true
	}
	if filepath.Ext(base) != ".md" {
		return true
	}

	relPath, err := filepath.Rel(w.repo.Path, path)
	if err != nil {
		return true
	}
	relPath = filepath.ToSlash(relPath)
	if strings.HasPrefix(relPath, w.repo.config.SystemDir+"/") {
		return true
	}

	match, err := doublestar.Match(w.pattern, relPath)
	if err != nil {
		return true
	}
	return !match
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

// debouncer coalesces bursts of events for the same post into a single
// delivery. One editor save typically produces a CREATE plus several
// WRITEs, so pending events are keyed by post ID and their types merged.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

type pendingEvent struct {
	timer *time.Timer
	event core.Event
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]*pendingEvent),
	}
}

// add schedules fire(event) after the debounce interval. Further events for
// the same post ID within the interval fold into the pending one instead of
// scheduling their own delivery.
func (d *debouncer) add(event core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[event.ID]; ok && p.timer.Stop() {
		p.event.Type = mergeEventType(p.event.Type, event.Type)
		p.event.Timestamp = event.Timestamp
		p.timer.Reset(d.interval)
		return
	}

	p := &pendingEvent{event: event}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		e := p.event
		if d.pending[e.ID] == p {
			delete(d.pending, e.ID)
		}
		d.mu.Unlock()

		fire(e)
	})
	d.pending[event.ID] = p
}

// mergeEventType collapses a burst of events for one post into the type
// describing its net effect: a delete trumps everything else, and writes
// that follow a creation are still a creation.
func mergeEventType(prev, next core.EventType) core.EventType {
	switch {
	case prev == core.EventDelete || next == core.EventDelete:
		return core.EventDelete
	case prev == core.EventCreate || next == core.EventCreate:
		return core.EventCreate
	}
	return next
}

// stopAndWait stops accepting events and waits for in-flight timers
// to finish, up to the timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
