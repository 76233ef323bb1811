package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/shelf/pkg/core"
)

// DebounceInterval coalesces the burst of events an atomic rewrite produces.
const DebounceInterval = 50 * time.Millisecond

// Watch reports out-of-band changes to the books and users files.
//
// The data directory is watched rather than the files themselves, because
// every save replaces the file by rename. The returned channel is closed once
// ctx is done.
func (g *Gateway) Watch(ctx context.Context) (<-chan core.Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(g.config.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", g.config.Dir, err)
	}

	events := make(chan core.Event, 16)
	g.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		return g.runWatch(ctx, watcher, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		g.handleWatcherError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (g *Gateway) runWatch(ctx context.Context, watcher *fsnotify.Watcher, events chan core.Event) (err error) {
	d := newDebouncer(DebounceInterval)
	done := make(chan struct{})
	defer func() {
		if recovered := recover(); recovered != nil {
			attrs := []any{"error", recovered}
			if g.config.Logger.Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			g.config.Logger.Error("watcher panic", attrs...)
			err = fmt.Errorf("watcher panic: %v", recovered)
		}
		shutdownEvents(d, done, events)
		_ = watcher.Close()
		g.setWatcherActive(false)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if e, ok := g.mapEvent(event); ok {
				d.add(e, forward(ctx, done, events))
			}

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			g.handleWatcherError(wErr)
		}
	}
}

// forward returns a debounce callback that delivers to events, giving up once
// ctx is done or the watch loop has exited.
func forward(ctx context.Context, done <-chan struct{}, events chan<- core.Event) func(core.Event) {
	return func(e core.Event) {
		select {
		case events <- e:
		case <-ctx.Done():
		case <-done:
		}
	}
}

// shutdownEvents releases pending deliveries and closes events once no
// callback can still send on it. A callback that outlives the wait leaves
// the channel open.
func shutdownEvents(d *debouncer, done chan struct{}, events chan core.Event) {
	close(done)
	if d.stopAndWait(5 * time.Second) {
		close(events)
	}
}

// mapEvent keeps only writes, creates, renames and removes of the two data files.
func (g *Gateway) mapEvent(event fsnotify.Event) (core.Event, bool) {
	g.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if strings.HasPrefix(filepath.Base(event.Name), TempFilePrefix) {
		return core.Event{}, false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return core.Event{}, false
	}

	name := filepath.Clean(event.Name)
	var t core.EventType
	switch name {
	case filepath.Clean(g.BooksPath()):
		t = core.EventBooksChanged
	case filepath.Clean(g.UsersPath()):
		t = core.EventUsersChanged
	default:
		return core.Event{}, false
	}

	return core.Event{Type: t, Path: name, Timestamp: time.Now().Unix()}, true
}

func (g *Gateway) handleWatcherError(err error) {
	g.config.Logger.Error("fsnotify error", "error", err)
	if g.config.ErrorHandler != nil {
		g.config.ErrorHandler(err)
	}
}

// debouncer delivers only the last event per path within the interval.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[e.Path]; ok && t.Stop() {
		d.wg.Done()
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.timers[e.Path] == t {
			delete(d.timers, e.Path)
		}
		d.mu.Unlock()

		fire(e)
	})
	d.timers[e.Path] = t
}

// stopAndWait cancels pending timers and waits for running callbacks, up to
// timeout. It reports whether every callback finished.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
