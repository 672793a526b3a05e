package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventBalancesChanged indicates the balances of Address changed.
	EventBalancesChanged EventType = iota
	// EventWatchChanged indicates the watch list of Address changed.
	EventWatchChanged
	// EventTransactionsChanged indicates transactions of Address/AssetID changed.
	EventTransactionsChanged
	// EventInvalidated signals that the change could not be classified and
	// callers should refresh everything they show.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventBalancesChanged:
		return "balances"
	case EventWatchChanged:
		return "watch"
	case EventTransactionsChanged:
		return "transactions"
	default:
		return "invalidated"
	}
}

// Event is emitted by Persistence.Watch when underlying storage changes.
type Event struct {
	Type    EventType
	Address string
	AssetID string
}

// Concerns reports whether a subscriber of address should react.
func (e Event) Concerns(address string) bool {
	return e.Type == EventInvalidated || e.Address == address
}

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel to avoid blocking the watcher. The channel is closed once
// ctx is done or the watcher encounters an unrecoverable error.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	if p.basePath == "" {
		return nil, errors.New("store: persistence base path unknown")
	}
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	dirs, err := collectDirs(p.basePath)
	if err != nil {
		p.closeWatcher(watcher)
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	watched := make(map[string]struct{}, len(dirs))
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			p.closeWatcher(watcher)
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
		watched[dir] = struct{}{}
	}

	out := &eventSink{ch: make(chan Event, 64)}
	go func() {
		defer out.close()
		defer p.closeWatcher(watcher)
		p.watchLoop(ctx, watcher, watched, out.send)
	}()
	p.log.Debug("watching", zap.String("path", p.basePath), zap.Int("dirs", len(dirs)))
	return out.ch, nil
}

func (p *persistence) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, watched map[string]struct{}, send func(Event)) {
	throttle := newEventThrottle(100 * time.Millisecond)
	defer throttle.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.log.Warn("watcher error", zap.Error(err))
			throttle.Enqueue(Event{Type: EventInvalidated}, send)
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if evt.Op&fsnotify.Create == fsnotify.Create && p.watchNewDirs(watcher, watched, evt.Name) {
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
				continue
			}
			throttle.Enqueue(p.eventForPath(evt.Name), send)
		}
	}
}

// watchNewDirs adds name and the directories below it to the watcher. diskv
// creates the whole record path at once, so nested directories may already
// exist. It reports whether name is a directory.
func (p *persistence) watchNewDirs(watcher *fsnotify.Watcher, watched map[string]struct{}, name string) bool {
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return false
	}
	nested, err := collectDirs(filepath.Clean(name))
	if err != nil {
		p.log.Warn("enumerate new directory", zap.String("dir", name), zap.Error(err))
	}
	for _, dir := range nested {
		if _, found := watched[dir]; found {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			p.log.Warn("watch new directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		watched[dir] = struct{}{}
	}
	return true
}

func (p *persistence) closeWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil {
		p.log.Warn("close watcher", zap.Error(err))
	}
}

// eventSink guards the event channel against sends after close. A full
// channel drops the event; the next refresh picks up the change.
type eventSink struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

func (s *eventSink) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

func (s *eventSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.ch)
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// eventForPath classifies a diskv path as `kind/address/asset[/tx]`.
func (p *persistence) eventForPath(path string) Event {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{Type: EventInvalidated}
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) < 3 {
		return Event{Type: EventInvalidated}
	}
	address, err := decode(parts[1])
	if err != nil {
		return Event{Type: EventInvalidated}
	}
	switch parts[0] {
	case kindBalance:
		return Event{Type: EventBalancesChanged, Address: address}
	case kindWatch:
		return Event{Type: EventWatchChanged, Address: address}
	case kindTx:
		assetID, err := decode(parts[2])
		if err != nil {
			return Event{Type: EventInvalidated}
		}
		return Event{Type: EventTransactionsChanged, Address: address, AssetID: assetID}
	}
	return Event{Type: EventInvalidated}
}

// eventThrottle coalesces rapid change notifications so the UI can redraw once
// per burst of filesystem activity instead of on every single write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	order   []Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if _, ok := t.pending[ev]; !ok {
		t.pending[ev] = struct{}{}
		t.order = append(t.order, ev)
	}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	order := t.order
	t.pending = make(map[Event]struct{})
	t.order = nil
	t.timer = nil
	t.mu.Unlock()

	for _, ev := range order {
		send(ev)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
