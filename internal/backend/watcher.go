// Package backend watches the app lookup directories and reports when files
// appear or change, so the host can rescan.
package backend

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event lists the files that changed since the previous event, or carries a
// watcher error.
type Event struct {
	Paths []string
	Err   error
}

// Watcher turns fsnotify events into throttled rescan events.
type Watcher struct {
	fs       *fsnotify.Watcher
	interval time.Duration
	dirs     []string

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher watches every existing directory in dirs. Events are at least
// interval apart; changes in between are merged into the next event.
func NewWatcher(dirs []string, interval time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		fs:       fsw,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			logging.Warn("cannot watch app path", zap.String("path", dir), zap.Error(err))
			continue
		}
		w.dirs = append(w.dirs, dir)
	}

	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w, nil
}

// Dirs returns the directories actually being watched.
func (w *Watcher) Dirs() []string {
	return append([]string(nil), w.dirs...)
}

// Events returns the event channel. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop ends watching and releases the fsnotify handle.
func (w *Watcher) Stop() {
	w.cancel()
	if err := w.fs.Close(); err != nil {
		logging.Debug("closing fsnotify watcher", zap.Error(err))
	}
}

// Wait blocks until the event channel is closed. Call after Stop.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Chmod)
}

func (w *Watcher) run() {
	defer w.wg.Done()
	throttle := newThrottle(w.interval)

	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			pending := map[string]struct{}{ev.Name: {}}
			if !throttle.wait(w.ctx) {
				return
			}
			w.drain(pending)
			if !w.emit(Event{Paths: sortedKeys(pending)}) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !w.emit(Event{Err: err}) {
				return
			}
		}
	}
}

// drain merges events that queued up while throttled.
func (w *Watcher) drain(pending map[string]struct{}) {
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if relevant(ev) {
				pending[ev.Name] = struct{}{}
			}
		default:
			return
		}
	}
}

func (w *Watcher) emit(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
