package catalog

import (
	"context"
	"fmt"

	"ensemble/pkg/component"
	"ensemble/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes filesystem paths and publishes change notifications.
// It is informational only: operators tail the log or drain Events, and the
// running system is never mutated in response (hot reload is out of scope).
type Watcher struct {
	component.Base

	name  string
	paths []string

	watcher *fsnotify.Watcher
	events  chan fsnotify.Event
	done    chan struct{}
}

// NewWatcher builds a watcher component. Recognized args:
//
//	paths: list of files or directories to watch. Required.
func NewWatcher(name string, args map[string]interface{}) (*Watcher, error) {
	paths, err := stringsArg(args, "paths")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("watcher %q requires at least one path", name)
	}
	return &Watcher{name: name, paths: paths}, nil
}

func (w *Watcher) Start(ctx context.Context, sys component.Lookup) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	for _, path := range w.paths {
		if err := watcher.Add(path); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("watching %q: %w", path, err)
		}
	}

	w.watcher = watcher
	w.events = make(chan fsnotify.Event, 64)
	w.done = make(chan struct{})

	go w.run()

	logging.Info("Catalog", "watcher %q observing %d paths", w.name, len(w.paths))
	return nil
}

func (w *Watcher) run() {
	defer close(w.done)
	// run is the only sender, so it owns closing the events channel;
	// consumers ranging over Events terminate when the watcher stops.
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			logging.Debug("Catalog", "watcher %q: %s %s", w.name, event.Op, event.Name)
			select {
			case w.events <- event:
			default:
				// Slow consumer; drop rather than stall the watcher.
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Catalog", "watcher %q error: %v", w.name, err)
		}
	}
}

func (w *Watcher) Stop(ctx context.Context) error {
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	w.watcher = nil
	return err
}

// Events returns the notification channel. Notifications are dropped when
// the channel's buffer is full, so consumers get best-effort delivery. The
// channel is closed when the watcher stops.
func (w *Watcher) Events() <-chan fsnotify.Event {
	return w.events
}
