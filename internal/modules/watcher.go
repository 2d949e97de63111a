package modules

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"aios/internal/logging"
)

// WatchEvent reports a file-system change to a registered module. Result is
// nil when the module file was removed.
type WatchEvent struct {
	Module string
	Op     string // created, modified, removed
	Result *VerifyResult
}

// Watcher re-verifies registered modules whenever their files change on
// disk. Only files whose names appear in the ledger produce events.
type Watcher struct {
	registry  *Registry
	fsw       *fsnotify.Watcher
	events    chan WatchEvent
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher starts watching the registry's module directory.
func NewWatcher(reg *Registry) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(reg.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		registry: reg,
		fsw:      fsw,
		events:   make(chan WatchEvent, 16),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.loop()
	logging.Modules("watching %s for module changes", reg.Dir())
	return w, nil
}

// Events returns the channel verification events arrive on. The channel is
// closed when the watcher shuts down.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Close stops the watcher and closes the event channel. It returns even when
// nothing is draining Events().
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.quit) })
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.ModulesWarn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if _, ok := w.registry.Lookup(name); !ok {
		return
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		w.emit(WatchEvent{Module: name, Op: "removed"})
	case ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write):
		op := "modified"
		if ev.Op.Has(fsnotify.Create) {
			op = "created"
		}
		res, err := w.registry.Verify(name)
		if err != nil {
			logging.ModulesWarn("re-verify %s: %v", name, err)
			return
		}
		w.emit(WatchEvent{Module: name, Op: op, Result: &res})
	}
}

// emit delivers ev unless the watcher is shutting down. The select keeps the
// event loop from blocking on a full channel with no consumer, which would
// leave Close waiting on the loop forever.
func (w *Watcher) emit(ev WatchEvent) {
	select {
	case w.events <- ev:
	case <-w.quit:
	}
}
