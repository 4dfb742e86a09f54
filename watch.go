package keycast

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 100 * time.Millisecond

// ConfigWatcher signals when a configuration file is written or recreated.
// It never reads the file; the receiver reloads on its own goroutine.
type ConfigWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changed chan struct{}
	errs    chan error
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// WatchConfig starts watching path. The containing directory is watched so
// that editors replacing the file through a rename are still seen.
func WatchConfig(path string) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &ConfigWatcher{
		path:    path,
		watcher: watcher,
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Changed receives a value after each debounced change to the file.
func (w *ConfigWatcher) Changed() <-chan struct{} {
	return w.changed
}

// Errors receives watcher errors. Errors are dropped while one is pending.
func (w *ConfigWatcher) Errors() <-chan error {
	return w.errs
}

// Close stops watching and waits for the event loop to exit.
func (w *ConfigWatcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *ConfigWatcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	name := filepath.Base(w.path)
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			slog.Debug("config changed", "path", w.path)
			select {
			case w.changed <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}
