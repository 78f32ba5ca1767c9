package config

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 150 * time.Millisecond

// Watcher reloads the settings file when it changes on disk and delivers the
// parsed result on Changes. Settings are not applied to any Store here: the
// receiver decides when to call Store.Replace, which keeps mutation on the
// UI goroutine.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan Settings
	cancel  context.CancelFunc
	done    chan struct{}
}

// Watch starts watching the directory holding path. The file itself may not
// exist yet.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		path:    filepath.Clean(path),
		watcher: fw,
		changes: make(chan Settings, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Changes delivers each successfully parsed reload.
func (w *Watcher) Changes() <-chan Settings {
	return w.changes
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("settings watcher error", "error", err)
		case <-fire:
			fire = nil
			s, err := Load(w.path)
			if err != nil {
				if !errors.Is(err, ErrNotConfigured) {
					log.Warn("reload settings", "path", w.path, "error", err)
				}
				continue
			}
			log.Info("settings reloaded", "path", w.path)
			// Drop a stale pending reload in favour of the newer one.
			select {
			case <-w.changes:
			default:
			}
			select {
			case w.changes <- s:
			case <-ctx.Done():
				return
			}
		}
	}
}
