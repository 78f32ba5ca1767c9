package fsmodel

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// minCoalesce groups the events of one burst into a single notification.
const minCoalesce = 50 * time.Millisecond

// ChangedMsg lists paths whose on-disk state changed: the directories an
// event happened in and the changed objects themselves.
type ChangedMsg struct {
	Paths []string
}

// Watcher reports changes inside the directories currently on screen.
// Notifications are rate limited so a busy directory cannot flood the UI.
type Watcher struct {
	fs      *fsnotify.Watcher
	limiter *rate.Limiter
	changes chan []string
	cancel  context.CancelFunc
	done    chan struct{}

	mu      sync.Mutex
	watched map[string]bool
}

// NewWatcher starts a watcher that emits at most perSecond notifications
// per second.
func NewWatcher(ctx context.Context, perSecond float64) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if perSecond <= 0 {
		perSecond = 4
	}
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		fs:      fw,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		changes: make(chan []string, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
		watched: map[string]bool{},
	}
	go w.loop(ctx)
	return w, nil
}

// Sync watches exactly paths, adding and removing watches as needed.
func (w *Watcher) Sync(paths []string) {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[filepath.Clean(p)] = true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for p := range w.watched {
		if !want[p] {
			_ = w.fs.Remove(p)
			delete(w.watched, p)
		}
	}
	for p := range want {
		if w.watched[p] {
			continue
		}
		if err := w.fs.Add(p); err != nil {
			log.Debug("watch directory", "path", p, "error", err)
			continue
		}
		w.watched[p] = true
	}
}

// Watched returns the watched paths, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.watched))
	for p := range w.watched {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Changes delivers batches of changed paths.
func (w *Watcher) Changes() <-chan []string { return w.changes }

// Wait returns a command that blocks until the next batch of changes.
// The command yields nil once the watcher is closed.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		paths, ok := <-w.changes
		if !ok {
			return nil
		}
		return ChangedMsg{Paths: paths}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	defer close(w.changes)

	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(ev.Name)
			pending[name] = true
			pending[filepath.Dir(name)] = true
			if fire == nil {
				delay := max(minCoalesce, w.limiter.Reserve().Delay())
				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Reset(delay)
				}
				fire = timer.C
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("directory watcher error", "error", err)
		case <-fire:
			fire = nil
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			pending = map[string]bool{}
			select {
			case w.changes <- batch:
			case <-ctx.Done():
				return
			}
		}
	}
}
