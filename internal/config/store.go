package config

import (
	"sync"

	"github.com/treykane/filecols/internal/logging"
)

var log = logging.New("config")

// Store holds the live settings. Every change bumps Version and notifies
// subscribers synchronously on the goroutine that made the change.
type Store struct {
	mu      sync.RWMutex
	current Settings
	version uint64
	nextID  int
	subs    map[int]func(Settings)
}

// NewStore returns a store seeded with s.
func NewStore(s Settings) *Store {
	return &Store{current: s, version: 1, subs: map[int]func(Settings){}}
}

// Get returns a copy of the current settings.
func (st *Store) Get() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Version increases by one on every Set or Replace.
func (st *Store) Version() uint64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.version
}

// Set applies fn to a copy of the settings and publishes the result.
func (st *Store) Set(fn func(*Settings)) {
	st.mu.Lock()
	next := st.current
	fn(&next)
	st.mu.Unlock()
	st.Replace(next)
}

// Replace publishes s wholesale, as after a reload from disk.
func (st *Store) Replace(s Settings) {
	if err := s.Normalize(); err != nil {
		log.Warn("rejected settings", "error", err)
		return
	}
	st.mu.Lock()
	st.current = s
	st.version++
	subs := make([]func(Settings), 0, len(st.subs))
	for _, fn := range st.subs {
		subs = append(subs, fn)
	}
	st.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// Subscribe registers fn for change notifications. The returned func
// removes the registration and may be called more than once.
func (st *Store) Subscribe(fn func(Settings)) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = fn
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			delete(st.subs, id)
			st.mu.Unlock()
		})
	}
}

// Subscribers reports how many callbacks are registered.
func (st *Store) Subscribers() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.subs)
}
