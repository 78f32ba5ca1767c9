package fsmodel

import (
	"bufio"
	"errors"
	"os"
	"strings"
	"sync"
)

// DefaultTagMarker is the marker of a tag written without one.
const DefaultTagMarker = "*"

// Tags is the set of tagged paths read from a text file, one per line. A
// line "m:/path" tags /path with marker m; a bare path uses the default.
// The file is only read here.
type Tags struct {
	mu     sync.RWMutex
	path   string
	byPath map[string]string
}

// LoadTags reads the tag file at path. A missing file is an empty set.
func LoadTags(path string) (*Tags, error) {
	t := &Tags{path: path, byPath: map[string]string{}}
	if path == "" {
		return t, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return t, nil
		}
		return t, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		marker := DefaultTagMarker
		if len(line) > 2 && line[1] == ':' && line[2] == '/' {
			marker, line = line[:1], line[2:]
		}
		t.byPath[line] = marker
	}
	return t, sc.Err()
}

// Marker returns the marker of a tagged path.
func (t *Tags) Marker(realpath string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.byPath[realpath]
	return m, ok
}

func (t *Tags) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byPath)
}

// Reload rereads the tag file, keeping the old set when it cannot be read.
func (t *Tags) Reload() error {
	fresh, err := LoadTags(t.path)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.byPath = fresh.byPath
	t.mu.Unlock()
	return nil
}
