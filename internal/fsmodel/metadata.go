package fsmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/treykane/filecols/internal/view"
)

// MetadataFileName is the per-directory file holding user metadata, an
// object keyed by entry name whose values are objects of attributes.
const MetadataFileName = ".metadata.json"

type metadataDir struct {
	modTime time.Time
	entries map[string]view.Metadata
}

// Metadata serves per-file attributes from the .metadata.json of each
// directory, rereading a file only when its mtime changes.
type Metadata struct {
	mu   sync.Mutex
	dirs map[string]*metadataDir
}

// NewMetadata returns an empty metadata cache.
func NewMetadata() *Metadata {
	return &Metadata{dirs: map[string]*metadataDir{}}
}

// Metadata returns the attributes recorded for path, or nil.
func (m *Metadata) Metadata(path string) view.Metadata {
	dir, name := filepath.Split(filepath.Clean(path))
	dir = filepath.Clean(dir)
	file := filepath.Join(dir, MetadataFileName)

	fi, err := os.Stat(file)
	if err != nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cached, ok := m.dirs[dir]
	if !ok || !cached.modTime.Equal(fi.ModTime()) {
		entries, err := readMetadataFile(file)
		if err != nil {
			log.Warn("read metadata", "path", file, "error", err)
			entries = nil
		}
		cached = &metadataDir{modTime: fi.ModTime(), entries: entries}
		m.dirs[dir] = cached
	}
	return cached.entries[name]
}

func readMetadataFile(path string) (map[string]view.Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	out := make(map[string]view.Metadata, len(raw))
	for name, attrs := range raw {
		md := make(view.Metadata, len(attrs))
		for k, v := range attrs {
			switch v := v.(type) {
			case nil:
			case string:
				md[k] = v
			default:
				md[k] = fmt.Sprint(v)
			}
		}
		out[name] = md
	}
	return out, nil
}
