package fsmodel

import "slices"

// CopyBuffer holds the paths yanked or cut by the user. Entries in it are
// drawn with the copied or cut style.
type CopyBuffer struct {
	paths map[string]bool
	cut   bool
}

func NewCopyBuffer() *CopyBuffer { return &CopyBuffer{paths: map[string]bool{}} }

// Set replaces the buffer with paths.
func (b *CopyBuffer) Set(paths []string, cut bool) {
	b.paths = make(map[string]bool, len(paths))
	for _, p := range paths {
		b.paths[p] = true
	}
	b.cut = cut
}

func (b *CopyBuffer) Clear() {
	b.paths = map[string]bool{}
	b.cut = false
}

func (b *CopyBuffer) Contains(path string) bool { return b.paths[path] }
func (b *CopyBuffer) Cut() bool                 { return b.cut }
func (b *CopyBuffer) Len() int                  { return len(b.paths) }

// Paths returns the buffered paths, sorted.
func (b *CopyBuffer) Paths() []string {
	out := make([]string, 0, len(b.paths))
	for p := range b.paths {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
