package logging

import (
	"bytes"
	"sync"
)

// LineRing keeps the last N complete lines written to it.
// It implements io.Writer and silently drops the oldest line when full.
type LineRing struct {
	mu      sync.Mutex
	lines   []string
	next    int
	full    bool
	partial []byte
}

// NewLineRing creates a ring holding up to size lines.
func NewLineRing(size int) *LineRing {
	if size <= 0 {
		size = 1
	}
	return &LineRing{lines: make([]string, size)}
}

// Write implements io.Writer. Bytes after the last newline are held until
// the rest of the line arrives.
func (r *LineRing) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := append(r.partial, p...)
	for {
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		r.push(string(data[:idx]))
		data = data[idx+1:]
	}
	r.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (r *LineRing) push(line string) {
	r.lines[r.next] = line
	r.next++
	if r.next == len(r.lines) {
		r.next = 0
		r.full = true
	}
}

// Lines returns the buffered lines in chronological order.
func (r *LineRing) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]string, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]string, 0, len(r.lines))
	out = append(out, r.lines[r.next:]...)
	out = append(out, r.lines[:r.next]...)
	return out
}
