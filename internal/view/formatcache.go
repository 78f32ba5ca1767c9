package view

import (
	"slices"
	"sync"
)

// Signature is everything that can change how one row looks. Two draws with
// equal signatures produce the same fragments apart from the line number.
type Signature struct {
	Width           int
	Selected        bool
	Marked          bool
	MainColumn      bool
	Copied          bool
	TagMarker       string
	InfoString      string
	VCSStatus       VCSStatus
	VCSRemoteStatus VCSRemoteStatus
	HasVCSChild     bool
	CutMode         bool
	Linemode        string
	MetadataHash    uint64
	ActivePane      bool
	Numbering       string
	NumberWidth     int
	// SettingsVersion invalidates rows when any display option changes.
	SettingsVersion uint64
}

// FormatCache remembers the rendered fragments of one entry per signature.
// It lives as long as the entry, so replacing a listing drops its rows.
type FormatCache struct {
	mu   sync.Mutex
	rows map[Signature][]Fragment
}

// NewFormatCache returns an empty cache.
func NewFormatCache() *FormatCache {
	return &FormatCache{}
}

// Get returns a copy of the fragments stored under sig.
func (c *FormatCache) Get(sig Signature) ([]Fragment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	frags, ok := c.rows[sig]
	if !ok {
		return nil, false
	}
	return slices.Clone(frags), true
}

// Put stores frags under sig. The cache keeps its own copy.
func (c *FormatCache) Put(sig Signature, frags []Fragment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows == nil {
		c.rows = make(map[Signature][]Fragment)
	}
	c.rows[sig] = slices.Clone(frags)
}

// Len reports how many signatures are cached.
func (c *FormatCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rows)
}

// Reset drops every cached row.
func (c *FormatCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
}

// patchLineNumber replaces the text of the line-number fragment, if any.
func patchLineNumber(frags []Fragment, text string) {
	for i := range frags {
		if hasTag(frags[i].Tags, tagLineNumber) {
			frags[i].Text = text
			return
		}
	}
}
