// Package colorscheme turns the style tags the renderer attaches to each
// fragment into display attributes.
package colorscheme

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/treykane/filecols/internal/view"
)

// The eight base terminal colors. An empty string is the terminal default.
const (
	Default = ""
	Black   = "0"
	Red     = "1"
	Green   = "2"
	Yellow  = "3"
	Blue    = "4"
	Magenta = "5"
	Cyan    = "6"
	White   = "7"
)

// Scheme maps a tag set to an attribute.
type Scheme interface {
	Name() string
	Use(ctx Context) view.Attr
}

// Context is a tag set with constant-time membership.
type Context map[string]bool

// NewContext builds a Context from tags.
func NewContext(tags []string) Context {
	ctx := make(Context, len(tags))
	for _, t := range tags {
		ctx[t] = true
	}
	return ctx
}

// Any reports whether any of tags is present.
func (c Context) Any(tags ...string) bool {
	for _, t := range tags {
		if c[t] {
			return true
		}
	}
	return false
}

var schemes = map[string]Scheme{
	"default": defaultScheme{},
	"jungle":  jungleScheme{},
	"snow":    snowScheme{},
}

// Names lists the built-in schemes.
func Names() []string {
	out := make([]string, 0, len(schemes))
	for name := range schemes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the scheme called name.
func Lookup(name string) (Scheme, error) {
	s, ok := schemes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown colorscheme %q", name)
	}
	return s, nil
}

// Resolver memoizes a scheme per tag set. The renderer asks for the same
// handful of combinations on every row.
type Resolver struct {
	scheme Scheme
	mu     sync.Mutex
	cache  map[string]view.Attr
}

// NewResolver wraps scheme with a cache.
func NewResolver(scheme Scheme) *Resolver {
	return &Resolver{scheme: scheme, cache: map[string]view.Attr{}}
}

// Resolve implements view.ColorResolver.
func (r *Resolver) Resolve(tags []string) view.Attr {
	key := cacheKey(tags)
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.cache[key]; ok {
		return a
	}
	a := r.scheme.Use(NewContext(tags))
	r.cache[key] = a
	return a
}

// Len reports how many tag sets have been resolved.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cache)
}

func cacheKey(tags []string) string {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// Style converts an attribute into a lipgloss style.
func Style(a view.Attr) lipgloss.Style {
	st := lipgloss.NewStyle()
	if a.Fg != "" {
		st = st.Foreground(lipgloss.Color(a.Fg))
	}
	if a.Bg != "" {
		st = st.Background(lipgloss.Color(a.Bg))
	}
	if a.Bold {
		st = st.Bold(true)
	}
	if a.Reverse {
		st = st.Reverse(true)
	}
	if a.Underline {
		st = st.Underline(true)
	}
	if a.Dim {
		st = st.Faint(true)
	}
	return st
}
