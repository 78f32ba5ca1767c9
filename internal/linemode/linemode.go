// Package linemode provides the ways a directory row can present an entry:
// plain names, ls-style permissions, titles read from metadata, and
// modification times in several formats.
package linemode

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/treykane/filecols/internal/humanize"
	"github.com/treykane/filecols/internal/view"
)

// Linemode names.
const (
	Filename               = "filename"
	Permissions            = "permissions"
	MetaTitle              = "metatitle"
	Mtime                  = "mtime"
	SizeMtime              = "sizemtime"
	HumanReadableMtime     = "humanreadablemtime"
	SizeHumanReadableMtime = "sizehumanreadablemtime"
	Devicons               = "devicons"
)

const mtimeFormat = "%Y-%m-%d %H:%M"

// Env carries what the time and owner based linemodes read. Zero fields
// fall back to the system clock and numeric ids.
type Env struct {
	Now         func() time.Time
	LookupUser  func(uid uint32) (string, error)
	LookupGroup func(gid uint32) (string, error)
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Env) user(uid uint32) string {
	if e.LookupUser != nil {
		if name, err := e.LookupUser(uid); err == nil {
			return name
		}
	}
	return fmt.Sprint(uid)
}

func (e Env) group(gid uint32) string {
	if e.LookupGroup != nil {
		if name, err := e.LookupGroup(gid); err == nil {
			return name
		}
	}
	return fmt.Sprint(gid)
}

// base implements the parts most linemodes share.
type base struct{ name string }

func (b base) Name() string               { return b.name }
func (b base) UsesMetadata() bool         { return false }
func (b base) RequiredMetadata() []string { return nil }

func (b base) FileTitle(e view.Entry, _ view.Metadata) string {
	return e.Name()
}

type filename struct{ base }

func (filename) InfoString(view.Entry, view.Metadata) (string, error) {
	return "", view.ErrNoInfoString
}

type permissions struct {
	base
	env Env
}

func (p permissions) FileTitle(e view.Entry, _ view.Metadata) string {
	st, ok := e.Stat()
	if !ok {
		return e.Name()
	}
	return fmt.Sprintf("%s %s %s %s", view.PermissionString(e, st), p.env.user(st.UID), p.env.group(st.GID), e.Name())
}

func (permissions) InfoString(view.Entry, view.Metadata) (string, error) {
	return "", nil
}

// metaTitle shows the "title" metadata, prefixed by "year", and the first
// author as info.
type metaTitle struct{ base }

func (metaTitle) UsesMetadata() bool         { return true }
func (metaTitle) RequiredMetadata() []string { return []string{"title"} }

func (metaTitle) FileTitle(e view.Entry, md view.Metadata) string {
	title := md["title"]
	if title == "" {
		return e.Name()
	}
	if year := md["year"]; year != "" {
		return year + " - " + title
	}
	return title
}

func (metaTitle) InfoString(_ view.Entry, md view.Metadata) (string, error) {
	authors := md["authors"]
	if i := strings.IndexByte(authors, ','); i >= 0 {
		authors = authors[:i]
	}
	return authors, nil
}

type timeMode struct {
	base
	env       Env
	withSize  bool
	humanTime bool
}

func (m timeMode) InfoString(e view.Entry, _ view.Metadata) (string, error) {
	st, ok := e.Stat()
	if !ok {
		return "?", nil
	}
	var when string
	if m.humanTime {
		when = humanize.Time(st.ModTime, m.env.now())
	} else {
		when = humanize.Strftime(mtimeFormat, st.ModTime)
	}
	if !m.withSize {
		return when, nil
	}
	if m.humanTime {
		return fmt.Sprintf("%s %11s", sizeOf(e), when), nil
	}
	return sizeOf(e) + " " + when, nil
}

func sizeOf(e view.Entry) string {
	if e.Kind() == view.KindDir {
		return e.InfoString()
	}
	return humanize.Bytes(e.Size(), "", humanize.Options{})
}

// devicons prefixes names with a glyph; the info column is left to the
// default size display, which appends the date for this mode.
type devicons struct{ base }

func (devicons) FileTitle(e view.Entry, _ view.Metadata) string {
	return Icon(e) + " " + e.Name()
}

func (devicons) InfoString(view.Entry, view.Metadata) (string, error) {
	return "", view.ErrNoInfoString
}

// Registry is the fixed set of linemodes available at runtime.
type Registry struct {
	modes map[string]view.Linemode
	def   view.Linemode
}

// NewRegistry returns a registry with every built-in linemode.
func NewRegistry(env Env) *Registry {
	def := filename{base{Filename}}
	r := &Registry{modes: map[string]view.Linemode{}, def: def}
	for _, m := range []view.Linemode{
		def,
		permissions{base{Permissions}, env},
		metaTitle{base{MetaTitle}},
		timeMode{base: base{Mtime}, env: env},
		timeMode{base: base{SizeMtime}, env: env, withSize: true},
		timeMode{base: base{HumanReadableMtime}, env: env, humanTime: true},
		timeMode{base: base{SizeHumanReadableMtime}, env: env, withSize: true, humanTime: true},
		devicons{base{Devicons}},
	} {
		r.modes[m.Name()] = m
	}
	return r
}

func (r *Registry) Get(name string) (view.Linemode, bool) {
	m, ok := r.modes[name]
	return m, ok
}

func (r *Registry) Default() view.Linemode { return r.def }

// Names lists the registered linemodes alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.modes))
	for name := range r.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the linemode after name in Names order, wrapping around.
// Unknown names restart at the first one.
func (r *Registry) Next(name string) string {
	names := r.Names()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
