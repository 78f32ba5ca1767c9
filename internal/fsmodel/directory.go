package fsmodel

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/treykane/filecols/internal/view"
)

// Listing is the result of reading one directory.
type Listing struct {
	Path       string
	Entries    []*Entry
	Accessible bool
	// DiskUsage sums the sizes of the regular files in the listing.
	DiskUsage int64
	ReadAt    time.Time
}

// ReadListing reads dir and stats every entry, directories first and then
// by case-insensitive name. An unreadable directory yields an inaccessible
// listing, not an error; the error is only returned when dir itself is gone.
func ReadListing(dir string, opts SizeOptions) (*Listing, error) {
	l := &Listing{Path: dir, ReadAt: time.Now()}
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	des, err := os.ReadDir(dir)
	if err != nil {
		log.Debug("read directory", "path", dir, "error", err)
		return l, nil
	}
	l.Accessible = true
	l.Entries = make([]*Entry, 0, len(des))
	for _, de := range des {
		e, err := readEntry(filepath.Join(dir, de.Name()), opts)
		if err != nil {
			// Removed between readdir and lstat.
			continue
		}
		if e.kind == view.KindFile && e.exists {
			l.DiskUsage += e.stat.Size
		}
		l.Entries = append(l.Entries, e)
	}
	sortEntries(l.Entries)
	return l, nil
}

func sortEntries(entries []*Entry) {
	slices.SortStableFunc(entries, func(a, b *Entry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
}

// Directory is a listing plus the selection state the user builds on it.
type Directory struct {
	path    string
	request func(path string)

	all     []*Entry
	visible []view.Entry

	pointer     int
	pointedPath string
	scrollBegin int

	loaded       bool
	accessible   bool
	requested    bool
	outdated     bool
	sortOutdated bool
	lastUpdate   time.Time
	diskUsage    int64

	filter     string
	showHidden bool
	hidden     int
	linemode   string
}

// NewDirectory returns an unloaded directory. request is called at most
// once per load when the renderer first asks for its content.
func NewDirectory(path string, request func(path string)) *Directory {
	return &Directory{path: path, request: request}
}

func (d *Directory) Path() string          { return d.path }
func (d *Directory) Entries() []view.Entry { return d.visible }
func (d *Directory) Pointer() int          { return d.pointer }
func (d *Directory) ScrollBegin() int      { return d.scrollBegin }
func (d *Directory) SetScrollBegin(n int)  { d.scrollBegin = n }
func (d *Directory) ContentLoaded() bool   { return d.loaded }
func (d *Directory) Accessible() bool      { return d.accessible }
func (d *Directory) LastUpdate() time.Time { return d.lastUpdate }
func (d *Directory) DiskUsage() int64      { return d.diskUsage }
func (d *Directory) HasVCSChild() bool     { return false }
func (d *Directory) VCSTracked() bool      { return false }
func (d *Directory) Filter() string        { return d.filter }
func (d *Directory) HiddenCount() int      { return d.hidden }
func (d *Directory) Linemode() string      { return d.linemode }
func (d *Directory) ShowHidden() bool      { return d.showHidden }

// PointedEntry returns the selected entry, or nil for an empty listing.
func (d *Directory) PointedEntry() view.Entry {
	if d.pointer < 0 || d.pointer >= len(d.visible) {
		return nil
	}
	return d.visible[d.pointer]
}

// Move selects index to, clamped to the visible entries.
func (d *Directory) Move(to int) {
	if len(d.visible) == 0 {
		d.pointer = 0
		return
	}
	d.pointer = max(0, min(to, len(d.visible)-1))
	d.pointedPath = d.visible[d.pointer].Path()
}

// SelectPath points at the entry for path once it is visible.
func (d *Directory) SelectPath(path string) {
	d.pointedPath = path
	d.repoint()
}

func (d *Directory) repoint() {
	if len(d.visible) == 0 {
		d.pointer = 0
		return
	}
	for i, e := range d.visible {
		if e.Path() == d.pointedPath {
			d.pointer = i
			return
		}
	}
	d.pointer = max(0, min(d.pointer, len(d.visible)-1))
	d.pointedPath = d.visible[d.pointer].Path()
}

// LoadContentIfOutdated schedules a read when the listing is missing or
// stale. The content arrives later through Apply, so it never reports a
// change itself.
func (d *Directory) LoadContentIfOutdated() bool {
	if d.loaded && !d.outdated {
		return false
	}
	if d.requested || d.request == nil {
		return false
	}
	d.requested = true
	d.request(d.path)
	return false
}

// SortIfOutdated reapplies the hidden and filter settings after they changed.
func (d *Directory) SortIfOutdated() bool {
	if !d.sortOutdated {
		return false
	}
	d.sortOutdated = false
	d.refilter()
	return true
}

// MarkOutdated makes the next draw reload the listing.
func (d *Directory) MarkOutdated() {
	d.outdated = true
	d.requested = false
}

// Apply installs a fresh listing, keeping marks and the selection by path.
func (d *Directory) Apply(l *Listing) {
	marked := map[string]bool{}
	for _, e := range d.all {
		if e.marked {
			marked[e.path] = true
		}
	}
	d.all = l.Entries
	for _, e := range d.all {
		e.marked = marked[e.path]
		e.linemode = d.linemode
	}
	d.accessible = l.Accessible
	d.diskUsage = l.DiskUsage
	d.loaded = true
	d.outdated = false
	d.requested = false
	d.refilter()
}

// LoadFailed records that the directory could not be read at all.
func (d *Directory) LoadFailed() {
	d.all = nil
	d.accessible = false
	d.loaded = true
	d.outdated = false
	d.requested = false
	d.refilter()
}

func (d *Directory) refilter() {
	candidates := make([]*Entry, 0, len(d.all))
	for _, e := range d.all {
		if !d.showHidden && strings.HasPrefix(e.name, ".") {
			continue
		}
		candidates = append(candidates, e)
	}
	if d.filter != "" {
		matches := fuzzy.FindFrom(d.filter, entrySource(candidates))
		keep := make([]int, 0, len(matches))
		for _, m := range matches {
			keep = append(keep, m.Index)
		}
		slices.Sort(keep)
		filtered := make([]*Entry, 0, len(keep))
		for _, i := range keep {
			filtered = append(filtered, candidates[i])
		}
		candidates = filtered
	}
	d.hidden = len(d.all) - len(candidates)
	d.visible = make([]view.Entry, len(candidates))
	for i, e := range candidates {
		d.visible[i] = e
	}
	d.repoint()
	d.lastUpdate = time.Now()
}

type entrySource []*Entry

func (s entrySource) String(i int) string { return s[i].name }
func (s entrySource) Len() int            { return len(s) }

// SetShowHidden toggles dotfiles; the listing is refiltered on the next draw.
func (d *Directory) SetShowHidden(on bool) {
	if d.showHidden == on {
		return
	}
	d.showHidden = on
	d.sortOutdated = true
}

// SetFilter narrows the listing to entries fuzzily matching query.
func (d *Directory) SetFilter(query string) {
	if d.filter == query {
		return
	}
	d.filter = query
	d.sortOutdated = true
}

// SetLinemode switches how every entry of the listing is rendered.
func (d *Directory) SetLinemode(name string) {
	d.linemode = name
	for _, e := range d.all {
		e.linemode = name
	}
	d.lastUpdate = time.Now()
}

// ToggleMark flips the mark of the selected entry.
func (d *Directory) ToggleMark() {
	if e, ok := d.PointedEntry().(*Entry); ok {
		e.marked = !e.marked
		d.lastUpdate = time.Now()
	}
}

// SetAllMarks marks or unmarks every visible entry.
func (d *Directory) SetAllMarks(on bool) {
	for _, ve := range d.visible {
		ve.(*Entry).marked = on
	}
	d.lastUpdate = time.Now()
}

// MarkedItems returns the marked visible entries in listing order.
func (d *Directory) MarkedItems() []view.Entry {
	var out []view.Entry
	for _, e := range d.visible {
		if e.Marked() {
			out = append(out, e)
		}
	}
	return out
}
