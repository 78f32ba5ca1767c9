package fsmodel

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/treykane/filecols/internal/view"
)

// Tab is one browsing location. Its columns are resolved relative to the
// current directory through the shared Registry.
//
// Directories are shared between tabs, so the selection a Directory holds
// belongs to whichever tab is current. A tab that loses focus saves its
// cursor with Save and puts it back with Restore; while saved, Pointer and
// ScrollBegin answer from the tab instead of the directory.
type Tab struct {
	id  string
	reg *Registry
	cwd string

	saved       bool
	pointer     int
	pointedPath string
	scrollBegin int
}

// NewTab opens a tab at path.
func NewTab(id string, reg *Registry, path string) (*Tab, error) {
	t := &Tab{id: id, reg: reg}
	if err := t.EnterDir(path); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tab) ID() string   { return t.id }
func (t *Tab) Path() string { return t.cwd }

// Dir returns the current directory.
func (t *Tab) Dir() *Directory { return t.reg.Dir(t.cwd) }

// Pointed returns the selected entry of the current directory, or nil.
func (t *Tab) Pointed() view.Entry { return t.Dir().PointedEntry() }

// EnterDir changes the current directory. Every ancestor's selection is
// moved onto the path leading down to it.
func (t *Tab) EnterDir(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s: not a directory", abs)
	}
	t.cwd = abs
	t.saved = false
	for child := abs; ; {
		parent := filepath.Dir(child)
		if parent == child {
			break
		}
		t.reg.Dir(parent).SelectPath(child)
		child = parent
	}
	log.Debug("enter directory", "tab", t.id, "path", abs)
	return nil
}

// Save copies the current directory's cursor into the tab.
func (t *Tab) Save() {
	d := t.Dir()
	t.pointer = d.pointer
	t.pointedPath = d.pointedPath
	t.scrollBegin = d.scrollBegin
	t.saved = true
}

// Restore moves a saved cursor back onto the current directory.
func (t *Tab) Restore() {
	if !t.saved {
		return
	}
	d := t.Dir()
	d.pointer = t.pointer
	d.SelectPath(t.pointedPath)
	d.scrollBegin = t.scrollBegin
	t.saved = false
}

// Pointer returns the index of the tab's selected entry. A saved selection
// follows its entry by path when the listing changes.
func (t *Tab) Pointer() int {
	d := t.Dir()
	if !t.saved {
		return d.pointer
	}
	if len(d.visible) == 0 {
		return 0
	}
	for i, e := range d.visible {
		if e.Path() == t.pointedPath {
			return i
		}
	}
	return max(0, min(t.pointer, len(d.visible)-1))
}

func (t *Tab) ScrollBegin() int {
	if !t.saved {
		return t.Dir().scrollBegin
	}
	return t.scrollBegin
}

func (t *Tab) SetScrollBegin(n int) {
	if !t.saved {
		t.Dir().scrollBegin = n
		return
	}
	t.scrollBegin = n
}

// AtLevel returns the target shown at level: ancestors for negative
// levels, the current directory at zero, and the selection chain below it.
// It returns nil where there is nothing to show.
func (t *Tab) AtLevel(level int) view.Target {
	if t.cwd == "" {
		return nil
	}
	if level <= 0 {
		p := t.cwd
		for i := 0; i < -level; i++ {
			parent := filepath.Dir(p)
			if parent == p {
				return nil
			}
			p = parent
		}
		return t.reg.Dir(p)
	}
	d := t.Dir()
	for i := 1; ; i++ {
		e := d.PointedEntry()
		if e == nil {
			return nil
		}
		if e.Kind() != view.KindDir {
			if i == level {
				return t.reg.File(e.Path())
			}
			return nil
		}
		d = t.reg.Dir(e.Path())
		if i == level {
			return d
		}
	}
}
