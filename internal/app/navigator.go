package app

import (
	"path/filepath"

	"github.com/treykane/filecols/internal/view"
)

// navigator carries out the moves requested by mouse clicks and the
// directory keys, always on the current tab.
type navigator struct {
	m *Model
}

// EnterDir makes path the current directory of the tab.
func (n navigator) EnterDir(path string) {
	if err := n.m.tab().EnterDir(path); err != nil {
		n.m.setStatusError("Cannot enter directory", err, "path", path)
	}
}

// Move selects index to of the current directory.
func (n navigator) Move(to int) {
	n.m.tab().Dir().Move(to)
}

// MoveParent moves the selection of the parent directory by delta and
// enters the entry it lands on when that is a directory.
func (n navigator) MoveParent(delta int) {
	cwd := n.m.tab().Path()
	parentPath := filepath.Dir(cwd)
	if parentPath == cwd {
		return
	}
	parent := n.m.reg.Dir(parentPath)
	if !parent.ContentLoaded() {
		return
	}
	parent.SelectPath(cwd)
	parent.Move(parent.Pointer() + delta)
	e := parent.PointedEntry()
	if e == nil || e.Kind() != view.KindDir || e.Path() == cwd {
		return
	}
	n.EnterDir(e.Path())
}

// MoveRight enters the selected directory or opens the selected file.
func (n navigator) MoveRight() {
	e := n.m.tab().Pointed()
	if e == nil {
		return
	}
	if e.Kind() == view.KindDir {
		n.EnterDir(e.Path())
		return
	}
	n.Open(e.Path())
}

// FocusTab makes the tab with id current, so a click on another pane acts
// on that pane's tab.
func (n navigator) FocusTab(id string) {
	for i, t := range n.m.tabs {
		if t.ID() == id {
			n.m.focusTab(i)
			return
		}
	}
}

// Open reports that files cannot be launched from here; running external
// programs is not supported.
func (n navigator) Open(path string) {
	appLog.Debug("open requested", "path", path)
	n.m.notify("No opener for "+filepath.Base(path), true)
}
