package view

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// TitleBar shows user@host and the path of the selected entry. Long paths
// lose the middle of their directory names first.
type TitleBar struct {
	env     *Env
	surface Surface
	width   int

	// Host is the "user@host:" prefix; empty hides it.
	Host string

	oldPath    string
	oldPointed Entry
	needRedraw bool
}

// NewTitleBar creates a title bar drawing on surface.
func NewTitleBar(env *Env, surface Surface) *TitleBar {
	t := &TitleBar{env: env, Host: hostPrefix(), needRedraw: true}
	t.Resize(surface)
	return t
}

func hostPrefix() string {
	host, err := os.Hostname()
	if err != nil {
		return ""
	}
	name := "?"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return name + "@" + host + ":"
}

// Resize moves the bar to a new surface.
func (t *TitleBar) Resize(surface Surface) {
	t.surface = surface
	if surface != nil {
		_, t.width = surface.Size()
	}
	t.needRedraw = true
}

// Draw repaints the bar when the directory or selection of main changed.
func (t *TitleBar) Draw(main *Column) {
	if t.surface == nil {
		return
	}
	var dir Directory
	if main != nil {
		dir, _ = main.Target().(Directory)
	}
	path := ""
	var pointed Entry
	if dir != nil {
		path = dir.Path()
		pointed = dir.PointedEntry()
	}
	if path != t.oldPath || pointed != t.oldPointed {
		t.oldPath, t.oldPointed = path, pointed
		t.needRedraw = true
	}
	if !t.needRedraw {
		return
	}
	t.needRedraw = false

	bar := t.compose(path, pointed)
	t.surface.Erase()
	col := 0
	for _, p := range bar {
		t.surface.Write(0, col, p.Text, t.env.colors(p.Tags))
		col += p.Width()
	}
}

func (t *TitleBar) compose(path string, pointed Entry) []BarPart {
	bar := NewBar("in_titlebar")
	if t.Host != "" {
		bar.Left.AddFixed(t.Host, "hostname")
	}
	if path != "" {
		parts := strings.Split(filepath.ToSlash(path), "/")
		for i, part := range parts {
			if i == 0 && part == "" {
				bar.Left.Add("/", "directory")
				continue
			}
			if part == "" {
				continue
			}
			bar.Left.Add(part, "directory")
			if i < len(parts)-1 {
				bar.Left.AddFixed("/", "directory")
			}
		}
		if pointed != nil {
			if !strings.HasSuffix(path, "/") {
				bar.Left.AddFixed("/", "directory")
			}
			bar.Left.AddFixed(pointed.Name(), "file")
		}
	}
	if err := bar.ShrinkFromTheLeft(t.width); err != nil {
		bar.ShrinkByRemoving(t.width)
	}
	return bar.Combine()
}
