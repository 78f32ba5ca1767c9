package fsmodel

import (
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/filecols/internal/view"
)

// Registry owns one Directory or File per path so every tab and column
// sees the same selection and the same loaded content.
type Registry struct {
	loader *Loader
	dirs   map[string]*Directory
	files  map[string]*File

	showHidden bool
	linemode   string
}

// NewRegistry returns an empty registry whose objects request reads from
// loader.
func NewRegistry(loader *Loader) *Registry {
	return &Registry{
		loader: loader,
		dirs:   map[string]*Directory{},
		files:  map[string]*File{},
	}
}

// Loader returns the loader the registry queues reads on.
func (r *Registry) Loader() *Loader { return r.loader }

// Dir returns the directory for path, creating it unloaded.
func (r *Registry) Dir(path string) *Directory {
	path = filepath.Clean(path)
	if d, ok := r.dirs[path]; ok {
		return d
	}
	d := NewDirectory(path, r.loader.RequestDir)
	d.showHidden = r.showHidden
	d.linemode = r.linemode
	r.dirs[path] = d
	return d
}

// File returns the preview target for path.
func (r *Registry) File(path string) *File {
	path = filepath.Clean(path)
	if f, ok := r.files[path]; ok {
		return f
	}
	f := NewFile(path, r.loader.RequestPreview)
	r.files[path] = f
	return f
}

// TargetFor returns what a column shows for e: its directory or its file.
func (r *Registry) TargetFor(e view.Entry) view.Target {
	if e == nil {
		return nil
	}
	if e.Kind() == view.KindDir {
		return r.Dir(e.Path())
	}
	return r.File(e.Path())
}

// Apply installs a loader result. It reports whether msg was one.
func (r *Registry) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case DirLoadedMsg:
		d, ok := r.dirs[filepath.Clean(msg.Path)]
		if !ok {
			return true
		}
		if msg.Err != nil || msg.Listing == nil {
			d.LoadFailed()
			return true
		}
		d.Apply(msg.Listing)
		return true
	case PreviewLoadedMsg:
		if f, ok := r.files[filepath.Clean(msg.Path)]; ok {
			f.Apply(msg)
		}
		return true
	}
	return false
}

// Invalidate marks path and its cached preview stale.
func (r *Registry) Invalidate(path string) {
	path = filepath.Clean(path)
	if d, ok := r.dirs[path]; ok {
		d.MarkOutdated()
	}
	if f, ok := r.files[path]; ok {
		f.MarkOutdated()
	}
}

// InvalidateAll marks every loaded directory and preview stale.
func (r *Registry) InvalidateAll() {
	for _, d := range r.dirs {
		d.MarkOutdated()
	}
	for _, f := range r.files {
		f.MarkOutdated()
	}
}

// LoadedDirs returns the paths of the directories with content, sorted.
func (r *Registry) LoadedDirs() []string {
	out := make([]string, 0, len(r.dirs))
	for p, d := range r.dirs {
		if d.ContentLoaded() {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// SetShowHidden applies show_hidden to every directory.
func (r *Registry) SetShowHidden(on bool) {
	r.showHidden = on
	for _, d := range r.dirs {
		d.SetShowHidden(on)
	}
}

// SetLinemode switches the linemode of every directory.
func (r *Registry) SetLinemode(name string) {
	r.linemode = name
	for _, d := range r.dirs {
		d.SetLinemode(name)
	}
}
