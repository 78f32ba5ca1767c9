// Package fsmodel is the on-disk model behind the columns: directories and
// their entries, file previews, tabs, and the background loader that fills
// them.
//
// Nothing in this package is safe for concurrent use except the Loader's
// commands, which only read the filesystem and return values. Results are
// applied on the UI goroutine through Registry.Apply.
package fsmodel

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/treykane/filecols/internal/humanize"
	"github.com/treykane/filecols/internal/view"
)

// Entry is one object inside a directory listing.
type Entry struct {
	path     string
	name     string
	realpath string
	kind     view.Kind
	link     bool
	exists   bool
	stat     view.StatInfo
	hasStat  bool
	info     string
	mime     []string

	marked   bool
	linemode string
	cache    *view.FormatCache
	loadedAt time.Time
}

// SizeOptions control how file sizes are summarized.
type SizeOptions = humanize.Options

// readEntry stats path and builds its entry. Symlinks are followed for
// everything but the link flag; a dangling link keeps its own lstat.
func readEntry(path string, opts SizeOptions) (*Entry, error) {
	lfi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	e := &Entry{
		path:     path,
		name:     filepath.Base(path),
		realpath: path,
		exists:   true,
		cache:    view.NewFormatCache(),
		loadedAt: time.Now(),
	}
	fi := lfi
	if lfi.Mode()&fs.ModeSymlink != 0 {
		e.link = true
		if target, err := os.Stat(path); err == nil {
			fi = target
			if real, err := filepath.EvalSymlinks(path); err == nil {
				e.realpath = real
			}
		} else {
			e.exists = false
		}
	}

	e.kind = kindOf(fi.Mode())
	e.stat = view.StatInfo{Mode: fi.Mode(), Size: fi.Size(), ModTime: fi.ModTime(), ChangeTime: fi.ModTime()}
	e.hasStat = true
	fillOwner(path, e.exists, &e.stat)

	e.info = infoString(e, opts)
	if e.kind == view.KindFile {
		e.mime = MimeTags(e.name)
	}
	return e, nil
}

func kindOf(mode fs.FileMode) view.Kind {
	switch {
	case mode.IsDir():
		return view.KindDir
	case mode&fs.ModeNamedPipe != 0:
		return view.KindFifo
	case mode&fs.ModeSocket != 0:
		return view.KindSocket
	case mode&(fs.ModeDevice|fs.ModeCharDevice) != 0:
		return view.KindDevice
	}
	return view.KindFile
}

func infoString(e *Entry, opts SizeOptions) string {
	var info string
	switch e.kind {
	case view.KindDevice:
		info = "dev"
	case view.KindFifo:
		info = "fifo"
	case view.KindSocket:
		info = "sock"
	case view.KindDir:
		if n, err := countEntries(e.path); err == nil {
			info = strconv.Itoa(n)
		} else {
			info = "?"
		}
	default:
		if e.exists {
			info = humanize.Bytes(e.stat.Size, " ", opts)
		}
	}
	if e.link && e.kind != view.KindDir {
		info = "->" + info
	}
	return info
}

func countEntries(dir string) (int, error) {
	f, err := os.Open(dir)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	return len(names), err
}

func (e *Entry) Path() string                          { return e.path }
func (e *Entry) Name() string                          { return e.name }
func (e *Entry) Realpath() string                      { return e.realpath }
func (e *Entry) Kind() view.Kind                       { return e.kind }
func (e *Entry) IsLink() bool                          { return e.link }
func (e *Entry) Exists() bool                          { return e.exists }
func (e *Entry) Size() int64                           { return e.stat.Size }
func (e *Entry) InfoString() string                    { return e.info }
func (e *Entry) Marked() bool                          { return e.marked }
func (e *Entry) MimeTags() []string                    { return e.mime }
func (e *Entry) VCSStatus() view.VCSStatus             { return view.VCSNone }
func (e *Entry) VCSRemoteStatus() view.VCSRemoteStatus { return view.VCSRemoteNone }
func (e *Entry) VCSTracked() bool                      { return false }
func (e *Entry) Linemode() string                      { return e.linemode }
func (e *Entry) RowCache() *view.FormatCache           { return e.cache }
func (e *Entry) LastLoad() time.Time                   { return e.loadedAt }
func (e *Entry) LoadIfOutdated() bool                  { return false }

func (e *Entry) Stat() (view.StatInfo, bool) { return e.stat, e.hasStat }

// IsDir reports whether the entry resolves to a directory.
func (e *Entry) IsDir() bool { return e.kind == view.KindDir }
