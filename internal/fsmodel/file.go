package fsmodel

import (
	"os"
	"time"

	"github.com/treykane/filecols/internal/view"
)

// File is a non-directory shown through its preview. The preview is read
// in the background; until it arrives Preview reports nothing to draw.
type File struct {
	path    string
	request func(path string, width int)

	regular    bool
	accessible bool
	noPreview  bool

	preview   view.Preview
	width     int
	loaded    bool
	requested int
	asked     int
	reload    bool
	loadedAt  time.Time
}

// NewFile stats path to decide whether it can be previewed at all.
func NewFile(path string, request func(path string, width int)) *File {
	f := &File{path: path, request: request, requested: -1, asked: -1}
	fi, err := os.Stat(path)
	if err == nil {
		f.regular = fi.Mode().IsRegular()
		f.accessible = true
	}
	if f.regular {
		if fh, err := os.Open(path); err == nil {
			fh.Close()
		} else {
			f.accessible = false
		}
	}
	return f
}

func (f *File) Path() string        { return f.path }
func (f *File) Regular() bool       { return f.regular }
func (f *File) Accessible() bool    { return f.accessible }
func (f *File) LastLoad() time.Time { return f.loadedAt }
func (f *File) HasPreview() bool    { return f.regular && !f.noPreview }

// Preview returns the cached preview, scheduling a read when there is none
// yet or when a width-dependent preview was rendered for another width.
func (f *File) Preview(width, height int) (view.Preview, bool) {
	if !f.HasPreview() {
		return view.Preview{}, false
	}
	f.asked = width
	stale := !f.loaded || (widthSensitive(f.path) && f.width != width)
	if stale {
		if f.requested != width && f.request != nil {
			f.requested = width
			f.request(f.path, width)
		}
		if !f.loaded {
			return view.Preview{}, false
		}
	}
	return f.preview, true
}

// Apply installs a finished preview read.
func (f *File) Apply(msg PreviewLoadedMsg) {
	f.requested = -1
	f.loadedAt = time.Now()
	if msg.Err != nil {
		log.Debug("preview failed", "path", f.path, "error", msg.Err)
		f.accessible = false
		f.loaded = false
		return
	}
	f.accessible = true
	if !msg.OK {
		f.noPreview = true
		return
	}
	f.preview = msg.Preview
	f.width = msg.Width
	f.loaded = true
}

// MarkOutdated rereads the preview on the next draw. The old preview stays
// visible until the new one arrives.
func (f *File) MarkOutdated() {
	f.noPreview = false
	f.requested = -1
	f.reload = true
}

// LoadIfOutdated schedules the reread requested by MarkOutdated. Like the
// first read, its result arrives through Apply.
func (f *File) LoadIfOutdated() bool {
	if !f.reload || f.asked < 0 || f.request == nil {
		return false
	}
	f.reload = false
	f.requested = f.asked
	f.request(f.path, f.asked)
	return false
}
