package fsmodel

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/singleflight"

	"github.com/treykane/filecols/internal/logging"
	"github.com/treykane/filecols/internal/view"
)

var log = logging.New("fsmodel")

// DirLoadedMsg carries a finished directory read back to Update.
type DirLoadedMsg struct {
	Path    string
	Listing *Listing
	Err     error
}

// PreviewLoadedMsg carries a finished preview read back to Update.
type PreviewLoadedMsg struct {
	Path    string
	Width   int
	Preview view.Preview
	OK      bool
	Err     error
}

// LoaderOptions tune what the background reads produce.
type LoaderOptions struct {
	Size         SizeOptions
	PreviewBytes int64
}

type previewRequest struct {
	path  string
	width int
}

// Loader collects the reads requested while a frame is drawn and turns them
// into Bubble Tea commands. Identical reads in flight share one result.
type Loader struct {
	options func() LoaderOptions

	mu       sync.Mutex
	dirs     []string
	previews []previewRequest
	group    singleflight.Group
}

// NewLoader returns a loader; options is consulted when each command runs.
func NewLoader(options func() LoaderOptions) *Loader {
	if options == nil {
		options = func() LoaderOptions { return LoaderOptions{} }
	}
	return &Loader{options: options}
}

// RequestDir queues a directory read.
func (l *Loader) RequestDir(path string) {
	l.mu.Lock()
	l.dirs = append(l.dirs, path)
	l.mu.Unlock()
}

// RequestPreview queues a preview read at width.
func (l *Loader) RequestPreview(path string, width int) {
	l.mu.Lock()
	l.previews = append(l.previews, previewRequest{path: path, width: width})
	l.mu.Unlock()
}

// Pending reports how many reads are queued.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dirs) + len(l.previews)
}

// Flush returns one command per queued read and empties the queue. It
// returns nil when nothing is queued.
func (l *Loader) Flush() tea.Cmd {
	l.mu.Lock()
	dirs, previews := l.dirs, l.previews
	l.dirs, l.previews = nil, nil
	l.mu.Unlock()

	var cmds []tea.Cmd
	seen := map[string]bool{}
	for _, d := range dirs {
		if seen[d] {
			continue
		}
		seen[d] = true
		cmds = append(cmds, l.loadDirCmd(d))
	}
	for _, p := range previews {
		key := fmt.Sprintf("preview:%d:%s", p.width, p.path)
		if seen[key] {
			continue
		}
		seen[key] = true
		cmds = append(cmds, l.loadPreviewCmd(p.path, p.width))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (l *Loader) loadDirCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return l.LoadDir(path)
	}
}

// LoadDir reads path synchronously, sharing the read with concurrent callers.
func (l *Loader) LoadDir(path string) DirLoadedMsg {
	v, err, _ := l.group.Do("dir:"+path, func() (any, error) {
		return ReadListing(path, l.options().Size)
	})
	if err != nil {
		log.Debug("load directory", "path", path, "error", err)
		return DirLoadedMsg{Path: path, Err: err}
	}
	return DirLoadedMsg{Path: path, Listing: v.(*Listing)}
}

func (l *Loader) loadPreviewCmd(path string, width int) tea.Cmd {
	return func() tea.Msg {
		return l.LoadPreview(path, width)
	}
}

// LoadPreview renders the preview of path synchronously.
func (l *Loader) LoadPreview(path string, width int) PreviewLoadedMsg {
	if !widthSensitive(path) {
		width = 0
	}
	key := fmt.Sprintf("preview:%d:%s", width, path)
	v, err, _ := l.group.Do(key, func() (any, error) {
		p, ok, err := RenderPreview(path, width, l.options().PreviewBytes)
		return PreviewLoadedMsg{Path: path, Width: width, Preview: p, OK: ok, Err: err}, nil
	})
	if err != nil {
		return PreviewLoadedMsg{Path: path, Width: width, Err: err}
	}
	return v.(PreviewLoadedMsg)
}
