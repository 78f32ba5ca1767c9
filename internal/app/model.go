// Package app is the Bubble Tea program behind filecols. It owns the tabs,
// the shared registry of directories and files, and the widgets that paint
// them into a screen buffer.
//
// Every message goes through Model.Update, which handles the event, lets
// the layout, title bar and status bar repaint whatever went dirty, and
// returns the directory reads and previews that drawing asked for. Their
// results come back as messages and are applied before the next draw, so
// the filesystem is never read on the update loop itself.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/filecols/internal/colorscheme"
	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/fsmodel"
	"github.com/treykane/filecols/internal/linemode"
	"github.com/treykane/filecols/internal/screen"
	"github.com/treykane/filecols/internal/view"
)

// mode controls which input handler receives key presses.
type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeOverlay
)

// Options configure a new Model.
type Options struct {
	// StartDirs opens one tab per directory; empty means the working directory.
	StartDirs []string

	// ConfigPath is where settings are saved and watched. Empty disables both.
	ConfigPath string

	// Store holds the live settings. Nil starts from config.Default.
	Store *config.Store

	// TagsPath is the tag file shown as row markers.
	TagsPath string

	// DisableWatch skips the settings and directory watchers.
	DisableWatch bool

	// ViewMode, when set, overrides the viewmode setting. The override
	// survives settings file reloads until the user toggles the view mode.
	ViewMode string

	Now func() time.Time
}

// Model holds the Bubble Tea state for the entire UI.
//
// Settings live in a config.Store shared with the widgets; Model subscribes
// to it and applies changes that need more than a repaint (hidden files,
// colorscheme, layout, keybindings) in settingsChanged.
type Model struct {
	store       *config.Store
	configPath  string
	applied     config.Settings
	unsubscribe func()

	// viewMode is the command-line viewmode override, empty when unset.
	viewMode string

	ctx           context.Context
	cancel        context.CancelFunc
	settingsWatch *config.Watcher
	dirWatch      *fsmodel.Watcher

	// Filesystem state
	loader    *fsmodel.Loader
	reg       *fsmodel.Registry
	tabs      []*fsmodel.Tab
	current   int
	nextTabID int

	// Rendering
	env        *view.Env
	buf        *screen.Buffer
	layout     view.Layout
	layoutMode string
	title      *view.TitleBar
	status     *view.StatusBar

	resolver   *colorscheme.Resolver
	linemodes  *linemode.Registry
	linemode   string
	copyBuffer *fsmodel.CopyBuffer
	tags       *fsmodel.Tags
	metadata   *fsmodel.Metadata

	keyForAction map[string][]string
	keyToAction  map[string]string

	// UI widgets
	mode    mode
	overlay overlayMode
	filter  textinput.Model
	info    viewport.Model

	width      int
	height     int
	debugInput bool
	quitting   bool

	// pending holds commands queued outside Update's return path, such as
	// status message expiry ticks.
	pending []tea.Cmd
}

// New prepares the model: settings, tabs, the registry of directories and
// files, and the widgets that draw them. Watchers start here; Close stops
// them.
func New(opts Options) (*Model, error) {
	store := opts.Store
	if store == nil {
		store = config.NewStore(config.Default())
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.ViewMode != "" {
		store.Set(func(s *config.Settings) { s.ViewMode = opts.ViewMode })
	}

	m := &Model{
		store:      store,
		viewMode:   opts.ViewMode,
		configPath: opts.ConfigPath,
		applied:    store.Get(),
		copyBuffer: fsmodel.NewCopyBuffer(),
		metadata:   fsmodel.NewMetadata(),
		linemode:   linemode.Filename,
		nextTabID:  1,
		debugInput: os.Getenv("FILECOLS_DEBUG_INPUT") != "",
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())

	tags, err := fsmodel.LoadTags(opts.TagsPath)
	if err != nil {
		appLog.Warn("read tags", "path", opts.TagsPath, "error", err)
	}
	m.tags = tags

	m.loader = fsmodel.NewLoader(func() fsmodel.LoaderOptions {
		s := store.Get()
		return fsmodel.LoaderOptions{
			Size:         fsmodel.SizeOptions{InBytes: s.SizeInBytes, ZeroPrefix: s.SizeZeroPrefix},
			PreviewBytes: fsmodel.DefaultPreviewBytes,
		}
	})
	m.reg = fsmodel.NewRegistry(m.loader)
	m.reg.SetShowHidden(m.applied.ShowHidden)
	m.reg.SetLinemode(m.linemode)

	m.linemodes = linemode.NewRegistry(linemode.Env{Now: now, LookupUser: view.LookupUser, LookupGroup: view.LookupGroup})
	m.resolver = resolverFor(m.applied.Colorscheme)
	m.loadKeybindings(m.applied)

	dirs := opts.StartDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	for _, dir := range dirs {
		if _, err := m.openTab(dir); err != nil {
			m.cancel()
			return nil, err
		}
	}

	m.env = &view.Env{
		Settings:   store,
		Colors:     func(tags []string) view.Attr { return m.resolver.Resolve(tags) },
		Linemodes:  m.linemodes,
		Metadata:   m.metadata,
		Tags:       m.tags,
		CopyBuffer: m.copyBuffer,
		Nav:        navigator{m},
		Ratings:    func(path string) int { return store.Get().Ratings[path] },
		CurrentTab: func() view.Tab { return m.tab() },
		Mode:       m.modeName,
		Now:        now,
	}
	m.buf = screen.New(0, 0)
	m.title = view.NewTitleBar(m.env, nil)
	m.status = view.NewStatusBar(m.env, nil)
	m.rebuildLayout()

	m.filter = textinput.New()
	m.filter.Prompt = ""
	m.filter.CharLimit = 120
	m.info = viewport.New(0, 0)

	m.unsubscribe = store.Subscribe(m.settingsChanged)

	if !opts.DisableWatch {
		m.startWatchers()
	}
	return m, nil
}

// startWatchers starts the directory watcher and, when a settings file is
// configured, the settings watcher. Either may be unavailable; the browser
// then works without live updates.
func (m *Model) startWatchers() {
	if w, err := fsmodel.NewWatcher(m.ctx, 0); err != nil {
		appLog.Warn("directory watcher unavailable", "error", err)
	} else {
		m.dirWatch = w
	}
	if m.configPath == "" {
		return
	}
	if w, err := config.Watch(m.ctx, m.configPath); err != nil {
		appLog.Warn("settings watcher unavailable", "path", m.configPath, "error", err)
	} else {
		m.settingsWatch = w
	}
}

// Close stops the watchers and releases the layout.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.cancel()
	if m.dirWatch != nil {
		if err := m.dirWatch.Close(); err != nil {
			appLog.Warn("close directory watcher", "error", err)
		}
	}
	if m.settingsWatch != nil {
		if err := m.settingsWatch.Close(); err != nil {
			appLog.Warn("close settings watcher", "error", err)
		}
	}
	m.layout.Close()
	m.status.Close()
}

// Init starts the clock and the watcher subscriptions.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{clockTick()}
	if m.dirWatch != nil {
		cmds = append(cmds, m.dirWatch.Wait())
	}
	if m.settingsWatch != nil {
		cmds = append(cmds, waitForSettings(m.settingsWatch))
	}
	return tea.Batch(cmds...)
}

// Update is the Bubble Tea update loop: handle the event, redraw what
// changed into the screen buffer, and start the reads the draw asked for.
//
// Commands queued outside the return path, such as notification expiry
// ticks, are flushed here too. A settings reload keeps the command-line
// view mode when one was given.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		m.handleMouse(msg)
	case fsmodel.DirLoadedMsg, fsmodel.PreviewLoadedMsg:
		m.reg.Apply(msg)
	case fsmodel.ChangedMsg:
		cmds = append(cmds, m.handleChanged(msg))
	case clockTickMsg:
		m.handleClockTick()
		cmds = append(cmds, clockTick())
	case messageExpiredMsg:
		m.status.RequestRedraw()
	case settingsChangedMsg:
		s := msg.settings
		if m.viewMode != "" {
			s.ViewMode = m.viewMode
		}
		m.store.Replace(s)
		cmds = append(cmds, waitForSettings(m.settingsWatch))
	}
	if m.quitting {
		return m, tea.Quit
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	cmds = append(cmds, m.draw())
	return m, tea.Batch(cmds...)
}

// View returns the screen buffer drawn by the last Update.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return m.buf.Render()
}

// draw repaints the dirty widgets and returns the reads they queued.
func (m *Model) draw() tea.Cmd {
	if m.width > 0 && m.height > 0 {
		m.layout.Poke()
		m.layout.Draw()
		main := m.layout.MainColumn()
		m.title.Draw(main)
		m.status.Draw(main)
	}
	m.syncWatches()
	return m.loader.Flush()
}

// resize lays out the screen: title bar on the first row, status bar on the
// last, the columns in between.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.buf.Resize(height, width)
	m.title.Resize(m.buf.Sub(0, 0, 1, width))
	m.status.Resize(m.buf.Sub(height-1, 0, 1, width))
	m.layout.Resize(1, 0, max(0, height-2), width)
}

// rebuildLayout swaps between the miller and multipane layouts according to
// the viewmode setting.
func (m *Model) rebuildLayout() {
	if m.layout != nil {
		m.layout.Close()
	}
	m.layoutMode = m.store.Get().ViewMode
	if m.layoutMode == config.ViewMultipane {
		mp := view.NewMultiPane(m.env, m.buf)
		mp.Rebuild(m.viewTabs(), m.tab())
		m.layout = mp
	} else {
		m.layout = view.NewMiller(m.env, m.buf)
	}
	if m.overlay != overlayNone {
		m.layout.SetOverlay(m.drawOverlay)
	}
	if m.width > 0 && m.height > 0 {
		m.buf.Erase()
		m.resize(m.width, m.height)
	}
}

// redrawAll marks every widget dirty, as after an overlay disappears.
func (m *Model) redrawAll() {
	for _, c := range m.layout.Columns() {
		c.RequestRedraw()
	}
	m.status.RequestRedraw()
	if m.width > 0 && m.height > 0 {
		m.title.Resize(m.buf.Sub(0, 0, 1, m.width))
	}
}

// syncWatches points the directory watcher at the directories on screen.
func (m *Model) syncWatches() {
	if m.dirWatch == nil {
		return
	}
	if m.store.Get().FreezeFiles {
		m.dirWatch.Sync(nil)
		return
	}
	seen := map[string]bool{}
	var paths []string
	for _, c := range m.layout.Columns() {
		d, ok := c.Target().(view.Directory)
		if !ok || d == nil || seen[d.Path()] {
			continue
		}
		seen[d.Path()] = true
		paths = append(paths, d.Path())
	}
	m.dirWatch.Sync(paths)
}

// modeName is what the status bar shows in place of permissions.
func (m *Model) modeName() string {
	if m.mode == modeFilter {
		return "filter"
	}
	return "normal"
}

// settingsChanged applies the parts of a settings change that live outside
// the widgets. It runs on whichever goroutine changed the store, which is
// always Update.
func (m *Model) settingsChanged(s config.Settings) {
	prev := m.applied
	m.applied = s
	if s.ShowHidden != prev.ShowHidden {
		m.reg.SetShowHidden(s.ShowHidden)
	}
	if s.Colorscheme != prev.Colorscheme {
		m.resolver = resolverFor(s.Colorscheme)
		m.redrawAll()
	}
	if s.ViewMode != m.layoutMode {
		m.rebuildLayout()
	}
	if !equalKeybindings(s.Keybindings, prev.Keybindings) {
		m.loadKeybindings(s)
	}
	m.title.Resize(m.buf.Sub(0, 0, 1, m.width))
	m.status.RequestRedraw()
}

// equalKeybindings reports whether two keybinding overrides are the same.
func equalKeybindings(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// resolverFor builds the color resolver for the named scheme, falling back
// to the default scheme for unknown names.
func resolverFor(name string) *colorscheme.Resolver {
	scheme, err := colorscheme.Lookup(name)
	if err != nil {
		appLog.Warn("fall back to default colorscheme", "error", err)
		scheme, _ = colorscheme.Lookup("default")
	}
	return colorscheme.NewResolver(scheme)
}

// tab returns the current tab.
func (m *Model) tab() *fsmodel.Tab {
	return m.tabs[m.current]
}

// viewTabs returns the tabs as the view package sees them.
func (m *Model) viewTabs() []view.Tab {
	out := make([]view.Tab, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = t
	}
	return out
}

// openTab adds a tab at dir after the current one and makes it current.
func (m *Model) openTab(dir string) (*fsmodel.Tab, error) {
	path, err := config.NormalizeStartDir(dir)
	if err != nil {
		return nil, err
	}
	t, err := fsmodel.NewTab(strconv.Itoa(m.nextTabID), m.reg, path)
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}
	m.nextTabID++
	if len(m.tabs) == 0 {
		m.tabs = []*fsmodel.Tab{t}
		m.current = 0
	} else {
		m.tab().Save()
		at := m.current + 1
		m.tabs = append(m.tabs[:at], append([]*fsmodel.Tab{t}, m.tabs[at:]...)...)
		m.current = at
	}
	appLog.Debug("open tab", "id", t.ID(), "path", t.Path())
	return t, nil
}

// closeTab removes the current tab. Closing the last one quits.
func (m *Model) closeTab() {
	if len(m.tabs) <= 1 {
		m.quitting = true
		return
	}
	m.tabs = append(m.tabs[:m.current], m.tabs[m.current+1:]...)
	if m.current >= len(m.tabs) {
		m.current = len(m.tabs) - 1
	}
	m.tab().Restore()
	m.tabsChanged()
}

// switchTab moves delta tabs along the tab list, wrapping at either end.
func (m *Model) switchTab(delta int) {
	n := len(m.tabs)
	m.focusTab(((m.current+delta)%n + n) % n)
}

// focusTab makes tabs[index] current.
//
// Tabs browsing the same directory share one Directory and therefore one
// cursor. The tab losing focus saves that cursor and the tab gaining it
// restores its own, so each tab comes back to the entry it left.
func (m *Model) focusTab(index int) {
	if index == m.current || index < 0 || index >= len(m.tabs) {
		return
	}
	m.tab().Save()
	m.current = index
	m.tab().Restore()
	m.tabsChanged()
}

// tabsChanged refreshes what depends on the tab list.
func (m *Model) tabsChanged() {
	if mp, ok := m.layout.(*view.MultiPane); ok {
		mp.Rebuild(m.viewTabs(), m.tab())
	}
	m.redrawAll()
}

// Tabs returns the path of every tab, in order.
func (m *Model) Tabs() []string {
	out := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		out[i] = t.Path()
	}
	return out
}

// Cwd returns the current tab's directory.
func (m *Model) Cwd() string {
	return filepath.Clean(m.tab().Path())
}
