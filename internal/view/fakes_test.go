package view

import (
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/filecols/internal/config"
)

type fakeEntry struct {
	path     string
	name     string
	kind     Kind
	link     bool
	missing  bool
	stat     *StatInfo
	size     int64
	info     string
	marked   bool
	vcs      VCSStatus
	remote   VCSRemoteStatus
	tracked  bool
	linemode string
	mime     []string
	cache    *FormatCache
	lastLoad time.Time
}

func newEntry(name string) *fakeEntry {
	return &fakeEntry{
		path:  "/data/" + name,
		name:  name,
		info:  "1 B",
		size:  1,
		cache: NewFormatCache(),
	}
}

func (e *fakeEntry) Path() string                     { return e.path }
func (e *fakeEntry) Name() string                     { return e.name }
func (e *fakeEntry) Realpath() string                 { return e.path }
func (e *fakeEntry) Kind() Kind                       { return e.kind }
func (e *fakeEntry) IsLink() bool                     { return e.link }
func (e *fakeEntry) Exists() bool                     { return !e.missing }
func (e *fakeEntry) Size() int64                      { return e.size }
func (e *fakeEntry) InfoString() string               { return e.info }
func (e *fakeEntry) Marked() bool                     { return e.marked }
func (e *fakeEntry) MimeTags() []string               { return e.mime }
func (e *fakeEntry) VCSStatus() VCSStatus             { return e.vcs }
func (e *fakeEntry) VCSRemoteStatus() VCSRemoteStatus { return e.remote }
func (e *fakeEntry) VCSTracked() bool                 { return e.tracked }
func (e *fakeEntry) Linemode() string                 { return e.linemode }
func (e *fakeEntry) RowCache() *FormatCache           { return e.cache }
func (e *fakeEntry) LastLoad() time.Time              { return e.lastLoad }
func (e *fakeEntry) LoadIfOutdated() bool             { return false }

func (e *fakeEntry) Stat() (StatInfo, bool) {
	if e.stat == nil {
		return StatInfo{}, false
	}
	return *e.stat, true
}

type fakeDir struct {
	path        string
	entries     []Entry
	pointer     int
	scrollBegin int
	unloaded    bool
	denied      bool
	lastUpdate  time.Time
	du          int64
	vcsChild    bool
	vcs         bool
	filter      string
	hidden      int
}

func newDir(path string, names ...string) *fakeDir {
	d := &fakeDir{path: path}
	for _, n := range names {
		e := newEntry(n)
		e.path = strings.TrimSuffix(path, "/") + "/" + n
		d.entries = append(d.entries, e)
	}
	return d
}

func numberedDir(n int) *fakeDir {
	names := make([]string, n)
	for i := range names {
		names[i] = "f" + strings.Repeat("x", i%5) + string(rune('a'+i%26))
	}
	return newDir("/data", names...)
}

func (d *fakeDir) Path() string                { return d.path }
func (d *fakeDir) Entries() []Entry            { return d.entries }
func (d *fakeDir) Pointer() int                { return d.pointer }
func (d *fakeDir) ScrollBegin() int            { return d.scrollBegin }
func (d *fakeDir) SetScrollBegin(n int)        { d.scrollBegin = n }
func (d *fakeDir) ContentLoaded() bool         { return !d.unloaded }
func (d *fakeDir) Accessible() bool            { return !d.denied }
func (d *fakeDir) LastUpdate() time.Time       { return d.lastUpdate }
func (d *fakeDir) DiskUsage() int64            { return d.du }
func (d *fakeDir) LoadContentIfOutdated() bool { return false }
func (d *fakeDir) SortIfOutdated() bool        { return false }
func (d *fakeDir) HasVCSChild() bool           { return d.vcsChild }
func (d *fakeDir) VCSTracked() bool            { return d.vcs }
func (d *fakeDir) Filter() string              { return d.filter }
func (d *fakeDir) HiddenCount() int            { return d.hidden }

func (d *fakeDir) Move(to int) {
	d.pointer = clamp(to, 0, max(0, len(d.entries)-1))
}

func (d *fakeDir) PointedEntry() Entry {
	if len(d.entries) == 0 {
		return nil
	}
	return d.entries[d.pointer]
}

func (d *fakeDir) MarkedItems() []Entry {
	var out []Entry
	for _, e := range d.entries {
		if e.Marked() {
			out = append(out, e)
		}
	}
	return out
}

type fakeFile struct {
	path     string
	denied   bool
	special  bool
	noPrev   bool
	preview  Preview
	lastLoad time.Time
}

func (f *fakeFile) Path() string         { return f.path }
func (f *fakeFile) Accessible() bool     { return !f.denied }
func (f *fakeFile) Regular() bool        { return !f.special }
func (f *fakeFile) HasPreview() bool     { return !f.noPrev }
func (f *fakeFile) LastLoad() time.Time  { return f.lastLoad }
func (f *fakeFile) LoadIfOutdated() bool { return false }

func (f *fakeFile) Preview(width, height int) (Preview, bool) {
	return f.preview, true
}

type fakeTab struct {
	id     string
	levels map[int]Target
}

func (t *fakeTab) ID() string { return t.id }

func (t *fakeTab) AtLevel(level int) Target {
	if target, ok := t.levels[level]; ok {
		return target
	}
	return nil
}

// selectingTab is a tab that keeps its own cursor, the way a tab without
// focus does.
type selectingTab struct {
	fakeTab
	pointer     int
	scrollBegin int
}

func (t *selectingTab) Pointer() int         { return t.pointer }
func (t *selectingTab) ScrollBegin() int     { return t.scrollBegin }
func (t *selectingTab) SetScrollBegin(n int) { t.scrollBegin = n }

type fakeLinemode struct {
	name     string
	info     string
	err      error
	uses     bool
	required []string
}

func (l fakeLinemode) Name() string                        { return l.name }
func (l fakeLinemode) FileTitle(e Entry, _ Metadata) string { return e.Name() }
func (l fakeLinemode) UsesMetadata() bool                  { return l.uses }
func (l fakeLinemode) RequiredMetadata() []string          { return l.required }

func (l fakeLinemode) InfoString(Entry, Metadata) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	return l.info, nil
}

var defaultLinemode = fakeLinemode{name: "filename", err: ErrNoInfoString}

type fakeLinemodes map[string]Linemode

func (r fakeLinemodes) Get(name string) (Linemode, bool) {
	lm, ok := r[name]
	return lm, ok
}

func (r fakeLinemodes) Default() Linemode { return defaultLinemode }

type navCall struct {
	op   string
	arg  int
	path string
}

type fakeNav struct {
	calls []navCall
}

func (n *fakeNav) EnterDir(path string) { n.calls = append(n.calls, navCall{op: "enter", path: path}) }
func (n *fakeNav) Move(to int)          { n.calls = append(n.calls, navCall{op: "move", arg: to}) }
func (n *fakeNav) MoveParent(by int)    { n.calls = append(n.calls, navCall{op: "parent", arg: by}) }
func (n *fakeNav) MoveRight()           { n.calls = append(n.calls, navCall{op: "right"}) }
func (n *fakeNav) Open(path string)     { n.calls = append(n.calls, navCall{op: "open", path: path}) }
func (n *fakeNav) FocusTab(id string)   { n.calls = append(n.calls, navCall{op: "focus", path: id}) }

// gridCanvas records writes in a character grid. Each cell's Fg carries the
// style tags it was drawn with, joined by commas.
type gridCanvas struct {
	height, width int
	cells         [][]rune
	attrs         [][]Attr
	writes        int
}

func newGridCanvas(height, width int) *gridCanvas {
	g := &gridCanvas{height: height, width: width}
	g.cells = make([][]rune, height)
	g.attrs = make([][]Attr, height)
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", width))
		g.attrs[i] = make([]Attr, width)
	}
	return g
}

func (g *gridCanvas) Size() (int, int) { return g.height, g.width }

func (g *gridCanvas) Erase() {
	g.eraseRect(0, 0, g.height, g.width)
}

func (g *gridCanvas) eraseRect(y, x, height, width int) {
	for r := y; r < y+height && r < g.height; r++ {
		for c := x; c < x+width && c < g.width; c++ {
			g.cells[r][c] = ' '
			g.attrs[r][c] = Attr{}
		}
	}
}

func (g *gridCanvas) Write(row, col int, text string, attr Attr) {
	g.put(0, 0, g.height, g.width, row, col, text, attr)
}

func (g *gridCanvas) WriteANSI(row, col int, text string) {
	g.put(0, 0, g.height, g.width, row, col, ansi.Strip(text), Attr{})
}

func (g *gridCanvas) VLine(col int, glyph string, attr Attr) {
	for r := 0; r < g.height; r++ {
		g.put(0, 0, g.height, g.width, r, col, glyph, attr)
	}
}

func (g *gridCanvas) Sub(y, x, height, width int) Surface {
	return &gridRegion{g: g, y: y, x: x, height: height, width: width}
}

func (g *gridCanvas) put(y, x, height, width, row, col int, text string, attr Attr) {
	g.writes++
	if row < 0 || row >= height {
		return
	}
	for _, r := range text {
		w := RuneWidth(r)
		if col >= 0 && col+w <= width && y+row < g.height && x+col < g.width {
			g.cells[y+row][x+col] = r
			g.attrs[y+row][x+col] = attr
		}
		col += w
	}
}

// Line returns row as a string with trailing blanks removed.
func (g *gridCanvas) Line(row int) string {
	return strings.TrimRight(string(g.cells[row]), " ")
}

// TagsAt returns the style tags of the cell at (row, col).
func (g *gridCanvas) TagsAt(row, col int) []string {
	if g.attrs[row][col].Fg == "" {
		return nil
	}
	return strings.Split(g.attrs[row][col].Fg, ",")
}

type gridRegion struct {
	g                   *gridCanvas
	y, x, height, width int
}

func (r *gridRegion) Size() (int, int) { return r.height, r.width }
func (r *gridRegion) Erase()           { r.g.eraseRect(r.y, r.x, r.height, r.width) }

func (r *gridRegion) Write(row, col int, text string, attr Attr) {
	r.g.put(r.y, r.x, r.height, r.width, row, col, text, attr)
}

func (r *gridRegion) WriteANSI(row, col int, text string) {
	r.g.put(r.y, r.x, r.height, r.width, row, col, ansi.Strip(text), Attr{})
}

func (r *gridRegion) VLine(col int, glyph string, attr Attr) {
	for row := 0; row < r.height; row++ {
		r.g.put(r.y, r.x, r.height, r.width, row, col, glyph, attr)
	}
}

func tagColors(tags []string) Attr {
	return Attr{Fg: strings.Join(tags, ",")}
}

type testRig struct {
	store  *config.Store
	env    *Env
	nav    *fakeNav
	canvas *gridCanvas
	now    time.Time
}

func newRig(height, width int, mutate func(*config.Settings)) *testRig {
	s := config.Default()
	s.DisplayFreeSpaceInStatusBar = false
	if mutate != nil {
		mutate(&s)
	}
	rig := &testRig{
		store:  config.NewStore(s),
		nav:    &fakeNav{},
		canvas: newGridCanvas(height, width),
		now:    time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC),
	}
	rig.env = &Env{
		Settings:  rig.store,
		Colors:    tagColors,
		Linemodes: fakeLinemodes{"filename": defaultLinemode},
		Nav:       rig.nav,
		Now:       func() time.Time { return rig.now },
	}
	return rig
}

// column returns a column at level showing target, placed over the canvas.
func (r *testRig) column(level int, target Target) *Column {
	tab := &fakeTab{id: "1", levels: map[int]Target{level: target}}
	c := NewColumn(r.env, r.canvas, level, tab)
	if level == 0 {
		c.SetMain(true)
		c.SetDisplayInfo(true)
	}
	c.Resize(0, 0, r.canvas.height, r.canvas.width)
	c.Poke()
	return c
}
