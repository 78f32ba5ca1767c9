package view

import (
	"hash/fnv"
	"path/filepath"
	"slices"
	"sort"
	"sync/atomic"
	"time"

	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/logging"
)

var log = logging.New("view")

// Column shows one level of a tab: an ancestor directory (level < 0), the
// current directory (level 0) or a preview of the selection (level > 0).
//
// A column only repaints when something it shows has changed since its last
// draw; repeated Draw calls with no change touch nothing.
type Column struct {
	env     *Env
	canvas  Canvas
	surface Surface

	y, x, height, width int

	level         int
	originalLevel int
	tab           Tab

	target     Target
	oldTarget  Target
	oldPointed Entry

	scrollBegin int
	previewTop  int

	needRedraw      bool
	settingsChanged atomic.Bool
	lastRedraw      time.Time

	main        bool
	displayInfo bool
	multipane   bool

	unsubscribe func()
}

// NewColumn creates a column drawing onto canvas. A nil tab makes the
// column follow whichever tab is current.
func NewColumn(env *Env, canvas Canvas, level int, tab Tab) *Column {
	c := &Column{
		env:           env,
		canvas:        canvas,
		level:         level,
		originalLevel: level,
		tab:           tab,
		needRedraw:    true,
	}
	if env.Settings != nil {
		c.unsubscribe = env.Settings.Subscribe(func(config.Settings) {
			c.settingsChanged.Store(true)
		})
	}
	return c
}

// Close releases the settings subscription.
func (c *Column) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Column) Level() int        { return c.level }
func (c *Column) Tab() Tab          { return c.tab }
func (c *Column) Target() Target    { return c.target }
func (c *Column) Main() bool        { return c.main }
func (c *Column) ScrollBegin() int  { return c.scrollBegin }
func (c *Column) NeedsRedraw() bool { return c.needRedraw || c.settingsChanged.Load() }

// Bounds returns the column's position and size on the canvas.
func (c *Column) Bounds() (y, x, height, width int) {
	return c.y, c.x, c.height, c.width
}

// SetMain marks the column holding the selection that commands act on.
func (c *Column) SetMain(main bool) {
	if c.main != main {
		c.main = main
		c.needRedraw = true
	}
}

// SetDisplayInfo enables the size column in directory rows.
func (c *Column) SetDisplayInfo(on bool) {
	if c.displayInfo != on {
		c.displayInfo = on
		c.needRedraw = true
	}
}

func (c *Column) setMultipane(on bool) { c.multipane = on }

// RequestRedraw forces a repaint on the next Draw.
func (c *Column) RequestRedraw() { c.needRedraw = true }

// LevelShift moves the column amount levels away from where it was created.
func (c *Column) LevelShift(amount int) { c.level = c.originalLevel + amount }

// LevelRestore undoes LevelShift.
func (c *Column) LevelRestore() { c.level = c.originalLevel }

// Resize places the column on the canvas.
func (c *Column) Resize(y, x, height, width int) {
	c.y, c.x, c.height, c.width = y, x, height, width
	c.surface = c.canvas.Sub(y, x, height, width)
	c.needRedraw = true
}

// Contains reports whether the screen cell (y, x) lies in the column.
func (c *Column) Contains(y, x int) bool {
	return y >= c.y && y < c.y+c.height && x >= c.x && x < c.x+c.width
}

// Poke refreshes the target from the tab. It runs before every Draw.
func (c *Column) Poke() {
	tab := c.tab
	if tab == nil && c.env.CurrentTab != nil {
		tab = c.env.CurrentTab()
	}
	if tab == nil {
		c.target = nil
		return
	}
	c.target = tab.AtLevel(c.level)
}

// HasPreview reports whether the column would show anything for its target.
func (c *Column) HasPreview() bool {
	s := c.settings()
	switch t := c.target.(type) {
	case nil:
		return false
	case File:
		return s.PreviewFiles && t.HasPreview()
	case Directory:
		return c.level <= 0 || s.PreviewDirectories
	}
	return true
}

func (c *Column) settings() config.Settings {
	if c.env.Settings == nil {
		return config.Default()
	}
	return c.env.Settings.Get()
}

func (c *Column) settingsVersion() uint64 {
	if c.env.Settings == nil {
		return 0
	}
	return c.env.Settings.Version()
}

// Draw repaints the column if it is dirty.
func (c *Column) Draw() {
	if c.surface == nil {
		return
	}
	target := c.target
	if target != c.oldTarget {
		c.needRedraw = true
		c.oldTarget = target
		c.previewTop = 0
	}
	if c.settingsChanged.Swap(false) {
		c.needRedraw = true
	}

	s := c.settings()
	switch t := target.(type) {
	case Directory:
		if c.level <= 0 || s.PreviewDirectories {
			pointed := t.PointedEntry()
			if pointed != c.oldPointed {
				c.oldPointed = pointed
				c.needRedraw = true
			}
			if t.LoadContentIfOutdated() {
				c.needRedraw = true
			}
			if t.SortIfOutdated() {
				c.needRedraw = true
			}
			if c.lastRedraw.Before(t.LastUpdate()) {
				c.needRedraw = true
			}
			if pointed != nil {
				if pointed.LoadIfOutdated() {
					c.needRedraw = true
				}
				if c.lastRedraw.Before(pointed.LastLoad()) {
					c.needRedraw = true
				}
			}
		}
	case File:
		if t.LoadIfOutdated() {
			c.needRedraw = true
		}
		if c.lastRedraw.Before(t.LastLoad()) {
			c.needRedraw = true
		}
	}

	if !c.needRedraw {
		return
	}
	c.surface.Erase()
	switch t := target.(type) {
	case File:
		c.drawFile(t, s)
	case Directory:
		c.drawDirectory(t, s)
	}
	c.needRedraw = false
	c.lastRedraw = c.env.now()
}

func (c *Column) placeholder(text string, tags []string) {
	c.surface.Write(0, 0, SliceWidth(text, c.width), c.env.colors(tags))
}

func (c *Column) drawFile(f File, s config.Settings) {
	if !s.PreviewFiles || !f.HasPreview() {
		return
	}
	if !f.Accessible() {
		c.placeholder("not accessible", []string{"in_browser", "error"})
		return
	}
	p, ok := f.Preview(c.width, c.height)
	if !ok {
		return
	}
	if p.Image {
		c.placeholder("[image] "+filepath.Base(f.Path()), []string{"in_browser", "image"})
		return
	}
	start := clamp(c.previewTop, 0, max(0, len(p.Lines)-1))
	for row := 0; row < c.height && start+row < len(p.Lines); row++ {
		c.surface.WriteANSI(row, 0, p.Lines[start+row])
	}
}

// ScrollPreview moves a file preview by n lines.
func (c *Column) ScrollPreview(n int) {
	if n == 0 {
		return
	}
	c.previewTop = max(0, c.previewTop+n)
	c.needRedraw = true
}

func (c *Column) activePane() (bool, bool) {
	if !c.multipane || c.tab == nil {
		return false, false
	}
	var cur Tab
	if c.env.CurrentTab != nil {
		cur = c.env.CurrentTab()
	}
	return true, cur != nil && cur.ID() == c.tab.ID()
}

func (c *Column) drawDirectory(d Directory, s config.Settings) {
	if c.level > 0 && !s.PreviewDirectories {
		return
	}

	base := []string{"in_browser"}
	paned, active := c.activePane()
	if paned {
		if active {
			base = append(base, "active_pane")
		} else {
			base = append(base, "inactive_pane")
		}
	}

	if !d.ContentLoaded() {
		c.placeholder("...", base)
		return
	}
	if c.main {
		base = append(base, "main_column")
	}
	if !d.Accessible() {
		c.placeholder("not accessible", append(slices.Clone(base), "error"))
		return
	}
	entries := d.Entries()
	if len(entries) == 0 {
		c.placeholder("empty", append(slices.Clone(base), "empty"))
		return
	}

	sel := c.selection(d)
	c.setScrollBegin(sel, len(entries), s)

	selected := sel.Pointer()
	num := NumberingFrom(s)
	numWidth := num.Width(c.scrollBegin, c.height, len(entries), selected)
	composer := RowComposer{Settings: s}
	version := c.settingsVersion()
	cut := c.env.cut()

	for line := 0; line < c.height; line++ {
		i := line + c.scrollBegin
		if i >= len(entries) {
			break
		}
		e := entries[i]

		marker, tagged := c.env.tagMarker(e.Realpath())
		if !tagged {
			marker = " "
		}
		lm, md := c.linemodeFor(e)
		copied := c.env.copied(e.Path())

		sig := Signature{
			Width:           c.width,
			Selected:        i == selected,
			Marked:          e.Marked(),
			MainColumn:      c.main,
			Copied:          copied,
			TagMarker:       marker,
			InfoString:      e.InfoString(),
			VCSStatus:       e.VCSStatus(),
			VCSRemoteStatus: e.VCSRemoteStatus(),
			HasVCSChild:     d.HasVCSChild(),
			CutMode:         cut,
			Linemode:        lm.Name(),
			MetadataHash:    hashMetadata(md),
			ActivePane:      active,
			Numbering:       num.Mode,
			NumberWidth:     numWidth,
			SettingsVersion: version,
		}

		cache := e.RowCache()
		if cache != nil {
			if frags, ok := cache.Get(sig); ok {
				if c.main && num.Enabled() {
					patchLineNumber(frags, num.Format(i, selected, numWidth))
				}
				c.writeRow(line, frags)
				continue
			}
		}

		in := RowInput{
			Entry:         e,
			Index:         i,
			Selected:      selected,
			Width:         c.width,
			NumberWidth:   numWidth,
			Main:          c.main,
			DisplayInfo:   c.displayInfo,
			Linemode:      lm,
			Metadata:      md,
			Tagged:        tagged,
			TagMarker:     marker,
			Copied:        copied,
			Cut:           cut,
			DirVCSTracked: d.VCSTracked(),
			HasVCSChild:   d.HasVCSChild(),
			Rating:        c.env.rating(e.Path()),
		}
		frags := composer.Compose(in)

		rowTags := slices.Concat(base, e.MimeTags(), RowTags(in))
		for k := range frags {
			tags := slices.Concat(rowTags, frags[k].Tags)
			frags[k].Tags = tags
			frags[k].Attr = c.env.colors(tags)
		}
		if cache != nil {
			cache.Put(sig, frags)
		}
		c.writeRow(line, frags)
	}
}

func (c *Column) writeRow(line int, frags []Fragment) {
	col := 0
	for _, f := range frags {
		c.surface.Write(line, col, f.Text, f.Attr)
		col += TextWidth(f.Text)
	}
}

// linemodeFor resolves the entry's linemode, falling back to the default
// when the metadata it needs is missing.
func (c *Column) linemodeFor(e Entry) (Linemode, Metadata) {
	reg := c.env.Linemodes
	lm, ok := reg.Get(e.Linemode())
	if !ok {
		lm = reg.Default()
	}
	var md Metadata
	if lm.UsesMetadata() {
		if c.env.Metadata != nil {
			md = c.env.Metadata.Metadata(e.Path())
		}
		for _, key := range lm.RequiredMetadata() {
			if md[key] == "" {
				lm = reg.Default()
				break
			}
		}
	}
	return lm, md
}

func hashMetadata(md Metadata) uint64 {
	if len(md) == 0 {
		return 0
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := fnv.New64a()
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(md[k]))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// selection returns where the cursor shown over d is kept. A pane whose tab
// is not current keeps its own cursor, since another pane may be browsing
// the same directory.
func (c *Column) selection(d Directory) Selection {
	if paned, active := c.activePane(); paned && !active {
		if s, ok := c.tab.(Selection); ok {
			return s
		}
	}
	return d
}

func (c *Column) setScrollBegin(sel Selection, length int, s config.Settings) {
	c.scrollBegin = ComputeScrollBegin(sel.Pointer(), sel.ScrollBegin(), length, c.height, s.ScrollOffset)
	sel.SetScrollBegin(c.scrollBegin)
}

// MouseButton identifies a pressed button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// MouseEvent is a click or wheel event in screen coordinates. Wheel is
// positive when scrolling down.
type MouseEvent struct {
	Y, X   int
	Button MouseButton
	Wheel  int
}

// Click handles a mouse event inside the column. It returns false when the
// event should be handled elsewhere; events on rows past the end of the
// listing are consumed without effect.
func (c *Column) Click(ev MouseEvent) bool {
	if ev.Button != ButtonLeft && ev.Button != ButtonRight && ev.Wheel == 0 {
		return false
	}
	nav := c.env.Nav

	switch t := c.target.(type) {
	case nil:
	case Directory:
		if !t.Accessible() || !t.ContentLoaded() {
			break
		}
		if paned, active := c.activePane(); paned && !active && ev.Wheel == 0 {
			nav.FocusTab(c.tab.ID())
		}
		index := c.scrollBegin + ev.Y - c.y
		entries := t.Entries()
		switch {
		case ev.Wheel != 0:
			if c.level != -1 {
				return false
			}
			nav.MoveParent(ev.Wheel)
		case ev.Button == ButtonLeft:
			if !c.main {
				nav.EnterDir(t.Path())
			}
			if index >= 0 && index < len(entries) {
				nav.Move(index)
			}
		case ev.Button == ButtonRight:
			if index < 0 || index >= len(entries) {
				break
			}
			clicked := entries[index]
			if clicked.Kind() == KindDir {
				nav.EnterDir(clicked.Path())
			} else if c.level == 0 {
				t.Move(index)
				nav.Open(clicked.Path())
			}
		}
	case File:
		if !t.Regular() {
			if c.level > 0 && ev.Wheel == 0 {
				nav.MoveRight()
			}
			break
		}
		if ev.Button == ButtonRight {
			nav.Open(t.Path())
		} else {
			c.ScrollPreview(ev.Wheel)
		}
	}
	return true
}
