package app

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/filecols/internal/colorscheme"
	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/view"
)

// handleKey routes key presses based on the current mode.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.shouldIgnoreInput(msg) {
		return nil
	}
	switch m.mode {
	case modeFilter:
		return m.handleFilterKey(msg)
	case modeOverlay:
		return m.handleOverlayKey(msg)
	}
	return m.handleBrowseKey(msg.String())
}

// handleBrowseKey dispatches the action bound to key.
func (m *Model) handleBrowseKey(key string) tea.Cmd {
	col := m.layout.MainColumn()
	switch m.actionForKey(key) {
	case actionQuit:
		m.quitting = true
	case actionCursorUp:
		m.moveBy(-1)
	case actionCursorDown:
		m.moveBy(1)
	case actionPageUp:
		m.moveBy(-m.pageSize())
	case actionPageDown:
		m.moveBy(m.pageSize())
	case actionHalfPageUp:
		m.moveBy(-max(1, m.pageSize()/2))
	case actionHalfPageDown:
		m.moveBy(max(1, m.pageSize()/2))
	case actionJumpTop:
		m.tab().Dir().Move(0)
	case actionJumpBottom:
		d := m.tab().Dir()
		d.Move(len(d.Entries()) - 1)
	case actionWindowTop:
		if col != nil {
			col.MoveTop()
		}
	case actionWindowMid:
		if col != nil {
			col.MoveMid(view.MidWindow)
		}
	case actionWindowBottom:
		if col != nil {
			col.MoveBot()
		}
	case actionScrollDown:
		if col != nil {
			col.Scroll(1)
		}
	case actionScrollUp:
		if col != nil {
			col.Scroll(-1)
		}
	case actionScrollMid:
		if col != nil {
			col.ScrollMid()
		}
	case actionParent:
		m.enterParent()
	case actionEnter:
		navigator{m}.MoveRight()
	case actionParentUp:
		navigator{m}.MoveParent(-1)
	case actionParentDown:
		navigator{m}.MoveParent(1)
	case actionPreviewDown:
		m.scrollPreview(1)
	case actionPreviewUp:
		m.scrollPreview(-1)
	case actionMarkToggle:
		d := m.tab().Dir()
		d.ToggleMark()
		m.moveBy(1)
	case actionMarkClear:
		m.tab().Dir().SetAllMarks(false)
	case actionCopyYank:
		m.fillCopyBuffer(false)
	case actionCopyCut:
		m.fillCopyBuffer(true)
	case actionCopyClear:
		m.copyBuffer.Clear()
		m.redrawAll()
	case actionCopyPath:
		m.copySelectedPathToClipboard()
	case actionFilter:
		m.startFilter()
	case actionTabNew:
		if _, err := m.openTab(m.tab().Path()); err != nil {
			m.setStatusError("Cannot open tab", err)
		} else {
			m.tabsChanged()
		}
	case actionTabClose:
		m.closeTab()
	case actionTabNext:
		m.switchTab(1)
	case actionTabPrev:
		m.switchTab(-1)
	case actionHiddenToggle:
		m.store.Set(func(s *config.Settings) { s.ShowHidden = !s.ShowHidden })
	case actionLinemodeCycle:
		m.linemode = m.linemodes.Next(m.linemode)
		m.reg.SetLinemode(m.linemode)
		m.notify("linemode: "+m.linemode, false)
	case actionNumbersCycle:
		m.store.Set(func(s *config.Settings) { s.LineNumbers = nextNumbering(s.LineNumbers) })
	case actionViewmodeToggle:
		m.viewMode = ""
		m.store.Set(func(s *config.Settings) {
			if s.ViewMode == config.ViewMultipane {
				s.ViewMode = config.ViewMiller
			} else {
				s.ViewMode = config.ViewMultipane
			}
		})
	case actionSchemeCycle:
		next := nextColorscheme(m.store.Get().Colorscheme)
		m.store.Set(func(s *config.Settings) { s.Colorscheme = next })
		m.notify("colorscheme: "+next, false)
	case actionSettingsSave:
		m.saveSettings()
	case actionInfo:
		m.openOverlay(overlayInfo)
	case actionHelp:
		m.openOverlay(overlayHelp)
	case actionRefresh:
		m.refresh()
	}
	return nil
}

// moveBy moves the selection of the current directory by n rows, clamped.
func (m *Model) moveBy(n int) {
	d := m.tab().Dir()
	d.Move(d.Pointer() + n)
}

// pageSize is the height of the main column.
func (m *Model) pageSize() int {
	col := m.layout.MainColumn()
	if col == nil {
		return 1
	}
	_, _, height, _ := col.Bounds()
	return max(1, height)
}

// enterParent leaves the current directory. The parent's selection already
// points at the directory just left.
func (m *Model) enterParent() {
	cwd := m.tab().Path()
	parent := filepath.Dir(cwd)
	if parent == cwd {
		return
	}
	navigator{m}.EnterDir(parent)
}

// scrollPreview scrolls the rightmost column when it shows a file.
func (m *Model) scrollPreview(n int) {
	cols := m.layout.Columns()
	if len(cols) == 0 {
		return
	}
	last := cols[len(cols)-1]
	if _, ok := last.Target().(view.File); ok {
		last.ScrollPreview(n)
	}
}

// fillCopyBuffer queues the marked entries, or the selection when nothing is
// marked.
func (m *Model) fillCopyBuffer(cut bool) {
	d := m.tab().Dir()
	var paths []string
	for _, e := range d.MarkedItems() {
		paths = append(paths, e.Path())
	}
	if len(paths) == 0 {
		if e := d.PointedEntry(); e != nil {
			paths = append(paths, e.Path())
		}
	}
	if len(paths) == 0 {
		return
	}
	m.copyBuffer.Set(paths, cut)
	verb := "Copied"
	if cut {
		verb = "Cut"
	}
	m.notify(fmt.Sprintf("%s %d item(s)", verb, len(paths)), false)
	m.redrawAll()
}

// refresh rereads every directory and the tag file.
func (m *Model) refresh() {
	m.reg.InvalidateAll()
	if err := m.tags.Reload(); err != nil {
		m.setStatusError("Cannot reload tags", err)
		return
	}
	m.redrawAll()
	m.notify("Refreshed", false)
}

// saveSettings writes the live settings to the settings file.
//
// Session state such as the tab list and the selections is not saved, only
// what the settings file can hold. The watcher sees the write and reloads
// the same values.
func (m *Model) saveSettings() {
	if m.configPath == "" {
		m.notify("No settings file configured", true)
		return
	}
	if err := config.Save(m.configPath, m.store.Get()); err != nil {
		m.setStatusError("Cannot save settings", err, "path", m.configPath)
		return
	}
	m.notify("Settings saved", false)
}

// nextNumbering cycles off, absolute, relative.
func nextNumbering(current string) string {
	switch current {
	case config.NumberingOff:
		return config.NumberingAbsolute
	case config.NumberingAbsolute:
		return config.NumberingRelative
	default:
		return config.NumberingOff
	}
}

// nextColorscheme returns the scheme after current in the built-in list,
// wrapping around. An unknown name starts over at the first scheme.
func nextColorscheme(current string) string {
	names := colorscheme.Names()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// startFilter opens the filter prompt on the current directory.
func (m *Model) startFilter() {
	m.mode = modeFilter
	m.filter.SetValue(m.tab().Dir().Filter())
	m.filter.CursorEnd()
	m.filter.Focus()
	m.updateFilterHint()
}

// handleFilterKey edits the filter; the listing narrows on every change.
// Enter keeps the filter, Esc drops it.
func (m *Model) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.endFilter(true)
		return nil
	case "esc", "ctrl+c":
		m.endFilter(false)
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.tab().Dir().SetFilter(m.filter.Value())
	m.updateFilterHint()
	return cmd
}

// endFilter closes the prompt. Unless keep is set the listing is shown
// unfiltered again.
func (m *Model) endFilter(keep bool) {
	if !keep {
		m.tab().Dir().SetFilter("")
	}
	m.filter.Blur()
	m.filter.SetValue("")
	m.mode = modeBrowse
	m.status.SetHint("")
}

func (m *Model) updateFilterHint() {
	m.status.SetHint(fmt.Sprintf("filter: %s   *Enter* keep  *Esc* clear", m.filter.Value()))
}
