package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/filecols/internal/config"
	"github.com/treykane/filecols/internal/fsmodel"
	"github.com/treykane/filecols/internal/linemode"
	"github.com/treykane/filecols/internal/view"
)

// messageDuration is how long a status bar notification stays up.
const messageDuration = 3 * time.Second

// clockTickMsg fires on each minute boundary so the clock and relative
// times in the status bar stay current.
type clockTickMsg time.Time

// messageExpiredMsg asks for a status bar repaint once a notification has
// timed out.
type messageExpiredMsg struct{}

// settingsChangedMsg carries a settings file reload.
type settingsChangedMsg struct {
	settings config.Settings
}

// clockTick schedules the next clockTickMsg.
func clockTick() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// waitForSettings blocks until the settings watcher delivers a reload.
func waitForSettings(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return settingsChangedMsg{settings: s}
	}
}

// notify shows text in the status bar and schedules the repaint that
// clears it.
func (m *Model) notify(text string, bad bool) {
	m.status.Notify(text, messageDuration, bad)
	m.pending = append(m.pending, tea.Tick(messageDuration, func(time.Time) tea.Msg {
		return messageExpiredMsg{}
	}))
}

// handleChanged marks the changed paths stale so the next draw rereads
// them, then waits for the next batch.
func (m *Model) handleChanged(msg fsmodel.ChangedMsg) tea.Cmd {
	if !m.store.Get().FreezeFiles {
		for _, path := range msg.Paths {
			m.reg.Invalidate(path)
		}
		appLog.Debug("filesystem changed", "paths", len(msg.Paths))
	}
	if m.dirWatch == nil {
		return nil
	}
	return m.dirWatch.Wait()
}

// handleClockTick repaints what shows the time: the status bar clock when
// enabled, and every column when the linemode prints relative times.
func (m *Model) handleClockTick() {
	s := m.store.Get()
	if s.DisplayTimeInStatusBar {
		m.status.RequestRedraw()
	}
	if m.linemode == linemode.HumanReadableMtime || m.linemode == linemode.SizeHumanReadableMtime {
		for _, c := range m.layout.Columns() {
			c.RequestRedraw()
		}
	}
}

// handleMouse converts a Bubble Tea mouse event and hands it to the column
// under the pointer. A wheel turn nobody consumed moves the selection.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.mode != modeBrowse {
		return
	}
	ev, ok := mouseEvent(msg)
	if !ok {
		return
	}
	if m.layout.Click(ev) {
		return
	}
	if ev.Wheel != 0 {
		m.moveBy(ev.Wheel)
	}
}

// mouseEvent converts msg for the view package. Wheel turns are always
// reported; buttons only on press. It returns false for anything else.
func mouseEvent(msg tea.MouseMsg) (view.MouseEvent, bool) {
	ev := view.MouseEvent{Y: msg.Y, X: msg.X}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Wheel = -1
		return ev, true
	case tea.MouseButtonWheelDown:
		ev.Wheel = 1
		return ev, true
	}
	if msg.Action != tea.MouseActionPress {
		return ev, false
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = view.ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = view.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = view.ButtonRight
	default:
		return ev, false
	}
	return ev, true
}
