package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/treykane/filecols/internal/logging"
	"github.com/treykane/filecols/internal/view"
)

// overlayMode selects the full-screen text shown over the columns.
type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayHelp
	overlayInfo
)

// openOverlay activates one overlay and ensures any previous overlay state is cleaned up.
func (m *Model) openOverlay(mode overlayMode) {
	if m.overlay == mode {
		return
	}
	m.closeOverlay()
	m.overlay = mode
	m.mode = modeOverlay
	m.info.GotoTop()
	m.layout.SetOverlay(m.drawOverlay)
}

// closeOverlay dismisses the active overlay and repaints what it covered.
func (m *Model) closeOverlay() {
	if m.overlay == overlayNone {
		return
	}
	m.overlay = overlayNone
	m.mode = modeBrowse
	m.layout.SetOverlay(nil)
	m.buf.Erase()
	m.redrawAll()
}

func (m *Model) isOverlay(mode overlayMode) bool {
	return m.overlay == mode
}

// handleOverlayKey closes the overlay or scrolls it.
func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); {
	case key == "esc" || key == "q":
		m.closeOverlay()
		return nil
	case m.isOverlay(overlayHelp) && m.actionForKey(key) == actionHelp,
		m.isOverlay(overlayInfo) && m.actionForKey(key) == actionInfo:
		m.closeOverlay()
		return nil
	}
	var cmd tea.Cmd
	m.info, cmd = m.info.Update(msg)
	return cmd
}

// overlayTitle is the heading drawn above the overlay text.
func (m *Model) overlayTitle() string {
	if m.overlay == overlayHelp {
		return "Keys"
	}
	return "Info"
}

// overlayLines returns the text of the open overlay: the key list or the
// info about the selection.
func (m *Model) overlayLines() []string {
	if m.overlay == overlayHelp {
		return m.helpLines()
	}
	return m.infoLines()
}

// infoLines summarizes the session followed by the most recent log lines.
func (m *Model) infoLines() []string {
	lines := []string{
		fmt.Sprintf("tabs: %d (current %s)", len(m.tabs), m.tab().Path()),
		fmt.Sprintf("loaded directories: %d", len(m.reg.LoadedDirs())),
		fmt.Sprintf("copy buffer: %d item(s)", m.copyBuffer.Len()),
		fmt.Sprintf("tags: %d", m.tags.Len()),
		"linemode: " + m.linemode,
	}
	if m.dirWatch != nil {
		lines = append(lines, fmt.Sprintf("watched directories: %d", len(m.dirWatch.Watched())))
	}
	if usage := m.tab().Dir().DiskUsage(); usage > 0 {
		lines = append(lines, "disk usage: "+humanize.IBytes(uint64(usage)))
	}
	lines = append(lines, "", "log:")
	return append(lines, logging.Recent()...)
}

// drawOverlay paints a bordered box centered on the layout surface.
func (m *Model) drawOverlay(surface view.Surface) {
	height, width := surface.Size()
	boxWidth := min(width, max(24, width*3/4))
	boxHeight := min(height, max(6, height*3/4))
	inner := max(1, boxWidth-4)

	lines := m.overlayLines()
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner, "…")
	}
	m.info.Width = inner
	m.info.Height = max(1, boxHeight-3)
	m.info.SetContent(strings.Join(lines, "\n"))

	body := titleStyle.Render(m.overlayTitle()) + "\n" + m.info.View()
	box := strings.Split(popupStyle.Width(boxWidth-2).Render(body), "\n")
	top := max(0, (height-len(box))/2)
	left := max(0, (width-boxWidth)/2)
	for i, line := range box {
		surface.WriteANSI(top+i, left, line)
	}
}
