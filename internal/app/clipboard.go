package app

import (
	"github.com/atotto/clipboard"
)

// copySelectedPathToClipboard copies the absolute path of the selected
// entry to the system clipboard.
func (m *Model) copySelectedPathToClipboard() {
	e := m.tab().Pointed()
	if e == nil {
		m.notify("Nothing selected", true)
		return
	}
	if err := writeClipboard(e.Path()); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.notify("Copied path", false)
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll
