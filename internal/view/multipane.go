package view

// MultiPane shows one column per tab side by side, each at level 0 of its
// own tab. The current tab's column is the main one.
type MultiPane struct {
	env     *Env
	canvas  Canvas
	surface Surface

	y, x, height, width int

	columns    []*Column
	main       *Column
	oldBorders string
	overlay    func(Surface)
}

// NewMultiPane returns an empty layout; call Rebuild to add columns.
func NewMultiPane(env *Env, canvas Canvas) *MultiPane {
	m := &MultiPane{env: env, canvas: canvas}
	if env.Settings != nil {
		m.oldBorders = env.Settings.Get().DrawBorders
	}
	return m
}

// Rebuild discards the columns and creates one per tab.
func (m *MultiPane) Rebuild(tabs []Tab, current Tab) {
	for _, c := range m.columns {
		c.Close()
	}
	// A click may rebuild the panes while the old slice is being walked.
	m.columns = nil
	m.main = nil

	for _, tab := range tabs {
		c := NewColumn(m.env, m.canvas, 0, tab)
		c.SetMain(true)
		c.SetDisplayInfo(true)
		c.setMultipane(true)
		if current != nil && tab.ID() == current.ID() {
			m.main = c
		}
		m.columns = append(m.columns, c)
	}
	if m.main == nil && len(m.columns) > 0 {
		m.main = m.columns[0]
	}
	m.Resize(m.y, m.x, m.height, m.width)
}

// Resize splits the width evenly and marks every column dirty.
func (m *MultiPane) Resize(y, x, height, width int) {
	m.y, m.x, m.height, m.width = y, x, height, width
	m.surface = m.canvas.Sub(y, x, height, width)
	left := 0
	for i, w := range PaneWidths(width, len(m.columns)) {
		m.columns[i].Resize(y, x+left, height, w)
		left += w + 1
	}
}

func (m *MultiPane) Poke() {
	if m.env.Settings != nil {
		if b := m.env.Settings.Get().DrawBorders; b != m.oldBorders {
			m.oldBorders = b
			m.Resize(m.y, m.x, m.height, m.width)
		}
	}
	for _, c := range m.columns {
		c.Poke()
	}
}

// Draw paints the columns, the separators between them and the overlay.
func (m *MultiPane) Draw() {
	if m.surface == nil {
		return
	}
	for _, c := range m.columns {
		c.Draw()
	}
	if separatorsEnabled(m.oldBorders) {
		drawSeparators(m.env, m.surface, m.x, m.columns)
	}
	if m.overlay != nil {
		m.overlay(m.surface)
	}
}

func (m *MultiPane) MainColumn() *Column         { return m.main }
func (m *MultiPane) Columns() []*Column          { return m.columns }
func (m *MultiPane) Click(ev MouseEvent) bool    { return clickColumns(m.columns, ev) }
func (m *MultiPane) SetOverlay(fn func(Surface)) { m.overlay = fn }

// Close releases every column.
func (m *MultiPane) Close() {
	for _, c := range m.columns {
		c.Close()
	}
	m.columns = nil
	m.main = nil
}
