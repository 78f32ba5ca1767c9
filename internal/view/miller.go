package view

import "slices"

// Miller shows ancestors on the left, the current directory, and a preview
// of the selection on the right, sized by the column_ratios setting. The
// preview column is folded into the main one when there is nothing to
// preview.
type Miller struct {
	env     *Env
	canvas  Canvas
	surface Surface

	y, x, height, width int

	columns    []*Column
	main       *Column
	preview    *Column
	ratios     []int
	collapsed  bool
	oldBorders string
	overlay    func(Surface)
}

// NewMiller builds the columns for the current column_ratios.
func NewMiller(env *Env, canvas Canvas) *Miller {
	m := &Miller{env: env, canvas: canvas}
	m.rebuild()
	return m
}

func (m *Miller) settingsRatios() []int {
	if m.env.Settings == nil {
		return []int{1, 3, 4}
	}
	s := m.env.Settings.Get()
	m.oldBorders = s.DrawBorders
	if len(s.ColumnRatios) == 0 {
		return []int{1, 3, 4}
	}
	return slices.Clone(s.ColumnRatios)
}

// rebuild creates one column per ratio: ancestors, then level 0, then a
// single preview column at level 1. One ratio means no preview.
func (m *Miller) rebuild() {
	for _, c := range m.columns {
		c.Close()
	}
	m.columns = nil
	m.preview = nil
	m.ratios = m.settingsRatios()

	n := len(m.ratios)
	first := -(n - 2)
	if n == 1 {
		first = 0
	}
	for i := 0; i < n; i++ {
		level := first + i
		c := NewColumn(m.env, m.canvas, level, nil)
		if level == 0 {
			c.SetMain(true)
			c.SetDisplayInfo(true)
			m.main = c
		}
		if level > 0 {
			m.preview = c
		}
		m.columns = append(m.columns, c)
	}
	m.Resize(m.y, m.x, m.height, m.width)
}

// Resize lays the columns out by ratio.
func (m *Miller) Resize(y, x, height, width int) {
	m.y, m.x, m.height, m.width = y, x, height, width
	m.surface = m.canvas.Sub(y, x, height, width)

	visible := m.columns
	ratios := m.ratios
	if m.collapsed && m.preview != nil {
		visible = m.columns[:len(m.columns)-1]
		ratios = ratios[:len(ratios)-1]
	}
	left := 0
	for i, w := range RatioWidths(width, ratios) {
		visible[i].Resize(y, x+left, height, w)
		left += w + 1
	}
	if m.collapsed && m.preview != nil {
		m.preview.Resize(y, x+width, 0, 0)
	}
}

func (m *Miller) Poke() {
	if m.env.Settings != nil {
		s := m.env.Settings.Get()
		if !slices.Equal(s.ColumnRatios, m.ratios) {
			m.rebuild()
		} else if s.DrawBorders != m.oldBorders {
			m.oldBorders = s.DrawBorders
			m.Resize(m.y, m.x, m.height, m.width)
		}
	}
	for _, c := range m.columns {
		c.Poke()
	}
	if m.preview != nil {
		if collapse := !m.preview.HasPreview(); collapse != m.collapsed {
			m.collapsed = collapse
			m.Resize(m.y, m.x, m.height, m.width)
		}
	}
}

// Draw paints the visible columns, separators and overlay.
func (m *Miller) Draw() {
	if m.surface == nil {
		return
	}
	visible := m.visible()
	for _, c := range visible {
		c.Draw()
	}
	if separatorsEnabled(m.oldBorders) {
		drawSeparators(m.env, m.surface, m.x, visible)
	}
	if m.overlay != nil {
		m.overlay(m.surface)
	}
}

func (m *Miller) visible() []*Column {
	if m.collapsed && m.preview != nil {
		return m.columns[:len(m.columns)-1]
	}
	return m.columns
}

func (m *Miller) MainColumn() *Column         { return m.main }
func (m *Miller) Columns() []*Column          { return m.columns }
func (m *Miller) Click(ev MouseEvent) bool    { return clickColumns(m.visible(), ev) }
func (m *Miller) SetOverlay(fn func(Surface)) { m.overlay = fn }

// Close releases every column.
func (m *Miller) Close() {
	for _, c := range m.columns {
		c.Close()
	}
	m.columns = nil
	m.main = nil
	m.preview = nil
}
