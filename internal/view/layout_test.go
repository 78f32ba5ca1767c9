package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/filecols/internal/config"
)

func TestPaneWidthsFillRow(t *testing.T) {
	got := PaneWidths(100, 3)
	assert.Equal(t, []int{32, 32, 34}, got)

	for width := 1; width <= 120; width++ {
		for n := 1; n <= 6; n++ {
			widths := PaneWidths(width, n)
			require.Len(t, widths, n)
			sum := n - 1
			for _, w := range widths {
				if w < 1 {
					t.Fatalf("PaneWidths(%d, %d) = %v has a column below one cell", width, n, widths)
				}
				sum += w
			}
			if width >= 2*n-1 && sum != width {
				t.Fatalf("PaneWidths(%d, %d) = %v spans %d cells", width, n, widths, sum)
			}
		}
	}
	assert.Nil(t, PaneWidths(10, 0))
}

func TestRatioWidths(t *testing.T) {
	assert.Equal(t, []int{12, 36, 50}, RatioWidths(100, []int{1, 3, 4}))
	assert.Equal(t, []int{39, 40}, RatioWidths(80, []int{1, 1}))
	assert.Equal(t, []int{80}, RatioWidths(80, []int{5}))
	assert.Nil(t, RatioWidths(80, nil))
}

func TestSeparatorsEnabled(t *testing.T) {
	for _, v := range []string{"separators", "outline", "both", "true", "Both"} {
		assert.True(t, separatorsEnabled(v), v)
	}
	for _, v := range []string{"none", "false", ""} {
		assert.False(t, separatorsEnabled(v), v)
	}
}

func multiPaneRig(t *testing.T, mutate func(*config.Settings)) (*testRig, *MultiPane, []*fakeTab) {
	t.Helper()
	rig := newRig(5, 41, mutate)
	tabs := []*fakeTab{
		{id: "1", levels: map[int]Target{0: newDir("/one", "a")}},
		{id: "2", levels: map[int]Target{0: newDir("/two", "b")}},
	}
	current := tabs[1]
	rig.env.CurrentTab = func() Tab { return current }

	mp := NewMultiPane(rig.env, rig.canvas)
	mp.Rebuild([]Tab{tabs[0], tabs[1]}, current)
	mp.Resize(0, 0, 5, 41)
	mp.Poke()
	mp.Draw()
	return rig, mp, tabs
}

func TestMultiPaneLayout(t *testing.T) {
	rig, mp, _ := multiPaneRig(t, nil)

	cols := mp.Columns()
	require.Len(t, cols, 2)
	assert.Same(t, cols[1], mp.MainColumn())
	_, x0, _, w0 := cols[0].Bounds()
	_, x1, _, w1 := cols[1].Bounds()
	assert.Equal(t, []int{0, 20, 21, 20}, []int{x0, w0, x1, w1})

	assert.Equal(t, 'a', rig.canvas.cells[0][0])
	assert.Equal(t, '|', rig.canvas.cells[0][20])
	assert.Equal(t, '|', rig.canvas.cells[4][20])
	assert.Equal(t, 'b', rig.canvas.cells[0][21])
	assert.Contains(t, rig.canvas.TagsAt(0, 0), "inactive_pane")
	assert.Contains(t, rig.canvas.TagsAt(0, 21), "active_pane")
	assert.Contains(t, rig.canvas.TagsAt(0, 20), "border")

	assert.True(t, mp.Click(MouseEvent{Y: 0, X: 25, Button: ButtonLeft}))
	assert.Equal(t, []navCall{{op: "move", arg: 0}}, rig.nav.calls)
	assert.False(t, mp.Click(MouseEvent{Y: 9, X: 25, Button: ButtonLeft}))
}

func TestMultiPanePaneKeepsItsOwnCursor(t *testing.T) {
	rig := newRig(5, 41, nil)
	shared := newDir("/shared", "a", "b", "c")
	shared.pointer = 2
	background := &selectingTab{fakeTab: fakeTab{id: "1", levels: map[int]Target{0: shared}}}
	current := &fakeTab{id: "2", levels: map[int]Target{0: shared}}
	rig.env.CurrentTab = func() Tab { return current }

	mp := NewMultiPane(rig.env, rig.canvas)
	mp.Rebuild([]Tab{background, current}, current)
	mp.Resize(0, 0, 5, 41)
	mp.Poke()
	mp.Draw()

	assert.Contains(t, rig.canvas.TagsAt(0, 0), "selected")
	assert.NotContains(t, rig.canvas.TagsAt(2, 0), "selected")
	assert.Contains(t, rig.canvas.TagsAt(2, 21), "selected")
	assert.NotContains(t, rig.canvas.TagsAt(0, 21), "selected")
	if shared.pointer != 2 {
		t.Fatalf("drawing the background pane moved the shared cursor to %d", shared.pointer)
	}
}

func TestMultiPaneClickFocusesPaneFirst(t *testing.T) {
	tests := []struct {
		name string
		ev   MouseEvent
		want []navCall
	}{
		{"left on background pane", MouseEvent{Y: 0, X: 3, Button: ButtonLeft}, []navCall{{op: "focus", path: "1"}, {op: "move", arg: 0}}},
		{"right on background pane", MouseEvent{Y: 0, X: 3, Button: ButtonRight}, []navCall{{op: "focus", path: "1"}, {op: "open", path: "/one/a"}}},
		{"left on current pane", MouseEvent{Y: 0, X: 25, Button: ButtonLeft}, []navCall{{op: "move", arg: 0}}},
		{"wheel on background pane", MouseEvent{Y: 0, X: 3, Wheel: 1}, nil},
	}
	for _, tc := range tests {
		rig, mp, _ := multiPaneRig(t, nil)
		mp.Click(tc.ev)
		if !assert.Equal(t, tc.want, rig.nav.calls) {
			t.Fatalf("%s: unexpected navigation", tc.name)
		}
	}
}

func TestMultiPaneWithoutBorders(t *testing.T) {
	rig, _, _ := multiPaneRig(t, func(s *config.Settings) { s.DrawBorders = "none" })
	assert.Equal(t, ' ', rig.canvas.cells[0][20])
}

func TestMultiPaneRebuildReleasesColumns(t *testing.T) {
	rig, mp, tabs := multiPaneRig(t, nil)
	subs := rig.store.Subscribers()
	mp.Rebuild([]Tab{tabs[0]}, tabs[0])
	assert.Equal(t, subs-1, rig.store.Subscribers())
	require.Len(t, mp.Columns(), 1)
	assert.Same(t, mp.Columns()[0], mp.MainColumn())
	_, _, _, w := mp.MainColumn().Bounds()
	assert.Equal(t, 41, w)

	mp.Close()
	assert.Equal(t, subs-2, rig.store.Subscribers())
}

func millerRig(t *testing.T, preview *fakeFile) (*testRig, *Miller, *fakeTab) {
	t.Helper()
	rig := newRig(5, 80, nil)
	tab := &fakeTab{id: "1", levels: map[int]Target{
		-1: newDir("/", "parent"),
		0:  newDir("/parent", "a"),
		1:  preview,
	}}
	rig.env.CurrentTab = func() Tab { return tab }
	m := NewMiller(rig.env, rig.canvas)
	m.Resize(0, 0, 5, 80)
	m.Poke()
	m.Draw()
	return rig, m, tab
}

func TestMillerLayout(t *testing.T) {
	rig, m, _ := millerRig(t, &fakeFile{path: "/parent/a", preview: Preview{Lines: []string{"hello"}}})

	cols := m.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, []int{-1, 0, 1}, []int{cols[0].Level(), cols[1].Level(), cols[2].Level()})
	assert.Same(t, cols[1], m.MainColumn())

	_, x, _, w := cols[1].Bounds()
	assert.Equal(t, 10, x)
	assert.Equal(t, 29, w)
	assert.Equal(t, 'p', rig.canvas.cells[0][0])
	assert.Equal(t, '|', rig.canvas.cells[0][9])
	assert.Equal(t, 'a', rig.canvas.cells[0][10])
	assert.Equal(t, '|', rig.canvas.cells[0][39])
	assert.Equal(t, "hello", string(rig.canvas.cells[0][40:45]))
}

func TestMillerCollapsesEmptyPreview(t *testing.T) {
	_, m, _ := millerRig(t, &fakeFile{path: "/parent/a", noPrev: true})

	_, x, _, w := m.MainColumn().Bounds()
	assert.Equal(t, 20, x)
	assert.Equal(t, 60, w)
}

func TestMillerRebuildsOnRatioChange(t *testing.T) {
	rig, m, _ := millerRig(t, &fakeFile{path: "/parent/a", preview: Preview{Lines: []string{"x"}}})
	rig.store.Set(func(s *config.Settings) { s.ColumnRatios = []int{1, 1} })
	m.Poke()

	cols := m.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, 0, cols[0].Level())
	assert.Equal(t, 1, cols[1].Level())
	assert.Same(t, cols[0], m.MainColumn())
}

func TestTitleBarShrinksDirectories(t *testing.T) {
	rig := newRig(1, 30, nil)
	dir := newDir("/home/user/projects", "main.go")
	col := rig.column(0, dir)
	tb := NewTitleBar(rig.env, rig.canvas)
	tb.Host = "me@box:"

	tb.Draw(col)
	assert.Equal(t, "me@box:/h/use/projects/main.go", rig.canvas.Line(0))

	writes := rig.canvas.writes
	tb.Draw(col)
	assert.Equal(t, writes, rig.canvas.writes)
}

func TestTitleBarFitsWithoutShrinking(t *testing.T) {
	rig := newRig(1, 40, nil)
	col := rig.column(0, newDir("/tmp", "x"))
	tb := NewTitleBar(rig.env, rig.canvas)
	tb.Host = ""
	tb.Draw(col)
	assert.Equal(t, "/tmp/x", rig.canvas.Line(0))
	assert.Contains(t, rig.canvas.TagsAt(0, 5), "file")
}
