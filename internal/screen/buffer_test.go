package screen

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/filecols/internal/view"
)

var _ view.Canvas = (*Buffer)(nil)

func pinProfile(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func TestWriteClipsToEdge(t *testing.T) {
	b := New(2, 5)
	b.Write(0, 2, "abcdef", view.Attr{})
	b.Write(1, -1, "zz", view.Attr{})
	b.Write(7, 0, "zz", view.Attr{})
	assert.Equal(t, "  abc", b.Line(0))
	assert.Equal(t, "", b.Line(1))

	h, w := b.Size()
	assert.Equal(t, []int{2, 5}, []int{h, w})
}

func TestWideRunes(t *testing.T) {
	b := New(1, 3)
	b.Write(0, 0, "日本", view.Attr{})
	assert.Equal(t, "日", b.Line(0))

	b.Write(0, 1, "x", view.Attr{})
	assert.Equal(t, " x", b.Line(0))

	b.Erase()
	b.Write(0, 1, "日", view.Attr{})
	b.Write(0, 0, "ab", view.Attr{})
	assert.Equal(t, "ab", b.Line(0))
}

func TestRegionOffsetsAndClips(t *testing.T) {
	b := New(4, 10)
	b.Write(1, 0, "0123456789", view.Attr{})
	r := b.Sub(1, 2, 2, 3)

	rh, rw := r.Size()
	assert.Equal(t, []int{2, 3}, []int{rh, rw})

	r.Erase()
	assert.Equal(t, "01   56789", b.Line(1))

	r.Write(0, 0, "abcdef", view.Attr{})
	r.Write(1, 1, "x", view.Attr{})
	r.Write(2, 0, "hidden", view.Attr{})
	assert.Equal(t, "01abc56789", b.Line(1))
	assert.Equal(t, "   x", b.Line(2))
	assert.Equal(t, "", b.Line(3))

	r.VLine(2, "|", view.Attr{Fg: "4"})
	assert.Equal(t, "01ab|56789", b.Line(1))
	assert.Equal(t, "   x|", b.Line(2))
	assert.Equal(t, view.Attr{Fg: "4"}, b.AttrAt(2, 4))
}

func TestVLine(t *testing.T) {
	b := New(3, 4)
	b.VLine(1, "|", view.Attr{})
	for row := 0; row < 3; row++ {
		if got := b.Line(row); got != " |" {
			t.Fatalf("Line(%d) = %q, want %q", row, got, " |")
		}
	}
}

func TestWriteANSI(t *testing.T) {
	b := New(1, 10)
	b.WriteANSI(0, 1, "\x1b[31mred\x1b[0m")
	assert.Equal(t, " red", b.Line(0))
	assert.Contains(t, b.Render(), "\x1b[31mred")
	assert.Equal(t, " red      ", ansi.Strip(b.Render()))

	b.Write(0, 2, "X", view.Attr{})
	assert.Equal(t, " rXd", b.Line(0))
	assert.NotContains(t, b.Render(), "\x1b[31m")

	b = New(1, 5)
	b.WriteANSI(0, 3, "\x1b[1mhello\x1b[0m")
	assert.Equal(t, "   he", b.Line(0))
	assert.Equal(t, 5, ansi.StringWidth(b.Render()))

	r := New(1, 8)
	sub := r.Sub(0, 2, 1, 3)
	sub.WriteANSI(0, 0, "\x1b[32mgreen\x1b[0m")
	assert.Equal(t, "  gre", r.Line(0))
	sub.Erase()
	assert.Equal(t, "", r.Line(0))
}

func TestRenderGroupsRuns(t *testing.T) {
	pinProfile(t)
	b := New(2, 6)
	b.Write(0, 0, "ab", view.Attr{Fg: "1"})
	b.Write(0, 2, "cd", view.Attr{Fg: "1"})
	b.Write(0, 4, "ef", view.Attr{})

	out := b.Render()
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, 1, strings.Count(lines[0], "\x1b[31m"), lines[0])
	assert.Contains(t, lines[0], "abcd")
	assert.Equal(t, "abcdef", ansi.Strip(lines[0]))
	assert.Equal(t, "      ", lines[1])
}
