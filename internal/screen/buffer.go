// Package screen is the cell grid the renderer paints into. A frame is
// flattened to a string once per Bubble Tea View call.
package screen

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/treykane/filecols/internal/colorscheme"
	"github.com/treykane/filecols/internal/view"
)

type cell struct {
	// text is one rune, or "" for a cell covered by a raw span.
	text string
	attr view.Attr
	// cont marks the right half of a wide rune.
	cont bool
	// raw holds pre-styled text starting at this cell and covering rawWidth cells.
	raw      string
	rawWidth int
}

var blank = cell{text: " "}

// Buffer is a height x width grid of styled cells. It implements view.Canvas.
type Buffer struct {
	height, width int
	rows          [][]cell
}

// New returns an erased buffer.
func New(height, width int) *Buffer {
	b := &Buffer{}
	b.Resize(height, width)
	return b
}

// Resize reallocates the grid. The contents are erased.
func (b *Buffer) Resize(height, width int) {
	b.height, b.width = max(0, height), max(0, width)
	b.rows = make([][]cell, b.height)
	for i := range b.rows {
		b.rows[i] = make([]cell, b.width)
		for j := range b.rows[i] {
			b.rows[i][j] = blank
		}
	}
}

func (b *Buffer) Size() (int, int) { return b.height, b.width }

func (b *Buffer) Erase() {
	b.fill(0, 0, b.height, b.width)
}

func (b *Buffer) fill(y, x, h, w int) {
	for r := max(0, y); r < y+h && r < b.height; r++ {
		for c := max(0, x); c < x+w && c < b.width; c++ {
			b.release(b.rows[r], c)
			b.rows[r][c] = blank
		}
	}
}

func (b *Buffer) Write(row, col int, text string, attr view.Attr) {
	b.write(row, col, b.width, text, attr)
}

// write puts text at (row, col) without crossing column limit.
func (b *Buffer) write(row, col, limit int, text string, attr view.Attr) {
	if row < 0 || row >= b.height || col < 0 {
		return
	}
	limit = min(limit, b.width)
	if col >= limit {
		return
	}
	line := b.rows[row]
	end := min(limit, col+view.TextWidth(text))
	for k := col; k < end; k++ {
		b.release(line, k)
	}
	put(line, col, end, text, attr)
}

// put writes runes into line[col:limit]. A wide rune that would cross the
// limit is replaced by a space.
func put(line []cell, col, limit int, text string, attr view.Attr) {
	for _, r := range text {
		if col >= limit {
			return
		}
		w := view.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > limit {
			line[col] = cell{text: " ", attr: attr}
			return
		}
		line[col] = cell{text: string(r), attr: attr}
		for k := 1; k < w; k++ {
			line[col+k] = cell{attr: attr, cont: true}
		}
		col += w
	}
}

// release prepares cell col for overwriting: a wide rune split by the
// write loses its other half, and a raw span over the cell is flattened to
// plain text so the rest of it stays readable.
func (b *Buffer) release(line []cell, col int) {
	c := line[col]
	switch {
	case c.raw != "":
		flatten(line, col)
	case c.cont:
		if col > 0 && !line[col-1].cont {
			line[col-1] = cell{text: " ", attr: line[col-1].attr}
		}
		line[col] = blank
	case c.text == "":
		for start := col - 1; start >= 0; start-- {
			if line[start].raw != "" {
				flatten(line, start)
				break
			}
		}
	default:
		if col+1 < len(line) && line[col+1].cont {
			line[col+1] = cell{text: " ", attr: c.attr}
		}
	}
}

func flatten(line []cell, start int) {
	c := line[start]
	end := min(len(line), start+c.rawWidth)
	for k := start; k < end; k++ {
		line[k] = blank
	}
	put(line, start, end, ansi.Strip(c.raw), view.Attr{})
}

// WriteANSI places already-styled text. It is clipped to the buffer edge.
func (b *Buffer) WriteANSI(row, col int, text string) {
	b.writeANSI(row, col, b.width, text)
}

func (b *Buffer) writeANSI(row, col, limit int, text string) {
	if row < 0 || row >= b.height || col < 0 {
		return
	}
	limit = min(limit, b.width)
	if col >= limit {
		return
	}
	text = ansi.Truncate(text, limit-col, "")
	w := ansi.StringWidth(text)
	if w == 0 {
		return
	}
	line := b.rows[row]
	for k := col; k < col+w; k++ {
		b.release(line, k)
	}
	for k := col; k < col+w; k++ {
		line[k] = cell{}
	}
	line[col] = cell{raw: text, rawWidth: w}
}

// VLine draws glyph down column col.
func (b *Buffer) VLine(col int, glyph string, attr view.Attr) {
	for r := 0; r < b.height; r++ {
		b.Write(r, col, glyph, attr)
	}
}

// Sub returns a window onto the buffer. Writes through it are offset by
// (y, x) and clipped to its bounds.
func (b *Buffer) Sub(y, x, height, width int) view.Surface {
	return &Region{buf: b, y: y, x: x, height: max(0, height), width: max(0, width)}
}

// Line returns the plain text of a row with trailing blanks removed.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= b.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.rows[row] {
		switch {
		case c.raw != "":
			sb.WriteString(ansi.Strip(c.raw))
		default:
			sb.WriteString(c.text)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

// AttrAt returns the attribute of one cell.
func (b *Buffer) AttrAt(row, col int) view.Attr {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return view.Attr{}
	}
	return b.rows[row][col].attr
}

// Render flattens the grid to terminal output, one line per row. Adjacent
// cells with the same attribute are styled as one run.
func (b *Buffer) Render() string {
	lines := make([]string, b.height)
	for i, row := range b.rows {
		lines[i] = renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func renderRow(row []cell) string {
	var out, run strings.Builder
	var runAttr view.Attr
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runAttr == (view.Attr{}) {
			out.WriteString(run.String())
		} else {
			out.WriteString(colorscheme.Style(runAttr).Render(run.String()))
		}
		run.Reset()
	}
	for _, c := range row {
		switch {
		case c.raw != "":
			flush()
			out.WriteString(c.raw)
			out.WriteString(ansi.ResetStyle)
		case c.text == "":
		default:
			if c.attr != runAttr {
				flush()
				runAttr = c.attr
			}
			run.WriteString(c.text)
		}
	}
	flush()
	return out.String()
}

// Region is a clipped window onto a Buffer.
type Region struct {
	buf                 *Buffer
	y, x, height, width int
}

func (r *Region) Size() (int, int) { return r.height, r.width }

func (r *Region) Erase() {
	r.buf.fill(r.y, r.x, r.height, r.width)
}

func (r *Region) Write(row, col int, text string, attr view.Attr) {
	if row < 0 || row >= r.height || col < 0 {
		return
	}
	r.buf.write(r.y+row, r.x+col, r.x+r.width, text, attr)
}

func (r *Region) WriteANSI(row, col int, text string) {
	if row < 0 || row >= r.height || col < 0 {
		return
	}
	r.buf.writeANSI(r.y+row, r.x+col, r.x+r.width, text)
}

func (r *Region) VLine(col int, glyph string, attr view.Attr) {
	for row := 0; row < r.height; row++ {
		r.Write(row, col, glyph, attr)
	}
}
